package recipe

import (
	"os"
	"path/filepath"
)

func writeRaw(dir, name, text string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644)
}
