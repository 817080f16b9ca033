package codec

import (
	"fmt"
	"os"
	"path/filepath"

	"recipe-book/internal/core/model"
)

// FileExt 食譜檔案的副檔名
const FileExt = ".recipe"

// ReadFile 讀取整個檔案後解碼；I/O 錯誤原樣回傳
func ReadFile(path string) (*model.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := DecodeReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// WriteFile 先寫入同目錄的暫存檔，再以 rename 取代目標檔
func WriteFile(path string, r *model.Recipe) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = EncodeWriter(tmp, r); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
