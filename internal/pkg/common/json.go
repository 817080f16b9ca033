package common

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeJSONStrict 解析單一 JSON 物件，禁止未知欄位與多餘資料
func DecodeJSONStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}
