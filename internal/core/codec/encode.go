package codec

import (
	"io"
	"strconv"
	"strings"
	"time"

	"recipe-book/internal/core/model"
)

// Encode 將食譜編碼為文字，每個區段一行；Decode(Encode(r)) 與 r 相等
func Encode(r *model.Recipe) string {
	var b strings.Builder

	b.WriteString(tokOpen + " " + r.Name + " " + tokClose + "\n")

	b.WriteString(strconv.Itoa(r.Info.Serves))
	b.WriteString(" " + tokComma + " " + clock(r.Info.PrepTime))
	b.WriteString(" " + tokComma + " " + clock(r.Info.CookTime) + "\n")

	b.WriteString(tokStart)
	for _, ing := range r.Ingredients {
		b.WriteString(" " + tokOpen + " " + ing.Measurement.FileFormat() + " " + ing.Name + " " + tokClose)
	}
	b.WriteString(" " + tokStop + "\n")

	b.WriteString(tokStart)
	for _, s := range r.Method.Steps {
		b.WriteString(" " + tokStepMark + " " + strconv.Itoa(s.Ordinal) + " " + s.Text + " " + tokStepMark)
	}
	b.WriteString(" " + tokStop + "\n")

	b.WriteString(tokTagOpen)
	for _, t := range r.Tags {
		b.WriteString(" " + tokOpen + " " + t + " " + tokClose)
	}
	b.WriteString(" " + tokTagClose + "\n")

	return b.String()
}

// EncodeWriter 將編碼結果寫入 w
func EncodeWriter(w io.Writer, r *model.Recipe) error {
	_, err := io.WriteString(w, Encode(r))
	return err
}

// clock 以 "<時> : <分>" 表示時間長度
func clock(d time.Duration) string {
	minutes := int(d / time.Minute)
	return strconv.Itoa(minutes/60) + " " + tokColon + " " + strconv.Itoa(minutes%60)
}
