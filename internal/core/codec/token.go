package codec

import (
	"unicode"
	"unicode/utf8"
)

// 檔案格式的固定符號
const (
	tokOpen     = "("
	tokClose    = ")"
	tokComma    = ","
	tokColon    = ":"
	tokStart    = "<start>"
	tokStop     = "<stop>"
	tokStepMark = "#"
	tokTagOpen  = "<tagOpen>"
	tokTagClose = "<tagClose>"

	// tokEOF 讀到輸入結尾時在錯誤中顯示的符號
	tokEOF = "EOF"
)

// token 以空白分隔的字詞及其位置
type token struct {
	text   string
	line   int
	column int
}

// tokenize 單次掃描，將輸入切成空白分隔的字詞，行與列從 1 起算
func tokenize(src string) []token {
	var (
		tokens []token
		line   = 1
		col    = 1
		start  = -1
		tl, tc int
	)
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{text: src[start:i], line: tl, column: tc})
				start = -1
			}
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			i += size
			continue
		}
		if start < 0 {
			start, tl, tc = i, line, col
		}
		col++
		i += size
	}
	if start >= 0 {
		tokens = append(tokens, token{text: src[start:], line: tl, column: tc})
	}
	return tokens
}
