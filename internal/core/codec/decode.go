// Package codec 食譜純文字格式的解碼與編碼
//
// 格式由空白分隔的字詞組成，依序為標題、資訊區塊、食材區塊、做法區塊與標籤區塊：
//
//	( Pancakes )
//	4 , 0 : 10 , 0 : 20
//	<start> ( 200 gram flour ) ( 2 each eggs ) <stop>
//	<start> # 1 whisk everything # <stop>
//	<tagOpen> ( BREAKFAST ) <tagClose>
package codec

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"recipe-book/internal/core/model"
)

// ErrParse 所有解碼錯誤的共同哨兵
var ErrParse = errors.New("malformed recipe document")

// ParseError 解碼失敗，帶有出錯的字詞與位置
type ParseError struct {
	Token  string
	Line   int
	Column int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse error near %q: %s", e.Token, e.Reason)
	}
	return fmt.Sprintf("parse error at %d:%d near %q: %s", e.Line, e.Column, e.Token, e.Reason)
}

// Unwrap 同時支援 errors.Is(err, ErrParse) 與原始錯誤（例如 *model.UnitError）
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

var (
	decimalPattern = regexp.MustCompile(`^([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
	integerPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Decode 將文字解碼為食譜；任何錯誤都回傳 *ParseError，不會回傳部分結果
func Decode(text string) (*model.Recipe, error) {
	p := &parser{tokens: tokenize(text)}
	return p.recipe()
}

// DecodeReader 讀取全部內容後解碼
func DecodeReader(r io.Reader) (*model.Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(string(data))
}

type parser struct {
	tokens []token
	pos    int
	// last 最後一個被讀取的字詞，用於輸入提早結束時的位置
	last token
}

func (p *parser) next() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{text: tokEOF, line: p.last.line, column: p.last.column}, false
	}
	t := p.tokens[p.pos]
	p.pos++
	p.last = t
	return t, true
}

func (p *parser) fail(t token, format string, args ...any) *ParseError {
	return &ParseError{Token: t.text, Line: t.line, Column: t.column, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(want string) error {
	t, _ := p.next()
	if t.text != want {
		return p.fail(t, "expected %q", want)
	}
	return nil
}

// words 讀取字詞直到 closing，回傳以單一空白連接的文字與結束符號
func (p *parser) words(closing string) (string, token, error) {
	var parts []string
	for {
		t, ok := p.next()
		if !ok {
			return "", t, p.fail(t, "missing closing %q", closing)
		}
		if t.text == closing {
			return strings.Join(parts, " "), t, nil
		}
		parts = append(parts, t.text)
	}
}

func (p *parser) integer(what string) (int, token, error) {
	t, _ := p.next()
	if !integerPattern.MatchString(t.text) {
		return 0, t, p.fail(t, "expected non-negative integer for %s", what)
	}
	n, err := strconv.Atoi(t.text)
	if err != nil {
		pe := p.fail(t, "%s out of range", what)
		pe.Err = err
		return 0, t, pe
	}
	return n, t, nil
}

func (p *parser) amount() (float64, error) {
	t, _ := p.next()
	if !decimalPattern.MatchString(t.text) {
		return 0, p.fail(t, "expected non-negative decimal amount")
	}
	v, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		pe := p.fail(t, "amount out of range")
		pe.Err = err
		return 0, pe
	}
	return v, nil
}

func (p *parser) recipe() (*model.Recipe, error) {
	if err := p.expect(tokOpen); err != nil {
		return nil, err
	}
	title, closeTok, err := p.words(tokClose)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, p.fail(closeTok, "empty title")
	}

	info, err := p.infoBlock()
	if err != nil {
		return nil, err
	}
	ingredients, err := p.ingredientBlock()
	if err != nil {
		return nil, err
	}
	method, err := p.methodBlock()
	if err != nil {
		return nil, err
	}
	tags, err := p.tagBlock()
	if err != nil {
		return nil, err
	}
	if t, ok := p.next(); ok {
		return nil, p.fail(t, "unexpected token after %q", tokTagClose)
	}

	r, err := model.NewRecipe(title, ingredients, method, info, tags)
	if err != nil {
		pe := p.fail(p.last, "invalid recipe: %v", err)
		pe.Err = err
		return nil, pe
	}
	return r, nil
}

// infoBlock 讀取 "<serves> , <h> : <m> , <h> : <m>"
func (p *parser) infoBlock() (model.InfoBlock, error) {
	serves, servesTok, err := p.integer("serves")
	if err != nil {
		return model.InfoBlock{}, err
	}
	if serves < 1 {
		return model.InfoBlock{}, p.fail(servesTok, "serves must be at least 1")
	}
	if err := p.expect(tokComma); err != nil {
		return model.InfoBlock{}, err
	}
	prep, err := p.duration("prep")
	if err != nil {
		return model.InfoBlock{}, err
	}
	if err := p.expect(tokComma); err != nil {
		return model.InfoBlock{}, err
	}
	cook, err := p.duration("cook")
	if err != nil {
		return model.InfoBlock{}, err
	}
	return model.InfoBlock{Serves: serves, PrepTime: prep, CookTime: cook}, nil
}

func (p *parser) duration(what string) (time.Duration, error) {
	hours, hoursTok, err := p.integer(what + " hours")
	if err != nil {
		return 0, err
	}
	if int64(hours) > int64(model.MaxDuration/time.Hour) {
		return 0, p.fail(hoursTok, "%s hours exceed the maximum of %d", what, int64(model.MaxDuration/time.Hour))
	}
	if err := p.expect(tokColon); err != nil {
		return 0, err
	}
	minutes, minutesTok, err := p.integer(what + " minutes")
	if err != nil {
		return 0, err
	}
	if int64(minutes) > int64(model.MaxDuration/time.Minute) {
		return 0, p.fail(minutesTok, "%s minutes exceed the maximum of %d", what, int64(model.MaxDuration/time.Minute))
	}
	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if d > model.MaxDuration {
		return 0, p.fail(minutesTok, "%s time exceeds the maximum of %d minutes", what, int64(model.MaxDuration/time.Minute))
	}
	return d, nil
}

func (p *parser) ingredientBlock() ([]model.Ingredient, error) {
	if err := p.expect(tokStart); err != nil {
		return nil, err
	}
	var out []model.Ingredient
	for {
		t, _ := p.next()
		switch t.text {
		case tokStop:
			return out, nil
		case tokOpen:
			ing, err := p.ingredient()
			if err != nil {
				return nil, err
			}
			out = append(out, ing)
		default:
			return nil, p.fail(t, "expected %q or %q in ingredient block", tokOpen, tokStop)
		}
	}
}

func (p *parser) ingredient() (model.Ingredient, error) {
	amount, err := p.amount()
	if err != nil {
		return model.Ingredient{}, err
	}
	unitTok, ok := p.next()
	if !ok {
		return model.Ingredient{}, p.fail(unitTok, "missing measurement unit")
	}
	unit, err := model.UnitFromToken(unitTok.text)
	if err != nil {
		pe := p.fail(unitTok, "unrecognized measurement unit")
		pe.Err = err
		return model.Ingredient{}, pe
	}
	name, closeTok, err := p.words(tokClose)
	if err != nil {
		return model.Ingredient{}, err
	}
	if name == "" {
		return model.Ingredient{}, p.fail(closeTok, "missing ingredient name")
	}
	return model.Ingredient{Measurement: model.Measurement{Amount: amount, Unit: unit}, Name: name}, nil
}

func (p *parser) methodBlock() (model.Method, error) {
	var m model.Method
	if err := p.expect(tokStart); err != nil {
		return m, err
	}
	for {
		t, _ := p.next()
		switch t.text {
		case tokStop:
			return m, nil
		case tokStepMark:
			s, err := p.step()
			if err != nil {
				return m, err
			}
			m.AddStep(s)
		default:
			return m, p.fail(t, "expected %q or %q in method block", tokStepMark, tokStop)
		}
	}
}

func (p *parser) step() (model.Step, error) {
	ordinal, ordTok, err := p.integer("step number")
	if err != nil {
		return model.Step{}, err
	}
	if ordinal < 1 {
		return model.Step{}, p.fail(ordTok, "step number must be at least 1")
	}
	text, closeTok, err := p.words(tokStepMark)
	if err != nil {
		return model.Step{}, err
	}
	if text == "" {
		return model.Step{}, p.fail(closeTok, "missing step text")
	}
	return model.Step{Text: text, Ordinal: ordinal}, nil
}

func (p *parser) tagBlock() ([]string, error) {
	if err := p.expect(tokTagOpen); err != nil {
		return nil, err
	}
	var tags []string
	for {
		t, _ := p.next()
		switch t.text {
		case tokTagClose:
			return tags, nil
		case tokOpen:
			tag, closeTok, err := p.words(tokClose)
			if err != nil {
				return nil, err
			}
			if tag == "" {
				return nil, p.fail(closeTok, "empty tag")
			}
			tags = append(tags, strings.ToUpper(tag))
		default:
			return nil, p.fail(t, "expected %q or %q in tag block", tokOpen, tokTagClose)
		}
	}
}
