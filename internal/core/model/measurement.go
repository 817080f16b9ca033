// Package model 食譜文件的資料型別：度量、食材、步驟、資訊區塊與食譜
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"recipe-book/internal/pkg/common"
)

// Unit 標準度量單位
type Unit int

const (
	Gram Unit = iota
	Kilogram
	Milligram
	Litre
	Millilitre
	Cup
	Teaspoon
	Tablespoon
	Each
)

var unitTokens = [...]string{
	Gram:       "gram",
	Kilogram:   "kilogram",
	Milligram:  "milligram",
	Litre:      "litre",
	Millilitre: "millilitre",
	Cup:        "cup",
	Teaspoon:   "teaspoon",
	Tablespoon: "tablespoon",
	Each:       "each",
}

// ErrUnknownUnit 單位字串無法對應到任何標準單位
var ErrUnknownUnit = errors.New("unknown measurement unit")

// UnitError 單位轉換失敗
type UnitError struct {
	Token string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unknown measurement unit %q", e.Token)
}

// Unwrap 讓 errors.Is(err, ErrUnknownUnit) 成立
func (e *UnitError) Unwrap() error {
	return ErrUnknownUnit
}

// UnitFromToken 將外部小寫單位字串轉為標準單位
func UnitFromToken(token string) (Unit, error) {
	for u, t := range unitTokens {
		if t == token {
			return Unit(u), nil
		}
	}
	return 0, &UnitError{Token: token}
}

// Units 依宣告順序回傳全部單位，供選單使用
func Units() []Unit {
	out := make([]Unit, len(unitTokens))
	for i := range unitTokens {
		out[i] = Unit(i)
	}
	return out
}

// Valid 是否為已知單位
func (u Unit) Valid() bool {
	return u >= Gram && u <= Each
}

// Token 回傳檔案格式與選單使用的外部字串
func (u Unit) Token() string {
	if !u.Valid() {
		return "unit(" + strconv.Itoa(int(u)) + ")"
	}
	return unitTokens[u]
}

func (u Unit) String() string {
	return u.Token()
}

// Measurement 數量加上單位
type Measurement struct {
	Amount float64
	Unit   Unit
}

// NewMeasurement 創建度量；數量必須為非負有限數
func NewMeasurement(amount float64, unit Unit) (Measurement, error) {
	if err := validateAmount(amount); err != nil {
		return Measurement{}, err
	}
	if !unit.Valid() {
		return Measurement{}, &UnitError{Token: unit.Token()}
	}
	return Measurement{Amount: amount, Unit: unit}, nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return common.NewFieldError("amount", "must be a finite number")
	}
	if amount < 0 {
		return common.NewFieldError("amount", "must not be negative, got %s", FormatAmount(amount))
	}
	return nil
}

// AddAmount 累加數量，單位不變；只供購物清單彙總使用
func (m *Measurement) AddAmount(delta float64) {
	m.Amount += delta
}

// FormatAmount 整數不帶小數點，其餘以最短且精確的十進位表示
func FormatAmount(amount float64) string {
	if amount == math.Trunc(amount) && math.Abs(amount) < 1e15 {
		return strconv.FormatInt(int64(amount), 10)
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// String 顯示用格式，例如 "500g"、"2 cups"、"1 tsp"
func (m Measurement) String() string {
	var b strings.Builder
	b.WriteString(FormatAmount(m.Amount))
	switch m.Unit {
	case Gram:
		b.WriteString("g")
	case Kilogram:
		b.WriteString("kg")
	case Milligram:
		b.WriteString("mg")
	case Litre:
		b.WriteString("L")
	case Millilitre:
		b.WriteString("ml")
	case Cup:
		if m.Amount == 1 {
			b.WriteString(" cup")
		} else {
			b.WriteString(" cups")
		}
	case Teaspoon:
		b.WriteString(" tsp")
	case Tablespoon:
		b.WriteString(" tbsp")
	}
	return b.String()
}

// FileFormat 檔案格式："<數量> <單位字串>"
func (m Measurement) FileFormat() string {
	return FormatAmount(m.Amount) + " " + m.Unit.Token()
}
