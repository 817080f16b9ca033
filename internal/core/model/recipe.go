package model

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"recipe-book/internal/pkg/common"
)

// 各區段的群組結束符號；自由文字不得包含這些獨立字詞
const (
	GroupClose = ")"
	StepMark   = "#"
)

// Ingredient 食譜中的一項食材，只屬於一份食譜
type Ingredient struct {
	Measurement Measurement
	Name        string
}

// NewIngredient 以外部單位字串創建食材，未知單位回傳 *UnitError
func NewIngredient(amount float64, unitToken, name string) (Ingredient, error) {
	unit, err := UnitFromToken(unitToken)
	if err != nil {
		return Ingredient{}, err
	}
	return NewIngredientWithUnit(amount, unit, name)
}

// NewIngredientWithUnit 以標準單位創建食材
func NewIngredientWithUnit(amount float64, unit Unit, name string) (Ingredient, error) {
	m, err := NewMeasurement(amount, unit)
	if err != nil {
		return Ingredient{}, err
	}
	ing := Ingredient{Measurement: m, Name: normalizeText(name)}
	if err := ing.validate(); err != nil {
		return Ingredient{}, err
	}
	return ing, nil
}

func (i Ingredient) validate() error {
	if err := validateAmount(i.Measurement.Amount); err != nil {
		return err
	}
	if !i.Measurement.Unit.Valid() {
		return &UnitError{Token: i.Measurement.Unit.Token()}
	}
	return validateText("ingredient name", i.Name, GroupClose)
}

func (i Ingredient) String() string {
	return i.Measurement.String() + " " + i.Name
}

// Step 做法中的一個步驟，序號從 1 開始
type Step struct {
	Text    string
	Ordinal int
}

// NewStep 創建步驟，並檢查「文字不得以數字開頭」的規則
func NewStep(text string, ordinal int) (Step, error) {
	s := Step{Text: normalizeText(text), Ordinal: ordinal}
	if err := s.Validate(); err != nil {
		return Step{}, err
	}
	return s, nil
}

// Validate 完整驗證，包含文字開頭不得為數字
func (s Step) Validate() error {
	if err := s.validateDocument(); err != nil {
		return err
	}
	if r := []rune(s.Text); len(r) > 0 && unicode.IsDigit(r[0]) {
		return common.NewFieldError("step text", "must not start with a digit: %q", s.Text)
	}
	return nil
}

// validateDocument 只檢查可序列化所需的條件
func (s Step) validateDocument() error {
	if s.Ordinal < 1 {
		return common.NewFieldError("step ordinal", "must be positive, got %d", s.Ordinal)
	}
	return validateText("step text", s.Text, StepMark)
}

func (s Step) String() string {
	return strconv.Itoa(s.Ordinal) + ". " + s.Text
}

// Method 依插入順序排列的步驟
type Method struct {
	Steps []Step
}

// NewMethod 複製步驟建立做法
func NewMethod(steps ...Step) Method {
	return Method{Steps: slices.Clone(steps)}
}

// AddStep 附加步驟
func (m *Method) AddStep(s Step) {
	m.Steps = append(m.Steps, s)
}

// RemoveStep 刪除第 i 個步驟並重新編號，索引無效時回傳 false
func (m *Method) RemoveStep(i int) bool {
	if i < 0 || i >= len(m.Steps) {
		return false
	}
	m.Steps = slices.Delete(m.Steps, i, i+1)
	m.Renumber()
	return true
}

// Renumber 依目前順序將序號重設為 1..n
func (m *Method) Renumber() {
	for i := range m.Steps {
		m.Steps[i].Ordinal = i + 1
	}
}

// Len 步驟數量
func (m Method) Len() int {
	return len(m.Steps)
}

// Equal 逐步比較
func (m Method) Equal(o Method) bool {
	return slices.Equal(m.Steps, o.Steps)
}

func (m Method) String() string {
	var b strings.Builder
	b.WriteString("Steps:\n")
	for _, s := range m.Steps {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	return b.String()
}

// MaxDuration 準備或烹煮時間的上限；兩者相加仍不會超出 time.Duration 範圍
const MaxDuration = time.Duration(math.MaxInt64/2) / time.Minute * time.Minute

// InfoBlock 份量與準備、烹煮時間
type InfoBlock struct {
	Serves   int
	PrepTime time.Duration
	CookTime time.Duration
}

// NewInfoBlock 創建資訊區塊；時間以分鐘為最小單位
func NewInfoBlock(serves int, prep, cook time.Duration) (InfoBlock, error) {
	info := InfoBlock{Serves: serves, PrepTime: prep, CookTime: cook}
	if err := info.validate(); err != nil {
		return InfoBlock{}, err
	}
	return info, nil
}

func (b InfoBlock) validate() error {
	if b.Serves < 1 {
		return common.NewFieldError("serves", "must be positive, got %d", b.Serves)
	}
	for _, d := range []struct {
		field string
		value time.Duration
	}{{"prep time", b.PrepTime}, {"cook time", b.CookTime}} {
		if d.value < 0 {
			return common.NewFieldError(d.field, "must not be negative")
		}
		if d.value > MaxDuration {
			return common.NewFieldError(d.field, "must not exceed %d minutes", int64(MaxDuration/time.Minute))
		}
		if d.value%time.Minute != 0 {
			return common.NewFieldError(d.field, "must be whole minutes, got %s", d.value)
		}
	}
	return nil
}

// TotalTime 準備時間加烹煮時間
func (b InfoBlock) TotalTime() time.Duration {
	return b.PrepTime + b.CookTime
}

// Recipe 完整的食譜；建構後不再修改
type Recipe struct {
	Name        string
	Ingredients []Ingredient
	Method      Method
	Info        InfoBlock
	Tags        []string
}

// NewRecipe 建立完整的食譜：整理空白、標籤轉大寫並去重，再驗證
func NewRecipe(name string, ingredients []Ingredient, method Method, info InfoBlock, tags []string) (*Recipe, error) {
	r := &Recipe{
		Name:        normalizeText(name),
		Ingredients: make([]Ingredient, len(ingredients)),
		Method:      NewMethod(method.Steps...),
		Info:        info,
		Tags:        make([]string, 0, len(tags)),
	}
	for i, ing := range ingredients {
		ing.Name = normalizeText(ing.Name)
		r.Ingredients[i] = ing
	}
	for i := range r.Method.Steps {
		r.Method.Steps[i].Text = normalizeText(r.Method.Steps[i].Text)
	}
	for _, t := range common.NormalizeTags(tags) {
		if !slices.Contains(r.Tags, t) {
			r.Tags = append(r.Tags, t)
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate 檢查食譜能被無損序列化
func (r *Recipe) Validate() error {
	if err := validateText("name", r.Name, GroupClose); err != nil {
		return err
	}
	if err := r.Info.validate(); err != nil {
		return err
	}
	for i, ing := range r.Ingredients {
		if err := ing.validate(); err != nil {
			return fmt.Errorf("ingredient %d: %w", i+1, err)
		}
	}
	for i, s := range r.Method.Steps {
		if err := s.validateDocument(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	for _, t := range r.Tags {
		if err := validateText("tag", t, GroupClose); err != nil {
			return err
		}
	}
	return nil
}

// Clone 深層複製，副本的切片不與原食譜共用
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	return &Recipe{
		Name:        r.Name,
		Ingredients: slices.Clone(r.Ingredients),
		Method:      NewMethod(r.Method.Steps...),
		Info:        r.Info,
		Tags:        slices.Clone(r.Tags),
	}
}

// TotalTime 總時間
func (r *Recipe) TotalTime() time.Duration {
	return r.Info.TotalTime()
}

// HasTag 是否含有指定（已正規化）標籤
func (r *Recipe) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// HasAllTags 標籤集合是否包含全部 required
func (r *Recipe) HasAllTags(required []string) bool {
	for _, t := range required {
		if !r.HasTag(t) {
			return false
		}
	}
	return true
}

// SameName 重複判斷只看名稱
func (r *Recipe) SameName(o *Recipe) bool {
	return o != nil && r.Name == o.Name
}

// Equal 比較名稱、食材、做法與資訊區塊
func (r *Recipe) Equal(o *Recipe) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Name == o.Name &&
		slices.Equal(r.Ingredients, o.Ingredients) &&
		r.Method.Equal(o.Method) &&
		r.Info == o.Info
}

func (r *Recipe) String() string {
	var b strings.Builder
	b.WriteString(r.Name + "\n")
	fmt.Fprintf(&b, "Serves: %d\n", r.Info.Serves)
	fmt.Fprintf(&b, "Prep Time: %d   Cook Time: %d   Total Time: %d\n",
		int(r.Info.PrepTime.Minutes()), int(r.Info.CookTime.Minutes()), int(r.TotalTime().Minutes()))
	for _, ing := range r.Ingredients {
		b.WriteString(ing.String() + "\n")
	}
	b.WriteString(r.Method.String())
	if len(r.Tags) > 0 {
		b.WriteString("Tags: " + strings.Join(r.Tags, ", ") + "\n")
	}
	return b.String()
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func validateText(field, text, closing string) error {
	if text == "" {
		return common.NewFieldError(field, "must not be empty")
	}
	if text != normalizeText(text) {
		return common.NewFieldError(field, "must be single-spaced words: %q", text)
	}
	if slices.Contains(strings.Fields(text), closing) {
		return common.NewFieldError(field, "must not contain the word %q", closing)
	}
	return nil
}
