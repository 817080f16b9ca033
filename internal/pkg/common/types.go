package common

// IngredientForm 表單中的食材
type IngredientForm struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Name   string  `json:"name"`
}

// StepForm 表單中的步驟，ordinal 省略時依順序編號
type StepForm struct {
	Ordinal int    `json:"ordinal,omitempty"`
	Text    string `json:"text"`
}

// RecipeForm 建立食譜的完整表單
type RecipeForm struct {
	Name        string           `json:"name"`
	Serves      int              `json:"serves"`
	PrepMinutes int              `json:"prep_minutes"`
	CookMinutes int              `json:"cook_minutes"`
	Ingredients []IngredientForm `json:"ingredients"`
	Steps       []StepForm       `json:"steps"`
	Tags        []string         `json:"tags"`
}

// MeasurementView 度量的輸出形式
type MeasurementView struct {
	Amount  float64 `json:"amount"`
	Unit    string  `json:"unit"`
	Display string  `json:"display"`
}

// IngredientView 食材的輸出形式
type IngredientView struct {
	Measurement MeasurementView `json:"measurement"`
	Name        string          `json:"name"`
}

// StepView 步驟的輸出形式
type StepView struct {
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
}

// RecipeView 食譜的輸出形式
type RecipeView struct {
	Name         string           `json:"name"`
	Serves       int              `json:"serves"`
	PrepMinutes  int              `json:"prep_minutes"`
	CookMinutes  int              `json:"cook_minutes"`
	TotalMinutes int              `json:"total_minutes"`
	Ingredients  []IngredientView `json:"ingredients"`
	Steps        []StepView       `json:"steps"`
	Tags         []string         `json:"tags"`
}

// FilterRequest 篩選條件；0 代表不限制
type FilterRequest struct {
	Serves          int      `json:"serves"`
	MaxTotalMinutes int      `json:"max_total_minutes"`
	Tags            []string `json:"tags"`
}

// ShoppingListRequest 以食譜名稱產生購物清單
type ShoppingListRequest struct {
	Names []string `json:"names" binding:"required"`
}

// ShoppingListEntry 購物清單的一項
type ShoppingListEntry struct {
	Ingredient   string            `json:"ingredient"`
	Measurements []MeasurementView `json:"measurements"`
}

// ImportURLRequest 從網址匯入食譜
type ImportURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// TagRequest 註冊標籤
type TagRequest struct {
	Tag string `json:"tag" binding:"required"`
}
