// Package shopping 將多份食譜的食材合併成購物清單
package shopping

import (
	"strings"

	"recipe-book/internal/core/model"
)

// List 以小寫食材名稱為鍵的購物清單，保留第一次出現的順序
type List struct {
	order []string
	items map[string][]model.Measurement
}

// Aggregate 合併食材：同名（不分大小寫）且同單位的數量相加，不同單位分開保留。
// 結果中的度量都是新值，不會與食譜共用。
func Aggregate(recipes []*model.Recipe) *List {
	l := &List{items: make(map[string][]model.Measurement)}
	for _, r := range recipes {
		if r == nil {
			continue
		}
		for _, ing := range r.Ingredients {
			l.add(strings.ToLower(ing.Name), ing.Measurement)
		}
	}
	return l
}

func (l *List) add(key string, m model.Measurement) {
	ms, seen := l.items[key]
	if !seen {
		l.order = append(l.order, key)
	}
	for i := range ms {
		if ms[i].Unit == m.Unit {
			ms[i].AddAmount(m.Amount)
			return
		}
	}
	l.items[key] = append(ms, model.Measurement{Amount: m.Amount, Unit: m.Unit})
}

// Get 取得某食材的度量，名稱不分大小寫
func (l *List) Get(name string) []model.Measurement {
	return l.items[strings.ToLower(name)]
}

// Names 依發現順序回傳食材名稱
func (l *List) Names() []string {
	return append([]string(nil), l.order...)
}

// Len 不同食材的數量
func (l *List) Len() int {
	return len(l.order)
}

// Map 以一般 map 形式回傳副本
func (l *List) Map() map[string][]model.Measurement {
	out := make(map[string][]model.Measurement, len(l.items))
	for k, v := range l.items {
		out[k] = append([]model.Measurement(nil), v...)
	}
	return out
}

// Lines 顯示用，每行如 "flour: 500g, 2 cups"
func (l *List) Lines() []string {
	lines := make([]string, 0, len(l.order))
	for _, name := range l.order {
		parts := make([]string, 0, len(l.items[name]))
		for _, m := range l.items[name] {
			parts = append(parts, m.String())
		}
		lines = append(lines, name+": "+strings.Join(parts, ", "))
	}
	return lines
}
