package recipe

import (
	"recipe-book/internal/core/model"
	"recipe-book/internal/core/shopping"
	"recipe-book/internal/pkg/common"
)

func measurementView(m model.Measurement) common.MeasurementView {
	return common.MeasurementView{Amount: m.Amount, Unit: m.Unit.Token(), Display: m.String()}
}

func toView(r *model.Recipe) common.RecipeView {
	v := common.RecipeView{
		Name:         r.Name,
		Serves:       r.Info.Serves,
		PrepMinutes:  int(r.Info.PrepTime.Minutes()),
		CookMinutes:  int(r.Info.CookTime.Minutes()),
		TotalMinutes: int(r.TotalTime().Minutes()),
		Ingredients:  make([]common.IngredientView, len(r.Ingredients)),
		Steps:        make([]common.StepView, len(r.Method.Steps)),
		Tags:         append([]string{}, r.Tags...),
	}
	for i, ing := range r.Ingredients {
		v.Ingredients[i] = common.IngredientView{Measurement: measurementView(ing.Measurement), Name: ing.Name}
	}
	for i, s := range r.Method.Steps {
		v.Steps[i] = common.StepView{Ordinal: s.Ordinal, Text: s.Text}
	}
	return v
}

func toViews(rs []*model.Recipe) []common.RecipeView {
	out := make([]common.RecipeView, len(rs))
	for i, r := range rs {
		out[i] = toView(r)
	}
	return out
}

func shoppingEntries(list *shopping.List) []common.ShoppingListEntry {
	out := make([]common.ShoppingListEntry, 0, list.Len())
	for _, name := range list.Names() {
		ms := list.Get(name)
		entry := common.ShoppingListEntry{Ingredient: name, Measurements: make([]common.MeasurementView, len(ms))}
		for i, m := range ms {
			entry.Measurements[i] = measurementView(m)
		}
		out = append(out, entry)
	}
	return out
}
