package shopping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-book/internal/core/model"
)

func recipeWith(t *testing.T, name string, ings ...model.Ingredient) *model.Recipe {
	t.Helper()
	info, err := model.NewInfoBlock(1, 0, time.Minute)
	require.NoError(t, err)
	r, err := model.NewRecipe(name, ings, model.Method{}, info, nil)
	require.NoError(t, err)
	return r
}

func ing(t *testing.T, amount float64, unit, name string) model.Ingredient {
	t.Helper()
	i, err := model.NewIngredient(amount, unit, name)
	require.NoError(t, err)
	return i
}

func TestAggregateMergesSameUnit(t *testing.T) {
	x := recipeWith(t, "X", ing(t, 200, "gram", "flour"))
	y := recipeWith(t, "Y", ing(t, 300, "gram", "flour"), ing(t, 1, "cup", "flour"))

	list := Aggregate([]*model.Recipe{x, y})

	assert.Equal(t, []model.Measurement{
		{Amount: 500, Unit: model.Gram},
		{Amount: 1, Unit: model.Cup},
	}, list.Get("flour"))
	assert.Equal(t, 1, list.Len())
}

func TestAggregateKeysAreLowercase(t *testing.T) {
	x := recipeWith(t, "X", ing(t, 2, "each", "Eggs"), ing(t, 1, "teaspoon", "salt"))
	y := recipeWith(t, "Y", ing(t, 3, "each", "EGGS"), ing(t, 0.5, "teaspoon", "Salt"))

	list := Aggregate([]*model.Recipe{x, y})

	assert.Equal(t, []string{"eggs", "salt"}, list.Names())
	assert.Equal(t, []model.Measurement{{Amount: 5, Unit: model.Each}}, list.Get("eggs"))
	assert.Equal(t, []model.Measurement{{Amount: 1.5, Unit: model.Teaspoon}}, list.Get("SALT"))
	assert.Equal(t, []string{"eggs: 5", "salt: 1.5 tsp"}, list.Lines())
}

func TestAggregateDoesNotMutateRecipes(t *testing.T) {
	x := recipeWith(t, "X", ing(t, 200, "gram", "flour"))
	y := recipeWith(t, "Y", ing(t, 300, "gram", "flour"))

	list := Aggregate([]*model.Recipe{x, y})
	ms := list.Map()["flour"]
	require.Len(t, ms, 1)
	ms[0].AddAmount(1000)

	assert.Equal(t, 200.0, x.Ingredients[0].Measurement.Amount)
	assert.Equal(t, 300.0, y.Ingredients[0].Measurement.Amount)
	assert.Equal(t, 500.0, list.Get("flour")[0].Amount)
}

func TestAggregateSameRecipeTwice(t *testing.T) {
	x := recipeWith(t, "X", ing(t, 2, "cup", "milk"))
	list := Aggregate([]*model.Recipe{x, x, nil})
	assert.Equal(t, []string{"milk: 4 cups"}, list.Lines())
}

func TestAggregateEmpty(t *testing.T) {
	list := Aggregate(nil)
	assert.Zero(t, list.Len())
	assert.Empty(t, list.Lines())
	assert.Nil(t, list.Get("anything"))
}
