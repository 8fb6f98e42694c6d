package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
	"github.com/kjanat/nutricore/internal/domain/shared"
)

// mockRecipeRepository mocks recipe.Repository.
type mockRecipeRepository struct {
	mock.Mock
}

func (m *mockRecipeRepository) Create(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(recipe.Recipe), args.Error(1)
}

func (m *mockRecipeRepository) GetByID(ctx context.Context, id int64) (recipe.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(recipe.Recipe), args.Error(1)
}

func (m *mockRecipeRepository) GetDetail(ctx context.Context, id int64) (recipe.Detail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(recipe.Detail), args.Error(1)
}

func (m *mockRecipeRepository) List(ctx context.Context, query string, favoritesOnly bool, sortBy string, page, pageSize int) ([]recipe.Recipe, error) {
	args := m.Called(ctx, query, favoritesOnly, sortBy, page, pageSize)
	return args.Get(0).([]recipe.Recipe), args.Error(1)
}

func (m *mockRecipeRepository) All(ctx context.Context) ([]recipe.Recipe, error) {
	args := m.Called(ctx)
	return args.Get(0).([]recipe.Recipe), args.Error(1)
}

func (m *mockRecipeRepository) Update(ctx context.Context, id int64, update recipe.Update) (recipe.Recipe, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(recipe.Recipe), args.Error(1)
}

func (m *mockRecipeRepository) UpdateCache(ctx context.Context, id int64, cached fooditem.NutritionVector) error {
	args := m.Called(ctx, id, cached)
	return args.Error(0)
}

func (m *mockRecipeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRecipeRepository) Unused(ctx context.Context) ([]recipe.Recipe, error) {
	args := m.Called(ctx)
	return args.Get(0).([]recipe.Recipe), args.Error(1)
}

func (m *mockRecipeRepository) Ingredients(ctx context.Context, recipeID int64) ([]recipe.Ingredient, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).([]recipe.Ingredient), args.Error(1)
}

func (m *mockRecipeRepository) AddIngredient(ctx context.Context, ing recipe.Ingredient) (recipe.Ingredient, error) {
	args := m.Called(ctx, ing)
	return args.Get(0).(recipe.Ingredient), args.Error(1)
}

func (m *mockRecipeRepository) UpdateIngredient(ctx context.Context, id int64, quantity *float64, unit, notes *string) (recipe.Ingredient, error) {
	args := m.Called(ctx, id, quantity, unit, notes)
	return args.Get(0).(recipe.Ingredient), args.Error(1)
}

func (m *mockRecipeRepository) RemoveIngredient(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRecipeRepository) GetIngredient(ctx context.Context, id int64) (recipe.Ingredient, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(recipe.Ingredient), args.Error(1)
}

func (m *mockRecipeRepository) Components(ctx context.Context, parentRecipeID int64) ([]recipe.Component, error) {
	args := m.Called(ctx, parentRecipeID)
	return args.Get(0).([]recipe.Component), args.Error(1)
}

func (m *mockRecipeRepository) AddComponent(ctx context.Context, c recipe.Component) (recipe.Component, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(recipe.Component), args.Error(1)
}

func (m *mockRecipeRepository) UpdateComponent(ctx context.Context, id int64, servings float64) (recipe.Component, error) {
	args := m.Called(ctx, id, servings)
	return args.Get(0).(recipe.Component), args.Error(1)
}

func (m *mockRecipeRepository) RemoveComponent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRecipeRepository) GetComponent(ctx context.Context, id int64) (recipe.Component, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(recipe.Component), args.Error(1)
}

func (m *mockRecipeRepository) ComponentsByChild(ctx context.Context, childRecipeID int64) ([]recipe.Component, error) {
	args := m.Called(ctx, childRecipeID)
	return args.Get(0).([]recipe.Component), args.Error(1)
}

func (m *mockRecipeRepository) TimesLogged(ctx context.Context, recipeID int64) (int, error) {
	args := m.Called(ctx, recipeID)
	return args.Int(0), args.Error(1)
}

func TestRecipeService_Create_ValidatesServingsProduced(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), recipe.CreateInput{Name: "Soup", ServingsProduced: 0})

	assert.Error(t, err)
	var verr shared.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "servings_produced", verr.Field)
	repo.AssertNotCalled(t, "Create")
}

func TestRecipeService_Update_ServingsChangeBlockedWhenLogged(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	newServings := 4.0
	repo.On("TimesLogged", ctx, int64(3)).Return(2, nil)

	_, _, err := svc.Update(ctx, 3, recipe.UpdateInput{Update: recipe.Update{ServingsProduced: &newServings}})

	assert.Error(t, err)
	var berr shared.BusinessRuleError
	assert.True(t, errors.As(err, &berr))
	assert.Equal(t, "recipe", berr.Rule)
	repo.AssertNotCalled(t, "Update")
}

func TestRecipeService_Update_NonServingsChangeSkipsGuardAndCascade(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	newName := "Renamed Soup"
	update := recipe.Update{Name: &newName}
	repo.On("Update", ctx, int64(3), update).Return(recipe.Recipe{ID: 3, Name: newName}, nil)

	updated, cr, err := svc.Update(ctx, 3, recipe.UpdateInput{Update: update})

	assert.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, recipe.CascadeResult{}, cr)
	repo.AssertNotCalled(t, "TimesLogged")
	repo.AssertExpectations(t)
}

func TestRecipeService_Delete_BlockedWhenLogged(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("TimesLogged", ctx, int64(9)).Return(3, nil)
	repo.On("ComponentsByChild", ctx, int64(9)).Return([]recipe.Component{}, nil)

	err := svc.Delete(ctx, 9)

	assert.Error(t, err)
	var berr shared.BusinessRuleError
	assert.True(t, errors.As(err, &berr))
	assert.Equal(t, "recipe", berr.Rule)
	repo.AssertNotCalled(t, "Delete")
}

func TestRecipeService_Delete_BlockedWhenUsedAsComponent(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("TimesLogged", ctx, int64(9)).Return(0, nil)
	repo.On("ComponentsByChild", ctx, int64(9)).Return([]recipe.Component{{ID: 1, ParentRecipeID: 4, ChildRecipeID: 9, Servings: 1}}, nil)

	err := svc.Delete(ctx, 9)

	assert.Error(t, err)
	var berr shared.BusinessRuleError
	assert.True(t, errors.As(err, &berr))
	repo.AssertNotCalled(t, "Delete")
}

func TestRecipeService_Delete_Unused(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("TimesLogged", ctx, int64(9)).Return(0, nil)
	repo.On("ComponentsByChild", ctx, int64(9)).Return([]recipe.Component{}, nil)
	repo.On("Delete", ctx, int64(9)).Return(nil)

	err := svc.Delete(ctx, 9)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecipeService_AddIngredient_ValidatesQuantity(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())

	_, _, err := svc.AddIngredient(context.Background(), 1, recipe.AddIngredientInput{FoodItemID: 2, Quantity: 0, Unit: "g"})

	assert.Error(t, err)
	var verr shared.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)
	repo.AssertNotCalled(t, "AddIngredient")
}

func TestRecipeService_AddIngredient_RejectsDuplicate(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("Ingredients", ctx, int64(1)).Return([]recipe.Ingredient{
		{ID: 5, RecipeID: 1, FoodItemID: 2, Quantity: 100, Unit: "g"},
	}, nil)

	_, _, err := svc.AddIngredient(ctx, 1, recipe.AddIngredientInput{FoodItemID: 2, Quantity: 50, Unit: "g"})

	assert.ErrorIs(t, err, recipe.ErrDuplicateIngredient)
	repo.AssertNotCalled(t, "AddIngredient")
}

func TestRecipeService_BatchAddIngredients_RejectsDuplicateAgainstExisting(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("Ingredients", ctx, int64(1)).Return([]recipe.Ingredient{
		{ID: 5, RecipeID: 1, FoodItemID: 2, Quantity: 100, Unit: "g"},
	}, nil)

	_, _, err := svc.BatchAddIngredients(ctx, 1, recipe.BatchAddIngredientsInput{
		Ingredients: []recipe.AddIngredientInput{{FoodItemID: 2, Quantity: 50, Unit: "g"}},
	})

	assert.ErrorIs(t, err, recipe.ErrDuplicateIngredient)
	repo.AssertNotCalled(t, "AddIngredient")
}

func TestRecipeService_BatchAddIngredients_RejectsDuplicateWithinBatch(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("Ingredients", ctx, int64(1)).Return([]recipe.Ingredient{}, nil)
	repo.On("AddIngredient", ctx, recipe.Ingredient{RecipeID: 1, FoodItemID: 2, Quantity: 50, Unit: "g"}).
		Return(recipe.Ingredient{ID: 9, RecipeID: 1, FoodItemID: 2, Quantity: 50, Unit: "g"}, nil)

	_, _, err := svc.BatchAddIngredients(ctx, 1, recipe.BatchAddIngredientsInput{
		Ingredients: []recipe.AddIngredientInput{
			{FoodItemID: 2, Quantity: 50, Unit: "g"},
			{FoodItemID: 2, Quantity: 25, Unit: "g"},
		},
	})

	assert.ErrorIs(t, err, recipe.ErrDuplicateIngredient)
	repo.AssertNumberOfCalls(t, "AddIngredient", 1)
}

func TestRecipeService_AddComponent_ValidatesServings(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())

	_, _, err := svc.AddComponent(context.Background(), 1, recipe.AddComponentInput{ChildRecipeID: 2, Servings: 0})

	assert.Error(t, err)
	var verr shared.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "servings", verr.Field)
	repo.AssertNotCalled(t, "AddComponent")
}

func TestRecipeService_AddComponent_RejectsDuplicate(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("Components", ctx, int64(1)).Return([]recipe.Component{
		{ID: 3, ParentRecipeID: 1, ChildRecipeID: 2, Servings: 1},
	}, nil)

	_, _, err := svc.AddComponent(ctx, 1, recipe.AddComponentInput{ChildRecipeID: 2, Servings: 1})

	assert.ErrorIs(t, err, recipe.ErrDuplicateComponent)
	repo.AssertNotCalled(t, "AddComponent")
}

func TestRecipeService_ParentRecipes_DirectOnly(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("ComponentsByChild", ctx, int64(5)).Return([]recipe.Component{
		{ID: 1, ParentRecipeID: 10, ChildRecipeID: 5, Servings: 2},
		{ID: 2, ParentRecipeID: 11, ChildRecipeID: 5, Servings: 1},
	}, nil)

	parents, err := svc.ParentRecipes(ctx, 5, false)

	assert.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 11}, parents)
	repo.AssertNotCalled(t, "ComponentsByChild", ctx, int64(10))
}

func TestRecipeService_ParentRecipes_Transitive(t *testing.T) {
	repo := new(mockRecipeRepository)
	svc := NewRecipeService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("ComponentsByChild", ctx, int64(5)).Return([]recipe.Component{
		{ID: 1, ParentRecipeID: 10, ChildRecipeID: 5, Servings: 2},
	}, nil)
	repo.On("ComponentsByChild", ctx, int64(10)).Return([]recipe.Component{
		{ID: 2, ParentRecipeID: 20, ChildRecipeID: 10, Servings: 1},
	}, nil)
	repo.On("ComponentsByChild", ctx, int64(20)).Return([]recipe.Component{}, nil)

	parents, err := svc.ParentRecipes(ctx, 5, true)

	assert.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 20}, parents)
}
