package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kjanat/nutricore/internal/domain/recipe"
	"github.com/kjanat/nutricore/internal/domain/shared"
	"github.com/kjanat/nutricore/internal/nutrition/cascade"
)

// RecipeService implements recipe.Service, enforcing the integrity guards of
// spec.md §4.3 (delete guards, servings_produced force flag, acyclicity
// before AddComponent) around the Graph Store's RecipeRepository and
// triggering the Cascade Engine on writes that change a cached per-serving
// vector.
type RecipeService struct {
	repo    recipe.Repository
	cascade *cascade.Engine
	log     *zap.Logger
}

// NewRecipeService creates a new Recipe service.
func NewRecipeService(repo recipe.Repository, cascadeEngine *cascade.Engine, log *zap.Logger) recipe.Service {
	return &RecipeService{repo: repo, cascade: cascadeEngine, log: log}
}

func (s *RecipeService) Create(ctx context.Context, in recipe.CreateInput) (recipe.Recipe, error) {
	if in.Name == "" {
		return recipe.Recipe{}, shared.NewValidationError("name", "must not be empty")
	}
	if in.ServingsProduced <= 0 {
		return recipe.Recipe{}, shared.NewValidationError("servings_produced", "must be greater than zero")
	}
	r := recipe.New(in.Name, in.ServingsProduced)
	r.Notes = in.Notes
	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("create recipe: %w", shared.NewStoreError(err))
	}
	return created, nil
}

func (s *RecipeService) Get(ctx context.Context, id int64) (recipe.Detail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *RecipeService) List(ctx context.Context, in recipe.ListInput) ([]recipe.Recipe, error) {
	return s.repo.List(ctx, in.Query, in.FavoritesOnly, in.SortBy, in.Page, in.PageSize)
}

// Update applies a name/servings_produced/favorite/notes change, guarding a
// servings_produced change behind the force flag when the recipe is already
// logged, per spec §4.3.
func (s *RecipeService) Update(ctx context.Context, id int64, in recipe.UpdateInput) (recipe.Recipe, recipe.CascadeResult, error) {
	if in.Update.ServingsProduced != nil && *in.Update.ServingsProduced <= 0 {
		return recipe.Recipe{}, recipe.CascadeResult{}, shared.NewValidationError("servings_produced", "must be greater than zero")
	}

	if in.Update.ServingsChanged() && !in.Force {
		logged, err := s.repo.TimesLogged(ctx, id)
		if err != nil {
			return recipe.Recipe{}, recipe.CascadeResult{}, fmt.Errorf("times logged: %w", shared.NewStoreError(err))
		}
		if logged > 0 {
			return recipe.Recipe{}, recipe.CascadeResult{}, shared.NewBusinessRuleError(
				"recipe", "cannot change servings_produced on a recipe with logged meal entries without force=true",
			)
		}
	}

	updated, err := s.repo.Update(ctx, id, in.Update)
	if err != nil {
		return recipe.Recipe{}, recipe.CascadeResult{}, err
	}

	result := recipe.CascadeResult{}
	if in.Update.ServingsChanged() {
		cr, err := s.cascade.OnRecipeCacheInputsChanged(ctx, id)
		if err != nil {
			return recipe.Recipe{}, recipe.CascadeResult{}, fmt.Errorf("cascade recipe update: %w", err)
		}
		result = recipe.CascadeResult{RecipesRecalculated: cr.RecipesRecalculated, DaysRecalculated: cr.DaysRecalculated}
		s.log.Info("recipe updated",
			zap.Int64("recipe_id", id),
			zap.Int("recipes_recalculated", result.RecipesRecalculated),
			zap.Int("days_recalculated", result.DaysRecalculated),
		)
	}
	return updated, result, nil
}

// Delete fails if the recipe has been logged or is a component of another
// recipe, per spec §4.3.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	logged, err := s.repo.TimesLogged(ctx, id)
	if err != nil {
		return fmt.Errorf("times logged: %w", shared.NewStoreError(err))
	}
	parents, err := s.repo.ComponentsByChild(ctx, id)
	if err != nil {
		return fmt.Errorf("parent recipes: %w", shared.NewStoreError(err))
	}
	if logged > 0 || len(parents) > 0 {
		var blockers []string
		if logged > 0 {
			blockers = append(blockers, fmt.Sprintf("%d meal entries", logged))
		}
		for _, p := range parents {
			blockers = append(blockers, fmt.Sprintf("component of recipe %d", p.ParentRecipeID))
		}
		return shared.NewBusinessRuleError("recipe", "cannot delete a recipe that is logged or used as a component", blockers...)
	}
	return s.repo.Delete(ctx, id)
}

func (s *RecipeService) ListUnused(ctx context.Context) ([]recipe.Recipe, error) {
	return s.repo.Unused(ctx)
}

func (s *RecipeService) AddIngredient(ctx context.Context, recipeID int64, in recipe.AddIngredientInput) (recipe.Ingredient, recipe.CascadeResult, error) {
	if in.Quantity <= 0 {
		return recipe.Ingredient{}, recipe.CascadeResult{}, shared.NewValidationError("quantity", "must be greater than zero")
	}
	if in.Unit == "" {
		return recipe.Ingredient{}, recipe.CascadeResult{}, shared.NewValidationError("unit", "must not be empty")
	}
	if err := s.checkIngredientNotDuplicate(ctx, recipeID, in.FoodItemID); err != nil {
		return recipe.Ingredient{}, recipe.CascadeResult{}, err
	}
	ing, err := s.repo.AddIngredient(ctx, recipe.Ingredient{
		RecipeID: recipeID, FoodItemID: in.FoodItemID, Quantity: in.Quantity, Unit: in.Unit, Notes: in.Notes,
	})
	if err != nil {
		return recipe.Ingredient{}, recipe.CascadeResult{}, err
	}
	return s.cascadeRecipe(ctx, recipeID, ing)
}

// checkIngredientNotDuplicate rejects adding a food item that is already an
// ingredient of this recipe, per spec §3's (recipe_id, food_item_id) uniqueness.
func (s *RecipeService) checkIngredientNotDuplicate(ctx context.Context, recipeID, foodItemID int64) error {
	existing, err := s.repo.Ingredients(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("list ingredients: %w", shared.NewStoreError(err))
	}
	for _, ing := range existing {
		if ing.FoodItemID == foodItemID {
			return recipe.ErrDuplicateIngredient
		}
	}
	return nil
}

func (s *RecipeService) UpdateIngredient(ctx context.Context, recipeID, ingredientID int64, in recipe.UpdateIngredientInput) (recipe.Ingredient, recipe.CascadeResult, error) {
	if in.Quantity != nil && *in.Quantity <= 0 {
		return recipe.Ingredient{}, recipe.CascadeResult{}, shared.NewValidationError("quantity", "must be greater than zero")
	}
	ing, err := s.repo.UpdateIngredient(ctx, ingredientID, in.Quantity, in.Unit, in.Notes)
	if err != nil {
		return recipe.Ingredient{}, recipe.CascadeResult{}, err
	}
	return s.cascadeRecipe(ctx, recipeID, ing)
}

func (s *RecipeService) RemoveIngredient(ctx context.Context, recipeID, ingredientID int64) (recipe.CascadeResult, error) {
	if err := s.repo.RemoveIngredient(ctx, ingredientID); err != nil {
		return recipe.CascadeResult{}, err
	}
	cr, err := s.cascade.OnRecipeCacheInputsChanged(ctx, recipeID)
	if err != nil {
		return recipe.CascadeResult{}, fmt.Errorf("cascade ingredient removal: %w", err)
	}
	return recipe.CascadeResult{RecipesRecalculated: cr.RecipesRecalculated, DaysRecalculated: cr.DaysRecalculated}, nil
}

// BatchAddIngredients adds every ingredient under a single batch, then
// cascades once, per spec §4.5's "atomic: add-all-then-single-cascade".
func (s *RecipeService) BatchAddIngredients(ctx context.Context, recipeID int64, in recipe.BatchAddIngredientsInput) ([]recipe.Ingredient, recipe.CascadeResult, error) {
	existing, err := s.repo.Ingredients(ctx, recipeID)
	if err != nil {
		return nil, recipe.CascadeResult{}, fmt.Errorf("list ingredients: %w", shared.NewStoreError(err))
	}
	seen := make(map[int64]struct{}, len(existing))
	for _, ing := range existing {
		seen[ing.FoodItemID] = struct{}{}
	}

	added := make([]recipe.Ingredient, 0, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if item.Quantity <= 0 {
			return nil, recipe.CascadeResult{}, shared.NewValidationError("quantity", "must be greater than zero")
		}
		if item.Unit == "" {
			return nil, recipe.CascadeResult{}, shared.NewValidationError("unit", "must not be empty")
		}
		if _, dup := seen[item.FoodItemID]; dup {
			return nil, recipe.CascadeResult{}, recipe.ErrDuplicateIngredient
		}
		seen[item.FoodItemID] = struct{}{}
		ing, err := s.repo.AddIngredient(ctx, recipe.Ingredient{
			RecipeID: recipeID, FoodItemID: item.FoodItemID, Quantity: item.Quantity, Unit: item.Unit, Notes: item.Notes,
		})
		if err != nil {
			return nil, recipe.CascadeResult{}, err
		}
		added = append(added, ing)
	}
	cr, err := s.cascade.OnRecipeCacheInputsChanged(ctx, recipeID)
	if err != nil {
		return nil, recipe.CascadeResult{}, fmt.Errorf("cascade batch ingredient add: %w", err)
	}
	return added, recipe.CascadeResult{RecipesRecalculated: cr.RecipesRecalculated, DaysRecalculated: cr.DaysRecalculated}, nil
}

// AddComponent inserts a child-recipe edge, refusing to create a cycle per
// spec §4.4's acyclicity check.
func (s *RecipeService) AddComponent(ctx context.Context, parentRecipeID int64, in recipe.AddComponentInput) (recipe.Component, recipe.CascadeResult, error) {
	if in.Servings <= 0 {
		return recipe.Component{}, recipe.CascadeResult{}, shared.NewValidationError("servings", "must be greater than zero")
	}
	existing, err := s.repo.Components(ctx, parentRecipeID)
	if err != nil {
		return recipe.Component{}, recipe.CascadeResult{}, fmt.Errorf("list components: %w", shared.NewStoreError(err))
	}
	for _, comp := range existing {
		if comp.ChildRecipeID == in.ChildRecipeID {
			return recipe.Component{}, recipe.CascadeResult{}, recipe.ErrDuplicateComponent
		}
	}
	if err := s.cascade.CheckComponentAcyclic(ctx, parentRecipeID, in.ChildRecipeID); err != nil {
		return recipe.Component{}, recipe.CascadeResult{}, err
	}
	c, err := s.repo.AddComponent(ctx, recipe.Component{
		ParentRecipeID: parentRecipeID, ChildRecipeID: in.ChildRecipeID, Servings: in.Servings,
	})
	if err != nil {
		return recipe.Component{}, recipe.CascadeResult{}, err
	}
	cr, err := s.cascade.OnRecipeCacheInputsChanged(ctx, parentRecipeID)
	if err != nil {
		return recipe.Component{}, recipe.CascadeResult{}, fmt.Errorf("cascade component add: %w", err)
	}
	return c, recipe.CascadeResult{RecipesRecalculated: cr.RecipesRecalculated, DaysRecalculated: cr.DaysRecalculated}, nil
}

func (s *RecipeService) UpdateComponent(ctx context.Context, parentRecipeID, componentID int64, servings float64) (recipe.Component, recipe.CascadeResult, error) {
	if servings <= 0 {
		return recipe.Component{}, recipe.CascadeResult{}, shared.NewValidationError("servings", "must be greater than zero")
	}
	c, err := s.repo.UpdateComponent(ctx, componentID, servings)
	if err != nil {
		return recipe.Component{}, recipe.CascadeResult{}, err
	}
	cr, err := s.cascade.OnRecipeCacheInputsChanged(ctx, parentRecipeID)
	if err != nil {
		return recipe.Component{}, recipe.CascadeResult{}, fmt.Errorf("cascade component update: %w", err)
	}
	return c, recipe.CascadeResult{RecipesRecalculated: cr.RecipesRecalculated, DaysRecalculated: cr.DaysRecalculated}, nil
}

func (s *RecipeService) RemoveComponent(ctx context.Context, parentRecipeID, componentID int64) (recipe.CascadeResult, error) {
	if err := s.repo.RemoveComponent(ctx, componentID); err != nil {
		return recipe.CascadeResult{}, err
	}
	cr, err := s.cascade.OnRecipeCacheInputsChanged(ctx, parentRecipeID)
	if err != nil {
		return recipe.CascadeResult{}, fmt.Errorf("cascade component removal: %w", err)
	}
	return recipe.CascadeResult{RecipesRecalculated: cr.RecipesRecalculated, DaysRecalculated: cr.DaysRecalculated}, nil
}

func (s *RecipeService) Recalculate(ctx context.Context, id int64) (recipe.CascadeResult, error) {
	cr, err := s.cascade.OnRecipeCacheInputsChanged(ctx, id)
	if err != nil {
		return recipe.CascadeResult{}, err
	}
	return recipe.CascadeResult{RecipesRecalculated: cr.RecipesRecalculated, DaysRecalculated: cr.DaysRecalculated}, nil
}

// ParentRecipes returns the ids of recipes using this one as a component. If
// transitive, the reverse-edge closure is walked to completion.
func (s *RecipeService) ParentRecipes(ctx context.Context, id int64, transitive bool) ([]int64, error) {
	seen := map[int64]struct{}{}
	queue := []int64{id}
	var out []int64
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		parents, err := s.repo.ComponentsByChild(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("components by child: %w", shared.NewStoreError(err))
		}
		for _, p := range parents {
			if _, ok := seen[p.ParentRecipeID]; ok {
				continue
			}
			seen[p.ParentRecipeID] = struct{}{}
			out = append(out, p.ParentRecipeID)
			if transitive {
				queue = append(queue, p.ParentRecipeID)
			}
		}
		if !transitive {
			break
		}
	}
	return out, nil
}

func (s *RecipeService) TimesLogged(ctx context.Context, id int64) (int, error) {
	return s.repo.TimesLogged(ctx, id)
}

func (s *RecipeService) cascadeRecipe(ctx context.Context, recipeID int64, ing recipe.Ingredient) (recipe.Ingredient, recipe.CascadeResult, error) {
	cr, err := s.cascade.OnRecipeCacheInputsChanged(ctx, recipeID)
	if err != nil {
		return recipe.Ingredient{}, recipe.CascadeResult{}, fmt.Errorf("cascade ingredient change: %w", err)
	}
	return ing, recipe.CascadeResult{RecipesRecalculated: cr.RecipesRecalculated, DaysRecalculated: cr.DaysRecalculated}, nil
}
