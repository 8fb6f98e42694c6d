// Package cascade implements the Cascade Engine of spec.md §4.4: it keeps
// Recipe.cached_per_serving, Day.cached_totals and every MealEntry.cached
// vector consistent with the Nutrition Calculator's output after any write
// to a FoodItem, Recipe, Ingredient, or Component. It owns the process-wide
// single-writer lock and the volatile batch-mode state; neither is ever
// persisted, matching the base codebase's in-process job coordination style
// (a plain sync.Mutex guarding plain maps, no external queue).
package cascade

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kjanat/nutricore/internal/domain/day"
	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
	"github.com/kjanat/nutricore/internal/domain/shared"
	"github.com/kjanat/nutricore/internal/nutrition/calculator"
	"github.com/kjanat/nutricore/internal/nutrition/unitengine"
)

// Result reports how much recalculation a cascade triggered; identical in
// shape to the per-domain CascadeResult types, which every write verb
// returns to the Operation Surface.
type Result struct {
	RecipesRecalculated int
	DaysRecalculated    int
}

func (r *Result) merge(other Result) {
	r.RecipesRecalculated += other.RecipesRecalculated
	r.DaysRecalculated += other.DaysRecalculated
}

// Engine is the Cascade Engine. Construct one per process and share it
// across every domain service; its mutex is the single-writer lock spec.md
// §4.4 requires around the whole graph during a recalculation.
type Engine struct {
	foodItems fooditem.Repository
	recipes   recipe.Repository
	days      day.Repository

	units unitengine.Engine
	calc  calculator.Calculator

	log *zap.Logger

	mu               sync.Mutex
	batchActive      bool
	pendingFoodItems map[int64]struct{}
}

// New constructs a Cascade Engine wired to the Graph Store's repositories.
func New(foodItems fooditem.Repository, recipes recipe.Repository, days day.Repository, units unitengine.Engine, log *zap.Logger) *Engine {
	return &Engine{
		foodItems:        foodItems,
		recipes:          recipes,
		days:             days,
		units:            units,
		calc:             calculator.New(units),
		log:              log,
		pendingFoodItems: make(map[int64]struct{}),
	}
}

// StartBatch enters batch mode per spec.md §4.4: subsequent OnFoodItemChanged
// calls accumulate into pending_food_items instead of cascading immediately.
// Idempotent: calling it while already active is a no-op that logs a warning
// rather than an error, since a caller retrying a batch start is a benign
// mistake, not a corrupted state.
func (e *Engine) StartBatch(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.batchActive {
		e.log.Warn("batch update already active; start_batch_update is a no-op")
		return nil
	}
	e.batchActive = true
	e.pendingFoodItems = make(map[int64]struct{})
	return nil
}

// FinishBatch exits batch mode, running a single consolidated cascade over
// every food item touched during the batch and returning the combined
// result. Calling it while not active is a no-op that logs a warning and
// returns a zero Result.
func (e *Engine) FinishBatch(ctx context.Context) (Result, error) {
	e.mu.Lock()
	if !e.batchActive {
		e.mu.Unlock()
		e.log.Warn("no batch update active; finish_batch_update is a no-op")
		return Result{}, nil
	}
	pending := e.pendingFoodItems
	e.batchActive = false
	e.pendingFoodItems = make(map[int64]struct{})
	e.mu.Unlock()

	ids := make([]int64, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cascadeFoodItems(ctx, ids)
}

// OnFoodItemChanged recalculates every Recipe (transitively) depending on
// foodItemID and every Day/MealEntry consuming it, per the single-edit
// cascade algorithm of spec.md §4.4 steps 1-7. In batch mode it instead
// records foodItemID and returns a zero Result; the real cascade runs once
// on FinishBatch.
func (e *Engine) OnFoodItemChanged(ctx context.Context, foodItemID int64) (Result, error) {
	e.mu.Lock()
	if e.batchActive {
		e.pendingFoodItems[foodItemID] = struct{}{}
		e.mu.Unlock()
		return Result{}, nil
	}
	defer e.mu.Unlock()
	return e.cascadeFoodItems(ctx, []int64{foodItemID})
}

// cascadeFoodItems runs the full recalculation for a set of changed food
// items. Caller must hold e.mu.
func (e *Engine) cascadeFoodItems(ctx context.Context, foodItemIDs []int64) (Result, error) {
	directlyAffected := make(map[int64]struct{})
	for _, id := range foodItemIDs {
		recipeIDs, _, err := e.foodItems.UsedInRecipes(ctx, id)
		if err != nil {
			return Result{}, shared.NewStoreError(err)
		}
		for _, rid := range recipeIDs {
			directlyAffected[rid] = struct{}{}
		}
	}

	recalculated, result, err := e.recalculateRecipes(ctx, directlyAffected)
	if err != nil {
		return Result{}, err
	}

	sources := make([]day.Source, 0, len(foodItemIDs)+len(recalculated))
	for _, id := range foodItemIDs {
		sources = append(sources, day.FoodItemSource(id))
	}
	for rid := range recalculated {
		sources = append(sources, day.RecipeSource(rid))
	}
	dayResult, err := e.recalculateDaysFor(ctx, sources)
	if err != nil {
		return Result{}, err
	}
	result.merge(dayResult)
	return result, nil
}

// OnRecipeCacheInputsChanged recalculates recipeID and every ancestor recipe
// that transitively embeds it as a component, plus the Days/MealEntries
// consuming any of them. Used after an ingredient or component edit, or a
// direct Recipe.servings_produced change.
func (e *Engine) OnRecipeCacheInputsChanged(ctx context.Context, recipeID int64) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	directlyAffected := map[int64]struct{}{recipeID: {}}
	recalculated, result, err := e.recalculateRecipes(ctx, directlyAffected)
	if err != nil {
		return Result{}, err
	}

	sources := make([]day.Source, 0, len(recalculated))
	for rid := range recalculated {
		sources = append(sources, day.RecipeSource(rid))
	}
	dayResult, err := e.recalculateDaysFor(ctx, sources)
	if err != nil {
		return Result{}, err
	}
	result.merge(dayResult)
	return result, nil
}

// recalculateRecipes closes directlyAffected under the "has a parent" edge,
// topologically sorts the closure bottom-up (a recipe is recalculated only
// after every affected recipe it embeds as a component), recomputes each
// one's cached_per_serving, and persists it. Caller must hold e.mu.
func (e *Engine) recalculateRecipes(ctx context.Context, directlyAffected map[int64]struct{}) (map[int64]struct{}, Result, error) {
	affected := make(map[int64]struct{}, len(directlyAffected))
	for id := range directlyAffected {
		affected[id] = struct{}{}
	}

	queue := make([]int64, 0, len(directlyAffected))
	for id := range directlyAffected {
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		parents, err := e.recipes.ComponentsByChild(ctx, id)
		if err != nil {
			return nil, Result{}, shared.NewStoreError(err)
		}
		for _, c := range parents {
			if _, ok := affected[c.ParentRecipeID]; !ok {
				affected[c.ParentRecipeID] = struct{}{}
				queue = append(queue, c.ParentRecipeID)
			}
		}
	}

	remaining := make(map[int64]int, len(affected))
	parentsOf := make(map[int64][]int64, len(affected))
	for id := range affected {
		components, err := e.recipes.Components(ctx, id)
		if err != nil {
			return nil, Result{}, shared.NewStoreError(err)
		}
		deps := 0
		for _, c := range components {
			if _, ok := affected[c.ChildRecipeID]; ok {
				deps++
			}
		}
		remaining[id] = deps

		parents, err := e.recipes.ComponentsByChild(ctx, id)
		if err != nil {
			return nil, Result{}, shared.NewStoreError(err)
		}
		for _, c := range parents {
			if _, ok := affected[c.ParentRecipeID]; ok {
				parentsOf[id] = append(parentsOf[id], c.ParentRecipeID)
			}
		}
	}

	ready := make([]int64, 0, len(affected))
	for id, deps := range remaining {
		if deps == 0 {
			ready = append(ready, id)
		}
	}

	processed := make(map[int64]struct{}, len(affected))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		if err := e.recalculateOneRecipe(ctx, id); err != nil {
			return nil, Result{}, err
		}
		processed[id] = struct{}{}
		for _, parent := range parentsOf[id] {
			remaining[parent]--
			if remaining[parent] == 0 {
				ready = append(ready, parent)
			}
		}
	}

	if len(processed) != len(affected) {
		return nil, Result{}, shared.NewInvariantViolationError(
			fmt.Sprintf("recipe component graph has a cycle spanning the affected set (%d of %d recipes recalculated)", len(processed), len(affected)))
	}

	return processed, Result{RecipesRecalculated: len(processed)}, nil
}

// recalculateOneRecipe recomputes and persists a single recipe's
// cached_per_serving from its current ingredients and components. Caller
// must hold e.mu and must only call this once all of id's affected
// components have already been recalculated.
func (e *Engine) recalculateOneRecipe(ctx context.Context, id int64) error {
	r, err := e.recipes.GetByID(ctx, id)
	if err != nil {
		return shared.NewStoreError(err)
	}
	ingredients, err := e.recipes.Ingredients(ctx, id)
	if err != nil {
		return shared.NewStoreError(err)
	}
	components, err := e.recipes.Components(ctx, id)
	if err != nil {
		return shared.NewStoreError(err)
	}

	ingredientContributions := make([]calculator.IngredientContribution, 0, len(ingredients))
	for _, ing := range ingredients {
		food, err := e.foodItems.GetByID(ctx, ing.FoodItemID)
		if err != nil {
			return shared.NewStoreError(err)
		}
		conversions, err := e.foodItems.ListConversions(ctx, ing.FoodItemID)
		if err != nil {
			return shared.NewStoreError(err)
		}
		vec, err := e.calc.FoodConsumption(food, conversions, ing.Quantity, ing.Unit)
		if err != nil {
			return err
		}
		ingredientContributions = append(ingredientContributions, calculator.IngredientContribution{FoodItemID: food.ID, Vector: vec})
	}

	componentContributions := make([]calculator.ComponentContribution, 0, len(components))
	for _, comp := range components {
		child, err := e.recipes.GetByID(ctx, comp.ChildRecipeID)
		if err != nil {
			return shared.NewStoreError(err)
		}
		componentContributions = append(componentContributions, calculator.ComponentContribution{
			ChildRecipeID: child.ID,
			Vector:        child.CachedPerServing.Scale(comp.Servings),
		})
	}

	perServing, err := e.calc.RecipePerServing(ingredientContributions, componentContributions, r.ServingsProduced)
	if err != nil {
		return err
	}

	if err := e.recipes.UpdateCache(ctx, id, perServing); err != nil {
		return shared.NewStoreError(err)
	}
	return nil
}

// recalculateDaysFor refreshes every MealEntry whose Source matches one of
// sources, then refreshes the cached_totals of every Day touched by any of
// those entries. Caller must hold e.mu.
func (e *Engine) recalculateDaysFor(ctx context.Context, sources []day.Source) (Result, error) {
	touchedDays := make(map[int64]struct{})

	for _, src := range sources {
		entries, err := e.days.MealEntriesBySource(ctx, src)
		if err != nil {
			return Result{}, shared.NewStoreError(err)
		}
		for _, entry := range entries {
			vec, err := e.perServingVectorFor(ctx, entry.Source)
			if err != nil {
				return Result{}, err
			}
			cached, err := e.calc.PerServingConsumption(vec, entry.Servings, entry.PercentEaten)
			if err != nil {
				return Result{}, err
			}
			if err := e.days.UpdateMealEntryCache(ctx, entry.ID, cached); err != nil {
				return Result{}, shared.NewStoreError(err)
			}
			touchedDays[entry.DayID] = struct{}{}
		}
	}

	for dayID := range touchedDays {
		if err := e.recalculateOneDay(ctx, dayID); err != nil {
			return Result{}, err
		}
	}

	return Result{DaysRecalculated: len(touchedDays)}, nil
}

func (e *Engine) perServingVectorFor(ctx context.Context, src day.Source) (fooditem.NutritionVector, error) {
	switch src.Kind {
	case day.SourceFoodItem:
		food, err := e.foodItems.GetByID(ctx, src.FoodItemID)
		if err != nil {
			return fooditem.NutritionVector{}, shared.NewStoreError(err)
		}
		return food.Nutrition, nil
	case day.SourceRecipe:
		r, err := e.recipes.GetByID(ctx, src.RecipeID)
		if err != nil {
			return fooditem.NutritionVector{}, shared.NewStoreError(err)
		}
		return r.CachedPerServing, nil
	default:
		return fooditem.NutritionVector{}, shared.NewInvariantViolationError("meal entry source has neither a food item nor a recipe set")
	}
}

// recalculateOneDay sums every MealEntry.Cached belonging to dayID and
// persists the total as Day.cached_totals. Caller must hold e.mu.
func (e *Engine) recalculateOneDay(ctx context.Context, dayID int64) error {
	entries, err := e.days.MealEntriesByDay(ctx, dayID)
	if err != nil {
		return shared.NewStoreError(err)
	}
	var total fooditem.NutritionVector
	for _, entry := range entries {
		total = total.Add(entry.Cached)
	}
	if err := e.days.UpdateCachedTotals(ctx, dayID, calculator.SanitizeVector(total)); err != nil {
		return shared.NewStoreError(err)
	}
	return nil
}

// CheckComponentAcyclic reports an error if adding childRecipeID as a
// component of parentRecipeID would create a cycle in the recipe graph:
// i.e. if parentRecipeID is already reachable from childRecipeID by
// following existing Component edges forward (child embeds grandchild,
// etc). Must be called before Repository.AddComponent persists the new
// edge.
func (e *Engine) CheckComponentAcyclic(ctx context.Context, parentRecipeID, childRecipeID int64) error {
	if parentRecipeID == childRecipeID {
		return shared.NewCircularReferenceError([]int64{parentRecipeID, childRecipeID})
	}

	visited := make(map[int64]struct{})
	path := []int64{parentRecipeID, childRecipeID}
	var dfs func(id int64) error
	dfs = func(id int64) error {
		if id == parentRecipeID {
			return shared.NewCircularReferenceError(append([]int64(nil), path...))
		}
		if _, ok := visited[id]; ok {
			return nil
		}
		visited[id] = struct{}{}
		components, err := e.recipes.Components(ctx, id)
		if err != nil {
			return shared.NewStoreError(err)
		}
		for _, c := range components {
			path = append(path, c.ChildRecipeID)
			if err := dfs(c.ChildRecipeID); err != nil {
				return err
			}
			path = path[:len(path)-1]
		}
		return nil
	}
	return dfs(childRecipeID)
}

// RecalculateAll is the recalculate_all crash-recovery operation of
// spec.md §12: it recomputes every Recipe's cached_per_serving bottom-up
// from scratch and every Day's cached_totals/MealEntry.cached from scratch,
// ignoring whatever is currently stored. It runs only when the
// recalculate_all verb is called; nothing invokes it at process startup.
func (e *Engine) RecalculateAll(ctx context.Context) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	all, err := e.recipes.All(ctx)
	if err != nil {
		return Result{}, shared.NewStoreError(err)
	}
	allIDs := make(map[int64]struct{}, len(all))
	for _, r := range all {
		allIDs[r.ID] = struct{}{}
	}

	_, recipeResult, err := e.recalculateRecipes(ctx, allIDs)
	if err != nil {
		return Result{}, err
	}

	days, err := e.days.All(ctx)
	if err != nil {
		return Result{}, shared.NewStoreError(err)
	}
	for _, d := range days {
		entries, err := e.days.MealEntriesByDay(ctx, d.ID)
		if err != nil {
			return Result{}, shared.NewStoreError(err)
		}
		for _, entry := range entries {
			vec, err := e.perServingVectorFor(ctx, entry.Source)
			if err != nil {
				return Result{}, err
			}
			cached, err := e.calc.PerServingConsumption(vec, entry.Servings, entry.PercentEaten)
			if err != nil {
				return Result{}, err
			}
			if err := e.days.UpdateMealEntryCache(ctx, entry.ID, cached); err != nil {
				return Result{}, shared.NewStoreError(err)
			}
		}
		if err := e.recalculateOneDay(ctx, d.ID); err != nil {
			return Result{}, err
		}
	}

	e.log.Info("recalculate_all complete", zap.Int("recipes", recipeResult.RecipesRecalculated), zap.Int("days", len(days)))
	return Result{RecipesRecalculated: recipeResult.RecipesRecalculated, DaysRecalculated: len(days)}, nil
}
