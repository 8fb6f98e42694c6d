package rpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kjanat/nutricore/internal/domain/day"
	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
	"github.com/kjanat/nutricore/internal/nutrition/cascade"
	"github.com/kjanat/nutricore/internal/nutrition/unitengine"
)

// idParams is the shape shared by every verb whose only path-level input is
// an entity id (spec.md §4.4's delete/get/recalculate verbs).
type idParams struct {
	ID int64 `json:"id" binding:"required"`
}

type foodItemUpdateParams struct {
	ID int64 `json:"id" binding:"required"`
	fooditem.UpdateInput
}

type foodItemConversionParams struct {
	FoodItemID      int64    `json:"food_item_id" binding:"required"`
	UnitName        string   `json:"unit_name" binding:"required"`
	GramsEquivalent *float64 `json:"grams_equivalent,omitempty"`
	MLEquivalent    *float64 `json:"ml_equivalent,omitempty"`
}

type foodItemRemoveConversionParams struct {
	FoodItemID   int64 `json:"food_item_id" binding:"required"`
	ConversionID int64 `json:"conversion_id" binding:"required"`
}

type foodItemListConversionsParams struct {
	FoodItemID int64 `json:"food_item_id" binding:"required"`
}

type getParams struct {
	ID                    int64 `json:"id" binding:"required"`
	MaxReferencingRecipes int   `json:"max_referencing_recipes,omitempty"`
}

type recipeUpdateParams struct {
	ID int64 `json:"id" binding:"required"`
	recipe.UpdateInput
}

type recipeIngredientParams struct {
	RecipeID int64 `json:"recipe_id" binding:"required"`
	recipe.AddIngredientInput
}

type recipeUpdateIngredientParams struct {
	RecipeID     int64 `json:"recipe_id" binding:"required"`
	IngredientID int64 `json:"ingredient_id" binding:"required"`
	recipe.UpdateIngredientInput
}

type recipeRemoveIngredientParams struct {
	RecipeID     int64 `json:"recipe_id" binding:"required"`
	IngredientID int64 `json:"ingredient_id" binding:"required"`
}

type recipeBatchIngredientsParams struct {
	RecipeID int64 `json:"recipe_id" binding:"required"`
	recipe.BatchAddIngredientsInput
}

type recipeComponentParams struct {
	ParentRecipeID int64 `json:"parent_recipe_id" binding:"required"`
	recipe.AddComponentInput
}

type recipeUpdateComponentParams struct {
	ParentRecipeID int64   `json:"parent_recipe_id" binding:"required"`
	ComponentID    int64   `json:"component_id" binding:"required"`
	Servings       float64 `json:"servings" binding:"required,gt=0"`
}

type recipeRemoveComponentParams struct {
	ParentRecipeID int64 `json:"parent_recipe_id" binding:"required"`
	ComponentID    int64 `json:"component_id" binding:"required"`
}

type recipeParentRecipesParams struct {
	ID         int64 `json:"id" binding:"required"`
	Transitive bool  `json:"transitive,omitempty"`
}

type dateParams struct {
	Date time.Time `json:"date" binding:"required"`
}

type dayUpdateParams struct {
	ID int64 `json:"id" binding:"required"`
	day.DayUpdate
}

type mealEntryUpdateParams struct {
	ID int64 `json:"id" binding:"required"`
	day.MealEntryUpdate
}

type convertUnitParams struct {
	Value float64 `json:"value" binding:"required"`
	From  string  `json:"from" binding:"required"`
	To    string  `json:"to" binding:"required"`
}

// RegisterVerbs wires every verb named in the Operation Surface (spec.md §4)
// to the Dispatcher, closing each Handler over the concrete service that
// serves it.
func RegisterVerbs(d *Dispatcher, foodItems fooditem.Service, recipes recipe.Service, days day.Service, cascadeEngine *cascade.Engine, units unitengine.Engine) {
	registerFoodItemVerbs(d, foodItems)
	registerRecipeVerbs(d, recipes)
	registerDayVerbs(d, days)
	registerBatchVerbs(d, cascadeEngine)
	registerUnitVerbs(d, units)
}

func registerFoodItemVerbs(d *Dispatcher, svc fooditem.Service) {
	ctx := context.Background()

	d.Handle("food_item.add", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in fooditem.CreateInput) (any, error) {
			return svc.Add(ctx, in)
		})
	})
	d.Handle("food_item.get", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in getParams) (any, error) {
			return svc.Get(ctx, in.ID, in.MaxReferencingRecipes)
		})
	})
	d.Handle("food_item.search", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in fooditem.SearchInput) (any, error) {
			return svc.Search(ctx, in)
		})
	})
	d.Handle("food_item.list", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in fooditem.ListInput) (any, error) {
			return svc.List(ctx, in)
		})
	})
	d.Handle("food_item.update", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in foodItemUpdateParams) (any, error) {
			item, cr, err := svc.Update(ctx, in.ID, in.UpdateInput)
			if err != nil {
				return nil, err
			}
			return withCascade(item, cr), nil
		})
	})
	d.Handle("food_item.delete", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in idParams) (any, error) {
			return nil, svc.Delete(ctx, in.ID)
		})
	})
	d.Handle("food_item.list_unused", func(p json.RawMessage) (any, error) {
		return svc.ListUnused(ctx)
	})
	d.Handle("food_item.add_conversion", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in foodItemConversionParams) (any, error) {
			return svc.AddConversion(ctx, in.FoodItemID, in.UnitName, in.GramsEquivalent, in.MLEquivalent)
		})
	})
	d.Handle("food_item.remove_conversion", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in foodItemRemoveConversionParams) (any, error) {
			return nil, svc.RemoveConversion(ctx, in.FoodItemID, in.ConversionID)
		})
	})
	d.Handle("food_item.list_conversions", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in foodItemListConversionsParams) (any, error) {
			return svc.ListConversions(ctx, in.FoodItemID)
		})
	})
}

func registerRecipeVerbs(d *Dispatcher, svc recipe.Service) {
	ctx := context.Background()

	d.Handle("recipe.create", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipe.CreateInput) (any, error) {
			return svc.Create(ctx, in)
		})
	})
	d.Handle("recipe.get", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in idParams) (any, error) {
			return svc.Get(ctx, in.ID)
		})
	})
	d.Handle("recipe.list", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipe.ListInput) (any, error) {
			return svc.List(ctx, in)
		})
	})
	d.Handle("recipe.update", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipeUpdateParams) (any, error) {
			r, cr, err := svc.Update(ctx, in.ID, in.UpdateInput)
			if err != nil {
				return nil, err
			}
			return withCascade(r, cr), nil
		})
	})
	d.Handle("recipe.delete", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in idParams) (any, error) {
			return nil, svc.Delete(ctx, in.ID)
		})
	})
	d.Handle("recipe.list_unused", func(p json.RawMessage) (any, error) {
		return svc.ListUnused(ctx)
	})
	d.Handle("recipe.add_ingredient", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipeIngredientParams) (any, error) {
			ing, cr, err := svc.AddIngredient(ctx, in.RecipeID, in.AddIngredientInput)
			if err != nil {
				return nil, err
			}
			return withCascade(ing, cr), nil
		})
	})
	d.Handle("recipe.update_ingredient", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipeUpdateIngredientParams) (any, error) {
			ing, cr, err := svc.UpdateIngredient(ctx, in.RecipeID, in.IngredientID, in.UpdateIngredientInput)
			if err != nil {
				return nil, err
			}
			return withCascade(ing, cr), nil
		})
	})
	d.Handle("recipe.remove_ingredient", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipeRemoveIngredientParams) (any, error) {
			return svc.RemoveIngredient(ctx, in.RecipeID, in.IngredientID)
		})
	})
	d.Handle("recipe.batch_add_ingredients", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipeBatchIngredientsParams) (any, error) {
			ings, cr, err := svc.BatchAddIngredients(ctx, in.RecipeID, in.BatchAddIngredientsInput)
			if err != nil {
				return nil, err
			}
			return withCascade(ings, cr), nil
		})
	})
	d.Handle("recipe.add_component", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipeComponentParams) (any, error) {
			c, cr, err := svc.AddComponent(ctx, in.ParentRecipeID, in.AddComponentInput)
			if err != nil {
				return nil, err
			}
			return withCascade(c, cr), nil
		})
	})
	d.Handle("recipe.update_component", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipeUpdateComponentParams) (any, error) {
			c, cr, err := svc.UpdateComponent(ctx, in.ParentRecipeID, in.ComponentID, in.Servings)
			if err != nil {
				return nil, err
			}
			return withCascade(c, cr), nil
		})
	})
	d.Handle("recipe.remove_component", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipeRemoveComponentParams) (any, error) {
			return svc.RemoveComponent(ctx, in.ParentRecipeID, in.ComponentID)
		})
	})
	d.Handle("recipe.recalculate", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in idParams) (any, error) {
			return svc.Recalculate(ctx, in.ID)
		})
	})
	d.Handle("recipe.parent_recipes", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in recipeParentRecipesParams) (any, error) {
			return svc.ParentRecipes(ctx, in.ID, in.Transitive)
		})
	})
	d.Handle("recipe.times_logged", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in idParams) (any, error) {
			return svc.TimesLogged(ctx, in.ID)
		})
	})
}

func registerDayVerbs(d *Dispatcher, svc day.Service) {
	ctx := context.Background()

	d.Handle("day.get_or_create_day", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in dateParams) (any, error) {
			return svc.GetOrCreateDay(ctx, in.Date)
		})
	})
	d.Handle("day.get_day", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in dateParams) (any, error) {
			return svc.GetDay(ctx, in.Date)
		})
	})
	d.Handle("day.list_days", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in day.ListDaysInput) (any, error) {
			return svc.ListDays(ctx, in)
		})
	})
	d.Handle("day.update_day", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in dayUpdateParams) (any, error) {
			return svc.UpdateDay(ctx, in.ID, in.DayUpdate)
		})
	})
	d.Handle("day.delete_day", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in idParams) (any, error) {
			return nil, svc.DeleteDay(ctx, in.ID)
		})
	})
	d.Handle("day.list_orphaned_days", func(p json.RawMessage) (any, error) {
		return svc.ListOrphanedDays(ctx)
	})
	d.Handle("day.log_meal", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in day.LogMealInput) (any, error) {
			entry, cr, err := svc.LogMeal(ctx, in)
			if err != nil {
				return nil, err
			}
			return withCascade(entry, cr), nil
		})
	})
	d.Handle("day.get_meal_entry", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in idParams) (any, error) {
			return svc.GetMealEntry(ctx, in.ID)
		})
	})
	d.Handle("day.update_meal_entry", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in mealEntryUpdateParams) (any, error) {
			entry, cr, err := svc.UpdateMealEntry(ctx, in.ID, in.MealEntryUpdate)
			if err != nil {
				return nil, err
			}
			return withCascade(entry, cr), nil
		})
	})
	d.Handle("day.delete_meal_entry", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in idParams) (any, error) {
			return svc.DeleteMealEntry(ctx, in.ID)
		})
	})
	d.Handle("day.recalculate_day_nutrition", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in idParams) (any, error) {
			return svc.RecalculateDayNutrition(ctx, in.ID)
		})
	})
}

// registerBatchVerbs wires the Cascade Engine's batch-update verbs directly,
// bypassing the domain services: batching spans writes across every entity
// package, so no single Service owns it.
func registerBatchVerbs(d *Dispatcher, engine *cascade.Engine) {
	ctx := context.Background()

	d.Handle("batch.start_batch_update", func(p json.RawMessage) (any, error) {
		return nil, engine.StartBatch(ctx)
	})
	d.Handle("batch.finish_batch_update", func(p json.RawMessage) (any, error) {
		return engine.FinishBatch(ctx)
	})
	d.Handle("recalculate_all", func(p json.RawMessage) (any, error) {
		return engine.RecalculateAll(ctx)
	})
}

func registerUnitVerbs(d *Dispatcher, units unitengine.Engine) {
	d.Handle("unit.convert_unit", func(p json.RawMessage) (any, error) {
		return bind(d, p, func(in convertUnitParams) (any, error) {
			converted, err := units.ConvertUnit(in.Value, in.From, in.To)
			if err != nil {
				return nil, err
			}
			return struct {
				Value float64 `json:"value"`
			}{converted}, nil
		})
	})
}

// withCascade attaches a write verb's {recipes_recalculated,
// days_recalculated} counts to its entity result, per spec §4.5.
func withCascade[T any, C any](entity T, cascade C) any {
	return struct {
		Entity  T `json:"entity"`
		Cascade C `json:"cascade"`
	}{entity, cascade}
}
