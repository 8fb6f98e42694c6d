package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/shared"
	"github.com/kjanat/nutricore/internal/nutrition/cascade"
)

// FoodItemService implements fooditem.Service, enforcing the integrity
// guards of spec.md §4.3 around the Graph Store's FoodItemRepository and
// triggering the Cascade Engine on writes that change a cached nutrition
// vector.
type FoodItemService struct {
	repo    fooditem.Repository
	cascade *cascade.Engine
	log     *zap.Logger
}

// NewFoodItemService creates a new FoodItem service.
func NewFoodItemService(repo fooditem.Repository, cascadeEngine *cascade.Engine, log *zap.Logger) fooditem.Service {
	return &FoodItemService{repo: repo, cascade: cascadeEngine, log: log}
}

func (s *FoodItemService) Add(ctx context.Context, in fooditem.CreateInput) (fooditem.FoodItem, error) {
	if err := validateCreateInput(in); err != nil {
		return fooditem.FoodItem{}, err
	}

	baseUnitType := shared.BaseUnitType(in.BaseUnitType)
	if baseUnitType == "" {
		baseUnitType = shared.BaseUnitMass
	}

	item := fooditem.New(in.Name, in.ServingSize, in.ServingUnit, baseUnitType, in.Nutrition)
	item.Brand = in.Brand
	item.GramsPerServing = in.GramsPerServing
	item.MLPerServing = in.MLPerServing
	item.Notes = in.Notes
	if in.Preference != "" {
		item.Preference = in.Preference
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return fooditem.FoodItem{}, fmt.Errorf("create food item: %w", shared.NewStoreError(err))
	}
	return created, nil
}

func validateCreateInput(in fooditem.CreateInput) error {
	if in.Name == "" {
		return shared.NewValidationError("name", "must not be empty")
	}
	if in.ServingSize <= 0 {
		return shared.NewValidationError("serving_size", "must be greater than zero")
	}
	if in.ServingUnit == "" {
		return shared.NewValidationError("serving_unit", "must not be empty")
	}
	if !in.Nutrition.IsNonNegative() {
		return shared.NewValidationError("nutrition", "all fields must be non-negative")
	}
	return nil
}

func (s *FoodItemService) Get(ctx context.Context, id int64, maxReferencingRecipes int) (fooditem.Detail, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fooditem.Detail{}, err
	}
	usage, err := s.repo.UsageCount(ctx, id)
	if err != nil {
		return fooditem.Detail{}, fmt.Errorf("usage count: %w", shared.NewStoreError(err))
	}
	ids, names, err := s.repo.UsedInRecipes(ctx, id)
	if err != nil {
		return fooditem.Detail{}, fmt.Errorf("used in recipes: %w", shared.NewStoreError(err))
	}
	if maxReferencingRecipes > 0 {
		if len(ids) > maxReferencingRecipes {
			ids = ids[:maxReferencingRecipes]
		}
		if len(names) > maxReferencingRecipes {
			names = names[:maxReferencingRecipes]
		}
	}
	return fooditem.Detail{
		FoodItem:             item,
		UsageCount:           usage,
		ReferencingRecipeIDs: ids,
		ReferencingRecipes:   names,
	}, nil
}

func (s *FoodItemService) Search(ctx context.Context, in fooditem.SearchInput) ([]fooditem.FoodItem, error) {
	if in.Query == "" {
		return nil, shared.NewValidationError("query", "must not be empty")
	}
	return s.repo.Search(ctx, in.Query, in.Limit)
}

func (s *FoodItemService) List(ctx context.Context, in fooditem.ListInput) ([]fooditem.FoodItem, error) {
	var preference *string
	if in.Preference != nil {
		p := string(*in.Preference)
		preference = &p
	}
	return s.repo.List(ctx, preference, in.SortBy, in.Page, in.PageSize)
}

// Update applies an identity/nutrition/metadata change, guarding identity
// changes behind the force flag per spec §4.3 ("Update identity fields
// (name/brand) when force=false and usage_count>0: rejected").
func (s *FoodItemService) Update(ctx context.Context, id int64, in fooditem.UpdateInput) (fooditem.FoodItem, fooditem.CascadeResult, error) {
	if in.Update.Nutrition != nil && !in.Update.Nutrition.IsNonNegative() {
		return fooditem.FoodItem{}, fooditem.CascadeResult{}, shared.NewValidationError("nutrition", "all fields must be non-negative")
	}

	if in.Update.IdentityChanged() && !in.Force {
		usage, err := s.repo.UsageCount(ctx, id)
		if err != nil {
			return fooditem.FoodItem{}, fooditem.CascadeResult{}, fmt.Errorf("usage count: %w", shared.NewStoreError(err))
		}
		if usage > 0 {
			_, names, err := s.repo.UsedInRecipes(ctx, id)
			if err != nil {
				return fooditem.FoodItem{}, fooditem.CascadeResult{}, fmt.Errorf("used in recipes: %w", shared.NewStoreError(err))
			}
			return fooditem.FoodItem{}, fooditem.CascadeResult{}, shared.NewBusinessRuleError(
				"food_item", "cannot rename a food item referenced by recipes without force=true", names...,
			)
		}
	}

	updated, err := s.repo.Update(ctx, id, in.Update)
	if err != nil {
		return fooditem.FoodItem{}, fooditem.CascadeResult{}, err
	}

	result := fooditem.CascadeResult{}
	if in.Update.NutritionChanged() || in.Update.ConversionAnchorChanged() {
		cascadeResult, err := s.cascade.OnFoodItemChanged(ctx, id)
		if err != nil {
			return fooditem.FoodItem{}, fooditem.CascadeResult{}, fmt.Errorf("cascade food item update: %w", err)
		}
		result = fooditem.CascadeResult{
			RecipesRecalculated: cascadeResult.RecipesRecalculated,
			DaysRecalculated:    cascadeResult.DaysRecalculated,
		}
		s.log.Info("food_item updated",
			zap.Int64("food_item_id", id),
			zap.Int("recipes_recalculated", result.RecipesRecalculated),
			zap.Int("days_recalculated", result.DaysRecalculated),
		)
	}
	return updated, result, nil
}

// Delete fails if the food item is referenced by any recipe, per spec §4.3.
func (s *FoodItemService) Delete(ctx context.Context, id int64) error {
	usage, err := s.repo.UsageCount(ctx, id)
	if err != nil {
		return fmt.Errorf("usage count: %w", shared.NewStoreError(err))
	}
	if usage > 0 {
		_, names, err := s.repo.UsedInRecipes(ctx, id)
		if err != nil {
			return fmt.Errorf("used in recipes: %w", shared.NewStoreError(err))
		}
		return shared.NewBusinessRuleError("food_item", "cannot delete a food item referenced by recipes", names...)
	}
	return s.repo.Delete(ctx, id)
}

func (s *FoodItemService) ListUnused(ctx context.Context) ([]fooditem.FoodItem, error) {
	return s.repo.Unused(ctx)
}

func (s *FoodItemService) AddConversion(ctx context.Context, foodItemID int64, unitName string, gramsEquivalent, mlEquivalent *float64) (fooditem.Conversion, error) {
	if unitName == "" {
		return fooditem.Conversion{}, shared.NewValidationError("unit_name", "must not be empty")
	}
	if (gramsEquivalent == nil) == (mlEquivalent == nil) {
		return fooditem.Conversion{}, fooditem.ErrInvalidConversion
	}
	return s.repo.CreateConversion(ctx, fooditem.Conversion{
		FoodItemID:      foodItemID,
		UnitName:        unitName,
		GramsEquivalent: gramsEquivalent,
		MLEquivalent:    mlEquivalent,
	})
}

func (s *FoodItemService) RemoveConversion(ctx context.Context, foodItemID int64, conversionID int64) error {
	return s.repo.DeleteConversion(ctx, foodItemID, conversionID)
}

func (s *FoodItemService) ListConversions(ctx context.Context, foodItemID int64) ([]fooditem.Conversion, error) {
	return s.repo.ListConversions(ctx, foodItemID)
}
