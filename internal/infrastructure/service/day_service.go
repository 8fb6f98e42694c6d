package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjanat/nutricore/internal/domain/day"
	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
	"github.com/kjanat/nutricore/internal/domain/shared"
	"github.com/kjanat/nutricore/internal/nutrition/calculator"
	"github.com/kjanat/nutricore/internal/nutrition/cascade"
	"github.com/kjanat/nutricore/internal/nutrition/unitengine"
)

// DayService implements day.Service, computing each MealEntry's cached
// vector at log time from its source's current per-serving nutrition and
// updating the Day's cached totals directly; it does not call the Cascade
// Engine.
type DayService struct {
	repo      day.Repository
	foodItems fooditem.Repository
	recipes   recipe.Repository
	calc      calculator.Calculator
	cascade   *cascade.Engine
	log       *zap.Logger
}

// NewDayService creates a new Day/MealEntry service.
func NewDayService(repo day.Repository, foodItems fooditem.Repository, recipes recipe.Repository, cascadeEngine *cascade.Engine, log *zap.Logger) day.Service {
	return &DayService{
		repo:      repo,
		foodItems: foodItems,
		recipes:   recipes,
		calc:      calculator.New(unitengine.New()),
		cascade:   cascadeEngine,
		log:       log,
	}
}

func (s *DayService) GetOrCreateDay(ctx context.Context, date time.Time) (day.Day, error) {
	return s.repo.GetOrCreateByDate(ctx, date)
}

func (s *DayService) GetDay(ctx context.Context, date time.Time) (day.Grouped, error) {
	d, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		return day.Grouped{}, err
	}
	entries, err := s.repo.MealEntriesByDay(ctx, d.ID)
	if err != nil {
		return day.Grouped{}, fmt.Errorf("meal entries by day: %w", shared.NewStoreError(err))
	}
	byType := make(map[shared.MealType][]day.MealEntry)
	for _, e := range entries {
		byType[e.MealType] = append(byType[e.MealType], e)
	}
	return day.Grouped{Day: d, MealsByType: byType}, nil
}

func (s *DayService) ListDays(ctx context.Context, in day.ListDaysInput) ([]day.Day, error) {
	return s.repo.ListByDateRange(ctx, in.From, in.To)
}

func (s *DayService) UpdateDay(ctx context.Context, id int64, in day.DayUpdate) (day.Day, error) {
	return s.repo.UpdateNotes(ctx, id, in.Notes)
}

// DeleteDay fails if the day still contains meal entries, per spec §4.3.
func (s *DayService) DeleteDay(ctx context.Context, id int64) error {
	entries, err := s.repo.MealEntriesByDay(ctx, id)
	if err != nil {
		return fmt.Errorf("meal entries by day: %w", shared.NewStoreError(err))
	}
	if len(entries) > 0 {
		return shared.NewBusinessRuleError("day", "cannot delete a day that still contains meal entries")
	}
	return s.repo.Delete(ctx, id)
}

func (s *DayService) ListOrphanedDays(ctx context.Context) ([]day.Day, error) {
	return s.repo.Orphaned(ctx)
}

// LogMeal records consumption of a FoodItem or Recipe on a date, creating
// the Day implicitly if needed, computing the entry's cached vector from the
// source's current per-serving nutrition, and adding that vector to the
// day's cached totals.
func (s *DayService) LogMeal(ctx context.Context, in day.LogMealInput) (day.MealEntry, day.CascadeResult, error) {
	if in.Servings <= 0 {
		return day.MealEntry{}, day.CascadeResult{}, day.ErrInvalidServings
	}
	if in.PercentEaten < 0 || in.PercentEaten > 100 {
		return day.MealEntry{}, day.CascadeResult{}, day.ErrInvalidPercentEaten
	}

	var source day.Source
	switch {
	case in.FoodItemID > 0 && in.RecipeID == 0:
		source = day.FoodItemSource(in.FoodItemID)
	case in.RecipeID > 0 && in.FoodItemID == 0:
		source = day.RecipeSource(in.RecipeID)
	default:
		return day.MealEntry{}, day.CascadeResult{}, day.ErrInvalidSource
	}

	perServing, err := s.perServingVectorFor(ctx, source)
	if err != nil {
		return day.MealEntry{}, day.CascadeResult{}, err
	}
	cached, err := s.calc.PerServingConsumption(perServing, in.Servings, in.PercentEaten)
	if err != nil {
		return day.MealEntry{}, day.CascadeResult{}, err
	}

	d, err := s.repo.GetOrCreateByDate(ctx, in.Date)
	if err != nil {
		return day.MealEntry{}, day.CascadeResult{}, err
	}

	entry, err := s.repo.CreateMealEntry(ctx, day.MealEntry{
		DayID:        d.ID,
		MealType:     shared.MealType(in.MealType),
		Source:       source,
		Servings:     in.Servings,
		PercentEaten: in.PercentEaten,
		Cached:       cached,
		Notes:        in.Notes,
	})
	if err != nil {
		return day.MealEntry{}, day.CascadeResult{}, err
	}

	if err := s.repo.UpdateCachedTotals(ctx, d.ID, d.CachedTotals.Add(cached)); err != nil {
		return day.MealEntry{}, day.CascadeResult{}, fmt.Errorf("update day totals: %w", shared.NewStoreError(err))
	}

	s.log.Info("meal logged",
		zap.Int64("day_id", d.ID),
		zap.String("source_kind", string(source.Kind)),
	)
	return entry, day.CascadeResult{DaysRecalculated: 1}, nil
}

func (s *DayService) perServingVectorFor(ctx context.Context, src day.Source) (fooditem.NutritionVector, error) {
	switch src.Kind {
	case day.SourceFoodItem:
		food, err := s.foodItems.GetByID(ctx, src.FoodItemID)
		if err != nil {
			return fooditem.NutritionVector{}, err
		}
		return food.Nutrition, nil
	case day.SourceRecipe:
		r, err := s.recipes.GetByID(ctx, src.RecipeID)
		if err != nil {
			return fooditem.NutritionVector{}, err
		}
		return r.CachedPerServing, nil
	default:
		return fooditem.NutritionVector{}, day.ErrInvalidSource
	}
}

func (s *DayService) GetMealEntry(ctx context.Context, id int64) (day.MealEntry, error) {
	return s.repo.GetMealEntry(ctx, id)
}

// UpdateMealEntry applies servings/percent_eaten/meal_type/notes changes and
// recomputes the cached vector if servings or percent_eaten changed; source
// is immutable per spec §3's Lifecycle rule.
func (s *DayService) UpdateMealEntry(ctx context.Context, id int64, in day.MealEntryUpdate) (day.MealEntry, day.CascadeResult, error) {
	if in.Servings != nil && *in.Servings <= 0 {
		return day.MealEntry{}, day.CascadeResult{}, day.ErrInvalidServings
	}
	if in.PercentEaten != nil && (*in.PercentEaten < 0 || *in.PercentEaten > 100) {
		return day.MealEntry{}, day.CascadeResult{}, day.ErrInvalidPercentEaten
	}

	updated, err := s.repo.UpdateMealEntry(ctx, id, in)
	if err != nil {
		return day.MealEntry{}, day.CascadeResult{}, err
	}

	if in.Servings == nil && in.PercentEaten == nil {
		return updated, day.CascadeResult{}, nil
	}

	perServing, err := s.perServingVectorFor(ctx, updated.Source)
	if err != nil {
		return day.MealEntry{}, day.CascadeResult{}, err
	}
	cached, err := s.calc.PerServingConsumption(perServing, updated.Servings, updated.PercentEaten)
	if err != nil {
		return day.MealEntry{}, day.CascadeResult{}, err
	}
	if err := s.repo.UpdateMealEntryCache(ctx, id, cached); err != nil {
		return day.MealEntry{}, day.CascadeResult{}, fmt.Errorf("update meal entry cache: %w", shared.NewStoreError(err))
	}
	updated.Cached = cached

	d, err := s.repo.GetByID(ctx, updated.DayID)
	if err != nil {
		return day.MealEntry{}, day.CascadeResult{}, err
	}
	if err := s.recomputeDayTotals(ctx, d.ID); err != nil {
		return day.MealEntry{}, day.CascadeResult{}, err
	}
	return updated, day.CascadeResult{DaysRecalculated: 1}, nil
}

func (s *DayService) DeleteMealEntry(ctx context.Context, id int64) (day.CascadeResult, error) {
	entry, err := s.repo.GetMealEntry(ctx, id)
	if err != nil {
		return day.CascadeResult{}, err
	}
	if err := s.repo.DeleteMealEntry(ctx, id); err != nil {
		return day.CascadeResult{}, err
	}
	if err := s.recomputeDayTotals(ctx, entry.DayID); err != nil {
		return day.CascadeResult{}, err
	}
	return day.CascadeResult{DaysRecalculated: 1}, nil
}

func (s *DayService) RecalculateDayNutrition(ctx context.Context, id int64) (day.CascadeResult, error) {
	if err := s.recomputeDayTotals(ctx, id); err != nil {
		return day.CascadeResult{}, err
	}
	return day.CascadeResult{DaysRecalculated: 1}, nil
}

func (s *DayService) recomputeDayTotals(ctx context.Context, dayID int64) error {
	entries, err := s.repo.MealEntriesByDay(ctx, dayID)
	if err != nil {
		return fmt.Errorf("meal entries by day: %w", shared.NewStoreError(err))
	}
	var total fooditem.NutritionVector
	for _, e := range entries {
		total = total.Add(e.Cached)
	}
	if err := s.repo.UpdateCachedTotals(ctx, dayID, total); err != nil {
		return fmt.Errorf("update day totals: %w", shared.NewStoreError(err))
	}
	return nil
}
