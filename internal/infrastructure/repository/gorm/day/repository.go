package day

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kjanat/nutricore/internal/domain/day"
	"github.com/kjanat/nutricore/internal/domain/fooditem"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) day.Repository {
	return &Repository{db: db}
}

func (r *Repository) GetOrCreateByDate(ctx context.Context, date time.Time) (day.Day, error) {
	var row DayRow
	err := r.db.WithContext(ctx).First(&row, "date = ?", date).Error
	if err == nil {
		return row.toDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return day.Day{}, err
	}
	created := day.NewDay(date)
	row = rowFromDomain(created)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return day.Day{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) GetByDate(ctx context.Context, date time.Time) (day.Day, error) {
	var row DayRow
	err := r.db.WithContext(ctx).First(&row, "date = ?", date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return day.Day{}, day.ErrDayNotFound
	}
	if err != nil {
		return day.Day{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (day.Day, error) {
	var row DayRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return day.Day{}, day.ErrDayNotFound
	}
	if err != nil {
		return day.Day{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]day.Day, error) {
	var rows []DayRow
	err := r.db.WithContext(ctx).Where("date BETWEEN ? AND ?", from, to).Order("date").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]day.Day, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) All(ctx context.Context) ([]day.Day, error) {
	var rows []DayRow
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]day.Day, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) UpdateNotes(ctx context.Context, id int64, notes *string) (day.Day, error) {
	if notes != nil {
		if err := r.db.WithContext(ctx).Model(&DayRow{}).Where("id = ?", id).Update("notes", *notes).Error; err != nil {
			return day.Day{}, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) UpdateCachedTotals(ctx context.Context, id int64, totals fooditem.NutritionVector) error {
	return r.db.WithContext(ctx).Model(&DayRow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cached_calories":      totals.Calories,
		"cached_protein":       totals.Protein,
		"cached_carbs":         totals.Carbs,
		"cached_fat":           totals.Fat,
		"cached_fiber":         totals.Fiber,
		"cached_sodium":        totals.Sodium,
		"cached_sugar":         totals.Sugar,
		"cached_saturated_fat": totals.SaturatedFat,
		"cached_cholesterol":   totals.Cholesterol,
	}).Error
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&DayRow{}, "id = ?", id).Error
}

func (r *Repository) Orphaned(ctx context.Context) ([]day.Day, error) {
	var rows []DayRow
	err := r.db.WithContext(ctx).
		Where("id NOT IN (SELECT DISTINCT day_id FROM meal_entries)").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]day.Day, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) CreateMealEntry(ctx context.Context, e day.MealEntry) (day.MealEntry, error) {
	row := mealEntryRowFromDomain(e)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return day.MealEntry{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) GetMealEntry(ctx context.Context, id int64) (day.MealEntry, error) {
	var row MealEntryRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return day.MealEntry{}, day.ErrMealEntryNotFound
	}
	if err != nil {
		return day.MealEntry{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) MealEntriesByDay(ctx context.Context, dayID int64) ([]day.MealEntry, error) {
	var rows []MealEntryRow
	if err := r.db.WithContext(ctx).Where("day_id = ?", dayID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]day.MealEntry, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) MealEntriesBySource(ctx context.Context, source day.Source) ([]day.MealEntry, error) {
	q := r.db.WithContext(ctx)
	switch source.Kind {
	case day.SourceFoodItem:
		q = q.Where("food_item_id = ?", source.FoodItemID)
	case day.SourceRecipe:
		q = q.Where("recipe_id = ?", source.RecipeID)
	default:
		return nil, nil
	}
	var rows []MealEntryRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]day.MealEntry, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) UpdateMealEntry(ctx context.Context, id int64, update day.MealEntryUpdate) (day.MealEntry, error) {
	updates := map[string]interface{}{}
	if update.MealType != nil {
		updates["meal_type"] = string(*update.MealType)
	}
	if update.Servings != nil {
		updates["servings"] = *update.Servings
	}
	if update.PercentEaten != nil {
		updates["percent_eaten"] = *update.PercentEaten
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&MealEntryRow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return day.MealEntry{}, err
		}
	}
	return r.GetMealEntry(ctx, id)
}

func (r *Repository) UpdateMealEntryCache(ctx context.Context, id int64, cached fooditem.NutritionVector) error {
	return r.db.WithContext(ctx).Model(&MealEntryRow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cached_calories":      cached.Calories,
		"cached_protein":       cached.Protein,
		"cached_carbs":         cached.Carbs,
		"cached_fat":           cached.Fat,
		"cached_fiber":         cached.Fiber,
		"cached_sodium":        cached.Sodium,
		"cached_sugar":         cached.Sugar,
		"cached_saturated_fat": cached.SaturatedFat,
		"cached_cholesterol":   cached.Cholesterol,
	}).Error
}

func (r *Repository) DeleteMealEntry(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&MealEntryRow{}, "id = ?", id).Error
}
