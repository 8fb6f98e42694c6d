// Package day implements day.Repository against the Graph Store.
package day

import (
	"time"

	"github.com/kjanat/nutricore/internal/domain/day"
	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/shared"
)

type DayRow struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement"`
	Date                 time.Time `gorm:"not null;uniqueIndex"`
	CachedCalories       float64
	CachedProtein        float64
	CachedCarbs          float64
	CachedFat            float64
	CachedFiber          float64
	CachedSodium         float64
	CachedSugar          float64
	CachedSaturatedFat   float64
	CachedCholesterol    float64
	CachedCaloriesBurned *float64
	Notes                string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DayRow) TableName() string { return "days" }

func (r DayRow) toDomain() day.Day {
	return day.Day{
		ID:   r.ID,
		Date: r.Date,
		CachedTotals: fooditem.NutritionVector{
			Calories:     r.CachedCalories,
			Protein:      r.CachedProtein,
			Carbs:        r.CachedCarbs,
			Fat:          r.CachedFat,
			Fiber:        r.CachedFiber,
			Sodium:       r.CachedSodium,
			Sugar:        r.CachedSugar,
			SaturatedFat: r.CachedSaturatedFat,
			Cholesterol:  r.CachedCholesterol,
		},
		CachedCaloriesBurned: r.CachedCaloriesBurned,
		Notes:                r.Notes,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func rowFromDomain(d day.Day) DayRow {
	return DayRow{
		ID:                   d.ID,
		Date:                 d.Date,
		CachedCalories:       d.CachedTotals.Calories,
		CachedProtein:        d.CachedTotals.Protein,
		CachedCarbs:          d.CachedTotals.Carbs,
		CachedFat:            d.CachedTotals.Fat,
		CachedFiber:          d.CachedTotals.Fiber,
		CachedSodium:         d.CachedTotals.Sodium,
		CachedSugar:          d.CachedTotals.Sugar,
		CachedSaturatedFat:   d.CachedTotals.SaturatedFat,
		CachedCholesterol:    d.CachedTotals.Cholesterol,
		CachedCaloriesBurned: d.CachedCaloriesBurned,
		Notes:                d.Notes,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

// MealEntryRow stores a polymorphic Source as two nullable foreign keys
// guarded by an application-level check (exactly one non-null), per the
// design note in domain/day/model.go: the row shape is not the tagged
// struct the domain layer uses, it is translated at this boundary.
type MealEntryRow struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	DayID        int64 `gorm:"not null;index"`
	MealType     string `gorm:"not null"`
	FoodItemID   *int64 `gorm:"index"`
	RecipeID     *int64 `gorm:"index"`
	Servings     float64
	PercentEaten float64

	CachedCalories     float64
	CachedProtein      float64
	CachedCarbs        float64
	CachedFat          float64
	CachedFiber        float64
	CachedSodium       float64
	CachedSugar        float64
	CachedSaturatedFat float64
	CachedCholesterol  float64

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MealEntryRow) TableName() string { return "meal_entries" }

func (r MealEntryRow) toDomain() day.MealEntry {
	var source day.Source
	switch {
	case r.FoodItemID != nil:
		source = day.FoodItemSource(*r.FoodItemID)
	case r.RecipeID != nil:
		source = day.RecipeSource(*r.RecipeID)
	}
	return day.MealEntry{
		ID:           r.ID,
		DayID:        r.DayID,
		MealType:     shared.MealType(r.MealType),
		Source:       source,
		Servings:     r.Servings,
		PercentEaten: r.PercentEaten,
		Cached: fooditem.NutritionVector{
			Calories:     r.CachedCalories,
			Protein:      r.CachedProtein,
			Carbs:        r.CachedCarbs,
			Fat:          r.CachedFat,
			Fiber:        r.CachedFiber,
			Sodium:       r.CachedSodium,
			Sugar:        r.CachedSugar,
			SaturatedFat: r.CachedSaturatedFat,
			Cholesterol:  r.CachedCholesterol,
		},
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func mealEntryRowFromDomain(e day.MealEntry) MealEntryRow {
	row := MealEntryRow{
		ID:                 e.ID,
		DayID:              e.DayID,
		MealType:           string(e.MealType),
		Servings:           e.Servings,
		PercentEaten:       e.PercentEaten,
		CachedCalories:     e.Cached.Calories,
		CachedProtein:      e.Cached.Protein,
		CachedCarbs:        e.Cached.Carbs,
		CachedFat:          e.Cached.Fat,
		CachedFiber:        e.Cached.Fiber,
		CachedSodium:       e.Cached.Sodium,
		CachedSugar:        e.Cached.Sugar,
		CachedSaturatedFat: e.Cached.SaturatedFat,
		CachedCholesterol:  e.Cached.Cholesterol,
		Notes:              e.Notes,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
	switch e.Source.Kind {
	case day.SourceFoodItem:
		id := e.Source.FoodItemID
		row.FoodItemID = &id
	case day.SourceRecipe:
		id := e.Source.RecipeID
		row.RecipeID = &id
	}
	return row
}
