package day

import (
	"context"
	"time"
)

// CascadeResult reports how much recalculation a write triggered.
type CascadeResult struct {
	RecipesRecalculated int `json:"recipes_recalculated"`
	DaysRecalculated    int `json:"days_recalculated"`
}

// LogMealInput is the Operation Surface payload for Day.log_meal.
type LogMealInput struct {
	Date         time.Time `json:"date" binding:"required"`
	MealType     string    `json:"meal_type" binding:"required,oneof=BREAKFAST LUNCH DINNER SNACK UNSPECIFIED"`
	FoodItemID   int64     `json:"food_item_id"`
	RecipeID     int64     `json:"recipe_id"`
	Servings     float64   `json:"servings" binding:"required,gt=0"`
	PercentEaten float64   `json:"percent_eaten" binding:"gte=0,lte=100"`
	Notes        string    `json:"notes"`
}

// ListDaysInput is the Operation Surface payload for Day.list_days.
type ListDaysInput struct {
	From time.Time `json:"from" binding:"required"`
	To   time.Time `json:"to" binding:"required"`
}

// Service is the Day/MealEntry Operation Surface.
type Service interface {
	GetOrCreateDay(ctx context.Context, date time.Time) (Day, error)
	GetDay(ctx context.Context, date time.Time) (Grouped, error)
	ListDays(ctx context.Context, in ListDaysInput) ([]Day, error)
	UpdateDay(ctx context.Context, id int64, in DayUpdate) (Day, error)
	DeleteDay(ctx context.Context, id int64) error
	ListOrphanedDays(ctx context.Context) ([]Day, error)

	LogMeal(ctx context.Context, in LogMealInput) (MealEntry, CascadeResult, error)
	GetMealEntry(ctx context.Context, id int64) (MealEntry, error)
	UpdateMealEntry(ctx context.Context, id int64, in MealEntryUpdate) (MealEntry, CascadeResult, error)
	DeleteMealEntry(ctx context.Context, id int64) (CascadeResult, error)

	RecalculateDayNutrition(ctx context.Context, id int64) (CascadeResult, error)
}
