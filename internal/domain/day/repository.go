package day

import (
	"context"
	"time"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
)

// Repository is the Graph Store's Day/MealEntry-facing persistence contract.
type Repository interface {
	GetOrCreateByDate(ctx context.Context, date time.Time) (Day, error)
	GetByDate(ctx context.Context, date time.Time) (Day, error)
	GetByID(ctx context.Context, id int64) (Day, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Day, error)
	// All returns every Day unpaginated; used only by the Cascade Engine's
	// recalculate_all crash-recovery sweep.
	All(ctx context.Context) ([]Day, error)
	UpdateNotes(ctx context.Context, id int64, notes *string) (Day, error)
	// UpdateCachedTotals writes a freshly computed total; called only by the
	// Cascade Engine.
	UpdateCachedTotals(ctx context.Context, id int64, totals fooditem.NutritionVector) error
	Delete(ctx context.Context, id int64) error
	// Orphaned returns every Day containing no MealEntry.
	Orphaned(ctx context.Context) ([]Day, error)

	CreateMealEntry(ctx context.Context, e MealEntry) (MealEntry, error)
	GetMealEntry(ctx context.Context, id int64) (MealEntry, error)
	MealEntriesByDay(ctx context.Context, dayID int64) ([]MealEntry, error)
	// MealEntriesBySource returns every MealEntry whose source matches; used
	// by the Cascade Engine to find entries to refresh after a food item or
	// recipe's nutrition changes.
	MealEntriesBySource(ctx context.Context, source Source) ([]MealEntry, error)
	UpdateMealEntry(ctx context.Context, id int64, update MealEntryUpdate) (MealEntry, error)
	// UpdateMealEntryCache writes a freshly computed cached vector; called
	// only by the Cascade Engine.
	UpdateMealEntryCache(ctx context.Context, id int64, cached fooditem.NutritionVector) error
	DeleteMealEntry(ctx context.Context, id int64) error
}
