package day

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kjanat/nutricore/internal/domain/day"
	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/shared"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&DayRow{}, &MealEntryRow{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func TestRepository_GetOrCreateByDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	date := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)

	created, err := repo.GetOrCreateByDate(ctx, date)
	assert.NoError(t, err)
	assert.NotZero(t, created.ID)

	again, err := repo.GetOrCreateByDate(ctx, date)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestRepository_GetByDate_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetByDate(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, day.ErrDayNotFound)
}

func TestRepository_ListByDateRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	d1 := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, _ = repo.GetOrCreateByDate(ctx, d1)
	_, _ = repo.GetOrCreateByDate(ctx, d2)
	_, _ = repo.GetOrCreateByDate(ctx, d3)

	days, err := repo.ListByDateRange(ctx, d1, d2)
	assert.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestRepository_UpdateNotes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, _ := repo.GetOrCreateByDate(ctx, time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC))
	notes := "high protein day"
	updated, err := repo.UpdateNotes(ctx, created.ID, &notes)
	assert.NoError(t, err)
	assert.Equal(t, "high protein day", updated.Notes)
}

func TestRepository_UpdateCachedTotals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, _ := repo.GetOrCreateByDate(ctx, time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC))
	err := repo.UpdateCachedTotals(ctx, created.ID, fooditem.NutritionVector{Calories: 2000, Protein: 150})
	assert.NoError(t, err)

	got, _ := repo.GetByID(ctx, created.ID)
	assert.Equal(t, 2000.0, got.CachedTotals.Calories)
	assert.Equal(t, 150.0, got.CachedTotals.Protein)
}

func TestRepository_Delete_And_Orphaned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orphan, _ := repo.GetOrCreateByDate(ctx, time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC))
	logged, _ := repo.GetOrCreateByDate(ctx, time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	_, err := repo.CreateMealEntry(ctx, day.MealEntry{
		DayID: logged.ID, MealType: shared.MealTypeLunch, Source: day.FoodItemSource(1), Servings: 1, PercentEaten: 100,
	})
	assert.NoError(t, err)

	orphaned, err := repo.Orphaned(ctx)
	assert.NoError(t, err)
	assert.Len(t, orphaned, 1)
	assert.Equal(t, orphan.ID, orphaned[0].ID)

	assert.NoError(t, repo.Delete(ctx, orphan.ID))
	_, err = repo.GetByID(ctx, orphan.ID)
	assert.ErrorIs(t, err, day.ErrDayNotFound)
}

func TestRepository_MealEntryLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	d, _ := repo.GetOrCreateByDate(ctx, time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC))
	entry, err := repo.CreateMealEntry(ctx, day.MealEntry{
		DayID:        d.ID,
		MealType:     shared.MealTypeBreakfast,
		Source:       day.RecipeSource(5),
		Servings:     2,
		PercentEaten: 100,
		Cached:       fooditem.NutritionVector{Calories: 300},
	})
	assert.NoError(t, err)
	assert.Equal(t, day.RecipeSource(5), entry.Source)

	fetched, err := repo.GetMealEntry(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, 300.0, fetched.Cached.Calories)

	bySource, err := repo.MealEntriesBySource(ctx, day.RecipeSource(5))
	assert.NoError(t, err)
	assert.Len(t, bySource, 1)

	newServings := 3.0
	updated, err := repo.UpdateMealEntry(ctx, entry.ID, day.MealEntryUpdate{Servings: &newServings})
	assert.NoError(t, err)
	assert.Equal(t, 3.0, updated.Servings)

	err = repo.UpdateMealEntryCache(ctx, entry.ID, fooditem.NutritionVector{Calories: 450})
	assert.NoError(t, err)
	recached, _ := repo.GetMealEntry(ctx, entry.ID)
	assert.Equal(t, 450.0, recached.Cached.Calories)

	assert.NoError(t, repo.DeleteMealEntry(ctx, entry.ID))
	_, err = repo.GetMealEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, day.ErrMealEntryNotFound)
}
