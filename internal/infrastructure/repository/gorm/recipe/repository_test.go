package recipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&RecipeRow{}, &IngredientRow{}, &ComponentRow{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	// meal_entries is owned by the day repository package; a minimal shadow
	// table is enough to exercise TimesLogged/Unused in isolation.
	if err := db.Exec("CREATE TABLE meal_entries (id INTEGER PRIMARY KEY AUTOINCREMENT, recipe_id INTEGER)").Error; err != nil {
		t.Fatalf("failed to create shadow meal_entries table: %v", err)
	}
	return db
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, recipe.New("Fried Rice", 4))
	assert.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Fried Rice", got.Name)
	assert.Equal(t, 4.0, got.ServingsProduced)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, recipe.ErrRecipeNotFound)
}

func TestRepository_GetDetail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	r, _ := repo.Create(ctx, recipe.New("Bowl", 2))
	_, err := repo.AddIngredient(ctx, recipe.Ingredient{RecipeID: r.ID, FoodItemID: 1, Quantity: 100, Unit: "g"})
	assert.NoError(t, err)

	detail, err := repo.GetDetail(ctx, r.ID)
	assert.NoError(t, err)
	assert.Len(t, detail.Ingredients, 1)
	assert.Empty(t, detail.Components)
}

func TestRepository_List_FavoritesOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	r1 := recipe.New("Favorite Bowl", 1)
	r1.IsFavorite = true
	_, _ = repo.Create(ctx, r1)
	_, _ = repo.Create(ctx, recipe.New("Plain Bowl", 1))

	favorites, err := repo.List(ctx, "", true, "name", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, favorites, 1)
	assert.Equal(t, "Favorite Bowl", favorites[0].Name)
}

func TestRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, _ := repo.Create(ctx, recipe.New("Bowl", 2))
	newServings := 3.0
	updated, err := repo.Update(ctx, created.ID, recipe.Update{ServingsProduced: &newServings})
	assert.NoError(t, err)
	assert.Equal(t, 3.0, updated.ServingsProduced)
}

func TestRepository_UpdateCache(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, _ := repo.Create(ctx, recipe.New("Bowl", 2))
	err := repo.UpdateCache(ctx, created.ID, fooditem.NutritionVector{Calories: 200, Protein: 10})
	assert.NoError(t, err)

	got, _ := repo.GetByID(ctx, created.ID)
	assert.Equal(t, 200.0, got.CachedPerServing.Calories)
	assert.Equal(t, 10.0, got.CachedPerServing.Protein)
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, _ := repo.Create(ctx, recipe.New("Bowl", 2))
	assert.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, recipe.ErrRecipeNotFound)
}

func TestRepository_ComponentsByChildAndAcyclicGraph(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	parent, _ := repo.Create(ctx, recipe.New("Parent", 1))
	child, _ := repo.Create(ctx, recipe.New("Child", 1))
	_, err := repo.AddComponent(ctx, recipe.Component{ParentRecipeID: parent.ID, ChildRecipeID: child.ID, Servings: 1})
	assert.NoError(t, err)

	parents, err := repo.ComponentsByChild(ctx, child.ID)
	assert.NoError(t, err)
	assert.Len(t, parents, 1)
	assert.Equal(t, parent.ID, parents[0].ParentRecipeID)
}

func TestRepository_AddIngredient_DuplicateRejectedBySchema(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	r, _ := repo.Create(ctx, recipe.New("Bowl", 2))
	_, err := repo.AddIngredient(ctx, recipe.Ingredient{RecipeID: r.ID, FoodItemID: 1, Quantity: 100, Unit: "g"})
	assert.NoError(t, err)

	_, err = repo.AddIngredient(ctx, recipe.Ingredient{RecipeID: r.ID, FoodItemID: 1, Quantity: 50, Unit: "g"})
	assert.Error(t, err, "the (recipe_id, food_item_id) unique index should reject a duplicate ingredient row")
}

func TestRepository_AddComponent_DuplicateRejectedBySchema(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	parent, _ := repo.Create(ctx, recipe.New("Parent", 1))
	child, _ := repo.Create(ctx, recipe.New("Child", 1))
	_, err := repo.AddComponent(ctx, recipe.Component{ParentRecipeID: parent.ID, ChildRecipeID: child.ID, Servings: 1})
	assert.NoError(t, err)

	_, err = repo.AddComponent(ctx, recipe.Component{ParentRecipeID: parent.ID, ChildRecipeID: child.ID, Servings: 2})
	assert.Error(t, err, "the (parent_recipe_id, child_recipe_id) unique index should reject a duplicate component row")
}

func TestRepository_TimesLoggedAndUnused(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	logged, _ := repo.Create(ctx, recipe.New("Logged Bowl", 1))
	unused, _ := repo.Create(ctx, recipe.New("Unused Bowl", 1))
	assert.NoError(t, db.Exec("INSERT INTO meal_entries (recipe_id) VALUES (?)", logged.ID).Error)

	count, err := repo.TimesLogged(ctx, logged.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	unusedRecipes, err := repo.Unused(ctx)
	assert.NoError(t, err)
	assert.Len(t, unusedRecipes, 1)
	assert.Equal(t, unused.ID, unusedRecipes[0].ID)
}
