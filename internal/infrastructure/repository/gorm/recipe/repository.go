package recipe

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) recipe.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rec recipe.Recipe) (recipe.Recipe, error) {
	row := rowFromDomain(rec)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return recipe.Recipe{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (recipe.Recipe, error) {
	var row RecipeRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return recipe.Recipe{}, recipe.ErrRecipeNotFound
	}
	if err != nil {
		return recipe.Recipe{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) GetDetail(ctx context.Context, id int64) (recipe.Detail, error) {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return recipe.Detail{}, err
	}
	ingredients, err := r.Ingredients(ctx, id)
	if err != nil {
		return recipe.Detail{}, err
	}
	components, err := r.Components(ctx, id)
	if err != nil {
		return recipe.Detail{}, err
	}
	return recipe.Detail{Recipe: rec, Ingredients: ingredients, Components: components}, nil
}

func (r *Repository) List(ctx context.Context, query string, favoritesOnly bool, sortBy string, page, pageSize int) ([]recipe.Recipe, error) {
	q := r.db.WithContext(ctx).Model(&RecipeRow{})
	if query != "" {
		q = q.Where("name LIKE ?", "%"+query+"%")
	}
	if favoritesOnly {
		q = q.Where("is_favorite = ?", true)
	}
	if sortBy == "created_at" {
		q = q.Order("created_at")
	} else {
		q = q.Order("name")
	}
	if pageSize > 0 {
		offset := page
		if offset < 1 {
			offset = 1
		}
		q = q.Limit(pageSize).Offset((offset - 1) * pageSize)
	}
	var rows []RecipeRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]recipe.Recipe, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) All(ctx context.Context) ([]recipe.Recipe, error) {
	var rows []RecipeRow
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]recipe.Recipe, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, id int64, update recipe.Update) (recipe.Recipe, error) {
	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.ServingsProduced != nil {
		updates["servings_produced"] = *update.ServingsProduced
	}
	if update.IsFavorite != nil {
		updates["is_favorite"] = *update.IsFavorite
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&RecipeRow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return recipe.Recipe{}, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) UpdateCache(ctx context.Context, id int64, cached fooditem.NutritionVector) error {
	return r.db.WithContext(ctx).Model(&RecipeRow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"calories":      cached.Calories,
		"protein":       cached.Protein,
		"carbs":         cached.Carbs,
		"fat":           cached.Fat,
		"fiber":         cached.Fiber,
		"sodium":        cached.Sodium,
		"sugar":         cached.Sugar,
		"saturated_fat": cached.SaturatedFat,
		"cholesterol":   cached.Cholesterol,
	}).Error
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&RecipeRow{}, "id = ?", id).Error
}

func (r *Repository) Unused(ctx context.Context) ([]recipe.Recipe, error) {
	var rows []RecipeRow
	err := r.db.WithContext(ctx).
		Where("id NOT IN (SELECT DISTINCT recipe_id FROM meal_entries WHERE recipe_id IS NOT NULL)").
		Where("id NOT IN (SELECT DISTINCT child_recipe_id FROM recipe_components)").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]recipe.Recipe, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) Ingredients(ctx context.Context, recipeID int64) ([]recipe.Ingredient, error) {
	var rows []IngredientRow
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]recipe.Ingredient, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) AddIngredient(ctx context.Context, ing recipe.Ingredient) (recipe.Ingredient, error) {
	row := IngredientRow{RecipeID: ing.RecipeID, FoodItemID: ing.FoodItemID, Quantity: ing.Quantity, Unit: ing.Unit, Notes: ing.Notes}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return recipe.Ingredient{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) UpdateIngredient(ctx context.Context, id int64, quantity *float64, unit, notes *string) (recipe.Ingredient, error) {
	updates := map[string]interface{}{}
	if quantity != nil {
		updates["quantity"] = *quantity
	}
	if unit != nil {
		updates["unit"] = *unit
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&IngredientRow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return recipe.Ingredient{}, err
		}
	}
	return r.GetIngredient(ctx, id)
}

func (r *Repository) RemoveIngredient(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&IngredientRow{}, "id = ?", id).Error
}

func (r *Repository) GetIngredient(ctx context.Context, id int64) (recipe.Ingredient, error) {
	var row IngredientRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return recipe.Ingredient{}, recipe.ErrIngredientNotFound
	}
	if err != nil {
		return recipe.Ingredient{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) Components(ctx context.Context, parentRecipeID int64) ([]recipe.Component, error) {
	var rows []ComponentRow
	if err := r.db.WithContext(ctx).Where("parent_recipe_id = ?", parentRecipeID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]recipe.Component, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) AddComponent(ctx context.Context, c recipe.Component) (recipe.Component, error) {
	row := ComponentRow{ParentRecipeID: c.ParentRecipeID, ChildRecipeID: c.ChildRecipeID, Servings: c.Servings}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return recipe.Component{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) UpdateComponent(ctx context.Context, id int64, servings float64) (recipe.Component, error) {
	if err := r.db.WithContext(ctx).Model(&ComponentRow{}).Where("id = ?", id).Update("servings", servings).Error; err != nil {
		return recipe.Component{}, err
	}
	return r.GetComponent(ctx, id)
}

func (r *Repository) RemoveComponent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&ComponentRow{}, "id = ?", id).Error
}

func (r *Repository) GetComponent(ctx context.Context, id int64) (recipe.Component, error) {
	var row ComponentRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return recipe.Component{}, recipe.ErrComponentNotFound
	}
	if err != nil {
		return recipe.Component{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) ComponentsByChild(ctx context.Context, childRecipeID int64) ([]recipe.Component, error) {
	var rows []ComponentRow
	if err := r.db.WithContext(ctx).Where("child_recipe_id = ?", childRecipeID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]recipe.Component, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) TimesLogged(ctx context.Context, recipeID int64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("meal_entries").Where("recipe_id = ?", recipeID).Count(&count).Error
	return int(count), err
}
