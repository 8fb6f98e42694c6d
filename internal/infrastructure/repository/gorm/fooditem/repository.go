package fooditem

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) fooditem.Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, item fooditem.FoodItem) (fooditem.FoodItem, error) {
	row := rowFromDomain(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fooditem.FoodItem{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (fooditem.FoodItem, error) {
	var row FoodItemRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fooditem.FoodItem{}, fooditem.ErrFoodItemNotFound
	}
	if err != nil {
		return fooditem.FoodItem{}, err
	}
	return row.toDomain(), nil
}

// Search matches a substring of name or brand, ranking exact-prefix matches
// ahead of mid-string substring matches per spec §4.5.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]fooditem.FoodItem, error) {
	var rows []FoodItemRow
	prefix := query + "%"
	substring := "%" + query + "%"
	q := r.db.WithContext(ctx).
		Where("name LIKE ? OR brand LIKE ?", substring, substring).
		Order(clause.Expr{
			SQL:  "CASE WHEN name LIKE ? OR brand LIKE ? THEN 0 ELSE 1 END",
			Vars: []interface{}{prefix, prefix},
		}).
		Order("name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

func (r *Repository) List(ctx context.Context, preference *string, sortBy string, page, pageSize int) ([]fooditem.FoodItem, error) {
	q := r.db.WithContext(ctx).Model(&FoodItemRow{})
	if preference != nil {
		q = q.Where("preference = ?", *preference)
	}
	switch sortBy {
	case "created_at":
		q = q.Order("created_at")
	case "calories":
		q = q.Order("calories")
	default:
		q = q.Order("name")
	}
	if pageSize > 0 {
		q = q.Limit(pageSize).Offset((maxInt(page, 1) - 1) * pageSize)
	}
	var rows []FoodItemRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

func (r *Repository) Update(ctx context.Context, id int64, update fooditem.Update) (fooditem.FoodItem, error) {
	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Brand != nil {
		updates["brand"] = *update.Brand
	}
	if update.ServingSize != nil {
		updates["serving_size"] = *update.ServingSize
	}
	if update.ServingUnit != nil {
		updates["serving_unit"] = *update.ServingUnit
	}
	if update.BaseUnitType != nil {
		updates["base_unit_type"] = string(*update.BaseUnitType)
	}
	if update.GramsPerServing != nil {
		updates["grams_per_serving"] = *update.GramsPerServing
	}
	if update.MLPerServing != nil {
		updates["ml_per_serving"] = *update.MLPerServing
	}
	if update.Nutrition != nil {
		n := *update.Nutrition
		updates["calories"] = n.Calories
		updates["protein"] = n.Protein
		updates["carbs"] = n.Carbs
		updates["fat"] = n.Fat
		updates["fiber"] = n.Fiber
		updates["sodium"] = n.Sodium
		updates["sugar"] = n.Sugar
		updates["saturated_fat"] = n.SaturatedFat
		updates["cholesterol"] = n.Cholesterol
	}
	if update.Preference != nil {
		updates["preference"] = string(*update.Preference)
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&FoodItemRow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fooditem.FoodItem{}, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&FoodItemRow{}, "id = ?", id).Error
}

func (r *Repository) UsageCount(ctx context.Context, id int64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RecipeIngredientRow{}).
		Where("food_item_id = ?", id).
		Distinct("recipe_id").
		Count(&count).Error
	return int(count), err
}

func (r *Repository) UsedInRecipes(ctx context.Context, id int64) ([]int64, []string, error) {
	var rows []struct {
		ID   int64
		Name string
	}
	err := r.db.WithContext(ctx).Table("recipe_ingredients").
		Select("DISTINCT recipes.id, recipes.name").
		Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id").
		Where("recipe_ingredients.food_item_id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, len(rows))
	names := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
		names[i] = row.Name
	}
	return ids, names, nil
}

func (r *Repository) Unused(ctx context.Context) ([]fooditem.FoodItem, error) {
	var rows []FoodItemRow
	err := r.db.WithContext(ctx).
		Where("id NOT IN (SELECT DISTINCT food_item_id FROM recipe_ingredients)").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

func (r *Repository) CreateConversion(ctx context.Context, c fooditem.Conversion) (fooditem.Conversion, error) {
	row := conversionRowFromDomain(c)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fooditem.Conversion{}, err
	}
	return row.toDomain(), nil
}

func (r *Repository) DeleteConversion(ctx context.Context, foodItemID, conversionID int64) error {
	return r.db.WithContext(ctx).Delete(&ConversionRow{}, "id = ? AND food_item_id = ?", conversionID, foodItemID).Error
}

func (r *Repository) ListConversions(ctx context.Context, foodItemID int64) ([]fooditem.Conversion, error) {
	var rows []ConversionRow
	if err := r.db.WithContext(ctx).Where("food_item_id = ?", foodItemID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]fooditem.Conversion, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *Repository) GetConversion(ctx context.Context, foodItemID int64, unitName string) (fooditem.Conversion, error) {
	var row ConversionRow
	err := r.db.WithContext(ctx).First(&row, "food_item_id = ? AND unit_name = ?", foodItemID, unitName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fooditem.Conversion{}, fooditem.ErrInvalidConversion
	}
	if err != nil {
		return fooditem.Conversion{}, err
	}
	return row.toDomain(), nil
}

func toDomainSlice(rows []FoodItemRow) []fooditem.FoodItem {
	out := make([]fooditem.FoodItem, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
