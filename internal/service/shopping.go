package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

var (
	ErrAlreadyInShopList = errors.New("recipe is already in the shopping list")
	ErrNotInShopList     = errors.New("recipe is not in the shopping list")
)

// ReportHeader is the first line of every shopping report.
const ReportHeader = "Ingredient\tQuantity\tUnit"

// ShoppingListService manages the per-user recipe queue and builds
// the aggregated purchase report.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Add queues a recipe. Adding a recipe that is already queued is a
// client error, not a no-op.
func (s *ShoppingListService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ShopListItem{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyInShopList
	}

	item := models.ShopListItem{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Remove dequeues a recipe. Removing an absent entry is a client
// error so the handler can answer 400 rather than 404.
func (s *ShoppingListService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShopListItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotInShopList
	}
	return nil
}

// Aggregate collects every ingredient association across the user's
// queued recipes, grouped by ingredient identity with amounts summed,
// ordered by name for a deterministic report.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ReportRow, error) {
	var rows []types.ReportRow
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, SUM(recipe_ingredients.amount) AS amount, ingredients.measurement_unit AS measurement_unit").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shop_list_items ON shop_list_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shop_list_items.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BuildShoppingReport renders the aggregation as a tab-separated
// text document. An empty shopping list yields a header-only report.
func (s *ShoppingListService) BuildShoppingReport(ctx context.Context, userID uuid.UUID) (string, error) {
	rows, err := s.Aggregate(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(ReportHeader)
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("\n%s\t%d\t%s", row.Name, row.Amount, row.MeasurementUnit))
	}
	return b.String(), nil
}
