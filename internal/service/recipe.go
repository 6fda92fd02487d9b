package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

var ErrNotAuthor = errors.New("only the author can modify a recipe")

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images *ImageService) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
	}
}

// CreateRecipe creates a recipe with its tag and ingredient
// associations in a single transaction. The author is the acting
// user, never client input.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, input *types.RecipeInput) (*models.Recipe, error) {
	merged, err := validateRecipeInput(input)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        input.Name,
		AuthorID:    authorID,
		ImageURL:    imageURL,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, &recipe, input.TagIDs, merged)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe's fields and its association sets.
// A failure anywhere rolls the whole write back, leaving the prior
// associations untouched.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, actorID uuid.UUID, input *types.RecipeInput) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, ErrNotAuthor
	}

	merged, err := validateRecipeInput(input)
	if err != nil {
		return nil, err
	}

	recipe.Name = input.Name
	recipe.Text = input.Text
	recipe.CookingTime = input.CookingTime
	if input.Image != "" {
		imageURL, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		recipe.ImageURL = imageURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, &recipe, input.TagIDs, merged)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a recipe with its associations.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe deletes a recipe and its dependent rows.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, actorID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return err
	}
	if recipe.AuthorID != actorID {
		return ErrNotAuthor
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShopListItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// ListRecipes lists recipes newest-first with the spec filters
// applied. The viewer-relative filters are ignored for anonymous
// viewers.
func (s *RecipeService) ListRecipes(ctx context.Context, viewerID *uuid.UUID, filter *types.RecipeFilter, offset, limit int) ([]*models.Recipe, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter != nil {
		if filter.Author != nil {
			q = q.Where("recipes.author_id = ?", *filter.Author)
		}
		if len(filter.TagSlugs) > 0 {
			q = q.Where(
				"EXISTS (SELECT 1 FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id WHERE recipe_tags.recipe_id = recipes.id AND tags.slug IN ?)",
				filter.TagSlugs,
			)
		}
		if viewerID != nil {
			if filter.IsFavorited {
				q = q.Where(
					"EXISTS (SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?)",
					*viewerID,
				)
			}
			if filter.IsInShoppingCart {
				q = q.Where(
					"EXISTS (SELECT 1 FROM shop_list_items WHERE shop_list_items.recipe_id = recipes.id AND shop_list_items.user_id = ?)",
					*viewerID,
				)
			}
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	if err := q.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC, recipes.name ASC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, total, nil
}

// ViewerFlags computes is_favorited / is_in_shopping_cart for a set
// of recipes in two id-only queries. Anonymous viewers get all-false.
func (s *RecipeService) ViewerFlags(ctx context.Context, viewerID *uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]types.RecipeFlags, error) {
	flags := make(map[uuid.UUID]types.RecipeFlags, len(recipeIDs))
	for _, id := range recipeIDs {
		flags[id] = types.RecipeFlags{}
	}
	if viewerID == nil || len(recipeIDs) == 0 {
		return flags, nil
	}

	var favorited []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).
		Pluck("recipe_id", &favorited).Error; err != nil {
		return nil, err
	}
	for _, id := range favorited {
		f := flags[id]
		f.IsFavorited = true
		flags[id] = f
	}

	var queued []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.ShopListItem{}).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).
		Pluck("recipe_id", &queued).Error; err != nil {
		return nil, err
	}
	for _, id := range queued {
		f := flags[id]
		f.IsInShoppingCart = true
		flags[id] = f
	}

	return flags, nil
}

func (s *RecipeService) storeImage(ctx context.Context, image string) (string, error) {
	if image == "" || s.images == nil {
		return image, nil
	}
	return s.images.StoreRecipeImage(ctx, image)
}

// validateRecipeInput checks the payload preconditions and returns
// the deduplicated ingredient list, duplicates merged by summing
// their amounts in first-appearance order.
func validateRecipeInput(input *types.RecipeInput) ([]types.IngredientAmount, error) {
	fields := map[string]string{}

	if len(input.Name) == 0 || len(input.Name) > 200 {
		fields["name"] = "name must be between 1 and 200 characters"
	}
	if input.CookingTime < models.MinCookingTime || input.CookingTime > models.MaxCookingTime {
		fields["cooking_time"] = "cooking time must be between 1 and 32000"
	}
	if len(input.TagIDs) == 0 {
		fields["tags"] = "at least one tag is required"
	}
	if len(input.Ingredients) == 0 {
		fields["ingredients"] = "at least one ingredient is required"
	}
	for _, ing := range input.Ingredients {
		if ing.Amount < models.MinAmount {
			fields["ingredients"] = "ingredient amount must be at least 1"
			break
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	merged := make([]types.IngredientAmount, 0, len(input.Ingredients))
	index := make(map[uuid.UUID]int, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		if i, ok := index[ing.IngredientID]; ok {
			merged[i].Amount += ing.Amount
			continue
		}
		index[ing.IngredientID] = len(merged)
		merged = append(merged, ing)
	}
	return merged, nil
}

// replaceAssociations implements the set-replace semantics inside the
// caller's transaction: prior ingredient rows are dropped, one row is
// inserted per deduplicated pair, and the tag set becomes exactly the
// submitted ids.
func replaceAssociations(tx *gorm.DB, recipe *models.Recipe, tagIDs []uuid.UUID, ingredients []types.IngredientAmount) error {
	var tags []models.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return err
	}
	if len(tags) != len(uniqueIDs(tagIDs)) {
		return newValidationError("tags", "unknown tag id")
	}

	ingredientIDs := make([]uuid.UUID, len(ingredients))
	for i, ing := range ingredients {
		ingredientIDs[i] = ing.IngredientID
	}
	var known int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&known).Error; err != nil {
		return err
	}
	if known != int64(len(ingredientIDs)) {
		return newValidationError("ingredients", "unknown ingredient id")
	}

	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	rows := make([]models.RecipeIngredient, len(ingredients))
	for i, ing := range ingredients {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ing.IngredientID,
			Amount:       ing.Amount,
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return err
	}

	return tx.Model(recipe).Association("Tags").Replace(&tags)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
