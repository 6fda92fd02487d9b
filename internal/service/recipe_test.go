package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

type recipeFixture struct {
	db     *gorm.DB
	svc    *RecipeService
	author *models.User
	tag    *models.Tag
	flour  *models.Ingredient
	sugar  *models.Ingredient
}

func setupRecipeFixture(t *testing.T) *recipeFixture {
	db := testhelpers.SetupTestDatabase(t)
	return &recipeFixture{
		db:     db,
		svc:    NewRecipeService(db, NewImageService(nil)),
		author: testhelpers.CreateTestUser(t, db, "author"),
		tag:    testhelpers.CreateTestTag(t, db, "dinner"),
		flour:  testhelpers.CreateTestIngredient(t, db, "flour", "g"),
		sugar:  testhelpers.CreateTestIngredient(t, db, "sugar", "g"),
	}
}

func (f *recipeFixture) input() *types.RecipeInput {
	return &types.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		Image:       "data:image/png;base64,aW1n",
		CookingTime: 15,
		TagIDs:      []uuid.UUID{f.tag.ID},
		Ingredients: []types.IngredientAmount{
			{IngredientID: f.flour.ID, Amount: 200},
			{IngredientID: f.sugar.ID, Amount: 50},
		},
	}
}

func TestCreateRecipe(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, f.author.ID, recipe.AuthorID)
	assert.Equal(t, "author", recipe.Author.Username)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "dinner", recipe.Tags[0].Slug)
	require.Len(t, recipe.Ingredients, 2)

	names := map[string]int{}
	for _, ri := range recipe.Ingredients {
		names[ri.Ingredient.Name] = ri.Amount
	}
	assert.Equal(t, 200, names["flour"])
	assert.Equal(t, 50, names["sugar"])
}

func TestCreateRecipeMergesDuplicateIngredients(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	input := f.input()
	input.Ingredients = []types.IngredientAmount{
		{IngredientID: f.flour.ID, Amount: 10},
		{IngredientID: f.flour.ID, Amount: 5},
		{IngredientID: f.sugar.ID, Amount: 1},
	}

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, input)
	require.NoError(t, err)
	require.Len(t, recipe.Ingredients, 2)

	amounts := map[uuid.UUID]int{}
	for _, ri := range recipe.Ingredients {
		amounts[ri.IngredientID] = ri.Amount
	}
	assert.Equal(t, 15, amounts[f.flour.ID])
	assert.Equal(t, 1, amounts[f.sugar.ID])
}

func TestCreateRecipeValidation(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*types.RecipeInput)
		field  string
	}{
		{"empty name", func(in *types.RecipeInput) { in.Name = "" }, "name"},
		{"cooking time too low", func(in *types.RecipeInput) { in.CookingTime = 0 }, "cooking_time"},
		{"cooking time too high", func(in *types.RecipeInput) { in.CookingTime = 32001 }, "cooking_time"},
		{"no tags", func(in *types.RecipeInput) { in.TagIDs = nil }, "tags"},
		{"no ingredients", func(in *types.RecipeInput) { in.Ingredients = nil }, "ingredients"},
		{"zero amount", func(in *types.RecipeInput) { in.Ingredients[0].Amount = 0 }, "ingredients"},
		{"unknown tag", func(in *types.RecipeInput) { in.TagIDs = []uuid.UUID{uuid.New()} }, "tags"},
		{"unknown ingredient", func(in *types.RecipeInput) {
			in.Ingredients[0].IngredientID = uuid.New()
		}, "ingredients"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := f.input()
			tc.mutate(input)
			_, err := f.svc.CreateRecipe(ctx, f.author.ID, input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateRecipeReplacesAssociations(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	lunch := testhelpers.CreateTestTag(t, f.db, "lunch")
	salt := testhelpers.CreateTestIngredient(t, f.db, "salt", "g")

	input := f.input()
	input.Name = "Salty pancakes"
	input.TagIDs = []uuid.UUID{lunch.ID}
	input.Ingredients = []types.IngredientAmount{{IngredientID: salt.ID, Amount: 5}}

	updated, err := f.svc.UpdateRecipe(ctx, recipe.ID, f.author.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "Salty pancakes", updated.Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "lunch", updated.Tags[0].Slug)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "salt", updated.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 5, updated.Ingredients[0].Amount)
}

func TestUpdateRecipeRollbackKeepsAssociations(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	for name, mutate := range map[string]func(*types.RecipeInput){
		"unknown tag":   func(in *types.RecipeInput) { in.TagIDs = []uuid.UUID{uuid.New()} },
		"empty tag set": func(in *types.RecipeInput) { in.TagIDs = nil },
	} {
		t.Run(name, func(t *testing.T) {
			input := f.input()
			mutate(input)

			_, err = f.svc.UpdateRecipe(ctx, recipe.ID, f.author.ID, input)
			require.Error(t, err)

			reloaded, err := f.svc.GetRecipe(ctx, recipe.ID)
			require.NoError(t, err)
			require.Len(t, reloaded.Tags, 1)
			assert.Equal(t, "dinner", reloaded.Tags[0].Slug)
			assert.Len(t, reloaded.Ingredients, 2)
		})
	}
}

func TestUpdateRecipeNotAuthor(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	stranger := testhelpers.CreateTestUser(t, f.db, "stranger")
	_, err = f.svc.UpdateRecipe(ctx, recipe.ID, stranger.ID, f.input())
	assert.ErrorIs(t, err, ErrNotAuthor)

	err = f.svc.DeleteRecipe(ctx, recipe.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNotAuthor)
}

func TestDeleteRecipeRemovesDependents(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	reader := testhelpers.CreateTestUser(t, f.db, "reader")
	_, err = NewFavoriteService(f.db).Add(ctx, reader.ID, recipe.ID)
	require.NoError(t, err)
	_, err = NewShoppingListService(f.db).Add(ctx, reader.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRecipe(ctx, recipe.ID, f.author.ID))

	_, err = f.svc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Favorite{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, f.db.Model(&models.ShopListItem{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, f.db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestListRecipesFilters(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	breakfast := testhelpers.CreateTestTag(t, f.db, "breakfast")

	first, err := f.svc.CreateRecipe(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	second := f.input()
	second.Name = "Omelette"
	second.TagIDs = []uuid.UUID{breakfast.ID}
	other := testhelpers.CreateTestUser(t, f.db, "other")
	_, err = f.svc.CreateRecipe(ctx, other.ID, second)
	require.NoError(t, err)

	t.Run("no filter", func(t *testing.T) {
		recipes, total, err := f.svc.ListRecipes(ctx, nil, nil, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, recipes, 2)
	})

	t.Run("by tag slug", func(t *testing.T) {
		recipes, total, err := f.svc.ListRecipes(ctx, nil, &types.RecipeFilter{TagSlugs: []string{"breakfast"}}, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Omelette", recipes[0].Name)
	})

	t.Run("by author", func(t *testing.T) {
		recipes, total, err := f.svc.ListRecipes(ctx, nil, &types.RecipeFilter{Author: &f.author.ID}, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Pancakes", recipes[0].Name)
	})

	t.Run("favorited for viewer", func(t *testing.T) {
		reader := testhelpers.CreateTestUser(t, f.db, "reader")
		_, err := NewFavoriteService(f.db).Add(ctx, reader.ID, first.ID)
		require.NoError(t, err)

		recipes, total, err := f.svc.ListRecipes(ctx, &reader.ID, &types.RecipeFilter{IsFavorited: true}, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, recipes, 1)
		assert.Equal(t, first.ID, recipes[0].ID)
	})

	t.Run("favorited ignored for anonymous", func(t *testing.T) {
		_, total, err := f.svc.ListRecipes(ctx, nil, &types.RecipeFilter{IsFavorited: true}, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})
}

func TestViewerFlags(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	reader := testhelpers.CreateTestUser(t, f.db, "reader")
	_, err = NewFavoriteService(f.db).Add(ctx, reader.ID, recipe.ID)
	require.NoError(t, err)

	flags, err := f.svc.ViewerFlags(ctx, &reader.ID, []uuid.UUID{recipe.ID})
	require.NoError(t, err)
	assert.True(t, flags[recipe.ID].IsFavorited)
	assert.False(t, flags[recipe.ID].IsInShoppingCart)

	anon, err := f.svc.ViewerFlags(ctx, nil, []uuid.UUID{recipe.ID})
	require.NoError(t, err)
	assert.False(t, anon[recipe.ID].IsFavorited)
}
