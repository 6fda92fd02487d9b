package testhelpers

import (
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// CreateTestUser inserts a user with a bcrypt-hashed password of "password123".
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return user
}

// CreateTestTag inserts a tag whose name and slug derive from slug.
func CreateTestTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()

	tag := &models.Tag{
		Name:  slug,
		Color: "#49B64E",
		Slug:  slug,
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag %q: %v", slug, err)
	}
	return tag
}

// CreateTestIngredient inserts a catalog ingredient.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := &models.Ingredient{
		Name:            name,
		MeasurementUnit: unit,
	}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient %q: %v", name, err)
	}
	return ingredient
}

// CreateTestRecipe inserts a recipe with the given tags and ingredient rows.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []models.Tag, ingredients []models.RecipeIngredient) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Name:        name,
		AuthorID:    author.ID,
		ImageURL:    "data:image/png;base64,aW1n",
		Text:        "Cook it well.",
		CookingTime: 10,
		Tags:        tags,
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe %q: %v", name, err)
	}

	for i := range ingredients {
		ingredients[i].RecipeID = recipe.ID
		if err := db.Create(&ingredients[i]).Error; err != nil {
			t.Fatalf("failed to attach ingredient to recipe %q: %v", name, err)
		}
	}
	recipe.Ingredients = ingredients
	return recipe
}
