package api

import (
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// UserResponse is the user projection attached to every surface that
// shows a user, always with the viewer-relative subscription flag.
type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeIngredientResponse is one ingredient line of a recipe.
type RecipeIngredientResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe projection.
type RecipeResponse struct {
	ID               string                     `json:"id"`
	Tags             []*models.Tag              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShortResponse is the truncated recipe used by toggle
// responses and the subscriptions feed.
type RecipeShortResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionResponse composes the user projection with the two
// extra feed fields instead of inheriting from it.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func buildUserResponse(user *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func buildRecipeResponse(recipe *models.Recipe, flags types.RecipeFlags, authorSubscribed bool) RecipeResponse {
	ingredients := make([]RecipeIngredientResponse, len(recipe.Ingredients))
	for i, ri := range recipe.Ingredients {
		ingredients[i] = RecipeIngredientResponse{
			ID:              ri.IngredientID.String(),
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}

	tags := make([]*models.Tag, len(recipe.Tags))
	for i := range recipe.Tags {
		tags[i] = &recipe.Tags[i]
	}

	return RecipeResponse{
		ID:               recipe.ID.String(),
		Tags:             tags,
		Author:           buildUserResponse(&recipe.Author, authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

func buildRecipeShortResponse(recipe *models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

func buildSubscriptionResponse(sub *service.Subscription) SubscriptionResponse {
	recipes := make([]RecipeShortResponse, len(sub.Recipes))
	for i, r := range sub.Recipes {
		recipes[i] = buildRecipeShortResponse(r)
	}
	return SubscriptionResponse{
		UserResponse: buildUserResponse(sub.User, true),
		Recipes:      recipes,
		RecipesCount: sub.RecipesCount,
	}
}
