package types

// RegisterRequest is the payload for POST /api/users.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RecipeIngredientRequest is one ingredient reference in a recipe payload.
type RecipeIngredientRequest struct {
	ID     string `json:"id" binding:"required"`
	Amount int    `json:"amount" binding:"required"`
}

// RecipeRequest is the payload for POST /api/recipes and PATCH /api/recipes/:id.
type RecipeRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Text        string                    `json:"text" binding:"required"`
	Image       string                    `json:"image"`
	CookingTime int                       `json:"cooking_time" binding:"required"`
	Tags        []string                  `json:"tags"`
	Ingredients []RecipeIngredientRequest `json:"ingredients"`
}
