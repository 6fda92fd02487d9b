package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// reportFilename is what browsers save the shopping report as.
const reportFilename = "Список покупок.txt"

type RecipeHandler struct {
	recipeService   *service.RecipeService
	favoriteService *service.FavoriteService
	shoppingService *service.ShoppingListService
	followService   *service.FollowService
	authService     *service.AuthService
	writeLimiter    *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	favoriteService *service.FavoriteService,
	shoppingService *service.ShoppingListService,
	followService *service.FollowService,
	authService *service.AuthService,
	writeLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		favoriteService: favoriteService,
		shoppingService: shoppingService,
		followService:   followService,
		authService:     authService,
		writeLimiter:    writeLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuthMiddleware(h.authService)

	write := []gin.HandlerFunc{auth}
	if h.writeLimiter != nil {
		write = append(write, h.writeLimiter.RateLimitMiddleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.POST("", append(write, h.CreateRecipe)...)
		recipes.PATCH("/:id", append(write, h.UpdateRecipe)...)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", auth, h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", auth, h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewerID := middleware.ViewerID(c)
	offset, limit := pageParams(c)

	filter := types.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      boolQuery(c, "is_favorited"),
		IsInShoppingCart: boolQuery(c, "is_in_shopping_cart"),
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"author": "invalid author id"}})
			return
		}
		filter.Author = &id
	}

	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), viewerID, &filter, offset, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	results, err := h.buildRecipeResponses(c, recipes)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": results,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.buildRecipeResponses(c, []*models.Recipe{recipe})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp[0])
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	input, ok := bindRecipeInput(c)
	if !ok {
		return
	}
	viewerID := middleware.ViewerID(c)

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), *viewerID, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.buildRecipeResponses(c, []*models.Recipe{recipe})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp[0])
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	input, ok := bindRecipeInput(c)
	if !ok {
		return
	}
	viewerID := middleware.ViewerID(c)

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, *viewerID, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.buildRecipeResponses(c, []*models.Recipe{recipe})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp[0])
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	viewerID := middleware.ViewerID(c)

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, *viewerID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	viewerID := middleware.ViewerID(c)

	recipe, err := h.favoriteService.Add(c.Request.Context(), *viewerID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, buildRecipeShortResponse(recipe))
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	viewerID := middleware.ViewerID(c)

	if err := h.favoriteService.Remove(c.Request.Context(), *viewerID, id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	viewerID := middleware.ViewerID(c)

	recipe, err := h.shoppingService.Add(c.Request.Context(), *viewerID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, buildRecipeShortResponse(recipe))
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	viewerID := middleware.ViewerID(c)

	if err := h.shoppingService.Remove(c.Request.Context(), *viewerID, id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	viewerID := middleware.ViewerID(c)

	report, err := h.shoppingService.BuildShoppingReport(c.Request.Context(), *viewerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+reportFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

// buildRecipeResponses assembles full projections with the viewer
// flags and author subscription flags resolved in batch.
func (h *RecipeHandler) buildRecipeResponses(c *gin.Context, recipes []*models.Recipe) ([]RecipeResponse, error) {
	viewerID := middleware.ViewerID(c)

	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	flags, err := h.recipeService.ViewerFlags(c.Request.Context(), viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := h.followService.SubscribedSet(c.Request.Context(), viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	results := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		results[i] = buildRecipeResponse(r, flags[r.ID], subscribed[r.AuthorID])
	}
	return results, nil
}

func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return uuid.Nil, false
	}
	return id, true
}

func boolQuery(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}

// bindRecipeInput parses the recipe payload, reporting malformed ids
// as field-keyed validation errors.
func bindRecipeInput(c *gin.Context) (*types.RecipeInput, bool) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	input := types.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
	}

	for _, raw := range req.Tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"tags": "invalid tag id"}})
			return nil, false
		}
		input.TagIDs = append(input.TagIDs, id)
	}
	for _, ing := range req.Ingredients {
		id, err := uuid.Parse(ing.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"ingredients": "invalid ingredient id"}})
			return nil, false
		}
		input.Ingredients = append(input.Ingredients, types.IngredientAmount{
			IngredientID: id,
			Amount:       ing.Amount,
		})
	}

	return &input, true
}
