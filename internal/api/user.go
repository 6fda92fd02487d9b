package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type UserHandler struct {
	authService   *service.AuthService
	followService *service.FollowService
}

func NewUserHandler(authService *service.AuthService, followService *service.FollowService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		followService: followService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/login", h.Login)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.authService), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, buildUserResponse(user, false))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

func (h *UserHandler) Me(c *gin.Context) {
	viewerID := middleware.ViewerID(c)
	user, err := h.authService.GetUser(c.Request.Context(), *viewerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildUserResponse(user, false))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	subscribed, err := h.subscribedTo(c, user.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildUserResponse(user, subscribed))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	offset, limit := pageParams(c)
	users, total, err := h.authService.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := h.followService.SubscribedSet(c.Request.Context(), middleware.ViewerID(c), ids)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	results := make([]UserResponse, len(users))
	for i, u := range users {
		results[i] = buildUserResponse(u, subscribed[u.ID])
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": results,
	})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	viewerID := middleware.ViewerID(c)

	author, err := h.followService.Subscribe(c.Request.Context(), *viewerID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, buildUserResponse(author, true))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	viewerID := middleware.ViewerID(c)

	if err := h.followService.Unsubscribe(c.Request.Context(), *viewerID, id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	viewerID := middleware.ViewerID(c)
	offset, limit := pageParams(c)

	recipesLimit := 0
	if v := c.Query("recipes_limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			recipesLimit = n
		}
	}

	subs, total, err := h.followService.ListSubscriptions(c.Request.Context(), *viewerID, offset, limit, recipesLimit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	results := make([]SubscriptionResponse, len(subs))
	for i, sub := range subs {
		results[i] = buildSubscriptionResponse(sub)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": results,
	})
}

func (h *UserHandler) subscribedTo(c *gin.Context, userID uuid.UUID) (bool, error) {
	set, err := h.followService.SubscribedSet(c.Request.Context(), middleware.ViewerID(c), []uuid.UUID{userID})
	if err != nil {
		return false, err
	}
	return set[userID], nil
}
