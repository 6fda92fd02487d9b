package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// SetupAPI wires the services and handlers under /api. The Redis
// client and S3 config may be nil; the dependent features degrade to
// their uncached / local behavior.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config, jwtSecret string) {
	authService := service.NewAuthService(db, jwtSecret)
	imageService := service.NewImageService(s3Config)
	recipeService := service.NewRecipeService(db, imageService)
	favoriteService := service.NewFavoriteService(db)
	shoppingService := service.NewShoppingListService(db)
	followService := service.NewFollowService(db)
	catalogService := service.NewCatalogService(db, redisClient)

	var writeLimiter *middleware.RateLimiter
	if redisClient != nil {
		writeLimiter = middleware.NewRecipeWriteRateLimiter(redisClient)
	}

	root := router.Group("/api")
	{
		NewUserHandler(authService, followService).RegisterRoutes(root)
		NewCatalogHandler(catalogService).RegisterRoutes(root)
		NewRecipeHandler(
			recipeService,
			favoriteService,
			shoppingService,
			followService,
			authService,
			writeLimiter,
		).RegisterRoutes(root)
	}
}
