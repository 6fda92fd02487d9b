package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

const (
	tagCacheKey = "catalog:tags"
	tagCacheTTL = 5 * time.Minute
)

// CatalogService serves the read-only tag and ingredient catalogs.
// The tag list is small and almost static, so it is cached in Redis
// when a client is available.
type CatalogService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogService(db *gorm.DB, redisClient *redis.Client) *CatalogService {
	return &CatalogService{
		db:    db,
		redis: redisClient,
	}
}

// ListTags returns all tags, served from cache when possible.
func (s *CatalogService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, tagCacheKey).Bytes(); err == nil {
			var tags []*models.Tag
			if err := json.Unmarshal(cached, &tags); err == nil {
				return tags, nil
			}
		}
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Tag, len(tags))
	for i := range tags {
		result[i] = &tags[i]
	}

	if s.redis != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.redis.Set(ctx, tagCacheKey, data, tagCacheTTL).Err(); err != nil {
				log.Printf("failed to cache tag list: %v", err)
			}
		}
	}
	return result, nil
}

// GetTag loads a single tag by id.
func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// SearchIngredients lists ingredients whose name starts with the
// given prefix; an empty prefix lists the whole catalog.
func (s *CatalogService) SearchIngredients(ctx context.Context, prefix string) ([]*models.Ingredient, error) {
	q := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if prefix != "" {
		q = q.Where("name LIKE ?", prefix+"%")
	}

	var ingredients []models.Ingredient
	if err := q.Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Ingredient, len(ingredients))
	for i := range ingredients {
		result[i] = &ingredients[i]
	}
	return result, nil
}

// GetIngredient loads a single ingredient by id.
func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}
