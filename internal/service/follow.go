package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

var (
	ErrSelfFollow       = errors.New("subscribing to yourself is not allowed")
	ErrAlreadyFollowing = errors.New("already subscribed to this author")
	ErrNotFollowing     = errors.New("not subscribed to this author")
)

// Subscription is one row of the subscriptions listing: the followed
// author plus a truncated recipe feed and the total recipe count.
type Subscription struct {
	User         *models.User
	Recipes      []*models.Recipe
	RecipesCount int64
}

// FollowService manages user-to-user subscriptions.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Subscribe follows an author. The self-follow check runs before any
// other validation so it is rejected regardless of validation order.
func (s *FollowService) Subscribe(ctx context.Context, userID, followingID uuid.UUID) (*models.User, error) {
	if userID == followingID {
		return nil, ErrSelfFollow
	}

	var following models.User
	if err := s.db.WithContext(ctx).First(&following, "id = ?", followingID).Error; err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyFollowing
	}

	follow := models.Follow{UserID: userID, FollowingID: followingID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		return nil, err
	}
	return &following, nil
}

// Unsubscribe removes a follow pair; removing an absent pair is a
// client error.
func (s *FollowService) Unsubscribe(ctx context.Context, userID, followingID uuid.UUID) error {
	var following models.User
	if err := s.db.WithContext(ctx).First(&following, "id = ?", followingID).Error; err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// SubscribedSet reports which of the given users the viewer follows,
// with a single id-only query. Anonymous viewers get an empty set.
func (s *FollowService) SubscribedSet(ctx context.Context, viewerID *uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(userIDs))
	if viewerID == nil || len(userIDs) == 0 {
		return set, nil
	}

	var followed []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id IN ?", *viewerID, userIDs).
		Pluck("following_id", &followed).Error; err != nil {
		return nil, err
	}
	for _, id := range followed {
		set[id] = true
	}
	return set, nil
}

// ListSubscriptions pages through the authors the user follows. Each
// entry carries the author's recipes truncated to recipesLimit
// (0 means no truncation) and the author's total recipe count.
func (s *FollowService) ListSubscriptions(ctx context.Context, userID uuid.UUID, offset, limit, recipesLimit int) ([]*Subscription, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&follows).Error; err != nil {
		return nil, 0, err
	}

	subs := make([]*Subscription, 0, len(follows))
	for _, follow := range follows {
		var author models.User
		if err := s.db.WithContext(ctx).First(&author, "id = ?", follow.FollowingID).Error; err != nil {
			return nil, 0, err
		}

		recipesQ := s.db.WithContext(ctx).
			Where("author_id = ?", author.ID).
			Order("created_at DESC, name ASC")
		if recipesLimit > 0 {
			recipesQ = recipesQ.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := recipesQ.Find(&recipes).Error; err != nil {
			return nil, 0, err
		}

		var recipesCount int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("author_id = ?", author.ID).
			Count(&recipesCount).Error; err != nil {
			return nil, 0, err
		}

		sub := &Subscription{
			User:         &author,
			Recipes:      make([]*models.Recipe, len(recipes)),
			RecipesCount: recipesCount,
		}
		for i := range recipes {
			sub.Recipes[i] = &recipes[i]
		}
		subs = append(subs, sub)
	}

	return subs, total, nil
}
