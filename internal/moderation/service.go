package moderation

import (
	"context"
	"log"
	"time"

	"botanyco/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewStore is the slice of persistence the review service needs.
type ReviewStore interface {
	HasDeliveredOrderWithProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	PushReview(ctx context.Context, productID primitive.ObjectID, r models.Review) error
	SetReview(ctx context.Context, productID, userID primitive.ObjectID, rating int, comment string, at time.Time) error
	PullReview(ctx context.Context, productID, reviewID primitive.ObjectID) error
	SetRatings(ctx context.Context, productID primitive.ObjectID, ratings float64, numOfReviews int) error
}

type Service struct {
	store    ReviewStore
	filter   *Filter
	errorLog *log.Logger
}

func NewService(store ReviewStore, filter *Filter, errorLog *log.Logger) *Service {
	return &Service{store: store, filter: filter, errorLog: errorLog}
}

// CanReview reports whether the user has a delivered order containing the
// product. This is derived at query time, never stored.
func (s *Service) CanReview(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	return s.store.HasDeliveredOrderWithProduct(ctx, userID, productID)
}

// CreateReview adds the user's first review of a product and refreshes the
// rating aggregate. A second review by the same user is a conflict; the
// caller should update instead.
func (s *Service) CreateReview(ctx context.Context, user *models.User, productID primitive.ObjectID, rating int, comment string) error {
	if err := s.requireEligible(ctx, user.ID, productID); err != nil {
		return err
	}
	review := models.Review{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Name:      user.Name,
		Rating:    clampRating(rating),
		Comment:   s.filter.Clean(comment),
		CreatedAt: time.Now(),
	}
	if err := s.store.PushReview(ctx, productID, review); err != nil {
		return err
	}
	return s.recompute(ctx, productID)
}

// UpdateReview replaces the user's existing review in place.
func (s *Service) UpdateReview(ctx context.Context, user *models.User, productID primitive.ObjectID, rating int, comment string) error {
	if err := s.requireEligible(ctx, user.ID, productID); err != nil {
		return err
	}
	err := s.store.SetReview(ctx, productID, user.ID, clampRating(rating), s.filter.Clean(comment), time.Now())
	if err != nil {
		return err
	}
	return s.recompute(ctx, productID)
}

// DeleteReview removes a review by id (admin operation).
func (s *Service) DeleteReview(ctx context.Context, productID, reviewID primitive.ObjectID) error {
	if err := s.store.PullReview(ctx, productID, reviewID); err != nil {
		return err
	}
	return s.recompute(ctx, productID)
}

func (s *Service) requireEligible(ctx context.Context, userID, productID primitive.ObjectID) error {
	ok, err := s.store.HasDeliveredOrderWithProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrNotEligible
	}
	return nil
}

// recompute reads the reviews back and persists the derived aggregate.
// RatingsMean returns 0 for an empty slice, so deleting the last review
// resets ratings instead of dividing by zero.
func (s *Service) recompute(ctx context.Context, productID primitive.ObjectID) error {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	return s.store.SetRatings(ctx, productID, models.RatingsMean(p.Reviews), len(p.Reviews))
}

func clampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}
