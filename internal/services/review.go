package service

import (
	"context"
	"math"
	"time"

	"github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/events"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// ReviewService owns the review ledger. Create enforces the business rules;
// Add is the raw append for callers that have already checked them.
type ReviewService struct {
	store     kv.Store
	hub       *events.Hub
	sanitizer *bluemonday.Policy
}

func NewReviewService(store kv.Store, hub *events.Hub) *ReviewService {
	return &ReviewService{
		store:     store,
		hub:       hub,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Aggregate reduces a product's reviews to its display summary: mean rating
// rounded to one decimal, and the count. No reviews aggregate to 0/0.
func Aggregate(reviews []models.Review) models.RatingSummary {
	if len(reviews) == 0 {
		return models.RatingSummary{}
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}

	avg := float64(sum) / float64(len(reviews))

	return models.RatingSummary{
		Rating: math.Round(avg*10) / 10,
		Count:  len(reviews),
	}
}

// Create validates and appends a review: the referenced order must belong to
// the reviewer, contain the product, and be delivered, and the (user,
// product, order) triple must not have been reviewed before.
func (s *ReviewService) Create(ctx context.Context, user *models.User, req *models.CreateReviewRequest) (*models.Review, error) {
	orders, err := readList[models.Order](ctx, s.store, ordersKey)
	if err != nil {
		return nil, err
	}

	var order *models.Order

	for i := range orders {
		if orders[i].ID == req.OrderID {
			order = &orders[i]

			break
		}
	}

	if order == nil {
		return nil, errors.NotFoundError("Order not found")
	}

	if order.UserID != user.ID {
		return nil, errors.ForbiddenError("Order belongs to another user")
	}

	if order.Status != models.OrderStatusDelivered {
		return nil, errors.BadRequestError("Only delivered orders can be reviewed")
	}

	contains := false

	for _, item := range order.Items {
		if item.ID == req.ProductID {
			contains = true

			break
		}
	}

	if !contains {
		return nil, errors.BadRequestError("Product is not part of this order")
	}

	reviewed, err := s.HasReviewed(ctx, user.ID, req.ProductID, req.OrderID)
	if err != nil {
		return nil, err
	}

	if reviewed {
		return nil, errors.DuplicateEntryError("Product already reviewed for this order")
	}

	review := models.Review{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		UserID:    user.ID,
		UserName:  user.Name,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Comment:   s.sanitizer.Sanitize(req.Comment),
		CreatedAt: time.Now(),
	}

	if err := s.Add(ctx, &review); err != nil {
		return nil, err
	}

	return &review, nil
}

// Add appends without rule checks; callers are responsible for HasReviewed.
func (s *ReviewService) Add(ctx context.Context, review *models.Review) error {
	reviews, err := readList[models.Review](ctx, s.store, reviewsKey)
	if err != nil {
		return err
	}

	reviews = append(reviews, *review)

	if err := writeList(ctx, s.store, reviewsKey, reviews); err != nil {
		return err
	}

	s.hub.Emit(events.TopicReviews)

	return nil
}

func (s *ReviewService) ByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	reviews, err := readList[models.Review](ctx, s.store, reviewsKey)
	if err != nil {
		return nil, err
	}

	out := make([]models.Review, 0)

	for _, r := range reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}

	return out, nil
}

func (s *ReviewService) ByUser(ctx context.Context, userID string) ([]models.Review, error) {
	reviews, err := readList[models.Review](ctx, s.store, reviewsKey)
	if err != nil {
		return nil, err
	}

	out := make([]models.Review, 0)

	for _, r := range reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}

	return out, nil
}

func (s *ReviewService) HasReviewed(ctx context.Context, userID, productID, orderID string) (bool, error) {
	reviews, err := readList[models.Review](ctx, s.store, reviewsKey)
	if err != nil {
		return false, err
	}

	for _, r := range reviews {
		if r.UserID == userID && r.ProductID == productID && r.OrderID == orderID {
			return true, nil
		}
	}

	return false, nil
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	reviews, err := readList[models.Review](ctx, s.store, reviewsKey)
	if err != nil {
		return err
	}

	kept := make([]models.Review, 0, len(reviews))

	for _, r := range reviews {
		if r.ID != id {
			kept = append(kept, r)
		}
	}

	if err := writeList(ctx, s.store, reviewsKey, kept); err != nil {
		return err
	}

	s.hub.Emit(events.TopicReviews)

	return nil
}

func (s *ReviewService) ByID(ctx context.Context, id string) (*models.Review, error) {
	reviews, err := readList[models.Review](ctx, s.store, reviewsKey)
	if err != nil {
		return nil, err
	}

	for i := range reviews {
		if reviews[i].ID == id {
			return &reviews[i], nil
		}
	}

	return nil, errors.NotFoundError("Review not found")
}
