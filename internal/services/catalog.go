package service

import (
	"context"

	"github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/events"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// CatalogService merges a fixed seed catalog with seller-submitted listings.
// The seed is injected at construction and immutable; only the seller sublist
// under "seller_products" is ever written. Rating and review count are
// recomputed from the review ledger on every read path.
type CatalogService struct {
	store     kv.Store
	hub       *events.Hub
	seed      []models.Product
	sanitizer *bluemonday.Policy
}

func NewCatalogService(store kv.Store, hub *events.Hub, seed []models.Product) *CatalogService {
	return &CatalogService{
		store:     store,
		hub:       hub,
		seed:      seed,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// All returns seed plus seller products, each enriched with its aggregated
// rating summary. A product with no reviews shows rating 0, count 0.
func (s *CatalogService) All(ctx context.Context) ([]models.Product, error) {
	seller, err := readList[models.Product](ctx, s.store, sellerProductsKey)
	if err != nil {
		return nil, err
	}

	reviews, err := readList[models.Review](ctx, s.store, reviewsKey)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string][]models.Review)
	for _, r := range reviews {
		byProduct[r.ProductID] = append(byProduct[r.ProductID], r)
	}

	all := make([]models.Product, 0, len(s.seed)+len(seller))
	all = append(all, s.seed...)
	all = append(all, seller...)

	for i := range all {
		summary := Aggregate(byProduct[all[i].ID])
		all[i].Rating = summary.Rating
		all[i].ReviewCount = summary.Count
	}

	return all, nil
}

// ByStore returns the seller-submitted products of one store. Seed products
// are excluded by design: a seller can only manage their own submissions.
func (s *CatalogService) ByStore(ctx context.Context, storeID string) ([]models.Product, error) {
	if storeID == "" {
		return []models.Product{}, nil
	}

	seller, err := readList[models.Product](ctx, s.store, sellerProductsKey)
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0)

	for _, p := range seller {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}

	return out, nil
}

func (s *CatalogService) ByID(ctx context.Context, id string) (*models.Product, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}

	return nil, errors.NotFoundError("Product not found")
}

// Save appends a seller listing. The id is minted when absent, the
// description is sanitized, and a products-updated change is announced.
func (s *CatalogService) Save(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if product.Title == "" {
		product.Title = product.Name
	}

	product.Description = s.sanitizer.Sanitize(product.Description)

	seller, err := readList[models.Product](ctx, s.store, sellerProductsKey)
	if err != nil {
		return err
	}

	seller = append(seller, *product)

	if err := writeList(ctx, s.store, sellerProductsKey, seller); err != nil {
		return err
	}

	s.hub.Emit(events.TopicProducts)

	return nil
}

// Delete removes a seller listing. Reviews and historical orders keep their
// frozen references; nothing cascades.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	seller, err := readList[models.Product](ctx, s.store, sellerProductsKey)
	if err != nil {
		return err
	}

	kept := make([]models.Product, 0, len(seller))

	for _, p := range seller {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	if err := writeList(ctx, s.store, sellerProductsKey, kept); err != nil {
		return err
	}

	s.hub.Emit(events.TopicProducts)

	return nil
}

func (s *CatalogService) DeleteByStore(ctx context.Context, storeID string) error {
	seller, err := readList[models.Product](ctx, s.store, sellerProductsKey)
	if err != nil {
		return err
	}

	kept := make([]models.Product, 0, len(seller))

	for _, p := range seller {
		if p.StoreID != storeID {
			kept = append(kept, p)
		}
	}

	if err := writeList(ctx, s.store, sellerProductsKey, kept); err != nil {
		return err
	}

	s.hub.Emit(events.TopicProducts)

	return nil
}
