package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-shop/models"
	"go-shop/repository"
)

// InventoryService reserves and releases product stock for order lines.
// Correctness under concurrent reservations rests entirely on the store's
// atomic compare-and-decrement, not on any locking here.
type InventoryService struct {
	products repository.ProductRepo
	log      *zap.Logger
}

func NewInventoryService(products repository.ProductRepo, log *zap.Logger) *InventoryService {
	return &InventoryService{products: products, log: log}
}

// ReserveItems attempts to reserve stock for every line. It does not fail
// fast: every product that is out of stock (or missing) is collected so the
// caller can report all offenders at once. Reservations that succeeded before
// a later line failed are not rolled back.
func (s *InventoryService) ReserveItems(ctx context.Context, items []models.OrderItem) ([]primitive.ObjectID, error) {
	var outOfStock []primitive.ObjectID
	for _, item := range items {
		ok, err := s.products.ReserveStock(ctx, item.Product, item.Amount)
		if err != nil {
			// A store failure on one line counts the line as unfulfilled,
			// same as the guard failing.
			s.log.Error("reserve stock",
				zap.String("product", item.Product.Hex()),
				zap.Int64("amount", item.Amount),
				zap.Error(err),
			)
			outOfStock = append(outOfStock, item.Product)
			continue
		}
		if !ok {
			outOfStock = append(outOfStock, item.Product)
		}
	}
	return outOfStock, nil
}

// ReleaseItems reverses the reservation of every line. Missing products are
// skipped; the order may outlive its products.
func (s *InventoryService) ReleaseItems(ctx context.Context, items []models.OrderItem) error {
	for _, item := range items {
		err := s.products.ReleaseStock(ctx, item.Product, item.Amount)
		if err == repository.ErrNotFound {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
