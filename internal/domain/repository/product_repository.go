package repository

import (
	"context"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Save(ctx context.Context, product *entity.Product) error
	// SaveMany persiste varios productos en una sola escritura (descuento de stock al facturar).
	SaveMany(ctx context.Context, products []*entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	ReplaceAll(ctx context.Context, products []*entity.Product) error
}
