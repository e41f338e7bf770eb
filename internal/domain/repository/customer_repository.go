package repository

import (
	"context"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Save(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context) ([]*entity.Customer, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, customers []*entity.Customer) error
}
