package repository

import (
	"context"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para Business (DIP).
type BusinessRepository interface {
	// Save inserta o reemplaza el negocio por ID.
	Save(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	List(ctx context.Context) ([]*entity.Business, error)
	Delete(ctx context.Context, id string) error
	// ReplaceAll sustituye la colección completa (restauración de respaldos).
	ReplaceAll(ctx context.Context, businesses []*entity.Business) error
}
