package repository

import (
	"context"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice (cabecera, ítems y pagos juntos).
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, invoices []*entity.Invoice) error
}
