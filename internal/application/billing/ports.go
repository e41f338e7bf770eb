package billing

import (
	"context"

	"github.com/jhoicas/billmaker-api/internal/application/product"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// BusinessDirectory resuelve el negocio emisor y mantiene sus estadísticas.
type BusinessDirectory interface {
	// Resolve devuelve el negocio indicado o el activo si id está vacío.
	Resolve(ctx context.Context, id string) (*entity.Business, error)
	RefreshStats(ctx context.Context, id string) (*entity.Business, error)
}

// CustomerLedger historial de compras y fidelidad del cliente.
type CustomerLedger interface {
	Get(ctx context.Context, id string) (*entity.Customer, error)
	RecordPurchase(ctx context.Context, customerID string, inv *entity.Invoice) (int64, error)
	ReversePurchase(ctx context.Context, customerID string, inv *entity.Invoice) (*entity.Customer, error)
}

// StockKeeper integra la facturación con el stock de productos.
// Dispatch es todo o nada: si una línea no tiene stock no se aplica ninguna.
type StockKeeper interface {
	Get(ctx context.Context, id string) (*entity.Product, error)
	CheckAvailability(ctx context.Context, lines []product.StockLine) ([]product.Shortage, error)
	Dispatch(ctx context.Context, lines []product.StockLine, reference string) error
	Restock(ctx context.Context, lines []product.StockLine, reference string) error
}

// InvoicePDFGenerator puerto de salida para renderizar la factura en PDF.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, data *TemplateData) ([]byte, error)
}
