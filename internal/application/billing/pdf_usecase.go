package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
)

// PDFUseCase genera la representación de la factura en HTML (vista previa) y PDF.
type PDFUseCase struct {
	invoices   repository.InvoiceRepository
	businesses BusinessDirectory
	generator  InvoicePDFGenerator
	now        func() time.Time
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoices repository.InvoiceRepository,
	businesses BusinessDirectory,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoices:   invoices,
		businesses: businesses,
		generator:  generator,
		now:        time.Now,
	}
}

// BuildTemplateData carga factura y negocio y arma los datos de la plantilla.
func (uc *PDFUseCase) BuildTemplateData(ctx context.Context, invoiceID string) (*TemplateData, error) {
	inv, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener factura: %w", err)
	}
	b, err := uc.businesses.Resolve(ctx, inv.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener negocio: %w", err)
	}
	return BuildTemplateData(inv, b, uc.now()), nil
}

// RenderHTML HTML de la factura; los borradores llevan marca de agua.
func (uc *PDFUseCase) RenderHTML(ctx context.Context, invoiceID string) (string, error) {
	data, err := uc.BuildTemplateData(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	return RenderHTML(data)
}

// GeneratePDF genera el PDF de una factura emitida.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrInvalidInput     si la factura sigue en borrador.
func (uc *PDFUseCase) GeneratePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	data, err := uc.BuildTemplateData(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if data.Draft {
		return nil, "", fmt.Errorf("%w: la factura está en borrador, genérela antes de descargar el PDF", domain.ErrInvalidInput)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("invoice_%s.pdf", strings.ReplaceAll(data.Invoice.InvoiceNumber, "/", "-"))
	return pdfBytes, filename, nil
}
