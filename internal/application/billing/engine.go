// Package billing contiene el motor de facturación GST (borradores, ítems,
// totales, emisión, pagos y anulación) y la representación de la factura.
package billing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/product"
	"github.com/jhoicas/billmaker-api/internal/application/validation"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
	"github.com/jhoicas/billmaker-api/internal/domain/tax"
	"github.com/jhoicas/billmaker-api/pkg/gst"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

// BillingEngine orquesta el ciclo de vida de la factura. Las operaciones que
// modifican una factura se serializan con un mutex.
type BillingEngine struct {
	invoices   repository.InvoiceRepository
	counters   repository.CounterRepository
	businesses BusinessDirectory
	customers  CustomerLedger
	stock      StockKeeper
	log        *logger.Logger
	now        func() time.Time

	mu sync.Mutex
}

// NewBillingEngine construye el motor inyectando repositorios y casos de uso vecinos.
func NewBillingEngine(
	invoices repository.InvoiceRepository,
	counters repository.CounterRepository,
	businesses BusinessDirectory,
	customers CustomerLedger,
	stock StockKeeper,
	log *logger.Logger,
) *BillingEngine {
	return &BillingEngine{
		invoices:   invoices,
		counters:   counters,
		businesses: businesses,
		customers:  customers,
		stock:      stock,
		log:        log.Component("billing"),
		now:        time.Now,
	}
}

// ─── Borradores ────────────────────────────────────────────────────────────

// CreateDraft abre un borrador para el negocio indicado (o el activo) con
// vencimiento según los días de crédito del negocio.
func (e *BillingEngine) CreateDraft(ctx context.Context, in dto.CreateDraftRequest) (*entity.Invoice, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	b, err := e.businesses.Resolve(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	due := date.AddDate(0, 0, b.Settings.DueDays)
	if in.DueDate != nil {
		due = *in.DueDate
	}
	if due.Before(startOfDay(date)) {
		return nil, fmt.Errorf("%w: el vencimiento no puede ser anterior a la fecha", domain.ErrInvalidInput)
	}

	inv := &entity.Invoice{
		ID:                uuid.New().String(),
		BusinessID:        b.ID,
		Date:              date,
		DueDate:           due,
		PlaceOfSupply:     b.StateCode(),
		Items:             []entity.InvoiceItem{},
		InvoiceDiscount:   decimal.Zero,
		AdditionalCharges: decimal.Zero,
		RoundOffEnabled:   b.Settings.RoundOff,
		Status:            entity.InvoiceStatusDraft,
		Payments:          []entity.Payment{},
		Notes:             firstNonEmpty(in.Notes, b.Settings.Notes),
		Terms:             firstNonEmpty(in.Terms, b.Settings.Terms),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if in.CustomerID != "" {
		c, err := e.activeCustomer(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		attachCustomer(inv, b, c)
	}
	recalculate(inv)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	e.log.Info().Str("invoice_id", inv.ID).Str("business_id", b.ID).Msg("borrador creado")
	return inv, nil
}

// AddItem agrega una línea desde un producto (tomando nombre, HSN, unidad, precio
// y tasa del catálogo, con precio editable) o una línea manual.
func (e *BillingEngine) AddItem(ctx context.Context, invoiceID string, in dto.ItemRequest) (*entity.Invoice, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return e.mutateDraft(ctx, invoiceID, func(inv *entity.Invoice, b *entity.Business) error {
		item := entity.InvoiceItem{
			ID:              uuid.New().String(),
			Name:            strings.TrimSpace(in.Name),
			HSNCode:         strings.TrimSpace(in.HSNCode),
			Unit:            strings.ToUpper(strings.TrimSpace(in.Unit)),
			Quantity:        in.Quantity,
			DiscountPercent: in.DiscountPercent,
		}
		if in.ProductID != "" {
			p, err := e.stock.Get(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if !p.IsActive {
				return fmt.Errorf("%w: el producto %s está inactivo", domain.ErrInvalidInput, p.Code)
			}
			item.ProductID = p.ID
			item.Name = firstNonEmpty(item.Name, p.Name)
			item.HSNCode = firstNonEmpty(item.HSNCode, p.HSNCode)
			item.Unit = firstNonEmpty(item.Unit, p.Unit)
			item.Rate = p.Price
			item.TaxRate = p.TaxRate
		} else {
			if in.Rate == nil {
				verr := domain.NewValidationError()
				verr.Add("rate", "es obligatorio en líneas manuales")
				return verr
			}
			item.TaxRate = b.Settings.DefaultTaxRate
		}
		if in.Rate != nil {
			item.Rate = *in.Rate
		}
		if in.TaxRate != nil {
			item.TaxRate = *in.TaxRate
		}
		item.Unit = firstNonEmpty(item.Unit, gst.UnitNumbers)
		inv.Items = append(inv.Items, item)
		e.warnShortage(ctx, inv, item.ProductID)
		return nil
	})
}

// UpdateItem modifica una línea del borrador.
func (e *BillingEngine) UpdateItem(ctx context.Context, invoiceID, itemID string, in dto.UpdateItemRequest) (*entity.Invoice, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return e.mutateDraft(ctx, invoiceID, func(inv *entity.Invoice, _ *entity.Business) error {
		idx := inv.ItemByID(itemID)
		if idx < 0 {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
		}
		it := &inv.Items[idx]
		if in.Name != nil {
			it.Name = strings.TrimSpace(*in.Name)
		}
		if in.HSNCode != nil {
			it.HSNCode = strings.TrimSpace(*in.HSNCode)
		}
		if in.Unit != nil {
			it.Unit = strings.ToUpper(strings.TrimSpace(*in.Unit))
		}
		if in.Quantity != nil {
			it.Quantity = *in.Quantity
		}
		if in.Rate != nil {
			it.Rate = *in.Rate
		}
		if in.DiscountPercent != nil {
			it.DiscountPercent = *in.DiscountPercent
		}
		if in.TaxRate != nil {
			it.TaxRate = *in.TaxRate
		}
		if in.Quantity != nil {
			e.warnShortage(ctx, inv, it.ProductID)
		}
		return nil
	})
}

// RemoveItem quita una línea del borrador.
func (e *BillingEngine) RemoveItem(ctx context.Context, invoiceID, itemID string) (*entity.Invoice, error) {
	return e.mutateDraft(ctx, invoiceID, func(inv *entity.Invoice, _ *entity.Business) error {
		idx := inv.ItemByID(itemID)
		if idx < 0 {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
		}
		inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
		return nil
	})
}

// SetCustomer asigna el cliente y recalcula el tipo de suministro (CGST/SGST o IGST).
func (e *BillingEngine) SetCustomer(ctx context.Context, invoiceID string, in dto.SetCustomerRequest) (*entity.Invoice, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	c, err := e.activeCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	return e.mutateDraft(ctx, invoiceID, func(inv *entity.Invoice, b *entity.Business) error {
		attachCustomer(inv, b, c)
		return nil
	})
}

// SetAdjustments fija descuento de factura, cargos adicionales, redondeo y textos.
func (e *BillingEngine) SetAdjustments(ctx context.Context, invoiceID string, in dto.AdjustmentsRequest) (*entity.Invoice, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return e.mutateDraft(ctx, invoiceID, func(inv *entity.Invoice, _ *entity.Business) error {
		if in.InvoiceDiscount != nil {
			inv.InvoiceDiscount = tax.Round2(*in.InvoiceDiscount)
		}
		if in.AdditionalCharges != nil {
			inv.AdditionalCharges = tax.Round2(*in.AdditionalCharges)
		}
		if in.AdditionalChargesLabel != nil {
			inv.AdditionalChargesLabel = strings.TrimSpace(*in.AdditionalChargesLabel)
		}
		if in.RoundOff != nil {
			inv.RoundOffEnabled = *in.RoundOff
		}
		if in.DueDate != nil {
			if in.DueDate.Before(startOfDay(inv.Date)) {
				return fmt.Errorf("%w: el vencimiento no puede ser anterior a la fecha", domain.ErrInvalidInput)
			}
			inv.DueDate = *in.DueDate
		}
		if in.Notes != nil {
			inv.Notes = strings.TrimSpace(*in.Notes)
		}
		if in.Terms != nil {
			inv.Terms = strings.TrimSpace(*in.Terms)
		}
		recalculate(inv)
		return checkDiscount(inv)
	})
}

// DeleteDraft elimina un borrador; las facturas emitidas solo se anulan.
func (e *BillingEngine) DeleteDraft(ctx context.Context, invoiceID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !inv.IsDraft() {
		return fmt.Errorf("%w: solo se eliminan borradores, use anular", domain.ErrConflict)
	}
	return e.invoices.Delete(ctx, invoiceID)
}

// Duplicate crea un borrador nuevo con el mismo cliente, ítems y ajustes.
func (e *BillingEngine) Duplicate(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	src, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	draft, err := e.CreateDraft(ctx, dto.CreateDraftRequest{BusinessID: src.BusinessID, Notes: src.Notes, Terms: src.Terms})
	if err != nil {
		return nil, err
	}
	return e.mutateDraft(ctx, draft.ID, func(inv *entity.Invoice, b *entity.Business) error {
		if src.CustomerID != "" {
			if c, err := e.activeCustomer(ctx, src.CustomerID); err == nil {
				attachCustomer(inv, b, c)
			}
		}
		for _, it := range src.Items {
			it.ID = uuid.New().String()
			inv.Items = append(inv.Items, it)
		}
		inv.InvoiceDiscount = src.InvoiceDiscount
		inv.AdditionalCharges = src.AdditionalCharges
		inv.AdditionalChargesLabel = src.AdditionalChargesLabel
		inv.RoundOffEnabled = src.RoundOffEnabled
		return nil
	})
}

// ─── Emisión y ciclo de vida ───────────────────────────────────────────────

// Generate emite la factura: numeración <prefijo>-<año>-<NNNN>, descuento de
// stock (todo o nada), registro de la compra en el cliente, IRN y estadísticas.
func (e *BillingEngine) Generate(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.IsDraft() {
		return nil, fmt.Errorf("%w: la factura ya fue emitida (%s)", domain.ErrInvalidTransition, inv.Status)
	}
	if len(inv.Items) == 0 {
		return nil, domain.ErrEmptyInvoice
	}
	if inv.CustomerID == "" {
		verr := domain.NewValidationError()
		verr.Add("customer_id", "la factura requiere un cliente")
		return nil, verr
	}
	b, err := e.businesses.Resolve(ctx, inv.BusinessID)
	if err != nil {
		return nil, err
	}
	c, err := e.customers.Get(ctx, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	attachCustomer(inv, b, c)
	recalculate(inv)
	if err := checkDiscount(inv); err != nil {
		return nil, err
	}

	lines := stockLines(inv)
	if err := e.stock.Dispatch(ctx, lines, inv.ID); err != nil {
		return nil, err
	}
	rollbackStock := func(cause error) error {
		if rerr := e.stock.Restock(ctx, lines, inv.ID); rerr != nil {
			e.log.Error().Err(rerr).Str("invoice_id", inv.ID).Msg("no se pudo revertir el stock")
		}
		return cause
	}

	n, err := e.counters.Next(ctx, "invoice:"+b.ID)
	if err != nil {
		return nil, rollbackStock(err)
	}
	now := e.now()
	inv.InvoiceNumber = fmt.Sprintf("%s-%d-%04d", firstNonEmpty(b.Settings.InvoicePrefix, "INV"), inv.Date.Year(), n)
	inv.Status = entity.InvoiceStatusGenerated
	inv.GeneratedAt = &now
	inv.UpdatedAt = now
	inv.AmountPaid = decimal.Zero
	inv.BalanceDue = inv.Totals.GrandTotal
	if b.GSTIN != "" {
		irn, err := gst.CalculateIRN(gst.IRNParams{
			SupplierGSTIN: b.GSTIN,
			DocType:       gst.DocTypeInvoice,
			DocNumber:     inv.InvoiceNumber,
			DocDate:       inv.Date,
		})
		if err != nil {
			return nil, rollbackStock(err)
		}
		inv.IRN = irn
	}

	points, err := e.customers.RecordPurchase(ctx, inv.CustomerID, inv)
	if err != nil {
		return nil, rollbackStock(err)
	}
	inv.PointsEarned = points

	if err := e.invoices.Save(ctx, inv); err != nil {
		if _, rerr := e.customers.ReversePurchase(ctx, inv.CustomerID, inv); rerr != nil {
			e.log.Error().Err(rerr).Str("invoice_id", inv.ID).Msg("no se pudo revertir la compra del cliente")
		}
		return nil, rollbackStock(err)
	}
	e.refreshStats(ctx, inv.BusinessID)

	e.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.InvoiceNumber).
		Str("grand_total", inv.Totals.GrandTotal.String()).
		Bool("inter_state", inv.InterState).
		Msg("factura emitida")
	return inv, nil
}

// RecordPayment registra un abono. La factura queda pagada cuando el saldo llega a cero.
func (e *BillingEngine) RecordPayment(ctx context.Context, invoiceID string, in dto.PaymentRequest) (*entity.Invoice, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	inv, err := e.recordPayment(ctx, invoiceID, in)
	if err != nil {
		return nil, err
	}
	e.refreshStats(ctx, inv.BusinessID)
	return inv, nil
}

func (e *BillingEngine) recordPayment(ctx context.Context, invoiceID string, in dto.PaymentRequest) (*entity.Invoice, error) {
	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case entity.InvoiceStatusGenerated, entity.InvoiceStatusSent, entity.InvoiceStatusPartiallyPaid:
	default:
		return nil, fmt.Errorf("%w: no se registran pagos en estado %s", domain.ErrInvalidTransition, inv.Status)
	}
	amount := tax.Round2(in.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if amount.GreaterThan(inv.BalanceDue) {
		return nil, fmt.Errorf("%w: el monto %s supera el saldo %s", domain.ErrInvalidInput, amount, inv.BalanceDue)
	}

	now := e.now()
	inv.Payments = append(inv.Payments, entity.Payment{
		ID:        uuid.New().String(),
		Amount:    amount,
		Method:    in.Method,
		Reference: strings.TrimSpace(in.Reference),
		At:        now,
	})
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	inv.BalanceDue = inv.Totals.GrandTotal.Sub(inv.AmountPaid)
	if inv.BalanceDue.IsPositive() {
		inv.Status = entity.InvoiceStatusPartiallyPaid
	} else {
		inv.BalanceDue = decimal.Zero
		inv.Status = entity.InvoiceStatusPaid
		inv.PaidAt = &now
	}
	inv.UpdatedAt = now
	if err := e.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	e.log.Info().Str("invoice_id", inv.ID).Str("amount", amount.String()).Str("status", inv.Status).Msg("pago registrado")
	return inv, nil
}

// UpdateStatus cambio manual de estado respetando las transiciones permitidas.
// paid liquida el saldo con un pago (method, por defecto efectivo);
// cancelled y generated delegan en Cancel y Generate.
func (e *BillingEngine) UpdateStatus(ctx context.Context, invoiceID string, in dto.StatusRequest) (*entity.Invoice, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(inv.Status, in.Status) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, inv.Status, in.Status)
	}

	switch in.Status {
	case entity.InvoiceStatusGenerated:
		return e.Generate(ctx, invoiceID)
	case entity.InvoiceStatusCancelled:
		return e.Cancel(ctx, invoiceID, dto.CancelRequest{Reason: in.Reason})
	case entity.InvoiceStatusPaid:
		if inv.BalanceDue.IsPositive() {
			method := in.Method
			if method == "" {
				method = gst.PaymentCash
			}
			return e.RecordPayment(ctx, invoiceID, dto.PaymentRequest{Amount: inv.BalanceDue, Method: method, Reference: "liquidación manual"})
		}
		return e.setStatus(ctx, invoiceID, entity.InvoiceStatusPaid)
	case entity.InvoiceStatusSent:
		return e.setStatus(ctx, invoiceID, entity.InvoiceStatusSent)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, in.Status)
	}
}

// setStatus cambia el estado sin efectos sobre stock, cliente ni pagos.
func (e *BillingEngine) setStatus(ctx context.Context, invoiceID, status string) (*entity.Invoice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(inv.Status, status) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, inv.Status, status)
	}
	now := e.now()
	inv.Status = status
	inv.UpdatedAt = now
	if status == entity.InvoiceStatusPaid && inv.PaidAt == nil {
		inv.PaidAt = &now
	}
	if err := e.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	e.log.Info().Str("invoice_id", inv.ID).Str("status", status).Msg("estado actualizado")
	return inv, nil
}

// Cancel anula una factura emitida: devuelve el stock, revierte la compra del
// cliente y refresca las estadísticas del negocio.
func (e *BillingEngine) Cancel(ctx context.Context, invoiceID string, in dto.CancelRequest) (*entity.Invoice, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(inv.Status, entity.InvoiceStatusCancelled) {
		return nil, fmt.Errorf("%w: no se puede anular en estado %s", domain.ErrInvalidTransition, inv.Status)
	}

	lines := stockLines(inv)
	if err := e.stock.Restock(ctx, lines, inv.ID); err != nil {
		return nil, err
	}
	reversed := false
	if inv.CustomerID != "" {
		if _, err := e.customers.ReversePurchase(ctx, inv.CustomerID, inv); err != nil {
			e.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo revertir la compra del cliente")
		} else {
			reversed = true
		}
	}

	now := e.now()
	inv.Status = entity.InvoiceStatusCancelled
	inv.CancelReason = strings.TrimSpace(in.Reason)
	inv.CancelledAt = &now
	inv.UpdatedAt = now
	if err := e.invoices.Save(ctx, inv); err != nil {
		// la factura sigue emitida: se vuelve a aplicar stock y compra
		if rerr := e.stock.Dispatch(ctx, lines, inv.ID); rerr != nil {
			e.log.Error().Err(rerr).Str("invoice_id", inv.ID).Msg("no se pudo restaurar el stock")
		}
		if reversed {
			if _, rerr := e.customers.RecordPurchase(ctx, inv.CustomerID, inv); rerr != nil {
				e.log.Error().Err(rerr).Str("invoice_id", inv.ID).Msg("no se pudo restaurar la compra del cliente")
			}
		}
		return nil, err
	}
	e.refreshStats(ctx, inv.BusinessID)
	e.log.Info().Str("invoice_id", inv.ID).Str("number", inv.InvoiceNumber).Msg("factura anulada")
	return inv, nil
}

// ─── Consultas ─────────────────────────────────────────────────────────────

// Get obtiene una factura por ID.
func (e *BillingEngine) Get(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	return e.invoices.GetByID(ctx, invoiceID)
}

// ─── helpers ───────────────────────────────────────────────────────────────

// mutateDraft carga un borrador, aplica fn, recalcula totales y persiste.
func (e *BillingEngine) mutateDraft(ctx context.Context, invoiceID string, fn func(inv *entity.Invoice, b *entity.Business) error) (*entity.Invoice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.IsDraft() {
		return nil, fmt.Errorf("%w: solo se editan borradores (estado %s)", domain.ErrConflict, inv.Status)
	}
	b, err := e.businesses.Resolve(ctx, inv.BusinessID)
	if err != nil {
		return nil, err
	}
	if err := fn(inv, b); err != nil {
		return nil, err
	}
	recalculate(inv)
	inv.UpdatedAt = e.now()
	if err := e.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (e *BillingEngine) activeCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := e.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, fmt.Errorf("%w: el cliente %s está inactivo", domain.ErrInvalidInput, c.Code)
	}
	return c, nil
}

// warnShortage avisa en el log si el borrador pide más de lo disponible; no bloquea.
func (e *BillingEngine) warnShortage(ctx context.Context, inv *entity.Invoice, productID string) {
	if productID == "" {
		return
	}
	var lines []product.StockLine
	for _, l := range stockLines(inv) {
		if l.ProductID == productID {
			lines = append(lines, l)
		}
	}
	short, err := e.stock.CheckAvailability(ctx, lines)
	if err != nil {
		return
	}
	for _, s := range short {
		e.log.Warn().
			Str("invoice_id", inv.ID).
			Str("product", s.Name).
			Str("available", s.Available.String()).
			Str("requested", s.Requested.String()).
			Msg("stock insuficiente en borrador")
	}
}

func (e *BillingEngine) refreshStats(ctx context.Context, businessID string) {
	if _, err := e.businesses.RefreshStats(ctx, businessID); err != nil {
		e.log.Warn().Err(err).Str("business_id", businessID).Msg("no se pudieron refrescar las estadísticas")
	}
}

// attachCustomer copia los datos del cliente y decide CGST/SGST o IGST.
func attachCustomer(inv *entity.Invoice, b *entity.Business, c *entity.Customer) {
	inv.CustomerID = c.ID
	inv.Customer = entity.CustomerSnapshot{
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		GSTIN:     c.GSTIN,
		Address:   c.Address,
		StateCode: c.StateCode,
	}
	inv.PlaceOfSupply = firstNonEmpty(c.StateCode, b.StateCode())
	inv.InterState = tax.IsInterState(b.StateCode(), c.StateCode)
}

// recalculate recalcula cada línea y los totales de la factura.
func recalculate(inv *entity.Invoice) {
	amounts := make([]tax.ItemAmounts, 0, len(inv.Items))
	for i := range inv.Items {
		it := &inv.Items[i]
		a := tax.CalculateItem(tax.ItemInput{
			Quantity:        it.Quantity,
			Rate:            it.Rate,
			DiscountPercent: it.DiscountPercent,
			TaxRate:         it.TaxRate,
		}, inv.InterState)
		it.GrossAmount = a.Gross
		it.DiscountAmount = a.Discount
		it.TaxableAmount = a.Taxable
		it.CGST = a.CGST
		it.SGST = a.SGST
		it.IGST = a.IGST
		it.TaxAmount = a.Tax
		it.Total = a.Total
		amounts = append(amounts, a)
	}
	t := tax.CalculateTotals(amounts, inv.InvoiceDiscount, inv.AdditionalCharges, inv.RoundOffEnabled)
	inv.Totals = entity.InvoiceTotals{
		Subtotal:          t.Subtotal,
		ItemDiscount:      t.ItemDiscount,
		TaxableAmount:     t.Taxable,
		CGST:              t.CGST,
		SGST:              t.SGST,
		IGST:              t.IGST,
		TotalTax:          t.TotalTax,
		ItemsTotal:        t.ItemsTotal,
		InvoiceDiscount:   t.InvoiceDiscount,
		AdditionalCharges: t.AdditionalCharges,
		RoundOff:          t.RoundOff,
		GrandTotal:        t.GrandTotal,
	}
	if inv.IsDraft() {
		inv.AmountPaid = decimal.Zero
		inv.BalanceDue = t.GrandTotal
	}
}

func checkDiscount(inv *entity.Invoice) error {
	if inv.InvoiceDiscount.GreaterThan(inv.Totals.ItemsTotal) {
		verr := domain.NewValidationError()
		verr.Add("invoice_discount", "no puede superar el total de los ítems ("+inv.Totals.ItemsTotal.StringFixed(2)+")")
		return verr
	}
	return nil
}

func stockLines(inv *entity.Invoice) []product.StockLine {
	lines := make([]product.StockLine, 0, len(inv.Items))
	for _, it := range inv.Items {
		if it.ProductID != "" {
			lines = append(lines, product.StockLine{ProductID: it.ProductID, Quantity: it.Quantity})
		}
	}
	return lines
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
