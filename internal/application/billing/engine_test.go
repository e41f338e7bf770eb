package billing_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/application/billing"
	"github.com/jhoicas/billmaker-api/internal/application/business"
	"github.com/jhoicas/billmaker-api/internal/application/customer"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/product"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvrepo"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

type fixture struct {
	ctx       context.Context
	engine    *billing.BillingEngine
	pdf       *billing.PDFUseCase
	biz       *business.BusinessUseCase
	customers *customer.CustomerUseCase
	products  *product.ProductUseCase
	repos     *kvrepo.Repositories

	business *entity.Business
	local    *entity.Customer // mismo estado que el negocio (27)
	remote   *entity.Customer // otro estado (29)
	bottle   *entity.Product
}

type stubPDF struct{ calls int }

func (s *stubPDF) GenerateInvoicePDF(_ context.Context, data *billing.TemplateData) ([]byte, error) {
	s.calls++
	return []byte("%PDF-" + data.Invoice.InvoiceNumber), nil
}

var invoiceDate = time.Date(2025, 10, 10, 11, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := kvrepo.New(kvstore.NewDataManager(kvstore.NewMemoryStore(), kvstore.Options{}))
	log := logger.Nop()

	f := &fixture{ctx: ctx, repos: repos}
	f.biz = business.NewBusinessUseCase(repos.Businesses, repos.Invoices, repos.Counters, log)
	f.customers = customer.NewCustomerUseCase(repos.Customers, repos.Invoices, repos.Counters, log)
	f.products = product.NewProductUseCase(repos.Products, repos.Counters, false, log)
	f.engine = billing.NewBillingEngine(repos.Invoices, repos.Counters, f.biz, f.customers, f.products, log)
	f.pdf = billing.NewPDFUseCase(repos.Invoices, f.biz, &stubPDF{})

	var err error
	f.business, err = f.biz.Create(ctx, dto.CreateBusinessRequest{Name: "Sharma Traders", GSTIN: "27AAPFU0939F1ZV"})
	require.NoError(t, err)
	f.local, err = f.customers.Create(ctx, dto.CreateCustomerRequest{Name: "Pune Retail", GSTIN: "27AABCS1429B1ZU"})
	require.NoError(t, err)
	f.remote, err = f.customers.Create(ctx, dto.CreateCustomerRequest{Name: "Bengaluru Stores", GSTIN: "29AABCT3518Q1ZS"})
	require.NoError(t, err)
	f.bottle, err = f.products.Create(ctx, dto.CreateProductRequest{
		Name:         "Steel Bottle",
		HSNCode:      "7323",
		Unit:         "PCS",
		Price:        dec("1000"),
		CostPrice:    dec("600"),
		TaxRate:      dec("18"),
		OpeningStock: dec("10"),
		MinStock:     dec("2"),
	})
	require.NoError(t, err)
	return f
}

// failingInvoices falla Save mientras err no sea nil.
type failingInvoices struct {
	repository.InvoiceRepository
	err error
}

func (r *failingInvoices) Save(ctx context.Context, inv *entity.Invoice) error {
	if r.err != nil {
		return r.err
	}
	return r.InvoiceRepository.Save(ctx, inv)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// draft crea un borrador con 2 botellas al 10% de descuento para el cliente dado.
func (f *fixture) draft(t *testing.T, c *entity.Customer) *entity.Invoice {
	t.Helper()
	inv, err := f.engine.CreateDraft(f.ctx, dto.CreateDraftRequest{CustomerID: c.ID, Date: &invoiceDate})
	require.NoError(t, err)
	inv, err = f.engine.AddItem(f.ctx, inv.ID, dto.ItemRequest{
		ProductID:       f.bottle.ID,
		Quantity:        dec("2"),
		DiscountPercent: dec("10"),
	})
	require.NoError(t, err)
	return inv
}

// ─── Borradores y cálculo ──────────────────────────────────────────────────

func TestDraft_IntraestatalCGSTySGST(t *testing.T) {
	f := newFixture(t)
	inv := f.draft(t, f.local)

	assert.Equal(t, entity.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, f.business.ID, inv.BusinessID)
	assert.False(t, inv.InterState)
	assert.Equal(t, "27", inv.PlaceOfSupply)
	assert.True(t, invoiceDate.AddDate(0, 0, 15).Equal(inv.DueDate))

	require.Len(t, inv.Items, 1)
	it := inv.Items[0]
	assert.Equal(t, "Steel Bottle", it.Name)
	assert.Equal(t, "7323", it.HSNCode)
	assert.Equal(t, "PCS", it.Unit)
	assert.True(t, dec("2000").Equal(it.GrossAmount))
	assert.True(t, dec("200").Equal(it.DiscountAmount))
	assert.True(t, dec("1800").Equal(it.TaxableAmount))
	assert.True(t, dec("162").Equal(it.CGST))
	assert.True(t, dec("162").Equal(it.SGST))
	assert.True(t, it.IGST.IsZero())
	assert.True(t, dec("2124").Equal(it.Total))

	inv, err := f.engine.SetAdjustments(f.ctx, inv.ID, dto.AdjustmentsRequest{
		InvoiceDiscount:        ptr(dec("100")),
		AdditionalCharges:      ptr(dec("50.50")),
		AdditionalChargesLabel: ptr("Packing"),
	})
	require.NoError(t, err)
	assert.True(t, dec("2075").Equal(inv.Totals.GrandTotal))
	assert.True(t, dec("0.50").Equal(inv.Totals.RoundOff))
	assert.True(t, dec("2075").Equal(inv.BalanceDue))

	inv, err = f.engine.SetAdjustments(f.ctx, inv.ID, dto.AdjustmentsRequest{RoundOff: ptr(false)})
	require.NoError(t, err)
	assert.True(t, dec("2074.50").Equal(inv.Totals.GrandTotal))
	assert.True(t, inv.Totals.RoundOff.IsZero())
}

func TestSetCustomer_CambiaAIGST(t *testing.T) {
	f := newFixture(t)
	inv := f.draft(t, f.local)

	inv, err := f.engine.SetCustomer(f.ctx, inv.ID, dto.SetCustomerRequest{CustomerID: f.remote.ID})
	require.NoError(t, err)
	assert.True(t, inv.InterState)
	assert.Equal(t, "29", inv.PlaceOfSupply)
	assert.Equal(t, "Bengaluru Stores", inv.Customer.Name)
	assert.True(t, dec("324").Equal(inv.Totals.IGST))
	assert.True(t, inv.Totals.CGST.IsZero())
	assert.True(t, inv.Totals.SGST.IsZero())
}

func TestItems_ManualActualizarQuitar(t *testing.T) {
	f := newFixture(t)
	inv := f.draft(t, f.local)

	_, err := f.engine.AddItem(f.ctx, inv.ID, dto.ItemRequest{Name: "Installation", Quantity: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "línea manual sin precio")

	inv, err = f.engine.AddItem(f.ctx, inv.ID, dto.ItemRequest{Name: "Installation", Quantity: dec("1"), Rate: ptr(dec("500"))})
	require.NoError(t, err)
	require.Len(t, inv.Items, 2)
	manual := inv.Items[1]
	assert.True(t, dec("18").Equal(manual.TaxRate), "tasa por defecto del negocio")
	assert.Equal(t, "NOS", manual.Unit)

	inv, err = f.engine.UpdateItem(f.ctx, inv.ID, manual.ID, dto.UpdateItemRequest{Quantity: ptr(dec("3")), TaxRate: ptr(dec("5"))})
	require.NoError(t, err)
	assert.True(t, dec("1575").Equal(inv.Items[1].Total))

	_, err = f.engine.UpdateItem(f.ctx, inv.ID, "nope", dto.UpdateItemRequest{Quantity: ptr(dec("1"))})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	inv, err = f.engine.RemoveItem(f.ctx, inv.ID, manual.ID)
	require.NoError(t, err)
	assert.Len(t, inv.Items, 1)
	assert.True(t, dec("2124").Equal(inv.Totals.GrandTotal))

	_, err = f.engine.AddItem(f.ctx, inv.ID, dto.ItemRequest{ProductID: f.bottle.ID, Quantity: dec("0")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad no positiva")
}

func TestAdjustments_DescuentoMayorAlTotal(t *testing.T) {
	f := newFixture(t)
	inv := f.draft(t, f.local)

	_, err := f.engine.SetAdjustments(f.ctx, inv.ID, dto.AdjustmentsRequest{InvoiceDiscount: ptr(dec("5000"))})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	got, err := f.engine.Get(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.InvoiceDiscount.IsZero(), "el borrador no cambia")
}

// ─── Emisión ───────────────────────────────────────────────────────────────

func TestGenerate_EfectosCompletos(t *testing.T) {
	f := newFixture(t)
	inv := f.draft(t, f.local)

	inv, err := f.engine.Generate(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusGenerated, inv.Status)
	assert.Equal(t, "INV-2025-0001", inv.InvoiceNumber)
	assert.Len(t, inv.IRN, 64)
	require.NotNil(t, inv.GeneratedAt)
	assert.True(t, dec("2124").Equal(inv.BalanceDue))
	assert.Equal(t, int64(21), inv.PointsEarned)

	p, _ := f.products.Get(f.ctx, f.bottle.ID)
	assert.True(t, dec("8").Equal(p.Stock))

	c, _ := f.customers.Get(f.ctx, f.local.ID)
	assert.Equal(t, 1, c.InvoiceCount)
	assert.Equal(t, int64(21), c.LoyaltyPoints)
	assert.True(t, dec("2124").Equal(c.TotalSpent))

	b, _ := f.biz.Get(f.ctx, f.business.ID)
	assert.Equal(t, 1, b.Stats.TotalInvoices)
	assert.True(t, dec("2124").Equal(b.Stats.TotalRevenue))

	_, err = f.engine.AddItem(f.ctx, inv.ID, dto.ItemRequest{ProductID: f.bottle.ID, Quantity: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrConflict), "no se editan facturas emitidas")

	second, err := f.engine.Generate(f.ctx, f.draft(t, f.remote).ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0002", second.InvoiceNumber)
}

func TestGenerate_Validaciones(t *testing.T) {
	f := newFixture(t)

	empty, err := f.engine.CreateDraft(f.ctx, dto.CreateDraftRequest{CustomerID: f.local.ID})
	require.NoError(t, err)
	_, err = f.engine.Generate(f.ctx, empty.ID)
	assert.True(t, errors.Is(err, domain.ErrEmptyInvoice))

	noCustomer, err := f.engine.CreateDraft(f.ctx, dto.CreateDraftRequest{})
	require.NoError(t, err)
	_, err = f.engine.AddItem(f.ctx, noCustomer.ID, dto.ItemRequest{ProductID: f.bottle.ID, Quantity: dec("1")})
	require.NoError(t, err)
	_, err = f.engine.Generate(f.ctx, noCustomer.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestGenerate_StockInsuficienteNoConsumeNumero(t *testing.T) {
	f := newFixture(t)
	inv, err := f.engine.CreateDraft(f.ctx, dto.CreateDraftRequest{CustomerID: f.local.ID, Date: &invoiceDate})
	require.NoError(t, err)
	// el borrador admite pedir más de lo disponible
	inv, err = f.engine.AddItem(f.ctx, inv.ID, dto.ItemRequest{ProductID: f.bottle.ID, Quantity: dec("11")})
	require.NoError(t, err)

	_, err = f.engine.Generate(f.ctx, inv.ID)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	got, _ := f.engine.Get(f.ctx, inv.ID)
	assert.Equal(t, entity.InvoiceStatusDraft, got.Status)
	p, _ := f.products.Get(f.ctx, f.bottle.ID)
	assert.True(t, dec("10").Equal(p.Stock))

	inv, err = f.engine.UpdateItem(f.ctx, inv.ID, inv.Items[0].ID, dto.UpdateItemRequest{Quantity: ptr(dec("10"))})
	require.NoError(t, err)
	inv, err = f.engine.Generate(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", inv.InvoiceNumber)
}

// ─── Pagos y estados ───────────────────────────────────────────────────────

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	inv, err := f.engine.Generate(f.ctx, f.draft(t, f.local).ID)
	require.NoError(t, err)

	inv, err = f.engine.RecordPayment(f.ctx, inv.ID, dto.PaymentRequest{Amount: dec("1000"), Method: "upi", Reference: "UTR123"})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPartiallyPaid, inv.Status)
	assert.True(t, dec("1124").Equal(inv.BalanceDue))

	_, err = f.engine.RecordPayment(f.ctx, inv.ID, dto.PaymentRequest{Amount: dec("2000"), Method: "cash"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "no supera el saldo")

	_, err = f.engine.RecordPayment(f.ctx, inv.ID, dto.PaymentRequest{Amount: dec("10"), Method: "bitcoin"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	inv, err = f.engine.RecordPayment(f.ctx, inv.ID, dto.PaymentRequest{Amount: dec("1124"), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.BalanceDue.IsZero())
	assert.NotNil(t, inv.PaidAt)
	assert.Len(t, inv.Payments, 2)

	_, err = f.engine.RecordPayment(f.ctx, inv.ID, dto.PaymentRequest{Amount: dec("1"), Method: "cash"})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestRecordPayment_BorradorRechazado(t *testing.T) {
	f := newFixture(t)
	inv := f.draft(t, f.local)
	_, err := f.engine.RecordPayment(f.ctx, inv.ID, dto.PaymentRequest{Amount: dec("1"), Method: "cash"})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	inv := f.draft(t, f.local)

	_, err := f.engine.UpdateStatus(f.ctx, inv.ID, dto.StatusRequest{Status: "sent"})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "draft → sent")

	inv, err = f.engine.UpdateStatus(f.ctx, inv.ID, dto.StatusRequest{Status: "generated"})
	require.NoError(t, err)
	assert.NotEmpty(t, inv.InvoiceNumber)

	inv, err = f.engine.UpdateStatus(f.ctx, inv.ID, dto.StatusRequest{Status: "sent"})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, inv.Status)

	_, err = f.engine.UpdateStatus(f.ctx, inv.ID, dto.StatusRequest{Status: "generated"})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	inv, err = f.engine.UpdateStatus(f.ctx, inv.ID, dto.StatusRequest{Status: "paid", Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
	require.Len(t, inv.Payments, 1)
	assert.Equal(t, "card", inv.Payments[0].Method)
	assert.True(t, dec("2124").Equal(inv.Payments[0].Amount))

	_, err = f.engine.UpdateStatus(f.ctx, inv.ID, dto.StatusRequest{Status: "overdue"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "overdue es derivado")
}

// ─── Anulación ─────────────────────────────────────────────────────────────

func TestCancel_RevierteEfectos(t *testing.T) {
	f := newFixture(t)
	inv, err := f.engine.Generate(f.ctx, f.draft(t, f.local).ID)
	require.NoError(t, err)

	inv, err = f.engine.Cancel(f.ctx, inv.ID, dto.CancelRequest{Reason: "pedido duplicado"})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, inv.Status)
	assert.Equal(t, "pedido duplicado", inv.CancelReason)
	assert.NotNil(t, inv.CancelledAt)

	p, _ := f.products.Get(f.ctx, f.bottle.ID)
	assert.True(t, dec("10").Equal(p.Stock))
	assert.Equal(t, entity.MovementReturn, p.StockMovements[len(p.StockMovements)-1].Type)

	c, _ := f.customers.Get(f.ctx, f.local.ID)
	assert.Equal(t, 0, c.InvoiceCount)
	assert.Equal(t, int64(0), c.LoyaltyPoints)

	b, _ := f.biz.Get(f.ctx, f.business.ID)
	assert.Equal(t, 0, b.Stats.TotalInvoices)
	assert.True(t, b.Stats.TotalRevenue.IsZero())

	_, err = f.engine.Cancel(f.ctx, inv.ID, dto.CancelRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = f.engine.Cancel(f.ctx, f.draft(t, f.local).ID, dto.CancelRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "los borradores se eliminan, no se anulan")
}

func TestCancel_FalloAlGuardarRestauraEfectos(t *testing.T) {
	f := newFixture(t)
	invoices := &failingInvoices{InvoiceRepository: f.repos.Invoices}
	engine := billing.NewBillingEngine(invoices, f.repos.Counters, f.biz, f.customers, f.products, logger.Nop())

	inv, err := engine.Generate(f.ctx, f.draft(t, f.local).ID)
	require.NoError(t, err)

	invoices.err = errors.New("disco lleno")
	_, err = engine.Cancel(f.ctx, inv.ID, dto.CancelRequest{Reason: "pedido duplicado"})
	require.ErrorIs(t, err, invoices.err)

	stored, err := engine.Get(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusGenerated, stored.Status)

	p, _ := f.products.Get(f.ctx, f.bottle.ID)
	assert.True(t, dec("8").Equal(p.Stock), "el stock vuelve a descontarse")

	c, _ := f.customers.Get(f.ctx, f.local.ID)
	assert.Equal(t, 1, c.InvoiceCount)
	assert.Equal(t, int64(21), c.LoyaltyPoints)
	assert.True(t, dec("2124").Equal(c.TotalSpent))

	// reintento con el repositorio sano: se aplica una sola vez
	invoices.err = nil
	_, err = engine.Cancel(f.ctx, inv.ID, dto.CancelRequest{Reason: "pedido duplicado"})
	require.NoError(t, err)

	p, _ = f.products.Get(f.ctx, f.bottle.ID)
	assert.True(t, dec("10").Equal(p.Stock))
	c, _ = f.customers.Get(f.ctx, f.local.ID)
	assert.Equal(t, 0, c.InvoiceCount)
	assert.Equal(t, int64(0), c.LoyaltyPoints)
}

// ─── Duplicar / eliminar ───────────────────────────────────────────────────

func TestDuplicateYDeleteDraft(t *testing.T) {
	f := newFixture(t)
	src, err := f.engine.Generate(f.ctx, f.draft(t, f.remote).ID)
	require.NoError(t, err)

	dup, err := f.engine.Duplicate(f.ctx, src.ID)
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, entity.InvoiceStatusDraft, dup.Status)
	assert.Empty(t, dup.InvoiceNumber)
	assert.Equal(t, f.remote.ID, dup.CustomerID)
	assert.True(t, dup.InterState)
	require.Len(t, dup.Items, 1)
	assert.NotEqual(t, src.Items[0].ID, dup.Items[0].ID)
	assert.True(t, src.Totals.GrandTotal.Equal(dup.Totals.GrandTotal))

	err = f.engine.DeleteDraft(f.ctx, src.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	require.NoError(t, f.engine.DeleteDraft(f.ctx, dup.ID))
	_, err = f.engine.Get(f.ctx, dup.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ─── Listado ───────────────────────────────────────────────────────────────

func TestList_FiltrosYOverdue(t *testing.T) {
	f := newFixture(t)
	overdue, err := f.engine.Generate(f.ctx, f.draft(t, f.local).ID) // vence 2025-10-25
	require.NoError(t, err)

	later := time.Now()
	recent, err := f.engine.CreateDraft(f.ctx, dto.CreateDraftRequest{CustomerID: f.remote.ID, Date: &later})
	require.NoError(t, err)

	res, err := f.engine.List(f.ctx, dto.InvoiceFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, res.Page.Total)
	assert.Equal(t, recent.ID, res.Items[0].ID, "más recientes primero")
	assert.Equal(t, entity.InvoiceStatusOverdue, res.Items[1].EffectiveStatus)

	res, _ = f.engine.List(f.ctx, dto.InvoiceFilter{Status: "overdue"})
	require.Len(t, res.Items, 1)
	assert.Equal(t, overdue.ID, res.Items[0].ID)

	res, _ = f.engine.List(f.ctx, dto.InvoiceFilter{Status: "draft"})
	assert.Len(t, res.Items, 1)

	res, _ = f.engine.List(f.ctx, dto.InvoiceFilter{Query: "bengaluru"})
	require.Len(t, res.Items, 1)
	assert.Equal(t, recent.ID, res.Items[0].ID)

	res, _ = f.engine.List(f.ctx, dto.InvoiceFilter{Query: "INV-2025-0001"})
	assert.Len(t, res.Items, 1)

	day := invoiceDate
	res, _ = f.engine.List(f.ctx, dto.InvoiceFilter{From: &day, To: &day})
	require.Len(t, res.Items, 1)
	assert.Equal(t, overdue.ID, res.Items[0].ID)

	res, _ = f.engine.List(f.ctx, dto.InvoiceFilter{CustomerID: f.remote.ID})
	assert.Len(t, res.Items, 1)
}

// ─── HTML / PDF ────────────────────────────────────────────────────────────

func TestPDFUseCase(t *testing.T) {
	f := newFixture(t)
	draft := f.draft(t, f.local)

	html, err := f.pdf.RenderHTML(f.ctx, draft.ID)
	require.NoError(t, err)
	assert.Contains(t, html, "DRAFT")
	assert.Contains(t, html, "Steel Bottle")
	assert.Contains(t, html, "CGST")

	_, _, err = f.pdf.GeneratePDF(f.ctx, draft.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	inv, err := f.engine.Generate(f.ctx, draft.ID)
	require.NoError(t, err)
	data, err := f.pdf.BuildTemplateData(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "TAX INVOICE", data.Title)
	assert.Equal(t, "Maharashtra (27)", data.PlaceOfSupply)
	assert.Equal(t, "2,124.00", data.Totals.GrandTotal)
	assert.Equal(t, "Rupees Two Thousand One Hundred Twenty Four Only", data.AmountInWords)
	require.Len(t, data.Slabs, 1)
	assert.Equal(t, "18%", data.Slabs[0].Rate)

	pdf, name, err := f.pdf.GeneratePDF(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice_INV-2025-0001.pdf", name)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF-"))
}

func TestRenderHTML_Plantillas(t *testing.T) {
	f := newFixture(t)
	inv, err := f.engine.Generate(f.ctx, f.draft(t, f.remote).ID)
	require.NoError(t, err)
	b, _ := f.biz.Get(f.ctx, f.business.ID)

	for _, tpl := range []string{entity.TemplateClassic, entity.TemplateModern, entity.TemplateMinimal, "unknown"} {
		b.Settings.InvoiceTemplate = tpl
		data := billing.BuildTemplateData(inv, b, time.Now())
		html, err := billing.RenderHTML(data)
		require.NoError(t, err, tpl)
		assert.Contains(t, html, inv.InvoiceNumber)
		assert.Contains(t, html, "IGST")
		assert.NotContains(t, html, ">CGST<")
		assert.Contains(t, html, data.Palette.Primary.Hex())
	}
}
