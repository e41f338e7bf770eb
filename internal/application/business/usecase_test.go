package business_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/application/business"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvrepo"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

func setup(t *testing.T) (*business.BusinessUseCase, *kvrepo.Repositories) {
	t.Helper()
	repos := kvrepo.New(kvstore.NewDataManager(kvstore.NewMemoryStore(), kvstore.Options{}))
	uc := business.NewBusinessUseCase(repos.Businesses, repos.Invoices, repos.Counters, logger.Nop())
	return uc, repos
}

func strPtr(s string) *string { return &s }

// ─── Create ────────────────────────────────────────────────────────────────

func TestCreate_PrimeroQuedaActivoYDeriva(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	b, err := uc.Create(ctx, dto.CreateBusinessRequest{
		Name:  "Sharma Traders",
		GSTIN: "27aapfu0939f1zv",
		Phone: "+91 98765 43210",
		Email: "Billing@Sharma.IN",
	})
	require.NoError(t, err)

	assert.True(t, b.IsActive)
	assert.Equal(t, "BIZ-0001", b.Code)
	assert.Equal(t, "27AAPFU0939F1ZV", b.GSTIN)
	assert.Equal(t, "27", b.StateCode())
	assert.Equal(t, "Maharashtra", b.Address.State)
	assert.Equal(t, "AAPFU0939F", b.PAN)
	assert.Equal(t, "9876543210", b.Phone)
	assert.Equal(t, "billing@sharma.in", b.Email)
	assert.Equal(t, "INV", b.Settings.InvoicePrefix)
	assert.True(t, b.Settings.RoundOff)

	second, err := uc.Create(ctx, dto.CreateBusinessRequest{Name: "Otro"})
	require.NoError(t, err)
	assert.False(t, second.IsActive)
	assert.Equal(t, "BIZ-0002", second.Code)
}

func TestCreate_GSTINDuplicado(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	_, err := uc.Create(ctx, dto.CreateBusinessRequest{Name: "A", GSTIN: "27AAPFU0939F1ZV"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateBusinessRequest{Name: "B", GSTIN: "27AAPFU0939F1ZV"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestCreate_ValidacionPorCampo(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	_, err := uc.Create(ctx, dto.CreateBusinessRequest{
		GSTIN: "27AAPFU0939F1ZX",
		Phone: "123",
		Bank:  dto.BankInput{IFSC: "HDFC1001234"},
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "gstin")
	assert.Contains(t, ve.Fields, "phone")
	assert.Contains(t, ve.Fields, "bank.ifsc")
}

func TestCreate_EstadoNoCoincideConGSTIN(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	_, err := uc.Create(ctx, dto.CreateBusinessRequest{
		Name:    "A",
		GSTIN:   "27AAPFU0939F1ZV",
		Address: dto.AddressInput{StateCode: "29"},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ─── Update ────────────────────────────────────────────────────────────────

func TestUpdate_ParcialYUnicidad(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	a, err := uc.Create(ctx, dto.CreateBusinessRequest{Name: "A", GSTIN: "27AAPFU0939F1ZV"})
	require.NoError(t, err)
	b, err := uc.Create(ctx, dto.CreateBusinessRequest{Name: "B", GSTIN: "29AAGCB7383J1Z4"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, b.ID, dto.UpdateBusinessRequest{GSTIN: strPtr(a.GSTIN)})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	tpl := entity.TemplateModern
	due := 30
	updated, err := uc.Update(ctx, a.ID, dto.UpdateBusinessRequest{
		Name:     strPtr("A Renombrado"),
		Settings: &dto.SettingsInput{InvoiceTemplate: &tpl, DueDays: &due, InvoicePrefix: strPtr("sha")},
	})
	require.NoError(t, err)
	assert.Equal(t, "A Renombrado", updated.Name)
	assert.Equal(t, entity.TemplateModern, updated.Settings.InvoiceTemplate)
	assert.Equal(t, 30, updated.Settings.DueDays)
	assert.Equal(t, "SHA", updated.Settings.InvoicePrefix)
	assert.Equal(t, "27AAPFU0939F1ZV", updated.GSTIN, "GSTIN no se toca si no viene")
}

// ─── Activo / Delete ───────────────────────────────────────────────────────

func TestUpdate_CambioDeGSTINRederivaEstadoYPAN(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	b, err := uc.Create(ctx, dto.CreateBusinessRequest{Name: "Sharma Traders", GSTIN: "27AAPFU0939F1ZV"})
	require.NoError(t, err)
	require.Equal(t, "AAPFU0939F", b.PAN)

	b, err = uc.Update(ctx, b.ID, dto.UpdateBusinessRequest{GSTIN: strPtr("29AAGCB7383J1Z4")})
	require.NoError(t, err)
	assert.Equal(t, "29", b.StateCode())
	assert.Equal(t, "Karnataka", b.Address.State)
	assert.Equal(t, "AAGCB7383J", b.PAN)

	// un PAN explícito distinto al del GSTIN se sigue rechazando
	_, err = uc.Update(ctx, b.ID, dto.UpdateBusinessRequest{GSTIN: strPtr("27AAPFU0939F1ZV"), PAN: strPtr("AAGCB7383J")})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "pan")

	// GSTIN vacío lo quita; estado y PAN se conservan
	b, err = uc.Update(ctx, b.ID, dto.UpdateBusinessRequest{GSTIN: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, b.GSTIN)
	assert.Equal(t, "29", b.StateCode())
	assert.Equal(t, "AAGCB7383J", b.PAN)
}

func TestSetActive_ExactamenteUno(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	a, _ := uc.Create(ctx, dto.CreateBusinessRequest{Name: "A"})
	b, _ := uc.Create(ctx, dto.CreateBusinessRequest{Name: "B"})

	_, err := uc.SetActive(ctx, b.ID)
	require.NoError(t, err)

	all, err := uc.List(ctx)
	require.NoError(t, err)
	active := 0
	for _, x := range all {
		if x.IsActive {
			active++
			assert.Equal(t, b.ID, x.ID)
		}
	}
	assert.Equal(t, 1, active)

	got, err := uc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	resolved, err := uc.Resolve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, resolved.ID)

	_, err = uc.SetActive(ctx, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_ActivoPasaAlMasAntiguo(t *testing.T) {
	ctx := context.Background()
	uc, repos := setup(t)

	a, _ := uc.Create(ctx, dto.CreateBusinessRequest{Name: "A"})
	b, _ := uc.Create(ctx, dto.CreateBusinessRequest{Name: "B"})
	c, _ := uc.Create(ctx, dto.CreateBusinessRequest{Name: "C"})
	_, err := uc.SetActive(ctx, b.ID)
	require.NoError(t, err)

	// borrador de B se descarta junto con el negocio
	require.NoError(t, repos.Invoices.Save(ctx, &entity.Invoice{ID: "d1", BusinessID: b.ID, Status: entity.InvoiceStatusDraft}))

	require.NoError(t, uc.Delete(ctx, b.ID))
	_, err = repos.Invoices.GetByID(ctx, "d1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	active, err := uc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)

	require.NoError(t, uc.Delete(ctx, c.ID))
	active, err = uc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)
}

func TestDelete_ConFacturasEmitidas(t *testing.T) {
	ctx := context.Background()
	uc, repos := setup(t)

	a, _ := uc.Create(ctx, dto.CreateBusinessRequest{Name: "A"})
	require.NoError(t, repos.Invoices.Save(ctx, &entity.Invoice{ID: "i1", BusinessID: a.ID, Status: entity.InvoiceStatusGenerated}))

	err := uc.Delete(ctx, a.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// ─── RefreshStats ──────────────────────────────────────────────────────────

func TestRefreshStats(t *testing.T) {
	ctx := context.Background()
	uc, repos := setup(t)

	a, _ := uc.Create(ctx, dto.CreateBusinessRequest{Name: "A"})
	t1 := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(48 * time.Hour)
	save := func(id, customer, status, total string, at time.Time) {
		inv := &entity.Invoice{ID: id, BusinessID: a.ID, CustomerID: customer, Status: status, GeneratedAt: &at}
		inv.Totals.GrandTotal = dec(total)
		require.NoError(t, repos.Invoices.Save(ctx, inv))
	}
	save("i1", "c1", entity.InvoiceStatusGenerated, "1000", t1)
	save("i2", "c1", entity.InvoiceStatusPaid, "500.50", t2)
	save("i3", "c2", entity.InvoiceStatusCancelled, "9999", t2)
	save("i4", "c3", entity.InvoiceStatusDraft, "7", t2)

	b, err := uc.RefreshStats(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Stats.TotalInvoices)
	assert.True(t, dec("1500.50").Equal(b.Stats.TotalRevenue))
	assert.Equal(t, 1, b.Stats.TotalCustomers)
	require.NotNil(t, b.Stats.LastInvoiceAt)
	assert.True(t, t2.Equal(*b.Stats.LastInvoiceAt))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
