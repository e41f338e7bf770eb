package customer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/application/customer"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvrepo"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

func setup(t *testing.T) (*customer.CustomerUseCase, *kvrepo.Repositories) {
	t.Helper()
	repos := kvrepo.New(kvstore.NewDataManager(kvstore.NewMemoryStore(), kvstore.Options{}))
	return customer.NewCustomerUseCase(repos.Customers, repos.Invoices, repos.Counters, logger.Nop()), repos
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func invoice(id, total string, at time.Time) *entity.Invoice {
	inv := &entity.Invoice{ID: id, InvoiceNumber: "INV-2025-" + id, Status: entity.InvoiceStatusGenerated, GeneratedAt: &at}
	inv.Totals.GrandTotal = dec(total)
	return inv
}

// ─── Alta y duplicados ─────────────────────────────────────────────────────

func TestCreate_DerivaEstadoYCodigo(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	c, err := uc.Create(ctx, dto.CreateCustomerRequest{
		Name:  "Ravi Kumar",
		GSTIN: "29aagcb7383j1z4",
		Tags:  []string{"VIP", " vip ", "Wholesale"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST-0001", c.Code)
	assert.Equal(t, "29", c.StateCode)
	assert.Equal(t, "Karnataka", c.Address.State)
	assert.Equal(t, entity.TierBronze, c.LoyaltyTier)
	assert.Equal(t, []string{"vip", "wholesale"}, c.Tags)
	assert.True(t, c.IsActive)
	assert.True(t, c.IsB2B())

	c2, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Walk-in", Address: dto.AddressInput{State: "tamil nadu"}})
	require.NoError(t, err)
	assert.Equal(t, "33", c2.StateCode)
}

func TestCreate_Duplicados(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	_, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "A", Phone: "9876543210", Email: "a@x.in", GSTIN: "27AAPFU0939F1ZV"})
	require.NoError(t, err)

	cases := []dto.CreateCustomerRequest{
		{Name: "B", Phone: "+91-98765-43210"},
		{Name: "C", Email: "A@X.IN"},
		{Name: "D", GSTIN: "27aapfu0939f1zv"},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, in)
		assert.True(t, errors.Is(err, domain.ErrDuplicate), in.Name)
	}

	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Name: "E", Phone: "9123456780"})
	assert.NoError(t, err)
}

func TestUpdate_DuplicadoYParcial(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	a, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "A", Email: "a@x.in"})
	b, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "B", Email: "b@x.in"})

	email := "a@x.in"
	_, err := uc.Update(ctx, b.ID, dto.UpdateCustomerRequest{Email: &email})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	// actualizar el propio registro con su mismo email no es duplicado
	name := "A Prime"
	got, err := uc.Update(ctx, a.ID, dto.UpdateCustomerRequest{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "A Prime", got.Name)
}

// ─── Listado ───────────────────────────────────────────────────────────────

func TestUpdate_CambioDeGSTINRederivaEstado(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	c, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Ravi Kumar", GSTIN: "29AAGCB7383J1Z4"})
	require.NoError(t, err)
	require.Equal(t, "29", c.StateCode)

	gstin := "27AAPFU0939F1ZV"
	c, err = uc.Update(ctx, c.ID, dto.UpdateCustomerRequest{GSTIN: &gstin})
	require.NoError(t, err)
	assert.Equal(t, "27AAPFU0939F1ZV", c.GSTIN)
	assert.Equal(t, "27", c.StateCode)
	assert.Equal(t, "27", c.Address.StateCode)
	assert.Equal(t, "Maharashtra", c.Address.State)

	// GSTIN vacío lo quita y conserva el estado
	empty := ""
	c, err = uc.Update(ctx, c.ID, dto.UpdateCustomerRequest{GSTIN: &empty})
	require.NoError(t, err)
	assert.Empty(t, c.GSTIN)
	assert.False(t, c.IsB2B())
	assert.Equal(t, "27", c.StateCode)

	// con dirección explícita la discrepancia sigue rechazándose
	gstin = "29AAGCB7383J1Z4"
	_, err = uc.Update(ctx, c.ID, dto.UpdateCustomerRequest{GSTIN: &gstin, Address: &dto.AddressInput{StateCode: "27"}})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "address.state_code")
}

func TestList_TierInvalido(t *testing.T) {
	uc, _ := setup(t)

	_, err := uc.List(context.Background(), dto.CustomerFilter{Tier: "diamond"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "tier")
}

func TestList_Filtros(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	_, _ = uc.Create(ctx, dto.CreateCustomerRequest{Name: "Zoë Fernandes", Tags: []string{"vip"}})
	_, _ = uc.Create(ctx, dto.CreateCustomerRequest{Name: "Amit Shah", Phone: "9876500000"})
	c, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Bela Rao"})
	inactive := false
	_, err := uc.Update(ctx, c.ID, dto.UpdateCustomerRequest{IsActive: &inactive})
	require.NoError(t, err)

	res, err := uc.List(ctx, dto.CustomerFilter{Query: "zoe"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Zoë Fernandes", res.Items[0].Name)

	res, _ = uc.List(ctx, dto.CustomerFilter{Query: "98765"})
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Amit Shah", res.Items[0].Name)

	res, _ = uc.List(ctx, dto.CustomerFilter{Tag: "VIP"})
	assert.Len(t, res.Items, 1)

	active := true
	res, _ = uc.List(ctx, dto.CustomerFilter{Active: &active})
	assert.Equal(t, 2, res.Page.Total)

	res, _ = uc.List(ctx, dto.CustomerFilter{PageRequest: dto.PageRequest{Limit: 2}})
	assert.Equal(t, 3, res.Page.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Amit Shah", res.Items[0].Name)
	assert.Equal(t, "Bela Rao", res.Items[1].Name)

	_, err = uc.List(ctx, dto.CustomerFilter{Tier: "diamond"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ─── Etiquetas ─────────────────────────────────────────────────────────────

func TestTags(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)
	c, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "A"})

	c, err := uc.AddTag(ctx, c.ID, " Regular ")
	require.NoError(t, err)
	c, _ = uc.AddTag(ctx, c.ID, "regular")
	assert.Equal(t, []string{"regular"}, c.Tags)

	c, err = uc.RemoveTag(ctx, c.ID, "REGULAR")
	require.NoError(t, err)
	assert.Empty(t, c.Tags)

	_, err = uc.AddTag(ctx, c.ID, "  ")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ─── Compras y fidelidad ───────────────────────────────────────────────────

func TestRecordAndReversePurchase(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)
	c, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "A"})

	t1 := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 1, 0)

	pts, err := uc.RecordPurchase(ctx, c.ID, invoice("1", "8450", t1))
	require.NoError(t, err)
	assert.Equal(t, int64(84), pts)

	pts, err = uc.RecordPurchase(ctx, c.ID, invoice("2", "1599.99", t2))
	require.NoError(t, err)
	assert.Equal(t, int64(15), pts)

	got, _ := uc.Get(ctx, c.ID)
	assert.True(t, dec("10049.99").Equal(got.TotalSpent))
	assert.Equal(t, 2, got.InvoiceCount)
	assert.Equal(t, int64(99), got.LoyaltyPoints)
	assert.Equal(t, entity.TierSilver, got.LoyaltyTier)
	require.NotNil(t, got.LastPurchaseAt)
	assert.True(t, t2.Equal(*got.LastPurchaseAt))
	assert.Len(t, got.PurchaseHistory, 2)

	got, err = uc.ReversePurchase(ctx, c.ID, invoice("2", "1599.99", t2))
	require.NoError(t, err)
	assert.True(t, dec("8450").Equal(got.TotalSpent))
	assert.Equal(t, 1, got.InvoiceCount)
	assert.Equal(t, int64(84), got.LoyaltyPoints)
	assert.Equal(t, entity.TierBronze, got.LoyaltyTier)
	assert.True(t, t1.Equal(*got.LastPurchaseAt))

	// revertir una factura desconocida no cambia nada
	got, err = uc.ReversePurchase(ctx, c.ID, invoice("99", "100", t2))
	require.NoError(t, err)
	assert.Equal(t, 1, got.InvoiceCount)
}

func TestReversePurchase_PuntosNoNegativos(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)
	c, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "A"})

	_, err := uc.RecordPurchase(ctx, c.ID, invoice("1", "5000", time.Now()))
	require.NoError(t, err)
	_, err = uc.RedeemPoints(ctx, c.ID, 40)
	require.NoError(t, err)

	got, err := uc.ReversePurchase(ctx, c.ID, invoice("1", "5000", time.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LoyaltyPoints)
	assert.True(t, got.TotalSpent.IsZero())
	assert.Nil(t, got.LastPurchaseAt)
}

func TestRedeemPoints(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)
	c, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "A"})
	_, _ = uc.RecordPurchase(ctx, c.ID, invoice("1", "2500", time.Now()))

	res, err := uc.RedeemPoints(ctx, c.ID, 20)
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(res.DiscountValue))
	assert.Equal(t, int64(5), res.RemainingPoints)

	_, err = uc.RedeemPoints(ctx, c.ID, 6)
	assert.True(t, errors.Is(err, domain.ErrInsufficientPoints))

	_, err = uc.RedeemPoints(ctx, c.ID, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestTopCustomers(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)
	a, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "A"})
	b, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "B"})
	_, _ = uc.Create(ctx, dto.CreateCustomerRequest{Name: "C"})

	_, _ = uc.RecordPurchase(ctx, a.ID, invoice("1", "100", time.Now()))
	_, _ = uc.RecordPurchase(ctx, b.ID, invoice("2", "900", time.Now()))

	top, err := uc.TopCustomers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, b.ID, top[0].ID)
	assert.Equal(t, a.ID, top[1].ID)
}

// ─── Delete ────────────────────────────────────────────────────────────────

func TestDelete_ConFacturasSeDesactiva(t *testing.T) {
	ctx := context.Background()
	uc, repos := setup(t)
	a, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "A"})
	b, _ := uc.Create(ctx, dto.CreateCustomerRequest{Name: "B"})
	require.NoError(t, repos.Invoices.Save(ctx, &entity.Invoice{ID: "i1", CustomerID: a.ID, Status: entity.InvoiceStatusGenerated}))

	deactivated, err := uc.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, deactivated)
	got, err := uc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	deactivated, err = uc.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, deactivated)
	_, err = uc.Get(ctx, b.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
