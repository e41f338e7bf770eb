// Package customer contiene los casos de uso de clientes: alta con detección de
// duplicados, etiquetas, historial de compras y puntos de fidelidad.
package customer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/search"
	"github.com/jhoicas/billmaker-api/internal/application/validation"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/loyalty"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
	"github.com/jhoicas/billmaker-api/pkg/gst"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

// CustomerUseCase casos de uso para clientes. Los clientes se comparten entre negocios.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	invoices repository.InvoiceRepository
	counters repository.CounterRepository
	log      *logger.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	invoices repository.InvoiceRepository,
	counters repository.CounterRepository,
	log *logger.Logger,
) *CustomerUseCase {
	return &CustomerUseCase{
		repo:     repo,
		invoices: invoices,
		counters: counters,
		log:      log.Component("customer"),
		now:      time.Now,
	}
}

// Create crea un cliente. Devuelve domain.ErrDuplicate si ya existe otro con el
// mismo teléfono, email o GSTIN.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*entity.Customer, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	c := &entity.Customer{
		Name:            strings.TrimSpace(in.Name),
		Phone:           gst.NormalizePhone(in.Phone),
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		GSTIN:           gst.NormalizeGSTIN(in.GSTIN),
		Address:         toAddress(in.Address),
		Tags:            normalizeTags(in.Tags),
		Notes:           strings.TrimSpace(in.Notes),
		TotalSpent:      decimal.Zero,
		LoyaltyTier:     entity.TierBronze,
		PurchaseHistory: []entity.PurchaseRecord{},
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := deriveState(c); err != nil {
		return nil, err
	}

	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureNoDuplicate(all, c); err != nil {
		return nil, err
	}

	n, err := uc.counters.Next(ctx, "customer")
	if err != nil {
		return nil, err
	}
	c.ID = uuid.New().String()
	c.Code = fmt.Sprintf("CUST-%04d", n)

	if err := uc.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", c.ID).Str("code", c.Code).Msg("cliente creado")
	return c, nil
}

// Update aplica una actualización parcial con las mismas reglas que Create.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*entity.Customer, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		c.Phone = gst.NormalizePhone(*in.Phone)
	}
	if in.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.GSTIN != nil {
		gstin := gst.NormalizeGSTIN(*in.GSTIN)
		if gstin != "" && gstin != c.GSTIN && in.Address == nil {
			dropDerivedState(&c.Address, c.StateCode)
			c.StateCode = ""
		}
		c.GSTIN = gstin
	}
	if in.Address != nil {
		c.Address = toAddress(*in.Address)
		c.StateCode = ""
	}
	if in.Tags != nil {
		c.Tags = normalizeTags(*in.Tags)
	}
	if in.Notes != nil {
		c.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := deriveState(c); err != nil {
		return nil, err
	}

	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureNoDuplicate(all, c); err != nil {
		return nil, err
	}

	c.UpdatedAt = uc.now()
	if err := uc.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get obtiene un cliente por ID.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*entity.Customer, error) {
	return uc.repo.GetByID(ctx, id)
}

// Delete elimina el cliente. Si tiene facturas no se borra: se desactiva y
// deactivated vuelve en true.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) (deactivated bool, err error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	invoices, err := uc.invoices.List(ctx)
	if err != nil {
		return false, err
	}
	for _, inv := range invoices {
		if inv.CustomerID != id {
			continue
		}
		c.IsActive = false
		c.UpdatedAt = uc.now()
		if err := uc.repo.Save(ctx, c); err != nil {
			return false, err
		}
		uc.log.Info().Str("customer_id", id).Msg("cliente con facturas: desactivado en lugar de eliminado")
		return true, nil
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return false, err
	}
	uc.log.Info().Str("customer_id", id).Msg("cliente eliminado")
	return false, nil
}

// List filtra y pagina clientes ordenados por nombre.
func (uc *CustomerUseCase) List(ctx context.Context, f dto.CustomerFilter) (dto.ListResponse[*entity.Customer], error) {
	if err := validation.Struct(f); err != nil {
		return dto.ListResponse[*entity.Customer]{}, err
	}
	all, err := uc.repo.List(ctx)
	if err != nil {
		return dto.ListResponse[*entity.Customer]{}, err
	}
	tag := normalizeTag(f.Tag)
	out := make([]*entity.Customer, 0, len(all))
	for _, c := range all {
		if f.Active != nil && c.IsActive != *f.Active {
			continue
		}
		if f.Tier != "" && c.LoyaltyTier != f.Tier {
			continue
		}
		if tag != "" && !c.HasTag(tag) {
			continue
		}
		if !search.Matches(f.Query, c.Name, c.Phone, c.Email, c.Code, c.GSTIN) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return search.Fold(out[i].Name) < search.Fold(out[j].Name) })
	return dto.Paginate(out, f.PageRequest), nil
}

// AddTag agrega una etiqueta (minúsculas, sin repetir).
func (uc *CustomerUseCase) AddTag(ctx context.Context, id, tag string) (*entity.Customer, error) {
	tag = normalizeTag(tag)
	if tag == "" {
		return nil, fmt.Errorf("%w: etiqueta vacía", domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, id, func(c *entity.Customer) error {
		if !c.HasTag(tag) {
			c.Tags = append(c.Tags, tag)
		}
		return nil
	})
}

// RemoveTag quita una etiqueta si existe.
func (uc *CustomerUseCase) RemoveTag(ctx context.Context, id, tag string) (*entity.Customer, error) {
	tag = normalizeTag(tag)
	return uc.mutate(ctx, id, func(c *entity.Customer) error {
		kept := c.Tags[:0]
		for _, t := range c.Tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		c.Tags = kept
		return nil
	})
}

// RecordPurchase suma la factura generada al historial del cliente, otorga
// puntos y recalcula el nivel. Devuelve los puntos ganados.
func (uc *CustomerUseCase) RecordPurchase(ctx context.Context, customerID string, inv *entity.Invoice) (int64, error) {
	points := loyalty.PointsFor(inv.Totals.GrandTotal)
	_, err := uc.mutate(ctx, customerID, func(c *entity.Customer) error {
		at := uc.now()
		if inv.GeneratedAt != nil {
			at = *inv.GeneratedAt
		}
		c.TotalSpent = c.TotalSpent.Add(inv.Totals.GrandTotal)
		c.InvoiceCount++
		c.LoyaltyPoints += points
		c.LoyaltyTier = loyalty.TierFor(c.TotalSpent)
		c.PurchaseHistory = append(c.PurchaseHistory, entity.PurchaseRecord{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Amount:        inv.Totals.GrandTotal,
			PointsEarned:  points,
			At:            at,
		})
		if c.LastPurchaseAt == nil || at.After(*c.LastPurchaseAt) {
			c.LastPurchaseAt = &at
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return points, nil
}

// ReversePurchase deshace RecordPurchase al anular una factura. Los puntos nunca quedan negativos.
func (uc *CustomerUseCase) ReversePurchase(ctx context.Context, customerID string, inv *entity.Invoice) (*entity.Customer, error) {
	return uc.mutate(ctx, customerID, func(c *entity.Customer) error {
		idx := -1
		for i, r := range c.PurchaseHistory {
			if r.InvoiceID == inv.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}
		rec := c.PurchaseHistory[idx]
		c.PurchaseHistory = append(c.PurchaseHistory[:idx], c.PurchaseHistory[idx+1:]...)

		c.TotalSpent = c.TotalSpent.Sub(rec.Amount)
		if c.TotalSpent.IsNegative() {
			c.TotalSpent = decimal.Zero
		}
		if c.InvoiceCount > 0 {
			c.InvoiceCount--
		}
		c.LoyaltyPoints -= rec.PointsEarned
		if c.LoyaltyPoints < 0 {
			c.LoyaltyPoints = 0
		}
		c.LoyaltyTier = loyalty.TierFor(c.TotalSpent)

		c.LastPurchaseAt = nil
		for _, r := range c.PurchaseHistory {
			if c.LastPurchaseAt == nil || r.At.After(*c.LastPurchaseAt) {
				at := r.At
				c.LastPurchaseAt = &at
			}
		}
		return nil
	})
}

// RedeemPoints canjea puntos (1 punto = ₹1). domain.ErrInsufficientPoints si el saldo no alcanza.
func (uc *CustomerUseCase) RedeemPoints(ctx context.Context, id string, points int64) (*dto.RedeemPointsResponse, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: los puntos a canjear deben ser positivos", domain.ErrInvalidInput)
	}
	c, err := uc.mutate(ctx, id, func(c *entity.Customer) error {
		if c.LoyaltyPoints < points {
			return fmt.Errorf("%w: saldo %d, solicitados %d", domain.ErrInsufficientPoints, c.LoyaltyPoints, points)
		}
		c.LoyaltyPoints -= points
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", id).Int64("points", points).Msg("puntos canjeados")
	return &dto.RedeemPointsResponse{
		PointsRedeemed:  points,
		DiscountValue:   loyalty.RedemptionValue(points),
		RemainingPoints: c.LoyaltyPoints,
	}, nil
}

// TopCustomers los n clientes con mayor gasto acumulado.
func (uc *CustomerUseCase) TopCustomers(ctx context.Context, n int) ([]*entity.Customer, error) {
	if n <= 0 {
		n = 10
	}
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Customer, 0, len(all))
	for _, c := range all {
		if c.TotalSpent.IsPositive() {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSpent.GreaterThan(out[j].TotalSpent) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// mutate carga, modifica y persiste un cliente bajo el mutex del caso de uso.
func (uc *CustomerUseCase) mutate(ctx context.Context, id string, fn func(c *entity.Customer) error) (*entity.Customer, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ─── helpers ───────────────────────────────────────────────────────────────

func ensureNoDuplicate(all []*entity.Customer, c *entity.Customer) error {
	for _, o := range all {
		if o.ID == c.ID {
			continue
		}
		switch {
		case c.Phone != "" && o.Phone == c.Phone:
			return fmt.Errorf("%w: teléfono ya registrado en %s", domain.ErrDuplicate, o.Code)
		case c.Email != "" && strings.EqualFold(o.Email, c.Email):
			return fmt.Errorf("%w: email ya registrado en %s", domain.ErrDuplicate, o.Code)
		case c.GSTIN != "" && o.GSTIN == c.GSTIN:
			return fmt.Errorf("%w: GSTIN ya registrado en %s", domain.ErrDuplicate, o.Code)
		}
	}
	return nil
}

// deriveState fija el código de estado: primero el GSTIN, luego la dirección.
func deriveState(c *entity.Customer) error {
	code := c.Address.StateCode
	if code == "" && c.Address.State != "" {
		code = gst.StateCodeByName(c.Address.State)
	}
	if c.GSTIN != "" {
		fromGSTIN := gst.StateCodeFromGSTIN(c.GSTIN)
		if code != "" && code != fromGSTIN {
			verr := domain.NewValidationError()
			verr.Add("address.state_code", "no coincide con el estado del GSTIN ("+fromGSTIN+")")
			return verr
		}
		code = fromGSTIN
	}
	c.StateCode = code
	if code != "" {
		c.Address.StateCode = code
		if c.Address.State == "" {
			c.Address.State = gst.StateName(code)
		}
	}
	return nil
}

// dropDerivedState quita el estado que venía del GSTIN anterior para que
// deriveState lo tome del nuevo.
func dropDerivedState(a *entity.Address, previous string) {
	if previous == "" || a.StateCode == previous {
		a.StateCode = ""
	}
	if a.State != "" && gst.StateCodeByName(a.State) == previous {
		a.State = ""
	}
}

func toAddress(in dto.AddressInput) entity.Address {
	a := entity.Address{
		Line1:     strings.TrimSpace(in.Line1),
		Line2:     strings.TrimSpace(in.Line2),
		City:      strings.TrimSpace(in.City),
		State:     strings.TrimSpace(in.State),
		StateCode: strings.TrimSpace(in.StateCode),
		Pincode:   strings.TrimSpace(in.Pincode),
		Country:   strings.TrimSpace(in.Country),
	}
	if a.Country == "" {
		a.Country = "India"
	}
	return a
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
