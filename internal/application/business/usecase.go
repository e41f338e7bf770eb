// Package business contiene los casos de uso del registro de negocios emisores.
package business

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/validation"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
	"github.com/jhoicas/billmaker-api/pkg/gst"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

// BusinessUseCase aplica las reglas de negocio del registro de negocios:
// GSTIN único, un único negocio activo y el primero creado queda activo.
type BusinessUseCase struct {
	repo     repository.BusinessRepository
	invoices repository.InvoiceRepository
	counters repository.CounterRepository
	log      *logger.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewBusinessUseCase construye el caso de uso con los puertos de persistencia.
func NewBusinessUseCase(
	repo repository.BusinessRepository,
	invoices repository.InvoiceRepository,
	counters repository.CounterRepository,
	log *logger.Logger,
) *BusinessUseCase {
	return &BusinessUseCase{
		repo:     repo,
		invoices: invoices,
		counters: counters,
		log:      log.Component("business"),
		now:      time.Now,
	}
}

// Create crea un negocio. Devuelve domain.ErrDuplicate si el GSTIN ya está registrado.
func (uc *BusinessUseCase) Create(ctx context.Context, in dto.CreateBusinessRequest) (*entity.Business, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	gstin := gst.NormalizeGSTIN(in.GSTIN)
	if err := ensureUniqueGSTIN(all, gstin, ""); err != nil {
		return nil, err
	}

	n, err := uc.counters.Next(ctx, "business")
	if err != nil {
		return nil, err
	}
	now := uc.now()
	b := &entity.Business{
		ID:        uuid.New().String(),
		Code:      fmt.Sprintf("BIZ-%04d", n),
		Name:      strings.TrimSpace(in.Name),
		LegalName: strings.TrimSpace(in.LegalName),
		GSTIN:     gstin,
		PAN:       strings.ToUpper(strings.TrimSpace(in.PAN)),
		Address:   toAddress(in.Address),
		Phone:     gst.NormalizePhone(in.Phone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Website:   strings.TrimSpace(in.Website),
		Bank:      toBank(in.Bank),
		Settings:  entity.DefaultBusinessSettings(),
		Stats:     entity.BusinessStats{TotalRevenue: decimal.Zero},
		IsActive:  len(all) == 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applySettings(&b.Settings, in.Settings)
	if err := deriveTaxIdentity(b); err != nil {
		return nil, err
	}

	if err := uc.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	uc.log.Info().Str("business_id", b.ID).Str("code", b.Code).Bool("active", b.IsActive).Msg("negocio creado")
	return b, nil
}

// Update aplica una actualización parcial con las mismas validaciones que Create.
func (uc *BusinessUseCase) Update(ctx context.Context, id string, in dto.UpdateBusinessRequest) (*entity.Business, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.GSTIN != nil {
		gstin := gst.NormalizeGSTIN(*in.GSTIN)
		if gstin != b.GSTIN {
			all, err := uc.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			if err := ensureUniqueGSTIN(all, gstin, b.ID); err != nil {
				return nil, err
			}
			// con un GSTIN nuevo, estado y PAN derivados del anterior se recalculan
			if in.Address == nil && b.GSTIN != "" && gstin != "" {
				prev := gst.StateCodeFromGSTIN(b.GSTIN)
				if b.Address.StateCode == prev {
					b.Address.StateCode = ""
					if gst.StateCodeByName(b.Address.State) == prev {
						b.Address.State = ""
					}
				}
			}
			if in.PAN == nil && b.GSTIN != "" && gstin != "" && b.PAN == gst.PANFromGSTIN(b.GSTIN) {
				b.PAN = ""
			}
		}
		b.GSTIN = gstin
	}
	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.LegalName != nil {
		b.LegalName = strings.TrimSpace(*in.LegalName)
	}
	if in.PAN != nil {
		b.PAN = strings.ToUpper(strings.TrimSpace(*in.PAN))
	}
	if in.Address != nil {
		b.Address = toAddress(*in.Address)
	}
	if in.Phone != nil {
		b.Phone = gst.NormalizePhone(*in.Phone)
	}
	if in.Email != nil {
		b.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Website != nil {
		b.Website = strings.TrimSpace(*in.Website)
	}
	if in.Bank != nil {
		b.Bank = toBank(*in.Bank)
	}
	if in.Settings != nil {
		applySettings(&b.Settings, *in.Settings)
	}
	if err := deriveTaxIdentity(b); err != nil {
		return nil, err
	}

	b.UpdatedAt = uc.now()
	if err := uc.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get obtiene un negocio por ID.
func (uc *BusinessUseCase) Get(ctx context.Context, id string) (*entity.Business, error) {
	return uc.repo.GetByID(ctx, id)
}

// List lista los negocios por fecha de creación.
func (uc *BusinessUseCase) List(ctx context.Context) ([]*entity.Business, error) {
	return uc.repo.List(ctx)
}

// GetActive devuelve el negocio activo; domain.ErrNotFound si no hay ninguno.
func (uc *BusinessUseCase) GetActive(ctx context.Context) (*entity.Business, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range all {
		if b.IsActive {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: no hay negocio activo", domain.ErrNotFound)
}

// Resolve devuelve el negocio indicado o el activo si id está vacío.
func (uc *BusinessUseCase) Resolve(ctx context.Context, id string) (*entity.Business, error) {
	if id == "" {
		return uc.GetActive(ctx)
	}
	return uc.repo.GetByID(ctx, id)
}

// SetActive marca id como activo y desactiva el resto.
func (uc *BusinessUseCase) SetActive(ctx context.Context, id string) (*entity.Business, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var target *entity.Business
	for _, b := range all {
		if b.ID == id {
			target = b
		}
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	for _, b := range all {
		active := b.ID == id
		if b.IsActive == active {
			continue
		}
		b.IsActive = active
		b.UpdatedAt = now
		if err := uc.repo.Save(ctx, b); err != nil {
			return nil, err
		}
	}
	uc.log.Info().Str("business_id", id).Msg("negocio activo cambiado")
	return target, nil
}

// Delete elimina un negocio sin facturas emitidas (sus borradores se descartan).
// Si era el activo, el negocio más antiguo restante pasa a ser el activo.
func (uc *BusinessUseCase) Delete(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	invoices, err := uc.invoices.List(ctx)
	if err != nil {
		return err
	}
	var drafts []string
	for _, inv := range invoices {
		if inv.BusinessID != id {
			continue
		}
		if !inv.IsDraft() {
			return fmt.Errorf("%w: el negocio tiene facturas emitidas", domain.ErrConflict)
		}
		drafts = append(drafts, inv.ID)
	}
	for _, draftID := range drafts {
		if err := uc.invoices.Delete(ctx, draftID); err != nil {
			return err
		}
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("business_id", id).Int("drafts_removed", len(drafts)).Msg("negocio eliminado")

	if !b.IsActive {
		return nil
	}
	rest, err := uc.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return nil
	}
	next := rest[0]
	next.IsActive = true
	next.UpdatedAt = uc.now()
	return uc.repo.Save(ctx, next)
}

// RefreshStats recalcula las estadísticas del negocio a partir de sus facturas.
func (uc *BusinessUseCase) RefreshStats(ctx context.Context, id string) (*entity.Business, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoices.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := entity.BusinessStats{TotalRevenue: decimal.Zero}
	customers := map[string]struct{}{}
	for _, inv := range invoices {
		if inv.BusinessID != id || !inv.CountsAsSale() {
			continue
		}
		stats.TotalInvoices++
		stats.TotalRevenue = stats.TotalRevenue.Add(inv.Totals.GrandTotal)
		if inv.CustomerID != "" {
			customers[inv.CustomerID] = struct{}{}
		}
		if inv.GeneratedAt != nil && (stats.LastInvoiceAt == nil || inv.GeneratedAt.After(*stats.LastInvoiceAt)) {
			at := *inv.GeneratedAt
			stats.LastInvoiceAt = &at
		}
	}
	stats.TotalCustomers = len(customers)

	b.Stats = stats
	if err := uc.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ─── helpers ───────────────────────────────────────────────────────────────

func ensureUniqueGSTIN(all []*entity.Business, gstin, exceptID string) error {
	if gstin == "" {
		return nil
	}
	for _, b := range all {
		if b.ID != exceptID && b.GSTIN == gstin {
			return fmt.Errorf("%w: GSTIN %s ya registrado en %s", domain.ErrDuplicate, gstin, b.Code)
		}
	}
	return nil
}

// deriveTaxIdentity completa estado y PAN desde el GSTIN y verifica que coincidan.
func deriveTaxIdentity(b *entity.Business) error {
	if b.GSTIN == "" {
		if b.Address.StateCode == "" && b.Address.State != "" {
			b.Address.StateCode = gst.StateCodeByName(b.Address.State)
		}
		return nil
	}
	verr := domain.NewValidationError()
	state := gst.StateCodeFromGSTIN(b.GSTIN)
	switch {
	case b.Address.StateCode == "":
		b.Address.StateCode = state
	case b.Address.StateCode != state:
		verr.Add("address.state_code", "no coincide con el estado del GSTIN ("+state+")")
	}
	if b.Address.State == "" {
		b.Address.State = gst.StateName(b.Address.StateCode)
	}
	pan := gst.PANFromGSTIN(b.GSTIN)
	switch {
	case b.PAN == "":
		b.PAN = pan
	case b.PAN != pan:
		verr.Add("pan", "no coincide con el PAN del GSTIN")
	}
	return verr.OrNil()
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
	if a.StateCode != "" && a.State == "" {
		a.State = gst.StateName(a.StateCode)
	}
	return a
}

func toBank(in dto.BankInput) entity.BankDetails {
	return entity.BankDetails{
		AccountName:   strings.TrimSpace(in.AccountName),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		IFSC:          strings.ToUpper(strings.TrimSpace(in.IFSC)),
		BankName:      strings.TrimSpace(in.BankName),
		UPIID:         strings.TrimSpace(in.UPIID),
	}
}

func applySettings(s *entity.BusinessSettings, in dto.SettingsInput) {
	if in.InvoicePrefix != nil {
		s.InvoicePrefix = strings.ToUpper(*in.InvoicePrefix)
	}
	if in.DefaultTaxRate != nil {
		s.DefaultTaxRate = *in.DefaultTaxRate
	}
	if in.Currency != nil {
		s.Currency = strings.ToUpper(*in.Currency)
	}
	if in.DueDays != nil {
		s.DueDays = *in.DueDays
	}
	if in.RoundOff != nil {
		s.RoundOff = *in.RoundOff
	}
	if in.Terms != nil {
		s.Terms = *in.Terms
	}
	if in.Notes != nil {
		s.Notes = *in.Notes
	}
	if in.InvoiceTemplate != nil {
		s.InvoiceTemplate = *in.InvoiceTemplate
	}
}
