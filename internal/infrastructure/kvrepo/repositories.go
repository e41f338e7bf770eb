package kvrepo

import (
	"context"
	"time"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
)

// ─── Business ──────────────────────────────────────────────────────────────

// BusinessRepo implementa repository.BusinessRepository.
type BusinessRepo struct{ c *collection[*entity.Business] }

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// NewBusinessRepository construye el repositorio de negocios.
func NewBusinessRepository(dm *kvstore.DataManager) *BusinessRepo {
	return &BusinessRepo{c: newCollection[*entity.Business](dm, KeyBusinesses)}
}

func (r *BusinessRepo) Save(ctx context.Context, b *entity.Business) error {
	return r.c.save(ctx, b)
}

func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	return r.c.get(ctx, id)
}

// List devuelve los negocios por fecha de creación.
func (r *BusinessRepo) List(ctx context.Context) ([]*entity.Business, error) {
	items, err := r.c.list(ctx)
	if err != nil {
		return nil, err
	}
	sortByCreated(items, func(b *entity.Business) time.Time { return b.CreatedAt })
	return items, nil
}

func (r *BusinessRepo) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *BusinessRepo) ReplaceAll(ctx context.Context, items []*entity.Business) error {
	return r.c.replaceAll(ctx, items)
}

// ─── Customer ──────────────────────────────────────────────────────────────

// CustomerRepo implementa repository.CustomerRepository.
type CustomerRepo struct{ c *collection[*entity.Customer] }

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// NewCustomerRepository construye el repositorio de clientes.
func NewCustomerRepository(dm *kvstore.DataManager) *CustomerRepo {
	return &CustomerRepo{c: newCollection[*entity.Customer](dm, KeyCustomers)}
}

func (r *CustomerRepo) Save(ctx context.Context, cu *entity.Customer) error {
	return r.c.save(ctx, cu)
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.c.get(ctx, id)
}

func (r *CustomerRepo) List(ctx context.Context) ([]*entity.Customer, error) {
	return r.c.list(ctx)
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *CustomerRepo) ReplaceAll(ctx context.Context, items []*entity.Customer) error {
	return r.c.replaceAll(ctx, items)
}

// ─── Product ───────────────────────────────────────────────────────────────

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ c *collection[*entity.Product] }

var _ repository.ProductRepository = (*ProductRepo)(nil)

// NewProductRepository construye el repositorio de productos.
func NewProductRepository(dm *kvstore.DataManager) *ProductRepo {
	return &ProductRepo{c: newCollection[*entity.Product](dm, KeyProducts)}
}

func (r *ProductRepo) Save(ctx context.Context, p *entity.Product) error {
	return r.c.save(ctx, p)
}

func (r *ProductRepo) SaveMany(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.c.save(ctx, products...)
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.c.get(ctx, id)
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.c.list(ctx)
}

func (r *ProductRepo) ReplaceAll(ctx context.Context, items []*entity.Product) error {
	return r.c.replaceAll(ctx, items)
}

// ─── Invoice ───────────────────────────────────────────────────────────────

// InvoiceRepo implementa repository.InvoiceRepository.
type InvoiceRepo struct{ c *collection[*entity.Invoice] }

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// NewInvoiceRepository construye el repositorio de facturas.
func NewInvoiceRepository(dm *kvstore.DataManager) *InvoiceRepo {
	return &InvoiceRepo{c: newCollection[*entity.Invoice](dm, KeyInvoices)}
}

func (r *InvoiceRepo) Save(ctx context.Context, inv *entity.Invoice) error {
	return r.c.save(ctx, inv)
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.c.get(ctx, id)
}

func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	return r.c.list(ctx)
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *InvoiceRepo) ReplaceAll(ctx context.Context, items []*entity.Invoice) error {
	return r.c.replaceAll(ctx, items)
}

// ─── Conjunto ──────────────────────────────────────────────────────────────

// Repositories agrupa todos los repositorios sobre un mismo DataManager.
type Repositories struct {
	Businesses *BusinessRepo
	Customers  *CustomerRepo
	Products   *ProductRepo
	Invoices   *InvoiceRepo
	Counters   *kvstore.CounterRepository
}

// New construye todos los repositorios.
func New(dm *kvstore.DataManager) *Repositories {
	return &Repositories{
		Businesses: NewBusinessRepository(dm),
		Customers:  NewCustomerRepository(dm),
		Products:   NewProductRepository(dm),
		Invoices:   NewInvoiceRepository(dm),
		Counters:   kvstore.NewCounterRepository(dm),
	}
}

// Reload descarta las cachés en memoria; la próxima lectura recarga desde el backend.
func (r *Repositories) Reload() {
	r.Businesses.c.reload()
	r.Customers.c.reload()
	r.Products.c.reload()
	r.Invoices.c.reload()
}
