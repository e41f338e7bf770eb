// seed carga datos de demostración (negocio, clientes, productos y facturas)
// a través de los casos de uso, sobre el almacenamiento configurado.
//
// Uso: go run ./cmd/seed [-force]
// Sin -force no hace nada si ya existe algún negocio.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/application/billing"
	"github.com/jhoicas/billmaker-api/internal/application/business"
	"github.com/jhoicas/billmaker-api/internal/application/customer"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/application/product"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/badgerkv"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvrepo"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/postgres"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/rediskv"
	"github.com/jhoicas/billmaker-api/pkg/config"
	"github.com/jhoicas/billmaker-api/pkg/gst"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

type seedProduct struct {
	name, hsn, category, unit string
	price, cost, tax, stock   int64
}

var demoProducts = []seedProduct{
	{"Steel Water Bottle 1L", "7323", "Kitchen", gst.UnitPieces, 450, 280, 18, 120},
	{"Basmati Rice 5kg", "1006", "Grocery", gst.UnitBox, 725, 560, 5, 60},
	{"A4 Notebook 200pg", "4820", "Stationery", gst.UnitPieces, 90, 55, 12, 300},
	{"LED Bulb 9W", "8539", "Electrical", gst.UnitPieces, 120, 70, 12, 8},
	{"Cotton Bedsheet Double", "6304", "Home", gst.UnitSet, 1299, 800, 12, 25},
	{"Bluetooth Speaker", "8518", "Electronics", gst.UnitPieces, 2499, 1650, 18, 15},
}

func main() {
	force := flag.Bool("force", false, "sembrar aunque ya existan datos")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	dm := kvstore.NewDataManager(store, kvstore.Options{
		Namespace:         cfg.Storage.Namespace,
		CompressThreshold: cfg.Storage.CompressThreshold,
		Logger:            log.Component("storage"),
	})
	repos := kvrepo.New(dm)

	businessUC := business.NewBusinessUseCase(repos.Businesses, repos.Invoices, repos.Counters, log.Component("business"))
	customerUC := customer.NewCustomerUseCase(repos.Customers, repos.Invoices, repos.Counters, log.Component("customer"))
	productUC := product.NewProductUseCase(repos.Products, repos.Counters, false, log.Component("product"))
	engine := billing.NewBillingEngine(repos.Invoices, repos.Counters, businessUC, customerUC, productUC, log.Component("billing"))

	existing, err := businessUC.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Listar negocios: %v\n", err)
		os.Exit(1)
	}
	if len(existing) > 0 && !*force {
		fmt.Printf("Ya hay %d negocio(s); use -force para sembrar de nuevo\n", len(existing))
		return
	}

	if err := seed(ctx, businessUC, customerUC, productUC, engine); err != nil {
		fmt.Fprintf(os.Stderr, "Seed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Datos de demostración cargados")
}

func seed(ctx context.Context, bizUC *business.BusinessUseCase, custUC *customer.CustomerUseCase,
	prodUC *product.ProductUseCase, engine *billing.BillingEngine) error {
	b, err := bizUC.Create(ctx, dto.CreateBusinessRequest{
		Name:      "Sharma Traders",
		LegalName: "Sharma Traders Pvt Ltd",
		GSTIN:     "27AAPFU0939F1ZV",
		Address: dto.AddressInput{
			Line1: "12 MG Road", City: "Pune", State: "Maharashtra", StateCode: "27", Pincode: "411001", Country: "India",
		},
		Phone: "9876543210",
		Email: "billing@sharmatraders.in",
		Bank: dto.BankInput{
			AccountName: "Sharma Traders", AccountNumber: "123456789012", IFSC: "HDFC0001234",
			BankName: "HDFC Bank", UPIID: "sharmatraders@hdfcbank",
		},
	})
	if err != nil {
		return fmt.Errorf("negocio: %w", err)
	}

	local, err := custUC.Create(ctx, dto.CreateCustomerRequest{
		Name:  "Pune Retail Mart",
		Phone: "9822012345",
		GSTIN: "27AABCS1429B1ZU",
		Address: dto.AddressInput{
			City: "Pune", State: "Maharashtra", StateCode: "27", Pincode: "411014",
		},
		Tags: []string{"wholesale"},
	})
	if err != nil {
		return fmt.Errorf("cliente: %w", err)
	}
	interstate, err := custUC.Create(ctx, dto.CreateCustomerRequest{
		Name:  "Bengaluru Home Stores",
		GSTIN: "29AABCT3518Q1ZS",
		Address: dto.AddressInput{
			City: "Bengaluru", State: "Karnataka", StateCode: "29", Pincode: "560001",
		},
	})
	if err != nil {
		return fmt.Errorf("cliente: %w", err)
	}
	walkIn, err := custUC.Create(ctx, dto.CreateCustomerRequest{Name: "Walk-in Customer", Phone: "9000000001"})
	if err != nil {
		return fmt.Errorf("cliente: %w", err)
	}

	ids := make([]string, 0, len(demoProducts))
	for _, p := range demoProducts {
		created, err := prodUC.Create(ctx, dto.CreateProductRequest{
			Name:         p.name,
			HSNCode:      p.hsn,
			Category:     p.category,
			Unit:         p.unit,
			Price:        decimal.NewFromInt(p.price),
			CostPrice:    decimal.NewFromInt(p.cost),
			TaxRate:      decimal.NewFromInt(p.tax),
			OpeningStock: decimal.NewFromInt(p.stock),
			MinStock:     decimal.NewFromInt(10),
		})
		if err != nil {
			return fmt.Errorf("producto %s: %w", p.name, err)
		}
		ids = append(ids, created.ID)
	}

	type line struct {
		product int
		qty     int64
	}
	invoices := []struct {
		customerID string
		lines      []line
		pay        string // "", "full", "half"
	}{
		{local.ID, []line{{0, 10}, {2, 50}}, "full"},
		{interstate.ID, []line{{4, 4}, {5, 2}}, "half"},
		{walkIn.ID, []line{{1, 1}, {3, 3}}, ""},
	}
	for _, row := range invoices {
		inv, err := engine.CreateDraft(ctx, dto.CreateDraftRequest{BusinessID: b.ID, CustomerID: row.customerID})
		if err != nil {
			return fmt.Errorf("borrador: %w", err)
		}
		for _, l := range row.lines {
			if inv, err = engine.AddItem(ctx, inv.ID, dto.ItemRequest{
				ProductID: ids[l.product],
				Quantity:  decimal.NewFromInt(l.qty),
			}); err != nil {
				return fmt.Errorf("ítem: %w", err)
			}
		}
		if inv, err = engine.Generate(ctx, inv.ID); err != nil {
			return fmt.Errorf("emitir: %w", err)
		}
		amount := decimal.Zero
		switch row.pay {
		case "full":
			amount = inv.BalanceDue
		case "half":
			amount = inv.BalanceDue.Div(decimal.NewFromInt(2)).Round(2)
		}
		if amount.IsPositive() {
			if _, err := engine.RecordPayment(ctx, inv.ID, dto.PaymentRequest{Amount: amount, Method: gst.PaymentUPI}); err != nil {
				return fmt.Errorf("pago: %w", err)
			}
		}
		fmt.Printf("  %s  %s\n", inv.InvoiceNumber, inv.Totals.GrandTotal.StringFixed(2))
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return postgres.NewKVStore(ctx, pool)
	case config.StorageRedis:
		return rediskv.New(ctx, cfg.Redis)
	case config.StorageBadger:
		return badgerkv.Open(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("el seed requiere un almacenamiento persistente, driver %q", cfg.Storage.Driver)
	}
}
