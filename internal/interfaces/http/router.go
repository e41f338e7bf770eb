package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/billmaker-api/internal/application/analytics"
	"github.com/jhoicas/billmaker-api/internal/application/auth"
	"github.com/jhoicas/billmaker-api/internal/application/backup"
	"github.com/jhoicas/billmaker-api/internal/application/billing"
	"github.com/jhoicas/billmaker-api/internal/application/business"
	"github.com/jhoicas/billmaker-api/internal/application/customer"
	"github.com/jhoicas/billmaker-api/internal/application/product"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BusinessUC  *business.BusinessUseCase
	CustomerUC  *customer.CustomerUseCase
	ProductUC   *product.ProductUseCase
	HSNUC       *product.HSNUseCase
	Billing     *billing.BillingEngine
	InvoicePDF  *billing.PDFUseCase
	AnalyticsUC *appanalytics.AnalyticsUseCase
	DashboardUC *appanalytics.DashboardUseCase
	BackupUC    *backup.BackupUseCase
	AuthUC      *auth.AuthUseCase
	Storage     *kvstore.DataManager
	// ReloadCaches descarta las cachés de los repositorios tras borrar el almacenamiento.
	ReloadCaches func()
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	businesses := protected.Group("/businesses")
	businessHandler := NewBusinessHandler(deps.BusinessUC)
	businesses.Get("/", businessHandler.List)
	businesses.Post("/", businessHandler.Create)
	businesses.Get("/active", businessHandler.GetActive)
	businesses.Get("/:id", businessHandler.Get)
	businesses.Put("/:id", businessHandler.Update)
	businesses.Delete("/:id", businessHandler.Delete)
	businesses.Post("/:id/activate", businessHandler.Activate)
	businesses.Post("/:id/stats", businessHandler.RefreshStats)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/top", customerHandler.Top)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Post("/:id/tags", customerHandler.AddTag)
	customers.Delete("/:id/tags/:tag", customerHandler.RemoveTag)
	customers.Post("/:id/redeem", customerHandler.RedeemPoints)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	hsnHandler := NewHSNHandler(deps.HSNUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/categories", productHandler.Categories)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/stock-value", productHandler.StockValue)
	products.Post("/hsn-suggestions", hsnHandler.Suggest)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/restore", productHandler.Restore)
	products.Post("/:id/stock", productHandler.AdjustStock)
	products.Get("/:id/movements", productHandler.Movements)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Billing, deps.InvoicePDF)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.CreateDraft)
	invoices.Get("/:id", invoiceHandler.Get)
	invoices.Delete("/:id", invoiceHandler.DeleteDraft)
	invoices.Post("/:id/items", invoiceHandler.AddItem)
	invoices.Put("/:id/items/:itemId", invoiceHandler.UpdateItem)
	invoices.Delete("/:id/items/:itemId", invoiceHandler.RemoveItem)
	invoices.Put("/:id/customer", invoiceHandler.SetCustomer)
	invoices.Put("/:id/adjustments", invoiceHandler.SetAdjustments)
	invoices.Post("/:id/generate", invoiceHandler.Generate)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)
	invoices.Put("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Post("/:id/duplicate", invoiceHandler.Duplicate)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/html", invoiceHandler.HTML)

	analytics := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC, deps.DashboardUC)
	analytics.Get("/dashboard", analyticsHandler.Dashboard)
	analytics.Get("/summary", analyticsHandler.SalesSummary)
	analytics.Get("/trend", analyticsHandler.SalesTrend)
	analytics.Get("/top-products", analyticsHandler.TopProducts)
	analytics.Get("/categories", analyticsHandler.CategorySales)
	analytics.Get("/top-customers", analyticsHandler.TopCustomers)
	analytics.Get("/gst", analyticsHandler.GSTSummary)
	analytics.Get("/customers", analyticsHandler.CustomerInsights)
	analytics.Get("/inventory", analyticsHandler.InventoryReport)
	analytics.Get("/export.csv", analyticsHandler.ExportCSV)

	backups := protected.Group("/backups")
	backupHandler := NewBackupHandler(deps.BackupUC)
	backups.Get("/", backupHandler.List)
	backups.Post("/", backupHandler.Create)
	backups.Post("/restore", backupHandler.Upload)
	backups.Post("/prune", backupHandler.Prune)
	backups.Get("/:name", backupHandler.Download)
	backups.Post("/:name/restore", backupHandler.RestoreNamed)

	system := protected.Group("/system")
	systemHandler := NewSystemHandler(deps.Storage, deps.ReloadCaches)
	system.Get("/storage", systemHandler.Storage)
	system.Delete("/storage", systemHandler.Clear)
	system.Get("/events", systemHandler.Events)
}
