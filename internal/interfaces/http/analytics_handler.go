package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/billmaker-api/internal/application/analytics"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
)

// AnalyticsHandler reportes de ventas, GST, clientes e inventario.
// Todos aceptan from/to (YYYY-MM-DD, inclusivos) y business_id opcionales.
type AnalyticsHandler struct {
	uc        *appanalytics.AnalyticsUseCase
	dashboard *appanalytics.DashboardUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.AnalyticsUseCase, dashboard *appanalytics.DashboardUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, dashboard: dashboard}
}

func reportRequest(c *fiber.Ctx) (dto.ReportRequest, error) {
	var req dto.ReportRequest
	if err := bindQuery(c, &req); err != nil {
		return req, err
	}
	from, to, err := queryRange(c)
	if err != nil {
		return req, err
	}
	req.From, req.To = from, to
	return req, nil
}

// reportHandler adapta un reporte parametrizado por ReportRequest a un handler fiber.
func reportHandler[T any](fn func(c *fiber.Ctx, req dto.ReportRequest) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := reportRequest(c)
		if err != nil {
			return respondError(c, err)
		}
		out, err := fn(c, req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// SalesSummary godoc
// @Summary      Resumen de ventas del período
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  false  "Desde (YYYY-MM-DD). Default: día 1 del mes."
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD). Default: hoy."
// @Param        business_id  query  string  false  "Negocio"
// @Success      200  {object}  dto.SalesSummaryDTO
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) SalesSummary(c *fiber.Ctx) error {
	return reportHandler(func(c *fiber.Ctx, req dto.ReportRequest) (*dto.SalesSummaryDTO, error) {
		return h.uc.SalesSummary(c.Context(), req)
	})(c)
}

// SalesTrend godoc
// @Summary      Ventas agrupadas por día, semana o mes
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        granularity  query  string  false  "day|week|month"  default(day)
// @Router       /api/analytics/trend [get]
func (h *AnalyticsHandler) SalesTrend(c *fiber.Ctx) error {
	return reportHandler(func(c *fiber.Ctx, req dto.ReportRequest) ([]dto.TrendPointDTO, error) {
		return h.uc.SalesTrend(c.Context(), req)
	})(c)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int     false  "Máximo (default 10)"
// @Param        by     query  string  false  "revenue|quantity"
// @Router       /api/analytics/top-products [get]
func (h *AnalyticsHandler) TopProducts(c *fiber.Ctx) error {
	return reportHandler(func(c *fiber.Ctx, req dto.ReportRequest) ([]dto.TopProductDTO, error) {
		return h.uc.TopProducts(c.Context(), req)
	})(c)
}

func (h *AnalyticsHandler) CategorySales(c *fiber.Ctx) error {
	return reportHandler(func(c *fiber.Ctx, req dto.ReportRequest) ([]dto.CategorySalesDTO, error) {
		return h.uc.CategorySales(c.Context(), req)
	})(c)
}

func (h *AnalyticsHandler) TopCustomers(c *fiber.Ctx) error {
	return reportHandler(func(c *fiber.Ctx, req dto.ReportRequest) ([]dto.TopCustomerDTO, error) {
		return h.uc.TopCustomers(c.Context(), req)
	})(c)
}

// GSTSummary godoc
// @Summary      Resumen GST por tarifa y B2B/B2C (estilo GSTR-1)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GSTSummaryDTO
// @Router       /api/analytics/gst [get]
func (h *AnalyticsHandler) GSTSummary(c *fiber.Ctx) error {
	return reportHandler(func(c *fiber.Ctx, req dto.ReportRequest) (*dto.GSTSummaryDTO, error) {
		return h.uc.GSTSummary(c.Context(), req)
	})(c)
}

func (h *AnalyticsHandler) CustomerInsights(c *fiber.Ctx) error {
	return reportHandler(func(c *fiber.Ctx, req dto.ReportRequest) (*dto.CustomerInsightsDTO, error) {
		return h.uc.CustomerInsights(c.Context(), req)
	})(c)
}

// InventoryReport valorización, stock bajo y sugerencias de reposición.
func (h *AnalyticsHandler) InventoryReport(c *fiber.Ctx) error {
	out, err := h.uc.InventoryReport(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Resumen del día y del mes en curso
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        business_id  query  string  false  "Negocio (vacío = todos)"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.Context(), c.Query("business_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportCSV godoc
// @Summary      Exportar facturas del período a CSV
// @Tags         analytics
// @Security     Bearer
// @Produce      text/csv
// @Router       /api/analytics/export.csv [get]
func (h *AnalyticsHandler) ExportCSV(c *fiber.Ctx) error {
	req, err := reportRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.uc.ExportInvoicesCSV(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "invoices_"+time.Now().Format("20060102")+".csv"))
	return c.Send(data)
}
