package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
)

// SystemHandler uso del almacenamiento, registro de eventos y borrado total.
type SystemHandler struct {
	dm     *kvstore.DataManager
	reload func()
}

// NewSystemHandler construye el handler; reload descarta las cachés tras un borrado.
func NewSystemHandler(dm *kvstore.DataManager, reload func()) *SystemHandler {
	return &SystemHandler{dm: dm, reload: reload}
}

// Storage godoc
// @Summary      Uso del almacenamiento por clave
// @Tags         system
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  kvstore.StorageStats
// @Router       /api/system/storage [get]
func (h *SystemHandler) Storage(c *fiber.Ctx) error {
	st, err := h.dm.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(st)
}

func (h *SystemHandler) Events(c *fiber.Ctx) error {
	events, err := h.dm.Events(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

// Clear godoc
// @Summary      Borrar todos los datos
// @Description  Requiere confirm=true. Conviene crear un respaldo antes.
// @Tags         system
// @Security     Bearer
// @Param        confirm  query  bool  true  "Confirmación"
// @Router       /api/system/storage [delete]
func (h *SystemHandler) Clear(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return respondError(c, fmt.Errorf("%w: confirm=true requerido", domain.ErrInvalidInput))
	}
	if err := h.dm.Clear(c.Context()); err != nil {
		return respondError(c, err)
	}
	if h.reload != nil {
		h.reload()
	}
	return c.SendStatus(fiber.StatusNoContent)
}
