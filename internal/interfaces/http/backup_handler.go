package http

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billmaker-api/internal/application/backup"
	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/domain"
)

// BackupHandler respaldos manuales, descarga y restauración.
type BackupHandler struct {
	uc *backup.BackupUseCase
}

// NewBackupHandler construye el handler.
func NewBackupHandler(uc *backup.BackupUseCase) *BackupHandler {
	return &BackupHandler{uc: uc}
}

// Create godoc
// @Summary      Crear respaldo
// @Tags         backups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBackupRequest  false  "compress"
// @Success      201   {object}  dto.BackupInfo
// @Router       /api/backups [post]
func (h *BackupHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBackupRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *BackupHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	last, err := h.uc.LastBackupAt(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": list, "last_backup_at": last})
}

// Download devuelve el archivo tal como fue almacenado.
func (h *BackupHandler) Download(c *fiber.Ctx) error {
	name := c.Params("name")
	data, err := h.uc.Get(c.Context(), name)
	if err != nil {
		return respondError(c, err)
	}
	contentType := fiber.MIMEApplicationJSON
	if strings.HasSuffix(name, ".gz") {
		contentType = "application/gzip"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(data)
}

// RestoreNamed godoc
// @Summary      Restaurar un respaldo almacenado
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Param        name  path   string  true   "Nombre del archivo"
// @Param        mode  query  string  false  "merge|replace"  default(merge)
// @Success      200   {object}  dto.RestoreResult
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/backups/{name}/restore [post]
func (h *BackupHandler) RestoreNamed(c *fiber.Ctx) error {
	out, err := h.uc.RestoreNamed(c.Context(), c.Params("name"), c.Query("mode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Upload godoc
// @Summary      Restaurar desde un archivo subido (JSON o gzip en el cuerpo)
// @Tags         backups
// @Security     Bearer
// @Accept       application/json
// @Produce      json
// @Param        mode  query  string  false  "merge|replace"  default(merge)
// @Success      200   {object}  dto.RestoreResult
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/backups/restore [post]
func (h *BackupHandler) Upload(c *fiber.Ctx) error {
	payload := c.Body()
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return respondError(c, err)
		}
		defer f.Close()
		if payload, err = io.ReadAll(f); err != nil {
			return respondError(c, fmt.Errorf("%w: archivo ilegible", domain.ErrInvalidBackup))
		}
	}
	if len(payload) == 0 {
		return respondError(c, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput))
	}
	// fiber reutiliza el buffer del cuerpo al terminar el handler
	out, err := h.uc.Restore(c.Context(), append([]byte(nil), payload...), c.Query("mode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Prune conserva los retain respaldos más recientes.
func (h *BackupHandler) Prune(c *fiber.Ctx) error {
	deleted, err := h.uc.DeleteOld(c.Context(), c.QueryInt("retain", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
