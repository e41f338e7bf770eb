package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/domain"
)

var errInvalidBody = fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)

// errorStatus asocia cada error de dominio con su estado HTTP y código.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmptyInvoice, fiber.StatusUnprocessableEntity, "EMPTY_INVOICE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInsufficientPoints, fiber.StatusConflict, "INSUFFICIENT_POINTS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrIncompatibleVersion, fiber.StatusUnprocessableEntity, "INCOMPATIBLE_VERSION"},
	{domain.ErrInvalidBackup, fiber.StatusUnprocessableEntity, "INVALID_BACKUP"},
	{domain.ErrNotConfigured, fiber.StatusServiceUnavailable, "NOT_CONFIGURED"},
}

// respondError traduce err a {code, message}; los errores no reconocidos son 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  verr.Fields,
		})
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			if m.err == domain.ErrUnauthorized {
				return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: "credenciales inválidas"})
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// bindJSON decodifica el cuerpo; un cuerpo vacío deja out intacto.
func bindJSON(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}

// bindQuery decodifica los parámetros de consulta.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("%w: parámetros de consulta: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// queryDate lee una fecha YYYY-MM-DD (o RFC3339); nil si el parámetro no viene.
func queryDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, name)
}

// queryRange lee from y to.
func queryRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = queryDate(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = queryDate(c, "to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
