package dto

import "time"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" json:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" json:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Bounds devuelve los índices [start, end) de la página dentro de total elementos.
func (p PageRequest) Bounds(total int) (int, int) {
	p.DefaultPage()
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ListResponse lista paginada genérica.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// Paginate recorta items según page y arma la respuesta.
func Paginate[T any](items []T, page PageRequest) ListResponse[T] {
	page.DefaultPage()
	start, end := page.Bounds(len(items))
	out := make([]T, 0, end-start)
	out = append(out, items[start:end]...)
	return ListResponse[T]{
		Items: out,
		Page:  PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}
}

// DateRange rango de fechas inclusivo para reportes.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// AddressInput dirección en solicitudes de alta/edición.
type AddressInput struct {
	Line1     string `json:"line1" validate:"max=200"`
	Line2     string `json:"line2" validate:"max=200"`
	City      string `json:"city" validate:"max=100"`
	State     string `json:"state" validate:"max=100"`
	StateCode string `json:"state_code" validate:"omitempty,state_code"`
	Pincode   string `json:"pincode" validate:"omitempty,pincode"`
	Country   string `json:"country" validate:"max=60"`
}
