package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name    string       `json:"name" validate:"required,min=1,max=200"`
	Phone   string       `json:"phone" validate:"omitempty,in_phone"`
	Email   string       `json:"email" validate:"omitempty,email"`
	GSTIN   string       `json:"gstin" validate:"omitempty,gstin"`
	Address AddressInput `json:"address"`
	Tags    []string     `json:"tags" validate:"omitempty,dive,min=1,max=30"`
	Notes   string       `json:"notes" validate:"max=2000"`
}

// UpdateCustomerRequest entrada para actualizar un cliente (campos opcionales).
type UpdateCustomerRequest struct {
	Name     *string       `json:"name" validate:"omitempty,min=1,max=200"`
	Phone    *string       `json:"phone" validate:"omitempty,in_phone"`
	Email    *string       `json:"email" validate:"omitempty,email"`
	GSTIN    *string       `json:"gstin" validate:"omitempty,gstin"`
	Address  *AddressInput `json:"address"`
	Tags     *[]string     `json:"tags" validate:"omitempty,dive,min=1,max=30"`
	Notes    *string       `json:"notes" validate:"omitempty,max=2000"`
	IsActive *bool         `json:"is_active"`
}

// CustomerFilter filtros del listado de clientes.
type CustomerFilter struct {
	Query  string `query:"q" json:"q"`
	Tag    string `query:"tag" json:"tag"`
	Tier   string `query:"tier" json:"tier" validate:"omitempty,tier"`
	Active *bool  `query:"active" json:"active"`
	PageRequest
}

// TagRequest etiqueta a agregar o quitar.
type TagRequest struct {
	Tag string `json:"tag" validate:"required,min=1,max=30"`
}

// RedeemPointsRequest canje de puntos de fidelidad.
type RedeemPointsRequest struct {
	Points int64 `json:"points" validate:"required,gt=0"`
}

// RedeemPointsResponse resultado del canje: descuento a aplicar en la factura.
type RedeemPointsResponse struct {
	PointsRedeemed  int64           `json:"points_redeemed"`
	DiscountValue   decimal.Decimal `json:"discount_value"`
	RemainingPoints int64           `json:"remaining_points"`
}
