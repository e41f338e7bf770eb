// Package gst contiene catálogos y validaciones del régimen GST (India):
// códigos de estado, tarifas vigentes, unidades UQC e identificadores tributarios.
package gst

import "github.com/shopspring/decimal"

// =============================================================================
// Códigos de estado (primeros 2 dígitos del GSTIN, lugar de suministro)
// =============================================================================

// StateCodes mapea el código GST de dos dígitos al nombre del estado o territorio.
var StateCodes = map[string]string{
	"01": "Jammu and Kashmir",
	"02": "Himachal Pradesh",
	"03": "Punjab",
	"04": "Chandigarh",
	"05": "Uttarakhand",
	"06": "Haryana",
	"07": "Delhi",
	"08": "Rajasthan",
	"09": "Uttar Pradesh",
	"10": "Bihar",
	"11": "Sikkim",
	"12": "Arunachal Pradesh",
	"13": "Nagaland",
	"14": "Manipur",
	"15": "Mizoram",
	"16": "Tripura",
	"17": "Meghalaya",
	"18": "Assam",
	"19": "West Bengal",
	"20": "Jharkhand",
	"21": "Odisha",
	"22": "Chhattisgarh",
	"23": "Madhya Pradesh",
	"24": "Gujarat",
	"26": "Dadra and Nagar Haveli and Daman and Diu",
	"27": "Maharashtra",
	"29": "Karnataka",
	"30": "Goa",
	"31": "Lakshadweep",
	"32": "Kerala",
	"33": "Tamil Nadu",
	"34": "Puducherry",
	"35": "Andaman and Nicobar Islands",
	"36": "Telangana",
	"37": "Andhra Pradesh",
	"38": "Ladakh",
	"97": "Other Territory",
}

// StateName devuelve el nombre del estado o "" si el código no existe.
func StateName(code string) string {
	return StateCodes[code]
}

// StateCodeByName busca el código por nombre (sin distinguir mayúsculas).
func StateCodeByName(name string) string {
	n := normalizeUpper(name)
	for code, s := range StateCodes {
		if normalizeUpper(s) == n {
			return code
		}
	}
	return ""
}

// =============================================================================
// Tarifas GST vigentes (porcentaje total; CGST+SGST o IGST)
// =============================================================================

// TaxSlabs tarifas válidas para productos y líneas de factura.
var TaxSlabs = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("0.25"),
	decimal.NewFromInt(3),
	decimal.NewFromInt(5),
	decimal.NewFromInt(12),
	decimal.NewFromInt(18),
	decimal.NewFromInt(28),
}

// IsValidTaxSlab indica si la tarifa pertenece a las tarifas vigentes.
func IsValidTaxSlab(rate decimal.Decimal) bool {
	for _, s := range TaxSlabs {
		if s.Equal(rate) {
			return true
		}
	}
	return false
}

// =============================================================================
// Unidades de cantidad (UQC) usadas en facturas y declaraciones GSTR-1
// =============================================================================

const (
	UnitNumbers  = "NOS" // Números
	UnitPieces   = "PCS" // Piezas
	UnitKilogram = "KGS" // Kilogramos
	UnitGram     = "GMS" // Gramos
	UnitLitre    = "LTR" // Litros
	UnitMetre    = "MTR" // Metros
	UnitBox      = "BOX" // Caja
	UnitDozen    = "DOZ" // Docena
	UnitSet      = "SET" // Juego
	UnitHours    = "HRS" // Horas (servicios)
	UnitOthers   = "OTH" // Otros
)

// ValidUnits unidades UQC aceptadas.
var ValidUnits = map[string]bool{
	UnitNumbers: true, UnitPieces: true, UnitKilogram: true, UnitGram: true,
	UnitLitre: true, UnitMetre: true, UnitBox: true, UnitDozen: true,
	UnitSet: true, UnitHours: true, UnitOthers: true,
}

// =============================================================================
// Tipos de documento para el IRN
// =============================================================================

const (
	DocTypeInvoice    = "INV" // Factura
	DocTypeCreditNote = "CRN" // Nota crédito
	DocTypeDebitNote  = "DBN" // Nota débito
)

// Medios de pago aceptados al registrar abonos.
const (
	PaymentCash   = "cash"
	PaymentUPI    = "upi"
	PaymentCard   = "card"
	PaymentBank   = "bank_transfer"
	PaymentCheque = "cheque"
	PaymentCredit = "credit"
)

// ValidPaymentMethods medios de pago aceptados.
var ValidPaymentMethods = map[string]bool{
	PaymentCash: true, PaymentUPI: true, PaymentCard: true,
	PaymentBank: true, PaymentCheque: true, PaymentCredit: true,
}
