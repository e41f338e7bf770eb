package gst_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/pkg/gst"
)

// ──────────────────────────────────────────────────────────────────────────────
// GSTIN
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateGSTIN_Validos(t *testing.T) {
	for _, g := range []string{"27AAPFU0939F1ZV", "29AAGCB7383J1Z4", "24aacca1206d1zm", " 27AAPFU0939F1ZV "} {
		assert.NoError(t, gst.ValidateGSTIN(g), g)
	}
}

func TestValidateGSTIN_DigitoControlIncorrecto(t *testing.T) {
	err := gst.ValidateGSTIN("07AAACH7409R1ZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "esperado 3")
}

func TestValidateGSTIN_FormatoYEstado(t *testing.T) {
	assert.Error(t, gst.ValidateGSTIN("27AAPFU0939F1Z"), "longitud corta")
	assert.Error(t, gst.ValidateGSTIN("27AAPFU0939F1XV"), "sin Z en posición 14")
	assert.Error(t, gst.ValidateGSTIN("99AAPFU0939F1ZV"), "estado inexistente")
}

func TestComputeGSTINChecksum(t *testing.T) {
	c, err := gst.ComputeGSTINChecksum("07AAACH7409R1Z")
	require.NoError(t, err)
	assert.Equal(t, byte('3'), c)
}

func TestStateCodeAndPANFromGSTIN(t *testing.T) {
	assert.Equal(t, "27", gst.StateCodeFromGSTIN("27AAPFU0939F1ZV"))
	assert.Equal(t, "", gst.StateCodeFromGSTIN("99AAPFU0939F1ZV"))
	assert.Equal(t, "AAPFU0939F", gst.PANFromGSTIN("27AAPFU0939F1ZV"))
	assert.Equal(t, "Maharashtra", gst.StateName("27"))
	assert.Equal(t, "29", gst.StateCodeByName("karnataka"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Otros identificadores
// ──────────────────────────────────────────────────────────────────────────────

func TestIdentifiers(t *testing.T) {
	assert.NoError(t, gst.ValidatePAN("AAPFU0939F"))
	assert.Error(t, gst.ValidatePAN("AAPF0939F"))

	assert.NoError(t, gst.ValidateIFSC("HDFC0001234"))
	assert.Error(t, gst.ValidateIFSC("HDFC1001234"))

	assert.NoError(t, gst.ValidateHSN("8471"))
	assert.NoError(t, gst.ValidateHSN("847130"))
	assert.Error(t, gst.ValidateHSN("84713"))
	assert.Error(t, gst.ValidateHSN("84A1"))

	assert.NoError(t, gst.ValidatePincode("400001"))
	assert.Error(t, gst.ValidatePincode("040001"))

	assert.NoError(t, gst.ValidatePhone("98765 43210"))
	assert.NoError(t, gst.ValidatePhone("+91 98765-43210"))
	assert.NoError(t, gst.ValidatePhone("02212345678"))
	assert.Error(t, gst.ValidatePhone("12345"))
	assert.Equal(t, "9876543210", gst.NormalizePhone("+91-98765-43210"))
}

func TestIsValidTaxSlab(t *testing.T) {
	assert.True(t, gst.IsValidTaxSlab(decimal.NewFromInt(18)))
	assert.True(t, gst.IsValidTaxSlab(decimal.RequireFromString("0.25")))
	assert.False(t, gst.IsValidTaxSlab(decimal.NewFromInt(19)))
}

// ──────────────────────────────────────────────────────────────────────────────
// IRN: vector calculado con SHA-256 sobre
// "27AAPFU0939F1ZV" + "2025-26" + "INV" + "INV-2025-0001"
// ──────────────────────────────────────────────────────────────────────────────

const testIRNExpected = "94ce4467a2adf74f8edf1308e79037a7f1d10456f7705768525d9932661cea34"

func TestCalculateIRN_VectorExacto(t *testing.T) {
	irn, err := gst.CalculateIRN(gst.IRNParams{
		SupplierGSTIN: "27AAPFU0939F1ZV",
		DocType:       gst.DocTypeInvoice,
		DocNumber:     "INV-2025-0001",
		DocDate:       time.Date(2025, time.October, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, testIRNExpected, irn)
}

func TestCalculateIRN_NumeroDistinto(t *testing.T) {
	p := gst.IRNParams{
		SupplierGSTIN: "27AAPFU0939F1ZV",
		DocNumber:     "INV-2025-0002",
		DocDate:       time.Date(2025, time.October, 3, 0, 0, 0, 0, time.UTC),
	}
	irn, err := gst.CalculateIRN(p)
	require.NoError(t, err)
	assert.NotEqual(t, testIRNExpected, irn)
}

func TestCalculateIRN_CamposObligatorios(t *testing.T) {
	_, err := gst.CalculateIRN(gst.IRNParams{DocNumber: "1", DocDate: time.Now()})
	assert.Error(t, err)
	_, err = gst.CalculateIRN(gst.IRNParams{SupplierGSTIN: "27AAPFU0939F1ZV", DocDate: time.Now()})
	assert.Error(t, err)
}

func TestFinancialYear(t *testing.T) {
	assert.Equal(t, "2025-26", gst.FinancialYear(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-25", gst.FinancialYear(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1999-00", gst.FinancialYear(time.Date(1999, time.December, 1, 0, 0, 0, 0, time.UTC)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Formato de montos
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatINR(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"999":        "999.00",
		"1000":       "1,000.00",
		"123456.789": "1,23,456.79",
		"12345678.5": "1,23,45,678.50",
		"-150000":    "-1,50,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, gst.FormatINR(decimal.RequireFromString(in)), in)
	}
}

func TestAmountInWords(t *testing.T) {
	cases := map[string]string{
		"0":         "Rupees Zero Only",
		"1":         "Rupees One Only",
		"1050.50":   "Rupees One Thousand Fifty and Fifty Paise Only",
		"123456.78": "Rupees One Lakh Twenty Three Thousand Four Hundred Fifty Six and Seventy Eight Paise Only",
		"10000000":  "Rupees One Crore Only",
		"2500019":   "Rupees Twenty Five Lakh Nineteen Only",
	}
	for in, want := range cases {
		assert.Equal(t, want, gst.AmountInWords(decimal.RequireFromString(in)), in)
	}
}
