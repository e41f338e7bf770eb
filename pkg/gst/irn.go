package gst

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// IRNParams datos para el Invoice Reference Number (esquema de e-factura).
type IRNParams struct {
	SupplierGSTIN string    // GSTIN del emisor
	DocType       string    // INV, CRN, DBN
	DocNumber     string    // número de factura tal como se imprime
	DocDate       time.Time // fecha del documento; define el año fiscal
}

// CalculateIRN genera el IRN: SHA-256 hexadecimal de GSTIN + AñoFiscal + TipoDoc + NúmeroDoc.
func CalculateIRN(p IRNParams) (string, error) {
	gstin := NormalizeGSTIN(p.SupplierGSTIN)
	if gstin == "" {
		return "", fmt.Errorf("gst: SupplierGSTIN es obligatorio para el IRN")
	}
	num := strings.Join(strings.Fields(p.DocNumber), "")
	if num == "" {
		return "", fmt.Errorf("gst: DocNumber es obligatorio para el IRN")
	}
	if p.DocDate.IsZero() {
		return "", fmt.Errorf("gst: DocDate es obligatorio para el IRN")
	}
	docType := p.DocType
	if docType == "" {
		docType = DocTypeInvoice
	}
	cadena := gstin + FinancialYear(p.DocDate) + docType + num
	hash := sha256.Sum256([]byte(cadena))
	return hex.EncodeToString(hash[:]), nil
}

// FinancialYear devuelve el año fiscal indio (abril a marzo) en formato "2025-26".
func FinancialYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
