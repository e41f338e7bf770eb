package gst

import (
	"fmt"
	"regexp"
	"strings"
)

// gstinCharset alfabeto base 36 usado por el dígito de control del GSTIN.
const gstinCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// gstinPattern: 2 dígitos de estado + PAN (5 letras, 4 dígitos, 1 letra) + número de entidad + 'Z' + control.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// NormalizeGSTIN elimina espacios y pasa a mayúsculas.
func NormalizeGSTIN(gstin string) string {
	return strings.ToUpper(strings.Join(strings.Fields(gstin), ""))
}

// ValidateGSTIN valida formato, código de estado y dígito de control (módulo 36).
// gstin puede venir en minúsculas o con espacios.
func ValidateGSTIN(gstin string) error {
	g := NormalizeGSTIN(gstin)
	if len(g) != 15 {
		return fmt.Errorf("gst: GSTIN debe tener 15 caracteres, se recibieron %d", len(g))
	}
	if !gstinPattern.MatchString(g) {
		return fmt.Errorf("gst: formato de GSTIN inválido: %s", g)
	}
	if _, ok := StateCodes[g[:2]]; !ok {
		return fmt.Errorf("gst: código de estado desconocido en GSTIN: %s", g[:2])
	}
	expected, err := ComputeGSTINChecksum(g[:14])
	if err != nil {
		return err
	}
	if g[14] != expected {
		return fmt.Errorf("gst: dígito de control del GSTIN inválido: esperado %c, recibido %c", expected, g[14])
	}
	return nil
}

// ComputeGSTINChecksum calcula el carácter de control para los 14 primeros caracteres.
// Los factores alternan 1 y 2 de izquierda a derecha; cada producto se reduce a cociente + resto base 36.
func ComputeGSTINChecksum(base string) (byte, error) {
	b := NormalizeGSTIN(base)
	if len(b) < 14 {
		return 0, fmt.Errorf("gst: se requieren 14 caracteres para el dígito de control, se encontraron %d", len(b))
	}
	var sum int
	for i := 0; i < 14; i++ {
		v := strings.IndexByte(gstinCharset, b[i])
		if v < 0 {
			return 0, fmt.Errorf("gst: carácter inválido en GSTIN: %q", b[i])
		}
		factor := 1
		if i%2 == 1 {
			factor = 2
		}
		p := v * factor
		sum += p/36 + p%36
	}
	return gstinCharset[(36-sum%36)%36], nil
}

// StateCodeFromGSTIN devuelve los dos primeros dígitos del GSTIN, o "" si no es válido.
func StateCodeFromGSTIN(gstin string) string {
	g := NormalizeGSTIN(gstin)
	if len(g) < 2 {
		return ""
	}
	if _, ok := StateCodes[g[:2]]; !ok {
		return ""
	}
	return g[:2]
}

// PANFromGSTIN extrae el PAN embebido (posiciones 3 a 12).
func PANFromGSTIN(gstin string) string {
	g := NormalizeGSTIN(gstin)
	if len(g) != 15 {
		return ""
	}
	return g[2:12]
}
