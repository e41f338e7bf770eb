package gst

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	mobilePattern  = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	// Fijo con prefijo STD: 0 + 2..4 dígitos de área + número, total 11 dígitos.
	landlinePattern = regexp.MustCompile(`^0[1-9][0-9]{9}$`)
)

// ValidatePAN valida el Permanent Account Number (AAAAA9999A).
func ValidatePAN(pan string) error {
	p := normalizeUpper(pan)
	if !panPattern.MatchString(p) {
		return fmt.Errorf("gst: PAN inválido: %s", pan)
	}
	return nil
}

// ValidateIFSC valida el código IFSC de la sucursal bancaria (4 letras + 0 + 6 alfanuméricos).
func ValidateIFSC(ifsc string) error {
	if !ifscPattern.MatchString(normalizeUpper(ifsc)) {
		return fmt.Errorf("gst: IFSC inválido: %s", ifsc)
	}
	return nil
}

// ValidateHSN valida un código HSN/SAC de 4, 6 u 8 dígitos.
func ValidateHSN(code string) error {
	d := strings.TrimSpace(code)
	if len(d) != 4 && len(d) != 6 && len(d) != 8 {
		return fmt.Errorf("gst: HSN/SAC debe tener 4, 6 u 8 dígitos, se recibieron %d", len(d))
	}
	for _, r := range d {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("gst: HSN/SAC solo admite dígitos: %s", code)
		}
	}
	return nil
}

// ValidatePincode valida el PIN postal de 6 dígitos.
func ValidatePincode(pin string) error {
	if !pincodePattern.MatchString(strings.TrimSpace(pin)) {
		return fmt.Errorf("gst: PIN inválido: %s", pin)
	}
	return nil
}

// NormalizePhone deja solo dígitos y quita el prefijo de país 91 de un móvil de 12 dígitos.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) == 12 && strings.HasPrefix(d, "91") {
		d = d[2:]
	}
	return d
}

// ValidatePhone acepta móviles de 10 dígitos (6-9 inicial) o fijos con prefijo STD.
func ValidatePhone(phone string) error {
	d := NormalizePhone(phone)
	if mobilePattern.MatchString(d) || landlinePattern.MatchString(d) {
		return nil
	}
	return fmt.Errorf("gst: teléfono inválido: %s", phone)
}

func normalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
