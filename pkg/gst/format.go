package gst

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	onesWords = [...]string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tensWords = [...]string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
)

// FormatINR formatea un monto con agrupación india (12,34,567.89), sin símbolo de moneda.
func FormatINR(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var grouped string
	if len(intPart) <= 3 {
		grouped = intPart
	} else {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		grouped = strings.Join(append(groups, tail), ",")
	}
	if neg {
		grouped = "-" + grouped
	}
	return grouped + "." + frac
}

// AmountInWords escribe el monto en palabras con el sistema indio (Thousand, Lakh, Crore).
// Ej: 123456.78 → "Rupees One Lakh Twenty Three Thousand Four Hundred Fifty Six and Seventy Eight Paise Only".
func AmountInWords(d decimal.Decimal) string {
	amt := d.Abs().Round(2)
	rupees := amt.Truncate(0)
	paise := amt.Sub(rupees).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	out := "Rupees " + spellNumber(rupees.IntPart())
	if paise > 0 {
		out += " and " + spellNumber(paise) + " Paise"
	}
	return out + " Only"
}

func spellNumber(n int64) string {
	if n == 0 {
		return "Zero"
	}
	var parts []string
	if crore := n / 10_000_000; crore > 0 {
		parts = append(parts, spellNumber(crore)+" Crore")
		n %= 10_000_000
	}
	if lakh := n / 100_000; lakh > 0 {
		parts = append(parts, spellBelowHundred(lakh)+" Lakh")
		n %= 100_000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, spellBelowHundred(thousand)+" Thousand")
		n %= 1000
	}
	if hundred := n / 100; hundred > 0 {
		parts = append(parts, onesWords[hundred]+" Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, spellBelowHundred(n))
	}
	return strings.Join(parts, " ")
}

func spellBelowHundred(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}
