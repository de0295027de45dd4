// internal/domain/numeric/locale.go
package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// French-formatted numbers use a comma as decimal separator and a
// non-breaking space as thousands separator. User input may carry plain
// spaces or the narrow variant, all of which are stripped before parsing.
const groupSeparator = " "

var spaceReplacer = strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "")

// Parse reads a French-formatted numeral. Empty or malformed input returns an
// error; callers treat that as "leave the dependent field unchanged".
func Parse(raw string) (decimal.Decimal, error) {
	cleaned := Normalize(raw)
	return decimal.NewFromString(cleaned)
}

// Normalize strips display formatting back to a plain dot-decimal numeral, the
// canonical form the server expects on submission.
func Normalize(raw string) string {
	return strings.ReplaceAll(spaceReplacer.Replace(raw), ",", ".")
}

// FormatMontant renders a currency value with exactly two fraction digits.
func FormatMontant(d decimal.Decimal) string {
	return formatFrench(d, 2)
}

// FormatTaux renders a percentage with exactly three fraction digits.
func FormatTaux(d decimal.Decimal) string {
	return formatFrench(d, 3)
}

func formatFrench(d decimal.Decimal, scale int32) string {
	fixed := d.StringFixed(scale)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed
	fracPart := ""
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart, fracPart = fixed[:dot], fixed[dot+1:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteRune(digit)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}
