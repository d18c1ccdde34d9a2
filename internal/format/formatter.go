// Package format turns raw listing values into display strings.
package format

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown for detail values a listing does not carry.
const Placeholder = "—"

// DefaultLocale is the locale listings are priced in.
const DefaultLocale = "es-CL"

const (
	currencySymbol    = "$"
	fallbackSeparator = "."
)

// Formatter renders amounts in one locale. A Formatter without a localize
// step only uses manual digit grouping.
type Formatter struct {
	localize func(n uint64) string
	symbol   string
}

// New returns a formatter for locale. An empty or unparseable locale yields
// a formatter that always takes the manual grouping path.
func New(locale string) *Formatter {
	f := &Formatter{symbol: currencySymbol}
	if locale == "" {
		return f
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return f
	}
	printer := message.NewPrinter(tag)
	f.localize = func(n uint64) string {
		return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(0)))
	}
	return f
}

// Plain returns a formatter with locale formatting disabled.
func Plain() *Formatter {
	return New("")
}

// Currency renders amount with no fraction digits, e.g. "$100.000.000".
func (f *Formatter) Currency(amount int64) string {
	if f.localize != nil {
		if digits, ok := f.localized(abs(amount)); ok {
			return sign(amount) + f.symbol + digits
		}
	}
	return sign(amount) + f.symbol + group(abs(amount))
}

// localized reports false when the locale output holds anything besides
// digits and grouping marks.
func (f *Formatter) localized(n uint64) (string, bool) {
	s := f.localize(n)
	if s == "" {
		return "", false
	}
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case isGroupMark(r):
		default:
			return "", false
		}
	}
	return s, hasDigit
}

func isGroupMark(r rune) bool {
	switch r {
	case '.', ',', '\'', '\u2019', '\u00a0', '\u202f':
		return true
	}
	return unicode.IsSpace(r)
}

// group inserts the fallback separator every three digits from the right.
func group(n uint64) string {
	digits := strconv.FormatUint(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(fallbackSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func abs(n int64) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}
	return uint64(n)
}

func sign(n int64) string {
	if n < 0 {
		return "-"
	}
	return ""
}

var std = New(DefaultLocale)

// Currency formats amount with the default locale.
func Currency(amount int64) string {
	return std.Currency(amount)
}
