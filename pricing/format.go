package pricing

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Locale selects separators and the message catalog.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleES Locale = "es"
)

const currencySymbol = "US$"

// ParseLocale maps a language tag such as "es-AR" to a supported locale, defaulting
// to English.
func ParseLocale(tag string) Locale {
	if strings.HasPrefix(strings.ToLower(tag), string(LocaleES)) {
		return LocaleES
	}
	return LocaleEN
}

func (l Locale) moneyPattern() string {
	if l == LocaleES {
		return "#.###,##"
	}
	return "#,###.##"
}

func (l Locale) unitsPattern() string {
	if l == LocaleES {
		return "#.###,"
	}
	return "#,###."
}

// FormatNumber renders an amount with exactly two decimals and the locale separators.
func FormatNumber(locale Locale, amount decimal.Decimal) string {
	return humanize.FormatFloat(locale.moneyPattern(), amount.Round(2).InexactFloat64())
}

// FormatMoney renders "US$ 1,234.50".
func FormatMoney(locale Locale, amount decimal.Decimal) string {
	return currencySymbol + " " + FormatNumber(locale, amount)
}

// FormatDiscount renders a deducted amount as "-US$ 50.00". The sign belongs to the
// line, the amount itself is expected to be positive.
func FormatDiscount(locale Locale, amount decimal.Decimal) string {
	return "-" + FormatMoney(locale, amount.Abs())
}

// FormatUnits renders a quantity with thousands separators: 10000 -> "10,000".
func FormatUnits(locale Locale, units int) string {
	return humanize.FormatInteger(locale.unitsPattern(), units)
}

// FormatPercentage renders 12.5 as "12.5%".
func FormatPercentage(percentage decimal.Decimal) string {
	return percentage.String() + "%"
}
