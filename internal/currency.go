package internal

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats report amounts for a currency
type Currency struct {
	Code    string // "GBP", "USD", "EUR"
	unit    currency.Unit
	tag     language.Tag
	printer *message.Printer
	symbol  string
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// defaultLocaleForCurrency gives each currency a "home" locale for number formatting
var defaultLocaleForCurrency = map[string]language.Tag{
	"GBP": language.BritishEnglish,
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"SEK": language.Swedish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"NZD": language.MustParse("en-NZ"),
	"INR": language.MustParse("en-IN"),
	"PLN": language.Polish,
}

// GetCurrency returns the Currency for a given code. Unknown codes format
// with English number rules and the code as the symbol.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(code)

	unit, err := currency.ParseISO(code)
	isUnknown := err != nil
	if isUnknown {
		unit = currency.USD // fallback unit for number formatting only
	}

	tag, ok := defaultLocaleForCurrency[code]
	if !ok {
		tag = language.English
	}

	c := Currency{
		Code:    code,
		unit:    unit,
		tag:     tag,
		printer: message.NewPrinter(tag),
	}

	switch {
	case isUnknown:
		c.symbol = code
	case symbolOverrides[code] != "":
		c.symbol = symbolOverrides[code]
	default:
		c.symbol = c.printer.Sprint(currency.NarrowSymbol(c.unit))
	}
	return c
}

// isPrefix returns true if this currency symbol should be placed before the amount.
// x/text does not expose CLDR symbol placement, so prefix currencies are listed here.
func (c Currency) isPrefix() bool {
	switch c.Code {
	case "USD", "GBP", "JPY", "CAD", "AUD", "NZD", "INR":
		return true
	default:
		return false
	}
}

// Format formats an amount with two fraction digits and the currency symbol.
// Negative amounts get a leading minus: -£12.50, -12,50 €.
func (c Currency) Format(amount Amount) string {
	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
		amount = ZeroAmount.Sub(amount)
	}
	formatted := c.printer.Sprint(number.Decimal(amount.Float64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))

	if c.isPrefix() {
		return sign + c.symbol + formatted
	}
	return sign + formatted + " " + c.symbol
}
