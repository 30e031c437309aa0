package portfolio

import (
	"github.com/Rhymond/go-money"
)

// FormatMoney renders a with the currency's grouping and symbol, e.g. the
// headline metrics of the summary.
func FormatMoney(a Amount, currency Currency) string {
	code := string(currency)
	if code == "" {
		code = string(CurrencyPLN)
	}
	cur := *money.New(0, code).Currency()
	minor := a.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// FormatOptionalMoney is FormatMoney for nullable amounts; nil renders as "".
func FormatOptionalMoney(a *Amount, currency Currency) string {
	if a == nil {
		return ""
	}
	return FormatMoney(*a, currency)
}
