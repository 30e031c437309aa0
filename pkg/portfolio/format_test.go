package portfolio

import (
	"strings"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	got := FormatMoney(NewAmount(10500), CurrencyUSD)
	if got != "$10,500.00" {
		t.Errorf("unexpected USD format %q", got)
	}

	pln := FormatMoney(NewAmount(1234.5), "")
	if !strings.Contains(pln, "234") || !strings.Contains(pln, "50") {
		t.Errorf("unexpected PLN format %q", pln)
	}

	if FormatOptionalMoney(nil, CurrencyPLN) != "" {
		t.Error("nil amount must render empty")
	}
}
