package portfolio

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ResolveFinalValue returns the exit value of h: the explicit final value,
// else the current value, else invested × (1 + rate/100). It returns nil
// when none of these can be determined.
func ResolveFinalValue(h Holding) *Amount {
	switch {
	case h.FinalValue != nil:
		return cloneAmount(h.FinalValue)
	case h.CurrentValue != nil:
		return cloneAmount(h.CurrentValue)
	case h.Invested != nil && h.InterestRate != nil:
		growth := decimal.NewFromInt(1).Add(h.InterestRate.Div(hundred))
		return &Amount{h.Invested.Mul(growth)}
	}
	return nil
}

// ProfitLoss returns final − invested rounded to two decimals, or nil if
// either side is undefined.
func ProfitLoss(final, invested *Amount) *Amount {
	if final == nil || invested == nil {
		return nil
	}
	return &Amount{final.Sub(invested.Decimal).Round(2)}
}

// Valuate returns a copy of h with the derived columns filled in.
func Valuate(h Holding) Holding {
	out := h.clone()
	out.FinalValue = ResolveFinalValue(h)
	out.ProfitLoss = ProfitLoss(out.FinalValue, out.Invested)
	return out
}

// ValuateAll valuates every row independently.
func ValuateAll(holdings []Holding) []Holding {
	out := make([]Holding, len(holdings))
	for i, h := range holdings {
		out[i] = Valuate(h)
	}
	return out
}
