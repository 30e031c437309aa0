package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summarize computes portfolio totals. Undefined amounts are skipped; the
// final and profit totals stay nil when no row has a final value.
func Summarize(holdings []Holding) Summary {
	s := Summary{HoldingCount: len(holdings)}
	var final decimal.Decimal
	finalDefined := false
	for _, h := range holdings {
		if h.Invested != nil {
			s.TotalInvested = Amount{s.TotalInvested.Add(h.Invested.Decimal)}
		}
		if h.FinalValue != nil {
			final = final.Add(h.FinalValue.Decimal)
			finalDefined = true
		}
	}
	if finalDefined {
		s.TotalFinal = &Amount{final}
		s.TotalProfit = &Amount{final.Sub(s.TotalInvested.Decimal)}
	}
	return s
}

// AllocationByAssetType sums invested amounts per asset type. Only types
// present in the table appear; rows without an asset type are skipped.
func AllocationByAssetType(holdings []Holding) []AllocationEntry {
	sums := map[AssetType]decimal.Decimal{}
	var total decimal.Decimal
	for _, h := range holdings {
		if h.AssetType == "" {
			continue
		}
		v := sums[h.AssetType]
		if h.Invested != nil {
			v = v.Add(h.Invested.Decimal)
			total = total.Add(h.Invested.Decimal)
		}
		sums[h.AssetType] = v
	}

	entries := make([]AllocationEntry, 0, len(sums))
	for t, v := range sums {
		entry := AllocationEntry{AssetType: t, Amount: Amount{v}}
		if total.IsPositive() {
			pct, _ := v.Div(total).Mul(hundred).Float64()
			entry.Percent = round2(pct)
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AssetType < entries[j].AssetType
	})
	return entries
}

// ProfitRows projects the columns of the per-holding profit table.
func ProfitRows(holdings []Holding) []ProfitRow {
	rows := make([]ProfitRow, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, ProfitRow{
			Instrument:   h.Instrument,
			Invested:     cloneAmount(h.Invested),
			CurrentValue: cloneAmount(h.CurrentValue),
			FinalValue:   cloneAmount(h.FinalValue),
			ProfitLoss:   cloneAmount(h.ProfitLoss),
			MaturityDate: h.MaturityDate,
		})
	}
	return rows
}
