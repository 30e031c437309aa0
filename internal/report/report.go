// Package report renders portfolio views as terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"portfoliodash/pkg/portfolio"
)

// Options tweak terminal output.
type Options struct {
	Color       bool
	MaxColWidth int
}

func newWriter(w io.Writer, opts Options) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.SeparateRows = false
	return tw
}

func rightAligned(numbers ...int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, 0, len(numbers))
	for _, n := range numbers {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	return cfgs
}

func amountText(a *portfolio.Amount) string {
	if a == nil {
		return "-"
	}
	return a.StringFixed(2)
}

func dateText(d portfolio.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func colorProfit(s string, a *portfolio.Amount, opts Options) string {
	if !opts.Color || a == nil {
		return s
	}
	switch a.Sign() {
	case -1:
		return text.Colors{text.FgRed}.Sprint(s)
	case 1:
		return text.Colors{text.FgGreen}.Sprint(s)
	}
	return s
}

// Holdings prints the full table.
func Holdings(w io.Writer, holdings []portfolio.Holding, opts Options) {
	tw := newWriter(w, opts)
	tw.AppendHeader(table.Row{"#", "Type", "Instrument", "Issuer", "Ccy", "Invested", "Purchase", "Maturity", "Rate %", "Current", "Final", "Profit"})
	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 32
	}
	cfgs := rightAligned(1, 6, 9, 10, 11, 12)
	cfgs = append(cfgs, table.ColumnConfig{Number: 3, WidthMax: maxWidth}, table.ColumnConfig{Number: 4, WidthMax: maxWidth})
	tw.SetColumnConfigs(cfgs)
	for i, h := range holdings {
		tw.AppendRow(table.Row{
			i,
			string(h.AssetType),
			h.Instrument,
			h.Issuer,
			string(h.Currency),
			amountText(h.Invested),
			dateText(h.PurchaseDate),
			dateText(h.MaturityDate),
			amountText(h.InterestRate),
			amountText(h.CurrentValue),
			amountText(h.FinalValue),
			colorProfit(amountText(h.ProfitLoss), h.ProfitLoss, opts),
		})
	}
	tw.Render()
}

// Summary prints the headline metrics.
func Summary(w io.Writer, s portfolio.Summary, opts Options) {
	tw := newWriter(w, opts)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.SetColumnConfigs(rightAligned(2))
	tw.AppendRow(table.Row{"Holdings", s.HoldingCount})
	tw.AppendRow(table.Row{"Total invested", portfolio.FormatMoney(s.TotalInvested, portfolio.CurrencyPLN)})
	tw.AppendRow(table.Row{"Total final value", portfolio.FormatOptionalMoney(s.TotalFinal, portfolio.CurrencyPLN)})
	tw.AppendRow(table.Row{"Total profit", colorProfit(portfolio.FormatOptionalMoney(s.TotalProfit, portfolio.CurrencyPLN), s.TotalProfit, opts)})
	tw.Render()
}

// Allocation prints invested amounts per asset type.
func Allocation(w io.Writer, entries []portfolio.AllocationEntry, opts Options) {
	tw := newWriter(w, opts)
	tw.AppendHeader(table.Row{"Asset type", "Invested", "Share"})
	tw.SetColumnConfigs(rightAligned(2, 3))
	for _, e := range entries {
		tw.AppendRow(table.Row{string(e.AssetType), e.Amount.StringFixed(2), fmt.Sprintf("%.1f%%", e.Percent)})
	}
	tw.Render()
}

// CashFlow prints the monthly forecast.
func CashFlow(w io.Writer, buckets []portfolio.CashFlowBucket, opts Options) {
	tw := newWriter(w, opts)
	tw.AppendHeader(table.Row{"Month", "Total", "Instruments"})
	tw.SetColumnConfigs(rightAligned(2))
	for _, b := range buckets {
		tw.AppendRow(table.Row{b.Month, b.Total.StringFixed(2), b.Listing()})
	}
	tw.Render()
}

// Profit prints the per-holding profit table.
func Profit(w io.Writer, rows []portfolio.ProfitRow, opts Options) {
	tw := newWriter(w, opts)
	tw.AppendHeader(table.Row{"Instrument", "Invested", "Current", "Final", "Profit", "Maturity"})
	tw.SetColumnConfigs(rightAligned(2, 3, 4, 5))
	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.Instrument,
			amountText(r.Invested),
			amountText(r.CurrentValue),
			amountText(r.FinalValue),
			colorProfit(amountText(r.ProfitLoss), r.ProfitLoss, opts),
			dateText(r.MaturityDate),
		})
	}
	tw.Render()
}

// Dashboard prints every section of a render cycle.
func Dashboard(w io.Writer, d portfolio.Dashboard, opts Options) {
	section(w, fmt.Sprintf("PORTFOLIO (%s)", d.Today), opts)
	Holdings(w, d.Holdings, opts)
	fmt.Fprintln(w)
	section(w, "SUMMARY", opts)
	Summary(w, d.Summary, opts)
	fmt.Fprintln(w)
	section(w, "ALLOCATION", opts)
	Allocation(w, d.Allocation, opts)
	fmt.Fprintln(w)
	section(w, fmt.Sprintf("CASH FLOW (%d MONTHS)", d.Months), opts)
	CashFlow(w, d.CashFlow, opts)
	fmt.Fprintln(w)
	section(w, "PROFIT", opts)
	Profit(w, d.Profit, opts)
}

func section(w io.Writer, title string, opts Options) {
	title = strings.ToUpper(title)
	if opts.Color {
		title = text.Bold.Sprint(title)
	}
	fmt.Fprintln(w, title)
}
