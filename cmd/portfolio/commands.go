package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"portfoliodash/internal/report"
	"portfoliodash/pkg/portfolio"
)

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Revalue every holding, print the dashboard and save the workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := dashboardRequest(cmd)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := store.Dashboard(req)
			if err != nil {
				return err
			}
			report.Dashboard(cmd.OutOrStdout(), d, a.reportOptions())
			return nil
		},
	}
	addViewFlags(cmd)
	return cmd
}

func newForecastCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print expected cash per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := dashboardRequest(cmd)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			report.CashFlow(cmd.OutOrStdout(), store.CashFlow(req.Today, req.Months), a.reportOptions())
			return nil
		},
	}
	addViewFlags(cmd)
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a holding; omitted fields take the form defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			input, err := holdingInputFromFlags(cmd, portfolio.DefaultHoldingInput(store.Today()))
			if err != nil {
				return err
			}
			index, err := store.AddHolding(input.Holding())
			if err != nil {
				return err
			}
			holdings := store.Holdings()
			fmt.Fprintf(cmd.OutOrStdout(), "added holding #%d\n", index)
			report.Holdings(cmd.OutOrStdout(), holdings[index:index+1], a.reportOptions())
			return nil
		},
	}
	f := cmd.Flags()
	f.String("type", string(portfolio.AssetBond), "asset type: Bond, Deposit, ETF")
	f.String("instrument", "", "instrument name")
	f.String("issuer", "", "issuer")
	f.String("currency", string(portfolio.CurrencyPLN), "currency: PLN, EUR, USD")
	f.Float64("invested", 10000, "invested amount in PLN")
	f.Float64("rate", 5, "annual interest rate in percent")
	f.Float64("current", 0, "current value (0 = not known)")
	f.String("purchase", "", "purchase date YYYY-MM-DD (default: today)")
	f.String("maturity", "", "maturity or sale date YYYY-MM-DD (default: today)")
	f.String("valuation", "", "valuation date YYYY-MM-DD (default: today)")
	return cmd
}

func holdingInputFromFlags(cmd *cobra.Command, in portfolio.HoldingInput) (portfolio.HoldingInput, error) {
	f := cmd.Flags()
	in.AssetType, _ = f.GetString("type")
	in.Instrument, _ = f.GetString("instrument")
	in.Issuer, _ = f.GetString("issuer")
	in.Currency, _ = f.GetString("currency")
	in.Invested, _ = f.GetFloat64("invested")
	in.InterestRate, _ = f.GetFloat64("rate")
	in.CurrentValue, _ = f.GetFloat64("current")

	dates := []struct {
		flag string
		dst  *portfolio.Date
	}{
		{"purchase", &in.PurchaseDate},
		{"maturity", &in.MaturityDate},
		{"valuation", &in.ValuationDate},
	}
	for _, d := range dates {
		if !f.Changed(d.flag) {
			continue
		}
		raw, _ := f.GetString(d.flag)
		parsed := portfolio.ParseDate(raw)
		if parsed.IsZero() && raw != "" {
			return in, fmt.Errorf("invalid --%s %q", d.flag, raw)
		}
		*d.dst = parsed
	}
	return in, nil
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Delete the holding at a row index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteHolding(index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed holding #%d\n", index)
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Append holdings listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open %s: %w", filename, err)
			}
			defer f.Close()

			holdings, err := portfolio.DecodeHoldingsYAML(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.AddHoldings(holdings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d holdings into %s\n", len(holdings), store.WorkbookPath())
			return nil
		},
	}
}
