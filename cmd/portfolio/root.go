package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"portfoliodash/internal/config"
	"portfoliodash/internal/logging"
	"portfoliodash/internal/report"
	"portfoliodash/pkg/portfolio"
)

// app carries state shared by subcommands for one invocation.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("PORTFOLIO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Track bonds, deposits and ETFs kept in a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("workbook", "", "workbook file (env PORTFOLIO_WORKBOOK_PATH)")
	flags.String("data-dir", "", "directory for the workbook and journal (env PORTFOLIO_DATA_DIR)")
	flags.String("sheet", "", "worksheet name")
	flags.String("timezone", "", "IANA timezone deciding today's date (env PORTFOLIO_TIMEZONE)")
	flags.String("env-file", ".env", "optional KEY=VALUE file loaded before reading the environment")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.Bool("color", false, "colorize tables")
	_ = a.v.BindPFlags(flags)
	_ = a.v.BindEnv("workbook", "PORTFOLIO_WORKBOOK_PATH")

	rootCmd.AddCommand(
		newShowCmd(a),
		newForecastCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newImportCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	if _, err := config.LoadEnvFile(a.v.GetString("env-file")); err != nil {
		return err
	}
	if dir := a.v.GetString("data-dir"); dir != "" {
		config.SetRuntimeDataDir(dir)
	}
	if wb := a.v.GetString("workbook"); wb != "" {
		config.SetRuntimeWorkbookPath(wb)
	}
	level := logging.ParseLevel(a.v.GetString("log-level"), slog.LevelWarn)
	a.logger = logging.NewConsoleLogger(cmd.ErrOrStderr(), level)
	return nil
}

func (a *app) openStore() (*portfolio.Store, error) {
	workbookPath, err := config.GetWorkbookPath()
	if err != nil {
		return nil, fmt.Errorf("resolve workbook path: %w", err)
	}
	journalPath, err := config.GetJournalPath()
	if err != nil {
		return nil, fmt.Errorf("resolve journal path: %w", err)
	}
	sheet := a.v.GetString("sheet")
	if sheet == "" {
		sheet = config.GetSheetName()
	}
	tz := a.v.GetString("timezone")
	if tz == "" {
		tz = config.GetTimezone()
	}
	return portfolio.OpenWithOptions(portfolio.Options{
		WorkbookPath:  workbookPath,
		SheetName:     sheet,
		JournalPath:   journalPath,
		Logger:        a.logger,
		Location:      portfolio.LoadLocation(tz),
		HorizonMonths: config.GetHorizonMonths(),
	})
}

func (a *app) reportOptions() report.Options {
	return report.Options{Color: a.v.GetBool("color")}
}

// dashboardRequest reads --today and --months. Empty values fall back to
// the store defaults.
func dashboardRequest(cmd *cobra.Command) (portfolio.DashboardRequest, error) {
	var req portfolio.DashboardRequest
	today, _ := cmd.Flags().GetString("today")
	if strings.TrimSpace(today) != "" {
		req.Today = portfolio.ParseDate(today)
		if req.Today.IsZero() {
			return req, fmt.Errorf("invalid --today %q", today)
		}
	}
	req.Months, _ = cmd.Flags().GetInt("months")
	return req, nil
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().String("today", "", "reference date YYYY-MM-DD (default: today)")
	cmd.Flags().Int("months", 0, "forecast horizon in months (default: configured horizon)")
}
