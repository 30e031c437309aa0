package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfoliodash/internal/config"
	"portfoliodash/pkg/portfolio"
)

// runCLI executes the root command against a workbook in dir.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("PORTFOLIO_JOURNAL", "false")
	t.Cleanup(func() {
		config.SetRuntimeWorkbookPath("")
		config.SetRuntimeDataDir("")
	})

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--workbook", filepath.Join(dir, "portfolio.xlsx"), "--timezone", "UTC"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAddAndShow(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "add", "--instrument", "EDO0534", "--maturity", "2024-05-01")
	if err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	if !strings.Contains(out, "added holding #0") || !strings.Contains(out, "10500.00") {
		t.Fatalf("unexpected add output:\n%s", out)
	}

	out, err = runCLI(t, dir, "show", "--today", "2024-01-15", "--months", "6")
	if err != nil {
		t.Fatalf("show: %v\n%s", err, out)
	}
	for _, want := range []string{"SUMMARY", "CASH FLOW (6 MONTHS)", "EDO0534 (10500.00)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	holdings, err := portfolio.ReadWorkbook(filepath.Join(dir, "portfolio.xlsx"), "")
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if len(holdings) != 1 || holdings[0].FinalValue == nil {
		t.Fatalf("expected persisted final value, got %+v", holdings)
	}
}

func TestAddRejectsBadDate(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, dir, "add", "--instrument", "X", "--maturity", "someday"); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestImportAndForecast(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "holdings.yaml")
	content := `holdings:
  - asset_type: Lokata
    instrument: Lokata 3M
    currency: PLN
    invested: 1000
    interest_rate: 6
    maturity_date: 2024-03-10
  - asset_type: ETF
    instrument: VWCE
    currency: EUR
    invested: 2000
    current_value: 2100
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	out, err := runCLI(t, dir, "import", yamlPath)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "imported 2 holdings") {
		t.Fatalf("unexpected import output:\n%s", out)
	}

	out, err = runCLI(t, dir, "forecast", "--today", "2024-01-31", "--months", "2")
	if err != nil {
		t.Fatalf("forecast: %v\n%s", err, out)
	}
	for _, want := range []string{"2024-01", "2024-02", "2024-03", "Lokata 3M (1060.00)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "VWCE") {
		t.Fatalf("holding without maturity must not appear in forecast:\n%s", out)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, dir, "add", "--instrument", "A"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if out, err := runCLI(t, dir, "remove", "0"); err != nil || !strings.Contains(out, "removed holding #0") {
		t.Fatalf("remove: %v\n%s", err, out)
	}
	if _, err := runCLI(t, dir, "remove", "0"); !portfolio.IsErrorCode(err, portfolio.ErrCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
