package portfolio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// setupTestStore opens a Store on a workbook inside a temp directory.
func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.xlsx")
	store, err := OpenWithOptions(Options{
		WorkbookPath: path,
		JournalPath:  filepath.Join(dir, "journal.db"),
	})
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store, path
}

// testBond returns a bond held at the given rate with no current or final value.
func testBond(name string, invested, rate float64, purchase, maturity Date) Holding {
	return Holding{
		AssetType:    AssetBond,
		Instrument:   name,
		Issuer:       "Skarb Państwa",
		Currency:     CurrencyPLN,
		Invested:     AmountPtr(invested),
		PurchaseDate: purchase,
		MaturityDate: maturity,
		InterestRate: AmountPtr(rate),
	}
}

func d(year, month, day int) Date {
	return NewDate(year, time.Month(month), day)
}

// assertAmountEquals compares an amount against its decimal string form.
func assertAmountEquals(t *testing.T, got *Amount, want string, msg string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: got nil, want %s", msg, want)
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: got %s, want %s", msg, got.String(), want)
	}
}

// assertNil fails the test if the amount is defined.
func assertNil(t *testing.T, got *Amount, msg string) {
	t.Helper()
	if got != nil {
		t.Errorf("%s: expected nil, got %s", msg, got.String())
	}
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}
