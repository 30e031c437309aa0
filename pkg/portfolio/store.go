package portfolio

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Options controls Store initialization.
type Options struct {
	WorkbookPath     string
	SheetName        string
	JournalPath      string
	Logger           *slog.Logger
	Location         *time.Location
	HorizonMonths    int
	ForecastCacheTTL time.Duration
}

// Store owns the in-memory portfolio table for one session and mirrors it
// to the workbook after every change.
type Store struct {
	mu         sync.Mutex
	opts       Options
	holdings   []Holding
	path       string
	sheet      string
	journal    *journal
	forecaster *Forecaster
	logger     *slog.Logger
	location   *time.Location
	horizon    int
}

// Open initializes a Store backed by the workbook at path.
func Open(workbookPath string) (*Store, error) {
	return OpenWithOptions(Options{WorkbookPath: workbookPath})
}

// OpenWithOptions loads the workbook if it exists, otherwise starts with an
// empty table. A workbook that cannot be parsed fails the open.
func OpenWithOptions(opts Options) (*Store, error) {
	if opts.WorkbookPath == "" {
		return nil, errors.New("workbook path is required")
	}
	cleanPath := filepath.Clean(opts.WorkbookPath)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create workbook dir: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	location := opts.Location
	if location == nil {
		location = LoadLocation(DefaultTimezone)
	}
	sheet := opts.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	horizon := opts.HorizonMonths
	if horizon <= 0 {
		horizon = DefaultHorizonMonths
	}

	holdings := []Holding{}
	if _, err := os.Stat(cleanPath); err == nil {
		loaded, err := ReadWorkbook(cleanPath, sheet)
		if err != nil {
			return nil, fmt.Errorf("load workbook: %w", err)
		}
		holdings = ValuateAll(loaded)
		logger.Info("workbook loaded", "path", cleanPath, "rows", len(holdings))
	} else if !os.IsNotExist(err) {
		return nil, WrapError(ErrCodeStorage, "stat workbook", err)
	} else {
		logger.Info("workbook not found; starting empty", "path", cleanPath)
	}

	opts.WorkbookPath = cleanPath
	opts.SheetName = sheet
	opts.HorizonMonths = horizon
	opts.Logger = logger
	opts.Location = location

	s := &Store{
		opts:       opts,
		holdings:   holdings,
		path:       cleanPath,
		sheet:      sheet,
		forecaster: NewForecaster(opts.ForecastCacheTTL),
		logger:     logger,
		location:   location,
		horizon:    horizon,
	}
	if opts.JournalPath != "" {
		j, err := openJournal(opts.JournalPath, logger)
		if err != nil {
			return nil, err
		}
		s.journal = j
	}
	return s, nil
}

// Close releases journal resources. The workbook needs no closing.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.journal.close()
}

// Reopen opens another workbook with the same sheet, journal, timezone and
// horizon settings. The receiver is left open.
func (s *Store) Reopen(workbookPath string) (*Store, error) {
	opts := s.opts
	opts.WorkbookPath = workbookPath
	return OpenWithOptions(opts)
}

// Logger returns the store's logger.
func (s *Store) Logger() *slog.Logger { return s.logger }

// Location returns the timezone used for "today".
func (s *Store) Location() *time.Location { return s.location }

// WorkbookPath returns the backing workbook path.
func (s *Store) WorkbookPath() string { return s.path }

// SheetName returns the worksheet the table is written to.
func (s *Store) SheetName() string { return s.sheet }

// HorizonMonths returns the default forecast horizon.
func (s *Store) HorizonMonths() int { return s.horizon }

// Today returns the current day in the store's timezone.
func (s *Store) Today() Date { return TodayIn(s.location) }

// Holdings returns a copy of the current table.
func (s *Store) Holdings() []Holding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneHoldings(s.holdings)
}

// Len returns the number of rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.holdings)
}

// AddHolding appends h and persists the table. It returns the new row index.
func (s *Store) AddHolding(h Holding) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := normalizeHolding(h)
	next := append(cloneHoldings(s.holdings), row)
	if err := s.commit(next); err != nil {
		return 0, err
	}
	index := len(next) - 1
	s.record(OpAdd, intPtr(index), row, "")
	s.logger.Info("holding added", "index", index, "instrument", row.Instrument, "asset_type", row.AssetType)
	return index, nil
}

// AddHoldings appends several rows in one write.
func (s *Store) AddHoldings(items []Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneHoldings(s.holdings)
	for _, h := range items {
		next = append(next, normalizeHolding(h))
	}
	if err := s.commit(next); err != nil {
		return err
	}
	s.record(OpImport, nil, Holding{}, fmt.Sprintf("%d rows", len(items)))
	s.logger.Info("holdings imported", "count", len(items))
	return nil
}

// UpdateHolding replaces the row at index.
func (s *Store) UpdateHolding(index int, h Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.holdings) {
		return NewError(ErrCodeNotFound, fmt.Sprintf("holding %d not found", index))
	}
	row := normalizeHolding(h)
	next := cloneHoldings(s.holdings)
	next[index] = row
	if err := s.commit(next); err != nil {
		return err
	}
	s.record(OpUpdate, intPtr(index), row, "")
	s.logger.Info("holding updated", "index", index, "instrument", row.Instrument)
	return nil
}

// DeleteHolding removes the row at index; later rows shift up.
func (s *Store) DeleteHolding(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.holdings) {
		return NewError(ErrCodeNotFound, fmt.Sprintf("holding %d not found", index))
	}
	removed := s.holdings[index]
	next := make([]Holding, 0, len(s.holdings)-1)
	next = append(next, cloneHoldings(s.holdings[:index])...)
	next = append(next, cloneHoldings(s.holdings[index+1:])...)
	if err := s.commit(next); err != nil {
		return err
	}
	s.record(OpDelete, intPtr(index), removed, "")
	s.logger.Info("holding deleted", "index", index, "instrument", removed.Instrument)
	return nil
}

// ReplaceHoldings swaps in a whole edited table, as emitted by a grid editor.
func (s *Store) ReplaceHoldings(items []Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Holding, len(items))
	for i, h := range items {
		next[i] = normalizeHolding(h)
	}
	if err := s.commit(next); err != nil {
		return err
	}
	s.record(OpReplace, nil, Holding{}, fmt.Sprintf("%d rows", len(next)))
	s.logger.Info("table replaced", "rows", len(next))
	return nil
}

// Flush rewrites the workbook with the current table.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.holdings)
}

// Dashboard runs one render cycle: re-valuate every row, compute totals,
// allocation, forecast and profit table, then persist the table.
func (s *Store) Dashboard(req DashboardRequest) (Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := req.Today
	if today.IsZero() {
		today = s.Today()
	}
	months := req.Months
	if months <= 0 {
		months = s.horizon
	}

	s.holdings = ValuateAll(s.holdings)
	d := Dashboard{
		Today:      today,
		Months:     months,
		Holdings:   cloneHoldings(s.holdings),
		Summary:    Summarize(s.holdings),
		Allocation: AllocationByAssetType(s.holdings),
		CashFlow:   s.forecaster.Forecast(s.holdings, today, months),
		Profit:     ProfitRows(s.holdings),
	}
	if err := s.write(s.holdings); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// Summary returns portfolio totals.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.holdings)
}

// Allocation returns invested amounts grouped by asset type.
func (s *Store) Allocation() []AllocationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocationByAssetType(s.holdings)
}

// CashFlow returns the memoized forecast. Zero values select defaults.
func (s *Store) CashFlow(today Date, months int) []CashFlowBucket {
	if today.IsZero() {
		today = s.Today()
	}
	if months <= 0 {
		months = s.horizon
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forecaster.Forecast(s.holdings, today, months)
}

// ProfitTable returns the per-holding profit rows.
func (s *Store) ProfitTable() []ProfitRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ProfitRows(s.holdings)
}

// WorkbookBytes encodes the current table as an .xlsx document.
func (s *Store) WorkbookBytes() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EncodeWorkbook(s.sheet, s.holdings)
}

// OperationLogs returns recent journal entries, newest first. It returns an
// empty list when the journal is disabled.
func (s *Store) OperationLogs(limit, offset int) ([]OperationLog, error) {
	if s.journal == nil {
		return []OperationLog{}, nil
	}
	return s.journal.list(limit, offset)
}

// commit persists next and makes it the current table. On a failed write
// the in-memory table is left untouched.
func (s *Store) commit(next []Holding) error {
	if err := s.write(next); err != nil {
		return err
	}
	s.holdings = next
	return nil
}

func (s *Store) write(items []Holding) error {
	if err := WriteWorkbook(s.path, s.sheet, items); err != nil {
		s.logger.Error("workbook write failed", "path", s.path, "err", err)
		return err
	}
	s.logger.Debug("workbook written", "path", s.path, "rows", len(items))
	return nil
}

func (s *Store) record(op string, index *int, h Holding, details string) {
	if s.journal == nil {
		return
	}
	entry := OperationLog{
		Operation:  op,
		RowIndex:   index,
		Instrument: stringPtr(h.Instrument),
		Invested:   h.Invested,
		FinalValue: h.FinalValue,
		Details:    stringPtr(details),
	}
	if _, err := s.journal.record(entry); err != nil {
		s.logger.Warn("journal write failed", "operation", op, "err", err)
	}
}

// normalizeHolding canonicalizes enum text and recomputes derived columns.
func normalizeHolding(h Holding) Holding {
	h.AssetType = ParseAssetType(string(h.AssetType))
	h.Currency = ParseCurrency(string(h.Currency))
	return Valuate(h)
}
