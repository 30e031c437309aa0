package mobile

import (
	"encoding/json"
	"fmt"
	"strings"

	"portfoliodash/pkg/portfolio"
)

// Portfolio wraps the portfolio store for gomobile bindings. Every method
// takes and returns plain strings and numbers.
type Portfolio struct {
	store *portfolio.Store
}

// Open loads the workbook at workbookPath; journalPath may be empty.
func Open(workbookPath, journalPath string) (*Portfolio, error) {
	store, err := portfolio.OpenWithOptions(portfolio.Options{
		WorkbookPath: workbookPath,
		JournalPath:  journalPath,
	})
	if err != nil {
		return nil, err
	}
	return &Portfolio{store: store}, nil
}

// Close releases resources.
func (p *Portfolio) Close() error {
	if p == nil || p.store == nil {
		return nil
	}
	return p.store.Close()
}

// GetHoldingsJSON returns the valuated table as JSON.
func (p *Portfolio) GetHoldingsJSON() (string, error) {
	return marshalJSON(p.store.Holdings())
}

// AddHoldingJSON adds a holding from form JSON. Omitted fields take the
// form defaults. It returns the new row as JSON.
func (p *Portfolio) AddHoldingJSON(payloadJSON string) (string, error) {
	input := portfolio.DefaultHoldingInput(p.store.Today())
	if strings.TrimSpace(payloadJSON) != "" {
		if err := json.Unmarshal([]byte(payloadJSON), &input); err != nil {
			return "", portfolio.WrapError(portfolio.ErrCodeInvalidInput, "decode holding", err)
		}
	}
	index, err := p.store.AddHolding(input.Holding())
	if err != nil {
		return "", err
	}
	return marshalJSON(p.store.Holdings()[index])
}

// ReplaceHoldingsJSON swaps in a whole table given as a JSON array.
func (p *Portfolio) ReplaceHoldingsJSON(holdingsJSON string) error {
	var holdings []portfolio.Holding
	if err := json.Unmarshal([]byte(holdingsJSON), &holdings); err != nil {
		return portfolio.WrapError(portfolio.ErrCodeInvalidInput, "decode holdings", err)
	}
	return p.store.ReplaceHoldings(holdings)
}

// DeleteHolding removes the row at index.
func (p *Portfolio) DeleteHolding(index int) error {
	return p.store.DeleteHolding(index)
}

// GetDashboardJSON runs a render cycle. today may be empty ("today" in the
// store's timezone); months <= 0 selects the default horizon.
func (p *Portfolio) GetDashboardJSON(today string, months int) (string, error) {
	req := portfolio.DashboardRequest{Months: months}
	if strings.TrimSpace(today) != "" {
		req.Today = portfolio.ParseDate(today)
		if req.Today.IsZero() {
			return "", portfolio.NewError(portfolio.ErrCodeInvalidInput, fmt.Sprintf("invalid date %q", today))
		}
	}
	d, err := p.store.Dashboard(req)
	if err != nil {
		return "", err
	}
	return marshalJSON(d)
}

// GetSummaryJSON returns portfolio totals as JSON.
func (p *Portfolio) GetSummaryJSON() (string, error) {
	return marshalJSON(p.store.Summary())
}

// GetOperationLogsJSON returns recent journal entries as JSON.
func (p *Portfolio) GetOperationLogsJSON(limit, offset int) (string, error) {
	logs, err := p.store.OperationLogs(limit, offset)
	if err != nil {
		return "", err
	}
	return marshalJSON(logs)
}

func marshalJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}
	return string(data), nil
}
