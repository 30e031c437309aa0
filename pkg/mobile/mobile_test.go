package mobile

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"portfoliodash/pkg/portfolio"
)

func setupMobilePortfolio(t *testing.T) *Portfolio {
	t.Helper()
	tmp := t.TempDir()
	p, err := Open(filepath.Join(tmp, "portfolio.xlsx"), filepath.Join(tmp, "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestMobilePortfolioJSONFlows(t *testing.T) {
	p := setupMobilePortfolio(t)

	resp, err := p.AddHoldingJSON(`{"asset_type":"Bond","instrument":"EDO","invested":10000,"interest_rate":5,"maturity_date":"2024-05-01"}`)
	if err != nil {
		t.Fatalf("AddHoldingJSON: %v", err)
	}
	var row map[string]any
	if err := json.Unmarshal([]byte(resp), &row); err != nil {
		t.Fatalf("unmarshal add response: %v", err)
	}
	if row["final_value"].(float64) != 10500 {
		t.Fatalf("expected final 10500, got %v", row["final_value"])
	}

	dashJSON, err := p.GetDashboardJSON("2024-01-15", 6)
	if err != nil {
		t.Fatalf("GetDashboardJSON: %v", err)
	}
	var dash map[string]any
	if err := json.Unmarshal([]byte(dashJSON), &dash); err != nil {
		t.Fatalf("unmarshal dashboard: %v", err)
	}
	if dash["today"] != "2024-01-15" || len(dash["cash_flow"].([]any)) != 7 {
		t.Fatalf("unexpected dashboard: %v", dash)
	}

	summaryJSON, err := p.GetSummaryJSON()
	if err != nil {
		t.Fatalf("GetSummaryJSON: %v", err)
	}
	var summary portfolio.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary.HoldingCount != 1 {
		t.Fatalf("expected 1 holding, got %d", summary.HoldingCount)
	}

	if err := p.ReplaceHoldingsJSON(`[{"asset_type":"ETF","instrument":"VWCE","currency":"EUR","invested":100}]`); err != nil {
		t.Fatalf("ReplaceHoldingsJSON: %v", err)
	}
	if err := p.DeleteHolding(0); err != nil {
		t.Fatalf("DeleteHolding: %v", err)
	}
	holdingsJSON, err := p.GetHoldingsJSON()
	if err != nil {
		t.Fatalf("GetHoldingsJSON: %v", err)
	}
	if holdingsJSON != "[]" {
		t.Fatalf("expected empty table, got %s", holdingsJSON)
	}

	logsJSON, err := p.GetOperationLogsJSON(10, 0)
	if err != nil {
		t.Fatalf("GetOperationLogsJSON: %v", err)
	}
	var logs []map[string]any
	if err := json.Unmarshal([]byte(logsJSON), &logs); err != nil {
		t.Fatalf("unmarshal logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(logs))
	}
}

func TestMobilePortfolioInvalidJSON(t *testing.T) {
	p := setupMobilePortfolio(t)

	if _, err := p.AddHoldingJSON("{bad"); !portfolio.IsErrorCode(err, portfolio.ErrCodeInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if err := p.ReplaceHoldingsJSON("nope"); !portfolio.IsErrorCode(err, portfolio.ErrCodeInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if _, err := p.GetDashboardJSON("garbage", 0); err == nil {
		t.Fatalf("expected error for invalid date")
	}
	if err := p.DeleteHolding(5); !portfolio.IsErrorCode(err, portfolio.ErrCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMobilePortfolioCloseNil(t *testing.T) {
	var p *Portfolio
	if err := p.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
