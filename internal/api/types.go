package api

import "portfoliodash/pkg/portfolio"

// holdingFormPayload mirrors the add-holding form. Omitted fields take the
// form defaults.
type holdingFormPayload struct {
	AssetType     *string         `json:"asset_type"`
	Instrument    *string         `json:"instrument"`
	Issuer        *string         `json:"issuer"`
	Currency      *string         `json:"currency"`
	Invested      *float64        `json:"invested"`
	PurchaseDate  *portfolio.Date `json:"purchase_date"`
	MaturityDate  *portfolio.Date `json:"maturity_date"`
	InterestRate  *float64        `json:"interest_rate"`
	CurrentValue  *float64        `json:"current_value"`
	ValuationDate *portfolio.Date `json:"valuation_date"`
}

func (p holdingFormPayload) apply(in portfolio.HoldingInput) portfolio.HoldingInput {
	if p.AssetType != nil {
		in.AssetType = *p.AssetType
	}
	if p.Instrument != nil {
		in.Instrument = *p.Instrument
	}
	if p.Issuer != nil {
		in.Issuer = *p.Issuer
	}
	if p.Currency != nil {
		in.Currency = *p.Currency
	}
	if p.Invested != nil {
		in.Invested = *p.Invested
	}
	if p.PurchaseDate != nil {
		in.PurchaseDate = *p.PurchaseDate
	}
	if p.MaturityDate != nil {
		in.MaturityDate = *p.MaturityDate
	}
	if p.InterestRate != nil {
		in.InterestRate = *p.InterestRate
	}
	if p.CurrentValue != nil {
		in.CurrentValue = *p.CurrentValue
	}
	if p.ValuationDate != nil {
		in.ValuationDate = *p.ValuationDate
	}
	return in
}

type replaceHoldingsPayload struct {
	Holdings []portfolio.Holding `json:"holdings"`
}

type addHoldingResponse struct {
	Index   int               `json:"index"`
	Holding portfolio.Holding `json:"holding"`
}

type summaryResponse struct {
	portfolio.Summary
	TotalInvestedText string `json:"total_invested_text"`
	TotalFinalText    string `json:"total_final_text"`
	TotalProfitText   string `json:"total_profit_text"`
}

type cashFlowResponse struct {
	Today   portfolio.Date             `json:"today"`
	Months  int                        `json:"months"`
	Buckets []portfolio.CashFlowBucket `json:"buckets"`
}

type storageInfoResponse struct {
	WorkbookName string   `json:"workbook_name"`
	WorkbookPath string   `json:"workbook_path"`
	SheetName    string   `json:"sheet_name"`
	DataDir      string   `json:"data_dir"`
	Available    []string `json:"available"`
	CanSwitch    bool     `json:"can_switch"`
	SwitchReason string   `json:"switch_reason,omitempty"`
}

type storageSwitchPayload struct {
	WorkbookName string `json:"workbook_name"`
	Create       bool   `json:"create"`
}

type operationLogsResponse struct {
	Items  []portfolio.OperationLog `json:"items"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}
