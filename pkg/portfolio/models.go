package portfolio

import (
	"strings"
)

// AssetType classifies a holding.
type AssetType string

const (
	AssetBond    AssetType = "Bond"
	AssetDeposit AssetType = "Deposit"
	AssetETF     AssetType = "ETF"
)

var AssetTypes = []AssetType{AssetBond, AssetDeposit, AssetETF}

// assetTypeAliases maps lower-cased spellings, including the Polish labels
// used by older workbooks, to the canonical asset type.
var assetTypeAliases = map[string]AssetType{
	"bond":      AssetBond,
	"obligacja": AssetBond,
	"deposit":   AssetDeposit,
	"lokata":    AssetDeposit,
	"etf":       AssetETF,
}

// Currency is the denomination recorded for a holding.
// Amounts are always tracked in PLN regardless of this field.
type Currency string

const (
	CurrencyPLN Currency = "PLN"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

var Currencies = []Currency{CurrencyPLN, CurrencyEUR, CurrencyUSD}

// ParseAssetType returns the canonical asset type for s.
// Unknown values are kept verbatim.
func ParseAssetType(s string) AssetType {
	s = strings.TrimSpace(s)
	if t, ok := assetTypeAliases[strings.ToLower(s)]; ok {
		return t
	}
	return AssetType(s)
}

// ParseCurrency upper-cases s. Unknown codes are kept.
func ParseCurrency(s string) Currency {
	return Currency(normalizeCurrency(s))
}

// Holding is one row of the portfolio table.
type Holding struct {
	AssetType     AssetType `json:"asset_type"`
	Instrument    string    `json:"instrument"`
	Issuer        string    `json:"issuer"`
	Currency      Currency  `json:"currency"`
	Invested      *Amount   `json:"invested"`
	PurchaseDate  Date      `json:"purchase_date"`
	MaturityDate  Date      `json:"maturity_date"`
	InterestRate  *Amount   `json:"interest_rate"`
	CurrentValue  *Amount   `json:"current_value"`
	ValuationDate Date      `json:"valuation_date"`
	FinalValue    *Amount   `json:"final_value"`
	ProfitLoss    *Amount   `json:"profit_loss"`
}

func (h Holding) clone() Holding {
	c := h
	c.Invested = cloneAmount(h.Invested)
	c.InterestRate = cloneAmount(h.InterestRate)
	c.CurrentValue = cloneAmount(h.CurrentValue)
	c.FinalValue = cloneAmount(h.FinalValue)
	c.ProfitLoss = cloneAmount(h.ProfitLoss)
	return c
}

func cloneHoldings(items []Holding) []Holding {
	out := make([]Holding, len(items))
	for i, h := range items {
		out[i] = h.clone()
	}
	return out
}

// HoldingInput carries the fields of the "add holding" form.
type HoldingInput struct {
	AssetType     string  `json:"asset_type"`
	Instrument    string  `json:"instrument"`
	Issuer        string  `json:"issuer"`
	Currency      string  `json:"currency"`
	Invested      float64 `json:"invested"`
	PurchaseDate  Date    `json:"purchase_date"`
	MaturityDate  Date    `json:"maturity_date"`
	InterestRate  float64 `json:"interest_rate"`
	CurrentValue  float64 `json:"current_value"`
	ValuationDate Date    `json:"valuation_date"`
}

// DefaultHoldingInput returns the form's initial values.
func DefaultHoldingInput(today Date) HoldingInput {
	return HoldingInput{
		AssetType:     string(AssetBond),
		Currency:      string(CurrencyPLN),
		Invested:      10000,
		PurchaseDate:  today,
		MaturityDate:  today,
		InterestRate:  5,
		ValuationDate: today,
	}
}

// Holding converts the form input into a new table row.
// A current value of zero or less means "not supplied".
func (in HoldingInput) Holding() Holding {
	h := Holding{
		AssetType:     ParseAssetType(in.AssetType),
		Instrument:    in.Instrument,
		Issuer:        in.Issuer,
		Currency:      ParseCurrency(in.Currency),
		Invested:      AmountPtr(in.Invested),
		PurchaseDate:  in.PurchaseDate,
		MaturityDate:  in.MaturityDate,
		InterestRate:  AmountPtr(in.InterestRate),
		ValuationDate: in.ValuationDate,
	}
	if in.CurrentValue > 0 {
		h.CurrentValue = AmountPtr(in.CurrentValue)
	}
	return h
}

// CashFlowBucket aggregates expected cash for one calendar month.
type CashFlowBucket struct {
	Month       string   `json:"month"`
	Total       Amount   `json:"total"`
	Instruments []string `json:"instruments"`
}

// Listing returns the contributing instruments, one per line.
func (b CashFlowBucket) Listing() string {
	return strings.Join(b.Instruments, "\n")
}

// Summary holds portfolio-wide totals.
type Summary struct {
	HoldingCount  int     `json:"holding_count"`
	TotalInvested Amount  `json:"total_invested"`
	TotalFinal    *Amount `json:"total_final"`
	TotalProfit   *Amount `json:"total_profit"`
}

// AllocationEntry is one slice of the allocation chart.
type AllocationEntry struct {
	AssetType AssetType `json:"asset_type"`
	Amount    Amount    `json:"amount"`
	Percent   float64   `json:"percent"`
}

// ProfitRow is one line of the per-holding profit table.
type ProfitRow struct {
	Instrument   string  `json:"instrument"`
	Invested     *Amount `json:"invested"`
	CurrentValue *Amount `json:"current_value"`
	FinalValue   *Amount `json:"final_value"`
	ProfitLoss   *Amount `json:"profit_loss"`
	MaturityDate Date    `json:"maturity_date"`
}

// DashboardRequest selects the reference day and horizon of a render.
// Zero values fall back to the store's defaults.
type DashboardRequest struct {
	Today  Date
	Months int
}

// Dashboard is everything a single render cycle displays.
type Dashboard struct {
	Today      Date              `json:"today"`
	Months     int               `json:"months"`
	Holdings   []Holding         `json:"holdings"`
	Summary    Summary           `json:"summary"`
	Allocation []AllocationEntry `json:"allocation"`
	CashFlow   []CashFlowBucket  `json:"cash_flow"`
	Profit     []ProfitRow       `json:"profit"`
}

// OperationLog is one entry of the mutation journal.
type OperationLog struct {
	ID         int64   `json:"id"`
	Operation  string  `json:"operation"`
	RowIndex   *int    `json:"row_index"`
	Instrument *string `json:"instrument"`
	Invested   *Amount `json:"invested"`
	FinalValue *Amount `json:"final_value"`
	Details    *string `json:"details"`
	CreatedAt  *string `json:"created_at"`
}

// Journal operation names.
const (
	OpAdd     = "ADD"
	OpUpdate  = "UPDATE"
	OpDelete  = "DELETE"
	OpReplace = "REPLACE"
	OpImport  = "IMPORT"
)
