package portfolio

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlHolding struct {
	AssetType     string   `yaml:"asset_type"`
	Instrument    string   `yaml:"instrument"`
	Issuer        string   `yaml:"issuer"`
	Currency      string   `yaml:"currency"`
	Invested      *float64 `yaml:"invested"`
	PurchaseDate  string   `yaml:"purchase_date"`
	MaturityDate  string   `yaml:"maturity_date"`
	InterestRate  *float64 `yaml:"interest_rate"`
	CurrentValue  *float64 `yaml:"current_value"`
	ValuationDate string   `yaml:"valuation_date"`
	FinalValue    *float64 `yaml:"final_value"`
}

// DecodeHoldingsYAML reads holdings from YAML. Two shapes are accepted: a
// top-level list of holdings, or a map with a "holdings" list.
func DecodeHoldingsYAML(r io.Reader) ([]Holding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}

	var items []yamlHolding
	if err := yaml.Unmarshal(data, &items); err != nil {
		var alt struct {
			Holdings []yamlHolding `yaml:"holdings"`
		}
		if err2 := yaml.Unmarshal(data, &alt); err2 != nil {
			return nil, WrapError(ErrCodeInvalidInput, "parse yaml", err)
		}
		items = alt.Holdings
	}

	holdings := make([]Holding, 0, len(items))
	for _, it := range items {
		holdings = append(holdings, Holding{
			AssetType:     ParseAssetType(it.AssetType),
			Instrument:    it.Instrument,
			Issuer:        it.Issuer,
			Currency:      ParseCurrency(it.Currency),
			Invested:      floatAmount(it.Invested),
			PurchaseDate:  ParseDate(it.PurchaseDate),
			MaturityDate:  ParseDate(it.MaturityDate),
			InterestRate:  floatAmount(it.InterestRate),
			CurrentValue:  floatAmount(it.CurrentValue),
			ValuationDate: ParseDate(it.ValuationDate),
			FinalValue:    floatAmount(it.FinalValue),
		})
	}
	return holdings, nil
}

func floatAmount(f *float64) *Amount {
	if f == nil {
		return nil
	}
	return AmountPtr(*f)
}
