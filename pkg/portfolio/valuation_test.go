package portfolio

import "testing"

func TestResolveFinalValue(t *testing.T) {
	tests := []struct {
		name    string
		holding Holding
		want    string
	}{
		{
			name:    "interest estimate",
			holding: Holding{Invested: AmountPtr(10000), InterestRate: AmountPtr(5)},
			want:    "10500",
		},
		{
			name: "current value overrides rate",
			holding: Holding{
				Invested:     AmountPtr(10000),
				InterestRate: AmountPtr(5),
				CurrentValue: AmountPtr(10200),
			},
			want: "10200",
		},
		{
			name: "explicit final wins",
			holding: Holding{
				Invested:     AmountPtr(10000),
				InterestRate: AmountPtr(5),
				CurrentValue: AmountPtr(10200),
				FinalValue:   AmountPtr(9800),
			},
			want: "9800",
		},
		{
			name:    "final without invested",
			holding: Holding{FinalValue: AmountPtr(123.45)},
			want:    "123.45",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAmountEquals(t, ResolveFinalValue(tt.holding), tt.want, "final value")
		})
	}
}

func TestResolveFinalValue_Undefined(t *testing.T) {
	tests := []struct {
		name    string
		holding Holding
	}{
		{"nothing set", Holding{}},
		{"rate missing", Holding{Invested: AmountPtr(1000)}},
		{"invested missing", Holding{InterestRate: AmountPtr(4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNil(t, ResolveFinalValue(tt.holding), "final value")
			v := Valuate(tt.holding)
			assertNil(t, v.FinalValue, "valuated final")
			assertNil(t, v.ProfitLoss, "valuated profit")
		})
	}
}

func TestValuate(t *testing.T) {
	h := testBond("EDO0734", 10000, 5, d(2024, 1, 1), d(2024, 7, 1))
	v := Valuate(h)
	assertAmountEquals(t, v.FinalValue, "10500.00", "final value")
	assertAmountEquals(t, v.ProfitLoss, "500.00", "profit")
	if v.ProfitLoss.StringFixed(2) != "500.00" {
		t.Errorf("expected 500.00, got %s", v.ProfitLoss.StringFixed(2))
	}
	if h.FinalValue != nil {
		t.Error("Valuate must not modify its input")
	}
}

func TestValuate_ProfitRounding(t *testing.T) {
	h := Holding{Invested: AmountPtr(100), InterestRate: AmountPtr(3.333)}
	v := Valuate(h)
	assertAmountEquals(t, v.FinalValue, "103.333", "final value")
	assertAmountEquals(t, v.ProfitLoss, "3.33", "profit")
}

func TestValuate_ProfitNeedsInvested(t *testing.T) {
	v := Valuate(Holding{CurrentValue: AmountPtr(500)})
	assertAmountEquals(t, v.FinalValue, "500", "final value")
	assertNil(t, v.ProfitLoss, "profit without invested")
}

func TestValuate_NegativeInputsAccepted(t *testing.T) {
	v := Valuate(Holding{Invested: AmountPtr(-100), InterestRate: AmountPtr(10)})
	assertAmountEquals(t, v.FinalValue, "-110", "final value")
	assertAmountEquals(t, v.ProfitLoss, "-10", "profit")
}

func TestValuateAll_RowIndependent(t *testing.T) {
	rows := []Holding{
		{Invested: AmountPtr(1000), InterestRate: AmountPtr(10)},
		{},
		{FinalValue: AmountPtr(50), Invested: AmountPtr(40)},
	}
	out := ValuateAll(rows)
	if len(out) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(out))
	}
	assertAmountEquals(t, out[0].ProfitLoss, "100", "row 0 profit")
	assertNil(t, out[1].FinalValue, "row 1 final")
	assertAmountEquals(t, out[2].ProfitLoss, "10", "row 2 profit")
}
