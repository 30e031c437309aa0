package portfolio

import (
	"testing"
	"time"
)

func TestForecast_Scenario(t *testing.T) {
	holdings := []Holding{
		testBond("instrument", 10000, 5, d(2024, 1, 1), d(2024, 7, 1)),
	}

	buckets := Forecast(holdings, d(2024, 6, 1), 6)
	if len(buckets) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(buckets))
	}
	wantMonths := []string{"2024-06", "2024-07", "2024-08", "2024-09", "2024-10", "2024-11", "2024-12"}
	for i, m := range wantMonths {
		if buckets[i].Month != m {
			t.Errorf("bucket %d: got month %s, want %s", i, buckets[i].Month, m)
		}
	}

	july := buckets[1]
	assertAmountEquals(t, &july.Total, "10500", "july total")
	if july.Listing() != "instrument (10500.00)" {
		t.Errorf("unexpected listing %q", july.Listing())
	}

	for i, b := range buckets {
		if i == 1 {
			continue
		}
		if !b.Total.IsZero() || len(b.Instruments) != 0 || b.Listing() != "" {
			t.Errorf("bucket %s should be empty, got %s %v", b.Month, b.Total.String(), b.Instruments)
		}
	}
}

func TestForecast_StrictlyAfterToday(t *testing.T) {
	today := d(2024, 6, 15)
	holdings := []Holding{
		testBond("matures today", 1000, 5, d(2024, 1, 1), today),
		testBond("matured", 1000, 5, d(2024, 1, 1), d(2024, 6, 1)),
		testBond("tomorrow", 1000, 5, d(2024, 1, 1), d(2024, 6, 16)),
	}

	buckets := Forecast(holdings, today, 6)
	june := buckets[0]
	if len(june.Instruments) != 1 || june.Instruments[0] != "tomorrow (1050.00)" {
		t.Fatalf("expected only the future maturity, got %v", june.Instruments)
	}
	assertAmountEquals(t, &june.Total, "1050", "june total")
}

func TestForecast_AccumulatesWithinMonth(t *testing.T) {
	holdings := []Holding{
		{Instrument: "Lokata A", MaturityDate: d(2024, 8, 3), CurrentValue: AmountPtr(2000)},
		{Instrument: "Lokata B", MaturityDate: d(2024, 8, 28), FinalValue: AmountPtr(3000.5)},
	}
	buckets := Forecast(holdings, d(2024, 6, 1), 6)
	aug := buckets[2]
	assertAmountEquals(t, &aug.Total, "5000.5", "august total")
	want := "Lokata A (2000.00)\nLokata B (3000.50)"
	if aug.Listing() != want {
		t.Errorf("got listing %q, want %q", aug.Listing(), want)
	}
}

func TestForecast_DropsBeyondHorizonAndUndefined(t *testing.T) {
	holdings := []Holding{
		testBond("far", 1000, 5, d(2024, 1, 1), d(2025, 3, 1)),
		{Instrument: "no value", MaturityDate: d(2024, 7, 1)},
		{Instrument: "no maturity", FinalValue: AmountPtr(10)},
	}
	for _, b := range Forecast(holdings, d(2024, 6, 1), 6) {
		if len(b.Instruments) != 0 || !b.Total.IsZero() {
			t.Errorf("bucket %s should be empty, got %v", b.Month, b.Instruments)
		}
	}
}

func TestForecast_MonthEndDoesNotSkip(t *testing.T) {
	buckets := Forecast(nil, d(2024, 1, 31), 2)
	want := []string{"2024-01", "2024-02", "2024-03"}
	for i, m := range want {
		if buckets[i].Month != m {
			t.Errorf("bucket %d: got %s, want %s", i, buckets[i].Month, m)
		}
	}
}

func TestForecast_Horizon(t *testing.T) {
	if got := len(Forecast(nil, d(2024, 11, 1), 0)); got != 1 {
		t.Errorf("horizon 0: expected 1 bucket, got %d", got)
	}
	if got := len(Forecast(nil, d(2024, 11, 1), -1)); got != DefaultHorizonMonths+1 {
		t.Errorf("negative horizon: expected %d buckets, got %d", DefaultHorizonMonths+1, got)
	}
	buckets := Forecast(nil, d(2024, 11, 1), 3)
	if buckets[3].Month != "2025-02" {
		t.Errorf("expected year rollover, got %s", buckets[3].Month)
	}
}

func TestForecaster_Memoizes(t *testing.T) {
	f := NewForecaster(time.Minute)
	holdings := []Holding{testBond("A", 1000, 5, d(2024, 1, 1), d(2024, 7, 1))}

	first := f.Forecast(holdings, d(2024, 6, 1), 6)
	first[1].Instruments[0] = "mutated"
	second := f.Forecast(holdings, d(2024, 6, 1), 6)
	if f.Len() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", f.Len())
	}
	if second[1].Instruments[0] != "A (1050.00)" {
		t.Errorf("cached result was mutated: %v", second[1].Instruments)
	}

	f.Forecast(holdings, d(2024, 6, 2), 6)
	holdings[0].Instrument = "B"
	f.Forecast(holdings, d(2024, 6, 1), 6)
	if f.Len() != 3 {
		t.Errorf("expected 3 cached entries, got %d", f.Len())
	}
}

func TestForecaster_DistinguishesSubCentAmounts(t *testing.T) {
	f := NewForecaster(time.Minute)
	today := d(2024, 6, 1)
	table := func(final string) []Holding {
		h := testBond("A", 100, 0, d(2024, 1, 1), d(2024, 7, 1))
		v, err := ParseAmount(final)
		assertNoError(t, err, "parse final value")
		h.FinalValue = v
		return []Holding{h}
	}

	for _, final := range []string{"100.00001", "100.00004"} {
		holdings := table(final)
		got := f.Forecast(holdings, today, 6)
		want := Forecast(holdings, today, 6)
		for i := range want {
			if !got[i].Total.Equal(want[i].Total.Decimal) {
				t.Errorf("final %s, bucket %s: cached total %s, direct total %s",
					final, want[i].Month, got[i].Total.String(), want[i].Total.String())
			}
		}
		assertAmountEquals(t, &got[1].Total, final, "july total")
	}
	if f.Len() != 2 {
		t.Errorf("expected 2 cached entries, got %d", f.Len())
	}
}
