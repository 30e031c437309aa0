package portfolio

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultHorizonMonths is the forecast horizon used when none is given.
const DefaultHorizonMonths = 6

// Forecast projects monthly cash inflows from maturing holdings.
//
// It returns months+1 buckets starting at today's month. A holding
// contributes its resolved final value to the bucket of its maturity month
// only when it matures strictly after today. Maturities past the last
// bucket are dropped. A negative months selects DefaultHorizonMonths.
func Forecast(holdings []Holding, today Date, months int) []CashFlowBucket {
	if months < 0 {
		months = DefaultHorizonMonths
	}
	buckets := make([]CashFlowBucket, months+1)
	index := make(map[string]int, months+1)
	for i := range buckets {
		key := today.AddMonths(i).MonthKey()
		buckets[i] = CashFlowBucket{Month: key, Instruments: []string{}}
		index[key] = i
	}

	for _, h := range holdings {
		if h.MaturityDate.IsZero() || !h.MaturityDate.After(today) {
			continue
		}
		value := ResolveFinalValue(h)
		if value == nil {
			continue
		}
		i, ok := index[h.MaturityDate.MonthKey()]
		if !ok {
			continue
		}
		b := &buckets[i]
		b.Total = Amount{b.Total.Add(value.Decimal)}
		b.Instruments = append(b.Instruments, fmt.Sprintf("%s (%s)", h.Instrument, value.StringFixed(2)))
	}
	return buckets
}

// Forecaster memoizes Forecast on the exact table contents.
type Forecaster struct {
	cache *cache.Cache
}

// NewForecaster creates a Forecaster whose entries expire after ttl.
func NewForecaster(ttl time.Duration) *Forecaster {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Forecaster{cache: cache.New(ttl, 2*ttl)}
}

// Forecast returns the cached projection for identical inputs, computing it
// on a miss.
func (f *Forecaster) Forecast(holdings []Holding, today Date, months int) []CashFlowBucket {
	key := forecastKey(holdings, today, months)
	if cached, ok := f.cache.Get(key); ok {
		return cloneBuckets(cached.([]CashFlowBucket))
	}
	result := Forecast(holdings, today, months)
	f.cache.SetDefault(key, cloneBuckets(result))
	return result
}

// Len reports the number of cached projections.
func (f *Forecaster) Len() int {
	return f.cache.ItemCount()
}

// forecastKey hashes the exact table contents. Amounts use their full
// decimal text so tables differing in any digit never share an entry.
func forecastKey(holdings []Holding, today Date, months int) string {
	sum := sha256.New()
	field := func(s string) {
		sum.Write([]byte(s))
		sum.Write([]byte{0x1f})
	}
	amount := func(a *Amount) {
		if a == nil {
			field("-")
			return
		}
		field(a.Decimal.String())
	}
	for _, h := range holdings {
		field(string(h.AssetType))
		field(h.Instrument)
		field(h.Issuer)
		field(string(h.Currency))
		amount(h.Invested)
		field(h.PurchaseDate.String())
		field(h.MaturityDate.String())
		amount(h.InterestRate)
		amount(h.CurrentValue)
		field(h.ValuationDate.String())
		amount(h.FinalValue)
		amount(h.ProfitLoss)
		sum.Write([]byte{0x1e})
	}
	field(today.String())
	field(strconv.Itoa(months))
	return hex.EncodeToString(sum.Sum(nil))
}

func cloneBuckets(items []CashFlowBucket) []CashFlowBucket {
	out := make([]CashFlowBucket, len(items))
	for i, b := range items {
		out[i] = b
		out[i].Instruments = append([]string{}, b.Instruments...)
	}
	return out
}
