package guardpay

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/karim-saleh/guardpay/internal/cache"
)

// Recommendation buckets for a currency's current rate against its recent
// average.
const (
	RateExcellent = "EXCELLENT"
	RateGood      = "GOOD"
	RateFair      = "FAIR"
	RateWait      = "WAIT"
)

type currencyProfile struct {
	base        float64
	weekAverage float64
	spread      float64
}

// Rate profiles against USD. The spread bounds the per-refresh jitter so
// simulated movement stays within realistic daily ranges.
var currencyProfiles = map[string]currencyProfile{
	"AED": {base: 3.67, weekAverage: 3.65, spread: 0.05},
	"SAR": {base: 3.75, weekAverage: 3.74, spread: 0.05},
	"INR": {base: 83.12, weekAverage: 83.50, spread: 0.25},
	"PHP": {base: 56.45, weekAverage: 56.80, spread: 0.25},
	"PKR": {base: 278.50, weekAverage: 279.00, spread: 0.5},
	"EUR": {base: 0.92, weekAverage: 0.93, spread: 0.01},
	"GBP": {base: 0.79, weekAverage: 0.80, spread: 0.01},
}

const ratesCacheKey = "guardpay:rates"

// ExchangeRateService serves USD exchange rates with simulated market
// movement. Rates drift around each currency's base on every refresh.
type ExchangeRateService struct {
	mu         sync.RWMutex
	rates      map[string]float64
	lastUpdate time.Time
	rng        *rand.Rand
	cache      cache.Cache
}

// NewExchangeRateService starts from the base rates. The cache is optional;
// when present each refresh writes a snapshot for other processes to read.
func NewExchangeRateService(c cache.Cache) *ExchangeRateService {
	s := &ExchangeRateService{
		rates: make(map[string]float64, len(currencyProfiles)),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: c,
	}
	for currency, profile := range currencyProfiles {
		s.rates[currency] = profile.base
	}
	s.lastUpdate = time.Now()
	return s
}

// UpdateRates refreshes every rate with bounded jitter around its base.
func (s *ExchangeRateService) UpdateRates(ctx context.Context) {
	s.mu.Lock()
	for currency, profile := range currencyProfiles {
		jitter := (s.rng.Float64()*2 - 1) * profile.spread
		s.rates[currency] = profile.base + jitter
	}
	s.lastUpdate = time.Now()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Set(ctx, ratesCacheKey, snapshot, 5*time.Minute); err != nil {
			logrus.Warnf("failed to cache exchange rates: %v", err)
		}
	}
}

func (s *ExchangeRateService) snapshotLocked() map[string]float64 {
	out := make(map[string]float64, len(s.rates))
	for currency, rate := range s.rates {
		out[currency] = rate
	}
	return out
}

// Rate returns the current USD rate for a currency, 1.0 for unknown ones.
func (s *ExchangeRateService) Rate(currency string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rate, ok := s.rates[currency]; ok {
		return rate
	}
	return 1.0
}

// Convert turns a USD amount into the target currency at the current rate.
func (s *ExchangeRateService) Convert(usdAmount float64, currency string) float64 {
	return usdAmount * s.Rate(currency)
}

// AllRates returns a copy of the current rate table.
func (s *ExchangeRateService) AllRates() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Recommendation grades how the current rate compares to the weekly average:
// 2% or better above average is EXCELLENT, at or above average is GOOD,
// within 1% below is FAIR, anything worse is WAIT.
func (s *ExchangeRateService) Recommendation(currency string) string {
	profile, ok := currencyProfiles[currency]
	if !ok {
		return RateFair
	}
	diff := (s.Rate(currency) - profile.weekAverage) / profile.weekAverage * 100

	switch {
	case diff >= 2:
		return RateExcellent
	case diff >= 0:
		return RateGood
	case diff >= -1:
		return RateFair
	default:
		return RateWait
	}
}

// PotentialSavings reports how much more of the target currency the amount
// buys now versus at the weekly average. Negative means the average rate was
// better.
func (s *ExchangeRateService) PotentialSavings(usdAmount float64, currency string) float64 {
	profile, ok := currencyProfiles[currency]
	if !ok {
		return 0
	}
	return usdAmount*s.Rate(currency) - usdAmount*profile.weekAverage
}

// LastUpdate reports when the rates were last refreshed.
func (s *ExchangeRateService) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}
