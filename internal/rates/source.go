package rates

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// DefaultRate is the static last-resort EUR/PLN rate used when every
// provider is unreachable.
const DefaultRate = 4.25

// Config tunes the provider chain.
type Config struct {
	ProviderTimeout time.Duration // per-provider request timeout
	DefaultRate     float64       // last-resort constant; DefaultRate when zero
}

// Source acquires a conversion rate from an ordered chain of providers,
// degrading to a constant. Rate never fails: a usable positive rate
// always comes back, and the winning source is logged.
type Source struct {
	providers   []Provider
	client      *http.Client
	defaultRate float64
	cache       *cache.Cache
	logger      *zap.Logger
}

// NewSource builds a Source with the production provider chain: NBP
// first (official source for PLN), then exchangerate-api, then fixer.
func NewSource(cfg Config, logger *zap.Logger) *Source {
	providers := []Provider{
		&nbpProvider{baseURL: "http://api.nbp.pl"},
		&exchangeRateAPIProvider{baseURL: "https://api.exchangerate-api.com"},
		&fixerProvider{baseURL: "https://api.fixer.io"},
	}
	return newSource(cfg, providers, logger)
}

// NewSourceWithProviders builds a Source over an explicit provider
// chain. Used by tests and the rate CLI command.
func NewSourceWithProviders(cfg Config, providers []Provider, logger *zap.Logger) *Source {
	return newSource(cfg, providers, logger)
}

func newSource(cfg Config, providers []Provider, logger *zap.Logger) *Source {
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	defaultRate := cfg.DefaultRate
	if defaultRate <= 0 {
		defaultRate = DefaultRate
	}
	return &Source{
		providers:   providers,
		client:      &http.Client{Timeout: timeout},
		defaultRate: defaultRate,
		cache:       cache.New(1*time.Hour, 2*time.Hour),
		logger:      logger,
	}
}

// Rate returns the conversion rate from base to quote. Providers are
// tried in order; any failure (network error, non-2xx status, malformed
// payload, missing field) moves to the next one. When the whole chain
// fails the configured constant is returned. Results are cached so a
// batch run performs at most one round-trip per currency pair.
func (s *Source) Rate(ctx context.Context, base, quote string) float64 {
	key := fmt.Sprintf("%s-%s", base, quote)
	if cached, found := s.cache.Get(key); found {
		return cached.(float64)
	}

	for _, p := range s.providers {
		rate, err := p.Fetch(ctx, s.client, base, quote)
		if err != nil {
			s.logger.Warn("rate provider failed",
				zap.String("provider", p.Name()),
				zap.String("pair", key),
				zap.Error(err))
			continue
		}
		s.logger.Info("acquired exchange rate",
			zap.String("provider", p.Name()),
			zap.String("pair", key),
			zap.Float64("rate", rate))
		s.cache.Set(key, rate, cache.DefaultExpiration)
		return rate
	}

	s.logger.Warn("all rate providers failed, using default rate",
		zap.String("pair", key),
		zap.Float64("rate", s.defaultRate))
	return s.defaultRate
}
