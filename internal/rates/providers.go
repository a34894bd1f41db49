package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Provider fetches a conversion rate from one external service.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, client *http.Client, base, quote string) (float64, error)
}

// nbpProvider queries the Polish National Bank. NBP publishes mid rates
// against PLN only, so it serves quotes into the base currency and
// reports other pairs as unsupported.
type nbpProvider struct {
	baseURL string
}

func (p *nbpProvider) Name() string { return "nbp" }

func (p *nbpProvider) Fetch(ctx context.Context, client *http.Client, base, quote string) (float64, error) {
	if quote != "PLN" {
		return 0, fmt.Errorf("nbp: unsupported quote currency %s", quote)
	}
	url := fmt.Sprintf("%s/api/exchangerates/rates/a/%s/?format=json", p.baseURL, strings.ToLower(base))

	var payload struct {
		Rates []struct {
			Mid float64 `json:"mid"`
		} `json:"rates"`
	}
	if err := getJSON(ctx, client, url, &payload); err != nil {
		return 0, err
	}
	if len(payload.Rates) == 0 || payload.Rates[0].Mid <= 0 {
		return 0, fmt.Errorf("nbp: no mid rate in response")
	}
	return payload.Rates[0].Mid, nil
}

// exchangeRateAPIProvider queries exchangerate-api.com, which returns a
// full rate table for the base currency.
type exchangeRateAPIProvider struct {
	baseURL string
}

func (p *exchangeRateAPIProvider) Name() string { return "exchangerate-api" }

func (p *exchangeRateAPIProvider) Fetch(ctx context.Context, client *http.Client, base, quote string) (float64, error) {
	url := fmt.Sprintf("%s/v4/latest/%s", p.baseURL, strings.ToUpper(base))

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := getJSON(ctx, client, url, &payload); err != nil {
		return 0, err
	}
	rate, ok := payload.Rates[strings.ToUpper(quote)]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("exchangerate-api: no %s rate in response", quote)
	}
	return rate, nil
}

// fixerProvider queries fixer.io as the last networked resort.
type fixerProvider struct {
	baseURL string
}

func (p *fixerProvider) Name() string { return "fixer" }

func (p *fixerProvider) Fetch(ctx context.Context, client *http.Client, base, quote string) (float64, error) {
	url := fmt.Sprintf("%s/latest?base=%s&symbols=%s", p.baseURL, strings.ToUpper(base), strings.ToUpper(quote))

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := getJSON(ctx, client, url, &payload); err != nil {
		return 0, err
	}
	rate, ok := payload.Rates[strings.ToUpper(quote)]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("fixer: no %s rate in response", quote)
	}
	return rate, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
