package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ErrUpstream marks failures of the external quote provider.
var ErrUpstream = errors.New("quote provider unavailable")

type RateClientInterface interface {
	CurrentRate() (float64, error)
	HistoricalRates(days int) ([]float64, error)
}

// RateClient fetches USD/KRW rates from an Alpha Vantage compatible API.
type RateClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRateClient(baseURL, apiKey string) RateClientInterface {
	return &RateClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// CurrentRate returns the realtime USD to KRW exchange rate.
func (r *RateClient) CurrentRate() (float64, error) {
	var payload struct {
		Quote map[string]string `json:"Realtime Currency Exchange Rate"`
	}
	if err := r.query("CURRENCY_EXCHANGE_RATE", url.Values{
		"from_currency": {"USD"},
		"to_currency":   {"KRW"},
	}, &payload); err != nil {
		return 0, err
	}

	raw, ok := payload.Quote["5. Exchange Rate"]
	if !ok {
		return 0, fmt.Errorf("%w: exchange rate missing from response", ErrUpstream)
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed exchange rate %q", ErrUpstream, raw)
	}
	return rate, nil
}

// HistoricalRates returns up to days daily closes, oldest first.
func (r *RateClient) HistoricalRates(days int) ([]float64, error) {
	var payload struct {
		Series map[string]map[string]string `json:"Time Series FX (Daily)"`
	}
	if err := r.query("FX_DAILY", url.Values{
		"from_symbol": {"USD"},
		"to_symbol":   {"KRW"},
	}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Series) == 0 {
		return nil, fmt.Errorf("%w: daily series missing from response", ErrUpstream)
	}

	// ISO dates sort lexicographically, so this is chronological order.
	dates := make([]string, 0, len(payload.Series))
	for date := range payload.Series {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > days {
		dates = dates[len(dates)-days:]
	}

	rates := make([]float64, 0, len(dates))
	for _, date := range dates {
		v, err := strconv.ParseFloat(payload.Series[date]["4. close"], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed close for %s", ErrUpstream, date)
		}
		rates = append(rates, v)
	}
	return rates, nil
}

func (r *RateClient) query(function string, params url.Values, out interface{}) error {
	params.Set("function", function)
	params.Set("apikey", r.apiKey)

	resp, err := r.httpClient.Get(r.baseURL + "/query?" + params.Encode())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s returned %d: %s", ErrUpstream, function, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, function, err)
	}
	return nil
}
