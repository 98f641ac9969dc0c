package spot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Simplici0/scrapboard/internal/metrics"
)

// DefaultURL is the public goldprice.org USD rates endpoint.
const DefaultURL = "https://data-asg.goldprice.org/dbXRates/USD"

const (
	defaultPlatinum  = 900.0
	defaultPalladium = 1000.0
)

// Payload mirrors the upstream rates document. Only items[0] is read.
type Payload struct {
	Items    []PayloadItem `json:"items"`
	Fallback bool          `json:"fallback,omitempty"`
}

// PayloadItem holds USD per ounce prices. Platinum and palladium are often
// missing upstream.
type PayloadItem struct {
	Currency  string  `json:"curr,omitempty"`
	Gold      float64 `json:"xauPrice"`
	Silver    float64 `json:"xagPrice"`
	Platinum  float64 `json:"xptPrice,omitempty"`
	Palladium float64 `json:"xpdPrice,omitempty"`
}

// FallbackPayload is substituted whenever the live feed cannot be read.
func FallbackPayload() *Payload {
	return &Payload{
		Items: []PayloadItem{{
			Currency:  "USD",
			Gold:      2050,
			Silver:    23.5,
			Platinum:  defaultPlatinum,
			Palladium: defaultPalladium,
		}},
		Fallback: true,
	}
}

// Resolve turns the outcome of a live fetch into a snapshot. A fetch error
// selects the fallback payload; a payload without the required fields, live
// or fallback, is an ErrMalformedPayload.
func Resolve(live *Payload, fetchErr error, now time.Time) (Snapshot, error) {
	payload, source := live, SourceLive
	if fetchErr != nil || live == nil {
		payload, source = FallbackPayload(), SourceFallback
	}

	if len(payload.Items) == 0 {
		return Snapshot{}, fmt.Errorf("%w: missing items[0]", ErrMalformedPayload)
	}
	item := payload.Items[0]
	if item.Gold == 0 || item.Silver == 0 {
		return Snapshot{}, fmt.Errorf("%w: missing xauPrice or xagPrice", ErrMalformedPayload)
	}

	snap := Snapshot{
		Gold:          item.Gold,
		Silver:        item.Silver,
		Platinum:      orDefault(item.Platinum, defaultPlatinum),
		Palladium:     orDefault(item.Palladium, defaultPalladium),
		Rhodium:       RhodiumReference,
		Source:        source,
		RhodiumSource: SourceReference,
		FetchedAt:     now.UTC(),
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// Feed fetches spot snapshots from the upstream rates endpoint. Each Fetch
// performs exactly one request; nothing is cached or retried.
type Feed struct {
	url     string
	client  *resty.Client
	logger  *slog.Logger
	metrics *metrics.Registry
}

// NewFeed builds a feed for url. A zero timeout leaves the request bounded
// only by the caller's context.
func NewFeed(url string, timeout time.Duration, logger *slog.Logger, m *metrics.Registry) *Feed {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "scrapboard/1.0")

	return &Feed{
		url:     url,
		client:  client,
		logger:  logger,
		metrics: m,
	}
}

// Fetch returns the current snapshot, substituting the fallback snapshot
// when the upstream is unavailable.
func (f *Feed) Fetch(ctx context.Context) (Snapshot, error) {
	start := time.Now()

	live, err := f.fetchLive(ctx)
	if err != nil {
		f.logger.Warn("spot feed unavailable, using fallback snapshot", "url", f.url, "error", err)
	}

	snap, err := Resolve(live, err, time.Now())
	if err != nil {
		f.metrics.ObserveSpotFetch("error", time.Since(start))
		f.logger.Error("spot payload rejected", "url", f.url, "error", err)
		return Snapshot{}, err
	}

	f.metrics.ObserveSpotFetch(string(snap.Source), time.Since(start))
	return snap, nil
}

func (f *Feed) fetchLive(ctx context.Context) (*Payload, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("request spot feed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("spot feed failed: %d", resp.StatusCode())
	}

	var payload Payload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode spot feed: %w", err)
	}
	return &payload, nil
}
