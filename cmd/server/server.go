package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Simplici0/scrapboard/internal/catalog"
	"github.com/Simplici0/scrapboard/internal/export"
	"github.com/Simplici0/scrapboard/internal/metrics"
	"github.com/Simplici0/scrapboard/internal/pricing"
	"github.com/Simplici0/scrapboard/internal/rates"
	"github.com/Simplici0/scrapboard/internal/spot"
)

const maxBodyBytes = 1 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type spotFeed interface {
	Fetch(ctx context.Context) (spot.Snapshot, error)
}

type server struct {
	// template is read-only; every request derives from a clone.
	template catalog.Catalog
	feed     spotFeed
	logger   *slog.Logger
	metrics  *metrics.Registry
	now      func() time.Time
}

type livePricesResponse struct {
	LiveAPI   spot.Report               `json:"liveAPI"`
	YardRates map[string][]catalog.Item `json:"yardRates"`
	Source    spot.Snapshot             `json:"source"`
	FetchedAt time.Time                 `json:"fetchedAt"`
}

type materialsResponse struct {
	Materials map[string]catalog.Category `json:"materials"`
	Version   string                      `json:"version"`
	FetchedAt time.Time                   `json:"fetchedAt"`
}

type quoteResponse struct {
	ID string `json:"id"`
	pricing.Quote
	Source   spot.Source `json:"source"`
	PricedAt time.Time   `json:"pricedAt"`
}

func newRouter(s *server, requestLog bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if requestLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)
	r.Get("/prices/live", s.handleLivePrices)
	r.Get("/materials", s.handleMaterials)
	r.Post("/quote", s.handleQuote)
	r.Post("/quote/xlsx", s.handleQuoteWorkbook)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *server) handleLivePrices(w http.ResponseWriter, r *http.Request) {
	snap, priced, err := s.price(r.Context())
	if err != nil {
		s.feedError(w, r, err)
		return
	}

	yard := make(map[string][]catalog.Item)
	for _, cat := range priced.Categories {
		if cat.IsYieldBased {
			yard[cat.Name] = cat.Items
		}
	}

	writeJSON(w, http.StatusOK, livePricesResponse{
		LiveAPI:   spot.BuildReport(snap),
		YardRates: yard,
		Source:    snap,
		FetchedAt: s.now().UTC(),
	})
}

func (s *server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	_, priced, err := s.price(r.Context())
	if err != nil {
		s.feedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, materialsResponse{
		Materials: priced.ByName(),
		Version:   priced.Version,
		FetchedAt: s.now().UTC(),
	})
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.quote(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleQuoteWorkbook(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.quote(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	meta := export.Meta{ID: resp.ID, PricedAt: resp.PricedAt, Source: string(resp.Source)}
	if err := export.WriteQuote(&buf, meta, resp.Quote); err != nil {
		s.logger.Error("quote workbook failed", "quote_id", resp.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render workbook")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quote-%s.xlsx"`, resp.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// quote decodes the batch, prices it and records the outcome. On failure the
// error response has already been written.
func (s *server) quote(w http.ResponseWriter, r *http.Request) (quoteResponse, bool) {
	req, err := decodeQuoteRequest(r)
	if err == nil {
		err = pricing.ValidateMargin(req.Margin.Float())
	}
	if err != nil {
		s.metrics.ObserveQuote("bad_request")
		writeError(w, http.StatusBadRequest, err.Error())
		return quoteResponse{}, false
	}

	snap, priced, err := s.price(r.Context())
	if err != nil {
		s.metrics.ObserveQuote("feed_error")
		s.feedError(w, r, err)
		return quoteResponse{}, false
	}

	q := pricing.Compute(priced, req.LineItems, req.Margin.Float())
	for _, line := range q.LineItems {
		s.metrics.ObserveQuoteLine(string(line.ResolvedBy))
	}
	s.metrics.ObserveQuote("ok")

	resp := quoteResponse{
		ID:       uuid.NewString(),
		Quote:    q,
		Source:   snap.Source,
		PricedAt: s.now().UTC(),
	}
	s.logger.Info("quote priced",
		"quote_id", resp.ID,
		"request_id", middleware.GetReqID(r.Context()),
		"lines", len(q.LineItems),
		"subtotal", q.Subtotal,
		"payout", q.Payout,
		"source", snap.Source,
	)
	return resp, true
}

// price fetches a snapshot and derives a priced copy of the catalog.
func (s *server) price(ctx context.Context) (spot.Snapshot, catalog.Catalog, error) {
	snap, err := s.feed.Fetch(ctx)
	if err != nil {
		return spot.Snapshot{}, catalog.Catalog{}, err
	}
	return snap, rates.Derive(s.template, snap), nil
}

func (s *server) feedError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("spot feed unusable",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusBadGateway, err.Error())
}

func decodeQuoteRequest(r *http.Request) (pricing.Request, error) {
	var req pricing.Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty body is an empty batch.
			return pricing.Request{}, nil
		}
		return pricing.Request{}, fmt.Errorf("invalid quote request: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return pricing.Request{}, errors.New("invalid quote request: unexpected data after JSON body")
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
