// Package invoice produces PDF invoices for orders through an external
// rendering endpoint and keeps a record of each generated file.
package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/enum"
	"github.com/TechLionDev/InviStar/internal/filestore"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxPDF    = 20 << 20
	maxRenderBody    = 1 << 20
	pdfContentType   = "application/pdf"
	invoiceKeyPrefix = "invoices"
)

var (
	ErrNotConfigured = errors.New("invoice endpoint is not configured")
	ErrEndpoint      = errors.New("invoice endpoint failed")
)

// Store defines the invoice queries used by the generator.
// Satisfied by *database.Queries.
type Store interface {
	GetLatestInvoiceForOrder(ctx context.Context, arg database.GetLatestInvoiceForOrderParams) (database.Invoice, error)
	CreateInvoice(ctx context.Context, arg database.CreateInvoiceParams) (database.Invoice, error)
}

// EventPublisher is notified when a new invoice is stored.
type EventPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, eventType string, payload any)
}

// Result is the outcome of Generate. Reused is true when the latest invoice
// already matched the order snapshot and no PDF was rendered.
type Result struct {
	Invoice database.Invoice
	Reused  bool
}

// Generator renders and records invoices.
type Generator struct {
	endpoint   string
	client     *http.Client
	store      Store
	files      filestore.Store
	logger     *zap.Logger
	events     EventPublisher
	newBackOff func() backoff.BackOff
	maxPDF     int64
}

type Option func(*Generator)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) { g.client = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

func WithEvents(p EventPublisher) Option {
	return func(g *Generator) { g.events = p }
}

// WithBackOff sets the retry policy for endpoint and download requests.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(g *Generator) { g.newBackOff = fn }
}

// WithMaxPDFSize caps the downloaded PDF size (default 20 MiB).
func WithMaxPDFSize(n int64) Option {
	return func(g *Generator) { g.maxPDF = n }
}

// NewGenerator creates a Generator. An empty endpoint is allowed; Generate
// then fails with ErrNotConfigured unless an existing invoice can be reused.
func NewGenerator(endpoint string, store Store, files filestore.Store, opts ...Option) *Generator {
	g := &Generator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
		store:    store,
		files:    files,
		logger:   zap.NewNop(),
		maxPDF:   defaultMaxPDF,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = time.Minute
			return b
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the newest invoice for the order when its stored snapshot
// equals snap, and otherwise renders a new PDF, stores it and records it.
func (g *Generator) Generate(ctx context.Context, ownerID uuid.UUID, snap *Snapshot) (*Result, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	latest, err := g.store.GetLatestInvoiceForOrder(ctx, database.GetLatestInvoiceForOrderParams{
		OrderID:   snap.ID,
		CreatedBy: ownerID,
	})
	switch {
	case err == nil:
		if sameJSON(latest.OrderJson, payload) {
			return &Result{Invoice: latest, Reused: true}, nil
		}
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("get latest invoice: %w", err)
	}

	if g.endpoint == "" {
		return nil, ErrNotConfigured
	}

	link, err := g.render(ctx, payload)
	if err != nil {
		return nil, err
	}
	pdf, err := g.download(ctx, link)
	if err != nil {
		return nil, err
	}

	key := filestore.NewKey(invoiceKeyPrefix+"/"+snap.ID.String(), ".pdf")
	if err := g.files.Put(ctx, key, bytes.NewReader(pdf), pdfContentType); err != nil {
		return nil, fmt.Errorf("store invoice pdf: %w", err)
	}

	inv, err := g.store.CreateInvoice(ctx, database.CreateInvoiceParams{
		OrderID:   snap.ID,
		File:      key,
		OrderJson: payload,
		CreatedBy: ownerID,
	})
	if err != nil {
		if delErr := g.files.Delete(ctx, key); delErr != nil {
			g.logger.Warn("remove orphaned invoice pdf", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	g.logger.Info("invoice generated",
		zap.String("order_id", snap.ID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.Int("bytes", len(pdf)),
	)
	if g.events != nil {
		g.events.Publish(ctx, ownerID, enum.EventInvoiceReady, inv)
	}
	return &Result{Invoice: inv}, nil
}

type renderResponse struct {
	PDFLink string `json:"pdfLink"`
}

// render calls GET <endpoint>?order=<json> and returns the PDF link.
func (g *Generator) render(ctx context.Context, payload []byte) (string, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: invalid endpoint: %v", ErrEndpoint, err)
	}
	q := u.Query()
	q.Set("order", string(payload))
	u.RawQuery = q.Encode()

	var link string
	err = g.retry(ctx, "render", func() error {
		body, err := g.get(ctx, u.String(), maxRenderBody)
		if err != nil {
			return err
		}
		var resp renderResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		if resp.PDFLink == "" {
			return backoff.Permanent(errors.New("response has no pdfLink"))
		}
		link = resp.PDFLink
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEndpoint, err)
	}
	return link, nil
}

func (g *Generator) download(ctx context.Context, link string) ([]byte, error) {
	var pdf []byte
	err := g.retry(ctx, "download", func() error {
		body, err := g.get(ctx, link, g.maxPDF)
		if err != nil {
			return err
		}
		pdf = body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: download pdf: %v", ErrEndpoint, err)
	}
	return pdf, nil
}

// get performs one request. Transport errors and 5xx responses are retryable;
// other non-2xx responses and bodies over limit are permanent.
func (g *Generator) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, backoff.Permanent(fmt.Errorf("response exceeds %d bytes", limit))
	}
	return body, nil
}

func (g *Generator) retry(ctx context.Context, op string, fn func() error) error {
	return backoff.RetryNotify(fn, backoff.WithContext(g.newBackOff(), ctx), func(err error, wait time.Duration) {
		g.logger.Warn("invoice request failed, retrying",
			zap.String("op", op),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
}

// sameJSON compares two JSON documents structurally. Stored snapshots come
// back from JSONB with keys reordered and whitespace changed.
func sameJSON(a, b []byte) bool {
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}
