// Package remote annotates text with an HTTP annotation service. The service
// receives {"text": "..."} and answers with a doc in the corpus JSON format.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/revelaction/mindmap/parser"
	sent "github.com/revelaction/mindmap/sentence"
)

const maxResponseBytes = 32 << 20

// maxErrorBody is the number of bytes of a failed response kept in a
// StatusError.
const maxErrorBody = 200

// Config configures the client.
type Config struct {
	URL string

	// Timeout bounds a single request. Zero means 30s.
	Timeout time.Duration

	// RateLimit is the maximum number of requests per second, Burst the
	// number of requests allowed at once. Zero RateLimit disables limiting.
	RateLimit float64
	Burst     int

	// FailureThreshold is the failure ratio that opens the breaker once
	// MinRequests requests were seen. The breaker half-opens after
	// OpenTimeout.
	FailureThreshold float64
	MinRequests      uint32
	OpenTimeout      time.Duration
}

// DefaultConfig returns a default configuration for url.
func DefaultConfig(url string) Config {
	return Config{
		URL:              url,
		Timeout:          30 * time.Second,
		RateLimit:        10,
		Burst:            5,
		FailureThreshold: 0.6,
		MinRequests:      5,
		OpenTimeout:      30 * time.Second,
	}
}

// StatusError is returned for non 2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("annotation service returned %d: %s", e.Code, e.Body)
}

// Parser is safe for concurrent use.
type Parser struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ parser.Parser = (*Parser)(nil)

func New(cfg Config, logger *zap.Logger) (*Parser, error) {
	if cfg.URL == "" {
		return nil, errors.New("remote parser: empty url")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	p := &Parser{
		url:     cfg.URL,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger,
	}

	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "annotation-service",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.MinRequests == 0 || counts.Requests < cfg.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// the service rejecting the text is not a service failure
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.Code < 500
			}
			return err == nil
		},
	})

	return p, nil
}

type request struct {
	Text string `json:"text"`
}

// Parse posts the text to the service.
func (p *Parser) Parse(ctx context.Context, text string) (sent.Doc, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return sent.Doc{}, fmt.Errorf("rate limiter: %w", err)
	}

	res, err := p.breaker.Execute(func() (interface{}, error) {
		return p.post(ctx, text)
	})
	if err != nil {
		return sent.Doc{}, err
	}

	doc := res.(sent.Doc)
	if err := doc.Validate(); err != nil {
		return sent.Doc{}, fmt.Errorf("invalid annotation: %w", err)
	}

	return doc, nil
}

func (p *Parser) post(ctx context.Context, text string) (sent.Doc, error) {
	body, err := json.Marshal(request{Text: text})
	if err != nil {
		return sent.Doc{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return sent.Doc{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("calling annotation service: %w", err)
	}
	defer resp.Body.Close()

	p.logger.Debug("annotation request",
		zap.Int("status", resp.StatusCode),
		zap.Int("chars", len(text)),
		zap.Duration("duration", time.Since(start)),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return sent.Doc{}, fmt.Errorf("reading annotation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return sent.Doc{}, &StatusError{Code: resp.StatusCode, Body: truncate(string(data), maxErrorBody)}
	}

	var doc sent.Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return sent.Doc{}, fmt.Errorf("decoding annotation response: %w", err)
	}

	doc.Text = text
	return doc, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
