package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/imroc/req/v3"

	"github.com/hamed0406/demodash/internal/config"
	"github.com/hamed0406/demodash/internal/domain"
)

const (
	healthPath = "/health"
	dataPath   = "/api/data"

	HeaderRequestID = "X-Request-ID"
	userAgent       = "demodash/1.0"
)

// Client talks to the configured backend. Every call is a single attempt
// bounded by the configured timeout; failures come back as result values.
type Client struct {
	http     *req.Client
	baseURL  string
	timeout  time.Duration
	maxBytes int
}

func NewClient(cfg config.Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc := req.C().
		SetBaseURL(cfg.BackendURL).
		SetTimeout(timeout).
		SetUserAgent(userAgent).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)

	return &Client{
		http:     hc,
		baseURL:  cfg.BackendURL,
		timeout:  timeout,
		maxBytes: cfg.MaxDocumentBytes,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Timeout() time.Duration { return c.timeout }

// CheckHealth issues GET {base}/health.
func (c *Client) CheckHealth(ctx context.Context) domain.HealthResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, uuid.NewString()).
		Get(healthPath)
	if err != nil {
		return domain.Unreachable(err.Error()).Timed(start)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ServerError(resp.StatusCode).Timed(start)
	}
	if !IsJSONContentType(resp.Header.Get("Content-Type")) {
		return domain.ReachableUnknown().Timed(start)
	}

	v, err := decodeStrict(resp.Bytes())
	if err != nil {
		return domain.ReachableUnknown().Timed(start)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return domain.ReachableUnknown().Timed(start)
	}
	return domain.Reachable(domain.Document(m)).Timed(start)
}

// SubmitText parses user text with ParseDocument and submits it. Text that
// does not parse yields an Invalid result without touching the network.
func (c *Client) SubmitText(ctx context.Context, text string) domain.SubmissionResult {
	doc, err := ParseDocument(text, c.maxBytes)
	if err != nil {
		return domain.Invalid(err.Error())
	}
	return c.SubmitData(ctx, doc)
}

// SubmitData issues POST {base}/api/data with doc as the JSON body.
// Numbers in an Accepted body are json.Number values, so an echoed document
// equals NormalizeDocument(doc) rather than a natively built doc.
func (c *Client) SubmitData(ctx context.Context, doc domain.Document) domain.SubmissionResult {
	_, body, err := NormalizeDocument(doc)
	if err != nil {
		return domain.Invalid(err.Error())
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, uuid.NewString()).
		SetBodyJsonBytes(body).
		Post(dataPath)
	if err != nil {
		return domain.Failed(err.Error()).Timed(start)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Rejected(resp.StatusCode).Timed(start)
	}

	out, err := decodeBody(resp.Bytes())
	if err != nil {
		return domain.Failed(fmt.Sprintf("decode response: %v", err)).Timed(start)
	}
	return domain.Accepted(out).Timed(start)
}
