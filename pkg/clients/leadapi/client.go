package leadapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/models"
)

// ErrUnreachable wraps failures where no HTTP response came back
var ErrUnreachable = errors.New("lead endpoint unreachable")

var tracer = otel.Tracer("cbs.pkg.clients.leadapi")

// Client defines the interface for delivering leads to the remote endpoint
type Client interface {
	SendLead(ctx context.Context, lead models.LeadSubmission) (Response, error)
}

// Response is the part of the endpoint reply the landing flow cares about
type Response struct {
	StatusCode int
}

// OK reports a 2xx status
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type clientImpl struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new leads endpoint client. A zero timeout leaves the
// request unbounded apart from ctx.
func NewClient(endpoint string, timeout time.Duration) Client {
	return NewClientWithHTTP(endpoint, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client on top of an existing http.Client
func NewClientWithHTTP(endpoint string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &clientImpl{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// SendLead posts the lead as JSON. Any HTTP response, 2xx or not, is returned
// without error; only transport failures produce ErrUnreachable.
func (c *clientImpl) SendLead(ctx context.Context, lead models.LeadSubmission) (Response, error) {
	ctx, span := tracer.Start(ctx, "leadapi.send_lead", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("cbs.event_id", lead.EventID),
		attribute.String("cbs.source", lead.Source),
	)

	jsonPayload, err := json.Marshal(lead)
	if err != nil {
		return Response{}, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return Response{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Response{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	// body is ignored, drained so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	out := Response{StatusCode: resp.StatusCode}
	if !out.OK() {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", resp.StatusCode))
	}
	return out, nil
}
