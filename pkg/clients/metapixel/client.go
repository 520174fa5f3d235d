package metapixel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/phone"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/utils"
)

// LeadEventName is the standard conversion event fired for a captured lead
const LeadEventName = "Lead"

var tracer = otel.Tracer("cbs.pkg.clients.metapixel")

// Tracker defines the interface for firing conversion events
type Tracker interface {
	TrackLead(ctx context.Context, event LeadEvent) error
}

// LeadEvent carries the de-duplication id shared with the lead record plus
// the visitor identifiers the ad platform matches on
type LeadEvent struct {
	EventID   string
	Email     string
	Phone     string
	FBP       string
	FBC       string
	ClientIP  string
	UserAgent string
	SourceURL string
	Value     float64
	Currency  string
	Time      time.Time
}

type clientImpl struct {
	graphURL    string
	pixelID     string
	accessToken string
	testCode    string
	httpClient  *http.Client
}

// NewClient creates a Conversions API client for one pixel
func NewClient(graphURL, pixelID, accessToken, testCode string) Tracker {
	return &clientImpl{
		graphURL:    strings.TrimRight(graphURL, "/"),
		pixelID:     pixelID,
		accessToken: accessToken,
		testCode:    testCode,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type userData struct {
	Email     []string `json:"em,omitempty"`
	Phone     []string `json:"ph,omitempty"`
	FBP       string   `json:"fbp,omitempty"`
	FBC       string   `json:"fbc,omitempty"`
	ClientIP  string   `json:"client_ip_address,omitempty"`
	UserAgent string   `json:"client_user_agent,omitempty"`
}

type customData struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

type serverEvent struct {
	EventName      string     `json:"event_name"`
	EventTime      int64      `json:"event_time"`
	EventID        string     `json:"event_id"`
	ActionSource   string     `json:"action_source"`
	EventSourceURL string     `json:"event_source_url,omitempty"`
	UserData       userData   `json:"user_data"`
	CustomData     customData `json:"custom_data"`
}

type eventsRequest struct {
	Data          []serverEvent `json:"data"`
	TestEventCode string        `json:"test_event_code,omitempty"`
}

func (c *clientImpl) TrackLead(ctx context.Context, event LeadEvent) error {
	ctx, span := tracer.Start(ctx, "metapixel.track_lead", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("cbs.event_id", event.EventID))

	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	if event.Currency == "" {
		event.Currency = "BRL"
	}

	ud := userData{
		FBP:       event.FBP,
		FBC:       event.FBC,
		ClientIP:  event.ClientIP,
		UserAgent: event.UserAgent,
	}
	if h := utils.HashEmail(event.Email); h != "" {
		ud.Email = []string{h}
	}
	if h := utils.HashPhone(phone.Digits(event.Phone), "55"); h != "" {
		ud.Phone = []string{h}
	}

	payload := eventsRequest{
		Data: []serverEvent{{
			EventName:      LeadEventName,
			EventTime:      event.Time.Unix(),
			EventID:        event.EventID,
			ActionSource:   "website",
			EventSourceURL: event.SourceURL,
			UserData:       ud,
			CustomData:     customData{Value: event.Value, Currency: event.Currency},
		}},
		TestEventCode: c.testCode,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/events?access_token=%s", c.graphURL, url.PathEscape(c.pixelID), url.QueryEscape(c.accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("error sending conversion event: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", resp.StatusCode))
		return fmt.Errorf("error from Conversions API: %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
