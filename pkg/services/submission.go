package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/clients/leadapi"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/clients/metapixel"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/config"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/logging"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/metrics"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/models"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/phone"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/tracking"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/utils"
)

// SubmissionRequest is one form post plus the request context the lead and
// conversion event need
type SubmissionRequest struct {
	Form        models.LandingForm
	Attribution tracking.Attribution
	ClientIP    string
	UserAgent   string
	SourceURL   string
}

// SubmissionResult describes where the visitor goes next. RedirectURL is
// empty when the flow ends without navigating.
type SubmissionResult struct {
	Validation  models.ValidationResult
	EventID     string
	Delivered   bool
	Saved       bool
	Query       string
	RedirectURL string
}

// LandingSubmissionService defines the interface for handling form submissions
type LandingSubmissionService interface {
	Submit(ctx context.Context, req SubmissionRequest) (SubmissionResult, error)
}

type landingSubmissionServiceImpl struct {
	leadClient leadapi.Client
	tracker    metapixel.Tracker
	guard      SubmissionGuard
	metrics    *metrics.LeadMetrics
	logger     *logging.Logger
	config     *config.Config
	now        func() time.Time
}

// NewLandingSubmissionService creates a new submission service. tracker may be
// nil when no conversion event is configured.
func NewLandingSubmissionService(
	leadClient leadapi.Client,
	tracker metapixel.Tracker,
	guard SubmissionGuard,
	m *metrics.LeadMetrics,
	logger *logging.Logger,
	config *config.Config,
) LandingSubmissionService {
	if guard == nil {
		guard = NewMemoryGuard(config.GuardTTL)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &landingSubmissionServiceImpl{
		leadClient: leadClient,
		tracker:    tracker,
		guard:      guard,
		metrics:    m,
		logger:     logger,
		config:     config,
		now:        time.Now,
	}
}

// Submit validates the form, delivers the lead once and builds the redirect
// to the pending page
func (s *landingSubmissionServiceImpl) Submit(ctx context.Context, req SubmissionRequest) (SubmissionResult, error) {
	form := req.Form.Trimmed()

	if v := form.Validate(); !v.OK() {
		s.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		return SubmissionResult{Validation: v}, nil
	}

	guardKey := phone.Digits(form.Phone)
	log := s.logger.With("phone_hash", utils.ShortHash(guardKey))

	acquired, err := s.guard.Acquire(ctx, guardKey)
	if err != nil {
		// a broken guard must not lose the lead
		log.Warn("submission guard unavailable", "error", err)
	} else if !acquired {
		s.metrics.ObserveSubmission(metrics.OutcomeDuplicate)
		return SubmissionResult{}, ErrSubmissionInFlight
	} else {
		defer func() {
			// released on a fresh context so a cancelled request still unlocks
			if err := s.guard.Release(context.WithoutCancel(ctx), guardKey); err != nil {
				log.Warn("release submission guard", "error", err)
			}
		}()
	}

	now := s.now()
	eventID := tracking.NewEventID(now)
	attribution := req.Attribution
	if attribution.FBC == "" {
		attribution.FBC = tracking.ClickID(form.Fbclid, now)
	}
	lead := models.NewLeadSubmission(form, s.config.LeadSource, eventID, attribution.FBP, attribution.FBC)
	log = log.With("event_id", eventID)

	started := time.Now()
	resp, err := s.leadClient.SendLead(ctx, lead)
	s.metrics.ObserveUpstreamLatency(time.Since(started).Seconds())

	if err != nil {
		s.metrics.ObserveSubmission(metrics.OutcomeUnreachable)
		query := PendingQuery(s.config.WhatsAppURL, form, false, eventID)
		log.Warn("lead endpoint unreachable", "error", err, "query", query)

		result := SubmissionResult{EventID: eventID, Query: query}
		if s.config.RedirectOnNetworkFailure {
			result.RedirectURL = s.pendingURL(query)
		}
		return result, nil
	}

	if resp.OK() {
		s.metrics.ObserveSubmission(metrics.OutcomeSaved)
		log.Info("lead saved", "status", resp.StatusCode)
	} else {
		s.metrics.ObserveSubmission(metrics.OutcomeRejected)
		log.Warn("lead endpoint rejected submission", "status", resp.StatusCode)
	}

	s.trackLead(ctx, log, req, form, attribution, eventID, now)

	query := PendingQuery(s.config.WhatsAppURL, form, resp.OK(), eventID)
	return SubmissionResult{
		EventID:     eventID,
		Delivered:   true,
		Saved:       resp.OK(),
		Query:       query,
		RedirectURL: s.pendingURL(query),
	}, nil
}

func (s *landingSubmissionServiceImpl) trackLead(
	ctx context.Context,
	log *logging.Logger,
	req SubmissionRequest,
	form models.LandingForm,
	attribution tracking.Attribution,
	eventID string,
	now time.Time,
) {
	if s.tracker == nil {
		return
	}
	err := s.tracker.TrackLead(ctx, metapixel.LeadEvent{
		EventID:   eventID,
		Email:     form.Email,
		Phone:     form.Phone,
		FBP:       attribution.FBP,
		FBC:       attribution.FBC,
		ClientIP:  req.ClientIP,
		UserAgent: req.UserAgent,
		SourceURL: req.SourceURL,
		Value:     0,
		Currency:  "BRL",
		Time:      now,
	})
	s.metrics.ObservePixel(err == nil)
	if err != nil {
		log.Warn("error firing lead conversion event", "error", err)
	}
}

func (s *landingSubmissionServiceImpl) pendingURL(query string) string {
	return s.config.PendingPath + "?" + query
}

// PendingQuery encodes the pending page parameters in their fixed order
func PendingQuery(whatsAppURL string, form models.LandingForm, saved bool, eventID string) string {
	flag := "0"
	if saved {
		flag = "1"
	}
	params := [][2]string{
		{"g", whatsAppURL},
		{"nome", form.Name},
		{"email", form.Email},
		{"telefone", form.Phone},
		{"saved", flag},
		{"eventId", eventID},
	}

	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}
