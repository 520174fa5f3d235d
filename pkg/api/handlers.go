package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/config"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/countdown"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/logging"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/metrics"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/models"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/phone"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/services"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/tracking"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const whatsAppPrefix = "https://chat.whatsapp.com/"

// Templates parses the embedded landing and pending pages
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissionService services.LandingSubmissionService
	countdown         *countdown.Countdown
	metrics           *metrics.LeadMetrics
	logger            *logging.Logger
	config            *config.Config
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	submissionService services.LandingSubmissionService,
	cd *countdown.Countdown,
	m *metrics.LeadMetrics,
	logger *logging.Logger,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		submissionService: submissionService,
		countdown:         cd,
		metrics:           m,
		logger:            logger,
		config:            cfg,
	}
}

// RegisterRoutes mounts every landing route on r
func (h *Handlers) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.LandingPage)
	r.POST("/lead", h.HandleLeadSubmission)
	r.GET("/pendente/index.html", h.PendingPage)
	r.GET("/api/countdown", h.Countdown)
	r.GET("/api/countdown/stream", h.CountdownStream)
	r.GET("/api/phone/format", h.FormatPhone)
	r.GET("/health", h.HealthCheck)
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

type landingView struct {
	Countdown   countdown.Snapshot
	Timezone    string
	Weekday     int
	Hour        int
	Form        models.LandingForm
	Fbclid      string
	Action      string
	Alert       string
	WasmURL     string
	WasmExecURL string
}

func (h *Handlers) renderLanding(c *gin.Context, status int, form models.LandingForm, alert string) {
	fbclid := form.Fbclid
	if fbclid == "" {
		fbclid = c.Query(tracking.ClickIDParam)
	}
	action := "lead"
	if fbclid != "" {
		action += "?" + tracking.ClickIDParam + "=" + url.QueryEscape(fbclid)
	}

	schedule := h.countdown.Schedule()
	timezone := countdown.DefaultTimezone
	if schedule.Location != nil {
		timezone = schedule.Location.String()
	}

	c.HTML(status, "landing.html.tmpl", landingView{
		Countdown:   h.countdown.Current(),
		Timezone:    timezone,
		Weekday:     int(schedule.Weekday),
		Hour:        schedule.Hour,
		Form:        form,
		Fbclid:      fbclid,
		Action:      action,
		Alert:       alert,
		WasmURL:     h.config.WasmURL,
		WasmExecURL: h.config.WasmExecURL,
	})
}

// LandingPage renders the countdown and the lead form
func (h *Handlers) LandingPage(c *gin.Context) {
	h.renderLanding(c, http.StatusOK, models.LandingForm{}, "")
}

type submissionResponse struct {
	Redirect string `json:"redirect"`
	Saved    bool   `json:"saved"`
	EventID  string `json:"eventId"`
	Query    string `json:"query"`
}

// HandleLeadSubmission validates the posted form, delivers the lead and sends
// the visitor to the pending page
func (h *Handlers) HandleLeadSubmission(c *gin.Context) {
	wantsJSON := c.ContentType() == gin.MIMEJSON

	var form models.LandingForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("error binding lead form", "error", err)
		if wantsJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		h.renderLanding(c, http.StatusBadRequest, form, "")
		return
	}

	if strings.TrimSpace(form.Fbclid) == "" {
		// JSON bodies do not pick up the query string
		form.Fbclid = c.Query(tracking.ClickIDParam)
	}

	result, err := h.submissionService.Submit(c.Request.Context(), services.SubmissionRequest{
		Form:        form,
		Attribution: tracking.FromRequest(c.Request),
		ClientIP:    c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		SourceURL:   c.Request.Referer(),
	})
	switch {
	case errors.Is(err, services.ErrSubmissionInFlight):
		if wantsJSON {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.renderLanding(c, http.StatusConflict, form, "")
		return
	case err != nil:
		h.logger.Error("error processing lead submission", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing submission"})
		return
	}

	if !result.Validation.OK() {
		if wantsJSON {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": string(result.Validation)})
			return
		}
		h.renderLanding(c, http.StatusUnprocessableEntity, form, string(result.Validation))
		return
	}

	if wantsJSON {
		c.JSON(http.StatusOK, submissionResponse{
			Redirect: result.RedirectURL,
			Saved:    result.Saved,
			EventID:  result.EventID,
			Query:    result.Query,
		})
		return
	}

	if result.RedirectURL == "" {
		// delivery failed and the flow stays on the landing page
		h.renderLanding(c, http.StatusOK, form, "")
		return
	}
	// set directly so the location stays relative to the landing page
	c.Header("Location", result.RedirectURL)
	c.Status(http.StatusSeeOther)
}

type pendingView struct {
	WhatsAppURL string
	Name        string
	Saved       bool
	EventID     string
}

// PendingPage hands the visitor the WhatsApp invite. Only WhatsApp invite
// links are accepted in g; anything else falls back to the configured group.
func (h *Handlers) PendingPage(c *gin.Context) {
	link := c.Query("g")
	if !strings.HasPrefix(link, whatsAppPrefix) {
		link = h.config.WhatsAppURL
	}

	c.HTML(http.StatusOK, "pending.html.tmpl", pendingView{
		WhatsAppURL: link,
		Name:        c.Query("nome"),
		Saved:       c.Query("saved") == "1",
		EventID:     c.Query("eventId"),
	})
}

// Countdown returns the current remaining time
func (h *Handlers) Countdown(c *gin.Context) {
	c.JSON(http.StatusOK, h.countdown.Current())
}

// CountdownStream pushes a tick event every interval until the client leaves
func (h *Handlers) CountdownStream(c *gin.Context) {
	defer h.metrics.StreamOpened()()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	h.countdown.Run(c.Request.Context(), h.config.TickInterval, func(s countdown.Snapshot) {
		c.SSEvent("tick", s)
		c.Writer.Flush()
	})
}

type formattedPhone struct {
	Value string `json:"value"`
	Caret int    `json:"caret"`
}

// FormatPhone applies the keystroke formatting to value
func (h *Handlers) FormatPhone(c *gin.Context) {
	value := c.Query("value")
	caret := phone.UTF16Len(value)
	if raw := c.Query("caret"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "caret must be an integer"})
			return
		}
		caret = n
	}

	formatted, pos := phone.FormatInput(value, caret)
	c.JSON(http.StatusOK, formattedPhone{Value: formatted, Caret: pos})
}
