// Package tracking reads ad attribution identifiers and generates the event id
// shared by the lead record and the Lead conversion event.
package tracking

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	BrowserIDCookie = "_fbp"
	ClickIDCookie   = "_fbc"
	ClickIDParam    = "fbclid"
)

var newRandomUUID = uuid.NewRandom

// NewEventID returns a random UUID, or "<unix millis>-<random>" when the
// system randomness source fails.
func NewEventID(now time.Time) string {
	id, err := newRandomUUID()
	if err == nil {
		return id.String()
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), strconv.FormatFloat(rand.Float64(), 'f', -1, 64))
}

// Attribution holds the browser and click identifiers, empty when absent.
type Attribution struct {
	FBP string
	FBC string
}

// FromRequest reads _fbp and _fbc from the request cookies. A missing _fbc is
// left empty for the caller to synthesize with ClickID.
func FromRequest(r *http.Request) Attribution {
	return Attribution{
		FBP: cookie(r, BrowserIDCookie),
		FBC: cookie(r, ClickIDCookie),
	}
}

// ClickID formats fbclid the way the pixel stores it in _fbc.
func ClickID(fbclid string, now time.Time) string {
	if fbclid == "" {
		return ""
	}
	return fmt.Sprintf("fb.1.%d.%s", now.UnixMilli(), fbclid)
}

func cookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v, err := url.PathUnescape(c.Value)
	if err != nil {
		return c.Value
	}
	return v
}
