package metapixel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/utils"
)

func TestTrackLeadSendsServerEvent(t *testing.T) {
	var path, token string
	var got eventsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		token = r.URL.Query().Get("access_token")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"events_received":1}`))
	}))
	defer server.Close()

	tracker := NewClient(server.URL+"/", "98765", "secret token", "TEST1")
	err := tracker.TrackLead(context.Background(), LeadEvent{
		EventID:   "evt-1",
		Email:     " M@X.com",
		Phone:     "(11) 98765-4321",
		FBP:       "fb.1.1.2",
		UserAgent: "test-agent",
		Time:      time.Unix(1760000000, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, "/98765/events", path)
	assert.Equal(t, "secret token", token)
	assert.Equal(t, "TEST1", got.TestEventCode)
	require.Len(t, got.Data, 1)

	ev := got.Data[0]
	assert.Equal(t, "Lead", ev.EventName)
	assert.Equal(t, "evt-1", ev.EventID)
	assert.Equal(t, int64(1760000000), ev.EventTime)
	assert.Equal(t, "website", ev.ActionSource)
	assert.Equal(t, customData{Value: 0, Currency: "BRL"}, ev.CustomData)
	assert.Equal(t, []string{utils.HashString("m@x.com")}, ev.UserData.Email)
	assert.Equal(t, []string{utils.HashString("5511987654321")}, ev.UserData.Phone)
	assert.Equal(t, "fb.1.1.2", ev.UserData.FBP)
	assert.Empty(t, ev.UserData.FBC)
}

func TestTrackLeadReportsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid parameter"}}`))
	}))
	defer server.Close()

	err := NewClient(server.URL, "1", "t", "").TrackLead(context.Background(), LeadEvent{EventID: "evt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid parameter")
}
