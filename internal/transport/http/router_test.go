package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/service"
)

type dispatcherMock struct {
	events  []domain.MessageCreated
	outcome service.Outcome
}

func (d *dispatcherMock) Dispatch(ctx context.Context, evt domain.MessageCreated) service.Outcome {
	d.events = append(d.events, evt)
	return d.outcome
}

type viewingMock struct {
	set     map[string]string
	cleared []string
	err     error
}

func (v *viewingMock) SetViewing(ctx context.Context, userID, conversationID string) error {
	if v.err != nil {
		return v.err
	}
	if v.set == nil {
		v.set = map[string]string{}
	}
	v.set[userID] = conversationID
	return nil
}

func (v *viewingMock) ClearViewing(ctx context.Context, userID, conversationID string) error {
	v.cleared = append(v.cleared, userID+"/"+conversationID)
	return v.err
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMessageCreated(t *testing.T) {
	d := &dispatcherMock{outcome: service.OutcomeDelivered}
	h := NewRouter(d, nil)

	rec := do(t, h, http.MethodPost, "/v1/events/message-created",
		`{"conversationId":"c1","messageId":"m1","message":{"senderId":"A","text":"Hello"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp MessageCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "delivered", resp.Outcome)
	require.Len(t, d.events, 1)
	assert.Equal(t, "A", d.events[0].Message.SenderID)
}

func TestMessageCreated_NoSnapshotIsPassedThrough(t *testing.T) {
	d := &dispatcherMock{outcome: service.OutcomeSkippedNoData}
	rec := do(t, NewRouter(d, nil), http.MethodPost, "/v1/events/message-created", `{"conversationId":"c1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, d.events, 1)
	assert.Nil(t, d.events[0].Message)
}

func TestMessageCreated_BadRequests(t *testing.T) {
	d := &dispatcherMock{}
	h := NewRouter(d, nil)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/v1/events/message-created", `{`).Code)

	rec := do(t, h, http.MethodPost, "/v1/events/message-created", `{"messageId":"m1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ConversationID is required")
	assert.Empty(t, d.events)
}

func TestViewingRoutes(t *testing.T) {
	v := &viewingMock{}
	h := NewRouter(&dispatcherMock{}, v)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPut, "/v1/users/B/viewing/c1", "").Code)
	assert.Equal(t, "c1", v.set["B"])

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/v1/users/B/viewing/c1", "").Code)
	assert.Equal(t, []string{"B/c1"}, v.cleared)

	v.err = errors.New("redis down")
	assert.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodPut, "/v1/users/B/viewing/c1", "").Code)
}

func TestViewingRoutesDisabledWithoutStore(t *testing.T) {
	h := NewRouter(&dispatcherMock{}, nil)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/v1/users/B/viewing/c1", "").Code)
}

func TestHealthzAndMetrics(t *testing.T) {
	h := NewRouter(&dispatcherMock{}, nil)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestMetricsUseRoutePattern(t *testing.T) {
	h := NewRouter(&dispatcherMock{}, &viewingMock{})
	before := testutil.ToFloat64(httpRequests.WithLabelValues("/v1/users/{userID}/viewing/{conversationID}", http.MethodPut, "204"))

	do(t, h, http.MethodPut, "/v1/users/U1/viewing/c1", "")
	do(t, h, http.MethodPut, "/v1/users/U2/viewing/c2", "")

	after := testutil.ToFloat64(httpRequests.WithLabelValues("/v1/users/{userID}/viewing/{conversationID}", http.MethodPut, "204"))
	assert.Equal(t, 2.0, after-before)
	assert.Equal(t, 0.0, testutil.ToFloat64(httpInFlight))
}
