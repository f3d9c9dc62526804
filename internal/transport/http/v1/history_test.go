package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthNeedsNoToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestBearerAuthRequired(t *testing.T) {
	e, st := newTestServer(t)
	seedHistory(t, st)

	rec := doRequest(e, http.MethodGet, "/v1/chat/history/jordan", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodGet, "/v1/chat/history/jordan", "wrong-key")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetLatestHistory(t *testing.T) {
	e, st := newTestServer(t)
	u, _ := seedHistory(t, st)

	rec := get(e, "/v1/chat/history/"+u.FullName)
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, u.FullName, body[0]["sender"])
	assert.Equal(t, "hello", body[0]["message"])
	assert.Equal(t, "user", body[0]["messageType"])
	assert.Equal(t, "dashboard", body[0]["currentPage"])
	assert.Equal(t, "bot", body[1]["messageType"])
}

func TestGetLatestHistoryUnknownUser(t *testing.T) {
	e, _ := newTestServer(t)

	rec := get(e, "/v1/chat/history/Nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLatestHistoryNoSessions(t *testing.T) {
	e, st := newTestServer(t)
	createTestOnlyUser(t, st)

	rec := get(e, "/v1/chat/history/fresh")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body)
}

func TestGetSessions(t *testing.T) {
	e, st := newTestServer(t)
	u, open := seedHistory(t, st)

	rec := get(e, "/v1/chat/sessions/"+u.FullName)
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)

	// Newest first: the open session with its two messages leads.
	assert.Equal(t, float64(open.SessionID), body[0]["sessionId"])
	assert.Equal(t, float64(2), body[0]["messageCount"])
	assert.NotNil(t, body[0]["lastMessageAt"])
	assert.Nil(t, body[0]["sessionEnd"])

	assert.Equal(t, float64(0), body[1]["messageCount"])
	assert.NotNil(t, body[1]["sessionEnd"])
}

func TestGetSessionsUnknownUser(t *testing.T) {
	e, _ := newTestServer(t)

	rec := get(e, "/v1/chat/sessions/Nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSessionMessages(t *testing.T) {
	e, st := newTestServer(t)
	_, open := seedHistory(t, st)

	rec := get(e, fmt.Sprintf("/v1/chat/session-messages/%d", open.SessionID))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(open.SessionID), body["sessionId"])

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestGetSessionMessagesBadID(t *testing.T) {
	e, _ := newTestServer(t)

	rec := get(e, "/v1/chat/session-messages/not-a-number")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSessionMessagesNotFound(t *testing.T) {
	e, _ := newTestServer(t)

	rec := get(e, "/v1/chat/session-messages/9999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReloadMenu(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/v1/menu/reload", testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["ok"])
}
