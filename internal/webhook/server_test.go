// ABOUTME: Tests for the HTTP webhook transport
// ABOUTME: Covers update decoding, secret token check, admin commands, and end-to-end dispatch

package webhook

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/warden/internal/command"
	"github.com/2389/warden/internal/dispatch"
	"github.com/2389/warden/internal/engine"
	"github.com/2389/warden/internal/flood"
	"github.com/2389/warden/internal/links"
	"github.com/2389/warden/internal/store"
)

// captureActuator records every platform call for assertions.
type captureActuator struct {
	calls []string
}

func (c *captureActuator) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	c.calls = append(c.calls, fmt.Sprintf("delete %d/%d", chatID, messageID))
	return nil
}

func (c *captureActuator) RestrictUser(ctx context.Context, chatID, userID int64, duration time.Duration) error {
	c.calls = append(c.calls, fmt.Sprintf("restrict %d/%d", chatID, userID))
	return nil
}

func (c *captureActuator) SendLog(ctx context.Context, chatID int64, text string) error {
	c.calls = append(c.calls, fmt.Sprintf("log %d: %s", chatID, text))
	return nil
}

func newTestServer(t *testing.T, secret string) (*httptest.Server, *captureActuator, *store.MockStore) {
	t.Helper()

	s := store.NewMockStore()
	tracker := flood.NewTracker(time.Hour)
	t.Cleanup(tracker.Close)

	eng := engine.New(s, s, tracker, links.NewMatcher(s))
	act := &captureActuator{}
	srv := NewServer(eng, dispatch.New(act), command.NewHandler(s), act,
		StaticAdminResolver{99: true}, secret)

	mux := http.NewServeMux()
	srv.Routes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return ts, act, s
}

func postUpdate(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(ts.URL+"/webhook", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleUpdate_LinkDeleted(t *testing.T) {
	ts, act, _ := newTestServer(t, "")

	resp := postUpdate(t, ts, `{
		"update_id": 1,
		"message": {
			"message_id": 50,
			"from": {"id": 7, "username": "mallory"},
			"chat": {"id": 10, "type": "supergroup"},
			"date": 1000,
			"text": "see http://evil.com"
		}
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{
		"delete 10/50",
		"log 10: Deleted link from mallory",
	}, act.calls)
}

func TestHandleUpdate_JoinRecorded(t *testing.T) {
	ts, act, s := newTestServer(t, "")

	resp := postUpdate(t, ts, `{
		"update_id": 2,
		"message": {
			"message_id": 51,
			"chat": {"id": 10, "type": "supergroup"},
			"date": 2000,
			"new_chat_members": [{"id": 7}, {"id": 8, "is_bot": true}]
		}
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, act.calls)

	joinedAt, ok, err := s.GetJoinTime(context.Background(), 10, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2000), joinedAt)

	// Bots are not tracked
	_, ok, err = s.GetJoinTime(context.Background(), 10, 8)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandleUpdate_AdminCommand(t *testing.T) {
	ts, act, s := newTestServer(t, "")

	resp := postUpdate(t, ts, `{
		"update_id": 3,
		"message": {
			"message_id": 52,
			"from": {"id": 99, "username": "admin"},
			"chat": {"id": 10, "type": "supergroup"},
			"date": 3000,
			"text": "/antilinks off"
		}
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"log 10: antilinks off"}, act.calls)

	cs, err := s.GetOrCreate(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, cs.AntiLinks)
}

func TestHandleUpdate_NonAdminCommandIgnored(t *testing.T) {
	ts, act, s := newTestServer(t, "")

	resp := postUpdate(t, ts, `{
		"update_id": 4,
		"message": {
			"message_id": 53,
			"from": {"id": 7},
			"chat": {"id": 10, "type": "supergroup"},
			"date": 4000,
			"text": "/antilinks off"
		}
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, act.calls)

	cs, err := s.GetOrCreate(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, cs.AntiLinks)
}

func TestHandleUpdate_AdminMessageAllowed(t *testing.T) {
	ts, act, _ := newTestServer(t, "")

	resp := postUpdate(t, ts, `{
		"update_id": 5,
		"message": {
			"message_id": 54,
			"from": {"id": 99},
			"chat": {"id": 10, "type": "supergroup"},
			"date": 5000,
			"text": "http://evil.com is fine when I post it"
		}
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, act.calls)
}

func TestHandleUpdate_CaptionModerated(t *testing.T) {
	ts, act, _ := newTestServer(t, "")

	resp := postUpdate(t, ts, `{
		"update_id": 6,
		"message": {
			"message_id": 55,
			"from": {"id": 7},
			"chat": {"id": 10, "type": "supergroup"},
			"date": 6000,
			"caption": "http://evil.com",
			"photo": [{"file_id": "abc"}]
		}
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, act.calls)
	assert.Equal(t, "delete 10/55", act.calls[0])
}

func TestHandleUpdate_MalformedJSON(t *testing.T) {
	ts, _, _ := newTestServer(t, "")

	resp := postUpdate(t, ts, `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleUpdate_EmptyUpdate(t *testing.T) {
	ts, act, _ := newTestServer(t, "")

	resp := postUpdate(t, ts, `{"update_id": 7}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, act.calls)
}

func TestHandleUpdate_SecretToken(t *testing.T) {
	ts, _, _ := newTestServer(t, "hunter2")

	// Missing token is rejected
	resp := postUpdate(t, ts, `{"update_id": 8}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Correct token passes
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/webhook", strings.NewReader(`{"update_id": 9}`))
	require.NoError(t, err)
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "hunter2")

	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestHealth(t *testing.T) {
	ts, _, _ := newTestServer(t, "")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
