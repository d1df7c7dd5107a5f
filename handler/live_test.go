package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rollcall/core/attendance"
)

func TestLiveFeed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.openSession(t, nil)

	srv := httptest.NewServer(f.api)
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) + "/v1/sessions/" + id.String() + "/live"
	header := http.Header{"Authorization": []string{"Bearer " + f.presenterToken(t)}}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	// Give the server side a moment to register its feed subscription.
	time.Sleep(100 * time.Millisecond)

	rec := f.do(t, "POST", "/v1/claims", "", map[string]any{
		"session_id":  id,
		"code":        f.currentCode(t),
		"claimant_id": "student-7",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var receipt attendance.Receipt
	require.NoError(t, conn.ReadJSON(&receipt))
	assert.Equal(t, id, receipt.SessionID)
	assert.Equal(t, "student-7", receipt.ClaimantID)
}

func TestLiveFeedRequiresAuth(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.openSession(t, nil)

	rec := f.do(t, "GET", "/v1/sessions/"+id.String()+"/live", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
