package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napatsri/sugartrack-server/internal/api/testutils"
)

func TestTestSingleReminder(t *testing.T) {
	testCtx := testutils.SetupTestContext(t, nil)

	// Test case 1: one push to the requested recipient
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/test-single-reminder", map[string]string{
		"userId": "U1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, testutils.DecodeBody(t, w)["success"])

	calls := testCtx.Sender.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "U1", calls[0].To)
	assert.Contains(t, calls[0].Text, "นัดทดสอบระบบ")

	// Test case 2: missing userId
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/test-single-reminder", map[string]string{})
	assert.Equal(t, http.StatusOK, w.Code)
	body := testutils.DecodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "userId is required", body["message"])
	assert.Len(t, testCtx.Sender.Calls(), 1)
}

func TestTestReminder(t *testing.T) {
	testCtx := testutils.SetupTestContext(t, nil)

	// No appointments tomorrow, so the run succeeds without dispatching
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/test-reminder", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, testutils.DecodeBody(t, w)["success"])
	assert.Empty(t, testCtx.Sender.Calls())
}

func TestWebhookAck(t *testing.T) {
	testCtx := testutils.SetupTestContext(t, nil)

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/webhook", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
