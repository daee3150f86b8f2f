package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/napatsri/sugartrack-server/internal/api"
	"github.com/napatsri/sugartrack-server/internal/reminder"
	"github.com/napatsri/sugartrack-server/internal/repository"
	"github.com/napatsri/sugartrack-server/internal/service"
	"github.com/napatsri/sugartrack-server/internal/utils"
)

// TestContext holds all dependencies for API tests
type TestContext struct {
	Router  *gin.Engine
	Store   *repository.MemoryStore
	Sender  *RecordingSender
	Service service.Service
}

// PushCall is one recorded notification dispatch
type PushCall struct {
	To   string
	Text string
}

// RecordingSender is a reminder.Sender that records every push
type RecordingSender struct {
	mu    sync.Mutex
	calls []PushCall
}

func (s *RecordingSender) Push(ctx context.Context, to, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, PushCall{To: to, Text: text})
	return nil
}

// Calls returns a copy of the recorded pushes
func (s *RecordingSender) Calls() []PushCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PushCall(nil), s.calls...)
}

// Tables returns the four record tables seeded with their header rows
func Tables() map[string][][]string {
	return map[string][][]string{
		"Users":              {{"userId", "firstName", "lastName", "gender", "birthDay", "age"}},
		"SugarRecords":       {{"userId", "sugar", "type", "period", "date"}},
		"MedicationLogs":     {{"userId", "date", "timeOfDay", "mealRelation", "status", "logTime"}},
		"DoctorAppointments": {{"userId", "date", "time", "note"}},
	}
}

// SetupTestContext builds a router over an in-memory row store
func SetupTestContext(t *testing.T, tables map[string][][]string) *TestContext {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if tables == nil {
		tables = Tables()
	}

	store := repository.NewMemoryStore(tables)
	loc := time.FixedZone("ICT", 7*60*60)
	svc := service.NewDefaultService(store, loc)

	sender := &RecordingSender{}
	scheduler := reminder.NewScheduler(store, sender, utils.NewComponentLogger("reminder"), loc, 0)

	handler := api.NewHandler(svc, scheduler, "test-spreadsheet", utils.NewLogger())

	router := gin.New()
	handler.SetupRoutes(router)

	return &TestContext{
		Router:  router,
		Store:   store,
		Sender:  sender,
		Service: svc,
	}
}

// PerformRequest executes one request against the router and returns the
// recorded response
func PerformRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeBody unmarshals a JSON response body into a generic map
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// RegisterUser registers a user through the API and asserts success
func RegisterUser(t *testing.T, router *gin.Engine, userID string) {
	t.Helper()
	w := PerformRequest(router, http.MethodPost, "/register", map[string]string{
		"userId":    userID,
		"firstName": "Somchai",
		"lastName":  "Jaidee",
		"gender":    "male",
		"birthDay":  "1970-03-20",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, DecodeBody(t, w)["success"])
}
