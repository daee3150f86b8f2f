package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napatsri/sugartrack-server/internal/api/testutils"
)

func TestRecordMedication(t *testing.T) {
	testCtx := testutils.SetupTestContext(t, nil)

	entry := map[string]interface{}{
		"userId":       "U1",
		"timeOfDay":    "เช้า",
		"mealRelation": "ก่อนอาหาร",
		"status":       "กินแล้ว",
	}

	// Test case 1: unregistered user
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/medication-log", entry)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, true, testutils.DecodeBody(t, w)["notRegistered"])

	// Test case 2: successful write
	testutils.RegisterUser(t, testCtx.Router, "U1")

	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/medication-log", entry)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, testutils.DecodeBody(t, w)["success"])

	rows := testCtx.Store.Rows("MedicationLogs")
	require.Len(t, rows, 2)
	assert.Equal(t, "U1", rows[1][0])
	assert.Equal(t, "เช้า", rows[1][2])
	assert.Equal(t, "กินแล้ว", rows[1][4])

	// Test case 3: repeated entries are never deduplicated
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/medication-log", entry)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testCtx.Store.Rows("MedicationLogs"), 3)

	// Test case 4: missing fields
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/medication-log", map[string]interface{}{
		"userId": "U1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, testutils.DecodeBody(t, w)["success"])
}

func TestMedicationRecords(t *testing.T) {
	tables := testutils.Tables()
	for i := 1; i <= 15; i++ {
		tables["MedicationLogs"] = append(tables["MedicationLogs"],
			[]string{"U1", fmt.Sprintf("%d/8/2025", i), "เช้า", "ก่อนอาหาร", "กินแล้ว", "08:00:00"})
	}
	testCtx := testutils.SetupTestContext(t, tables)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/medication/records?userId=U1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := testutils.DecodeBody(t, w)
	assert.Equal(t, true, body["success"])
	records := body["records"].([]interface{})
	require.Len(t, records, 12)

	// Newest first
	first := records[0].(map[string]interface{})
	assert.Equal(t, "15/8/2025", first["date"])

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["totalPages"])
	assert.Equal(t, float64(15), pagination["totalRecords"])

	// An out-of-range page is clamped to the last one
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/medication/records?userId=U1&page=99", nil)
	body = testutils.DecodeBody(t, w)
	assert.Len(t, body["records"].([]interface{}), 3)
	pagination = body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["currentPage"])

	// Missing userId
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/medication/records", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, testutils.DecodeBody(t, w)["success"])
}
