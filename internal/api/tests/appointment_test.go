package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napatsri/sugartrack-server/internal/api/testutils"
)

func TestRecordAppointment(t *testing.T) {
	testCtx := testutils.SetupTestContext(t, nil)

	appointment := map[string]string{
		"userId": "U1",
		"date":   "2025-09-20",
		"time":   "14:30",
		"note":   "ตรวจเบาหวาน",
	}

	// Test case 1: successful booking
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/appointment", appointment)
	assert.Equal(t, http.StatusOK, w.Code)
	body := testutils.DecodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "บันทึกการนัดหมายเรียบร้อย", body["message"])

	rows := testCtx.Store.Rows("DoctorAppointments")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"U1", "2025-09-20", "14:30", "ตรวจเบาหวาน"}, rows[1])

	// Test case 2: same user, date and time
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/appointment", appointment)
	assert.Equal(t, http.StatusOK, w.Code)
	body = testutils.DecodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "คุณได้บันทึกนัดนี้แล้ว", body["message"])
	assert.Len(t, testCtx.Store.Rows("DoctorAppointments"), 2)

	// Test case 3: same slot for another user is allowed
	appointment["userId"] = "U2"
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/appointment", appointment)
	assert.Equal(t, true, testutils.DecodeBody(t, w)["success"])
	assert.Len(t, testCtx.Store.Rows("DoctorAppointments"), 3)

	// Test case 4: missing date
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/appointment", map[string]string{
		"userId": "U1",
		"time":   "14:30",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body = testutils.DecodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "กรุณากรอกวันและเวลา", body["message"])
}

func TestAppointmentRecords(t *testing.T) {
	tables := testutils.Tables()
	for i := 1; i <= 15; i++ {
		tables["DoctorAppointments"] = append(tables["DoctorAppointments"],
			[]string{"U1", fmt.Sprintf("2025-09-%02d", i), "09:00", ""})
	}
	testCtx := testutils.SetupTestContext(t, tables)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/appointment/records?userId=U1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := testutils.DecodeBody(t, w)
	assert.Equal(t, true, body["success"])
	appointments := body["appointments"].([]interface{})
	require.Len(t, appointments, 12)

	// Newest first
	first := appointments[0].(map[string]interface{})
	assert.Equal(t, "2025-09-15", first["date"])

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["totalPages"])
	assert.Equal(t, float64(15), pagination["totalRecords"])

	// Missing userId
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/appointment/records", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentsLegacyListing(t *testing.T) {
	tables := testutils.Tables()
	tables["DoctorAppointments"] = append(tables["DoctorAppointments"],
		[]string{"U1", "2025-09-20", "14:30", "ตรวจเบาหวาน"},
		[]string{"U1", "2025-09-18", "09:00", ""},
		[]string{"U2", "2025-09-19", "10:00", ""},
	)
	testCtx := testutils.SetupTestContext(t, tables)

	// Test case 1: unpaginated listing, newest first
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/appointment?userId=U1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := testutils.DecodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["totalRecords"])

	appointments := body["appointments"].([]interface{})
	require.Len(t, appointments, 2)
	assert.Equal(t, "2025-09-20", appointments[0].(map[string]interface{})["date"])
	assert.Equal(t, "2025-09-18", appointments[1].(map[string]interface{})["date"])

	// Test case 2: a page parameter redirects to the paginated route
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/appointment?userId=U1&page=2", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/appointment/records?userId=U1&page=2&limit=12", w.Header().Get("Location"))

	// Test case 3: missing userId
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/appointment", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
