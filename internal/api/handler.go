package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/napatsri/sugartrack-server/internal/models"
	"github.com/napatsri/sugartrack-server/internal/reminder"
	"github.com/napatsri/sugartrack-server/internal/repository"
	"github.com/napatsri/sugartrack-server/internal/service"
	"github.com/napatsri/sugartrack-server/internal/utils"
)

// Handler holds the API dependencies
type Handler struct {
	svc           service.Service
	scheduler     *reminder.Scheduler
	spreadsheetID string
	logger        *utils.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, scheduler *reminder.Scheduler, spreadsheetID string, logger *utils.Logger) *Handler {
	return &Handler{
		svc:           svc,
		scheduler:     scheduler,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}
}

// SetupRoutes registers all routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/check-user", h.CheckUser)
	router.GET("/user", h.GetUser)
	router.POST("/register", h.Register)

	router.POST("/sugar", h.RecordSugar)
	// Gin cannot register a static /sugar/records beside the :range
	// wildcard, so one route dispatches both paths.
	router.GET("/sugar/:range", h.SugarRange)

	router.POST("/medication-log", h.RecordMedication)
	router.GET("/medication/records", h.MedicationRecords)

	router.POST("/appointment", h.RecordAppointment)
	router.GET("/appointment", h.Appointments)
	router.GET("/appointment/records", h.AppointmentRecords)

	router.POST("/webhook", h.Webhook)
	router.POST("/test-reminder", h.TestReminder)
	router.POST("/test-single-reminder", h.TestSingleReminder)
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "Sugar Track API is running!",
		"spreadsheet": h.spreadsheetID,
	})
}

func (h *Handler) CheckUser(c *gin.Context) {
	registered, err := h.svc.CheckUser(c.Request.Context(), c.Query("userId"))
	if err != nil {
		h.logger.Error("Error checking user: %v", err)
		c.JSON(http.StatusServiceUnavailable, models.CheckUserResponse{Registered: false})
		return
	}
	c.JSON(http.StatusOK, models.CheckUserResponse{Registered: registered})
}

func (h *Handler) GetUser(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.UserResponse{
			Success: false,
			Message: "userId is required",
		})
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error fetching user: %v", err)
		c.JSON(http.StatusInternalServerError, models.UserResponse{
			Success: false,
			Message: "เกิดข้อผิดพลาดในการดึงข้อมูล",
		})
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, models.UserResponse{
			Success:       false,
			NotRegistered: true,
			Message:       "ผู้ใช้ยังไม่ได้ลงทะเบียน",
		})
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{Success: true, User: user})
}

func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, models.StatusResponse{Success: false, Message: "ข้อมูลไม่ครบ"})
		return
	}

	err := h.svc.Register(c.Request.Context(), req)

	var validationErr *service.ValidationError
	var duplicateErr *service.DuplicateRecordError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.StatusResponse{Success: true})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusOK, models.StatusResponse{Success: false, Message: "ข้อมูลไม่ครบ"})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusOK, models.StatusResponse{
			Success: false,
			Message: "คุณเคยลงทะเบียนแล้ว สามารถกรอกค่าน้ำตาลได้เลย",
		})
	default:
		h.logger.Error("Error registering user: %v", err)
		c.JSON(http.StatusOK, models.StatusResponse{Success: false, Message: err.Error()})
	}
}

func (h *Handler) RecordSugar(c *gin.Context) {
	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.SugarWriteResponse{
			Success: false,
			Message: "ข้อมูลไม่ครบหรือไม่ถูกต้อง",
		})
		return
	}

	err := h.svc.RecordSugar(c.Request.Context(), input)

	var validationErr *service.ValidationError
	var duplicateErr *service.DuplicateRecordError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.SugarWriteResponse{
			Success: true,
			Message: "บันทึกค่าน้ำตาลสำเร็จ",
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.SugarWriteResponse{
			Success: false,
			Message: "ข้อมูลไม่ครบหรือไม่ถูกต้อง",
		})
	case errors.Is(err, service.ErrNotRegistered):
		c.JSON(http.StatusNotFound, models.SugarWriteResponse{
			Success:       false,
			Message:       "กรุณาลงทะเบียนก่อนที่เมนูลงทะเบียน",
			NotRegistered: true,
		})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, models.SugarWriteResponse{
			Success: false,
			Message: fmt.Sprintf(
				"คุณได้บันทึกข้อมูลค่าน้ำตาล \"%s มื้อ%s\" ในวันที่ %s ไปแล้ว กรุณาเลือกช่วงเวลาอื่น",
				duplicateErr.Key[1], duplicateErr.Key[2], duplicateErr.Key[3],
			),
			IsDuplicate: true,
		})
	case errors.Is(err, repository.ErrStoreUnavailable):
		h.logger.Error("Store error recording sugar: %v", err)
		c.JSON(http.StatusServiceUnavailable, models.SugarWriteResponse{
			Success: false,
			Message: "ไม่สามารถเชื่อมต่อกับระบบจัดเก็บข้อมูลได้ กรุณาลองใหม่อีกครั้ง",
		})
	default:
		h.logger.Error("Sugar endpoint error: %v", err)
		c.JSON(http.StatusInternalServerError, models.SugarWriteResponse{
			Success: false,
			Message: "เกิดข้อผิดพลาดภายในเซิร์ฟเวอร์",
		})
	}
}

// SugarRange serves both GET /sugar/records and GET /sugar/:range
func (h *Handler) SugarRange(c *gin.Context) {
	if c.Param("range") == "records" {
		h.sugarRecords(c)
		return
	}
	h.sugarChart(c)
}

func (h *Handler) sugarRecords(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusOK, models.SugarRecordsResponse{
			Success: false,
			Message: "userId required",
			Records: []models.SugarRecord{},
		})
		return
	}

	page, limit := pageParams(c)
	records, pagination, err := h.svc.ListSugarRecords(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.logger.Error("Error fetching sugar records: %v", err)
		c.JSON(http.StatusInternalServerError, models.SugarRecordsResponse{
			Success: false,
			Message: "เกิดข้อผิดพลาดในการดึงข้อมูล",
			Records: []models.SugarRecord{},
		})
		return
	}

	c.JSON(http.StatusOK, models.SugarRecordsResponse{
		Success:    true,
		Records:    records,
		Pagination: pagination,
	})
}

func (h *Handler) sugarChart(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusOK, models.SugarChartResponse{
			Success:    false,
			Message:    "userId required",
			Labels:     []string{},
			BeforeMeal: []*int{},
			AfterMeal:  []*int{},
		})
		return
	}

	// Only the weekly view aggregates data; other ranges return an empty
	// series.
	if c.Param("range") != "weekly" {
		c.JSON(http.StatusOK, models.SugarChartResponse{
			Success:    true,
			Labels:     []string{},
			BeforeMeal: []*int{},
			AfterMeal:  []*int{},
		})
		return
	}

	chart, err := h.svc.WeeklyChart(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error fetching sugar chart: %v", err)
		c.JSON(http.StatusOK, models.SugarChartResponse{
			Success:    false,
			Message:    "เกิดข้อผิดพลาดในการดึงข้อมูล",
			Labels:     []string{},
			BeforeMeal: []*int{},
			AfterMeal:  []*int{},
		})
		return
	}

	c.JSON(http.StatusOK, models.SugarChartResponse{
		Success:      true,
		Labels:       chart.Labels,
		BeforeMeal:   chart.BeforeMeal,
		AfterMeal:    chart.AfterMeal,
		TotalRecords: chart.TotalRecords,
	})
}

func (h *Handler) RecordMedication(c *gin.Context) {
	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusOK, models.StatusResponse{
			Success: false,
			Message: "ข้อมูลไม่ครบ กรุณากรอกข้อมูลให้ครบถ้วน",
		})
		return
	}

	err := h.svc.RecordMedication(c.Request.Context(), input)

	var validationErr *service.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.StatusResponse{Success: true})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusOK, models.StatusResponse{
			Success: false,
			Message: "ข้อมูลไม่ครบ กรุณากรอกข้อมูลให้ครบถ้วน",
		})
	case errors.Is(err, service.ErrNotRegistered):
		c.JSON(http.StatusNotFound, gin.H{
			"success":       false,
			"message":       "กรุณาลงทะเบียนก่อนที่เมนูลงทะเบียน",
			"notRegistered": true,
		})
	default:
		h.logger.Error("Error recording medication: %v", err)
		c.JSON(http.StatusOK, models.StatusResponse{
			Success: false,
			Message: "ไม่สามารถบันทึกข้อมูลได้",
		})
	}
}

func (h *Handler) MedicationRecords(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusOK, models.StatusResponse{Success: false, Message: "ต้องระบุ userId"})
		return
	}

	page, limit := pageParams(c)
	records, pagination, err := h.svc.ListMedicationRecords(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.logger.Error("Error fetching medication records: %v", err)
		c.JSON(http.StatusOK, models.MedicationRecordsResponse{
			Success: false,
			Message: "ไม่สามารถดึงข้อมูลได้",
			Records: []models.MedicationRecord{},
		})
		return
	}

	c.JSON(http.StatusOK, models.MedicationRecordsResponse{
		Success:    true,
		Records:    records,
		Pagination: pagination,
	})
}

func (h *Handler) RecordAppointment(c *gin.Context) {
	var req models.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, models.StatusResponse{Success: false, Message: "กรุณากรอกวันและเวลา"})
		return
	}

	err := h.svc.RecordAppointment(c.Request.Context(), req)

	var duplicateErr *service.DuplicateRecordError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.StatusResponse{
			Success: true,
			Message: "บันทึกการนัดหมายเรียบร้อย",
		})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusOK, models.StatusResponse{
			Success: false,
			Message: "คุณได้บันทึกนัดนี้แล้ว",
		})
	default:
		h.logger.Error("Error recording appointment: %v", err)
		c.JSON(http.StatusOK, models.StatusResponse{Success: false, Message: err.Error()})
	}
}

func (h *Handler) AppointmentRecords(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.AppointmentRecordsResponse{
			Success:      false,
			Message:      "ต้องระบุ userId",
			Appointments: []models.Appointment{},
		})
		return
	}

	page, limit := pageParams(c)
	appointments, pagination, err := h.svc.ListAppointments(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.logger.Error("Error fetching appointment records: %v", err)
		c.JSON(http.StatusInternalServerError, models.AppointmentRecordsResponse{
			Success:      false,
			Message:      "เกิดข้อผิดพลาดในการดึงข้อมูลการนัดหมาย",
			Appointments: []models.Appointment{},
		})
		return
	}

	c.JSON(http.StatusOK, models.AppointmentRecordsResponse{
		Success:      true,
		Appointments: appointments,
		Pagination:   pagination,
	})
}

// Appointments is the legacy unpaginated listing. A page parameter
// redirects to the paginated form.
func (h *Handler) Appointments(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "userId required"})
		return
	}

	if page := c.Query("page"); page != "" {
		limit := c.Query("limit")
		if limit == "" {
			limit = strconv.Itoa(service.DefaultPageSize)
		}
		c.Redirect(http.StatusFound, fmt.Sprintf(
			"/appointment/records?userId=%s&page=%s&limit=%s",
			url.QueryEscape(userID), url.QueryEscape(page), url.QueryEscape(limit),
		))
		return
	}

	appointments, err := h.svc.ListAllAppointments(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error fetching appointments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch appointments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"totalRecords": len(appointments),
		"appointments": appointments,
	})
}

// Webhook acknowledges chat-platform callbacks immediately; the bot has
// no conversational surface.
func (h *Handler) Webhook(c *gin.Context) {
	h.logger.Info("Received webhook from LINE")
	c.String(http.StatusOK, "OK")
}

func (h *Handler) TestReminder(c *gin.Context) {
	if err := h.scheduler.SendDailyReminders(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, models.StatusResponse{Success: false, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{
		Success: true,
		Message: "Daily reminders sent successfully",
	})
}

func (h *Handler) TestSingleReminder(c *gin.Context) {
	var req models.SingleReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusOK, models.StatusResponse{Success: false, Message: "userId is required"})
		return
	}

	if err := h.scheduler.SendTestReminder(c.Request.Context(), req.UserID); err != nil {
		h.logger.Error("Failed to send test reminder to %s: %v", req.UserID, err)
		c.JSON(http.StatusOK, models.StatusResponse{Success: false, Message: "Failed to send reminder"})
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Test reminder sent"})
}

// pageParams reads the page and limit query parameters, falling back to
// page 1 and the default page size
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = service.DefaultPageSize
	}
	return page, limit
}
