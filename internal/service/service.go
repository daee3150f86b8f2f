package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/napatsri/sugartrack-server/internal/models"
	"github.com/napatsri/sugartrack-server/internal/repository"
)

// Service defines all the business logic operations
type Service interface {
	// Users
	CheckUser(ctx context.Context, userID string) (bool, error)
	GetUser(ctx context.Context, userID string) (*models.UserProfile, error)
	Register(ctx context.Context, req models.RegisterRequest) error

	// Sugar readings
	RecordSugar(ctx context.Context, input map[string]interface{}) error
	ListSugarRecords(ctx context.Context, userID string, page, limit int) ([]models.SugarRecord, *models.Pagination, error)
	WeeklyChart(ctx context.Context, userID string) (*models.WeeklyChart, error)

	// Medication logs
	RecordMedication(ctx context.Context, input map[string]interface{}) error
	ListMedicationRecords(ctx context.Context, userID string, page, limit int) ([]models.MedicationRecord, *models.Pagination, error)

	// Appointments
	RecordAppointment(ctx context.Context, req models.AppointmentRequest) error
	ListAppointments(ctx context.Context, userID string, page, limit int) ([]models.Appointment, *models.Pagination, error)
	ListAllAppointments(ctx context.Context, userID string) ([]models.Appointment, error)
}

// DefaultService implements the Service interface over the row store
type DefaultService struct {
	repo repository.RowStore
	loc  *time.Location
	now  func() time.Time
}

// NewDefaultService creates a new DefaultService. loc is the locale the
// recorded dates and times are derived in.
func NewDefaultService(repo repository.RowStore, loc *time.Location) Service {
	return &DefaultService{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

// localNow returns the current instant shifted into the configured locale
func (s *DefaultService) localNow() time.Time {
	return s.now().In(s.loc)
}

// localDate renders today's local calendar date as d/m/yyyy, the format
// the record tables and the chart view use
func (s *DefaultService) localDate() string {
	t := s.localNow()
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

/// localClock renders the current local time of day as HH:mm:ss
func (s *DefaultService) localClock() string {
	return s.localNow().Format("15:04:05")
}

// User operations

func (s *DefaultService) CheckUser(ctx context.Context, userID string) (bool, error) {
	rows, err := s.repo.FetchRows(ctx, repository.UsersRange)
	if err != nil {
		return false, fmt.Errorf("checking registration: %w", err)
	}
	return userRegistered(rows, userID), nil
}

func (s *DefaultService) GetUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	rows, err := s.repo.FetchRows(ctx, repository.UsersRange)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	for _, row := range dataRows(rows) {
		if cell(row, 0) == userID {
			return &models.UserProfile{
				UserID:    cell(row, 0),
				FirstName: cell(row, 1),
				LastName:  cell(row, 2),
				Gender:    cell(row, 3),
				BirthDay:  cell(row, 4),
				Age:       cell(row, 5),
			}, nil
		}
	}
	return nil, nil
}

func (s *DefaultService) Register(ctx context.Context, req models.RegisterRequest) error {
	birth, err := time.Parse("2006-01-02", req.BirthDay)
	if err != nil {
		return &ValidationError{Field: "birthDay"}
	}

	rows, err := s.repo.FetchRows(ctx, repository.UsersRange)
	if err != nil {
		return fmt.Errorf("checking existing registration: %w", err)
	}
	if userRegistered(rows, req.UserID) {
		return &DuplicateRecordError{Kind: "registration", Key: []string{req.UserID}}
	}

	age := computeAge(birth, s.localNow())

	row := []interface{}{req.UserID, req.FirstName, req.LastName, req.Gender, req.BirthDay, age}
	if err := s.repo.AppendRow(ctx, repository.UsersRange, row); err != nil {
		return fmt.Errorf("appending user row: %w", err)
	}
	return nil
}

// computeAge derives the completed age in years at the reference date.
// The year difference is decremented when the birthday has not yet passed
// this year.
func computeAge(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// Sugar reading operations

func (s *DefaultService) RecordSugar(ctx context.Context, input map[string]interface{}) error {
	in, err := normalizeSugarInput(input)
	if err != nil {
		return err
	}

	users, err := s.repo.FetchRows(ctx, repository.UsersRange)
	if err != nil {
		return fmt.Errorf("checking registration: %w", err)
	}
	if !userRegistered(users, in.UserID) {
		return ErrNotRegistered
	}

	date := s.localDate()

	records, err := s.repo.FetchRows(ctx, repository.SugarRange)
	if err != nil {
		return fmt.Errorf("checking existing readings: %w", err)
	}
	for _, row := range dataRows(records) {
		if cell(row, 0) == in.UserID &&
			cell(row, 2) == in.Type &&
			cell(row, 3) == in.Period &&
			cell(row, 4) == date {
			return &DuplicateRecordError{
				Kind: "sugar",
				Key:  []string{in.UserID, in.Type, in.Period, date},
			}
		}
	}

	row := []interface{}{in.UserID, in.Sugar, in.Type, in.Period, date}
	if err := s.repo.AppendRow(ctx, repository.SugarRange, row); err != nil {
		return fmt.Errorf("appending sugar row: %w", err)
	}
	return nil
}

func (s *DefaultService) ListSugarRecords(ctx context.Context, userID string, page, limit int) ([]models.SugarRecord, *models.Pagination, error) {
	rows, err := s.repo.FetchRows(ctx, repository.SugarRange)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching sugar records: %w", err)
	}

	userRows := filterByUser(dataRows(rows), userID)
	sortRowsDesc(userRows, func(row []string) (time.Time, bool) {
		return chronoKey(cell(row, 4), "")
	})

	// This listing trusts the caller-supplied page: an out-of-range page
	// yields an empty page, not the nearest valid one.
	pagination := buildPagination(len(userRows), page, limit)
	start, end := pageBounds(len(userRows), page, limit)

	records := make([]models.SugarRecord, 0, end-start)
	for _, row := range userRows[start:end] {
		records = append(records, models.SugarRecord{
			UserID: cell(row, 0),
			Sugar:  cell(row, 1),
			Type:   cell(row, 2),
			Period: cell(row, 3),
			Date:   cell(row, 4),
		})
	}
	return records, pagination, nil
}

func (s *DefaultService) WeeklyChart(ctx context.Context, userID string) (*models.WeeklyChart, error) {
	rows, err := s.repo.FetchRows(ctx, repository.SugarRange)
	if err != nil {
		return nil, fmt.Errorf("fetching sugar records: %w", err)
	}

	userRows := filterByUser(dataRows(rows), userID)

	// Distinct dates with a parseable calendar value, oldest first
	seen := make(map[string]bool)
	var dates []string
	for _, row := range userRows {
		d := cell(row, 4)
		if seen[d] {
			continue
		}
		seen[d] = true
		if _, ok := parseCalendarDate(d); ok {
			dates = append(dates, d)
		}
	}
	sortDatesAsc(dates)

	if len(dates) > 7 {
		dates = dates[len(dates)-7:]
	}

	chart := &models.WeeklyChart{
		Labels:       []string{},
		BeforeMeal:   []*int{},
		AfterMeal:    []*int{},
		TotalRecords: len(userRows),
	}

	for _, date := range dates {
		shortDate := shortDateLabel(date)
		for _, period := range []string{TranslateTimeOfDay("morning"), TranslateTimeOfDay("evening")} {
			chart.Labels = append(chart.Labels, shortDate+"-"+period)
			chart.BeforeMeal = append(chart.BeforeMeal,
				findReading(userRows, date, TranslateMealTiming("before"), period))
			chart.AfterMeal = append(chart.AfterMeal,
				findReading(userRows, date, TranslateMealTiming("after"), period))
		}
	}
	return chart, nil
}

// sortDatesAsc orders date strings by calendar value, oldest first
func sortDatesAsc(dates []string) {
	keys := make(map[string]time.Time, len(dates))
	for _, d := range dates {
		t, _ := parseCalendarDate(d)
		keys[d] = t
	}
	sort.SliceStable(dates, func(i, j int) bool {
		return keys[dates[i]].Before(keys[dates[j]])
	})
}

// shortDateLabel trims "5/9/2025" to "5/9" for chart labels
func shortDateLabel(date string) string {
	parts := strings.SplitN(date, "/", 3)
	if len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return date
}

// findReading returns the numeric value of the first reading matching the
// date, meal-timing label and period label, or nil when absent or
// non-numeric
func findReading(rows [][]string, date, mealLabel, periodLabel string) *int {
	for _, row := range rows {
		if cell(row, 4) == date && cell(row, 2) == mealLabel && cell(row, 3) == periodLabel {
			if v, err := strconv.ParseFloat(cell(row, 1), 64); err == nil {
				n := int(v)
				return &n
			}
			return nil
		}
	}
	return nil
}

// Medication log operations

func (s *DefaultService) RecordMedication(ctx context.Context, input map[string]interface{}) error {
	in, err := normalizeMedicationInput(input)
	if err != nil {
		return err
	}

	users, err := s.repo.FetchRows(ctx, repository.UsersRange)
	if err != nil {
		return fmt.Errorf("checking registration: %w", err)
	}
	if !userRegistered(users, in.UserID) {
		return ErrNotRegistered
	}

	// Medication logs are never deduplicated; repeated doses on one day
	// are legitimate rows.
	row := []interface{}{in.UserID, s.localDate(), in.TimeOfDay, in.MealRelation, in.Status, s.localClock()}
	if err := s.repo.AppendRow(ctx, repository.MedicationRange, row); err != nil {
		return fmt.Errorf("appending medication row: %w", err)
	}
	return nil
}

func (s *DefaultService) ListMedicationRecords(ctx context.Context, userID string, page, limit int) ([]models.MedicationRecord, *models.Pagination, error) {
	rows, err := s.repo.FetchRows(ctx, repository.MedicationRange)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching medication records: %w", err)
	}

	userRows := filterByUser(dataRows(rows), userID)
	sortRowsDesc(userRows, func(row []string) (time.Time, bool) {
		return chronoKey(cell(row, 1), cell(row, 5))
	})

	// Unlike the sugar listing, this endpoint clamps the requested page
	// into valid bounds.
	totalPages := 0
	if limit > 0 {
		totalPages = (len(userRows) + limit - 1) / limit
	}
	page = clampPage(page, totalPages)

	pagination := buildPagination(len(userRows), page, limit)
	start, end := pageBounds(len(userRows), page, limit)

	records := make([]models.MedicationRecord, 0, end-start)
	for _, row := range userRows[start:end] {
		records = append(records, models.MedicationRecord{
			Date:         cell(row, 1),
			TimeOfDay:    cell(row, 2),
			MealRelation: cell(row, 3),
			Status:       cell(row, 4),
			LogTime:      cell(row, 5),
		})
	}
	return records, pagination, nil
}

// Appointment operations

func (s *DefaultService) RecordAppointment(ctx context.Context, req models.AppointmentRequest) error {
	rows, err := s.repo.FetchRows(ctx, repository.AppointmentsRange)
	if err != nil {
		return fmt.Errorf("checking existing appointments: %w", err)
	}

	for _, row := range dataRows(rows) {
		if cell(row, 0) == req.UserID && cell(row, 1) == req.Date && cell(row, 2) == req.Time {
			return &DuplicateRecordError{
				Kind: "appointment",
				Key:  []string{req.UserID, req.Date, req.Time},
			}
		}
	}

	row := []interface{}{req.UserID, req.Date, req.Time, req.Note}
	if err := s.repo.AppendRow(ctx, repository.AppointmentsRange, row); err != nil {
		return fmt.Errorf("appending appointment row: %w", err)
	}
	return nil
}

func (s *DefaultService) ListAppointments(ctx context.Context, userID string, page, limit int) ([]models.Appointment, *models.Pagination, error) {
	userRows, err := s.sortedAppointmentRows(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	// No clamping here either; mirrors the sugar listing.
	pagination := buildPagination(len(userRows), page, limit)
	start, end := pageBounds(len(userRows), page, limit)

	return appointmentRecords(userRows[start:end]), pagination, nil
}

func (s *DefaultService) ListAllAppointments(ctx context.Context, userID string) ([]models.Appointment, error) {
	userRows, err := s.sortedAppointmentRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	return appointmentRecords(userRows), nil
}

func (s *DefaultService) sortedAppointmentRows(ctx context.Context, userID string) ([][]string, error) {
	rows, err := s.repo.FetchRows(ctx, repository.AppointmentsRange)
	if err != nil {
		return nil, fmt.Errorf("fetching appointments: %w", err)
	}

	userRows := filterByUser(dataRows(rows), userID)
	sortRowsDesc(userRows, func(row []string) (time.Time, bool) {
		return chronoKey(cell(row, 1), cell(row, 2))
	})
	return userRows, nil
}

func appointmentRecords(rows [][]string) []models.Appointment {
	records := make([]models.Appointment, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.Appointment{
			UserID: cell(row, 0),
			Date:   cell(row, 1),
			Time:   cell(row, 2),
			Note:   cell(row, 3),
		})
	}
	return records
}

// Shared row helpers

// dataRows drops the header row every table starts with
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

// userRegistered reports whether any data row's first column equals the
// candidate userId. Cells are already string-coerced by the store, which
// keeps numeric-looking ids comparable.
func userRegistered(rows [][]string, userID string) bool {
	for _, row := range dataRows(rows) {
		if cell(row, 0) == userID {
			return true
		}
	}
	return false
}

// filterByUser keeps rows owned by the given user, preserving order
func filterByUser(rows [][]string, userID string) [][]string {
	var out [][]string
	for _, row := range rows {
		if len(row) > 0 && row[0] == userID {
			out = append(out, row)
		}
	}
	return out
}
