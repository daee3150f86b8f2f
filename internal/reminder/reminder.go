// Package reminder implements the daily appointment notification job: a
// cron-triggered scan of the appointment table for next-day entries, each
// dispatched to the owner through the push-message sender with a pause
// between sends.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/napatsri/sugartrack-server/internal/models"
	"github.com/napatsri/sugartrack-server/internal/repository"
	"github.com/napatsri/sugartrack-server/internal/utils"
)

// Sender delivers one text notification to a messaging identity
type Sender interface {
	Push(ctx context.Context, to, text string) error
}

// Scheduler selects and dispatches appointment reminders
type Scheduler struct {
	repo   repository.RowStore
	sender Sender
	logger *utils.Logger
	loc    *time.Location
	pause  time.Duration

	now   func() time.Time
	sleep func(d time.Duration)
}

// NewScheduler creates a new Scheduler. pause is the delay inserted after
// each dispatch so outbound sends never burst the message sender.
func NewScheduler(repo repository.RowStore, sender Sender, logger *utils.Logger, loc *time.Location, pause time.Duration) *Scheduler {
	return &Scheduler{
		repo:   repo,
		sender: sender,
		logger: logger,
		loc:    loc,
		pause:  pause,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Start registers the daily trigger and starts the cron runner. spec is a
// standard five-field cron expression evaluated in the scheduler's locale.
func (s *Scheduler) Start(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(s.loc))

	_, err := c.AddFunc(spec, func() {
		s.logger.Info("Running daily appointment reminder job...")
		if err := s.SendDailyReminders(context.Background()); err != nil {
			// The job never raises past its own boundary; a failed run
			// simply ends for the day.
			s.logger.Error("Daily reminder run failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("registering reminder schedule %q: %w", spec, err)
	}

	c.Start()
	return c, nil
}

// SendDailyReminders selects every appointment dated tomorrow and
// dispatches one notification per match, sequentially, pausing between
// sends. A failed send is logged and does not stop the remaining
// dispatches.
func (s *Scheduler) SendDailyReminders(ctx context.Context) error {
	appointments, err := s.appointmentsToRemind(ctx)
	if err != nil {
		return err
	}

	if len(appointments) == 0 {
		s.logger.Info("No appointments to remind today")
		return nil
	}

	sent := 0
	for _, appt := range appointments {
		if err := s.SendReminder(ctx, appt.UserID, appt); err != nil {
			s.logger.Error("Failed to send reminder to %s: %v", appt.UserID, err)
		} else {
			s.logger.Info("Reminder sent to user: %s", appt.UserID)
			sent++
		}
		s.sleep(s.pause)
	}

	s.logger.Info("Daily reminders completed: %d notifications sent", sent)
	return nil
}

// SendReminder dispatches one appointment notification to the given
// messaging identity
func (s *Scheduler) SendReminder(ctx context.Context, userID string, appt models.Appointment) error {
	return s.sender.Push(ctx, userID, reminderText(appt))
}

// SendTestReminder sends one constructed appointment to the given
// identity, bypassing selection. Used to verify the delivery channel.
func (s *Scheduler) SendTestReminder(ctx context.Context, userID string) error {
	return s.SendReminder(ctx, userID, models.Appointment{
		Date: "2025-09-15",
		Time: "14:30",
		Note: "นัดทดสอบระบบ",
	})
}

// appointmentsToRemind returns the appointments dated tomorrow in the
// scheduler's locale
func (s *Scheduler) appointmentsToRemind(ctx context.Context) ([]models.Appointment, error) {
	tomorrow := s.now().In(s.loc).AddDate(0, 0, 1).Format("2006-01-02")
	s.logger.Info("Checking appointments for date: %s", tomorrow)

	rows, err := s.repo.FetchRows(ctx, repository.AppointmentsRange)
	if err != nil {
		return nil, fmt.Errorf("fetching appointments to remind: %w", err)
	}

	var matches []models.Appointment
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 || row[1] != tomorrow {
			continue
		}
		appt := models.Appointment{
			UserID: row[0],
			Date:   row[1],
			Time:   row[2],
		}
		if len(row) > 3 {
			appt.Note = row[3]
		}
		matches = append(matches, appt)
	}

	s.logger.Info("Found %d appointments to remind", len(matches))
	return matches, nil
}

func reminderText(appt models.Appointment) string {
	note := appt.Note
	if note == "" {
		note = "ไม่มี"
	}
	return fmt.Sprintf(
		"🏥 แจ้งเตือนการนัดหมาย\n\n📅 วันที่: %s\n⏰ เวลา: %s\n📝 หมายเหตุ: %s\n\n💡 กรุณาเตรียมตัวและมาตรงเวลานะครับ/ค่ะ",
		appt.Date, appt.Time, note,
	)
}
