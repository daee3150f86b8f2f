package reminder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napatsri/sugartrack-server/internal/models"
	"github.com/napatsri/sugartrack-server/internal/repository"
	"github.com/napatsri/sugartrack-server/internal/utils"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

// 14 September 2025: "tomorrow" is 2025-09-15
var fixedNow = time.Date(2025, 9, 14, 9, 0, 0, 0, bangkok)

type pushCall struct {
	to   string
	text string
}

// fakeSender records every push and can be told to fail for specific
// recipients
type fakeSender struct {
	mu      sync.Mutex
	calls   []pushCall
	failFor map[string]bool
}

func (f *fakeSender) Push(ctx context.Context, to, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pushCall{to: to, text: text})
	if f.failFor[to] {
		return errors.New("push rejected")
	}
	return nil
}

func appointmentTables(rows ...[]string) map[string][][]string {
	table := [][]string{{"userId", "date", "time", "note"}}
	table = append(table, rows...)
	return map[string][][]string{"DoctorAppointments": table}
}

func newTestScheduler(store *repository.MemoryStore, sender Sender) (*Scheduler, *[]time.Duration) {
	s := NewScheduler(store, sender, utils.NewComponentLogger("reminder"), bangkok, time.Second)
	s.now = func() time.Time { return fixedNow }

	var pauses []time.Duration
	s.sleep = func(d time.Duration) { pauses = append(pauses, d) }
	return s, &pauses
}

func TestSendDailyRemindersSelectsTomorrowOnly(t *testing.T) {
	store := repository.NewMemoryStore(appointmentTables(
		[]string{"userA", "2025-09-15", "09:00", "ตรวจเบาหวาน"},
		[]string{"userC", "2025-09-14", "10:00", "วันนี้"},
		[]string{"userB", "2025-09-15", "14:30"},
		[]string{"userD", "2025-09-16", "08:00", "มะรืนนี้"},
	))
	sender := &fakeSender{}
	s, pauses := newTestScheduler(store, sender)

	require.NoError(t, s.SendDailyReminders(context.Background()))

	require.Len(t, sender.calls, 2)
	assert.Equal(t, "userA", sender.calls[0].to)
	assert.Equal(t, "userB", sender.calls[1].to)

	// One pause per dispatch, at the configured length
	require.Len(t, *pauses, 2)
	assert.Equal(t, time.Second, (*pauses)[0])

	assert.Contains(t, sender.calls[0].text, "2025-09-15")
	assert.Contains(t, sender.calls[0].text, "09:00")
	assert.Contains(t, sender.calls[0].text, "ตรวจเบาหวาน")
	// A missing note gets the default text
	assert.Contains(t, sender.calls[1].text, "ไม่มี")
}

func TestSendDailyRemindersNoMatches(t *testing.T) {
	store := repository.NewMemoryStore(appointmentTables(
		[]string{"userC", "2025-09-14", "10:00", ""},
	))
	sender := &fakeSender{}
	s, pauses := newTestScheduler(store, sender)

	require.NoError(t, s.SendDailyReminders(context.Background()))
	assert.Empty(t, sender.calls)
	assert.Empty(t, *pauses)
}

func TestSendDailyRemindersContinuesAfterSendFailure(t *testing.T) {
	store := repository.NewMemoryStore(appointmentTables(
		[]string{"userA", "2025-09-15", "09:00", ""},
		[]string{"userB", "2025-09-15", "14:30", ""},
	))
	sender := &fakeSender{failFor: map[string]bool{"userA": true}}
	s, _ := newTestScheduler(store, sender)

	// The failed dispatch is logged, not propagated
	require.NoError(t, s.SendDailyReminders(context.Background()))
	require.Len(t, sender.calls, 2)
	assert.Equal(t, "userB", sender.calls[1].to)
}

func TestSendDailyRemindersFetchFailureEndsRun(t *testing.T) {
	store := repository.NewMemoryStore(appointmentTables())
	store.FailFetch = true
	sender := &fakeSender{}
	s, _ := newTestScheduler(store, sender)

	err := s.SendDailyReminders(context.Background())
	require.ErrorIs(t, err, repository.ErrStoreUnavailable)
	assert.Empty(t, sender.calls)
}

func TestSendTestReminder(t *testing.T) {
	store := repository.NewMemoryStore(appointmentTables())
	sender := &fakeSender{}
	s, _ := newTestScheduler(store, sender)

	require.NoError(t, s.SendTestReminder(context.Background(), "userX"))
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "userX", sender.calls[0].to)
	assert.Contains(t, sender.calls[0].text, "2025-09-15")
	assert.Contains(t, sender.calls[0].text, "นัดทดสอบระบบ")
}

func TestReminderText(t *testing.T) {
	text := reminderText(models.Appointment{Date: "2025-09-15", Time: "14:30", Note: "พบแพทย์"})
	for _, want := range []string{"2025-09-15", "14:30", "พบแพทย์"} {
		assert.True(t, strings.Contains(text, want), "expected text to contain %q", want)
	}

	text = reminderText(models.Appointment{Date: "2025-09-15", Time: "14:30"})
	assert.Contains(t, text, "ไม่มี")
}
