package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/robfig/cron/v3"
)

const (
	// CheckSpec runs the reminder check once a minute.
	CheckSpec = "* * * * *"

	SnoozeDelay = 10 * time.Minute

	defaultTitle = "Itera"
	defaultBody  = "Time to check in on your progress."
	defaultURL   = "/"
)

// Enqueuer is the fire-and-forget side of the delivery worker.
type Enqueuer interface {
	Enqueue(userID string, n domain.Notification) bool
}

type userSchedule struct {
	settings domain.NotificationSettings
	active   bool

	// offset is the user's wall clock minus UTC. It starts as the server
	// clock's zone offset until the client reports its own time.
	offset time.Duration

	// fired maps a reminder time to the user-local date it last fired on.
	fired map[string]string
}

// ClickOutcome tells the caller what to do after a notification click.
type ClickOutcome struct {
	Action       domain.NotificationAction `json:"action"`
	URL          string                    `json:"url,omitempty"`
	SnoozedUntil *time.Time                `json:"snoozed_until,omitempty"`
}

// ReminderScheduler evaluates every user's reminder times once a minute and
// fires each reminder at most once per user-local day.
type ReminderScheduler struct {
	mu     sync.Mutex
	users  map[string]*userSchedule
	timers map[*time.Timer]struct{}

	deliver     Enqueuer
	now         func() time.Time
	snoozeDelay time.Duration
	cron        *cron.Cron
}

func NewReminderScheduler(deliver Enqueuer, clock func() time.Time) *ReminderScheduler {
	if clock == nil {
		clock = time.Now
	}
	return &ReminderScheduler{
		users:       make(map[string]*userSchedule),
		timers:      make(map[*time.Timer]struct{}),
		deliver:     deliver,
		now:         clock,
		snoozeDelay: SnoozeDelay,
		cron:        cron.New(cron.WithLocation(time.UTC)),
	}
}

func (s *ReminderScheduler) Start() error {
	if _, err := s.cron.AddFunc(CheckSpec, func() { s.checkAt(s.now()) }); err != nil {
		return fmt.Errorf("reminder scheduler: %w", err)
	}
	s.cron.Start()
	log.Println("[REMINDER] Scheduler started")
	return nil
}

// Stop halts the cron and cancels pending snoozes. The returned context is
// done once a running check has finished.
func (s *ReminderScheduler) Stop() context.Context {
	s.mu.Lock()
	for t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
	s.mu.Unlock()

	log.Println("[REMINDER] Scheduler shutting down...")
	return s.cron.Stop()
}

func (s *ReminderScheduler) schedule(userID string) *userSchedule {
	us, ok := s.users[userID]
	if !ok {
		_, zone := s.now().Zone()
		us = &userSchedule{
			offset: time.Duration(zone) * time.Second,
			fired:  make(map[string]string),
		}
		s.users[userID] = us
	}
	return us
}

// HandleMessage applies one page-to-worker message for userID.
func (s *ReminderScheduler) HandleMessage(ctx context.Context, userID string, msg domain.WorkerMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if msg.Type == domain.MsgShowNotification {
		s.deliver.Enqueue(userID, withDefaults(*msg.Payload))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	us := s.schedule(userID)
	switch msg.Type {
	case domain.MsgStartScheduler:
		us.active = true
	case domain.MsgSettingsUpdated:
		us.settings = *msg.Settings
	case domain.MsgSetNotificationSettings:
		us.settings = *msg.Settings
		us.active = true
		if msg.CurrentTime != "" {
			us.offset = clockOffset(msg.CurrentTime, s.now())
		}
	}
	log.Printf("[REMINDER] %s for %s (enabled=%t, reminders=%d)", msg.Type, userID, us.settings.Enabled, len(us.settings.Reminders))
	return nil
}

// Settings returns the settings last received for userID.
func (s *ReminderScheduler) Settings(userID string) (domain.NotificationSettings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	us, ok := s.users[userID]
	if !ok {
		return domain.NotificationSettings{}, false
	}
	return us.settings, true
}

// HandleClick acknowledges a notification click. Snooze schedules the same
// notification again after the snooze delay.
func (s *ReminderScheduler) HandleClick(ctx context.Context, userID string, click domain.NotificationClick) (*ClickOutcome, error) {
	if err := click.Validate(); err != nil {
		return nil, err
	}

	out := &ClickOutcome{Action: click.Action}
	switch click.Action {
	case domain.ActionOpen:
		out.URL = click.URL
		if out.URL == "" {
			out.URL = defaultURL
		}
	case domain.ActionSnooze:
		n := withDefaults(domain.Notification{Title: click.Title, Body: click.Body, Tag: click.Tag, URL: click.URL})
		until := s.now().Add(s.snoozeDelay)
		out.SnoozedUntil = &until

		s.mu.Lock()
		var timer *time.Timer
		timer = time.AfterFunc(s.snoozeDelay, func() {
			s.mu.Lock()
			delete(s.timers, timer)
			s.mu.Unlock()
			s.deliver.Enqueue(userID, n)
		})
		s.timers[timer] = struct{}{}
		s.mu.Unlock()
	}
	return out, nil
}

func (s *ReminderScheduler) checkAt(now time.Time) {
	type due struct {
		userID string
		n      domain.Notification
	}
	var fire []due

	s.mu.Lock()
	for userID, us := range s.users {
		if !us.active || !us.settings.Enabled {
			continue
		}
		local := now.UTC().Add(us.offset)
		hhmm := local.Format("15:04")
		date := local.Format(time.DateOnly)

		for _, r := range us.settings.Reminders {
			if !r.Enabled || r.Time != hhmm || us.fired[r.Time] == date {
				continue
			}
			us.fired[r.Time] = date
			tag := r.Tag
			if tag == "" {
				tag = "reminder-" + r.Time
			}
			fire = append(fire, due{userID, withDefaults(domain.Notification{Title: r.Title, Body: r.Body, Tag: tag})})
		}
	}
	s.mu.Unlock()

	for _, d := range fire {
		log.Printf("[REMINDER] Firing %q for %s", d.n.Tag, d.userID)
		s.deliver.Enqueue(d.userID, d.n)
	}
}

func withDefaults(n domain.Notification) domain.Notification {
	if n.Title == "" {
		n.Title = defaultTitle
	}
	if n.Body == "" {
		n.Body = defaultBody
	}
	if n.URL == "" {
		n.URL = defaultURL
	}
	return n
}

// clockOffset derives the user's UTC offset from the wall clock time they
// reported at now, rounded to the quarter hour and kept within real zone range.
func clockOffset(currentTime string, now time.Time) time.Duration {
	t, err := time.Parse("15:04", currentTime)
	if err != nil {
		return 0
	}
	utc := now.UTC()
	client := t.Hour()*60 + t.Minute()
	server := utc.Hour()*60 + utc.Minute()

	diff := client - server
	if diff < -12*60 {
		diff += 24 * 60
	}
	if diff > 14*60 {
		diff -= 24 * 60
	}
	diff = int(roundTo(float64(diff), 15))
	return time.Duration(diff) * time.Minute
}

func roundTo(v, step float64) float64 {
	if v < 0 {
		return -roundTo(-v, step)
	}
	return float64(int((v+step/2)/step)) * step
}
