package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidReminder    = errors.New("invalid reminder format (must be HH:MM 24h)")
	ErrInvalidMessageType = errors.New("unknown worker message type")
	ErrInvalidAction      = errors.New("unknown notification action (must be open, dismiss or snooze)")
	ErrMissingPayload     = errors.New("notification payload is required")
	ErrMissingSettings    = errors.New("notification settings are required")
)

var reminderRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// Reminder fires a notification every day at Time (HH:MM, user wall clock).
type Reminder struct {
	Time    string `json:"time" yaml:"time"`
	Title   string `json:"title" yaml:"title"`
	Body    string `json:"body" yaml:"body"`
	Tag     string `json:"tag" yaml:"tag"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// NotificationSettings are consumed by the reminder scheduler, never produced by
// the tracker logic.
type NotificationSettings struct {
	Enabled   bool       `json:"enabled" yaml:"enabled"`
	Reminders []Reminder `json:"reminders" yaml:"reminders"`
}

func (s NotificationSettings) Validate() error {
	for i, r := range s.Reminders {
		if !reminderRegex.MatchString(r.Time) {
			return fmt.Errorf("reminders[%d]: %w", i, ErrInvalidReminder)
		}
	}
	return nil
}

// Notification is what gets shown to the user.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag,omitempty"`
	URL   string `json:"url,omitempty"`
}

type MessageType string

const (
	MsgSettingsUpdated         MessageType = "SETTINGS_UPDATED"
	MsgStartScheduler          MessageType = "START_SCHEDULER"
	MsgShowNotification        MessageType = "SHOW_NOTIFICATION"
	MsgSetNotificationSettings MessageType = "SET_NOTIFICATION_SETTINGS"
)

// WorkerMessage is a page-to-worker message.
type WorkerMessage struct {
	Type        MessageType           `json:"type"`
	Settings    *NotificationSettings `json:"settings,omitempty"`
	Payload     *Notification         `json:"payload,omitempty"`
	CurrentTime string                `json:"currentTime,omitempty"`
}

func (m WorkerMessage) Validate() error {
	switch m.Type {
	case MsgStartScheduler:
		return nil
	case MsgSettingsUpdated, MsgSetNotificationSettings:
		if m.Settings == nil {
			return ErrMissingSettings
		}
		if m.CurrentTime != "" && !reminderRegex.MatchString(m.CurrentTime) {
			return ErrInvalidReminder
		}
		return m.Settings.Validate()
	case MsgShowNotification:
		if m.Payload == nil {
			return ErrMissingPayload
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMessageType, m.Type)
	}
}

type NotificationAction string

const (
	ActionOpen    NotificationAction = "open"
	ActionDismiss NotificationAction = "dismiss"
	ActionSnooze  NotificationAction = "snooze"
)

// NotificationClick is a worker-to-page event.
type NotificationClick struct {
	Action NotificationAction `json:"action"`
	URL    string             `json:"url,omitempty"`
	Tag    string             `json:"tag,omitempty"`
	Title  string             `json:"title,omitempty"`
	Body   string             `json:"body,omitempty"`
}

func (c NotificationClick) Validate() error {
	switch c.Action {
	case ActionOpen, ActionDismiss, ActionSnooze:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, c.Action)
	}
}
