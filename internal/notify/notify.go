// Package notify implements transient user notifications (snackbars).
//
// Notify is fire-and-forget: the caller hands over a message and a severity
// and never hears back. The Tray keeps the visible stack, expires entries
// after a TTL and drops the oldest when full.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Severity of a notice.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Notifier accepts notices.
type Notifier interface {
	Notify(message string, sev Severity)
}

// Notice is one visible notification.
type Notice struct {
	ID       uint64
	Message  string
	Severity Severity
	Shown    time.Time
}

// Expired is delivered when a notice's TTL elapses.
type Expired struct {
	ID uint64
}

// Defaults for a Tray.
const (
	DefaultTTL = 4 * time.Second
	DefaultMax = 3
)

// Tray is the stack of visible notices. It is a value owned by the UI model
// and mutated only from Update.
type Tray struct {
	ttl     time.Duration
	max     int
	nextID  uint64
	notices []Notice
	now     func() time.Time
}

// NewTray creates a tray. Non-positive arguments select the defaults.
func NewTray(ttl time.Duration, max int) Tray {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if max <= 0 {
		max = DefaultMax
	}
	return Tray{ttl: ttl, max: max, now: time.Now}
}

// Push adds a notice and returns the command that expires it.
func (t *Tray) Push(message string, sev Severity) tea.Cmd {
	t.nextID++
	n := Notice{ID: t.nextID, Message: message, Severity: sev, Shown: t.now()}
	t.notices = append(t.notices, n)
	if len(t.notices) > t.max {
		t.notices = t.notices[len(t.notices)-t.max:]
	}

	id := n.ID
	return tea.Tick(t.ttl, func(time.Time) tea.Msg {
		return Expired{ID: id}
	})
}

// Expire removes the notice with the given ID. Unknown IDs are ignored.
func (t *Tray) Expire(msg Expired) {
	for i, n := range t.notices {
		if n.ID == msg.ID {
			t.notices = append(t.notices[:i:i], t.notices[i+1:]...)
			return
		}
	}
}

// Notices returns the visible notices, oldest first.
func (t *Tray) Notices() []Notice {
	return t.notices
}

// Len is the number of visible notices.
func (t *Tray) Len() int {
	return len(t.notices)
}

// Show asks the UI to display a notice.
type Show struct {
	Message  string
	Severity Severity
}

// Cmd returns a command that delivers Show. Used from inside Update.
func Cmd(message string, sev Severity) tea.Cmd {
	return func() tea.Msg {
		return Show{Message: message, Severity: sev}
	}
}

// Sender adapts a message sink such as (*tea.Program).Send to Notifier, for
// code running outside the Update loop.
type Sender func(tea.Msg)

// Notify implements Notifier.
func (s Sender) Notify(message string, sev Severity) {
	if s != nil {
		s(Show{Message: message, Severity: sev})
	}
}
