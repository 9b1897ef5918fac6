package notify

import (
	"fmt"
	"time"
)

// Kind classifies a notification.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind as its lowercase name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Success, Error:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("notify: unknown kind %d", int(k))
	}
}

// Notification is a short-lived user-facing message.
type Notification struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind Kind, message string)

// Notify calls f.
func (f NotifierFunc) Notify(kind Kind, message string) { f(kind, message) }

// Nop discards every notification.
var Nop Notifier = NotifierFunc(func(Kind, string) {})

// Recorder keeps every notification in memory. It is meant for tests and
// for components that have no scheduler wired.
type Recorder struct {
	Items []Notification
}

// Notify appends the message.
func (r *Recorder) Notify(kind Kind, message string) {
	r.Items = append(r.Items, Notification{Kind: kind, Message: message, CreatedAt: time.Now()})
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	if len(r.Items) == 0 {
		return Notification{}, false
	}
	return r.Items[len(r.Items)-1], true
}
