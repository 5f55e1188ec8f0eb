// Package status carries transient user-facing notifications and the guard
// that turns operation failures into them.
package status

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Severity classifies a status message.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
	Success Severity = "success"
)

// DefaultTimeout is how long a message stays up unless told otherwise.
const DefaultTimeout = 5 * time.Second

// historySize bounds the messages kept for Since.
const historySize = 32

// Sink receives a mirror of every status message and every guarded error.
type Sink interface {
	Log(message string, sev Severity)
	LogError(err error)
}

// Message is the currently displayed status banner.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
	Visible  bool     `json:"visible"`
	Seq      uint64   `json:"seq"`
}

// Options controls console mirroring and error verbosity.
type Options struct {
	LogToConsole       bool
	ShowDetailedErrors bool
}

// Notifier holds the current status banner.
type Notifier struct {
	mu      sync.Mutex
	log     *slog.Logger
	opts    Options
	sink    Sink
	current Message
	history []Message
	timer   *time.Timer
}

func NewNotifier(log *slog.Logger, opts Options) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{log: log, opts: opts}
}

// SetSink registers the debug mirror. A nil sink disables mirroring.
func (n *Notifier) SetSink(s Sink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sink = s
}

// Show displays message. If timeout > 0 the message is hidden once the
// delay elapses, unless a newer message replaced it first.
func (n *Notifier) Show(message string, sev Severity, timeout time.Duration) Message {
	n.mu.Lock()
	n.current = Message{
		Text:     message,
		Severity: sev,
		Visible:  true,
		Seq:      n.current.Seq + 1,
	}
	msg := n.current
	n.history = append(n.history, msg)
	if len(n.history) > historySize {
		n.history = n.history[len(n.history)-historySize:]
	}
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	if timeout > 0 {
		seq := msg.Seq
		n.timer = time.AfterFunc(timeout, func() { n.hide(seq) })
	}
	sink := n.sink
	n.mu.Unlock()

	if n.opts.LogToConsole {
		n.log.Log(context.Background(), levelFor(sev), message, "severity", string(sev))
	}
	if sink != nil {
		sink.Log(message, sev)
	}
	return msg
}

// Current returns the banner as it stands now.
func (n *Notifier) Current() Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Since returns the messages shown after the one numbered seq, oldest
// first. Only the most recent messages are retained.
func (n *Notifier) Since(seq uint64) []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Message
	for _, m := range n.history {
		if m.Seq > seq {
			out = append(out, m)
		}
	}
	return out
}

// Stop cancels a pending auto-hide.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) hide(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current.Seq == seq {
		n.current.Visible = false
	}
}

func levelFor(sev Severity) slog.Level {
	switch sev {
	case Error:
		return slog.LevelError
	case Warning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
