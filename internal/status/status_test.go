package status

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu     sync.Mutex
	logs   []string
	errors []error
}

func (s *recordingSink) Log(message string, sev Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, string(sev)+":"+message)
}

func (s *recordingSink) LogError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifier_ShowMirrorsToSink(t *testing.T) {
	n := NewNotifier(quietLogger(), Options{LogToConsole: true})
	sink := &recordingSink{}
	n.SetSink(sink)

	msg := n.Show("hello", Success, 0)
	if !msg.Visible || msg.Text != "hello" || msg.Severity != Success {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if len(sink.logs) != 1 || sink.logs[0] != "success:hello" {
		t.Errorf("expected sink mirror, got %v", sink.logs)
	}
}

func TestNotifier_AutoHide(t *testing.T) {
	n := NewNotifier(quietLogger(), Options{})
	n.Show("bye", Info, 10*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for n.Current().Visible {
		if time.Now().After(deadline) {
			t.Fatal("message was not hidden after timeout")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if n.Current().Text != "bye" {
		t.Errorf("hidden message should keep its text, got %q", n.Current().Text)
	}
}

func TestNotifier_NewerMessageSurvivesOldTimer(t *testing.T) {
	n := NewNotifier(quietLogger(), Options{})
	n.Show("first", Info, 10*time.Millisecond)
	n.Show("second", Warning, 0)

	time.Sleep(30 * time.Millisecond)
	cur := n.Current()
	if !cur.Visible || cur.Text != "second" {
		t.Errorf("expected second message to stay visible, got %+v", cur)
	}
}

func TestGuard_Success(t *testing.T) {
	n := NewNotifier(quietLogger(), Options{})
	v, ok := Guard(n, "adding", true, func() (int, error) { return 42, nil })
	if !ok || v != 42 {
		t.Fatalf("expected 42/true, got %d/%v", v, ok)
	}
	if n.Current().Visible {
		t.Error("success should not show a status")
	}
}

func TestGuard_ErrorShowsDetailedStatus(t *testing.T) {
	n := NewNotifier(quietLogger(), Options{ShowDetailedErrors: true})
	sink := &recordingSink{}
	n.SetSink(sink)

	v, ok := Guard(n, "rendering failed", true, func() (string, error) {
		return "partial", errors.New("boom")
	})
	if ok || v != "" {
		t.Fatalf("expected zero value and false, got %q/%v", v, ok)
	}
	cur := n.Current()
	if cur.Severity != Error || cur.Text != "rendering failed: boom" {
		t.Errorf("unexpected status: %+v", cur)
	}
	if len(sink.errors) != 1 {
		t.Errorf("expected error mirrored to sink, got %d", len(sink.errors))
	}
	n.Stop()
}

func TestGuard_ShortMessageWhenNotDetailed(t *testing.T) {
	n := NewNotifier(quietLogger(), Options{ShowDetailedErrors: false})
	Guard(n, "rendering failed", true, func() (int, error) { return 0, errors.New("boom") })
	if got := n.Current().Text; got != "rendering failed" {
		t.Errorf("expected label only, got %q", got)
	}
	n.Stop()
}

func TestGuard_SilentWhenNotNotifying(t *testing.T) {
	n := NewNotifier(quietLogger(), Options{})
	_, ok := Guard(n, "quiet", false, func() (int, error) { return 0, errors.New("boom") })
	if ok {
		t.Fatal("expected failure")
	}
	if n.Current().Visible {
		t.Error("expected no status when notify is false")
	}
}

func TestGuard_RecoversPanic(t *testing.T) {
	n := NewNotifier(quietLogger(), Options{ShowDetailedErrors: true})
	sink := &recordingSink{}
	n.SetSink(sink)

	_, ok := Guard(n, "exploded", true, func() (int, error) { panic("kaboom") })
	if ok {
		t.Fatal("expected failure after panic")
	}
	if !strings.Contains(n.Current().Text, "kaboom") {
		t.Errorf("expected panic value in status, got %q", n.Current().Text)
	}
	var pe *PanicError
	if len(sink.errors) != 1 || !errors.As(sink.errors[0], &pe) {
		t.Errorf("expected PanicError in sink, got %v", sink.errors)
	}
	n.Stop()
}

func TestNotifier_Since(t *testing.T) {
	n := NewNotifier(quietLogger(), Options{})
	first := n.Show("one", Info, 0)
	n.Show("two", Error, 0)
	n.Show("three", Warning, 0)

	got := n.Since(first.Seq)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Text != "two" || got[1].Text != "three" {
		t.Errorf("unexpected order: %+v", got)
	}
	if len(n.Since(got[1].Seq)) != 0 {
		t.Error("expected no messages after the latest")
	}
}
