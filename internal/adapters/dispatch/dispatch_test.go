package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"rozadaar/internal/domain"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

func sampleEvent() domain.AlertEvent {
	rec := domain.DayRecord{Date: "2026-02-19"}
	target := time.Date(2026, 2, 19, 18, 2, 0, 0, time.UTC)
	return domain.NewExactAlert("lahore", rec, domain.BoundaryEnd, target, target)
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTerminal(&buf).Dispatch(context.Background(), sampleEvent()); err != nil {
		t.Fatal(err)
	}
	want := "\a[18:02:00] Ramadan Alert: Iftar Time!\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

// fakeToken completes immediately with err
type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	ch := make(chan struct{})
	close(ch)
	return &fakeToken{err: err, done: ch}
}

func (f *fakeToken) Wait() bool                     { return true }
func (f *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (f *fakeToken) Done() <-chan struct{}          { return f.done }
func (f *fakeToken) Error() error                   { return f.err }

type fakePublisher struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload.([]byte))
	return newFakeToken(f.err)
}

func TestMQTT_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	if err := newMQTT(pub, nil).Dispatch(context.Background(), sampleEvent()); err != nil {
		t.Fatal(err)
	}

	if len(pub.topics) != 1 || pub.topics[0] != "rozadaar/alerts/lahore" {
		t.Fatalf("unexpected topics %v", pub.topics)
	}
	var got map[string]any
	if err := json.Unmarshal(pub.payloads[0], &got); err != nil {
		t.Fatal(err)
	}
	if got["kind"] != "exact" || got["boundary"] != "iftar" || got["message"] != "Iftar Time!" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestMQTT_PublishFailureIsLogged(t *testing.T) {
	log := logger.NewMockLogger()
	pub := &fakePublisher{err: errors.New("not connected")}
	if err := newMQTT(pub, log).Dispatch(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish failures must not surface, got %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for len(log.Warnings()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if w := log.Warnings(); len(w) != 1 || !strings.Contains(w[0], "not connected") {
		t.Errorf("expected one warning, got %v", w)
	}
}

func TestMulti(t *testing.T) {
	var calls int
	ok := ports.DispatcherFunc(func(context.Context, domain.AlertEvent) error {
		calls++
		return nil
	})
	failing := ports.DispatcherFunc(func(context.Context, domain.AlertEvent) error {
		calls++
		return errors.New("sink down")
	})

	err := Multi{failing, nil, ok}.Dispatch(context.Background(), sampleEvent())
	if err == nil || !strings.Contains(err.Error(), "sink down") {
		t.Errorf("expected joined error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected both sinks called, got %d", calls)
	}
}
