package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rozadaar/internal/adapters/memory"
	"rozadaar/internal/adapters/tui/views"
	"rozadaar/internal/application"
	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

var pkt = time.FixedZone("PKT", 5*60*60)

type fakeLinks struct{ opened []string }

func (f *fakeLinks) Open(u string) error {
	f.opened = append(f.opened, u)
	return nil
}

type fakeController struct {
	online  bool
	resumes int
	syncs   int
}

func (f *fakeController) Online() bool { return f.online }
func (f *fakeController) Resume()      { f.resumes++ }
func (f *fakeController) SyncNow()     { f.syncs++ }

func newTestApp(t *testing.T, now time.Time) (*App, *fakeController) {
	t.Helper()
	catalog := application.LoadCatalog(context.Background(), application.NewLocalState(memory.NewStateStore(), nil))
	ctrl := &fakeController{online: true}
	app := NewApp(Deps{
		Catalog:   catalog,
		Clock:     ports.ClockFunc(func() time.Time { return now }),
		Loc:       pkt,
		Scheduler: ctrl,
	})
	return app, ctrl
}

// run feeds msg to the app and then every message its commands produce,
// skipping the blocking event listener
func run(app *App, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0 && steps < 8; steps++ {
		next := queue[0]
		queue = queue[1:]
		_, cmd := app.Update(next)
		if cmd == nil {
			continue
		}
		if _, isTick := next.(tickMsg); isTick {
			continue
		}
		if _, isAlert := next.(alertMsg); isAlert {
			continue
		}
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				if _, batch := out.(tea.BatchMsg); !batch {
					queue = append(queue, out)
				}
			}
		}
	}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_CountdownView(t *testing.T) {
	now := time.Date(2026, 2, 17, 4, 25, 0, 0, pkt)
	app, _ := newTestApp(t, now)

	view := app.View()
	for _, want := range []string{"Sunwarian", "Sehri in", "01:00:00", "First Ashra (Mercy)", "online"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}
}

func TestApp_TickUpdatesCountdown(t *testing.T) {
	now := time.Date(2026, 2, 17, 4, 25, 0, 0, pkt)
	app, _ := newTestApp(t, now)
	table := app.deps.Catalog.Table()

	run(app, tickMsg{countdown: domain.Evaluate(now.Add(30*time.Minute), table, pkt)})
	if !strings.Contains(app.View(), "00:30:00") {
		t.Error("expected the scheduler countdown to be shown")
	}
}

func TestApp_AlertBanner(t *testing.T) {
	now := time.Date(2026, 2, 17, 4, 25, 0, 0, pkt)
	app, _ := newTestApp(t, now)
	table := app.deps.Catalog.Table()
	c := domain.Evaluate(now, table, pkt)

	if err := app.Dispatcher().Dispatch(context.Background(), domain.NewOffsetAlert(c, 60, now)); err != nil {
		t.Fatal(err)
	}
	run(app, <-app.events)
	run(app, tickMsg{countdown: c})
	if !strings.Contains(app.View(), "1 Hour remaining for Sehri!") {
		t.Error("expected alert banner")
	}

	run(app, tickMsg{countdown: domain.Evaluate(now.Add(AlertBanner), table, pkt)})
	if strings.Contains(app.View(), "1 Hour remaining for Sehri!") {
		t.Error("banner must expire")
	}
}

func TestApp_OnTickNeverBlocks(t *testing.T) {
	app, _ := newTestApp(t, time.Date(2026, 2, 17, 4, 25, 0, 0, pkt))
	done := make(chan struct{})
	go func() {
		for i := 0; i < eventBuffer*3; i++ {
			app.OnTick(domain.Countdown{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnTick blocked on a full buffer")
	}
}

func TestApp_Actions(t *testing.T) {
	app, ctrl := newTestApp(t, time.Date(2026, 2, 17, 12, 0, 0, 0, pkt))
	var copied string
	app.copy = func(s string) error {
		copied = s
		return nil
	}

	run(app, keyPress("s"))
	if ctrl.syncs != 1 {
		t.Errorf("expected one sync request, got %d", ctrl.syncs)
	}

	run(app, tea.FocusMsg{})
	if ctrl.resumes != 1 {
		t.Errorf("expected focus to trigger a resume, got %d", ctrl.resumes)
	}

	run(app, keyPress("y"))
	if !strings.Contains(copied, "Iftar in") {
		t.Errorf("unexpected clipboard text %q", copied)
	}

	run(app, keyPress("n"))
	if app.deps.Catalog.Settings().NotificationsEnabled {
		t.Error("expected notifications toggled off")
	}
	if !strings.Contains(app.View(), "alerts off") {
		t.Error("status bar must reflect the toggle")
	}

	run(app, keyPress("u"))
	if app.deps.Catalog.Settings().Language != "ur" {
		t.Error("expected language toggled to ur")
	}
}

func TestApp_CopyFailure(t *testing.T) {
	app, _ := newTestApp(t, time.Date(2026, 2, 17, 12, 0, 0, 0, pkt))
	app.copy = func(string) error { return errors.New("no clipboard") }

	run(app, keyPress("y"))
	if !strings.Contains(app.View(), "Copy failed: no clipboard") {
		t.Error("expected copy error message")
	}
}

func TestApp_ViewSwitching(t *testing.T) {
	app, _ := newTestApp(t, time.Date(2026, 2, 17, 12, 0, 0, 0, pkt))

	tests := []struct {
		key  string
		want ViewState
	}{
		{"c", ViewCalendar},
		{"c", ViewCountdown},
		{"?", ViewHelp},
		{"q", ViewCountdown},
		{"l", ViewLocations},
	}
	for _, tt := range tests {
		run(app, keyPress(tt.key))
		if app.state != tt.want {
			t.Fatalf("after %q: state = %v, want %v", tt.key, app.state, tt.want)
		}
	}

	run(app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != ViewCountdown {
		t.Errorf("selecting a location must return to the countdown, got %v", app.state)
	}
	if app.deps.Catalog.Settings().SelectedLocationID != "sunwarian" {
		t.Error("selected location changed unexpectedly")
	}
}

func TestApp_SelectUnknownLocation(t *testing.T) {
	app, _ := newTestApp(t, time.Date(2026, 2, 17, 12, 0, 0, 0, pkt))
	run(app, views.LocationSelectedMsg{ID: "atlantis"})
	if !strings.Contains(app.View(), "not found") {
		t.Error("expected an error for an unknown location")
	}
}

func TestApp_EditUnavailable(t *testing.T) {
	app, _ := newTestApp(t, time.Date(2026, 2, 17, 12, 0, 0, 0, pkt))
	run(app, keyPress("e"))
	if !strings.Contains(app.View(), "Editing is not available") {
		t.Error("expected edit to be refused without an editor")
	}
}

func TestApp_OpenLinks(t *testing.T) {
	app, _ := newTestApp(t, time.Date(2026, 2, 17, 12, 0, 0, 0, pkt))
	links := &fakeLinks{}
	app.deps.Links = links

	run(app, keyPress("w"))
	run(app, keyPress("g"))
	run(app, keyPress("l"))
	run(app, tea.KeyMsg{Type: tea.KeyCtrlR})

	want := []string{"https://wa.me/923191490380", domain.DefaultWhatsappCommunity, domain.RequestLocationURL()}
	if len(links.opened) != len(want) {
		t.Fatalf("opened %v, want %v", links.opened, want)
	}
	for i := range want {
		if links.opened[i] != want[i] {
			t.Errorf("link %d = %q, want %q", i, links.opened[i], want[i])
		}
	}
	if app.state != ViewCountdown || !strings.Contains(app.View(), "Opened in browser") {
		t.Error("expected to return to the countdown with a confirmation")
	}
}
