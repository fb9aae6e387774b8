package views

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rozadaar/internal/application/commands"
	"rozadaar/internal/domain"
)

var pkt = time.FixedZone("PKT", 5*60*60)

func testLocation(id, name string, days int) domain.Location {
	loc := domain.Location{ID: id, NameEn: name}
	start := time.Date(2026, 2, 17, 0, 0, 0, 0, pkt)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		loc.Timings = append(loc.Timings, domain.DayRecord{
			ID:        i + 1,
			Date:      d.Format(domain.DateLayout),
			DayEn:     d.Weekday().String(),
			Sehri:     "05:25",
			Iftar:     "17:50",
			HijriDate: i + 1,
		})
	}
	return loc
}

func timingRows(loc domain.Location, today string) []commands.TimingRow {
	rows := make([]commands.TimingRow, 0, len(loc.Timings))
	for _, r := range loc.Timings {
		rows = append(rows, commands.TimingRow{Record: r, Ashra: domain.AshraOf(r.HijriDate), IsToday: r.Date == today})
	}
	return rows
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func msgOf(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestPaginator(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(25)

	if p.TotalPages() != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages())
	}

	p.SetCursor(12)
	if start, end := p.VisibleRange(); start != 10 || end != 20 {
		t.Errorf("VisibleRange = %d..%d, want 10..20", start, end)
	}

	p.NextPage()
	if p.Cursor() != 20 || p.CurrentPage() != 3 {
		t.Errorf("after NextPage cursor=%d page=%d", p.Cursor(), p.CurrentPage())
	}
	if p.NextPage() {
		t.Error("NextPage on the last page must fail")
	}

	p.SetTotal(5)
	if p.Cursor() != 4 {
		t.Errorf("SetTotal must clamp the cursor, got %d", p.Cursor())
	}

	p.SetCursor(-3)
	if p.Cursor() != 0 || p.CursorUp() {
		t.Error("cursor must stay at 0")
	}
}

func TestCountdownModel_View(t *testing.T) {
	loc := testLocation("sunwarian", "Sunwarian, AJK", 3)
	loc.CustomMessage = &domain.LocalizedText{En: "Stay blessed", Ur: "خوش رہیں"}
	now := time.Date(2026, 2, 17, 12, 0, 0, 0, pkt)

	m := NewCountdownModel()
	m.SetToday(&commands.TodayResult{
		Location:  loc,
		Record:    loc.Timings[0],
		HasRecord: true,
		Ashra:     domain.AshraMercy,
		Countdown: domain.Evaluate(now, loc.Table(), pkt),
		Notes: []domain.Note{
			{ID: "n1", Text: domain.LocalizedText{En: "Check the moon"}, IsGlobal: true, Type: domain.NoteTypeNote},
		},
	})
	m.SetStatus(Status{Online: false, Notifications: true, LastSync: "Feb 17 11:00"})

	view := m.View()
	for _, want := range []string{
		"Sunwarian, AJK", "Roza 1", "Iftar in", "05:50:00", "5:50 PM", "5:25 AM",
		"Stay blessed", "Check the moon", "offline", "device time", "alerts on", "synced Feb 17 11:00",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}

	m.SetLanguage(true)
	view = m.View()
	for _, want := range []string{"خوش رہیں", "۰۵:۵۰:۰۰"} {
		if !strings.Contains(view, want) {
			t.Errorf("urdu view does not contain %q", want)
		}
	}
}

func TestCountdownModel_Completed(t *testing.T) {
	loc := testLocation("sunwarian", "Sunwarian, AJK", 1)
	m := NewCountdownModel()
	m.SetToday(&commands.TodayResult{
		Location:  loc,
		Countdown: domain.Evaluate(time.Date(2026, 3, 30, 12, 0, 0, 0, pkt), loc.Table(), pkt),
	})

	if !strings.Contains(m.View(), domain.CompletedLabel) {
		t.Error("expected completed label")
	}
	if got := m.ClipboardText(); got != "Sunwarian, AJK: "+domain.CompletedLabel {
		t.Errorf("ClipboardText = %q", got)
	}
}

func TestCountdownModel_ClipboardText(t *testing.T) {
	loc := testLocation("sunwarian", "Sunwarian, AJK", 2)
	m := NewCountdownModel()
	if m.ClipboardText() != "" {
		t.Error("expected empty text before the first tick")
	}

	m.SetToday(&commands.TodayResult{
		Location:  loc,
		Countdown: domain.Evaluate(time.Date(2026, 2, 17, 4, 25, 0, 0, pkt), loc.Table(), pkt),
	})
	want := "Sunwarian, AJK: Sehri in 01:00:00 (5:25 AM)"
	if got := m.ClipboardText(); got != want {
		t.Errorf("ClipboardText = %q, want %q", got, want)
	}

	msg := msgOf(t, func() tea.Cmd { _, c := m.Update(keyPress("y")); return c }())
	if req, ok := msg.(CopyRequestMsg); !ok || req.Text != want {
		t.Errorf("expected CopyRequestMsg, got %#v", msg)
	}
}

func TestCountdownModel_Keys(t *testing.T) {
	loc := testLocation("sunwarian", "Sunwarian, AJK", 1)
	m := NewCountdownModel()
	m.SetToday(&commands.TodayResult{Location: loc})

	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"c", SwitchToCalendarMsg{}},
		{"l", SwitchToLocationsMsg{}},
		{"?", SwitchToHelpMsg{}},
		{"s", SyncRequestMsg{}},
		{"n", ToggleNotificationsMsg{}},
		{"u", ToggleLanguageMsg{}},
		{"e", EditRequestMsg{LocationID: "sunwarian"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cmd := m.Update(keyPress(tt.key))
			if got := msgOf(t, cmd); got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCountdownModel_AlertBanner(t *testing.T) {
	loc := testLocation("sunwarian", "Sunwarian, AJK", 1)
	now := time.Date(2026, 2, 17, 17, 30, 0, 0, pkt)
	c := domain.Evaluate(now, loc.Table(), pkt)

	m := NewCountdownModel()
	m.SetToday(&commands.TodayResult{Location: loc, Countdown: c})
	m.ShowAlert(domain.NewOffsetAlert(c, 20, now), now.Add(time.Minute))
	if !strings.Contains(m.View(), "20 Minutes to Iftar.") {
		t.Error("expected banner")
	}

	m.SetToday(&commands.TodayResult{Location: loc, Countdown: domain.Evaluate(now.Add(2*time.Minute), loc.Table(), pkt)})
	if strings.Contains(m.View(), "20 Minutes to Iftar.") {
		t.Error("banner must expire")
	}
}

func TestCalendarModel(t *testing.T) {
	loc := testLocation("sunwarian", "Sunwarian, AJK", 30)
	m := NewCalendarModel()
	m.SetSize(80, 19)
	m.SetTimings(loc, timingRows(loc, "2026-03-02"))

	if m.Cursor() != 13 {
		t.Fatalf("cursor = %d, want today's row 13", m.Cursor())
	}
	view := m.View()
	if !strings.Contains(view, "2026-03-02") || !strings.Contains(view, "Second Ashra (Forgiveness)") {
		t.Error("today's row and its Ashra must be visible")
	}
	if strings.Contains(view, "2026-02-17") {
		t.Error("the first page must be scrolled away")
	}

	m.Update(keyPress("k"))
	m.Update(keyPress("k"))
	if m.Cursor() != 11 {
		t.Errorf("cursor = %d, want 11", m.Cursor())
	}

	// a refresh for the same location keeps the cursor
	m.SetTimings(loc, timingRows(loc, "2026-03-02"))
	if m.Cursor() != 11 {
		t.Errorf("refresh moved the cursor to %d", m.Cursor())
	}

	m.Update(keyPress("t"))
	if m.Cursor() != 13 {
		t.Errorf("jump to today: cursor = %d", m.Cursor())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	if m.Cursor() != 20 {
		t.Errorf("page down: cursor = %d, want 20", m.Cursor())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := msgOf(t, cmd).(SwitchToCountdownMsg); !ok {
		t.Error("esc must return to the countdown")
	}
}

func TestCalendarModel_Empty(t *testing.T) {
	m := NewCalendarModel()
	m.SetTimings(domain.Location{ID: "empty", NameEn: "Nowhere"}, nil)
	if !strings.Contains(m.View(), "No timetable") {
		t.Error("expected empty notice")
	}
}

func TestLocationsModel(t *testing.T) {
	var locs []domain.Location
	for i, name := range []string{"Sunwarian", "Kotli", "Mirpur", "Muzaffarabad"} {
		locs = append(locs, domain.Location{ID: fmt.Sprintf("loc%d", i), NameEn: name})
	}

	m := NewLocationsModel()
	m.SetLocations(locs, "loc2")
	m.Init()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := msgOf(t, cmd); got != (LocationSelectedMsg{ID: "loc2"}) {
		t.Errorf("enter selected %#v, want the current location", got)
	}

	m.Update(keyPress("m"))
	m.Update(keyPress("u"))
	if n := len(m.Filtered()); n != 1 || m.Filtered()[0].NameEn != "Muzaffarabad" {
		t.Fatalf("filter matched %v", m.Filtered())
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := msgOf(t, cmd); got != (LocationSelectedMsg{ID: "loc3"}) {
		t.Errorf("got %#v", got)
	}

	m.Update(keyPress("x"))
	if !strings.Contains(m.View(), "No matching location.") {
		t.Error("expected no-match notice")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter without matches must do nothing")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := msgOf(t, cmd).(SwitchToCountdownMsg); !ok {
		t.Error("esc must return to the countdown")
	}
}

func TestLocalizer(t *testing.T) {
	text := domain.LocalizedText{En: "Iftar", Ur: "افطار"}
	tests := []struct {
		urdu bool
		want string
	}{
		{false, "Iftar"},
		{true, "افطار"},
	}
	for _, tt := range tests {
		if got := (Localizer{Urdu: tt.urdu}).Text(text); got != tt.want {
			t.Errorf("Text(urdu=%v) = %q, want %q", tt.urdu, got, tt.want)
		}
	}
	if got := (Localizer{Urdu: true}).Pick("Kotli", ""); got != "Kotli" {
		t.Errorf("Pick must fall back to English, got %q", got)
	}
	if got := (Localizer{Urdu: true}).Digits("12:05"); got != "۱۲:۰۵" {
		t.Errorf("Digits = %q", got)
	}
}

func TestCountdownModel_Duas(t *testing.T) {
	loc := testLocation("sunwarian", "Sunwarian, AJK", 3)
	m := NewCountdownModel()
	m.SetToday(&commands.TodayResult{
		Location:  loc,
		Record:    loc.Timings[0],
		HasRecord: true,
		Countdown: domain.Evaluate(time.Date(2026, 2, 17, 12, 0, 0, 0, pkt), loc.Table(), pkt),
	})

	if view := m.View(); !strings.Contains(view, "Iftar Dua") {
		t.Error("expected the iftar dua while fasting")
	}

	if _, cmd := m.Update(keyPress("d")); cmd != nil {
		t.Error("cycling duas must not emit a command")
	}
	if view := m.View(); !strings.Contains(view, "First Ashra Dua") {
		t.Error("expected the first ashra dua after one press")
	}

	m.Update(keyPress("d"))
	if view := m.View(); !strings.Contains(view, "Iftar Dua") {
		t.Error("expected the cycle to wrap around")
	}

	m.SetLanguage(true)
	if view := m.View(); !strings.Contains(view, domain.IftarDua.Title.Ur) {
		t.Error("expected the urdu dua title")
	}
}
