package domain

import "testing"

func TestCurrentDua(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"before sehri", StateBeforeStart, "Sehri Dua"},
		{"fasting", StateBeforeEnd, "Iftar Dua"},
		{"after iftar", StateExhaustedToday, "Sehri Dua"},
		{"complete", StateComplete, "Sehri Dua"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentDua(Countdown{State: tt.state})
			if got.Title.En != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Title.En)
			}
		})
	}
}

func TestDuasOf(t *testing.T) {
	tests := []struct {
		name string
		c    Countdown
		want []string
	}{
		{"first ashra", Countdown{State: StateBeforeEnd, Record: DayRecord{HijriDate: 3}}, []string{"Iftar Dua", "First Ashra Dua"}},
		{"second ashra", Countdown{State: StateBeforeStart, Record: DayRecord{HijriDate: 15}}, []string{"Sehri Dua", "Second Ashra Dua"}},
		{"third ashra", Countdown{State: StateExhaustedToday, Record: DayRecord{HijriDate: 29}}, []string{"Sehri Dua", "Third Ashra Dua"}},
		{"no hijri date", Countdown{State: StateBeforeStart}, []string{"Sehri Dua"}},
		{"complete", Countdown{State: StateComplete, Record: DayRecord{HijriDate: 30}}, []string{"Sehri Dua"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DuasOf(tt.c)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d duas, got %d", len(tt.want), len(got))
			}
			for i, title := range tt.want {
				if got[i].Title.En != title {
					t.Errorf("position %d: expected %s, got %s", i, title, got[i].Title.En)
				}
			}
		})
	}
}

func TestDua_Translation(t *testing.T) {
	if got := IftarDua.Translation("ur"); got != IftarDua.Urdu {
		t.Errorf("expected urdu translation, got %q", got)
	}
	if got := IftarDua.Translation("en"); got != IftarDua.English {
		t.Errorf("expected english translation, got %q", got)
	}
	if got := IftarDua.Translation(""); got != IftarDua.English {
		t.Errorf("expected english fallback, got %q", got)
	}
}
