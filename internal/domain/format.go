package domain

import (
	"fmt"
	"strings"
)

// FormatTo12h converts "HH:MM" to "h:MM AM/PM". Unparseable input is returned unchanged.
func FormatTo12h(clock string) string {
	h, m, err := ParseClock(clock)
	if err != nil {
		return clock
	}
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, period)
}

// Ashra is one of the three ten-day thirds of Ramadan
type Ashra int

const (
	AshraMercy       Ashra = iota + 1 // days 1-10
	AshraForgiveness                  // days 11-20
	AshraSalvation                    // days 21-30
)

func (a Ashra) String() string {
	switch a {
	case AshraMercy:
		return "First Ashra (Mercy)"
	case AshraForgiveness:
		return "Second Ashra (Forgiveness)"
	case AshraSalvation:
		return "Third Ashra (Salvation)"
	default:
		return "Unknown Ashra"
	}
}

// AshraOf returns the Ashra of a Hijri day of Ramadan
func AshraOf(hijriDay int) Ashra {
	switch {
	case hijriDay <= 10:
		return AshraMercy
	case hijriDay <= 20:
		return AshraForgiveness
	default:
		return AshraSalvation
	}
}

var urduDigits = []rune{'۰', '۱', '۲', '۳', '۴', '۵', '۶', '۷', '۸', '۹'}

// ToUrduDigits replaces ASCII digits with Eastern Arabic-Indic digits
func ToUrduDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(urduDigits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
