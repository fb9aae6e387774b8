package sound

import (
	"context"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"time"

	"rozadaar/internal/domain"
	"rozadaar/internal/logger"
)

func TestPattern(t *testing.T) {
	tests := []struct {
		name      string
		sound     string
		wantNotes int
		wantEnd   time.Duration
	}{
		{"beep", domain.SoundBeep, 2, 700 * time.Millisecond},
		{"alarm", domain.SoundAlarm, 8, 2750 * time.Millisecond},
		{"unknown falls back to beep", "", 2, 700 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := Pattern(tt.sound)
			if len(notes) != tt.wantNotes {
				t.Fatalf("got %d notes, want %d", len(notes), tt.wantNotes)
			}
			var end time.Duration
			for _, n := range notes {
				end = max(end, n.End())
			}
			if end != tt.wantEnd {
				t.Errorf("ends at %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func sampleAt(pcm []byte, i int) int16 {
	return int16(binary.LittleEndian.Uint16(pcm[2*i:]))
}

func TestRender(t *testing.T) {
	notes := []Note{{Freq: 441, Length: time.Second, Volume: 0.5}}
	pcm := Render(notes)

	if len(pcm) != 2*SampleRate {
		t.Fatalf("got %d bytes, want %d", len(pcm), 2*SampleRate)
	}
	if sampleAt(pcm, 0) != 0 {
		t.Errorf("sine must start at zero, got %d", sampleAt(pcm, 0))
	}

	// 441 Hz peaks every 100 samples, a quarter period in
	early := sampleAt(pcm, 25)
	late := sampleAt(pcm, SampleRate-75)
	if early <= 0 || late <= 0 {
		t.Fatalf("expected positive peaks, got %d and %d", early, late)
	}
	if late >= early/10 {
		t.Errorf("expected decay to about 2%% of the first peak, got %d then %d", early, late)
	}
}

func TestRender_Clips(t *testing.T) {
	loud := []Note{
		{Freq: 441, Length: 100 * time.Millisecond, Volume: 1},
		{Freq: 441, Length: 100 * time.Millisecond, Volume: 1},
	}
	pcm := Render(loud)
	if got := sampleAt(pcm, 25); got != 32767 {
		t.Errorf("summed peak should clip to max, got %d", got)
	}
}

func TestRender_Empty(t *testing.T) {
	if pcm := Render(nil); len(pcm) != 0 {
		t.Errorf("expected no samples, got %d bytes", len(pcm))
	}
}

func alertWith(sound string) domain.AlertEvent {
	return domain.AlertEvent{Scope: "lahore", Sound: sound}
}

func TestPlayer_Dispatch(t *testing.T) {
	played := make(chan int, 2)
	release := make(chan struct{})
	p := newPlayer(func(pcm []byte) error {
		played <- len(pcm)
		<-release
		return nil
	}, nil)

	if err := p.Dispatch(context.Background(), alertWith(domain.SoundAlarm)); err != nil {
		t.Fatal(err)
	}
	if n := <-played; n != len(Render(Pattern(domain.SoundAlarm))) {
		t.Errorf("played %d bytes of PCM", n)
	}

	// a second alert while the first chime plays is dropped
	if err := p.Dispatch(context.Background(), alertWith(domain.SoundBeep)); err != nil {
		t.Fatal(err)
	}
	close(release)

	deadline := time.Now().Add(time.Second)
	for {
		p.mu.Lock()
		busy := p.busy
		p.mu.Unlock()
		if !busy || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case n := <-played:
		t.Errorf("overlapping chime should be dropped, played %d bytes", n)
	default:
	}

	if err := p.Dispatch(context.Background(), alertWith(domain.SoundBeep)); err != nil {
		t.Fatal(err)
	}
	select {
	case <-played:
	case <-time.After(time.Second):
		t.Error("expected the next chime to play once idle")
	}
}

func TestPlayer_FailureIsLogged(t *testing.T) {
	log := logger.NewMockLogger()
	p := newPlayer(func([]byte) error { return errors.New("no audio device") }, log)

	if err := p.Dispatch(context.Background(), alertWith(domain.SoundBeep)); err != nil {
		t.Fatalf("playback failures must not surface, got %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for len(log.Warnings()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if w := log.Warnings(); len(w) != 1 || !strings.Contains(w[0], "no audio device") {
		t.Errorf("expected one warning, got %v", w)
	}
}
