// Package sound plays the alert chimes through the system audio device
package sound

import (
	"encoding/binary"
	"math"
	"time"

	"rozadaar/internal/domain"
)

const (
	// SampleRate of the rendered PCM, mono signed 16-bit little endian
	SampleRate = 44100

	floorGain = 0.01
)

// Note is one sine tone in a chime
type Note struct {
	Freq   float64
	Start  time.Duration
	Length time.Duration
	Volume float64
}

// End is when the note stops sounding
func (n Note) End() time.Duration {
	return n.Start + n.Length
}

var arpeggio = []float64{440, 554, 659, 880}

// Pattern returns the notes for an alert sound. Offset alerts get a soft
// double chime, the boundary itself an A major arpeggio played twice.
func Pattern(name string) []Note {
	if name != domain.SoundAlarm {
		return []Note{
			{Freq: 660, Start: 0, Length: 500 * time.Millisecond, Volume: 0.2},
			{Freq: 880, Start: 200 * time.Millisecond, Length: 500 * time.Millisecond, Volume: 0.2},
		}
	}

	notes := make([]Note, 0, 2*len(arpeggio))
	for _, offset := range []time.Duration{0, 1200 * time.Millisecond} {
		for i, f := range arpeggio {
			notes = append(notes, Note{
				Freq:   f,
				Start:  offset + time.Duration(i)*250*time.Millisecond,
				Length: 800 * time.Millisecond,
				Volume: 0.15,
			})
		}
	}
	return notes
}

// Render mixes notes into PCM. Each note decays exponentially from its
// volume to 1% over its length; overlapping notes are summed and clipped.
func Render(notes []Note) []byte {
	var total time.Duration
	for _, n := range notes {
		total = max(total, n.End())
	}

	samples := make([]float64, samplesFor(total))
	for _, n := range notes {
		first := samplesFor(n.Start)
		count := samplesFor(n.Length)
		if n.Volume <= 0 || count == 0 {
			continue
		}
		decay := math.Log(floorGain/n.Volume) / float64(count)
		for i := 0; i < count && first+i < len(samples); i++ {
			gain := n.Volume * math.Exp(decay*float64(i))
			phase := 2 * math.Pi * n.Freq * float64(i) / SampleRate
			samples[first+i] += gain * math.Sin(phase)
		}
	}

	pcm := make([]byte, 2*len(samples))
	for i, s := range samples {
		s = max(-1, min(1, s))
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(int16(s*math.MaxInt16)))
	}
	return pcm
}

func samplesFor(d time.Duration) int {
	return int(d.Seconds() * SampleRate)
}
