package sound

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"rozadaar/internal/domain"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

// Audio device shared by every Player; oto allows one context per process
var (
	audioCtx     *oto.Context
	audioCtxErr  error
	audioCtxOnce sync.Once
)

func device() (*oto.Context, error) {
	audioCtxOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			audioCtxErr = fmt.Errorf("opening audio device: %w", err)
			return
		}
		<-ready
		audioCtx = ctx
	})
	return audioCtx, audioCtxErr
}

// playPCM blocks until pcm has been played
func playPCM(pcm []byte) error {
	ctx, err := device()
	if err != nil {
		return err
	}

	p := ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	for p.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return p.Close()
}

// Player plays the chime of each alert. Playback runs in the background
// and one chime plays at a time; alerts arriving meanwhile are dropped.
type Player struct {
	play func([]byte) error
	log  logger.Logger

	mu       sync.Mutex
	busy     bool
	rendered map[string][]byte
}

// Ensure Player implements ports.AlertDispatcher
var _ ports.AlertDispatcher = (*Player)(nil)

// NewPlayer creates a player on the default audio device
func NewPlayer(log logger.Logger) *Player {
	return newPlayer(playPCM, log)
}

func newPlayer(play func([]byte) error, log logger.Logger) *Player {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Player{play: play, log: log, rendered: make(map[string][]byte)}
}

// Dispatch starts the chime for event and returns immediately
func (p *Player) Dispatch(_ context.Context, event domain.AlertEvent) error {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return nil
	}
	p.busy = true
	pcm, ok := p.rendered[event.Sound]
	if !ok {
		pcm = Render(Pattern(event.Sound))
		p.rendered[event.Sound] = pcm
	}
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			p.busy = false
			p.mu.Unlock()
		}()
		if err := p.play(pcm); err != nil {
			p.log.Warning("playing %s chime: %v", event.Sound, err)
		}
	}()
	return nil
}
