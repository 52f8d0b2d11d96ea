package terminal

import (
	"fmt"
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"gridsnake/game"
)

const sampleRate = beep.SampleRate(44100)

// Sound plays feedback for tick events
type Sound interface {
	Play(e game.Event)
	Close()
}

// Silent is a Sound that does nothing
type Silent struct{}

func (Silent) Play(game.Event) {}
func (Silent) Close()          {}

type tone struct {
	freq float64
	dur  time.Duration
}

var tones = map[game.Event]tone{
	game.EventAte:     {freq: 880, dur: 60 * time.Millisecond},
	game.EventCrashed: {freq: 220, dur: 400 * time.Millisecond},
	game.EventCleared: {freq: 1320, dur: 300 * time.Millisecond},
}

// Speaker plays short sine tones through the system audio device
type Speaker struct{}

// NewSpeaker initializes the audio device
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	return &Speaker{}, nil
}

// Play starts the tone for e, if it has one
func (s *Speaker) Play(e game.Event) {
	t, ok := tones[e]
	if !ok {
		return
	}
	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		log.Printf("tone %v: %v", e, err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(t.dur), sine))
}

// Close releases the audio device
func (s *Speaker) Close() {
	speaker.Close()
}
