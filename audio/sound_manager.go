// Package audio plays short synthesized cues for game events
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/arena/engine"
)

const (
	sampleRate = beep.SampleRate(48000)

	// maxVoices bounds concurrently mixed cues; extra cues are dropped
	maxVoices = 16
)

// SoundManager manages all game audio
// Every method is a no-op until Initialize succeeds, so the game runs unchanged without a device
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	logger      *zap.Logger
	initialized bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager(volume float64, logger *zap.Logger) *SoundManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
		logger: logger,
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

func (sm *SoundManager) PlayFire()    { sm.Play(CueFire) }
func (sm *SoundManager) PlayHit()     { sm.Play(CueHit) }
func (sm *SoundManager) PlayDestroy() { sm.Play(CueDestroy) }

// Play queues cue c on the mixer
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || c == CueNone {
		return
	}

	s, err := NewCue(c, sm.volume, sampleRate)
	if err != nil {
		sm.logger.Warn("cue unavailable", zap.Stringer("cue", c), zap.Error(err))
		return
	}

	speaker.Lock()
	if sm.mixer.Len() < maxVoices {
		sm.mixer.Add(s)
	}
	speaker.Unlock()
}

// Handle implements engine.EventSink; at most one cue of each kind plays per frame
func (sm *SoundManager) Handle(events []engine.GameEvent) {
	var seen [CueDestroy + 1]bool
	for _, ev := range events {
		c := CueFor(ev)
		if c == CueNone || seen[c] {
			continue
		}
		seen[c] = true
		sm.Play(c)
	}
}

// CueFor maps a game event to its sound; only actor deaths get the destroy cue
func CueFor(ev engine.GameEvent) Cue {
	switch ev.Type {
	case engine.EventFired:
		return CueFire
	case engine.EventHit:
		return CueHit
	case engine.EventDestroyed:
		if ev.Kind == engine.KindChaser || ev.Kind == engine.KindPlayer {
			return CueDestroy
		}
	}
	return CueNone
}
