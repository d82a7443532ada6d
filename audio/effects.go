package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Cue identifies one sound effect
type Cue uint8

const (
	CueNone Cue = iota
	CueFire
	CueHit
	CueDestroy
)

func (c Cue) String() string {
	switch c {
	case CueFire:
		return "fire"
	case CueHit:
		return "hit"
	case CueDestroy:
		return "destroy"
	default:
		return "none"
	}
}

// Cue timing
const (
	FireDuration    = 60 * time.Millisecond
	HitDuration     = 90 * time.Millisecond
	DestroyDuration = 250 * time.Millisecond

	attackTime  = 5 * time.Millisecond
	releaseTime = 40 * time.Millisecond
)

// tone returns a sine tone of freq cut to duration, shaped by the envelope
func tone(freq float64, duration time.Duration, rate beep.SampleRate) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	return NewEnvelope(beep.Take(rate.N(duration), sine), duration, attackTime, releaseTime, rate), nil
}

// noise is a white noise burst of fixed length
type noise struct {
	remaining int
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	if n.remaining <= 0 {
		return 0, false
	}
	count := min(len(samples), n.remaining)
	for i := 0; i < count; i++ {
		v := rand.Float64()*2 - 1
		samples[i][0] = v
		samples[i][1] = v
	}
	n.remaining -= count
	return count, true
}

func (n *noise) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/release envelope over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; math.Log2(0) is -Inf, so zero volume is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// NewCue builds the streamer for c at the given volume
func NewCue(c Cue, vol float64, rate beep.SampleRate) (beep.Streamer, error) {
	var (
		s   beep.Streamer
		err error
	)
	switch c {
	case CueFire:
		s, err = tone(880, FireDuration, rate)
	case CueHit:
		var low, high beep.Streamer
		if low, err = tone(220, HitDuration, rate); err != nil {
			return nil, err
		}
		if high, err = tone(330, HitDuration, rate); err != nil {
			return nil, err
		}
		s = beep.Mix(low, high)
		vol /= 2
	case CueDestroy:
		burst := &noise{remaining: rate.N(DestroyDuration)}
		s = NewEnvelope(burst, DestroyDuration, attackTime, DestroyDuration/2, rate)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return newVolume(s, vol), nil
}
