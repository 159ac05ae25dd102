package audio

import (
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 512
	maxVoices  = 8
)

// voice is one decaying click.
type voice struct {
	freq  float64
	amp   float64
	phase float64
	decay float64
}

// Processor synthesizes short clicks for collisions and wall bounces.
type Processor struct {
	Stream *portaudio.Stream

	mu          sync.Mutex
	voices      []voice
	filterState [2]float64
	muted       bool

	Active bool
}

func NewProcessor() *Processor {
	return &Processor{voices: make([]voice, 0, maxVoices)}
}

// Start opens the default output device. On failure the processor stays
// inactive and every trigger is a no-op.
func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "AUDIO ERROR: %v\n", err)
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.ProcessAudio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AUDIO ERROR: %v\n", err)
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "STREAM START ERROR: %v\n", err)
		stream.Close()
		portaudio.Terminate()
		return err
	}

	a.Stream = stream
	a.Active = true
	return nil
}

func (a *Processor) Stop() {
	if !a.Active {
		return
	}
	if a.Stream != nil {
		a.Stream.Stop()
		a.Stream.Close()
	}
	portaudio.Terminate()
	a.Active = false
}

// Click queues a ball-on-ball clack whose loudness follows impact speed.
func (a *Processor) Click(impact float64) {
	a.trigger(voice{freq: 1800, amp: gainFor(impact), decay: 0.9985})
}

// Thump queues a duller cushion hit.
func (a *Processor) Thump(speed float64) {
	a.trigger(voice{freq: 320, amp: 0.6 * gainFor(speed), decay: 0.9975})
}

// gainFor maps a speed in table units per tick to [0, 1].
func gainFor(speed float64) float64 {
	return math.Min(speed/8.0, 1.0)
}

func (a *Processor) trigger(v voice) {
	if v.amp <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.muted {
		return
	}
	if len(a.voices) == maxVoices {
		a.voices = a.voices[1:]
	}
	a.voices = append(a.voices, v)
}

// SetMuted silences new triggers and drops those still sounding.
func (a *Processor) SetMuted(m bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.muted = m
	if m {
		a.voices = a.voices[:0]
	}
}

func (a *Processor) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.muted
}

// Pending returns the number of voices still sounding.
func (a *Processor) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.voices)
}

// Triangle Wave: softer than a square, brighter than a sine
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

// ProcessAudio is the portaudio callback; out holds one buffer per channel.
func (a *Processor) ProcessAudio(out [][]float32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	vol := 0.35

	for i := range out[0] {
		sample := 0.0
		for j := range a.voices {
			v := &a.voices[j]
			sample += triangle(v.phase) * v.amp
			v.phase += v.freq * dt
			v.amp *= v.decay
		}

		var l, r float64
		l, a.filterState[0] = lpf(sample, 4000, dt, a.filterState[0])
		r, a.filterState[1] = lpf(sample, 3000, dt, a.filterState[1])
		for c := range out {
			if c%2 == 0 {
				out[c][i] = float32(l * vol)
			} else {
				out[c][i] = float32(r * vol)
			}
		}
	}

	live := a.voices[:0]
	for _, v := range a.voices {
		if v.amp > 1e-3 {
			live = append(live, v)
		}
	}
	a.voices = live
}
