package buzzer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/hashicorp/go-hclog"
)

const (
	NoteD = 554.4
	NoteF = 661.5

	// BeepHz is the confirmation beep.
	BeepHz = NoteD

	SampleRate = beep.SampleRate(44100)
)

// Tone is a square wave generator that a speaker can stream from.  Frequency and on/off may
// be changed while it is playing.
type Tone struct {
	lock       sync.Mutex
	sampleRate beep.SampleRate
	frequency  float64
	on         bool
	phase      float64
	Volume     float64
}

func NewTone(sampleRate beep.SampleRate) *Tone {
	return &Tone{
		sampleRate: sampleRate,
		frequency:  BeepHz,
		Volume:     0.3,
	}
}

func (t *Tone) SetFrequency(hz float64) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.frequency = hz
}

func (t *Tone) SetOn(on bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.on = on
}

// Stream implements beep.Streamer.  It never runs dry.
func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	step := t.frequency / float64(t.sampleRate)
	for i := range samples {
		v := 0.0
		if t.on && t.frequency > 0 {
			if t.phase < 0.5 {
				v = t.Volume
			} else {
				v = -t.Volume
			}
			t.phase += step
			t.phase -= math.Floor(t.phase)
		}
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (t *Tone) Err() error {
	return nil
}

var _ beep.Streamer = (*Tone)(nil)

// Buzzer plays a Tone through the default audio output.
type Buzzer struct {
	log  hclog.Logger
	tone *Tone
}

func New(log hclog.Logger) (*Buzzer, error) {
	tone := NewTone(SampleRate)
	err := speaker.Init(SampleRate, SampleRate.N(time.Second/20))
	if err != nil {
		return nil, fmt.Errorf("failed to open speaker: %w", err)
	}
	speaker.Play(tone)
	return &Buzzer{log: log, tone: tone}, nil
}

func (b *Buzzer) TurnOn() {
	b.tone.SetOn(true)
}

func (b *Buzzer) TurnOff() {
	b.tone.SetOn(false)
}

func (b *Buzzer) SetFrequency(hz float64) {
	b.log.Trace("Buzzer frequency", "hz", hz)
	b.tone.SetFrequency(hz)
}

// Dummy is a buzzer that prints what it would play.
type Dummy struct {
	hz float64
}

func (d *Dummy) TurnOn() {
	fmt.Printf("Buzzer on (%.1fHz)\n", d.hz)
}

func (d *Dummy) TurnOff() {
	fmt.Println("Buzzer off")
}

func (d *Dummy) SetFrequency(hz float64) {
	d.hz = hz
}
