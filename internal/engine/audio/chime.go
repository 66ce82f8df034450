package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
)

// Note is one partial of the chime.
type Note struct {
	Freq  float64
	Delay time.Duration
}

const (
	noteLength = 450 * time.Millisecond
	noteGain   = 0.22
	decayRate  = 7.5
)

func chimeNotes(activated bool) []Note {
	if activated {
		return []Note{{Freq: 659.25}, {Freq: 987.77, Delay: 90 * time.Millisecond}}
	}
	return []Note{{Freq: 987.77}, {Freq: 659.25, Delay: 90 * time.Millisecond}}
}

// Chime mixes exponentially decaying sine tones.
func Chime(sr beep.SampleRate, notes []Note) (beep.Streamer, error) {
	if len(notes) == 0 {
		return nil, fmt.Errorf("chime: no notes")
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(sr, n.Freq)
		if err != nil {
			return nil, fmt.Errorf("chime tone %.1fHz: %w", n.Freq, err)
		}
		note := decay(beep.Take(sr.N(noteLength), tone), sr)
		parts = append(parts, beep.Seq(beep.Silence(sr.N(n.Delay)), note))
	}
	return beep.Mix(parts...), nil
}

// decay applies a gain envelope of noteGain·e^(-decayRate·t).
func decay(s beep.Streamer, sr beep.SampleRate) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			g := noteGain * math.Exp(-decayRate*sr.D(pos).Seconds())
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, ok
	})
}
