// This file is part of c64io.
//
// c64io is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// c64io is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with c64io.  If not, see <https://www.gnu.org/licenses/>.


// Package wavwriter renders the flux changes on the tape port read line as a
// WAV file. Each interval between flux changes is written as one cycle of a
// square wave, which is how a real datasette would see the signal.
//
// Audio data is buffered in memory in its entirity and written to disk with
// the Write() function. The package is therefore only suitable for short
// recordings, like the stream of a tapecart.
package wavwriter

import (
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/logger"
)

// Sentinal error patterns.
const (
	WriteFailed = "wavwriter: %v"
	NoAudio     = "wavwriter: no audio recorded"
)

// DefaultSampleRate is a sensible sample rate for tape signals.
const DefaultSampleRate = 44100

// the peak of the square wave in 16 bit samples
const amplitude = 0x6000

const logTag = "wavwriter"

// WavWriter records flux changes and renders them as audio samples.
type WavWriter struct {
	filename   string
	clockRate  uint64
	sampleRate int

	// the clock of the first and the most recent flux change
	started bool
	origin  uint64
	last    uint64

	buffer []int
}

// New is the preferred method of initialisation for the WavWriter type. The
// clock rate is the rate of the clock values given to the Flux() function.
func New(filename string, clockRate uint64, sampleRate int) (*WavWriter, error) {
	if clockRate == 0 {
		return nil, curated.Errorf(WriteFailed, "clock rate cannot be zero")
	}
	if sampleRate <= 0 {
		return nil, curated.Errorf(WriteFailed, "sample rate must be positive")
	}

	return &WavWriter{
		filename:   filename,
		clockRate:  clockRate,
		sampleRate: sampleRate,
		buffer:     make([]int, 0),
	}, nil
}

// Flux records a flux change at the specified clock. Flux changes must be
// recorded in order. A flux change at or before the previous one is ignored.
func (aw *WavWriter) Flux(clk uint64) {
	if !aw.started {
		aw.started = true
		aw.origin = clk
		aw.last = clk
		return
	}

	if clk <= aw.last {
		return
	}

	aw.fill(aw.last+(clk-aw.last)/2, amplitude)
	aw.fill(clk, -amplitude)
	aw.last = clk
}

// fill the buffer with v up to the sample at the specified clock.
func (aw *WavWriter) fill(clk uint64, v int) {
	end := int((clk - aw.origin) * uint64(aw.sampleRate) / aw.clockRate)
	for len(aw.buffer) < end {
		aw.buffer = append(aw.buffer, v)
	}
}

// Samples returns the rendered samples. The slice should not be modified.
func (aw *WavWriter) Samples() []int {
	return aw.buffer
}

// Duration returns the length of the rendered audio.
func (aw *WavWriter) Duration() time.Duration {
	return time.Duration(len(aw.buffer)) * time.Second / time.Duration(aw.sampleRate)
}

// Write the rendered audio to the file named in New(). The recording is not
// cleared and further flux changes can be recorded.
func (aw *WavWriter) Write() (rerr error) {
	if len(aw.buffer) == 0 {
		return curated.Errorf(NoAudio)
	}

	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf(WriteFailed, err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf(WriteFailed, err)
		}
	}()

	enc := wav.NewEncoder(f, aw.sampleRate, 16, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  aw.sampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return curated.Errorf(WriteFailed, err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf(WriteFailed, err)
	}

	logger.Logf(logger.Allow, logTag, "%d samples (%v) written to %s", len(aw.buffer), aw.Duration(), aw.filename)

	return nil
}
