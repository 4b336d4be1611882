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


package wavwriter_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/test"
	"github.com/jetsetilly/c64io/wavwriter"
)

func TestNew(t *testing.T) {
	_, err := wavwriter.New("x.wav", 0, 44100)
	test.ExpectFailure(t, err)
	_, err = wavwriter.New("x.wav", 1000000, 0)
	test.ExpectFailure(t, err)
}

func TestSquareWave(t *testing.T) {
	// a clock rate equal to the sample rate makes the arithmetic easy
	aw, err := wavwriter.New("x.wav", 100, 100)
	test.DemandSuccess(t, err)

	// the first flux change only sets the origin
	aw.Flux(1000)
	test.ExpectEquality(t, len(aw.Samples()), 0)

	aw.Flux(1010)
	s := aw.Samples()
	test.DemandEquality(t, len(s), 10)
	for i := 0; i < 5; i++ {
		test.ExpectSuccess(t, s[i] > 0, i)
		test.ExpectSuccess(t, s[i+5] < 0, i+5)
	}

	// out of order flux changes are ignored
	aw.Flux(1005)
	test.ExpectEquality(t, len(aw.Samples()), 10)

	aw.Flux(1014)
	s = aw.Samples()
	test.DemandEquality(t, len(s), 14)
	test.ExpectSuccess(t, s[10] > 0)
	test.ExpectSuccess(t, s[11] > 0)
	test.ExpectSuccess(t, s[12] < 0)
	test.ExpectSuccess(t, s[13] < 0)

	test.ExpectEquality(t, aw.Duration(), 140*time.Millisecond)
}

func TestScaling(t *testing.T) {
	// PAL clock to a typical sample rate
	aw, err := wavwriter.New("x.wav", 985248, 44100)
	test.DemandSuccess(t, err)

	clk := uint64(0)
	aw.Flux(clk)
	for i := 0; i < 1000; i++ {
		clk += 0x30 * 8
		aw.Flux(clk)
	}

	// one second of pulses is rendered as one second of samples
	expected := int(clk * 44100 / 985248)
	test.ExpectEquality(t, len(aw.Samples()), expected)
}

func TestWrite(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "stream.wav")

	aw, err := wavwriter.New(pth, 100, 8000)
	test.DemandSuccess(t, err)

	// nothing to write
	err = aw.Write()
	test.ExpectSuccess(t, curated.Is(err, wavwriter.NoAudio))

	for clk := uint64(0); clk <= 100; clk += 2 {
		aw.Flux(clk)
	}
	test.DemandSuccess(t, aw.Write())

	f, err := os.Open(pth)
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	test.DemandSuccess(t, dec.IsValidFile())
	test.ExpectEquality(t, dec.SampleRate, uint32(8000))
	test.ExpectEquality(t, dec.NumChans, uint16(1))
	test.ExpectEquality(t, dec.BitDepth, uint16(16))

	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(buf.Data), len(aw.Samples()))
	for i, v := range aw.Samples() {
		if !test.ExpectEquality(t, buf.Data[i], v, i) {
			break
		}
	}
}

func TestWriteFailure(t *testing.T) {
	aw, err := wavwriter.New(filepath.Join(t.TempDir(), "missing", "stream.wav"), 100, 100)
	test.DemandSuccess(t, err)
	aw.Flux(0)
	aw.Flux(10)
	err = aw.Write()
	test.ExpectSuccess(t, curated.Is(err, wavwriter.WriteFailed))
}
