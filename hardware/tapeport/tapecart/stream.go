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

package tapecart

// nominal lengths of the pulses in a TAP file. multiply by pulseCycles for
// the length in CPU cycles
const (
	pulseShort  = 0x30
	pulseMedium = 0x42
	pulseLong   = 0x56
	pulseCycles = 8
)

// magic values in the shift register that request a change of mode
const (
	magicFastload = 0xca65
	magicCommand  = 0xfce2
)

// the first five bytes of the tape header: load to absolute address, start
// address $0302 and end address $0304
var tapeHeader = []byte{0x03, 0x02, 0x03, 0x04, 0x03}

// the autostart vector pointing to the loader at $0351, plus checksum
var tapeStartVector = []byte{0x51, 0x03, 0x51 ^ 0x03}

// a pulse is repeated the number of times indicated. long runs of identical
// pulses are split into runs of no more than 255
type pulse struct {
	length      uint8
	repetitions uint8
}

// the stream of pulses played in stream mode. the stream is constructed from
// the load-info in the tapecart memory and is a standard CBM tape file
// containing the loader
type stream struct {
	pulses  []pulse
	current pulse
	index   int
}

func (s *stream) store(length uint8) {
	s.pulses = append(s.pulses, pulse{length: length, repetitions: 1})
}

func (s *stream) storeSync(length int) {
	for length > 0 {
		r := min(length, 255)
		s.pulses = append(s.pulses, pulse{length: pulseShort, repetitions: uint8(r)})
		length -= r
	}
}

func (s *stream) storeBit(bit bool) {
	if bit {
		s.store(pulseMedium)
		s.store(pulseShort)
	} else {
		s.store(pulseShort)
		s.store(pulseMedium)
	}
}

// a byte is a byte marker followed by the bits, least significant bit first,
// and then an odd parity bit
func (s *stream) storeByte(b uint8) {
	parity := true

	s.store(pulseLong)
	s.store(pulseMedium)

	for range 8 {
		bit := b&0x01 == 0x01
		s.storeBit(bit)
		if bit {
			parity = !parity
		}
		b >>= 1
	}

	s.storeBit(parity)
}

// a data block is sent twice. the countdown differs between the first and the
// second transmission
func (s *stream) storeBlock(data func()) {
	for repeat := range 2 {
		for i := uint8(9); i > 0; i-- {
			if repeat == 0 {
				s.storeByte(i | 0x80)
			} else {
				s.storeByte(i)
			}
		}

		data()

		// end of data marker
		s.store(pulseLong)
		s.store(pulseShort)

		// inter-block gap
		s.storeSync(60)
	}
}

// construct the pulse stream for the memory and rewind to the start.
func (s *stream) construct(mem *Memory) {
	s.pulses = s.pulses[:0]
	s.current = pulse{}
	s.index = 0

	s.storeSync(1500)
	s.storeBlock(func() {
		var checksum uint8
		put := func(b []byte) {
			for _, v := range b {
				checksum ^= v
				s.storeByte(v)
			}
		}
		put(tapeHeader)
		put(mem.Filename[:])
		put(mem.Loader[:])
		s.storeByte(checksum)
	})

	s.storeSync(1500)
	s.storeBlock(func() {
		for _, v := range tapeStartVector {
			s.storeByte(v)
		}
	})

	s.storeSync(100)
}

// next returns the length in cycles of the next pulse in the stream. The
// boolean is false at the end of the stream, in which case the stream is
// rewound.
func (s *stream) next() (uint64, bool) {
	if s.current.repetitions == 0 && s.index >= len(s.pulses) {
		s.rewind()
		return 0, false
	}

	if s.current.repetitions == 0 {
		s.current = s.pulses[s.index]
		s.index++
	}
	s.current.repetitions--

	return uint64(s.current.length) * pulseCycles, true
}

func (s *stream) rewind() {
	s.index = 0
	s.current.repetitions = 0
}

// len returns the number of pulses in the stream, counting repetitions.
func (s *stream) len() int {
	n := 0
	for _, p := range s.pulses {
		n += int(p.repetitions)
	}
	return n
}
