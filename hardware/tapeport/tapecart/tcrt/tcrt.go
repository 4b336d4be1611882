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

// Package tcrt reads and writes TCRT files. A TCRT file is the image of a
// tapecart: the contents of its flash memory, the loader it plays in stream
// mode and the information the loader needs to find the program to load.
//
// The header of the file is 216 bytes long and is followed by the flash
// data. Flash data beyond the length stored in the header is erased.
package tcrt

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/jetsetilly/c64io/curated"
)

// Sentinal error patterns.
const (
	InvalidSignature = "tcrt: invalid signature"
	UnknownVersion   = "tcrt: unknown version (%d)"
	InvalidFlashSize = "tcrt: invalid flash size (%d bytes)"
	Truncated        = "tcrt: truncated (%v)"
	WriteError       = "tcrt: write error: %v"
)

// Signature is the first sixteen bytes of every TCRT file.
const Signature = "tapecartImage\r\n\x1a"

// Sizes of the parts of an image.
const (
	FlashSize    = 2 * 1024 * 1024
	LoaderSize   = 171
	FilenameSize = 16
)

// Version of the file format supported by the package.
const Version = 1

// offsets into the header
const (
	offsetVersion     = 16
	offsetDataAddr    = 18
	offsetDataLength  = 20
	offsetCallAddr    = 22
	offsetFilename    = 24
	offsetFlags       = 40
	offsetLoader      = 41
	offsetFlashLength = 212
	headerSize        = 216

	flagLoaderPresent = 0x01
)

// Image is the content of a tapecart.
type Image struct {
	// the location of the program in flash. the first two bytes of the
	// program are the load address
	DataOffset uint16
	DataLength uint16

	// address the loader jumps to after loading
	CallAddress uint16

	Filename [FilenameSize]byte
	Loader   [LoaderSize]byte
	Flash    []byte
}

// NewImage returns an image in which every byte, including those of the
// header fields, is 0xff. This is the state of an erased tapecart.
func NewImage() *Image {
	img := &Image{
		DataOffset:  0xffff,
		DataLength:  0xffff,
		CallAddress: 0xffff,
		Flash:       make([]byte, FlashSize),
	}
	for i := range img.Filename {
		img.Filename[i] = 0xff
	}
	for i := range img.Loader {
		img.Loader[i] = 0xff
	}
	for i := range img.Flash {
		img.Flash[i] = 0xff
	}
	return img
}

// FilenameString returns the filename with the padding removed.
func (img *Image) FilenameString() string {
	return string(bytes.TrimRight(img.Filename[:], "\x00\x20\xa0\xff"))
}

// SetFilename sets the filename. The name is truncated or padded with
// spaces as required.
func (img *Image) SetFilename(name string) {
	for i := range img.Filename {
		if i < len(name) {
			img.Filename[i] = name[i]
		} else {
			img.Filename[i] = 0x20
		}
	}
}

// Load an image from the reader. The defaultLoader is used if the file does
// not contain a loader. It can be nil, in which case the loader is zeroed.
func Load(r io.Reader, defaultLoader []byte) (*Image, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, curated.Errorf(Truncated, err)
	}

	if string(hdr[:len(Signature)]) != Signature {
		return nil, curated.Errorf(InvalidSignature)
	}

	if v := binary.LittleEndian.Uint16(hdr[offsetVersion:]); v != Version {
		return nil, curated.Errorf(UnknownVersion, v)
	}

	flashLen := binary.LittleEndian.Uint32(hdr[offsetFlashLength:])
	if flashLen > FlashSize {
		return nil, curated.Errorf(InvalidFlashSize, flashLen)
	}

	img := &Image{
		DataOffset:  binary.LittleEndian.Uint16(hdr[offsetDataAddr:]),
		DataLength:  binary.LittleEndian.Uint16(hdr[offsetDataLength:]),
		CallAddress: binary.LittleEndian.Uint16(hdr[offsetCallAddr:]),
		Flash:       make([]byte, FlashSize),
	}
	copy(img.Filename[:], hdr[offsetFilename:])

	if _, err := io.ReadFull(r, img.Flash[:flashLen]); err != nil {
		return nil, curated.Errorf(Truncated, err)
	}
	for i := flashLen; i < FlashSize; i++ {
		img.Flash[i] = 0xff
	}

	if hdr[offsetFlags]&flagLoaderPresent == flagLoaderPresent {
		copy(img.Loader[:], hdr[offsetLoader:offsetLoader+LoaderSize])
	} else {
		copy(img.Loader[:], defaultLoader)
	}

	return img, nil
}

// Save the image to the writer. The loader is always included. If optimise
// is true then trailing erased bytes are not written.
func Save(w io.Writer, img *Image, optimise bool) error {
	flashLen := len(img.Flash)
	if optimise {
		for flashLen > 0 && img.Flash[flashLen-1] == 0xff {
			flashLen--
		}
	}

	var hdr [headerSize]byte
	copy(hdr[:], Signature)
	binary.LittleEndian.PutUint16(hdr[offsetVersion:], Version)
	binary.LittleEndian.PutUint16(hdr[offsetDataAddr:], img.DataOffset)
	binary.LittleEndian.PutUint16(hdr[offsetDataLength:], img.DataLength)
	binary.LittleEndian.PutUint16(hdr[offsetCallAddr:], img.CallAddress)
	copy(hdr[offsetFilename:], img.Filename[:])
	hdr[offsetFlags] = flagLoaderPresent
	copy(hdr[offsetLoader:], img.Loader[:])
	binary.LittleEndian.PutUint32(hdr[offsetFlashLength:], uint32(flashLen))

	if _, err := w.Write(hdr[:]); err != nil {
		return curated.Errorf(WriteError, err)
	}
	if _, err := w.Write(img.Flash[:flashLen]); err != nil {
		return curated.Errorf(WriteError, err)
	}

	return nil
}

// LoadFile is a convenience function that loads the named file.
func LoadFile(filename string, defaultLoader []byte) (*Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, defaultLoader)
}

// SaveFile is a convenience function that saves the image to the named
// file.
func SaveFile(filename string, img *Image, optimise bool) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	err = Save(f, img, optimise)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = curated.Errorf(WriteError, cerr)
	}
	return err
}

// IsValid returns true if the named file starts with the TCRT signature.
func IsValid(filename string) bool {
	f, err := os.Open(filename)
	if err != nil {
		return false
	}
	defer f.Close()

	var sig [len(Signature)]byte
	if _, err := io.ReadFull(f, sig[:]); err != nil {
		return false
	}
	return string(sig[:]) == Signature
}

// Program returns the load address and data of the program described by the
// header fields. The boolean is false if the fields do not describe a
// program in flash.
func (img *Image) Program() (uint16, []byte, bool) {
	start := int(img.DataOffset)
	end := start + int(img.DataLength)
	if img.DataLength < 2 || end > len(img.Flash) {
		return 0, nil, false
	}
	load := uint16(img.Flash[start]) | uint16(img.Flash[start+1])<<8
	return load, img.Flash[start+2 : end], true
}
