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


package imageloader

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/c64io/curated"
)

// Sentinal error patterns.
const (
	LoadFailed     = "imageloader: %v"
	NoImage        = "imageloader: no image file in archive (%s)"
	Unsupported    = "imageloader: unsupported format (%s)"
	TooLarge       = "imageloader: image exceeds maximum size (%s)"
	UnexpectedHash = "imageloader: unexpected hash value"
)

// the largest image that will be loaded. also the largest archive that will
// be read
const maxImageSize = 16 * 1024 * 1024

// Loader specifies an image to load and the file extensions that are
// acceptable for that image.
type Loader struct {
	// filename or URL of the image. can be an archive
	Filename string

	// file extensions that identify an image inside an archive. an empty list
	// accepts the first file in the archive
	Extensions []string

	// expected hash of the loaded image. empty string indicates that the
	// hash is unknown and need not be validated. after a load operation the
	// value will be the hash of the loaded data
	Hash string

	// copy of the loaded data
	Data []byte

	// the base name of the file the data came from. for archived images this
	// is the name of the entry in the archive
	Name string
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string, extensions ...string) Loader {
	return Loader{
		Filename:   filename,
		Extensions: extensions,
	}
}

// ShortName returns the name of the loaded image without its extension. If
// nothing has been loaded the name is derived from the Filename field.
func (ld Loader) ShortName() string {
	n := ld.Name
	if n == "" {
		n = filepath.Base(ld.Filename)
	}
	return strings.TrimSuffix(n, filepath.Ext(n))
}

// HasLoaded returns true if Load() has been successfully called.
func (ld Loader) HasLoaded() bool {
	return len(ld.Data) > 0
}

// Load the image data. Filenames with a valid URL scheme will use that
// method to load the data. Currently supported schemes are HTTP and local
// files.
func (ld *Loader) Load() error {
	if len(ld.Data) > 0 {
		return nil
	}

	scheme := "file"
	u, err := url.Parse(ld.Filename)
	if err == nil && len(u.Scheme) > 1 {
		// single letter schemes are windows drive letters
		scheme = u.Scheme
	}

	var raw []byte

	switch scheme {
	case "http":
		fallthrough
	case "https":
		resp, err := http.Get(ld.Filename)
		if err != nil {
			return curated.Errorf(LoadFailed, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return curated.Errorf(LoadFailed, resp.Status)
		}
		raw, err = limitedRead(resp.Body, ld.Filename)
		if err != nil {
			return err
		}

	case "file":
		f, err := os.Open(ld.Filename)
		if err != nil {
			return curated.Errorf(LoadFailed, err)
		}
		defer f.Close()
		raw, err = limitedRead(f, ld.Filename)
		if err != nil {
			return err
		}

	default:
		return curated.Errorf(LoadFailed, fmt.Sprintf("unsupported URL scheme (%s)", scheme))
	}

	data, name, err := ld.extract(raw)
	if err != nil {
		return err
	}

	hash := fmt.Sprintf("%x", sha1.Sum(data))
	if ld.Hash != "" && ld.Hash != hash {
		return curated.Errorf(UnexpectedHash)
	}

	ld.Hash = hash
	ld.Data = data
	ld.Name = name

	return nil
}

func (ld *Loader) extract(raw []byte) ([]byte, string, error) {
	base := filepath.Base(ld.Filename)

	switch detectFormat(raw, ld.Filename) {
	case formatZIP:
		return ld.fromZIP(raw)
	case format7z:
		return ld.from7z(raw)
	case formatRAR:
		return ld.fromRAR(raw)
	case formatGzip:
		return ld.fromGzip(raw, base)
	}

	if !ld.acceptable(base) {
		return nil, "", curated.Errorf(Unsupported, base)
	}
	return raw, base, nil
}

// acceptable returns true if the name has one of the Loader's extensions.
func (ld *Loader) acceptable(name string) bool {
	if len(ld.Extensions) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range ld.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to maxImageSize bytes.
func limitedRead(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageSize+1))
	if err != nil {
		return nil, curated.Errorf(LoadFailed, err)
	}
	if len(data) > maxImageSize {
		return nil, curated.Errorf(TooLarge, name)
	}
	return data, nil
}

type format int

const (
	formatRaw format = iota
	formatZIP
	format7z
	formatGzip
	formatRAR
)

var (
	magicZIP      = []byte{0x50, 0x4b, 0x03, 0x04}
	magicZIPEmpty = []byte{0x50, 0x4b, 0x05, 0x06}
	magic7z       = []byte{0x37, 0x7a, 0xbc, 0xaf, 0x27, 0x1c}
	magicGzip     = []byte{0x1f, 0x8b}
	magicRAR      = []byte("Rar!")
)

// detectFormat looks at the magic bytes of the data first and falls back to
// the extension of the filename.
func detectFormat(data []byte, filename string) format {
	switch {
	case bytes.HasPrefix(data, magicZIP) || bytes.HasPrefix(data, magicZIPEmpty):
		return formatZIP
	case bytes.HasPrefix(data, magicRAR):
		return formatRAR
	case bytes.HasPrefix(data, magic7z):
		return format7z
	case bytes.HasPrefix(data, magicGzip):
		return formatGzip
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".rar":
		return formatRAR
	case ".gz", ".tgz":
		return formatGzip
	}

	return formatRaw
}
