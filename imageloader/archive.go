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
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/jetsetilly/c64io/curated"
	"github.com/nwaples/rardecode/v2"
)

func (ld *Loader) fromZIP(raw []byte) ([]byte, string, error) {
	r, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, "", curated.Errorf(LoadFailed, err)
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !ld.acceptable(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", curated.Errorf(LoadFailed, err)
		}
		defer rc.Close()

		data, err := limitedRead(rc, f.Name)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(f.Name), nil
	}

	return nil, "", curated.Errorf(NoImage, filepath.Base(ld.Filename))
}

func (ld *Loader) from7z(raw []byte) ([]byte, string, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, "", curated.Errorf(LoadFailed, err)
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !ld.acceptable(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", curated.Errorf(LoadFailed, err)
		}
		defer rc.Close()

		data, err := limitedRead(rc, f.Name)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(f.Name), nil
	}

	return nil, "", curated.Errorf(NoImage, filepath.Base(ld.Filename))
}

func (ld *Loader) fromRAR(raw []byte) ([]byte, string, error) {
	r, err := rardecode.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, "", curated.Errorf(LoadFailed, err)
	}

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", curated.Errorf(LoadFailed, err)
		}
		if hdr.IsDir || !ld.acceptable(hdr.Name) {
			continue
		}

		data, err := limitedRead(r, hdr.Name)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(hdr.Name), nil
	}

	return nil, "", curated.Errorf(NoImage, filepath.Base(ld.Filename))
}

// fromGzip handles both plain gzip files and gzipped tar files. A plain gzip
// file is assumed to contain the image, named after the archive without the
// .gz extension.
func (ld *Loader) fromGzip(raw []byte, base string) ([]byte, string, error) {
	gr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, "", curated.Errorf(LoadFailed, err)
	}
	defer gr.Close()

	lower := strings.ToLower(base)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return ld.fromTar(gr)
	}

	data, err := limitedRead(gr, base)
	if err != nil {
		return nil, "", err
	}

	name := base
	if strings.HasSuffix(lower, ".gz") {
		name = name[:len(name)-3]
	}
	return data, name, nil
}

func (ld *Loader) fromTar(r io.Reader) ([]byte, string, error) {
	tr := tar.NewReader(r)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", curated.Errorf(LoadFailed, err)
		}
		if hdr.Typeflag != tar.TypeReg || !ld.acceptable(hdr.Name) {
			continue
		}

		data, err := limitedRead(tr, hdr.Name)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(hdr.Name), nil
	}

	return nil, "", curated.Errorf(NoImage, filepath.Base(ld.Filename))
}
