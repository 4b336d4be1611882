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

package resources

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvVar is the name of the environment variable that overrides the
// resource directory.
const EnvVar = "C64IO_RESOURCES"

const (
	portablePath = ".c64io"
	configName   = "c64io"
)

func basePath() (string, error) {
	if p := os.Getenv(EnvVar); p != "" {
		return p, nil
	}

	if info, err := os.Stat(portablePath); err == nil && info.IsDir() {
		return portablePath, nil
	}

	p, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(p, configName), nil
}

// JoinPath prepends the supplied path with a with OS/build specific base
// paths, and the resource directory. Directories leading up to the final
// element are created as required.
func JoinPath(path ...string) (string, error) {
	p := filepath.Join(path...)

	b, err := basePath()
	if err != nil {
		return "", err
	}

	// do not prepend base path if it is already present
	if !strings.HasPrefix(p, b) {
		p = filepath.Join(b, p)
	}

	if _, err := os.Stat(p); err == nil {
		return p, nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", err
	}

	return p, nil
}
