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


package curated

import (
	"errors"
	"fmt"
	"strings"
)

// separator between the parts of an error message.
const separator = ": "

type curated struct {
	pattern string
	values  []any
}

// Errorf creates a new curated error. The pattern identifies the error and
// can be tested for with Is() and Has(). Formatting is deferred until the
// Error() function is called.
func Errorf(pattern string, values ...any) error {
	return curated{
		pattern: pattern,
		values:  values,
	}
}

// Error implements the error interface. Adjacent duplicate parts of the
// message are removed.
func (er curated) Error() string {
	parts := strings.Split(fmt.Sprintf(er.pattern, er.values...), separator)

	out := parts[:0]
	for _, p := range parts {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}

	return strings.Join(out, separator)
}

// Unwrap returns the error values that were passed to Errorf().
func (er curated) Unwrap() []error {
	var w []error
	for _, v := range er.values {
		if e, ok := v.(error); ok {
			w = append(w, e)
		}
	}
	return w
}

// IsAny returns true if err is a curated error.
func IsAny(err error) bool {
	_, ok := err.(curated)
	return ok
}

// Is returns true if err is a curated error created with the pattern.
func Is(err error, pattern string) bool {
	er, ok := err.(curated)
	return ok && er.pattern == pattern
}

// Has returns true if a curated error created with the pattern is anywhere in
// the error chain, including chains made with fmt.Errorf() and the %w verb.
func Has(err error, pattern string) bool {
	if err == nil {
		return false
	}

	if Is(err, pattern) {
		return true
	}

	switch w := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range w.Unwrap() {
			if Has(e, pattern) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return Has(w.Unwrap(), pattern)
	}

	return false
}

// Pattern returns the pattern of a curated error. The empty string is
// returned if err is not a curated error.
func Pattern(err error) string {
	var er curated
	if errors.As(err, &er) {
		return er.pattern
	}
	return ""
}
