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

package logger_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/test"
)

func TestLoggerTail(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\n")

	w.Reset()
	log.Log(logger.Allow, "test2", "this is another test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for too many entries in a Tail() should be okay
	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "test2: this is another test\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestLoggerRepeats(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", "detail")
	log.Log(logger.Allow, "tag", "detail")
	log.Log(logger.Allow, "tag", "detail")
	test.ExpectEquality(t, log.Len(), 1)

	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: detail (repeat x3)\n")
}

func TestLoggerMaximum(t *testing.T) {
	log := logger.NewLogger(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		log.Log(logger.Allow, "tag", s)
	}
	test.ExpectEquality(t, log.Len(), 3)

	w := &strings.Builder{}
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: c\ntag: d\ntag: e\n")
}

func TestLoggerRecent(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", "one")
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "tag: one\n")

	w.Reset()
	log.Log(logger.Allow, "tag", "two")
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "tag: two\n")

	w.Reset()
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "")
}

func TestLoggerEcho(t *testing.T) {
	log := logger.NewLogger(10)
	w := &test.CompareWriter{}

	log.Log(logger.Allow, "tag", "before echo")
	log.SetEcho(w, false)
	log.Log(logger.Allow, "tag", "after echo")
	test.ExpectSuccess(t, w.Compare("tag: after echo\n"))

	log.SetEcho(nil, false)
	log.Log(logger.Allow, "tag", "no echo")
	test.ExpectSuccess(t, w.Compare("tag: after echo\n"))
}

type prohibit struct{}

func (prohibit) AllowLogging() bool {
	return false
}

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(10)

	log.Log(prohibit{}, "tag", "detail")
	log.Logf(prohibit{}, "tag", "detail %d", 10)
	test.ExpectEquality(t, log.Len(), 0)

	level := 1
	v := logger.Verbosity{Level: func() int { return level }, Required: 2}
	log.Log(v, "tag", "quiet")
	test.ExpectEquality(t, log.Len(), 0)

	level = 2
	log.Log(v, "tag", "loud")
	test.ExpectEquality(t, log.Len(), 1)

	test.ExpectFailure(t, logger.Verbosity{}.AllowLogging())
}

func TestCentral(t *testing.T) {
	logger.Clear()
	test.ExpectEquality(t, logger.Len(), 0)

	logger.Log(logger.Allow, "central", "one")
	logger.Logf(logger.Allow, "central", "%s", "two")
	test.ExpectEquality(t, logger.Len(), 2)

	var details []string
	logger.BorrowLog(func(entries []logger.Entry) {
		for _, e := range entries {
			details = append(details, e.Detail)
		}
	})
	test.DemandEquality(t, len(details), 2)
	test.ExpectEquality(t, details[1], "two")

	logger.Clear()
	test.ExpectEquality(t, logger.Len(), 0)
}
