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

package logger

// Permission implementations indicate whether the environment making a log
// request is allowed to create new log entries. Good for controlling when or if
// log entries are to be made
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow indicates that the logging request should be allowed. A good default to
// use if a log entry should always be made.
var Allow Permission = allow{}

// Verbosity is a Permission that allows logging only if the current level
// is at or above the required level. The current level is read through the
// Level function on every request so that a change in preferences takes effect
// immediately.
//
//	verbose := logger.Verbosity{Level: prefs.LogLevel.Get, Required: 2}
//	logger.Log(verbose, "tag", "only logged if LogLevel >= 2")
type Verbosity struct {
	Level    func() int
	Required int
}

// AllowLogging implements the Permission interface.
func (v Verbosity) AllowLogging() bool {
	if v.Level == nil {
		return false
	}
	return v.Level() >= v.Required
}
