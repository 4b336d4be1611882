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


package test

import "testing"

// The Demand functions are the fatal versions of the Expect functions. Use
// them when later parts of a test depend on the value being correct, for
// example when a slice length must be checked before the slice is indexed.

// DemandEquality stops the test if v does not equal expectedValue.
func DemandEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) {
	t.Helper()
	if v != expectedValue {
		t.Fatalf("%s%T: '%v' does not equal '%v'", id(tags...), v, v, expectedValue)
	}
}

// DemandSuccess stops the test if v is not a success value. See
// ExpectSuccess() for the meaning of success for each type.
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	if expect(t, v, tags...) {
		return
	}
	if err, ok := v.(error); ok {
		t.Fatalf("%ssuccess demanded: %v", id(tags...), err)
	}
	t.Fatalf("%ssuccess demanded for %T", id(tags...), v)
}

// DemandFailure stops the test if v is not a failure value. See
// ExpectFailure() for the meaning of failure for each type.
func DemandFailure(t *testing.T, v any, tags ...any) {
	t.Helper()
	if !expect(t, v, tags...) {
		return
	}
	t.Fatalf("%sfailure demanded for %T", id(tags...), v)
}
