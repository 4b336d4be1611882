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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error. The pattern identifies the error
// and packages export their patterns as constants so that callers can test
// for them:
//
//	const InvalidBase = "ethernetcart: invalid base address: %#04x"
//
//	err := curated.Errorf(InvalidBase, addr)
//	if curated.Is(err, InvalidBase) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain. A curated error is "in the chain" if it was used as one of
// the values passed to Errorf().
//
//	e := curated.Errorf(InvalidBase, addr)
//	f := curated.Errorf("prefs: %v", e)
//
//	curated.Has(f, InvalidBase) // true
//	curated.Is(f, InvalidBase)  // false
//
// Curated errors also cooperate with the standard library errors package. The
// Unwrap() function returns any error values passed to Errorf() so that
// errors.Is() and errors.As() can see through them.
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. The practical advantage of this is that it
// alleviates the problem of when and how to wrap errors. For example, if the
// cs8900 package returns "cs8900: interface bind failed: eth9" and cs8900io
// wraps that with "cs8900: %v" then the resulting message will not say
// "cs8900: cs8900: interface bind failed: eth9".
package curated
