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

// Package resources contains functions to prepare paths for c64io
// resources.
//
// The JoinPath() function returns the correct path to the resource
// directory/file specified in the arguments. It handles the creation of
// directories as required but does not otherwise touch or create files.
//
// The resource directory is chosen in the following order:
//
//  1. the directory named by the C64IO_RESOURCES environment variable
//  2. a directory named ".c64io" in the current working directory (the
//     "portable" directory), if it exists
//  3. a directory named "c64io" in the user's configuration directory, as
//     returned by os.UserConfigDir()
package resources
