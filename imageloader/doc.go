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


// Package imageloader is used to load the binary images that are attached to
// emulated devices. For example, TCRT files for the tapecart and BIOS images
// for the RR-Net MK3.
//
// The Load() function handles loading of data from different sources.
// Currently local files and data over HTTP are supported. In both cases the
// data can be inside a ZIP, 7z, RAR, gzip or tar.gz archive. The first entry
// in the archive with an acceptable file extension is used.
//
// The simplest use of the Loader type:
//
//	ld := imageloader.NewLoader("images/demo.zip", ".tcrt")
//	if err := ld.Load(); err != nil {
//		return err
//	}
//
// After a successful Load() the Data field contains the image and the Name
// field contains the name of the file the image was taken from.
package imageloader
