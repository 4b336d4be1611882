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


//go:build statsview

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/jetsetilly/c64io/logger"
)

// milliseconds between samples. the tapecart stream and the polling of the
// host network are both visible at this rate
const interval = 500

// Launch the statistics server. The server runs until the returned stop
// function is called.
func Launch(output io.Writer) func() {
	viewer.SetConfiguration(viewer.WithAddr(Address), viewer.WithInterval(interval))

	mgr := statsview.New()
	go mgr.Start()

	logger.Logf(logger.Allow, "statsview", "started at %s", Address)
	fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)

	return func() {
		mgr.Stop()
		logger.Log(logger.Allow, "statsview", "stopped")
	}
}

// Available returns true if the statistics server can be launched.
func Available() bool {
	return true
}
