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

// Package alarm implements the virtual CPU clock and the alarms that
// devices use to schedule work at a future clock value.
//
// Alarms are dispatched in clock order by Advance(). Alarms due at the same
// clock value are dispatched in the order in which they were created. An
// alarm callback may set or unset any alarm, including itself.
package alarm

// Context is a virtual CPU clock and the alarms attached to it.
type Context struct {
	name   string
	clk    uint64
	alarms []*Alarm
}

// NewContext is the preferred method of initialisation for the Context
// type.
func NewContext(name string) *Context {
	return &Context{name: name}
}

func (c *Context) String() string {
	return c.name
}

// Clock returns the current clock value.
func (c *Context) Clock() uint64 {
	return c.clk
}

// Callback functions are called when an alarm is due. The offset argument
// is the number of cycles that the alarm has been dispatched late by. This
// only happens if an alarm is set for a clock value that has already passed.
type Callback func(offset uint64)

// Alarm is a single pending event.
type Alarm struct {
	ctx      *Context
	name     string
	callback Callback
	pending  bool
	at       uint64
}

// New creates a new alarm for the context. The alarm is not pending.
func (c *Context) New(name string, callback Callback) *Alarm {
	a := &Alarm{
		ctx:      c,
		name:     name,
		callback: callback,
	}
	c.alarms = append(c.alarms, a)
	return a
}

func (a *Alarm) String() string {
	return a.name
}

// Set the alarm for the absolute clock value. Any previous setting is
// forgotten.
func (a *Alarm) Set(clk uint64) {
	a.at = clk
	a.pending = true
}

// Unset the alarm. Does nothing if the alarm is not pending.
func (a *Alarm) Unset() {
	a.pending = false
}

// Pending returns true if the alarm is set. The clock value at which the
// alarm is due is also returned.
func (a *Alarm) Pending() (bool, uint64) {
	return a.pending, a.at
}

// next returns the earliest pending alarm due on or before the limit.
func (c *Context) next(limit uint64) *Alarm {
	var n *Alarm
	for _, a := range c.alarms {
		if a.pending && a.at <= limit && (n == nil || a.at < n.at) {
			n = a
		}
	}
	return n
}

// Next returns the clock value of the earliest pending alarm. The boolean
// is false if no alarm is pending.
func (c *Context) Next() (uint64, bool) {
	n := c.next(^uint64(0))
	if n == nil {
		return 0, false
	}
	return n.at, true
}

// Advance the clock by the number of cycles, dispatching every alarm that
// falls due on the way. Advance(0) dispatches alarms that are already due.
func (c *Context) Advance(cycles uint64) {
	c.RunUntil(c.clk + cycles)
}

// RunUntil advances the clock to the absolute clock value, dispatching every
// alarm that falls due on the way. The clock never runs backwards.
func (c *Context) RunUntil(clk uint64) {
	for {
		a := c.next(clk)
		if a == nil {
			break
		}
		if a.at > c.clk {
			c.clk = a.at
		}
		a.pending = false
		a.callback(c.clk - a.at)
	}
	if clk > c.clk {
		c.clk = clk
	}
}
