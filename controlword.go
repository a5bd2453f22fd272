// This file is part of armdbg.
//
// armdbg is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// armdbg is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with armdbg.  If not, see <https://www.gnu.org/licenses/>.

package armdbg

// Hardware debug-register control-word bit positions, common to both
// breakpoint and watchpoint control words.
const (
	cwEnable    = 1 << 0
	cwPrivUser  = 3 << 1 // non-secure user+privileged access
	cwBASAll    = 0xf << 5
	cwLinked    = 1 << 14
	cwBreakMode = 0 << 20 // match mode, not mismatch mode
)

// Watchpoint load/store/control (LSC) field, bits[4:3].
const (
	lscLoad  = 1 << 3
	lscStore = 2 << 3
	lscBoth  = 3 << 3
)

// hwBreakControlWord builds the control word for a hardware instruction
// breakpoint: enabled, both privilege levels, full 4-byte byte-address
// select, linked, address-match mode.
func hwBreakControlWord() uint32 {
	return cwEnable | cwPrivUser | cwBASAll | cwLinked | cwBreakMode
}

// hwWatchControlWord builds the control word for a hardware watchpoint of
// the given access direction.
func hwWatchControlWord(kind WatchKind) uint32 {
	cw := uint32(cwEnable | cwPrivUser | cwBASAll | cwLinked)
	switch kind {
	case WatchRead:
		cw |= lscLoad
	case WatchWrite:
		cw |= lscStore
	case WatchReadWrite:
		cw |= lscBoth
	}
	return cw
}
