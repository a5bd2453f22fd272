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

// ISA selects the instruction-set encoding of a software breakpoint.
type ISA int

const (
	Thumb ISA = iota
	Arm
)

// WatchKind selects the access direction a watchpoint traps on.
type WatchKind int

const (
	WatchRead WatchKind = iota
	WatchWrite
	WatchReadWrite
)

// TargetProcess identifies the single attached target. The zero value means
// "no process attached."
type TargetProcess struct {
	Pid              int32
	MainModuleID     int32
	MainThreadID     int32
	FaultingThreadID int32
}

// Attached reports whether a target process is currently attached.
func (t TargetProcess) Attached() bool {
	return t.Pid != 0
}

// Config carries the tunables and the Open-Question policy toggles
// resolved in SPEC_FULL.md.
type Config struct {
	// MaxHWSlots is MAX_HW_BKPT: the count of hardware-capable slots,
	// including the one reserved for single-step.
	MaxHWSlots int

	// MaxSlots is MAX_SLOT: the total slot count.
	MaxSlots int

	// MaxCallStackDepth bounds get_callstack regardless of the depth the
	// caller requests.
	MaxCallStackDepth int

	// PassUnmatchedWatch resolves Open Question 1 (spec §9): when a data
	// abort fires while one or more watchpoints are installed but the
	// faulting DFAR falls outside all of their ranges, should the event be
	// reported as handled (swallowed) or passed to the host's default fault
	// processing? true (the default, matching the original's safer
	// behaviour) passes it through.
	PassUnmatchedWatch bool

	// LogCapacity bounds the central logger's ring buffer.
	LogCapacity int
}

// DefaultConfig mirrors the original source's MAX_HW_BKPT=4, MAX_SLOT=20,
// MAX_CALL_STACK_DEPTH=32.
func DefaultConfig() Config {
	return Config{
		MaxHWSlots:         4,
		MaxSlots:           20,
		MaxCallStackDepth:  32,
		PassUnmatchedWatch: true,
		LogCapacity:        256,
	}
}
