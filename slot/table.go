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

// Package slot implements the fixed-size breakpoint registry: a sum-type
// Slot and the ordered Table of MAX_SLOT of them. The table itself knows
// nothing about hardware debug registers or target memory; it is pure
// bookkeeping, used under the Manager's mutex and read directly (never
// locked) by the Exception Coordinator while the faulting thread is
// suspended.
package slot

import "fmt"

// Kind is the tagged-variant discriminant for a Slot. Matches on Kind must
// be exhaustive so a new kind can never silently fall through a switch.
type Kind int

const (
	Empty Kind = iota
	SwThumb
	SwArm
	HwBreak
	WpRead
	WpWrite
	WpReadWrite
	SingleStep
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case SwThumb:
		return "sw-thumb"
	case SwArm:
		return "sw-arm"
	case HwBreak:
		return "hw-break"
	case WpRead:
		return "wp-read"
	case WpWrite:
		return "wp-write"
	case WpReadWrite:
		return "wp-read-write"
	case SingleStep:
		return "single-step"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsWatchpoint reports whether k is one of the three watchpoint kinds.
func (k Kind) IsWatchpoint() bool {
	return k == WpRead || k == WpWrite || k == WpReadWrite
}

// IsSoftware reports whether k is one of the two software-breakpoint kinds.
func (k Kind) IsSoftware() bool {
	return k == SwThumb || k == SwArm
}

// Width returns the instruction-patch width in bytes for a software
// breakpoint kind: 2 for Thumb, 4 for ARM. Calling it on a non-software kind
// returns 0.
func (k Kind) Width() int {
	switch k {
	case SwThumb:
		return 2
	case SwArm:
		return 4
	default:
		return 0
	}
}

// NoIndex is the sentinel slot_index value for an Empty slot.
const NoIndex uint8 = 0xFF

// Slot is one breakpoint entry. See spec §3 for the field semantics.
type Slot struct {
	Kind    Kind
	Pid     int32
	Address uint32

	// Index mirrors this slot's position in the table. It is NoIndex when
	// Kind is Empty.
	Index uint8

	// SavedWord holds the bytes a software breakpoint displaced. Unused for
	// all other kinds.
	SavedWord uint32
}

func emptySlot(index int) Slot {
	return Slot{Kind: Empty, Index: NoIndex, Pid: 0, Address: 0, SavedWord: 0}
}

// Table is the ordered, fixed-size sequence of MAX_SLOT slots. Hardware
// slots occupy [0, maxHW); the last of those is reserved for the
// single-step slot. Software slots occupy [maxHW, maxSlot).
type Table struct {
	slots       []Slot
	maxHW       int
	singleStep  int
	maxSlot     int
}

// NewTable constructs a Table with maxHW hardware-capable slots (the last of
// which is reserved for single-step) followed by (maxSlot-maxHW) software
// slots. All entries start Empty.
func NewTable(maxHW, maxSlot int) *Table {
	t := &Table{
		maxHW:      maxHW,
		singleStep: maxHW - 1,
		maxSlot:    maxSlot,
		slots:      make([]Slot, maxSlot),
	}
	for i := range t.slots {
		t.slots[i] = emptySlot(i)
	}
	return t
}

// MaxHW returns the number of hardware-capable slot positions, including the
// reserved single-step slot.
func (t *Table) MaxHW() int { return t.maxHW }

// MaxSlot returns the total slot count.
func (t *Table) MaxSlot() int { return t.maxSlot }

// SingleStepIndex returns the index of the reserved single-step slot.
func (t *Table) SingleStepIndex() int { return t.singleStep }

// HWRange returns the half-open range of ordinary (non-single-step) hardware
// slot indices: [0, singleStep).
func (t *Table) HWRange() (int, int) { return 0, t.singleStep }

// SWRange returns the half-open range of software slot indices.
func (t *Table) SWRange() (int, int) { return t.maxHW, t.maxSlot }

// Get returns a copy of the slot at i. Panics on an out-of-range index: this
// is a programmer error, the caller must validate i against MaxSlot first.
func (t *Table) Get(i int) Slot {
	return t.slots[i]
}

// Set overwrites the slot at i, forcing Index to stay consistent with i.
func (t *Table) Set(i int, s Slot) {
	s.Index = uint8(i)
	if s.Kind == Empty {
		s.Index = NoIndex
	}
	t.slots[i] = s
}

// Clear resets the slot at i back to Empty.
func (t *Table) Clear(i int) {
	t.slots[i] = emptySlot(i)
}

// FindEmpty scans [start, end) for the first Empty slot.
func (t *Table) FindEmpty(start, end int) (int, bool) {
	for i := start; i < end; i++ {
		if t.slots[i].Kind == Empty {
			return i, true
		}
	}
	return 0, false
}

// FindByAddress linearly scans for a non-Empty slot owned by pid at address.
func (t *Table) FindByAddress(pid int32, address uint32) (int, bool) {
	for i, s := range t.slots {
		if s.Kind != Empty && s.Pid == pid && s.Address == address {
			return i, true
		}
	}
	return 0, false
}

// Snapshot returns a read-only copy of the whole table for UI consumption.
func (t *Table) Snapshot() []Slot {
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

// ClearPid resets to Empty every slot owned by pid. Used by process-kill
// teardown. Returns the indices that were cleared.
func (t *Table) ClearPid(pid int32) []int {
	var cleared []int
	for i, s := range t.slots {
		if s.Kind != Empty && s.Pid == pid {
			t.slots[i] = emptySlot(i)
			cleared = append(cleared, i)
		}
	}
	return cleared
}

// CountHW returns the number of non-Empty slots in the ordinary hardware
// range (excludes the reserved single-step slot).
func (t *Table) CountHW() int {
	n := 0
	lo, hi := t.HWRange()
	for i := lo; i < hi; i++ {
		if t.slots[i].Kind != Empty {
			n++
		}
	}
	return n
}
