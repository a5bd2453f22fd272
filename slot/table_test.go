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

package slot_test

import (
	"testing"

	"github.com/jetsetilly/armdbg/slot"
	"github.com/jetsetilly/armdbg/test"
)

func newTestTable() *slot.Table {
	return slot.NewTable(4, 20) // mirrors MAX_HW_BKPT=4, MAX_SLOT=20
}

func TestNewTableAllEmpty(t *testing.T) {
	tbl := newTestTable()
	for i := 0; i < tbl.MaxSlot(); i++ {
		s := tbl.Get(i)
		test.ExpectEquality(t, s.Kind, slot.Empty)
		test.ExpectEquality(t, s.Index, slot.NoIndex)
	}
}

func TestSingleStepSlotReserved(t *testing.T) {
	tbl := newTestTable()
	test.ExpectEquality(t, tbl.SingleStepIndex(), 3)

	lo, hi := tbl.HWRange()
	test.ExpectEquality(t, lo, 0)
	test.ExpectEquality(t, hi, 3)
}

func TestFindEmptyAndSet(t *testing.T) {
	tbl := newTestTable()
	lo, hi := tbl.HWRange()

	i, ok := tbl.FindEmpty(lo, hi)
	test.ExpectedSuccess(t, ok)
	test.ExpectEquality(t, i, 0)

	tbl.Set(i, slot.Slot{Kind: slot.HwBreak, Pid: 7, Address: 0x81000100})

	got := tbl.Get(i)
	test.ExpectEquality(t, got.Index, uint8(i))
	test.ExpectEquality(t, got.Kind, slot.HwBreak)
	test.ExpectEquality(t, got.Pid, int32(7))
	test.ExpectEquality(t, got.Address, uint32(0x81000100))
}

func TestFindEmptyFullRangeReturnsFalse(t *testing.T) {
	tbl := newTestTable()
	lo, hi := tbl.HWRange()
	for i := lo; i < hi; i++ {
		tbl.Set(i, slot.Slot{Kind: slot.HwBreak, Pid: 1, Address: uint32(i)})
	}
	_, ok := tbl.FindEmpty(lo, hi)
	test.ExpectedFailure(t, ok)

	// boundary behaviour: a failed allocation must not mutate state.
	for i := lo; i < hi; i++ {
		test.ExpectEquality(t, tbl.Get(i).Kind, slot.HwBreak)
	}
}

func TestClearResetsToEmpty(t *testing.T) {
	tbl := newTestTable()
	tbl.Set(0, slot.Slot{Kind: slot.HwBreak, Pid: 1, Address: 0x1000})
	tbl.Clear(0)

	got := tbl.Get(0)
	test.ExpectEquality(t, got.Kind, slot.Empty)
	test.ExpectEquality(t, got.Index, slot.NoIndex)
}

func TestFindByAddress(t *testing.T) {
	tbl := newTestTable()
	tbl.Set(1, slot.Slot{Kind: slot.HwBreak, Pid: 9, Address: 0x2000})

	i, ok := tbl.FindByAddress(9, 0x2000)
	test.ExpectedSuccess(t, ok)
	test.ExpectEquality(t, i, 1)

	_, ok = tbl.FindByAddress(9, 0x3000)
	test.ExpectedFailure(t, ok)

	_, ok = tbl.FindByAddress(1, 0x2000)
	test.ExpectedFailure(t, ok)
}

func TestClearPidOnlyAffectsOwner(t *testing.T) {
	tbl := newTestTable()
	tbl.Set(0, slot.Slot{Kind: slot.HwBreak, Pid: 1, Address: 0x1000})
	tbl.Set(1, slot.Slot{Kind: slot.WpWrite, Pid: 1, Address: 0x2000})
	tbl.Set(2, slot.Slot{Kind: slot.HwBreak, Pid: 2, Address: 0x3000})

	cleared := tbl.ClearPid(1)
	test.ExpectEquality(t, len(cleared), 2)

	test.ExpectEquality(t, tbl.Get(0).Kind, slot.Empty)
	test.ExpectEquality(t, tbl.Get(1).Kind, slot.Empty)
	test.ExpectEquality(t, tbl.Get(2).Kind, slot.HwBreak)
}

func TestSnapshotIsACopy(t *testing.T) {
	tbl := newTestTable()
	tbl.Set(0, slot.Slot{Kind: slot.HwBreak, Pid: 1, Address: 0x1000})

	snap := tbl.Snapshot()
	snap[0] = slot.Slot{Kind: slot.Empty, Index: slot.NoIndex}

	test.ExpectEquality(t, tbl.Get(0).Kind, slot.HwBreak)
}

func TestKindWidths(t *testing.T) {
	test.ExpectEquality(t, slot.SwThumb.Width(), 2)
	test.ExpectEquality(t, slot.SwArm.Width(), 4)
	test.ExpectEquality(t, slot.HwBreak.Width(), 0)
}
