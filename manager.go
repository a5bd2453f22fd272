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

import (
	"encoding/binary"

	"github.com/jetsetilly/armdbg/callstack"
	"github.com/jetsetilly/armdbg/curated"
	"github.com/jetsetilly/armdbg/host"
	"github.com/jetsetilly/armdbg/predictor"
	"github.com/jetsetilly/armdbg/slot"
)

const suspendCode = host.SuspendCodeDebugger

// Canonical ARM breakpoint-instruction encodings (ARM ARM A6.2.6 and A8.8.27,
// immediate field left as 0 since the value is never inspected: the
// Coordinator identifies the hit by the slot table, not by decoding the
// instruction that trapped).
const (
	thumbBkptWord = 0x0000BE00
	armBkptWord   = 0xE1200070
)

// SetHWBreak installs a hardware instruction breakpoint at addr, returning
// the slot index it occupies.
func (c *Core) SetHWBreak(addr uint32) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.attachedLocked(); !ok {
		return 0, curated.Errorf(ErrNoTarget)
	}

	lo, hi := c.table.HWRange()
	idx, ok := c.table.FindEmpty(lo, hi)
	if !ok {
		return 0, curated.Errorf(ErrNoSlot, "no free hardware slot")
	}

	if err := c.host.ProgramHWBreak(c.proc.Pid, idx, addr, hwBreakControlWord()); err != nil {
		return 0, curated.Errorf(ErrKernelReject, err)
	}

	c.table.Set(idx, slot.Slot{Kind: slot.HwBreak, Pid: c.proc.Pid, Address: addr})
	return idx, nil
}

// SetWatchpoint installs a hardware data watchpoint at addr for the given
// access direction.
func (c *Core) SetWatchpoint(addr uint32, kind WatchKind) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.attachedLocked(); !ok {
		return 0, curated.Errorf(ErrNoTarget)
	}

	lo, hi := c.table.HWRange()
	idx, ok := c.table.FindEmpty(lo, hi)
	if !ok {
		return 0, curated.Errorf(ErrNoSlot, "no free hardware slot")
	}

	if err := c.host.ProgramHWWatch(c.proc.Pid, idx, addr, hwWatchControlWord(kind)); err != nil {
		return 0, curated.Errorf(ErrKernelReject, err)
	}

	var sk slot.Kind
	switch kind {
	case WatchRead:
		sk = slot.WpRead
	case WatchWrite:
		sk = slot.WpWrite
	default:
		sk = slot.WpReadWrite
	}
	c.table.Set(idx, slot.Slot{Kind: sk, Pid: c.proc.Pid, Address: addr})
	return idx, nil
}

// SetSWBreak installs a software breakpoint by patching the instruction at
// addr with a trap encoding appropriate to isa, saving the displaced word for
// later restoration.
func (c *Core) SetSWBreak(addr uint32, isa ISA) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gw, ok := c.attachedLocked()
	if !ok {
		return 0, curated.Errorf(ErrNoTarget)
	}

	lo, hi := c.table.SWRange()
	idx, ok := c.table.FindEmpty(lo, hi)
	if !ok {
		return 0, curated.Errorf(ErrNoSlot, "no free software slot")
	}

	var kind slot.Kind
	var width int
	var patch uint32
	switch isa {
	case Thumb:
		kind, width, patch = slot.SwThumb, 2, thumbBkptWord
	case Arm:
		kind, width, patch = slot.SwArm, 4, armBkptWord
	default:
		return 0, curated.Errorf(ErrBadArg, "unknown instruction set")
	}

	original, err := gw.Read(addr, width)
	if err != nil {
		return 0, err
	}
	savedWord := decodeWidth(original, width)
	patchBytes := encodeWidth(patch, width)

	if err := gw.WriteText(addr, patchBytes); err != nil {
		return 0, err
	}

	c.table.Set(idx, slot.Slot{Kind: kind, Pid: c.proc.Pid, Address: addr, SavedWord: savedWord})
	return idx, nil
}

func decodeWidth(b []byte, width int) uint32 {
	if width == 2 {
		return uint32(binary.LittleEndian.Uint16(b))
	}
	return binary.LittleEndian.Uint32(b)
}

func encodeWidth(v uint32, width int) []byte {
	if width == 2 {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v))
		return b
	}
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// Clear removes whatever occupies slot index idx: a software breakpoint has
// its displaced bytes restored, a hardware breakpoint or watchpoint is
// disabled in the debug registers.
func (c *Core) Clear(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	gw, ok := c.attachedLocked()
	if !ok {
		return curated.Errorf(ErrNoTarget)
	}
	if idx < 0 || idx >= c.table.MaxSlot() {
		return curated.Errorf(ErrBadArg, "slot index out of range")
	}

	s := c.table.Get(idx)
	if s.Kind == slot.Empty {
		return nil
	}

	switch {
	case s.Kind.IsSoftware():
		if err := gw.WriteText(s.Address, encodeWidth(s.SavedWord, s.Kind.Width())); err != nil {
			return err
		}
	case s.Kind.IsWatchpoint():
		if err := c.host.ProgramHWWatch(s.Pid, idx, 0, 0); err != nil {
			return curated.Errorf(ErrKernelReject, err)
		}
	default: // HwBreak, SingleStep
		if err := c.host.ProgramHWBreak(s.Pid, idx, 0, 0); err != nil {
			return curated.Errorf(ErrKernelReject, err)
		}
	}

	c.table.Clear(idx)
	return nil
}

// List returns a snapshot of every slot in the table.
func (c *Core) List() []slot.Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.Snapshot()
}

// GetRegisters returns the user-mode and kernel-mode register views latched
// at the most recent caught exception. ok is false if the faulting thread is
// not currently suspended.
func (c *Core) GetRegisters() (user, kernel predictor.Registers, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.snapshot.valid {
		return predictor.Registers{}, predictor.Registers{}, false
	}
	return c.snapshot.user, c.snapshot.kern, true
}

// GetCallstack unwinds the frame-pointer chain from the suspended thread's
// current PC and R11, capped at depth frames (and, regardless, at
// callstack.MaxDepth).
func (c *Core) GetCallstack(depth int) ([]uint32, error) {
	c.mu.Lock()
	gw, ok := c.attachedLocked()
	if !ok {
		c.mu.Unlock()
		return nil, curated.Errorf(ErrNoTarget)
	}
	if !c.snapshot.valid {
		c.mu.Unlock()
		return nil, curated.Errorf(ErrNotSuspended)
	}
	if depth <= 0 || depth > c.cfg.MaxCallStackDepth {
		depth = c.cfg.MaxCallStackDepth
	}
	regs := c.snapshot.user
	c.mu.Unlock()

	return callstack.Unwind(gw, regs.PC(), regs.R[11], depth), nil
}

// SuspendProcess suspends every thread of the attached target with the
// debugger's distinguished suspend code.
func (c *Core) SuspendProcess() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.attachedLocked(); !ok {
		return curated.Errorf(ErrNoTarget)
	}
	c.host.SuspendProcess(c.proc.Pid, suspendCode)
	return nil
}

// ResumeProcess resumes every thread of the attached target. If a
// debugger-suspended thread exists, its suspension bit is cleared first and
// then the whole process is resumed (spec §4.4, mirroring
// kernel_resume_process's SetSuspendStatus+ResumeProcess pair).
func (c *Core) ResumeProcess() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.attachedLocked(); !ok {
		return curated.Errorf(ErrNoTarget)
	}
	if c.snapshot.valid {
		c.host.SetSuspendStatus(c.snapshot.tid, 0)
	}
	c.host.ResumeProcess(c.proc.Pid)
	c.snapshot = snapshotState{}
	return nil
}

// SingleStep predicts the next instruction the suspended faulting thread
// will execute, arms the reserved single-step hardware slot there, clears
// that thread's suspension bit and resumes the process (the same
// SetSuspendStatus+ResumeProcess pair as ResumeProcess, per spec §4.4:
// single_step "...then performs resume_process"). The Exception Coordinator
// clears the slot again when the step lands.
func (c *Core) SingleStep() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	gw, ok := c.attachedLocked()
	if !ok {
		return curated.Errorf(ErrNoTarget)
	}
	if !c.snapshot.valid || !c.host.QuerySuspendStatus(c.snapshot.tid) {
		return curated.Errorf(ErrNotSuspended)
	}

	regs := c.snapshot.user
	raw, err := gw.Read(regs.PC(), 4)
	if err != nil {
		return err
	}
	instrWord := binary.LittleEndian.Uint32(raw)

	targetPC := predictor.Predict(regs, instrWord)

	idx := c.table.SingleStepIndex()
	if err := c.host.ProgramHWBreak(c.proc.Pid, idx, targetPC, hwBreakControlWord()); err != nil {
		return curated.Errorf(ErrKernelReject, err)
	}
	c.table.Set(idx, slot.Slot{Kind: slot.SingleStep, Pid: c.proc.Pid, Address: targetPC})

	tid := c.snapshot.tid
	c.snapshot = snapshotState{}
	c.host.SetSuspendStatus(tid, 0)
	c.host.ResumeProcess(c.proc.Pid)
	return nil
}
