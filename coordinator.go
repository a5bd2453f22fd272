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
	"github.com/jetsetilly/armdbg/host"
	"github.com/jetsetilly/armdbg/logger"
	"github.com/jetsetilly/armdbg/predictor"
	"github.com/jetsetilly/armdbg/slot"
)

// handlePrefetchAbort and handleUndefinedInstruction both fire on an
// instruction-fetch-time trap: a hit hardware breakpoint, a software
// breakpoint's patched trap instruction, or the reserved single-step slot.
// Neither locks mu nor allocates on its hit path (spec §5): the slot table
// is read directly while every other thread of the target is suspended by
// construction of the exception itself.
func (c *Core) handlePrefetchAbort(kind host.ExceptionKind) bool {
	return c.handleInstructionTrap(kind)
}

func (c *Core) handleUndefinedInstruction(kind host.ExceptionKind) bool {
	return c.handleInstructionTrap(kind)
}

func (c *Core) handleInstructionTrap(kind host.ExceptionKind) bool {
	pid, tid, ok := c.host.CurrentThread()
	if !ok || pid != c.proc.Pid {
		return false
	}

	user, kern, ok := c.host.RegisterFile(tid)
	if !ok {
		return false
	}

	idx, found := c.table.FindByAddress(pid, user.PC())
	if !found {
		return false
	}

	s := c.table.Get(idx)
	if s.Kind.IsWatchpoint() {
		// a watchpoint slot can never fire on an instruction-fetch trap;
		// this address collision is coincidence, not a hit.
		return false
	}

	// a one-shot single-step lands exactly once: disarm it immediately so a
	// later instruction reusing the same address never looks like a second
	// step.
	if s.Kind == slot.SingleStep {
		c.host.ProgramHWBreak(s.Pid, idx, 0, 0)
		c.table.Clear(idx)
	}

	c.suspendAndNotify(pid, tid, user, kern)
	return true
}

// handleDataAbort fires on a watchpoint hit. Unlike the instruction traps,
// the fault PC is where the access instruction lives, not the watched data
// address; the match is against DFAR membership in the watched word's byte
// range, scanning every watchpoint slot the target owns.
func (c *Core) handleDataAbort(kind host.ExceptionKind) bool {
	pid, tid, ok := c.host.CurrentThread()
	if !ok || pid != c.proc.Pid {
		return false
	}

	dfar := c.host.DataFaultAddress(tid)

	lo, hi := c.table.HWRange()
	matched := false
	haveWatch := false
	for i := lo; i < hi; i++ {
		s := c.table.Get(i)
		if s.Kind.IsWatchpoint() && s.Pid == pid {
			haveWatch = true
			if dfar >= s.Address && dfar < s.Address+4 {
				matched = true
				break
			}
		}
	}

	if !haveWatch {
		return false
	}
	if !matched && c.cfg.PassUnmatchedWatch {
		c.log.Logf(logger.Allow, "armdbg", "data abort at %#x matched no installed watchpoint", dfar)
		return false
	}

	user, kern, ok := c.host.RegisterFile(tid)
	if !ok {
		return false
	}
	c.suspendAndNotify(pid, tid, user, kern)
	return true
}

// suspendAndNotify latches the caught register state, marks the faulting
// thread debugger-suspended, and wakes the waiting UI observer. Ordering
// matters (spec §5): SetSuspendStatus must land before wake.Set, so a waiter
// that wakes from Wait always observes consistent state.
func (c *Core) suspendAndNotify(pid, tid int32, user, kern predictor.Registers) {
	c.proc.FaultingThreadID = tid
	c.snapshot = snapshotState{valid: true, tid: tid, user: user, kern: kern}

	c.host.SetSuspendStatus(tid, host.SuspendCodeDebugger)
	if c.wake != nil {
		c.wake.Set()
	}
}
