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

// Package armdbg coordinates a live in-process breakpoint, watchpoint and
// single-step debugger for an attached ARMv7-A target: a Breakpoint Manager
// serving application-thread requests under a process-level mutex, and an
// Exception Coordinator running on the synchronous-exception path that must
// never block or allocate (spec §5).
package armdbg

import (
	"sync"

	"github.com/jetsetilly/armdbg/host"
	"github.com/jetsetilly/armdbg/logger"
	"github.com/jetsetilly/armdbg/predictor"
	"github.com/jetsetilly/armdbg/slot"
	"github.com/jetsetilly/armdbg/target"
)

// Core is the root of the module: one Core instance per attached target
// process. It owns the slot table, the memory gateway and the last register
// snapshot taken on a caught exception.
type Core struct {
	cfg  Config
	host host.Host
	wake host.EventFlag
	log  *logger.Logger

	// mu guards everything below except the slot table, which the Exception
	// Coordinator reads lock-free while the faulting thread is suspended
	// (spec §5, "the exception path must never block").
	mu   sync.Mutex
	proc TargetProcess
	gw   *target.Gateway

	table *slot.Table

	// snapshot is the register state latched at the most recent caught
	// exception, valid only while proc's faulting thread is suspended.
	snapshot snapshotState
}

type snapshotState struct {
	valid bool
	tid   int32
	user  predictor.Registers
	kern  predictor.Registers
}

// New constructs a Core bound to h and registers its exception and lifecycle
// handlers. wake is signalled once per caught, suspended exception.
func New(cfg Config, h host.Host, wake host.EventFlag) *Core {
	c := &Core{
		cfg:   cfg,
		host:  h,
		wake:  wake,
		log:   logger.NewLogger(cfg.LogCapacity),
		table: slot.NewTable(cfg.MaxHWSlots, cfg.MaxSlots),
	}

	h.RegisterLifecycleHandler("armdbg", host.LifecycleHooks{
		Create: c.onProcessCreate,
		Kill:   c.onProcessKill,
	})
	h.RegisterExceptionHandler(host.PrefetchAbort, 0, c.handlePrefetchAbort)
	h.RegisterExceptionHandler(host.DataAbort, 0, c.handleDataAbort)
	h.RegisterExceptionHandler(host.UndefinedInstruction, 0, c.handleUndefinedInstruction)

	return c
}

// Log exposes the central ring-buffer logger for host-side inspection.
func (c *Core) Log() *logger.Logger { return c.log }

func (c *Core) onProcessCreate(pid int32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.proc = TargetProcess{Pid: pid}
	c.gw = target.NewGateway(c.host, pid)
	c.log.Log(logger.Allow, "armdbg", "attached to process")
}

func (c *Core) onProcessKill(pid int32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.proc.Pid != pid {
		return
	}
	c.table.ClearPid(pid)
	c.proc = TargetProcess{}
	c.gw = nil
	c.log.Log(logger.Allow, "armdbg", "process torn down, slots cleared")
}

// attachedLocked reports whether a target is currently bound, and returns its
// Gateway if so. Caller must hold mu.
func (c *Core) attachedLocked() (*target.Gateway, bool) {
	if c.gw == nil {
		return nil, false
	}
	return c.gw, true
}
