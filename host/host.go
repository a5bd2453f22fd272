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

// Package host declares the capability interfaces the core consumes from its
// embedding application (spec §6). Each interface binds one row of that
// table; a concrete host - the packaging layer loading the module, explicitly
// out of scope for this core - implements them against whatever kernel or
// hypervisor primitives it actually has. Package hostptrace is a reference
// implementation against a traced Linux process.
package host

import "github.com/jetsetilly/armdbg/predictor"

// RegionKind classifies a target address range, used to decide the write
// path for a software breakpoint patch.
type RegionKind int

const (
	RegionUnknown RegionKind = iota
	RegionRX                // read-execute: code
	RegionRW                // read-write: data
	RegionOther
)

// ExceptionKind is one of the three ARM synchronous exceptions the
// Coordinator attaches to.
type ExceptionKind int

const (
	PrefetchAbort ExceptionKind = iota
	DataAbort
	UndefinedInstruction
)

func (k ExceptionKind) String() string {
	switch k {
	case PrefetchAbort:
		return "PABT"
	case DataAbort:
		return "DABT"
	case UndefinedInstruction:
		return "UNDEF"
	default:
		return "unknown exception"
	}
}

// SuspendCodeDebugger is the distinguished thread-suspend code used only by
// the debugger, so a UI observer can distinguish a debug-suspend from any
// other reason a thread might be suspended by the host scheduler. Ported
// from the original kernel's ksceKernelChangeThreadSuspendStatus(tid,
// 0x1002) call at the point a breakpoint is caught.
const SuspendCodeDebugger = 0x1002

// DebugRegisters programs the CPU's hardware breakpoint/watchpoint debug
// registers for a target process. Programming a slot with addr=0,
// control=0 disables it.
type DebugRegisters interface {
	ProgramHWBreak(pid int32, slotIndex int, addr uint32, control uint32) error
	ProgramHWWatch(pid int32, slotIndex int, addr uint32, control uint32) error
}

// TargetMemory is the raw byte-level access surface into the target
// process's address space, split by the domain being addressed.
type TargetMemory interface {
	ReadData(pid int32, addr uint32, dst []byte) error
	WriteData(pid int32, addr uint32, src []byte) error
	WriteText(pid int32, addr uint32, src []byte) error
	Classify(pid int32, addr uint32) RegionKind
}

// ThreadContext exposes the identity and register file of target threads.
type ThreadContext interface {
	// CurrentThread identifies the thread the calling context (an exception
	// handler) is executing on behalf of. ok is false if no thread context
	// is available.
	CurrentThread() (pid int32, tid int32, ok bool)

	// RegisterFile returns both the user-mode and kernel-mode register
	// views for tid. Which one is authoritative depends on CPSR mode bits
	// at capture time (spec §3, Register snapshot).
	RegisterFile(tid int32) (user, kernel predictor.Registers, ok bool)

	// DataFaultAddress returns the DFAR value latched by the most recent
	// data abort on tid.
	DataFaultAddress(tid int32) uint32
}

// ThreadControl suspends and queries the suspend status of individual
// threads, and the process as a whole.
type ThreadControl interface {
	SetSuspendStatus(tid int32, code uint32)
	QuerySuspendStatus(tid int32) bool

	SuspendProcess(pid int32, code uint32)
	ResumeProcess(pid int32)
}

// ExceptionHandlerFunc is the signature the host invokes on a caught
// exception. handled tells the host whether the core recognised and fully
// serviced the event (a breakpoint or watchpoint the core itself installed):
// when true the host must suppress its own default fault handling, since the
// faulting thread is now suspended and waiting on the debugger. When false
// the exception was not one of ours and the host's default processing (which
// may terminate the process) runs as if the core were not attached.
type ExceptionHandlerFunc func(kind ExceptionKind) (handled bool)

// ExceptionRegistry registers the three synchronous-exception handlers.
type ExceptionRegistry interface {
	RegisterExceptionHandler(kind ExceptionKind, priority int, entry ExceptionHandlerFunc)
}

// LifecycleHooks are invoked by the host when a target process is created or
// killed.
type LifecycleHooks struct {
	Create func(pid int32)
	Kill   func(pid int32)
}

// LifecycleRegistry registers process lifecycle callbacks.
type LifecycleRegistry interface {
	RegisterLifecycleHandler(name string, hooks LifecycleHooks)
}

// EventFlag is a one-shot wakeup signal the Coordinator raises after it has
// suspended the faulting thread, and the UI worker waits on. Ordering
// guarantee (spec §5): Set must only be called after SetSuspendStatus has
// taken effect, so a waiter that wakes from Wait observes consistent
// register and breakpoint state.
type EventFlag interface {
	Set()
	Wait()
}

// Host aggregates every capability the core needs from its embedder.
type Host interface {
	DebugRegisters
	TargetMemory
	ThreadContext
	ThreadControl
	ExceptionRegistry
	LifecycleRegistry
}
