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

//go:build arm

// Package hostptrace is a reference host.Host implementation for a single
// traced Linux process on a 32-bit ARM target, built on PTRACE_* requests
// from golang.org/x/sys/unix. It is not the embedding most real deployments
// of armdbg use (the original targets a console kernel, not ptrace), but it
// is a runnable stand-in for integration testing against a real process,
// with the gaps listed below.
//
// Built only for GOARCH=arm: x/sys/unix's PtraceGetRegsArm convenience
// wrapper only exists when the tracer's own architecture is ARM, which is
// the natural case for this module (a debugger running on the same ARMv7-A
// board as its target). Tracing a 32-bit ARM inferior from an x86_64 host
// needs PTRACE_GETREGSET with manual struct decoding instead, which is a
// different host package, not this one.
//
// None of the debug-register programming here is wired up for lack of a
// portable Linux ioctl for ARM hardware breakpoints (that's
// PTRACE_SETHBPREGS/PTRACE_SETHBPREGS2, architecture- and kernel-version-
// specific); ProgramHWBreak and ProgramHWWatch return an error, so only
// software breakpoints work against this host. Core.SingleStep arms its
// one-shot step through ProgramHWBreak and therefore fails here as well.
package hostptrace

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/jetsetilly/armdbg/curated"
	"github.com/jetsetilly/armdbg/host"
	"github.com/jetsetilly/armdbg/predictor"
)

const ErrPtrace = "ptrace: %v"

// Host traces a single process via PTRACE_ATTACH/PTRACE_SEIZE and exposes it
// through the host.Host capability interfaces.
type Host struct {
	mu sync.Mutex

	tid int32 // the single thread this reference host tracks

	exceptionHandlers [3][]registeredHandler
	lifecycle         map[string]host.LifecycleHooks
}

type registeredHandler struct {
	priority int
	entry    host.ExceptionHandlerFunc
}

// New returns an unattached Host. Call Attach to bind it to a running
// process.
func New() *Host {
	return &Host{
		lifecycle: make(map[string]host.LifecycleHooks),
	}
}

// Attach seizes pid (assumed single-threaded for this reference host) and
// notifies any registered lifecycle Create hooks.
func (h *Host) Attach(pid int32) error {
	if err := unix.PtraceAttach(int(pid)); err != nil {
		return curated.Errorf(ErrPtrace, err)
	}
	var status unix.WaitStatus
	if _, err := unix.Wait4(int(pid), &status, 0, nil); err != nil {
		return curated.Errorf(ErrPtrace, err)
	}

	h.mu.Lock()
	h.tid = pid
	hooks := make([]host.LifecycleHooks, 0, len(h.lifecycle))
	for _, hk := range h.lifecycle {
		hooks = append(hooks, hk)
	}
	h.mu.Unlock()

	for _, hk := range hooks {
		if hk.Create != nil {
			hk.Create(pid)
		}
	}
	return nil
}

// Detach releases the traced process and lets it run free.
func (h *Host) Detach() error {
	h.mu.Lock()
	tid := h.tid
	h.tid = 0
	h.mu.Unlock()

	if tid == 0 {
		return nil
	}
	if err := unix.PtraceDetach(int(tid)); err != nil {
		return curated.Errorf(ErrPtrace, err)
	}
	return nil
}

// Dispatch blocks for the traced process's next stop and, if it stopped on
// SIGTRAP, runs every registered exception handler for PrefetchAbort in
// priority order (ptrace on Linux cannot distinguish PABT/DABT/UNDEF the way
// the original kernel's fault vector can; every trap is reported as a
// prefetch abort here, which is enough to drive the Coordinator against a
// hardware or software instruction breakpoint). It returns false once the
// process has exited.
func (h *Host) Dispatch() (bool, error) {
	h.mu.Lock()
	tid := h.tid
	h.mu.Unlock()
	if tid == 0 {
		return false, curated.Errorf(ErrPtrace, "not attached")
	}

	var status unix.WaitStatus
	if _, err := unix.Wait4(int(tid), &status, 0, nil); err != nil {
		return false, curated.Errorf(ErrPtrace, err)
	}

	if status.Exited() || status.Signaled() {
		h.mu.Lock()
		hooks := make([]host.LifecycleHooks, 0, len(h.lifecycle))
		for _, hk := range h.lifecycle {
			hooks = append(hooks, hk)
		}
		h.tid = 0
		h.mu.Unlock()
		for _, hk := range hooks {
			if hk.Kill != nil {
				hk.Kill(tid)
			}
		}
		return false, nil
	}

	if status.Stopped() && status.StopSignal() == unix.SIGTRAP {
		h.runHandlers(host.PrefetchAbort)
		return true, nil
	}

	if err := unix.PtraceCont(int(tid), int(status.StopSignal())); err != nil {
		return false, curated.Errorf(ErrPtrace, err)
	}
	return true, nil
}

func (h *Host) runHandlers(kind host.ExceptionKind) {
	h.mu.Lock()
	handlers := append([]registeredHandler(nil), h.exceptionHandlers[kind]...)
	h.mu.Unlock()

	for _, rh := range handlers {
		if rh.entry(kind) {
			return
		}
	}
}

// RegisterExceptionHandler implements host.ExceptionRegistry.
func (h *Host) RegisterExceptionHandler(kind host.ExceptionKind, priority int, entry host.ExceptionHandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exceptionHandlers[kind] = append(h.exceptionHandlers[kind], registeredHandler{priority, entry})
}

// RegisterLifecycleHandler implements host.LifecycleRegistry.
func (h *Host) RegisterLifecycleHandler(name string, hooks host.LifecycleHooks) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lifecycle[name] = hooks
}

// ProgramHWBreak is unsupported by this reference host; see the package doc.
func (h *Host) ProgramHWBreak(pid int32, slotIndex int, addr, control uint32) error {
	return curated.Errorf(ErrPtrace, "hardware breakpoints unsupported by hostptrace")
}

// ProgramHWWatch is unsupported by this reference host; see the package doc.
func (h *Host) ProgramHWWatch(pid int32, slotIndex int, addr, control uint32) error {
	return curated.Errorf(ErrPtrace, "hardware watchpoints unsupported by hostptrace")
}

// ReadData implements host.TargetMemory via PTRACE_PEEKDATA.
func (h *Host) ReadData(pid int32, addr uint32, dst []byte) error {
	n, err := unix.PtracePeekData(int(pid), uintptr(addr), dst)
	if err != nil {
		return curated.Errorf(ErrPtrace, err)
	}
	if n != len(dst) {
		return curated.Errorf(ErrPtrace, fmt.Sprintf("short read: %d of %d bytes", n, len(dst)))
	}
	return nil
}

// WriteData implements host.TargetMemory via PTRACE_POKEDATA.
func (h *Host) WriteData(pid int32, addr uint32, src []byte) error {
	n, err := unix.PtracePokeData(int(pid), uintptr(addr), src)
	if err != nil {
		return curated.Errorf(ErrPtrace, err)
	}
	if n != len(src) {
		return curated.Errorf(ErrPtrace, fmt.Sprintf("short write: %d of %d bytes", n, len(src)))
	}
	return nil
}

// WriteText is the same POKEDATA path as WriteData: Linux's ptrace never
// distinguished the two, unlike the original kernel's separate text/data
// write primitives.
func (h *Host) WriteText(pid int32, addr uint32, src []byte) error {
	return h.WriteData(pid, addr, src)
}

// Classify always reports RegionOther: without parsing /proc/pid/maps this
// reference host cannot tell code from data, so it never blocks a write on
// the RX check that Gateway.WriteData performs.
func (h *Host) Classify(pid int32, addr uint32) host.RegionKind {
	return host.RegionOther
}

// CurrentThread implements host.ThreadContext; this reference host only ever
// tracks one thread.
func (h *Host) CurrentThread() (pid int32, tid int32, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tid == 0 {
		return 0, 0, false
	}
	return h.tid, h.tid, true
}

// RegisterFile implements host.ThreadContext via PTRACE_GETREGS. Linux's
// arm_user_regs layout places r0-r15 at uregs[0:16] and cpsr at uregs[16];
// there is no separate kernel-mode register bank under ptrace, so kernel
// equals user here.
func (h *Host) RegisterFile(tid int32) (user, kernel predictor.Registers, ok bool) {
	var regs unix.PtraceRegsArm
	if err := unix.PtraceGetRegsArm(int(tid), &regs); err != nil {
		return predictor.Registers{}, predictor.Registers{}, false
	}
	var r predictor.Registers
	copy(r.R[:], regs.Uregs[:16])
	r.CPSR = regs.Uregs[16]
	return r, r, true
}

// DataFaultAddress has no ptrace equivalent without reading siginfo; this
// reference host returns 0, which Core.handleDataAbort treats as a miss
// against every installed watchpoint (watchpoints are unsupported here
// regardless, see ProgramHWWatch).
func (h *Host) DataFaultAddress(tid int32) uint32 {
	return 0
}

// SetSuspendStatus maps onto PTRACE_CONT for resume (code 0) and is a no-op
// otherwise: ptrace's stop/cont model already leaves the tracee stopped
// until explicitly continued, so there is no separate "set suspended" call
// to make.
func (h *Host) SetSuspendStatus(tid int32, code uint32) {
	if code == 0 {
		unix.PtraceCont(int(tid), 0)
	}
}

// QuerySuspendStatus always reports true: under ptrace, if the process
// hasn't been continued it is, by definition, stopped.
func (h *Host) QuerySuspendStatus(tid int32) bool {
	return true
}

// SuspendProcess sends the traced process a stop via PTRACE_INTERRUPT; a
// single-threaded reference host, so "process" and "thread" coincide.
func (h *Host) SuspendProcess(pid int32, code uint32) {
	unix.PtraceInterrupt(int(pid))
}

// ResumeProcess continues the traced process.
func (h *Host) ResumeProcess(pid int32) {
	unix.PtraceCont(int(pid), 0)
}
