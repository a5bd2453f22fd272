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

// Error patterns, addressable with curated.Is/curated.Has. These are the
// seven semantic error kinds of spec §7; MemRead/MemWrite are re-exported
// from package target rather than duplicated here.
const (
	ErrNoTarget      = "no target attached"
	ErrNoSlot        = "no slot available: %v"
	ErrBadArg        = "bad argument: %v"
	ErrKernelReject  = "kernel rejected request: %v"
	ErrNotSuspended  = "no thread is debugger-suspended"
	ErrPredictorUnknown = "predictor: next pc is not statically determinable"
)
