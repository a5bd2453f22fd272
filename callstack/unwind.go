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

// Package callstack walks the standard ARM APCS frame-pointer chain: at
// frame pointer fp (R11), the target stores the previous frame's fp at
// [fp] and the caller's return address at [fp-4].
package callstack

// WordReader reads one 32-bit word from the target's data domain.
type WordReader interface {
	ReadWord(addr uint32) (uint32, error)
}

// MaxDepth is the hard ceiling on unwind iterations regardless of what the
// caller asks for, so a corrupted or adversarial frame chain can never spin
// the walk indefinitely.
const MaxDepth = 32

// Unwind produces an in-order list of frame PCs starting with pc. It walks
// the fp chain from fp, stopping cleanly (without error) at any of: fp==0,
// fp misaligned, a saved lr of 0, a non-monotonic saved fp, a read failure,
// or reaching depth/MaxDepth frames. A saved fp of 0 marks the outermost
// frame: its saved lr is still recorded and the walk ends there.
func Unwind(mem WordReader, pc, fp uint32, depth int) []uint32 {
	if depth > MaxDepth {
		depth = MaxDepth
	}
	if depth <= 0 {
		return nil
	}

	frames := make([]uint32, 0, depth)
	frames = append(frames, pc)

	current := fp
	for len(frames) < depth {
		if current == 0 || current&3 != 0 {
			break
		}

		lr, err := mem.ReadWord(current - 4)
		if err != nil {
			break
		}
		savedFP, err := mem.ReadWord(current)
		if err != nil {
			break
		}

		if lr == 0 || (savedFP != 0 && savedFP <= current) {
			break
		}

		frames = append(frames, lr)
		if savedFP == 0 {
			break
		}
		current = savedFP
	}

	return frames
}
