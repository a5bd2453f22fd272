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

package predictor_test

import (
	"testing"

	"github.com/jetsetilly/armdbg/predictor"
	"github.com/jetsetilly/armdbg/test"
)

const (
	cpsrThumb = 1 << 5
	cpsrZ     = 1 << 30
)

func regsAt(pc uint32, cpsr uint32) predictor.Registers {
	var r predictor.Registers
	r.R[15] = pc
	r.CPSR = cpsr
	return r
}

// BEQ +6 encoded as D003: cond=EQ(0), imm8=0x03 -> offset = 3<<1 = 6.
func TestThumbConditionalBranch(t *testing.T) {
	const p = 0x81000000

	taken := predictor.Predict(regsAt(p, cpsrThumb|cpsrZ), 0xD003)
	test.ExpectEquality(t, taken, uint32(p+2+6))

	notTaken := predictor.Predict(regsAt(p, cpsrThumb), 0xD003)
	test.ExpectEquality(t, notTaken, uint32(p+2))
}

// Unconditional 16-bit branch: top5=11100, 11-bit offset.
func TestThumbUnconditionalBranch(t *testing.T) {
	const p = 0x81000100
	// E7FE: imm11 = 0x7FE (-2), shifted left by 1 gives an offset of -4,
	// added to PC+2
	got := predictor.Predict(regsAt(p, cpsrThumb), 0xE7FE)
	test.ExpectEquality(t, got, uint32(p+2-4))
}

func TestThumbFallThrough(t *testing.T) {
	const p = 0x81000200
	// 0x4770 is "BX LR" - a register-indirect branch the predictor can't
	// resolve; it must fall through to PC+2.
	got := predictor.Predict(regsAt(p, cpsrThumb), 0x4770)
	test.ExpectEquality(t, got, uint32(p+2))
}

func TestARMUnconditionalBranch(t *testing.T) {
	const p = 0x81000300
	// EAFFFFFE == B $ (offset -2 words == -8 bytes, branch to self)
	got := predictor.Predict(regsAt(p, 0), 0xEAFFFFFE)
	test.ExpectEquality(t, got, uint32(int64(p)+8-8))
}

func TestARMConditionFailsFallsThrough(t *testing.T) {
	const p = 0x81000400
	// 0x0AFFFFFE == BEQ $ but Z clear, should not branch.
	got := predictor.Predict(regsAt(p, 0), 0x0AFFFFFE)
	test.ExpectEquality(t, got, uint32(p+4))
}

func TestARMNonBranchFallsThrough(t *testing.T) {
	const p = 0x81000500
	// 0xE1A00000 == MOV R0, R0 (NOP)
	got := predictor.Predict(regsAt(p, 0), 0xE1A00000)
	test.ExpectEquality(t, got, uint32(p+4))
}
