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

import "github.com/jetsetilly/armdbg/curated"

// StepN issues n single instruction steps back to back, blocking on wake
// between each one so it only ever arms the reserved single-step slot while
// the previous step has actually landed. It stops early and returns the
// error from whichever step failed, leaving the thread suspended at that
// point rather than running free.
//
// This has no counterpart in the Manager's direct operations; it exists
// purely as host-facing sugar over repeated SingleStep/wake pairs, the way a
// UI's "step over 10 lines" button would use it.
func (c *Core) StepN(n int) error {
	if n <= 0 {
		return curated.Errorf(ErrBadArg, "step count must be positive")
	}
	for i := 0; i < n; i++ {
		if err := c.SingleStep(); err != nil {
			return err
		}
		if c.wake != nil {
			c.wake.Wait()
		}
	}
	return nil
}
