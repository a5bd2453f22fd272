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

package curated_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/armdbg/curated"
	"github.com/jetsetilly/armdbg/test"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.Equate(t, e.Error(), "test error: foo")

	f := curated.Errorf(testError, e)
	test.Equate(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectedSuccess(t, curated.Is(e, testError))
	test.ExpectedFailure(t, curated.Has(e, testErrorB))

	f := curated.Errorf(testErrorB, e)
	test.ExpectedFailure(t, curated.Is(f, testError))
	test.ExpectedSuccess(t, curated.Is(f, testErrorB))
	test.ExpectedSuccess(t, curated.Has(f, testError))
	test.ExpectedSuccess(t, curated.Has(f, testErrorB))

	test.ExpectedSuccess(t, curated.IsAny(e))
	test.ExpectedSuccess(t, curated.IsAny(f))
}

func TestPlainErrors(t *testing.T) {
	e := fmt.Errorf("plain test error")
	test.ExpectedFailure(t, curated.IsAny(e))

	const testError = "test error: %s"
	test.ExpectedFailure(t, curated.Has(e, testError))
}

func TestWrapping(t *testing.T) {
	a := 10
	e := curated.Errorf("error: value = %d", a)
	f := curated.Errorf("fatal: %v", e)

	test.ExpectedSuccess(t, curated.Has(f, "error: value = %d"))
	test.ExpectedFailure(t, curated.Is(f, "error: value = %d"))
	test.ExpectedSuccess(t, curated.Has(f, "fatal: %v"))
	test.ExpectedSuccess(t, curated.Is(f, "fatal: %v"))

	test.Equate(t, f.Error(), "fatal: error: value = 10")
}
