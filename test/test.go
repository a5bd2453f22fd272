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

// Package test is a small testing helper package, used throughout the rest
// of the module instead of ad-hoc if/t.Fatalf checks.
package test

import (
	"math"
	"reflect"
	"testing"
)

// Equate fails the test if got and want are not equal, as judged by
// reflect.DeepEqual.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// ExpectEquality fails the test if a and b are not equal.
func ExpectEquality(t *testing.T, a, b interface{}) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected equality: %v != %v", a, b)
	}
}

// ExpectInequality fails the test if a and b are equal.
func ExpectInequality(t *testing.T, a, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("expected inequality: %v == %v", a, b)
	}
}

// ExpectApproximate fails the test if a and b are not within tolerance of
// one another, as a fraction of the larger of the two magnitudes.
func ExpectApproximate(t *testing.T, a, b interface{}, tolerance float64) {
	t.Helper()
	fa, fb := toFloat64(a), toFloat64(b)
	mag := math.Max(math.Abs(fa), math.Abs(fb))
	if mag == 0 {
		return
	}
	if math.Abs(fa-fb)/mag > tolerance {
		t.Errorf("expected %v to be within %v of %v", a, tolerance, b)
	}
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

// isSuccess interprets v the way ExpectSuccess/ExpectFailure do: a bool is
// success if true, an error (including a bare nil) is success if nil.
func isSuccess(v interface{}) bool {
	if v == nil {
		return true
	}
	switch x := v.(type) {
	case bool:
		return x
	case error:
		return x == nil
	default:
		return false
	}
}

// ExpectSuccess fails the test if v indicates failure: a false bool or a
// non-nil error.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if !isSuccess(v) {
		t.Errorf("expected success, got %v", v)
	}
}

// ExpectFailure fails the test if v indicates success: a true bool or a nil
// error.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if isSuccess(v) {
		t.Errorf("expected failure, got %v", v)
	}
}

// ExpectedSuccess is an alias of ExpectSuccess.
func ExpectedSuccess(t *testing.T, v interface{}) {
	t.Helper()
	ExpectSuccess(t, v)
}

// ExpectedFailure is an alias of ExpectFailure.
func ExpectedFailure(t *testing.T, v interface{}) {
	t.Helper()
	ExpectFailure(t, v)
}
