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

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jetsetilly/armdbg/logger"
	"github.com/jetsetilly/armdbg/test"
)

func TestCentralLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.Equate(t, w.String(), "")

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(w)
	test.Equate(t, w.String(), "test: this is a test\n")

	w.Reset()
	log.Log(logger.Allow, "test2", "this is another test")
	log.Write(w)
	want := "test: this is a test\ntest2: this is another test\n"
	test.Equate(t, w.String(), want)

	w.Reset()
	log.Tail(w, 100)
	test.Equate(t, w.String(), want)

	w.Reset()
	log.Tail(w, 1)
	test.Equate(t, w.String(), "test2: this is another test\n")

	w.Reset()
	log.Tail(w, 0)
	test.Equate(t, w.String(), "")
}

func TestLoggerWraps(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")

	log.Write(w)
	test.Equate(t, w.String(), "b: 2\nc: 3\n")
}

type prohibitLogging struct {
	allow bool
}

func (p prohibitLogging) AllowLogging() bool { return p.allow }

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(prohibitLogging{allow: false}, "tag", "detail")
	log.Write(w)
	test.Equate(t, w.String(), "")

	log.Log(prohibitLogging{allow: true}, "tag", "detail")
	log.Write(w)
	test.Equate(t, w.String(), "tag: detail\n")
}

func TestErrorLogging(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	err := errors.New("test error")
	log.Log(logger.Allow, "tag", err)
	log.Write(w)
	test.Equate(t, w.String(), "tag: test error\n")

	log.Clear()
	w.Reset()
	log.Logf(logger.Allow, "tag", "wrapped: %v", err)
	log.Write(w)
	test.Equate(t, w.String(), "tag: wrapped: test error\n")
}

type stringerTest struct{}

func (stringerTest) String() string { return "stringer test" }

func TestStringerLogging(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", stringerTest{})
	log.Write(w)
	test.Equate(t, w.String(), "tag: stringer test\n")
}

func TestIntLogging(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", 100)
	log.Write(w)
	test.Equate(t, w.String(), "tag: 100\n")
}
