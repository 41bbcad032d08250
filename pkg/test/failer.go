// Copyright Istio Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package test

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"testing"
)

var (
	_ Failer = &testing.T{}
	_ Failer = &testing.B{}
	_ Failer = &errorWrapper{}
)

// Failer is an interface to be provided to test functions of the form XXXOrFail. This is a
// substitute for testing.TB, which cannot be implemented outside of the testing
// package.
type Failer interface {
	Fail()
	FailNow()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Log(args ...any)
	Logf(format string, args ...any)
	TempDir() string
	Helper()
	Cleanup(func())
	Skip(args ...any)
	SkipNow()
	Skipf(format string, args ...any)
	Skipped() bool
}

// errorWrapper is an implementation of Failer that records the failure as an
// error rather than terminating a test. This allows mixing usage of APIs that
// take error or Failer.
type errorWrapper struct {
	mu       sync.RWMutex
	failed   error
	skipped  bool
	cleanups []func()
}

// Wrap executes a function with a Failer inside and returns an error if the
// function failed. Functions like Fatalf abort via runtime.Goexit, so f runs
// on its own goroutine to contain the abort.
func Wrap(f func(t Failer)) error {
	w := &errorWrapper{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer w.runCleanups()
		f(w)
	}()
	<-done

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.failed
}

func (e *errorWrapper) runCleanups() {
	e.mu.Lock()
	cleanups := e.cleanups
	e.cleanups = nil
	e.mu.Unlock()
	// Run in reverse order, like testing.T.
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (e *errorWrapper) setFailure(err error) {
	e.mu.Lock()
	if e.failed == nil {
		e.failed = err
	}
	e.mu.Unlock()
}

func (e *errorWrapper) Fail() {
	e.setFailure(errors.New("test failed"))
}

func (e *errorWrapper) FailNow() {
	e.Fail()
	runtime.Goexit()
}

func (e *errorWrapper) Fatal(args ...any) {
	e.setFailure(errors.New(fmt.Sprint(args...)))
	runtime.Goexit()
}

func (e *errorWrapper) Fatalf(format string, args ...any) {
	e.setFailure(fmt.Errorf(format, args...))
	runtime.Goexit()
}

func (e *errorWrapper) Log(args ...any) {
	fmt.Println(args...)
}

func (e *errorWrapper) Logf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

func (e *errorWrapper) TempDir() string {
	tempDir, err := os.MkdirTemp("", "test")
	if err == nil {
		e.Cleanup(func() {
			os.RemoveAll(tempDir)
		})
	}
	return tempDir
}

func (e *errorWrapper) Helper() {
}

func (e *errorWrapper) Cleanup(f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cleanups = append(e.cleanups, f)
}

func (e *errorWrapper) Skip(args ...any) {
	e.Log(args...)
	e.SkipNow()
}

func (e *errorWrapper) SkipNow() {
	e.mu.Lock()
	e.skipped = true
	e.mu.Unlock()
	runtime.Goexit()
}

func (e *errorWrapper) Skipf(format string, args ...any) {
	e.Logf(format, args...)
	e.SkipNow()
}

func (e *errorWrapper) Skipped() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.skipped
}
