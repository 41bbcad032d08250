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

package queue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ambientmesh/discovery/pkg/backoff"
)

func TestOrdering(t *testing.T) {
	numValues := 100

	q := NewQueue(1 * time.Microsecond)
	stop := make(chan struct{})
	defer close(stop)

	wg := sync.WaitGroup{}
	wg.Add(numValues)
	mu := sync.Mutex{}
	out := make([]int, 0, numValues)
	for i := 0; i < numValues; i++ {
		i := i
		q.Push(func() error {
			mu.Lock()
			out = append(out, i)
			mu.Unlock()
			wg.Done()
			return nil
		})
	}

	go q.Run(stop)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < numValues; i++ {
		if out[i] != i {
			t.Fatalf("expected task %d in position %d, got %d", i, i, out[i])
		}
	}
}

func TestRetry(t *testing.T) {
	q := NewQueue(1 * time.Microsecond)
	stop := make(chan struct{})
	defer close(stop)

	// Push a task that fails the first 2 times it runs.
	wg := sync.WaitGroup{}
	wg.Add(3)
	failures := 0
	q.Push(func() error {
		defer wg.Done()
		if failures < 2 {
			failures++
			return errors.New("fake error")
		}
		return nil
	})

	go q.Run(stop)
	wg.Wait()

	if failures != 2 {
		t.Fatalf("expected 2 failures before success, got %d", failures)
	}
}

func TestBackoffRetry(t *testing.T) {
	q := NewBackOffQueue(func(b *backoff.ExponentialBackOff) {
		b.InitialInterval = 1 * time.Microsecond
		b.MaxInterval = 1 * time.Millisecond
	})
	stop := make(chan struct{})
	defer close(stop)

	wg := sync.WaitGroup{}
	wg.Add(4)
	failures := 0
	q.Push(func() error {
		defer wg.Done()
		if failures < 3 {
			failures++
			return errors.New("fake error")
		}
		return nil
	})

	go q.Run(stop)
	wg.Wait()

	if failures != 3 {
		t.Fatalf("expected 3 failures before success, got %d", failures)
	}
}

func TestClosed(t *testing.T) {
	q := NewQueue(1 * time.Microsecond)
	stop := make(chan struct{})
	go q.Run(stop)

	done := make(chan struct{})
	q.Push(func() error {
		close(done)
		return nil
	})
	<-done

	close(stop)
	select {
	case <-q.Closed():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for queue to close")
	}
}
