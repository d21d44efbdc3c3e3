/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package queue

import (
	"sync"
	"testing"
)

func TestFIFO(t *testing.T) {
	q := New()
	values := []int{1, 0x41, 0, 255, 13, 1000}
	for _, v := range values {
		if !q.TryEnqueue(v) {
			t.Fatalf("enqueue of %d failed", v)
		}
	}
	for _, want := range values {
		v, ok := q.TryDequeue()
		if !ok {
			t.Fatal("queue drained early")
		}
		if v != want {
			t.Errorf("got %d, want %d", v, want)
		}
	}
	if _, ok := q.TryDequeue(); ok {
		t.Error("dequeue from empty queue succeeded")
	}
}

func TestCapacity(t *testing.T) {
	q := New()

	t.Run("Fill", func(t *testing.T) {
		for i := 1; i < Capacity; i++ {
			if !q.TryEnqueue(i) {
				t.Fatalf("enqueue %d failed before the queue was full", i)
			}
		}
		if q.TryEnqueue(Capacity) {
			t.Fatal("enqueue into a full queue succeeded")
		}
		if n := q.Len(); n != Capacity-1 {
			t.Errorf("len = %d, want %d", n, Capacity-1)
		}
	})

	t.Run("Drain", func(t *testing.T) {
		for i := 1; i < Capacity; i++ {
			v, ok := q.TryDequeue()
			if !ok || v != i {
				t.Fatalf("dequeue = (%d, %v), want (%d, true)", v, ok, i)
			}
		}
		if q.NonEmpty() {
			t.Error("queue not empty after drain")
		}
	})
}

func TestFullQueueUnchanged(t *testing.T) {
	q := New()
	for i := 0; i < Capacity-1; i++ {
		q.TryEnqueue(i)
	}

	var before Ring
	q.Do(func(r *Ring) { before = *r })

	if q.TryEnqueue(0x55) {
		t.Fatal("enqueue into a full queue succeeded")
	}

	q.Do(func(r *Ring) {
		if *r != before {
			t.Error("rejected enqueue modified the queue")
		}
	})
}

func TestWrapAround(t *testing.T) {
	q := New()
	for round := 0; round < 3*Capacity; round++ {
		if !q.TryEnqueue(round) {
			t.Fatalf("round %d: enqueue failed", round)
		}
		if !q.TryEnqueue(-round) {
			t.Fatalf("round %d: enqueue failed", round)
		}
		if v, _ := q.TryDequeue(); v != round {
			t.Fatalf("round %d: got %d", round, v)
		}
		if v, _ := q.TryDequeue(); v != -round {
			t.Fatalf("round %d: got %d", round, v)
		}
	}
}

func TestTryDo(t *testing.T) {
	q := New()

	t.Run("Uncontended", func(t *testing.T) {
		called := q.TryDo(func(r *Ring) {
			r.Push(7)
		})
		if !called {
			t.Fatal("TryDo did not run on a free lock")
		}
		if v, ok := q.TryDequeue(); !ok || v != 7 {
			t.Errorf("dequeue = (%d, %v)", v, ok)
		}
	})

	t.Run("Contended", func(t *testing.T) {
		q.Do(func(*Ring) {
			if q.TryDo(func(r *Ring) { r.Push(1) }) {
				t.Error("TryDo ran while the lock was held")
			}
		})
		if q.NonEmpty() {
			t.Error("contended TryDo modified the queue")
		}
	})
}

func TestConcurrentProducerConsumer(t *testing.T) {
	const num = 10000

	q := New()
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for i := 0; i < num; {
			if q.TryEnqueue(i) {
				i++
			}
		}
	}()

	for next := 0; next < num; {
		q.TryDo(func(r *Ring) {
			for {
				v, ok := r.Pop()
				if !ok {
					return
				}
				if v != next {
					t.Errorf("got %d, want %d", v, next)
				}
				next++
			}
		})
	}
	wg.Wait()
}
