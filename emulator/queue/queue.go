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

// Package queue implements the bounded byte queues that connect the emulated
// machine with the console frontend.
package queue

import "sync"

// Capacity is the number of slots in a ring. One slot is always left empty so
// a ring can hold at most Capacity-1 values.
const Capacity = 256

// Ring is a fixed size circular buffer. The indices are bytes so they wrap
// around at Capacity without any masking.
type Ring struct {
	write, read uint8
	buffer      [Capacity]int
}

func (r *Ring) Empty() bool {
	return r.write == r.read
}

func (r *Ring) Full() bool {
	return r.write+1 == r.read
}

func (r *Ring) Len() int {
	return int(r.write - r.read)
}

// Pop removes the oldest value. It returns false if the ring is empty.
func (r *Ring) Pop() (int, bool) {
	if r.write == r.read {
		return 0, false
	}
	v := r.buffer[r.read]
	r.read++
	return v, true
}

// Push appends v. A full ring rejects the value and is left unchanged.
func (r *Ring) Push(v int) bool {
	if r.write+1 == r.read {
		return false
	}
	r.buffer[r.write] = v
	r.write++
	return true
}

func (r *Ring) Reset() {
	*r = Ring{}
}

// Queue guards a Ring with a mutex. The execution side uses the blocking
// methods, the UI side uses TryDo so it never stalls on contention.
type Queue struct {
	lock sync.Mutex
	ring Ring
}

func New() *Queue {
	return &Queue{}
}

func (q *Queue) TryDequeue() (int, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.ring.Pop()
}

func (q *Queue) TryEnqueue(v int) bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.ring.Push(v)
}

func (q *Queue) NonEmpty() bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	return !q.ring.Empty()
}

func (q *Queue) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.ring.Len()
}

// Do runs f with the lock held.
func (q *Queue) Do(f func(*Ring)) {
	q.lock.Lock()
	defer q.lock.Unlock()
	f(&q.ring)
}

// TryDo runs f only if the lock could be taken without blocking. It reports
// whether f was called.
func (q *Queue) TryDo(f func(*Ring)) bool {
	if !q.lock.TryLock() {
		return false
	}
	defer q.lock.Unlock()
	f(&q.ring)
	return true
}

func (q *Queue) Reset() {
	q.lock.Lock()
	q.ring.Reset()
	q.lock.Unlock()
}
