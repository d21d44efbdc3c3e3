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

package emulator

import (
	"context"
	"time"
)

// DefaultClock is the clock frequency of the emulated machine in MHz.
const DefaultClock = 7.3728

// DefaultQuantum is the smallest delay handed to the Sleeper. Shorter
// delays are accumulated until they add up to a quantum.
const DefaultQuantum = time.Millisecond

// Machine is what the execution loop drives.
type Machine interface {
	Step() (int, error)
	Halted() bool
}

// Sleeper suspends the execution goroutine for d and returns the time that
// actually passed.
type Sleeper interface {
	Sleep(d time.Duration) time.Duration
}

type SleeperFunc func(time.Duration) time.Duration

func (f SleeperFunc) Sleep(d time.Duration) time.Duration {
	return f(d)
}

type wallClock struct{}

func (wallClock) Sleep(d time.Duration) time.Duration {
	t := time.Now()
	time.Sleep(d)
	return time.Since(t)
}

// Loop executes instructions one at a time and paces them to the emulated
// clock.
type Loop struct {
	Machine Machine

	// ClockMHz is the emulated clock. Zero or less runs unthrottled.
	ClockMHz float64

	// Sleeper defaults to the wall clock.
	Sleeper Sleeper

	// Quantum defaults to DefaultQuantum.
	Quantum time.Duration

	steps int64
	debt  time.Duration
}

// Delay returns the wall clock time that cycles take at clockMHz.
func Delay(cycles int, clockMHz float64) time.Duration {
	if clockMHz <= 0 {
		return 0
	}
	return time.Duration(float64(cycles) * 1000 / clockMHz)
}

// Run steps the machine until it halts, an instruction fails or ctx is
// done. A halt is not an error.
func (l *Loop) Run(ctx context.Context) error {
	if l.Sleeper == nil {
		l.Sleeper = wallClock{}
	}
	if l.Quantum <= 0 {
		l.Quantum = DefaultQuantum
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if l.Machine.Halted() {
			return nil
		}

		cycles, err := l.Machine.Step()
		if err != nil {
			return err
		}
		l.steps++

		if l.debt += Delay(cycles, l.ClockMHz); l.debt >= l.Quantum {
			l.debt -= l.Sleeper.Sleep(l.debt)
		}
	}
}

// Steps returns the number of instructions executed. It must not be called
// while Run is active.
func (l *Loop) Steps() int64 {
	return l.steps
}
