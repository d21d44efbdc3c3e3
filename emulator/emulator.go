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
	"errors"
	"log"
	"sync"

	"github.com/andreas-jonsson/virtualz80/emulator/console"
	"github.com/andreas-jonsson/virtualz80/emulator/peripheral"
	"github.com/andreas-jonsson/virtualz80/emulator/peripheral/ram"
	"github.com/andreas-jonsson/virtualz80/emulator/peripheral/rom"
	"github.com/andreas-jonsson/virtualz80/emulator/peripheral/serial"
	"github.com/andreas-jonsson/virtualz80/emulator/processor"
	"github.com/andreas-jonsson/virtualz80/emulator/processor/cpu"
	"github.com/andreas-jonsson/virtualz80/emulator/processor/z80"
	"github.com/andreas-jonsson/virtualz80/emulator/queue"
	"github.com/andreas-jonsson/virtualz80/platform"
	"github.com/spf13/afero"
)

type Config struct {
	// Fs is where the ROM image is read from. Defaults to the OS filesystem.
	Fs      afero.Fs
	RomPath string
	RomBase uint16

	ClockMHz float64
	Sleeper  Sleeper
}

// NewEngine attaches a Z80 to the bus.
func NewEngine(b processor.Bus) processor.Engine {
	return z80.New(b)
}

// Start builds the machine and runs it until the frontend quits. The
// frontend is created once the machine is ready, so startup errors are
// reported before the terminal is taken over. The machine executes on its
// own goroutine while the frontend loop runs on the calling goroutine.
func Start(cfg Config, newPlatform func() (platform.Platform, error)) error {
	in, out := queue.New(), queue.New()
	port := &serial.Device{Input: in, Output: out}

	peripherals := []peripheral.Peripheral{
		&ram.Device{}, // RAM (needs to go first since it maps the full memory range)
		&rom.Device{
			Fs:      cfg.Fs,
			Path:    cfg.RomPath,
			Base:    cfg.RomBase,
			RomName: "Boot ROM",
		},
		port,
	}

	p, errs := cpu.NewCPU(peripherals, NewEngine)
	defer p.Close()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	p.Reset()

	plat, err := newPlatform()
	if err != nil {
		return err
	}

	w, h := plat.Size()
	con := console.New(in, out, p, p, w, h)
	if e, ok := plat.(platform.Echoer); ok {
		con.Echo = e.Echo()
	}

	loop := &Loop{
		Machine:  p,
		ClockMHz: cfg.ClockMHz,
		Sleeper:  cfg.Sleeper,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if runErr = loop.Run(ctx); runErr == nil {
			log.Print("CPU halted!")
		}
	}()

	err = plat.Run(con)
	cancel()
	wg.Wait()

	logStats(p.GetStats(), port, con)

	if err != nil {
		return err
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func logStats(s processor.Stats, port *serial.Device, con *console.Console) {
	cs := con.Stats()
	log.Printf("Executed %d instructions in %d cycles", s.NumInstructions, s.NumCycles)
	log.Printf("Interrupts: %d, port reads: %d, port writes: %d", s.NumInterrupts, s.RX, s.TX)
	log.Printf("Dropped output: %d, dropped keys: %d, skipped ticks: %d", port.Dropped(), cs.DroppedKeys, cs.SkippedTicks)
}
