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
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualz80/platform"
	"github.com/andreas-jonsson/virtualz80/rom"
	"github.com/spf13/afero"
)

// Prints "OK", then waits for a key and echoes it before halting.
var echoProgram = []byte{
	0x3E, 'O', // LD A,'O'
	0xD3, 0x81, // OUT (81h),A
	0x3E, 'K', // LD A,'K'
	0xD3, 0x81, // OUT (81h),A
	0x3E, 0x0A, // LD A,0Ah
	0xD3, 0x81, // OUT (81h),A
	0xDB, 0x80, // wait: IN A,(80h)
	0xB7,       // OR A
	0x20, 0xFB, // JR NZ,wait
	0xDB, 0x81, // IN A,(81h)
	0xD3, 0x81, // OUT (81h),A
	0x76, // HALT
}

type scriptedPlatform struct {
	echo   bytes.Buffer
	script func(h platform.Handler, echo *bytes.Buffer) error
}

func (p *scriptedPlatform) Size() (int, int) {
	return 80, 25
}

func (p *scriptedPlatform) Echo() io.Writer {
	return &p.echo
}

func (p *scriptedPlatform) Run(h platform.Handler) error {
	return p.script(h, &p.echo)
}

func romFs(t *testing.T, name string, data []byte) afero.Fs {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, name, data, 0644); err != nil {
		t.Fatal(err)
	}
	return fs
}

func waitFor(h platform.Handler, echo *bytes.Buffer, text string) error {
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); {
		h.Tick()
		if strings.Contains(echo.String(), text) {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return errors.New("timeout waiting for " + text)
}

func TestStart(t *testing.T) {
	cfg := Config{
		Fs:      romFs(t, "boot.bin", echoProgram),
		RomPath: "boot.bin",
	}

	plat := &scriptedPlatform{script: func(h platform.Handler, echo *bytes.Buffer) error {
		if err := waitFor(h, echo, "OK\n"); err != nil {
			return err
		}
		h.KeyPressed('x')
		return waitFor(h, echo, "OK\nx")
	}}

	err := Start(cfg, func() (platform.Platform, error) { return plat, nil })
	if err != nil {
		t.Fatal(err)
	}
}

func TestBootROM(t *testing.T) {
	cfg := Config{
		Fs:      romFs(t, "rom/boot.bin", rom.Boot),
		RomPath: "rom/boot.bin",
	}

	plat := &scriptedPlatform{script: func(h platform.Handler, echo *bytes.Buffer) error {
		if err := waitFor(h, echo, "VirtualZ80\n> "); err != nil {
			return err
		}
		for _, k := range []int{'h', 'i', 13} {
			h.KeyPressed(k)
		}
		return waitFor(h, echo, "> hi\n> ")
	}}

	if err := Start(cfg, func() (platform.Platform, error) { return plat, nil }); err != nil {
		t.Fatal(err)
	}
}

func TestStartPaced(t *testing.T) {
	cfg := Config{
		Fs:       romFs(t, "boot.bin", echoProgram),
		RomPath:  "boot.bin",
		ClockMHz: DefaultClock,
	}

	plat := &scriptedPlatform{script: func(h platform.Handler, echo *bytes.Buffer) error {
		return waitFor(h, echo, "OK\n")
	}}

	if err := Start(cfg, func() (platform.Platform, error) { return plat, nil }); err != nil {
		t.Fatal(err)
	}
}

func TestStartMissingROM(t *testing.T) {
	cfg := Config{
		Fs:      afero.NewMemMapFs(),
		RomPath: "missing.bin",
	}

	created := false
	err := Start(cfg, func() (platform.Platform, error) {
		created = true
		return nil, errors.New("should not be created")
	})
	if err == nil {
		t.Fatal("expected an error for a missing ROM")
	}
	if created {
		t.Error("frontend was created after a failed startup")
	}
}

func TestStartPlatformError(t *testing.T) {
	cfg := Config{
		Fs:      romFs(t, "boot.bin", echoProgram),
		RomPath: "boot.bin",
	}

	initErr := errors.New("no terminal")
	err := Start(cfg, func() (platform.Platform, error) { return nil, initErr })
	if err != initErr {
		t.Errorf("returned %v, expected %v", err, initErr)
	}
}
