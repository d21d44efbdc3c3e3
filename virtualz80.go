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

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/andreas-jonsson/virtualz80/emulator"
	"github.com/andreas-jonsson/virtualz80/platform"
	"github.com/andreas-jonsson/virtualz80/platform/dialog"
	"github.com/andreas-jonsson/virtualz80/statsview"
	"github.com/andreas-jonsson/virtualz80/version"
	"github.com/spf13/afero"
)

var (
	romImage = "rom/boot.bin"
	romBase  uint
	clockMHz = emulator.DefaultClock
	logFile  string
)

var (
	width  = 80
	height = 25
)

var (
	headless,
	stats,
	ver bool
)

func init() {
	if p, ok := os.LookupEnv("VXT_Z80_DEFAULT_ROM_PATH"); ok {
		romImage = p
	}

	flag.BoolVar(&ver, "v", false, "Print version information")
	flag.BoolVar(&headless, "headless", false, "Use stdin and stdout instead of a full screen terminal")
	flag.BoolVar(&stats, "statsview", false, "Serve runtime statistics on "+statsview.Address)

	flag.StringVar(&romImage, "rom", romImage, "Path to ROM image")
	flag.UintVar(&romBase, "base", romBase, "Load address of the ROM image")
	flag.Float64Var(&clockMHz, "mhz", clockMHz, "CPU clock in MHz, 0 runs unthrottled")
	flag.StringVar(&logFile, "log", "", "Write the log to file")

	flag.IntVar(&width, "width", width, "Console width in headless mode")
	flag.IntVar(&height, "height", height, "Console height in headless mode")
}

func main() {
	flag.Parse()

	if ver {
		fmt.Println(version.Current.Banner(version.Hash))
		return
	}

	if romBase > 0xFFFF {
		fatal(fmt.Sprintf("invalid ROM base address: 0x%X", romBase))
	}

	if logFile != "" {
		fp, err := os.Create(logFile)
		if err != nil {
			fatal(err.Error())
		}
		defer fp.Close()
		log.SetOutput(fp)
	} else if !headless {
		// The terminal belongs to the console.
		log.SetOutput(io.Discard)
	}

	if stats {
		statsview.Launch(os.Stdout)
	}

	newPlatform := platform.NewTcell
	if headless {
		newPlatform = func() (platform.Platform, error) {
			return platform.NewHeadless(width, height), nil
		}
	} else {
		printLogo()
	}

	cfg := emulator.Config{
		Fs:       afero.NewOsFs(),
		RomPath:  romImage,
		RomBase:  uint16(romBase),
		ClockMHz: clockMHz,
	}

	if err := emulator.Start(cfg, newPlatform); err != nil {
		fatal(err.Error())
	}
}

func fatal(msg string) {
	dialog.ShowErrorMessage(msg)
	os.Exit(1)
}

func printLogo() {
	fmt.Print(logo)
	fmt.Println("v" + version.Current.String())
	fmt.Println(" ───────═════ " + version.Copyright + " ══════───────")
	fmt.Println()
}

var logo = `
██╗   ██╗██╗██████╗ ████████╗██╗   ██╗ █████╗ ██╗     ███████╗ █████╗  ██████╗ 
██║   ██║██║██╔══██╗╚══██╔══╝██║   ██║██╔══██╗██║     ╚══███╔╝██╔══██╗██╔═████╗
██║   ██║██║██████╔╝   ██║   ██║   ██║███████║██║       ███╔╝ ╚█████╔╝██║██╔██║
╚██╗ ██╔╝██║██╔══██╗   ██║   ██║   ██║██╔══██║██║      ███╔╝  ██╔══██╗████╔╝██║
 ╚████╔╝ ██║██║  ██║   ██║   ╚██████╔╝██║  ██║███████╗███████╗╚█████╔╝╚██████╔╝
  ╚═══╝  ╚═╝╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚══════╝╚══════╝ ╚════╝  ╚═════╝ `
