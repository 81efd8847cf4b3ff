//go:build !headless

// system_run.go - the "cpc464" CLI run mode.
//
// Wires Driver to the Ebiten video/audio sinks exactly as
// original_source/ronald-cli/src/main.rs's "cpc464" branch wires its Driver
// to gui::run. The "zexdoc" run mode lives in zexdoc_run.go since it needs
// neither backend and stays available under a headless build.
package main

import (
	"fmt"
	"os"
)

const (
	defaultLowerROMPath = "rom/os464.rom"
	defaultBasicROMPath = "rom/basic464.rom"
)

func runCPC464(floppyPath string, debug bool) error {
	lowerROM, err := os.ReadFile(defaultLowerROMPath)
	if err != nil {
		return fmt.Errorf("loading lower ROM %s: %w (Amstrad firmware ROMs are not redistributed here; place a dump at this path)", defaultLowerROMPath, err)
	}
	basicROM, err := os.ReadFile(defaultBasicROMPath)
	if err != nil {
		return fmt.Errorf("loading BASIC ROM %s: %w", defaultBasicROMPath, err)
	}

	driver, err := WithConfig(SystemConfig{LowerROM: lowerROM, BasicROM: basicROM})
	if err != nil {
		return fmt.Errorf("constructing machine: %w", err)
	}

	if floppyPath != "" {
		image, err := os.ReadFile(floppyPath)
		if err != nil {
			return fmt.Errorf("loading floppy %s: %w", floppyPath, err)
		}
		if err := driver.LoadDisk(0, image); err != nil {
			return fmt.Errorf("floppy load error: %w", err)
		}
	}

	audio, err := NewOtoPlayer(defaultSampleRate)
	if err != nil {
		return fmt.Errorf("opening audio: %w", err)
	}
	defer audio.Close()
	audio.PlayAudio()

	video := NewEbitenOutput(driver)
	if debug {
		video.overlay.Toggle()
	}

	go func() {
		for {
			driver.Step(20000, video, audio)
		}
	}()

	return video.Run("ronaldcpc - Amstrad CPC 464")
}
