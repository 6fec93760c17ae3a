package main

import (
	"fmt"
	"os"
	"time"

	"github.com/phinze/posdeck/internal/config"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config and device health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Posdeck Status ===")
	fmt.Println()

	allOK := true

	fmt.Printf("Config file: %s\n", configPath)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: not found, using defaults")
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		allOK = false
	}
	fmt.Println()

	if cfg != nil {
		fmt.Println("Activation:")
		fmt.Printf("  Mouse: %s\n", cfg.MouseActivation)
		fmt.Printf("  Touch: %s\n", cfg.TouchActivation)
		fmt.Printf("  Tap / double tap / long touch: %dms / %dms / %dms\n",
			cfg.Durations.TapMs, cfg.Durations.DoubleTapMs, cfg.Durations.LongTouchMs)
		fmt.Printf("  Minimum update interval: %dms\n", cfg.MinUpdateMs)
		fmt.Println()
	}

	fmt.Println("Stream Deck:")
	dev := tryGetDeviceWithTimeout(2 * time.Second)
	if dev != nil {
		fmt.Println("  Device: CONNECTED")
		dev.Close()
	} else {
		fmt.Println("  Device: not detected")
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'posdeck setup' to configure.")
	}

	return nil
}
