package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phinze/posdeck/internal/config"
	"github.com/phinze/posdeck/internal/coordinator"
	"github.com/phinze/posdeck/internal/device"
	"github.com/phinze/posdeck/internal/device/emulator"
	"github.com/phinze/posdeck/internal/module"
	"github.com/phinze/posdeck/internal/modules/tracker"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "posdeck-emulator",
	Short:        "Run posdeck against an on-screen Stream Deck+",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runEmulator,
}

func main() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "config file (.yaml or .toml)")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEmulator(cmd *cobra.Command, args []string) error {
	log.Println("=== Posdeck Emulator ===")
	log.Println("Close window or press Ctrl+C to exit")

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		log.Printf("Warning: config load: %v (using defaults)", err)
		cfg = config.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\nReceived shutdown signal")
		cancel()
	}()

	emu := emulator.New()
	if err := emu.Open(); err != nil {
		return fmt.Errorf("opening emulator: %w", err)
	}

	go runWithDevice(ctx, cfg, emu)

	// Run GUI on main thread (required for macOS)
	if err := emu.RunGUI(); err != nil {
		return fmt.Errorf("emulator GUI: %w", err)
	}
	return nil
}

// runWithDevice runs the coordinator with the given device until context cancel.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Device) {
	log.Printf("Connected to: %s", dev.GetModelName())

	dev.SetBrightness(80)
	dev.ForEachKey(func(key device.KeyID) error {
		return dev.ClearKey(key)
	})

	coord := coordinator.New(dev)
	coord.RegisterModule(tracker.New(dev, cfg), module.Resources{
		Keys: []module.KeyID{
			module.Key1, module.Key2, module.Key3, module.Key4,
			module.Key5, module.Key6, module.Key7, module.Key8,
		},
		StripRect: image.Rect(0, 0, 800, 100),
		Dials:     []module.DialID{module.Dial1, module.Dial2},
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(ctx)
	}()

	log.Printf("Ready! mouse=%s touch=%s", cfg.MouseActivation, cfg.TouchActivation)

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Coordinator error: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		coord.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Println("Cleanup timed out")
	}

	dev.Close()
}
