package main

import (
	"context"
	"image"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phinze/posdeck/internal/config"
	"github.com/phinze/posdeck/internal/coordinator"
	"github.com/phinze/posdeck/internal/device"
	"github.com/phinze/posdeck/internal/module"
	"github.com/phinze/posdeck/internal/modules/tracker"
	"github.com/phinze/posdeck/internal/usbwatch"
	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
	"github.com/spf13/cobra"
	"rafaelmartins.com/p/streamdeck"
)

// longTapMargin keeps synthesized long taps held past the long touch duration.
const longTapMargin = 150 * time.Millisecond

var configPath string

var rootCmd = &cobra.Command{
	Use:          "posdeck",
	Short:        "Position tracking on the Stream Deck+ touch strip",
	SilenceUsage: true,
	RunE:         runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "config file (.yaml or .toml)")
	rootCmd.AddCommand(setupCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("=== Posdeck Daemon ===")
	log.Println("Press Ctrl+C to exit")

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	// Setup signal handling
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\nReceived shutdown signal")
		cancel()
	}()

	// Start sleep/wake notifier and run device loop
	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)
	go func() {
		for activity := range sleepCh {
			if activity.Type == notifier.Awake {
				log.Println("System wake detected")
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()

	plugCh := usbwatch.Watch(ctx, usbwatch.StreamDeckPlus)

	// Wait for device, run, repeat on disconnect
	for {
		dev := waitForHardwareDevice(ctx, wakeCh, plugCh)
		if dev == nil {
			return nil
		}
		dev.SetLongTapHold(millis(cfg.Durations.LongTouchMs) + longTapMargin)

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// A wake from before the device showed up must not tear it down again.
	drainWake:
		for {
			select {
			case <-wakeCh:
				log.Println("Draining stale wake signal")
			default:
				break drainWake
			}
		}

		// USB enumeration may still be settling
		time.Sleep(500 * time.Millisecond)

		runWithDevice(ctx, cfg, dev, wakeCh)

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			return nil
		default:
			log.Println("Waiting for device reconnect...")
		}
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// tryGetDeviceWithTimeout attempts to get and open a Stream Deck device with a timeout.
// Returns nil when no device could be opened in time.
func tryGetDeviceWithTimeout(timeout time.Duration) *streamdeck.Device {
	type result struct {
		dev *streamdeck.Device
		err error
	}
	ch := make(chan result, 1)

	go func() {
		dev, err := streamdeck.GetDevice("")
		if err != nil {
			ch <- result{nil, err}
			return
		}
		if err := dev.Open(); err != nil {
			ch <- result{nil, err}
			return
		}
		ch <- result{dev, nil}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil
		}
		return r.dev
	case <-time.After(timeout):
		log.Println("Device detection timed out")
		return nil
	}
}

// waitForHardwareDevice polls for a Stream Deck device until one is available.
// Wake signals trigger an immediate burst of retries, arrivals a single one.
func waitForHardwareDevice(ctx context.Context, wakeCh, plugCh <-chan struct{}) *device.HardwareDevice {
	const deviceTimeout = 5 * time.Second

	if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
		return device.NewHardware(dev)
	}

	log.Println("Waiting for device...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wakeCh:
			log.Println("Wake signal received, probing for device...")
			for i := 0; i < 10; i++ {
				if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
					log.Println("Device connected!")
					return device.NewHardware(dev)
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(500 * time.Millisecond):
				}
			}
			log.Println("Device not found after wake, resuming polling...")
		case <-plugCh:
			log.Println("Stream Deck plugged in")
		case <-time.After(2 * time.Second):
		}

		if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
			log.Println("Device connected!")
			return device.NewHardware(dev)
		}
	}
}

// registerModules lays the tracker out over every key, the whole strip and
// the first two dials.
func registerModules(coord *coordinator.Coordinator, dev device.Device, cfg *config.Config) {
	tr := tracker.New(dev, cfg)
	coord.RegisterModule(tr, module.Resources{
		Keys: []module.KeyID{
			module.Key1, module.Key2, module.Key3, module.Key4,
			module.Key5, module.Key6, module.Key7, module.Key8,
		},
		StripRect: image.Rect(0, 0, 800, 100),
		Dials:     []module.DialID{module.Dial1, module.Dial2},
	})
}

// runWithDevice runs the coordinator with the given device until disconnect, wake, or context cancel.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Device, wakeCh <-chan struct{}) {
	log.Printf("Connected to: %s", dev.GetModelName())

	dev.SetBrightness(80)
	dev.ForEachKey(func(key device.KeyID) error {
		return dev.ClearKey(key)
	})

	// Fresh coordinator and modules for each connection
	coord := coordinator.New(dev)
	registerModules(coord, dev, cfg)

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(runCtx)
	}()

	log.Printf("Ready! mouse=%s touch=%s", cfg.MouseActivation, cfg.TouchActivation)

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Device disconnected: %v", err)
		}
	case <-wakeCh:
		log.Println("Reconnecting device after wake...")
	}

	runCancel()

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

	// The usbhid library doesn't cancel ongoing I/O on close; let pending
	// callbacks finish first.
	time.Sleep(200 * time.Millisecond)

	closeDone := make(chan struct{})
	go func() {
		dev.Close()
		close(closeDone)
	}()

	// device.Close() may block indefinitely on shutdown
	select {
	case <-ctx.Done():
		log.Println("Exiting...")
		os.Exit(0)
	case <-closeDone:
	case <-time.After(3 * time.Second):
		log.Println("Device close timed out")
	}
}
