package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phinze/posdeck/internal/config"
	"github.com/phinze/posdeck/internal/gesture"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: choose activation methods and write config",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Posdeck Setup ===")
	fmt.Println()

	// Existing config provides the defaults
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Printf("Ignoring existing config: %v\n", err)
		cfg = config.Default()
	}

	fmt.Println("-- Activation --")
	fmt.Printf("  Mouse methods: %s\n", joinMethods(gesture.MouseMethods()))
	cfg.MouseActivation = promptChoice(reader, "Mouse activation", cfg.MouseActivation, func(s string) error {
		_, err := gesture.ParseMouseMethod(s)
		return err
	})
	fmt.Printf("  Touch methods: %s\n", joinMethods(gesture.TouchMethods()))
	cfg.TouchActivation = promptChoice(reader, "Touch activation", cfg.TouchActivation, func(s string) error {
		_, err := gesture.ParseTouchMethod(s)
		return err
	})
	fmt.Println()

	fmt.Println("-- Timing (ms) --")
	cfg.Durations.TapMs = promptInt(reader, "Tap duration", cfg.Durations.TapMs)
	cfg.Durations.DoubleTapMs = promptInt(reader, "Double tap duration", cfg.Durations.DoubleTapMs)
	cfg.Durations.LongTouchMs = promptInt(reader, "Long touch duration", cfg.Durations.LongTouchMs)
	cfg.MinUpdateMs = promptInt(reader, "Minimum update interval", cfg.MinUpdateMs)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.WriteFile(configPath, cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", configPath)
	fmt.Println("Setup complete!")
	return nil
}

func joinMethods[M fmt.Stringer](methods []M) string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

// promptChoice repeats the prompt until valid accepts the answer.
func promptChoice(reader *bufio.Reader, label, defaultVal string, valid func(string) error) string {
	for {
		v := prompt(reader, label, defaultVal)
		err := valid(v)
		if err == nil {
			return v
		}
		fmt.Printf("  -> %v\n", err)
	}
}

func promptInt(reader *bufio.Reader, label string, defaultVal int) int {
	for {
		v := prompt(reader, label, strconv.Itoa(defaultVal))
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 {
			return n
		}
		fmt.Println("  -> enter a non-negative number")
	}
}
