// Button Test - Watch raw levels and debounced presses on the three
// device buttons. Useful when checking wiring on a fresh build.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/visionaid/go-glass/internal/config"
	"github.com/visionaid/go-glass/internal/log"
	"github.com/visionaid/go-glass/pkg/buttons"
	"github.com/visionaid/go-glass/pkg/hw"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file")
	raw := flag.Bool("raw", false, "Print raw pin levels instead of debounced events")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	fmt.Println("Button Test")
	fmt.Printf("   mode=%s confirm=%s exit=%s\n",
		cfg.Pins.ModeButton, cfg.Pins.ConfirmButton, cfg.Pins.ExitButton)
	fmt.Println("   Press Ctrl+C to stop")
	fmt.Println()

	chip, err := hw.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "GPIO: %v\n", err)
		os.Exit(1)
	}
	defer chip.Close()

	pins := make(map[buttons.ID]hw.Pin, 3)
	for id, name := range map[buttons.ID]string{
		buttons.Mode:    cfg.Pins.ModeButton,
		buttons.Confirm: cfg.Pins.ConfirmButton,
		buttons.Exit:    cfg.Pins.ExitButton,
	} {
		pin, err := chip.Pin(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pin %s: %v\n", name, err)
			os.Exit(1)
		}
		if err := pin.Configure(hw.Input, hw.PullDown); err != nil {
			fmt.Fprintf(os.Stderr, "pin %s: %v\n", name, err)
			os.Exit(1)
		}
		pins[id] = pin
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *raw {
		watchRaw(pins, sigChan)
		return
	}
	watchEvents(cfg, pins, sigChan)
}

func watchRaw(pins map[buttons.ID]hw.Pin, sigChan <-chan os.Signal) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			fmt.Println("\nDone.")
			return
		case <-ticker.C:
			line := ""
			for _, id := range []buttons.ID{buttons.Mode, buttons.Confirm, buttons.Exit} {
				high, err := pins[id].Read()
				if err != nil {
					line += fmt.Sprintf("%s=ERR ", id)
					continue
				}
				line += fmt.Sprintf("%s=%v ", id, high)
			}
			fmt.Printf("\r%s", line)
		}
	}
}

func watchEvents(cfg config.Config, pins map[buttons.ID]hw.Pin, sigChan <-chan os.Signal) {
	monitor := buttons.NewMonitor(pins, buttons.Options{
		PollInterval: cfg.Buttons.PollInterval,
		Debounce:     cfg.Buttons.Debounce,
	})
	monitor.Start()
	defer monitor.Stop()

	for {
		select {
		case <-sigChan:
			fmt.Println("\nDone.")
			return
		case ev := <-monitor.Events():
			fmt.Printf("%s  %s pressed\n", ev.At.Format("15:04:05.000"), ev.Button)
		}
	}
}
