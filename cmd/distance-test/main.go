// Distance Test - Exercise the ultrasonic sensor: one-shot or
// continuous readings with the configured trigger/echo pins.
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
	"github.com/visionaid/go-glass/pkg/hw"
	"github.com/visionaid/go-glass/pkg/ultrasonic"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file")
	loop := flag.Bool("loop", false, "Keep measuring until interrupted")
	interval := flag.Duration("interval", time.Second, "Delay between loop measurements")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	fmt.Println("Distance Test")
	fmt.Printf("   trigger=%s echo=%s timeout=%s\n",
		cfg.Pins.Trigger, cfg.Pins.Echo, cfg.Distance.EchoTimeout)
	fmt.Println()

	chip, err := hw.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "GPIO: %v\n", err)
		os.Exit(1)
	}
	defer chip.Close()

	trig, err := chip.Pin(cfg.Pins.Trigger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trigger pin: %v\n", err)
		os.Exit(1)
	}
	echo, err := chip.Pin(cfg.Pins.Echo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "echo pin: %v\n", err)
		os.Exit(1)
	}

	sensor, err := ultrasonic.New(trig, echo, ultrasonic.Options{
		EchoTimeout:  cfg.Distance.EchoTimeout,
		SpeedOfSound: cfg.Distance.SpeedOfSound,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sensor: %v\n", err)
		os.Exit(1)
	}

	if !*loop {
		report(sensor.Measure())
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Println("Measuring, Ctrl+C to stop...")
	for {
		select {
		case <-sigChan:
			fmt.Println("\nDone.")
			return
		case <-ticker.C:
			report(sensor.Measure())
		}
	}
}

func report(d float64) {
	if d >= ultrasonic.OutOfRange {
		fmt.Println("out of range (timeout or sensor failure)")
		return
	}
	fmt.Printf("%.1f cm\n", d)
}
