package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/visionaid/go-glass/internal/config"
	"github.com/visionaid/go-glass/internal/log"
	"github.com/visionaid/go-glass/pkg/audio"
	"github.com/visionaid/go-glass/pkg/buttons"
	"github.com/visionaid/go-glass/pkg/camera"
	"github.com/visionaid/go-glass/pkg/detect"
	"github.com/visionaid/go-glass/pkg/glass"
	"github.com/visionaid/go-glass/pkg/hw"
	"github.com/visionaid/go-glass/pkg/modes"
	"github.com/visionaid/go-glass/pkg/ocr"
	"github.com/visionaid/go-glass/pkg/speech"
	"github.com/visionaid/go-glass/pkg/tts"
	"github.com/visionaid/go-glass/pkg/ultrasonic"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	log.Init(cfg.LogLevel)

	fmt.Println("Smart Glass controller")
	fmt.Printf("   Config: %s\n", configSource(*configPath))
	fmt.Printf("   Debug:  %v\n", *debug)
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	// Every capability below degrades independently: a missing
	// camera, sensor, audio device or GPIO chip disables its feature
	// and the rest keeps running.
	queue := newSpeechQueue(cfg)
	queue.Start()
	queue.Enqueue("Welcome to Smart Glass! Ready to assist you.")

	chip, err := hw.Open()
	if err != nil {
		log.Error("GPIO unavailable, buttons and distance sensor disabled", "error", err)
		chip = nil
	} else {
		defer chip.Close()
	}

	cam := openCamera(cfg)
	if cam != nil {
		defer cam.Close()
	}

	detector := openDetector(cfg, cam)
	if detector != nil {
		defer detector.Close()
	}

	reader := openReader(cfg, cam)
	if reader != nil {
		defer reader.Close()
	}

	sensor := openSensor(cfg, chip)

	factory := workerFactory(cfg, queue, cam, detector, reader, sensor)
	ctrl := glass.New(queue, factory)

	var events <-chan buttons.Event
	if monitor := openButtons(cfg, chip); monitor != nil {
		monitor.Start()
		defer monitor.Stop()
		events = monitor.Events()
	}

	ctrl.Run(ctx, events)
	fmt.Println("Goodbye!")
}

func configSource(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}

// silentSpeaker stands in when no audio device is available, so the
// rest of the system keeps its utterance flow observable in logs.
type silentSpeaker struct{}

func (silentSpeaker) Speak(ctx context.Context, text string) error {
	log.Info("utterance (audio disabled)", "text", text)
	return nil
}

func (silentSpeaker) Stop() {}

func newSpeechQueue(cfg config.Config) *speech.Queue {
	provider := tts.NewGoogleTranslate(
		tts.WithLanguage(cfg.Speech.Language),
		tts.WithSlow(cfg.Speech.Slow),
		tts.WithDebugDir(cfg.Speech.DebugDir),
	)

	var spk speech.Speaker
	player, err := audio.NewMalgoPlayer()
	if err != nil {
		log.Error("audio device unavailable, speech muted", "error", err)
		spk = silentSpeaker{}
	} else {
		spk = speech.NewEngine(provider, player)
	}

	return speech.NewQueue(spk, speech.Options{IdlePoll: cfg.Speech.IdlePoll})
}

func openCamera(cfg config.Config) camera.Source {
	src, _, err := camera.Probe(camera.Config{
		DeviceID: cfg.Camera.DeviceID,
		Width:    cfg.Camera.Width,
		Height:   cfg.Camera.Height,
	})
	if err != nil {
		log.Warn("no camera found, vision modes degraded", "error", err)
		return nil
	}
	return src
}

func openDetector(cfg config.Config, cam camera.Source) detect.Detector {
	if cam == nil {
		return nil
	}
	yoloCfg := detect.DefaultYOLOConfig()
	yoloCfg.ModelPath = cfg.Objects.ModelPath
	yoloCfg.ConfidenceThresh = float32(cfg.Objects.ConfidenceThreshold)

	det, err := detect.NewYOLO(yoloCfg)
	if err != nil {
		log.Warn("object detection model unavailable", "error", err)
		return nil
	}
	return det
}

func openReader(cfg config.Config, cam camera.Source) ocr.Recognizer {
	if cam == nil {
		return nil
	}
	reader, err := ocr.NewTesseract(cfg.OCR.Language)
	if err != nil {
		log.Warn("text recognition unavailable", "error", err)
		return nil
	}
	return reader
}

func openSensor(cfg config.Config, chip hw.Chip) *ultrasonic.Sensor {
	if chip == nil {
		return nil
	}
	trig, err := chip.Pin(cfg.Pins.Trigger)
	if err != nil {
		log.Warn("trigger pin unavailable", "pin", cfg.Pins.Trigger, "error", err)
		return nil
	}
	echo, err := chip.Pin(cfg.Pins.Echo)
	if err != nil {
		log.Warn("echo pin unavailable", "pin", cfg.Pins.Echo, "error", err)
		return nil
	}
	sensor, err := ultrasonic.New(trig, echo, ultrasonic.Options{
		EchoTimeout:  cfg.Distance.EchoTimeout,
		SpeedOfSound: cfg.Distance.SpeedOfSound,
	})
	if err != nil {
		log.Warn("distance sensor unavailable", "error", err)
		return nil
	}
	return sensor
}

func openButtons(cfg config.Config, chip hw.Chip) *buttons.Monitor {
	if chip == nil {
		return nil
	}
	pins := make(map[buttons.ID]hw.Pin, 3)
	for id, name := range map[buttons.ID]string{
		buttons.Mode:    cfg.Pins.ModeButton,
		buttons.Confirm: cfg.Pins.ConfirmButton,
		buttons.Exit:    cfg.Pins.ExitButton,
	} {
		pin, err := chip.Pin(name)
		if err != nil {
			log.Error("button pin unavailable, buttons disabled", "pin", name, "error", err)
			return nil
		}
		if err := pin.Configure(hw.Input, hw.PullDown); err != nil {
			log.Error("button pin setup failed, buttons disabled", "pin", name, "error", err)
			return nil
		}
		pins[id] = pin
	}
	return buttons.NewMonitor(pins, buttons.Options{
		PollInterval: cfg.Buttons.PollInterval,
		Debounce:     cfg.Buttons.Debounce,
	})
}

// workerFactory binds the configured capabilities to per-mode workers.
// A nil capability is passed through; the worker announces the gap and
// returns on its own.
func workerFactory(
	cfg config.Config,
	queue *speech.Queue,
	cam camera.Source,
	detector detect.Detector,
	reader ocr.Recognizer,
	sensor *ultrasonic.Sensor,
) glass.WorkerFactory {
	join := cfg.Worker.JoinTimeout
	return func(m glass.Mode) modes.Worker {
		switch m {
		case glass.Time:
			return modes.NewTime(queue, modes.Options{
				JoinTimeout: join,
				Interval:    cfg.Time.UpdateInterval,
			})
		case glass.TextRecognition:
			return modes.NewReading(queue, cam, reader, modes.Options{
				JoinTimeout:    join,
				Interval:       cfg.OCR.UpdateInterval,
				CaptureBackoff: cfg.OCR.CaptureBackoff,
			})
		case glass.ObjectDetection:
			return modes.NewObjects(queue, cam, detector, modes.Options{
				JoinTimeout:     join,
				Interval:        cfg.Objects.UpdateInterval,
				Confidence:      cfg.Objects.ConfidenceThreshold,
				ChangeThreshold: cfg.Objects.ChangeThreshold,
			})
		case glass.Distance:
			return modes.NewDistance(queue, rangerOrNil(sensor), modes.Options{
				JoinTimeout:  join,
				Interval:     cfg.Distance.UpdateInterval,
				WarnDistance: cfg.Distance.WarningDistance,
			})
		}
		return nil
	}
}

// rangerOrNil avoids handing workers a typed-nil interface value.
func rangerOrNil(sensor *ultrasonic.Sensor) modes.Ranger {
	if sensor == nil {
		return nil
	}
	return sensor
}
