// Package config provides configuration for the go-glass device.
//
// Defaults are built in, an optional TOML file overrides them, and a
// small set of GLASS_* environment variables overrides both. Nothing
// in the rest of the tree reads the environment directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full device configuration.
type Config struct {
	LogLevel string `toml:"log_level"`

	Pins     PinConfig      `toml:"pins"`
	Buttons  ButtonConfig   `toml:"buttons"`
	Speech   SpeechConfig   `toml:"speech"`
	Camera   CameraConfig   `toml:"camera"`
	Time     TimeConfig     `toml:"time"`
	OCR      OCRConfig      `toml:"ocr"`
	Objects  ObjectConfig   `toml:"objects"`
	Distance DistanceConfig `toml:"distance"`
	Worker   WorkerConfig   `toml:"worker"`
}

// PinConfig names the GPIO lines used by the device.
// Names are BCM pin names as understood by periph's gpioreg
// (header pins 36/38/40/7/11 on a Pi 4B).
type PinConfig struct {
	ModeButton    string `toml:"mode_button"`
	ConfirmButton string `toml:"confirm_button"`
	ExitButton    string `toml:"exit_button"`
	Trigger       string `toml:"trigger"`
	Echo          string `toml:"echo"`
}

// ButtonConfig controls button polling and debounce.
type ButtonConfig struct {
	PollInterval time.Duration `toml:"poll_interval"`
	Debounce     time.Duration `toml:"debounce"`
}

// SpeechConfig controls speech synthesis and the utterance queue.
type SpeechConfig struct {
	Language string        `toml:"language"`
	Slow     bool          `toml:"slow"`
	IdlePoll time.Duration `toml:"idle_poll"`
	DebugDir string        `toml:"debug_dir"`
}

// CameraConfig controls frame capture.
type CameraConfig struct {
	DeviceID int `toml:"device_id"`
	Width    int `toml:"width"`
	Height   int `toml:"height"`
}

// TimeConfig controls the time announcement mode.
type TimeConfig struct {
	UpdateInterval time.Duration `toml:"update_interval"`
}

// OCRConfig controls the text recognition mode.
type OCRConfig struct {
	UpdateInterval time.Duration `toml:"update_interval"`
	CaptureBackoff time.Duration `toml:"capture_backoff"`
	Language       string        `toml:"language"`
}

// ObjectConfig controls the object detection mode.
type ObjectConfig struct {
	UpdateInterval      time.Duration `toml:"update_interval"`
	ConfidenceThreshold float64       `toml:"confidence_threshold"`
	ChangeThreshold     float64       `toml:"change_threshold"`
	ModelPath           string        `toml:"model_path"`
}

// DistanceConfig controls the distance warning mode and the sensor.
type DistanceConfig struct {
	UpdateInterval  time.Duration `toml:"update_interval"`
	WarningDistance float64       `toml:"warning_distance_cm"`
	EchoTimeout     time.Duration `toml:"echo_timeout"`
	SpeedOfSound    float64       `toml:"speed_of_sound"` // m/s
}

// WorkerConfig controls mode worker lifecycle.
type WorkerConfig struct {
	JoinTimeout time.Duration `toml:"join_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Pins: PinConfig{
			ModeButton:    "GPIO16",
			ConfirmButton: "GPIO20",
			ExitButton:    "GPIO21",
			Trigger:       "GPIO4",
			Echo:          "GPIO17",
		},
		Buttons: ButtonConfig{
			PollInterval: 50 * time.Millisecond,
			Debounce:     500 * time.Millisecond,
		},
		Speech: SpeechConfig{
			Language: "en",
			IdlePoll: 100 * time.Millisecond,
		},
		Camera: CameraConfig{
			DeviceID: 0,
			Width:    640,
			Height:   480,
		},
		Time: TimeConfig{
			UpdateInterval: 60 * time.Second,
		},
		OCR: OCRConfig{
			UpdateInterval: 5 * time.Second,
			CaptureBackoff: 2 * time.Second,
			Language:       "eng",
		},
		Objects: ObjectConfig{
			UpdateInterval:      3 * time.Second,
			ConfidenceThreshold: 0.5,
			ChangeThreshold:     0.3,
			ModelPath:           "models/yolov8n.onnx",
		},
		Distance: DistanceConfig{
			UpdateInterval:  time.Second,
			WarningDistance: 100,
			EchoTimeout:     100 * time.Millisecond,
			SpeedOfSound:    343,
		},
		Worker: WorkerConfig{
			JoinTimeout: time.Second,
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file,
// and GLASS_* environment variables, in that order of precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	envString("GLASS_LOG_LEVEL", &c.LogLevel)
	envString("GLASS_TTS_LANGUAGE", &c.Speech.Language)
	envString("GLASS_MODEL_PATH", &c.Objects.ModelPath)
	envString("GLASS_OCR_LANGUAGE", &c.OCR.Language)
	envDuration("GLASS_DEBOUNCE", &c.Buttons.Debounce)
	envDuration("GLASS_BUTTON_POLL", &c.Buttons.PollInterval)
	envFloat("GLASS_WARNING_DISTANCE", &c.Distance.WarningDistance)
	envFloat("GLASS_CONFIDENCE", &c.Objects.ConfidenceThreshold)
	envInt("GLASS_CAMERA_DEVICE", &c.Camera.DeviceID)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
