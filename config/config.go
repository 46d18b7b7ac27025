package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/klog/core"
	"github.com/philipp01105/klog/handler"
	"github.com/philipp01105/klog/handler/consolehandler"
	"github.com/philipp01105/klog/klogd"
	"github.com/philipp01105/klog/ring"
)

// Duration is a time.Duration that decodes from a string like "50ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the whole klog configuration
type Config struct {
	Ring    RingConfig    `toml:"ring"`
	Console ConsoleConfig `toml:"console"`
	Klogd   KlogdConfig   `toml:"klogd"`
	Log     LogConfig     `toml:"log"`
}

// RingConfig configures the log ring
type RingConfig struct {
	Capacity int `toml:"capacity"`
}

// ConsoleConfig configures the console device
type ConsoleConfig struct {
	Async          bool                   `toml:"async"`
	BufferSize     int                    `toml:"buffer_size"`
	OverflowPolicy handler.OverflowPolicy `toml:"overflow_policy"`
	BlockTimeout   Duration               `toml:"block_timeout"`
	DrainTimeout   Duration               `toml:"drain_timeout"`
	Scrollback     int                    `toml:"scrollback"`
}

// KlogdConfig configures the consumer loop
type KlogdConfig struct {
	ReadSize int      `toml:"read_size"`
	Pause    Duration `toml:"pause"`
}

// LogConfig configures the daemon's own zap logger
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Ring: RingConfig{Capacity: ring.DefaultCapacity},
		Console: ConsoleConfig{
			BufferSize:     1024,
			OverflowPolicy: handler.DropNewest,
			BlockTimeout:   Duration{100 * time.Millisecond},
			DrainTimeout:   Duration{5 * time.Second},
		},
		Klogd: KlogdConfig{
			ReadSize: 512,
			Pause:    Duration{50 * time.Millisecond},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML file over the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return finish(cfg, md)
}

// Parse reads TOML text over the defaults
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: decode: %w", err)
	}
	return finish(cfg, md)
}

func finish(cfg Config, md toml.MetaData) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Ring.Capacity <= 0 {
		return fmt.Errorf("config: ring.capacity must be positive, got %d", c.Ring.Capacity)
	}
	if c.Console.BufferSize < 0 {
		return fmt.Errorf("config: console.buffer_size must not be negative, got %d", c.Console.BufferSize)
	}
	if c.Console.Scrollback < 0 {
		return fmt.Errorf("config: console.scrollback must not be negative, got %d", c.Console.Scrollback)
	}
	if c.Klogd.ReadSize <= 0 {
		return fmt.Errorf("config: klogd.read_size must be positive, got %d", c.Klogd.ReadSize)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// ConsoleHandlerConfig returns the console device configuration
func (c Config) ConsoleHandlerConfig(w io.Writer, state *core.State) consolehandler.ConsoleConfig {
	return consolehandler.ConsoleConfig{
		Writer:         w,
		Async:          c.Console.Async,
		BufferSize:     c.Console.BufferSize,
		OverflowPolicy: c.Console.OverflowPolicy,
		BlockTimeout:   c.Console.BlockTimeout.Duration,
		DrainTimeout:   c.Console.DrainTimeout.Duration,
		Scrollback:     c.Console.Scrollback,
		State:          state,
	}
}

// KlogdConfig returns the consumer loop configuration
func (c Config) KlogdConfig(out io.Writer, log *zap.Logger) klogd.Config {
	return klogd.Config{
		ReadSize: c.Klogd.ReadSize,
		Pause:    c.Klogd.Pause.Duration,
		Output:   out,
		Logger:   log,
	}
}

// Build creates the daemon's zap logger. Diagnostics go to stderr so
// they never mix with drained log bytes on stdout.
func (c LogConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
