// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Recording encoders and stream sources.
const (
	EncoderFFmpeg = "ffmpeg"
	EncoderNative = "native"

	SourceWebSocket = "websocket"
	SourceCDP       = "cdp"
)

// Config holds the entire application configuration.
type Config struct {
	Logger       LoggerConfig       `mapstructure:"logger" yaml:"logger"`
	AgentBrowser AgentBrowserConfig `mapstructure:"agent_browser" yaml:"agent_browser"`
	Stream       StreamConfig       `mapstructure:"stream" yaml:"stream"`
	Annotation   AnnotationConfig   `mapstructure:"annotation" yaml:"annotation"`
	Recording    RecordingConfig    `mapstructure:"recording" yaml:"recording"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
	// Components overrides Level per component logger name, e.g.
	// {"recorder": "debug", "agent-browser": "warn"}.
	Components map[string]string `mapstructure:"components" yaml:"components"`
}

// Validate checks that every configured level name parses.
func (l *LoggerConfig) Validate() error {
	for name, lvl := range l.Components {
		if _, err := zapcore.ParseLevel(lvl); err != nil {
			return fmt.Errorf("components.%s: %w", name, err)
		}
	}
	return nil
}

// ColorConfig names the terminal color used for each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// AgentBrowserConfig describes how the external automation CLI is invoked.
type AgentBrowserConfig struct {
	Binary         string        `mapstructure:"binary" yaml:"binary"`
	Session        string        `mapstructure:"session" yaml:"session"`
	CommandTimeout time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`
}

// StreamConfig selects and configures the push-frame source.
type StreamConfig struct {
	// Source is either "websocket" (agent-browser screencast stream) or "cdp".
	Source    string `mapstructure:"source" yaml:"source"`
	URL       string `mapstructure:"url" yaml:"url"`
	CDPURL    string `mapstructure:"cdp_url" yaml:"cdp_url"`
	ReadLimit int64  `mapstructure:"read_limit" yaml:"read_limit"`
}

// AnnotationConfig seeds the default record of every annotation operation.
type AnnotationConfig struct {
	Highlight HighlightConfig `mapstructure:"highlight" yaml:"highlight"`
	Arrow     ArrowConfig     `mapstructure:"arrow" yaml:"arrow"`
	Label     LabelConfig     `mapstructure:"label" yaml:"label"`
	Zoom      ZoomConfig      `mapstructure:"zoom" yaml:"zoom"`
	ROI       ROIConfig       `mapstructure:"roi" yaml:"roi"`
}

type HighlightConfig struct {
	BorderColor  string  `mapstructure:"border_color" yaml:"border_color"`
	BorderWidth  float64 `mapstructure:"border_width" yaml:"border_width"`
	Padding      float64 `mapstructure:"padding" yaml:"padding"`
	CornerRadius float64 `mapstructure:"corner_radius" yaml:"corner_radius"`
}

type ArrowConfig struct {
	Color       string  `mapstructure:"color" yaml:"color"`
	StrokeWidth float64 `mapstructure:"stroke_width" yaml:"stroke_width"`
	HeadSize    float64 `mapstructure:"head_size" yaml:"head_size"`
	Length      float64 `mapstructure:"length" yaml:"length"`
	Direction   string  `mapstructure:"direction" yaml:"direction"`
}

type LabelConfig struct {
	TextColor         string  `mapstructure:"text_color" yaml:"text_color"`
	BackgroundColor   string  `mapstructure:"background_color" yaml:"background_color"`
	BackgroundOpacity float64 `mapstructure:"background_opacity" yaml:"background_opacity"`
	FontSize          float64 `mapstructure:"font_size" yaml:"font_size"`
	FontFamily        string  `mapstructure:"font_family" yaml:"font_family"`
	FontWeight        string  `mapstructure:"font_weight" yaml:"font_weight"`
	Position          string  `mapstructure:"position" yaml:"position"`
	Padding           float64 `mapstructure:"padding" yaml:"padding"`
	BorderRadius      float64 `mapstructure:"border_radius" yaml:"border_radius"`
	Offset            float64 `mapstructure:"offset" yaml:"offset"`
}

type ZoomConfig struct {
	Scale   float64 `mapstructure:"scale" yaml:"scale"`
	Padding float64 `mapstructure:"padding" yaml:"padding"`
}

// ROIConfig tunes the region-of-interest calculator used by capture --zoom.
type ROIConfig struct {
	ContextPadding float64 `mapstructure:"context_padding" yaml:"context_padding"`
	MinSize        float64 `mapstructure:"min_size" yaml:"min_size"`
}

// RecordingConfig holds the GIF recording defaults.
type RecordingConfig struct {
	FrameRate int `mapstructure:"frame_rate" yaml:"frame_rate"`
	// Quality ranges over 1..30, lower is better.
	Quality int `mapstructure:"quality" yaml:"quality"`
	// Repeat is the loop count: 0 loops forever, -1 plays once.
	Repeat     int    `mapstructure:"repeat" yaml:"repeat"`
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Encoder    string `mapstructure:"encoder" yaml:"encoder"`
	FFmpegPath string `mapstructure:"ffmpeg_path" yaml:"ffmpeg_path"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "browser-viz")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Agent Browser --
	v.SetDefault("agent_browser.binary", "agent-browser")
	v.SetDefault("agent_browser.session", "default")
	v.SetDefault("agent_browser.command_timeout", "30s")

	// -- Stream --
	v.SetDefault("stream.source", "websocket")
	v.SetDefault("stream.url", "ws://localhost:9223")
	v.SetDefault("stream.cdp_url", "http://localhost:9222")
	v.SetDefault("stream.read_limit", 32<<20)

	// -- Annotation --
	v.SetDefault("annotation.highlight.border_color", "#FF0000")
	v.SetDefault("annotation.highlight.border_width", 3)
	v.SetDefault("annotation.highlight.padding", 5)
	v.SetDefault("annotation.highlight.corner_radius", 4)

	v.SetDefault("annotation.arrow.color", "#FF0000")
	v.SetDefault("annotation.arrow.stroke_width", 3)
	v.SetDefault("annotation.arrow.head_size", 12)
	v.SetDefault("annotation.arrow.length", 60)
	v.SetDefault("annotation.arrow.direction", "top")

	v.SetDefault("annotation.label.text_color", "#FFFFFF")
	v.SetDefault("annotation.label.background_color", "#000000")
	v.SetDefault("annotation.label.background_opacity", 0.8)
	v.SetDefault("annotation.label.font_size", 14)
	v.SetDefault("annotation.label.font_family", "sans-serif")
	v.SetDefault("annotation.label.font_weight", "bold")
	v.SetDefault("annotation.label.position", "top")
	v.SetDefault("annotation.label.padding", 8)
	v.SetDefault("annotation.label.border_radius", 4)
	v.SetDefault("annotation.label.offset", 10)

	v.SetDefault("annotation.zoom.scale", 2)
	v.SetDefault("annotation.zoom.padding", 50)

	v.SetDefault("annotation.roi.context_padding", 100)
	v.SetDefault("annotation.roi.min_size", 200)

	// -- Recording --
	v.SetDefault("recording.frame_rate", 10)
	v.SetDefault("recording.quality", 10)
	v.SetDefault("recording.repeat", 0)
	v.SetDefault("recording.width", 0)
	v.SetDefault("recording.height", 0)
	v.SetDefault("recording.encoder", "ffmpeg")
	v.SetDefault("recording.ffmpeg_path", "ffmpeg")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger configuration invalid: %w", err)
	}
	if c.AgentBrowser.Binary == "" {
		return fmt.Errorf("agent_browser.binary must not be empty")
	}
	if c.AgentBrowser.CommandTimeout < 0 {
		return fmt.Errorf("agent_browser.command_timeout must not be negative")
	}
	if err := c.Stream.Validate(); err != nil {
		return fmt.Errorf("stream configuration invalid: %w", err)
	}
	if err := c.Annotation.Validate(); err != nil {
		return fmt.Errorf("annotation configuration invalid: %w", err)
	}
	if err := c.Recording.Validate(); err != nil {
		return fmt.Errorf("recording configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the stream settings.
func (s *StreamConfig) Validate() error {
	switch strings.ToLower(s.Source) {
	case SourceWebSocket:
		if s.URL == "" {
			return fmt.Errorf("url is required for the websocket source")
		}
	case SourceCDP:
		if s.CDPURL == "" {
			return fmt.Errorf("cdp_url is required for the cdp source")
		}
	default:
		return fmt.Errorf("unknown source %q (expected websocket or cdp)", s.Source)
	}
	if s.ReadLimit < 0 {
		return fmt.Errorf("read_limit must not be negative")
	}
	return nil
}

// Validate checks the annotation defaults.
func (a *AnnotationConfig) Validate() error {
	if a.Zoom.Scale <= 0 {
		return fmt.Errorf("zoom.scale must be positive")
	}
	if a.Zoom.Padding < 0 || a.Highlight.Padding < 0 || a.Label.Padding < 0 {
		return fmt.Errorf("padding values must not be negative")
	}
	if a.Label.BackgroundOpacity < 0 || a.Label.BackgroundOpacity > 1 {
		return fmt.Errorf("label.background_opacity must be between 0.0 and 1.0")
	}
	if a.ROI.MinSize < 0 || a.ROI.ContextPadding < 0 {
		return fmt.Errorf("roi values must not be negative")
	}
	return nil
}

// Validate checks the recording defaults.
func (r *RecordingConfig) Validate() error {
	if r.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be a positive integer")
	}
	if r.Quality < 1 || r.Quality > 30 {
		return fmt.Errorf("quality must be between 1 and 30")
	}
	if r.Repeat < -1 {
		return fmt.Errorf("repeat must be -1 (no loop), 0 (infinite) or a positive count")
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("width and height must not be negative")
	}
	switch r.Encoder {
	case EncoderFFmpeg:
		if r.FFmpegPath == "" {
			return fmt.Errorf("ffmpeg_path is required for the ffmpeg encoder")
		}
	case EncoderNative:
	default:
		return fmt.Errorf("unknown encoder %q (expected ffmpeg or native)", r.Encoder)
	}
	return nil
}
