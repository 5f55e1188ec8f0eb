package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port string `toml:"port"`

	// Upload limits
	MaxUploadBytes int64 `toml:"max_upload_bytes"`

	// Session state
	SessionTTL time.Duration `toml:"session_ttl"`

	// Per-session rate limit for visualize/upload (events per second).
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`

	Debug        bool `toml:"debug"`
	LogToConsole bool `toml:"log_to_console"`

	Layout    LayoutConfig    `toml:"layout"`
	Node      NodeConfig      `toml:"node"`
	Animation AnimationConfig `toml:"animation"`
	Errors    ErrorConfig     `toml:"error_handling"`
	Parser    ParserConfig    `toml:"parser"`
}

// LayoutConfig controls tree placement.
type LayoutConfig struct {
	Default          string  `toml:"default"` // "vertical" (alias "tree"), "horizontal", "radial"
	NodeDistance     float64 `toml:"node_distance"`
	RadialRadius     float64 `toml:"radial_radius"`
	SeparationFactor float64 `toml:"separation_factor"`
	CanvasWidth      float64 `toml:"canvas_width"`
	CanvasHeight     float64 `toml:"canvas_height"`
}

// NodeConfig controls per-node visual encoding.
type NodeConfig struct {
	ShowAttributes bool `toml:"show_attributes"`
	ShowTextNodes  bool `toml:"show_text_nodes"`
	ShowComments   bool `toml:"show_comments"`
	MaxTextLength  int  `toml:"max_text_length"`
	MaxAttrsShown  int  `toml:"max_attrs_shown"`
}

// AnimationConfig controls transitions and zoom steps.
type AnimationConfig struct {
	DurationMs int     `toml:"duration_ms"`
	ZoomFactor float64 `toml:"zoom_factor"`
}

// ErrorConfig controls how failures are surfaced.
type ErrorConfig struct {
	ShowDetailedErrors bool `toml:"show_detailed_errors"`
	AlertOnError       bool `toml:"alert_on_error"`
}

// ParserConfig bounds the tree builder.
type ParserConfig struct {
	SkipWhitespace  bool          `toml:"skip_whitespace"`
	MaxNestingLevel int           `toml:"max_nesting_level"`
	Timeout         time.Duration `toml:"timeout"`
	MaxNodes        int           `toml:"max_nodes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           "8090",
		MaxUploadBytes: 10485760, // 10MB
		SessionTTL:     30 * time.Minute,
		RateLimit:      5,
		RateBurst:      10,
		Debug:          false,
		LogToConsole:   true,
		Layout: LayoutConfig{
			Default:          "vertical",
			NodeDistance:     60,
			RadialRadius:     300,
			SeparationFactor: 1,
			CanvasWidth:      1200,
			CanvasHeight:     800,
		},
		Node: NodeConfig{
			ShowAttributes: true,
			ShowTextNodes:  true,
			ShowComments:   false,
			MaxTextLength:  15,
			MaxAttrsShown:  3,
		},
		Animation: AnimationConfig{
			DurationMs: 500,
			ZoomFactor: 1.2,
		},
		Errors: ErrorConfig{
			ShowDetailedErrors: true,
			AlertOnError:       false,
		},
		Parser: ParserConfig{
			SkipWhitespace:  true,
			MaxNestingLevel: 100,
			Timeout:         5 * time.Second,
			MaxNodes:        200000,
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file named
// by DOMVIEW_CONFIG, and environment overrides, in that order.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("DOMVIEW_CONFIG"); path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads a TOML file on top of the defaults. Keys missing from the
// file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.SessionTTL = envDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.RateLimit = envFloat("DOMVIEW_RATE_LIMIT", cfg.RateLimit)
	cfg.RateBurst = envInt("DOMVIEW_RATE_BURST", cfg.RateBurst)

	cfg.Debug = envBool("DOMVIEW_DEBUG", cfg.Debug)
	cfg.LogToConsole = envBool("DOMVIEW_LOG_TO_CONSOLE", cfg.LogToConsole)

	cfg.Layout.Default = envOr("DOMVIEW_LAYOUT", cfg.Layout.Default)
	cfg.Layout.NodeDistance = envFloat("DOMVIEW_NODE_DISTANCE", cfg.Layout.NodeDistance)
	cfg.Layout.RadialRadius = envFloat("DOMVIEW_RADIAL_RADIUS", cfg.Layout.RadialRadius)

	cfg.Node.ShowAttributes = envBool("DOMVIEW_SHOW_ATTRIBUTES", cfg.Node.ShowAttributes)
	cfg.Node.ShowTextNodes = envBool("DOMVIEW_SHOW_TEXT_NODES", cfg.Node.ShowTextNodes)
	cfg.Node.ShowComments = envBool("DOMVIEW_SHOW_COMMENTS", cfg.Node.ShowComments)
	cfg.Node.MaxTextLength = envInt("DOMVIEW_MAX_TEXT_LENGTH", cfg.Node.MaxTextLength)
	cfg.Node.MaxAttrsShown = envInt("DOMVIEW_MAX_ATTRS_SHOWN", cfg.Node.MaxAttrsShown)

	cfg.Animation.DurationMs = envInt("DOMVIEW_ANIMATION_MS", cfg.Animation.DurationMs)
	cfg.Animation.ZoomFactor = envFloat("DOMVIEW_ZOOM_FACTOR", cfg.Animation.ZoomFactor)

	cfg.Errors.ShowDetailedErrors = envBool("DOMVIEW_DETAILED_ERRORS", cfg.Errors.ShowDetailedErrors)
	cfg.Errors.AlertOnError = envBool("DOMVIEW_ALERT_ON_ERROR", cfg.Errors.AlertOnError)

	cfg.Parser.SkipWhitespace = envBool("DOMVIEW_SKIP_WHITESPACE", cfg.Parser.SkipWhitespace)
	cfg.Parser.MaxNestingLevel = envInt("DOMVIEW_MAX_NESTING_LEVEL", cfg.Parser.MaxNestingLevel)
	cfg.Parser.Timeout = envDuration("DOMVIEW_PARSE_TIMEOUT", cfg.Parser.Timeout)
	cfg.Parser.MaxNodes = envInt("DOMVIEW_MAX_NODES", cfg.Parser.MaxNodes)
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Layout.Default) {
	case "tree", "vertical", "horizontal", "radial":
	default:
		return fmt.Errorf("unknown layout %q", c.Layout.Default)
	}
	if c.Layout.NodeDistance <= 0 {
		return fmt.Errorf("layout.node_distance must be positive")
	}
	if c.Layout.RadialRadius <= 0 {
		return fmt.Errorf("layout.radial_radius must be positive")
	}
	if c.Layout.CanvasWidth <= 0 || c.Layout.CanvasHeight <= 0 {
		return fmt.Errorf("canvas size must be positive")
	}
	if c.Animation.ZoomFactor <= 1 {
		return fmt.Errorf("animation.zoom_factor must be greater than 1")
	}
	if c.Node.MaxTextLength <= 0 {
		return fmt.Errorf("node.max_text_length must be positive")
	}
	if c.Node.MaxAttrsShown < 0 {
		return fmt.Errorf("node.max_attrs_shown must not be negative")
	}
	if c.Parser.MaxNestingLevel <= 0 {
		return fmt.Errorf("parser.max_nesting_level must be positive")
	}
	if c.Parser.Timeout <= 0 {
		return fmt.Errorf("parser.timeout must be positive")
	}
	if c.Parser.MaxNodes < 0 {
		return fmt.Errorf("parser.max_nodes must not be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
