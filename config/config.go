// Package config loads the arena description from TOML or YAML
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/vmath"
)

// Config is the full game description; durations are seconds unless noted
type Config struct {
	Game       GameConfig       `toml:"game" yaml:"game"`
	World      WorldConfig      `toml:"world" yaml:"world"`
	Player     PlayerConfig     `toml:"player" yaml:"player"`
	Projectile ProjectileConfig `toml:"projectile" yaml:"projectile"`
	Chaser     ChaserConfig     `toml:"chaser" yaml:"chaser"`
	Obstacles  []ObstacleConfig `toml:"obstacles" yaml:"obstacles"`
	Scatter    ScatterConfig    `toml:"scatter" yaml:"scatter"`
	Render     RenderConfig     `toml:"render" yaml:"render"`
	Audio      AudioConfig      `toml:"audio" yaml:"audio"`
	Logging    LoggingConfig    `toml:"logging" yaml:"logging"`
}

type GameConfig struct {
	FPS      int     `toml:"fps" yaml:"fps"`
	MaxDelta float64 `toml:"max_delta" yaml:"max_delta"` // dt clamp after stalls
	Seed     uint64  `toml:"seed" yaml:"seed"`           // 0 = random per run
}

// WorldConfig bounds the playfield; barriers of the given thickness frame it
type WorldConfig struct {
	Width   float64 `toml:"width" yaml:"width"`
	Height  float64 `toml:"height" yaml:"height"`
	Barrier float64 `toml:"barrier" yaml:"barrier"`
}

type PlayerConfig struct {
	X        float64 `toml:"x" yaml:"x"`
	Y        float64 `toml:"y" yaml:"y"`
	Radius   float64 `toml:"radius" yaml:"radius"`
	Speed    float64 `toml:"speed" yaml:"speed"`
	Health   float64 `toml:"health" yaml:"health"`
	Immunity float64 `toml:"immunity" yaml:"immunity"` // damage ignored this long after a hit
	Cooldown float64 `toml:"cooldown" yaml:"cooldown"`
	Glyph    string  `toml:"glyph" yaml:"glyph"`
	Color    uint32  `toml:"color" yaml:"color"`
}

type ProjectileConfig struct {
	Radius   float64 `toml:"radius" yaml:"radius"`
	Speed    float64 `toml:"speed" yaml:"speed"`
	Damage   float64 `toml:"damage" yaml:"damage"`
	Lifetime float64 `toml:"lifetime" yaml:"lifetime"`
	Glyph    string  `toml:"glyph" yaml:"glyph"`
	Color    uint32  `toml:"color" yaml:"color"`
}

// ChaserConfig describes scattered enemies; they shoot the shared projectile at the player
// every Cooldown seconds while the player is within projectile reach
type ChaserConfig struct {
	Radius   float64 `toml:"radius" yaml:"radius"`
	Speed    float64 `toml:"speed" yaml:"speed"`
	Health   float64 `toml:"health" yaml:"health"`
	Immunity float64 `toml:"immunity" yaml:"immunity"`
	Range    float64 `toml:"range" yaml:"range"`
	Cooldown float64 `toml:"cooldown" yaml:"cooldown"` // 0 disarms
	Glyph    string  `toml:"glyph" yaml:"glyph"`
	Color    uint32  `toml:"color" yaml:"color"`
}

// ObstacleConfig places one static body; X,Y is the top-left corner of a box or the center
// of a circle
type ObstacleConfig struct {
	Shape  string   `toml:"shape" yaml:"shape"` // "box" or "circle"
	X      float64  `toml:"x" yaml:"x"`
	Y      float64  `toml:"y" yaml:"y"`
	Width  float64  `toml:"width" yaml:"width"`
	Height float64  `toml:"height" yaml:"height"`
	Radius float64  `toml:"radius" yaml:"radius"`
	Layers []string `toml:"layers" yaml:"layers"` // default scenery
	Mask   []string `toml:"mask" yaml:"mask"`
	Glyph  string   `toml:"glyph" yaml:"glyph"`
	Color  uint32   `toml:"color" yaml:"color"`
}

// ScatterConfig drives seeded random placement of rocks and chasers
type ScatterConfig struct {
	Rocks     int     `toml:"rocks" yaml:"rocks"`
	Chasers   int     `toml:"chasers" yaml:"chasers"`
	RockMin   float64 `toml:"rock_min" yaml:"rock_min"`
	RockMax   float64 `toml:"rock_max" yaml:"rock_max"`
	Attempts  int     `toml:"attempts" yaml:"attempts"` // placement retries per body
	SafeZone  float64 `toml:"safe_zone" yaml:"safe_zone"`
	RockGlyph string  `toml:"rock_glyph" yaml:"rock_glyph"`
	RockColor uint32  `toml:"rock_color" yaml:"rock_color"`
}

// RenderConfig maps world units to terminal cells
type RenderConfig struct {
	CellWidth  float64 `toml:"cell_width" yaml:"cell_width"`
	CellHeight float64 `toml:"cell_height" yaml:"cell_height"`
	HUD        bool    `toml:"hud" yaml:"hud"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled" yaml:"enabled"`
	Volume  float64 `toml:"volume" yaml:"volume"` // 0..1
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
	Dir    string `toml:"dir" yaml:"dir"`
}

// ErrUnknownFormat is returned for config files that are neither TOML nor YAML
var ErrUnknownFormat = errors.New("unknown config format")

// Load reads path over the defaults, choosing the decoder by extension, then validates
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format (".toml", ".yaml", ".yml") over the defaults
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in arena
func Default() *Config {
	return &Config{
		Game: GameConfig{
			FPS:      60,
			MaxDelta: 0.1,
		},
		World: WorldConfig{
			Width:   1600,
			Height:  960,
			Barrier: 20,
		},
		Player: PlayerConfig{
			X:        780,
			Y:        460,
			Radius:   10,
			Speed:    200,
			Health:   100,
			Immunity: 0.5,
			Cooldown: 0.25,
			Glyph:    "@",
			Color:    0x00ff7f,
		},
		Projectile: ProjectileConfig{
			Radius:   3,
			Speed:    500,
			Damage:   25,
			Lifetime: 1.5,
			Glyph:    "*",
			Color:    0xffd700,
		},
		Chaser: ChaserConfig{
			Radius:   10,
			Speed:    120,
			Health:   50,
			Range:    250,
			Cooldown: 1.5,
			Glyph:    "E",
			Color:    0xff4040,
		},
		Scatter: ScatterConfig{
			Rocks:     12,
			Chasers:   6,
			RockMin:   20,
			RockMax:   60,
			Attempts:  32,
			SafeZone:  150,
			RockGlyph: "#",
			RockColor: 0x8b8b83,
		},
		Render: RenderConfig{
			CellWidth:  10,
			CellHeight: 20,
			HUD:        true,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.3,
		},
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "console",
			Dir:    "logs",
		},
	}
}

// Validate rejects configurations the engine cannot run
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Game.FPS > 0 && c.Game.FPS <= 1000, "game.fps %d out of range (1..1000)", c.Game.FPS)
	check(c.Game.MaxDelta >= 0, "game.max_delta must not be negative")
	check(c.World.Width > 0 && c.World.Height > 0, "world size must be positive")
	check(c.World.Barrier >= 0, "world.barrier must not be negative")
	check(2*c.World.Barrier < min(c.World.Width, c.World.Height),
		"world.barrier %g leaves no interior in %gx%g", c.World.Barrier, c.World.Width, c.World.Height)

	check(c.Player.Radius > 0, "player.radius must be positive")
	check(c.Player.Speed >= 0, "player.speed must not be negative")
	check(c.Player.Health > 0, "player.health must be positive")
	check(c.Player.Cooldown >= 0, "player.cooldown must not be negative")
	check(c.Player.Immunity >= 0, "player.immunity must not be negative")
	inner, outerX, outerY := c.World.Barrier+c.Player.Radius, c.World.Width-c.World.Barrier-c.Player.Radius,
		c.World.Height-c.World.Barrier-c.Player.Radius
	check(c.Player.X >= inner && c.Player.X <= outerX && c.Player.Y >= inner && c.Player.Y <= outerY,
		"player spawn (%g,%g) outside the barrier interior", c.Player.X, c.Player.Y)

	check(c.Projectile.Radius > 0, "projectile.radius must be positive")
	check(c.Projectile.Speed > 0, "projectile.speed must be positive")
	check(c.Projectile.Lifetime > 0, "projectile.lifetime must be positive")

	check(c.Chaser.Radius > 0, "chaser.radius must be positive")
	check(c.Chaser.Health > 0, "chaser.health must be positive")
	check(c.Chaser.Range >= 0, "chaser.range must not be negative")
	check(c.Chaser.Cooldown >= 0, "chaser.cooldown must not be negative")
	check(c.Chaser.Immunity >= 0, "chaser.immunity must not be negative")

	check(c.Scatter.Rocks >= 0 && c.Scatter.Chasers >= 0, "scatter counts must not be negative")
	check(c.Scatter.Rocks == 0 || (c.Scatter.RockMin > 0 && c.Scatter.RockMax >= c.Scatter.RockMin),
		"scatter rock size range [%g,%g] invalid", c.Scatter.RockMin, c.Scatter.RockMax)

	check(c.Render.CellWidth > 0 && c.Render.CellHeight > 0, "render cell size must be positive")
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume %g out of range (0..1)", c.Audio.Volume)

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q unknown", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q unknown", c.Logging.Format))
	}

	for i := range c.Obstacles {
		if _, err := c.Obstacles[i].Collider(); err != nil {
			errs = append(errs, fmt.Errorf("obstacles[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// FrameInterval is the target duration of one frame
func (g GameConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(g.FPS)
}

// MaxDeltaDuration converts the dt clamp to a duration
func (g GameConfig) MaxDeltaDuration() time.Duration {
	return time.Duration(g.MaxDelta * float64(time.Second))
}

// Position returns the obstacle's anchor point
func (o ObstacleConfig) Position() vmath.Vec2 {
	return vmath.V(o.X, o.Y)
}

// Collider builds the obstacle's collider from its shape and layer names
func (o ObstacleConfig) Collider() (physics.Collider, error) {
	layers := o.Layers
	if len(layers) == 0 {
		layers = []string{"scenery"}
	}
	layer, err := physics.ParseLayers(layers)
	if err != nil {
		return physics.Collider{}, fmt.Errorf("layers: %w", err)
	}
	mask, err := physics.ParseLayers(o.Mask)
	if err != nil {
		return physics.Collider{}, fmt.Errorf("mask: %w", err)
	}

	var c physics.Collider
	switch strings.ToLower(o.Shape) {
	case "box", "":
		c = physics.Box(o.Width, o.Height, layer, mask)
	case "circle":
		c = physics.Circle(o.Radius, layer, mask)
	default:
		return physics.Collider{}, fmt.Errorf("shape %q unknown", o.Shape)
	}
	if err := c.Validate(); err != nil {
		return physics.Collider{}, err
	}
	return c, nil
}

// Glyph returns the first rune of s, or fallback when s is empty
func Glyph(s string, fallback rune) rune {
	if s == "" {
		return fallback
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
