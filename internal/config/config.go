// Package config loads the read-only ServerConfig value consumed by the
// rest of the core, following the teacher's yaml.v3 decode-into-struct
// pattern.
package config

import (
	"encoding/base64"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mcserverd/internal/registry"
)

// GameMode is the YAML-facing name of the configured default game mode
// ("survival", "creative", "adventure", "spectator"); Ordinal maps it to
// the registry.GameMode value written on the wire.
type GameMode string

const (
	Survival  GameMode = "survival"
	Creative  GameMode = "creative"
	Adventure GameMode = "adventure"
	Spectator GameMode = "spectator"
)

// Ordinal maps the YAML-friendly name to the wire ordinal byte.
func (g GameMode) Ordinal() registry.GameMode {
	switch g {
	case Creative:
		return registry.Creative
	case Adventure:
		return registry.Adventure
	case Spectator:
		return registry.Spectator
	default:
		return registry.Survival
	}
}

// ServerConfig is the record consumed read-only by the rest of the core,
// per §6's field list.
type ServerConfig struct {
	Address              string   `yaml:"address"`
	Port                 uint16   `yaml:"port"`
	OnlineMode           bool     `yaml:"online_mode"`
	CompressionThreshold int32    `yaml:"compression_threshold"`
	Motd                 string   `yaml:"motd"`
	MaxPlayers           uint32   `yaml:"max_players"`
	IconPath             string   `yaml:"icon_path"`
	ViewDistance         uint8    `yaml:"view_distance"`
	SimulationDistance   uint8    `yaml:"simulation_distance"`
	DefaultGamemode      GameMode `yaml:"default_gamemode"`
	ReduceDebugInfo      bool     `yaml:"reduce_debug_info"`
	EnableRespawnScreen  bool     `yaml:"enable_respawn_screen"`
}

// applyDefaults fills unset fields the way the teacher's main.go does for
// its own config shape: zero-value fields that make no sense left unset
// fall back to sane server defaults.
func (c *ServerConfig) applyDefaults() {
	if c.Address == "" {
		c.Address = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 25565
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = 20
	}
	if c.Motd == "" {
		c.Motd = "A Minecraft Server"
	}
	if c.ViewDistance == 0 {
		c.ViewDistance = 10
	}
	if c.SimulationDistance == 0 {
		c.SimulationDistance = 10
	}
	if c.DefaultGamemode == "" {
		c.DefaultGamemode = Survival
	}
	// CompressionThreshold has no zero-value default: per §6, only a
	// negative threshold disables compression, so 0 ("compress
	// everything") is a legitimate explicit setting and must survive
	// decoding untouched rather than being clobbered to a nonzero default.
}

// Load reads and decodes a YAML config file at path, applying defaults for
// unset fields.
func Load(path string) (*ServerConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	var cfg ServerConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// FaviconDataURI reads the configured PNG icon and returns it as a base64
// data URI suitable for StatusResponse's favicon field, per §6. An unset
// IconPath yields an empty string (favicon omitted).
func (c *ServerConfig) FaviconDataURI() (string, error) {
	if c.IconPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.IconPath)
	if err != nil {
		return "", fmt.Errorf("config: reading icon %s: %w", c.IconPath, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
