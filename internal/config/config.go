// internal/config/config.go
//
// This package handles configuration and the .memorypet directory.
// Every project the pet lives in gets a .memorypet/ folder in its root that
// holds the save file, the journal, logs and config.yaml.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/memory-pet/internal/decay"
)

const (
	// PetDir is the name of the directory we create in each project
	PetDir = ".memorypet"

	ConfigFile  = "config.yaml"
	SaveFile    = "pet_save.json"
	JournalFile = "journal.db"
	LogFile     = "journey.log"
)

const defaultProjectConfigYAML = `# memory pet configuration
version: 1

pet:
  name: Buddy

# How the pet's memory fades while you are away without committing.
decay:
  grace_hours: 0.1
  bond_per_hour: 2
  clarity_per_hour: 3
  corruption_per_hour: 2.5
  reward_bond: 5
  reward_clarity: 10
  reward_corruption: 10

render:
  tick: 50ms
  animation_every: 3
  message_duration: 3s
  action_duration: 1500ms
  commit_refresh: 1m
  # sprites: sprites.yaml

theme:
  primary: "#FF79C6"
  secondary: "#8BE9FD"
  success: "#50FA7B"
  warning: "#F1FA8C"
  danger: "#FF5555"
  info: "#6272F4"
  muted: "#888888"
`

// PetConfig names the pet hatched on first launch.
type PetConfig struct {
	Name string `yaml:"name"`
}

// RenderConfig controls the live display.
type RenderConfig struct {
	Tick            time.Duration `yaml:"tick"`
	AnimationEvery  int           `yaml:"animation_every"`
	MessageDuration time.Duration `yaml:"message_duration"`
	ActionDuration  time.Duration `yaml:"action_duration"`
	CommitRefresh   time.Duration `yaml:"commit_refresh"`
	Sprites         string        `yaml:"sprites,omitempty"`
}

// ThemeConfig holds the palette as hex colors.
type ThemeConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Success   string `yaml:"success"`
	Warning   string `yaml:"warning"`
	Danger    string `yaml:"danger"`
	Info      string `yaml:"info"`
	Muted     string `yaml:"muted"`
}

// ProjectConfig models .memorypet/config.yaml.
type ProjectConfig struct {
	Version int          `yaml:"version"`
	Pet     PetConfig    `yaml:"pet"`
	Decay   decay.Policy `yaml:"decay"`
	Render  RenderConfig `yaml:"render"`
	Theme   ThemeConfig  `yaml:"theme"`
}

// Env carries overrides read from the environment.
type Env struct {
	Home     string        `env:"MEMORYPET_HOME"`
	SaveFile string        `env:"MEMORYPET_SAVE_FILE"`
	Tick     time.Duration `env:"MEMORYPET_TICK"`
	Journal  bool          `env:"MEMORYPET_JOURNAL" envDefault:"true"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the pet was started from
	ProjectDir string

	// PetDir is ProjectDir/.memorypet unless MEMORYPET_HOME says otherwise
	PetDir string

	Project ProjectConfig
	Env     Env
}

// InitPetDir creates the pet directory and a default config.yaml.
//
// Structure created:
// .memorypet/
// ├── config.yaml
// └── logs/
func InitPetDir(petDir string) error {
	if err := os.MkdirAll(filepath.Join(petDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(petDir, ConfigFile))
}

// NewConfig reads the environment, prepares the pet directory and loads
// config.yaml.
func NewConfig(projectDir string) (*Config, error) {
	var overrides Env
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	cfg := &Config{
		ProjectDir: projectDir,
		PetDir:     filepath.Join(projectDir, PetDir),
		Project:    defaultProjectConfig(),
		Env:        overrides,
	}
	if home := strings.TrimSpace(overrides.Home); home != "" {
		cfg.PetDir = resolvePath(projectDir, home)
	}

	if err := InitPetDir(cfg.PetDir); err != nil {
		return nil, fmt.Errorf("config: init %s: %w", cfg.PetDir, err)
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if overrides.Tick > 0 {
		cfg.Project.Render.Tick = overrides.Tick
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location for config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.PetDir, ConfigFile)
}

// SavePath returns the pet save file.
func (c *Config) SavePath() string {
	if p := strings.TrimSpace(c.Env.SaveFile); p != "" {
		return resolvePath(c.ProjectDir, p)
	}
	return filepath.Join(c.PetDir, SaveFile)
}

// JournalPath returns the SQLite journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.PetDir, JournalFile)
}

// JournalEnabled reports whether the journal should be opened.
func (c *Config) JournalEnabled() bool {
	return c.Env.Journal
}

// LogPath returns the diagnostic log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.PetDir, "logs", LogFile)
}

// SpritesPath returns a custom sprite sheet, or "" for the built-in one.
func (c *Config) SpritesPath() string {
	if c.Project.Render.Sprites == "" {
		return ""
	}
	return resolvePath(c.PetDir, c.Project.Render.Sprites)
}

func (c *Config) loadProjectConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Pet:     PetConfig{Name: "Buddy"},
		Decay:   decay.DefaultPolicy(),
		Render: RenderConfig{
			Tick:            50 * time.Millisecond,
			AnimationEvery:  3,
			MessageDuration: 3 * time.Second,
			ActionDuration:  1500 * time.Millisecond,
			CommitRefresh:   time.Minute,
		},
		Theme: ThemeConfig{
			Primary:   "#FF79C6",
			Secondary: "#8BE9FD",
			Success:   "#50FA7B",
			Warning:   "#F1FA8C",
			Danger:    "#FF5555",
			Info:      "#6272F4",
			Muted:     "#888888",
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	def := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = def.Version
	}
	pc.Pet.Name = strings.TrimSpace(pc.Pet.Name)
	if pc.Pet.Name == "" {
		pc.Pet.Name = def.Pet.Name
	}
	r := &pc.Render
	if r.Tick == 0 {
		r.Tick = def.Render.Tick
	}
	if r.AnimationEvery == 0 {
		r.AnimationEvery = def.Render.AnimationEvery
	}
	if r.MessageDuration == 0 {
		r.MessageDuration = def.Render.MessageDuration
	}
	if r.ActionDuration == 0 {
		r.ActionDuration = def.Render.ActionDuration
	}
	if r.CommitRefresh == 0 {
		r.CommitRefresh = def.Render.CommitRefresh
	}
	r.Sprites = strings.TrimSpace(r.Sprites)
	fill := func(dst *string, fallback string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = fallback
		}
	}
	fill(&pc.Theme.Primary, def.Theme.Primary)
	fill(&pc.Theme.Secondary, def.Theme.Secondary)
	fill(&pc.Theme.Success, def.Theme.Success)
	fill(&pc.Theme.Warning, def.Theme.Warning)
	fill(&pc.Theme.Danger, def.Theme.Danger)
	fill(&pc.Theme.Info, def.Theme.Info)
	fill(&pc.Theme.Muted, def.Theme.Muted)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	d := pc.Decay
	if d.GraceHours < 0 {
		return fmt.Errorf("decay.grace_hours must be >= 0")
	}
	if d.BondPerHour < 0 || d.ClarityPerHour < 0 || d.CorruptionPerHour < 0 {
		return fmt.Errorf("decay rates must be >= 0")
	}
	if d.RewardBond < 0 || d.RewardClarity < 0 || d.RewardCorruption < 0 {
		return fmt.Errorf("decay rewards must be >= 0")
	}
	r := pc.Render
	if r.Tick < 0 || r.MessageDuration < 0 || r.ActionDuration < 0 || r.CommitRefresh < 0 {
		return fmt.Errorf("render durations must be positive")
	}
	if r.AnimationEvery < 1 {
		return fmt.Errorf("render.animation_every must be >= 1")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
