package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/equations"
)

// Environment variables
const (
	envConfigFilePath = "CONFIG_FILE_PATH"
)

type Config struct {
	Logging LoggerConfig  `yaml:"logging"`
	Grammar GrammarConfig `yaml:"grammar"`
	Server  ServerConfig  `yaml:"server"`
}

type LoggerConfig struct {
	LogToFile       bool   `yaml:"log_to_file"`
	Filename        string `yaml:"filename"`
	MaxSize         int    `yaml:"max_size"`
	MaxAge          int    `yaml:"max_age"`
	MaxBackups      int    `yaml:"max_backups"`
	LogLevel        string `yaml:"log_level"`
	IncludeSrc      bool   `yaml:"include_src"`
	CompressOldLogs bool   `yaml:"compress_old_logs"`
}

type GrammarConfig struct {
	// Presets are any of basic, standard, and logic.
	Presets []string `yaml:"presets"`
	// Brackets replaces the plain brackets if both are set.
	Brackets struct {
		Open  string `yaml:"open"`
		Close string `yaml:"close"`
	} `yaml:"brackets"`
	Separator string             `yaml:"separator"`
	Variables map[string]float64 `yaml:"variables"`
	// Juxtaposition enables implicit multiplication. The standard preset
	// enables it regardless.
	Juxtaposition bool `yaml:"juxtaposition"`
	MaxDepth      int  `yaml:"max_depth"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
	// MaxLength is the longest equation in bytes that the server compiles.
	MaxLength int `yaml:"max_length"`
	// MaxDepth is the depth limit while serving when the grammar sets none.
	MaxDepth int `yaml:"max_depth"`
}

func defaultConfig() Config {
	return Config{
		Logging: LoggerConfig{LogLevel: "warn"},
		Grammar: GrammarConfig{Presets: []string{"standard", "logic"}},
		Server: ServerConfig{
			Addr:      ":8080",
			MaxLength: 256,
			MaxDepth:  64,
		},
	}
}

// loadConfig reads the YAML config at name, or at $CONFIG_FILE_PATH if name
// is empty. With neither, the result is the default config. Fields the file
// leaves out keep their defaults.
func loadConfig(name string) (Config, error) {
	conf := defaultConfig()
	if name == "" {
		name = os.Getenv(envConfigFilePath)
	}
	if name == "" {
		return conf, nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return conf, err
	}
	if err := yaml.UnmarshalStrict(b, &conf); err != nil {
		return conf, fmt.Errorf("%s: %w", name, err)
	}
	return conf, nil
}

// build creates the grammar the config describes.
func (c *GrammarConfig) build() (g *equations.Grammar, err error) {
	// The grammar builder panics on empty symbols.
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("%v", r)
		}
	}()
	g = equations.NewGrammar()
	seen := make(map[string]bool, len(c.Presets))
	for _, p := range c.Presets {
		if seen[p] {
			continue
		}
		seen[p] = true
		switch p {
		case "basic":
			g.BasicMaths()
		case "standard":
			g.StandardMaths()
		case "logic":
			g.Logic()
		default:
			return nil, fmt.Errorf("unknown preset %q", p)
		}
	}
	if seen["basic"] && seen["standard"] {
		return nil, fmt.Errorf("presets basic and standard overlap; use one")
	}
	if c.Brackets.Open != "" || c.Brackets.Close != "" {
		g.Brackets(c.Brackets.Open, c.Brackets.Close)
	}
	if c.Separator != "" {
		g.Separator(c.Separator)
	}
	for k, v := range c.Variables {
		g.Variable(k, v)
	}
	if c.Juxtaposition {
		g.Juxtaposition(nil)
	}
	if c.MaxDepth > 0 {
		g.MaxDepth(c.MaxDepth)
	}
	return g, nil
}
