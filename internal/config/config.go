package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"todocal/internal/storage"
	"todocal/internal/task"
)

const (
	AppName               = "todocal"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todocal.db"
	DefaultDataDirName    = "data"
	DefaultLogName        = "todocal.log"
	EnvConfigPath         = "TODOCAL_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	ClearCompleted string `toml:"clear_completed"`
	NextView       string `toml:"next_view"`
	Calendar       string `toml:"calendar"`
	PrevMonth      string `toml:"prev_month"`
	NextMonth      string `toml:"next_month"`
}

type Config struct {
	Storage     string `toml:"storage"`
	DBPath      string `toml:"db_path"`
	DataDir     string `toml:"data_dir"`
	DefaultView string `toml:"default_view"`
	LogPath     string `toml:"log_path"`
	LogLevel    string `toml:"log_level"`
	Keys        Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file: $TODOCAL_CONFIG, then the user
// config dir, then the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist. Relative paths inside the file are resolved against its directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case storage.KindSQLite, storage.KindFile:
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", storage.KindSQLite, storage.KindFile, c.Storage)
	}
	if _, err := task.ParseView(c.DefaultView); err != nil {
		return fmt.Errorf("default_view: %w", err)
	}
	return nil
}

// View returns the parsed default view; Validate has already vetted it.
func (c Config) View() task.View {
	v, err := task.ParseView(c.DefaultView)
	if err != nil {
		return task.ViewAll
	}
	return v
}

// StorageOptions maps the config onto storage.Open.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{Kind: c.Storage, DBPath: c.DBPath, DataDir: c.DataDir}
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Storage == "" {
		c.Storage = def.Storage
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBName
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDirName
	}
	if c.DefaultView == "" {
		c.DefaultView = def.DefaultView
	}
	if c.LogPath == "" {
		c.LogPath = DefaultLogName
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	k, d := &c.Keys, def.Keys
	orDefault(&k.Quit, d.Quit)
	orDefault(&k.Add, d.Add)
	orDefault(&k.Up, d.Up)
	orDefault(&k.Down, d.Down)
	orDefault(&k.Toggle, d.Toggle)
	orDefault(&k.Delete, d.Delete)
	orDefault(&k.Confirm, d.Confirm)
	orDefault(&k.Cancel, d.Cancel)
	orDefault(&k.Edit, d.Edit)
	orDefault(&k.ClearCompleted, d.ClearCompleted)
	orDefault(&k.NextView, d.NextView)
	orDefault(&k.Calendar, d.Calendar)
	orDefault(&k.PrevMonth, d.PrevMonth)
	orDefault(&k.NextMonth, d.NextMonth)
}

func orDefault(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func (c Config) resolve(base string) Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
			return p
		}
		return filepath.Join(base, p)
	}
	c.DBPath = abs(c.DBPath)
	c.DataDir = abs(c.DataDir)
	c.LogPath = abs(c.LogPath)
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default is the configuration written on first launch.
func Default() Config {
	return Config{
		Storage:     storage.KindSQLite,
		DBPath:      DefaultDBName,
		DataDir:     DefaultDataDirName,
		DefaultView: "all",
		LogPath:     DefaultLogName,
		LogLevel:    "info",
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			Edit:           "e",
			ClearCompleted: "X",
			NextView:       "f",
			Calendar:       "c",
			PrevMonth:      "<",
			NextMonth:      ">",
		},
	}
}
