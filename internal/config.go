package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Book   BookConfig        `yaml:"book"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Book.Validate(); err != nil {
		return err
	}
	return c.SQLite.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the preview server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// BookConfig locates the book on disk. Root is the repository the book
// lives in; Src and Teachers are relative to Root.
type BookConfig struct {
	Root     string `yaml:"root"`
	Src      string `yaml:"src"`
	Teachers string `yaml:"teachers"`
	Out      string `yaml:"out"`
}

// SrcDir returns the source directory path.
func (c *BookConfig) SrcDir() string {
	return filepath.Join(c.Root, c.Src)
}

// TeachersDir returns the teachers directory path.
func (c *BookConfig) TeachersDir() string {
	return filepath.Join(c.Root, c.Teachers)
}

// Validate validates the book configuration.
func (c *BookConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Src, validation.Required),
		validation.Field(&c.Teachers, validation.Required),
		validation.Field(&c.Out, validation.Required),
	)
}

// SQLiteConfig holds the search index database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 3000,
			},
		},
		Book: BookConfig{
			Root:     ".",
			Src:      "src",
			Teachers: "teachers",
			Out:      "book",
		},
		SQLite: SQLiteConfig{
			Path: "./catprep.db",
		},
	}
}
