// Package config loads the splitter settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/Lllllllleong/csvsplitter/internal/apperr"
	"github.com/Lllllllleong/csvsplitter/internal/archive"
	"github.com/Lllllllleong/csvsplitter/internal/chunker"
)

// Config holds the settings shared by every shell.
type Config struct {
	ChunkSize        int    `validate:"gt=0"`
	ArchiveFolder    string `validate:"excludesall=/\\"`
	ArchiveName      string `validate:"required,endswith=.zip,excludesall=/\\"`
	CompressionLevel int    `validate:"min=-2,max=9"`
	MaxUploadBytes   int64  `validate:"gt=0"`
}

const defaultMaxUploadBytes = 32 << 20

var validate = validator.New()

// Default returns the settings used when no environment overrides are present.
func Default() Config {
	return Config{
		ChunkSize:        chunker.DefaultSize,
		ArchiveFolder:    archive.DefaultFolder,
		ArchiveName:      archive.DefaultName,
		CompressionLevel: -1,
		MaxUploadBytes:   defaultMaxUploadBytes,
	}
}

// Load reads the environment, after loading envFile when it exists, and
// validates the result.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, apperr.Wrap(apperr.KindConfig, "config.Load", "failed to load .env file", err)
		}
	}

	def := Default()
	chunkSize, err := GetEnvAsInt("CHUNK_SIZE", def.ChunkSize)
	if err != nil {
		return nil, err
	}
	level, err := GetEnvAsInt("COMPRESSION_LEVEL", def.CompressionLevel)
	if err != nil {
		return nil, err
	}
	maxUpload, err := GetEnvAsInt("MAX_UPLOAD_BYTES", int(def.MaxUploadBytes))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ChunkSize:        chunkSize,
		ArchiveFolder:    GetEnv("ARCHIVE_FOLDER", def.ArchiveFolder),
		ArchiveName:      GetEnv("ARCHIVE_NAME", def.ArchiveName),
		CompressionLevel: level,
		MaxUploadBytes:   int64(maxUpload),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field as a configuration error.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperr.Configf("config", "%s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return apperr.Wrap(apperr.KindConfig, "config", "invalid configuration", err)
	}
	return nil
}

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvAsInt reads an integer variable. A value that is set but not an
// integer is a configuration error rather than a silent fallback.
func GetEnvAsInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperr.Configf("config", "%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func (c Config) String() string {
	return fmt.Sprintf("chunkSize=%d folder=%q archive=%q level=%d maxUpload=%d",
		c.ChunkSize, c.ArchiveFolder, c.ArchiveName, c.CompressionLevel, c.MaxUploadBytes)
}
