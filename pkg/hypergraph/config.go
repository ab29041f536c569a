package hypergraph

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages analysis configuration using Viper. One Config is shared by
// all analyzers; each reads only the keys it cares about.
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults.
func NewConfig() *Config {
	v := viper.New()

	// Shared analysis parameters
	v.SetDefault("analysis.random_seed", 42)

	// Structural counting parameters
	v.SetDefault("structural.max_triangle_samples", 1000000)

	// Motif analysis parameters
	v.SetDefault("motifs.triad_sample_size", 1000)

	// Spectral analysis parameters
	v.SetDefault("spectral.num_eigenvalues", 30)
	v.SetDefault("spectral.normalized_laplacian", true)
	v.SetDefault("spectral.dense_limit", 512)
	v.SetDefault("spectral.lanczos_steps", 0)

	// Output parameters
	v.SetDefault("output.include_raw", false)

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.enable_progress", true)

	return &Config{v: v}
}

// LoadFromFile loads configuration from file.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Clone returns an independent copy of the configuration. Changes to the
// clone never affect the original.
func (c *Config) Clone() *Config {
	v := viper.New()
	if err := v.MergeConfigMap(c.v.AllSettings()); err != nil {
		// MergeConfigMap never fails on an in-memory map.
		panic(err)
	}
	return &Config{v: v}
}

// Getters for shared parameters
func (c *Config) RandomSeed() int64 { return c.v.GetInt64("analysis.random_seed") }

// Getters for structural parameters
func (c *Config) MaxTriangleSamples() int { return c.v.GetInt("structural.max_triangle_samples") }

// Getters for motif parameters
func (c *Config) TriadSampleSize() int { return c.v.GetInt("motifs.triad_sample_size") }

// Getters for spectral parameters
func (c *Config) NumEigenvalues() int       { return c.v.GetInt("spectral.num_eigenvalues") }
func (c *Config) NormalizedLaplacian() bool { return c.v.GetBool("spectral.normalized_laplacian") }
func (c *Config) DenseLimit() int           { return c.v.GetInt("spectral.dense_limit") }
func (c *Config) LanczosSteps() int         { return c.v.GetInt("spectral.lanczos_steps") }

// Getters for output parameters
func (c *Config) IncludeRaw() bool { return c.v.GetBool("output.include_raw") }

// Getters for logging parameters
func (c *Config) LogLevel() string     { return c.v.GetString("logging.level") }
func (c *Config) EnableProgress() bool { return c.v.GetBool("logging.enable_progress") }

// Set allows dynamic configuration changes.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger for the named analyzer.
func (c *Config) CreateLogger(service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", service).Logger()
}
