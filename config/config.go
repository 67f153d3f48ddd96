// Package config loads classgraph settings from defaults, a YAML file, the
// environment and command line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/dhamidi/classgraph/importer"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "classgraph.yaml"

const envPrefix = "CLASSGRAPH_"

type Config struct {
	Import ImportConfig `koanf:"import"`
	Maven  MavenConfig  `koanf:"maven"`
	Log    LogConfig    `koanf:"log"`
	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

type ImportConfig struct {
	ResolveMissingDependenciesFromClasspath bool     `koanf:"resolve_missing_dependencies_from_classpath"`
	BuiltinFallback                         bool     `koanf:"builtin_fallback"`
	Classpath                               []string `koanf:"classpath"`
	Exclude                                 []string `koanf:"exclude"`
	Parallelism                             int      `koanf:"parallelism"`
}

// MavenConfig adds the jars a Maven project depends on to the class path.
type MavenConfig struct {
	POM string `koanf:"pom"`
	// Repository defaults to ~/.m2/repository.
	Repository string `koanf:"repository"`
}

type LogConfig struct {
	Verbosity int    `koanf:"verbosity"`
	File      string `koanf:"file"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"resolve":     "import.resolve_missing_dependencies_from_classpath",
	"builtin":     "import.builtin_fallback",
	"classpath":   "import.classpath",
	"exclude":     "import.exclude",
	"parallelism": "import.parallelism",
	"pom":         "maven.pom",
	"maven-repo":  "maven.repository",
	"verbose":     "log.verbosity",
	"log-file":    "log.file",
}

// RegisterFlags adds the flags Load understands to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Bool("resolve", true, "resolve missing dependencies from the class path")
	flags.Bool("builtin", true, "fall back to the built-in catalog of JDK types")
	flags.StringSlice("classpath", nil, "directories and archives used to resolve missing dependencies")
	flags.StringSlice("exclude", nil, "regular expressions of class file paths to skip")
	flags.Int("parallelism", 4, "number of class files parsed concurrently")
	flags.String("pom", "", "add the dependencies of this pom.xml to the class path")
	flags.String("maven-repo", "", "local Maven repository (default ~/.m2/repository)")
	flags.IntP("verbose", "v", 0, "log verbosity (-4 silent, 0 notices, 1 info, 2 debug)")
	flags.String("log-file", "", "write logs to this file instead of stderr")
}

// Load reads the configuration. path may be empty, in which case
// DefaultFile is used when it exists. flags may be nil; only flags that
// were set explicitly override other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"import.resolve_missing_dependencies_from_classpath": true,
		"import.builtin_fallback":                            true,
		"import.parallelism":                                 4,
		"log.verbosity":                                      0,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	// CLASSGRAPH_IMPORT__PARALLELISM -> import.parallelism
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = path
	return &cfg, nil
}

// ImporterOptions converts the import section. Exclude patterns must be
// valid regular expressions.
func (c *Config) ImporterOptions() (importer.Options, error) {
	opts := importer.Options{
		ResolveMissingDependenciesFromClassPath: c.Import.ResolveMissingDependenciesFromClasspath,
		BuiltinFallback:                         c.Import.BuiltinFallback,
		Classpath:                               c.Import.Classpath,
		Parallelism:                             c.Import.Parallelism,
	}
	for _, pattern := range c.Import.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return importer.Options{}, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		opts.Exclude = append(opts.Exclude, re)
	}
	return opts, nil
}
