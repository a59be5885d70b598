package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/fnm-sh/fnm/internal/platform"
)

const (
	DriverName = "fnm"

	configFileName = DriverName + "_conf.yaml"

	officialMirror   = "https://nodejs.org/dist/"
	unofficialMirror = "https://unofficial-builds.nodejs.org/download/release/"
)

// Environment variables recognised next to the corresponding flags.
const (
	EnvNodeDistMirror = "FNM_NODE_DIST_MIRROR"
	EnvDir            = "FNM_DIR"
	EnvMultishellPath = "FNM_MULTISHELL_PATH"
	EnvLogLevel       = "FNM_LOGLEVEL"
	EnvArch           = "FNM_ARCH"
	EnvLibC           = "FNM_LIBC"
)

var ErrInvalidMirror = errors.New("invalid node-dist mirror URL")

// Config is the effective per-invocation configuration, assembled once from
// command-line flags, environment variables, an optional user config file
// and computed defaults, in that priority order. It is not mutated after
// Load returns.
type Config struct {
	// NodeDistMirror is the base location artifacts are fetched from. Its
	// scheme picks the mirror backend (https, file, s3, gs).
	NodeDistMirror *url.URL
	LogLevel       zapcore.Level
	Arch           platform.Arch
	LibC           platform.LibC
	// Host is the probed descriptor of the machine fnm runs on. Unlike Arch
	// it is never overridden by the user.
	Host platform.Host

	baseDir        string
	multishellPath string
}

// Overrides carries the values of explicitly set command-line flags. An
// empty field means the flag was not given, never that it was set to "".
type Overrides struct {
	NodeDistMirror string
	BaseDir        string
	MultishellPath string
	LogLevel       string
	Arch           string
	LibC           string
}

// fileConfig is the schema of the optional fnm_conf.yaml in the user's
// configuration directory. It sits below environment variables and above
// computed defaults in the layering.
type fileConfig struct {
	NodeDistMirror string `yaml:"node-dist-mirror"`
	Dir            string `yaml:"fnm-dir"`
	LogLevel       string `yaml:"log-level"`
	Arch           string `yaml:"arch"`
	LibC           string `yaml:"libc"`
}

func Load(log *zap.Logger, host platform.Host, flags Overrides) (*Config, error) {
	var file fileConfig
	if err := parseFile(log, &file); err != nil {
		return nil, err
	}

	pick := func(flag, env, file string) string {
		if flag != "" {
			return flag
		}
		if v, ok := os.LookupEnv(env); ok && v != "" {
			return v
		}
		return file
	}

	c := &Config{Host: host}

	if token := pick(flags.Arch, EnvArch, file.Arch); token != "" {
		arch, err := platform.ParseArch(token)
		if err != nil {
			return nil, err
		}
		c.Arch = arch
	} else {
		arch, err := platform.DefaultArch(host)
		if err != nil {
			return nil, err
		}
		c.Arch = arch
	}

	if token := pick(flags.LibC, EnvLibC, file.LibC); token != "" {
		libc, err := platform.ParseLibC(token)
		if err != nil {
			return nil, err
		}
		c.LibC = libc
	} else {
		c.LibC = platform.DefaultLibC(host)
	}

	// The mirror default follows the resolved libc, not raw host detection,
	// so that overriding only the libc still selects the matching mirror.
	mirror := pick(flags.NodeDistMirror, EnvNodeDistMirror, file.NodeDistMirror)
	if mirror == "" {
		mirror = DefaultMirror(c.LibC)
	}
	u, err := url.Parse(mirror)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidMirror, mirror, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w %q: missing scheme", ErrInvalidMirror, mirror)
	}
	c.NodeDistMirror = u

	level := pick(flags.LogLevel, EnvLogLevel, file.LogLevel)
	if level == "" {
		level = "info"
	}
	c.LogLevel, err = zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("unknown log level %q, expected one of debug, info, warn, error", level)
	}

	c.baseDir = pick(flags.BaseDir, EnvDir, file.Dir)
	c.multishellPath = pick(flags.MultishellPath, EnvMultishellPath, "")

	log.Sugar().Debugf("Resolved configuration:\n%s", spew.Sdump(c))
	return c, nil
}

// DefaultMirror is the mirror used when none is configured. Musl builds are
// only published on the unofficial-builds mirror.
func DefaultMirror(libc platform.LibC) string {
	if libc == platform.LibCMusl {
		return unofficialMirror
	}
	return officialMirror
}

// MultishellPath is the current-version link of the invoking shell. It is
// populated by the shell integration and normally absent for direct
// invocations.
func (c *Config) MultishellPath() string {
	return c.multishellPath
}

func parseFile(log *zap.Logger, conf *fileConfig) error {
	confDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}

	raw, err := os.ReadFile(filepath.Join(confDir, DriverName, configFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewBuffer(raw))
	dec.KnownFields(true)
	if err = dec.Decode(conf); err != nil {
		return err
	}
	log.Sugar().Debugf("Parsed configuration file:\n%s", spew.Sdump(conf))
	return nil
}
