package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// The directory accessors below derive the on-disk layout every command
// relies on. Each one materializes the directory before returning so that
// callers never need to re-verify existence; creation is idempotent and a
// pre-existing directory is never an error. I/O failures are returned as-is
// and must not be treated as "directory usable".

// BaseDir is the root of all fnm state: an explicit override when one was
// configured, $HOME/.fnm otherwise.
func (c *Config) BaseDir() (string, error) {
	p := c.baseDir
	if p == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine the home directory: %w", err)
		}
		p = filepath.Join(home, "."+DriverName)
	}
	return ensureDir(p)
}

// InstallationsDir holds one sub-directory per installed Node.js version.
func (c *Config) InstallationsDir() (string, error) {
	base, err := c.BaseDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, "node-versions"))
}

// AliasesDir holds the symbolic-name links, one entry per alias.
func (c *Config) AliasesDir() (string, error) {
	base, err := c.BaseDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, "aliases"))
}

// DefaultVersionDir is the "default" alias, used whenever a shell has no
// version of its own selected.
func (c *Config) DefaultVersionDir() (string, error) {
	aliases, err := c.AliasesDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(aliases, "default"))
}

// MultishellBaseDir holds the per-shell current-version links created by
// the shell integration.
func (c *Config) MultishellBaseDir() (string, error) {
	return ensureDir(filepath.Join(os.TempDir(), DriverName+"_multishell"))
}

func ensureDir(p string) (string, error) {
	if err := os.MkdirAll(p, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %q: %w", p, err)
	}
	return p, nil
}
