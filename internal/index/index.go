// Package index reads the release index a Node.js dist mirror publishes as
// index.json, and resolves channel names like "latest" or "lts" against it.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fnm-sh/fnm/internal/logger"
	"github.com/fnm-sh/fnm/internal/version"
)

var (
	ErrNoIndex       = errors.New("mirror does not serve a release index")
	ErrNoSuchRelease = errors.New("no matching release found in the index")
)

// Release is one entry of the mirror's index.json, newest first.
type Release struct {
	Version string   `json:"version" yaml:"version"`
	Date    string   `json:"date" yaml:"date"`
	LTS     LTSName  `json:"lts" yaml:"lts,omitempty"`
	Files   []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// LTSName is the codename of an LTS release line. The index encodes
// non-LTS releases as a literal false instead of a string.
type LTSName string

func (l *LTSName) UnmarshalJSON(b []byte) error {
	if string(b) == "false" {
		*l = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*l = LTSName(s)
	return nil
}

type Client struct {
	log       *zap.Logger
	client    *http.Client
	timeout   time.Duration
	mirror    *url.URL
	cachePath string
	refresh   time.Duration
}

// New returns a client for the index of the given mirror. The fetched index
// is cached as a manifest file under cacheDir to keep repeat invocations
// fast; a zero refresh interval disables the cache.
func New(logBuilder *logger.Builder, mirror *url.URL, cacheDir string, refresh time.Duration) *Client {
	c := &Client{
		log:     logBuilder.Domain(logger.IndexDomain),
		client:  &http.Client{},
		timeout: time.Minute,
		mirror:  mirror,
		refresh: refresh,
	}
	if cacheDir != "" {
		c.cachePath = filepath.Join(cacheDir, "index-cache.yaml")
	}
	return c
}

type manifest struct {
	LastRefresh time.Time `yaml:"last_refresh"`
	Releases    []Release `yaml:"releases"`
}

// Releases lists the releases the mirror publishes, newest first.
func (c *Client) Releases() ([]Release, error) {
	if cached, ok := c.fromCache(); ok {
		return cached, nil
	}

	releases, err := c.fetch()
	if err != nil {
		return nil, err
	}
	c.store(releases)
	return releases, nil
}

// Resolve reduces a named channel reference to the concrete release it
// currently points at. Structured versions pass through untouched.
func (c *Client) Resolve(v version.Version) (version.Version, error) {
	if !v.IsNamed() {
		return v, nil
	}

	releases, err := c.Releases()
	if err != nil {
		return version.Version{}, err
	}

	name := v.String()
	for _, r := range releases {
		switch {
		case name == "latest":
			// The index is ordered newest first.
		case name == "lts" || name == "lts/*":
			if r.LTS == "" {
				continue
			}
		case strings.HasPrefix(name, "lts/"):
			if !strings.EqualFold(string(r.LTS), strings.TrimPrefix(name, "lts/")) {
				continue
			}
		default:
			return version.Version{}, fmt.Errorf("%w for %q", ErrNoSuchRelease, name)
		}
		return version.Parse(r.Version)
	}
	return version.Version{}, fmt.Errorf("%w for %q", ErrNoSuchRelease, name)
}

func (c *Client) fetch() ([]Release, error) {
	if c.mirror.Scheme != "http" && c.mirror.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrNoIndex, c.mirror)
	}

	target := *c.mirror
	target.Path = path.Join(target.Path, "index.json")
	log := c.log.With(zap.String("url", target.String()))

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("Failed to fetch the release index.", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("The mirror returned an unexpected status for the release index.", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("unexpected status %d for release index", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var releases []Release
	if err = json.Unmarshal(raw, &releases); err != nil {
		log.Error("Failed to decode the release index.", zap.Error(err))
		return nil, fmt.Errorf("failed to decode release index: %w", err)
	}
	log.Debug("Fetched the release index.", zap.Int("releases", len(releases)))
	return releases, nil
}

func (c *Client) fromCache() ([]Release, bool) {
	if c.cachePath == "" || c.refresh <= 0 {
		return nil, false
	}

	raw, err := os.ReadFile(c.cachePath)
	if err != nil {
		return nil, false
	}

	var m manifest
	if err = yaml.Unmarshal(raw, &m); err != nil {
		c.log.Debug("Discarding unreadable index cache.", zap.Error(err))
		return nil, false
	}
	if time.Since(m.LastRefresh) > c.refresh {
		return nil, false
	}
	return m.Releases, true
}

// store writes the manifest cache. Failures only cost us a refetch on the
// next invocation and are therefore not propagated.
func (c *Client) store(releases []Release) {
	if c.cachePath == "" || c.refresh <= 0 {
		return
	}

	raw, err := yaml.Marshal(manifest{LastRefresh: time.Now(), Releases: releases})
	if err == nil {
		err = os.WriteFile(c.cachePath, raw, 0o644)
	}
	if err != nil {
		c.log.Debug("Failed to write the index cache.", zap.Error(err))
	}
}
