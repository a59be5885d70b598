package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/fnm-sh/fnm/internal/dist"
	"github.com/fnm-sh/fnm/internal/logger"
)

type HTTPS struct {
	log     *zap.Logger
	timeout time.Duration
	client  *http.Client
	base    *url.URL
}

func NewHTTPS(logBuilder *logger.Builder, base *url.URL) *HTTPS {
	return &HTTPS{
		log:     logBuilder.Domain(logger.HTTPSDomain),
		timeout: 10 * time.Minute,
		client:  &http.Client{},
		base:    base,
	}
}

func (s *HTTPS) String() string {
	return s.base.String()
}

func (s *HTTPS) Fetch(a dist.Artifact) ([]byte, error) {
	target := *s.base
	target.Path = path.Join(target.Path, a.RemotePath())
	log := s.log.With(zap.Stringer("artifact", a), zap.String("url", target.String()))

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		log.Error("Failed to reach the mirror.", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		log.Error("No such artifact found on the mirror.")
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, a)
	case resp.StatusCode != http.StatusOK:
		log.Error("The mirror returned an unexpected status.", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("unexpected status %d from mirror for %s", resp.StatusCode, a)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to download the artifact content.", zap.Error(err))
		return nil, err
	}
	log.Debug("Finished downloading the artifact from the mirror.")
	return raw, nil
}
