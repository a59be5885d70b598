// Package mirror fetches published Node.js artifacts from a dist mirror.
// The official https mirrors are the common case; file, s3 and gs mirrors
// exist so that air-gapped or enterprise setups can serve their own copy.
package mirror

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fnm-sh/fnm/internal/dist"
	"github.com/fnm-sh/fnm/internal/logger"
)

// Storage is a read-only view on a Node.js dist mirror.
type Storage interface {
	fmt.Stringer
	Fetch(a dist.Artifact) ([]byte, error)
}

var (
	// To guarantee that implementations remain compatible with the interface.
	_ Storage = &FileSystem{}
	_ Storage = &GCS{}
	_ Storage = &HTTPS{}
	_ Storage = &S3{}

	ErrArtifactNotFound  = errors.New("artifact not available on the mirror")
	ErrUnsupportedMirror = errors.New("unsupported mirror scheme")
)

// New picks the backend matching the mirror's URL scheme.
func New(logBuilder *logger.Builder, mirror *url.URL) (Storage, error) {
	switch mirror.Scheme {
	case "http", "https":
		return NewHTTPS(logBuilder, mirror), nil
	case "file":
		return NewFileSystem(logBuilder, mirror.Path, false), nil
	case "s3":
		return NewS3(logBuilder, mirror.Host, strings.TrimPrefix(mirror.Path, "/")), nil
	case "gs":
		return NewGCS(logBuilder, mirror.Host, strings.TrimPrefix(mirror.Path, "/")), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedMirror, mirror.Scheme)
	}
}
