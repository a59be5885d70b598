package mirror

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"

	"github.com/fnm-sh/fnm/internal/dist"
	"github.com/fnm-sh/fnm/internal/logger"
)

// FileSystem serves artifacts from a local or mounted copy of a dist
// mirror, laid out exactly like the remote one.
type FileSystem struct {
	log     *zap.Logger
	storage billy.Filesystem
	root    string
}

func NewFileSystem(logBuilder *logger.Builder, root string, inMem bool) *FileSystem {
	var fs billy.Filesystem
	if inMem {
		fs = memfs.New()
	} else {
		fs = osfs.New("/")
	}

	return &FileSystem{
		log:     logBuilder.Domain(logger.FileSystemDomain),
		storage: fs,
		root:    root,
	}
}

func (s *FileSystem) String() string {
	return s.root
}

func (s *FileSystem) Fetch(a dist.Artifact) ([]byte, error) {
	p := filepath.Join(s.root, filepath.FromSlash(a.RemotePath()))
	log := s.log.With(zap.Stringer("artifact", a), zap.String("local-path", p))

	fd, err := s.storage.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error("No such artifact found on the mirror.")
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, a)
		}
		log.Error("Failed to open the artifact file.", zap.Error(err))
		return nil, err
	}
	defer fd.Close()

	raw, err := io.ReadAll(fd)
	if err != nil {
		log.Error("Failed to read the content of the artifact file.", zap.Error(err))
		return nil, err
	}
	return raw, nil
}
