package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/fnm-sh/fnm/internal/dist"
	"github.com/fnm-sh/fnm/internal/logger"
)

type GCS struct {
	log     *zap.Logger
	timeout time.Duration
	client  *storage.Client
	bucket  string
	prefix  string
}

func NewGCS(logBuilder *logger.Builder, bucket string, prefix string) *GCS {
	log := logBuilder.Domain(logger.GCSDomain).With(zap.String("gcs-bucket", bucket))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := storage.NewClient(ctx, option.WithScopes(storage.ScopeReadOnly))
	if err != nil {
		log.Fatal("Unable to set up a GCS storage client.", zap.Error(err))
	}
	cancel()

	return &GCS{
		log:     log,
		timeout: 10 * time.Minute,
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
	}
}

func (s *GCS) String() string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, s.prefix)
}

func (s *GCS) Fetch(a dist.Artifact) ([]byte, error) {
	bucketPath := path.Join(s.prefix, a.RemotePath())
	log := s.log.With(
		zap.Stringer("artifact", a),
		zap.String("artifact-path", bucketPath),
	)

	obj := s.client.Bucket(s.bucket).Object(bucketPath)
	src, err := obj.NewReader(context.Background()) // Background context as we don't want to interrupt a download.
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			log.Error("No such artifact found on the mirror.")
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, a)
		}
		log.Error("Unable to open a reader on the remote GCS object.", zap.Error(err))
		return nil, err
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		log.Error("Failed to download the artifact content from GCS.", zap.Error(err))
		return nil, err
	}
	log.Debug("Finished downloading the artifact from GCS.")
	return raw, nil
}
