package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/fnm-sh/fnm/internal/dist"
	"github.com/fnm-sh/fnm/internal/logger"
)

type S3 struct {
	log     *zap.Logger
	timeout time.Duration
	client  *s3.Client
	bucket  string
	prefix  string
}

func NewS3(logBuilder *logger.Builder, bucket string, prefix string) *S3 {
	log := logBuilder.Domain(logger.S3Domain).With(zap.String("s3-bucket", bucket))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	cfg, err := aws_config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal("Failed to load AWS configuration from environment.", zap.Error(err))
	}
	cancel()

	return &S3{
		log:     log,
		timeout: 10 * time.Minute,
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		prefix:  prefix,
	}
}

func (s *S3) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
}

func (s *S3) Fetch(a dist.Artifact) ([]byte, error) {
	key := path.Join(s.prefix, a.RemotePath())
	log := s.log.With(
		zap.Stringer("artifact", a),
		zap.String("artifact-path", key),
	)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var s3err *types.NoSuchKey
		if errors.As(err, &s3err) {
			log.Error("No such artifact found on the mirror.")
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, a)
		}
		log.Error("Failed to look up the artifact on S3.", zap.Error(err))
		return nil, err
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		log.Error("Failed to download the artifact content from S3.", zap.Error(err))
		return nil, err
	}
	log.Debug("Finished downloading the artifact from S3.")
	return raw, nil
}
