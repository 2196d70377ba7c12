package services

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"adsfront/internal/interfaces"
)

// Uploader is the part of manager.Uploader the exporter uses.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// SnapshotExporter writes the current listing to S3 as one JSON document.
type SnapshotExporter struct {
	lister   interfaces.AdLister
	uploader Uploader
	bucket   string
	prefix   string
	now      func() time.Time
	log      zerolog.Logger
}

func NewSnapshotExporter(lister interfaces.AdLister, uploader Uploader, bucket, prefix string, logger zerolog.Logger) *SnapshotExporter {
	return &SnapshotExporter{
		lister:   lister,
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		now:      time.Now,
		log:      logger.With().Str("component", "snapshot").Logger(),
	}
}

// Export uploads the listing and returns the object key it was stored under.
func (e *SnapshotExporter) Export(ctx context.Context) (string, error) {
	if strings.TrimSpace(e.bucket) == "" {
		return "", errors.New("snapshot bucket is required")
	}

	ads, err := e.lister.ListAds(ctx)
	if err != nil {
		return "", errors.Wrap(err, "list ads for snapshot")
	}
	body, err := json.Marshal(ads)
	if err != nil {
		return "", errors.Wrap(err, "encode snapshot")
	}

	key := path.Join(e.prefix, "ads-"+e.now().UTC().Format("20060102T150405Z")+".json")
	_, err = e.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", errors.Wrapf(err, "upload snapshot %s", key)
	}

	e.log.Info().Str("bucket", e.bucket).Str("key", key).Int("ads", len(ads)).Msg("snapshot uploaded")
	return key, nil
}
