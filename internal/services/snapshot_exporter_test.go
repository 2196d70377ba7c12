package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adsfront/internal/models"
)

type stubLister struct {
	ads []models.Ad
	err error
}

func (l *stubLister) ListAds(context.Context) ([]models.Ad, error) {
	return l.ads, l.err
}

type recordingUploader struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (u *recordingUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	u.input = in
	b, _ := io.ReadAll(in.Body)
	u.body = string(b)
	if u.err != nil {
		return nil, u.err
	}
	return &manager.UploadOutput{Key: in.Key}, nil
}

func TestExportUploadsListing(t *testing.T) {
	lister := &stubLister{ads: []models.Ad{{ID: 1, Title: "Bike", Description: "Red", Price: models.Float(100)}}}
	up := &recordingUploader{}
	e := NewSnapshotExporter(lister, up, "ads-bucket", "/snapshots/", zerolog.Nop())
	e.now = func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) }

	key, err := e.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "snapshots/ads-20261015T093000Z.json", key)
	assert.Equal(t, "ads-bucket", aws.ToString(up.input.Bucket))
	assert.Equal(t, key, aws.ToString(up.input.Key))
	assert.Equal(t, "application/json", aws.ToString(up.input.ContentType))
	assert.JSONEq(t, `[{"id":1,"title":"Bike","description":"Red","price":100}]`, up.body)
}

func TestExportRequiresBucket(t *testing.T) {
	e := NewSnapshotExporter(&stubLister{}, &recordingUploader{}, "", "", zerolog.Nop())
	_, err := e.Export(context.Background())
	require.Error(t, err)
}

func TestExportPropagatesFailures(t *testing.T) {
	listErr := errors.New("backend down")
	e := NewSnapshotExporter(&stubLister{err: listErr}, &recordingUploader{}, "b", "", zerolog.Nop())
	_, err := e.Export(context.Background())
	require.ErrorIs(t, err, listErr)

	upErr := errors.New("access denied")
	e = NewSnapshotExporter(&stubLister{}, &recordingUploader{err: upErr}, "b", "", zerolog.Nop())
	_, err = e.Export(context.Background())
	require.ErrorIs(t, err, upErr)
}
