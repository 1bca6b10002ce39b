package offer

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"testing"

	"cart-offer/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, filePath string) ([]model.OfferRequest, error)
}

func (m *mockLoader) Load(ctx context.Context, filePath string) ([]model.OfferRequest, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, filePath)
	}
	return nil, errors.New("not implemented")
}

// fakeObjectGetter serves gzipped objects from memory.
type fakeObjectGetter struct {
	objects map[string][]byte
	err     error
}

func (f *fakeObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func gzipLines(t *testing.T, lines ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	for _, line := range lines {
		_, err := w.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestS3Loader_Load_Success(t *testing.T) {
	client := &fakeObjectGetter{objects: map[string][]byte{
		"offer-bucket/offers/launch.gz": gzipLines(t,
			`{"restaurant_id":5,"offer_type":"FLATX","offer_value":10,"segments":["p1"]}`,
			`{"restaurant_id":6,"offer_type":"FLAT%","offer_value":20,"segments":["p1"]}`,
		),
	}}
	loader := newS3Loader(client, "offer-bucket", zerolog.Nop())

	requests, err := loader.Load(context.Background(), "offers/launch.gz")

	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, int64(5), requests[0].RestaurantID)
	assert.Equal(t, "FLAT%", requests[1].OfferType)
}

func TestS3Loader_Load_GetObjectError(t *testing.T) {
	loader := newS3Loader(&fakeObjectGetter{err: errors.New("access denied")}, "offer-bucket", zerolog.Nop())

	_, err := loader.Load(context.Background(), "offers/launch.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://offer-bucket/offers/launch.gz")
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3Loader_Load_CorruptObject(t *testing.T) {
	client := &fakeObjectGetter{objects: map[string][]byte{
		"offer-bucket/offers/bad.gz": []byte("not gzip"),
	}}
	loader := newS3Loader(client, "offer-bucket", zerolog.Nop())

	_, err := loader.Load(context.Background(), "offers/bad.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read s3://offer-bucket/offers/bad.gz")
}

func TestFallbackLoader_S3Success(t *testing.T) {
	s3Requests := []model.OfferRequest{{RestaurantID: 1, OfferType: "FLATX", OfferValue: 5, Segments: []string{"p1"}}}
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.OfferRequest, error) {
			assert.Equal(t, "offers/seed.gz", filePath, "S3 key should have prefix")
			return s3Requests, nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.OfferRequest, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "offers/", true, zerolog.Nop())

	requests, err := fallback.Load(context.Background(), "seed.gz")
	require.NoError(t, err)
	assert.Equal(t, s3Requests, requests)
}

func TestFallbackLoader_S3FailsFallsBackToLocal(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.OfferRequest, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	localRequests := []model.OfferRequest{{RestaurantID: 2, OfferType: "FLAT%", OfferValue: 10, Segments: []string{"p2"}}}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.OfferRequest, error) {
			assert.Equal(t, "seed.gz", filePath, "local file path should not have prefix")
			return localRequests, nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "offers/", true, zerolog.Nop())

	requests, err := fallback.Load(context.Background(), "seed.gz")
	require.NoError(t, err)
	assert.Equal(t, localRequests, requests)
}

func TestFallbackLoader_S3Disabled(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.OfferRequest, error) {
			t.Error("S3 loader should not be called when S3 is disabled")
			return nil, errors.New("should not be called")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.OfferRequest, error) {
			return nil, nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "offers/", false, zerolog.Nop())

	_, err := fallback.Load(context.Background(), "seed.gz")
	assert.NoError(t, err)
}

func TestFallbackLoader_BothFail(t *testing.T) {
	failing := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.OfferRequest, error) {
			return nil, errors.New("unavailable: " + filePath)
		},
	}

	fallback := NewFallbackLoader(failing, failing, "offers/", true, zerolog.Nop())

	_, err := fallback.Load(context.Background(), "seed.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable: seed.gz")
}
