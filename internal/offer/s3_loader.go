package offer

import (
	"context"
	"fmt"

	"cart-offer/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectGetter is the part of *s3.Client the loader needs.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader reads gzipped offer files from one S3 bucket.
type s3Loader struct {
	client objectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader builds an S3 client from the default AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	l := newS3Loader(s3.NewFromConfig(awsCfg), bucket, logger)
	l.logger.Info().Str("region", region).Msg("S3 offer loader ready")
	return l, nil
}

func newS3Loader(client objectGetter, bucket string, logger zerolog.Logger) *s3Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger.With().
			Str("component", "s3-offer-loader").
			Str("bucket", bucket).
			Logger(),
	}
}

// Load fetches the object at key and decodes it like a local seed file.
func (l *s3Loader) Load(ctx context.Context, key string) ([]model.OfferRequest, error) {
	log := l.logger.With().Str("key", key).Logger()

	obj, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch offer file")
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", l.bucket, key, err)
	}
	defer obj.Body.Close()

	requests, err := readOfferRequests(ctx, obj.Body)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode offer file")
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", l.bucket, key, err)
	}

	log.Info().Int("offers_loaded", len(requests)).Msg("offer file loaded from S3")
	return requests, nil
}

// fallbackLoader prefers S3 and falls back to the local file system.
type fallbackLoader struct {
	remote Loader
	local  Loader
	prefix string
	logger zerolog.Logger
}

// NewFallbackLoader tries s3Loader with s3Prefix prepended to the path, then
// fileLoader with the path as given. With s3Enabled false or a nil s3Loader
// only fileLoader is used.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	if !s3Enabled {
		s3Loader = nil
	}
	return &fallbackLoader{
		remote: s3Loader,
		local:  fileLoader,
		prefix: s3Prefix,
		logger: logger.With().Str("component", "fallback-offer-loader").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, path string) ([]model.OfferRequest, error) {
	if l.remote != nil {
		key := l.prefix + path

		requests, err := l.remote.Load(ctx, key)
		if err == nil {
			return requests, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Str("path", path).
			Msg("S3 load failed, using local file")
	}

	return l.local.Load(ctx, path)
}
