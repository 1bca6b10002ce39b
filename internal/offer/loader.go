package offer

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cart-offer/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped offer files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based offer loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "offer-loader").Logger(),
	}
}

// Load reads a gzipped offer file. Each non-blank line is one JSON offer
// request; lines starting with '#' are comments.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.OfferRequest, error) {
	l.logger.Info().Str("file", filePath).Msg("loading offer file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open offer file")
		return nil, fmt.Errorf("failed to open offer file %s: %w", filePath, err)
	}
	defer file.Close()

	requests, err := readOfferRequests(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read offer file")
		return nil, fmt.Errorf("failed to read offer file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("offers_loaded", len(requests)).
		Msg("offer file loaded successfully")

	return requests, nil
}

// readOfferRequests decodes gzipped newline-delimited JSON offer requests.
func readOfferRequests(ctx context.Context, r io.Reader) ([]model.OfferRequest, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var requests []model.OfferRequest
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var req model.OfferRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			return nil, fmt.Errorf("line %d: invalid offer JSON: %w", lineNo, err)
		}
		requests = append(requests, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning offers: %w", err)
	}

	return requests, nil
}
