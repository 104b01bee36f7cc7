// Package pipeline orchestrates the thumbnail flow for S3 upload
// notifications: decode key → fetch source → resize per size → write
// variants → write manifest.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fpang/thumbnail-pipeline/internal/keyutil"
	"github.com/fpang/thumbnail-pipeline/internal/metrics"
	"github.com/fpang/thumbnail-pipeline/internal/resize"
	"github.com/fpang/thumbnail-pipeline/internal/storage"
)

// Sizes is the fixed set of square edge lengths produced for every upload.
// Manifest entries follow this order.
var Sizes = []int{50, 100, 200}

// Handler processes S3 notification batches. Records are handled strictly
// sequentially in arrival order; the first failing record aborts the whole
// invocation and the platform's redelivery policy takes over. All writes
// are idempotent, so a redelivered batch recomputes without harm.
type Handler struct {
	Store      *storage.Store
	DestBucket string
	Region     string
	Sizes      []int
}

func New(store *storage.Store, destBucket, region string) *Handler {
	return &Handler{
		Store:      store,
		DestBucket: destBucket,
		Region:     region,
		Sizes:      Sizes,
	}
}

// Invoke is the Lambda handler for one notification batch.
func (h *Handler) Invoke(ctx context.Context, event events.S3Event) error {
	invocationStart := time.Now()
	logger := log.With().Str("invocationId", uuid.NewString()).Logger()
	logger.Info().Int("records", len(event.Records)).Msg("Processing notification batch")

	rec := metrics.New("ThumbnailPipeline")
	rec.Dimension("Operation", "thumbnail")
	recordsDone := 0
	defer func() {
		rec.Metric("RecordsProcessed", float64(recordsDone), metrics.UnitCount)
		rec.Metric("VariantsProduced", float64(recordsDone*len(h.Sizes)), metrics.UnitCount)
		rec.Metric("InvocationLatencyMs", float64(time.Since(invocationStart).Milliseconds()), metrics.UnitMilliseconds)
		rec.Flush()
	}()

	for _, record := range event.Records {
		if err := h.processRecord(ctx, logger, record); err != nil {
			return err
		}
		recordsDone++
	}
	return nil
}

// processRecord runs the full flow for one notification record. Within a
// record, variant writes happen in size order and the manifest write
// happens strictly after all variant writes succeed.
func (h *Handler) processRecord(ctx context.Context, logger zerolog.Logger, record events.S3EventRecord) error {
	srcBucket := record.S3.Bucket.Name
	key, err := keyutil.DecodeObjectKey(record.S3.Object.Key)
	if err != nil {
		return err
	}

	logger = logger.With().Str("bucket", srcBucket).Str("key", key).Logger()
	logger.Info().Msg("Fetching source object")

	src, err := h.Store.Fetch(ctx, srcBucket, key)
	if err != nil {
		return err
	}

	base, _ := keyutil.SplitExt(key)
	entries := make([]Entry, 0, len(h.Sizes))
	for _, size := range h.Sizes {
		variant, err := resize.Thumbnail(src, size)
		if err != nil {
			return fmt.Errorf("record %s: %w", key, err)
		}

		destKey := fmt.Sprintf("%s-%dx%d.%s", base, size, size, variant.Ext)
		if err := h.Store.PutVariant(ctx, h.DestBucket, destKey, variant.ContentType, variant.Data); err != nil {
			return err
		}
		logger.Info().Str("destKey", destKey).Int("size", size).Msg("Variant written")

		entries = append(entries, Entry{
			Key:    destKey,
			URL:    storage.ObjectURL(h.DestBucket, h.Region, destKey),
			Width:  size,
			Height: size,
		})
	}

	manifest, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode manifest for %s: %w", key, err)
	}
	if err := h.Store.PutManifest(ctx, h.DestBucket, key, manifest); err != nil {
		return err
	}

	logger.Info().
		Int("variants", len(entries)).
		Str("manifestKey", storage.ManifestKey(key)).
		Msg("Record complete")
	return nil
}
