// Package main provides the Lambda entry point for the thumbnail pipeline.
//
// The function is invoked by S3 ObjectCreated notifications on the upload
// bucket. For every record in the batch it fetches the source image,
// produces 50/100/200px square variants, writes them to the destination
// bucket, and writes a JSON manifest listing the variants.
//
// Memory: 256 MB
// Timeout: 1 minute
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/fpang/thumbnail-pipeline/internal/logging"
	"github.com/fpang/thumbnail-pipeline/internal/pipeline"
	"github.com/fpang/thumbnail-pipeline/internal/storage"
)

// handler is initialized at cold start and reused across invocations.
var handler *pipeline.Handler

func init() {
	initStart := time.Now()
	logging.Init()

	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")

	destBucket := os.Getenv("DEST_BUCKET_NAME")
	if destBucket == "" {
		log.Fatal().Msg("DEST_BUCKET_NAME environment variable is required")
	}

	handler = pipeline.New(storage.New(s3.NewFromConfig(cfg)), destBucket, cfg.Region)

	// Emit consolidated cold-start log for troubleshooting.
	logging.NewStartupLogger("thumbnail-lambda").
		InitDuration(time.Since(initStart)).
		S3Bucket("destBucket", destBucket).
		Config("sizes", fmt.Sprint(pipeline.Sizes)).
		Log()
}

func main() {
	lambda.Start(handler.Invoke)
}
