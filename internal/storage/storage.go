// Package storage provides the S3 fetch and write adapters used by the
// thumbnail pipeline, plus error-kind predicates and retrieval URL helpers.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"
)

const (
	manifestSuffix      = ".thumbnails.json"
	manifestContentType = "application/json"
)

// S3API is the subset of the S3 client the pipeline uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store wraps an S3 client with the pipeline's fetch and write operations.
type Store struct {
	Client S3API
}

func New(client S3API) *Store {
	return &Store{Client: client}
}

// Fetch retrieves the full byte content of an object. Exactly one GetObject
// per call, no ranged reads, no retry layer — redelivery belongs to the
// invoking platform. SDK errors stay inspectable through the %w chain.
func (s *Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	log.Debug().Str("bucket", bucket).Str("key", key).Msg("Fetching source object")

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("S3 GetObject s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body s3://%s/%s: %w", bucket, key, err)
	}

	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Source object fetched")
	return data, nil
}

// PutVariant persists bytes verbatim at the given key, overwriting any
// existing object. Recomputation is deterministic, so overwrites are safe.
func (s *Store) PutVariant(ctx context.Context, bucket, key, contentType string, data []byte) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("S3 PutObject s3://%s/%s: %w", bucket, key, err)
	}

	log.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(data)).Msg("Write complete")
	return nil
}

// PutManifest persists the JSON manifest for sourceKey, overwriting any
// existing manifest.
func (s *Store) PutManifest(ctx context.Context, bucket, sourceKey string, data []byte) error {
	return s.PutVariant(ctx, bucket, ManifestKey(sourceKey), manifestContentType, data)
}

// ManifestKey returns the destination key of the manifest for a source key.
func ManifestKey(sourceKey string) string {
	return sourceKey + manifestSuffix
}

// ObjectURL builds the fully-qualified virtual-hosted-style retrieval URL
// for an object. Key path segments are percent-escaped.
func ObjectURL(bucket, region, key string) string {
	host := bucket + ".s3.amazonaws.com"
	if region != "" {
		host = fmt.Sprintf("%s.s3.%s.amazonaws.com", bucket, region)
	}
	u := url.URL{Scheme: "https", Host: host, Path: "/" + key}
	return u.String()
}

// IsNotFound reports whether err is an S3 missing-key or missing-bucket error.
func IsNotFound(err error) bool {
	var noKey *s3types.NoSuchKey
	var noBucket *s3types.NoSuchBucket
	if errors.As(err, &noKey) || errors.As(err, &noBucket) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey"
}

// IsAccessDenied reports whether err is an S3 access-denied error.
func IsAccessDenied(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDenied"
}
