// Package backup exports every store collection as one JSON snapshot to an
// S3-compatible bucket (R2, MinIO, S3).
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"tailor-backend/internal/logger"
	"tailor-backend/internal/store"
)

// Settings locate the bucket.
type Settings struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Uploader is the part of *s3.Client the exporter uses.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshot holds every record of every collection at one point in time.
type Snapshot struct {
	TakenAt     time.Time                 `json:"taken_at"`
	Collections map[string][]store.Record `json:"collections"`
}

// Take reads all collections from db.
func Take(ctx context.Context, db store.Store, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{TakenAt: now, Collections: make(map[string][]store.Record, len(store.Collections))}
	for _, coll := range store.Collections {
		recs, err := db.List(ctx, coll)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", coll, err)
		}
		snap.Collections[coll] = recs
	}
	return snap, nil
}

// NewS3Client builds a client for the configured endpoint with static credentials.
func NewS3Client(ctx context.Context, s Settings) (*s3.Client, error) {
	if s.Bucket == "" {
		return nil, errors.New("backup bucket is not configured")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.AccessKey,
			s.SecretKey,
			"",
		)),
		awsconfig.WithRegion(s.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure s3 client: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Exporter uploads snapshots.
type Exporter struct {
	client Uploader
	bucket string
	prefix string
	log    zerolog.Logger
}

func NewExporter(client Uploader, s Settings) *Exporter {
	return &Exporter{
		client: client,
		bucket: s.Bucket,
		prefix: s.Prefix,
		log:    logger.WithComponent("backup"),
	}
}

// Key is the object key for a snapshot taken at t.
func (e *Exporter) Key(t time.Time) string {
	return path.Join(e.prefix, fmt.Sprintf("tailor_%s.json", t.UTC().Format("20060102_150405")))
}

// Run snapshots db and uploads it, returning the object key.
func (e *Exporter) Run(ctx context.Context, db store.Store, now time.Time) (string, error) {
	snap, err := Take(ctx, db, now)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := e.Key(now)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	e.log.Info().Str("key", key).Int("bytes", len(body)).Msg("snapshot uploaded")
	return key, nil
}
