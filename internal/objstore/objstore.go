// Package objstore persists saved pipelines in S3-compatible object storage,
// one JSON document per pipeline. It is the backend for deployments that
// already run MinIO or S3 and do not want a relational database.
package objstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/specialistvlad/toolpipe/internal/env"
	"github.com/specialistvlad/toolpipe/internal/pipeline"
	"github.com/specialistvlad/toolpipe/internal/store"
)

// Config carries the connection settings for the object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
}

// ConfigFromEnv reads the TOOLPIPE_S3_* variables, falling back to a local
// MinIO setup.
func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("TOOLPIPE_S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:  env.String("TOOLPIPE_S3_ENDPOINT", "localhost:9000"),
		AccessKey: env.String("TOOLPIPE_S3_ACCESS_KEY", "toolpipe"),
		SecretKey: env.String("TOOLPIPE_S3_SECRET_KEY", "toolpipeminio"),
		Region:    env.String("TOOLPIPE_S3_REGION", "us-east-1"),
		UseSSL:    useSSL,
		Bucket:    env.String("TOOLPIPE_S3_BUCKET", "toolpipe"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("bucket is required")
	}
	return nil
}

// NewClient connects to the configured endpoint.
func NewClient(cfg Config) (*minio.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, client *minio.Client, cfg Config) error {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

const (
	keyPrefix   = "pipelines/"
	keySuffix   = ".json"
	contentType = "application/json"
)

// Store implements store.Store on one bucket, keyed pipelines/<id>.json.
type Store struct {
	client *minio.Client
	bucket string

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

// New creates a store over a connected client.
func New(client *minio.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket, now: time.Now}
}

func objectKey(id string) string {
	return keyPrefix + id + keySuffix
}

// List returns summaries of every saved pipeline, sorted by id.
func (s *Store) List(ctx context.Context) ([]pipeline.Summary, error) {
	var summaries []pipeline.Summary
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    keyPrefix,
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("list pipelines: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, keySuffix) {
			continue
		}
		saved, err := s.fetch(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, saved.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

// Get returns the saved pipeline with the given id.
func (s *Store) Get(ctx context.Context, id string) (*pipeline.Saved, error) {
	return s.fetch(ctx, objectKey(id))
}

// Save upserts a pipeline under its id, preserving createdAt across updates.
func (s *Store) Save(ctx context.Context, in pipeline.SaveInput) (*pipeline.Saved, error) {
	if err := store.ValidateSave(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	saved := &pipeline.Saved{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Pipeline:    in.Pipeline,
		Layout:      in.Layout,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	prev, err := s.Get(ctx, in.ID)
	switch {
	case err == nil:
		saved.CreatedAt = prev.CreatedAt
	case !errors.Is(err, store.ErrPipelineNotFound):
		return nil, err
	}

	data, err := pipeline.EncodeSaved(saved)
	if err != nil {
		return nil, err
	}
	_, err = s.client.PutObject(ctx, s.bucket, objectKey(in.ID),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("put pipeline %q: %w", in.ID, err)
	}
	return saved, nil
}

// Remove deletes the saved pipeline with the given id. Object deletion is
// idempotent upstream, so existence is checked first to report a miss.
func (s *Store) Remove(ctx context.Context, id string) error {
	key := objectKey(id)
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return handleNotFound(fmt.Errorf("stat pipeline %q: %w", id, err))
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove pipeline %q: %w", id, err)
	}
	return nil
}

// fetch reads and decodes one stored document.
func (s *Store) fetch(ctx context.Context, key string) (*pipeline.Saved, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, handleNotFound(fmt.Errorf("get %s: %w", key, err))
	}
	defer obj.Close()

	// GetObject is lazy: a missing key surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, handleNotFound(fmt.Errorf("read %s: %w", key, err))
	}
	saved, err := pipeline.DecodeSaved(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return saved, nil
}

// handleNotFound maps the object store's missing-key code onto the store
// boundary's sentinel, keeping the original error as context otherwise.
func handleNotFound(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && (resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket") {
		return store.ErrPipelineNotFound
	}
	return err
}
