package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config carries the settings for an S3-compatible backend (AWS S3, MinIO).
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store keeps one JSON object per user at backups/<userID>.json.
// The server-assigned write time is the object's LastModified.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds an S3-backed document store.
func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Store{client: client, bucket: c.Bucket}, nil
}

func storageKey(userID string) string {
	return fmt.Sprintf("backups/%s.json", userID)
}

// Get fetches and decodes the user's backup document. UpdatedAt is taken
// from the object's LastModified header.
func (s *S3Store) Get(ctx context.Context, userID string) (*Document, error) {
	key := storageKey(userID)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting backup object: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading backup object: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, fmt.Errorf("decoding backup object: %w", err)
	}
	if out.LastModified != nil {
		doc.UpdatedAt = *out.LastModified
	}
	return doc, nil
}

// Put replaces the user's backup object. The write time comes from a
// HeadObject issued after the put; if the head fails the zero time is
// returned and the caller falls back to its own clock.
func (s *S3Store) Put(ctx context.Context, userID string, doc *Document) (time.Time, error) {
	key := storageKey(userID)

	body, err := json.Marshal(doc)
	if err != nil {
		return time.Time{}, fmt.Errorf("encoding backup object: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("putting backup object: %w", err)
	}

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil || head.LastModified == nil {
		return time.Time{}, nil
	}
	return *head.LastModified, nil
}
