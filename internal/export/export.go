// Package export backs up a user's recipes to an S3-compatible object
// store. The document is uploaded through a presigned PUT URL and handed
// back as a presigned GET URL, so the caller never holds store
// credentials beyond the presigner itself.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/models"
	"github.com/dmitrijs2005/recipebox/internal/netx"
)

// LinkTTL is how long presigned URLs stay valid.
const LinkTTL = 15 * time.Minute

// Test seams for the AWS constructors.
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newS3PresignClient    = func(c *s3.Client) *s3.PresignClient { return s3.NewPresignClient(c) }
)

// Presigner is the subset of *s3.PresignClient used by Exporter.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Settings locate the object store.
type Settings struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// NewPresignClient builds an S3 presign client with static credentials and
// path-style addressing, which MinIO requires.
func NewPresignClient(ctx context.Context, s Settings) (*s3.PresignClient, error) {
	if s.Bucket == "" {
		return nil, fmt.Errorf("%w: export bucket is not set", common.ErrConfiguration)
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
		}
		o.UsePathStyle = true
	})
	return newS3PresignClient(client), nil
}

// Document is the exported JSON shape.
type Document struct {
	OwnerID    string          `json:"owner_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Count      int             `json:"count"`
	Recipes    []models.Recipe `json:"recipes"`
}

// Result names the stored object and a time-limited download link.
type Result struct {
	Key         string
	DownloadURL string
	Count       int
}

type Exporter struct {
	presigner Presigner
	bucket    string
	http      *http.Client
	logger    logging.Logger
	now       func() time.Time
}

// New returns an Exporter writing into bucket. A nil http client means
// http.DefaultClient.
func New(p Presigner, bucket string, hc *http.Client, logger logging.Logger) *Exporter {
	return &Exporter{
		presigner: p,
		bucket:    bucket,
		http:      hc,
		logger:    logger.With("module", "export"),
		now:       time.Now,
	}
}

// StorageKey returns a fresh object key under the user's export prefix.
func StorageKey(userID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", userID, t.Year(), t.Month(), t.Day(), uuid.New())
}

// Export serialises recipes, uploads them and returns a download link.
// Every recipe must belong to userID.
func (e *Exporter) Export(ctx context.Context, userID string, recipes []models.Recipe) (Result, error) {
	if userID == "" {
		return Result{}, common.ErrorUnauthorized
	}
	for _, r := range recipes {
		if r.OwnerID != userID {
			return Result{}, errors.New("export: recipe belongs to another user")
		}
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	now := e.now().UTC()
	body, err := json.MarshalIndent(Document{
		OwnerID:    userID,
		ExportedAt: now,
		Count:      len(recipes),
		Recipes:    recipes,
	}, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal export: %w", err)
	}

	key := StorageKey(userID, now)
	bucket := e.bucket
	contentType := "application/json"

	put, err := e.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(LinkTTL))
	if err != nil {
		return Result{}, fmt.Errorf("presign put: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, e.http, put.URL, contentType, body); err != nil {
		e.logger.Error(ctx, "export upload failed", "key", key, "error", err)
		return Result{}, err
	}

	get, err := e.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(LinkTTL))
	if err != nil {
		return Result{}, fmt.Errorf("presign get: %w", err)
	}

	e.logger.Info(ctx, "recipes exported", "key", key, "count", len(recipes))
	return Result{Key: key, DownloadURL: get.URL, Count: len(recipes)}, nil
}
