package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

const defaultS3Region = "us-east-1"

// S3Store implements ports.ObjectStore on an S3-compatible bucket.
type S3Store struct {
	client *minio.Client
	bucket string
	region string
	prefix string

	initOnce sync.Once
	initErr  error
}

// NewS3Store creates an S3Store. The bucket is created on first use when missing.
func NewS3Store(cfg domain.S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, zerr.Wrap(domain.ErrUnsupportedStoreBackend, "s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, zerr.Wrap(domain.ErrUnsupportedStoreBackend, "s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, zerr.Wrap(domain.ErrUnsupportedStoreBackend, "s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultS3Region
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.Secure,
		Region: region,
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to init s3 client"), "endpoint", endpoint)
	}

	prefix := strings.Trim(strings.TrimSpace(cfg.Prefix), "/")
	if prefix != "" {
		prefix += "/"
	}

	return &S3Store{client: client, bucket: bucket, region: region, prefix: prefix}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = zerr.With(zerr.Wrap(err, "failed to check bucket"), "bucket", s.bucket)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			s.initErr = zerr.With(zerr.Wrap(err, "failed to create bucket"), "bucket", s.bucket)
		}
	})
	return s.initErr
}

func (s *S3Store) key(ref domain.Ref) string {
	r := ref.String()
	return s.prefix + r[:2] + "/" + r[2:]
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

// Put uploads data under ref.
func (s *S3Store) Put(ctx context.Context, ref domain.Ref, data []byte) error {
	if _, err := domain.ParseRef(ref.String()); err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err)
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key(ref), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "ref", ref.String())
	}
	return nil
}

// Get downloads the object stored under ref.
func (s *S3Store) Get(ctx context.Context, ref domain.Ref) ([]byte, error) {
	if _, err := domain.ParseRef(ref.String()); err != nil {
		return nil, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.key(ref), minio.GetObjectOptions{})
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "ref", ref.String())
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, zerr.With(zerr.Wrap(domain.ErrObjectNotFound, "s3 store"), "ref", ref.String())
		}
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "ref", ref.String())
	}
	return data, nil
}

// Has stats the object stored under ref.
func (s *S3Store) Has(ctx context.Context, ref domain.Ref) (bool, error) {
	if _, err := domain.ParseRef(ref.String()); err != nil {
		return false, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err)
	}
	if _, err := s.client.StatObject(ctx, s.bucket, s.key(ref), minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "ref", ref.String())
	}
	return true, nil
}

// Delete removes the object stored under ref.
func (s *S3Store) Delete(ctx context.Context, ref domain.Ref) error {
	if _, err := domain.ParseRef(ref.String()); err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreDeleteFailed, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, s.key(ref), minio.RemoveObjectOptions{}); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreDeleteFailed, err), "ref", ref.String())
	}
	return nil
}

// List enumerates every object under the prefix, sorted.
func (s *S3Store) List(ctx context.Context) ([]domain.Ref, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreListFailed, err)
	}

	refs := make([]domain.Ref, 0, 64)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreListFailed, obj.Err), "bucket", s.bucket)
		}
		ref, err := domain.ParseRef(strings.ReplaceAll(strings.TrimPrefix(obj.Key, s.prefix), "/", ""))
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	slices.Sort(refs)
	return refs, nil
}
