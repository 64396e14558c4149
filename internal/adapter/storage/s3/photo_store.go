package s3

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	apperrors "user-registration-service/pkg/errors"
)

// ObjectAPI is the subset of the S3 client used by the photo store.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// PresignAPI is the subset of the S3 presign client used by the photo store.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PhotoStore stores user photos as private objects in an S3 bucket.
// Objects are only readable through time-limited presigned URLs; the locator
// returned by Upload is the object key, never a public URL.
type PhotoStore struct {
	client  ObjectAPI
	presign PresignAPI
	bucket  string
	log     *zap.Logger
}

// NewPhotoStore creates a photo store backed by the given S3 client.
func NewPhotoStore(client *awss3.Client, bucket string, log *zap.Logger) *PhotoStore {
	return &PhotoStore{
		client:  client,
		presign: awss3.NewPresignClient(client),
		bucket:  bucket,
		log:     log,
	}
}

// NewPhotoStoreWithAPI creates a photo store over explicit API implementations.
// Used by tests to substitute fakes.
func NewPhotoStoreWithAPI(client ObjectAPI, presign PresignAPI, bucket string, log *zap.Logger) *PhotoStore {
	return &PhotoStore{client: client, presign: presign, bucket: bucket, log: log}
}

// objectKey builds a collision-resistant key from a millisecond timestamp and
// the original file name.
func objectKey(name string) string {
	return fmt.Sprintf("user-photos/%d-%s", time.Now().UnixMilli(), path.Base(name))
}

// Upload stores the photo bytes as a private object and returns its locator.
func (s *PhotoStore) Upload(ctx context.Context, r io.Reader, name, contentType string) (string, error) {
	key := objectKey(name)

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        r,
		ContentType: &contentType,
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		s.log.Error("failed to upload photo", zap.String("key", key), zap.Error(err))
		return "", apperrors.NewUploadError("failed to upload photo to cloud storage", err)
	}

	s.log.Info("photo uploaded", zap.String("key", key))
	return key, nil
}

// Delete removes the object behind the locator. An empty locator is a no-op.
// Callers treat a delete failure as non-fatal.
func (s *PhotoStore) Delete(ctx context.Context, locator string) error {
	if locator == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &locator,
	})
	if err != nil {
		s.log.Error("failed to delete photo", zap.String("key", locator), zap.Error(err))
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	s.log.Info("photo deleted", zap.String("key", locator))
	return nil
}

// SignedURL mints a time-limited read URL for the locator. An empty locator
// yields an empty URL without error.
func (s *PhotoStore) SignedURL(ctx context.Context, locator string, ttl time.Duration) (string, error) {
	if locator == "" {
		return "", nil
	}

	req, err := s.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &locator,
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		s.log.Error("failed to presign photo url", zap.String("key", locator), zap.Error(err))
		return "", fmt.Errorf("failed to presign photo url: %w", err)
	}

	return req.URL, nil
}
