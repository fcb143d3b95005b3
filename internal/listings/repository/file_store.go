package repository

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store saves attachment blobs to an S3 bucket (or MinIO locally) and
// hands back the object key as the stored path.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Store(client *s3.Client, bucket, region string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

// Save uploads one blob under a generated key:
// projects/{fileType}/{year}/{month}/{uuid}{ext}
func (s *S3Store) Save(ctx context.Context, fileType, name, contentType string, data []byte) (string, error) {
	key := s.objectKey(fileType, name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return key, nil
}

// Delete removes one blob by its stored path. Missing objects are not an
// error; the sweep may race a manual cleanup.
func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// URL returns the public URL for a stored path.
func (s *S3Store) URL(path string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, path)
}

func (s *S3Store) objectKey(fileType, name string) string {
	now := time.Now()
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("projects/%s/%s/%s/%s%s",
		fileType, now.Format("2006"), now.Format("01"), uuid.New().String(), ext)
}
