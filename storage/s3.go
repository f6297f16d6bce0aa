package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/sirupsen/logrus"

	"voicedesk/config"
)

var (
	ErrNoDataTransfered = errors.New("no data transfered")
)

// S3 copies generated audio into a bucket.
type S3 struct {
	Bucket string
	Prefix string

	sess *session.Session
}

func NewS3(cfg config.S3) (*S3, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing env var S3_HOSTNAME")
	}
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("missing env var S3_ACCESS")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("missing env var S3_SECRET")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.Region),
		Endpoint:    aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to s3; %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"endpoint": cfg.Endpoint,
		"region":   cfg.Region,
		"access":   prefix(cfg.AccessKey, 4),
		"bucket":   cfg.Bucket,
		"prefix":   cfg.Prefix,
	}).Infoln("s3 configuration")

	return &S3{
		Bucket: cfg.Bucket,
		Prefix: cfg.Prefix,
		sess:   sess,
	}, nil
}

// Key is the object key a local file is mirrored to.
func (s *S3) Key(path string) string {
	return s.Prefix + filepath.Base(path)
}

// Mirror uploads the file at path under its base name.
func (s *S3) Mirror(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s; %w", path, err)
	}
	defer f.Close()

	return s.StreamUpload(ctx, f, s.Key(path))
}

// StreamUpload streams data to S3 in chunks.
func (s *S3) StreamUpload(ctx context.Context, stream io.Reader, key string) error {
	uploader := s3manager.NewUploader(s.sess)
	_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   stream,
	}, func(u *s3manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024 // 10MB part size
		u.LeavePartsOnError = false   // on fail delete garbage
	})
	if err != nil {
		return fmt.Errorf("failed putobject; %w", err)
	}

	exists, err := s.KeyExists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check put succeeded; %w", err)
	}
	if !exists {
		return ErrNoDataTransfered
	}
	return nil
}

func (s *S3) KeyExists(ctx context.Context, key string) (bool, error) {
	out, err := s3.New(s.sess).HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return false, nil
			default:
				return false, fmt.Errorf("failed to headobject; %w", err)
			}
		}
		return false, fmt.Errorf("failed to headobject not a awserr; %w", err)
	}
	// don't count a key as 'existing' if its 0 bytes
	if out.ContentLength != nil && *out.ContentLength == 0 {
		return false, nil
	}
	return true, nil
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
