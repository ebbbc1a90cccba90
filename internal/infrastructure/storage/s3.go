package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"contractor-booking/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// S3ProofStorage uploads completion proofs to an S3 compatible bucket.
type S3ProofStorage struct {
	uploader   *s3manager.Uploader
	bucket     string
	folder     string
	publicBase string
	log        *logrus.Logger
}

func NewS3ProofStorage(cfg config.StorageConfig, log *logrus.Logger) (*S3ProofStorage, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	publicBase := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3ProofStorage{
		uploader:   s3manager.NewUploader(sess),
		bucket:     cfg.Bucket,
		folder:     cfg.ProofFolder,
		publicBase: publicBase,
		log:        log,
	}, nil
}

// Store uploads body under {folder}/{appointment}/{timestamp}{ext} and
// returns the public URL of the object.
func (s *S3ProofStorage) Store(ctx context.Context, appointmentID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	key := ProofObjectKey(s.folder, appointmentID, filename, time.Now())

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.log.Warnf("Failed to upload proof for appointment %s: %+v", appointmentID, err)
		return "", fmt.Errorf("upload proof to S3: %w", err)
	}

	return s.publicBase + "/" + key, nil
}

// ProofObjectKey builds the object key of a proof upload.
func ProofObjectKey(folder string, appointmentID uuid.UUID, filename string, at time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, appointmentID.String(), fmt.Sprintf("%d%s", at.UnixNano(), ext))
}
