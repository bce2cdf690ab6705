package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/AbdurRehmanbaig1/paktravel/internal/config"
)

// IStatementStorage archives generated ledger statements.
type IStatementStorage interface {
	UploadStatement(ctx context.Context, phone, filename string, data []byte) (string, error)
}

// s3Storage implements IStatementStorage on AWS S3.
type s3Storage struct {
	cfg      *config.Config
	s3Client *s3.Client
}

// NewS3Storage creates a new S3 statement store.
func NewS3Storage(cfg *config.Config) (IStatementStorage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		// Static credentials from config; prefer IAM roles in production
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3Storage{
		cfg:      cfg,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// UploadStatement writes the statement under a per-client prefix and returns
// the object key. Keys embed a UUID so two uploads on the same day never
// clobber each other.
func (s *s3Storage) UploadStatement(ctx context.Context, phone, filename string, data []byte) (string, error) {
	objectKey := fmt.Sprintf("statements/%s/%s_%s", phone, uuid.NewString(), filename)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload statement %s: %w", objectKey, err)
	}
	return objectKey, nil
}
