package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"machipower_client/models"
)

// readURLExpiry bounds how long a presigned resume link stays valid.
const readURLExpiry = 5 * time.Minute

// UploadService stores resume attachments in the object store.
type UploadService struct {
	Client *s3.Client
	Bucket string
}

// NewUploadService builds an UploadService for the given bucket.
func NewUploadService(cfg aws.Config, bucket string) *UploadService {
	return &UploadService{Client: s3.NewFromConfig(cfg), Bucket: bucket}
}

// ResumeKey namespaces object keys per user with a timestamp suffix so
// repeated uploads never collide.
func ResumeKey(userID string, now time.Time) string {
	return fmt.Sprintf("%s/resume_%s.pdf", userID, now.Format("20060102150405"))
}

// PutResume uploads a resume for userID and returns the object key. Only
// application/pdf is accepted; anything else is rejected locally with a
// user-visible message and no server round-trip.
func (us *UploadService) PutResume(ctx context.Context, userID, contentType string, body io.Reader) (string, error) {
	if contentType != models.ResumeContentType {
		return "", &ValidationError{Field: "resume", Message: "only PDF resumes are accepted"}
	}

	key := ResumeKey(userID, time.Now().UTC())
	_, err := us.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(us.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(models.ResumeContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload resume %s: %w", key, err)
	}
	return key, nil
}

// ReadURL generates a presigned URL for reading a stored resume.
func (us *UploadService) ReadURL(ctx context.Context, key string) (string, error) {
	presigner := s3.NewPresignClient(us.Client)
	presigned, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(us.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(readURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign read url for %s: %w", key, err)
	}
	return presigned.URL, nil
}
