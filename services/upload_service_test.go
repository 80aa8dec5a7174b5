package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Non-PDF uploads are rejected locally with no server round-trip: the nil S3
// client would panic if one were attempted.
func TestPutResumeRejectsNonPDF(t *testing.T) {
	uploads := &UploadService{Bucket: "bucket"}

	var validation *ValidationError
	for _, contentType := range []string{"image/png", "text/plain", "", "application/msword"} {
		_, err := uploads.PutResume(context.Background(), "u1", contentType, strings.NewReader("data"))
		require.ErrorAs(t, err, &validation, contentType)
	}
}

func TestResumeKeyNamespacing(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, "u1/resume_20250601123045.pdf", ResumeKey("u1", at))

	// Distinct timestamps never collide for the same user.
	assert.NotEqual(t, ResumeKey("u1", at), ResumeKey("u1", at.Add(time.Second)))
}
