package client

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MockS3Client implements S3ClientInterface for testing without AWS credentials
type MockS3Client struct {
	Bucket   string
	Region   string
	Endpoint string

	// Optional function overrides for custom test behavior
	GenerateAvatarKeyFunc func(userID, fileName string) (string, error)
	UploadFileFunc        func(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFileFunc        func(ctx context.Context, key string) error
	GetFileURLFunc        func(key string) string
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket: "test-bucket",
		Region: "us-east-1",
	}
}

// GenerateAvatarKey generates a unique avatar key
func (m *MockS3Client) GenerateAvatarKey(userID, fileName string) (string, error) {
	if m.GenerateAvatarKeyFunc != nil {
		return m.GenerateAvatarKeyFunc(userID, fileName)
	}

	if userID == "" {
		return "", fmt.Errorf("user ID is required")
	}

	fileExt := strings.ToLower(path.Ext(fileName))
	if fileExt == "" {
		fileExt = ".png"
	}

	now := time.Now()
	return fmt.Sprintf("avatars/%s/%s/%s/%s_%d%s",
		userID, now.Format("2006"), now.Format("01"), uuid.New().String(), now.UnixNano(), fileExt), nil
}

// UploadFile simulates file upload
func (m *MockS3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, key, file, contentType)
	}
	return m.GetFileURL(key), nil
}

// DeleteFile simulates file deletion
func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

// GetFileURL returns the public URL for a file
func (m *MockS3Client) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}
	if m.Endpoint != "" && !strings.Contains(m.Endpoint, "amazonaws.com") {
		return fmt.Sprintf("%s/%s/%s", m.Endpoint, m.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Ensure MockS3Client implements S3ClientInterface
var _ S3ClientInterface = (*MockS3Client)(nil)
