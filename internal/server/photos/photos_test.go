package photos

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("image/jpeg", "a.jpg"))
	assert.True(t, IsImage("image/png; charset=binary", "a"))
	assert.True(t, IsImage("", "photo.PNG"))
	assert.True(t, IsImage("application/octet-stream", "photo.webp"))
	assert.False(t, IsImage("text/plain", "a.jpg"))
	assert.False(t, IsImage("", "notes.txt"))
	assert.False(t, IsImage("", "noext"))
}

func TestLocalStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "uploads")
	s, err := NewLocalStore(dir, "uploads")
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	p, err := s.Save(context.Background(), "my house.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000-my_house.jpg", p)

	b, err := os.ReadFile(filepath.Join(dir, "1700000000000-my_house.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(b))

	// same name within the same millisecond gets a suffix
	p2, err := s.Save(context.Background(), "my house.jpg", strings.NewReader("second"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000-my_house-1.jpg", p2)
}

func TestLocalStore_Save_Canceled(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "uploads")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Save(ctx, "a.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorageKey(t *testing.T) {
	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	key := StorageKey(now, "Front Door.JPG")

	re := regexp.MustCompile(`^properties/2024/3/7/[0-9a-f-]{36}\.jpg$`)
	assert.Regexp(t, re, key)
}

func TestS3Store_Save(t *testing.T) {
	orig := putObject
	t.Cleanup(func() { putObject = orig })

	var (
		gotBucket, gotKey, gotType string
		gotBody                    []byte
	)
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput) error {
		gotBucket = aws.ToString(in.Bucket)
		gotKey = aws.ToString(in.Key)
		gotType = aws.ToString(in.ContentType)
		b, err := io.ReadAll(in.Body)
		gotBody = b
		return err
	}

	s, err := NewS3Store(context.Background(), S3Config{
		Bucket:       "photos",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
		AccessKey:    "minio",
		SecretKey:    "minio123",
	})
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }

	url, err := s.Save(context.Background(), "kitchen.png", strings.NewReader("png"))
	require.NoError(t, err)

	assert.Equal(t, "photos", gotBucket)
	assert.True(t, strings.HasPrefix(gotKey, "properties/2024/1/2/"))
	assert.True(t, strings.HasSuffix(gotKey, ".png"))
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "png", string(gotBody))
	assert.Equal(t, "http://127.0.0.1:9000/photos/"+gotKey, url)
}

func TestS3Store_PublicURLAndErrors(t *testing.T) {
	orig := putObject
	t.Cleanup(func() { putObject = orig })
	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput) error {
		return assert.AnError
	}

	s, err := NewS3Store(context.Background(), S3Config{
		Bucket:    "photos",
		Region:    "eu-west-1",
		AccessKey: "k",
		SecretKey: "s",
		PublicURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com", s.publicURL)

	_, err = s.Save(context.Background(), "a.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, assert.AnError)

	_, err = NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}

func TestLocalStore_Delete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "uploads")
	require.NoError(t, err)

	p, err := s.Save(ctx, "a.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, p))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// already gone
	assert.NoError(t, s.Delete(ctx, p))

	for _, ref := range []string{"/images/a.jpg", "/uploads/", "/uploads/../data/users.json", "https://cdn/x.jpg"} {
		assert.ErrorIs(t, s.Delete(ctx, ref), ErrForeignRef, ref)
	}
}

func TestS3Store_Delete(t *testing.T) {
	orig := deleteObject
	t.Cleanup(func() { deleteObject = orig })

	var gotBucket, gotKey string
	deleteObject = func(_ *s3.Client, _ context.Context, in *s3.DeleteObjectInput) error {
		gotBucket = aws.ToString(in.Bucket)
		gotKey = aws.ToString(in.Key)
		return nil
	}

	s, err := NewS3Store(context.Background(), S3Config{
		Bucket:    "photos",
		Region:    "us-east-1",
		AccessKey: "k",
		SecretKey: "s",
		PublicURL: "https://cdn.example.com",
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "https://cdn.example.com/properties/2024/1/2/x.jpg"))
	assert.Equal(t, "photos", gotBucket)
	assert.Equal(t, "properties/2024/1/2/x.jpg", gotKey)

	assert.ErrorIs(t, s.Delete(context.Background(), "/uploads/x.jpg"), ErrForeignRef)

	deleteObject = func(*s3.Client, context.Context, *s3.DeleteObjectInput) error { return assert.AnError }
	assert.ErrorIs(t, s.Delete(context.Background(), "https://cdn.example.com/k.jpg"), assert.AnError)
}
