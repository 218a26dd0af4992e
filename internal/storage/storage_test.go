package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"my photo (1).JPG":    "my_photo__1_.jpg",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\pic.png`: "pic.png",
		"crème brûlée.png":    "crème_brûlée.png",
		".png":                "image.png",
		"noext":               "noext",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestRecipeImageKeyUsesRecipeID(t *testing.T) {
	author := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	recipe := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	key := RecipeImageKey(author, recipe, "Tomato soup!.png")
	assert.Equal(t, "11111111-1111-1111-1111-111111111111/recipe/22222222-2222-2222-2222-222222222222/Tomato_soup_.png", key)

	assert.Equal(t, "11111111-1111-1111-1111-111111111111/profile/me.jpg", ProfilePictureKey(author, "me.jpg"))
}

func TestDetectImage(t *testing.T) {
	mt, err := DetectImage(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)

	_, err = DetectImage([]byte("just some text"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "a/recipe/b/pic.png", "image/png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "/media/a/recipe/b/pic.png", url)

	data, err := os.ReadFile(filepath.Join(root, "a", "recipe", "b", "pic.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, store.Delete(ctx, "a/recipe/b/pic.png"))
	_, err = os.Stat(filepath.Join(root, "a", "recipe", "b", "pic.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "a/recipe/b/pic.png"))

	_, err = store.Put(ctx, "../escape.png", "image/png", pngHeader)
	assert.Error(t, err)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3StorePut(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "media" && *in.Key == "u/recipe/r/pic.png" && *in.ContentType == "image/png"
	})).Return(nil)

	store := NewS3StoreWithClient(client, "media", "")
	url, err := store.Put(context.Background(), "u/recipe/r/pic.png", "image/png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "https://media.s3.amazonaws.com/u/recipe/r/pic.png", url)
	client.AssertExpectations(t)
}

func TestS3StoreCustomBaseURLAndErrors(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(errors.New("boom"))
	client.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)

	store := NewS3StoreWithClient(client, "media", "http://minio:9000/media/")
	_, err := store.Put(context.Background(), "k.png", "image/png", pngHeader)
	assert.ErrorContains(t, err, "failed to upload to S3")
	assert.Equal(t, "http://minio:9000/media/k.png", store.url("k.png"))

	assert.NoError(t, store.Delete(context.Background(), "k.png"))
}
