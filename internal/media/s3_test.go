package media

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		Bucket:    "editorials",
		AccessKey: "minio",
		SecretKey: "minio123",
	}
}

func TestS3Store_PresignUpload(t *testing.T) {
	ctx := context.Background()

	s, err := NewS3Store(ctx, testConfig())
	require.NoError(t, err)

	// Presigning is pure signing, no network round trip.
	signed, err := s.PresignUpload(ctx, "videos/p1/take1.mp4")
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", u.Host)
	require.True(t, strings.Contains(u.Path, "editorials"))
	require.True(t, strings.Contains(u.Path, "videos/p1/take1.mp4"))
	require.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	require.NotEmpty(t, u.Query().Get("X-Amz-Expires"))
}

func TestS3Store_ObjectURL(t *testing.T) {
	ctx := context.Background()

	t.Run("custom endpoint", func(t *testing.T) {
		s, err := NewS3Store(ctx, testConfig())
		require.NoError(t, err)
		require.Equal(t, "http://127.0.0.1:9000/editorials/videos/p1/take1.mp4",
			s.ObjectURL("videos/p1/take1.mp4"))
	})

	t.Run("public base url wins", func(t *testing.T) {
		cfg := testConfig()
		cfg.PublicBaseURL = "https://cdn.example.com/"
		s, err := NewS3Store(ctx, cfg)
		require.NoError(t, err)
		require.Equal(t, "https://cdn.example.com/videos/p1/take1.mp4",
			s.ObjectURL("videos/p1/take1.mp4"))
	})

	t.Run("aws default", func(t *testing.T) {
		cfg := testConfig()
		cfg.Endpoint = ""
		s, err := NewS3Store(ctx, cfg)
		require.NoError(t, err)
		require.Equal(t, "https://editorials.s3.us-east-1.amazonaws.com/videos/p1/take1.mp4",
			s.ObjectURL("videos/p1/take1.mp4"))
	})
}
