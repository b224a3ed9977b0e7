package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/media"
	"github.com/codemasterhq/codemaster/internal/store"
	"github.com/codemasterhq/codemaster/pkg/idx"
	"github.com/codemasterhq/codemaster/pkg/slogx"
)

// VideoService manages editorial videos. Uploads go straight from the
// admin's browser to object storage via a presigned URL; the service only
// brokers the grant and records metadata once the upload is confirmed.
type VideoService struct {
	store store.Store
	media media.Store

	now func() time.Time
}

func NewVideoService(st store.Store, ms media.Store) *VideoService {
	return &VideoService{
		store: st,
		media: ms,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// UploadGrant is a one-shot permission to upload an editorial video.
type UploadGrant struct {
	UploadURL string
	ObjectKey string
}

// CreateUploadGrant presigns an upload slot for the problem's editorial.
func (s *VideoService) CreateUploadGrant(ctx context.Context, problemID string) (UploadGrant, error) {
	if _, err := s.store.Problems().GetProblemByID(ctx, problemID); err != nil {
		return UploadGrant{}, err
	}

	key := fmt.Sprintf("editorials/%s/%s.mp4", problemID, idx.New())
	uploadURL, err := s.media.PresignUpload(ctx, key)
	if err != nil {
		return UploadGrant{}, err
	}
	return UploadGrant{UploadURL: uploadURL, ObjectKey: key}, nil
}

type SaveVideoInput struct {
	ProblemID string
	ObjectKey string
	Duration  float64
}

// SaveVideo records an uploaded editorial. Re-saving a problem's editorial
// replaces the previous record.
func (s *VideoService) SaveVideo(ctx context.Context, in SaveVideoInput, uploadedBy string) (domain.VideoSolution, error) {
	v := domain.VideoSolution{
		ID:         idx.New().String(),
		ProblemID:  in.ProblemID,
		ObjectKey:  in.ObjectKey,
		SecureURL:  s.media.ObjectURL(in.ObjectKey),
		Duration:   in.Duration,
		UploadedBy: uploadedBy,
		CreatedAt:  s.now(),
	}

	if err := s.store.Videos().UpsertVideo(ctx, v); err != nil {
		return domain.VideoSolution{}, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "editorial saved",
		slog.String("problem_id", in.ProblemID),
		slog.String("object_key", in.ObjectKey))
	return v, nil
}

// DeleteVideo removes the editorial record and its stored object.
func (s *VideoService) DeleteVideo(ctx context.Context, problemID string) error {
	v, err := s.store.Videos().GetVideoByProblemID(ctx, problemID)
	if err != nil {
		return err
	}

	if err := s.store.Videos().DeleteVideoByProblemID(ctx, problemID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if err := s.media.Delete(ctx, v.ObjectKey); err != nil {
		// Metadata is gone, so the editorial is unpublished either way.
		// The orphaned object is logged for manual cleanup.
		slogx.FromContext(ctx).ErrorContext(ctx, "failed to delete editorial object",
			slog.String("object_key", v.ObjectKey),
			slog.String("error", err.Error()))
	}
	return nil
}
