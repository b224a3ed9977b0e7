package domain

import "time"

// VideoSolution is the editorial video attached to a problem. At most one
// per problem; re-uploading replaces the record.
type VideoSolution struct {
	ID        string
	ProblemID string
	ObjectKey string // key in the media store
	SecureURL string // client-facing playback URL
	Duration  float64

	UploadedBy string
	CreatedAt  time.Time
}
