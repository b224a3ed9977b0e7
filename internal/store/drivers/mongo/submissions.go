package mongo

import (
	"context"

	"github.com/codemasterhq/codemaster/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type submissionsRepo struct {
	coll *mongo.Collection
}

func (r *submissionsRepo) CreateSubmission(ctx context.Context, s domain.Submission) error {
	_, err := r.coll.InsertOne(ctx, toSubmissionDoc(s))
	return mapError(err)
}

func (r *submissionsRepo) ListUserSubmissions(ctx context.Context, userID, problemID string) ([]domain.Submission, error) {
	filter := bson.M{"user_id": userID, "problem_id": problemID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var docs []submissionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError(err)
	}

	subs := make([]domain.Submission, 0, len(docs))
	for _, d := range docs {
		subs = append(subs, mapSubmission(d))
	}
	return subs, nil
}

func (r *submissionsRepo) DeleteUserSubmissions(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return mapError(err)
}
