package mongo

import (
	"context"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type videosRepo struct {
	coll *mongo.Collection
}

func (r *videosRepo) UpsertVideo(ctx context.Context, v domain.VideoSolution) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"problem_id": v.ProblemID}, toVideoDoc(v), opts)
	return mapError(err)
}

func (r *videosRepo) GetVideoByProblemID(ctx context.Context, problemID string) (domain.VideoSolution, error) {
	var doc videoDoc
	err := r.coll.FindOne(ctx, bson.M{"problem_id": problemID}).Decode(&doc)
	if err != nil {
		return domain.VideoSolution{}, mapError(err)
	}
	return mapVideo(doc), nil
}

func (r *videosRepo) DeleteVideoByProblemID(ctx context.Context, problemID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"problem_id": problemID})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
