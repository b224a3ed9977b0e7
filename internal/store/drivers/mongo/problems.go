package mongo

import (
	"context"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type problemsRepo struct {
	coll *mongo.Collection
}

func (r *problemsRepo) CreateProblem(ctx context.Context, p domain.Problem) error {
	_, err := r.coll.InsertOne(ctx, toProblemDoc(p))
	return mapError(err)
}

func (r *problemsRepo) GetProblemByID(ctx context.Context, id string) (domain.Problem, error) {
	var doc problemDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return domain.Problem{}, mapError(err)
	}
	return mapProblem(doc), nil
}

func (r *problemsRepo) UpdateProblem(ctx context.Context, p domain.Problem) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, toProblemDoc(p))
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *problemsRepo) DeleteProblem(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *problemsRepo) ListProblems(ctx context.Context) ([]domain.Problem, error) {
	return r.list(ctx, bson.M{})
}

func (r *problemsRepo) ListProblemsByIDs(ctx context.Context, ids []string) ([]domain.Problem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *problemsRepo) list(ctx context.Context, filter bson.M) ([]domain.Problem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var docs []problemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError(err)
	}

	problems := make([]domain.Problem, 0, len(docs))
	for _, d := range docs {
		problems = append(problems, mapProblem(d))
	}
	return problems, nil
}
