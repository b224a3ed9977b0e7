package mongo

import (
	"context"
	"time"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type usersRepo struct {
	coll *mongo.Collection
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.coll.InsertOne(ctx, toUserDoc(u))
	return mapError(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return domain.User{}, mapError(err)
	}
	return mapUser(doc), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, emailID string) (domain.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"email_id": emailID}).Decode(&doc)
	if err != nil {
		return domain.User{}, mapError(err)
	}
	return mapUser(doc), nil
}

func (r *usersRepo) UpdateProfileImage(ctx context.Context, userID, image string) (domain.User, error) {
	update := bson.M{"$set": bson.M{
		"profile_image": image,
		"updated_at":    time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&doc)
	if err != nil {
		return domain.User{}, mapError(err)
	}
	return mapUser(doc), nil
}

func (r *usersRepo) AddSolvedProblem(ctx context.Context, userID, problemID string) error {
	update := bson.M{
		"$addToSet": bson.M{"problems_solved": problemID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
