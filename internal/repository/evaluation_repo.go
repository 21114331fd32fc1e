package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dispatchqa/internal/model"
)

// EvaluationRepo persists the committed answer map per call. One document
// per call, keyed by call id.
type EvaluationRepo interface {
	GetByCallID(ctx context.Context, callID string) (*model.Evaluation, error)
	Upsert(ctx context.Context, eval *model.Evaluation) error
	GetAll(ctx context.Context) ([]*model.Evaluation, error)
	Delete(ctx context.Context, callID string) error
}

type evaluationRepo struct {
	collection *mongo.Collection
}

func NewEvaluationRepo(db *mongo.Database) EvaluationRepo {
	return &evaluationRepo{
		collection: db.Collection("evaluations"),
	}
}

func (r *evaluationRepo) GetByCallID(ctx context.Context, callID string) (*model.Evaluation, error) {
	var eval model.Evaluation
	err := r.collection.FindOne(ctx, bson.M{"_id": callID}).Decode(&eval)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &eval, nil
}

func (r *evaluationRepo) Upsert(ctx context.Context, eval *model.Evaluation) error {
	eval.UpdatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": eval.CallID}, eval, opts)
	return err
}

func (r *evaluationRepo) GetAll(ctx context.Context) ([]*model.Evaluation, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var evals []*model.Evaluation
	if err = cursor.All(ctx, &evals); err != nil {
		return nil, err
	}
	return evals, nil
}

func (r *evaluationRepo) Delete(ctx context.Context, callID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": callID})
	return err
}
