package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dispatchqa/internal/model"
)

type CallRepo interface {
	Create(ctx context.Context, call *model.Call) error
	GetByID(ctx context.Context, id string) (*model.Call, error)
	GetAll(ctx context.Context) ([]*model.Call, error)
	GetByStatus(ctx context.Context, status model.CallStatus) ([]*model.Call, error)
	GetByDispatcher(ctx context.Context, dispatcher string) ([]*model.Call, error)
	Recent(ctx context.Context, limit int) ([]*model.Call, error)
	Update(ctx context.Context, call *model.Call) error
	UpdateStatus(ctx context.Context, id string, status model.CallStatus) error
	SetTranscript(ctx context.Context, id, transcript string) error
	CountByType(ctx context.Context) ([]model.TypeCount, error)
	Delete(ctx context.Context, id string) error
}

type callRepo struct {
	collection *mongo.Collection
}

func NewCallRepo(db *mongo.Database) CallRepo {
	return &callRepo{
		collection: db.Collection("calls"),
	}
}

func (r *callRepo) Create(ctx context.Context, call *model.Call) error {
	if call.ID == "" {
		call.ID = primitive.NewObjectID().Hex()
	}
	if call.Submitted.IsZero() {
		call.Submitted = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, call)
	return err
}

func (r *callRepo) GetByID(ctx context.Context, id string) (*model.Call, error) {
	var call model.Call
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&call)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &call, nil
}

func (r *callRepo) GetAll(ctx context.Context) ([]*model.Call, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.M{"submitted": -1}))
}

func (r *callRepo) GetByStatus(ctx context.Context, status model.CallStatus) ([]*model.Call, error) {
	return r.find(ctx, bson.M{"status": status}, options.Find().SetSort(bson.M{"submitted": -1}))
}

func (r *callRepo) GetByDispatcher(ctx context.Context, dispatcher string) ([]*model.Call, error) {
	return r.find(ctx, bson.M{"dispatcher": dispatcher}, options.Find().SetSort(bson.M{"submitted": -1}))
}

func (r *callRepo) Recent(ctx context.Context, limit int) ([]*model.Call, error) {
	opts := options.Find().SetSort(bson.M{"submitted": -1}).SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *callRepo) Update(ctx context.Context, call *model.Call) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": call.ID}, call)
	return err
}

func (r *callRepo) UpdateStatus(ctx context.Context, id string, status model.CallStatus) error {
	update := bson.M{"$set": bson.M{"status": status}}
	if status == model.CallProcessed || status == model.CallFailed {
		update = bson.M{"$set": bson.M{"status": status, "processed": time.Now()}}
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *callRepo) SetTranscript(ctx context.Context, id, transcript string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"transcript": transcript},
	})
	return err
}

func (r *callRepo) CountByType(ctx context.Context) ([]model.TypeCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$callType", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []model.TypeCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *callRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *callRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*model.Call, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var calls []*model.Call
	if err = cursor.All(ctx, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}
