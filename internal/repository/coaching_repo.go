package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dispatchqa/internal/model"
)

type CoachingRepo interface {
	Create(ctx context.Context, task *model.CoachingTask) error
	GetByID(ctx context.Context, id string) (*model.CoachingTask, error)
	GetAll(ctx context.Context) ([]*model.CoachingTask, error)
	GetByStatus(ctx context.Context, status model.CoachingStatus) ([]*model.CoachingTask, error)
	GetByCallTaker(ctx context.Context, callTakerID string) ([]*model.CoachingTask, error)
	Update(ctx context.Context, task *model.CoachingTask) error
	Delete(ctx context.Context, id string) error
}

type coachingRepo struct {
	collection *mongo.Collection
}

func NewCoachingRepo(db *mongo.Database) CoachingRepo {
	return &coachingRepo{
		collection: db.Collection("coaching_tasks"),
	}
}

func (r *coachingRepo) Create(ctx context.Context, task *model.CoachingTask) error {
	if task.ID == "" {
		task.ID = "ct-" + uuid.NewString()
	}
	if task.CreatedDate.IsZero() {
		task.CreatedDate = time.Now()
	}
	if task.Status == "" {
		task.Status = model.CoachingPending
	}

	_, err := r.collection.InsertOne(ctx, task)
	return err
}

func (r *coachingRepo) GetByID(ctx context.Context, id string) (*model.CoachingTask, error) {
	var task model.CoachingTask
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *coachingRepo) GetAll(ctx context.Context) ([]*model.CoachingTask, error) {
	return r.find(ctx, bson.M{})
}

func (r *coachingRepo) GetByStatus(ctx context.Context, status model.CoachingStatus) ([]*model.CoachingTask, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *coachingRepo) GetByCallTaker(ctx context.Context, callTakerID string) ([]*model.CoachingTask, error) {
	return r.find(ctx, bson.M{"callTakerId": callTakerID})
}

func (r *coachingRepo) Update(ctx context.Context, task *model.CoachingTask) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	return err
}

func (r *coachingRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *coachingRepo) find(ctx context.Context, filter bson.M) ([]*model.CoachingTask, error) {
	opts := options.Find().SetSort(bson.M{"dueDate": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*model.CoachingTask
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
