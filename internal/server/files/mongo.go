package files

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/server/models"
)

// MongoRepository persists file metadata in the "files" collection.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection("files")}
}

func (r *MongoRepository) Insert(ctx context.Context, file *models.File) (*models.File, error) {
	res, err := r.coll.InsertOne(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	file.ID = res.InsertedID.(primitive.ObjectID)
	return file, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) GetByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.File, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": owner})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.File, error) {
	file := &models.File{}
	err := r.coll.FindOne(ctx, filter).Decode(file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *MongoRepository) List(ctx context.Context, owner primitive.ObjectID, parentID string, page int64) ([]*models.File, error) {
	filter := bson.M{"userId": owner}
	if parentID != "" {
		filter["parentId"] = parentID
	}

	// insertion order is the store's natural order; no explicit sort
	opts := options.Find().SetSkip(page * PageSize).SetLimit(PageSize)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]*models.File, 0, PageSize)
	for cursor.Next(ctx) {
		file := &models.File{}
		if err := cursor.Decode(file); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, file)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *MongoRepository) SetVisibility(ctx context.Context, id, owner primitive.ObjectID, isPublic bool) (*models.File, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"isPublic": isPublic}}

	file := &models.File{}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": owner}, update, opts).Decode(file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
