package databases

// go generate: mockery --name RoomDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/founderhub/warroom-api/models"
)

const roomCollectionName = "warrooms"

// RoomDatabase contains the methods to use with the warroom database
type RoomDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Room, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Room, error)
	InsertOne(ctx context.Context, room models.Room, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type roomDatabase struct {
	db DatabaseHelper
}

// NewRoomDatabase initializes a new instance of room database with the provided db connection
func NewRoomDatabase(db DatabaseHelper) RoomDatabase {
	return &roomDatabase{
		db: db,
	}
}

func (r *roomDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Room, error) {
	room := &models.Room{}
	err := r.db.Collection(roomCollectionName).FindOne(ctx, filter).Decode(&room)
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Room, error) {
	cursor, err := r.db.Collection(roomCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var rooms []models.Room
	if err := cursor.Decode(&rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomDatabase) InsertOne(ctx context.Context, room models.Room, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := r.db.Collection(roomCollectionName).InsertOne(ctx, room, opts...)
	return res, err
}

func (r *roomDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return r.db.Collection(roomCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (r *roomDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return r.db.Collection(roomCollectionName).UpdateMany(ctx, filter, update, opts...)
}

func (r *roomDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return r.db.Collection(roomCollectionName).CountDocuments(ctx, filter, opts...)
}
