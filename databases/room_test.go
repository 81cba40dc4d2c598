package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/founderhub/warroom-api/databases"
	"github.com/founderhub/warroom-api/databases/mocks"
	"github.com/founderhub/warroom-api/models"
)

func TestNewRoomDatabase(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	roomDB := databases.NewRoomDatabase(db)

	assert.NotEmpty(t, roomDB)
}

func TestRoomDatabase_FindOneError(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	sr := &mocks.SingleResultHelper{}

	sr.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(sr)
	db.On("Collection", "warrooms").Return(conn)

	roomDB := databases.NewRoomDatabase(db)
	room, err := roomDB.FindOne(context.Background(), bson.M{})

	assert.Nil(t, room)
	assert.EqualError(t, err, "mocked-error")
}

func TestRoomDatabase_FindOneSuccess(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	sr := &mocks.SingleResultHelper{}

	sr.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Room)
		(*arg).Details.Title = "Runway down to six weeks"
		(*arg).Details.Status = models.RoomStatusActive
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(sr)
	db.On("Collection", "warrooms").Return(conn)

	roomDB := databases.NewRoomDatabase(db)
	room, err := roomDB.FindOne(context.Background(), bson.M{})

	assert.NoError(t, err)
	assert.Equal(t, "Runway down to six weeks", room.Details.Title)
}

func TestRoomDatabase_FindError(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	db.On("Collection", "warrooms").Return(conn)

	roomDB := databases.NewRoomDatabase(db)
	rooms, err := roomDB.Find(context.Background(), bson.M{})

	assert.Nil(t, rooms)
	assert.EqualError(t, err, "mocked-error")
}

func TestRoomDatabase_FindSuccess(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Room)
		*arg = []models.Room{
			{Details: models.RoomDetails{Title: "Co-founder walked out"}},
			{Details: models.RoomDetails{Title: "Runway down to six weeks"}},
		}
	})
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "warrooms").Return(conn)

	roomDB := databases.NewRoomDatabase(db)
	rooms, err := roomDB.Find(context.Background(), bson.M{})

	assert.NoError(t, err)
	assert.Len(t, rooms, 2)
	assert.Equal(t, "Co-founder walked out", rooms[0].Details.Title)
}

func TestRoomDatabase_UpdateOne(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	db.On("Collection", "warrooms").Return(conn)

	roomDB := databases.NewRoomDatabase(db)
	res, err := roomDB.UpdateOne(context.Background(),
		bson.M{"room.status": models.RoomStatusActive},
		bson.M{"$set": bson.M{"room.isLive": true}})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
}

func TestRoomDatabase_CountDocuments(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(3), nil)
	db.On("Collection", "warrooms").Return(conn)

	roomDB := databases.NewRoomDatabase(db)
	count, err := roomDB.CountDocuments(context.Background(), bson.M{"room.isLive": true})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
