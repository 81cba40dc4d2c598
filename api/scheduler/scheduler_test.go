package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/founderhub/warroom-api/databases"
	"github.com/founderhub/warroom-api/databases/mocks"
	"github.com/founderhub/warroom-api/models"
)

func newSchedulerWithMocks() (*Scheduler, *mocks.CollectionHelper, *mocks.CollectionHelper) {
	db := &mocks.DatabaseHelper{}
	roomConn := &mocks.CollectionHelper{}
	userConn := &mocks.CollectionHelper{}
	db.On("Collection", "warrooms").Return(roomConn)
	db.On("Collection", "users").Return(userConn)

	s := NewScheduler(databases.NewRoomDatabase(db), databases.NewUserDatabase(db))
	return s, roomConn, userConn
}

func TestGoLiveSweepNoDueRooms(t *testing.T) {
	s, roomConn, _ := newSchedulerWithMocks()

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil)
	roomConn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)

	s.goLiveSweep()

	roomConn.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestGoLiveSweepFlipsDueRooms(t *testing.T) {
	s, roomConn, userConn := newSchedulerWithMocks()

	due := models.Room{
		ID: primitive.NewObjectID(),
		Details: models.RoomDetails{
			Title:  "Runway down to six weeks",
			Status: models.RoomStatusActive,
			HostID: primitive.NewObjectID().Hex(),
		},
	}

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Room)
		*arg = []models.Room{due}
	})
	roomConn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	roomConn.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	// the host lookup fails, so the sweep flips the room but sends no email
	sr := &mocks.SingleResultHelper{}
	sr.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	userConn.On("FindOne", mock.Anything, mock.Anything).Return(sr)

	s.goLiveSweep()

	roomConn.AssertCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
	userConn.AssertCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestGoLiveSweepFindError(t *testing.T) {
	s, roomConn, _ := newSchedulerWithMocks()

	roomConn.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	s.goLiveSweep()

	roomConn.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestSchedulerStartStop(t *testing.T) {
	s, _, _ := newSchedulerWithMocks()

	s.Start()
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}
