package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/founderhub/warroom-api/api/handlers"
	"github.com/founderhub/warroom-api/databases"
	"github.com/founderhub/warroom-api/databases/mocks"
	"github.com/founderhub/warroom-api/models"
)

func TestRoom_JoinRoomHandlerInvalidRole(t *testing.T) {
	conn, roomDB := newRoomConn()
	rm := handlers.Room{DB: roomDB}

	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/join",
		`{"role": "host", "name": "Mallory"}`, "user-9")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeValidationError)
	conn.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestRoom_JoinRoomHandlerRoomClosed(t *testing.T) {
	conn, roomDB := newRoomConn()
	closed := openRoomDetails()
	closed.Status = models.RoomStatusClosed
	conn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(closed))

	rm := handlers.Room{DB: roomDB}
	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/join",
		`{"role": "mentor", "name": "Grace"}`, "user-9")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeRoomClosed)
}

func TestRoom_JoinRoomHandlerAlreadyJoined(t *testing.T) {
	conn, roomDB := newRoomConn()
	conn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(openRoomDetails()))

	rm := handlers.Room{DB: roomDB}
	// user-2 is already a mentor in the room, a second join must not
	// duplicate or overwrite the membership
	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/join",
		`{"role": "investor", "name": "Grace"}`, "user-2")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeAlreadyJoined)
	conn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoom_JoinRoomHandlerCapacityExceeded(t *testing.T) {
	conn, roomDB := newRoomConn()
	full := openRoomDetails()
	for len(full.Participants) < full.MaxParticipants {
		full.Participants = append(full.Participants, models.Participant{UserID: "filler"})
	}
	conn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(full))

	rm := handlers.Room{DB: roomDB}
	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/join",
		`{"role": "supporter", "name": "Lin"}`, "user-9")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeCapacityExceeded)
	conn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoom_JoinRoomHandlerSuccess(t *testing.T) {
	conn, roomDB := newRoomConn()

	joined := openRoomDetails()
	joined.Participants = append(joined.Participants, models.Participant{
		ID: "p2", UserID: "user-9", Name: "Lin", Role: "supporter",
	})

	conn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(openRoomDetails())).Once()
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(joined))

	rm := handlers.Room{DB: roomDB}
	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/join",
		`{"role": "supporter", "name": "Lin"}`, "user-9")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"userID":"user-9"`)
	assert.Contains(t, rr.Body.String(), `"role":"supporter"`)
}

func TestRoom_JoinRoomHandlerResolvesNameFromProfile(t *testing.T) {
	db := &MockDatabaseHelper{}
	roomConn := &mocks.CollectionHelper{}
	userConn := &mocks.CollectionHelper{}
	db.On("Collection", "warrooms").Return(roomConn)
	db.On("Collection", "users").Return(userConn)

	callerID := "65a0cafe595eb9dc05379b11"

	userSR := &mocks.SingleResultHelper{}
	userSR.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = callerID
		(*arg).Details = models.UserDetails{Name: "Grace", Email: "grace@acme.io"}
	})
	userConn.On("FindOne", mock.Anything, mock.Anything).Return(userSR)

	var pushed models.Participant
	roomConn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(openRoomDetails()))
	roomConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).
		Run(func(args mock.Arguments) {
			update := args.Get(2).(bson.M)
			pushed = update["$push"].(bson.M)["room.participants"].(models.Participant)
		})

	rm := handlers.Room{
		DB:  databases.NewRoomDatabase(db),
		UDB: databases.NewUserDatabase(db),
	}
	// no name in the request, so the membership record takes the profile name
	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/join",
		`{"role": "mentor"}`, callerID)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Grace", pushed.Name)
	assert.Equal(t, callerID, pushed.UserID)
}

func TestRoom_JoinRoomHandlerLostRaceOnCapacity(t *testing.T) {
	conn, roomDB := newRoomConn()

	// the pre-check sees a free seat but the guarded update matches nothing,
	// so the conflict is classified off a re-read showing a full room
	full := openRoomDetails()
	for len(full.Participants) < full.MaxParticipants {
		full.Participants = append(full.Participants, models.Participant{UserID: "filler"})
	}

	conn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(openRoomDetails())).Once()
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(full))

	rm := handlers.Room{DB: roomDB}
	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/join",
		`{"role": "founder", "name": "Lin"}`, "user-9")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeCapacityExceeded)
}
