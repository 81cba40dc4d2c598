package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/founderhub/warroom-api/api/handlers"
	"github.com/founderhub/warroom-api/models"
)

func TestRoom_AddResourceHandlerEmptyURL(t *testing.T) {
	conn, roomDB := newRoomConn()
	rm := handlers.Room{DB: roomDB}

	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/resources",
		`{"title": "term sheet template", "url": "  "}`, "user-2")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeValidationError)
	conn.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestRoom_AddResourceHandlerRoomClosed(t *testing.T) {
	conn, roomDB := newRoomConn()
	closed := openRoomDetails()
	closed.Status = models.RoomStatusClosed
	conn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(closed))

	rm := handlers.Room{DB: roomDB}
	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/resources",
		`{"title": "deck", "url": "https://example.com/deck"}`, "user-2")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeRoomClosed)
}

func TestRoom_AddResourceHandlerSuccess(t *testing.T) {
	conn, roomDB := newRoomConn()
	conn.On("FindOne", mock.Anything, mock.Anything).Return(decodeRoom(openRoomDetails()))
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	rm := handlers.Room{DB: roomDB}
	rr := serveRoomRequest(rm, "POST", "/api/v1/warroom/"+testRoomID+"/resources",
		`{"title": "bridge loan primer", "url": "https://example.com/primer"}`, "user-2")

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"url":"https://example.com/primer"`)
	assert.Contains(t, rr.Body.String(), `"addedByID":"user-2"`)
}
