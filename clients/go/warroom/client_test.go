package warroom_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/founderhub/warroom-api/clients/go/warroom"
	"github.com/founderhub/warroom-api/models"
)

func TestClient_LoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/token", r.URL.Path)
		email, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ada@acme.io", email)
		assert.Equal(t, "hunter2", password)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123", "_id": "user-1"})
	}))
	defer srv.Close()

	c := warroom.NewClient(srv.URL)
	err := c.Login("ada@acme.io", "hunter2")

	assert.NoError(t, err)
	assert.Equal(t, "tok-123", c.Token)
}

func TestClient_GetRoomSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(models.Room{
			Details: models.RoomDetails{Title: "Runway down to six weeks", IsLive: true},
		})
	}))
	defer srv.Close()

	c := warroom.NewClient(srv.URL)
	c.Token = "tok-123"

	room, err := c.GetRoom("608cafe595eb9dc05379b7f4")

	assert.NoError(t, err)
	assert.Equal(t, "Runway down to six weeks", room.Details.Title)
	assert.True(t, room.Details.IsLive)
}

func TestClient_ErrorCodeSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{
			Success: false,
			Error:   "this session has ended",
			Code:    models.CodeRoomClosed,
		})
	}))
	defer srv.Close()

	c := warroom.NewClient(srv.URL)
	_, err := c.SendMessage("608cafe595eb9dc05379b7f4", "too late", "chat")

	assert.Error(t, err)
	assert.Equal(t, models.CodeRoomClosed, warroom.ErrorCode(err))

	apiErr, ok := err.(*warroom.APIError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "this session has ended")
}

func TestClient_ErrorCodeEmptyForPlainErrors(t *testing.T) {
	assert.Equal(t, "", warroom.ErrorCode(nil))
	assert.Equal(t, "", warroom.ErrorCode(assert.AnError))
}

func TestClient_ListRoomsBuildsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]models.Room{})
	}))
	defer srv.Close()

	c := warroom.NewClient(srv.URL)
	live := true
	rooms, err := c.ListRooms(warroom.RoomFilter{Status: "active", Live: &live, Limit: 10, Page: 2})

	assert.NoError(t, err)
	assert.Empty(t, rooms)
	assert.Contains(t, gotQuery, "status=active")
	assert.Contains(t, gotQuery, "live=true")
	assert.Contains(t, gotQuery, "limit=10")
	assert.Contains(t, gotQuery, "page=2")
}

func TestClient_JoinRoomReturnsSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/warroom/abc/join", r.URL.Path)

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "mentor", body["role"])

		_ = json.NewEncoder(w).Encode(models.Room{
			Details: models.RoomDetails{
				Participants: []models.Participant{
					{UserID: "host-1", Role: "host"},
					{UserID: "user-2", Role: "mentor"},
				},
			},
		})
	}))
	defer srv.Close()

	c := warroom.NewClient(srv.URL)
	room, err := c.JoinRoom("abc", "mentor", "Grace")

	assert.NoError(t, err)
	assert.Len(t, room.Details.Participants, 2)
}

func TestClient_JoinVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/warroom/abc/video/join", r.URL.Path)
		_ = json.NewEncoder(w).Encode(warroom.VideoSession{
			SessionName: "warroom-abc",
			DisplayName: "Grace",
			Token:       "signed-token",
		})
	}))
	defer srv.Close()

	c := warroom.NewClient(srv.URL)
	session, err := c.JoinVideo("abc", "Grace")

	assert.NoError(t, err)
	assert.Equal(t, "warroom-abc", session.SessionName)
	assert.Equal(t, "signed-token", session.Token)
}
