package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/founderhub/warroom-api/api"
	"github.com/founderhub/warroom-api/config"
	"github.com/founderhub/warroom-api/models"
)

type addResourceRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AddResourceHandler appends a shared link to the room resource board. The
// url is treated as an opaque string; reachability is not checked.
func (rm Room) AddResourceHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.CallerID(r)
	roomID := mux.Vars(r)["room_id"]

	var req addResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		config.ErrorCode("resource url must not be empty", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}

	_, rID, ok := rm.loadOpenRoomForCaller(w, caller, roomID)
	if !ok {
		return
	}

	resource := models.Resource{
		ID:        primitive.NewObjectID().Hex(),
		Title:     strings.TrimSpace(req.Title),
		URL:       req.URL,
		AddedByID: caller,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	update := bson.M{
		"$push": bson.M{"room.resources": resource},
		"$set":  touchUpdatedAt(bson.M{}),
	}

	res, err := rm.DB.UpdateOne(context.Background(), openRoomFilter(rID), update)
	if err != nil {
		config.ErrorStatus("failed to add resource", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorCode("this session has ended", models.CodeRoomClosed, http.StatusConflict, w)
		return
	}

	b, err := json.Marshal(resource)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}
