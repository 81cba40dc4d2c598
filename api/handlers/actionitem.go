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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/founderhub/warroom-api/api"
	"github.com/founderhub/warroom-api/config"
	"github.com/founderhub/warroom-api/models"
)

type addActionItemRequest struct {
	Description string `json:"description"`
}

type updateActionItemRequest struct {
	Status string `json:"status"`
}

// AddActionItemHandler appends a pending action item to a war room
func (rm Room) AddActionItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.CallerID(r)
	roomID := mux.Vars(r)["room_id"]

	var req addActionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		config.ErrorCode("action item description must not be empty", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}

	_, rID, ok := rm.loadOpenRoomForCaller(w, caller, roomID)
	if !ok {
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	item := models.ActionItem{
		ID:          primitive.NewObjectID().Hex(),
		Description: req.Description,
		Status:      string(models.ActionStatusPending),
		CreatedByID: caller,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	update := bson.M{
		"$push": bson.M{"room.actionItems": item},
		"$set":  touchUpdatedAt(bson.M{}),
	}

	res, err := rm.DB.UpdateOne(context.Background(), openRoomFilter(rID), update)
	if err != nil {
		config.ErrorStatus("failed to add action item", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorCode("this session has ended", models.CodeRoomClosed, http.StatusConflict, w)
		return
	}

	b, err := json.Marshal(item)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateActionItemHandler flips an action item between pending and
// completed. Concurrent flips settle last-write-wins; the item always lands
// in one of the two valid states.
func (rm Room) UpdateActionItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.CallerID(r)
	roomID := mux.Vars(r)["room_id"]
	actionID := mux.Vars(r)["action_id"]

	var req updateActionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if !models.ActionItemStatus(req.Status).IsValid() {
		config.ErrorCode("status must be pending or completed", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}

	room, rID, ok := rm.loadOpenRoomForCaller(w, caller, roomID)
	if !ok {
		return
	}

	if _, found := room.Details.FindActionItem(actionID); !found {
		config.ErrorCode("action item not found", models.CodeNotFound, http.StatusNotFound, w)
		return
	}

	update := bson.M{
		"$set": touchUpdatedAt(bson.M{
			"room.actionItems.$[item].status":    req.Status,
			"room.actionItems.$[item].updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}),
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"item._id": actionID}},
	})

	res, err := rm.DB.UpdateOne(context.Background(), openRoomFilter(rID), update, opts)
	if err != nil {
		config.ErrorStatus("failed to update action item", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorCode("this session has ended", models.CodeRoomClosed, http.StatusConflict, w)
		return
	}

	updated, err := rm.DB.FindOne(context.Background(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to get war room by ID", http.StatusInternalServerError, w, err)
		return
	}

	item, found := updated.Details.FindActionItem(actionID)
	if !found {
		config.ErrorCode("action item not found", models.CodeNotFound, http.StatusNotFound, w)
		return
	}

	b, err := json.Marshal(item)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
