package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/founderhub/warroom-api/api"
	"github.com/founderhub/warroom-api/config"
	"github.com/founderhub/warroom-api/models"
)

type joinRoomRequest struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// JoinRoomHandler adds the caller to a war room under the requested role.
// A repeat join is rejected with ALREADY_JOINED regardless of the requested
// role; membership records are never duplicated or overwritten.
func (rm Room) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.CallerID(r)
	roomID := mux.Vars(r)["room_id"]

	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if !models.RoomRole(req.Role).IsValid() {
		config.ErrorCode("invalid role", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}

	rID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	room, err := rm.DB.FindOne(context.Background(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorCode("war room not found", models.CodeNotFound, http.StatusNotFound, w)
		return
	}
	if room.Details.IsClosed() {
		config.ErrorCode("this session has ended", models.CodeRoomClosed, http.StatusConflict, w)
		return
	}
	if room.Details.IsParticipant(caller) {
		config.ErrorCode("you have already joined this war room", models.CodeAlreadyJoined, http.StatusConflict, w)
		return
	}
	if room.Details.AtCapacity() {
		config.ErrorCode("this war room is full", models.CodeCapacityExceeded, http.StatusConflict, w)
		return
	}

	participant := models.Participant{
		ID:       primitive.NewObjectID().Hex(),
		UserID:   caller,
		Name:     rm.resolveDisplayName(context.Background(), caller, req.Name),
		Role:     req.Role,
		JoinedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	// the filter re-checks membership and capacity so two racing joins
	// cannot duplicate a participant or overshoot maxParticipants
	filter := openRoomFilter(rID)
	filter["room.participants"] = bson.M{"$not": bson.M{"$elemMatch": bson.M{"userID": caller}}}
	filter["$expr"] = bson.M{"$lt": bson.A{bson.M{"$size": "$room.participants"}, "$room.maxParticipants"}}

	update := bson.M{
		"$push": bson.M{"room.participants": participant},
		"$set":  touchUpdatedAt(bson.M{}),
	}

	res, err := rm.DB.UpdateOne(context.Background(), filter, update)
	if err != nil {
		config.ErrorStatus("failed to join war room", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		rm.classifyJoinConflict(w, rID, caller)
		return
	}

	updated, err := rm.DB.FindOne(context.Background(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to get war room by ID", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// classifyJoinConflict re-reads the room to report why a guarded join
// matched nothing, so the user never sees a generic error
func (rm Room) classifyJoinConflict(w http.ResponseWriter, rID primitive.ObjectID, caller string) {
	room, err := rm.DB.FindOne(context.Background(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorCode("war room not found", models.CodeNotFound, http.StatusNotFound, w)
		return
	}
	switch {
	case room.Details.IsClosed():
		config.ErrorCode("this session has ended", models.CodeRoomClosed, http.StatusConflict, w)
	case room.Details.IsParticipant(caller):
		config.ErrorCode("you have already joined this war room", models.CodeAlreadyJoined, http.StatusConflict, w)
	default:
		config.ErrorCode("this war room is full", models.CodeCapacityExceeded, http.StatusConflict, w)
	}
}
