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

type sendMessageRequest struct {
	Body string `json:"body"`
	Type string `json:"type"`
}

// SendMessageHandler appends a message to the room log. The log is
// append-only: messages are never edited, removed or reordered.
func (rm Room) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.CallerID(r)
	roomID := mux.Vars(r)["room_id"]

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		config.ErrorCode("message body must not be empty", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}
	if req.Type == "" {
		req.Type = string(models.MessageTypeChat)
	}
	if !models.MessageType(req.Type).IsValid() {
		config.ErrorCode("invalid message type", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}

	_, rID, ok := rm.loadOpenRoomForCaller(w, caller, roomID)
	if !ok {
		return
	}

	message := models.Message{
		ID:        primitive.NewObjectID().Hex(),
		AuthorID:  caller,
		Body:      req.Body,
		Type:      req.Type,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	update := bson.M{
		"$push": bson.M{"room.messages": message},
		"$set":  touchUpdatedAt(bson.M{}),
	}

	res, err := rm.DB.UpdateOne(context.Background(), openRoomFilter(rID), update)
	if err != nil {
		config.ErrorStatus("failed to send message", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorCode("this session has ended", models.CodeRoomClosed, http.StatusConflict, w)
		return
	}

	b, err := json.Marshal(message)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}
