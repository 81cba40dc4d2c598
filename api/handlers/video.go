package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/founderhub/warroom-api/api"
	"github.com/founderhub/warroom-api/config"
	"github.com/founderhub/warroom-api/models"
)

type videoJoinRequest struct {
	DisplayName string `json:"displayName"`
}

type videoJoinResponse struct {
	SessionName string `json:"sessionName"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
}

// videoSessionName derives the external conference session from the room id.
// The media itself lives entirely in the embedded conferencing provider;
// this service only hands out the name and a signed entry token.
func videoSessionName(rID primitive.ObjectID) string {
	return fmt.Sprintf("warroom-%s", rID.Hex())
}

// VideoJoinHandler marks the caller as present in the room's video session
// and returns the session name plus a short-lived signed token for the
// conferencing widget
func (rm Room) VideoJoinHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.CallerID(r)
	roomID := mux.Vars(r)["room_id"]

	var req videoJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		config.ErrorCode("displayName must not be empty", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}

	_, rID, ok := rm.loadOpenRoomForCaller(w, caller, roomID)
	if !ok {
		return
	}

	if !rm.setInVideo(w, rID, caller, true) {
		return
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		config.ErrorStatus("server misconfigured", http.StatusInternalServerError, w, fmt.Errorf("JWT_SECRET is not set"))
		return
	}

	claims := jwt.MapClaims{
		"sub":  caller,
		"room": videoSessionName(rID),
		"name": req.DisplayName,
		"typ":  "video",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(2 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		config.ErrorStatus("failed to sign video token", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(videoJoinResponse{
		SessionName: videoSessionName(rID),
		DisplayName: req.DisplayName,
		Token:       signed,
	})
}

// VideoLeaveHandler clears the caller's in-video flag
func (rm Room) VideoLeaveHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.CallerID(r)
	roomID := mux.Vars(r)["room_id"]

	_, rID, ok := rm.loadOpenRoomForCaller(w, caller, roomID)
	if !ok {
		return
	}

	if !rm.setInVideo(w, rID, caller, false) {
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "left video session",
	})
}

func (rm Room) setInVideo(w http.ResponseWriter, rID primitive.ObjectID, caller string, inVideo bool) bool {
	update := bson.M{
		"$set": touchUpdatedAt(bson.M{
			"room.participants.$[p].inVideo": inVideo,
		}),
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"p.userID": caller}},
	})

	res, err := rm.DB.UpdateOne(context.Background(), openRoomFilter(rID), update, opts)
	if err != nil {
		config.ErrorStatus("failed to update video participation", http.StatusInternalServerError, w, err)
		return false
	}
	if res.MatchedCount == 0 {
		config.ErrorCode("this session has ended", models.CodeRoomClosed, http.StatusConflict, w)
		return false
	}
	return true
}
