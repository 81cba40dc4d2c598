package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/founderhub/warroom-api/api"
	"github.com/founderhub/warroom-api/config"
	"github.com/founderhub/warroom-api/databases"
	"github.com/founderhub/warroom-api/models"
)

// Room struct mostly used for mocking tests
type Room struct {
	DB  databases.RoomDatabase
	UDB databases.UserDatabase
}

type createRoomRequest struct {
	Title           string    `json:"title"`
	StartupName     string    `json:"startupName"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	Urgency         string    `json:"urgency"`
	ScheduledTime   time.Time `json:"scheduledTime"`
	MaxParticipants int       `json:"maxParticipants"`
	IsPrivate       bool      `json:"isPrivate"`
	HostName        string    `json:"hostName"`
}

type endRoomRequest struct {
	Resolved bool   `json:"resolved"`
	Summary  string `json:"summary"`
}

// CreateRoomHandler creates a new war room in the scheduled state with the
// caller as host
func (rm Room) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.CallerID(r)

	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.StartupName = strings.TrimSpace(req.StartupName)
	req.Description = strings.TrimSpace(req.Description)

	if req.Title == "" || req.StartupName == "" || req.Category == "" || req.ScheduledTime.IsZero() {
		config.ErrorCode("title, startupName, category and scheduledTime are required", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}
	// count characters, not bytes, so multibyte descriptions measure the same
	if utf8.RuneCountInString(req.Description) < models.MinDescriptionLength {
		config.ErrorCode("description must be at least 100 characters", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}
	if !models.Urgency(req.Urgency).IsValid() {
		config.ErrorCode("invalid urgency level", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}
	if req.MaxParticipants == 0 {
		req.MaxParticipants = models.DefaultMaxParticipants
	}
	if req.MaxParticipants < models.MinMaxParticipants {
		config.ErrorCode("maxParticipants must be at least 5", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}

	hostName := rm.resolveDisplayName(context.Background(), caller, req.HostName)

	now := time.Now()
	newRoom := models.Room{
		ID: primitive.NewObjectID(),
		Details: models.RoomDetails{
			Title:           req.Title,
			StartupName:     req.StartupName,
			Category:        req.Category,
			Description:     req.Description,
			Urgency:         req.Urgency,
			Status:          models.RoomStatusActive,
			IsLive:          !req.ScheduledTime.After(now), // a past scheduledTime means "go live immediately"
			IsPrivate:       req.IsPrivate,
			MaxParticipants: req.MaxParticipants,
			HostID:          caller,
			ScheduledTime:   primitive.NewDateTimeFromTime(req.ScheduledTime),
			Participants: []models.Participant{
				{
					ID:       primitive.NewObjectID().Hex(),
					UserID:   caller,
					Name:     hostName,
					Role:     string(models.RoleHost),
					JoinedAt: primitive.NewDateTimeFromTime(now),
				},
			},
			Messages:    []models.Message{},
			ActionItems: []models.ActionItem{},
			Resources:   []models.Resource{},
			CreatedAt:   primitive.NewDateTimeFromTime(now),
			UpdatedAt:   primitive.NewDateTimeFromTime(now),
		},
	}

	_, err := rm.DB.InsertOne(context.Background(), newRoom)
	if err != nil {
		config.ErrorStatus("failed to create war room", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(newRoom)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// RoomHandler returns a full room snapshot given a roomID
func (rm Room) RoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["room_id"]

	rID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := rm.DB.FindOne(ctx, bson.M{"_id": rID})
	if err != nil {
		config.ErrorCode("war room not found", models.CodeNotFound, http.StatusNotFound, w)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RoomsHandler returns room summaries for the live, upcoming and history
// views. Optional query params: status (active|closed), live (true|false),
// limit, page.
func (rm Room) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	live := r.URL.Query().Get("live")
	limitParam := r.URL.Query().Get("limit")
	pageParam := r.URL.Query().Get("page")

	zap.S().Debugf("status: %v, live: %v, limit: %v, page: %v", status, live, limitParam, pageParam)

	filter := bson.M{}
	switch status {
	case "":
		// no status filter
	case models.RoomStatusActive, models.RoomStatusClosed:
		filter["room.status"] = status
	default:
		config.ErrorCode("invalid status filter", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}
	if live != "" {
		isLive, err := strconv.ParseBool(live)
		if err != nil {
			config.ErrorCode("invalid live filter", models.CodeValidationError, http.StatusBadRequest, w)
			return
		}
		filter["room.isLive"] = isLive
	}

	limit, _ := strconv.Atoi(limitParam)
	page, _ := strconv.Atoi(pageParam)
	opts := databases.PaginateOpts(limit, page)
	opts.SetSort(bson.M{"room.scheduledTime": 1})

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := rm.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get war rooms", http.StatusNotFound, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.Room{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// EndRoomHandler closes a war room. Host-only, one-way: a closed room never
// reopens and rejects every later mutation.
func (rm Room) EndRoomHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.CallerID(r)
	roomID := mux.Vars(r)["room_id"]

	var req endRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
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
	if room.Details.HostID != caller {
		config.ErrorStatus("only the host can end a war room", http.StatusForbidden, w, errors.New("caller is not the host"))
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	update := bson.M{
		"$set": bson.M{
			"room.status":    models.RoomStatusClosed,
			"room.isLive":    false,
			"room.resolved":  req.Resolved,
			"room.summary":   strings.TrimSpace(req.Summary),
			"room.closedAt":  now,
			"room.updatedAt": now,
		},
	}
	// the status guard keeps a concurrent close from firing twice
	filter := bson.M{"_id": rID, "room.status": models.RoomStatusActive}

	res, err := rm.DB.UpdateOne(context.Background(), filter, update)
	if err != nil {
		config.ErrorStatus("failed to end war room", http.StatusInternalServerError, w, err)
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

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// loadOpenRoomForCaller fetches a room and applies the gates shared by every
// participant write: the room must exist, must not be closed, and the caller
// must be a member. On failure the coded error has already been written and
// ok is false.
func (rm Room) loadOpenRoomForCaller(w http.ResponseWriter, caller, roomID string) (*models.Room, primitive.ObjectID, bool) {
	rID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return nil, primitive.NilObjectID, false
	}

	room, err := rm.DB.FindOne(context.Background(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorCode("war room not found", models.CodeNotFound, http.StatusNotFound, w)
		return nil, primitive.NilObjectID, false
	}
	if room.Details.IsClosed() {
		config.ErrorCode("this session has ended", models.CodeRoomClosed, http.StatusConflict, w)
		return nil, primitive.NilObjectID, false
	}
	if !room.Details.IsParticipant(caller) {
		config.ErrorCode("join the war room before contributing", models.CodeNotAMember, http.StatusForbidden, w)
		return nil, primitive.NilObjectID, false
	}
	return room, rID, true
}

// resolveDisplayName falls back to the caller's stored profile name when the
// request does not carry one, so membership records are not left nameless
func (rm Room) resolveDisplayName(ctx context.Context, userID, requested string) string {
	requested = strings.TrimSpace(requested)
	if requested != "" {
		return requested
	}
	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ""
	}
	user := &models.User{}
	if err := rm.UDB.FindOne(ctx, bson.M{"_id": uID}).Decode(&user); err != nil {
		return ""
	}
	return user.Details.Name
}

// openRoomFilter re-asserts the lifecycle gate inside the mutation filter so
// a room closed between read and write cannot accept the update
func openRoomFilter(rID primitive.ObjectID) bson.M {
	return bson.M{"_id": rID, "room.status": models.RoomStatusActive}
}

func touchUpdatedAt(set bson.M) bson.M {
	set["room.updatedAt"] = primitive.NewDateTimeFromTime(time.Now())
	return set
}
