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
	"golang.org/x/crypto/bcrypt"

	"github.com/founderhub/warroom-api/config"
	"github.com/founderhub/warroom-api/databases"
	"github.com/founderhub/warroom-api/models"
)

// User struct mostly used for mocking tests
type User struct {
	DB databases.UserDatabase
}

type createUserRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	StartupName string `json:"startupName"`
	Headline    string `json:"headline"`
}

// UserCreateHandler creates a new user with a bcrypt-hashed password
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		config.ErrorCode("email and password are required", models.CodeValidationError, http.StatusBadRequest, w)
		return
	}

	count, err := u.DB.CountDocuments(context.Background(), bson.M{"user.email": req.Email})
	if err != nil {
		config.ErrorStatus("failed to check existing users", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorCode("a user with this email already exists", models.CodeValidationError, http.StatusConflict, w)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	details := models.UserDetails{
		Email:       req.Email,
		Name:        req.Name,
		Username:    req.Username,
		Password:    string(hashed),
		StartupName: req.StartupName,
		Headline:    req.Headline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := u.DB.InsertOne(context.Background(), details)
	if err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"_id": res.Decode(),
	})
}

// UserCheckEmailHandler reports whether an email is already registered
func (u User) UserCheckEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	count, err := u.DB.CountDocuments(context.Background(), bson.M{"user.email": req.Email})
	if err != nil {
		config.ErrorStatus("failed to check email", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"exists": count > 0,
	})
}

// UserHandler returns a user given a userID
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	user := &models.User{}
	err = u.DB.FindOne(context.Background(), bson.M{"_id": uID}).Decode(&user)
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	// never leak the password hash
	user.Details.Password = ""

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
