package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/founderhub/warroom-api/api"
	"github.com/founderhub/warroom-api/api/scheduler"
	"github.com/founderhub/warroom-api/config"
	"github.com/founderhub/warroom-api/databases"
	"github.com/founderhub/warroom-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	DB        databases.CollectionHelper
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.TimeoutMiddleware(30 * time.Second))

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	rm := Room{DB: databases.NewRoomDatabase(a.dbHelper), UDB: databases.NewUserDatabase(a.dbHelper)}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/check-user", http.HandlerFunc(u.UserCheckEmailHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")

	apiCreate.Handle("/warroom", api.Middleware(http.HandlerFunc(rm.CreateRoomHandler))).Methods("POST")
	apiCreate.Handle("/warrooms", api.Middleware(http.HandlerFunc(rm.RoomsHandler))).Methods("GET")
	apiCreate.Handle("/warroom/{room_id}", api.Middleware(http.HandlerFunc(rm.RoomHandler))).Methods("GET")
	apiCreate.Handle("/warroom/{room_id}/end", api.Middleware(http.HandlerFunc(rm.EndRoomHandler))).Methods("POST")
	apiCreate.Handle("/warroom/{room_id}/join", api.Middleware(http.HandlerFunc(rm.JoinRoomHandler))).Methods("POST")
	apiCreate.Handle("/warroom/{room_id}/messages", api.Middleware(http.HandlerFunc(rm.SendMessageHandler))).Methods("POST")
	apiCreate.Handle("/warroom/{room_id}/action-items", api.Middleware(http.HandlerFunc(rm.AddActionItemHandler))).Methods("POST")
	apiCreate.Handle("/warroom/{room_id}/action-items/{action_id}", api.Middleware(http.HandlerFunc(rm.UpdateActionItemHandler))).Methods("PUT")
	apiCreate.Handle("/warroom/{room_id}/resources", api.Middleware(http.HandlerFunc(rm.AddResourceHandler))).Methods("POST")
	apiCreate.Handle("/warroom/{room_id}/video/join", api.Middleware(http.HandlerFunc(rm.VideoJoinHandler))).Methods("POST")
	apiCreate.Handle("/warroom/{room_id}/video/leave", api.Middleware(http.HandlerFunc(rm.VideoLeaveHandler))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("warroom-api has connected to the database")

	// background jobs: go-live sweep and host notifications
	a.Scheduler = scheduler.NewScheduler(
		databases.NewRoomDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
