package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/founderhub/warroom-api/api/handlers"
)

var a handlers.App

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func TestUnknownRoute(t *testing.T) {
	a.Router = a.New()

	req, _ := http.NewRequest("GET", "/nope", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	a.Router = a.New()

	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), `"alive":true`)
}

func TestWarRoomRoutesRequireAuth(t *testing.T) {
	a.Router = a.New()

	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/warroom"},
		{"GET", "/api/v1/warrooms"},
		{"GET", "/api/v1/warroom/608cafe595eb9dc05379b7f4"},
		{"POST", "/api/v1/warroom/608cafe595eb9dc05379b7f4/join"},
		{"POST", "/api/v1/warroom/608cafe595eb9dc05379b7f4/messages"},
		{"POST", "/api/v1/warroom/608cafe595eb9dc05379b7f4/end"},
	}

	for _, route := range routes {
		req, _ := http.NewRequest(route.method, route.path, nil)
		response := executeRequest(req)
		checkResponseCode(t, http.StatusUnauthorized, response.Code)
	}
}
