// Package warroom provides a Go client for the FounderHub war room API.
package warroom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/founderhub/warroom-api/models"
)

// Client is a war room API client.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a new war room client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the API. Code carries the server's
// error code (ROOM_CLOSED, NOT_A_MEMBER, ...) when one was returned.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("warroom error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("warroom error %d: %s", e.StatusCode, e.Message)
}

// ErrorCode extracts the server error code from err, or an empty string if
// err is not an APIError
func ErrorCode(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Code
	}
	return ""
}

// doRequest performs an HTTP request against the API.
func (c *Client) doRequest(method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var coded struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(respBody, &coded) == nil && coded.Error != "" {
			apiErr.Message = coded.Error
			apiErr.Code = coded.Code
		} else {
			apiErr.Message = string(respBody)
		}
		return nil, apiErr
	}

	return respBody, nil
}

// Login exchanges email/password for a bearer token and stores it on the
// client.
func (c *Client) Login(email, password string) error {
	req, err := http.NewRequest("POST", c.BaseURL+"/api/v1/auth/token", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(email, password)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var tokenResp struct {
		Token string `json:"token"`
		ID    string `json:"_id"`
	}
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return err
	}
	c.Token = tokenResp.Token
	return nil
}

// CreateRoomRequest is the request body for creating a war room.
type CreateRoomRequest struct {
	Title           string    `json:"title"`
	StartupName     string    `json:"startupName"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	Urgency         string    `json:"urgency"`
	ScheduledTime   time.Time `json:"scheduledTime"`
	MaxParticipants int       `json:"maxParticipants,omitempty"`
	IsPrivate       bool      `json:"isPrivate,omitempty"`
	HostName        string    `json:"hostName,omitempty"`
}

// CreateRoom creates a new war room in the scheduled state.
func (c *Client) CreateRoom(req CreateRoomRequest) (*models.Room, error) {
	body, _ := json.Marshal(req)
	respBody, err := c.doRequest("POST", "/api/v1/warroom", body)
	if err != nil {
		return nil, err
	}

	var room models.Room
	if err := json.Unmarshal(respBody, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// RoomFilter narrows ListRooms results for the live, upcoming and history
// views.
type RoomFilter struct {
	Status string
	Live   *bool
	Limit  int
	Page   int
}

// ListRooms lists war rooms matching the filter.
func (c *Client) ListRooms(filter RoomFilter) ([]models.Room, error) {
	params := url.Values{}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.Live != nil {
		params.Set("live", strconv.FormatBool(*filter.Live))
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Page > 0 {
		params.Set("page", strconv.Itoa(filter.Page))
	}

	path := "/api/v1/warrooms"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	respBody, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var rooms []models.Room
	if err := json.Unmarshal(respBody, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom retrieves the full snapshot of a war room.
func (c *Client) GetRoom(roomID string) (*models.Room, error) {
	respBody, err := c.doRequest("GET", "/api/v1/warroom/"+roomID, nil)
	if err != nil {
		return nil, err
	}

	var room models.Room
	if err := json.Unmarshal(respBody, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// JoinRoom joins a war room under the given role.
func (c *Client) JoinRoom(roomID, role, name string) (*models.Room, error) {
	body, _ := json.Marshal(map[string]string{"role": role, "name": name})
	respBody, err := c.doRequest("POST", "/api/v1/warroom/"+roomID+"/join", body)
	if err != nil {
		return nil, err
	}

	var room models.Room
	if err := json.Unmarshal(respBody, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// SendMessage appends a message to the room log.
func (c *Client) SendMessage(roomID, text, msgType string) (*models.Message, error) {
	body, _ := json.Marshal(map[string]string{"body": text, "type": msgType})
	respBody, err := c.doRequest("POST", "/api/v1/warroom/"+roomID+"/messages", body)
	if err != nil {
		return nil, err
	}

	var message models.Message
	if err := json.Unmarshal(respBody, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// EndRoom closes a war room with an outcome flag and summary. Host only.
func (c *Client) EndRoom(roomID string, resolved bool, summary string) (*models.Room, error) {
	body, _ := json.Marshal(map[string]interface{}{"resolved": resolved, "summary": summary})
	respBody, err := c.doRequest("POST", "/api/v1/warroom/"+roomID+"/end", body)
	if err != nil {
		return nil, err
	}

	var room models.Room
	if err := json.Unmarshal(respBody, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// AddActionItem appends a pending action item.
func (c *Client) AddActionItem(roomID, description string) (*models.ActionItem, error) {
	body, _ := json.Marshal(map[string]string{"description": description})
	respBody, err := c.doRequest("POST", "/api/v1/warroom/"+roomID+"/action-items", body)
	if err != nil {
		return nil, err
	}

	var item models.ActionItem
	if err := json.Unmarshal(respBody, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateActionItem sets an action item's status to pending or completed.
func (c *Client) UpdateActionItem(roomID, actionID, status string) (*models.ActionItem, error) {
	body, _ := json.Marshal(map[string]string{"status": status})
	respBody, err := c.doRequest("PUT", "/api/v1/warroom/"+roomID+"/action-items/"+actionID, body)
	if err != nil {
		return nil, err
	}

	var item models.ActionItem
	if err := json.Unmarshal(respBody, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddResource shares a link on the room resource board.
func (c *Client) AddResource(roomID, title, resourceURL string) (*models.Resource, error) {
	body, _ := json.Marshal(map[string]string{"title": title, "url": resourceURL})
	respBody, err := c.doRequest("POST", "/api/v1/warroom/"+roomID+"/resources", body)
	if err != nil {
		return nil, err
	}

	var resource models.Resource
	if err := json.Unmarshal(respBody, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// VideoSession is the conferencing entry handed out on video join.
type VideoSession struct {
	SessionName string `json:"sessionName"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
}

// JoinVideo marks the caller present in the room's video session and
// returns the conferencing entry for the embedded widget.
func (c *Client) JoinVideo(roomID, displayName string) (*VideoSession, error) {
	body, _ := json.Marshal(map[string]string{"displayName": displayName})
	respBody, err := c.doRequest("POST", "/api/v1/warroom/"+roomID+"/video/join", body)
	if err != nil {
		return nil, err
	}

	var session VideoSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// LeaveVideo clears the caller's in-video flag.
func (c *Client) LeaveVideo(roomID string) error {
	_, err := c.doRequest("POST", "/api/v1/warroom/"+roomID+"/video/leave", []byte(`{}`))
	return err
}
