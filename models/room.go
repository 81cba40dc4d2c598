package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room holds the structure for the warroom collection in mongo
type Room struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details RoomDetails        `json:"room" bson:"room"`
	Version int32              `json:"__v" bson:"__v"`
}

// RoomDetails holds the structure for the inner room structure as
// defined in the warroom collection in mongo
type RoomDetails struct {
	Title           string             `json:"title" bson:"title"`
	StartupName     string             `json:"startupName" bson:"startupName"`
	Category        string             `json:"category" bson:"category"`
	Description     string             `json:"description" bson:"description"`
	Urgency         string             `json:"urgency" bson:"urgency"`
	Status          string             `json:"status" bson:"status"`
	IsLive          bool               `json:"isLive" bson:"isLive"`
	IsPrivate       bool               `json:"isPrivate" bson:"isPrivate"`
	Resolved        bool               `json:"resolved" bson:"resolved"`
	Summary         string             `json:"summary" bson:"summary"`
	MaxParticipants int                `json:"maxParticipants" bson:"maxParticipants"`
	HostID          string             `json:"hostID" bson:"hostID"`
	ScheduledTime   primitive.DateTime `json:"scheduledTime" bson:"scheduledTime"`
	Participants    []Participant      `json:"participants" bson:"participants"`
	Messages        []Message          `json:"messages" bson:"messages"`
	ActionItems     []ActionItem       `json:"actionItems" bson:"actionItems"`
	Resources       []Resource         `json:"resources" bson:"resources"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
	ClosedAt        primitive.DateTime `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}

// Participant holds a single room membership record
type Participant struct {
	ID       string             `json:"_id" bson:"_id"`
	UserID   string             `json:"userID" bson:"userID"`
	Name     string             `json:"name" bson:"name"`
	Role     string             `json:"role" bson:"role"`
	InVideo  bool               `json:"inVideo" bson:"inVideo"`
	JoinedAt primitive.DateTime `json:"joinedAt" bson:"joinedAt"`
}

// Message holds a single entry of the append-only room log
type Message struct {
	ID        string             `json:"_id" bson:"_id"`
	AuthorID  string             `json:"authorID" bson:"authorID"`
	Body      string             `json:"body" bson:"body"`
	Type      string             `json:"type" bson:"type"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// ActionItem holds a single task tracked inside a room
type ActionItem struct {
	ID          string             `json:"_id" bson:"_id"`
	Description string             `json:"description" bson:"description"`
	Status      string             `json:"status" bson:"status"`
	CreatedByID string             `json:"createdByID" bson:"createdByID"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Resource holds a single shared link on the room resource board
type Resource struct {
	ID        string             `json:"_id" bson:"_id"`
	Title     string             `json:"title" bson:"title"`
	URL       string             `json:"url" bson:"url"`
	AddedByID string             `json:"addedByID" bson:"addedByID"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// Room lifecycle status values. A closed room is terminal and accepts
// only reads.
const (
	RoomStatusActive = "active"
	RoomStatusClosed = "closed"
)

// MinDescriptionLength is the minimum length of a room description at creation
const MinDescriptionLength = 100

// MinMaxParticipants is the smallest allowed participant capacity for a room
const MinMaxParticipants = 5

// DefaultMaxParticipants is applied when a creation request omits capacity
const DefaultMaxParticipants = 10

// RoomRole represents the role a participant holds inside a room
type RoomRole string

// Predefined RoomRole values
const (
	RoleHost      RoomRole = "host"
	RoleMentor    RoomRole = "mentor"
	RoleInvestor  RoomRole = "investor"
	RoleFounder   RoomRole = "founder"
	RoleExpert    RoomRole = "expert"
	RoleSupporter RoomRole = "supporter"
)

// ValidRoomRoles returns the roles a user may join a room with. The host
// role is assigned at creation and is never joinable.
func ValidRoomRoles() []RoomRole {
	return []RoomRole{
		RoleMentor,
		RoleInvestor,
		RoleFounder,
		RoleExpert,
		RoleSupporter,
	}
}

// IsValid checks if the RoomRole value is one of the joinable roles
func (r RoomRole) IsValid() bool {
	for _, validRole := range ValidRoomRoles() {
		if r == validRole {
			return true
		}
	}
	return false
}

// MessageType represents the rendering category of a room message
type MessageType string

// Predefined MessageType values. The type is informational metadata for
// rendering and carries no behavioral branching.
const (
	MessageTypeChat     MessageType = "chat"
	MessageTypeAdvice   MessageType = "advice"
	MessageTypeQuestion MessageType = "question"
	MessageTypeResource MessageType = "resource"
	MessageTypeAction   MessageType = "action"
)

// ValidMessageTypes returns all valid MessageType values
func ValidMessageTypes() []MessageType {
	return []MessageType{
		MessageTypeChat,
		MessageTypeAdvice,
		MessageTypeQuestion,
		MessageTypeResource,
		MessageTypeAction,
	}
}

// IsValid checks if the MessageType value is one of the predefined constants
func (t MessageType) IsValid() bool {
	for _, validType := range ValidMessageTypes() {
		if t == validType {
			return true
		}
	}
	return false
}

// ActionItemStatus represents the two-state lifecycle of an action item
type ActionItemStatus string

// Predefined ActionItemStatus values
const (
	ActionStatusPending   ActionItemStatus = "pending"
	ActionStatusCompleted ActionItemStatus = "completed"
)

// IsValid checks if the ActionItemStatus value is one of the predefined constants
func (s ActionItemStatus) IsValid() bool {
	return s == ActionStatusPending || s == ActionStatusCompleted
}

// Urgency represents how critical a crisis room is
type Urgency string

// Predefined Urgency values
const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// ValidUrgencies returns all valid Urgency values
func ValidUrgencies() []Urgency {
	return []Urgency{
		UrgencyCritical,
		UrgencyHigh,
		UrgencyMedium,
		UrgencyLow,
	}
}

// IsValid checks if the Urgency value is one of the predefined constants
func (u Urgency) IsValid() bool {
	for _, validUrgency := range ValidUrgencies() {
		if u == validUrgency {
			return true
		}
	}
	return false
}

// IsClosed reports whether the room has reached its terminal state
func (d RoomDetails) IsClosed() bool {
	return d.Status == RoomStatusClosed
}

// IsParticipant reports whether the user has joined the room. The host is
// always a participant.
func (d RoomDetails) IsParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	if userID == d.HostID {
		return true
	}
	for _, p := range d.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// RoleOf returns the role the user holds in the room. The second return
// value is false for non-members.
func (d RoomDetails) RoleOf(userID string) (string, bool) {
	if userID == d.HostID {
		return string(RoleHost), true
	}
	for _, p := range d.Participants {
		if p.UserID == userID {
			return p.Role, true
		}
	}
	return "", false
}

// AtCapacity reports whether the participant list has reached maxParticipants
func (d RoomDetails) AtCapacity() bool {
	return len(d.Participants) >= d.MaxParticipants
}

// FindActionItem returns the action item with the given id, or false if the
// id does not belong to this room
func (d RoomDetails) FindActionItem(actionID string) (ActionItem, bool) {
	for _, item := range d.ActionItems {
		if item.ID == actionID {
			return item, true
		}
	}
	return ActionItem{}, false
}
