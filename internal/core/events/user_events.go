package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated        = "user.created"
	EventTypeUserUpdated        = "user.updated"
	EventTypeUserDeleted        = "user.deleted"
	EventTypeResetMailRequested = "user.reset_mail_requested"
	EventTypePasswordReset      = "user.password_reset"
)

type UserCreatedEvent struct {
	BaseEvent
	UserID        int64  `json:"user_id"`
	Email         string `json:"email"`
	ActorID       int64  `json:"actor_id"`
	ActorUsername string `json:"actor_username"`
}

func NewUserCreatedEvent(userID int64, email string, actorID int64, actorUsername string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":        userID,
				"email":          email,
				"actor_id":       actorID,
				"actor_username": actorUsername,
			},
		},
		UserID:        userID,
		Email:         email,
		ActorID:       actorID,
		ActorUsername: actorUsername,
	}
}

type UserUpdatedEvent struct {
	BaseEvent
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	ActorID       int64  `json:"actor_id"`
	ActorUsername string `json:"actor_username"`
}

func NewUserUpdatedEvent(userID int64, username string, actorID int64, actorUsername string) *UserUpdatedEvent {
	return &UserUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":        userID,
				"username":       username,
				"actor_id":       actorID,
				"actor_username": actorUsername,
			},
		},
		UserID:        userID,
		Username:      username,
		ActorID:       actorID,
		ActorUsername: actorUsername,
	}
}

type UserDeletedEvent struct {
	BaseEvent
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	ActorID       int64  `json:"actor_id"`
	ActorUsername string `json:"actor_username"`
}

func NewUserDeletedEvent(userID int64, username string, actorID int64, actorUsername string) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":        userID,
				"username":       username,
				"actor_id":       actorID,
				"actor_username": actorUsername,
			},
		},
		UserID:        userID,
		Username:      username,
		ActorID:       actorID,
		ActorUsername: actorUsername,
	}
}

type ResetMailRequestedEvent struct {
	BaseEvent
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	ActorID       int64  `json:"actor_id"`
	ActorUsername string `json:"actor_username"`
}

func NewResetMailRequestedEvent(userID int64, username string, actorID int64, actorUsername string) *ResetMailRequestedEvent {
	return &ResetMailRequestedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeResetMailRequested,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":        userID,
				"username":       username,
				"actor_id":       actorID,
				"actor_username": actorUsername,
			},
		},
		UserID:        userID,
		Username:      username,
		ActorID:       actorID,
		ActorUsername: actorUsername,
	}
}

// PasswordResetEvent has no separate actor: the token subject is the actor.
type PasswordResetEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func NewPasswordResetEvent(userID int64, email string) *PasswordResetEvent {
	return &PasswordResetEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePasswordReset,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID: userID,
		Email:  email,
	}
}
