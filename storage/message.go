// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

import (
	"fmt"
	"time"
)

type MessageLevel string

const MessageLevelError = MessageLevel("ERROR")

type ResourceType string

const (
	ResourceTypeVolume   = ResourceType("VOLUME")
	ResourceTypeSnapshot = ResourceType("SNAPSHOT")
	ResourceTypeGroup    = ResourceType("GROUP")
)

// MessageAction identifies the operation that failed. The numeric IDs are stable and
// form part of the EventID shown to users.
type MessageAction struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var (
	ActionScheduleAllocateVolume  = MessageAction{"001", "schedule allocate volume"}
	ActionCreateVolumeFromBackend = MessageAction{"002", "create volume from backend storage"}
	ActionExtendVolume            = MessageAction{"003", "extend volume"}
	ActionMigrateVolume           = MessageAction{"004", "migrate volume"}
	ActionRetypeVolume            = MessageAction{"005", "retype volume"}
	ActionFailoverVolume          = MessageAction{"006", "failover volume"}
)

// MessageDetail explains why the action failed.
type MessageDetail struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

var (
	DetailUnknownError         = MessageDetail{"001", "An unknown error occurred."}
	DetailDriverNotInitialized = MessageDetail{"002", "Driver is not initialized at present."}
	DetailNoValidBackend       = MessageDetail{"003", "Could not find any available weighted backend."}
	DetailDriverFailedCreate   = MessageDetail{"004", "Driver failed to create the volume."}
	DetailDriverFailedExtend   = MessageDetail{"005", "Volume device not found at the backend or the backend failed to extend."}
	DetailBackendNotCapable    = MessageDetail{"006", "The destination backend cannot hold the volume."}
	DetailNotReplicable        = MessageDetail{"007", "Volume is not replicated and cannot follow the backend failover."}
	DetailFailoverFailed       = MessageDetail{"008", "The backend reported an error for this volume during failover."}
)

// Message is a user-facing record of a failed asynchronous operation.
type Message struct {
	ID           string        `json:"id"`
	RequestID    string        `json:"requestID,omitempty"`
	ResourceType ResourceType  `json:"resourceType"`
	ResourceUUID string        `json:"resourceUUID"`
	EventID      string        `json:"eventID"`
	MessageLevel MessageLevel  `json:"messageLevel"`
	Action       MessageAction `json:"action"`
	Detail       MessageDetail `json:"detail"`
	CreatedAt    time.Time     `json:"createdAt"`
	ExpiresAt    time.Time     `json:"expiresAt"`
}

// EventID builds the stable "VOLUME_<resource>_<action>_<detail>" identifier.
func EventID(resourceType ResourceType, action MessageAction, detail MessageDetail) string {
	return fmt.Sprintf("VOLUME_%s_%s_%s", resourceType, action.ID, detail.ID)
}

// UserMessage is the text shown to operators.
func (m *Message) UserMessage() string {
	return fmt.Sprintf("%s: %s", m.Action.Name, m.Detail.Text)
}

func (m *Message) IsExpired(now time.Time) bool {
	return !m.ExpiresAt.IsZero() && !now.Before(m.ExpiresAt)
}
