// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

// Package message records user-facing messages about failed asynchronous operations.
package message

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	. "github.com/openblock/blockd/logging"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

type API struct {
	store persistentstore.Client
	ttl   time.Duration
	now   func() time.Time
}

// NewAPI returns a message API whose messages expire ttl after creation. A zero ttl keeps
// messages until they are deleted.
func NewAPI(store persistentstore.Client, ttl time.Duration) *API {
	return &API{store: store, ttl: ttl, now: time.Now}
}

// Create records a message for a resource. Failing to record it is logged and returned;
// callers are already handling another failure and usually carry on.
func (a *API) Create(
	ctx context.Context, resourceType storage.ResourceType, resourceUUID string, action storage.MessageAction,
	detail storage.MessageDetail,
) (*storage.Message, error) {
	now := a.now().UTC()
	msg := &storage.Message{
		ID:           uuid.NewString(),
		RequestID:    RequestIDFromContext(ctx),
		ResourceType: resourceType,
		ResourceUUID: resourceUUID,
		EventID:      storage.EventID(resourceType, action, detail),
		MessageLevel: storage.MessageLevelError,
		Action:       action,
		Detail:       detail,
		CreatedAt:    now,
	}
	if a.ttl > 0 {
		msg.ExpiresAt = now.Add(a.ttl)
	}

	fields := LogFields{"resource": resourceUUID, "eventID": msg.EventID}
	if err := a.store.AddMessage(ctx, msg); err != nil {
		Logc(ctx).WithFields(fields).WithError(err).Error("Could not record user message.")
		return nil, err
	}
	Logc(ctx).WithFields(fields).Debug("Recorded user message.")
	return msg, nil
}

// CreateFromError records a message whose detail is derived from err.
func (a *API) CreateFromError(
	ctx context.Context, resourceType storage.ResourceType, resourceUUID string, action storage.MessageAction,
	err error,
) (*storage.Message, error) {
	return a.Create(ctx, resourceType, resourceUUID, action, DetailForError(err))
}

// DetailForError maps an error to the closest message detail.
func DetailForError(err error) storage.MessageDetail {
	switch {
	case errors.IsNoValidBackendError(err):
		return storage.DetailNoValidBackend
	case errors.IsNotReadyError(err):
		return storage.DetailDriverNotInitialized
	case errors.IsInvalidReplicationTargetError(err):
		return storage.DetailFailoverFailed
	}
	return storage.DetailUnknownError
}

func (a *API) Get(ctx context.Context, id string) (*storage.Message, error) {
	msg, err := a.store.GetMessage(ctx, id)
	if err != nil {
		if persistentstore.MatchKeyNotFoundErr(err) {
			return nil, errors.NotFoundError("message %s not found", id)
		}
		return nil, err
	}
	return msg, nil
}

// GetAll lists messages matching filter, newest first.
func (a *API) GetAll(ctx context.Context, filter *persistentstore.MessageFilter) ([]*storage.Message, error) {
	messages, err := a.store.GetMessages(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

func (a *API) Delete(ctx context.Context, id string) error {
	if err := a.store.DeleteMessage(ctx, id); err != nil {
		if persistentstore.MatchKeyNotFoundErr(err) {
			return errors.NotFoundError("message %s not found", id)
		}
		return err
	}
	return nil
}

// CleanupExpired deletes messages whose expiry has passed and returns how many went.
func (a *API) CleanupExpired(ctx context.Context) (int, error) {
	deleted, err := a.store.DeleteExpiredMessages(ctx, a.now().UTC())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		Logc(ctx).WithField("count", deleted).Info("Deleted expired user messages.")
	}
	return deleted, nil
}
