// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package persistentstore

import "github.com/openblock/blockd/utils/errors"

const (
	KeyNotFoundErr      = "Unable to find key"
	KeyExistsErr        = "Key already exists"
	UnavailableStoreErr = "Unavailable persistent store"
)

// Error is used to turn database errors into something that callers can understand without
// having to import the client library
type Error struct {
	Message string
	Key     string
}

func NewPersistentStoreError(message, key string) *Error {
	return &Error{
		Message: message,
		Key:     key,
	}
}

func (e *Error) Error() string {
	return e.Message
}

func matchStoreError(err error, message string) bool {
	var storeErr *Error
	return errors.As(err, &storeErr) && storeErr.Message == message
}

func MatchKeyNotFoundErr(err error) bool {
	return matchStoreError(err, KeyNotFoundErr)
}

func MatchKeyExistsErr(err error) bool {
	return matchStoreError(err, KeyExistsErr)
}

func MatchUnavailableStoreErr(err error) bool {
	return matchStoreError(err, UnavailableStoreErr)
}
