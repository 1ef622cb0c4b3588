// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rpc

import (
	"context"
	"encoding/json"

	"github.com/openblock/blockd/utils/errors"
)

// Handler serves one RPC method. The result is encoded into the reply of a call and
// dropped for a cast.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Endpoint maps method names to handlers.
type Endpoint map[string]Handler

// Empty is the argument or result type of methods that carry none.
type Empty struct{}

// Handle adapts a typed call handler.
func Handle[A, R any](fn func(ctx context.Context, args *A) (R, error)) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		args := new(A)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, args); err != nil {
				return nil, errors.InvalidInputError("could not decode arguments; %v", err)
			}
		}
		return fn(ctx, args)
	}
}

// HandleCast adapts a typed handler that returns no result.
func HandleCast[A any](fn func(ctx context.Context, args *A) error) Handler {
	return Handle(func(ctx context.Context, args *A) (*Empty, error) {
		return nil, fn(ctx, args)
	})
}
