// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rpc

import (
	"context"
	"encoding/json"
	"strings"

	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/utils/errors"
)

// Target addresses one server, any member of a cluster, or any server of a topic.
type Target struct {
	Topic   string `json:"topic"`
	Server  string `json:"server,omitempty"`
	Cluster string `json:"cluster,omitempty"`
}

func (t Target) String() string {
	switch {
	case t.Server != "":
		return t.Topic + "." + t.Server
	case t.Cluster != "":
		return t.Topic + ".cluster." + t.Cluster
	}
	return t.Topic
}

// Envelope is the wire form of one RPC. Peers exchange only its JSON encoding.
type Envelope struct {
	Method    string          `json:"method"`
	Version   string          `json:"version"`
	RequestID string          `json:"requestID"`
	Source    string          `json:"source"`
	Workflow  Workflow        `json:"workflow"`
	Args      json.RawMessage `json:"args,omitempty"`
}

func newEnvelope(ctx context.Context, method, version string, args any) ([]byte, error) {
	env := Envelope{
		Method:    method,
		Version:   version,
		RequestID: RequestIDFromContext(ctx),
		Source:    RequestSourceFromContext(ctx),
	}
	if w, ok := ctx.Value(ContextKeyWorkflow).(Workflow); ok {
		env.Workflow = w
	}
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, errors.InvalidInputError("could not encode arguments of %s; %v", method, err)
		}
		env.Args = data
	}
	return json.Marshal(env)
}

// Reply is the wire form of a call result.
type Reply struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RemoteError    `json:"error,omitempty"`
}

// RemoteError carries an error across the wire with enough information to rebuild its
// kind on the caller's side.
type RemoteError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	kindNotFound                 = "NotFound"
	kindInvalidInput             = "InvalidInput"
	kindUnsupported              = "Unsupported"
	kindNoValidBackend           = "NoValidBackend"
	kindInvalidReplicationTarget = "InvalidReplicationTarget"
	kindServiceNotFound          = "ServiceNotFound"
	kindVolumeDriver             = "VolumeDriver"
	kindUnexpectedStatus         = "UnexpectedStatus"
	kindNotReady                 = "NotReady"
	kindTimeout                  = "Timeout"
	kindGeneric                  = "Error"

	noValidBackendPrefix = "no valid backend was found; "
)

func encodeError(err error) *RemoteError {
	if err == nil {
		return nil
	}
	kind := kindGeneric
	switch {
	case errors.IsNoValidBackendError(err):
		kind = kindNoValidBackend
	case errors.IsInvalidReplicationTargetError(err):
		kind = kindInvalidReplicationTarget
	case errors.IsServiceNotFoundError(err):
		kind = kindServiceNotFound
	case errors.IsNotFoundError(err):
		kind = kindNotFound
	case errors.IsInvalidInputError(err):
		kind = kindInvalidInput
	case errors.IsUnsupportedError(err):
		kind = kindUnsupported
	case errors.IsVolumeDriverError(err):
		kind = kindVolumeDriver
	case errors.IsUnexpectedStatusError(err):
		kind = kindUnexpectedStatus
	case errors.IsNotReadyError(err):
		kind = kindNotReady
	case errors.IsTimeoutError(err):
		kind = kindTimeout
	}
	return &RemoteError{Kind: kind, Message: err.Error()}
}

func (r *RemoteError) decode() error {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case kindNoValidBackend:
		return errors.NoValidBackendError("%s", strings.TrimPrefix(r.Message, noValidBackendPrefix))
	case kindInvalidReplicationTarget:
		return errors.InvalidReplicationTargetError("%s", r.Message)
	case kindServiceNotFound:
		return errors.ServiceNotFoundError("%s", r.Message)
	case kindNotFound:
		return errors.NotFoundError("%s", r.Message)
	case kindInvalidInput:
		return errors.InvalidInputError("%s", r.Message)
	case kindUnsupported:
		return errors.UnsupportedError("%s", r.Message)
	case kindVolumeDriver:
		return errors.VolumeDriverError("%s", r.Message)
	case kindUnexpectedStatus:
		return errors.UnexpectedStatusError("%s", r.Message)
	case kindNotReady:
		return errors.NotReadyError()
	case kindTimeout:
		return errors.TimeoutError("%s", r.Message)
	}
	return errors.New(r.Message)
}
