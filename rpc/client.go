// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rpc

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hashicorp/go-version"

	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/utils/errors"
)

// Client sends messages to the servers of one topic. Until Negotiate runs it speaks its
// own newest version; afterwards it never sends a version above the oldest server's.
type Client struct {
	transport  *Transport
	topic      string
	maxVersion *version.Version

	mutex  sync.RWMutex
	pinned *version.Version
}

func NewClient(transport *Transport, topic, maxVersion string) (*Client, error) {
	v, err := version.NewVersion(maxVersion)
	if err != nil {
		return nil, errors.InvalidInputError("invalid RPC version %s; %v", maxVersion, err)
	}
	return &Client{transport: transport, topic: topic, maxVersion: v, pinned: v}, nil
}

// Negotiate pins the client to the oldest version spoken by any server on its topic,
// never above its own. With no servers registered the client keeps its own version.
func (c *Client) Negotiate(ctx context.Context) string {
	pinned := c.maxVersion
	for _, v := range c.transport.Versions(c.topic) {
		if v.LessThan(pinned) {
			pinned = v
		}
	}

	c.mutex.Lock()
	changed := !pinned.Equal(c.pinned)
	c.pinned = pinned
	c.mutex.Unlock()

	if changed {
		Logc(ctx).WithFields(LogFields{
			"topic":   c.topic,
			"version": pinned.Original(),
		}).Info("Pinned RPC version.")
	}
	return pinned.Original()
}

// Version returns the version messages are currently sent at.
func (c *Client) Version() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.pinned.Original()
}

// CanSendVersion reports whether every server on the topic understands v.
func (c *Client) CanSendVersion(v string) bool {
	want, err := version.NewVersion(v)
	if err != nil {
		return false
	}
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return want.LessThanOrEqual(c.pinned)
}

// Prepare addresses a server or a cluster. An empty version sends at the pinned version.
func (c *Client) Prepare(server, cluster, version string) *CallContext {
	return &CallContext{
		client:  c,
		target:  Target{Topic: c.topic, Server: server, Cluster: cluster},
		version: version,
	}
}

// Fanout casts to every server on the topic.
func (c *Client) Fanout(ctx context.Context, method string, args any) error {
	msg, err := newEnvelope(ctx, method, c.Version(), args)
	if err != nil {
		return err
	}
	return c.transport.Fanout(ctx, c.topic, msg)
}

// CallContext is a client bound to one target and version.
type CallContext struct {
	client  *Client
	target  Target
	version string
}

func (cc *CallContext) Target() Target {
	return cc.target
}

func (cc *CallContext) envelope(ctx context.Context, method string, args any) ([]byte, error) {
	v := cc.version
	if v == "" {
		v = cc.client.Version()
	} else if !cc.client.CanSendVersion(v) {
		return nil, errors.UnsupportedError("cannot send %s at version %s to %s; pinned to %s", method, v,
			cc.target, cc.client.Version())
	}
	return newEnvelope(ctx, method, v, args)
}

// Cast sends method without waiting for it to run. Handler errors are only logged on the
// server.
func (cc *CallContext) Cast(ctx context.Context, method string, args any) error {
	msg, err := cc.envelope(ctx, method, args)
	if err != nil {
		return err
	}
	return cc.client.transport.Cast(ctx, cc.target, msg)
}

// Call sends method, waits for it to run, and decodes its result into result if non-nil.
// An error raised by the handler is returned with its kind preserved.
func (cc *CallContext) Call(ctx context.Context, method string, args, result any) error {
	msg, err := cc.envelope(ctx, method, args)
	if err != nil {
		return err
	}
	data, err := cc.client.transport.Call(ctx, cc.target, msg)
	if err != nil {
		return err
	}

	var reply Reply
	if err = json.Unmarshal(data, &reply); err != nil {
		return errors.WrapWithConnectionError(err, "undecodable reply from %s", cc.target.String())
	}
	if reply.Error != nil {
		return reply.Error.decode()
	}
	if result != nil && len(reply.Result) > 0 {
		if err = json.Unmarshal(reply.Result, result); err != nil {
			return errors.WrapWithConnectionError(err, "undecodable result from %s", cc.target.String())
		}
	}
	return nil
}
