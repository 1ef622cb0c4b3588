// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/pkg/locks"
	"github.com/openblock/blockd/pkg/workerpool/ants"
	"github.com/openblock/blockd/utils/errors"
)

type server struct {
	key        string
	target     Target
	maxVersion *version.Version
	endpoint   Endpoint
	concurrent bool

	mutex    sync.Mutex
	queue    [][]byte
	draining bool
}

// ServerOption tunes how a registered server receives messages.
type ServerOption func(*server)

// WithConcurrentDispatch lets a server handle several messages at once. Its handlers must
// do their own locking.
func WithConcurrentDispatch() ServerOption {
	return func(s *server) {
		s.concurrent = true
	}
}

// Transport delivers encoded envelopes between services of one process. Casts are queued
// per server and run on a shared worker pool. Unless registered for concurrent dispatch,
// every message for a given server, cast or call, runs while holding that server's lock,
// so the server sees one message at a time.
type Transport struct {
	responseTimeout time.Duration
	pool            *ants.Pool
	locks           *locks.GCNamedMutex

	mutex   sync.RWMutex
	servers map[string]*server
	next    map[string]int
	stopped bool

	inflight sync.WaitGroup
}

func NewTransport(opts config.RPCOptions) (*Transport, error) {
	pool, err := ants.NewPool(ants.NewConfig(
		ants.WithName("rpc"),
		ants.WithNumWorkers(opts.Workers),
	))
	if err != nil {
		return nil, err
	}
	return &Transport{
		responseTimeout: opts.ResponseTimeout,
		pool:            pool,
		locks:           locks.NewGCNamedMutex(),
		servers:         make(map[string]*server),
		next:            make(map[string]int),
	}, nil
}

func (t *Transport) Start(ctx context.Context) error {
	return t.pool.Start(ctx)
}

// Stop waits for queued casts to finish, then refuses further traffic.
func (t *Transport) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		Logc(ctx).Warning("Stopping RPC transport with casts still queued.")
	}

	t.mutex.Lock()
	t.stopped = true
	t.mutex.Unlock()

	return t.pool.Shutdown(ctx)
}

// Wait blocks until every cast queued so far has been handled.
func (t *Transport) Wait() {
	t.inflight.Wait()
}

func serverKey(topic, host string) string {
	return topic + "." + host
}

// Register starts serving endpoint for target.Server on target.Topic. A non-empty
// target.Cluster makes the server a member of that cluster.
func (t *Transport) Register(
	ctx context.Context, target Target, maxVersion string, endpoint Endpoint, opts ...ServerOption,
) error {
	if target.Topic == "" || target.Server == "" {
		return errors.InvalidInputError("an RPC server needs a topic and a host")
	}
	v, err := version.NewVersion(maxVersion)
	if err != nil {
		return errors.InvalidInputError("invalid RPC version %s; %v", maxVersion, err)
	}

	key := serverKey(target.Topic, target.Server)

	t.mutex.Lock()
	defer t.mutex.Unlock()
	if _, ok := t.servers[key]; ok {
		return errors.AlreadyExistsError("rpc server %s is already registered", key)
	}
	s := &server{key: key, target: target, maxVersion: v, endpoint: endpoint}
	for _, opt := range opts {
		opt(s)
	}
	t.servers[key] = s

	Logc(ctx).WithFields(LogFields{
		"server":  key,
		"cluster": target.Cluster,
		"version": maxVersion,
	}).Debug("Registered RPC server.")
	return nil
}

// Unregister stops routing to a server. Casts already queued for it still run.
func (t *Transport) Unregister(ctx context.Context, target Target) {
	key := serverKey(target.Topic, target.Server)
	t.mutex.Lock()
	delete(t.servers, key)
	t.mutex.Unlock()
	Logc(ctx).WithField("server", key).Debug("Unregistered RPC server.")
}

// Versions returns the newest API version of every server on topic.
func (t *Transport) Versions(topic string) []*version.Version {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	versions := make([]*version.Version, 0)
	for _, s := range t.servers {
		if s.target.Topic == topic {
			versions = append(versions, s.maxVersion)
		}
	}
	return versions
}

// resolve picks the server for a cast or call. Cluster targets rotate over the cluster's
// members and bare topic targets over every server of the topic.
func (t *Transport) resolve(target Target) (*server, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.stopped {
		return nil, errors.NotReadyError()
	}
	if target.Server != "" {
		s, ok := t.servers[serverKey(target.Topic, target.Server)]
		if !ok {
			return nil, errors.ServiceNotFoundError("no %s server is listening for %s", target.Topic,
				target.Server)
		}
		return s, nil
	}

	members := make([]*server, 0)
	for _, s := range t.servers {
		if s.target.Topic == target.Topic && (target.Cluster == "" || s.target.Cluster == target.Cluster) {
			members = append(members, s)
		}
	}
	if len(members) == 0 {
		return nil, errors.ServiceNotFoundError("no server is listening for %s", target)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].key < members[j].key })

	rrKey := target.String()
	i := t.next[rrKey] % len(members)
	t.next[rrKey] = i + 1
	return members[i], nil
}

// Cast queues msg for one server and returns without waiting for it to be handled.
func (t *Transport) Cast(ctx context.Context, target Target, msg []byte) error {
	s, err := t.resolve(target)
	if err != nil {
		return err
	}
	return t.enqueue(ctx, s, msg)
}

// Fanout casts msg to every server on topic.
func (t *Transport) Fanout(ctx context.Context, topic string, msg []byte) error {
	t.mutex.RLock()
	if t.stopped {
		t.mutex.RUnlock()
		return errors.NotReadyError()
	}
	targets := make([]*server, 0)
	for _, s := range t.servers {
		if s.target.Topic == topic {
			targets = append(targets, s)
		}
	}
	t.mutex.RUnlock()

	var errs error
	for _, s := range targets {
		errs = errors.Append(errs, t.enqueue(ctx, s, msg))
	}
	return errs
}

func (t *Transport) enqueue(ctx context.Context, s *server, msg []byte) error {
	t.inflight.Add(1)

	if s.concurrent {
		err := t.pool.Submit(ctx, func() {
			defer t.inflight.Done()
			t.dispatch(s, msg, deliveryCast)
		})
		if err != nil {
			t.inflight.Done()
			return errors.WrapWithConnectionError(err, "could not queue cast for %s", s.key)
		}
		return nil
	}

	s.mutex.Lock()
	s.queue = append(s.queue, msg)
	rpcQueueDepth.WithLabelValues(s.target.Topic).Inc()
	if s.draining {
		s.mutex.Unlock()
		return nil
	}
	s.draining = true
	s.mutex.Unlock()

	if err := t.pool.Submit(ctx, func() { t.drain(s) }); err != nil {
		s.mutex.Lock()
		dropped := len(s.queue)
		s.queue = nil
		s.draining = false
		s.mutex.Unlock()
		rpcQueueDepth.WithLabelValues(s.target.Topic).Sub(float64(dropped))
		for i := 0; i < dropped; i++ {
			t.inflight.Done()
		}
		return errors.WrapWithConnectionError(err, "could not queue cast for %s", s.key)
	}
	return nil
}

func (t *Transport) drain(s *server) {
	for {
		s.mutex.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mutex.Unlock()
			return
		}
		msg := s.queue[0]
		s.queue = s.queue[1:]
		s.mutex.Unlock()
		rpcQueueDepth.WithLabelValues(s.target.Topic).Dec()

		t.dispatch(s, msg, deliveryCast)
		t.inflight.Done()
	}
}

// Call delivers msg to one server and waits for the encoded reply. Waiting longer than
// the response timeout fails with a timeout error; the handler still runs to completion.
func (t *Transport) Call(ctx context.Context, target Target, msg []byte) ([]byte, error) {
	s, err := t.resolve(target)
	if err != nil {
		return nil, err
	}

	replies := make(chan []byte, 1)
	go func() {
		replies <- t.dispatch(s, msg, deliveryCall)
	}()

	timer := time.NewTimer(t.responseTimeout)
	defer timer.Stop()

	select {
	case reply := <-replies:
		return reply, nil
	case <-timer.C:
		return nil, errors.TimeoutError("no reply from %s within %v", s.key, t.responseTimeout)
	case <-ctx.Done():
		return nil, errors.TimeoutError("gave up waiting for %s; %v", s.key, ctx.Err())
	}
}

// dispatch runs the handler named by msg and encodes its reply.
func (t *Transport) dispatch(s *server, msg []byte, delivery string) []byte {
	if !s.concurrent {
		locked := t.locks.LockWithGuard(s.key)
		defer locked.Unlock()
	}

	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		Log().WithField("server", s.key).WithError(err).Error("Discarding undecodable RPC message.")
		return encodeReply(nil, errors.InvalidInputError("undecodable RPC message; %v", err))
	}

	ctx := GenerateRequestContext(context.Background(), env.RequestID, env.Source, env.Workflow, LogLayerRPC)
	fields := LogFields{"server": s.key, "method": env.Method, "version": env.Version, "delivery": delivery}

	start := time.Now()
	result, err := t.invoke(ctx, s, &env)
	rpcDispatchDuration.WithLabelValues(s.target.Topic, env.Method).
		Observe(float64(time.Since(start).Milliseconds()))
	rpcMessagesTotal.WithLabelValues(s.target.Topic, env.Method, delivery, strconv.FormatBool(err == nil)).Inc()

	if err != nil {
		if delivery == deliveryCall || errors.ExpectedError(err) {
			Logc(ctx).WithFields(fields).WithError(err).Debug("RPC handler failed.")
		} else {
			Logc(ctx).WithFields(fields).WithError(err).Error("RPC handler failed.")
		}
	} else {
		Logc(ctx).WithFields(fields).Trace("RPC handled.")
	}
	return encodeReply(result, err)
}

func (t *Transport) invoke(ctx context.Context, s *server, env *Envelope) (result any, err error) {
	v, err := version.NewVersion(env.Version)
	if err != nil {
		return nil, errors.InvalidInputError("invalid RPC version %s; %v", env.Version, err)
	}
	if v.GreaterThan(s.maxVersion) {
		return nil, errors.UnsupportedError("%s speaks at most version %s, got %s", s.key, s.maxVersion, v)
	}
	handler, ok := s.endpoint[env.Method]
	if !ok {
		return nil, errors.UnsupportedError("%s has no method %s", s.key, env.Method)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked in %s: %v", s.key, env.Method, r)
		}
	}()
	return handler(ctx, env.Args)
}

func encodeReply(result any, err error) []byte {
	reply := Reply{Error: encodeError(err)}
	if err == nil && result != nil {
		data, mErr := json.Marshal(result)
		if mErr != nil {
			reply.Error = encodeError(fmt.Errorf("could not encode reply; %v", mErr))
		} else {
			reply.Result = data
		}
	}
	data, _ := json.Marshal(reply)
	return data
}
