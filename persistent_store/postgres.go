// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package persistentstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/storage"
)

const (
	createObjectsTable = `CREATE TABLE IF NOT EXISTS blockd_objects (
		kind TEXT NOT NULL,
		id TEXT NOT NULL,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (kind, id)
	)`
	insertObject       = `INSERT INTO blockd_objects (kind, id, data, updated_at) VALUES ($1, $2, $3, $4)`
	selectObject       = `SELECT data FROM blockd_objects WHERE kind = $1 AND id = $2`
	selectObjectLocked = `SELECT data FROM blockd_objects WHERE kind = $1 AND id = $2 FOR UPDATE`
	selectObjects      = `SELECT data FROM blockd_objects WHERE kind = $1 ORDER BY id`
	updateObject       = `UPDATE blockd_objects SET data = $3, updated_at = $4 WHERE kind = $1 AND id = $2`
	deleteObject       = `DELETE FROM blockd_objects WHERE kind = $1 AND id = $2`
	deleteExpired      = `DELETE FROM blockd_objects WHERE kind = $1 AND data->>'expiresAt' <> $2 ` +
		`AND (data->>'expiresAt')::timestamptz <= $3`

	uniqueViolation = pq.ErrorCode("23505")
	zeroTimeJSON    = "0001-01-01T00:00:00Z"
)

// PostgresClient keeps every record as a JSONB document in one table keyed by kind and
// id. Conditional updates lock the row for the duration of the check.
type PostgresClient struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresClient connects to the database named by dsn, retrying the first ping with
// an exponential backoff, and creates the objects table if needed.
func NewPostgresClient(ctx context.Context, dsn string) (*PostgresClient, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "could not open database")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ping := func() error {
		return db.PingContext(ctx)
	}
	pingNotify := func(err error, duration time.Duration) {
		Logc(ctx).WithFields(LogFields{
			"increment": duration,
			"error":     err,
		}).Debug("Database is not reachable yet, waiting.")
	}
	pingBackoff := backoff.NewExponentialBackOff()
	pingBackoff.InitialInterval = 500 * time.Millisecond
	pingBackoff.MaxInterval = 5 * time.Second
	pingBackoff.MaxElapsedTime = config.PersistentStoreBootstrapTimeout

	if err = backoff.RetryNotify(ping, backoff.WithContext(pingBackoff, ctx), pingNotify); err != nil {
		_ = db.Close()
		Logc(ctx).WithError(err).Error("Could not reach the database.")
		return nil, NewPersistentStoreError(UnavailableStoreErr, string(PostgresStore))
	}

	return newPostgresClientWithDB(ctx, db)
}

func newPostgresClientWithDB(ctx context.Context, db *sql.DB) (*PostgresClient, error) {
	if _, err := db.ExecContext(ctx, createObjectsTable); err != nil {
		return nil, pkgerrors.Wrap(err, "could not create objects table")
	}
	return &PostgresClient{db: db, now: time.Now}, nil
}

func (p *PostgresClient) GetType() StoreType {
	return PostgresStore
}

func (p *PostgresClient) Stop() error {
	return p.db.Close()
}

func pgAdd[T any](ctx context.Context, p *PostgresClient, kind, id string, record *T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return pkgerrors.Wrapf(err, "could not encode %s %s", kind, id)
	}
	if _, err = p.db.ExecContext(ctx, insertObject, kind, id, data, p.now()); err != nil {
		var pqErr *pq.Error
		if pkgerrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return NewPersistentStoreError(KeyExistsErr, id)
		}
		return pkgerrors.Wrapf(err, "could not insert %s %s", kind, id)
	}
	return nil
}

func pgGet[T any](ctx context.Context, p *PostgresClient, kind, id string) (*T, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, selectObject, kind, id).Scan(&data)
	if pkgerrors.Is(err, sql.ErrNoRows) {
		return nil, NewPersistentStoreError(KeyNotFoundErr, id)
	} else if err != nil {
		return nil, pkgerrors.Wrapf(err, "could not read %s %s", kind, id)
	}
	record := new(T)
	if err = json.Unmarshal(data, record); err != nil {
		return nil, pkgerrors.Wrapf(err, "could not decode %s %s", kind, id)
	}
	return record, nil
}

func pgList[T any](ctx context.Context, p *PostgresClient, kind string, match func(*T) bool) ([]*T, error) {
	rows, err := p.db.QueryContext(ctx, selectObjects, kind)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "could not list %s records", kind)
	}
	defer rows.Close()

	ret := make([]*T, 0)
	for rows.Next() {
		var data []byte
		if err = rows.Scan(&data); err != nil {
			return nil, pkgerrors.Wrapf(err, "could not read %s record", kind)
		}
		record := new(T)
		if err = json.Unmarshal(data, record); err != nil {
			return nil, pkgerrors.Wrapf(err, "could not decode %s record", kind)
		}
		if match(record) {
			ret = append(ret, record)
		}
	}
	return ret, pkgerrors.Wrapf(rows.Err(), "could not list %s records", kind)
}

func pgUpdate[T any](ctx context.Context, p *PostgresClient, kind, id string, record *T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return pkgerrors.Wrapf(err, "could not encode %s %s", kind, id)
	}
	result, err := p.db.ExecContext(ctx, updateObject, kind, id, data, p.now())
	if err != nil {
		return pkgerrors.Wrapf(err, "could not update %s %s", kind, id)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return NewPersistentStoreError(KeyNotFoundErr, id)
	}
	return nil
}

func pgDelete(ctx context.Context, p *PostgresClient, kind, id string) error {
	result, err := p.db.ExecContext(ctx, deleteObject, kind, id)
	if err != nil {
		return pkgerrors.Wrapf(err, "could not delete %s %s", kind, id)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return NewPersistentStoreError(KeyNotFoundErr, id)
	}
	return nil
}

// pgConditionalUpdate reads the row with FOR UPDATE, so a concurrent conditional update
// of the same record waits and then sees this one's result.
func pgConditionalUpdate[T any](
	ctx context.Context, p *PostgresClient, kind, id string, expected func(*T) bool, apply func(*T),
) (updated bool, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return false, pkgerrors.Wrap(err, "could not begin transaction")
	}
	defer func() {
		if !updated {
			_ = tx.Rollback()
		}
	}()

	var data []byte
	err = tx.QueryRowContext(ctx, selectObjectLocked, kind, id).Scan(&data)
	if pkgerrors.Is(err, sql.ErrNoRows) {
		return false, NewPersistentStoreError(KeyNotFoundErr, id)
	} else if err != nil {
		return false, pkgerrors.Wrapf(err, "could not lock %s %s", kind, id)
	}

	record := new(T)
	if err = json.Unmarshal(data, record); err != nil {
		return false, pkgerrors.Wrapf(err, "could not decode %s %s", kind, id)
	}
	if expected != nil && !expected(record) {
		return false, nil
	}
	apply(record)

	if data, err = json.Marshal(record); err != nil {
		return false, pkgerrors.Wrapf(err, "could not encode %s %s", kind, id)
	}
	if _, err = tx.ExecContext(ctx, updateObject, kind, id, data, p.now()); err != nil {
		return false, pkgerrors.Wrapf(err, "could not update %s %s", kind, id)
	}
	if err = tx.Commit(); err != nil {
		return false, pkgerrors.Wrapf(err, "could not commit %s %s", kind, id)
	}
	return true, nil
}

func (p *PostgresClient) AddVolume(ctx context.Context, vol *storage.Volume) error {
	return pgAdd(ctx, p, volumeKind, vol.ID, vol)
}

func (p *PostgresClient) GetVolume(ctx context.Context, id string) (*storage.Volume, error) {
	return pgGet[storage.Volume](ctx, p, volumeKind, id)
}

func (p *PostgresClient) GetVolumes(ctx context.Context, filter *VolumeFilter) ([]*storage.Volume, error) {
	return pgList(ctx, p, volumeKind, filter.Matches)
}

func (p *PostgresClient) UpdateVolume(ctx context.Context, vol *storage.Volume) error {
	return pgUpdate(ctx, p, volumeKind, vol.ID, vol)
}

func (p *PostgresClient) ConditionalUpdateVolume(
	ctx context.Context, id string, expected func(*storage.Volume) bool, apply func(*storage.Volume),
) (bool, error) {
	return pgConditionalUpdate(ctx, p, volumeKind, id, expected, apply)
}

func (p *PostgresClient) DeleteVolume(ctx context.Context, id string) error {
	return pgDelete(ctx, p, volumeKind, id)
}

func (p *PostgresClient) AddSnapshot(ctx context.Context, snapshot *storage.Snapshot) error {
	return pgAdd(ctx, p, snapshotKind, snapshot.ID, snapshot)
}

func (p *PostgresClient) GetSnapshot(ctx context.Context, id string) (*storage.Snapshot, error) {
	return pgGet[storage.Snapshot](ctx, p, snapshotKind, id)
}

func (p *PostgresClient) GetSnapshots(ctx context.Context, filter *SnapshotFilter) ([]*storage.Snapshot, error) {
	return pgList(ctx, p, snapshotKind, filter.Matches)
}

func (p *PostgresClient) UpdateSnapshot(ctx context.Context, snapshot *storage.Snapshot) error {
	return pgUpdate(ctx, p, snapshotKind, snapshot.ID, snapshot)
}

func (p *PostgresClient) DeleteSnapshot(ctx context.Context, id string) error {
	return pgDelete(ctx, p, snapshotKind, id)
}

func (p *PostgresClient) AddGroup(ctx context.Context, group *storage.Group) error {
	return pgAdd(ctx, p, groupKind, group.ID, group)
}

func (p *PostgresClient) GetGroup(ctx context.Context, id string) (*storage.Group, error) {
	return pgGet[storage.Group](ctx, p, groupKind, id)
}

func (p *PostgresClient) GetGroups(ctx context.Context, filter *GroupFilter) ([]*storage.Group, error) {
	return pgList(ctx, p, groupKind, filter.Matches)
}

func (p *PostgresClient) UpdateGroup(ctx context.Context, group *storage.Group) error {
	return pgUpdate(ctx, p, groupKind, group.ID, group)
}

func (p *PostgresClient) AddService(ctx context.Context, service *storage.Service) error {
	return pgAdd(ctx, p, serviceKind, serviceKey(service.Host, service.Binary), service)
}

func (p *PostgresClient) GetService(ctx context.Context, host, binary string) (*storage.Service, error) {
	return pgGet[storage.Service](ctx, p, serviceKind, serviceKey(host, binary))
}

func (p *PostgresClient) GetServices(ctx context.Context, filter *ServiceFilter) ([]*storage.Service, error) {
	return pgList(ctx, p, serviceKind, filter.Matches)
}

func (p *PostgresClient) UpdateService(ctx context.Context, service *storage.Service) error {
	return pgUpdate(ctx, p, serviceKind, serviceKey(service.Host, service.Binary), service)
}

func (p *PostgresClient) ConditionalUpdateService(
	ctx context.Context, host, binary string, expected func(*storage.Service) bool, apply func(*storage.Service),
) (bool, error) {
	return pgConditionalUpdate(ctx, p, serviceKind, serviceKey(host, binary), expected, apply)
}

func (p *PostgresClient) AddCluster(ctx context.Context, cluster *storage.Cluster) error {
	return pgAdd(ctx, p, clusterKind, clusterKey(cluster.Name, cluster.Binary), cluster)
}

func (p *PostgresClient) GetCluster(ctx context.Context, name, binary string) (*storage.Cluster, error) {
	return pgGet[storage.Cluster](ctx, p, clusterKind, clusterKey(name, binary))
}

func (p *PostgresClient) GetClusters(ctx context.Context, filter *ClusterFilter) ([]*storage.Cluster, error) {
	return pgList(ctx, p, clusterKind, filter.Matches)
}

func (p *PostgresClient) UpdateCluster(ctx context.Context, cluster *storage.Cluster) error {
	return pgUpdate(ctx, p, clusterKind, clusterKey(cluster.Name, cluster.Binary), cluster)
}

func (p *PostgresClient) ConditionalUpdateCluster(
	ctx context.Context, name, binary string, expected func(*storage.Cluster) bool, apply func(*storage.Cluster),
) (bool, error) {
	return pgConditionalUpdate(ctx, p, clusterKind, clusterKey(name, binary), expected, apply)
}

func (p *PostgresClient) AddMessage(ctx context.Context, message *storage.Message) error {
	return pgAdd(ctx, p, messageKind, message.ID, message)
}

func (p *PostgresClient) GetMessage(ctx context.Context, id string) (*storage.Message, error) {
	return pgGet[storage.Message](ctx, p, messageKind, id)
}

func (p *PostgresClient) GetMessages(ctx context.Context, filter *MessageFilter) ([]*storage.Message, error) {
	return pgList(ctx, p, messageKind, filter.Matches)
}

func (p *PostgresClient) DeleteMessage(ctx context.Context, id string) error {
	return pgDelete(ctx, p, messageKind, id)
}

func (p *PostgresClient) DeleteExpiredMessages(ctx context.Context, now time.Time) (int, error) {
	result, err := p.db.ExecContext(ctx, deleteExpired, messageKind, zeroTimeJSON, now)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "could not delete expired messages")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, pkgerrors.Wrap(err, "could not count expired messages")
	}
	return int(n), nil
}
