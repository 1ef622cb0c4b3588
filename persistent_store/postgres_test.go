// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package persistentstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openblock/blockd/storage"
)

func newMockPostgres(t *testing.T) (*PostgresClient, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	mock.ExpectExec(createObjectsTable).WillReturnResult(sqlmock.NewResult(0, 0))

	client, err := newPostgresClientWithDB(testCtx(), db)
	require.NoError(t, err)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return fixed }
	return client, mock
}

func serviceRow(t *testing.T, svc *storage.Service) *sqlmock.Rows {
	data, err := json.Marshal(svc)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"data"}).AddRow(data)
}

func TestPostgresClient_CreateTableError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	mock.ExpectExec(createObjectsTable).WillReturnError(fmt.Errorf("permission denied"))

	_, err = newPostgresClientWithDB(testCtx(), db)
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_AddVolume(t *testing.T) {
	client, mock := newMockPostgres(t)
	assert.Equal(t, PostgresStore, client.GetType())

	vol := &storage.Volume{ID: "v1", Status: storage.VolumeStatusCreating}
	mock.ExpectExec(insertObject).
		WithArgs(volumeKind, "v1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, client.AddVolume(testCtx(), vol))

	mock.ExpectExec(insertObject).
		WithArgs(volumeKind, "v1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: uniqueViolation})
	assert.True(t, MatchKeyExistsErr(client.AddVolume(testCtx(), vol)))

	mock.ExpectExec(insertObject).
		WithArgs(volumeKind, "v1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("connection reset"))
	err := client.AddVolume(testCtx(), vol)
	assert.ErrorContains(t, err, "could not insert volume v1")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_GetVolume(t *testing.T) {
	client, mock := newMockPostgres(t)

	data, _ := json.Marshal(&storage.Volume{ID: "v1", Host: "n1@lvm#p1"})
	mock.ExpectQuery(selectObject).WithArgs(volumeKind, "v1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(data))
	vol, err := client.GetVolume(testCtx(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "n1@lvm#p1", vol.Host)

	mock.ExpectQuery(selectObject).WithArgs(volumeKind, "v2").WillReturnError(sql.ErrNoRows)
	_, err = client.GetVolume(testCtx(), "v2")
	assert.True(t, MatchKeyNotFoundErr(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_GetVolumesFiltered(t *testing.T) {
	client, mock := newMockPostgres(t)

	rows := sqlmock.NewRows([]string{"data"})
	for _, v := range []*storage.Volume{
		{ID: "v1", Host: "n1@lvm#p1"},
		{ID: "v2", Host: "n2@lvm#p1"},
		{ID: "v3", Host: "n1@lvm#p2"},
	} {
		data, _ := json.Marshal(v)
		rows.AddRow(data)
	}
	mock.ExpectQuery(selectObjects).WithArgs(volumeKind).WillReturnRows(rows)

	vols, err := client.GetVolumes(testCtx(), &VolumeFilter{Host: "n1@lvm"})
	require.NoError(t, err)
	require.Len(t, vols, 2)
	assert.Equal(t, "v1", vols[0].ID)
	assert.Equal(t, "v3", vols[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_UpdateAndDelete(t *testing.T) {
	client, mock := newMockPostgres(t)

	mock.ExpectExec(updateObject).
		WithArgs(snapshotKind, "s1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, client.UpdateSnapshot(testCtx(), &storage.Snapshot{ID: "s1"}))

	mock.ExpectExec(updateObject).
		WithArgs(snapshotKind, "s2", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, MatchKeyNotFoundErr(client.UpdateSnapshot(testCtx(), &storage.Snapshot{ID: "s2"})))

	mock.ExpectExec(deleteObject).WithArgs(messageKind, "m1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, client.DeleteMessage(testCtx(), "m1"))

	mock.ExpectExec(deleteObject).WithArgs(messageKind, "m1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, MatchKeyNotFoundErr(client.DeleteMessage(testCtx(), "m1")))

	now := time.Now()
	mock.ExpectExec(deleteExpired).WithArgs(messageKind, zeroTimeJSON, now).WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := client.DeleteExpiredMessages(testCtx(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_ConditionalUpdateService(t *testing.T) {
	isEnabled := func(s *storage.Service) bool { return s.ReplicationStatus == storage.ReplicationEnabled }
	toFailingOver := func(s *storage.Service) { s.ReplicationStatus = storage.ReplicationFailingOver }
	key := serviceKey("n1@lvm", "blockd-volume")

	t.Run("wins", func(t *testing.T) {
		client, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectObjectLocked).WithArgs(serviceKind, key).
			WillReturnRows(serviceRow(t, &storage.Service{
				Host: "n1@lvm", Binary: "blockd-volume", ReplicationStatus: storage.ReplicationEnabled,
			}))
		mock.ExpectExec(updateObject).WithArgs(serviceKind, key, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ok, err := client.ConditionalUpdateService(testCtx(), "n1@lvm", "blockd-volume", isEnabled, toFailingOver)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loses", func(t *testing.T) {
		client, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectObjectLocked).WithArgs(serviceKind, key).
			WillReturnRows(serviceRow(t, &storage.Service{
				Host: "n1@lvm", Binary: "blockd-volume", ReplicationStatus: storage.ReplicationFailedOver,
			}))
		mock.ExpectRollback()

		ok, err := client.ConditionalUpdateService(testCtx(), "n1@lvm", "blockd-volume", isEnabled, toFailingOver)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		client, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectObjectLocked).WithArgs(serviceKind, key).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := client.ConditionalUpdateService(testCtx(), "n1@lvm", "blockd-volume", isEnabled, toFailingOver)
		assert.True(t, MatchKeyNotFoundErr(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update fails", func(t *testing.T) {
		client, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectObjectLocked).WithArgs(serviceKind, key).
			WillReturnRows(serviceRow(t, &storage.Service{
				Host: "n1@lvm", Binary: "blockd-volume", ReplicationStatus: storage.ReplicationEnabled,
			}))
		mock.ExpectExec(updateObject).WithArgs(serviceKind, key, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(fmt.Errorf("deadlock detected"))
		mock.ExpectRollback()

		ok, err := client.ConditionalUpdateService(testCtx(), "n1@lvm", "blockd-volume", isEnabled, toFailingOver)
		assert.False(t, ok)
		assert.ErrorContains(t, err, "deadlock detected")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresClient_Stop(t *testing.T) {
	client, mock := newMockPostgres(t)
	mock.ExpectClose()
	require.NoError(t, client.Stop())
	assert.NoError(t, mock.ExpectationsWereMet())
}
