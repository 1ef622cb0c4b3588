// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

// Package fake is an in-memory storage driver. It provisions nothing, but keeps pool
// accounting, LUN numbering and replication state the way an array would, and lets
// callers inject failures.
package fake

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/storage"
	drivers "github.com/openblock/blockd/storage_drivers"
	"github.com/openblock/blockd/utils/errors"
)

const (
	driverVersion     = "1.0.0"
	defaultVendorName = "OpenBlock"

	// Capability keys reported for every pool.
	capabilityDriver = "driver"
	capabilityLUNs   = "luns_in_use"
)

// Faults holds the outcomes injected into the driver. A zero value injects nothing.
type Faults struct {
	// CreateVolume fails every create with this error.
	CreateVolume error
	// TransientCreateFailures fails this many creates with a connection error first.
	TransientCreateFailures int
	ExtendVolume            error

	// FailoverHost fails the failover with this error.
	FailoverHost error
	// VolumeUpdates replace the per-volume updates the driver would compute itself.
	VolumeUpdates []storage.VolumeUpdate
	GroupUpdates  []storage.GroupUpdate

	FailoverCompleted error
	Freeze            error
	Thaw              error
}

type pool struct {
	config      config.PoolConfig
	allocatedGB float64
	volumes     int
}

type volume struct {
	id     string
	name   string
	pool   string
	sizeGB int
	lun    uint32
}

type snapshot struct {
	id       string
	volumeID string
	sizeGB   int
}

// unmanaged is a volume present on the array that no record refers to.
type unmanaged struct {
	reference string
	sizeGB    int
}

type StorageDriver struct {
	mutex       sync.Mutex
	initialized bool
	backend     *config.BackendConfig

	pools     map[string]*pool
	poolNames []string
	volumes   map[string]*volume
	snapshots map[string]*snapshot
	unmanaged []unmanaged
	luns      *roaring.Bitmap

	// activeBackendID is "" while the primary serves I/O.
	activeBackendID string
	frozen          bool
	faults          Faults
}

func NewDriver() *StorageDriver {
	return &StorageDriver{
		pools:     make(map[string]*pool),
		volumes:   make(map[string]*volume),
		snapshots: make(map[string]*snapshot),
		luns:      roaring.New(),
	}
}

func (d *StorageDriver) Name() string {
	return drivers.FakeStorageDriverName
}

func (d *StorageDriver) Initialize(ctx context.Context, backend *config.BackendConfig) error {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerFakeDriver)

	if err := drivers.ValidateCommonSettings(ctx, backend); err != nil {
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.backend = backend
	pools := backend.Pools
	if len(pools) == 0 {
		pools = []config.PoolConfig{{Name: storage.DefaultPoolName, TotalCapacityGB: storage.CapacityInfinite}}
	}
	for _, p := range pools {
		if p.MaxOverSubscriptionRatio <= 0 {
			p.MaxOverSubscriptionRatio = 1
		}
		d.pools[p.Name] = &pool{config: p}
		d.poolNames = append(d.poolNames, p.Name)
	}
	d.initialized = true

	Logc(ctx).WithFields(LogFields{
		"backend": backend.ServiceHost(),
		"pools":   d.poolNames,
		"targets": backend.ReplicationTargets,
	}).Debug("Initialized fake driver.")
	return nil
}

func (d *StorageDriver) Initialized() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.initialized
}

func (d *StorageDriver) Terminate(ctx context.Context) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.initialized = false
	Logc(ctx).WithField("backend", d.backendName()).Debug("Terminated fake driver.")
}

// SetFaults replaces the injected outcomes.
func (d *StorageDriver) SetFaults(faults Faults) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.faults = faults
}

// AddUnmanagedVolume places a volume on the array that blockd does not know about.
func (d *StorageDriver) AddUnmanagedVolume(reference string, sizeGB int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.unmanaged = append(d.unmanaged, unmanaged{reference: reference, sizeGB: sizeGB})
}

// ActiveBackendID returns the replication target serving I/O, or "" for the primary.
func (d *StorageDriver) ActiveBackendID() string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.activeBackendID
}

func (d *StorageDriver) Frozen() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.frozen
}

// HasVolume reports whether the volume exists on the array.
func (d *StorageDriver) HasVolume(volumeID string) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	_, ok := d.volumes[volumeID]
	return ok
}

func (d *StorageDriver) backendName() string {
	if d.backend == nil {
		return ""
	}
	return d.backend.Name
}

func (d *StorageDriver) checkInitialized() error {
	if !d.initialized {
		return errors.NotReadyError()
	}
	return nil
}

func (d *StorageDriver) GetCapabilities(ctx context.Context) (*storage.Capabilities, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkInitialized(); err != nil {
		return nil, err
	}

	vendor := d.backend.Options[drivers.OptionVendorName]
	if vendor == "" {
		vendor = defaultVendorName
	}
	protocol := d.backend.Options[drivers.OptionStorageProtocol]
	if protocol == "" {
		protocol = drivers.DefaultStorageProtocol
	}

	capabilities := &storage.Capabilities{
		BackendName:        d.backend.Name,
		VendorName:         vendor,
		DriverVersion:      driverVersion,
		StorageProtocol:    protocol,
		ReplicationEnabled: len(d.backend.ReplicationTargets) > 0,
		ReplicationTargets: slices.Clone(d.backend.ReplicationTargets),
		Pools:              make([]storage.PoolCapabilities, 0, len(d.poolNames)),
	}
	for _, name := range d.poolNames {
		p := d.pools[name]
		free := p.config.TotalCapacityGB
		if free >= 0 {
			free = max(p.config.TotalCapacityGB-p.allocatedGB, 0)
		}
		caps := map[string]string{
			capabilityDriver: drivers.FakeStorageDriverName,
			capabilityLUNs:   fmt.Sprint(d.luns.GetCardinality()),
		}
		for k, v := range p.config.Capabilities {
			caps[k] = v
		}
		capabilities.Pools = append(capabilities.Pools, storage.PoolCapabilities{
			PoolName:                 name,
			TotalCapacityGB:          p.config.TotalCapacityGB,
			FreeCapacityGB:           free,
			ProvisionedCapacityGB:    p.allocatedGB,
			AllocatedCapacityGB:      p.allocatedGB,
			ReservedPercentage:       p.config.ReservedPercentage,
			ThinProvisioningSupport:  p.config.ThinProvisioning,
			ThickProvisioningSupport: !p.config.ThinProvisioning,
			MaxOverSubscriptionRatio: p.config.MaxOverSubscriptionRatio,
			TotalVolumes:             p.volumes,
			Capabilities:             caps,
		})
	}
	return capabilities, nil
}

// fits reports whether a pool can hold growGB more. Thin pools may be over-subscribed up
// to their ratio.
func (p *pool) fits(growGB int) bool {
	if p.config.TotalCapacityGB < 0 {
		return true
	}
	limit := p.config.TotalCapacityGB
	if p.config.ThinProvisioning {
		limit *= p.config.MaxOverSubscriptionRatio
	}
	return p.allocatedGB+float64(growGB) <= limit
}

// nextLUN returns the lowest free LUN number.
func (d *StorageDriver) nextLUN() uint32 {
	var lun uint32
	for d.luns.Contains(lun) {
		lun++
	}
	return lun
}

func (d *StorageDriver) CreateVolume(ctx context.Context, vol *storage.Volume) (*storage.VolumeFields, error) {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerFakeDriver)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkInitialized(); err != nil {
		return nil, err
	}
	if d.faults.TransientCreateFailures > 0 {
		d.faults.TransientCreateFailures--
		return nil, errors.ConnectionError("backend %s did not respond", d.backend.Name)
	}
	if d.faults.CreateVolume != nil {
		return nil, d.faults.CreateVolume
	}
	if _, ok := d.volumes[vol.ID]; ok {
		return nil, errors.AlreadyExistsError("volume %s already exists on backend %s", vol.ID, d.backend.Name)
	}
	if _, _, err := drivers.CheckVolumeSizeLimits(ctx, vol.Size, d.backend.Options[drivers.OptionLimitVolumeSize]); err != nil {
		return nil, err
	}

	poolName := storage.ExtractHost(vol.Host, storage.HostLevelPool, true)
	p, ok := d.pools[poolName]
	if !ok {
		return nil, errors.VolumeDriverError("pool %s not found on backend %s", poolName, d.backend.Name)
	}
	if !p.fits(vol.Size) {
		return nil, errors.VolumeDriverError("pool %s has insufficient space for a %d GiB volume", poolName, vol.Size)
	}

	lun := d.nextLUN()
	d.luns.Add(lun)
	p.allocatedGB += float64(vol.Size)
	p.volumes++
	d.volumes[vol.ID] = &volume{id: vol.ID, name: vol.Name, pool: poolName, sizeGB: vol.Size, lun: lun}

	Logc(ctx).WithFields(LogFields{
		"volume": vol.ID,
		"pool":   poolName,
		"size":   vol.Size,
		"lun":    lun,
	}).Debug("Created fake volume.")

	if len(d.backend.ReplicationTargets) == 0 || !vol.VolumeType.IsReplicated() {
		return nil, nil
	}
	return &storage.VolumeFields{
		ReplicationStatus:     storage.Ptr(storage.ReplicationEnabled),
		ReplicationDriverData: storage.Ptr(fmt.Sprintf("lun=%d", lun)),
	}, nil
}

func (d *StorageDriver) DeleteVolume(ctx context.Context, vol *storage.Volume) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkInitialized(); err != nil {
		return err
	}
	v, ok := d.volumes[vol.ID]
	if !ok {
		// Deleting a volume that never reached the array succeeds.
		Logc(ctx).WithField("volume", vol.ID).Debug("Fake volume not found, nothing to delete.")
		return nil
	}
	for _, s := range d.snapshots {
		if s.volumeID == vol.ID {
			return errors.InvalidInputError("volume %s has snapshots", vol.ID)
		}
	}
	p := d.pools[v.pool]
	p.allocatedGB -= float64(v.sizeGB)
	p.volumes--
	d.luns.Remove(v.lun)
	delete(d.volumes, vol.ID)
	return nil
}

func (d *StorageDriver) ExtendVolume(ctx context.Context, vol *storage.Volume, newSizeGiB int) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkInitialized(); err != nil {
		return err
	}
	if d.faults.ExtendVolume != nil {
		return d.faults.ExtendVolume
	}
	v, ok := d.volumes[vol.ID]
	if !ok {
		return errors.NotFoundError("volume %s not found on backend %s", vol.ID, d.backend.Name)
	}
	if newSizeGiB < v.sizeGB {
		return errors.InvalidInputError("cannot shrink volume %s from %d to %d GiB", vol.ID, v.sizeGB, newSizeGiB)
	}
	if _, _, err := drivers.CheckVolumeSizeLimits(ctx, newSizeGiB, d.backend.Options[drivers.OptionLimitVolumeSize]); err != nil {
		return err
	}
	p := d.pools[v.pool]
	if !p.fits(newSizeGiB - v.sizeGB) {
		return errors.VolumeDriverError("pool %s has insufficient space to extend volume %s", v.pool, vol.ID)
	}
	p.allocatedGB += float64(newSizeGiB - v.sizeGB)
	v.sizeGB = newSizeGiB
	return nil
}

func (d *StorageDriver) CreateSnapshot(ctx context.Context, snap *storage.Snapshot, vol *storage.Volume) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkInitialized(); err != nil {
		return err
	}
	v, ok := d.volumes[vol.ID]
	if !ok {
		return errors.NotFoundError("volume %s not found on backend %s", vol.ID, d.backend.Name)
	}
	d.snapshots[snap.ID] = &snapshot{id: snap.ID, volumeID: vol.ID, sizeGB: v.sizeGB}
	Logc(ctx).WithFields(LogFields{"snapshot": snap.ID, "volume": vol.ID}).Debug("Created fake snapshot.")
	return nil
}

func (d *StorageDriver) DeleteSnapshot(_ context.Context, snap *storage.Snapshot) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkInitialized(); err != nil {
		return err
	}
	delete(d.snapshots, snap.ID)
	return nil
}

// FailoverHost switches I/O to secondaryID, or back to the primary for the failback
// target. An empty secondaryID picks the first replication target. Volumes the array does
// not hold come back in error.
func (d *StorageDriver) FailoverHost(
	ctx context.Context, volumes []*storage.Volume, secondaryID string, groups []*storage.Group,
) (*storage.FailoverResult, error) {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerFakeDriver)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkInitialized(); err != nil {
		return nil, err
	}

	if secondaryID == "" && len(d.backend.ReplicationTargets) > 0 {
		secondaryID = d.backend.ReplicationTargets[0]
	}
	failback := secondaryID == config.FailbackTarget
	if !failback && !slices.Contains(d.backend.ReplicationTargets, secondaryID) {
		return nil, errors.InvalidReplicationTargetError("%s is not a replication target of backend %s",
			secondaryID, d.backend.Name)
	}
	if failback && d.activeBackendID == "" {
		Logc(ctx).WithField("backend", d.backend.Name).Debug("Backend is already on its primary.")
	}
	if d.faults.FailoverHost != nil {
		return nil, d.faults.FailoverHost
	}

	result := &storage.FailoverResult{ActiveBackendID: secondaryID}
	if failback {
		d.activeBackendID = ""
	} else {
		d.activeBackendID = secondaryID
	}

	if d.faults.VolumeUpdates != nil || d.faults.GroupUpdates != nil {
		result.VolumeUpdates = slices.Clone(d.faults.VolumeUpdates)
		result.GroupUpdates = slices.Clone(d.faults.GroupUpdates)
		return result, nil
	}

	replicated := storage.ReplicationFailedOver
	if failback {
		replicated = storage.ReplicationEnabled
	}
	for _, vol := range volumes {
		update := storage.VolumeUpdate{VolumeID: vol.ID}
		if _, ok := d.volumes[vol.ID]; ok {
			update.Updates.ReplicationStatus = storage.Ptr(replicated)
		} else {
			update.Updates.Status = storage.Ptr(storage.VolumeStatusError)
		}
		result.VolumeUpdates = append(result.VolumeUpdates, update)
	}
	for _, group := range groups {
		result.GroupUpdates = append(result.GroupUpdates, storage.GroupUpdate{
			GroupID: group.ID,
			Updates: storage.GroupFields{ReplicationStatus: storage.Ptr(replicated)},
		})
	}

	Logc(ctx).WithFields(LogFields{
		"backend": d.backend.Name,
		"active":  secondaryID,
		"volumes": len(volumes),
		"groups":  len(groups),
	}).Info("Fake backend failed over.")
	return result, nil
}

func (d *StorageDriver) FailoverCompleted(ctx context.Context, activeBackendID string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.faults.FailoverCompleted != nil {
		return d.faults.FailoverCompleted
	}
	if activeBackendID == config.FailbackTarget {
		activeBackendID = ""
	}
	d.activeBackendID = activeBackendID
	Logc(ctx).WithField("active", activeBackendID).Debug("Fake backend completed cluster failover.")
	return nil
}

func (d *StorageDriver) Freeze(context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.faults.Freeze != nil {
		return d.faults.Freeze
	}
	d.frozen = true
	return nil
}

func (d *StorageDriver) Thaw(context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.faults.Thaw != nil {
		return d.faults.Thaw
	}
	d.frozen = false
	return nil
}

func volumeReference(id string) string {
	return "volume-" + id
}

func (d *StorageDriver) GetManageableVolumes(
	_ context.Context, existing []*storage.Volume, opts *storage.ManageableListOptions,
) ([]*storage.ManageableVolume, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkInitialized(); err != nil {
		return nil, err
	}

	known := make(map[string]string, len(existing))
	for _, v := range existing {
		known[volumeReference(v.ID)] = v.ID
	}

	entries := make([]*storage.ManageableVolume, 0, len(d.volumes)+len(d.unmanaged))
	for _, v := range d.volumes {
		entry := &storage.ManageableVolume{
			Reference: volumeReference(v.id),
			Size:      v.sizeGB,
			ExtraInfo: map[string]string{"pool": v.pool, "lun": fmt.Sprint(v.lun)},
		}
		if id, ok := known[entry.Reference]; ok {
			entry.ReasonNotSafe = "already managed"
			entry.ExistingID = id
		} else {
			entry.SafeToManage = true
		}
		entries = append(entries, entry)
	}
	for _, u := range d.unmanaged {
		entries = append(entries, &storage.ManageableVolume{Reference: u.reference, Size: u.sizeGB, SafeToManage: true})
	}
	return storage.PaginateManageable(entries, opts)
}

func (d *StorageDriver) GetManageableSnapshots(
	_ context.Context, existing []*storage.Snapshot, opts *storage.ManageableListOptions,
) ([]*storage.ManageableSnapshot, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.checkInitialized(); err != nil {
		return nil, err
	}

	known := make(map[string]string, len(existing))
	for _, s := range existing {
		known["snapshot-"+s.ID] = s.ID
	}

	entries := make([]*storage.ManageableSnapshot, 0, len(d.snapshots))
	for _, s := range d.snapshots {
		entry := &storage.ManageableSnapshot{
			Reference:       "snapshot-" + s.id,
			SourceReference: volumeReference(s.volumeID),
			Size:            s.sizeGB,
		}
		if id, ok := known[entry.Reference]; ok {
			entry.ReasonNotSafe = "already managed"
			entry.ExistingID = id
		} else {
			entry.SafeToManage = true
		}
		entries = append(entries, entry)
	}
	return storage.PaginateManageable(entries, opts)
}
