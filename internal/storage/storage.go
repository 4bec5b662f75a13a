// Package storage orders the release of the service's kernel-level storage
// state: NFS-exported volume mounts, device-mapper-backed tenant volume
// mounts, the thin-pool backing store, and stale export-table entries. It is
// deliberately more aggressive than the service's own cleanup because it has
// to recover from irregular termination.
//
// The mount table, the thin-pool state and the export table are machine-wide
// and shared with other, independently invoked resource agents (the NFS server
// agent, the volume-group agent). No lock is taken over them here: correctness
// relies on the cluster manager's dependency graph invoking storage-stop
// before NFS-stop before LVM-stop. That ordering is a deployment contract,
// not something this package can enforce.
package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/hashicorp/go-multierror"

	"github.com/ocfkit/svcagent/internal/gateway"
)

// DeviceMapperFSType is the filesystem-type property value that makes
// thin-pool deactivation applicable.
const DeviceMapperFSType = "devicemapper"

// tenantID matches the identifier-shaped directory names the service creates
// under its volumes root, one per application tenant.
var tenantID = regexp.MustCompile(`^[0-9a-z]+$`)

// Orchestrator runs the fixed teardown sequence against one instance.
type Orchestrator struct {
	Mounts  gateway.MountTable
	Pool    gateway.StorageControl
	Exports gateway.ExportTable
	// Props is the service's own configuration property store, queried fresh
	// per teardown for the filesystem type and thin-pool device.
	Props gateway.PropertyStore

	ExportedPrefix string
	VolumesRoot    string
	FSTypeProp     string
	ThinPoolProp   string

	Log *slog.Logger
}

// Teardown releases storage state in strict order: exported mounts, tenant
// mounts, thin-pool deactivation, export-table scrub. The order is fixed —
// an exported mount left behind makes the later deactivation fail with
// "device busy". Later steps still run when an earlier one partially fails.
// Only a failure to unmount an exported volume is fatal (it risks leaving
// remote clients attached); everything else is logged and skipped.
func (o *Orchestrator) Teardown() error {
	if err := o.unmountExported(); err != nil {
		return err
	}

	var soft *multierror.Error
	soft = multierror.Append(soft, o.unmountTenants()...)
	if err := o.deactivatePool(); err != nil {
		o.Log.Warn("thin pool deactivation failed", "error", err)
		soft = multierror.Append(soft, err)
	}
	if err := o.Exports.RemoveByPrefix(o.ExportedPrefix); err != nil {
		o.Log.Warn("export table scrub failed", "error", err)
		soft = multierror.Append(soft, err)
	}

	if err := soft.ErrorOrNil(); err != nil {
		o.Log.Warn("storage teardown finished with skipped steps", "error", err)
	}
	return nil
}

// unmountExported force-unmounts every mount under the exported-volumes
// prefix. The first failure aborts the whole sequence.
func (o *Orchestrator) unmountExported() error {
	mounts, err := o.Mounts.List(o.ExportedPrefix)
	if err != nil {
		return fmt.Errorf("enumerate exported mounts: %w", err)
	}
	for _, mp := range mounts {
		o.Log.Info("unmounting exported volume", "path", mp)
		if err := o.Mounts.Unmount(mp); err != nil {
			return fmt.Errorf("exported volume still mounted: %w", err)
		}
	}
	return nil
}

// unmountTenants force-unmounts tenant volume mounts, tolerating individual
// failures. Returned errors are for aggregate logging only.
func (o *Orchestrator) unmountTenants() []error {
	mounts, err := o.Mounts.List(o.VolumesRoot)
	if err != nil {
		o.Log.Warn("tenant mount enumeration failed", "error", err)
		return []error{err}
	}
	var errs []error
	for _, mp := range mounts {
		if !o.isTenantMount(mp) {
			continue
		}
		o.Log.Info("unmounting tenant volume", "path", mp)
		if err := o.Mounts.Unmount(mp); err != nil {
			o.Log.Warn("tenant volume unmount failed, continuing", "path", mp, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// isTenantMount accepts identifier-shaped direct children of the volumes root.
func (o *Orchestrator) isTenantMount(path string) bool {
	if filepath.Dir(path) != filepath.Clean(o.VolumesRoot) {
		return false
	}
	return tenantID.MatchString(filepath.Base(path))
}

// deactivatePool disables the thin-pool-backed volume set when, and only
// when, the service is configured on device-mapper storage with a defined
// thin-pool device.
func (o *Orchestrator) deactivatePool() error {
	fsType, ok := o.Props.Get(o.FSTypeProp)
	if !ok || fsType != DeviceMapperFSType {
		o.Log.Info("skipping thin pool deactivation: storage is not device-mapper backed",
			"property", o.FSTypeProp, "value", fsType)
		return nil
	}
	thinDev, ok := o.Props.Get(o.ThinPoolProp)
	if !ok || thinDev == "" {
		o.Log.Info("skipping thin pool deactivation: no thin pool device configured",
			"property", o.ThinPoolProp)
		return nil
	}
	o.Log.Info("deactivating thin pool", "device", thinDev, "path", o.VolumesRoot)
	return o.Pool.Disable(o.VolumesRoot, thinDev)
}

// Running reports whether the storage resource is operationally active: at
// least one exported or tenant mount currently exists. There is no process to
// check; zero mounts means NotRunning. A fresh mount-table scan per call keeps
// a restarted passive node from ever answering "active" unconditionally, which
// the cluster manager would read as the resource running on two nodes at once.
func (o *Orchestrator) Running() (bool, error) {
	exported, err := o.Mounts.List(o.ExportedPrefix)
	if err != nil {
		return false, fmt.Errorf("enumerate exported mounts: %w", err)
	}
	if len(exported) > 0 {
		return true, nil
	}
	candidates, err := o.Mounts.List(o.VolumesRoot)
	if err != nil {
		return false, fmt.Errorf("enumerate tenant mounts: %w", err)
	}
	for _, mp := range candidates {
		if o.isTenantMount(mp) {
			return true, nil
		}
	}
	return false, nil
}
