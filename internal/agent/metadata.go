package agent

// OCF resource-agent metadata, emitted verbatim by the meta-data action. The
// cluster manager parses these to learn parameters and action timeouts.

const serviceMetaData = `<?xml version="1.0"?>
<!DOCTYPE resource-agent SYSTEM "ra-api-1.dtd">
<resource-agent name="svcagent" version="1.0">
  <version>1.0</version>
  <longdesc lang="en">
Manages the lifecycle of the clustered application service: starts the daemon
and records its pid, stops it with graceful-then-forceful escalation, and
monitors its self-reported health. Stop always releases the service's storage
state (exported and tenant volume mounts, the device-mapper thin pool, stale
NFS export entries) even when the process had to be force-killed.
  </longdesc>
  <shortdesc lang="en">Clustered application service</shortdesc>
  <parameters>
    <parameter name="name" unique="0">
      <longdesc lang="en">Resource instance name.</longdesc>
      <shortdesc lang="en">Instance name</shortdesc>
      <content type="string" default="serviced"/>
    </parameter>
    <parameter name="binary" unique="0">
      <longdesc lang="en">Path to the service binary.</longdesc>
      <shortdesc lang="en">Service binary</shortdesc>
      <content type="string" default="/opt/serviced/bin/serviced"/>
    </parameter>
    <parameter name="config" unique="0">
      <longdesc lang="en">Path to the service configuration file (name=value lines).</longdesc>
      <shortdesc lang="en">Service config file</shortdesc>
      <content type="string" default="/etc/default/serviced"/>
    </parameter>
    <parameter name="pidfile" unique="1">
      <longdesc lang="en">Pid marker file recording the last observed process id.</longdesc>
      <shortdesc lang="en">Pid marker</shortdesc>
      <content type="string" default="/var/run/serviced.pid"/>
    </parameter>
    <parameter name="health_port" unique="0">
      <longdesc lang="en">Local port of the service health endpoint; 0 disables probing.</longdesc>
      <shortdesc lang="en">Health port</shortdesc>
      <content type="integer" default="8443"/>
    </parameter>
    <parameter name="storage_tool" unique="0">
      <longdesc lang="en">Path to the storage-control tool used during teardown.</longdesc>
      <shortdesc lang="en">Storage tool</shortdesc>
      <content type="string" default="/opt/serviced/bin/serviced-storage"/>
    </parameter>
    <parameter name="stop_margin" unique="0">
      <longdesc lang="en">
Safety margin subtracted from the action timeout before escalating from
graceful to forceful termination. Raise it when health-check intervals are
long.
      </longdesc>
      <shortdesc lang="en">Stop deadline margin</shortdesc>
      <content type="string" default="7s"/>
    </parameter>
  </parameters>
  <actions>
    <action name="start" timeout="360s"/>
    <action name="stop" timeout="130s"/>
    <action name="status" timeout="30s"/>
    <action name="monitor" timeout="60s" interval="60s"/>
    <action name="validate-all" timeout="30s"/>
    <action name="meta-data" timeout="5s"/>
  </actions>
</resource-agent>
`

const storageMetaData = `<?xml version="1.0"?>
<!DOCTYPE resource-agent SYSTEM "ra-api-1.dtd">
<resource-agent name="svcagent-storage" version="1.0">
  <version>1.0</version>
  <longdesc lang="en">
Manages the service's attached storage state. Start and stop both run the
ordered teardown sequence: force-unmount exported volumes, force-unmount
tenant volumes, deactivate the device-mapper thin pool, scrub stale NFS
export entries. Monitor reports the resource active only while at least one
exported or tenant mount exists.

Ordering contract: this resource must be stopped before the NFS server
resource, which must be stopped before the volume-group resource. The order is
enforced by the cluster manager's dependency graph, not by this agent.
  </longdesc>
  <shortdesc lang="en">Clustered application service storage</shortdesc>
  <parameters>
    <parameter name="exported_prefix" unique="0">
      <longdesc lang="en">Mount path prefix of volumes published to remote NFS clients.</longdesc>
      <shortdesc lang="en">Exported volumes prefix</shortdesc>
      <content type="string" default="/exports/serviced_volumes_v2"/>
    </parameter>
    <parameter name="volumes_root" unique="0">
      <longdesc lang="en">Root directory containing per-tenant volume mounts.</longdesc>
      <shortdesc lang="en">Tenant volumes root</shortdesc>
      <content type="string" default="/opt/serviced/var/volumes"/>
    </parameter>
    <parameter name="export_table" unique="0">
      <longdesc lang="en">Persisted NFS export table to scrub.</longdesc>
      <shortdesc lang="en">Export table</shortdesc>
      <content type="string" default="/etc/exports"/>
    </parameter>
    <parameter name="storage_tool" unique="0">
      <longdesc lang="en">Path to the storage-control tool.</longdesc>
      <shortdesc lang="en">Storage tool</shortdesc>
      <content type="string" default="/opt/serviced/bin/serviced-storage"/>
    </parameter>
  </parameters>
  <actions>
    <action name="start" timeout="120s"/>
    <action name="stop" timeout="120s"/>
    <action name="status" timeout="30s"/>
    <action name="monitor" timeout="30s" interval="0s"/>
    <action name="validate-all" timeout="30s"/>
    <action name="meta-data" timeout="5s"/>
  </actions>
</resource-agent>
`
