package config

// Ceph resource names used on the primary node. The pool placement
// group counts follow the MicroCeph defaults for small clusters.
const (
	// CephFSName is the name of the CephFS filesystem.
	CephFSName = "cephfs"

	// CephPoolMeta is the metadata pool backing the filesystem.
	CephPoolMeta = "cephfs_meta"

	// CephPoolMetaPGs is the placement group count for the metadata pool.
	CephPoolMetaPGs = "64"

	// CephPoolData is the data pool backing the filesystem.
	CephPoolData = "cephfs_data"

	// CephPoolDataPGs is the placement group count for the data pool.
	CephPoolDataPGs = "128"

	// OSDDiskSpec is the loopback disk spec attached to each member as
	// its object storage device.
	OSDDiskSpec = "loop,4G,1"
)

// Client machine sizing. The client only mounts the share, so it gets
// the smallest profile Multipass will boot Ubuntu with.
const (
	ClientCPUs   = 1
	ClientMemory = "1G"
	ClientDisk   = "5G"
)
