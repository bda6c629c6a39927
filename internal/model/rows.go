package model

// NamespaceRow is one observed cluster+namespace inventory record.
// CPU quantities are in cores, memory in GiB. Rows are immutable once
// parsed; the ID is assigned by the inventory store on insertion and
// exists only so callers can address individual rows — it carries no
// domain meaning.
type NamespaceRow struct {
	ID        int    `json:"id"`
	Cluster   string `json:"cluster"`
	Namespace string `json:"namespace"`

	Services   int `json:"services"`
	Pods       int `json:"pods"`
	Containers int `json:"containers"`

	// Workload resource totals (excluding sidecars)
	ReqCores   float64 `json:"req_cores"`
	ReqMem     float64 `json:"req_mem_gib"`
	LimitCores float64 `json:"limit_cores"`
	LimitMem   float64 `json:"limit_mem_gib"`

	// Mesh sidecar footprint
	SidecarProxies  int     `json:"sidecar_proxies"`
	SidecarReqCPU   float64 `json:"sidecar_req_cpu"`
	SidecarReqMem   float64 `json:"sidecar_req_mem_gib"`
	SidecarLimitCPU float64 `json:"sidecar_limit_cpu"`
	SidecarLimitMem float64 `json:"sidecar_limit_mem_gib"`
}

// NodeRow is one observed cluster node.
type NodeRow struct {
	ID      int    `json:"id"`
	Cluster string `json:"cluster"`
	Name    string `json:"name"`

	Type   string `json:"type"` // instance/SKU type, e.g. "m5.xlarge"
	Region string `json:"region"`
	Zone   string `json:"zone"`

	CPUs      int     `json:"cpus"`
	MemoryGiB float64 `json:"memory_gib"`

	K8sVersion string `json:"k8s_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
}

// PriceKey returns the pricing bucket key for this node.
func (n NodeRow) PriceKey() string {
	return PriceKey(n.Type, n.Region)
}

// PriceKey builds the canonical "{type}|{region}" bucket key.
func PriceKey(instanceType, region string) string {
	return instanceType + "|" + region
}

// HoursPerMonth is the standard number of hours used to turn hourly
// list prices into monthly cost estimates.
const HoursPerMonth = 730.0

// InstancePrice is one priceable bucket: all nodes sharing an instance
// type and region. At most one InstancePrice exists per key.
type InstancePrice struct {
	Key    string `json:"key"` // "{type}|{region}"
	Type   string `json:"type"`
	Region string `json:"region"`

	CPUs  int `json:"cpus"`  // per-instance core count (first node seen)
	Count int `json:"count"` // nodes sharing the key

	// On-demand monthly price per instance. 0 means unpriced.
	MonthlyPrice float64 `json:"monthly_price"`
}

// Inventory is the serializable snapshot exchanged between the import,
// pricing, and analyze stages.
type Inventory struct {
	CustomerName  string          `json:"customer_name,omitempty"`
	CloudProvider string          `json:"cloud_provider,omitempty"`
	Namespaces    []NamespaceRow  `json:"namespaces"`
	Nodes         []NodeRow       `json:"nodes"`
	Prices        []InstancePrice `json:"prices,omitempty"`
}
