package ocm

// ClusterRequest is the body of a cluster creation request.
type ClusterRequest struct {
	Name          string        `json:"name"`
	AWS           AWSSettings   `json:"aws"`
	CCS           Enabled       `json:"ccs"`
	CloudProvider Reference     `json:"cloud_provider"`
	Nodes         NodesSettings `json:"nodes"`
	Region        Reference     `json:"region"`
}

// AWSSettings holds the customer cloud account for a CCS cluster.
type AWSSettings struct {
	AccessKeyID     string   `json:"access_key_id"`
	AccountID       string   `json:"account_id"`
	SecretAccessKey string   `json:"secret_access_key"`
	SubnetIDs       []string `json:"subnet_ids"`
}

// NodesSettings is the compute profile of a cluster.
type NodesSettings struct {
	Compute            int       `json:"compute"`
	ComputeMachineType Reference `json:"compute_machine_type"`
	AvailabilityZones  []string  `json:"availability_zones,omitempty"`
}

// Enabled is a {"enabled": bool} toggle.
type Enabled struct {
	Enabled bool `json:"enabled"`
}

// Reference points to another API object by id.
type Reference struct {
	ID string `json:"id"`
}

// Cluster states reported by the API.
const (
	ClusterStatePending      = "pending"
	ClusterStateValidating   = "validating"
	ClusterStateWaiting      = "waiting"
	ClusterStateInstalling   = "installing"
	ClusterStateReady        = "ready"
	ClusterStateError        = "error"
	ClusterStateUninstalling = "uninstalling"
)

// Cluster is the subset of the cluster object the provisioner reads.
type Cluster struct {
	Kind   string        `json:"kind,omitempty"`
	ID     string        `json:"id"`
	Href   string        `json:"href,omitempty"`
	Name   string        `json:"name"`
	State  string        `json:"state,omitempty"`
	Status ClusterStatus `json:"status"`
}

// ClusterStatus is the status block of a cluster.
type ClusterStatus struct {
	State       string `json:"state"`
	Description string `json:"description,omitempty"`
}

// CurrentState prefers status.state and falls back to the top-level state.
func (c *Cluster) CurrentState() string {
	if c.Status.State != "" {
		return c.Status.State
	}
	return c.State
}

// Credentials holds the admin access data of a cluster.
type Credentials struct {
	Kubeconfig string `json:"kubeconfig"`
}

// AddonInstallation is the body and response of an addon install request.
type AddonInstallation struct {
	ID         string          `json:"id,omitempty"`
	Addon      Reference       `json:"addon"`
	Parameters AddonParameters `json:"parameters"`
	State      string          `json:"state,omitempty"`
}

// AddonParameters wraps the parameter list of an addon installation.
type AddonParameters struct {
	Items []AddonParameter `json:"items"`
}

// AddonParameter is one install parameter; order is preserved.
type AddonParameter struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}
