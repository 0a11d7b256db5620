package provisioning

// RunState is the last milestone a run reached.
type RunState int

// Run milestones, in order.
const (
	StateInit RunState = iota
	StateProviderRequested
	StateProviderReady
	StateNetworkAuthorized
	StatePlacementResolved
	StateConsumerRequested
	StateConsumerReady
	StateProviderAddonInstalling
	StateProviderAddonReady
	StateExchangeResolved
	StateConsumerAddonInstalling
	StateConsumerAddonReady
	StateDone
)

var runStateNames = [...]string{
	"Init",
	"ProviderRequested",
	"ProviderReady",
	"NetworkAuthorized",
	"PlacementResolved",
	"ConsumerRequested",
	"ConsumerReady",
	"ProviderAddonInstalling",
	"ProviderAddonReady",
	"ExchangeResolved",
	"ConsumerAddonInstalling",
	"ConsumerAddonReady",
	"Done",
}

func (s RunState) String() string {
	if s < 0 || int(s) >= len(runStateNames) {
		return "Unknown"
	}
	return runStateNames[s]
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	Phase RunState
	// Failed is set when a phase returned an error; Phase is then the last
	// milestone reached before the failure.
	Failed string

	Provider Cluster
	Consumer Cluster

	ProviderAddon Addon
	ConsumerAddon Addon

	// SecurityGroupID is the provider worker group the ingress rules went to.
	SecurityGroupID string
	// SiblingPlacement is the provider's placement, inherited by the consumer.
	SiblingPlacement Placement
	Exchange         ExchangeValues

	// SharedKubeconfigs maps a role to its exported kubeconfig path.
	SharedKubeconfigs map[Role]string

	// installRequests records the (cluster, addon) pairs already requested.
	installRequests map[string]bool
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		Phase:             StateInit,
		Provider:          Cluster{Role: RoleProvider},
		Consumer:          Cluster{Role: RoleConsumer},
		ProviderAddon:     Addon{Role: RoleProvider, State: AddonNotInstalled},
		ConsumerAddon:     Addon{Role: RoleConsumer, State: AddonNotInstalled},
		SharedKubeconfigs: make(map[Role]string),
		installRequests:   make(map[string]bool),
	}
}

// Cluster returns the cluster with the given role.
func (s *State) Cluster(role Role) *Cluster {
	if role == RoleProvider {
		return &s.Provider
	}
	return &s.Consumer
}

// Addon returns the addon with the given role.
func (s *State) Addon(role Role) *Addon {
	if role == RoleProvider {
		return &s.ProviderAddon
	}
	return &s.ConsumerAddon
}

// Advance moves the run to milestone to. Milestones never go backwards.
func (s *State) Advance(to RunState) {
	if to > s.Phase {
		s.Phase = to
	}
}

// InstallRequested reports whether addonID was already requested on clusterID.
func (s *State) InstallRequested(clusterID, addonID string) bool {
	return s.installRequests[clusterID+"/"+addonID]
}

// MarkInstallRequested records that addonID was requested on clusterID.
func (s *State) MarkInstallRequested(clusterID, addonID string) {
	s.installRequests[clusterID+"/"+addonID] = true
}
