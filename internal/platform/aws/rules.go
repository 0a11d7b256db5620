package aws

// ProviderCIDR is the source range allowed to reach the storage provider.
const ProviderCIDR = "10.0.0.0/16"

// IngressRule is a single TCP ingress permission.
type IngressRule struct {
	Protocol    string
	FromPort    int32
	ToPort      int32
	CIDR        string
	Description string
}

// ProviderIngressRules returns the rules a provider cluster's workers need so
// that consumer clusters can reach the storage services.
func ProviderIngressRules() []IngressRule {
	return []IngressRule{
		{Protocol: "tcp", FromPort: 6800, ToPort: 7300, CIDR: ProviderCIDR, Description: "Ceph OSDs"},
		{Protocol: "tcp", FromPort: 3300, ToPort: 3300, CIDR: ProviderCIDR, Description: "Ceph MONs rule1"},
		{Protocol: "tcp", FromPort: 6789, ToPort: 6789, CIDR: ProviderCIDR, Description: "Ceph MONs rule2"},
		{Protocol: "tcp", FromPort: 9283, ToPort: 9283, CIDR: ProviderCIDR, Description: "Ceph Manager"},
		{Protocol: "tcp", FromPort: 31659, ToPort: 31659, CIDR: ProviderCIDR, Description: "API Server"},
	}
}

// Subnet is a subnet and the availability zone it lives in.
type Subnet struct {
	ID               string
	AvailabilityZone string
}
