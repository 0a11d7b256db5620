package naming

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// MaxClusterNameLength is the cluster name ceiling enforced by the cluster manager.
const MaxClusterNameLength = 15

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// ErrPrefixTooLong is returned when a prefix leaves no room for a random suffix.
var ErrPrefixTooLong = errors.New("cluster name prefix too long")

// Generator produces random cluster names of a fixed length.
type Generator struct {
	prefix string
	maxLen int
}

// NewGenerator returns a Generator for names of the form "<prefix>-<random>".
// It fails when "<prefix>-" alone already reaches maxLen.
func NewGenerator(prefix string, maxLen int) (*Generator, error) {
	if len(prefix)+1 >= maxLen {
		return nil, fmt.Errorf("%w: %q cannot exceed max. length %d", ErrPrefixTooLong, prefix+"-", maxLen)
	}
	return &Generator{prefix: prefix, maxLen: maxLen}, nil
}

// Generate returns a new name exactly maxLen characters long.
func (g *Generator) Generate() (string, error) {
	head := g.prefix + "-"
	buf := make([]byte, g.maxLen-len(head))
	limit := big.NewInt(int64(len(suffixAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate cluster name: %w", err)
		}
		buf[i] = suffixAlphabet[n.Int64()]
	}
	return head + string(buf), nil
}

// ClusterName returns explicit when set and a generated name otherwise.
func ClusterName(explicit, prefix string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	g, err := NewGenerator(prefix, MaxClusterNameLength)
	if err != nil {
		return "", err
	}
	return g.Generate()
}

// Name-tag globs for the cloud resources created by the cluster installer.

func WorkerSecurityGroupGlob(cluster string) string {
	return fmt.Sprintf("%s-*-worker-sg", cluster)
}

func SubnetGlob(cluster string) string {
	return fmt.Sprintf("%s-*", cluster)
}

// Files kept in the run working directory.

func KubeconfigFile(clusterID string) string {
	return fmt.Sprintf("%s-config.yaml", clusterID)
}

func ClusterRequestFile(cluster string) string {
	return fmt.Sprintf("install-cluster-%s.json", cluster)
}

func AddonRequestFile(addonID string) string {
	return fmt.Sprintf("install-addon-%s.json", addonID)
}

func SharedKubeconfigFile(role string) string {
	return fmt.Sprintf("%s-kubeconfig.yaml", role)
}
