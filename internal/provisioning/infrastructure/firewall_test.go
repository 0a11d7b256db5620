package infrastructure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ocs-chaos/ocs-chaos/internal/platform/aws"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	testutil "github.com/ocs-chaos/ocs-chaos/internal/testing"
)

const workerGlob = testutil.ProviderName + "-*-worker-sg"

func readyProvider(t *testing.T) (*provisioning.Context, *testutil.Collaborators) {
	t.Helper()
	cfg := testutil.NewConfigBuilder().WithDataDir(t.TempDir()).Build()
	c := testutil.NewCollaborators()
	ctx := testutil.NewContext(t, cfg, provisioning.ChaosTopology, c)
	ctx.State.Provider = provisioning.Cluster{
		Role:  provisioning.RoleProvider,
		ID:    "p-1",
		Name:  testutil.ProviderName,
		State: provisioning.ClusterReady,
	}
	return ctx, c
}

func TestFirewall_Provision(t *testing.T) {
	t.Parallel()
	ctx, c := readyProvider(t)
	c.Network.On("FindSecurityGroups", mock.Anything, workerGlob).Return([]string{"sg-1"}, nil)
	c.Network.On("AuthorizeIngress", mock.Anything, "sg-1", aws.ProviderIngressRules()).Return(true, nil)

	require.NoError(t, NewFirewall().Provision(ctx))

	assert.Equal(t, "sg-1", ctx.State.SecurityGroupID)
	assert.Equal(t, provisioning.StateNetworkAuthorized, ctx.State.Phase)
	c.Network.AssertExpectations(t)
}

func TestFirewall_SecurityGroupLookup(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		groups []string
	}{
		{"no match", []string{}},
		{"ambiguous", []string{"sg-1", "sg-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx, c := readyProvider(t)
			c.Network.On("FindSecurityGroups", mock.Anything, workerGlob).Return(tt.groups, nil)

			err := NewFirewall().Provision(ctx)

			require.ErrorIs(t, err, provisioning.ErrValidation)
			c.Network.AssertNotCalled(t, "AuthorizeIngress", mock.Anything, mock.Anything, mock.Anything)
			assert.Empty(t, ctx.State.SecurityGroupID)
		})
	}
}

func TestFirewall_NotApplied(t *testing.T) {
	t.Parallel()
	ctx, c := readyProvider(t)
	c.Network.On("FindSecurityGroups", mock.Anything, workerGlob).Return([]string{"sg-1"}, nil)
	c.Network.On("AuthorizeIngress", mock.Anything, "sg-1", mock.Anything).Return(false, nil)

	err := NewFirewall().Provision(ctx)
	assert.ErrorIs(t, err, provisioning.ErrTerminal)
}

func TestFirewall_LookupError(t *testing.T) {
	t.Parallel()
	ctx, c := readyProvider(t)
	boom := errors.New("UnauthorizedOperation")
	c.Network.On("FindSecurityGroups", mock.Anything, workerGlob).Return(nil, boom)

	err := NewFirewall().Provision(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestFirewall_ProviderNotReady(t *testing.T) {
	t.Parallel()
	ctx, c := readyProvider(t)
	ctx.State.Provider.State = provisioning.ClusterProvisioning

	err := NewFirewall().Provision(ctx)
	assert.ErrorIs(t, err, provisioning.ErrValidation)
	c.Network.AssertNotCalled(t, "FindSecurityGroups", mock.Anything, mock.Anything)
}
