package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ocs-chaos/ocs-chaos/internal/platform/aws"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	testutil "github.com/ocs-chaos/ocs-chaos/internal/testing"
)

func TestNetwork_Provision(t *testing.T) {
	t.Parallel()
	ctx, c := readyProvider(t)
	c.Network.On("FindSubnets", mock.Anything, testutil.ProviderName+"-*").Return([]aws.Subnet{
		{ID: "subnet-c", AvailabilityZone: "us-east-1b"},
		{ID: "subnet-a", AvailabilityZone: "us-east-1a"},
		{ID: "subnet-b", AvailabilityZone: "us-east-1b"},
		{ID: "subnet-a", AvailabilityZone: "us-east-1a"},
	}, nil)

	require.NoError(t, NewNetwork().Provision(ctx))

	assert.Equal(t, provisioning.Placement{
		SubnetIDs:         []string{"subnet-a", "subnet-b", "subnet-c"},
		AvailabilityZones: []string{"us-east-1a", "us-east-1b"},
	}, ctx.State.SiblingPlacement)
	assert.Equal(t, provisioning.StatePlacementResolved, ctx.State.Phase)
}

func TestNetwork_NoSubnets(t *testing.T) {
	t.Parallel()
	ctx, c := readyProvider(t)
	c.Network.On("FindSubnets", mock.Anything, mock.Anything).Return([]aws.Subnet{}, nil)

	require.NoError(t, NewNetwork().Provision(ctx))
	assert.Empty(t, ctx.State.SiblingPlacement.SubnetIDs)
}

func TestSortedUnique(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b"}, sortedUnique([]string{"b", "", "a", "b"}))
	assert.Empty(t, sortedUnique(nil))
}
