package orchestration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/yaml"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/aws"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/store"
	testutil "github.com/ocs-chaos/ocs-chaos/internal/testing"
	"github.com/ocs-chaos/ocs-chaos/internal/util/retry"
)

var _ = Describe("Orchestrator", func() {
	var (
		ctx      context.Context
		cfg      *config.Config
		c        *testutil.Collaborators
		provider *testutil.MockResourceReader
		consumer *testutil.MockResourceReader
	)

	newOrchestrator := func() *Orchestrator {
		return New(cfg, Dependencies{
			Clusters: c.Clusters,
			Network:  c.Network,
			Tickets:  c.Tickets,
			Store:    c.Store,
			Readers:  testutil.ReaderFactory(c.Readers),
		},
			WithLogger(zap.New(zap.WriteTo(GinkgoWriter), zap.UseDevMode(true))),
			WithMetrics(provisioning.NewMetrics(prometheus.NewRegistry())),
			WithPollOptions(retry.WithClock(c.Clock)),
		)
	}

	isCluster := func(name string) any {
		return mock.MatchedBy(func(r ocm.ClusterRequest) bool { return r.Name == name })
	}
	isAddon := func(id string) any {
		return mock.MatchedBy(func(r ocm.AddonInstallation) bool { return r.Addon.ID == id })
	}

	readReport := func() RunReport {
		data, err := os.ReadFile(filepath.Join(cfg.DataDir, ReportFile))
		Expect(err).NotTo(HaveOccurred())
		var r RunReport
		Expect(yaml.Unmarshal(data, &r)).To(Succeed())
		return r
	}

	// happyPath configures every collaborator for a successful run.
	happyPath := func() {
		c.Clusters.On("CreateCluster", mock.Anything, isCluster(testutil.ProviderName)).
			Return(&ocm.Cluster{ID: "p-1", Name: testutil.ProviderName}, nil).Once()
		c.Clusters.On("CreateCluster", mock.Anything, isCluster(testutil.ConsumerName)).
			Return(&ocm.Cluster{ID: "c-1", Name: testutil.ConsumerName}, nil).Once()
		c.Clusters.On("GetCluster", mock.Anything, "p-1").
			Return(testutil.ClusterInState("p-1", testutil.ProviderName, "ready"), nil)
		c.Clusters.On("GetCluster", mock.Anything, "c-1").
			Return(testutil.ClusterInState("c-1", testutil.ConsumerName, "ready"), nil)
		c.Clusters.On("GetCredentials", mock.Anything, mock.Anything).
			Return(&ocm.Credentials{Kubeconfig: testutil.Kubeconfig}, nil)
		c.Clusters.On("CreateAddonInstallation", mock.Anything, "p-1", isAddon("ocs-provider-dev")).
			Return(&ocm.AddonInstallation{ID: "ocs-provider-dev"}, nil).Once()
		c.Clusters.On("CreateAddonInstallation", mock.Anything, "c-1", isAddon("ocs-consumer-dev")).
			Return(&ocm.AddonInstallation{ID: "ocs-consumer-dev"}, nil).Once()

		c.Network.On("FindSecurityGroups", mock.Anything, testutil.ProviderName+"-*-worker-sg").
			Return([]string{"sg-1"}, nil)
		c.Network.On("AuthorizeIngress", mock.Anything, "sg-1", aws.ProviderIngressRules()).
			Return(true, nil)
		c.Network.On("FindSubnets", mock.Anything, testutil.ProviderName+"-*").
			Return([]aws.Subnet{
				{ID: "subnet-b", AvailabilityZone: "us-east-1b"},
				{ID: "subnet-a", AvailabilityZone: "us-east-1a"},
			}, nil)

		for _, r := range []*testutil.MockResourceReader{provider, consumer} {
			r.On("NodeReadyConditions", mock.Anything).Return(testutil.ReadyNodes(3), nil)
			r.On("ListCustomResources", mock.Anything, mock.Anything).
				Return([]map[string]any{testutil.CSV("Succeeded")}, nil)
		}
		provider.On("GetCustomResource", mock.Anything, mock.Anything).
			Return(testutil.StorageCluster("10.0.1.5:31659"), nil)
		c.Tickets.On("Generate", mock.Anything).Return("signed-ticket", nil).Once()
	}

	BeforeEach(func() {
		ctx = context.Background()
		cfg = testutil.NewConfigBuilder().
			WithDataDir(filepath.Join(GinkgoT().TempDir(), ".cluster")).
			WithPlacement([]string{"subnet-env"}, []string{"us-east-1c"}).
			WithPollPolicy(30*time.Minute, 5*time.Minute).
			Build()
		c = testutil.NewCollaborators()
		provider = &testutil.MockResourceReader{}
		consumer = &testutil.MockResourceReader{}
		c.Readers["p-1"] = provider
		c.Readers["c-1"] = consumer
	})

	Describe("Run", func() {
		Context("with the chaos topology", func() {
			It("provisions both clusters and wires the consumer to the provider", func() {
				happyPath()

				state, err := newOrchestrator().Run(ctx, provisioning.ChaosTopology)

				Expect(err).NotTo(HaveOccurred())
				Expect(state.Phase).To(Equal(provisioning.StateDone))
				Expect(state.SecurityGroupID).To(Equal("sg-1"))
				Expect(state.SiblingPlacement.SubnetIDs).To(Equal([]string{"subnet-a", "subnet-b"}))
				Expect(state.Consumer.Placement).To(Equal(provisioning.Placement{
					SubnetIDs:         []string{"subnet-a", "subnet-b"},
					AvailabilityZones: []string{"us-east-1a", "us-east-1b"},
				}))
				Expect(state.Exchange.StorageProviderEndpoint).To(Equal("10.0.1.5:31659"))
				Expect(state.ConsumerAddon.Parameters).To(ContainElement(ocm.AddonParameter{ID: "unit", Value: "Ti"}))
				Expect(c.Store.IDs()).To(Equal([]string{"p-1", "c-1"}))

				c.Clusters.AssertExpectations(GinkgoT())
				c.Network.AssertExpectations(GinkgoT())
				c.Tickets.AssertExpectations(GinkgoT())
			})

			It("writes a report without secrets", func() {
				happyPath()

				_, err := newOrchestrator().Run(ctx, provisioning.ChaosTopology)
				Expect(err).NotTo(HaveOccurred())

				report := readReport()
				Expect(report.State).To(Equal("Done"))
				Expect(report.Provider.ID).To(Equal("p-1"))
				Expect(report.Consumer.AddonState).To(Equal("ready"))
				Expect(report.Kubeconfigs).To(HaveKey("consumer"))

				data, err := os.ReadFile(filepath.Join(cfg.DataDir, ReportFile))
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).NotTo(ContainSubstring("signed-ticket"))
				Expect(string(data)).NotTo(ContainSubstring(cfg.AWS.SecretAccessKey))
			})

			It("keeps secrets readable by the owner only", func() {
				happyPath()

				_, err := newOrchestrator().Run(ctx, provisioning.ChaosTopology)
				Expect(err).NotTo(HaveOccurred())

				for _, name := range []string{
					"p-1-config.yaml",
					"provider-kubeconfig.yaml",
					"consumer-kubeconfig.yaml",
					"install-cluster-" + testutil.ProviderName + ".json",
					"install-addon-ocs-consumer-dev.json",
				} {
					info, err := os.Stat(filepath.Join(cfg.DataDir, name))
					Expect(err).NotTo(HaveOccurred(), name)
					Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)), name)
				}
			})
		})

		Context("with the consumer-addon topology", func() {
			It("places the consumer in the provider's zones and omits sizing", func() {
				happyPath()

				state, err := newOrchestrator().Run(ctx, provisioning.ConsumerAddonTopology)

				Expect(err).NotTo(HaveOccurred())
				Expect(state.Consumer.Placement.AvailabilityZones).To(Equal([]string{"us-east-1a", "us-east-1b"}))
				Expect(state.ConsumerAddon.Parameters).To(Equal([]ocm.AddonParameter{
					{ID: "storage-provider-endpoint", Value: "10.0.1.5:31659"},
					{ID: "onboarding-ticket", Value: "signed-ticket"},
				}))
				Expect(state.SharedKubeconfigs).To(HaveLen(2))
			})
		})

		Context("when the provider cluster needs time", func() {
			It("succeeds after exactly three attempts", func() {
				c.Clusters.On("CreateCluster", mock.Anything, isCluster(testutil.ProviderName)).
					Return(&ocm.Cluster{ID: "p-1", Name: testutil.ProviderName}, nil).Once()
				c.Clusters.On("GetCluster", mock.Anything, "p-1").
					Return(testutil.ClusterInState("p-1", testutil.ProviderName, "installing"), nil).Twice()
				c.Clusters.On("GetCluster", mock.Anything, "p-1").
					Return(testutil.ClusterInState("p-1", testutil.ProviderName, "ready"), nil).Once()
				c.Clusters.On("GetCredentials", mock.Anything, "p-1").
					Return(&ocm.Credentials{Kubeconfig: testutil.Kubeconfig}, nil)
				provider.On("NodeReadyConditions", mock.Anything).Return(testutil.ReadyNodes(3), nil)
				// Stop the run right after the wait.
				c.Network.On("FindSecurityGroups", mock.Anything, mock.Anything).Return([]string{}, nil)

				state, err := newOrchestrator().Run(ctx, provisioning.ChaosTopology)

				Expect(err).To(MatchError(provisioning.ErrValidation))
				c.Clusters.AssertNumberOfCalls(GinkgoT(), "GetCluster", 3)
				Expect(c.Clock.Sleeps()).To(Equal([]time.Duration{5 * time.Minute, 5 * time.Minute}))
				Expect(state.Provider.State).To(Equal(provisioning.ClusterReady))
			})
		})

		Context("when the provider cluster reports an error", func() {
			It("fails immediately without retrying", func() {
				c.Clusters.On("CreateCluster", mock.Anything, mock.Anything).
					Return(&ocm.Cluster{ID: "p-1", Name: testutil.ProviderName}, nil).Once()
				c.Clusters.On("GetCluster", mock.Anything, "p-1").
					Return(testutil.ClusterInState("p-1", testutil.ProviderName, "error"), nil)

				state, err := newOrchestrator().Run(ctx, provisioning.ChaosTopology)

				Expect(err).To(MatchError(provisioning.ErrTerminal))
				Expect(err).NotTo(MatchError(retry.ErrTimeout))
				c.Clusters.AssertNumberOfCalls(GinkgoT(), "GetCluster", 1)
				Expect(c.Clock.Sleeps()).To(BeEmpty())
				Expect(state.Failed).To(Equal("wait for provider cluster"))
				Expect(state.Phase).To(Equal(provisioning.StateProviderRequested))
				Expect(readReport().FailedPhase).To(Equal("wait for provider cluster"))
			})
		})

		Context("when no security group matches", func() {
			It("fails without authorizing anything", func() {
				c.Clusters.On("CreateCluster", mock.Anything, mock.Anything).
					Return(&ocm.Cluster{ID: "p-1", Name: testutil.ProviderName}, nil).Once()
				c.Clusters.On("GetCluster", mock.Anything, "p-1").
					Return(testutil.ClusterInState("p-1", testutil.ProviderName, "ready"), nil)
				c.Clusters.On("GetCredentials", mock.Anything, "p-1").
					Return(&ocm.Credentials{Kubeconfig: testutil.Kubeconfig}, nil)
				provider.On("NodeReadyConditions", mock.Anything).Return(testutil.ReadyNodes(3), nil)
				c.Network.On("FindSecurityGroups", mock.Anything, mock.Anything).Return([]string{}, nil)

				state, err := newOrchestrator().Run(ctx, provisioning.ChaosTopology)

				Expect(err).To(MatchError(provisioning.ErrValidation))
				c.Network.AssertNotCalled(GinkgoT(), "AuthorizeIngress", mock.Anything, mock.Anything, mock.Anything)
				c.Clusters.AssertNumberOfCalls(GinkgoT(), "CreateCluster", 1)
				Expect(state.Failed).To(Equal("authorize network"))
				Expect(readReport().Error).To(ContainSubstring("no security group matches"))
			})
		})

		Context("when the provider addon takes a while", func() {
			It("succeeds after five attempts", func() {
				happyPath()
				provider.ExpectedCalls = nil
				provider.On("NodeReadyConditions", mock.Anything).Return(testutil.ReadyNodes(3), nil)
				provider.On("ListCustomResources", mock.Anything, mock.Anything).
					Return([]map[string]any{}, nil).Times(4)
				provider.On("ListCustomResources", mock.Anything, mock.Anything).
					Return([]map[string]any{testutil.CSV("Succeeded")}, nil).Once()
				provider.On("GetCustomResource", mock.Anything, mock.Anything).
					Return(testutil.StorageCluster("10.0.1.5:31659"), nil)

				state, err := newOrchestrator().Run(ctx, provisioning.ChaosTopology)

				Expect(err).NotTo(HaveOccurred())
				provider.AssertNumberOfCalls(GinkgoT(), "ListCustomResources", 5)
				Expect(state.ProviderAddon.State).To(Equal(provisioning.AddonReady))
			})
		})
	})

	Describe("Cleanup", func() {
		It("deletes stored clusters and skips the ones already gone", func() {
			c.Store = testutil.NewMemoryStore(
				store.Cluster{ID: "p-1", Name: testutil.ProviderName, Role: "provider"},
				store.Cluster{ID: "c-1", Name: testutil.ConsumerName, Role: "consumer"},
			)
			c.Clusters.On("DeleteCluster", mock.Anything, "p-1").Return(&ocm.APIError{StatusCode: 404, ID: "404"})
			c.Clusters.On("DeleteCluster", mock.Anything, "c-1").Return(nil)

			Expect(newOrchestrator().Cleanup(ctx)).To(Succeed())
			Expect(c.Store.IDs()).To(BeEmpty())
			c.Clusters.AssertExpectations(GinkgoT())
		})

		It("stops at the first failure", func() {
			c.Store = testutil.NewMemoryStore(
				store.Cluster{ID: "p-1", Name: testutil.ProviderName},
				store.Cluster{ID: "c-1", Name: testutil.ConsumerName},
			)
			c.Clusters.On("DeleteCluster", mock.Anything, "p-1").Return(&ocm.APIError{StatusCode: 500, Reason: "boom"})

			err := newOrchestrator().Cleanup(ctx)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("cleanup phase failed"))
			Expect(c.Store.IDs()).To(Equal([]string{"c-1"}))
			c.Clusters.AssertNotCalled(GinkgoT(), "DeleteCluster", mock.Anything, "c-1")
		})
	})
})
