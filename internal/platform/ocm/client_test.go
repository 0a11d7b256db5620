package ocm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOCM serves the token endpoint and records API requests.
type fakeOCM struct {
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]http.HandlerFunc
}

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

func newFakeOCM(t *testing.T) (*fakeOCM, *httptest.Server) {
	t.Helper()
	f := &fakeOCM{routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeOCM) handle(method, path string, h http.HandlerFunc) {
	f.routes[method+" "+path] = h
}

func (f *fakeOCM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/token" {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"access-`+r.Form.Get("refresh_token")+`","token_type":"Bearer","expires_in":900,"refresh_token":"rotated"}`)
		return
	}

	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"kind":"Error","id":"404","code":"CLUSTERS-MGMT-404","reason":"Not found"}`)
		return
	}
	h(w, r)
}

func (f *fakeOCM) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestClient(t *testing.T, srv *httptest.Server) (*Client, *Session) {
	t.Helper()
	session, err := LoadOrCreateSession(filepath.Join(t.TempDir(), "ocm.json"), SessionConfig{
		ClientID:     "cloud-services",
		RefreshToken: "initial",
		TokenURL:     srv.URL + "/token",
		URL:          srv.URL,
	})
	require.NoError(t, err)

	client, err := NewClient(context.Background(), session, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client, session
}

func TestCreateCluster(t *testing.T) {
	t.Parallel()
	fake, srv := newFakeOCM(t)
	fake.handle(http.MethodPost, ClustersPath, jsonHandler(http.StatusCreated, `{"kind":"Cluster","id":"2a3b4c","name":"chaos-p-abc1234","state":"pending"}`))
	client, _ := newTestClient(t, srv)

	req := ClusterRequest{
		Name:          "chaos-p-abc1234",
		AWS:           AWSSettings{AccessKeyID: "AKIA", AccountID: "123", SecretAccessKey: "s3cr3t", SubnetIDs: []string{}},
		CCS:           Enabled{Enabled: true},
		CloudProvider: Reference{ID: "aws"},
		Nodes:         NodesSettings{Compute: 3, ComputeMachineType: Reference{ID: "m5.2xlarge"}},
		Region:        Reference{ID: "us-east-1"},
	}
	cluster, err := client.CreateCluster(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2a3b4c", cluster.ID)
	assert.Equal(t, "pending", cluster.CurrentState())

	requests := fake.recorded()
	require.Len(t, requests, 1)
	got := requests[0]
	assert.Equal(t, "Bearer access-initial", got.Auth)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(got.Body, &sent))
	assert.Equal(t, "chaos-p-abc1234", sent["name"])
	assert.Equal(t, map[string]any{"enabled": true}, sent["ccs"])
	nodes := sent["nodes"].(map[string]any)
	assert.NotContains(t, nodes, "availability_zones", "empty AZ list is omitted")
	assert.Equal(t, []any{}, sent["aws"].(map[string]any)["subnet_ids"])
}

func TestGetCluster_StatusState(t *testing.T) {
	t.Parallel()
	fake, srv := newFakeOCM(t)
	fake.handle(http.MethodGet, ClustersPath+"/abc", jsonHandler(http.StatusOK, `{"id":"abc","name":"chaos-p","state":"installing","status":{"state":"ready"}}`))
	client, _ := newTestClient(t, srv)

	cluster, err := client.GetCluster(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, ClusterStateReady, cluster.CurrentState())
	assert.Equal(t, "chaos-p", cluster.Name)
}

func TestGetCluster_NotFound(t *testing.T) {
	t.Parallel()
	_, srv := newFakeOCM(t)
	client, _ := newTestClient(t, srv)

	_, err := client.GetCluster(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "CLUSTERS-MGMT-404", apiErr.Code)
}

func TestGetCredentials(t *testing.T) {
	t.Parallel()
	fake, srv := newFakeOCM(t)
	fake.handle(http.MethodGet, ClustersPath+"/abc/credentials", jsonHandler(http.StatusOK, `{"kubeconfig":"apiVersion: v1\nkind: Config\n"}`))
	client, _ := newTestClient(t, srv)

	creds, err := client.GetCredentials(context.Background(), "abc")
	require.NoError(t, err)
	assert.Contains(t, creds.Kubeconfig, "kind: Config")
}

func TestCreateAddonInstallation(t *testing.T) {
	t.Parallel()
	fake, srv := newFakeOCM(t)
	fake.handle(http.MethodPost, ClustersPath+"/abc/addons", jsonHandler(http.StatusCreated, `{"id":"ocs-provider-dev","addon":{"id":"ocs-provider-dev"},"state":"installing","parameters":{"items":[]}}`))
	client, _ := newTestClient(t, srv)

	req := AddonInstallation{
		Addon: Reference{ID: "ocs-provider-dev"},
		Parameters: AddonParameters{Items: []AddonParameter{
			{ID: "size", Value: "20"},
			{ID: "onboarding-validation-key", Value: "pubkey"},
		}},
	}
	ack, err := client.CreateAddonInstallation(context.Background(), "abc", req)
	require.NoError(t, err)
	assert.Equal(t, "ocs-provider-dev", ack.ID)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	assert.JSONEq(t,
		`{"addon":{"id":"ocs-provider-dev"},"parameters":{"items":[{"id":"size","value":"20"},{"id":"onboarding-validation-key","value":"pubkey"}]}}`,
		string(requests[0].Body))
}

func TestCreateAddonInstallation_EmptyAck(t *testing.T) {
	t.Parallel()
	fake, srv := newFakeOCM(t)
	fake.handle(http.MethodPost, ClustersPath+"/abc/addons", jsonHandler(http.StatusCreated, ""))
	client, _ := newTestClient(t, srv)

	_, err := client.CreateAddonInstallation(context.Background(), "abc", AddonInstallation{Addon: Reference{ID: "x"}})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestDeleteCluster(t *testing.T) {
	t.Parallel()
	fake, srv := newFakeOCM(t)
	fake.handle(http.MethodDelete, ClustersPath+"/abc", jsonHandler(http.StatusNoContent, ""))
	client, _ := newTestClient(t, srv)

	require.NoError(t, client.DeleteCluster(context.Background(), "abc"))
	err := client.DeleteCluster(context.Background(), "gone")
	assert.True(t, IsNotFound(err))
}

func TestServerErrorIsSurfaced(t *testing.T) {
	t.Parallel()
	fake, srv := newFakeOCM(t)
	fake.handle(http.MethodGet, ClustersPath+"/abc", jsonHandler(http.StatusServiceUnavailable, `{"kind":"Error","id":"503","code":"CLUSTERS-MGMT-503","reason":"try later"}`))
	client, _ := newTestClient(t, srv)

	_, err := client.GetCluster(context.Background(), "abc")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.False(t, IsNotFound(err))
	assert.Len(t, fake.recorded(), 1, "the client must not retry")
}

func TestSession_PersistsRotatedRefreshToken(t *testing.T) {
	t.Parallel()
	fake, srv := newFakeOCM(t)
	fake.handle(http.MethodGet, ClustersPath+"/abc", jsonHandler(http.StatusOK, `{"id":"abc"}`))
	client, session := newTestClient(t, srv)

	_, err := client.GetCluster(context.Background(), "abc")
	require.NoError(t, err)

	info, err := os.Stat(session.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// The same configured token does not undo the rotation.
	reloaded, err := LoadOrCreateSession(session.Path(), SessionConfig{RefreshToken: "initial"})
	require.NoError(t, err)
	assert.Equal(t, "rotated", reloaded.RefreshToken)
	assert.Equal(t, "access-initial", reloaded.AccessToken)
	assert.Equal(t, DefaultScopes, reloaded.Scopes)
}

func TestLoadOrCreateSession_NewConfiguredTokenWins(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ocm.json")
	_, err := LoadOrCreateSession(path, SessionConfig{ClientID: "cloud-services", RefreshToken: "old"})
	require.NoError(t, err)

	session, err := LoadOrCreateSession(path, SessionConfig{RefreshToken: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", session.RefreshToken)
	assert.Empty(t, session.AccessToken)
	assert.Equal(t, "cloud-services", session.ClientID)

	reloaded, err := LoadOrCreateSession(path, SessionConfig{})
	require.NoError(t, err)
	assert.Equal(t, "new", reloaded.RefreshToken, "the replacement is persisted")
}

func TestLoadOrCreateSession_StaleStoredTokenIsReplaced(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ocm.json")
	stale := `{"client_id":"cloud-services","refresh_token":"stale","access_token":"expired","scopes":["openid"]}`
	require.NoError(t, os.WriteFile(path, []byte(stale), 0o600))

	session, err := LoadOrCreateSession(path, SessionConfig{RefreshToken: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", session.RefreshToken)
	assert.Empty(t, session.AccessToken)

	kept, err := LoadOrCreateSession(path, SessionConfig{})
	require.NoError(t, err)
	assert.Equal(t, "fresh", kept.RefreshToken, "an unset configured token keeps the stored one")
}

func TestNewClient_InvalidURL(t *testing.T) {
	t.Parallel()
	session := &Session{SessionConfig: SessionConfig{URL: "not a url"}}
	_, err := NewClient(context.Background(), session)
	assert.Error(t, err)
}
