package ocm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/oauth2"
)

// ClustersPath is the clusters collection of the clusters_mgmt API.
const ClustersPath = "/api/clusters_mgmt/v1/clusters"

// Client talks to the clusters_mgmt API.
type Client struct {
	baseURL string
	http    *http.Client
	log     logr.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	base    *http.Client
	timeout time.Duration
	log     logr.Logger
}

// WithHTTPClient sets the transport used for both token refresh and API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.base = c }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// NewClient creates a Client authenticated with the given session.
func NewClient(ctx context.Context, session *Session, opts ...Option) (*Client, error) {
	o := &clientOptions{
		base:    &http.Client{},
		timeout: 10 * time.Second,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if _, err := url.ParseRequestURI(session.URL); err != nil {
		return nil, fmt.Errorf("invalid OCM URL %q: %w", session.URL, err)
	}

	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, o.base)
	httpClient := oauth2.NewClient(tokenCtx, session.TokenSource(tokenCtx))
	httpClient.Timeout = o.timeout

	return &Client{
		baseURL: strings.TrimRight(session.URL, "/"),
		http:    httpClient,
		log:     o.log.WithName("ocm"),
	}, nil
}

// CreateCluster submits a cluster creation request.
func (c *Client) CreateCluster(ctx context.Context, req ClusterRequest) (*Cluster, error) {
	var cluster Cluster
	if err := c.do(ctx, http.MethodPost, ClustersPath, req, &cluster); err != nil {
		return nil, fmt.Errorf("failed to create cluster %s: %w", req.Name, err)
	}
	return &cluster, nil
}

// GetCluster returns the cluster with the given id.
func (c *Client) GetCluster(ctx context.Context, id string) (*Cluster, error) {
	var cluster Cluster
	if err := c.do(ctx, http.MethodGet, clusterPath(id), nil, &cluster); err != nil {
		return nil, fmt.Errorf("failed to get cluster %s: %w", id, err)
	}
	return &cluster, nil
}

// GetCredentials returns the admin kubeconfig of a cluster.
func (c *Client) GetCredentials(ctx context.Context, id string) (*Credentials, error) {
	var creds Credentials
	if err := c.do(ctx, http.MethodGet, clusterPath(id)+"/credentials", nil, &creds); err != nil {
		return nil, fmt.Errorf("failed to get credentials of cluster %s: %w", id, err)
	}
	return &creds, nil
}

// CreateAddonInstallation requests the installation of an addon on a cluster.
func (c *Client) CreateAddonInstallation(ctx context.Context, clusterID string, req AddonInstallation) (*AddonInstallation, error) {
	var ack AddonInstallation
	if err := c.do(ctx, http.MethodPost, clusterPath(clusterID)+"/addons", req, &ack); err != nil {
		return nil, fmt.Errorf("failed to install addon %s on cluster %s: %w", req.Addon.ID, clusterID, err)
	}
	return &ack, nil
}

// DeleteCluster requests the deletion of a cluster.
func (c *Client) DeleteCluster(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, clusterPath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete cluster %s: %w", id, err)
	}
	return nil
}

func clusterPath(id string) string {
	return ClustersPath + "/" + url.PathEscape(id)
}

// do sends one request. When out is non-nil the response must carry a body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.V(1).Info("request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.log.V(1).Info("response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(data) > 0 {
			_ = json.Unmarshal(data, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
