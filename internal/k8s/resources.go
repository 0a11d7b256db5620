package k8s

import (
	"context"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

// ErrNotFound is returned when the requested resource does not exist.
var ErrNotFound = errors.New("resource not found")

// ResourceRequest identifies a custom resource or a collection of them.
type ResourceRequest struct {
	Group         string
	Version       string
	Resource      string
	Namespace     string
	Name          string
	LabelSelector string
}

func (r ResourceRequest) gvr() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: r.Group, Version: r.Version, Resource: r.Resource}
}

func (r ResourceRequest) String() string {
	s := r.gvr().String()
	if r.Namespace != "" {
		s += " in " + r.Namespace
	}
	if r.Name != "" {
		s += " named " + r.Name
	}
	return s
}

func (c *Client) resource(req ResourceRequest) dynamic.ResourceInterface {
	if req.Namespace == "" {
		return c.dynamic.Resource(req.gvr())
	}
	return c.dynamic.Resource(req.gvr()).Namespace(req.Namespace)
}

// GetCustomResource returns the named resource as an unstructured object.
func (c *Client) GetCustomResource(ctx context.Context, req ResourceRequest) (map[string]any, error) {
	obj, err := c.resource(req).Get(ctx, req.Name, metav1.GetOptions{})
	if err != nil {
		return nil, wrapNotFound(fmt.Sprintf("failed to get %s", req), err)
	}
	return obj.Object, nil
}

// ListCustomResources returns the resources matching the request's label selector.
func (c *Client) ListCustomResources(ctx context.Context, req ResourceRequest) ([]map[string]any, error) {
	list, err := c.resource(req).List(ctx, metav1.ListOptions{LabelSelector: req.LabelSelector})
	if err != nil {
		return nil, wrapNotFound(fmt.Sprintf("failed to list %s", req), err)
	}

	items := make([]map[string]any, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, item.Object)
	}
	return items, nil
}

// wrapNotFound maps API not-found errors, including a missing CRD, to ErrNotFound.
func wrapNotFound(msg string, err error) error {
	if apierrors.IsNotFound(err) {
		return fmt.Errorf("%s: %w: %w", msg, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
