package k8s

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NodeCondition is the Ready condition of one node.
type NodeCondition struct {
	Name  string
	Ready bool
}

// NodeReadyConditions returns the Ready condition of every node in the cluster.
func (c *Client) NodeReadyConditions(ctx context.Context) ([]NodeCondition, error) {
	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, wrapNotFound("failed to list nodes", err)
	}

	conditions := make([]NodeCondition, 0, len(nodes.Items))
	for i := range nodes.Items {
		conditions = append(conditions, NodeCondition{
			Name:  nodes.Items[i].Name,
			Ready: isNodeReady(&nodes.Items[i]),
		})
	}
	return conditions, nil
}

// isNodeReady checks if a node reports Ready=True.
func isNodeReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady {
			return condition.Status == corev1.ConditionTrue
		}
	}
	return false
}
