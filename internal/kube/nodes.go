package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/meshwise/meshcost/internal/model"
)

// Well-known node labels carrying the instance type and placement.
// Clusters older than 1.17 still use the beta variants.
const (
	labelInstanceType     = "node.kubernetes.io/instance-type"
	labelInstanceTypeBeta = "beta.kubernetes.io/instance-type"
	labelRegion           = "topology.kubernetes.io/region"
	labelRegionBeta       = "failure-domain.beta.kubernetes.io/region"
	labelZone             = "topology.kubernetes.io/zone"
	labelZoneBeta         = "failure-domain.beta.kubernetes.io/zone"
)

const bytesPerGiB = 1024 * 1024 * 1024

// CollectNodeRows lists the cluster nodes and converts them to
// inventory rows. Output follows the API list order.
func CollectNodeRows(ctx context.Context, client kubernetes.Interface, clusterName string) ([]model.NodeRow, error) {
	nodeList, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	rows := make([]model.NodeRow, 0, len(nodeList.Items))
	for i := range nodeList.Items {
		rows = append(rows, convertNode(&nodeList.Items[i], clusterName))
	}
	return rows, nil
}

func convertNode(node *corev1.Node, clusterName string) model.NodeRow {
	row := model.NodeRow{
		Cluster:    clusterName,
		Name:       node.Name,
		Type:       labelValue(node, labelInstanceType, labelInstanceTypeBeta),
		Region:     labelValue(node, labelRegion, labelRegionBeta),
		Zone:       labelValue(node, labelZone, labelZoneBeta),
		K8sVersion: node.Status.NodeInfo.KubeletVersion,
		OS:         node.Status.NodeInfo.OperatingSystem,
		Arch:       node.Status.NodeInfo.Architecture,
	}

	if cpu := node.Status.Capacity.Cpu(); cpu != nil {
		row.CPUs = int(cpu.Value())
	}
	if mem := node.Status.Capacity.Memory(); mem != nil {
		row.MemoryGiB = float64(mem.Value()) / bytesPerGiB
	}
	return row
}

func labelValue(node *corev1.Node, keys ...string) string {
	for _, k := range keys {
		if v, ok := node.Labels[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
