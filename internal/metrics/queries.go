package metrics

import "fmt"

// PromQL query templates for namespace inventory.
//
// These rely on kube-state-metrics (kube_pod_container_info,
// kube_pod_container_resource_requests/limits, kube_service_info,
// kube_pod_status_phase) and identify mesh sidecars by the istio-proxy
// container name. They work against Prometheus, Thanos, and Cortex.

// sidecarContainer is the mesh sidecar container name injected by istio.
const sidecarContainer = "istio-proxy"

func queryRunningPods() string {
	return `count by (namespace) (count by (namespace, pod) (kube_pod_status_phase{phase="Running"} == 1))`
}

func queryServices() string {
	return `count by (namespace) (kube_service_info)`
}

func queryContainers() string {
	return `count by (namespace) (kube_pod_container_info)`
}

func querySidecarProxies() string {
	return fmt.Sprintf(`count by (namespace) (kube_pod_container_info{container=%q})`, sidecarContainer)
}

// queryWorkloadResources returns per-namespace request or limit totals
// for the workload containers, sidecars excluded. kind is "requests" or
// "limits"; resource is "cpu" or "memory".
func queryWorkloadResources(kind, resource string) string {
	return fmt.Sprintf(`sum by (namespace) (kube_pod_container_resource_%s{resource=%q, container!=%q, container!=""})`,
		kind, resource, sidecarContainer)
}

// querySidecarResources returns per-namespace request or limit totals
// for the sidecar containers only.
func querySidecarResources(kind, resource string) string {
	return fmt.Sprintf(`sum by (namespace) (kube_pod_container_resource_%s{resource=%q, container=%q})`,
		kind, resource, sidecarContainer)
}
