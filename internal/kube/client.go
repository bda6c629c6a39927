package kube

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// NewClient creates a Kubernetes clientset. Kubeconfig resolution
// order: explicit path, KUBECONFIG, ~/.kube/config, then in-cluster
// config. Returns the clientset plus the context name in use.
func NewClient(kubeconfig, kubeContext string) (*kubernetes.Clientset, string, error) {
	config, currentContext, err := buildConfig(kubeconfig, kubeContext)
	if err != nil {
		return nil, "", fmt.Errorf("building kubernetes config: %w", err)
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, "", fmt.Errorf("creating kubernetes client: %w", err)
	}
	return client, currentContext, nil
}

func buildConfig(kubeconfig, kubeContext string) (*rest.Config, string, error) {
	path := resolveKubeconfigPath(kubeconfig)
	if path == "" {
		restConfig, err := rest.InClusterConfig()
		if err != nil {
			return nil, "", fmt.Errorf("no kubeconfig found and not running in-cluster: %w", err)
		}
		return restConfig, "", nil
	}

	rules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: path}
	overrides := &clientcmd.ConfigOverrides{}
	if kubeContext != "" {
		overrides.CurrentContext = kubeContext
	}
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)

	rawConfig, err := clientConfig.RawConfig()
	if err != nil {
		return nil, "", err
	}
	currentContext := rawConfig.CurrentContext
	if kubeContext != "" {
		currentContext = kubeContext
	}

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, "", err
	}
	return restConfig, currentContext, nil
}

func resolveKubeconfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".kube", "config")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
