package manifest

import "fmt"

// Labels set on the node deployment and its pods.
const (
	LabelNodeName  = "node_name"
	LabelChainName = "chain_name"
)

// Load balancer annotations. The token binds the service to a pre-existing load balancer.
const (
	AnnotationLoadBalancerID      = "service.beta.kubernetes.io/alibaba-cloud-loadbalancer-id"
	AnnotationForceOverride       = "service.beta.kubernetes.io/alicloud-loadbalancer-force-override-listeners"
	AnnotationHealthCheckInterval = "service.beta.kubernetes.io/alibaba-cloud-loadbalancer-health-check-interval"
)

// Data keys of the generated secrets.
const (
	KMSSecretKey     = "key_file"
	NetworkSecretKey = "network-key"
)

// PodName is the deployment name of a node and the sub path of its data volume.
func PodName(chain, identity string) string {
	return fmt.Sprintf("%s-%s", chain, identity)
}

func KMSSecretName(chain, identity string) string {
	return fmt.Sprintf("kms-secret-%s-%s", chain, identity)
}

func NetworkSecretName(chain, identity string) string {
	return fmt.Sprintf("%s-%s-network-secret", chain, identity)
}

// ServiceName names the load balancer service of a node group.
func ServiceName(chain, groupIndex string) string {
	return fmt.Sprintf("all-%s-%s", chain, groupIndex)
}

// FileName is the file a node's bundle is written to.
func FileName(chain, identity string) string {
	return PodName(chain, identity) + ".yaml"
}
