package writer

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/cita-cloud/cita-manifests/pkg/config"
	"github.com/cita-cloud/cita-manifests/pkg/identity"
	"github.com/cita-cloud/cita-manifests/pkg/images"
	"github.com/cita-cloud/cita-manifests/pkg/manifest"
	"github.com/cita-cloud/cita-manifests/pkg/topology"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	k8syaml "sigs.k8s.io/yaml"
)

func testBundle(t *testing.T, id string) *manifest.Bundle {
	topo := &topology.Topology{}
	for _, r := range topology.CanonicalRoles {
		topo.Services = append(topo.Services, topology.Service{Name: r, Image: "citacloud/" + string(r) + ":v6.7.0", Command: string(r) + " run"})
	}
	c := manifest.NewComposer(manifest.Config{
		ChainName:  "test-chain",
		PullPolicy: corev1.PullIfNotPresent,
		Images:     images.DefaultImages(),
	})
	b, err := c.Compose(topo, config.Node{
		Node:        identity.Node{Identity: id, GroupIndex: "1"},
		KMSPassword: "kms-pw",
		LBToken:     "lb-token",
		BasePort:    30000,
		PVCName:     "pvc",
	})
	require.NoError(t, err)
	return b
}

func TestRender(t *testing.T) {
	data, err := Render(testBundle(t, "0"))
	require.NoError(t, err)

	docs := strings.Split(string(data), documentSeparator)
	require.Len(t, docs, 4)

	var kms corev1.Secret
	require.NoError(t, k8syaml.Unmarshal([]byte(docs[0]), &kms))
	assert.Equal(t, "Secret", kms.Kind)
	assert.Equal(t, "kms-secret-test-chain-0", kms.Name)
	assert.Equal(t, []byte("kms-pw"), kms.Data["key_file"])
	assert.Contains(t, docs[0], base64.StdEncoding.EncodeToString([]byte("kms-pw")))

	var network corev1.Secret
	require.NoError(t, k8syaml.Unmarshal([]byte(docs[1]), &network))
	assert.Equal(t, "test-chain-0-network-secret", network.Name)
	assert.True(t, strings.HasPrefix(string(network.Data["network-key"]), "0x"))

	var deploy appsv1.Deployment
	require.NoError(t, k8syaml.Unmarshal([]byte(docs[2]), &deploy))
	assert.Equal(t, "apps/v1", deploy.APIVersion)
	assert.Equal(t, "test-chain-0", deploy.Name)
	assert.Len(t, deploy.Spec.Template.Spec.Containers, 6)

	var svc corev1.Service
	require.NoError(t, k8syaml.Unmarshal([]byte(docs[3]), &svc))
	assert.Equal(t, "all-test-chain-1", svc.Name)
	assert.Equal(t, corev1.ServiceTypeLoadBalancer, svc.Spec.Type)
}

func TestWriter_WriteAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := New(fs, "/work", "test-chain")

	paths, err := w.WriteAll([]*manifest.Bundle{testBundle(t, "AB12"), testBundle(t, "CD34")})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/test-chain-AB12.yaml", "/work/test-chain-CD34.yaml"}, paths)

	for _, p := range paths {
		data, err := afero.ReadFile(fs, p)
		require.NoError(t, err)
		assert.Equal(t, 3, strings.Count(string(data), documentSeparator))
	}
}

func TestWriter_ReadOnlyFS(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := New(fs, "/work", "test-chain").WriteAll([]*manifest.Bundle{testBundle(t, "0")})
	assert.ErrorContains(t, err, "create work dir")
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, []*manifest.Bundle{testBundle(t, "0"), testBundle(t, "1")}))
	assert.Equal(t, 7, strings.Count(buf.String(), documentSeparator))
	assert.Contains(t, buf.String(), "name: test-chain-1\n")
}
