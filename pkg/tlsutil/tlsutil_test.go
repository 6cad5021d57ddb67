package tlsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiiichu/stress-estimator/pkg/tlsutil"
)

func TestGenerateDevCerts(t *testing.T) {
	dir := t.TempDir()

	files, err := tlsutil.GenerateDevCerts([]string{"localhost", "127.0.0.1"}, dir)
	require.NoError(t, err)

	for _, p := range []string{files.CA, files.ServerCrt, files.ServerKey} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	server, err := tlsutil.ServerTLSConfig(files.ServerCrt, files.ServerKey)
	require.NoError(t, err)
	assert.Equal(t, "tls", server.Info().SecurityProtocol)

	client, err := tlsutil.ClientTLSConfig(files.CA)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestServerTLSConfig_MissingFiles(t *testing.T) {
	_, err := tlsutil.ServerTLSConfig("/nonexistent/cert.pem", "/nonexistent/key.pem")
	assert.Error(t, err)
}

func TestClientTLSConfig(t *testing.T) {
	t.Run("system pool", func(t *testing.T) {
		creds, err := tlsutil.ClientTLSConfig("")
		require.NoError(t, err)
		assert.NotNil(t, creds)
	})

	t.Run("garbage CA file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

		_, err := tlsutil.ClientTLSConfig(path)
		assert.Error(t, err)
	})
}
