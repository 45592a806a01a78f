package server

import (
	"context"
	"testing"
	"time"

	"github.com/atxwallet/atxserver/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	// Nothing listens on port 1, so the app starts degraded.
	c.DatabaseDSN = "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"
	c.WalletDir = t.TempDir()
	c.LogLevel = "error"
	return c
}

func TestNewApp_InvalidConfig(t *testing.T) {
	c := testConfig(t)
	c.SecretKey = ""

	_, err := NewApp(c)
	require.Error(t, err)
}

func TestNewApp_DegradedWithoutDatabase(t *testing.T) {
	app, err := NewApp(testConfig(t))
	require.NoError(t, err)

	assert.Nil(t, app.db)
	assert.False(t, app.userService.Available())
	assert.NotNil(t, app.pairings)
	assert.NotNil(t, app.wallets)
}

func TestNewApp_S3Backend(t *testing.T) {
	c := testConfig(t)
	c.WalletBackend = config.WalletBackendS3

	app, err := NewApp(c)
	require.NoError(t, err)
	assert.NotNil(t, app.wallets)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	c := testConfig(t)
	c.PairingTTL = time.Minute

	app, err := NewApp(c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
}
