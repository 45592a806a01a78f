package rest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairing_SubmitThenQuery(t *testing.T) {
	e := newTestEnv(t, Options{})

	resp, body := e.do(t, http.MethodPost, "/api/pairings", `{"session":"s1","address":"0xabc"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	resp, body = e.do(t, http.MethodGet, "/api/pairings/s1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m := decode(t, body)
	assert.Equal(t, true, m["connected"])
	assert.Equal(t, "0xabc", m["address"])
	assert.Equal(t, "mobile", m["device"])
	assert.NotEmpty(t, m["when"])
}

func TestPairing_LastWriteWins(t *testing.T) {
	e := newTestEnv(t, Options{})

	e.do(t, http.MethodPost, "/api/pairings", `{"session":"s1","address":"0xabc"}`)
	e.do(t, http.MethodPost, "/api/pairings", `{"session":"s1","address":"0xdef","device":"tablet"}`)

	_, body := e.do(t, http.MethodGet, "/api/pairings/s1", "")
	m := decode(t, body)
	assert.Equal(t, "0xdef", m["address"])
	assert.Equal(t, "tablet", m["device"])
}

func TestPairing_Unknown(t *testing.T) {
	e := newTestEnv(t, Options{})

	resp, body := e.do(t, http.MethodGet, "/api/pairings/unknown-session", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"connected":false}`, string(body))
}

func TestPairing_MissingSession(t *testing.T) {
	e := newTestEnv(t, Options{})

	resp, _ := e.do(t, http.MethodPost, "/api/pairings", `{"address":"0xabc"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, e.pairing.Len())

	resp, _ = e.do(t, http.MethodGet, "/api/pairings", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPairing_SessionWithSlash(t *testing.T) {
	e := newTestEnv(t, Options{})

	resp, _ := e.do(t, http.MethodPost, "/api/pairings", `{"session":"a/b","address":"0xabc"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, path := range []string{"/api/pairings/a/b", "/api/pairings/a%2Fb"} {
		resp, body := e.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "0xabc", decode(t, body)["address"], path)
	}

	resp, body := e.do(t, http.MethodGet, "/api/pairings/a/c", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"connected":false}`, string(body))
}
