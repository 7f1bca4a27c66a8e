package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unifisync/unifisync/internal/model"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Options{
		BaseURL:  server.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New(Options{})
	var cfgErr *syncerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestVariantProbeClassic(t *testing.T) {
	t.Parallel()

	probes := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/system", r.URL.Path)
		probes++
		w.WriteHeader(http.StatusUnauthorized)
	}))

	osVariant, err := client.IsUnifiOS(context.Background())
	require.NoError(t, err)
	require.False(t, osVariant)

	// The probe result is cached for the client lifetime.
	osVariant, err = client.IsUnifiOS(context.Background())
	require.NoError(t, err)
	require.False(t, osVariant)
	require.Equal(t, 1, probes)
}

func TestVariantProbeOSEmbedded(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	osVariant, err := client.IsUnifiOS(context.Background())
	require.NoError(t, err)
	require.True(t, osVariant)
}

func TestVariantProbeEscalatesUnexpectedStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.IsUnifiOS(context.Background())
	require.Error(t, err)
	var transportErr *syncerrors.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusBadGateway, transportErr.Status)
}

func TestLoginRoutesPerVariant(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		probeStatus int
		wantPath    string
	}{
		{name: "classic", probeStatus: http.StatusUnauthorized, wantPath: "/api/login"},
		{name: "os-embedded", probeStatus: http.StatusOK, wantPath: "/api/auth/login"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var loginPath string
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/system" {
					w.WriteHeader(tc.probeStatus)
					return
				}
				loginPath = r.URL.Path

				var creds map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				require.Equal(t, "admin", creds["username"])
				require.Equal(t, "secret", creds["password"])
				w.WriteHeader(http.StatusOK)
			}))

			require.NoError(t, client.Login(context.Background()))
			require.Equal(t, tc.wantPath, loginPath)
		})
	}
}

func TestSessionHeadersAreCachedAndReplayed(t *testing.T) {
	t.Parallel()

	var replayedCookie, replayedToken string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/system":
			w.WriteHeader(http.StatusUnauthorized)
		case "/api/login":
			w.Header().Add("Set-Cookie", "unifises=abc123; Path=/; HttpOnly")
			w.Header().Add("Set-Cookie", "csrf_token=tok42; Path=/, TOKEN=xyz; Secure")
			w.Header().Set("X-Csrf-Token", "csrf-77")
			w.WriteHeader(http.StatusOK)
		default:
			replayedCookie = r.Header.Get("Cookie")
			replayedToken = r.Header.Get("X-Csrf-Token")
			w.Write([]byte(`{"data":[]}`))
		}
	}))

	require.NoError(t, client.Login(context.Background()))

	_, err := client.Do(context.Background(), Request{Path: "/rest/networkconf"})
	require.NoError(t, err)

	require.Equal(t, "unifises=abc123,csrf_token=tok42,TOKEN=xyz", replayedCookie)
	require.Equal(t, "csrf-77", replayedToken)
}

func TestDoDecodesJSON(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/system" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/s/default/rest/networkconf", r.URL.Path)
		w.Write([]byte(`{"data":[{"_id":"a1","name":"LAN"}]}`))
	}))

	resp, err := client.Do(context.Background(), Request{Path: "/rest/networkconf", Proxy: "network"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)

	body, ok := resp.Body.(map[string]any)
	require.True(t, ok)
	require.Len(t, body["data"], 1)
}

func TestDoUsesProxySegmentOnOSVariant(t *testing.T) {
	t.Parallel()

	var seenPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/system" {
			w.WriteHeader(http.StatusOK)
			return
		}
		seenPath = r.URL.Path
		w.Write([]byte(`{"data":[]}`))
	}))

	_, err := client.Do(context.Background(), Request{Path: "/rest/wlanconf", Proxy: "network"})
	require.NoError(t, err)
	require.Equal(t, "/proxy/network/api/s/default/rest/wlanconf", seenPath)
}

func TestDoEscalatesTransportError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/system" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"meta":{"msg":"api.err.InvalidPayload"}}`))
	}))

	_, err := client.Do(context.Background(), Request{Path: "/rest/networkconf", Data: model.Item{"name": "x"}})
	require.Error(t, err)

	var transportErr *syncerrors.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusBadRequest, transportErr.Status)
	require.Contains(t, transportErr.Body, "api.err.InvalidPayload")
	require.Contains(t, err.Error(), "returned HTTP 400")
}

func TestDoMaskedErrorPassesThrough(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/system" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`<html>login required</html>`))
	}))

	resp, err := client.Do(context.Background(), Request{
		Path:   "/rest/networkconf",
		Masked: []int{http.StatusUnauthorized},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.Status)
	// A non-JSON body on a masked error carries no payload.
	require.Nil(t, resp.Body)
}

func TestLogoutRoutesPerVariant(t *testing.T) {
	t.Parallel()

	var logoutPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/system" {
			w.WriteHeader(http.StatusOK)
			return
		}
		logoutPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.Logout(context.Background()))
	require.Equal(t, "/api/auth/logout", logoutPath)
}
