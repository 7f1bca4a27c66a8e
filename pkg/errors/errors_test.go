package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("boom")
	err := NewConfigError("controller.url", "controller base URL is required", cause)
	require.Equal(t, "config error: controller.url: controller base URL is required", err.Error())
	require.ErrorIs(t, err, cause)

	err = NewConfigError("", "empty document", nil)
	require.Equal(t, "config error: empty document", err.Error())
}

func TestParseError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("yaml: line 7: mapping values are not allowed")
	err := NewParseError("resources.yaml", 7, cause)
	require.Equal(t, "parse error: resources.yaml:7: yaml: line 7: mapping values are not allowed", err.Error())

	err = NewParseError("resources.yaml", 0, cause)
	require.NotContains(t, err.Error(), ":0:")
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	err := NewTransportError("/api/s/default/rest/networkconf", 401, "api.err.LoginRequired")
	require.Equal(t,
		"controller at /api/s/default/rest/networkconf returned HTTP 401: api.err.LoginRequired",
		err.Error())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	require.Equal(t, 401, transportErr.Status)

	err = NewTransportError("/api/system", 502, "")
	require.Equal(t, "controller at /api/system returned HTTP 502", err.Error())
}

func TestStructuralError(t *testing.T) {
	t.Parallel()

	err := NewStructuralError([]string{"data"}, "data")
	require.Contains(t, err.Error(), "misses attribute data")
}

func TestDomainError(t *testing.T) {
	t.Parallel()

	err := NewDomainError("wlanconf", "could not find AP group Roof", nil)
	require.Equal(t, "wlanconf: could not find AP group Roof", err.Error())

	err = NewDomainError("", "unscoped", nil)
	require.Equal(t, "unscoped", err.Error())
}
