package dropbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDisplayName(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-access", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"account_id":"dbid:abc","name":{"given_name":"Jane","surname":"Doe","display_name":"Jane Doe"},"email":"jane@example.com"}`))
	}))
	defer apiServer.Close()

	auth := newTestAuth("http://localhost:53682/dropbox-callback")
	auth.accountURL = apiServer.URL

	name, err := auth.FetchDisplayName(context.Background(), "test-access")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
}

func TestFetchDisplayNameMissingField(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"account_id":"dbid:abc"}`))
	}))
	defer apiServer.Close()

	auth := newTestAuth("http://localhost:53682/dropbox-callback")
	auth.accountURL = apiServer.URL

	_, err := auth.FetchDisplayName(context.Background(), "test-access")
	assert.Error(t, err)
}

func TestFetchSpaceUsage(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"used":2500,"allocation":{".tag":"individual","allocated":1000000}}`))
	}))
	defer apiServer.Close()

	auth := newTestAuth("http://localhost:53682/dropbox-callback")
	auth.usageURL = apiServer.URL

	usage, err := auth.FetchSpaceUsage(context.Background(), "test-access")
	require.NoError(t, err)
	assert.Equal(t, &SpaceUsage{Allocated: 1000000, Used: 2500}, usage)
}

func TestUsersAPIErrorPropagates(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error_summary":"invalid_access_token/"}`))
	}))
	defer apiServer.Close()

	auth := newTestAuth("http://localhost:53682/dropbox-callback")
	auth.usageURL = apiServer.URL

	_, err := auth.FetchSpaceUsage(context.Background(), "expired")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_access_token")
}
