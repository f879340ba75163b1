package bgphe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"asnatlas/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestGetRoutingInfo(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/bgphe")
	defer cleanup()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/AS13335", r.URL.Path)
		w.Write([]byte(fullPage))
	}))
	defer srv.Close()

	client, err := NewClient(ClientOptions{BaseUrl: srv.URL})
	require.NoError(t, err)

	info, err := client.GetRoutingInfo(context.Background(), "13335")
	require.NoError(t, err)
	require.Equal(t, "13335", info.ASN)
	require.Equal(t, "https://www.cloudflare.com", info.CompanyWebsite)
	require.NotNil(t, info.PrefixesOriginatedAll)
}

func TestGetRoutingInfoServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(ClientOptions{BaseUrl: srv.URL})
	require.NoError(t, err)

	info, err := client.GetRoutingInfo(context.Background(), "13335")
	require.Error(t, err)
	require.Equal(t, RoutingInfo{ASN: "13335"}, info)
}
