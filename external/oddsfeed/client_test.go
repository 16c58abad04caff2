package oddsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchOdds_MapsQuotes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/quotes", r.URL.Path)
		require.Equal(t, "2024-04-06", r.URL.Query().Get("date"))
		require.Equal(t, "geelong", r.URL.Query().Get("team"))
		_, _ = w.Write([]byte(`{
			"quotes": [
				{"bookmaker": "sportsbet", "price": 1.85, "line": -7.5, "fetched_at": "2024-04-05T21:00:00Z"},
				{"bookmaker": "", "price": 2.0},
				{"bookmaker": "tab", "fetched_at": "bad"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	quotes, err := client.FetchOdds(context.Background(), time.Date(2024, 4, 6, 19, 40, 0, 0, time.UTC), "geelong")
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	require.Equal(t, "sportsbet", quotes[0].Bookmaker)
	require.Equal(t, 1.85, quotes[0].Price.MustGet())
	require.Equal(t, -7.5, quotes[0].Line.MustGet())
	require.Equal(t, time.Date(2024, 4, 5, 21, 0, 0, 0, time.UTC), quotes[0].FetchedAt)

	require.Equal(t, "tab", quotes[1].Bookmaker)
	require.True(t, quotes[1].Price.Null())
	require.True(t, quotes[1].FetchedAt.IsZero())
}

func TestFetchOdds_NotFoundMeansNoMarket(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	quotes, err := client.FetchOdds(context.Background(), time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC), "geelong")
	require.NoError(t, err)
	require.Empty(t, quotes)
}
