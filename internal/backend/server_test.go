package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/abelbrown/qkart/internal/catalog"
	"github.com/abelbrown/qkart/internal/otel"
)

type brokenCatalog struct{}

func (brokenCatalog) All() ([]catalog.Item, error)          { return nil, errors.New("disk on fire") }
func (brokenCatalog) Search(string) ([]catalog.Item, error) { return nil, errors.New("disk on fire") }

func serve(t *testing.T, cat Catalog, cfg ServerConfig) (*httptest.Server, *catalog.Client) {
	t.Helper()
	srv := httptest.NewServer(NewServer(cat, cfg))
	t.Cleanup(srv.Close)
	return srv, catalog.NewClient(srv.URL+DefaultPrefix, catalog.Options{})
}

func TestServerFetchAll(t *testing.T) {
	_, client := serve(t, seeded(t), ServerConfig{})

	items, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(items))
}

func TestServerSearch(t *testing.T) {
	_, client := serve(t, seeded(t), ServerConfig{})

	items, err := client.Search(context.Background(), "phone")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(items))

	items, err = client.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestServerSearchNoMatchIs404(t *testing.T) {
	srv, client := serve(t, seeded(t), ServerConfig{})

	_, err := client.Search(context.Background(), "xyz123")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	resp, err := http.Get(srv.URL + "/api/v1/products/search?value=xyz123")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, gjson.GetBytes(body, "success").Bool())
	assert.Equal(t, msgNotFound, gjson.GetBytes(body, "message").String())
}

func TestServerStoreFailure(t *testing.T) {
	_, client := serve(t, brokenCatalog{}, ServerConfig{})

	_, err := client.FetchAll(context.Background())
	var fe *catalog.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
	assert.Equal(t, msgInternal, fe.Reason())

	_, err = client.Search(context.Background(), "a")
	var se *catalog.SearchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
}

func TestServerRoutes(t *testing.T) {
	srv, _ := serve(t, seeded(t), ServerConfig{Prefix: "shop/"})

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/shop/products", http.StatusOK},
		{http.MethodGet, "/shop/products/search?value=shoes", http.StatusOK},
		{http.MethodGet, "/api/v1/products", http.StatusNotFound},
		{http.MethodPost, "/shop/products", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestServerEmitsRequestEvents(t *testing.T) {
	ring := otel.NewRingBuffer(16)
	events := otel.NewLogger(io.Discard)
	defer events.Close()
	events.SetRingBuffer(ring)

	_, client := serve(t, seeded(t), ServerConfig{Events: events})
	_, err := client.Search(context.Background(), "shoes")
	require.NoError(t, err)

	// The event is emitted after the response is written.
	require.Eventually(t, func() bool { return ring.Len() == 1 }, time.Second, 5*time.Millisecond)
	got := ring.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, otel.KindServerRequest, got[0].Kind)
	assert.Equal(t, "shoes", got[0].Query)
	assert.Equal(t, http.StatusOK, got[0].Status)
	assert.Equal(t, 1, got[0].Count)
}

func TestServerDelay(t *testing.T) {
	_, client := serve(t, seeded(t), ServerConfig{Delay: 50 * time.Millisecond})

	start := time.Now()
	_, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
