// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// testConfig returns a resolver config with no real pacing or retry waits.
func testConfig() types.ResolverConfig {
	return types.ResolverConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "dome-copilot-test/0.1",
		},
		ContactEmail:      "test@example.org",
		Tool:              "dome_copilot_test",
		RequestsPerSecond: 10000,
		RetryDelay:        time.Millisecond,
	}
}

// newTestClient returns a Client bound to ts.
func newTestClient(ts *httptest.Server) *Client {
	return NewClient(testConfig(), WithHTTPClient(ts.Client()))
}

// setBase points a provider base URL var at value for the duration of t.
func setBase(t *testing.T, base *string, value string) {
	t.Helper()
	orig := *base
	*base = value
	t.Cleanup(func() { *base = orig })
}

// serveAll points every provider endpoint at a single test server whose
// mux routes by path prefix.
func serveAll(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	setBase(t, &idConverterBase, ts.URL+"/idconv/")
	setBase(t, &crossrefAPIBase, ts.URL+"/crossref/")
	setBase(t, &zenodoRecordsBase, ts.URL+"/zenodo")
	setBase(t, &arxivAPIBase, ts.URL+"/arxiv")
	setBase(t, &biorxivAPIBase, ts.URL+"/biorxiv")
	setBase(t, &europePMCSearchBase, ts.URL+"/europepmc")
	return ts
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}
