// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDConverterLookupIDs(t *testing.T) {
	var got url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeJSON(w, `{"status": "ok", "records": [{"pmcid": "PMC8041921", "pmid": 33706413, "doi": "10.1038/s41592-021-01205-4"}]}`)
	}))
	defer ts.Close()
	setBase(t, &idConverterBase, ts.URL+"/")

	p := &IDConverter{Client: newTestClient(ts)}
	ids, err := p.LookupIDs(context.Background(), "10.1038/s41592-021-01205-4")
	require.NoError(t, err)

	assert.Equal(t, "33706413", ids.PMID)
	assert.Equal(t, "PMC8041921", ids.PMCID)
	assert.Equal(t, "dome_copilot_test", got.Get("tool"))
	assert.Equal(t, "test@example.org", got.Get("email"))
	assert.Equal(t, "10.1038/s41592-021-01205-4", got.Get("ids"))
	assert.Equal(t, "json", got.Get("format"))
}

func TestIDConverterUnknownDOI(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no records", `{"status": "ok", "records": []}`},
		{"error record", `{"status": "ok", "records": [{"doi": "10.1000/x", "status": "error", "errmsg": "invalid article id"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.body)
			}))
			defer ts.Close()
			setBase(t, &idConverterBase, ts.URL+"/")

			p := &IDConverter{Client: newTestClient(ts)}
			ids, err := p.LookupIDs(context.Background(), "10.1000/x")
			require.NoError(t, err)
			assert.True(t, ids.Empty())
		})
	}
}

func TestIDConverterFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	setBase(t, &idConverterBase, ts.URL+"/")

	p := &IDConverter{Client: newTestClient(ts)}
	_, err := p.LookupIDs(context.Background(), "10.1000/x")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "dome-copilot/0.1", UserAgent("", ""))
	assert.Equal(t, "tool/1 (mailto:a@b.org)", UserAgent("tool/1", "a@b.org"))
}
