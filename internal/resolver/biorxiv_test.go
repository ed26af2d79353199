// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
)

const sampleBiorxivJSON = `{
  "messages": [{"status": "ok", "count": 2}],
  "collection": [
    {"doi": "10.1101/2023.01.01.522000", "title": "Old title", "authors": "Doe, J.", "date": "2023-01-01", "version": "1", "server": "biorxiv"},
    {"doi": "10.1101/2023.01.01.522000", "title": "Protein structure\n prediction", "authors": "Doe, J.; Roe, R.; ", "date": "2023-03-15", "version": "2", "server": "bioRxiv"}
  ]
}`

const sampleBiorxivMissing = `{"messages": [{"status": "no posts found"}], "collection": []}`

func cshlRequest(d string) Request {
	return Request{DOI: d, Hint: doi.Classify(d)}
}

func TestPreprintTryResolve(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, sampleBiorxivJSON)
	}))
	defer ts.Close()
	setBase(t, &biorxivAPIBase, ts.URL)

	p := &Preprint{Client: newTestClient(ts), Server: ServerBiorxiv}
	res := p.TryResolve(context.Background(), cshlRequest("10.1101/2023.01.01.522000"))

	require.Equal(t, OutcomeFound, res.Outcome, "err: %v", res.Err)
	assert.Equal(t, "/details/biorxiv/10.1101/2023.01.01.522000", gotPath)
	assert.Equal(t, "Protein structure prediction", res.Metadata.Title)
	assert.Equal(t, []string{"Doe, J.", "Roe, R."}, res.Metadata.Authors)
	assert.Equal(t, "BioRxiv (Preprint)", res.Metadata.Journal)
	assert.Equal(t, "2023", res.Metadata.Year)
}

func TestPreprintNotFound(t *testing.T) {
	tests := []struct {
		name   string
		server string
		body   string
	}{
		{"status not ok", ServerBiorxiv, sampleBiorxivMissing},
		{"empty collection", ServerBiorxiv, `{"messages": [{"status": "ok"}], "collection": []}`},
		{"no messages", ServerBiorxiv, `{}`},
		{"record from sibling server", ServerMedrxiv, sampleBiorxivJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.body)
			}))
			defer ts.Close()
			setBase(t, &biorxivAPIBase, ts.URL)

			p := &Preprint{Client: newTestClient(ts), Server: tt.server}
			res := p.TryResolve(context.Background(), cshlRequest("10.1101/2023.01.01.522000"))
			assert.Equal(t, OutcomeNotFound, res.Outcome)
		})
	}
}

func TestPreprintNameAndApplies(t *testing.T) {
	bio := &Preprint{Server: ServerBiorxiv}
	med := &Preprint{Server: ServerMedrxiv}
	assert.Equal(t, "BioRxiv", bio.Name())
	assert.Equal(t, "MedRxiv", med.Name())

	assert.True(t, bio.Applies(cshlRequest("10.1101/2023.01.01.522000")))
	assert.False(t, med.Applies(cshlRequest("10.1038/nature12373")))
}

func TestSplitAuthors(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, splitAuthors(" A ; B ;", ";"))
	assert.Nil(t, splitAuthors("", ";"))
}
