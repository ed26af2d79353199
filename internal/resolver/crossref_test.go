// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/doi"
)

const sampleCrossRefJSON = `{
  "status": "ok",
  "message": {
    "title": ["CrossRef Paper\n   Title"],
    "author": [
      {"given": "Carol", "family": "White"},
      {"given": "Dave", "family": "Brown"},
      {"name": "Consortium Without Parts"}
    ],
    "container-title": ["Bioinformatics"],
    "publisher": "Oxford University Press",
    "published-print": {"date-parts": [[2021, 3]]},
    "published-online": {"date-parts": [[2020, 11, 2]]},
    "created": {"date-parts": [[2020, 10, 1]]}
  }
}`

func TestCrossRefTryResolve(t *testing.T) {
	var gotPath, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		writeJSON(w, sampleCrossRefJSON)
	}))
	defer ts.Close()
	setBase(t, &crossrefAPIBase, ts.URL+"/works/")

	p := &CrossRef{Client: newTestClient(ts)}
	res := p.TryResolve(context.Background(), Request{DOI: "10.1093/bioinformatics/btab123"})

	require.Equal(t, OutcomeFound, res.Outcome, "err: %v", res.Err)
	m := res.Metadata
	assert.Equal(t, "/works/10.1093/bioinformatics/btab123", gotPath)
	assert.Contains(t, gotUA, "mailto:test@example.org")
	assert.Equal(t, "CrossRef Paper Title", m.Title)
	assert.Equal(t, []string{"White Carol", "Brown Dave"}, m.Authors)
	assert.Equal(t, "Bioinformatics", m.Journal)
	assert.Equal(t, "2021", m.Year)
	assert.Equal(t, "10.1093/bioinformatics/btab123", m.DOI)
	assert.Empty(t, m.PMID)
}

func TestCrossRefJournalAndYearFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		doi         string
		body        string
		wantJournal string
		wantYear    string
	}{
		{
			name:        "institution names biorxiv",
			doi:         "10.1101/2020.01.01.000001",
			body:        `{"message": {"title": ["T"], "institution": [{"name": "bioRxiv"}], "publisher": "Cold Spring Harbor Laboratory", "created": {"date-parts": [[2020, 1, 2]]}}}`,
			wantJournal: "BioRxiv (Preprint)",
			wantYear:    "2020",
		},
		{
			name:        "institution names medrxiv",
			doi:         "10.1101/2021.05.05.000002",
			body:        `{"message": {"title": ["T"], "institution": [{"name": "medRxiv"}], "published-online": {"date-parts": [[2021, 5]]}}}`,
			wantJournal: "MedRxiv (Preprint)",
			wantYear:    "2021",
		},
		{
			name:        "publisher fallback",
			doi:         "10.1000/report",
			body:        `{"message": {"title": ["T"], "container-title": [], "publisher": "Some Publisher"}}`,
			wantJournal: "Some Publisher",
			wantYear:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.body)
			}))
			defer ts.Close()
			setBase(t, &crossrefAPIBase, ts.URL+"/")

			p := &CrossRef{Client: newTestClient(ts)}
			res := p.TryResolve(context.Background(), Request{DOI: tt.doi, Hint: doi.Classify(tt.doi)})
			require.Equal(t, OutcomeFound, res.Outcome, "err: %v", res.Err)
			assert.Equal(t, tt.wantJournal, res.Metadata.Journal)
			assert.Equal(t, tt.wantYear, res.Metadata.Year)
		})
	}
}

func TestCrossRefNotFoundCases(t *testing.T) {
	tests := []struct {
		name   string
		doi    string
		status int
		body   string
		want   Outcome
	}{
		{"missing title", "10.1000/x", http.StatusOK, `{"message": {"title": []}}`, OutcomeNotFound},
		{"cshl without server", "10.1101/2020.01.01.000001", http.StatusOK,
			`{"message": {"title": ["T"], "publisher": "Cold Spring Harbor Laboratory"}}`, OutcomeNotFound},
		{"http 404", "10.1000/missing", http.StatusNotFound, `Resource not found.`, OutcomeNotFound},
		{"http 500", "10.1000/x", http.StatusInternalServerError, ``, OutcomeTransient},
		{"malformed json", "10.1000/x", http.StatusOK, `{"message": `, OutcomeTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()
			setBase(t, &crossrefAPIBase, ts.URL+"/")

			p := &CrossRef{Client: newTestClient(ts)}
			res := p.TryResolve(context.Background(), Request{DOI: tt.doi, Hint: doi.Classify(tt.doi)})
			assert.Equal(t, tt.want, res.Outcome)
			assert.Error(t, res.Err)
		})
	}
}

func TestCrossRefNetworkError(t *testing.T) {
	setBase(t, &crossrefAPIBase, "http://127.0.0.1:1/")

	p := &CrossRef{Client: NewClient(testConfig())}
	res := p.TryResolve(context.Background(), Request{DOI: "10.1000/x"})
	assert.Equal(t, OutcomeTransient, res.Outcome)
	assert.True(t, strings.Contains(res.Err.Error(), "CrossRef"))
}

func TestFromError(t *testing.T) {
	assert.Equal(t, OutcomeNotFound, fromError(&StatusError{Provider: "x", Code: 404}).Outcome)
	assert.Equal(t, OutcomeNotFound, fromError(&StatusError{Provider: "x", Code: 400}).Outcome)
	assert.Equal(t, OutcomeTransient, fromError(&StatusError{Provider: "x", Code: 429}).Outcome)
	assert.Equal(t, OutcomeTransient, fromError(&StatusError{Provider: "x", Code: 503}).Outcome)
	assert.Equal(t, OutcomeTransient, fromError(context.DeadlineExceeded).Outcome)
}
