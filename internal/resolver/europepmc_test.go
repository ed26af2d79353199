// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

const sampleEuropePMCJSON = `{
  "hitCount": 1,
  "resultList": {"result": [{
    "pmid": "33706413",
    "pmcid": "PMC8041921",
    "title": "DOME: recommendations for supervised machine learning validation in biology.",
    "authorString": "Walsh I, Fishman D.",
    "authorList": {"author": [
      {"fullName": "Walsh I", "firstName": "Ian", "lastName": "Walsh"},
      {"fullName": "Fishman D", "firstName": "Dmytro", "lastName": "Fishman"},
      {"fullName": "ELIXIR Machine Learning Focus Group"}
    ]},
    "journalInfo": {"journal": {"title": "Nature methods"}},
    "pubYear": "2021"
  }]}
}`

func TestEuropePMCTryResolve(t *testing.T) {
	var gotQuery, gotResultType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotResultType = r.URL.Query().Get("resultType")
		writeJSON(w, sampleEuropePMCJSON)
	}))
	defer ts.Close()
	setBase(t, &europePMCSearchBase, ts.URL)

	p := &EuropePMC{Client: newTestClient(ts)}
	res := p.TryResolve(context.Background(), Request{
		DOI: "10.1038/s41592-021-01205-4",
		IDs: types.IDs{PMID: "33706413"},
	})

	require.Equal(t, OutcomeFound, res.Outcome, "err: %v", res.Err)
	assert.Equal(t, "ext_id:33706413 src:med", gotQuery)
	assert.Equal(t, "core", gotResultType)
	m := res.Metadata
	assert.Equal(t, "DOME: recommendations for supervised machine learning validation in biology.", m.Title)
	assert.Equal(t, []string{"Walsh Ian", "Fishman Dmytro", "ELIXIR Machine Learning Focus Group"}, m.Authors)
	assert.Equal(t, "Nature methods", m.Journal)
	assert.Equal(t, "2021", m.Year)
	assert.Equal(t, "33706413", m.PMID)
	assert.Equal(t, "PMC8041921", m.PMCID)
}

func TestEuropePMCAuthorStringFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"resultList": {"result": [{"pmid": 1, "title": "T", "authorString": "Walsh I, Fishman D.", "pubYear": 2021}]}}`)
	}))
	defer ts.Close()
	setBase(t, &europePMCSearchBase, ts.URL)

	p := &EuropePMC{Client: newTestClient(ts)}
	res := p.TryResolve(context.Background(), Request{DOI: "10.1000/x", IDs: types.IDs{PMID: "1"}})

	require.Equal(t, OutcomeFound, res.Outcome, "err: %v", res.Err)
	assert.Equal(t, []string{"Walsh I", "Fishman D."}, res.Metadata.Authors)
	assert.Equal(t, "Walsh I, Fishman D.", res.Metadata.AuthorString())
	assert.Equal(t, "2021", res.Metadata.Year)
	assert.Equal(t, "1", res.Metadata.PMID)
}

func TestEuropePMCNoResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"hitCount": 0, "resultList": {"result": []}}`)
	}))
	defer ts.Close()
	setBase(t, &europePMCSearchBase, ts.URL)

	p := &EuropePMC{Client: newTestClient(ts)}
	res := p.TryResolve(context.Background(), Request{DOI: "10.1000/x", IDs: types.IDs{PMID: "1"}})
	assert.Equal(t, OutcomeNotFound, res.Outcome)
}

func TestEuropePMCApplies(t *testing.T) {
	p := &EuropePMC{}
	assert.True(t, p.Applies(Request{IDs: types.IDs{PMID: "1"}}))
	assert.False(t, p.Applies(Request{IDs: types.IDs{PMCID: "PMC1"}}))
	assert.False(t, p.Applies(Request{}))
}
