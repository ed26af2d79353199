// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
)

// AuthorSeparator joins author names in the output record.
const AuthorSeparator = ", "

// Metadata is the standardized publication record produced by resolution.
// DOI is always set; every other field is an empty string when unknown.
type Metadata struct {
	// Title is the publication title.
	Title string

	// Authors lists author names in source order.
	Authors []string

	// Journal is the container title, preprint server, or repository name.
	Journal string

	// Year is the four-digit publication year.
	Year string

	// PMID is the PubMed identifier, if any.
	PMID string

	// PMCID is the PubMed Central identifier, if any.
	PMCID string

	// DOI is the resolution key.
	DOI string
}

// Record is the flat on-disk shape of Metadata. Field order matches the
// output file.
type Record struct {
	Title   string `json:"publication/title" yaml:"publication/title"`
	Authors string `json:"publication/authors" yaml:"publication/authors"`
	Journal string `json:"publication/journal" yaml:"publication/journal"`
	Year    string `json:"publication/year" yaml:"publication/year"`
	PMID    string `json:"publication/pmid" yaml:"publication/pmid"`
	PMCID   string `json:"publication/pmcid" yaml:"publication/pmcid"`
	DOI     string `json:"publication/doi" yaml:"publication/doi"`
}

// AuthorString returns the authors joined for display.
func (m Metadata) AuthorString() string {
	return strings.Join(m.Authors, AuthorSeparator)
}

// Valid reports whether the record carries enough data to be used:
// a DOI and a non-empty title.
func (m Metadata) Valid() bool {
	return m.DOI != "" && strings.TrimSpace(m.Title) != ""
}

// Record converts m to its flat output shape.
func (m Metadata) Record() Record {
	return Record{
		Title:   m.Title,
		Authors: m.AuthorString(),
		Journal: m.Journal,
		Year:    m.Year,
		PMID:    m.PMID,
		PMCID:   m.PMCID,
		DOI:     m.DOI,
	}
}

// MarshalJSON writes Metadata in its flat record form.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Record())
}

// MarshalYAML writes Metadata in its flat record form.
func (m Metadata) MarshalYAML() (any, error) {
	return m.Record(), nil
}

// IDs holds the PubMed cross-reference identifiers for a DOI.
type IDs struct {
	PMID  string `json:"pmid" yaml:"pmid"`
	PMCID string `json:"pmcid" yaml:"pmcid"`
}

// Empty reports whether neither identifier is known.
func (i IDs) Empty() bool {
	return i.PMID == "" && i.PMCID == ""
}
