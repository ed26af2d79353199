// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doi extracts and classifies Digital Object Identifiers found in
// free-form input: bare DOIs, doi.org URLs, or DOIs embedded in prose.
package doi

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrNoDOIFound is returned when the input contains no DOI-shaped substring.
var ErrNoDOIFound = errors.New("no DOI found in input")

// Hint tells the resolver which registry most likely minted a DOI.
type Hint int

const (
	HintGeneric Hint = iota
	HintZenodo
	HintArxiv
	HintCSHL
)

func (h Hint) String() string {
	switch h {
	case HintZenodo:
		return "zenodo"
	case HintArxiv:
		return "arxiv"
	case HintCSHL:
		return "cshl"
	default:
		return "generic"
	}
}

// Registrant prefixes with a dedicated provider.
const (
	ZenodoPrefix = "10.5281/"
	ArxivPrefix  = "10.48550/"
	CSHLPrefix   = "10.1101/"
)

// pattern matches "10." + 4-9 digit registrant + "/" + suffix.
var pattern = regexp.MustCompile(`10\.\d{4,9}/[-._;()/:A-Za-z0-9]+`)

// DOIs are case-insensitive; DataCite often prints Zenodo DOIs upper-case.
var zenodoPattern = regexp.MustCompile(`(?i)^10\.5281/zenodo\.(\d+)$`)

// Extract returns the first usable DOI found in text. Percent-encoded input (for
// example a copied doi.org URL) is decoded first. Trailing punctuation that
// usually belongs to the surrounding sentence is dropped.
func Extract(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", ErrNoDOIFound
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}

	for _, m := range pattern.FindAllString(s, -1) {
		m = strings.TrimRight(m, ".,;)")
		if strings.Contains(m, "/") && !strings.HasSuffix(m, "/") {
			return m, nil
		}
	}
	return "", ErrNoDOIFound
}

// Classify returns the provider hint for a normalized DOI.
func Classify(doi string) Hint {
	switch {
	case zenodoPattern.MatchString(doi):
		return HintZenodo
	case strings.HasPrefix(doi, ArxivPrefix):
		return HintArxiv
	case strings.HasPrefix(doi, CSHLPrefix):
		return HintCSHL
	default:
		return HintGeneric
	}
}

// ArxivID returns the arXiv identifier embedded in an arXiv-minted DOI
// ("10.48550/arXiv.2301.07041" -> "2301.07041"), or "" for other DOIs.
func ArxivID(doi string) string {
	if !strings.HasPrefix(doi, ArxivPrefix) {
		return ""
	}
	suffix := doi[len(ArxivPrefix):]
	if strings.HasPrefix(strings.ToLower(suffix), "arxiv.") {
		return suffix[len("arxiv."):]
	}
	return suffix
}

// ZenodoRecordID returns the numeric record ID of a Zenodo DOI, or "".
func ZenodoRecordID(doi string) string {
	if m := zenodoPattern.FindStringSubmatch(doi); m != nil {
		return m[1]
	}
	return ""
}

// SafeName returns the DOI with path separators replaced so it can be used
// as a filename stem.
func SafeName(doi string) string {
	return strings.ReplaceAll(doi, "/", "_")
}
