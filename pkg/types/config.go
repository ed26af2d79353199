package types

import "time"

// HTTPConfig holds shared HTTP settings used by every provider request.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "dome-copilot/0.1 (mailto:someone@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// OutputFormat selects how a resolved record is serialized.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// Ext returns the file extension for the format, without the dot.
func (f OutputFormat) Ext() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// ResolverConfig holds settings for DOI resolution.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// ContactEmail is sent to CrossRef (polite pool) and NCBI (required by policy).
	ContactEmail string `json:"contact_email" yaml:"contact_email"`

	// Tool is the NCBI tool name sent with ID Converter requests.
	Tool string `json:"tool" yaml:"tool"`

	// RequestsPerSecond caps the outbound request rate across all providers.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// RetryDelay is the fixed wait before the single retry of a transient failure.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// OutputDir is where metadata files are written (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects the output file format: json or yaml.
	Format OutputFormat `json:"format" yaml:"format"`
}

// RegistryConfig holds the directory layout of the DOME registry downloads.
type RegistryConfig struct {
	// PDFDir holds the flat PMC full-text PDFs (e.g. "PMC12345_main.pdf").
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// SupplementaryDir holds one folder per PMCID.
	SupplementaryDir string `json:"supplementary_dir" yaml:"supplementary_dir"`

	// ProcessedDir holds one processed JSON file per PMCID.
	ProcessedDir string `json:"processed_dir" yaml:"processed_dir"`

	// ReviewsFile is the registry human review export (JSON array).
	ReviewsFile string `json:"reviews_file" yaml:"reviews_file"`
}
