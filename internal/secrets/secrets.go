// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads contact details and credentials from a directory of
// plain-text files. Each file is one secret: the filename is the key and the
// trimmed contents are the value.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Recognized key files.
const (
	// KeyContactEmail is the address sent to CrossRef and NCBI.
	KeyContactEmail = "contact-email"

	// KeyNCBITool is the tool name registered with NCBI.
	KeyNCBITool = "ncbi-tool"
)

// Secrets maps key file names to their values.
type Secrets map[string]string

// Or returns value when it is set, the secret for key otherwise.
func (s Secrets) Or(value, key string) string {
	if value != "" {
		return value
	}
	return s[key]
}

// Load reads all files in dir. A missing directory is not an error and
// yields an empty set. Unreadable files are reported to w and skipped.
func Load(dir string, w io.Writer) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}
