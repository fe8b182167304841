// Package config provides configuration structures for the retrieval service.
// It defines per-collection settings and the application configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gcbaptista/abstract-retrieval/internal/tokenizer"
)

// Default file layout of a collection's source directory.
const (
	DefaultIndexFile       = "indice.json"
	DefaultMetadataFile    = "metadados.json"
	DefaultAbstractsDir    = "resumos_processados"
	DefaultAbstractPattern = "resumo_processado_%02d.txt"
)

// CollectionSettings contains the configuration of one document collection.
//
// CollectionSize is the fixed N used when deriving the IDF table. When it is 0
// the number of documents in the metadata catalog is used instead. It is fixed
// at construction and never recomputed per query.
type CollectionSettings struct {
	Name            string   `json:"name" yaml:"name"`                                           // Unique name for the collection
	CollectionSize  int      `json:"collection_size" yaml:"collection_size"`                     // N in ln(N / (df + 1)); 0 means catalog size
	StopWords       []string `json:"stop_words,omitempty" yaml:"stop_words,omitempty"`           // Closed stop-word list; defaults to the Portuguese list
	IndexFile       string   `json:"index_file,omitempty" yaml:"index_file,omitempty"`           // Inverted index JSON, relative to the source dir
	MetadataFile    string   `json:"metadata_file,omitempty" yaml:"metadata_file,omitempty"`     // Metadata catalog JSON, relative to the source dir
	AbstractsDir    string   `json:"abstracts_dir,omitempty" yaml:"abstracts_dir,omitempty"`     // Directory of abstract text files, relative to the source dir
	AbstractPattern string   `json:"abstract_pattern,omitempty" yaml:"abstract_pattern,omitempty"` // fmt pattern taking the 1-based catalog position
}

// Validate checks the settings for basic requirements and returns every problem found.
func (settings *CollectionSettings) Validate() []string {
	var problems []string

	if strings.TrimSpace(settings.Name) == "" {
		problems = append(problems, "Collection name cannot be empty or whitespace-only")
	} else if strings.TrimSpace(settings.Name) != settings.Name {
		problems = append(problems, "Collection name cannot have leading or trailing whitespace")
	} else if strings.ContainsAny(settings.Name, `/\`) {
		problems = append(problems, "Collection name cannot contain path separators")
	} else if !IsSafeCollectionName(settings.Name) {
		problems = append(problems, fmt.Sprintf("Collection name '%s' is reserved", settings.Name))
	}

	if settings.CollectionSize < 0 {
		problems = append(problems, fmt.Sprintf("collection_size must not be negative (got %d)", settings.CollectionSize))
	}

	problems = append(problems, checkDuplicates("stop_words", settings.StopWords)...)
	for _, w := range settings.StopWords {
		if strings.TrimSpace(w) == "" {
			problems = append(problems, "Stop-word cannot be empty or whitespace-only")
			break
		}
	}

	if settings.AbstractPattern != "" && !strings.Contains(settings.AbstractPattern, "%") {
		problems = append(problems, "abstract_pattern must contain a format verb for the document position")
	}

	return problems
}

// IsSafeCollectionName reports whether name can be used as a single directory
// entry under the data directory. "." and ".." are rejected.
func IsSafeCollectionName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.IsLocal(name) && filepath.Base(name) == name
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, v := range values {
		if seen[v] {
			errors = append(errors, "Duplicate value '"+v+"' found in "+fieldName)
		}
		seen[v] = true
	}

	return errors
}

// ApplyDefaults applies default values to the collection settings
func (settings *CollectionSettings) ApplyDefaults() {
	if settings.StopWords == nil {
		settings.StopWords = append([]string(nil), tokenizer.DefaultStopWords...)
	}
	if settings.IndexFile == "" {
		settings.IndexFile = DefaultIndexFile
	}
	if settings.MetadataFile == "" {
		settings.MetadataFile = DefaultMetadataFile
	}
	if settings.AbstractsDir == "" {
		settings.AbstractsDir = DefaultAbstractsDir
	}
	if settings.AbstractPattern == "" {
		settings.AbstractPattern = DefaultAbstractPattern
	}
}
