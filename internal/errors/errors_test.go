package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCollectionNotFoundError(t *testing.T) {
	err := NewCollectionNotFoundError("lgpd")

	expectedMsg := "collection named 'lgpd' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrCollectionNotFound) {
		t.Error("Expected error to match ErrCollectionNotFound sentinel")
	}

	// Test that it doesn't match other sentinels
	if errors.Is(err, ErrDocumentNotFound) {
		t.Error("Error should not match ErrDocumentNotFound")
	}
}

func TestCollectionAlreadyExistsError(t *testing.T) {
	err := NewCollectionAlreadyExistsError("lgpd")

	expectedMsg := "collection named 'lgpd' already exists"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrCollectionAlreadyExists) {
		t.Error("Expected error to match ErrCollectionAlreadyExists sentinel")
	}
}

func TestJobNotFoundError(t *testing.T) {
	err := NewJobNotFoundError("abc")

	if err.Error() != "job with ID 'abc' not found" {
		t.Errorf("Unexpected error message '%s'", err.Error())
	}
	if !errors.Is(fmt.Errorf("polling: %w", err), ErrJobNotFound) {
		t.Error("Expected wrapped error to match ErrJobNotFound sentinel")
	}
}

func TestDocumentNotFoundError(t *testing.T) {
	err := NewDocumentNotFoundError("Artigo 01")

	expectedMsg := "document with ID 'Artigo 01' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	err2 := NewDocumentNotFoundError("Artigo 01", "lgpd")

	expectedMsg2 := "document with ID 'Artigo 01' not found in collection 'lgpd'"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	if !errors.Is(err, ErrDocumentNotFound) {
		t.Error("Expected error to match ErrDocumentNotFound sentinel")
	}
	if !errors.Is(err2, ErrDocumentNotFound) {
		t.Error("Expected error with collection to match ErrDocumentNotFound sentinel")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("mode", "must be 'boolean' or 'vector'")

	expectedMsg := "validation error for field 'mode': must be 'boolean' or 'vector'"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	err2 := NewValidationError("", "cannot be empty")

	expectedMsg2 := "validation error: cannot be empty"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}
	if !errors.Is(err2, ErrInvalidInput) {
		t.Error("Expected error without field to match ErrInvalidInput sentinel")
	}
}

func TestInvalidIndexError(t *testing.T) {
	tests := []struct {
		name string
		err  *InvalidIndexError
		want string
	}{
		{"term and document", NewInvalidIndexError("lgpd", "Artigo 01", "negative frequency -1"),
			"invalid posting for term 'lgpd' in document 'Artigo 01': negative frequency -1"},
		{"term only", NewInvalidIndexError("lgpd", "", "empty document identifier"),
			"invalid postings for term 'lgpd': empty document identifier"},
		{"index level", NewInvalidIndexError("", "", "empty term"),
			"invalid inverted index: empty term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
			}
			if !errors.Is(tt.err, ErrInvalidIndex) {
				t.Error("Expected error to match ErrInvalidIndex sentinel")
			}
		})
	}
}

func TestInvalidCatalogError(t *testing.T) {
	err := NewInvalidCatalogError(3, "duplicate DocId 'Artigo 02'")

	expectedMsg := "invalid catalog entry at position 3: duplicate DocId 'Artigo 02'"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Error("Expected error to match ErrInvalidCatalog sentinel")
	}
}

func TestErrorChaining(t *testing.T) {
	originalErr := NewCollectionNotFoundError("lgpd")
	wrappedErr := fmt.Errorf("loading snapshot: %w", originalErr)

	if !errors.Is(wrappedErr, ErrCollectionNotFound) {
		t.Error("Expected wrapped error to still match ErrCollectionNotFound sentinel")
	}

	var notFound *CollectionNotFoundError
	if !errors.As(wrappedErr, &notFound) {
		t.Fatal("Expected to be able to unwrap to CollectionNotFoundError")
	}
	if notFound.Name != "lgpd" {
		t.Errorf("Expected collection name 'lgpd', got '%s'", notFound.Name)
	}

	joined := errors.Join(NewInvalidIndexError("x", "", "bad"), errors.New("additional context"))
	if !errors.Is(joined, ErrInvalidIndex) {
		t.Error("Expected joined error to match ErrInvalidIndex sentinel")
	}
}
