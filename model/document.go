package model

// Document is the metadata record of one abstract in the collection.
// The JSON tags follow the metadata file produced by the indexing process.
// Only DocumentID is used by retrieval; the other fields are for presentation.
type Document struct {
	DocumentID string `json:"DocId"`
	Title      string `json:"Titulo"`
	Authors    string `json:"Autores"`
	Abstract   string `json:"Resumo,omitempty"`
}

// MissingAbstract is shown for documents whose abstract file cannot be found.
const MissingAbstract = "Resumo não disponível."

// HasAbstract reports whether the document carries real abstract text.
func (d Document) HasAbstract() bool {
	return d.Abstract != "" && d.Abstract != MissingAbstract
}

// maxAuthorsLength is the width of the authors column in result listings.
const maxAuthorsLength = 80

// ShortAuthors returns the authors truncated to 80 characters with "..." appended
// when they are longer, as shown in result listings.
func (d Document) ShortAuthors() string {
	runes := []rune(d.Authors)
	if len(runes) > maxAuthorsLength {
		return string(runes[:maxAuthorsLength]) + "..."
	}
	return d.Authors
}
