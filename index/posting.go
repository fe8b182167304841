package index

// PostingList maps a document identifier to the raw frequency of a term in that document.
// Every stored frequency is at least 1; a document without the term is simply absent.
type PostingList map[string]int

// Frequency returns the term frequency for docID, or 0 if the term does not occur there.
func (pl PostingList) Frequency(docID string) int {
	return pl[docID]
}

// DocIDs returns the set of documents containing the term.
// The returned set is a fresh copy and may be modified by the caller.
func (pl PostingList) DocIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(pl))
	for id := range pl {
		ids[id] = struct{}{}
	}
	return ids
}

// Total returns the sum of the term's frequencies over all documents.
func (pl PostingList) Total() int {
	total := 0
	for _, freq := range pl {
		total += freq
	}
	return total
}
