package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
)

// DocumentResponse is the full record of one document, as shown in its details view.
type DocumentResponse struct {
	DocumentID string `json:"doc_id"`
	Title      string `json:"title"`
	Authors    string `json:"authors"`
	Abstract   string `json:"abstract"`
}

// GetDocumentHandler returns the title, full author list and abstract of a document.
func (api *API) GetDocumentHandler(c *gin.Context) {
	collection, ok := api.lookupCollection(c)
	if !ok {
		return
	}

	documentID := c.Param("documentId")
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	doc, err := collection.Document(documentID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID, c.Param("name"))
			return
		}
		SendInternalError(c, "get document", err)
		return
	}

	c.JSON(http.StatusOK, DocumentResponse{
		DocumentID: doc.DocumentID,
		Title:      doc.Title,
		Authors:    doc.Authors,
		Abstract:   doc.Abstract,
	})
}
