package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"` // "boolean" or "vector"; empty means boolean
}

// SearchHandler handles search requests to a collection.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()

	collection, ok := api.lookupCollection(c)
	if !ok {
		return
	}
	name := c.Param("name")

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	mode, result := ValidateSearchRequest(&req)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := collection.Search(services.SearchQuery{QueryString: req.Query, Mode: mode})
	if api.metrics != nil {
		api.metrics.ObserveSearch(name, string(mode), results.Total, time.Since(startTime), err)
	}
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
			return
		}
		SendSearchError(c, name, err)
		return
	}

	if err := api.analytics.TrackSearchEvent(model.SearchEvent{
		Collection:   name,
		Query:        req.Query,
		Mode:         string(mode),
		ResponseTime: time.Since(startTime),
		ResultCount:  results.Total,
	}); err != nil {
		slog.Warn("Failed to track search event", "collection", name, "error", err)
	}

	c.JSON(http.StatusOK, results)
}
