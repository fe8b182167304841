package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/abstract-retrieval/internal/analytics"
	"github.com/gcbaptista/abstract-retrieval/internal/engine"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/internal/jobs"
	"github.com/gcbaptista/abstract-retrieval/internal/metrics"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/services"
)

const defaultJobWorkers = 2

// API holds dependencies for API handlers, primarily the collection manager.
type API struct {
	engine      services.CollectionManager
	analytics   *analytics.Service
	metrics     *metrics.Metrics
	metricsPath string
	jobs        *jobs.Manager
	jobWorkers  int
	sourceRoot  string
}

// Option customizes an API.
type Option func(*API)

// WithAnalytics replaces the default in-memory analytics service.
func WithAnalytics(service *analytics.Service) Option {
	return func(api *API) {
		api.analytics = service
	}
}

// WithMetrics enables Prometheus instrumentation and serves the scrape endpoint at path.
func WithMetrics(m *metrics.Metrics, path string) Option {
	return func(api *API) {
		api.metrics = m
		api.metricsPath = path
	}
}

// WithSourceRoot enables loading collections over HTTP from directories under root.
func WithSourceRoot(root string) Option {
	return func(api *API) {
		api.sourceRoot = root
	}
}

// WithJobWorkers bounds how many background jobs run at once.
func WithJobWorkers(n int) Option {
	return func(api *API) {
		api.jobWorkers = n
	}
}

// NewAPI creates a new API handler structure and starts its job manager.
// Call Close to stop it.
func NewAPI(manager services.CollectionManager, opts ...Option) *API {
	api := &API{engine: manager, jobWorkers: defaultJobWorkers}
	for _, opt := range opts {
		opt(api)
	}
	if api.analytics == nil {
		api.analytics = analytics.NewService(manager)
	}
	api.jobs = jobs.NewManager(api.jobWorkers, api.onJobFinished)
	api.jobs.Start()
	api.PublishCollectionMetrics()
	return api
}

// Close cancels running jobs and waits for them to return.
func (api *API) Close() {
	api.jobs.Stop()
}

// SetupRoutes defines all the API routes of the retrieval service.
func SetupRoutes(router *gin.Engine, api *API) {
	router.Use(RequestIDMiddleware())
	if api.metrics != nil {
		router.Use(MetricsMiddleware(api.metrics))
		router.GET(api.metricsPath, gin.WrapH(api.metrics.Handler()))
	}

	// Health check route
	router.GET("/health", api.HealthCheckHandler)

	// Analytics route
	router.GET("/analytics", api.GetAnalyticsHandler)

	// Collection routes
	collectionRoutes := router.Group("/collections")
	{
		collectionRoutes.GET("", api.ListCollectionsHandler)
		collectionRoutes.POST("", api.LoadCollectionHandler)
		collectionRoutes.GET("/:name", api.GetCollectionHandler)
		collectionRoutes.DELETE("/:name", api.DeleteCollectionHandler)
		collectionRoutes.POST("/:name/persist", api.PersistCollectionHandler)
		collectionRoutes.GET("/:name/stats", api.GetCollectionStatsHandler)
		collectionRoutes.GET("/:name/documents/:documentId", api.GetDocumentHandler)

		// Search route per collection
		collectionRoutes.POST("/:name/_search", api.SearchHandler)
	}

	// Job routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", api.ListJobsHandler)
		jobRoutes.GET("/:jobId", api.GetJobHandler)
	}
}

// PublishCollectionMetrics sets the size gauges of every loaded collection.
func (api *API) PublishCollectionMetrics() {
	if api.metrics == nil {
		return
	}
	for _, name := range api.engine.ListCollections() {
		if c, err := api.engine.GetCollection(name); err == nil {
			stats := c.Stats()
			api.metrics.SetCollection(name, stats.DocumentCount, stats.TermCount)
		}
	}
}

// ListCollectionsHandler lists all loaded collections.
func (api *API) ListCollectionsHandler(c *gin.Context) {
	names := api.engine.ListCollections()
	c.JSON(http.StatusOK, gin.H{
		"collections": names,
		"total":       len(names),
	})
}

// GetCollectionHandler returns the settings and size of one collection.
func (api *API) GetCollectionHandler(c *gin.Context) {
	collection, ok := api.lookupCollection(c)
	if !ok {
		return
	}

	stats := collection.Stats()
	c.JSON(http.StatusOK, gin.H{
		"name":            stats.Name,
		"settings":        collection.Settings(),
		"collection_size": stats.CollectionSize,
		"document_count":  stats.DocumentCount,
		"term_count":      stats.TermCount,
	})
}

// GetCollectionStatsHandler returns term and document statistics of one collection.
func (api *API) GetCollectionStatsHandler(c *gin.Context) {
	collection, ok := api.lookupCollection(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, collection.Stats())
}

// DeleteCollectionHandler unloads a collection and removes its snapshot.
func (api *API) DeleteCollectionHandler(c *gin.Context) {
	name := c.Param("name")
	if result := ValidateCollectionName(name); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.DeleteCollection(name); err != nil {
		if errors.Is(err, internalErrors.ErrCollectionNotFound) {
			SendCollectionNotFoundError(c, name)
			return
		}
		SendInternalError(c, "delete collection", err)
		return
	}
	if api.metrics != nil {
		api.metrics.DeleteCollection(name)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collection '" + name + "' deleted"})
}

// PersistCollectionHandler writes a snapshot of a collection to the data directory.
// With ?async=true the snapshot is written by a background job.
func (api *API) PersistCollectionHandler(c *gin.Context) {
	name := c.Param("name")
	if result := ValidateCollectionName(name); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if c.Query("async") == "true" {
		if _, ok := api.lookupCollection(c); !ok {
			return
		}
		api.startJob(c, model.JobTypePersistCollection, name, nil, func(ctx context.Context) error {
			return api.engine.PersistCollection(name)
		})
		return
	}

	if err := api.engine.PersistCollection(name); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrCollectionNotFound):
			SendCollectionNotFoundError(c, name)
		case errors.Is(err, engine.ErrPersistenceDisabled):
			SendError(c, http.StatusConflict, ErrorCodePersistenceDisabled, err.Error())
		default:
			SendPersistenceError(c, name, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collection '" + name + "' persisted"})
}

// lookupCollection validates the :name parameter and resolves the collection,
// writing the error response itself when it fails.
func (api *API) lookupCollection(c *gin.Context) (services.CollectionAccessor, bool) {
	name := c.Param("name")
	if result := ValidateCollectionName(name); result.HasErrors() {
		SendValidationError(c, result)
		return nil, false
	}

	collection, err := api.engine.GetCollection(name)
	if err != nil {
		if errors.Is(err, internalErrors.ErrCollectionNotFound) {
			SendCollectionNotFoundError(c, name)
			return nil, false
		}
		SendInternalError(c, "get collection", err)
		return nil, false
	}
	return collection, true
}
