package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/abstract-retrieval/config"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/model"
)

// LoadCollectionRequest names a collection and the source directory to read it from.
// Dir is relative to the server's source root.
type LoadCollectionRequest struct {
	Name           string   `json:"name"`
	Dir            string   `json:"dir"`
	CollectionSize int      `json:"collection_size"`
	StopWords      []string `json:"stop_words,omitempty"`
}

// JobAcceptedResponse is returned when a background job has been queued.
type JobAcceptedResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	StatusURL string `json:"status_url"`
}

// LoadCollectionHandler queues a job that loads a collection from the source root.
// Request Body: LoadCollectionRequest
func (api *API) LoadCollectionHandler(c *gin.Context) {
	if api.sourceRoot == "" {
		SendError(c, http.StatusConflict, ErrorCodeLoadingDisabled,
			"Loading collections over HTTP is disabled: no source root configured")
		return
	}

	var req LoadCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateLoadCollectionRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if _, err := api.engine.GetCollection(req.Name); err == nil {
		SendError(c, http.StatusConflict, ErrorCodeCollectionExists,
			"Collection '"+req.Name+"' is already loaded")
		return
	}

	settings := config.CollectionSettings{
		Name:           req.Name,
		CollectionSize: req.CollectionSize,
		StopWords:      req.StopWords,
	}
	dir := filepath.Join(api.sourceRoot, req.Dir)
	api.startJob(c, model.JobTypeLoadCollection, req.Name, map[string]string{"dir": req.Dir},
		func(ctx context.Context) error {
			return api.engine.LoadCollectionContext(ctx, settings, dir)
		})
}

// GetJobHandler returns the status of one job.
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")
	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "get job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs, optionally filtered by ?collection= and ?status=.
func (api *API) ListJobsHandler(c *gin.Context) {
	var status *model.JobStatus
	if s := c.Query("status"); s != "" {
		js := model.JobStatus(strings.ToLower(s))
		status = &js
	}
	list := api.jobs.ListJobs(c.Query("collection"), status)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  list,
		"total": len(list),
	})
}

// startJob creates and runs a job, answering 202 with its ID.
func (api *API) startJob(c *gin.Context, jobType model.JobType, collection string, metadata map[string]string, fn func(ctx context.Context) error) {
	jobID := api.jobs.CreateJob(jobType, collection, metadata)
	if err := api.jobs.ExecuteJob(jobID, fn); err != nil {
		SendError(c, http.StatusServiceUnavailable, ErrorCodeJobRejected, err.Error())
		return
	}
	c.JSON(http.StatusAccepted, JobAcceptedResponse{
		JobID:     jobID,
		Status:    string(model.JobStatusPending),
		StatusURL: "/jobs/" + jobID,
	})
}

// onJobFinished records job metrics and refreshes collection gauges after a load.
func (api *API) onJobFinished(job model.Job) {
	if api.metrics == nil {
		return
	}
	api.metrics.ObserveJob(job)
	if job.Type == model.JobTypeLoadCollection && job.Status == model.JobStatusCompleted {
		api.PublishCollectionMetrics()
	}
}
