// internal/handlers/job/job_handler.go
package job

import (
	"context"
	"net/http"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/job"
	"directory-service/internal/middleware"
	"directory-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type JobService interface {
	List(ctx context.Context, filters *job.JobListFilters) (*job.JobListResponse, error)
	Create(ctx context.Context, actor auth.Actor, req *job.CreateJobRequest) (*job.Job, error)
	Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error
}

type JobHandler struct {
	jobService JobService
}

func NewJobHandler(jobService JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// ListJobs returns open postings, newest first
func (h *JobHandler) ListJobs(c *gin.Context) {
	var filters job.JobListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.jobService.List(c.Request.Context(), &filters)
	if err != nil {
		response.ServiceError(c, "failed to list jobs", err)
		return
	}

	response.Success(c, http.StatusOK, "jobs retrieved", result)
}

// CreateJob posts a job (recruiter or admin)
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req job.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.jobService.Create(c.Request.Context(), middleware.MustGetActor(c), &req)
	if err != nil {
		response.ServiceError(c, "failed to create job", err)
		return
	}

	response.Success(c, http.StatusCreated, "job created", created)
}

// DeleteJob removes a posting (its recruiter or admin)
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid job ID", err)
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), id, middleware.MustGetActor(c)); err != nil {
		response.ServiceError(c, "failed to delete job", err)
		return
	}

	response.Success(c, http.StatusOK, "job deleted", nil)
}
