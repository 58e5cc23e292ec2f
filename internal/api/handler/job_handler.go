package handler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/job"
	"staffhub/pkg/response"
)

// JobRunner 手动触发任务所需的能力
type JobRunner interface {
	Run(ctx context.Context, name string, out io.Writer) (job.Result, error)
	Registry() *job.Registry
}

// JobHandler 周期任务管理 HTTP 处理器
type JobHandler struct {
	runner JobRunner
}

// NewJobHandler 创建 JobHandler
func NewJobHandler(runner JobRunner) *JobHandler {
	return &JobHandler{runner: runner}
}

// List 已注册任务
// GET /api/v1/admin/jobs
func (h *JobHandler) List(c *gin.Context) {
	jobs := h.runner.Registry().List()
	list := make([]dto.JobInfoResponse, 0, len(jobs))
	for _, j := range jobs {
		list = append(list, dto.JobInfoResponse{Name: j.Name(), Description: j.Description()})
	}

	response.OK(c, gin.H{"list": list})
}

// Run 立即执行一次任务，返回进度输出
// POST /api/v1/admin/jobs/:name/run
func (h *JobHandler) Run(c *gin.Context) {
	name := c.Param("name")

	var out bytes.Buffer
	result, err := h.runner.Run(c.Request.Context(), name, &out)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, dto.JobRunResponse{
		Job:      name,
		Affected: result.Affected,
		Status:   result.Status,
		Output:   splitLines(out.String()),
	})
}

func splitLines(s string) []string {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(bytes.NewBufferString(s))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func (h *JobHandler) handleJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, job.ErrJobNotFound):
		response.NotFound(c, 19001, "任务不存在")
	case errors.Is(err, job.ErrJobRunning):
		response.Conflict(c, 19002, "任务正在运行")
	default:
		// 仅管理员可触发，附带错误详情便于排查
		response.ErrorWithDetails(c, http.StatusInternalServerError, 19003, "任务执行失败", err.Error())
	}
}
