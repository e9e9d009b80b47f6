package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/pipeline"
)

// handleProcessFile accepts a multipart upload and runs the pipeline to
// completion. Progress is observed separately via /api/progress/:jobId,
// which callers may subscribe to before submitting by supplying their
// own jobId form field.
func (s *Server) handleProcessFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}
	if file.Size > s.cfg.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error":   fmt.Sprintf("File too large: %d bytes exceeds the %d byte limit", file.Size, s.cfg.MaxUploadSize),
		})
		return
	}

	jobID := c.PostForm("jobId")
	if jobID == "" {
		jobID = uuid.New().String()
	}

	var metadata map[string]any
	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid metadata JSON"})
			return
		}
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "upload dir unavailable"})
		return
	}
	dst := filepath.Join(s.cfg.UploadDir, jobID+"_"+filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to store upload"})
		return
	}
	defer func() {
		if rmErr := os.Remove(dst); rmErr != nil {
			s.logger.Warn("http.upload_cleanup_failed", "path", dst, "error", rmErr)
		}
	}()

	doc, err := s.orch.Process(c.Request.Context(), pipeline.Request{
		JobID:     jobID,
		Path:      dst,
		Filename:  file.Filename,
		MediaType: file.Header.Get("Content-Type"),
		Metadata:  metadata,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "jobId": jobID, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "jobId": jobID, "extractedData": doc})
}

// handleProgress streams a job's progress events over SSE until the
// client disconnects. The subscription is removed on disconnect so
// listeners never accumulate.
func (s *Server) handleProgress(c *gin.Context) {
	jobID := c.Param("jobId")

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	sub := s.broadcast.Subscribe(jobID)
	defer s.broadcast.Unsubscribe(sub)

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("message", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) handleListJobs(c *gin.Context) {
	list, err := s.registry.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, j := range list {
		out = append(out, gin.H{
			"id":        j.ID,
			"filename":  j.Filename,
			"status":    j.Status,
			"createdAt": j.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetJob(c *gin.Context) {
	job, ok, err := s.registry.Get(c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// handleReport renders the XLSX title report for a completed job.
func (s *Server) handleReport(c *gin.Context) {
	job, ok, err := s.registry.Get(c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok || job.Result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	b, err := s.reports.BuildXLSX(job.Result, job.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	name := fmt.Sprintf("Title-Report-%.8s.xlsx", job.ID)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"service":    "TitleGrab API",
		"formats":    []constants.Format{constants.PDF, constants.IMAGE, constants.WORD, constants.HTML, constants.TEXT},
		"activeJobs": s.registry.Count(),
	})
}
