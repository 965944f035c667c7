package http

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seabook/divelog/services/api/db"
	"github.com/seabook/divelog/services/api/importer"
)

const importTimeout = 300 * time.Second

// handleImport accepts a multipart CSV upload and runs the import pipeline
// synchronously. Progress can be polled on a separate connection using the
// returned run_id.
func (s *Server) handleImport(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, importTimeout)
	defer cancel()

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	runID := importParam(c, "run_id")
	if runID == "" {
		runID = uuid.NewString()
	} else if _, err := uuid.Parse(runID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_id must be a UUID"})
		return
	}

	// Geocoding is on unless the caller turns it off.
	opts := importer.Options{RunID: runID, Geocode: true}
	if v := importParam(c, "geocode"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "geocode must be a boolean"})
			return
		}
		opts.Geocode = b
	}
	if v := importParam(c, "dry_run"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dry_run must be a boolean"})
			return
		}
		opts.DryRun = b
	}

	tmp, err := os.CreateTemp("", "divelog-import-*.csv")
	if err != nil {
		s.log.Error("create temp file failed", "run_id", runID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded file"})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		s.log.Error("save upload failed", "run_id", runID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded file"})
		return
	}

	report, err := s.importer.Run(ctx, tmpPath, opts)
	if err != nil {
		s.log.Error("import run failed", "run_id", runID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"run_id": runID,
			"report": report,
			"error":  "import failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": runID,
		"report": report,
	})
}

// importParam reads an import option from the multipart form, falling back to
// the query string.
func importParam(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}

func (s *Server) handleImportProgress(c *gin.Context) {
	runID := c.Param("run_id")
	if _, err := uuid.Parse(runID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_id must be a UUID"})
		return
	}

	c.JSON(http.StatusOK, s.progress.Snapshot(runID))
}

func (s *Server) handleExport(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, importTimeout)
	defer cancel()

	dives, err := s.store.ListDives(ctx, db.DiveQuery{})
	if err != nil {
		s.log.Error("export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export dives"})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="dives.csv"`)
	c.Status(http.StatusOK)
	if err := importer.WriteCSV(c.Writer, dives); err != nil {
		s.log.Error("export write failed", "error", err)
	}
}
