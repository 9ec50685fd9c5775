package server

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/spacesedan/moodmeter/internal/metrics"
	"github.com/spacesedan/moodmeter/internal/models"
	"github.com/spacesedan/moodmeter/internal/sentiment"
	"github.com/spacesedan/moodmeter/internal/uploads"
)

const (
	endpointUpload = "upload"
	uploadField    = "file"
)

func (s *Server) handleUpload(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, s.config.MaxUploadBytes)

	fh, err := s.uploadedFile(c)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(endpointUpload, "invalid").Inc()
		return err
	}
	if !s.store.Allowed(fh.Filename) {
		metrics.RequestsTotal.WithLabelValues(endpointUpload, "invalid").Inc()
		return badRequest("Invalid file type")
	}

	src, err := fh.Open()
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(endpointUpload, "error").Inc()
		return internalError("Failed to read upload", err)
	}
	defer src.Close()

	upload, err := s.store.Save(fh.Filename, src)
	if errors.Is(err, uploads.ErrInvalidFilename) {
		metrics.RequestsTotal.WithLabelValues(endpointUpload, "invalid").Inc()
		return badRequest("Invalid file name")
	}
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(endpointUpload, "error").Inc()
		return internalError("Failed to store upload", err)
	}
	defer upload.Close()

	start := time.Now()
	summary, err := s.analyzer.AnalyzeLines(req.Context(), upload)
	metrics.AnalysisDuration.WithLabelValues(endpointUpload).Observe(time.Since(start).Seconds())
	if err != nil {
		return s.analysisFailed(upload, err)
	}

	metrics.RequestsTotal.WithLabelValues(endpointUpload, "ok").Inc()
	metrics.LinesScored.WithLabelValues(string(models.LabelPositive)).Add(float64(summary.Positive))
	metrics.LinesScored.WithLabelValues(string(models.LabelNegative)).Add(float64(summary.Negative))
	metrics.LinesScored.WithLabelValues(string(models.LabelNeutral)).Add(float64(summary.Neutral))

	s.journal.Record(models.NewUploadRecord(uuid.NewString(), upload.Name, upload.Size, summary, time.Now()))

	slog.Info("[Server] Analyzed upload",
		slog.String("name", upload.Name),
		slog.Int("total", summary.Total))

	if err := c.JSON(http.StatusOK, summary); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// uploadedFile resolves the multipart file part, mapping every way the
// request can lack a usable file to a client error.
func (s *Server) uploadedFile(c echo.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(uploadField)
	if err == nil {
		if fh.Filename == "" {
			return nil, badRequest("No selected file")
		}
		return fh, nil
	}

	if isBodyTooLarge(err) {
		return nil, &apiError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("File too large (limit %d bytes)", s.config.MaxUploadBytes),
			Cause:   err,
		}
	}

	// Browsers send an empty filename when nothing was picked; net/http files
	// those parts under form values rather than files.
	if form := c.Request().MultipartForm; form != nil {
		if _, ok := form.Value[uploadField]; ok {
			return nil, badRequest("No selected file")
		}
	}
	return nil, badRequest("No file part")
}

func (s *Server) analysisFailed(upload *uploads.StoredUpload, err error) error {
	var readErr *sentiment.ReadError
	if errors.As(err, &readErr) {
		metrics.RequestsTotal.WithLabelValues(endpointUpload, "read_error").Inc()
		return &apiError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Error processing file: " + readErr.Error(),
		}
	}

	metrics.RequestsTotal.WithLabelValues(endpointUpload, "error").Inc()
	return internalError("Error processing file: "+err.Error(), fmt.Errorf("analyzing %s: %w", upload.Name, err))
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func (s *Server) handleUploadedFile(c echo.Context) error {
	path, err := s.store.Path(c.Param("filename"))
	if err != nil {
		return &apiError{Status: http.StatusNotFound, Message: "File not found", Cause: err}
	}
	return c.File(path)
}
