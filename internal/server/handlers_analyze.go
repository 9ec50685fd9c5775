package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/moodmeter/internal/metrics"
	"github.com/spacesedan/moodmeter/internal/models"
)

const endpointAnalyze = "analyze"

func (s *Server) handleAnalyze(c echo.Context) error {
	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		metrics.RequestsTotal.WithLabelValues(endpointAnalyze, "invalid").Inc()
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code == http.StatusUnsupportedMediaType {
			return &apiError{Status: http.StatusUnsupportedMediaType, Message: "Expected a JSON body", Cause: err}
		}
		return &apiError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Cause: err}
	}

	start := time.Now()
	result, err := s.analyzer.AnalyzeComment(c.Request().Context(), req.Comment)
	metrics.AnalysisDuration.WithLabelValues(endpointAnalyze).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(endpointAnalyze, "error").Inc()
		return internalError("Error analyzing comment", err)
	}

	metrics.RequestsTotal.WithLabelValues(endpointAnalyze, "ok").Inc()
	metrics.LinesScored.WithLabelValues(string(result.Sentiment)).Inc()

	if err := c.JSON(http.StatusOK, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
