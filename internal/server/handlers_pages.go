package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleIndex(c echo.Context) error {
	data := map[string]any{
		"MaxCommentChars": s.config.MaxCommentChars,
		"MaxUploadBytes":  s.config.MaxUploadBytes,
	}
	return s.renderTemplate(c, "index.html", data)
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("[Server] Template execution failed",
			slog.String("path", c.Request().URL.Path),
			slog.String("error", err.Error()))
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
