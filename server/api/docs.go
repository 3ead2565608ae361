package api

import (
	"log/slog"
	"net/http"
)

// Docs serves the interactive API documentation.
func (h *handler) Docs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Templates().ExecuteTemplate(w, "docs.gohtml", nil); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render docs", slog.Any("err", err))
	}
}

func (h *handler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	data, err := h.OpenAPI()
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load openapi spec", slog.Any("err", err))
		h.respondDetail(w, r, http.StatusInternalServerError, "Internal server error.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
