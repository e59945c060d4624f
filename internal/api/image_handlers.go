package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/litswap/litswap-server/internal/http/response"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadBookImage",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/image",
		Summary:     "Upload book photo",
		Description: "Replaces the photo for a listing. Only the owner can upload. The image is stored on disk and a BlurHash placeholder is computed.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadBookImage)

	// Image bytes are streamed over a plain chi route; huma envelopes
	// would wrap them in JSON.
	s.router.Get("/api/v1/books/{id}/image", s.handleServeBookImage)
}

// === DTOs ===

// UploadBookImageInput carries the raw image bytes for a listing photo.
type UploadBookImageInput struct {
	ID      string `path:"id" doc:"Book ID"`
	RawBody []byte `contentType:"application/octet-stream"`
}

// === Handlers ===

func (s *Server) handleUploadBookImage(ctx context.Context, input *UploadBookImageInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if len(input.RawBody) == 0 {
		return nil, huma.Error400BadRequest("Image data is required")
	}
	if len(input.RawBody) > MaxUploadSize {
		return nil, huma.NewError(http.StatusRequestEntityTooLarge, "Image exceeds maximum upload size")
	}

	book, err := s.services.Book.UploadImage(ctx, input.ID, userID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleServeBookImage(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	if _, err := GetUserID(r.Context()); err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	data, hash, err := s.services.Book.GetImage(r.Context(), bookID)
	if err != nil {
		response.NotFound(w, "Book photo not found", s.logger)
		return
	}

	etag := `"` + hash + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", CacheOneDay)
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if _, err := w.Write(data); err != nil {
		s.logger.Warn("Failed to write image response", "book_id", bookID, "error", err)
	}
}
