package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/corray333/bookstore/internal/identity"
	"github.com/corray333/bookstore/internal/orders/service/models/book"
	"github.com/go-chi/chi/v5"
)

type bookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

func (h *HTTPTransport) createBook(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Author == "" || req.Price == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")

		return
	}

	b, err := h.service.CreateBook(r.Context(), caller, book.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"book": b})
}

func (h *HTTPTransport) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Book not found")

		return
	}

	b, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"book": b})
}

func (h *HTTPTransport) updateBook(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Book not found")

		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Author == "" || req.Price == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")

		return
	}

	b, err := h.service.UpdateBook(r.Context(), caller, book.Book{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"book": b})
}

func (h *HTTPTransport) deleteBook(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Book not found")

		return
	}

	if err := h.service.DeleteBook(r.Context(), caller, id); err != nil {
		writeServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}
