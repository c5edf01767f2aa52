package httptransport

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/bookstore/internal/catalog/service/models/book"
	"github.com/corray333/bookstore/internal/catalog/service/services/catalogsvc"
	"github.com/corray333/bookstore/internal/identity"
	"github.com/go-chi/chi/v5"
)

func (h *HTTPTransport) getCatalog(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.GetCatalog(r.Context())
	if err != nil {
		slog.Error("Error getting catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	writeBooks(w, books)
}

func (h *HTTPTransport) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "Query parameter required")

		return
	}

	books, err := h.service.Search(r.Context(), q)
	if err != nil {
		slog.Error("Error searching catalog", "query", q, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	writeBooks(w, books)
}

func (h *HTTPTransport) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid book id")

		return
	}

	b, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogsvc.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "Book not found")

			return
		}
		slog.Error("Error getting book", "book_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"book": b})
}

func (h *HTTPTransport) availableBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.AvailableBooks(r.Context())
	if err != nil {
		slog.Error("Error getting available books", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	writeBooks(w, books)
}

func (h *HTTPTransport) booksBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid seller id")

		return
	}

	books, err := h.service.BooksBySeller(r.Context(), sellerID)
	if err != nil {
		slog.Error("Error getting seller books", "seller_id", sellerID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	if books == nil {
		books = []book.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"books":     books,
		"seller_id": sellerID,
		"total":     len(books),
	})
}

func (h *HTTPTransport) myBooks(w http.ResponseWriter, r *http.Request) {
	principal, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	books, err := h.service.BooksBySeller(r.Context(), principal.ID)
	if err != nil {
		slog.Error("Error getting own books", "user_id", principal.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	writeBooks(w, books)
}

func writeBooks(w http.ResponseWriter, books []book.Book) {
	if books == nil {
		books = []book.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"books": books,
		"total": len(books),
	})
}
