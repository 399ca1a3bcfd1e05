package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// searchService defines the minimal interface needed by SearchHandler.
type searchService interface {
	Search(ctx context.Context, query string) (domain.SearchResult, error)
}

// SearchHandler serves GET /search?q=...
type SearchHandler struct {
	svc searchService
	log *slog.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(svc searchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, log: logger.With("handler", "search")}
}

type filterResponse struct {
	Type     string `json:"type"`
	Query    string `json:"query"`
	Verified bool   `json:"verified"`
	Token    string `json:"token"`
	// RemoveQuery is the encoded query string for the same search without
	// this filter. Empty when this is the only filter.
	RemoveQuery string `json:"removeQuery,omitempty"`
}

type entryResponse struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Rank       string `json:"rank"`
}

type failureResponse struct {
	Stage   string `json:"stage"`
	Filter  string `json:"filter,omitempty"`
	EntryID string `json:"entryId,omitempty"`
	Error   string `json:"error"`
}

type searchResponse struct {
	Query    string            `json:"query"`
	Filters  []filterResponse  `json:"filters"`
	Entries  []entryResponse   `json:"entries"`
	Partial  bool              `json:"partial"`
	Failures []failureResponse `json:"failures"`
}

// Search resolves the q parameter. A missing q is an empty query and yields
// an empty result.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	result, err := h.svc.Search(r.Context(), query)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if result.Partial() {
		h.log.WarnContext(r.Context(), "partial search result",
			slog.String("query", query),
			slog.Int("failures", len(result.Failures)),
		)
	}

	writeJSON(w, http.StatusOK, toSearchResponse(query, result))
}

func (h *SearchHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid query", Fields: verr.Errors})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toSearchResponse(query string, result domain.SearchResult) searchResponse {
	filters := result.Filters.Slice()
	resp := searchResponse{
		Query:    query,
		Filters:  make([]filterResponse, 0, len(filters)),
		Entries:  make([]entryResponse, 0, len(result.Entries)),
		Partial:  result.Partial(),
		Failures: make([]failureResponse, 0, len(result.Failures)),
	}

	for _, f := range filters {
		fr := filterResponse{
			Type:     strings.ToLower(f.Type.String()),
			Query:    f.Query,
			Verified: f.Verified,
			Token:    f.String(),
		}
		if remaining, ok := result.Filters.RemovalQuery(f, " "); ok {
			fr.RemoveQuery = url.Values{"q": {remaining}}.Encode()
		}
		resp.Filters = append(resp.Filters, fr)
	}

	for _, e := range result.Entries.Slice() {
		resp.Entries = append(resp.Entries, entryResponse{
			ID:         e.ID.String(),
			Term:       e.Term,
			Definition: e.Definition,
			Rank:       e.Rank,
		})
	}

	for _, f := range result.Failures {
		fr := failureResponse{Stage: f.Stage, Error: failureMessage(f.Err)}
		if f.Filter.Type != "" {
			fr.Filter = f.Filter.String()
		}
		if f.Stage == domain.StageAssemble {
			fr.EntryID = f.EntryID.String()
		}
		resp.Failures = append(resp.Failures, fr)
	}

	return resp
}

// failureMessage keeps storage internals out of API responses.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid input"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "lookup timed out"
	default:
		return "storage unavailable"
	}
}
