package handler

import (
	"errors"
	"net/http"

	"salesdesk-be/internal/apperr"
	"salesdesk-be/internal/logger"
	"salesdesk-be/internal/utils"

	"go.uber.org/zap"
)

const msgInternal = "Internal server error"

var success = map[string]bool{"success": true}

// writeError maps domain errors to status codes. Anything untyped is logged
// and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *apperr.ValidationError
		stock      *apperr.InsufficientStockError
		notFound   *apperr.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		utils.WriteJSONError(w, validation.Message, http.StatusBadRequest)
	case errors.As(err, &stock):
		utils.WriteJSONError(w, stock.Error(), http.StatusBadRequest)
	case errors.As(err, &notFound):
		utils.WriteJSONError(w, notFound.Error(), http.StatusNotFound)
	default:
		logger.FromCtx(r.Context()).Error("unhandled error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, msgInternal, http.StatusInternalServerError)
	}
}

func badBody(w http.ResponseWriter) {
	utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
}

// noStore keeps intermediaries from caching order mutations.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, max-age=0")
}
