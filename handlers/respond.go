package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"boosterClubAPI/internal/paymentlink"
	"boosterClubAPI/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const clubNotFound = "Booster club not found"

// maxAdminBodyBytes caps admin JSON bodies. The largest legitimate one is a
// payment settings patch with instructions and two URLs.
const maxAdminBodyBytes = int64(16 << 10)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service failures onto status codes. Anything
// unclassified is logged and reported as a bare 500.
func respondWithServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Invalid request",
			"details": verr.Problems,
		})
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, clubNotFound)
	case errors.Is(err, services.ErrPaymentDisabled):
		respondWithError(w, http.StatusBadRequest, "Payment is not enabled for this club")
	case errors.Is(err, services.ErrNoZelleURL):
		respondWithError(w, http.StatusNotFound, "No Zelle URL configured for this club")
	case errors.Is(err, services.ErrConflict):
		respondWithError(w, http.StatusConflict, "Payment settings were changed by someone else, reload and try again")
	case errors.Is(err, paymentlink.ErrMalformedURL),
		errors.Is(err, paymentlink.ErrInvalidBase64),
		errors.Is(err, paymentlink.ErrInvalidJSON),
		errors.Is(err, paymentlink.ErrSchemaMismatch):
		respondWithError(w, http.StatusBadRequest, "Invalid Zelle link")
	default:
		logger.Errorw("request failed", "op", op, "err", err)
		respondWithError(w, http.StatusInternalServerError, "Server error")
	}
}

// parseClubID treats an id that is not a UUID as one that matches no club.
func parseClubID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody reads a bounded JSON body into dst. It writes the error response
// itself and reports whether the handler should carry on.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxAdminBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
