package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/autherr"
)

var codeStatus = map[autherr.Code]int{
	autherr.InvalidEmail:      http.StatusBadRequest,
	autherr.WeakPassword:      http.StatusBadRequest,
	autherr.InvalidArgument:   http.StatusBadRequest,
	autherr.WrongPassword:     http.StatusUnauthorized,
	autherr.InvalidToken:      http.StatusUnauthorized,
	autherr.UserDisabled:      http.StatusForbidden,
	autherr.UserNotFound:      http.StatusNotFound,
	autherr.EmailAlreadyInUse: http.StatusConflict,
	autherr.IDAlreadyInUse:    http.StatusConflict,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as a provider error body. Errors without a provider
// code are logged and reported as internal.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var aerr *autherr.Error
	if errors.As(err, &aerr) {
		status, ok := codeStatus[aerr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, aerr)
		return
	}
	if log != nil {
		log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, http.StatusInternalServerError, autherr.New(autherr.Internal, "internal error"))
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, autherr.New(autherr.InvalidArgument, msg))
}
