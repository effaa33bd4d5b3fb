package middleware

import (
	"net/http"
	"time"

	"streamvault_agent/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Response struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsoniter.NewEncoder(w).Encode(resp)
}

func WriteSuccessData(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Data: data})
}

func WriteSuccessMessage(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, http.StatusOK, Response{Data: MessageResponse{Message: message}})
}

func WriteErrorResponse(w http.ResponseWriter, r *http.Request, errCode int, err string) {
	writeJSON(w, errCode, Response{Error: err})
}

// WriteError answers with the status matching err and logs server side failures.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		logrus.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		logrus.Debugf("%s %s: %v", r.Method, r.URL.Path, err)
	}

	WriteErrorResponse(w, r, status, err.Error())
}

func ErrorStatus(err error) int {
	cause := errors.Cause(err)

	switch cause {
	case models.ErrInvalidUsername, models.ErrFormNotValidated, models.ErrInvalidPolicy:
		return http.StatusBadRequest
	case models.ErrNotFound:
		return http.StatusNotFound
	case models.ErrAlreadyInProgress:
		return http.StatusConflict
	}

	if _, ok := cause.(*models.APIError); ok {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("request served")
	})
}
