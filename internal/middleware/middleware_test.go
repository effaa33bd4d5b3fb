package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"streamvault_agent/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Wrap(models.ErrInvalidUsername, "ghost"), http.StatusBadRequest},
		{models.ErrFormNotValidated, http.StatusBadRequest},
		{errors.Wrap(models.ErrInvalidPolicy, "threshold"), http.StatusBadRequest},
		{errors.Wrap(models.ErrNotFound, "Get"), http.StatusNotFound},
		{models.ErrAlreadyInProgress, http.StatusConflict},
		{errors.Wrap(&models.APIError{Status: 500}, "ForceRecording"), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorStatus(tt.err), tt.err.Error())
	}
}

func TestWriteErrorResponse_SetsStatusBeforeBody(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteErrorResponse(rec, r, http.StatusTeapot, "nope")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":null,"error":"nope"}`, rec.Body.String())
}

func TestWriteSuccessMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteSuccessMessage(rec, r, "done")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"message":"done"},"error":""}`, rec.Body.String())
}

func TestConfigureCORS(t *testing.T) {
	h := ConfigureCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), nil)

	r := httptest.NewRequest(http.MethodGet, "/streamers", nil)
	r.Header.Set("Origin", "http://dashboard.local")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, r)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestConfigureCORS_Credentials(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		want    string
	}{
		{name: "explicit origin", origins: []string{"http://dashboard.local"}, want: "true"},
		{name: "wildcard after explicit", origins: []string{"http://dashboard.local", "*"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ConfigureCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}), tt.origins)

			r := httptest.NewRequest(http.MethodGet, "/streamers", nil)
			r.Header.Set("Origin", "http://dashboard.local")
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, r)

			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}
