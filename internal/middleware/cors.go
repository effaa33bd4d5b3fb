package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// Configure CORS and wrap handler with CORS middleware
func ConfigureCORS(handler http.Handler, allowedOrigins []string) http.Handler {

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	corsConfig := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
		MaxAge:           300,
	})

	return corsConfig.Handler(handler)
}
