package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows credentialed requests from any origin when allowed is empty.
func Cors(allowed []string) Middleware {
	options := cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(allowed) == 0 {
		options.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		options.AllowedOrigins = allowed
	}
	return cors.New(options).Handler
}
