// Package middleware holds the gin middleware the host mounts in front of
// its REST surface.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig scopes cross-origin access to the browser shell.
type CORSConfig struct {
	ShellOrigins []string
	MaxAge       time.Duration
}

// DefaultCORSConfig admits the shell's usual dev servers.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		ShellOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
		MaxAge: 12 * time.Hour,
	}
}

// CORS allows the shell's origins across the REST surface. Methods and
// headers are fixed to what the host actually serves; the WebSocket upgrade
// is not subject to CORS and its origin check lives with the relay.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: cfg.ShellOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Accept", "Origin", "Cache-Control"},
		MaxAge:       cfg.MaxAge,
	})
}
