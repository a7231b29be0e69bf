package config

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket restricts upgrades to WS_ALLOWED_ORIGINS (comma separated
// hosts, "*" for any). Without it only same-host requests are accepted.
func NewWebSocket() *WebSocket {
	origins := envList("WS_ALLOWED_ORIGINS")

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(origins, "*") {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			if len(origins) == 0 {
				return strings.EqualFold(u.Host, r.Host)
			}
			return slices.Contains(origins, u.Host)
		},
	}

	return &WebSocket{Upgrader: upgrader}
}
