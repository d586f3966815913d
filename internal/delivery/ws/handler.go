package ws

import (
	"net/http"
	"strconv"

	"github.com/benmill23/Image-Uploader/internal/ports"
)

// Handler upgrades the connection and parks it in the user's room.
// The server only pushes; inbound frames are drained until disconnect.
func Handler(hub *Hub, auth ports.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		token := r.URL.Query().Get("token")
		userID, err := auth.ValidateToken(r.Context(), token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "ws upgrade failed", http.StatusBadRequest)
			return
		}

		roomID := strconv.Itoa(userID)
		hub.Register(roomID, conn)
		defer hub.Unregister(roomID, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
