package socket

import (
	"context"
	"log"
	"sync"

	"paircall_server/models"
	"paircall_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO server that pushes match
// notifications. A queued client emits "waitMatch" with its userId and
// receives a single "matchFound" event when a match naming it appears.
func NewSocketServer(listener *services.MatchListener) *socketio.Server {
	server := socketio.NewServer(nil)

	// stop functions for the per-connection match listeners
	var mu sync.Mutex
	stops := make(map[string]func())

	stopListener := func(connID string) {
		mu.Lock()
		stop := stops[connID]
		delete(stops, connID)
		mu.Unlock()
		if stop != nil {
			stop()
		}
	}

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "waitMatch", func(c socketio.Conn, data map[string]string) {
		userID := data["userId"]
		if userID == "" {
			log.Println("❌ Invalid userId in waitMatch request")
			return
		}
		log.Printf("👥 User %s waiting for a match on socket %s", userID, c.ID())

		// Replace any earlier listener for this connection.
		stopListener(c.ID())

		connID := c.ID()
		stop := listener.ListenForMatch(context.Background(), userID, func(match models.Match) {
			log.Printf("🎉 Notifying %s of match %s", userID, match.MatchID)
			c.Emit("matchFound", match)
			mu.Lock()
			delete(stops, connID)
			mu.Unlock()
		})

		mu.Lock()
		stops[connID] = stop
		mu.Unlock()
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("⚠️ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
		stopListener(c.ID())
	})

	return server
}
