// Live telemetry streaming over a websocket connection, using
// gorilla/websocket the way the teacher's go.mod declares it: upgrade once,
// then push one JSON telemetry.Snapshot every streamPollInterval
// (independent of the tick cadence) until the client disconnects or the
// miner is deleted.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/asicfleet/simulator/internal/fleet"
)

const streamPollInterval = 500 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleStream upgrades to a websocket and streams telemetry snapshots for
// one miner at a fixed poll interval until the miner is deleted or the
// client goes away.
func (s *Server) handleStream(c *gin.Context) {
	id := c.Param("id")

	if _, err := s.rt.Snapshot(id); err != nil {
		writeError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("stream upgrade failed", "miner_id", id, "error", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			snap, err := s.rt.Snapshot(id)
			if err != nil {
				if errors.Is(err, fleet.ErrNotFound) {
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "miner deleted"),
						time.Now().Add(time.Second))
				}
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		}
	}
}
