package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/middleware"
	"github.com/hsh-clinic/clinic-backend/internal/response"
	ws "github.com/hsh-clinic/clinic-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AuditStreamHandler relays committed audit entries to connected super
// admins over WebSocket.
type AuditStreamHandler struct {
	rdb        *redis.Client
	upgrader   websocket.Upgrader
	pingPeriod time.Duration
	log        zerolog.Logger
}

// NewAuditStreamHandler creates a new AuditStreamHandler.
func NewAuditStreamHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *AuditStreamHandler {
	return &AuditStreamHandler{
		rdb:        rdb,
		upgrader:   ws.NewUpgrader(allowedOrigins),
		pingPeriod: ws.PingPeriod,
		log:        log.With().Str("component", "audit_stream").Logger(),
	}
}

// Stream godoc
// WS /ws/v1/admin/audit/stream?token=
// Each committed entry is sent as {"event":"audit","entry":{...}}.
// Clients may send {"action":"ping"} and receive {"event":"pong"}.
func (h *AuditStreamHandler) Stream(c *gin.Context) {
	id := middleware.GetIdentity(c)
	if id == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	wsLog := h.log.With().Int("super_admin_id", id.ID).Str("session_id", id.SessionID).Logger()

	channel := config.CacheKey.AuditChannel()
	pubsub := h.rdb.Subscribe(ctx, channel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Audit subscription failed")
		ws.WriteError(conn, "audit stream unavailable")
		return
	}
	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, Channel: channel}); err != nil {
		return
	}
	wsLog.Info().Msg("Super admin attached to audit stream")

	pongs := make(chan struct{}, 1)
	go h.readLoop(conn, cancel, pongs, wsLog)

	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()
	msgs := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			wsLog.Info().Msg("Super admin detached from audit stream")
			return

		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if !json.Valid([]byte(msg.Payload)) {
				wsLog.Warn().Msg("Dropping malformed audit payload")
				continue
			}
			if err := ws.WriteTyped(conn, ws.AuditResponse{Event: ws.EventAudit, Entry: json.RawMessage(msg.Payload)}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}

		case <-pongs:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}

		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop owns every read on conn. It cancels the stream when the client
// goes away.
func (h *AuditStreamHandler) readLoop(conn *websocket.Conn, cancel context.CancelFunc, pongs chan<- struct{}, log zerolog.Logger) {
	defer cancel()
	ws.KeepAlive(conn)

	for {
		var req ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch req.Action {
		case ws.ActionPing:
			select {
			case pongs <- struct{}{}:
			default:
			}
		default:
			log.Debug().Str("action", string(req.Action)).Msg("Ignoring unknown action")
		}
	}
}
