package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ironcrest/proctor-backend/internal/middleware"
	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/response"
	"github.com/ironcrest/proctor-backend/internal/service"
	ws "github.com/ironcrest/proctor-backend/internal/websocket"
	"github.com/rs/zerolog"
)

const wsOpTimeout = 10 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ProctorWSHandler carries the proctoring channel: heartbeats, violation
// reports and submission over a single WebSocket.
type ProctorWSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewProctorWSHandler creates a new ProctorWSHandler.
func NewProctorWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *ProctorWSHandler {
	return &ProctorWSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "proctor_ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// ProctorStream godoc
// WS /ws/v1/candidates/:id/proctor?token=
// The stream closes after a violation or a successful submit.
func (h *ProctorWSHandler) ProctorStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	candidateID := c.Param("id")
	identity := claims.Identity()
	if !identity.Owns(candidateID) {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("candidate_id", candidateID).Logger()
	wsLog.Info().Msg("Candidate connected")

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		case ws.ActionViolation:
			if h.handleViolation(conn, wsLog, identity, candidateID, msg.Kind) {
				return
			}
		case ws.ActionSubmit:
			if h.handleSubmit(conn, wsLog, identity, candidateID, msg.Answers) {
				return
			}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			_ = ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
		}
	}
}

// handleViolation terminates the attempt. It reports whether the stream is done.
func (h *ProctorWSHandler) handleViolation(conn *websocket.Conn, wsLog zerolog.Logger, identity model.Identity, candidateID, kind string) bool {
	kind = model.NormalizeViolationKind(kind)

	ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
	defer cancel()

	if err := h.sessionService.Terminate(ctx, identity, candidateID, kind); err != nil {
		h.writeServiceError(conn, wsLog, err)
		_, code := classify(err)
		return code != response.ErrInternal
	}

	_ = ws.WriteTyped(conn, ws.TerminatedResponse{
		Event:  ws.EventTerminated,
		Status: model.StatusTerminated,
		Reason: kind,
	})
	return true
}

// handleSubmit scores the answers. It reports whether the stream is done.
func (h *ProctorWSHandler) handleSubmit(conn *websocket.Conn, wsLog zerolog.Logger, identity model.Identity, candidateID string, answers map[string]model.Answer) bool {
	ctx, cancel := context.WithTimeout(context.Background(), wsOpTimeout)
	defer cancel()

	result, err := h.sessionService.Submit(ctx, identity, candidateID, answers)
	if err != nil {
		h.writeServiceError(conn, wsLog, err)
		_, code := classify(err)
		return code != response.ErrInternal
	}

	_ = ws.WriteTyped(conn, ws.GradedResponse{
		Event:  ws.EventGraded,
		Status: model.StatusCompleted,
		Result: result,
	})
	return true
}

func (h *ProctorWSHandler) writeServiceError(conn *websocket.Conn, wsLog zerolog.Logger, err error) {
	_, code := classify(err)
	if code == response.ErrInternal {
		wsLog.Error().Err(err).Msg("Proctor action failed")
	}
	_ = ws.WriteError(conn, string(code), response.GetMessage(code))
}
