package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/brightpath/quizhall-backend/internal/engine"
	"github.com/brightpath/quizhall-backend/internal/middleware"
	"github.com/brightpath/quizhall-backend/internal/service"
	ws "github.com/brightpath/quizhall-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
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

// sessionConn serializes writes: the read loop and the timer-event listener
// both push frames at the same connection.
type sessionConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *sessionConn) write(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ws.WriteTyped(c.conn, v)
}

func (c *sessionConn) writeError(msg string) error {
	return c.write(ws.ErrorResponse{Event: ws.EventError, Error: msg})
}

// WSHandler streams a live attempt over WebSocket: answers, navigation and
// anti-cheat signals flow in; forced advances, warnings, expulsion and the
// graded result flow out.
type WSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/student/session/stream
// Upgrades to WebSocket for real-time attempt traffic.
func (h *WSHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sess, err := h.sessionService.Current(claims.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no attempt in progress"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer raw.Close()
	conn := &sessionConn{conn: raw}

	wsLog := h.log.With().
		Int("user_id", claims.UserID).
		Str("session_id", sess.ID().String()).
		Logger()
	wsLog.Info().Msg("Student connected")

	h.sessionService.Attach(sess.ID(), func(ev service.Event) {
		h.writeEvent(conn, ev)
	})
	defer h.sessionService.Detach(sess.ID())

	for {
		payload, err := ws.ReadRaw(raw)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}
		var envelope ws.RequestEnvelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			conn.writeError("malformed message")
			continue
		}

		switch envelope.Action {
		case ws.ActionAnswer:
			h.handleAnswer(conn, sess, payload)
		case ws.ActionNext:
			h.handleNext(conn, sess)
		case ws.ActionSubmit:
			h.handleSubmit(conn, wsLog, sess)
		case ws.ActionViolation:
			h.handleViolation(conn, sess, payload)
		case ws.ActionState:
			conn.write(ws.StateResponse{Event: ws.EventState, Snapshot: sess.Snapshot()})
		case ws.ActionReview:
			h.handleReview(conn, sess)
		case ws.ActionBack:
			h.handleBack(conn, sess)
		case ws.ActionPing:
			conn.write(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(envelope.Action)).Msg("Unknown action")
			conn.writeError("unknown action: " + string(envelope.Action))
		}
	}
}

func (h *WSHandler) handleAnswer(conn *sessionConn, sess *engine.Session, payload []byte) {
	var req ws.AnswerRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		conn.writeError("malformed answer")
		return
	}

	answer := engine.Answer{Choice: req.Choice, Order: req.Order, Text: req.Text}
	if err := sess.RecordAnswer(req.Index, answer); err != nil {
		conn.writeError(err.Error())
		return
	}
	conn.write(ws.SuccessResponse{Event: ws.EventSuccess, Status: "saved"})
}

func (h *WSHandler) handleNext(conn *sessionConn, sess *engine.Session) {
	index, result, err := sess.Next()
	if err != nil {
		conn.writeError(err.Error())
		return
	}
	if result != nil {
		conn.write(ws.GradedResponse{Event: ws.EventGraded, Result: result, Auto: false})
		return
	}
	conn.write(ws.AdvancedResponse{Event: ws.EventAdvanced, Index: index, Auto: false})
}

func (h *WSHandler) handleSubmit(conn *sessionConn, wsLog zerolog.Logger, sess *engine.Session) {
	result, err := sess.Submit()
	if err != nil {
		conn.writeError(err.Error())
		return
	}
	wsLog.Info().Int("score", result.Score).Int("total", result.Total).Msg("Attempt submitted")
	conn.write(ws.GradedResponse{Event: ws.EventGraded, Result: result, Auto: false})
}

func (h *WSHandler) handleViolation(conn *sessionConn, sess *engine.Session, payload []byte) {
	var req ws.ViolationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		conn.writeError("malformed violation")
		return
	}

	kind, ok := engine.ParseViolationKind(req.Kind)
	if !ok {
		conn.writeError("unknown violation kind: " + req.Kind)
		return
	}

	verdict, count, err := sess.RecordViolation(kind)
	if err != nil {
		conn.writeError(err.Error())
		return
	}

	if verdict == engine.VerdictExpel {
		conn.write(ws.ExpelledResponse{Event: ws.EventExpelled, Kind: string(kind)})
		return
	}
	conn.write(ws.WarningResponse{Event: ws.EventWarning, Kind: string(kind), Violations: count})
}

func (h *WSHandler) handleReview(conn *sessionConn, sess *engine.Session) {
	if err := sess.Review(); err != nil {
		conn.writeError(err.Error())
		return
	}
	entries, err := sess.ReviewPaper()
	if err != nil {
		conn.writeError(err.Error())
		return
	}
	conn.write(ws.ReviewResponse{Event: ws.EventReview, Entries: entries})
}

func (h *WSHandler) handleBack(conn *sessionConn, sess *engine.Session) {
	if err := sess.BackToResult(); err != nil {
		conn.writeError(err.Error())
		return
	}
	result, _ := sess.Result()
	conn.write(ws.GradedResponse{Event: ws.EventGraded, Result: result, Auto: false})
}

// writeEvent translates a timer-driven service event into its wire shape.
func (h *WSHandler) writeEvent(conn *sessionConn, ev service.Event) {
	switch p := ev.Payload.(type) {
	case service.AdvancePayload:
		conn.write(ws.AdvancedResponse{Event: ws.EventAdvanced, Index: p.Index, Auto: true})
	case service.GradedPayload:
		conn.write(ws.GradedResponse{Event: ws.EventGraded, Result: p.Result, Auto: p.Auto})
	case service.ExpelPayload:
		conn.write(ws.ExpelledResponse{Event: ws.EventExpelled, Kind: p.Kind})
	}
}
