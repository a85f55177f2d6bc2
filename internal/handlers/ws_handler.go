package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"budgetmaster/internal/logger"
	"budgetmaster/internal/month"
	"budgetmaster/internal/services"
)

const wsUserKey = "user_id"

// BudgetEvent is pushed to a user's open websocket sessions.
type BudgetEvent struct {
	Type  string `json:"type"`
	Month string `json:"month"`
}

// WSHandler pushes budget change notifications to connected clients. Sessions
// are keyed by user so each user only hears about their own budgets.
type WSHandler struct {
	M *melody.Melody
}

var _ services.BudgetNotifier = (*WSHandler)(nil)

// NewWSHandler creates a WSHandler with keep-alive settings suitable for
// proxies that drop idle connections.
func NewWSHandler() *WSHandler {
	m := melody.New()
	m.Config.MaxMessageSize = 4 * 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get(wsUserKey)
		logger.Get().Debugw("websocket connected", "user_id", userID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get(wsUserKey)
		logger.Get().Debugw("websocket disconnected", "user_id", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		userID, _ := s.Get(wsUserKey)
		logger.Get().Warnw("websocket error", "user_id", userID, "error", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request to a websocket for the authenticated user.
// @Summary     Budget events
// @Description Websocket streaming {"type":"budgets_changed","month":"YYYY-MM"} after every budget change. The token may be passed as the access_token query parameter.
// @Tags        budgets
// @Security    BearerAuth
// @Success     101 "Switching protocols"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /ws [get]
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{wsUserKey: userID}); err != nil {
		logger.Get().Warnw("failed to upgrade websocket", "user_id", userID, "error", err)
	}
}

// BudgetsChanged sends one budgets_changed event per month to the user's sessions.
func (h *WSHandler) BudgetsChanged(userID string, months ...month.Key) {
	for _, m := range months {
		msg, err := json.Marshal(BudgetEvent{Type: "budgets_changed", Month: m.String()})
		if err != nil {
			continue
		}
		err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
			id, ok := s.Get(wsUserKey)
			return ok && id == userID
		})
		if err != nil {
			logger.Get().Warnw("failed to broadcast budget event", "user_id", userID, "month", m.String(), "error", err)
		}
	}
}

// Close disconnects all sessions.
func (h *WSHandler) Close() error {
	return h.M.Close()
}
