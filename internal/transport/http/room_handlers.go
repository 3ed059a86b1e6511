package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/intervue/session-server/internal/core"
	"github.com/intervue/session-server/internal/store"
)

const defaultHistoryLimit = 50

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomHandlers exposes read-only views of live rooms and their audit history.
type RoomHandlers struct {
	rooms   *core.Registry
	history store.SessionStore
	log     *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance. history may be nil.
func NewRoomHandlers(rooms *core.Registry, history store.SessionStore, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		rooms:   rooms,
		history: history,
		log:     logger,
	}
}

// RoomResponse represents a live room in API responses.
type RoomResponse struct {
	RoomID       string   `json:"roomId"`
	Participants []string `json:"participants"`
	State        string   `json:"state"`
	Available    bool     `json:"available"`
}

// SessionEventResponse represents one audit record in API responses.
type SessionEventResponse struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	HandleID  string `json:"handleId,omitempty"`
	Identity  string `json:"identity,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// HistoryQuery holds the query parameters of the history endpoint.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

func toRoomResponse(info core.RoomInfo) RoomResponse {
	return RoomResponse{
		RoomID:       info.ID,
		Participants: info.Participants,
		State:        string(info.State),
		Available:    info.Available(),
	}
}

// ListRooms lists live rooms.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms := lo.Map(h.rooms.Snapshot(), func(info core.RoomInfo, _ int) RoomResponse {
		return toRoomResponse(info)
	})
	h.log.Debug().Int("room_count", len(rooms)).Msg("rooms listed")
	c.JSON(http.StatusOK, rooms)
}

// GetRoom reports participants and availability of one room. Unknown rooms are empty and available.
// GET /api/rooms/:roomId
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	c.JSON(http.StatusOK, toRoomResponse(h.rooms.Info(c.Param("roomId"))))
}

// History returns recorded lifecycle events of a room, newest first.
// GET /api/rooms/:roomId/history
func (h *RoomHandlers) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "session history is disabled"})
		return
	}

	var query HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.log.Debug().Err(err).Msg("invalid history query")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultHistoryLimit
	}

	roomID := c.Param("roomId")
	h.log.Info().
		Str("room", roomID).
		Str("requested_by", c.GetString(ContextKeyIdentity)).
		Str("user_type", c.GetString(ContextKeyUserType)).
		Msg("session history requested")

	events, err := h.history.ListSessionEvents(c.Request.Context(), roomID, query.Limit)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to list session events")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, lo.Map(events, func(ev store.SessionEvent, _ int) SessionEventResponse {
		return SessionEventResponse{
			ID:        ev.ID,
			Kind:      ev.Kind,
			HandleID:  ev.HandleID,
			Identity:  ev.Identity,
			CreatedAt: ev.CreatedAt.Format(time.RFC3339),
		}
	}))
}
