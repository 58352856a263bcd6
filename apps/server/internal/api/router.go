// Package api exposes the lobby, round history and replay generation over
// HTTP and mounts the websocket gateway.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"belote-lite/apps/server/internal/auth"
	"belote-lite/apps/server/internal/gateway"
	"belote-lite/apps/server/internal/ledger"
	"belote-lite/apps/server/internal/lobby"
	"belote-lite/apps/server/internal/table"
	"belote-lite/belote"
	"belote-lite/belote/npc"
	"belote-lite/replay"
	"belote-lite/wire"

	"github.com/gin-gonic/gin"
)

type Server struct {
	Lobby    *lobby.Lobby
	Gateway  *gateway.Gateway
	Ledger   ledger.Service
	Gate     *auth.Gate
	Registry *npc.PersonaRegistry
}

type createTableRequest struct {
	Bots     int      `json:"bots"`
	Personas []string `json:"personas"`
}

func SetupRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"tables":      len(s.Lobby.ListTables()),
			"connections": s.Gateway.Count(),
			"rounds":      s.Lobby.Stats(),
		})
	})

	api := r.Group("/api")
	api.GET("/tables", s.listTables)
	api.POST("/tables", s.requirePassphrase, s.createTable)
	api.GET("/tables/:id", s.getTable)
	api.DELETE("/tables/:id/bots/:seat", s.requirePassphrase, s.removeBot)
	api.GET("/tables/:id/rounds", s.listRounds)
	api.GET("/personas", s.listPersonas)
	api.POST("/replay", s.generateReplay)

	r.GET("/ws", gin.WrapF(s.Gateway.HandleWebSocket))
	return r
}

func (s *Server) requirePassphrase(c *gin.Context) {
	if err := s.Gate.Check(auth.PassphraseFromRequest(c.Request)); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.Next()
}

func (s *Server) listTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": s.Lobby.ListTables()})
}

func (s *Server) createTable(c *gin.Context) {
	var req createTableRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Bots < 0 || req.Bots > 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bots must be between 0 and 3"})
		return
	}

	t, err := s.Lobby.CreateTable(s.Gateway.SendTo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for i := 0; i < req.Bots; i++ {
		persona := ""
		if i < len(req.Personas) {
			persona = req.Personas[i]
		}
		if err := t.SubmitEvent(table.Event{Type: table.EventAddBot, Value: persona}); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "table": t.Info()})
			return
		}
	}
	c.JSON(http.StatusCreated, t.Info())
}

func (s *Server) getTable(c *gin.Context) {
	t := s.Lobby.GetTable(c.Param("id"))
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"info":     t.Info(),
		"snapshot": wire.SnapshotPayload(t.Snapshot()),
	})
}

func (s *Server) removeBot(c *gin.Context) {
	t := s.Lobby.GetTable(c.Param("id"))
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}
	seat, err := belote.ParseSeat(c.Param("seat"))
	if err != nil || !seat.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seat"})
		return
	}
	if err := t.SubmitEvent(table.Event{Type: table.EventRemoveBot, Seat: seat}); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t.Info())
}

func (s *Server) listRounds(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	rounds, err := s.Ledger.ListRounds(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": rounds})
}

func (s *Server) listPersonas(c *gin.Context) {
	if s.Registry == nil {
		c.JSON(http.StatusOK, gin.H{"personas": []*npc.NPCPersona{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"personas": s.Registry.All()})
}

func (s *Server) generateReplay(c *gin.Context) {
	var spec replay.RoundSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tape, err := replay.GenerateReplayTape(spec)
	if err == nil {
		tape, err = replay.ForViewer(tape, c.Query("viewer"))
	}
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": replayErr})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, replay.ToWireReplayTape(tape))
}
