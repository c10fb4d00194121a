// Package server exposes the contract interaction layer as a small
// REST gateway, plus the local transaction journal behind it.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/agentbet/gopredict/chain/client"
	"github.com/agentbet/gopredict/internal/journal"
	"github.com/agentbet/gopredict/pkg/logger"
	"github.com/agentbet/gopredict/pkg/metadata"
)

// Config wires the gateway's collaborators. Journal and Metadata are
// optional; the endpoints depending on them return 503 when absent.
type Config struct {
	Chain    *client.Client
	Journal  *journal.Journal
	Metadata *metadata.Client
}

// Server handles gateway requests.
type Server struct {
	chain    *client.Client
	journal  *journal.Journal
	metadata *metadata.Client
	log      *logrus.Entry
}

// New builds the gateway. The journal, when present, is attached to the
// chain client's lifecycle so every submission gets recorded.
func New(cfg Config) (*Server, error) {
	s := &Server{
		chain:    cfg.Chain,
		journal:  cfg.Journal,
		metadata: cfg.Metadata,
		log:      logger.WithComponent("server"),
	}
	if s.journal != nil {
		s.chain.Lifecycle.SetRecorder(s.journal)
	}
	return s, nil
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestID())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")

	agents := api.Group("/agents")
	agents.GET("", s.handleAgentsList)
	agents.POST("", s.handleAgentRegister)
	agents.GET("/:agentID", s.handleAgentGet)
	agents.GET("/:agentID/profile", s.handleAgentProfile)
	agents.POST("/:agentID/sponsor", s.handleAgentSponsor)

	markets := api.Group("/markets")
	markets.GET("", s.handleMarketsList)
	markets.POST("", s.handleMarketCreate)
	markets.GET("/:marketID", s.handleMarketGet)
	markets.GET("/:marketID/odds", s.handleMarketOdds)
	markets.POST("/:marketID/bets", s.handleBetPlace)
	markets.POST("/:marketID/claim", s.handleClaim)
	markets.POST("/:marketID/resolve", s.handleResolve)
	markets.GET("/:marketID/resolution", s.handleResolutionGet)

	api.GET("/treasury", s.handleTreasury)

	tx := api.Group("/tx")
	tx.GET("", s.handleTxList)
	tx.GET("/:hash", s.handleTxGet)

	return r
}

// requestID tags every request for log correlation.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func (s *Server) requestLog(c *gin.Context) *logrus.Entry {
	return s.log.WithField("request_id", c.GetString("request_id"))
}
