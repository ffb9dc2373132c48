package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("api")

const shutdownTimeout = 5 * time.Second

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	socketHandler  SocketHandler
	clients        ClientsProvider
	drops          DropsProvider
	listenAddr     string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// StatusResponse is the body returned on /api/status
type StatusResponse struct {
	Clients int               `json:"clients"`
	Roles   map[string]int    `json:"roles"`
	Dropped map[string]uint64 `json:"dropped"`
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress  string
	SocketHandler  SocketHandler
	Clients        ClientsProvider
	Drops          DropsProvider
	GeneralHandler func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts the websocket and status routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.SocketHandler) {
		return nil, ErrNilSocketHandler
	}
	if check.IfNil(args.Clients) {
		return nil, ErrNilClientsProvider
	}
	if check.IfNil(args.Drops) {
		return nil, ErrNilDropsProvider
	}
	if args.GeneralHandler == nil {
		return nil, ErrNilHTTPHandler
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		socketHandler:  args.SocketHandler,
		clients:        args.Clients,
		drops:          args.Drops,
		listenAddr:     args.ListenAddress,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	s.router.GET("/socket", gin.WrapH(s.socketHandler))

	api := s.router.Group("/api")
	api.GET("/status", s.handleStatus)
}

// Start listens and serves connections
func (s *server) Start() error {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return err
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		errServe := s.httpServer.Serve(ln)
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			log.Error("http server failed", "error", errServe)
		}
	}()

	return nil
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server. Upgraded websocket connections are not tracked here
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

func (s *server) handleStatus(c *gin.Context) {
	identities := s.clients.Snapshot()

	roles := make(map[string]int)
	for _, identity := range identities {
		roles[string(identity.Role)]++
	}

	c.JSON(http.StatusOK, StatusResponse{
		Clients: len(identities),
		Roles:   roles,
		Dropped: s.drops.DroppedEvents(),
	})
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *server) IsInterfaceNil() bool {
	return s == nil
}
