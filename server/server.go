// Package server exposes the graph store over REST plus a WebSocket
// channel that announces graph mutations to connected canvas clients.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tbrumbaugh5396/graph-canvas/logger"
	"github.com/tbrumbaugh5396/graph-canvas/storage"
)

// Server serves the graph CRUD API backed by a repository and fans
// mutation notices out to WebSocket clients.
type Server struct {
	repo storage.Repository
	log  *zap.SugaredLogger

	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	notifyCh   chan string
	limiter    *rate.Limiter

	httpServer *http.Server
	done       chan struct{}
	wg         sync.WaitGroup
}

// New creates a server over the given repository. A nil logger falls back
// to the global logger.
func New(repo storage.Repository, addr string, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = logger.Logger
	}
	s := &Server{
		repo:       repo,
		log:        log,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notifyCh:   make(chan string, 64),
		// Drag commits arrive in bursts; cap fan-out at 5 notices/sec.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		done:    make(chan struct{}),
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Start runs the hub and the HTTP listener. Blocks until the listener
// stops.
func (s *Server) Start() error {
	s.wg.Add(2)
	go s.runHub()
	go s.runBroadcaster()

	s.log.Infow("Graph server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the listener, disconnects clients, and waits for the
// hub goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	close(s.done)

	s.mu.Lock()
	for client := range s.clients {
		client.close()
		delete(s.clients, client)
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// runHub serializes client registration.
func (s *Server) runHub() {
	defer s.wg.Done()
	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			count := len(s.clients)
			s.mu.Unlock()
			s.log.Debugw("Canvas client connected", "clients", count)
		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				client.close()
			}
			count := len(s.clients)
			s.mu.Unlock()
			s.log.Debugw("Canvas client disconnected", "clients", count)
		case <-s.done:
			return
		}
	}
}

// runBroadcaster drains mutation notices, rate-limited so a burst of drag
// commits coalesces into a steady trickle.
func (s *Server) runBroadcaster() {
	defer s.wg.Done()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.done
		cancel()
	}()
	for {
		select {
		case graphID := <-s.notifyCh:
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
			s.broadcastUpdate(graphID)
		case <-s.done:
			return
		}
	}
}

// notify queues a mutation notice. Never blocks a handler; when the queue
// is full the notice is dropped because a newer one is already pending.
func (s *Server) notify(graphID string) {
	select {
	case s.notifyCh <- graphID:
	default:
	}
}

// NotifyAll queues a store-wide mutation notice, used when the backing
// store changes outside this process. The message carries an empty
// graph_id; clients re-fetch whatever they have open.
func (s *Server) NotifyAll() {
	s.notify("")
}

// broadcastUpdate sends a graph_updated message to every connected
// client. Clients with a full send queue are skipped.
func (s *Server) broadcastUpdate(graphID string) {
	msg := UpdateMessage{
		Type:      "graph_updated",
		GraphID:   graphID,
		Timestamp: time.Now().Unix(),
	}
	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	sent := 0
	for _, client := range clients {
		select {
		case client.send <- msg:
			sent++
		default:
			// Queue full - skip
		}
	}
	s.log.Debugw("Broadcast graph update", "graph_id", graphID, "sent", sent)
}
