package broadcast

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/kthrnbeh/ISweep-backend/internal/domain"
	"github.com/kthrnbeh/ISweep-backend/internal/metrics"
)

const (
	maxClientsPerUser = 8
	commandTimeout    = 5 * time.Second
	stopTimeout       = 10 * time.Second
)

type userClients map[*websocket.Conn]*clientWriter

// hubCmd is the command interface for the Hub actor.
type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	userID       uuid.UUID
	connection   *websocket.Conn
	errorChannel chan error
}

type unregisterCmd struct {
	baseHubCmd
	userID     uuid.UUID
	connection *websocket.Conn
}

type publishCmd struct {
	baseHubCmd
	userID uuid.UUID
	data   []byte
}

type getClientCountCmd struct {
	baseHubCmd
	userID       uuid.UUID
	replyChannel chan int
}

type stopCmd struct {
	baseHubCmd
}

// Hub fans analysis decisions out to each user's connected feed clients.
// maxConnections caps the total number of connections across all users.
type Hub struct {
	cmdCh          chan hubCmd
	clock          clockwork.Clock
	activeClients  map[uuid.UUID]userClients
	totalClients   int
	maxConnections int
	done           chan struct{}
}

// NewHub creates the feed hub and starts its actor goroutine.
func NewHub(clock clockwork.Clock, maxConnections int) *Hub {
	h := &Hub{
		cmdCh:          make(chan hubCmd, 256),
		clock:          clock,
		activeClients:  make(map[uuid.UUID]userClients),
		maxConnections: maxConnections,
		done:           make(chan struct{}),
	}
	go h.run()
	return h
}

// Register adds a feed client for a user. Returns an error if the per-user or
// total connection limit is reached, in which case the connection is closed.
func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- registerCmd{userID: userID, connection: conn, errorChannel: errCh}

	// Use timeout to prevent blocking forever if the hub is stuck
	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.Chan():
		return fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a feed client for a user.
func (h *Hub) Unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.cmdCh <- unregisterCmd{userID: userID, connection: conn}
}

// Publish pushes a decision to every feed client of the given user. It never
// blocks the caller: if the hub's command channel is full the decision is
// dropped, clients are expected to treat the feed as lossy.
func (h *Hub) Publish(userID uuid.UUID, decision domain.Decision) {
	data, err := json.Marshal(decision)
	if err != nil {
		slog.Error("Failed to marshal decision for feed", "error", err)
		return
	}

	select {
	case h.cmdCh <- publishCmd{userID: userID, data: data}:
		metrics.FeedDecisionsPublished.Inc()
	default:
		slog.Warn("Feed command channel full, dropping decision", "user_id", userID.String())
	}
}

// GetClientCount returns the number of connected clients for a user.
// Returns -1 if the command times out.
func (h *Hub) GetClientCount(userID uuid.UUID) int {
	replyCh := make(chan int, 1)
	h.cmdCh <- getClientCountCmd{userID: userID, replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("GetClientCount timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the hub, sending close frames to all connected clients.
// Blocks until the actor goroutine has exited or stopTimeout is reached.
func (h *Hub) Stop() {
	select {
	case h.cmdCh <- stopCmd{}:
	default:
	}

	timeout := h.clock.NewTimer(stopTimeout)
	defer timeout.Stop()

	select {
	case <-h.done:
		slog.Info("Feed hub stopped gracefully")
	case <-timeout.Chan():
		slog.Warn("Feed hub stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (h *Hub) run() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Feed hub panic recovered", "panic", r)
			h.closeAllClients("feed restarting")
		}
	}()
	defer close(h.done)

	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			h.handleRegister(c)
		case unregisterCmd:
			h.handleUnregister(c)
		case publishCmd:
			h.handlePublish(c)
		case getClientCountCmd:
			c.replyChannel <- len(h.activeClients[c.userID])
		case stopCmd:
			h.handleStop()
			return
		default:
			slog.Warn("Feed hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
		}
	}
}

func (h *Hub) handleRegister(c registerCmd) {
	if h.totalClients >= h.maxConnections {
		slog.Warn("Rejecting feed client: connection limit reached", "user_id", c.userID.String(), "max_connections", h.maxConnections)
		metrics.FeedConnectionsTotal.WithLabelValues("error").Inc()
		c.connection.Close()
		c.errorChannel <- fmt.Errorf("feed connection limit (%d) reached", h.maxConnections)
		return
	}

	clients, exists := h.activeClients[c.userID]
	if !exists {
		clients = make(userClients)
		h.activeClients[c.userID] = clients
	}

	if len(clients) >= maxClientsPerUser {
		slog.Warn("Rejecting feed client: max clients reached", "user_id", c.userID.String(), "max_clients", maxClientsPerUser)
		metrics.FeedConnectionsTotal.WithLabelValues("error").Inc()
		c.connection.Close()
		c.errorChannel <- fmt.Errorf("max clients per user (%d) reached", maxClientsPerUser)
		return
	}

	cw := newClientWriter(c.connection, h.clock)
	clients[c.connection] = cw
	h.totalClients++

	metrics.FeedConnectionsCurrent.Inc()
	metrics.FeedConnectionsTotal.WithLabelValues("success").Inc()

	slog.Debug("Feed client registered", "user_id", c.userID.String(), "total_clients", len(clients))
	c.errorChannel <- nil
}

func (h *Hub) handleUnregister(c unregisterCmd) {
	clients, exists := h.activeClients[c.userID]
	if !exists {
		return
	}

	cw, exists := clients[c.connection]
	if !exists {
		return
	}

	cw.stop()
	delete(clients, c.connection)
	h.totalClients--

	metrics.FeedConnectionsCurrent.Dec()

	if len(clients) == 0 {
		delete(h.activeClients, c.userID)
		slog.Debug("Last feed client disconnected", "user_id", c.userID.String())
	} else {
		slog.Debug("Feed client unregistered", "user_id", c.userID.String(), "remaining_clients", len(clients))
	}
}

func (h *Hub) handlePublish(c publishCmd) {
	clients, exists := h.activeClients[c.userID]
	if !exists {
		return
	}

	var slow []*websocket.Conn
	for conn, writer := range clients {
		select {
		case writer.sendChannel <- c.data:
		default:
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow feed client", "user_id", c.userID.String())
		metrics.FeedSlowClientsDropped.Inc()
		h.handleUnregister(unregisterCmd{userID: c.userID, connection: conn})
	}
}

func (h *Hub) handleStop() {
	slog.Info("Feed hub shutting down", "users", len(h.activeClients), "total_clients", h.totalClients)
	h.closeAllClients("Server shutting down")
}

// closeAllClients closes every connection with the given reason.
// Used during panic recovery and graceful shutdown.
func (h *Hub) closeAllClients(reason string) {
	for userID, clients := range h.activeClients {
		for _, cw := range clients {
			cw.stopGraceful(reason)
		}
		delete(h.activeClients, userID)
	}
	h.totalClients = 0
	metrics.FeedConnectionsCurrent.Set(0)
}
