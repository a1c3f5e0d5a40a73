package signaling

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Hub owns the set of live connections and drives the signaling protocol.
// All inbound events (register, request-match, relay, leave, disconnect) are
// processed by the single Run goroutine, so handler bodies run to completion
// without interleaving: a room torn down by a leave can never receive a relay
// that was queued behind it, and messages from one sender reach its peer in
// the order they arrived.
type Hub struct {
	matchmaker *Matchmaker

	// clients maps connection IDs to live transport connections. Only the Run
	// goroutine touches it.
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan *Message

	log *logrus.Entry
}

// NewHub creates a hub around the given matchmaker.
func NewHub(matchmaker *Matchmaker) *Hub {
	return &Hub{
		matchmaker: matchmaker,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *Message, 256),
		log:        logrus.WithField("component", "hub"),
	}
}

// Matchmaker exposes the state owner, for the REST stats endpoint.
func (h *Hub) Matchmaker() *Matchmaker { return h.matchmaker }

// Run is the hub's event loop. It must run in its own goroutine before any
// connection is served.
func (h *Hub) Run() {
	h.log.Info("Hub is running")
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.inbound:
			h.handleMessage(msg)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.clients[client.id] = client
	h.log.WithField("connection_id", client.id).Info("Connection opened")
}

// removeClient is the disconnect teardown path. It is best-effort and
// idempotent: a connection that was already cleaned up unwinds to a no-op,
// and the former peer is notified at most once.
func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client.id]; !ok {
		return
	}
	delete(h.clients, client.id)
	close(client.send)

	result := h.matchmaker.Disconnect(client.id)
	if result.User != nil && result.Peer != nil {
		h.notifyUserLeft(result.Peer, result.User)
	}
	h.log.WithField("connection_id", client.id).Info("Connection closed")
}

func (h *Hub) handleMessage(msg *Message) {
	client := msg.client

	switch msg.Type {
	case TypeRegister:
		h.handleRegister(client, msg)
	case TypeRequestMatch:
		h.handleRequestMatch(client)
	case TypeOffer, TypeAnswer, TypeIceCandidate:
		h.handleRelay(client, msg)
	case TypeVideoToggle, TypeAudioToggle:
		h.handleToggle(client, msg)
	case TypeLeaveRoom:
		h.handleLeave(client)
	case TypeGetStats:
		h.send(client, StatsEvent{Type: TypeStats, Stats: h.matchmaker.Stats()})
	default:
		h.log.WithFields(logrus.Fields{
			"connection_id": client.id,
			"message_type":  msg.Type,
		}).Warn("Unknown message type")
		h.sendErrorDetail(client, "bad-message", "unknown message type: "+msg.Type)
	}
}

func (h *Hub) handleRegister(client *Client, msg *Message) {
	if msg.UserID == "" || msg.DisplayName == "" {
		h.sendErrorDetail(client, "bad-message", "register requires userId and displayName")
		return
	}
	user, err := h.matchmaker.Register(client.id, msg.UserID, msg.DisplayName)
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.send(client, RegisteredEvent{Type: TypeRegistered, Success: true, User: user.FullInfo()})
}

func (h *Hub) handleRequestMatch(client *Client) {
	result, err := h.matchmaker.RequestMatch(client.id)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if !result.Matched {
		h.send(client, WaitingEvent{Type: TypeWaiting, Message: "Waiting for another user..."})
		return
	}

	matched := MatchedEvent{
		Type:   TypeMatched,
		RoomID: result.Room.ID,
		Users:  []PeerInfo{result.User.Info(), result.Peer.Info()},
	}
	h.send(client, matched)
	if peerClient, ok := h.clients[result.Peer.ConnectionID]; ok {
		h.send(peerClient, matched)
	}
}

func (h *Hub) handleRelay(client *Client, msg *Message) {
	if msg.RoomID == "" || len(msg.Payload) == 0 {
		h.sendErrorDetail(client, "bad-message", msg.Type+" requires roomId and payload")
		return
	}
	peer, err := h.matchmaker.RelayPeer(client.id, msg.RoomID)
	if err != nil {
		h.sendError(client, err)
		return
	}
	peerClient, ok := h.clients[peer.ConnectionID]
	if !ok {
		h.sendError(client, ErrPeerUnavailable)
		return
	}
	delivered := h.send(peerClient, RelayEvent{
		Type:    msg.Type,
		Payload: msg.Payload,
		From:    client.id,
	})
	if !delivered {
		h.sendError(client, ErrPeerUnavailable)
	}
}

func (h *Hub) handleToggle(client *Client, msg *Message) {
	if msg.RoomID == "" || msg.Enabled == nil {
		h.sendErrorDetail(client, "bad-message", msg.Type+" requires roomId and enabled")
		return
	}
	peer, err := h.matchmaker.RelayPeer(client.id, msg.RoomID)
	if err != nil {
		h.sendError(client, err)
		return
	}
	eventType := TypePeerVideoToggle
	if msg.Type == TypeAudioToggle {
		eventType = TypePeerAudioToggle
	}
	peerClient, ok := h.clients[peer.ConnectionID]
	if !ok {
		h.sendError(client, ErrPeerUnavailable)
		return
	}
	if !h.send(peerClient, ToggleEvent{Type: eventType, From: client.id, Enabled: *msg.Enabled}) {
		h.sendError(client, ErrPeerUnavailable)
	}
}

func (h *Hub) handleLeave(client *Client) {
	result, err := h.matchmaker.Leave(client.id)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if result.Peer != nil {
		h.notifyUserLeft(result.Peer, result.User)
	}
}

func (h *Hub) notifyUserLeft(peer, leaver *User) {
	peerClient, ok := h.clients[peer.ConnectionID]
	if !ok {
		return
	}
	h.send(peerClient, UserLeftEvent{
		Type:         TypeUserLeft,
		ConnectionID: leaver.ConnectionID,
		DisplayName:  leaver.DisplayName,
	})
}

// send marshals the event onto the client's outbound queue. The queue is a
// FIFO channel drained by the client's write pump, so per-client delivery
// order matches call order. A full queue drops the frame rather than stalling
// the whole hub behind one slow connection.
func (h *Hub) send(client *Client, event interface{}) bool {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal event")
		return false
	}
	select {
	case client.send <- data:
		return true
	default:
		h.log.WithField("connection_id", client.id).Warn("Client send queue full, dropping event")
		return false
	}
}

func (h *Hub) sendError(client *Client, err error) {
	h.sendErrorDetail(client, errorKind(err), err.Error())
}

func (h *Hub) sendErrorDetail(client *Client, kind, message string) {
	h.send(client, ErrorEvent{Type: TypeError, Error: ErrorDetail{Kind: kind, Message: message}})
}
