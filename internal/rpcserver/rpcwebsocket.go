// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/decred/dcrd/dcrjson/v4"
	"github.com/gorilla/websocket"
	"github.com/zingolabs/zcash/rpc/jsonrpc/types"
	"github.com/zingolabs/zcash/wire"
)

const (
	// websocketSendBufferSize is the number of elements the send channel
	// can queue before blocking.  Note that this only applies to requests
	// handled directly in the websocket client input handler or the async
	// handler since notifications have their own queuing mechanism
	// independent of the send channel buffer.
	websocketSendBufferSize = 50

	// websocketReadLimitUnauthenticated is the maximum number of bytes
	// allowed for a message read from an unauthenticated websocket client.
	websocketReadLimitUnauthenticated = 1 << 10 // 1 KiB

	// websocketReadLimitAuthenticated is the maximum number of bytes
	// allowed for a message read from an authenticated websocket client.
	websocketReadLimitAuthenticated = 1 << 23 // 8 MiB

	// websocketPongTimeout is the maximum amount of time to wait for a
	// pong control message to be written before giving up on it.
	websocketPongTimeout = time.Second * 7
)

// wsClient provides an abstraction for handling a websocket client.  The
// overall data flow is split into 2 goroutines: one for reading and handling
// requests and one for queueing outgoing messages, which includes both
// responses and async notifications.
type wsClient struct {
	server        *Server
	conn          *websocket.Conn
	remoteAddr    string
	authenticated bool
	isAdmin       bool

	// notifyBlocks indicates whether the client has requested block
	// connected notifications.  It is protected by the mutex.
	mtx          sync.Mutex
	notifyBlocks bool
	disconnected bool

	sendChan chan []byte
	quit     chan struct{}
	wg       sync.WaitGroup
}

// inHandler handles all incoming messages for the websocket connection.  It
// must be run as a goroutine.
func (c *wsClient) inHandler(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			c.Disconnect()
			return
		default:
		}

		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, websocket.ErrReadLimit) &&
				!websocket.IsCloseError(err, websocket.CloseNormalClosure,
					websocket.CloseGoingAway) {
				log.Debugf("Websocket receive error from %s: %v",
					c.remoteAddr, err)
			}
			c.Disconnect()
			return
		}

		var request dcrjson.Request
		if err := json.Unmarshal(msg, &request); err != nil {
			jsonErr := &dcrjson.RPCError{
				Code:    dcrjson.ErrRPCParse.Code,
				Message: "Failed to parse request: " + err.Error(),
			}
			reply, err := dcrjson.MarshalResponse("1.0", nil, nil, jsonErr)
			if err != nil {
				log.Errorf("Failed to marshal reply: %v", err)
				continue
			}
			c.QueueMessage(reply)
			continue
		}

		c.serviceRequest(ctx, &request)
	}
}

// serviceRequest runs the provided request through the websocket-specific
// handlers and falls back to the standard command set, then queues the
// marshalled response for delivery.
func (c *wsClient) serviceRequest(ctx context.Context, request *dcrjson.Request) {
	// Credentials are checked before the connection is upgraded, so an
	// unauthenticated client reaching this point is disconnected rather
	// than serviced.
	if !c.authenticated {
		log.Warnf("Unauthenticated websocket message received from "+
			"%s -- disconnecting", c.remoteAddr)
		c.Disconnect()
		return
	}

	// Websocket-only commands are dispatched here since they need access
	// to the per-client state.
	if types.Method(request.Method) == "notifyblocks" {
		c.mtx.Lock()
		c.notifyBlocks = true
		c.mtx.Unlock()

		reply, err := createMarshalledReply(request.Jsonrpc, request.ID,
			nil, nil)
		if err != nil {
			log.Errorf("Failed to marshal reply: %v", err)
			return
		}
		c.QueueMessage(reply)
		return
	}

	reply := c.server.processRequest(ctx, request, c.isAdmin)
	if reply != nil {
		c.QueueMessage(reply)
	}
}

// outHandler writes queued messages to the websocket connection.  It must be
// run as a goroutine.
func (c *wsClient) outHandler(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case msg := <-c.sendChan:
			err := c.conn.WriteMessage(websocket.TextMessage, msg)
			if err != nil {
				c.Disconnect()
				return
			}

		case <-c.quit:
			return

		case <-ctx.Done():
			return
		}
	}
}

// QueueMessage queues the passed message for delivery to the client.  The
// message is dropped when the client cannot keep up.
func (c *wsClient) QueueMessage(msg []byte) {
	select {
	case c.sendChan <- msg:
	case <-c.quit:
	default:
		log.Warnf("Websocket client %s is too slow, dropping message",
			c.remoteAddr)
	}
}

// WantsBlockUpdates returns whether the client has subscribed to block
// connected notifications.
func (c *wsClient) WantsBlockUpdates() bool {
	c.mtx.Lock()
	notify := c.notifyBlocks
	c.mtx.Unlock()
	return notify
}

// Disconnect closes the underlying websocket connection.
func (c *wsClient) Disconnect() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.disconnected {
		return
	}
	c.disconnected = true
	close(c.quit)
	c.conn.Close()
	log.Tracef("Disconnected websocket client %s", c.remoteAddr)
}

// wsNotificationManager tracks connected websocket clients and delivers
// notifications to those that registered for them.
type wsNotificationManager struct {
	server *Server

	mtx     sync.Mutex
	clients map[*wsClient]struct{}
}

// newWsNotificationManager returns a new notification manager ready for use.
func newWsNotificationManager(server *Server) *wsNotificationManager {
	return &wsNotificationManager{
		server:  server,
		clients: make(map[*wsClient]struct{}),
	}
}

// AddClient adds the passed websocket client to the notification manager.  It
// reports whether the client was added, which it is not when doing so would
// exceed the maximum number of websocket clients.
func (m *wsNotificationManager) AddClient(c *wsClient) bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if len(m.clients)+1 > m.server.cfg.RPCMaxWebsockets {
		return false
	}
	m.clients[c] = struct{}{}
	return true
}

// RemoveClient removes the passed websocket client from the notification
// manager.
func (m *wsNotificationManager) RemoveClient(c *wsClient) {
	m.mtx.Lock()
	delete(m.clients, c)
	m.mtx.Unlock()
}

// NumClients returns the number of clients actively being served.
func (m *wsNotificationManager) NumClients() int {
	m.mtx.Lock()
	n := len(m.clients)
	m.mtx.Unlock()
	return n
}

// NotifyBlockConnected sends a blockconnected notification to every websocket
// client that subscribed for block updates.
func (m *wsNotificationManager) NotifyBlockConnected(block *wire.MsgBlock, height int64) {
	blockHash := block.BlockHash()
	ntfn := types.NewBlockConnectedNtfn(blockHash.String(), height,
		block.Header.Timestamp.Unix())
	marshalled, err := dcrjson.MarshalCmd("1.0", nil, ntfn)
	if err != nil {
		log.Errorf("Failed to marshal block connected notification: %v",
			err)
		return
	}

	m.mtx.Lock()
	for c := range m.clients {
		if c.WantsBlockUpdates() {
			c.QueueMessage(marshalled)
		}
	}
	m.mtx.Unlock()
}

// Run blocks until the provided context is cancelled and then disconnects all
// remaining clients.
func (m *wsNotificationManager) Run(ctx context.Context) {
	<-ctx.Done()

	m.mtx.Lock()
	for c := range m.clients {
		c.Disconnect()
	}
	m.mtx.Unlock()
}

// WebsocketHandler handles a new websocket client by creating a new wsClient,
// starting it, and blocking until the connection closes.  Since it blocks, it
// must be run in a separate goroutine.  It should be invoked from the
// websocket server handler which runs each new connection in a new goroutine
// thereby satisfying the requirement.
func (s *Server) WebsocketHandler(ctx context.Context, conn *websocket.Conn, remoteAddr string, authenticated bool, isAdmin bool) {
	// Clear the read deadline that was set before the websocket hijacked
	// the connection.
	conn.SetReadDeadline(timeZeroVal)

	client := &wsClient{
		server:        s,
		conn:          conn,
		remoteAddr:    remoteAddr,
		authenticated: authenticated,
		isAdmin:       isAdmin,
		sendChan:      make(chan []byte, websocketSendBufferSize),
		quit:          make(chan struct{}),
	}
	if !s.ntfnMgr.AddClient(client) {
		log.Infof("Max websocket clients exceeded [%d] - "+
			"disconnecting client %s", s.cfg.RPCMaxWebsockets,
			remoteAddr)
		conn.Close()
		return
	}
	log.Infof("New websocket client %s", remoteAddr)

	client.wg.Add(2)
	go client.inHandler(ctx)
	go client.outHandler(ctx)
	client.wg.Wait()

	s.ntfnMgr.RemoveClient(client)
	log.Infof("Disconnected websocket client %s", remoteAddr)
}
