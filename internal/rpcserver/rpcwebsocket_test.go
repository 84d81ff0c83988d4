// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zingolabs/zcash/chaincfg"
)

// TestWebsocketAuthRequired ensures the websocket endpoint rejects clients
// that do not supply credentials during the handshake and services those that
// do.
func TestWebsocketAuthRequired(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)
	server, err := New(&Config{
		ConnMgr:          h.connMgr,
		Chain:            h.chain,
		ChainParams:      &params,
		TxMempooler:      h.pool,
		TemplateSource:   h.templates,
		CPUMiner:         h.miner,
		AddressSource:    h.addrSource,
		RPCUser:          "user",
		RPCPass:          "pass",
		RPCMaxClients:    10,
		RPCMaxWebsockets: 5,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	testServer := httptest.NewServer(server.route(ctx).Handler)
	defer testServer.Close()
	wsURL := "ws" + strings.TrimPrefix(testServer.URL, "http") + "/ws"

	// A dial without credentials must fail the handshake with 401.
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		conn.Close()
		t.Fatal("handshake succeeded without credentials")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated handshake response: %+v", resp)
	}

	// The same dial with credentials is serviced.
	login := base64.StdEncoding.EncodeToString([]byte("user:pass"))
	header := http.Header{"Authorization": []string{"Basic " + login}}
	conn, _, err = websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("authenticated handshake failed: %v", err)
	}
	defer conn.Close()

	req := `{"jsonrpc":"1.0","method":"getblockcount","params":[],"id":1}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(req)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if !strings.Contains(string(msg), `"result":0`) {
		t.Fatalf("unexpected reply: %s", msg)
	}
}
