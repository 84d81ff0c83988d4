// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/zingolabs/zcash/internal/rpcserver"
)

// rpcConnManager provides a connection manager for use with the RPC server
// and implements the rpcserver.ConnManager interface.
type rpcConnManager struct {
	server *server
}

// Ensure rpcConnManager implements the rpcserver.ConnManager interface.
var _ rpcserver.ConnManager = (*rpcConnManager)(nil)

// ConnectedCount returns the number of currently connected peers.
//
// The peer-to-peer subsystem lives outside this process, so no peers are
// ever connected directly.  Networks that mine on demand never consult the
// count; on the public networks the RPC server correctly reports the node as
// not connected.
//
// This function is safe for concurrent access and is part of the
// rpcserver.ConnManager interface implementation.
func (cm *rpcConnManager) ConnectedCount() int32 {
	return 0
}
