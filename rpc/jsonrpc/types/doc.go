// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package types implements concrete types for marshalling to and from the
chain JSON-RPC commands, return values, and notifications.  When communicating
via the JSON-RPC protocol, all of the commands need to be marshalled to and
from the wire in the appropriate format.  This package provides data
structures and primitives that are registered with dcrjson to ease that
process.

# Protocol

All messages to and from the server follow the JSON-RPC 1.0 specification
with a small number of extensions to support websocket notifications.
*/
package types
