// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package rpcserver includes all RPC server interfaces, types, and the server
itself.

The server accepts JSON-RPC requests over HTTP POST and websockets, with HTTP
Basic authentication for both a full-access admin user and an optional
limited user.  The mining command set covers block template construction with
BIP22 long polling and proposals, block submission, on-demand generation for
regression testing, and the related statistics commands.
*/
package rpcserver
