// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC commands that are supported by
// a chain server.

package types

import (
	"github.com/decred/dcrd/dcrjson/v4"
)

// Method describes the exact type used when registering methods with dcrjson.
type Method string

// EstimateFeeCmd defines the estimatefee JSON-RPC command.
type EstimateFeeCmd struct {
	NumBlocks int64
}

// EstimatePriorityCmd defines the estimatepriority JSON-RPC command.
type EstimatePriorityCmd struct {
	NumBlocks int64
}

// GenerateCmd defines the generate JSON-RPC command.
type GenerateCmd struct {
	NumBlocks uint32
}

// GetBestBlockHashCmd defines the getbestblockhash JSON-RPC command.
type GetBestBlockHashCmd struct{}

// GetBlockCountCmd defines the getblockcount JSON-RPC command.
type GetBlockCountCmd struct{}

// GetBlockSubsidyCmd defines the getblocksubsidy JSON-RPC command.
type GetBlockSubsidyCmd struct {
	Height *int64
}

// TemplateRequest is a request object as defined in BIP22.  It is optionally
// provided as an argument to the getblocktemplate JSON-RPC command.
type TemplateRequest struct {
	Mode         string   `json:"mode,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`

	// LongPollID is the long poll identifier of the template being
	// watched, as returned by a previous getblocktemplate call.
	LongPollID string `json:"longpollid,omitempty"`

	// Data is the hex-encoded serialized block to check in proposal mode.
	Data string `json:"data,omitempty"`

	// WorkID must be returned with the submission when provided.
	WorkID string `json:"workid,omitempty"`
}

// GetBlockTemplateCmd defines the getblocktemplate JSON-RPC command.
type GetBlockTemplateCmd struct {
	Request *TemplateRequest
}

// GetDifficultyCmd defines the getdifficulty JSON-RPC command.
type GetDifficultyCmd struct{}

// GetGenerateCmd defines the getgenerate JSON-RPC command.
type GetGenerateCmd struct{}

// GetLocalSolPsCmd defines the getlocalsolps JSON-RPC command.
type GetLocalSolPsCmd struct{}

// GetMiningInfoCmd defines the getmininginfo JSON-RPC command.
type GetMiningInfoCmd struct{}

// GetNetworkHashPSCmd defines the getnetworkhashps JSON-RPC command.
type GetNetworkHashPSCmd struct {
	Blocks *int `jsonrpcdefault:"120"`
	Height *int `jsonrpcdefault:"-1"`
}

// GetNetworkSolPsCmd defines the getnetworksolps JSON-RPC command.
type GetNetworkSolPsCmd struct {
	Blocks *int `jsonrpcdefault:"120"`
	Height *int `jsonrpcdefault:"-1"`
}

// HelpCmd defines the help JSON-RPC command.
type HelpCmd struct {
	Command *string
}

// NotifyBlocksCmd defines the notifyblocks JSON-RPC command.
type NotifyBlocksCmd struct{}

// PrioritiseTransactionCmd defines the prioritisetransaction JSON-RPC
// command.
type PrioritiseTransactionCmd struct {
	TxID          string
	PriorityDelta float64
	FeeDelta      int64
}

// SetGenerateCmd defines the setgenerate JSON-RPC command.
type SetGenerateCmd struct {
	Generate     bool
	GenProcLimit *int `jsonrpcdefault:"-1"`
}

// SubmitBlockOptions represents the optional options struct provided with a
// SubmitBlockCmd command.
type SubmitBlockOptions struct {
	// WorkID must match the workid of the template the block was built
	// from when the template provided one.
	WorkID string `json:"workid,omitempty"`
}

// SubmitBlockCmd defines the submitblock JSON-RPC command.
type SubmitBlockCmd struct {
	HexBlock string
	Options  *SubmitBlockOptions
}

// StopCmd defines the stop JSON-RPC command.
type StopCmd struct{}

func init() {
	// No special flags for commands in this file.
	flags := dcrjson.UsageFlag(0)

	dcrjson.MustRegister(Method("estimatefee"), (*EstimateFeeCmd)(nil), flags)
	dcrjson.MustRegister(Method("estimatepriority"), (*EstimatePriorityCmd)(nil), flags)
	dcrjson.MustRegister(Method("generate"), (*GenerateCmd)(nil), flags)
	dcrjson.MustRegister(Method("getbestblockhash"), (*GetBestBlockHashCmd)(nil), flags)
	dcrjson.MustRegister(Method("getblockcount"), (*GetBlockCountCmd)(nil), flags)
	dcrjson.MustRegister(Method("getblocksubsidy"), (*GetBlockSubsidyCmd)(nil), flags)
	dcrjson.MustRegister(Method("getblocktemplate"), (*GetBlockTemplateCmd)(nil), flags)
	dcrjson.MustRegister(Method("getdifficulty"), (*GetDifficultyCmd)(nil), flags)
	dcrjson.MustRegister(Method("getgenerate"), (*GetGenerateCmd)(nil), flags)
	dcrjson.MustRegister(Method("getlocalsolps"), (*GetLocalSolPsCmd)(nil), flags)
	dcrjson.MustRegister(Method("getmininginfo"), (*GetMiningInfoCmd)(nil), flags)
	dcrjson.MustRegister(Method("getnetworkhashps"), (*GetNetworkHashPSCmd)(nil), flags)
	dcrjson.MustRegister(Method("getnetworksolps"), (*GetNetworkSolPsCmd)(nil), flags)
	dcrjson.MustRegister(Method("help"), (*HelpCmd)(nil), flags)
	dcrjson.MustRegister(Method("prioritisetransaction"), (*PrioritiseTransactionCmd)(nil), flags)
	dcrjson.MustRegister(Method("setgenerate"), (*SetGenerateCmd)(nil), flags)
	dcrjson.MustRegister(Method("stop"), (*StopCmd)(nil), flags)
	dcrjson.MustRegister(Method("submitblock"), (*SubmitBlockCmd)(nil), flags)

	// Websocket-only commands.
	wsFlags := dcrjson.UFWebsocketOnly
	dcrjson.MustRegister(Method("notifyblocks"), (*NotifyBlocksCmd)(nil), wsFlags)
}
