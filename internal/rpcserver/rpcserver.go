// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"io"
	stdlog "log"
	"math/big"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/rand"
	"github.com/decred/dcrd/dcrjson/v4"
	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/gorilla/websocket"
	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/internal/blockchain"
	"github.com/zingolabs/zcash/internal/mining"
	"github.com/zingolabs/zcash/rpc/jsonrpc/types"
	"github.com/zingolabs/zcash/wire"
)

// API version constants
const (
	jsonrpcSemverMajor = 1
	jsonrpcSemverMinor = 0
	jsonrpcSemverPatch = 0
)

const (
	// rpcAuthTimeoutSeconds is the number of seconds a connection to the
	// RPC server is allowed to stay open without authenticating before it
	// is closed.
	rpcAuthTimeoutSeconds = 10

	// rpcReadLimitAuthenticated is the maximum number of bytes allowed for
	// a JSON-RPC message read from a client.
	rpcReadLimitAuthenticated = 1 << 23 // 8 MiB

	// gbtNonceRange is two 32-bit big-endian hexadecimal integers which
	// represent the valid ranges of nonces returned by the getblocktemplate
	// RPC.
	gbtNonceRange = "00000000ffffffff"

	// defaultNetworkSolPsBlocks is the default number of blocks the network
	// solution rate is averaged over when no block count is requested.
	defaultNetworkSolPsBlocks = 120
)

var (
	// jsonrpcSemverString is the RPC server's semantic API version formatted
	// as a string.
	jsonrpcSemverString = fmt.Sprintf("%d.%d.%d", jsonrpcSemverMajor,
		jsonrpcSemverMinor, jsonrpcSemverPatch)

	// gbtCapabilities describes additional capabilities returned with a
	// block template generated by the getblocktemplate RPC.
	gbtCapabilities = []string{"proposal"}

	// gbtMutableFields are the manipulations the server allows to be made
	// to block templates generated by the getblocktemplate RPC.
	gbtMutableFields = []string{"time", "transactions", "prevblock"}

	// JSON 2.0 batched request prefix
	batchedRequestPrefix = []byte("[")

	// timeZeroVal is simply the zero value for a time.Time and is used to
	// avoid creating multiple instances.
	timeZeroVal time.Time
)

// Errors
var (
	// ErrRPCUnimplemented is an error returned to RPC clients when the
	// provided command is recognized, but not implemented.
	ErrRPCUnimplemented = &dcrjson.RPCError{
		Code:    dcrjson.ErrRPCUnimplemented,
		Message: "Command unimplemented",
	}

	// ErrRPCNoWallet is an error returned to RPC clients when the provided
	// command is recognized as a wallet command.
	ErrRPCNoWallet = &dcrjson.RPCError{
		Code:    dcrjson.ErrRPCNoWallet,
		Message: "This implementation does not implement wallet commands",
	}
)

type commandHandler func(context.Context, *Server, interface{}) (interface{}, error)

// rpcHandlers maps RPC command strings to appropriate handler functions.
// This is set by init because help references rpcHandlers and thus causes
// a dependency loop.
var rpcHandlers map[types.Method]commandHandler
var rpcHandlersBeforeInit = map[types.Method]commandHandler{
	"estimatefee":           handleEstimateFee,
	"estimatepriority":      handleEstimatePriority,
	"generate":              handleGenerate,
	"getbestblockhash":      handleGetBestBlockHash,
	"getblockcount":         handleGetBlockCount,
	"getblocksubsidy":       handleGetBlockSubsidy,
	"getblocktemplate":      handleGetBlockTemplate,
	"getdifficulty":         handleGetDifficulty,
	"getgenerate":           handleGetGenerate,
	"getlocalsolps":         handleGetLocalSolPs,
	"getmininginfo":         handleGetMiningInfo,
	"getnetworkhashps":      handleGetNetworkHashPS,
	"getnetworksolps":       handleGetNetworkSolPs,
	"help":                  handleHelp,
	"prioritisetransaction": handlePrioritiseTransaction,
	"setgenerate":           handleSetGenerate,
	"stop":                  handleStop,
	"submitblock":           handleSubmitBlock,
}

// list of commands that we recognize, but for which the node has no support
// because it lacks support for wallet functionality.  For these commands the
// user should use a wallet that is connected to this node.
var rpcAskWallet = map[string]struct{}{
	"backupwallet":     {},
	"dumpprivkey":      {},
	"getbalance":       {},
	"getnewaddress":    {},
	"importprivkey":    {},
	"listunspent":      {},
	"sendtoaddress":    {},
	"z_getbalance":     {},
	"z_getnewaddress":  {},
	"z_listaddresses":  {},
	"z_sendmany":       {},
	"z_shieldcoinbase": {},
}

// Commands that are available in a full node implementation but are not
// implemented by the mining-focused server.
var rpcUnimplemented = map[string]struct{}{
	"getblock":           {},
	"getblockhash":       {},
	"getinfo":            {},
	"getpeerinfo":        {},
	"getrawmempool":      {},
	"getrawtransaction":  {},
	"sendrawtransaction": {},
}

// Commands that are available to a limited user
var rpcLimited = map[string]struct{}{
	// Websockets commands
	"notifyblocks": {},

	// HTTP/S-only commands
	"estimatefee":      {},
	"estimatepriority": {},
	"getbestblockhash": {},
	"getblockcount":    {},
	"getblocksubsidy":  {},
	"getblocktemplate": {},
	"getdifficulty":    {},
	"getgenerate":      {},
	"getlocalsolps":    {},
	"getmininginfo":    {},
	"getnetworkhashps": {},
	"getnetworksolps":  {},
	"help":             {},
	"submitblock":      {},
}

// rpcInternalError is a convenience function to convert an internal error to
// an RPC error with the appropriate code set.  It also logs the error to the
// RPC server subsystem since internal errors really should not occur.  The
// context parameter is only used in the log message and may be empty if it's
// not needed.
func rpcInternalError(errStr, context string) *dcrjson.RPCError {
	logStr := errStr
	if context != "" {
		logStr = context + ": " + errStr
	}
	log.Error(logStr)
	return dcrjson.NewRPCError(dcrjson.ErrRPCInternal.Code, errStr)
}

// rpcInvalidError is a convenience function to convert an invalid parameter
// error to an RPC error with the appropriate code set.
func rpcInvalidError(fmtStr string, args ...interface{}) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCInvalidParameter,
		fmt.Sprintf(fmtStr, args...))
}

// rpcDeserializationError is a convenience function to convert a
// deserialization error to an RPC error with the appropriate code set.
func rpcDeserializationError(fmtStr string, args ...interface{}) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCDeserialization,
		fmt.Sprintf(fmtStr, args...))
}

// rpcDecodeHexError is a convenience function for returning a nicely formatted
// RPC error which indicates the provided hex string failed to decode.
func rpcDecodeHexError(gotHex string) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCDecodeHexString,
		fmt.Sprintf("Argument must be hexadecimal string (not %q)",
			gotHex))
}

// rpcClientNotConnectedError is a convenience function for returning an RPC
// error which indicates the server is not connected to the network.
func rpcClientNotConnectedError(message string) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCClientNotConnected, message)
}

// rpcMiscError is a convenience function for returning a nicely formatted RPC
// error which indicates there is an unquantifiable error.  Use this sparingly;
// misc return codes are a cop out.
func rpcMiscError(message string) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCMisc, message)
}

// getDifficultyRatio returns the proof-of-work difficulty as a multiple of
// the minimum difficulty using the passed bits field from the header of a
// block.
func getDifficultyRatio(bits uint32, params *chaincfg.Params) float64 {
	// The minimum difficulty is the max possible proof-of-work limit bits
	// converted back to a number.  Note this is not the same as the proof
	// of work limit directly because the block difficulty is encoded in a
	// block with the compact form which loses precision.
	max := standalone.CompactToBig(params.PowLimitBits)
	target := standalone.CompactToBig(bits)

	difficulty := new(big.Rat).SetFrac(max, target)
	outString := difficulty.FloatString(8)
	diff, err := strconv.ParseFloat(outString, 64)
	if err != nil {
		log.Errorf("Cannot get difficulty: %v", err)
		return 0
	}
	return diff
}

// handleEstimateFee implements the estimatefee command.
func handleEstimateFee(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.EstimateFeeCmd)

	nblocks := int(c.NumBlocks)
	if nblocks < 1 {
		nblocks = 1
	}
	estimate := s.cfg.TxMempooler.EstimateFee(nblocks)
	if estimate < 0 {
		return float64(-1), nil
	}
	return dcrutil.Amount(estimate).ToCoin(), nil
}

// handleEstimatePriority implements the estimatepriority command.
func handleEstimatePriority(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.EstimatePriorityCmd)

	nblocks := int(c.NumBlocks)
	if nblocks < 1 {
		nblocks = 1
	}
	return s.cfg.TxMempooler.EstimatePriority(nblocks), nil
}

// handleGenerate handles generate commands.
func handleGenerate(ctx context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.GenerateCmd)

	// Respond with an error when no blocks are requested.
	if c.NumBlocks == 0 {
		return nil, rpcInvalidError("Invalid number of blocks")
	}

	// Mine the correct number of blocks, assigning the hex representation
	// of the hash of each one to its place in the reply.
	blockHashes, err := s.cfg.CPUMiner.GenerateNBlocks(ctx, c.NumBlocks)
	if err != nil {
		if errors.Is(err, mining.ErrOnDemandMining) {
			return nil, rpcMiscError("This method can only be used on " +
				"networks that mine blocks on demand")
		}
		return nil, rpcInternalError(err.Error(), "Could not generate blocks")
	}
	reply := make([]string, 0, len(blockHashes))
	for _, hash := range blockHashes {
		reply = append(reply, hash.String())
	}
	return reply, nil
}

// handleGetBestBlockHash implements the getbestblockhash command.
func handleGetBestBlockHash(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	best := s.cfg.Chain.BestSnapshot()
	return best.Hash.String(), nil
}

// handleGetBlockCount implements the getblockcount command.
func handleGetBlockCount(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	best := s.cfg.Chain.BestSnapshot()
	return best.Height, nil
}

// handleGetBlockSubsidy implements the getblocksubsidy command.
func handleGetBlockSubsidy(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.GetBlockSubsidyCmd)

	height := s.cfg.Chain.BestSnapshot().Height
	if c.Height != nil {
		height = *c.Height
	}
	if height < 0 {
		return nil, rpcInvalidError("Block height out of range")
	}

	params := s.cfg.ChainParams
	subsidy := params.BlockSubsidy(height)
	founders := mining.FoundersReward(params, height)

	var streamTotal int64
	var streams []types.FundingStreamResult
	active := params.GetActiveFundingStreams(height)
	for i := range active {
		fs := &active[i]
		value := fs.ValueZat(subsidy)
		streamTotal += value
		streams = append(streams, types.FundingStreamResult{
			Recipient:     fs.Recipient,
			Specification: fs.Specification,
			Value:         dcrutil.Amount(value).ToCoin(),
			ValueZat:      value,
			Address:       params.RecipientAddress(fs, height),
		})
	}

	miner := subsidy - founders - streamTotal
	return types.GetBlockSubsidyResult{
		Miner:          dcrutil.Amount(miner).ToCoin(),
		Founders:       dcrutil.Amount(founders).ToCoin(),
		FundingStreams: streams,
	}, nil
}

// decodeLongPollID decodes the provided long poll identifier into the tip
// hash and transaction source counter it encodes.  The identifier is the
// concatenation of the hex-encoded tip hash and the decimal counter.
func decodeLongPollID(longPollID string) (chainhash.Hash, uint64, bool) {
	if len(longPollID) <= chainhash.MaxHashStringSize {
		return chainhash.Hash{}, 0, false
	}
	hash, err := chainhash.NewHashFromStr(longPollID[:chainhash.MaxHashStringSize])
	if err != nil {
		return chainhash.Hash{}, 0, false
	}
	counter, err := strconv.ParseUint(longPollID[chainhash.MaxHashStringSize:],
		10, 64)
	if err != nil {
		return chainhash.Hash{}, 0, false
	}
	return *hash, counter, true
}

// encodeLongPollID encodes a long poll identifier from the provided tip hash
// and transaction source counter.
func encodeLongPollID(tipHash *chainhash.Hash, counter uint64) string {
	return tipHash.String() + strconv.FormatUint(counter, 10)
}

// blockTemplateResult returns the getblocktemplate result for the provided
// block template and the transaction source counter it was built against.
func blockTemplateResult(s *Server, template *mining.BlockTemplate, counter uint64) (*types.GetBlockTemplateResult, error) {
	block := template.Block

	// Refresh the timestamp on a copy of the header so repeated calls for
	// the same cached template report the current time without mutating
	// the template shared with other consumers.
	header := block.Header
	s.cfg.TemplateSource.UpdateBlockTime(&header)

	// Convert each transaction in the block template to a template result
	// transaction.  The result does not include the coinbase, so notice
	// the adjustments to the various lengths and indices.
	numTx := len(block.Transactions)
	transactions := make([]types.GetBlockTemplateResultTx, 0, numTx-1)
	txIndex := make(map[chainhash.Hash]int64, numTx)
	for i, tx := range block.Transactions {
		if i == 0 {
			// The coinbase is reported separately and can never be
			// depended on.
			continue
		}

		// Create an array of 1-based indices to transactions that come
		// before this one in the transactions list which this one
		// depends on.
		depends := make([]int64, 0)
		for _, txIn := range tx.TxIn {
			if idx, ok := txIndex[txIn.PreviousOutPoint.Hash]; ok {
				depends = append(depends, idx)
			}
		}

		txBytes, err := tx.Bytes()
		if err != nil {
			return nil, rpcInternalError(err.Error(),
				"Could not serialize transaction")
		}
		txHash := tx.TxHash()
		transactions = append(transactions, types.GetBlockTemplateResultTx{
			Data:    hex.EncodeToString(txBytes),
			Hash:    txHash.String(),
			Depends: depends,
			Fee:     template.Fees[i],
			SigOps:  template.SigOpCounts[i],
		})
		txIndex[txHash] = int64(i)
	}

	coinbase := block.Transactions[0]
	coinbaseBytes, err := coinbase.Bytes()
	if err != nil {
		return nil, rpcInternalError(err.Error(),
			"Could not serialize coinbase")
	}
	coinbaseHash := coinbase.TxHash()
	coinbaseTxn := &types.GetBlockTemplateResultCoinbase{
		Data:           hex.EncodeToString(coinbaseBytes),
		Hash:           coinbaseHash.String(),
		Depends:        []int64{},
		Fee:            template.Fees[0],
		SigOps:         template.SigOpCounts[0],
		Required:       true,
		FoundersReward: template.FoundersReward,
	}

	commitments := header.BlockCommitments.String()
	return &types.GetBlockTemplateResult{
		Capabilities:         gbtCapabilities,
		Version:              header.Version,
		PreviousHash:         header.PrevBlock.String(),
		BlockCommitmentsHash: commitments,
		LightClientRootHash:  commitments,
		FinalSaplingRootHash: commitments,
		Transactions:         transactions,
		CoinbaseTxn:          coinbaseTxn,
		LongPollID:           encodeLongPollID(&template.PrevHash, counter),
		Target: fmt.Sprintf("%064x",
			standalone.CompactToBig(header.Bits)),
		MinTime:    template.MinTime.Unix(),
		Mutable:    gbtMutableFields,
		NonceRange: gbtNonceRange,
		SigOpLimit: mining.MaxSigOpsPerBlock,
		SizeLimit:  wire.MaxBlockPayload,
		CurTime:    header.Timestamp.Unix(),
		Bits:       fmt.Sprintf("%08x", header.Bits),
		Height:     template.Height,
	}, nil
}

// handleGetBlockTemplateRequest is a helper for handleGetBlockTemplate which
// deals with generating and returning block templates to the caller.  When a
// long poll identifier is provided, the call blocks until the identified
// template has gone stale.
func handleGetBlockTemplateRequest(ctx context.Context, s *Server, request *types.TemplateRequest) (interface{}, error) {
	// Templates for networks that mine blocks on demand are served without
	// regard for connectivity since those networks have no peers by
	// design.
	if !s.cfg.ChainParams.MineBlocksOnDemand {
		if s.cfg.ConnMgr.ConnectedCount() == 0 {
			return nil, rpcClientNotConnectedError("Zcash is not connected")
		}
		if !s.cfg.Chain.IsCurrent() {
			return nil, dcrjson.NewRPCError(
				dcrjson.ErrRPCClientInInitialDownload,
				"Zcash is downloading blocks...")
		}
	}

	force := false
	if request != nil && request.LongPollID != "" {
		watchedHash, counter, ok := decodeLongPollID(request.LongPollID)
		if !ok {
			// A malformed identifier waits against the current state
			// rather than failing so sloppy clients still long poll.
			best := s.cfg.Chain.BestSnapshot()
			watchedHash = best.Hash
			counter = s.cfg.TxMempooler.TransactionsUpdated()
		}

		reason := s.cfg.TemplateSource.Wait(ctx, watchedHash, counter)
		if reason == mining.WakeReasonServiceStopping {
			return nil, rpcClientNotConnectedError("Server shutting down")
		}
		log.Debugf("Long poll wait for %v returned: %v", watchedHash, reason)

		// A wake always means the watched template is stale.
		force = true
	}

	template, counter, err := s.cfg.TemplateSource.GetTemplate(force)
	if err != nil {
		return nil, rpcInternalError(err.Error(),
			"Could not build block template")
	}
	return blockTemplateResult(s, template, counter)
}

// handleGetBlockTemplateProposal is a helper for handleGetBlockTemplate which
// deals with block proposals.  The return value is one of the getblocktemplate
// proposal rejection reasons, or nil when the proposed block would be accepted
// as the next best chain tip.
func handleGetBlockTemplateProposal(_ context.Context, s *Server, request *types.TemplateRequest) (interface{}, error) {
	hexData := request.Data
	if hexData == "" {
		return false, rpcInvalidError("Data must contain the hex-encoded " +
			"serialized block that is being proposed")
	}

	// Ensure the provided data is sane and deserialize the proposed block.
	if len(hexData)%2 != 0 {
		hexData = "0" + hexData
	}
	data, err := hex.DecodeString(hexData)
	if err != nil {
		return false, rpcDeserializationError("Data must be "+
			"hexadecimal string: %v", err)
	}
	var block wire.MsgBlock
	if err := block.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, rpcDeserializationError("Block decode failed: %v", err)
	}

	// Reuse the verdict already reached for blocks the chain has seen.
	blockHash := block.BlockHash()
	status := s.cfg.Chain.BlockStatus(&blockHash)
	switch {
	case status.KnownValid():
		return "duplicate", nil
	case status.KnownInvalid():
		return "duplicate-invalid", nil
	case status.HaveData():
		return "duplicate-inconclusive", nil
	}

	best := s.cfg.Chain.BestSnapshot()
	if block.Header.PrevBlock != best.Hash {
		return "inconclusive-not-best-prevblk", nil
	}

	if err := s.cfg.Chain.CheckBlockValidity(&block); err != nil {
		reason := blockchain.RejectReason(err)
		if reason == "" {
			return nil, rpcInternalError(err.Error(),
				"Could not process block proposal")
		}
		log.Infof("Rejected block proposal %v: %v", blockHash, err)
		return reason, nil
	}
	return nil, nil
}

// handleGetBlockTemplate implements the getblocktemplate command.
//
// See https://en.bitcoin.it/wiki/BIP_0022 for more details.
func handleGetBlockTemplate(ctx context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.GetBlockTemplateCmd)
	request := c.Request

	// Templates cannot be built, and proposals cannot be judged against a
	// hypothetical next block, without an address to pay the coinbase to.
	// The method-not-found code mirrors how a node without a configured
	// miner address reports the method as unavailable.
	if _, err := s.cfg.AddressSource.MinerAddress(); err != nil {
		return nil, dcrjson.NewRPCError(dcrjson.ErrRPCMethodNotFound.Code,
			"No miner addresses available: "+err.Error())
	}

	// Set the default mode and override it if supplied.
	mode := "template"
	if request != nil && request.Mode != "" {
		mode = request.Mode
	}

	switch mode {
	case "template":
		return handleGetBlockTemplateRequest(ctx, s, request)
	case "proposal":
		return handleGetBlockTemplateProposal(ctx, s, request)
	}

	return nil, rpcInvalidError("Invalid mode: %v", mode)
}

// handleGetDifficulty implements the getdifficulty command.
func handleGetDifficulty(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	best := s.cfg.Chain.BestSnapshot()
	return getDifficultyRatio(best.Bits, s.cfg.ChainParams), nil
}

// handleGetGenerate implements the getgenerate command.
func handleGetGenerate(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	return s.cfg.CPUMiner.IsMining(), nil
}

// handleGetLocalSolPs implements the getlocalsolps command.
func handleGetLocalSolPs(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	return s.cfg.CPUMiner.HashesPerSecond(), nil
}

// handleGetMiningInfo implements the getmininginfo command.  We only return
// the fields that are not related to wallet functionality.
func handleGetMiningInfo(ctx context.Context, s *Server, _ interface{}) (interface{}, error) {
	networkSolPs, err := calcNetworkSolPs(s, defaultNetworkSolPsBlocks, -1)
	if err != nil {
		return nil, err
	}

	best := s.cfg.Chain.BestSnapshot()
	result := types.GetMiningInfoResult{
		Blocks:           best.Height,
		CurrentBlockSize: best.BlockSize,
		CurrentBlockTx:   best.NumTxns,
		Difficulty:       getDifficultyRatio(best.Bits, s.cfg.ChainParams),
		Errors:           "",
		GenProcLimit:     s.cfg.CPUMiner.GenProcLimit(),
		LocalSolPs:       s.cfg.CPUMiner.HashesPerSecond(),
		NetworkSolPs:     networkSolPs,
		NetworkHashPs:    networkSolPs,
		PooledTx:         uint64(s.cfg.TxMempooler.Count()),
		Testnet:          s.cfg.TestNet,
		Chain:            s.cfg.ChainParams.Name,
		Generate:         s.cfg.CPUMiner.IsMining(),
	}
	return &result, nil
}

// calcNetworkSolPs returns the estimated network solutions per second derived
// from the total chain work over the requested number of blocks ending at the
// requested height.  A non-positive block count averages over the difficulty
// adjustment window, and a negative height means the current best height.
func calcNetworkSolPs(s *Server, blocks, height int) (int64, error) {
	best := s.cfg.Chain.BestSnapshot()
	endHeight := best.Height
	if height >= 0 && int64(height) < best.Height {
		endHeight = int64(height)
	}

	lookup := int64(blocks)
	if lookup <= 0 {
		lookup = s.cfg.ChainParams.PowAveragingWindow
	}
	if lookup > endHeight {
		lookup = endHeight
	}
	if lookup == 0 {
		return 0, nil
	}

	log.Debugf("Calculating network solutions per second from %d to %d",
		endHeight-lookup+1, endHeight)

	totalWork := new(big.Int)
	var minTimestamp, maxTimestamp time.Time
	for curHeight := endHeight - lookup + 1; curHeight <= endHeight; curHeight++ {
		header, err := s.cfg.Chain.HeaderByHeight(curHeight)
		if err != nil {
			return 0, rpcInternalError(err.Error(), "Could not fetch header")
		}

		totalWork.Add(totalWork, standalone.CalcWork(header.Bits))
		if minTimestamp.IsZero() || header.Timestamp.Before(minTimestamp) {
			minTimestamp = header.Timestamp
		}
		if header.Timestamp.After(maxTimestamp) {
			maxTimestamp = header.Timestamp
		}
	}

	timeDiff := int64(maxTimestamp.Sub(minTimestamp) / time.Second)
	if timeDiff == 0 {
		return 0, nil
	}
	return new(big.Int).Div(totalWork, big.NewInt(timeDiff)).Int64(), nil
}

// handleGetNetworkSolPs implements the getnetworksolps command.
func handleGetNetworkSolPs(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.GetNetworkSolPsCmd)

	blocks := defaultNetworkSolPsBlocks
	if c.Blocks != nil {
		blocks = *c.Blocks
	}
	height := -1
	if c.Height != nil {
		height = *c.Height
	}
	return calcNetworkSolPs(s, blocks, height)
}

// handleGetNetworkHashPS implements the getnetworkhashps command, which is an
// alias of getnetworksolps retained for bitcoind API compatibility.
func handleGetNetworkHashPS(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.GetNetworkHashPSCmd)

	blocks := defaultNetworkSolPsBlocks
	if c.Blocks != nil {
		blocks = *c.Blocks
	}
	height := -1
	if c.Height != nil {
		height = *c.Height
	}
	return calcNetworkSolPs(s, blocks, height)
}

// handleHelp implements the help command.
func handleHelp(_ context.Context, _ *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.HelpCmd)

	// Provide a usage overview of all commands when no specific command
	// was specified.
	var method string
	if c.Command != nil {
		method = *c.Command
	}
	if method == "" {
		methods := make([]string, 0, len(rpcHandlers))
		for m := range rpcHandlers {
			methods = append(methods, string(m))
		}
		sort.Strings(methods)
		return strings.Join(methods, "\n"), nil
	}

	// Check that the command asked for is supported and implemented.
	if _, ok := rpcHandlers[types.Method(method)]; !ok {
		return nil, rpcInvalidError("Unknown method: %v", method)
	}
	usage, err := dcrjson.MethodUsageText(types.Method(method))
	if err != nil {
		return nil, rpcInternalError(err.Error(), "Could not generate usage")
	}
	return usage, nil
}

// handlePrioritiseTransaction implements the prioritisetransaction command.
func handlePrioritiseTransaction(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.PrioritiseTransactionCmd)

	txHash, err := chainhash.NewHashFromStr(c.TxID)
	if err != nil {
		return nil, rpcDecodeHexError(c.TxID)
	}

	// The deltas are recorded even when the transaction is not currently
	// in the pool so they take effect if it arrives later.
	s.cfg.TxMempooler.PrioritiseTransaction(txHash, c.PriorityDelta,
		c.FeeDelta)
	return true, nil
}

// handleSetGenerate implements the setgenerate command.
func handleSetGenerate(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.SetGenerateCmd)

	// Networks that mine blocks on demand use the generate method instead
	// of continuous background generation.
	if s.cfg.ChainParams.MineBlocksOnDemand {
		return nil, rpcMiscError("Use the generate method instead of " +
			"setgenerate on this network")
	}

	genProcLimit := -1
	if c.GenProcLimit != nil {
		genProcLimit = *c.GenProcLimit
	}

	// Disable generation regardless of the provided generate flag when the
	// client explicitly requests zero processors.
	generate := c.Generate
	if genProcLimit == 0 {
		generate = false
	}

	if generate {
		if _, err := s.cfg.AddressSource.MinerAddress(); err != nil {
			return nil, rpcInternalError("No miner addresses available: "+
				err.Error(), "Configuration")
		}
	}
	s.cfg.CPUMiner.SetGenerate(generate, genProcLimit)
	return nil, nil
}

// handleStop implements the stop command.
func handleStop(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	select {
	case s.requestProcessShutdown <- struct{}{}:
	default:
	}
	return "zcash server stopping", nil
}

// handleSubmitBlock implements the submitblock command.
func handleSubmitBlock(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.SubmitBlockCmd)

	// Deserialize the submitted block.
	hexStr := c.HexBlock
	if len(hexStr)%2 != 0 {
		hexStr = "0" + c.HexBlock
	}
	serializedBlock, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, rpcDeserializationError("Block decode failed: %v", err)
	}
	var block wire.MsgBlock
	if err := block.Deserialize(bytes.NewReader(serializedBlock)); err != nil {
		return nil, rpcDeserializationError("Block decode failed: %v", err)
	}

	// Report the verdict already reached for blocks the chain has seen
	// without reprocessing them.
	blockHash := block.BlockHash()
	status := s.cfg.Chain.BlockStatus(&blockHash)
	switch {
	case status.KnownValid():
		return "duplicate", nil
	case status.KnownInvalid():
		return "duplicate-invalid", nil
	case status.HaveData():
		return "duplicate-inconclusive", nil
	}

	// Register a transient observer before processing so the verdict for
	// this specific submission is caught even when another submitter races
	// the same block in.  The callback matches on the block pointer, which
	// only this submission passes.
	var verdict error
	var caught bool
	unsubscribe := s.cfg.Chain.SubscribeBlockChecked(
		func(b *wire.MsgBlock, err error) {
			if b == &block {
				verdict, caught = err, true
			}
		})
	processErr := s.cfg.Chain.ProcessBlock(&block)
	unsubscribe()
	if !caught {
		verdict = processErr
	}

	if verdict != nil {
		// A block another submitter raced in reports its recorded verdict
		// rather than a processing error.
		if errors.Is(verdict, blockchain.ErrDuplicateBlock) {
			status := s.cfg.Chain.BlockStatus(&blockHash)
			switch {
			case status.KnownValid():
				return "duplicate", nil
			case status.KnownInvalid():
				return "duplicate-invalid", nil
			}
			return "duplicate-inconclusive", nil
		}

		reason := blockchain.RejectReason(verdict)
		if reason == "" {
			return nil, rpcInternalError(verdict.Error(),
				"Could not process block")
		}
		log.Infof("Rejected block %v via submitblock: %v", blockHash,
			verdict)
		return reason, nil
	}

	// An accepted block that did not become the new best chain tip was
	// stored on a side chain, so the submitter gets no definite answer.
	best := s.cfg.Chain.BestSnapshot()
	if best.Hash != blockHash {
		return "inconclusive", nil
	}

	log.Infof("Accepted block %s via submitblock", blockHash)
	return nil, nil
}

// Server provides a concurrent safe RPC server to a Zcash mining node.
type Server struct {
	numClients atomic.Int32

	cfg                    Config
	hmac                   hash.Hash
	hmacMu                 sync.Mutex
	authsha                [sha256.Size]byte
	limitauthsha           [sha256.Size]byte
	ntfnMgr                *wsNotificationManager
	statusLines            map[int]string
	statusLock             sync.RWMutex
	wg                     sync.WaitGroup
	requestProcessShutdown chan struct{}
}

// httpStatusLine returns a response Status-Line (RFC 2616 Section 6.1) for
// the given request and response status code.  This function was lifted and
// adapted from the standard library HTTP server code since it's not exported.
func (s *Server) httpStatusLine(req *http.Request, code int) string {
	// Fast path:
	key := code
	proto11 := req.ProtoAtLeast(1, 1)
	if !proto11 {
		key = -key
	}
	s.statusLock.RLock()
	line, ok := s.statusLines[key]
	s.statusLock.RUnlock()
	if ok {
		return line
	}

	// Slow path:
	proto := "HTTP/1.0"
	if proto11 {
		proto = "HTTP/1.1"
	}
	codeStr := strconv.Itoa(code)
	text := http.StatusText(code)
	if text != "" {
		line = proto + " " + codeStr + " " + text + "\r\n"
		s.statusLock.Lock()
		s.statusLines[key] = line
		s.statusLock.Unlock()
	} else {
		text = "status code " + codeStr
		line = proto + " " + codeStr + " " + text + "\r\n"
	}

	return line
}

// writeHTTPResponseHeaders writes the necessary response headers prior to
// writing an HTTP body given a request to use for protocol negotiation,
// headers to write, a status code, and a writer.
func (s *Server) writeHTTPResponseHeaders(req *http.Request, headers http.Header, code int, w io.Writer) error {
	_, err := io.WriteString(w, s.httpStatusLine(req, code))
	if err != nil {
		return err
	}

	err = headers.Write(w)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, "\r\n")
	return err
}

// shutdown terminates the processes of the rpc server.
func (s *Server) shutdown() error {
	log.Warnf("RPC server shutting down")
	for _, listener := range s.cfg.Listeners {
		err := listener.Close()
		if err != nil {
			log.Errorf("Problem shutting down rpc: %v", err)
			return err
		}
	}
	s.wg.Wait()
	log.Infof("RPC server shutdown complete")
	return nil
}

// RequestedProcessShutdown returns a channel that is sent to when an
// authorized RPC client requests the process to shutdown.  If the request can
// not be read immediately, it is dropped.
func (s *Server) RequestedProcessShutdown() <-chan struct{} {
	return s.requestProcessShutdown
}

// NotifyBlockConnected notifies websocket clients that have registered for
// block updates when a block is connected to the main chain.
func (s *Server) NotifyBlockConnected(block *wire.MsgBlock, height int64) {
	s.ntfnMgr.NotifyBlockConnected(block, height)
}

// limitConnections responds with a 503 service unavailable and returns true
// if adding another client would exceed the maximum allow RPC clients.
//
// This function is safe for concurrent access.
func (s *Server) limitConnections(w http.ResponseWriter, remoteAddr string) bool {
	if int(s.numClients.Load()+1) > s.cfg.RPCMaxClients {
		log.Infof("Max RPC clients exceeded [%d] - "+
			"disconnecting client %s", s.cfg.RPCMaxClients,
			remoteAddr)
		http.Error(w, "503 Too busy.  Try again later.",
			http.StatusServiceUnavailable)
		return true
	}
	return false
}

// incrementClients adds one to the number of connected RPC clients.  Note
// this only applies to standard clients.  Websocket clients have their own
// limits and are tracked separately.
//
// This function is safe for concurrent access.
func (s *Server) incrementClients() {
	s.numClients.Add(1)
}

// decrementClients subtracts one from the number of connected RPC clients.
// Note this only applies to standard clients.  Websocket clients have their
// own limits and are tracked separately.
//
// This function is safe for concurrent access.
func (s *Server) decrementClients() {
	s.numClients.Add(-1)
}

// authMAC calculates the MAC (currently HMAC-SHA256) of an Authorization
// header, keyed with a random key created during server creation.  The MAC is
// appended to dst, and the appended slice is returned.
func (s *Server) authMAC(dst, auth []byte) []byte {
	s.hmacMu.Lock()
	s.hmac.Reset()
	s.hmac.Write(auth)
	dst = s.hmac.Sum(dst)
	s.hmacMu.Unlock()
	return dst
}

// checkAuthMAC checks the HTTP Basic authentication string by comparing it
// with the already generated hash.
//
// The first bool return value signifies auth success (true if successful) and
// the second bool return value specifies whether the user can change the
// state of the server (true) or whether the user is limited (false).
func (s *Server) checkAuthMAC(auth, remoteAddr string) (bool, bool) {
	mac := make([]byte, 0, sha256.Size)
	mac = s.authMAC(mac, []byte(auth))

	cmp := subtle.ConstantTimeCompare(mac, s.authsha[:])
	limitcmp := subtle.ConstantTimeCompare(mac, s.limitauthsha[:])
	if cmp|limitcmp == 0 {
		// Request's auth doesn't match either user
		log.Warnf("RPC authentication failure from %s", remoteAddr)
		return false, false
	}
	return true, cmp == 1
}

// checkAuthUserPass checks the correctness of username and password by
// generating the corresponding HTTP Basic authentication string then compare
// the string with the already generated hash.
//
// The first bool return value signifies auth success (true if successful) and
// the second bool return value specifies whether the user can change the
// state of the server (true) or whether the user is limited (false).
func (s *Server) checkAuthUserPass(user, pass, remoteAddr string) (bool, bool) {
	login := user + ":" + pass
	auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(login))
	return s.checkAuthMAC(auth, remoteAddr)
}

// checkAuth checks the HTTP Basic authentication supplied by a wallet or RPC
// client in the HTTP request r.  If the supplied authentication does not
// match the username and password expected, a non-nil error is returned.
//
// This check is time-constant.
//
// The first bool return value signifies auth success (true if successful) and
// the second bool return value specifies whether the user can change the
// state of the server (true) or whether the user is limited (false).  The
// second is always false if the first is.
func (s *Server) checkAuth(r *http.Request, require bool) (bool, bool, error) {
	// If admin-level RPC user and pass options are not set, this always
	// succeeds.  This will be the case when TLS client certificates are
	// being used for authentication.
	if s.authsha == ([32]byte{}) {
		return true, true, nil
	}

	authhdr := r.Header["Authorization"]
	if len(authhdr) == 0 {
		if require {
			log.Warnf("RPC authentication failure from %s",
				r.RemoteAddr)
			return false, false, errors.New("auth failure")
		}

		return false, false, nil
	}

	authed, isAdmin := s.checkAuthMAC(authhdr[0], r.RemoteAddr)
	if !authed {
		return false, false, errors.New("auth failure")
	}
	return authed, isAdmin, nil
}

// parsedRPCCmd represents a JSON-RPC request object that has been parsed into
// a known concrete command along with any error that might have happened
// while parsing it.
type parsedRPCCmd struct {
	jsonrpc string
	id      interface{}
	method  types.Method
	params  interface{}
	err     *dcrjson.RPCError
}

// standardCmdResult checks that a parsed command is a standard JSON-RPC
// command and runs the appropriate handler to reply to the command.  Any
// commands which are not recognized or not implemented will return an error
// suitable for use in replies.
func (s *Server) standardCmdResult(ctx context.Context, cmd *parsedRPCCmd) (interface{}, error) {
	handler, ok := rpcHandlers[cmd.method]
	if !ok {
		return nil, dcrjson.ErrRPCMethodNotFound
	}

	return handler(ctx, s, cmd.params)
}

// parseCmd parses a JSON-RPC request object into known concrete command.  The
// err field of the returned parsedRPCCmd struct will contain an RPC error
// that is suitable for use in replies if the command is invalid in some way
// such as an unregistered command or invalid parameters.
func parseCmd(request *dcrjson.Request) *parsedRPCCmd {
	method := types.Method(request.Method)
	parsedCmd := parsedRPCCmd{
		jsonrpc: request.Jsonrpc,
		id:      request.ID,
		method:  method,
	}

	params, err := dcrjson.ParseParams(method, request.Params)
	if err != nil {
		// Produce a relevant error when the requested method is not
		// registered depending on whether or not it is recognized as being
		// a wallet command, recognized as unimplemented, or completely
		// unrecognized.
		if errors.Is(err, dcrjson.ErrUnregisteredMethod) {
			parsedCmd.err = dcrjson.ErrRPCMethodNotFound
			if _, ok := rpcAskWallet[request.Method]; ok {
				parsedCmd.err = ErrRPCNoWallet
			} else if _, ok := rpcUnimplemented[request.Method]; ok {
				parsedCmd.err = ErrRPCUnimplemented
			}

			return &parsedCmd
		}

		// Otherwise, some type of invalid parameters is the cause, so
		// produce the equivalent RPC error.
		parsedCmd.err = rpcInvalidError("Failed to parse request: %v", err)
		return &parsedCmd
	}

	parsedCmd.params = params
	return &parsedCmd
}

// createMarshalledReply returns a new marshalled JSON-RPC response given the
// passed parameters.  It will automatically convert errors that are not of
// the type *dcrjson.RPCError to the appropriate type as needed.
func createMarshalledReply(rpcVersion string, id interface{}, result interface{}, replyErr error) ([]byte, error) {
	var jsonErr *dcrjson.RPCError
	if replyErr != nil && !errors.As(replyErr, &jsonErr) {
		jsonErr = rpcInternalError(replyErr.Error(), "")
	}

	return dcrjson.MarshalResponse(rpcVersion, id, result, jsonErr)
}

// processRequest determines the incoming request type (single or batched),
// parses it and returns a marshalled response.
func (s *Server) processRequest(ctx context.Context, request *dcrjson.Request, isAdmin bool) []byte {
	var result interface{}
	var jsonErr error

	if !isAdmin {
		if _, ok := rpcLimited[request.Method]; !ok {
			jsonErr = rpcInvalidError("limited user not " +
				"authorized for this method")
		}
	}

	if jsonErr == nil {
		if request.Method == "" {
			jsonErr = &dcrjson.RPCError{
				Code:    dcrjson.ErrRPCInvalidRequest.Code,
				Message: "Invalid request: malformed",
			}
			msg, err := createMarshalledReply(request.Jsonrpc, request.ID, result, jsonErr)
			if err != nil {
				log.Errorf("Failed to marshal reply: %v", err)
				return nil
			}
			return msg
		}

		// Valid requests with no ID (notifications) must not have a
		// response per the JSON-RPC spec.
		if request.ID == nil {
			return nil
		}

		// Attempt to parse the JSON-RPC request into a known concrete
		// command.
		parsedCmd := parseCmd(request)
		if parsedCmd.err != nil {
			jsonErr = parsedCmd.err
		} else {
			result, jsonErr = s.standardCmdResult(ctx, parsedCmd)
		}
	}

	// Marshal the response.
	msg, err := createMarshalledReply(request.Jsonrpc, request.ID, result, jsonErr)
	if err != nil {
		log.Errorf("Failed to marshal reply: %v", err)
		return nil
	}
	return msg
}

// jsonRPCRead handles reading and responding to RPC messages.
func (s *Server) jsonRPCRead(sCtx context.Context, w http.ResponseWriter, r *http.Request, isAdmin bool) {
	select {
	case <-sCtx.Done():
		return
	default:
	}

	// Read and close the JSON-RPC request body from the caller.
	bodyReader := io.LimitReader(r.Body, rpcReadLimitAuthenticated)
	body, err := io.ReadAll(bodyReader)
	r.Body.Close()
	if err != nil {
		errMsg := fmt.Sprintf("error reading JSON message: %v", err)
		errCode := http.StatusBadRequest
		http.Error(w, strconv.Itoa(errCode)+" "+errMsg, errCode)
		return
	}

	// Unfortunately, the http server doesn't provide the ability to change
	// the read deadline for the new connection and having one breaks long
	// polling.  However, not having a read deadline on the initial
	// connection would mean clients can connect and idle forever.  Thus,
	// hijack the connection from the HTTP server, clear the read deadline,
	// and handle writing the response manually.
	hj, ok := w.(http.Hijacker)
	if !ok {
		errMsg := "webserver doesn't support hijacking"
		log.Warnf(errMsg)
		errCode := http.StatusInternalServerError
		http.Error(w, strconv.Itoa(errCode)+" "+errMsg, errCode)
		return
	}

	conn, buf, err := hj.Hijack()
	if err != nil {
		log.Warnf("Failed to hijack HTTP connection: %v", err)
		errCode := http.StatusInternalServerError
		http.Error(w, strconv.Itoa(errCode)+" "+err.Error(), errCode)
		return
	}

	defer conn.Close()
	defer buf.Flush()
	conn.SetReadDeadline(timeZeroVal)
	// Setup a close notifier.  Since the connection is hijacked, the
	// CloseNotifier on the ResponseWriter is not available.
	ctx, cancel := context.WithCancel(sCtx)
	defer cancel()

	go func() {
		_, err := conn.Read(make([]byte, 1))
		if err != nil {
			cancel()
		}
	}()

	var results []json.RawMessage
	var batchSize int
	var batchedRequest bool

	// Determine request type
	if bytes.HasPrefix(body, batchedRequestPrefix) {
		batchedRequest = true
	}

	// Process a single request
	if !batchedRequest {
		var req dcrjson.Request
		var resp json.RawMessage
		err = json.Unmarshal(body, &req)
		if err != nil {
			jsonErr := &dcrjson.RPCError{
				Code:    dcrjson.ErrRPCParse.Code,
				Message: fmt.Sprintf("Failed to parse request: %v", err),
			}
			resp, err = dcrjson.MarshalResponse("1.0", nil, nil, jsonErr)
			if err != nil {
				log.Errorf("Failed to create reply: %v", err)
			}
		} else {
			resp = s.processRequest(ctx, &req, isAdmin)
		}

		if resp != nil {
			results = append(results, resp)
		}
	}

	// Process a batched request
	if batchedRequest {
		var batchedRequests []json.RawMessage
		var resp json.RawMessage
		err = json.Unmarshal(body, &batchedRequests)
		if err != nil {
			jsonErr := &dcrjson.RPCError{
				Code:    dcrjson.ErrRPCParse.Code,
				Message: fmt.Sprintf("Failed to parse request: %v", err),
			}
			resp, err = dcrjson.MarshalResponse("2.0", nil, nil, jsonErr)
			if err != nil {
				log.Errorf("Failed to create reply: %v", err)
			}

			if resp != nil {
				results = append(results, resp)
			}
		}

		if err == nil {
			// Response with an empty batch error if the batch size is
			// zero
			if len(batchedRequests) == 0 {
				jsonErr := &dcrjson.RPCError{
					Code:    dcrjson.ErrRPCInvalidRequest.Code,
					Message: "Invalid request: empty batch",
				}
				resp, err = dcrjson.MarshalResponse("2.0", nil, nil, jsonErr)
				if err != nil {
					log.Errorf("Failed to marshal reply: %v", err)
				}

				if resp != nil {
					results = append(results, resp)
				}
			}

			// Process each batch entry individually
			if len(batchedRequests) > 0 {
				batchSize = len(batchedRequests)

				for _, entry := range batchedRequests {
					var req dcrjson.Request
					err := json.Unmarshal(entry, &req)
					if err != nil {
						jsonErr := &dcrjson.RPCError{
							Code: dcrjson.ErrRPCInvalidRequest.Code,
							Message: fmt.Sprintf("Invalid request: %v",
								err),
						}
						resp, err = dcrjson.MarshalResponse("", nil, nil, jsonErr)
						if err != nil {
							log.Errorf("Failed to create reply: %v", err)
						}

						if resp != nil {
							results = append(results, resp)
						}
						continue
					}

					resp = s.processRequest(ctx, &req, isAdmin)
					if resp != nil {
						results = append(results, resp)
					}
				}
			}
		}
	}

	var msg = []byte{}
	if batchedRequest && batchSize > 0 {
		if len(results) > 0 {
			// Form the batched response json
			var buffer bytes.Buffer
			buffer.WriteByte('[')
			for idx, reply := range results {
				if idx == len(results)-1 {
					buffer.Write(reply)
					buffer.WriteByte(']')
					break
				}
				buffer.Write(reply)
				buffer.WriteByte(',')
			}
			msg = buffer.Bytes()
		}
	}

	if !batchedRequest || batchSize == 0 {
		// Respond with the first results entry for single requests
		if len(results) > 0 {
			msg = results[0]
		}
	}

	// Write the response.
	err = s.writeHTTPResponseHeaders(r, w.Header(), http.StatusOK, buf)
	if err != nil {
		log.Error(err)
		return
	}
	if _, err := buf.Write(msg); err != nil {
		log.Errorf("Failed to write marshalled reply: %v", err)
	}

	// Terminate with newline to maintain compatibility with Bitcoin Core.
	if err := buf.WriteByte('\n'); err != nil {
		log.Errorf("Failed to append terminating newline to reply: %v", err)
	}
}

// jsonAuthFail sends a message back to the client if the http auth is
// rejected.
func jsonAuthFail(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Basic realm="zcash RPC"`)
	http.Error(w, "401 Unauthorized.", http.StatusUnauthorized)
}

// logForwarder provides logic to forward log messages writing to an io.Writer
// to the rpcserver logger.
type logForwarder struct{}

// Write implements the io.Writer interface and forwards the message to the
// active rpcserver logger.
func (logForwarder) Write(p []byte) (int, error) {
	log.Error(strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}

// equalASCIIFold returns true if s is equal to t with ASCII case folding as
// defined in RFC 4790.  This function was lifted and from the gorilla
// websocket code since it's not exported.
func equalASCIIFold(s, t string) bool {
	for s != "" && t != "" {
		sr, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		tr, size := utf8.DecodeRuneInString(t)
		t = t[size:]
		if sr == tr {
			continue
		}
		if 'A' <= sr && sr <= 'Z' {
			sr = sr + 'a' - 'A'
		}
		if 'A' <= tr && tr <= 'Z' {
			tr = tr + 'a' - 'A'
		}
		if sr != tr {
			return false
		}
	}
	return s == t
}

// route sets up the endpoints of the rpc server.
func (s *Server) route(ctx context.Context) *http.Server {
	rpcServeMux := http.NewServeMux()
	httpServer := &http.Server{
		Handler: rpcServeMux,

		// Use the provided context as the parent context for all requests
		// to ensure handlers are able to react to both client disconnects
		// as well as shutdown via the provided context.
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},

		// Timeout connections which don't complete the initial handshake
		// within the allowed timeframe.
		ReadTimeout: time.Second * rpcAuthTimeoutSeconds,

		// Reroute http server error logging through the rpcserver logger.
		ErrorLog: stdlog.New(logForwarder{}, "", 0),
	}
	rpcServeMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "close")
		w.Header().Set("Content-Type", "application/json")
		r.Close = true

		// Limit the number of connections to max allowed.
		if s.limitConnections(w, r.RemoteAddr) {
			return
		}

		// Keep track of the number of connected clients.
		s.incrementClients()
		defer s.decrementClients()
		_, isAdmin, err := s.checkAuth(r, true)
		if err != nil {
			jsonAuthFail(w)
			return
		}

		// Read and respond to the request.
		s.jsonRPCRead(r.Context(), w, r, isAdmin)
	})

	// Websocket endpoint.  There is no in-band authentication command, so
	// credentials are required before the connection is upgraded.
	rpcServeMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		authenticated, isAdmin, err := s.checkAuth(r, true)
		if err != nil {
			jsonAuthFail(w)
			return
		}

		// Attempt to upgrade the connection to a websocket connection
		// using the default size for read/write buffers and impose a read
		// limit that depends on whether or not the connection is
		// authenticated yet.
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow requests with no origin header set.
				origin := r.Header["Origin"]
				if len(origin) == 0 {
					return true
				}

				// Reject requests with origin headers that are not
				// valid URLs.
				originURL, err := url.Parse(origin[0])
				if err != nil {
					return false
				}

				// Allow local resources on browsers that set the origin
				// header for them.  In particular:
				// - Firefox which sets it to "null"
				// - Chrome which sets it to "file://"
				// - Edge which sets it to "file://"
				if originURL.Scheme == "file" || originURL.Path == "null" {
					return true
				}

				// Strip the port from both the origin and request hosts.
				originHost := originURL.Host
				requestHost := r.Host
				if host, _, err := net.SplitHostPort(originHost); err != nil {
					originHost = host
				}
				if host, _, err := net.SplitHostPort(requestHost); err != nil {
					requestHost = host
				}

				// Reject mismatched hosts.
				return equalASCIIFold(originHost, requestHost)
			},
		}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			var herr websocket.HandshakeError
			if !errors.As(err, &herr) {
				log.Errorf("Unexpected websocket error: %v", err)
			}
			return
		}
		ws.SetPingHandler(func(payload string) error {
			log.Debugf("ping received: len %d", len(payload))
			var netErr net.Error
			err := ws.WriteControl(websocket.PongMessage, []byte(payload),
				time.Now().Add(websocketPongTimeout))
			if err != nil && !errors.Is(err, websocket.ErrCloseSent) &&
				!(errors.As(err, &netErr) && netErr.Timeout()) {

				log.Errorf("Failed to send pong: %v", err)
				return err
			}
			return nil
		})
		ws.SetPongHandler(func(payload string) error {
			log.Debugf("pong received: len %d", len(payload))
			return nil
		})
		if !authenticated {
			ws.SetReadLimit(websocketReadLimitUnauthenticated)
		} else {
			ws.SetReadLimit(websocketReadLimitAuthenticated)
		}
		s.WebsocketHandler(r.Context(), ws, r.RemoteAddr, authenticated,
			isAdmin)
	})
	return httpServer
}

// Run starts the rpc server and its listeners.  It blocks until the provided
// context is cancelled.
func (s *Server) Run(ctx context.Context) {
	log.Trace("Starting RPC server")
	server := s.route(ctx)
	for _, listener := range s.cfg.Listeners {
		s.wg.Add(1)
		go func(listener net.Listener) {
			log.Infof("RPC server listening on %s", listener.Addr())
			server.Serve(listener)
			log.Tracef("RPC listener done for %s", listener.Addr())
			s.wg.Done()
		}(listener)
	}

	// Push connected blocks to websocket clients that subscribed for them.
	unsubscribe := s.cfg.Chain.SubscribeBlockConnected(
		func(block *wire.MsgBlock, height int64) {
			s.ntfnMgr.NotifyBlockConnected(block, height)
		})
	defer unsubscribe()

	s.ntfnMgr.Run(ctx)
	err := s.shutdown()
	if err != nil {
		log.Error(err)
		return
	}
}

// Config is a descriptor containing the RPC server configuration.
type Config struct {
	// Listeners defines a slice of listeners for which the RPC server will
	// take ownership of and accept connections.  Since the RPC server
	// takes ownership of these listeners, they will be closed when the RPC
	// server is stopped.
	Listeners []net.Listener

	// StartupTime is the unix timestamp for when the server that is
	// hosting the RPC server started.
	StartupTime int64

	// ConnMgr defines the connection manager for the RPC server to use.
	ConnMgr ConnManager

	// These fields allow the RPC server to interface with the local block
	// chain data and state.
	Chain       Chain
	ChainParams *chaincfg.Params

	// TxMempooler defines the transaction memory pool to interact with.
	TxMempooler TxMempooler

	// These fields allow the RPC server to interface with mining.
	//
	// TemplateSource provides block templates and the long-poll wait
	// protocol, CPUMiner solves templates using the CPU.  CPU mining is
	// typically only useful for test purposes when doing regression or
	// simulation testing.
	TemplateSource TemplateSource
	CPUMiner       CPUMiner

	// AddressSource provides the miner addresses coinbases pay to.
	AddressSource mining.AddressSource

	// These fields define the username and password for RPC connections
	// and limited RPC connections.
	RPCUser      string
	RPCPass      string
	RPCLimitUser string
	RPCLimitPass string

	// RPCMaxClients defines the max number of RPC clients for standard
	// connections.
	RPCMaxClients int

	// RPCMaxWebsockets defines the max number of RPC websocket
	// connections.
	RPCMaxWebsockets int

	// TestNet represents whether or not the server is using testnet.
	TestNet bool
}

// New returns a new instance of the Server struct.
func New(config *Config) (*Server, error) {
	rpc := Server{
		cfg:                    *config,
		statusLines:            make(map[int]string),
		requestProcessShutdown: make(chan struct{}),
	}
	key := make([]byte, 32)
	rand.Read(key)
	rpc.hmac = hmac.New(sha256.New, key)
	if config.RPCUser != "" && config.RPCPass != "" {
		login := config.RPCUser + ":" + config.RPCPass
		auth := "Basic " +
			base64.StdEncoding.EncodeToString([]byte(login))
		rpc.authMAC(rpc.authsha[:0], []byte(auth))
	}
	if config.RPCLimitUser != "" && config.RPCLimitPass != "" {
		login := config.RPCLimitUser + ":" + config.RPCLimitPass
		auth := "Basic " +
			base64.StdEncoding.EncodeToString([]byte(login))
		rpc.authMAC(rpc.limitauthsha[:0], []byte(auth))
	}
	rpc.ntfnMgr = newWsNotificationManager(&rpc)

	return &rpc, nil
}

func init() {
	rpcHandlers = rpcHandlersBeforeInit
}
