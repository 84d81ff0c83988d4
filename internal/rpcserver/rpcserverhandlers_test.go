// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrjson/v4"
	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/internal/blockchain"
	"github.com/zingolabs/zcash/internal/mempool"
	"github.com/zingolabs/zcash/internal/mining"
	"github.com/zingolabs/zcash/internal/mining/cpuminer"
	"github.com/zingolabs/zcash/rpc/jsonrpc/types"
	"github.com/zingolabs/zcash/wire"
)

// testAddressSource hands out a fixed transparent address and records
// commitments.
type testAddressSource struct {
	mtx       sync.Mutex
	exhausted bool
	kept      int
}

func (s *testAddressSource) MinerAddress() (mining.MinerAddress, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.exhausted {
		return nil, mining.Error{Err: mining.ErrAddressExhausted,
			Description: "no addresses remain"}
	}
	return mining.TransparentAddress{PayScript: []byte{0x51}}, nil
}

func (s *testAddressSource) KeepMinerAddress(mining.MinerAddress) {
	s.mtx.Lock()
	s.kept++
	s.mtx.Unlock()
}

// testConnMgr reports a configurable number of connected peers.
type testConnMgr struct {
	connectedCount int32
}

func (c *testConnMgr) ConnectedCount() int32 {
	return c.connectedCount
}

// testHarness wires an RPC server to real chain, mempool, template cache and
// CPU miner instances for the provided network.
type testHarness struct {
	server     *Server
	chain      *blockchain.Chain
	pool       *mempool.TxPool
	addrSource *testAddressSource
	templates  *mining.TemplateCache
	miner      *cpuminer.CPUMiner
	connMgr    *testConnMgr
}

func newTestHarness(t *testing.T, params *chaincfg.Params) *testHarness {
	t.Helper()

	chain, err := blockchain.New(&blockchain.Config{ChainParams: params})
	if err != nil {
		t.Fatalf("blockchain.New: %v", err)
	}
	pool := mempool.New()
	addrSource := &testAddressSource{}
	templates := mining.NewTemplateCache(&mining.Config{
		Chain:         chain,
		TxSource:      pool,
		ChainParams:   params,
		AddressSource: addrSource,
	})
	miner := cpuminer.New(&cpuminer.Config{
		ChainParams:    params,
		Chain:          chain,
		TemplateSource: templates,
		AddressSource:  addrSource,
	})
	connMgr := &testConnMgr{connectedCount: 1}
	server, err := New(&Config{
		ConnMgr:        connMgr,
		Chain:          chain,
		ChainParams:    params,
		TxMempooler:    pool,
		TemplateSource: templates,
		CPUMiner:       miner,
		AddressSource:  addrSource,
		RPCMaxClients:  10,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testHarness{
		server:     server,
		chain:      chain,
		pool:       pool,
		addrSource: addrSource,
		templates:  templates,
		miner:      miner,
		connMgr:    connMgr,
	}
}

// assertRPCErrCode ensures the provided error is an RPC error with the given
// code.
func assertRPCErrCode(t *testing.T, err error, code dcrjson.RPCErrorCode) {
	t.Helper()

	var rpcErr *dcrjson.RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("got err %v, want RPC error with code %d", err, code)
	}
	if rpcErr.Code != code {
		t.Fatalf("got RPC error code %d, want %d", rpcErr.Code, code)
	}
}

// solveBlock searches the header nonce until the block satisfies its target
// difficulty, which is cheap on the regression test network.
func solveBlock(t *testing.T, block *wire.MsgBlock) {
	t.Helper()

	target := standalone.CompactToBig(block.Header.Bits)
	for i := uint64(0); i < 1<<20; i++ {
		binary.LittleEndian.PutUint64(block.Header.Nonce[:8], i)
		hash := block.Header.BlockHash()
		if standalone.HashToBig(&hash).Cmp(target) <= 0 {
			return
		}
	}
	t.Fatal("no proof of work solution found")
}

// solvedChildBlock returns a solved block extending the current best chain
// tip, built from the live template.  The extra nonce distinguishes multiple
// children of the same parent.
func solvedChildBlock(t *testing.T, h *testHarness, extraNonce uint64) *wire.MsgBlock {
	t.Helper()

	template, _, err := h.templates.GetTemplate(true)
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	block := &wire.MsgBlock{
		Header:       template.Block.Header,
		Transactions: make([]*wire.MsgTx, len(template.Block.Transactions)),
	}
	copy(block.Transactions, template.Block.Transactions)
	block.Transactions[0] = template.Block.Transactions[0].Copy()
	mining.UpdateExtraNonce(block, template.Height, extraNonce)
	solveBlock(t, block)
	return block
}

// blockHex returns the hex-encoded serialization of the provided block.
func blockHex(t *testing.T, block *wire.MsgBlock) string {
	t.Helper()

	blockBytes, err := block.Bytes()
	if err != nil {
		t.Fatalf("serialize block: %v", err)
	}
	return hex.EncodeToString(blockBytes)
}

// TestHandleGetBlockTemplate ensures template mode returns a well-formed
// result bound to the current tip.
func TestHandleGetBlockTemplate(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	result, err := handleGetBlockTemplate(context.Background(), h.server,
		&types.GetBlockTemplateCmd{})
	if err != nil {
		t.Fatalf("handleGetBlockTemplate: %v", err)
	}
	gbt, ok := result.(*types.GetBlockTemplateResult)
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}

	best := h.chain.BestSnapshot()
	if gbt.Height != best.Height+1 {
		t.Fatalf("template height got %d, want %d", gbt.Height,
			best.Height+1)
	}
	if gbt.PreviousHash != best.Hash.String() {
		t.Fatal("template not bound to the current tip")
	}
	if gbt.NonceRange != gbtNonceRange {
		t.Fatalf("noncerange got %q, want %q", gbt.NonceRange, gbtNonceRange)
	}
	if gbt.SigOpLimit != mining.MaxSigOpsPerBlock {
		t.Fatalf("sigoplimit got %d, want %d", gbt.SigOpLimit,
			mining.MaxSigOpsPerBlock)
	}
	if gbt.SizeLimit != wire.MaxBlockPayload {
		t.Fatalf("sizelimit got %d, want %d", gbt.SizeLimit,
			wire.MaxBlockPayload)
	}
	if gbt.Bits != fmt.Sprintf("%08x", best.Bits) {
		t.Fatalf("bits got %q, want %08x", gbt.Bits, best.Bits)
	}
	if gbt.CoinbaseTxn == nil || !gbt.CoinbaseTxn.Required {
		t.Fatal("coinbase transaction missing or not required")
	}
	if gbt.CurTime < gbt.MinTime {
		t.Fatal("current time earlier than the minimum template time")
	}

	watchedHash, _, valid := decodeLongPollID(gbt.LongPollID)
	if !valid || watchedHash != best.Hash {
		t.Fatalf("long poll id %q does not encode the tip", gbt.LongPollID)
	}

	// The coinbase document must deserialize back to a coinbase.
	cbBytes, err := hex.DecodeString(gbt.CoinbaseTxn.Data)
	if err != nil {
		t.Fatalf("coinbase data decode: %v", err)
	}
	var coinbase wire.MsgTx
	if err := coinbase.Deserialize(bytes.NewReader(cbBytes)); err != nil {
		t.Fatalf("coinbase deserialize: %v", err)
	}
	if !blockchain.IsCoinBaseTx(&coinbase) {
		t.Fatal("coinbase document is not a coinbase transaction")
	}
}

// TestHandleGetBlockTemplateErrors covers the precondition failures of the
// getblocktemplate command.
func TestHandleGetBlockTemplateErrors(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	// Unknown mode.
	_, err := handleGetBlockTemplate(context.Background(), h.server,
		&types.GetBlockTemplateCmd{Request: &types.TemplateRequest{
			Mode: "bogus",
		}})
	assertRPCErrCode(t, err, dcrjson.ErrRPCInvalidParameter)

	// No miner address available reports the method as unavailable.
	h.addrSource.exhausted = true
	_, err = handleGetBlockTemplate(context.Background(), h.server,
		&types.GetBlockTemplateCmd{})
	assertRPCErrCode(t, err, dcrjson.ErrRPCMethodNotFound.Code)
	h.addrSource.exhausted = false
}

// TestHandleGetBlockTemplateConnectivity ensures networks that do not mine
// blocks on demand refuse template requests without peers or before the
// initial sync completes.
func TestHandleGetBlockTemplateConnectivity(t *testing.T) {
	params := chaincfg.MainNetParams
	h := newTestHarness(t, &params)

	h.connMgr.connectedCount = 0
	_, err := handleGetBlockTemplate(context.Background(), h.server,
		&types.GetBlockTemplateCmd{})
	assertRPCErrCode(t, err, dcrjson.ErrRPCClientNotConnected)

	// With peers, the ancient chain tip means initial block download.
	h.connMgr.connectedCount = 8
	_, err = handleGetBlockTemplate(context.Background(), h.server,
		&types.GetBlockTemplateCmd{})
	assertRPCErrCode(t, err, dcrjson.ErrRPCClientInInitialDownload)
}

// TestHandleGetBlockTemplateProposal covers the proposal verdicts of the
// getblocktemplate command.
func TestHandleGetBlockTemplateProposal(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	propose := func(data string) (interface{}, error) {
		return handleGetBlockTemplate(context.Background(), h.server,
			&types.GetBlockTemplateCmd{Request: &types.TemplateRequest{
				Mode: "proposal",
				Data: data,
			}})
	}

	// Missing and malformed data.
	_, err := propose("")
	assertRPCErrCode(t, err, dcrjson.ErrRPCInvalidParameter)
	_, err = propose("zz")
	assertRPCErrCode(t, err, dcrjson.ErrRPCDeserialization)

	// A valid block extending the tip is accepted without being connected.
	block := solvedChildBlock(t, h, 0)
	result, err := propose(blockHex(t, block))
	if err != nil {
		t.Fatalf("valid proposal: %v", err)
	}
	if result != nil {
		t.Fatalf("valid proposal verdict got %v, want nil", result)
	}
	if h.chain.BestSnapshot().Height != 0 {
		t.Fatal("proposal mode mutated the chain")
	}

	// A bad merkle root is rejected with its reject reason.
	badMerkle := solvedChildBlock(t, h, 1)
	badMerkle.Header.MerkleRoot[0] ^= 0x01
	solveBlock(t, badMerkle)
	result, err = propose(blockHex(t, badMerkle))
	if err != nil {
		t.Fatalf("bad merkle proposal: %v", err)
	}
	if result != "bad-txnmrklroot" {
		t.Fatalf("verdict got %v, want bad-txnmrklroot", result)
	}

	// A proposal not building on the best tip is inconclusive.
	notBest := solvedChildBlock(t, h, 2)
	notBest.Header.PrevBlock[0] ^= 0xff
	result, err = propose(blockHex(t, notBest))
	if err != nil {
		t.Fatalf("not-best proposal: %v", err)
	}
	if result != "inconclusive-not-best-prevblk" {
		t.Fatalf("verdict got %v, want inconclusive-not-best-prevblk",
			result)
	}

	// A block the chain has already accepted is a duplicate.
	if err := h.chain.ProcessBlock(block); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	result, err = propose(blockHex(t, block))
	if err != nil {
		t.Fatalf("duplicate proposal: %v", err)
	}
	if result != "duplicate" {
		t.Fatalf("verdict got %v, want duplicate", result)
	}
}

// TestHandleGetBlockTemplateLongPoll ensures a stale long poll identifier
// returns a fresh template immediately and shutdown surfaces as a client
// disconnect error.
func TestHandleGetBlockTemplateLongPoll(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	// An identifier for a tip the chain has moved past wakes immediately.
	var staleHash chainhash.Hash
	staleHash[0] = 0x55
	result, err := handleGetBlockTemplate(context.Background(), h.server,
		&types.GetBlockTemplateCmd{Request: &types.TemplateRequest{
			LongPollID: encodeLongPollID(&staleHash, 0),
		}})
	if err != nil {
		t.Fatalf("stale long poll: %v", err)
	}
	gbt := result.(*types.GetBlockTemplateResult)
	if gbt.Height != 1 {
		t.Fatalf("template height got %d, want 1", gbt.Height)
	}

	// A malformed identifier behaves like a current one rather than
	// failing, so with a cancelled context the wait reports shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = handleGetBlockTemplate(ctx, h.server,
		&types.GetBlockTemplateCmd{Request: &types.TemplateRequest{
			LongPollID: "not-a-long-poll-id",
		}})
	assertRPCErrCode(t, err, dcrjson.ErrRPCClientNotConnected)

	// The same holds for a well-formed identifier of the current tip.
	_, err = handleGetBlockTemplate(ctx, h.server,
		&types.GetBlockTemplateCmd{Request: &types.TemplateRequest{
			LongPollID: encodeLongPollID(&h.chain.BestSnapshot().Hash,
				h.pool.TransactionsUpdated()),
		}})
	assertRPCErrCode(t, err, dcrjson.ErrRPCClientNotConnected)
}

// TestDecodeLongPollID ensures long poll identifiers round trip and malformed
// identifiers are rejected.
func TestDecodeLongPollID(t *testing.T) {
	var hash chainhash.Hash
	hash[0] = 0xab
	hash[31] = 0x01

	id := encodeLongPollID(&hash, 42)
	gotHash, gotCounter, valid := decodeLongPollID(id)
	if !valid {
		t.Fatalf("round trip of %q failed", id)
	}
	if gotHash != hash || gotCounter != 42 {
		t.Fatalf("round trip got (%v, %d), want (%v, 42)", gotHash,
			gotCounter, hash)
	}

	invalid := []string{
		"",
		"abcdef",
		strings.Repeat("z", 65),
		hash.String(),
		hash.String() + "12x4",
	}
	for _, id := range invalid {
		if _, _, valid := decodeLongPollID(id); valid {
			t.Fatalf("malformed id %q decoded successfully", id)
		}
	}
}

// TestHandleSubmitBlock covers acceptance, rejection and the duplicate
// verdicts of the submitblock command.
func TestHandleSubmitBlock(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	submit := func(hexBlock string) (interface{}, error) {
		return handleSubmitBlock(context.Background(), h.server,
			&types.SubmitBlockCmd{HexBlock: hexBlock})
	}

	// Malformed hex.
	_, err := submit("zz")
	assertRPCErrCode(t, err, dcrjson.ErrRPCDeserialization)

	// A valid block is accepted silently and extends the chain.
	block := solvedChildBlock(t, h, 0)
	result, err := submit(blockHex(t, block))
	if err != nil {
		t.Fatalf("submit valid block: %v", err)
	}
	if result != nil {
		t.Fatalf("verdict got %v, want nil", result)
	}
	best := h.chain.BestSnapshot()
	if best.Height != 1 || best.Hash != block.BlockHash() {
		t.Fatal("accepted block did not become the chain tip")
	}

	// Submitting the same block again reports a duplicate without
	// reprocessing.
	result, err = submit(blockHex(t, block))
	if err != nil {
		t.Fatalf("submit duplicate block: %v", err)
	}
	if result != "duplicate" {
		t.Fatalf("verdict got %v, want duplicate", result)
	}

	// A rule violation reports the reject reason, and resubmitting the
	// same invalid block reports the recorded verdict.
	invalid := solvedChildBlock(t, h, 1)
	invalid.Header.MerkleRoot[0] ^= 0x01
	solveBlock(t, invalid)
	result, err = submit(blockHex(t, invalid))
	if err != nil {
		t.Fatalf("submit invalid block: %v", err)
	}
	if result != "bad-txnmrklroot" {
		t.Fatalf("verdict got %v, want bad-txnmrklroot", result)
	}
	result, err = submit(blockHex(t, invalid))
	if err != nil {
		t.Fatalf("resubmit invalid block: %v", err)
	}
	if result != "duplicate-invalid" {
		t.Fatalf("verdict got %v, want duplicate-invalid", result)
	}
}

// TestHandleSubmitBlockSideChain ensures a valid block that does not become
// the new best tip gets an inconclusive verdict.
func TestHandleSubmitBlockSideChain(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	// Two competing children of the genesis block.
	first := solvedChildBlock(t, h, 0)
	second := solvedChildBlock(t, h, 7)
	if first.BlockHash() == second.BlockHash() {
		t.Fatal("competing blocks unexpectedly share a hash")
	}

	if err := h.chain.ProcessBlock(first); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}

	result, err := handleSubmitBlock(context.Background(), h.server,
		&types.SubmitBlockCmd{HexBlock: blockHex(t, second)})
	if err != nil {
		t.Fatalf("submit side chain block: %v", err)
	}
	if result != "inconclusive" {
		t.Fatalf("verdict got %v, want inconclusive", result)
	}
	if h.chain.BestSnapshot().Hash != first.BlockHash() {
		t.Fatal("side chain submission moved the chain tip")
	}
}

// TestHandleGenerate ensures on-demand generation mines the requested number
// of blocks and is refused where unsupported.
func TestHandleGenerate(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	_, err := handleGenerate(context.Background(), h.server,
		&types.GenerateCmd{NumBlocks: 0})
	assertRPCErrCode(t, err, dcrjson.ErrRPCInvalidParameter)

	result, err := handleGenerate(context.Background(), h.server,
		&types.GenerateCmd{NumBlocks: 2})
	if err != nil {
		t.Fatalf("handleGenerate: %v", err)
	}
	hashes := result.([]string)
	if len(hashes) != 2 {
		t.Fatalf("got %d hashes, want 2", len(hashes))
	}
	best := h.chain.BestSnapshot()
	if best.Height != 2 || best.Hash.String() != hashes[1] {
		t.Fatal("generated blocks did not extend the chain")
	}

	mainNetParams := chaincfg.MainNetParams
	mainNet := newTestHarness(t, &mainNetParams)
	_, err = handleGenerate(context.Background(), mainNet.server,
		&types.GenerateCmd{NumBlocks: 1})
	assertRPCErrCode(t, err, dcrjson.ErrRPCMisc)
}

// TestHandleGetBlockSubsidy covers the founders' reward era, the funding
// stream era and parameter validation.
func TestHandleGetBlockSubsidy(t *testing.T) {
	params := chaincfg.MainNetParams
	h := newTestHarness(t, &params)

	subsidyAt := func(height int64) *types.GetBlockSubsidyResult {
		t.Helper()
		result, err := handleGetBlockSubsidy(context.Background(), h.server,
			&types.GetBlockSubsidyCmd{Height: &height})
		if err != nil {
			t.Fatalf("handleGetBlockSubsidy(%d): %v", height, err)
		}
		r := result.(types.GetBlockSubsidyResult)
		return &r
	}

	// Founders' reward era.
	founders := subsidyAt(100000)
	if founders.Founders <= 0 {
		t.Fatal("founders reward era has no founders output")
	}
	if len(founders.FundingStreams) != 0 {
		t.Fatal("funding streams active in the founders reward era")
	}

	// Funding stream era.
	canopy := params.UpgradeHeights[chaincfg.Canopy]
	streams := subsidyAt(canopy)
	if streams.Founders != 0 {
		t.Fatal("founders reward active alongside funding streams")
	}
	if len(streams.FundingStreams) != 3 {
		t.Fatalf("got %d funding streams, want 3", len(streams.FundingStreams))
	}
	subsidy := params.BlockSubsidy(canopy)
	var streamTotal int64
	for _, fs := range streams.FundingStreams {
		streamTotal += fs.ValueZat
	}
	if streamTotal != subsidy/5 {
		t.Fatalf("stream total got %d, want %d", streamTotal, subsidy/5)
	}

	negative := int64(-1)
	_, err := handleGetBlockSubsidy(context.Background(), h.server,
		&types.GetBlockSubsidyCmd{Height: &negative})
	assertRPCErrCode(t, err, dcrjson.ErrRPCInvalidParameter)
}

// TestHandleGetNetworkSolPs ensures the network solution rate is zero on a
// degenerate chain and positive once blocks with distinct timestamps exist.
func TestHandleGetNetworkSolPs(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	result, err := handleGetNetworkSolPs(context.Background(), h.server,
		&types.GetNetworkSolPsCmd{})
	if err != nil {
		t.Fatalf("handleGetNetworkSolPs: %v", err)
	}
	if result.(int64) != 0 {
		t.Fatalf("fresh chain rate got %d, want 0", result)
	}

	if _, err := h.miner.GenerateNBlocks(context.Background(), 3); err != nil {
		t.Fatalf("GenerateNBlocks: %v", err)
	}
	result, err = handleGetNetworkSolPs(context.Background(), h.server,
		&types.GetNetworkSolPsCmd{})
	if err != nil {
		t.Fatalf("handleGetNetworkSolPs: %v", err)
	}
	if result.(int64) <= 0 {
		t.Fatalf("mined chain rate got %d, want > 0", result)
	}
}

// TestHandleEstimateFee ensures the fee estimate clamps the block target and
// reports the documented sentinel when the pool is empty.
func TestHandleEstimateFee(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	result, err := handleEstimateFee(context.Background(), h.server,
		&types.EstimateFeeCmd{NumBlocks: 1})
	if err != nil {
		t.Fatalf("handleEstimateFee: %v", err)
	}
	if result.(float64) != -1 {
		t.Fatalf("empty pool estimate got %v, want -1", result)
	}

	tx := wire.NewMsgTx()
	tx.AddTxIn(&wire.TxIn{SignatureScript: []byte{0x01}})
	tx.AddTxOut(wire.NewTxOut(5000, []byte{0x51}))
	h.pool.Add(tx, 100000, 10, 0)

	result, err = handleEstimateFee(context.Background(), h.server,
		&types.EstimateFeeCmd{NumBlocks: 1})
	if err != nil {
		t.Fatalf("handleEstimateFee: %v", err)
	}
	estimate := result.(float64)
	if estimate <= 0 {
		t.Fatalf("estimate got %v, want > 0", estimate)
	}

	// A target below one block clamps to one and estimates identically.
	result, err = handleEstimateFee(context.Background(), h.server,
		&types.EstimateFeeCmd{NumBlocks: 0})
	if err != nil {
		t.Fatalf("handleEstimateFee: %v", err)
	}
	if result.(float64) != estimate {
		t.Fatalf("clamped estimate got %v, want %v", result, estimate)
	}
}

// TestHandlePrioritiseTransaction ensures deltas are recorded and invalid
// hashes are rejected.
func TestHandlePrioritiseTransaction(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	tx := wire.NewMsgTx()
	tx.AddTxIn(&wire.TxIn{SignatureScript: []byte{0x02}})
	tx.AddTxOut(wire.NewTxOut(5000, []byte{0x51}))
	desc := h.pool.Add(tx, 1000, 10, 0)

	txHash := tx.TxHash()
	result, err := handlePrioritiseTransaction(context.Background(), h.server,
		&types.PrioritiseTransactionCmd{
			TxID:     txHash.String(),
			FeeDelta: 500,
		})
	if err != nil {
		t.Fatalf("handlePrioritiseTransaction: %v", err)
	}
	if result != true {
		t.Fatalf("result got %v, want true", result)
	}
	if desc.EffectiveFee() != 1500 {
		t.Fatalf("effective fee got %d, want 1500", desc.EffectiveFee())
	}

	_, err = handlePrioritiseTransaction(context.Background(), h.server,
		&types.PrioritiseTransactionCmd{TxID: "nothex"})
	assertRPCErrCode(t, err, dcrjson.ErrRPCDecodeHexString)
}

// TestHandleSetGenerate covers the on-demand network rejection and the zero
// processor limit.
func TestHandleSetGenerate(t *testing.T) {
	regNetParams := chaincfg.RegNetParams
	regNet := newTestHarness(t, &regNetParams)
	_, err := handleSetGenerate(context.Background(), regNet.server,
		&types.SetGenerateCmd{Generate: true})
	assertRPCErrCode(t, err, dcrjson.ErrRPCMisc)

	params := chaincfg.MainNetParams
	h := newTestHarness(t, &params)

	// A zero processor limit disables generation regardless of the flag.
	zero := 0
	if _, err := handleSetGenerate(context.Background(), h.server,
		&types.SetGenerateCmd{Generate: true, GenProcLimit: &zero}); err != nil {
		t.Fatalf("handleSetGenerate: %v", err)
	}
	if h.miner.IsMining() {
		t.Fatal("zero processor limit did not disable generation")
	}

	// Enabling generation requires a miner address.
	h.addrSource.exhausted = true
	_, err = handleSetGenerate(context.Background(), h.server,
		&types.SetGenerateCmd{Generate: true})
	assertRPCErrCode(t, err, dcrjson.ErrRPCInternal.Code)
}

// TestHandleMiscStatusCommands covers the small read-only status commands.
func TestHandleMiscStatusCommands(t *testing.T) {
	params := chaincfg.RegNetParams
	h := newTestHarness(t, &params)

	if _, err := h.miner.GenerateNBlocks(context.Background(), 1); err != nil {
		t.Fatalf("GenerateNBlocks: %v", err)
	}
	best := h.chain.BestSnapshot()

	result, err := handleGetBlockCount(context.Background(), h.server, nil)
	if err != nil || result.(int64) != 1 {
		t.Fatalf("getblockcount got (%v, %v), want 1", result, err)
	}

	result, err = handleGetBestBlockHash(context.Background(), h.server, nil)
	if err != nil || result.(string) != best.Hash.String() {
		t.Fatalf("getbestblockhash got (%v, %v), want %v", result, err,
			best.Hash)
	}

	result, err = handleGetDifficulty(context.Background(), h.server, nil)
	if err != nil || result.(float64) <= 0 {
		t.Fatalf("getdifficulty got (%v, %v), want > 0", result, err)
	}

	result, err = handleGetGenerate(context.Background(), h.server, nil)
	if err != nil || result.(bool) {
		t.Fatalf("getgenerate got (%v, %v), want false", result, err)
	}

	result, err = handleGetMiningInfo(context.Background(), h.server, nil)
	if err != nil {
		t.Fatalf("handleGetMiningInfo: %v", err)
	}
	info := result.(*types.GetMiningInfoResult)
	if info.Blocks != 1 {
		t.Fatalf("mining info blocks got %d, want 1", info.Blocks)
	}
	if info.Chain != params.Name {
		t.Fatalf("mining info chain got %q, want %q", info.Chain,
			params.Name)
	}
	if info.PooledTx != 0 {
		t.Fatalf("mining info pooledtx got %d, want 0", info.PooledTx)
	}

	result, err = handleHelp(context.Background(), h.server,
		&types.HelpCmd{})
	if err != nil {
		t.Fatalf("handleHelp: %v", err)
	}
	if !strings.Contains(result.(string), "getblocktemplate") {
		t.Fatal("help overview does not list getblocktemplate")
	}

	unknown := "bogusmethod"
	_, err = handleHelp(context.Background(), h.server,
		&types.HelpCmd{Command: &unknown})
	assertRPCErrCode(t, err, dcrjson.ErrRPCInvalidParameter)

	// The shutdown signal is delivered best effort to an already waiting
	// receiver, so block one before issuing the command and retry until
	// the send lands.
	stopped := make(chan struct{})
	go func() {
		<-h.server.RequestedProcessShutdown()
		close(stopped)
	}()
	timeout := time.After(5 * time.Second)
	for {
		result, err = handleStop(context.Background(), h.server, nil)
		if err != nil || result.(string) != "zcash server stopping" {
			t.Fatalf("stop got (%v, %v)", result, err)
		}
		select {
		case <-stopped:
			return
		case <-timeout:
			t.Fatal("stop did not request process shutdown")
		case <-time.After(time.Millisecond):
		}
	}
}
