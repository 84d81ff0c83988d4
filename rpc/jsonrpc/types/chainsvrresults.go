// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package types

// GetBlockTemplateResultTx models the transactions field of the
// getblocktemplate command.
type GetBlockTemplateResultTx struct {
	Data     string  `json:"data"`
	Hash     string  `json:"hash"`
	Depends  []int64 `json:"depends"`
	Fee      int64   `json:"fee"`
	SigOps   int64   `json:"sigops"`
	Required bool    `json:"required,omitempty"`
}

// GetBlockTemplateResultCoinbase models the coinbasetxn field of the
// getblocktemplate command.
type GetBlockTemplateResultCoinbase struct {
	Data           string  `json:"data"`
	Hash           string  `json:"hash"`
	Depends        []int64 `json:"depends"`
	Fee            int64   `json:"fee"`
	SigOps         int64   `json:"sigops"`
	Required       bool    `json:"required"`
	FoundersReward int64   `json:"foundersreward,omitempty"`
}

// GetBlockTemplateResult models the data returned from the getblocktemplate
// command.
type GetBlockTemplateResult struct {
	Capabilities []string `json:"capabilities"`
	Version      int32    `json:"version"`
	PreviousHash string   `json:"previousblockhash"`

	// BlockCommitmentsHash is the value the block header commits to in its
	// third hash field for the active consensus branch.  The two aliases
	// carry the same value under the names older consumers look for.
	BlockCommitmentsHash string `json:"blockcommitmentshash"`
	LightClientRootHash  string `json:"lightclientroothash"`
	FinalSaplingRootHash string `json:"finalsaplingroothash"`

	Transactions []GetBlockTemplateResultTx      `json:"transactions"`
	CoinbaseTxn  *GetBlockTemplateResultCoinbase `json:"coinbasetxn"`
	LongPollID   string                          `json:"longpollid"`
	Target       string                          `json:"target"`
	MinTime      int64                           `json:"mintime"`
	Mutable      []string                        `json:"mutable"`
	NonceRange   string                          `json:"noncerange"`
	SigOpLimit   int64                           `json:"sigoplimit"`
	SizeLimit    int64                           `json:"sizelimit"`
	CurTime      int64                           `json:"curtime"`
	Bits         string                          `json:"bits"`
	Height       int64                           `json:"height"`
}

// GetMiningInfoResult models the data from the getmininginfo command.
type GetMiningInfoResult struct {
	Blocks           int64   `json:"blocks"`
	CurrentBlockSize uint64  `json:"currentblocksize"`
	CurrentBlockTx   uint64  `json:"currentblocktx"`
	Difficulty       float64 `json:"difficulty"`
	Errors           string  `json:"errors"`
	GenProcLimit     int     `json:"genproclimit"`
	LocalSolPs       float64 `json:"localsolps"`
	NetworkSolPs     int64   `json:"networksolps"`
	NetworkHashPs    int64   `json:"networkhashps"`
	PooledTx         uint64  `json:"pooledtx"`
	Testnet          bool    `json:"testnet"`
	Chain            string  `json:"chain"`
	Generate         bool    `json:"generate"`
}

// FundingStreamResult models a single funding stream entry in the result of
// the getblocksubsidy command.
type FundingStreamResult struct {
	Recipient     string  `json:"recipient"`
	Specification string  `json:"specification"`
	Value         float64 `json:"value"`
	ValueZat      int64   `json:"valueZat"`
	Address       string  `json:"address"`
}

// GetBlockSubsidyResult models the data from the getblocksubsidy command.
type GetBlockSubsidyResult struct {
	Miner          float64               `json:"miner"`
	Founders       float64               `json:"founders"`
	FundingStreams []FundingStreamResult `json:"fundingstreams,omitempty"`
}
