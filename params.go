// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/zingolabs/zcash/chaincfg"
)

// netParams is used to group parameters for various networks such as the
// main network and test networks.
type netParams struct {
	*chaincfg.Params
	rpcPort string
}

// mainNetParams contains parameters specific to the main network.
var mainNetParams = netParams{
	Params:  &chaincfg.MainNetParams,
	rpcPort: "8232",
}

// testNetParams contains parameters specific to the test network.
var testNetParams = netParams{
	Params:  &chaincfg.TestNetParams,
	rpcPort: "18232",
}

// regNetParams contains parameters specific to the regression test network.
var regNetParams = netParams{
	Params:  &chaincfg.RegNetParams,
	rpcPort: "18232",
}
