// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chaincfg defines chain configuration parameters.

In addition to the main network, which is intended for the transfer of value,
there is a public test network and a regression test network whose parameters
allow mining blocks on demand with trivial difficulty.

The parameters cover proof-of-work limits, the Equihash parameterization, the
network upgrade activation schedule (Overwinter through NU5), the block
subsidy schedule (slow start ramp, halvings, Blossom block rate adjustment),
the founders' reward window and the funding stream schedule that supersedes
it at the first halving.
*/
package chaincfg
