// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mining implements block template construction and the long-poll
coordination protocol template consumers block on.

The TemplateCache owns the single in-process template slot and a precomputed
coinbase slot for two blocks past the current tip.  A template is considered
stale when the cached tip differs from the chain tip, when a long-poll wait
just completed, or when the transaction source changed and enough time has
passed since the last build.  Long-poll waits never hold the cache lock
while blocked: they run in ten second slices against an absolute deadline,
use idle time to precompute the expensive shielded coinbase, and wake on tip
changes, mempool drift after a timeout, or shutdown.

Coinbase construction pays the miner portion to a MinerAddress, which is
either transparent or shielded, and splits out the founders' reward or the
funding stream amounts per the chain parameters.  The two splits are
mutually exclusive.
*/
package mining
