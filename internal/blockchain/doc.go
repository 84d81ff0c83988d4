// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package blockchain implements block acceptance and the chain state the
mining subsystem builds on.

The chain is an in-memory index rooted at the network genesis block.
ProcessBlock validates candidate blocks against the proof-of-work, merkle
commitment, coinbase placement, timestamp and difficulty rules, commits
blocks extending the best tip and retains valid side chain blocks without
switching to them.  CheckBlockValidity applies the same rules to block
proposals without committing anything.

Template builders coordinate through two mechanisms: a tip-change signal
channel that is closed whenever the best tip advances, and block-checked
subscriptions that observe the validation verdict of every processed block.

Errors raised by validation are of type RuleError with an ErrorKind whose
string value doubles as the reject reason reported to submitters.
*/
package blockchain
