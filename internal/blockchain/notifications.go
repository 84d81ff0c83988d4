// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/zingolabs/zcash/wire"

// SubscribeBlockChecked registers the provided callback to be invoked with
// the validation verdict of every block handed to ProcessBlock, including
// duplicates and blocks with unknown parents.  The returned function removes
// the subscription.
//
// Block submitters register transiently around a submission so they can
// distinguish the rule violation for the specific block they submitted from
// the aggregate processing error.
func (c *Chain) SubscribeBlockChecked(callback func(block *wire.MsgBlock, err error)) func() {
	c.ntfnMtx.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.checkedSubs[id] = callback
	c.ntfnMtx.Unlock()

	return func() {
		c.ntfnMtx.Lock()
		delete(c.checkedSubs, id)
		c.ntfnMtx.Unlock()
	}
}

// SubscribeBlockConnected registers the provided callback to be invoked
// whenever a block becomes the new best chain tip.  The returned function
// removes the subscription.
func (c *Chain) SubscribeBlockConnected(callback func(block *wire.MsgBlock, height int64)) func() {
	c.ntfnMtx.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.connectedSubs[id] = callback
	c.ntfnMtx.Unlock()

	return func() {
		c.ntfnMtx.Lock()
		delete(c.connectedSubs, id)
		c.ntfnMtx.Unlock()
	}
}

// notifyBlockChecked invokes all block-checked callbacks.  The chain lock
// must NOT be held so callbacks are free to query chain state.
func (c *Chain) notifyBlockChecked(block *wire.MsgBlock, err error) {
	c.ntfnMtx.Lock()
	subs := make([]func(*wire.MsgBlock, error), 0, len(c.checkedSubs))
	for _, callback := range c.checkedSubs {
		subs = append(subs, callback)
	}
	c.ntfnMtx.Unlock()

	for _, callback := range subs {
		callback(block, err)
	}
}

// notifyBlockConnected invokes all block-connected callbacks.  The chain
// lock must NOT be held so callbacks are free to query chain state.
func (c *Chain) notifyBlockConnected(block *wire.MsgBlock, height int64) {
	c.ntfnMtx.Lock()
	subs := make([]func(*wire.MsgBlock, int64), 0, len(c.connectedSubs))
	for _, callback := range c.connectedSubs {
		subs = append(subs, callback)
	}
	c.ntfnMtx.Unlock()

	for _, callback := range subs {
		callback(block, height)
	}
}
