// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "errors"

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific RuleError.  The string
// values double as the reject reason reported to block submitters, so they
// follow the getblocktemplate proposal vocabulary.
const (
	// ErrDuplicateBlock indicates a block with the same hash already
	// exists.
	ErrDuplicateBlock = ErrorKind("duplicate")

	// ErrMissingParent indicates the previous block referenced by a block
	// is not known.
	ErrMissingParent = ErrorKind("prev-blk-not-found")

	// ErrPrevBlockNotBest indicates the previous block is known but is not
	// the current best chain tip.
	ErrPrevBlockNotBest = ErrorKind("inconclusive-not-best-prevblk")

	// ErrBlockTooBig indicates the serialized block size exceeds the
	// maximum allowed size.
	ErrBlockTooBig = ErrorKind("bad-blk-length")

	// ErrNoTransactions indicates the block does not have at least one
	// transaction.
	ErrNoTransactions = ErrorKind("bad-blk-empty")

	// ErrFirstTxNotCoinbase indicates the first transaction in a block is
	// not a coinbase transaction.
	ErrFirstTxNotCoinbase = ErrorKind("bad-cb-missing")

	// ErrMultipleCoinbases indicates a block contains more than one
	// coinbase transaction.
	ErrMultipleCoinbases = ErrorKind("bad-cb-multiple")

	// ErrBadMerkleRoot indicates the calculated merkle root does not match
	// the expected value in the block header.
	ErrBadMerkleRoot = ErrorKind("bad-txnmrklroot")

	// ErrHighHash indicates the block does not hash to a value which is
	// less than the required target difficulty.
	ErrHighHash = ErrorKind("high-hash")

	// ErrUnexpectedDifficulty indicates specified bits do not align with
	// the expected value either because it doesn't match the calculated
	// value or is out of range.
	ErrUnexpectedDifficulty = ErrorKind("bad-diffbits")

	// ErrTimeTooOld indicates the time is either before the median time of
	// the last several blocks per the chain consensus rules.
	ErrTimeTooOld = ErrorKind("time-too-old")

	// ErrTimeTooNew indicates the time is too far in the future as
	// compared to the current time.
	ErrTimeTooNew = ErrorKind("time-too-new")

	// ErrBadCoinbaseValue indicates the amount paid by the coinbase
	// exceeds the expected block reward.
	ErrBadCoinbaseValue = ErrorKind("bad-cb-amount")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a block failed due to one of the many validation rules.  It
// has full support for errors.Is and errors.As, so the caller can ascertain
// the specific reason for the error by checking the underlying error kind.
type RuleError struct {
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e RuleError) Unwrap() error {
	return e.Err
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(kind ErrorKind, desc string) RuleError {
	return RuleError{Err: kind, Description: desc}
}

// RejectReason returns the reject reason string a block submitter should be
// given for the provided rule violation.  Errors that are not rule
// violations report the empty string.
func RejectReason(err error) string {
	var rerr RuleError
	if !errors.As(err, &rerr) {
		return ""
	}
	if kind, ok := rerr.Err.(ErrorKind); ok {
		return string(kind)
	}
	return rerr.Description
}
