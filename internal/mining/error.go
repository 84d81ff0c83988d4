// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrNoMinerAddress indicates no miner address is configured or
	// obtainable, so no template can be built.  This is a configuration
	// error, not a transient failure.
	ErrNoMinerAddress = ErrorKind("ErrNoMinerAddress")

	// ErrAddressExhausted indicates the address source has no further
	// addresses to hand out.
	ErrAddressExhausted = ErrorKind("ErrAddressExhausted")

	// ErrBadMinerAddress indicates a configured miner address could not be
	// decoded for the active network.
	ErrBadMinerAddress = ErrorKind("ErrBadMinerAddress")

	// ErrShieldedCoinbase indicates the shielded bundle for a coinbase
	// paying a shielded address could not be produced.
	ErrShieldedCoinbase = ErrorKind("ErrShieldedCoinbase")

	// ErrTemplateBuild indicates a new block template could not be
	// assembled.
	ErrTemplateBuild = ErrorKind("ErrTemplateBuild")

	// ErrOnDemandMining indicates on-demand block generation was requested
	// on a network that does not permit it.
	ErrOnDemandMining = ErrorKind("ErrOnDemandMining")

	// ErrNoSolution indicates the proof of work solver gave up before
	// finding a solution for a candidate block.
	ErrNoSolution = ErrorKind("ErrNoSolution")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to mining.  It has full support for
// errors.Is and errors.As, so the caller can ascertain the specific reason
// for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
