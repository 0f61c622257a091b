// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.  Every error
// belongs to a class and carries a stable numeric code that is
// reported to callers in receipts.
package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	ShapeError         GenericError
	AuthorisationError GenericError
	AddressError       GenericError
	LifecycleError     GenericError
	ArithmeticError    GenericError
	UnchangedError     GenericError
	HostError          GenericError
	InvalidError       GenericError
	NotFoundError      GenericError
	ExistsError        GenericError
)

// shape of the operation: account count, argument bytes
var (
	ErrNotEnoughAccountKeys           = ShapeError("not enough account keys")
	ErrInvalidInstructionData         = ShapeError("invalid instruction data")
	ErrUnknownInstruction             = ShapeError("unknown instruction")
	ErrInvalidBitOffset               = ShapeError("invalid bit offset")
	ErrInvalidPlayValue               = ShapeError("invalid play value")
	ErrInvalidArrayIndex              = ShapeError("invalid array index")
	ErrInvalidBitsArrayLength         = ShapeError("invalid bits array length")
	ErrInvalid256BitsDataSectionIndex = ShapeError("256 bit write is not aligned")
	ErrInvalidTokenMember             = ShapeError("invalid token member")
)

// who may do what
var (
	ErrUnauthorizedAdmin        = AuthorisationError("unauthorized admin")
	ErrUnauthorized             = AuthorisationError("unauthorized")
	ErrDuplicateAuthority       = AuthorisationError("duplicate authority")
	ErrMissingRequiredSignature = AuthorisationError("missing required signature")
	ErrGameSignerInvalid        = AuthorisationError("game signer invalid")
	ErrAccessSignerExpired      = AuthorisationError("access signer expired")
	ErrAccountNotWritable       = AuthorisationError("account not writable")
)

// identity of supplied accounts
var (
	ErrInvalidSeeds              = AddressError("invalid seeds")
	ErrInvalidAccountOwner       = AddressError("invalid account owner")
	ErrInvalidAccountData        = AddressError("invalid account data")
	ErrAccountAlreadyInitialized = AddressError("account already initialized")
	ErrUnsupportedSchemaVersion  = AddressError("unsupported schema version")
	ErrNoViableNonce             = AddressError("no viable derivation nonce")
	ErrInvalidAddress            = AddressError("invalid address")
	ErrInvalidSeedCount          = AddressError("invalid seed count")
	ErrInvalidHolding            = AddressError("invalid holding")
)

// game state machine
var (
	ErrGameNotRunning         = LifecycleError("game not running")
	ErrGameAlreadyStarted     = LifecycleError("game already started")
	ErrInvalidSectionIndex    = LifecycleError("invalid section index")
	ErrMinimumFlipThreshold   = LifecycleError("minimum flip threshold not met")
	ErrSectionOwnerDuplicate  = LifecycleError("section owner duplicate")
	ErrInvalidGameIndex       = LifecycleError("invalid game index")
	ErrAllSectionsUnlocked    = LifecycleError("all sections unlocked")
	ErrAllGamesInitialized    = LifecycleError("all games initialized")
	ErrPreviousGameNotEnded   = LifecycleError("previous game has not ended")
	ErrAccessSignerNotUpdated = LifecycleError("access signer not updated")
)

// checked arithmetic
var (
	ErrArithmeticOverflow = ArithmeticError("arithmetic overflow")
	ErrInsufficientFunds  = ArithmeticError("insufficient funds")
	ErrInsufficientTokens = ArithmeticError("insufficient tokens")
)

// no state change requested
var (
	ErrBitsUnchanged = UnchangedError("bits unchanged")
)

// ledger host guarantees
var (
	ErrDuplicateTransaction      = HostError("duplicate transaction")
	ErrInvalidSignature          = HostError("invalid signature")
	ErrSignatureCount            = HostError("signature count mismatch")
	ErrReadonlyAccountModified   = HostError("read-only account modified")
	ErrLamportsNotConserved      = HostError("lamports not conserved")
	ErrExternalAccountDebited    = HostError("external account debited")
	ErrExternalAccountDataChange = HostError("external account data modified")
	ErrAccountOwnerChanged       = HostError("account owner changed")
	ErrTransactionTruncated      = HostError("transaction truncated")
	ErrAlreadyInitialised        = HostError("already initialised")
	ErrNotInitialised            = HostError("not initialised")
)

// configuration and local files
var (
	ErrInvalidChain          = InvalidError("invalid chain")
	ErrInvalidKeyLength      = InvalidError("invalid key length")
	ErrInvalidKeyFile        = InvalidError("invalid key file")
	ErrKeyFileAlreadyExists  = ExistsError("key file already exists")
	ErrMissingBootstrap      = InvalidError("bootstrap admin is required")
	ErrInvalidRate           = InvalidError("submission rate must be positive")
	ErrInvalidStructPointer  = InvalidError("invalid struct pointer")
	ErrConfigurationNotTable = InvalidError("configuration must return a table")
	ErrInvalidDirectory      = InvalidError("invalid directory")
	ErrFundingNotAllowed     = InvalidError("funding is only allowed on test chains")
	ErrNotFoundConfigFile    = NotFoundError("config file is not found")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ShapeError) Error() string         { return string(e) }
func (e AuthorisationError) Error() string { return string(e) }
func (e AddressError) Error() string       { return string(e) }
func (e LifecycleError) Error() string     { return string(e) }
func (e ArithmeticError) Error() string    { return string(e) }
func (e UnchangedError) Error() string     { return string(e) }
func (e HostError) Error() string          { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e ExistsError) Error() string        { return string(e) }

// determine the class of an error
func IsErrShape(e error) bool         { _, ok := cause(e).(ShapeError); return ok }
func IsErrAuthorisation(e error) bool { _, ok := cause(e).(AuthorisationError); return ok }
func IsErrAddress(e error) bool       { _, ok := cause(e).(AddressError); return ok }
func IsErrLifecycle(e error) bool     { _, ok := cause(e).(LifecycleError); return ok }
func IsErrArithmetic(e error) bool    { _, ok := cause(e).(ArithmeticError); return ok }
func IsErrUnchanged(e error) bool     { _, ok := cause(e).(UnchangedError); return ok }
func IsErrHost(e error) bool          { _, ok := cause(e).(HostError); return ok }
func IsErrInvalid(e error) bool       { _, ok := cause(e).(InvalidError); return ok }
func IsErrNotFound(e error) bool      { _, ok := cause(e).(NotFoundError); return ok }
func IsErrExists(e error) bool        { _, ok := cause(e).(ExistsError); return ok }
