// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
	"fmt"
)

// ErrorCode - flat numeric error enumeration reported to callers
type ErrorCode uint16

// well known codes outside the table
const (
	CodeSuccess ErrorCode = 0
	CodeUnknown ErrorCode = 0xffff
)

// numbering is stable: never renumber, only append
var codes = map[error]ErrorCode{
	ErrNotEnoughAccountKeys:           1,
	ErrInvalidInstructionData:         2,
	ErrUnknownInstruction:             3,
	ErrInvalidBitOffset:               4,
	ErrInvalidPlayValue:               5,
	ErrInvalidArrayIndex:              6,
	ErrInvalidBitsArrayLength:         7,
	ErrInvalid256BitsDataSectionIndex: 8,
	ErrInvalidTokenMember:             9,

	ErrUnauthorizedAdmin:        20,
	ErrUnauthorized:             21,
	ErrDuplicateAuthority:       22,
	ErrMissingRequiredSignature: 23,
	ErrGameSignerInvalid:        24,
	ErrAccessSignerExpired:      25,
	ErrAccountNotWritable:       26,

	ErrInvalidSeeds:              40,
	ErrInvalidAccountOwner:       41,
	ErrInvalidAccountData:        42,
	ErrAccountAlreadyInitialized: 43,
	ErrUnsupportedSchemaVersion:  44,
	ErrNoViableNonce:             45,
	ErrInvalidAddress:            46,
	ErrInvalidSeedCount:          47,
	ErrInvalidHolding:            48,

	ErrGameNotRunning:         60,
	ErrGameAlreadyStarted:     61,
	ErrInvalidSectionIndex:    62,
	ErrMinimumFlipThreshold:   63,
	ErrSectionOwnerDuplicate:  64,
	ErrInvalidGameIndex:       65,
	ErrAllSectionsUnlocked:    66,
	ErrAllGamesInitialized:    67,
	ErrPreviousGameNotEnded:   68,
	ErrAccessSignerNotUpdated: 69,

	ErrArithmeticOverflow: 80,
	ErrInsufficientFunds:  81,
	ErrInsufficientTokens: 82,

	ErrBitsUnchanged: 90,

	ErrDuplicateTransaction:      100,
	ErrInvalidSignature:          101,
	ErrSignatureCount:            102,
	ErrReadonlyAccountModified:   103,
	ErrLamportsNotConserved:      104,
	ErrExternalAccountDebited:    105,
	ErrExternalAccountDataChange: 106,
	ErrAccountOwnerChanged:       107,
	ErrTransactionTruncated:      108,
}

// Code - the numeric code of an error, unwrapping any account context
func Code(err error) ErrorCode {
	if nil == err {
		return CodeSuccess
	}
	if code, ok := codes[cause(err)]; ok {
		return code
	}
	return CodeUnknown
}

// AccountError - attaches the failing account slot to an error
type AccountError struct {
	Slot int
	Name string
	Key  string
	Err  error
}

// Error - the error interface
func (e *AccountError) Error() string {
	return fmt.Sprintf("account[%d] %s: %s: %s", e.Slot, e.Name, e.Key, e.Err)
}

// Unwrap - allow errors.Is to see the underlying error
func (e *AccountError) Unwrap() error {
	return e.Err
}

// ForAccount - wrap err with the account it was raised for
func ForAccount(slot int, name string, key fmt.Stringer, err error) error {
	if nil == err {
		return nil
	}
	return &AccountError{
		Slot: slot,
		Name: name,
		Key:  key.String(),
		Err:  err,
	}
}

// strip any wrapping to reach the underlying fault value
func cause(err error) error {
	for {
		next := errors.Unwrap(err)
		if nil == next {
			return err
		}
		err = next
	}
}
