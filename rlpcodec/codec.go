// Package rlpcodec is the entity codec the rawdb accessors encode and
// decode every persisted family through. It wraps
// github.com/ethereum/go-ethereum/rlp the way core/rawdb/accessors_chain.go
// wraps it for headers, generalized across every family in spec.md §6, and
// adds strict post-decode validation so a corrupted or truncated record
// surfaces as a typed error instead of a zero-valued struct.
package rlpcodec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// DecodeError wraps a decode failure with enough context to log usefully
// without leaking the raw bytes; it is the concrete error type every rawdb
// accessor returns on a malformed record, distinguishing "bad data" from
// store.ErrNotFound.
type DecodeError struct {
	Family string
	Key    []byte
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rlpcodec: decode %s key=%x: %v", e.Family, e.Key, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// Encode RLP-encodes v.
func Encode(v interface{}) ([]byte, error) {
	return rlp.EncodeToBytes(v)
}

// Decode RLP-decodes data into v, wrapping any failure as a *DecodeError
// tagged with family/key for the caller to log.
func Decode(family string, key []byte, data []byte, v interface{}) error {
	if err := rlp.DecodeBytes(data, v); err != nil {
		return &DecodeError{Family: family, Key: key, Cause: err}
	}
	return nil
}

// Validator is implemented by decoded entities that carry enum-like fields
// needing a range check RLP's wire format can't express (e.g. BlockStatus).
// DecodeValidate runs Decode then, if v implements Validator, Validate.
type Validator interface {
	Validate() error
}

// DecodeValidate decodes data into v and, if v implements Validator, also
// validates its field invariants, wrapping a validation failure the same
// way as a decode failure.
func DecodeValidate(family string, key []byte, data []byte, v interface{}) error {
	if err := Decode(family, key, data, v); err != nil {
		return err
	}
	if validator, ok := v.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return &DecodeError{Family: family, Key: key, Cause: err}
		}
	}
	return nil
}
