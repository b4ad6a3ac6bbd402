// Package errs defines the sentinel errors returned across the aura codec.
//
// Callers should use errors.Is against these sentinels rather than comparing
// error strings; most call sites wrap a sentinel with fmt.Errorf("%w: ...")
// to attach context.
package errs

import "errors"

// Container parse errors (C5).
var (
	ErrBadMagic             = errors.New("aura: bad container magic")
	ErrUnsupportedVersion   = errors.New("aura: unsupported container version")
	ErrBadMethod            = errors.New("aura: unknown container method")
	ErrTruncatedContainer   = errors.New("aura: truncated container")
	ErrTrailingBytes        = errors.New("aura: unexpected trailing bytes after container sections")
	ErrMessageTooLarge      = errors.New("aura: input exceeds maximum message size")
	ErrBadFrequencyTable    = errors.New("aura: frequency table does not sum to ANS_SCALE")
	ErrBadMetadataCount     = errors.New("aura: metadata_count does not match metadata array length")
	ErrBadMetadataOrder     = errors.New("aura: metadata token_index is not non-decreasing")
	ErrReservedMetadataKind = errors.New("aura: reserved metadata kind rejected under strict parse")
)

// Decode errors.
var (
	ErrCorruptPayload    = errors.New("aura: corrupt payload")
	ErrUnknownTemplateID = errors.New("aura: unknown template id referenced by container")
	ErrLengthMismatch    = errors.New("aura: reconstructed length does not match original_size")
)

// Template registry errors (C1).
var (
	ErrDuplicateID        = errors.New("aura: duplicate template id")
	ErrInvalidPattern     = errors.New("aura: invalid template pattern")
	ErrUnknownID          = errors.New("aura: unknown template id")
	ErrSlotCountMismatch  = errors.New("aura: slot count mismatch")
	ErrInvalidUTF8        = errors.New("aura: invalid utf-8 in slot value")
	ErrTemplateIDTooLarge = errors.New("aura: template id exceeds 16 bits")
)

// Dictionary errors (§6.2).
var (
	ErrDictionaryTooLarge = errors.New("aura: dictionary exceeds 256 entries")
	ErrSnippetTooLarge    = errors.New("aura: dictionary snippet exceeds 255 bytes")
	ErrUnknownSnippetID   = errors.New("aura: unknown dictionary snippet id")
)

// Codec configuration errors (§6.4).
var (
	ErrInvalidWindowSize = errors.New("aura: lz_window_bytes must be a power of two no greater than 2^17")
	ErrInvalidThreshold  = errors.New("aura: threshold option must be >= 1.0")
)
