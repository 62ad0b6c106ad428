package smf

import (
	"errors"
	"fmt"
)

// ErrorKind classifies decode failures.
type ErrorKind int

const (
	OutOfRange ErrorKind = iota + 1
	InvalidFile
	TruncatedChunk
	InvalidRunningStatus
	UnknownEventKind
)

// Sentinels for errors.Is. Every *Error unwraps to the one matching its Kind.
var (
	ErrOutOfRange           = errors.New("smf: out of range")
	ErrInvalidFile          = errors.New("smf: invalid file")
	ErrTruncatedChunk       = errors.New("smf: truncated chunk")
	ErrInvalidRunningStatus = errors.New("smf: invalid running status")
	ErrUnknownEventKind     = errors.New("smf: unknown event kind")
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfRange:
		return "out of range"
	case InvalidFile:
		return "invalid file"
	case TruncatedChunk:
		return "truncated chunk"
	case InvalidRunningStatus:
		return "invalid running status"
	case UnknownEventKind:
		return "unknown event kind"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case OutOfRange:
		return ErrOutOfRange
	case InvalidFile:
		return ErrInvalidFile
	case TruncatedChunk:
		return ErrTruncatedChunk
	case InvalidRunningStatus:
		return ErrInvalidRunningStatus
	case UnknownEventKind:
		return ErrUnknownEventKind
	}
	return nil
}

// Error is the single structured error returned by decoding.
type Error struct {
	Kind   ErrorKind
	Offset int    // byte offset in the file where the failure was detected
	Track  int    // track index, -1 for the header
	Code   int    // offending type code for UnknownEventKind, -1 otherwise
	Detail string // short description, e.g. the read that failed
}

func (e *Error) Error() string {
	msg := "smf: " + e.Kind.String()
	if e.Code >= 0 {
		msg += fmt.Sprintf(" 0x%02X", e.Code)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	msg += fmt.Sprintf(" at offset %d", e.Offset)
	if e.Track >= 0 {
		msg += fmt.Sprintf(" in track %d", e.Track)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

func newError(kind ErrorKind, offset int, detail string) *Error {
	return &Error{Kind: kind, Offset: offset, Track: -1, Code: -1, Detail: detail}
}

func unknownKind(offset int, code byte, detail string) *Error {
	e := newError(UnknownEventKind, offset, detail)
	e.Code = int(code)
	return e
}

// inTrack stamps the track index onto a decode error.
func inTrack(err error, track int) error {
	var se *Error
	if errors.As(err, &se) && se.Track < 0 {
		se.Track = track
	}
	return err
}
