package models

import (
	"errors"
	"fmt"
)

// FaultKind classifies request-path failures.
type FaultKind string

const (
	// KindNotFound means the instrument is outside the tracked set. Permanent.
	KindNotFound FaultKind = "not_found"
	// KindNotReady means the instrument is tracked but no snapshot has been
	// committed yet. Transient, retry later.
	KindNotReady FaultKind = "not_ready"
	// KindUpstreamUnavailable means a dependency fetch failed categorically
	// for this request.
	KindUpstreamUnavailable FaultKind = "upstream_unavailable"
	// KindMalformedPayload means a dependency answered with a payload we
	// could not interpret. Background paths log it and fall back; request
	// paths surface it as upstream unavailability.
	KindMalformedPayload FaultKind = "malformed_payload"
)

// Path names the upstream dependency a fault belongs to. The price path and
// the fundamentals path are independent failure domains and must be reported
// distinguishably.
type Path string

const (
	PathPrice        Path = "price"
	PathFundamentals Path = "fundamentals"
)

// Fault is the domain error carried from stores, providers and the fusion
// coordinator up to the transport layer.
type Fault struct {
	Kind FaultKind
	Path Path
	Msg  string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Msg, f.Err)
	}
	return f.Msg
}

func (f *Fault) Unwrap() error { return f.Err }

// NotFound reports an instrument outside the tracked set.
func NotFound(symbol string) *Fault {
	return &Fault{Kind: KindNotFound, Msg: fmt.Sprintf("unknown instrument %q", symbol)}
}

// NotReady reports a tracked instrument with no committed snapshot yet.
func NotReady(symbol string) *Fault {
	return &Fault{Kind: KindNotReady, Msg: fmt.Sprintf("no data yet for %q", symbol)}
}

// Unavailable reports a categorical dependency failure on the given path.
func Unavailable(path Path, err error) *Fault {
	return &Fault{
		Kind: KindUpstreamUnavailable,
		Path: path,
		Msg:  fmt.Sprintf("%s upstream unavailable", path),
		Err:  err,
	}
}

// Malformed reports an uninterpretable dependency payload on the given path.
func Malformed(path Path, detail string) *Fault {
	return &Fault{
		Kind: KindMalformedPayload,
		Path: path,
		Msg:  fmt.Sprintf("%s upstream sent malformed payload: %s", path, detail),
	}
}

// AsFault unwraps err into a *Fault if one is in the chain.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
