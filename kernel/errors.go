package kernel

import "errors"

// Resource-exhaustion and invalid-argument sentinels (spec.md §7). These
// are returned, never panicked: they represent conditions a caller can
// legitimately hit, not kernel bugs.
var (
	ErrNoFreeSlot       = errors.New("kernel: no free process slot")
	ErrAddressSpace     = errors.New("kernel: failed to allocate address space")
	ErrNoSuchProcess    = errors.New("kernel: no such process")
	ErrNoChildren       = errors.New("kernel: caller has no children")
	ErrKilled           = errors.New("kernel: caller was killed")
	ErrInvalidTickets   = errors.New("kernel: tickets must be >= 1")
	ErrInvalidTraceMask = errors.New("kernel: trace mask must be >= 2")
	ErrInvalidInterval  = errors.New("kernel: alarm interval must be > 0")
)
