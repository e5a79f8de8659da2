package zerolist

import (
	"errors"
	"fmt"

	"github.com/WeChatLhc/zerolist/internal/arena"
)

var (
	// ErrInvalidArgument is returned for nil payload references where one is
	// required, invalid option combinations and misuse of the lifecycle.
	ErrInvalidArgument = errors.New("zerolist: invalid argument")
	// ErrCapacityExceeded is returned when a static arena is full and no
	// fallback or growth is configured, or when growth has reached the
	// configured index limit.
	ErrCapacityExceeded = errors.New("zerolist: capacity exceeded")
	// ErrAllocationFailed is returned when a heap or reallocation primitive
	// fails, including growth rollback paths.
	ErrAllocationFailed = errors.New("zerolist: allocation failed")
	// ErrIndexOutOfRange is returned for positional access beyond the
	// current size, including pops on an empty list.
	ErrIndexOutOfRange = errors.New("zerolist: index out of range")
	// ErrNotFound is returned when a value or predicate search misses.
	ErrNotFound = errors.New("zerolist: not found")
	// ErrNotInitialized is returned when a structural operation is called on
	// an uninitialized or destroyed list. This is a guarded contract
	// violation, not a recoverable runtime condition.
	ErrNotInitialized = errors.New("zerolist: list not initialized")
)

// translateArenaErr maps internal arena sentinels onto the public taxonomy.
func translateArenaErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, arena.ErrExhausted):
		return fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	case errors.Is(err, arena.ErrAllocationFailed):
		return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	case errors.Is(err, arena.ErrInvalidConfig):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	default:
		return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
}
