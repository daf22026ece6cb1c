package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"tasker/internal/exitcode"
	"tasker/internal/service"
)

// minIDPrefix is the shortest ID prefix accepted as a task reference.
const minIDPrefix = 4

// TaskRef represents a parsed task reference.
// An all-digit reference of at least minIDPrefix characters sets both
// fields, since it may be a position or the start of an ID.
type TaskRef struct {
	Num      int    // 1-based stored position; 0 if only IDPrefix is set
	IDPrefix string // lowercase task ID prefix
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrTaskNotFound indicates no task matches an ID prefix.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousTaskRef indicates several tasks match an ID prefix.
	ErrAmbiguousTaskRef = errors.New("ambiguous task reference")
)

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. If the arg is an optionally signed integer → stored position
// 2. If the arg is at least 4 hex digits or dashes → ID prefix
//    (unsigned integers of that length are both, see ResolveTaskRef)
// 3. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("too many arguments: %s", strings.Join(args[1:], " "))
	}

	arg := strings.TrimSpace(args[0])

	if num, err := strconv.Atoi(arg); err == nil {
		ref := TaskRef{Num: num}
		if len(arg) >= minIDPrefix && arg[0] != '-' && isIDPrefix(arg) {
			ref.IDPrefix = arg
		}
		return ref, nil
	}

	if len(arg) >= minIDPrefix && isIDPrefix(arg) {
		return TaskRef{IDPrefix: strings.ToLower(arg)}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// isIDPrefix returns true if s consists only of hex digits and dashes.
func isIDPrefix(s string) bool {
	for _, r := range s {
		if r != '-' && !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return false
		}
	}
	return true
}

// ResolveTaskRef returns the 0-based position ref points at.
// Position references are passed through unchecked; the store reports
// out-of-range positions itself. A reference that is both an existing
// position and an ID prefix match is ambiguous.
func ResolveTaskRef(ctx context.Context, svc service.Service, ref TaskRef) (int, error) {
	if ref.IDPrefix == "" {
		return ref.Num - 1, nil
	}

	tasks, err := svc.Tasks(ctx)
	if err != nil {
		return 0, err
	}

	var matches []int
	for i, t := range tasks {
		if strings.HasPrefix(strings.ToLower(t.ID), ref.IDPrefix) {
			matches = append(matches, i)
		}
	}

	if ref.Num != 0 {
		switch {
		case len(matches) == 0:
			return ref.Num - 1, nil
		case ref.Num >= 1 && ref.Num <= len(tasks):
			return 0, fmt.Errorf("%w: %s is both a task number and an ID prefix", ErrAmbiguousTaskRef, ref.IDPrefix)
		}
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("%w: %s", ErrTaskNotFound, ref.IDPrefix)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrAmbiguousTaskRef, ref.IDPrefix)
	}
}

// resolveArgs parses and resolves a task reference, printing any error.
// The returned exit code is exitcode.Success when idx is usable.
func resolveArgs(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (idx int, code int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 0, exitcode.UserError
	}
	idx, err = ResolveTaskRef(ctx, svc, ref)
	if err != nil {
		return 0, reportError(errOut, err)
	}
	return idx, exitcode.Success
}
