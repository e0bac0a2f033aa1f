package errors

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidTopologyError is returned when a service topology does not declare every canonical role
// exactly once.
type InvalidTopologyError struct {
	Missing    []string
	Duplicated []string
	Unknown    []string
}

func (e *InvalidTopologyError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("duplicated %s", strings.Join(e.Duplicated, ", ")))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("unknown %s", strings.Join(e.Unknown, ", ")))
	}
	return fmt.Sprintf("invalid service topology: %s", strings.Join(parts, "; "))
}

func IsInvalidTopology(err error) bool {
	var target *InvalidTopologyError
	return errors.As(err, &target)
}

// ParameterLengthMismatchError is returned when a per-node parameter list does not have one entry
// per peer.
type ParameterLengthMismatchError struct {
	Field string
	Got   int
	Want  int
}

func (e *ParameterLengthMismatchError) Error() string {
	return fmt.Sprintf("the len of %s is invalid: got %d, want %d", e.Field, e.Got, e.Want)
}

func IsParameterLengthMismatch(err error) bool {
	var target *ParameterLengthMismatchError
	return errors.As(err, &target)
}

// UnknownRoleError is returned by the container assembler for a service outside the canonical set.
type UnknownRoleError struct {
	Role string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unexpected service %q", e.Role)
}

func IsUnknownRole(err error) bool {
	var target *UnknownRoleError
	return errors.As(err, &target)
}

// PortCollisionError signals a defect in the port plan. It is never expected for valid input.
type PortCollisionError struct {
	Name  string
	Other string
	Port  int32
}

func (e *PortCollisionError) Error() string {
	return fmt.Sprintf("port %d assigned to both %s and %s", e.Port, e.Other, e.Name)
}

// DuplicateIdentityError is returned when two nodes resolve to the same identity and would share
// every per-node resource name.
type DuplicateIdentityError struct {
	Identity string
	First    int
	Second   int
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("nodes %d and %d share the identity %q", e.First, e.Second, e.Identity)
}

func IsDuplicateIdentity(err error) bool {
	var target *DuplicateIdentityError
	return errors.As(err, &target)
}
