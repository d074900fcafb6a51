package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestFromFailureMapping(t *testing.T) {
	tests := []struct {
		name  string
		class FailureClass
		want  Code
	}{
		{"timeout", FailureTimeout, CodeTimeout},
		{"connectivity", FailureConnectivity, CodeCommunication},
		{"configuration", FailureConfiguration, CodeConfiguration},
		{"database", FailureDatabase, CodeDbError},
		{"other", FailureOther, CodeUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFailure(tt.class); got.Code != tt.want {
				t.Errorf("FromFailure(%v).Code = %s, want %s", tt.class, got.Code, tt.want)
			}
		})
	}
}

func TestReclassifyDomainFaultPassesThrough(t *testing.T) {
	got := Reclassify(ErrSelfReport)
	if got != ErrSelfReport {
		t.Errorf("Reclassify returned %v, want the original fault unchanged", got)
	}
}

func TestReclassifyWrappedDomainFault(t *testing.T) {
	wrapped := fmt.Errorf("submit failed: %w", ErrTokenInvalid)
	got := Reclassify(wrapped)
	if got.Code != CodeTokenInvalid {
		t.Errorf("Reclassify(wrapped).Code = %s, want %s", got.Code, CodeTokenInvalid)
	}
}

func TestReclassifyStoreError(t *testing.T) {
	se := &StoreError{Class: FailureTimeout, Err: errors.New("deadline exceeded")}
	got := Reclassify(se)
	if got.Code != CodeTimeout {
		t.Errorf("Reclassify(store timeout).Code = %s, want %s", got.Code, CodeTimeout)
	}
}

func TestReclassifyUnknownError(t *testing.T) {
	got := Reclassify(errors.New("boom"))
	if got.Code != CodeUnexpected {
		t.Errorf("Reclassify(unknown).Code = %s, want %s", got.Code, CodeUnexpected)
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	se := &StoreError{Class: FailureConnectivity, Err: inner}
	if !errors.Is(se, inner) {
		t.Error("StoreError should unwrap to its inner error")
	}
}
