package domain

import (
	"errors"
	"testing"
)

func TestBootstrapError_Is(t *testing.T) {
	cause := errors.New("storage offline")
	err := error(&BootstrapError{Kind: ErrOpenFailed, Wallet: "test", Err: cause})

	if !errors.Is(err, ErrOpenFailed) {
		t.Error("expected errors.Is(err, ErrOpenFailed)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}
	if errors.Is(err, ErrCreateFailed) {
		t.Error("open failure must not match ErrCreateFailed")
	}

	var be *BootstrapError
	if !errors.As(err, &be) || be.Wallet != "test" {
		t.Errorf("errors.As failed or wrong wallet: %+v", be)
	}
}

func TestBootstrapError_NilCause(t *testing.T) {
	err := &BootstrapError{Kind: ErrCreateFailed, Wallet: "w"}
	if !errors.Is(err, ErrCreateFailed) {
		t.Error("expected errors.Is(err, ErrCreateFailed)")
	}
	if got, want := err.Error(), `walletpoll: wallet create failed: wallet "w"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
