package e

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	if Wrap("nothing", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	base := errors.New("boom")
	err := Wrap("loading song", base)
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error lost its cause")
	}
	if got := err.Error(); got != "loading song: boom" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestWrapIfErr(t *testing.T) {
	run := func(fail bool) (err error) {
		defer WrapIfErr("saving", &err)
		if fail {
			return errors.New("disk full")
		}
		return nil
	}

	if err := run(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := run(true); err == nil || err.Error() != "saving: disk full" {
		t.Fatalf("unexpected error: %v", err)
	}
}
