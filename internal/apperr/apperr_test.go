package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKinds(t *testing.T) {
	nf := fmt.Errorf("load: %w", NotFound("video"))
	if !errors.Is(nf, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", nf)
	}
	if nf.Error() != "load: video not found" {
		t.Fatalf("unexpected message %q", nf.Error())
	}

	pc := Precondition("Video has no asset yet")
	if !errors.Is(pc, ErrPrecondition) || pc.Error() != "Video has no asset yet" {
		t.Fatalf("unexpected precondition error %v", pc)
	}

	mal := MalformedAIResponse("extract moments", errors.New("no JSON array"))
	if !errors.Is(mal, ErrMalformedAIResponse) {
		t.Fatalf("expected ErrMalformedAIResponse in %v", mal)
	}
	if !IsRemote(mal) {
		t.Fatalf("malformed response should be a remote error")
	}
	if IsRemote(pc) {
		t.Fatalf("precondition is not remote")
	}
	if Remote("mux", "get asset", nil) != nil {
		t.Fatalf("Remote(nil) should be nil")
	}
}
