package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestBar_Counts(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Total: 3, Writer: &buf})

	b.Done(4)
	b.Skipped()
	b.Failed(2)
	b.Finish()

	done, skipped, failed, variants := b.Counts()
	if done != 1 || skipped != 1 || failed != 1 || variants != 6 {
		t.Errorf("Counts() = %d/%d/%d/%d, want 1/1/1/6", done, skipped, failed, variants)
	}
	if buf.Len() == 0 {
		t.Error("bar should render to writer")
	}
}

func TestBar_MessageDisabled(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Total: 10, Disabled: true, Writer: &buf})

	b.Message("✅ %s\n", "sunset")
	if got := buf.String(); !strings.Contains(got, "✅ sunset") {
		t.Errorf("Message() wrote %q", got)
	}
	if !b.IsDisabled() {
		t.Error("IsDisabled() = false")
	}
}

func TestBar_Nil(t *testing.T) {
	var b *Bar
	b.Done(1)
	b.Skipped()
	b.Grow(2)
	b.Finish()
	if d, _, _, _ := b.Counts(); d != 0 {
		t.Errorf("nil bar counts = %d", d)
	}
	if !b.IsDisabled() {
		t.Error("nil bar should be disabled")
	}
}
