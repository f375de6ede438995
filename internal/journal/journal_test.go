package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tinytelemetry/swipedeck/internal/model"
)

func decision(card, dir string) model.Decision {
	return model.Decision{
		Session:   "s1",
		Deck:      "trips",
		CardID:    card,
		CardTitle: "Card " + card,
		Direction: dir,
		DX:        140,
		SwipedAt:  time.Now().UTC(),
	}
}

func replayCards(t *testing.T, j *Journal) []string {
	t.Helper()
	var cards []string
	err := j.Replay(func(d model.Decision) error {
		cards = append(cards, d.CardID)
		return nil
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	return cards
}

func TestAppendReplayCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swipes.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	seq1, err := j.Append(decision("a", model.DirectionRight))
	if err != nil {
		t.Fatalf("Append a: %v", err)
	}
	seq2, err := j.Append(decision("b", model.DirectionLeft))
	if err != nil {
		t.Fatalf("Append b: %v", err)
	}
	if seq2 <= seq1 {
		t.Fatalf("sequence did not advance: seq1=%d seq2=%d", seq1, seq2)
	}

	if err := j.Commit(seq1); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := j.Committed(); got != seq1 {
		t.Fatalf("Committed() = %d, want %d", got, seq1)
	}

	if got := replayCards(t, j); len(got) != 1 || got[0] != "b" {
		t.Fatalf("Replay cards=%v, want [b]", got)
	}
}

func TestReplayCarriesSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swipes.journal")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	seq, err := j.Append(decision("a", model.DirectionLeft))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	var got uint64
	if err := j.Replay(func(d model.Decision) error { got = d.Seq; return nil }); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if got != seq {
		t.Fatalf("replayed seq = %d, want %d", got, seq)
	}
}

func TestReopenCompactsCommitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swipes.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, c := range []string{"a", "b", "c"} {
		if _, err := j.Append(decision(c, model.DirectionRight)); err != nil {
			t.Fatalf("Append %s: %v", c, err)
		}
	}
	if err := j.Commit(2); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("Open second: %v", err)
	}
	defer j2.Close()

	if got := replayCards(t, j2); len(got) != 1 || got[0] != "c" {
		t.Fatalf("Replay after reopen=%v, want [c]", got)
	}
	seq, err := j2.Append(decision("d", model.DirectionLeft))
	if err != nil {
		t.Fatalf("Append d: %v", err)
	}
	if seq != 4 {
		t.Fatalf("next seq after reopen = %d, want 4", seq)
	}
}

func TestIdentityRotatesWhenSequenceRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swipes.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first := j.ID()
	if first == "" {
		t.Fatal("journal has no identity")
	}
	if _, err := j.Append(decision("a", model.DirectionRight)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if j2.ID() != first {
		t.Fatalf("identity changed on reopen: %s -> %s", first, j2.ID())
	}
	var replayed model.Decision
	if err := j2.Replay(func(d model.Decision) error { replayed = d; return nil }); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if replayed.Journal != first || replayed.Seq != 1 {
		t.Fatalf("replayed journal/seq = %s/%d, want %s/1", replayed.Journal, replayed.Seq, first)
	}
	if err := j2.Close(); err != nil {
		t.Fatal(err)
	}

	// Losing the log and its commit file restarts the sequence at 1.
	for _, p := range []string{path, path + ".commit"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			t.Fatal(err)
		}
	}
	j3, err := Open(path)
	if err != nil {
		t.Fatalf("open after reset: %v", err)
	}
	defer j3.Close()
	if j3.ID() == first {
		t.Fatal("identity reused after the sequence restarted")
	}
	seq, err := j3.Append(decision("b", model.DirectionLeft))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if seq != 1 {
		t.Fatalf("seq after reset = %d, want 1", seq)
	}
}

func TestOpenIgnoresPartialTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swipes.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := j.Append(decision("ok", model.DirectionRight)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Simulate torn write.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString(`{"seq":999,"decision":`); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close torn writer: %v", err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("Open second: %v", err)
	}
	defer func() { _ = j2.Close() }()

	if got := replayCards(t, j2); len(got) != 1 || got[0] != "ok" {
		t.Fatalf("Replay after torn write=%v, want [ok]", got)
	}
}

func TestAppendAfterClose(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "swipes.journal"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := j.Append(decision("a", model.DirectionLeft)); err == nil {
		t.Fatal("Append after Close: want error")
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("Open with blank path: want error")
	}
}
