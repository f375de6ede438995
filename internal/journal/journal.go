package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tinytelemetry/swipedeck/internal/model"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

type entry struct {
	Seq      uint64         `json:"seq"`
	Decision model.Decision `json:"decision"`
}

// Journal is a durable append-only log of swipe decisions. Each decision is
// one JSON line; the highest sequence persisted downstream is kept in a
// sidecar ".commit" file. Sequences are only unique per journal identity,
// which lives in a sidecar ".id" file and is replaced whenever the sequence
// starts over.
type Journal struct {
	mu         sync.Mutex
	id         string
	path       string
	commitPath string
	file       *os.File
	nextSeq    uint64
	committed  uint64
}

// Open creates or opens the journal at path. Committed entries are dropped
// and a partially written trailing line is ignored.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, fmt.Errorf("journal: mkdir: %w", err)
	}

	commitPath := path + ".commit"
	committed, err := readCommitted(commitPath)
	if err != nil {
		return nil, err
	}
	maxSeq, err := compact(path, committed)
	if err != nil {
		return nil, err
	}

	id, err := loadIdentity(path+".id", maxSeq == 0 && committed == 0)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, defaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}

	return &Journal{
		id:         id,
		path:       path,
		commitPath: commitPath,
		file:       f,
		nextSeq:    max(maxSeq, committed) + 1,
		committed:  committed,
	}, nil
}

// Append persists d and returns its sequence number.
func (j *Journal) Append(d model.Decision) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return 0, errors.New("journal: closed")
	}

	seq := j.nextSeq
	d.Journal, d.Seq = j.id, seq
	line, err := json.Marshal(entry{Seq: seq, Decision: d})
	if err != nil {
		return 0, fmt.Errorf("journal: marshal entry: %w", err)
	}
	line = append(line, '\n')

	if _, err := j.file.Write(line); err != nil {
		return 0, fmt.Errorf("journal: write entry: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return 0, fmt.Errorf("journal: sync entry: %w", err)
	}
	j.nextSeq++
	return seq, nil
}

// Commit marks every entry up to seq as persisted downstream.
func (j *Journal) Commit(seq uint64) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if seq <= j.committed {
		return nil
	}
	if err := writeCommitted(j.commitPath, seq); err != nil {
		return err
	}
	j.committed = seq
	return nil
}

// ID returns the journal identity stamped on appended decisions.
func (j *Journal) ID() string { return j.id }

// Committed returns the highest committed sequence number.
func (j *Journal) Committed() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.committed
}

// Replay calls fn for each uncommitted decision in sequence order.
func (j *Journal) Replay(fn func(d model.Decision) error) error {
	if fn == nil {
		return errors.New("journal: replay callback is nil")
	}

	j.mu.Lock()
	path, committed := j.path, j.committed
	j.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("journal: open for replay: %w", err)
	}
	defer f.Close()

	return scan(f, func(e entry, _ []byte) error {
		if e.Seq <= committed {
			return nil
		}
		return fn(e.Decision)
	})
}

// Close closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// scan feeds complete, well-formed lines to fn and stops silently at the
// first partial or malformed one.
func scan(r io.Reader, fn func(e entry, line []byte) error) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("journal: read: %w", err)
		}
		if len(line) == 0 || line[len(line)-1] != '\n' {
			return nil
		}
		var e entry
		if json.Unmarshal(line, &e) != nil {
			return nil
		}
		if ferr := fn(e, line); ferr != nil {
			return ferr
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func readCommitted(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("journal: read commit file: %w", err)
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return 0, nil
	}
	seq, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("journal: parse commit seq: %w", err)
	}
	return seq, nil
}

func writeCommitted(path string, seq uint64) error {
	return replaceFile(path, strconv.FormatUint(seq, 10)+"\n", "commit")
}

// loadIdentity returns the identity stored at path. A new one is minted when
// fresh is set or none is stored.
func loadIdentity(path string, fresh bool) (string, error) {
	if !fresh {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if id := strings.TrimSpace(string(data)); id != "" {
				return id, nil
			}
		case !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("journal: read id file: %w", err)
		}
	}
	id := uuid.NewString()
	if err := replaceFile(path, id+"\n", "id"); err != nil {
		return "", err
	}
	return id, nil
}

// replaceFile replaces path atomically via a synced temp file.
func replaceFile(path, content, what string) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return fmt.Errorf("journal: open %s tmp: %w", what, err)
	}
	_, werr := f.WriteString(content)
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("journal: write %s tmp: %w", what, werr)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("journal: rename %s file: %w", what, err)
	}
	return nil
}

// compact rewrites the journal keeping only uncommitted entries and returns
// the highest sequence seen.
func compact(path string, committed uint64) (uint64, error) {
	src, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, defaultFileMode)
	if err != nil {
		return 0, fmt.Errorf("journal: open for compact: %w", err)
	}
	defer src.Close()

	tmpPath := path + ".compact"
	dst, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, defaultFileMode)
	if err != nil {
		return 0, fmt.Errorf("journal: open compact tmp: %w", err)
	}
	fail := func(err error) (uint64, error) {
		_ = dst.Close()
		_ = os.Remove(tmpPath)
		return 0, err
	}

	var maxSeq uint64
	err = scan(src, func(e entry, line []byte) error {
		maxSeq = max(maxSeq, e.Seq)
		if e.Seq <= committed {
			return nil
		}
		if _, werr := dst.Write(line); werr != nil {
			return fmt.Errorf("journal: compact write: %w", werr)
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}
	if err := dst.Sync(); err != nil {
		return fail(fmt.Errorf("journal: compact sync: %w", err))
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("journal: compact close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("journal: compact rename: %w", err)
	}
	return maxSeq, nil
}
