package capture

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aether-ai/aether/internal/models"
)

// Entry is one record read back from the local capture log. Line breaks in
// Content come back as "\n".
type Entry struct {
	Timestamp time.Time
	Content   string
}

// Store is the append-only offline log. Every Append opens, writes one
// line with a single write call, and closes the file; nothing is held open
// between calls and no line is ever rewritten.
type Store struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewStore creates a store writing to path. The file and its directory are
// created on the first Append.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// lineSeparator (U+2028) stands in for line breaks inside content so a
// record always occupies exactly one line. Every other byte is written as is.
const lineSeparator = "\u2028"

var foldLineBreaks = strings.NewReplacer("\r\n", lineSeparator, "\r", lineSeparator, "\n", lineSeparator)

// Append writes "[<RFC3339 UTC>] <content>\n".
func (s *Store) Append(content string) (models.IdeaRecord, error) {
	record := models.NewIdeaRecord(content, s.now())
	line := fmt.Sprintf("[%s] %s\n", record.Timestamp, foldLineBreaks.Replace(content))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return models.IdeaRecord{}, fmt.Errorf("create capture directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return models.IdeaRecord{}, fmt.Errorf("open capture log: %w", err)
	}
	if _, err := f.Write([]byte(line)); err != nil {
		f.Close()
		return models.IdeaRecord{}, fmt.Errorf("append to capture log: %w", err)
	}
	if err := f.Close(); err != nil {
		return models.IdeaRecord{}, fmt.Errorf("close capture log: %w", err)
	}
	return record, nil
}

// Records reads the log back in file order. A missing file yields no records.
// Lines that do not match the record format are skipped.
func (s *Store) Records() ([]Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open capture log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for scanner.Scan() {
		entry, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read capture log: %w", err)
	}
	return entries, nil
}

func parseLine(line string) (Entry, bool) {
	if !strings.HasPrefix(line, "[") {
		return Entry{}, false
	}
	end := strings.Index(line, "] ")
	if end < 0 {
		return Entry{}, false
	}
	ts, err := time.Parse(time.RFC3339, line[1:end])
	if err != nil {
		return Entry{}, false
	}
	return Entry{Timestamp: ts, Content: strings.ReplaceAll(line[end+2:], lineSeparator, "\n")}, true
}
