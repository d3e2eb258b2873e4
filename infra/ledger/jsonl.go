package ledger

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONLStore stores records in a JSONL file, one run per line.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore creates the file at path if needed.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

func (s *JSONLStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

func (s *JSONLStore) Query(ctx context.Context, q Query) ([]Record, error) {
	all, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	var res []Record
	for _, r := range all {
		if q.match(r) {
			res = append(res, r)
		}
	}
	if q.Limit > 0 && len(res) > q.Limit {
		res = res[len(res)-q.Limit:]
	}
	return res, nil
}

func (s *JSONLStore) Last(ctx context.Context) (Record, error) {
	all, err := s.read(ctx)
	if err != nil {
		return Record{}, err
	}
	if len(all) == 0 {
		return Record{}, ErrEmpty
	}
	return all[len(all)-1], nil
}

func (s *JSONLStore) read(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []Record
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("ledger %s line %d: %w", s.path, line, err)
		}
		res = append(res, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *JSONLStore) Close() error { return nil }
