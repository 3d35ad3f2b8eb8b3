package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dev-millionaire-service/internal/domain"
)

// BankLoader reads question banks from a directory of per-category JSON
// files, mirroring the questions/<category>.json layout the browser client
// fetched directly.
type BankLoader struct {
	dir string
}

func NewBankLoader(dir string) *BankLoader {
	return &BankLoader{dir: dir}
}

func (l *BankLoader) LoadBank(_ context.Context, category string) ([]domain.Question, error) {
	// Category names come from the client; never let them escape the bank dir.
	if category != filepath.Base(category) || strings.HasPrefix(category, ".") {
		return nil, domain.ErrBankNotFound
	}

	data, err := os.ReadFile(filepath.Join(l.dir, category+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrBankNotFound
		}
		return nil, fmt.Errorf("read bank %q: %w", category, err)
	}

	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse bank %q: %w", category, err)
	}
	return questions, nil
}

func (l *BankLoader) Categories(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	categories := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		categories = append(categories, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(categories)
	return categories, nil
}
