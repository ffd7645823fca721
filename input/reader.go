package input

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"daily-shorts-pipeline/types"
)

// Reader loads the scheduled content entries for one target date
type Reader struct {
	csvPath string
}

// New creates a new input Reader
func New(csvPath string) *Reader {
	return &Reader{csvPath: csvPath}
}

// Load reads the CSV source and returns every row whose date matches the
// target date exactly, normalized into ContentItems. IDs are the 1-based row
// ordinal over all scanned rows, so they stay stable across runs as long as
// the source is unchanged. The batch is persisted to batchPath before
// returning so a later run can resume without re-reading the source.
func (r *Reader) Load(targetDate, batchPath string) ([]types.ContentItem, error) {
	f, err := os.Open(r.csvPath)
	if err != nil {
		return nil, fmt.Errorf("open input source: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read input header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	var batch []types.ContentItem
	rowNum := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read input row: %w", err)
		}
		rowNum++

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if get("date") != targetDate {
			continue
		}

		item := types.ContentItem{
			ID:          rowNum,
			Date:        get("date"),
			Title:       get("title"),
			Content:     get("content"),
			Description: get("description"),
			Keywords:    splitComma(get("keywords")),
			Tags:        strings.Fields(get("tags")),
			BgQueries:   parseListLiteral(get("bg_videos")),
		}
		batch = append(batch, item)
	}

	// A zero-match load must not clobber a batch persisted by an earlier
	// run — the driver falls back to it.
	if len(batch) > 0 {
		if err := SaveBatch(batch, batchPath); err != nil {
			log.Printf("[input] ⚠️ could not persist batch: %v", err)
		}
	}

	log.Printf("[input] %d item(s) scheduled for %s", len(batch), targetDate)
	return batch, nil
}

// SaveBatch writes the normalized batch to a JSON file
func SaveBatch(batch []types.ContentItem, path string) error {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadBatch reads a previously persisted batch, the resume path when the
// live source yields nothing
func LoadBatch(path string) ([]types.ContentItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batch []types.ContentItem
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	return batch, nil
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseListLiteral parses a comma-separated list of quoted strings, e.g.
// 'ocean waves', "city lights". If the value does not parse as a quoted
// list it falls back silently to the raw value as a single entry.
func parseListLiteral(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	rest := s
	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}
		if rest[0] != '\'' && rest[0] != '"' {
			return []string{s}
		}
		quote := rest[0]
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return []string{s}
		}
		out = append(out, rest[1:1+end])
		rest = rest[2+end:]
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}
		if rest[0] != ',' {
			return []string{s}
		}
		rest = rest[1:]
	}
	if len(out) == 0 {
		return []string{s}
	}
	return out
}
