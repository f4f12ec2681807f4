package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"golang.org/x/sync/errgroup"
)

// DefaultCodes are the promo codes shipped with the app.
// "10%" is the code the browser checkout accepts.
var DefaultCodes = map[string]int{
	"DISCOUNT10": 10,
	"DISCOUNT20": 20,
	"WELCOME15":  15,
	"SAVE25":     25,
	"10%":        10,
}

// bulkFalsePositiveRate bounds how often an unknown code matches a bulk list
const bulkFalsePositiveRate = 1e-6

// bulkSet is a large code list that shares one rate. Only the filter is
// kept, so memory stays flat no matter how many codes the list holds.
type bulkSet struct {
	percent int
	size    uint
	filter  *bloom.BloomFilter
}

// Table maps promo codes to percentage discounts.
// Lookups are case-insensitive; unknown codes have a rate of 0.
type Table struct {
	mu      sync.RWMutex
	codes   map[string]int
	bulk    []bulkSet
	sources []string
}

// NewTable builds a table from codes, normalizing keys and clamping rates to 0-100
func NewTable(codes map[string]int) *Table {
	return &Table{codes: normalize(codes)}
}

// Rate returns the discount percentage for code, 0 when unknown
func (t *Table) Rate(code string) int {
	rate, _ := t.Lookup(code)
	return rate
}

// Lookup returns the percentage and whether the code exists.
// Exact codes win over bulk lists; among bulk lists the latest load wins.
func (t *Table) Lookup(code string) (int, bool) {
	key := normalizeCode(code)
	if key == "" {
		return 0, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if rate, ok := t.codes[key]; ok {
		return rate, true
	}
	for i := len(t.bulk) - 1; i >= 0; i-- {
		if t.bulk[i].filter.TestString(key) {
			return t.bulk[i].percent, true
		}
	}
	return 0, false
}

// Codes returns every exact code, sorted. Bulk list members are not enumerable.
func (t *Table) Codes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.codes))
	for code := range t.codes {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Stats returns statistics about the loaded table
func (t *Table) Stats() map[string]interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sources := make([]string, len(t.sources))
	copy(sources, t.sources)

	var bulkCodes uint
	for _, set := range t.bulk {
		bulkCodes += set.size
	}

	return map[string]interface{}{
		"total_codes":   len(t.codes),
		"total_sources": len(t.sources),
		"sources":       sources,
		"bulk_lists":    len(t.bulk),
		"bulk_codes":    bulkCodes,
	}
}

// LoadFromFiles merges codes from local files into the table.
// Files are read concurrently and applied in argument order, so later
// files override earlier ones. Gzipped files are detected by extension.
func (t *Table) LoadFromFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no file paths provided")
	}
	return t.load(ctx, paths, openFile)
}

// LoadFromURLs is LoadFromFiles for remote sources
func (t *Table) LoadFromURLs(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return fmt.Errorf("no URLs provided")
	}
	return t.load(ctx, urls, openURL)
}

// LoadBulkFromFiles adds one bulk list per file. Each file holds one code
// per line and every code in it is worth percent.
func (t *Table) LoadBulkFromFiles(ctx context.Context, paths []string, percent int) error {
	if len(paths) == 0 {
		return fmt.Errorf("no file paths provided")
	}
	return t.loadBulk(ctx, paths, percent, openFile)
}

// LoadBulkFromURLs is LoadBulkFromFiles for remote sources
func (t *Table) LoadBulkFromURLs(ctx context.Context, urls []string, percent int) error {
	if len(urls) == 0 {
		return fmt.Errorf("no URLs provided")
	}
	return t.loadBulk(ctx, urls, percent, openURL)
}

type openFunc func(ctx context.Context, source string) (io.ReadCloser, error)

func (t *Table) load(ctx context.Context, sources []string, open openFunc) error {
	results := make([]map[string]int, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			codes, err := readSource(gctx, src, open, parseCodes)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", src, err)
			}
			results[i] = codes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Held across read-merge-swap so concurrent loads cannot drop each other's codes
	t.mu.Lock()
	defer t.mu.Unlock()

	merged := make(map[string]int, len(t.codes))
	for k, v := range t.codes {
		merged[k] = v
	}
	for _, codes := range results {
		for k, v := range codes {
			merged[k] = v
		}
	}

	t.codes = merged
	t.sources = append(t.sources, sources...)
	return nil
}

func (t *Table) loadBulk(ctx context.Context, sources []string, percent int, open openFunc) error {
	sets := make([]bulkSet, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			codes, err := readSource(gctx, src, open, parseCodeList)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", src, err)
			}
			sets[i] = newBulkSet(clamp(percent), codes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.bulk = append(t.bulk, sets...)
	t.sources = append(t.sources, sources...)
	return nil
}

func newBulkSet(percent int, codes []string) bulkSet {
	n := uint(len(codes))
	if n < 16 {
		n = 16
	}
	filter := bloom.NewWithEstimates(n, bulkFalsePositiveRate)
	for _, code := range codes {
		filter.AddString(code)
	}
	return bulkSet{percent: percent, size: uint(len(codes)), filter: filter}
}

func readSource[T any](ctx context.Context, source string, open openFunc, parse func(io.Reader) (T, error)) (T, error) {
	var zero T

	rc, err := open(ctx, source)
	if err != nil {
		return zero, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if strings.HasSuffix(source, ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return zero, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return parse(r)
}

func openFile(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// parseCodes reads CODE=PERCENT or CODE,PERCENT lines.
// Blank lines and lines starting with # are skipped.
func parseCodes(r io.Reader) (map[string]int, error) {
	codes := make(map[string]int)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sep := strings.IndexAny(line, "=,")
		if sep <= 0 {
			return nil, fmt.Errorf("line %d: expected CODE=PERCENT", lineNo)
		}
		rate, err := strconv.Atoi(strings.TrimSpace(line[sep+1:]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid percent: %w", lineNo, err)
		}
		codes[normalizeCode(line[:sep])] = clamp(rate)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return codes, nil
}

// parseCodeList reads one bare code per line, skipping blanks and # comments
func parseCodeList(r io.Reader) ([]string, error) {
	var codes []string
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		codes = append(codes, normalizeCode(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return codes, nil
}

func normalize(codes map[string]int) map[string]int {
	out := make(map[string]int, len(codes))
	for k, v := range codes {
		if key := normalizeCode(k); key != "" {
			out[key] = clamp(v)
		}
	}
	return out
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func clamp(rate int) int {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}
