package ipheat

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// defaultValue is written when a record carries no parsable weight.
const defaultValue = 1

// record is one parsed input line.
type record struct {
	first uint32
	last  uint32 // == first for single addresses
	value int32
}

// Ingest consumes records from r, one per line, painting each into the
// buffer. The format is `<address-or-range> [value]` with fields split
// on commas or whitespace; blank lines are skipped.
//
// A malformed range token skips its line with a warning. A malformed
// plain address or integer aborts with a ParseError carrying the
// 1-based line number and offending token.
func (h *Heatmap) Ingest(ctx context.Context, r io.Reader) error {
	start := time.Now()

	var lines, skipped int
	var err error
	if h.shards > 1 {
		lines, skipped, err = h.ingestSharded(ctx, r)
	} else {
		lines, skipped, err = h.ingestSequential(ctx, r)
	}

	h.logger.LogIngest(ctx, lines, skipped, time.Since(start), err)
	h.metrics.RecordIngest(lines, skipped, time.Since(start), err)
	return err
}

// IngestString ingests from an in-memory string. Convenience for tests
// and embedding.
func (h *Heatmap) IngestString(ctx context.Context, input string) error {
	return h.Ingest(ctx, strings.NewReader(input))
}

func (h *Heatmap) ingestSequential(ctx context.Context, r io.Reader) (lines, skipped int, err error) {
	progress := h.progressLimiter()

	scanner := newLineScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		lines = lineNum
		if lineNum%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return lines, skipped, err
			}
		}

		rec, skip, err := h.parseLine(scanner.Text(), lineNum)
		if err != nil {
			return lines, skipped, err
		}
		if skip {
			skipped++
			continue
		}
		if rec == nil {
			continue // blank line
		}

		h.paintRecord(*rec)
		h.logProgress(progress, lineNum, skipped)
	}
	return lines, skipped, scanner.Err()
}

// ingestSharded fans lines out round-robin to private shard sessions
// and merges their buffers afterwards. Valid only with accumulate
// writes, where per-pixel sums are order-independent; New rejects the
// combination otherwise.
func (h *Heatmap) ingestSharded(ctx context.Context, r io.Reader) (lines, skipped int, err error) {
	type task struct {
		text string
		line int
	}

	shards := make([]*Heatmap, h.shards)
	chans := make([]chan task, h.shards)
	skips := make([]int, h.shards)
	for i := range shards {
		shards[i] = h.newShard()
		chans[i] = make(chan task, 256)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range shards {
		shard := shards[i]
		ch := chans[i]
		skip := &skips[i]
		g.Go(func() error {
			for t := range ch {
				rec, s, err := shard.parseLine(t.text, t.line)
				if err != nil {
					return err
				}
				if s {
					*skip++
					continue
				}
				if rec == nil {
					continue
				}
				shard.paintRecord(*rec)
			}
			return nil
		})
	}

	scanner := newLineScanner(r)
	scanErr := func() error {
		defer func() {
			for _, ch := range chans {
				close(ch)
			}
		}()
		for lineNum := 1; scanner.Scan(); lineNum++ {
			lines = lineNum
			select {
			case chans[lineNum%len(chans)] <- task{text: scanner.Text(), line: lineNum}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return scanner.Err()
	}()

	if err := g.Wait(); err != nil {
		return lines, 0, err
	}
	if scanErr != nil {
		return lines, 0, scanErr
	}

	for i, shard := range shards {
		h.mergeShard(shard)
		skipped += skips[i]
	}
	return lines, skipped, nil
}

// newShard clones the session with a private buffer and mask. The
// logger is shared (slog handlers are concurrency-safe); metrics are
// recorded once at merge time through the parent.
func (h *Heatmap) newShard() *Heatmap {
	shard := *h
	shard.cells = make([]int32, len(h.cells))
	if shard.plan.initValue != 0 {
		for i := range shard.cells {
			shard.cells[i] = shard.plan.initValue
		}
	}
	shard.painted = roaring.New()
	shard.metrics = NoopMetricsCollector{}
	shard.progress = 0
	return &shard
}

// mergeShard folds a shard's buffer into the session so the result is
// bit-identical to sequential accumulate ingestion. A painted shard
// cell holds initValue + sum(weights); adding it to an already-painted
// cell must therefore first subtract the extra initValue, and an
// unpainted cell takes the shard value wholesale.
func (h *Heatmap) mergeShard(shard *Heatmap) {
	if h.plan.initValue == 0 {
		for i, v := range shard.cells {
			h.cells[i] += v
		}
	} else {
		it := shard.painted.Iterator()
		for it.HasNext() {
			d := it.Next()
			x, y := h.xyOf(uint64(d))
			i := uint64(y)*uint64(h.side) + uint64(x)
			if h.painted.Contains(d) {
				h.cells[i] += shard.cells[i] - h.plan.initValue
			} else {
				h.cells[i] = shard.cells[i]
			}
		}
	}
	h.painted.Or(shard.painted)
	h.metrics.RecordPaint(int(shard.PaintedPixels()))
}

func (h *Heatmap) paintRecord(rec record) {
	if rec.first == rec.last {
		h.PaintAddress(rec.first, rec.value)
		return
	}
	// Range bounds come from a validated prefix; first <= last holds.
	_ = h.PaintRange(rec.first, rec.last, rec.value)
}

// parseLine parses one input line. A nil record with skip=false is a
// blank line; skip=true is a recoverable range failure (warning already
// logged); a non-nil error is a fatal address failure.
func (h *Heatmap) parseLine(line string, lineNum int) (rec *record, skip bool, err error) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return nil, false, nil
	}

	token := fields[0]
	value := int32(defaultValue)
	if len(fields) > 1 {
		if v, perr := strconv.ParseInt(fields[1], 10, 32); perr == nil {
			value = int32(v)
		}
	}

	if strings.Contains(token, "/") {
		first, last, perr := parsePrefix(token)
		if perr != nil {
			h.logger.LogSkippedLine(lineNum, token, perr)
			return nil, true, nil
		}
		return &record{first: first, last: last, value: value}, false, nil
	}

	addr, perr := parseAddress(token)
	if perr != nil {
		return nil, false, &ParseError{Line: lineNum, Token: token, cause: perr}
	}
	return &record{first: addr, last: addr, value: value}, false, nil
}

// parseAddress accepts a dotted quad or a bare decimal integer equal to
// the address's numeric value.
func parseAddress(token string) (uint32, error) {
	if isAllDigits(token) {
		v, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid address as integer: %w", err)
		}
		return uint32(v), nil
	}

	addr, err := netip.ParseAddr(token)
	if err != nil {
		return 0, err
	}
	if !addr.Is4() {
		return 0, fmt.Errorf("not an IPv4 address: %s", token)
	}
	return addrToUint32(addr), nil
}

// parsePrefix parses an `address/prefixLength` range literal into its
// inclusive first and last address.
func parsePrefix(token string) (first, last uint32, err error) {
	prefix, err := netip.ParsePrefix(token)
	if err != nil {
		return 0, 0, err
	}
	if !prefix.Addr().Is4() {
		return 0, 0, fmt.Errorf("not an IPv4 prefix: %s", token)
	}

	first = addrToUint32(prefix.Masked().Addr())
	hostMask := ^uint32(0) >> prefix.Bits()
	return first, first | hostMask, nil
}

func addrToUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:])
}

// splitFields splits on commas and whitespace, dropping empty fields.
func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r'
	})
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}

func (h *Heatmap) progressLimiter() *rate.Limiter {
	if h.progress <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Second), 1)
}

func (h *Heatmap) logProgress(limiter *rate.Limiter, lines, skipped int) {
	if limiter == nil || lines%h.progress != 0 {
		return
	}
	if limiter.Allow() {
		h.logger.Debug("ingest progress", "lines", lines, "skipped", skipped)
	}
}
