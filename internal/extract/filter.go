// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kortschak/krakentools/internal/errs"
	"github.com/kortschak/krakentools/internal/plan"
)

// cancelCheckInterval is how many records a worker processes between
// checks of the shared cancellation signal, per spec.md §5 ("at most
// every few thousand records within a chunk").
const cancelCheckInterval = 4096

// Options configures a Run call.
type Options struct {
	Format Format
	Plan   *plan.Plan
	// Workers is the size of the fixed worker pool. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int
	// Unordered allows workers to write their matched records to dst as
	// soon as they finish, rather than strictly in chunk order. It must
	// be requested explicitly (spec.md §5).
	Unordered bool
}

// Result aggregates the statistics spec.md §4.E and §6 require: totals and
// a per-taxon breakdown of how many sequences were extracted.
type Result struct {
	TotalInput     uint64
	TotalExtracted uint64
	PerTaxon       map[uint32]uint64 // nil unless opts.Plan.TaxonOf != nil
}

// Run filters buf record-by-record against opts.Plan.Include, writing
// matching records to dst in the order described by opts.Unordered. It
// implements spec.md §4.E and §5: the buffer is split into record-aligned
// chunks, each chunk is scanned by an independent worker in a fixed pool,
// and the reduction to Result is single-threaded.
func Run(ctx context.Context, buf []byte, dst io.Writer, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	bounds := chunkBounds(buf, opts.Format, workers)
	nChunks := len(bounds) - 1
	chunkOut := make([][]byte, nChunks)
	chunkTotal := make([]uint64, nChunks)
	chunkMatched := make([]uint64, nChunks)
	chunkCounts := make([]map[uint32]uint64, nChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var writeMu sync.Mutex
	for i := 0; i < nChunks; i++ {
		i := i
		start, end := bounds[i], bounds[i+1]
		g.Go(func() error {
			out, total, matched, counts, err := processChunk(gctx, buf, start, end, opts.Format, opts.Plan)
			if err != nil {
				return err
			}
			chunkTotal[i] = total
			chunkMatched[i] = matched
			chunkCounts[i] = counts
			if opts.Unordered {
				writeMu.Lock()
				_, werr := dst.Write(out)
				writeMu.Unlock()
				if werr != nil {
					return &errs.IoError{File: "output", Err: werr}
				}
			} else {
				chunkOut[i] = out
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	if opts.Plan.TaxonOf != nil {
		res.PerTaxon = make(map[uint32]uint64)
	}
	for i := 0; i < nChunks; i++ {
		res.TotalInput += chunkTotal[i]
		res.TotalExtracted += chunkMatched[i]
		for tid, n := range chunkCounts[i] {
			res.PerTaxon[tid] += n
		}
		if !opts.Unordered && len(chunkOut[i]) > 0 {
			if _, err := dst.Write(chunkOut[i]); err != nil {
				return nil, &errs.IoError{File: "output", Err: err}
			}
		}
	}
	return res, nil
}

// processChunk scans buf[start:end] one record at a time, testing each
// against p.Include and appending matches (verbatim, byte for byte) to its
// own output buffer. It never touches memory outside [start:end) or
// written by any other worker (spec.md §5's no-shared-mutation guarantee).
func processChunk(ctx context.Context, buf []byte, start, end int, format Format, p *plan.Plan) (out []byte, total, matched uint64, counts map[uint32]uint64, err error) {
	if p.TaxonOf != nil {
		counts = make(map[uint32]uint64)
	}
	var obuf bytes.Buffer

	pos := start
	sinceCheck := 0
	for pos < end {
		if sinceCheck >= cancelCheckInterval {
			if ctx.Err() != nil {
				return nil, 0, 0, nil, &errs.Cancelled{Reason: ctx.Err().Error()}
			}
			sinceCheck = 0
		}
		sinceCheck++

		var (
			header []byte
			recEnd int
			recErr error
		)
		switch format {
		case FASTA:
			header, recEnd, recErr = readFASTA(buf, pos, end)
		case FASTQ:
			header, recEnd, recErr = readFASTQ(buf, pos, end)
		}
		if recErr != nil {
			return nil, 0, 0, nil, recErr
		}

		total++
		id := idOf(header)
		if _, ok := p.Include[string(id)]; ok {
			matched++
			obuf.Write(buf[pos:recEnd])
			if counts != nil {
				if tid, ok := p.TaxonOf[string(id)]; ok {
					counts[tid]++
				}
			}
		}
		pos = recEnd
	}
	return obuf.Bytes(), total, matched, counts, nil
}

// readFASTA returns the header line and the end offset of the record
// starting at pos (the next '>' at a line start, or end).
func readFASTA(buf []byte, pos, end int) (header []byte, recEnd int, err error) {
	header, next, ok := line(buf, pos)
	if !ok || len(header) == 0 || header[0] != '>' {
		return nil, 0, &errs.FormatMismatch{Offset: int64(pos), Reason: "expected FASTA header"}
	}
	scanPos := next
	for scanPos < end {
		if buf[scanPos] == '>' && (scanPos == 0 || buf[scanPos-1] == '\n') {
			return header, scanPos, nil
		}
		_, np, ok := line(buf, scanPos)
		if !ok {
			return header, end, nil
		}
		scanPos = np
	}
	return header, end, nil
}

// readFASTQ returns the header line and the end offset of the 4-line
// record starting at pos, or a *errs.TruncatedRecord / *errs.FormatMismatch
// if the record is incomplete or structurally invalid.
func readFASTQ(buf []byte, pos, end int) (header []byte, recEnd int, err error) {
	header, p1, ok := line(buf, pos)
	if !ok || len(header) == 0 || header[0] != '@' {
		return nil, 0, &errs.FormatMismatch{Offset: int64(pos), Reason: "expected FASTQ header"}
	}
	seq, p2, ok := line(buf, p1)
	if !ok {
		return nil, 0, &errs.TruncatedRecord{Offset: int64(pos)}
	}
	plusLine, p3, ok := line(buf, p2)
	if !ok {
		return nil, 0, &errs.TruncatedRecord{Offset: int64(pos)}
	}
	if len(plusLine) == 0 || plusLine[0] != '+' {
		return nil, 0, &errs.FormatMismatch{Offset: int64(pos), Reason: "expected '+' separator line"}
	}
	qual, p4, ok := line(buf, p3)
	if !ok {
		return nil, 0, &errs.TruncatedRecord{Offset: int64(pos)}
	}
	if len(qual) != len(seq) {
		return nil, 0, &errs.FormatMismatch{Offset: int64(pos), Reason: "sequence and quality lengths differ"}
	}
	if p4 > end {
		p4 = end
	}
	return header, p4, nil
}
