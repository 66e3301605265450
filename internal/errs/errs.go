// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs defines the value-typed error kinds shared by every stage of
// the kraktools pipeline: report parsing, log parsing, sequence extraction
// and argument handling. The parse kinds carry the context needed to
// locate the failure: MalformedReport and MalformedLog a filename and line
// number, TruncatedRecord and FormatMismatch a byte offset.
package errs

import "fmt"

// IoError wraps an I/O failure encountered while reading or writing a named
// file.
type IoError struct {
	File string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// MalformedReport is returned by internal/report when a report line fails
// to parse structurally.
type MalformedReport struct {
	File   string
	Line   int
	Reason string
}

func (e *MalformedReport) Error() string {
	return fmt.Sprintf("%s:%d: malformed report: %s", e.File, e.Line, e.Reason)
}

// MalformedLog is returned by internal/kraklog when a log line has fewer
// than the three required fields or a field fails to parse.
type MalformedLog struct {
	File   string
	Line   int
	Reason string
}

func (e *MalformedLog) Error() string {
	return fmt.Sprintf("%s:%d: malformed log: %s", e.File, e.Line, e.Reason)
}

// TruncatedRecord is returned by internal/extract when a FASTA/FASTQ record
// ends before all of its required lines are present.
type TruncatedRecord struct {
	File   string
	Offset int64
}

func (e *TruncatedRecord) Error() string {
	return fmt.Sprintf("%s: truncated record at offset %d", e.File, e.Offset)
}

// FormatMismatch is returned by internal/extract when the sequence format
// auto-detected from the first record is violated by a later record (for
// example a FASTQ '+' separator line that does not begin with '+').
type FormatMismatch struct {
	File   string
	Offset int64
	Reason string
}

func (e *FormatMismatch) Error() string {
	return fmt.Sprintf("%s: format mismatch at offset %d: %s", e.File, e.Offset, e.Reason)
}

// UnknownTaxon reports taxon ids named by the caller that are not present
// in the parsed tree. It is aggregated — one value carries every unknown
// id from a single resolve operation. internal/resolve returns it as an
// error in Strict mode and from Resolver.Subtree; in Permissive mode the
// ids are recorded in resolve.Expansion.Unknown and the operation
// proceeds.
type UnknownTaxon struct {
	Ids []uint32
}

func (e *UnknownTaxon) Error() string {
	return fmt.Sprintf("%d unknown taxon id(s): %v", len(e.Ids), e.Ids)
}

// InvalidArgument reports a malformed command-line argument.
type InvalidArgument struct {
	Flag   string
	Reason string
}

func (e *InvalidArgument) Error() string {
	return fmt.Sprintf("--%s: %s", e.Flag, e.Reason)
}

// Cancelled is returned by internal/extract when a run is stopped early
// because a worker encountered a fatal error or the caller's context was
// cancelled.
type Cancelled struct {
	Reason string
}

func (e *Cancelled) Error() string {
	if e.Reason == "" {
		return "cancelled"
	}
	return fmt.Sprintf("cancelled: %s", e.Reason)
}

// Exit codes for cmd/krakentools, per spec.
const (
	ExitOK         = 0
	ExitUserError  = 1
	ExitParseError = 2
	ExitIoError    = 3
	ExitCancelled  = 130
)

// ExitCode maps an error produced anywhere in the pipeline to the process
// exit code it should cause cmd/krakentools to return. Unrecognized errors
// default to ExitIoError, matching the teacher's fail-closed behaviour in
// cmd/ins/main.go's use of log.Fatal for unexpected I/O failures.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch err.(type) {
	case *MalformedReport, *MalformedLog, *TruncatedRecord, *FormatMismatch:
		return ExitParseError
	case *InvalidArgument, *UnknownTaxon:
		return ExitUserError
	case *Cancelled:
		return ExitCancelled
	case *IoError:
		return ExitIoError
	default:
		return ExitIoError
	}
}
