// Command huffman compresses a file with a static Huffman code.
//
//	huffman [flags] encode <input> <codebook> <encoded>
//	huffman [flags] decode <codebook> <encoded> <output>
//	huffman [flags] inspect [-json] <codebook>
//
// The exit code is 0 on success and 1 on any failure.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/egonelbre/exp-huffman-codebook/events"
	"github.com/egonelbre/exp-huffman-codebook/jobs"
)

const usage = `usage:
  huffman [flags] encode <input> <codebook> <encoded>
  huffman [flags] decode <codebook> <encoded> <output>
  huffman [flags] inspect [-json] <codebook>

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options are the flags shared by every subcommand.
type options struct {
	logFormat string
	events    string
	quiet     bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("huffman", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.logFormat, "log-format", envOr("HUFFMAN_LOG_FORMAT", "text"), "event log format: text or json")
	fs.StringVar(&opts.events, "events", "", "also write every event as protobuf records to this file")
	fs.BoolVar(&opts.quiet, "quiet", false, "do not print the human readable summary")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if opts.logFormat != "text" && opts.logFormat != "json" {
		fmt.Fprintf(stderr, "unknown log format %q\n", opts.logFormat)
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 1
	}

	sink, closeSink, err := openSink(opts, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var code int
	switch rest[0] {
	case "encode":
		code = encode(rest[1:], opts, sink, stdout, stderr)
	case "decode":
		code = decode(rest[1:], sink, stderr)
	case "inspect":
		code = inspect(rest[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		fs.Usage()
		code = 1
	}

	if err := closeSink(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return code
}

// openSink builds the event sink: a log on stderr, plus a record file when
// requested.
func openSink(opts options, stderr io.Writer) (events.Sink, func() error, error) {
	log := events.NewTextLogger(stderr, opts.logFormat == "json")
	if opts.events == "" {
		return log, func() error { return nil }, nil
	}

	f, err := os.Create(opts.events)
	if err != nil {
		return nil, nil, fmt.Errorf("events file: %w", err)
	}
	rf := events.NewRecordfile(f)
	closeSink := func() error {
		if err := rf.Err(); err != nil {
			f.Close()
			return fmt.Errorf("events file: %w", err)
		}
		return f.Close()
	}
	return events.Multi{log, rf}, closeSink, nil
}

func encode(args []string, opts options, sink events.Sink, stdout, stderr io.Writer) int {
	if len(args) != 3 {
		fmt.Fprintln(stderr, "usage: huffman encode <input> <codebook> <encoded>")
		return 1
	}
	s, err := jobs.Encode(jobs.EncodeConfig{
		Input:    args[0],
		Codebook: args[1],
		Encoded:  args[2],
	}, sink)
	if err != nil {
		return 1
	}
	if !opts.quiet {
		if err := jobs.WriteSummary(stdout, s); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	return 0
}

func decode(args []string, sink events.Sink, stderr io.Writer) int {
	if len(args) != 3 {
		fmt.Fprintln(stderr, "usage: huffman decode <codebook> <encoded> <output>")
		return 1
	}
	_, err := jobs.Decode(jobs.DecodeConfig{
		Codebook: args[0],
		Encoded:  args[1],
		Output:   args[2],
	}, sink)
	if err != nil {
		return 1
	}
	return 0
}

func inspect(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: huffman inspect [-json] <codebook>")
		return 1
	}

	rep, err := jobs.Inspect(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *asJSON {
		err = rep.WriteJSON(stdout)
	} else {
		err = rep.WriteText(stdout)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
