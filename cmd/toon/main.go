// toon - TOON codec CLI tool
//
// Usage:
//
//	toon encode [options] [file]   Convert JSON to TOON
//	toon decode [options] [file]   Convert TOON to JSON
//	toon version                   Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/toon-format/toon/toon"
)

const toolVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	// Parse flags and file argument
	delimiter := byte(',')
	indent := 2
	fold := false
	foldDepth := 0
	expand := toon.ExpandAutomatic
	pretty := false
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case strings.HasPrefix(arg, "--delimiter="):
			switch arg[len("--delimiter="):] {
			case "comma":
				delimiter = ','
			case "tab":
				delimiter = '\t'
			case "pipe":
				delimiter = '|'
			default:
				fatal("unknown delimiter: %s (want comma, tab, or pipe)", arg[len("--delimiter="):])
			}
		case strings.HasPrefix(arg, "--indent="):
			n, err := strconv.Atoi(arg[len("--indent="):])
			if err != nil || n < 1 {
				fatal("invalid indent: %s", arg[len("--indent="):])
			}
			indent = n
		case arg == "--fold":
			fold = true
		case strings.HasPrefix(arg, "--fold-depth="):
			n, err := strconv.Atoi(arg[len("--fold-depth="):])
			if err != nil || n < 1 {
				fatal("invalid fold depth: %s", arg[len("--fold-depth="):])
			}
			foldDepth = n
		case strings.HasPrefix(arg, "--expand="):
			switch arg[len("--expand="):] {
			case "auto":
				expand = toon.ExpandAutomatic
			case "off":
				expand = toon.ExpandDisabled
			case "safe":
				expand = toon.ExpandSafe
			default:
				fatal("unknown expand mode: %s (want auto, off, or safe)", arg[len("--expand="):])
			}
		case arg == "--pretty":
			pretty = true
		case arg == "--compact":
			pretty = false
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			} else {
				fatal("unknown option: %s", arg)
			}
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "encode":
		opts := toon.DefaultEncodeOptions()
		opts.Delimiter = delimiter
		opts.Indent = indent
		if fold {
			opts.KeyFolding = toon.FoldSafe
		}
		opts.FoldDepth = foldDepth
		cmdEncode(input, opts)
	case "decode":
		opts := toon.DefaultDecodeOptions()
		opts.Expand = expand
		cmdDecode(input, opts, pretty)
	case "version", "-v", "--version":
		fmt.Printf("toon %s (format %s)\n", toolVersion, toon.FormatVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

// cmdEncode: JSON -> TOON
func cmdEncode(r io.Reader, opts toon.EncodeOptions) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	v, err := toon.FromJSON(data)
	if err != nil {
		fatal("%v", err)
	}
	text, err := toon.EncodeWithOptions(v, opts)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(text)
}

// cmdDecode: TOON -> JSON
func cmdDecode(r io.Reader, opts toon.DecodeOptions, pretty bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	v, err := toon.DecodeWithOptions(data, opts)
	if err != nil {
		fatal("%v", err)
	}
	out, err := toon.ToJSON(v, pretty)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(string(out))
}

func printUsage() {
	fmt.Fprint(os.Stderr, `toon - TOON codec CLI tool

Usage:
  toon encode [options] [file]   Convert JSON to TOON
  toon decode [options] [file]   Convert TOON to JSON
  toon version                   Print version info

Options:
  --delimiter=D       Array delimiter: comma (default), tab, or pipe
  --indent=N          Spaces per indentation level (default: 2)
  --fold              Fold single-key object chains into dotted keys (encode)
  --fold-depth=N      Limit folded path length to N segments (encode)
  --expand=M          Path expansion mode: auto (default), off, safe (decode)
  --pretty            Pretty-print JSON output (decode)
  --compact           Compact JSON output (decode, default)

If no file is given, reads from stdin.

Examples:
  echo '{"name":"Ada","tags":["a","b"]}' | toon encode
  # Output:
  # name: Ada
  # tags[2]: a,b

  toon decode data.toon --pretty > data.json
`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "toon: "+format+"\n", args...)
	os.Exit(1)
}
