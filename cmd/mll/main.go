package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nickwells/check.mod/v2/check"
	"github.com/nickwells/filecheck.mod/filecheck"
	"github.com/nickwells/mll.mod/macros"
)

// Exit statuses
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type config struct {
	srcFile    string
	outFile    string
	toStdout   bool
	showMacros bool
	warn       bool
	dirs       []string
	suffixes   []string
}

func parseArgs(args []string, stderr io.Writer) (config, error) {
	var cfg config
	var dirs string

	fs := flag.NewFlagSet("mll", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: mll [flags] <file>")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.outFile, "o", "",
		"the file to write the expanded text to (default <file>.txt)")
	fs.BoolVar(&cfg.toStdout, "stdout", false,
		"write the expanded text to standard output")
	fs.BoolVar(&cfg.showMacros, "show-macros", false,
		"print the macro table after processing")
	fs.BoolVar(&cfg.warn, "warn", false,
		"report macro redefinitions and parameters with no argument")
	fs.StringVar(&dirs, "dirs", "",
		"a comma-separated list of directories to search for macros")
	fs.Func("suffix",
		"a suffix to try when searching the macro directories"+
			" (may be repeated)",
		func(s string) error {
			cfg.suffixes = append(cfg.suffixes, s)
			return nil
		})

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return cfg, fmt.Errorf("exactly one source file must be given")
	}
	cfg.srcFile = fs.Arg(0)
	if cfg.outFile == "" {
		cfg.outFile = cfg.srcFile + ".txt"
	}
	if dirs != "" {
		cfg.dirs = strings.Split(dirs, ",")
	}

	return cfg, nil
}

func (cfg config) engineOpts() []macros.OptFunc {
	var opts []macros.OptFunc
	if len(cfg.dirs) > 0 {
		opts = append(opts, macros.Dirs(cfg.dirs...))
	}
	for _, s := range cfg.suffixes {
		opts = append(opts, macros.Suffix(s))
	}
	return opts
}

// run expands the source file and reports the result. It returns the exit
// status.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return exitUsage
	}

	srcCheck := filecheck.Provisos{
		Checks:    []check.FileInfo{check.FileInfoIsRegular},
		Existence: filecheck.MustExist,
	}
	if err := srcCheck.StatusCheck(cfg.srcFile); err != nil {
		fmt.Fprintf(stderr, "Error: bad source file %q: %v\n", cfg.srcFile, err)
		return exitFail
	}
	src, err := os.ReadFile(cfg.srcFile)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitFail
	}

	e, err := macros.NewEngine(cfg.engineOpts()...)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitFail
	}
	out, err := e.Process(macros.TokenizeNamed(cfg.srcFile, string(src)))
	if cfg.warn {
		for _, w := range e.Warnings() {
			fmt.Fprintln(stderr, "Warning:", w)
		}
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitFail
	}

	if cfg.toStdout {
		if out != "" {
			fmt.Fprintln(stdout, out)
		}
	} else {
		if err := os.WriteFile(cfg.outFile, []byte(out), 0o644); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return exitFail
		}
		fmt.Fprintf(stdout, "Output (%s) was saved in file %q.\n",
			humanize.Bytes(uint64(len(out))), cfg.outFile)
	}

	if cfg.showMacros {
		fmt.Fprintln(stdout, e.Macros())
	}

	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
