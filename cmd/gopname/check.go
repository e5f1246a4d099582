package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	pname "github.com/rickchristie/postgres-pname"
)

// newCLIProcessor builds a Processor for the one-shot commands. An unknown
// policy is reported as an error instead of the Processor's panic.
func newCLIProcessor(policy string) (*pname.Processor, error) {
	if _, err := pname.ParsePolicy(policy); err != nil {
		return nil, err
	}
	return pname.NewProcessor(pname.Config{Policy: policy}, zerolog.Nop()), nil
}

// runCheck validates every name argument. Valid names are written to stdout
// as "canonical<TAB>display"; rejections go to stderr. ok is false if any
// name was rejected.
func runCheck(args []string, stdout, stderr io.Writer) (ok bool, err error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	policy := fs.String("policy", "", "Validation policy: pattern, structural or structural_strict")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if fs.NArg() == 0 {
		return false, errors.New("check: at least one name is required")
	}

	processor, err := newCLIProcessor(*policy)
	if err != nil {
		return false, err
	}

	ok = true
	for _, raw := range fs.Args() {
		out := processor.Parse(pname.ParseInput{Name: raw})
		if out.Error != "" {
			fmt.Fprintf(stderr, "%s\n", out.Error)
			ok = false
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\n", out.Canonical, out.Display)
	}
	return ok, nil
}

// runSort reads one name per line from stdin and writes the valid ones in
// order. Blank lines are skipped; invalid lines are reported to stderr with
// their line number.
func runSort(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	policy := fs.String("policy", "", "Validation policy: pattern, structural or structural_strict")
	display := fs.Bool("display", false, "Write display forms (\"Given Family\") instead of canonical forms")
	if err := fs.Parse(args); err != nil {
		return err
	}

	processor, err := newCLIProcessor(*policy)
	if err != nil {
		return err
	}

	var names []string
	var lineNos []int
	scanner := bufio.NewScanner(stdin)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		names = append(names, line)
		lineNos = append(lineNos, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	out := processor.Sort(pname.SortInput{Names: names})
	if out.Error != "" {
		return errors.New(out.Error)
	}
	for _, inv := range out.Invalid {
		fmt.Fprintf(stderr, "line %d: %s\n", lineNos[inv.Index], inv.Error)
	}

	lines := out.Names
	if *display {
		lines = out.Display
	}
	for _, line := range lines {
		fmt.Fprintln(stdout, line)
	}
	return nil
}
