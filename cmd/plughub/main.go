/*
Package main is the plughub cli tool, it checks version strings
against a range requirement expression.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/plughub/plughub-core/providers/semver"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Requirement string `short:"r" long:"requirement" description:"Range requirement expression (e.g. '>=1.0.0 || 2.1.x')" required:"true"`
	Version     string `short:"v" long:"version"     description:"Version to test; when omitted versions are read from stdin, one per line"`
	Quiet       bool   `short:"q" long:"quiet"       description:"Suppress output, only set the exit code"`
}

func main() {
	var opt Options
	parser := flags.NewParser(&opt, flags.Default)
	parser.LongDescription = `plughub checks whether version strings satisfy a range requirement.
With --version the exit code reports the single result; without it every
matching version from stdin is printed.`
	if _, err := parser.Parse(); err != nil {
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	rr, err := semver.NewRangeRequirement(opt.Requirement)
	if err != nil {
		fmt.Fprintf(os.Stderr, "requirement: %v\n", err)
		os.Exit(2)
	}

	if opt.Version != "" {
		ver, err := semver.NewVersion(opt.Version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "version: %v\n", err)
			os.Exit(2)
		}
		if !rr.Match(ver) {
			if !opt.Quiet {
				fmt.Printf("%s does not satisfy %s\n", ver.Value(), rr.Value())
			}
			os.Exit(1)
		}
		if !opt.Quiet {
			fmt.Printf("%s satisfies %s\n", ver.Value(), rr.Value())
		}
		return
	}

	matched, err := filterVersions(rr, os.Stdin, os.Stdout, os.Stderr, opt.Quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		os.Exit(2)
	}
	if matched == 0 {
		os.Exit(1)
	}
}

// filterVersions reads version strings from r, one per line, and writes the
// ones satisfying rr to w. Blank lines and versions that do not parse are
// skipped with a note on errw. Returns how many versions matched.
func filterVersions(rr *semver.RangeRequirement, r io.Reader, w, errw io.Writer, quiet bool) (int, error) {
	matched := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		ver, err := semver.NewVersion(line)
		if err != nil {
			fmt.Fprintf(errw, "skipping %q: %v\n", line, err)
			continue
		}
		if !ver.Match(rr) {
			continue
		}
		matched++
		if !quiet {
			fmt.Fprintln(w, ver.Value())
		}
	}
	return matched, sc.Err()
}
