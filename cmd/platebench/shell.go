package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"platebench/pkg/compare"
	"platebench/pkg/dataset"
)

const Prompt = "plates> "

type shell struct {
	ctx         context.Context
	in          io.Reader
	out         io.Writer
	store       *dataset.Store
	svc         *compare.Service
	interactive bool
}

func (sh *shell) run() error {
	fmt.Fprintf(sh.out, "platebench shell (%d records). Type 'help' for commands.\n", sh.store.Len())

	scanner := bufio.NewScanner(sh.in)
	for {
		if sh.interactive {
			fmt.Fprint(sh.out, Prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "search", "find":
			if err := sh.handleSearch(parts); err != nil {
				return err
			}
		case "lookup", "get":
			sh.handleLookup(parts)
		case "stats":
			printDatasetStats(sh.out, sh.store.Stats())
		case "help":
			sh.printHelp()
		case "exit", "quit":
			fmt.Fprintln(sh.out, "Bye!")
			return nil
		default:
			// bare plate
			if err := sh.handleSearch(append([]string{"search"}, parts...)); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// handleSearch only returns sorter failures; those mean the dataset is
// broken and the session cannot continue.
func (sh *shell) handleSearch(parts []string) error {
	if len(parts) < 2 {
		fmt.Fprintln(sh.out, "Usage: search <plate>")
		return nil
	}
	plate := strings.Join(parts[1:], " ")
	res, err := sh.svc.Compare(sh.ctx, sh.store.Records(), plate)
	if err != nil {
		return err
	}
	printComparison(sh.out, res)
	return nil
}

func (sh *shell) handleLookup(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintln(sh.out, "Usage: lookup <plate>")
		return
	}
	printLookup(sh.out, sh.store, strings.Join(parts[1:], " "))
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.out, `
Commands:
  search <plate>     Sort with both algorithms, binary search, compare
  lookup <plate>     Direct index lookup
  stats              Dataset statistics
  <plate>            Same as search
  exit               Exit shell
	`)
}
