package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "dump":
		return dumpCommand(args[2:])
	case "stats":
		return statsCommand(args[2:])
	case "explore":
		return exploreCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  dump [-ws] [-refs] <path>...")
	fmt.Fprintln(os.Stderr, "    tokenize C sources and print one token per line")
	fmt.Fprintln(os.Stderr, "  stats [-list] <path>...")
	fmt.Fprintln(os.Stderr, "    print per-category counts of distinct token texts")
	fmt.Fprintln(os.Stderr, "  explore")
	fmt.Fprintln(os.Stderr, "    interactive tokenizer")
	fmt.Fprintln(os.Stderr, "  help")
	fmt.Fprintln(os.Stderr, "    show this message")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
