package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.spiff.io/ctok"
)

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	list := fs.Bool("list", false, "list every interned text with its id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("ctok stats: path required")
	}

	files, err := collectSourceFiles(targets)
	if err != nil {
		return err
	}

	for _, path := range files {
		if err := statsFile(path, *list); err != nil {
			return err
		}
	}
	return nil
}

func statsFile(path string, list bool) error {
	fi, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer fi.Close()

	lex := ctok.NewLexer(fi)
	lex.Name = filepath.Base(path)
	s := ctok.NewStream(lex)

	total := 0
	for {
		ref, err := s.Next()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if ref.Category == ctok.TEOF {
			break
		}
		total++
	}

	tab := s.Table()
	fmt.Printf("%s: %d tokens\n", path, total)
	for _, cat := range tab.Categories() {
		fmt.Printf("  %-12v %4d distinct\n", cat, tab.Len(cat))
		if !list {
			continue
		}
		err := tab.Each(cat, func(id ctok.ID, text string) error {
			fmt.Printf("    %4d %q\n", id, text)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
