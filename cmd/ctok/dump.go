package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.spiff.io/ctok"
)

func dumpCommand(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	keepWS := fs.Bool("ws", false, "include whitespace tokens in the dump")
	refs := fs.Bool("refs", false, "print interned (category, id) refs instead of raw text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("ctok dump: path required")
	}

	files, err := collectSourceFiles(targets)
	if err != nil {
		return err
	}

	for _, path := range files {
		if err := dumpFile(path, *keepWS, *refs); err != nil {
			return err
		}
	}
	return nil
}

func dumpFile(path string, keepWS, refs bool) error {
	fi, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer fi.Close()

	if refs {
		return dumpRefs(filepath.Base(path), fi, keepWS)
	}

	lex := ctok.NewLexer(fi)
	lex.Name = filepath.Base(path)
	for {
		tok, err := lex.ReadToken()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if tok.Category == ctok.TEOF {
			return nil
		}
		if tok.Category == ctok.TWhitespace && !keepWS {
			continue
		}
		fmt.Printf("%s:%d:%d: %v %q\n",
			path, tok.Start.Line, tok.Start.Column, tok.Category, tok.Raw)
	}
}

func dumpRefs(name string, fi *os.File, keepWS bool) error {
	s := ctok.Scan(fi)
	s.KeepWhitespace = keepWS
	for {
		ref, err := s.Next()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if ref.Category == ctok.TEOF {
			return nil
		}
		text, err := s.Table().Lookup(ref.Category, ref.ID)
		if err != nil {
			return fmt.Errorf("resolve %v: %w", ref, err)
		}
		fmt.Printf("%s: %v %q\n", name, ref, text)
	}
}

// sourceExts are the extensions picked up when walking a directory. Files
// named directly are always tokenized, whatever their extension.
var sourceExts = map[string]bool{
	".c":   true,
	".h":   true,
	".cc":  true,
	".hh":  true,
	".cpp": true,
	".hpp": true,
	".cxx": true,
}

func collectSourceFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string, direct bool) {
		if !direct && !sourceExts[filepath.Ext(path)] {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, path)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target, true)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path, false)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
