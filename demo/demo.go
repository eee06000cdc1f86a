package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"go.spiff.io/ctok"
)

func main() {
	log.SetFlags(log.Lshortfile)
	if len(os.Args) == 1 {
		load("stdin", os.Stdin)
	}

	for _, p := range os.Args[1:] {
		loadFile(p)
	}
}

func loadFile(path string) {
	fi, err := os.Open(path)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	defer fi.Close()
	load(filepath.Base(path), fi)
}

type internDump struct {
	Category string
	Texts    []string
}

func load(name string, file *os.File) {
	buf := bufio.NewReader(file)
	lexer := ctok.NewLexer(buf)
	lexer.Name = name

	s := ctok.NewStream(lexer)
	var refs []ctok.Ref
	for {
		ref, err := s.Next()
		if err != nil {
			log.Print(err)
			break
		}
		if ref.Category == ctok.TEOF {
			break
		}
		refs = append(refs, ref)
	}

	tab := s.Table()
	cats := tab.Categories()
	dump := make([]internDump, 0, len(cats))
	for _, cat := range cats {
		dump = append(dump, internDump{Category: cat.String(), Texts: tab.Texts(cat)})
	}
	fmt.Fprintf(os.Stderr, "%# v\n------------------------------------------------------------------------\n",
		pretty.Formatter(dump))
	os.Stderr.Sync()
	for _, ref := range refs {
		text, err := tab.Lookup(ref.Category, ref.ID)
		if err != nil {
			log.Fatalf("error resolving ref: %v", err)
		}
		fmt.Printf("%v\t%s\n", ref, text)
	}
	os.Stdout.Sync()
}
