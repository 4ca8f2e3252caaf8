package bib

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/nickng/bibtex"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// WriteCSV writes a tag/type/author/year/title table of the bibliography.
// With winEncoding the file is transcoded to Windows-1252 so Excel opens
// it without mangling accents; unmappable runes are substituted.
func WriteCSV(path string, bt *bibtex.BibTex, winEncoding bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var out io.Writer = f
	var enc *transform.Writer
	if winEncoding {
		enc = transform.NewWriter(f, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
		out = enc
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"tag", "type", "author", "year", "title"}); err != nil {
		f.Close()
		return err
	}
	for _, e := range bt.Entries {
		row := []string{e.CiteName, e.Type, field(e, "author"), field(e, "year"), field(e, "title")}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

func field(e *bibtex.BibEntry, name string) string {
	if v, ok := e.Fields[name]; ok && v != nil {
		return v.String()
	}
	return ""
}
