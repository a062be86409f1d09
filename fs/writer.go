// Package fs provides file-based export of site graphs.
package fs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitegraph"
)

// JSONFile is the name of the site structure document.
const JSONFile = "site_structure.json"

// DirName returns the default output directory name for a crawl,
// e.g. "x.test_depth=3".
func DirName(domain string, depth int) string {
	return fmt.Sprintf("%s_depth=%d", domain, depth)
}

// Ensure JSONEncoder implements sitegraph.GraphEncoder at compile time.
var _ sitegraph.GraphEncoder = JSONEncoder{}

// JSONEncoder writes the site structure document: an object keyed by page
// URL, in discovery order, indented by two spaces.
type JSONEncoder struct{}

// EncodeGraph writes graph to w as indented JSON.
func (JSONEncoder) EncodeGraph(w io.Writer, graph *sitegraph.Graph) error {
	data, err := graph.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// File pairs an output file name with the encoder that produces it.
type File struct {
	Name    string
	Encoder sitegraph.GraphEncoder
}

// Ensure Writer implements sitegraph.GraphWriter at compile time.
var _ sitegraph.GraphWriter = (*Writer)(nil)

// Writer exports a graph as a set of files in one output directory.
//
// Files are written to dir.tmp and moved to dir only once all of them have
// been written, so a failed export never leaves a partial directory behind
// and a successful one replaces the previous run's output.
type Writer struct {
	dir   string
	files []File
}

// NewWriter creates a Writer that exports into dir.
func NewWriter(dir string, files ...File) *Writer {
	return &Writer{dir: filepath.Clean(dir), files: files}
}

// Dir returns the final output directory.
func (w *Writer) Dir() string {
	return w.dir
}

func (w *Writer) tempDir() string {
	return w.dir + ".tmp"
}

// WriteGraph encodes graph into every configured file and commits the
// directory.
func (w *Writer) WriteGraph(ctx context.Context, graph *sitegraph.Graph) error {
	if len(w.files) == 0 {
		return sitegraph.Errorf(sitegraph.EINVALID, "no output files configured")
	}

	// A stale temp directory from an interrupted export is discarded.
	if err := os.RemoveAll(w.tempDir()); err != nil {
		return err
	}
	if err := os.MkdirAll(w.tempDir(), 0755); err != nil {
		return err
	}

	for _, f := range w.files {
		if err := ctx.Err(); err != nil {
			_ = w.abort()
			return err
		}
		if err := w.writeFile(f, graph); err != nil {
			_ = w.abort()
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}

	return w.commit()
}

func (w *Writer) writeFile(f File, graph *sitegraph.Graph) error {
	if f.Name == "" || strings.ContainsAny(f.Name, `/\`) {
		return sitegraph.Errorf(sitegraph.EINVALID, "invalid output file name %q", f.Name)
	}

	file, err := os.Create(filepath.Join(w.tempDir(), f.Name))
	if err != nil {
		return err
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := f.Encoder.EncodeGraph(bw, graph); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return file.Close()
}

func (w *Writer) commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(w.dir); err != nil {
		return err
	}

	if err := os.Rename(w.tempDir(), w.dir); err != nil {
		return err
	}

	return nil
}

func (w *Writer) abort() error {
	return os.RemoveAll(w.tempDir())
}
