package cotw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cotw-list/internal/domain/entity"
)

// documentHeader is the AsciiDoc title, introduction and table opening.
const documentHeader = "\n" +
	"= _This Week in Rust_`'s Crates of the Week\n" +
	"\n" +
	"The Rust crates that have been honored by link:https://this-week-in-rust.org[_This Week in Rust_]\n" +
	"as \"`Crate of the Week`\".\n" +
	"\n" +
	"[%autowidth]\n" +
	"|===\n" +
	"| Date | Crate\n" +
	"\n"

const documentFooter = "|===\n"

// RenderStats reports how many entries became table rows.
type RenderStats struct {
	Rows    int
	Skipped int
}

// Renderer writes the entry list as an AsciiDoc table.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes the complete document to w. Entries without a crate id produce no row.
func (r *Renderer) Render(w io.Writer, entries []entity.Entry) (RenderStats, error) {
	var stats RenderStats

	if _, err := io.WriteString(w, documentHeader); err != nil {
		return stats, err
	}

	for _, e := range entries {
		if e.ID == nil {
			stats.Skipped++
			continue
		}
		date, err := entity.FormatDate(e.Date)
		if err != nil {
			return stats, fmt.Errorf("row for crate %s: %w", *e.ID, err)
		}
		if _, err := fmt.Fprintf(w, "| %s | link:%s[%s]\n\n", date, e.LinkURL(), *e.ID); err != nil {
			return stats, err
		}
		stats.Rows++
	}

	if _, err := io.WriteString(w, documentFooter); err != nil {
		return stats, err
	}
	return stats, nil
}

// WriteFile renders entries into dir/name, creating dir if needed and truncating
// any existing file. The buffered writer is flushed and the file closed on every
// path; the first error encountered is returned.
func (r *Renderer) WriteFile(dir, name string, entries []entity.Entry) (stats RenderStats, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return stats, fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	stats, err = r.Render(bw, entries)
	if err != nil {
		// Keep whatever was rendered before the failure. A flush error here is
		// superseded by the render error.
		_ = bw.Flush()
		return stats, fmt.Errorf("write output file: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flush output file: %w", err)
	}
	return stats, nil
}
