package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/handiism/cuesheet/internal/batch"
	"github.com/handiism/cuesheet/internal/config"
	"github.com/handiism/cuesheet/internal/model"
)

// sheetReport is the machine-readable form of one batch result.
type sheetReport struct {
	Source   string          `json:"source" yaml:"source"`
	Sheet    *model.CueSheet `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Warnings []warningReport `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
}

type warningReport struct {
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
	Text    string `json:"text" yaml:"text"`
}

func newReport(res batch.Result) sheetReport {
	r := sheetReport{Source: res.Source, Sheet: res.Sheet}
	for _, w := range res.Warnings {
		r.Warnings = append(r.Warnings, warningReport{Line: w.Line, Message: w.Message, Text: w.Text})
	}
	if res.Err != nil {
		r.Error = res.Err.Error()
	}
	return r
}

// isTerminal reports whether w is a terminal, in which case tables are
// rendered with colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderResults(w io.Writer, results []batch.Result, format string) error {
	reports := make([]sheetReport, 0, len(results))
	for _, res := range results {
		reports = append(reports, newReport(res))
	}

	switch format {
	case config.OutputJSON:
		return renderJSON(w, reports)
	case config.OutputYAML:
		return renderYAML(w, reports)
	default:
		for i, res := range results {
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			renderSheet(w, res, isTerminal(w))
		}
		return nil
	}
}

func renderJSON(w io.Writer, reports []sheetReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func renderYAML(w io.Writer, reports []sheetReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}

// renderSheet prints the disc header and a track table for one result.
func renderSheet(w io.Writer, res batch.Result, color bool) {
	paint := func(c text.Colors, s string) string {
		if !color {
			return s
		}
		return c.Sprint(s)
	}

	_, _ = fmt.Fprintf(w, "%s\n", paint(text.Colors{text.Bold}, res.Source))
	if !res.OK() {
		_, _ = fmt.Fprintf(w, "  %s %v\n", paint(text.Colors{text.FgRed}, "error:"), res.Err)
		return
	}

	sheet := res.Sheet
	for _, kv := range [][2]string{
		{"Title", sheet.Metadata.Title},
		{"Performer", sheet.Metadata.Performer},
		{"Catalog", sheet.Catalog},
		{"CD-TEXT", sheet.CDTextFile},
	} {
		if kv[1] != "" {
			_, _ = fmt.Fprintf(w, "  %-10s %s\n", kv[0]+":", kv[1])
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if color {
		t.Style().Color.Header = text.Colors{text.Bold, text.FgCyan}
	}
	t.AppendHeader(table.Row{"#", "Title", "Performer", "File", "Type", "Start", "Length", "Pregap", "Indexes", "Flags"})

	for _, file := range sheet.Files {
		lengths := trackLengths(file)
		for i, track := range file.Tracks {
			meta := track.Metadata.Inherit(sheet.Metadata)
			t.AppendRow(table.Row{
				fmt.Sprintf("%02d", track.Number),
				meta.Title,
				meta.Performer,
				file.Name,
				track.Type,
				track.Index01,
				lengths[i],
				formatPregap(track),
				formatIndexes(track.Indexes),
				track.Flags,
			})
		}
	}
	t.Render()

	_, _ = fmt.Fprintf(w, "(%d file(s), %d track(s))\n", len(sheet.Files), sheet.TrackCount())
	for _, warn := range res.Warnings {
		_, _ = fmt.Fprintf(w, "  %s %s\n", paint(text.Colors{text.FgYellow}, "warning:"), warn)
	}
}

func formatPregap(track model.Track) string {
	if track.Pregap == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s)", track.Pregap, track.PregapSource)
}

func formatIndexes(indexes []model.IndexEntry) string {
	parts := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		parts = append(parts, fmt.Sprintf("%02d=%s", idx.Number, idx.Time))
	}
	return strings.Join(parts, " ")
}

// trackLengths returns the distance from each track's INDEX 01 to the next
// one in the same file. The last track of a file has no known length.
func trackLengths(file model.FileEntry) []string {
	out := make([]string, len(file.Tracks))
	for i := 0; i+1 < len(file.Tracks); i++ {
		frames := file.Tracks[i+1].Index01.Frames() - file.Tracks[i].Index01.Frames()
		out[i] = model.IndexFromFrames(frames).String()
	}
	return out
}
