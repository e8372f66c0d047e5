// Package report renders human readable summaries of songs with text
// templates.
package report

import (
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/Masterminds/sprig"
	"github.com/rollseq/rollseq"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*
var templateFS embed.FS

type Reporter struct {
	Template *template.Template
}

// Summary is the data given to the templates.
type Summary struct {
	Name     string
	TimeBase int
	Tempo    float64
	Length   int
	Tracks   []TrackSummary
}

type TrackSummary struct {
	Index      int
	Title      string
	Channel    *int
	Instrument string
	// Counts maps a label like "Program Change" to the number of events of
	// that subtype.
	Counts map[string]int
}

// New returns a reporter using the built in templates.
func New() (*Reporter, error) {
	tmpl, err := template.New("base").Funcs(funcs()).ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}
	return &Reporter{Template: tmpl}, nil
}

// NewFromTemplates returns a reporter using the templates matching the glob
// pattern, e.g. to customize the output.
func NewFromTemplates(pattern string) (*Reporter, error) {
	tmpl, err := template.New("base").Funcs(funcs()).ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf(`could not create templates from "%v": %w`, pattern, err)
	}
	return &Reporter{Template: tmpl}, nil
}

func funcs() template.FuncMap {
	f := sprig.TxtFuncMap()
	f["deref"] = func(p *int) int { return *p }
	return f
}

// Formats returns the names of the formats the reporter knows, i.e. the
// extensions of its summary templates.
func (r *Reporter) Formats() []string {
	var ret []string
	for _, t := range r.Template.Templates() {
		if name := t.Name(); strings.HasPrefix(name, "summary.") {
			ret = append(ret, strings.TrimPrefix(filepath.Ext(name), "."))
		}
	}
	return ret
}

// Write renders the summary of song in the given format ("txt" or "md").
func (r *Reporter) Write(w io.Writer, format string, name string, song *rollseq.Song) error {
	templateName := "summary." + format
	if r.Template.Lookup(templateName) == nil {
		return fmt.Errorf("unknown report format %q", format)
	}
	if err := r.Template.ExecuteTemplate(w, templateName, Summarize(name, song)); err != nil {
		return fmt.Errorf(`could not execute template "%v": %w`, templateName, err)
	}
	return nil
}

// Summarize collects the data shown in the reports.
func Summarize(name string, song *rollseq.Song) Summary {
	caser := cases.Title(language.English)
	ret := Summary{Name: name, TimeBase: song.TimeBase, Tempo: 120}
	if bpm, ok := song.Tempo(0); ok {
		ret.Tempo = bpm
	}
	for i := range song.Tracks {
		t := &song.Tracks[i]
		ts := TrackSummary{Index: i, Title: t.DisplayName(), Channel: t.Channel, Counts: map[string]int{}}
		ts.Instrument, _ = t.InstrumentName()
		for j := range t.Events {
			e := &t.Events[j]
			label := string(e.Subtype)
			if label == "" {
				label = string(e.Type)
			}
			ts.Counts[caser.String(splitWords(label))]++
		}
		if end, ok := t.EndOfTrack(); ok {
			ret.Length = max(ret.Length, end)
		}
		ret.Tracks = append(ret.Tracks, ts)
	}
	return ret
}

// splitWords turns camelCase into space separated words.
func splitWords(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
