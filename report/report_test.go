package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/report"
)

func TestSummarize(t *testing.T) {
	song := rollseq.NewSong()
	song.Tracks[1].AddEvents([]rollseq.Fields{rollseq.Note(0, 480, 60, 100), rollseq.Note(480, 480, 62, 100)})
	s := report.Summarize("demo", &song)
	if s.Tempo != 120 || s.Length != 960 || len(s.Tracks) != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
	want := map[string]int{"Track Name": 1, "Program Change": 1, "Controller": 2, "Note": 2, "End Of Track": 1}
	if diff := cmp.Diff(want, s.Tracks[1].Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if s.Tracks[1].Instrument != "Acoustic Grand Piano" || s.Tracks[0].Title != "Conductor" {
		t.Errorf("unexpected tracks %+v", s.Tracks)
	}
}

func TestWriteFormats(t *testing.T) {
	r, err := report.New()
	if err != nil {
		t.Fatal(err)
	}
	formats := r.Formats()
	slices.Sort(formats)
	if diff := cmp.Diff([]string{"md", "txt"}, formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	song := rollseq.NewSong()
	for _, format := range formats {
		var buf bytes.Buffer
		if err := r.Write(&buf, format, "demo", &song); err != nil {
			t.Fatalf("Write(%s) failed: %v", format, err)
		}
		for _, s := range []string{"demo", "Conductor", "Acoustic Grand Piano", "120.0"} {
			if !strings.Contains(buf.String(), s) {
				t.Errorf("%s report does not contain %q:\n%s", format, s, buf.String())
			}
		}
	}
	if err := r.Write(&bytes.Buffer{}, "pdf", "demo", &song); err == nil {
		t.Errorf("unknown format accepted")
	}
}

func TestCustomTemplates(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "summary.csv"), []byte(`{{ range .Tracks }}{{ .Index }},{{ .Title | upper }}{{ "\n" }}{{ end }}`), 0644)
	r, err := report.NewFromTemplates(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatal(err)
	}
	song := rollseq.NewSong()
	var buf bytes.Buffer
	if err := r.Write(&buf, "csv", "", &song); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "0,CONDUCTOR\n1,TRACK 1\n" {
		t.Errorf("got %q", got)
	}
}
