package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "deskshell.log")

	var content strings.Builder
	var all []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("level=INFO msg=\"line %d\"", i)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		want     []string
	}{
		{"zero reads all", 0, all},
		{"negative reads all", -1, all},
		{"last five", 5, all[5:]},
		{"exact", 10, all},
		{"more than exists", 20, all},
		{"one", 1, all[9:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Read() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 50)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Read() = %v, want empty", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Entry
	}{
		{
			name: "full logfmt",
			line: `time=2026-10-18T09:00:00Z level=WARN prefix=deskshell msg="mirror failed" op=SetLastView err="timeout"`,
			want: Entry{
				Time:    "2026-10-18T09:00:00Z",
				Level:   "warn",
				Prefix:  "deskshell",
				Message: "mirror failed",
				Fields:  [][2]string{{"op", "SetLastView"}, {"err", "timeout"}},
			},
		},
		{
			name: "escaped quotes",
			line: `level=info msg="said \"hi\""`,
			want: Entry{Level: "info", Message: `said "hi"`},
		},
		{
			name: "plain text",
			line: "  panic: something broke  ",
			want: Entry{Message: "panic: something broke"},
		},
		{
			name: "unterminated quote",
			line: `level=info msg="oops`,
			want: Entry{Message: `level=info msg="oops`},
		},
		{
			name: "empty",
			line: "",
			want: Entry{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			tt.want.Raw = tt.line
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}
