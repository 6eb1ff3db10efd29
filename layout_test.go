package gatepass

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLayout_Paths(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name   string
		layout Layout
		person string
		want   Artifact
	}{
		{
			name:   "absolute base URL",
			layout: Layout{StaticDir: "static", BaseURL: "https://gate.example.edu", Format: "pdf"},
			person: "Asha",
			want: Artifact{
				Date:         "2024-05-01",
				FileName:     "Asha_GatePass.pdf",
				Path:         filepath.Join("static", "gatepasses", "2024-05-01", "Asha_GatePass.pdf"),
				DocumentPath: filepath.Join("static", "gatepasses", "2024-05-01", "Asha_GatePass.docx"),
				RelPath:      "gatepasses/2024-05-01/Asha_GatePass.pdf",
				ViewPath:     "/view/2024-05-01/Asha_GatePass.pdf",
				URL:          "https://gate.example.edu/view/2024-05-01/Asha_GatePass.pdf",
			},
		},
		{
			name:   "relative URL, spaces escaped",
			layout: Layout{StaticDir: "s", Format: "odt"},
			person: "Asha Rao",
			want: Artifact{
				Date:         "2024-05-01",
				FileName:     "Asha Rao_GatePass.odt",
				Path:         filepath.Join("s", "gatepasses", "2024-05-01", "Asha Rao_GatePass.odt"),
				DocumentPath: filepath.Join("s", "gatepasses", "2024-05-01", "Asha Rao_GatePass.docx"),
				RelPath:      "gatepasses/2024-05-01/Asha Rao_GatePass.odt",
				ViewPath:     "/view/2024-05-01/Asha%20Rao_GatePass.odt",
				URL:          "/view/2024-05-01/Asha%20Rao_GatePass.odt",
			},
		},
		{
			name:   "separators cannot escape the day directory",
			layout: Layout{StaticDir: "s", Format: "pdf:writer_pdf_Export"},
			person: "../../etc/x",
			want: Artifact{
				Date:         "2024-05-01",
				FileName:     ".._.._etc_x_GatePass.pdf",
				Path:         filepath.Join("s", "gatepasses", "2024-05-01", ".._.._etc_x_GatePass.pdf"),
				DocumentPath: filepath.Join("s", "gatepasses", "2024-05-01", ".._.._etc_x_GatePass.docx"),
				RelPath:      "gatepasses/2024-05-01/.._.._etc_x_GatePass.pdf",
				ViewPath:     "/view/2024-05-01/.._.._etc_x_GatePass.pdf",
				URL:          "/view/2024-05-01/.._.._etc_x_GatePass.pdf",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.layout.Paths(day, tt.person)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayout_Resolve(t *testing.T) {
	t.Parallel()

	static := t.TempDir()
	l := Layout{StaticDir: static, Format: "pdf"}
	dayDir := l.DayDir("2024-05-01")
	if err := os.MkdirAll(filepath.Join(dayDir, ".staging-x"), 0o750); err != nil {
		t.Fatal(err)
	}
	published := filepath.Join(dayDir, "Asha_GatePass.pdf")
	if err := os.WriteFile(published, []byte("%PDF"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(static, "secret.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		date     string
		filename string
		want     string
		wantErr  bool
	}{
		{name: "published file", date: "2024-05-01", filename: "Asha_GatePass.pdf", want: published},
		{name: "absent file", date: "2024-05-01", filename: "Ravi_GatePass.pdf", wantErr: true},
		{name: "other day", date: "2024-05-02", filename: "Asha_GatePass.pdf", wantErr: true},
		{name: "invalid date", date: "2024-13-01", filename: "Asha_GatePass.pdf", wantErr: true},
		{name: "date traversal", date: "..", filename: "secret.txt", wantErr: true},
		{name: "file traversal", date: "2024-05-01", filename: "../../../secret.txt", wantErr: true},
		{name: "directory", date: "2024-05-01", filename: ".staging-x", wantErr: true},
		{name: "empty file name", date: "2024-05-01", filename: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := l.Resolve(tt.date, tt.filename)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("Resolve(%q, %q) error = %v, want ErrNotFound", tt.date, tt.filename, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}
