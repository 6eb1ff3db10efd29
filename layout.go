package gatepass

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"github.com/alnah/go-gatepass/internal/fileutil"
)

// Storage layout constants.
const (
	OutputDirName = "gatepasses"
	DateLayout    = "2006-01-02"
	fileSuffix    = "_GatePass"
	viewPrefix    = "/view/"
	documentExt   = ".docx"
)

// Layout maps (date, applicant name) to on-disk paths and public URLs:
//
//	<StaticDir>/gatepasses/<YYYY-MM-DD>/<name>_GatePass.<ext>
//	<BaseURL>/view/<YYYY-MM-DD>/<name>_GatePass.<ext>
type Layout struct {
	StaticDir string
	BaseURL   string // without trailing slash; empty yields relative URLs
	Format    string // converter format, only its extension is used
}

// BaseName returns the file name without extension for an applicant.
func BaseName(name string) string {
	return fileutil.SafeName(name) + fileSuffix
}

// DayDir returns the directory holding the passes of the given day.
func (l Layout) DayDir(date string) string {
	return filepath.Join(l.StaticDir, OutputDirName, date)
}

// Paths computes the artifact locations for name on the given day.
// Nothing is created on disk.
func (l Layout) Paths(day time.Time, name string) Artifact {
	date := day.Format(DateLayout)
	base := BaseName(name)
	file := base + "." + FormatExtension(l.Format)
	dir := l.DayDir(date)
	viewPath := viewPrefix + date + "/" + url.PathEscape(file)

	return Artifact{
		Date:         date,
		FileName:     file,
		Path:         filepath.Join(dir, file),
		DocumentPath: filepath.Join(dir, base+documentExt),
		RelPath:      path.Join(OutputDirName, date, file),
		ViewPath:     viewPath,
		URL:          l.BaseURL + viewPath,
	}
}

// Resolve returns the on-disk path of a published pass. It returns
// ErrNotFound when date is not a YYYY-MM-DD date, when filename is not a
// plain file name, or when no regular file exists there.
func (l Layout) Resolve(date, filename string) (string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrNotFound, date)
	}
	if !fileutil.IsPlainName(filename) {
		return "", fmt.Errorf("%w: invalid file name %q", ErrNotFound, filename)
	}
	p := filepath.Join(l.DayDir(date), filename)
	if !fileutil.FileExists(p) {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, date, filename)
	}
	return p, nil
}
