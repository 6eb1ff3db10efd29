package gatepass

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-gatepass/internal/docx"
)

// Form field names, as posted by the web form.
const (
	FieldName             = "name"
	FieldRollNo           = "roll_no"
	FieldDateFrom         = "datefrom"
	FieldDateTo           = "dateto"
	FieldArrivalDate      = "arrivaldate"
	FieldArrivalTime      = "arrivaltime"
	FieldHomeAddress      = "home_address"
	FieldStudentContactNo = "student_contact_no"
	FieldParentName       = "parent_name"
	FieldParentContactNo  = "parent_contact_no"
)

// FormFields lists every form field in form order.
var FormFields = []string{
	FieldName, FieldRollNo, FieldDateFrom, FieldDateTo, FieldArrivalDate,
	FieldArrivalTime, FieldHomeAddress, FieldStudentContactNo, FieldParentName,
	FieldParentContactNo,
}

// Submission is one filled-in gate pass form.
type Submission struct {
	Name             string
	RollNo           string
	DateFrom         string
	DateTo           string
	ArrivalDate      string
	ArrivalTime      string
	HomeAddress      string
	StudentContactNo string
	ParentName       string
	ParentContactNo  string
}

// SubmissionFromForm builds a Submission by looking up each form field
// with get (for example http.Request.PostFormValue).
func SubmissionFromForm(get func(field string) string) Submission {
	return Submission{
		Name:             get(FieldName),
		RollNo:           get(FieldRollNo),
		DateFrom:         get(FieldDateFrom),
		DateTo:           get(FieldDateTo),
		ArrivalDate:      get(FieldArrivalDate),
		ArrivalTime:      get(FieldArrivalTime),
		HomeAddress:      get(FieldHomeAddress),
		StudentContactNo: get(FieldStudentContactNo),
		ParentName:       get(FieldParentName),
		ParentContactNo:  get(FieldParentContactNo),
	}
}

// required returns the required fields paired with their values, in form order.
func (s Submission) required() [][2]string {
	return [][2]string{
		{FieldName, s.Name},
		{FieldRollNo, s.RollNo},
		{FieldDateFrom, s.DateFrom},
		{FieldDateTo, s.DateTo},
		{FieldArrivalDate, s.ArrivalDate},
		{FieldArrivalTime, s.ArrivalTime},
	}
}

// Validate checks that every required field is present.
// A blank (whitespace-only) value counts as missing.
func (s Submission) Validate() error {
	var missing []string
	for _, f := range s.required() {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Fields returns the template mapping for the submission. Keys follow the
// template's placeholder names, which differ from the form names for the
// date range (datefrom becomes from, dateto becomes to).
func (s Submission) Fields() Fields {
	return Fields{
		{"name", s.Name},
		{"roll_no", s.RollNo},
		{"from", s.DateFrom},
		{"to", s.DateTo},
		{"arrivaldate", s.ArrivalDate},
		{"arrivaltime", s.ArrivalTime},
		{"home_address", s.HomeAddress},
		{"student_contact_no", s.StudentContactNo},
		{"parent_name", s.ParentName},
		{"parent_contact_no", s.ParentContactNo},
	}
}

// ValidationError reports the required fields missing from a submission.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFields, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrMissingFields) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingFields
}

// Field is one placeholder name and its value.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered placeholder mapping. Substitution follows slice
// order, so a value containing another field's token is expanded only if
// that field comes later.
type Fields []Field

// replacements converts the mapping to {name} tokens with display values.
func (f Fields) replacements() []docx.Replacement {
	out := make([]docx.Replacement, 0, len(f))
	for _, field := range f {
		value := ""
		if field.Value != nil {
			value = fmt.Sprint(field.Value)
		}
		out = append(out, docx.Replacement{Token: "{" + field.Name + "}", Value: value})
	}
	return out
}

// Stage is a step of the generation pipeline.
type Stage int

// Pipeline stages, in execution order.
const (
	StageValidating Stage = iota
	StagePreparing
	StageGeneratingQR
	StageFilling
	StageConverting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StagePreparing:
		return "preparing"
	case StageGeneratingQR:
		return "generating_qr"
	case StageFilling:
		return "filling"
	case StageConverting:
		return "converting"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// StageError records the stage at which a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Artifact locates a generated gate pass.
type Artifact struct {
	Date         string // YYYY-MM-DD
	FileName     string // <name>_GatePass.<ext>
	Path         string // converted file on disk
	DocumentPath string // filled DOCX on disk
	RelPath      string // gatepasses/<date>/<file>, relative to the static dir
	ViewPath     string // /view/<date>/<file>, URL-escaped
	URL          string // ViewPath prefixed with the base URL
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout   time.Duration
	staticDir string
	baseURL   string
	format    string
	binary    string
	workers   int
	now       func() time.Time
}

// Defaults used when no option is given.
const (
	defaultTimeout   = 60 * time.Second
	defaultStaticDir = "static"
	defaultFormat    = "pdf"
)

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("gatepass: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithLogger sets the logger used for pipeline diagnostics.
// The default logger discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStaticDir sets the root directory under which passes are stored.
func WithStaticDir(dir string) Option {
	return func(s *Service) {
		s.cfg.staticDir = dir
	}
}

// WithBaseURL sets the public URL prefix encoded in QR codes
// (for example "https://gate.example.edu"). Without it, QR codes hold the
// bare /view/ path.
func WithBaseURL(u string) Option {
	return func(s *Service) {
		s.cfg.baseURL = strings.TrimRight(u, "/")
	}
}

// WithFormat sets the LibreOffice target format (default "pdf").
// A filter may follow the extension, as in "pdf:writer_pdf_Export".
func WithFormat(format string) Option {
	return func(s *Service) {
		if format != "" {
			s.cfg.format = format
		}
	}
}

// WithConverterBinary sets the LibreOffice binary, by path or by name.
func WithConverterBinary(binary string) Option {
	return func(s *Service) {
		s.cfg.binary = binary
	}
}

// WithWorkers bounds the number of concurrent runs.
// Zero or less resolves the size from GOMAXPROCS (see ResolvePoolSize).
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.cfg.workers = n
	}
}

// WithClock sets the function returning the current time, which decides
// the dated output directory.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.cfg.now = now
		}
	}
}
