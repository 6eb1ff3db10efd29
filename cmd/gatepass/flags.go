package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	gatepass "github.com/alnah/go-gatepass"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// runtimeFlags override the configuration of the pipeline.
type runtimeFlags struct {
	baseURL   string
	staticDir string
	template  string
	binary    string
	format    string
	timeout   string
	workers   int
	logPath   string
	logLevel  string
}

// submissionFlags hold the form values for the generate command.
type submissionFlags struct {
	name             string
	rollNo           string
	dateFrom         string
	dateTo           string
	arrivalDate      string
	arrivalTime      string
	homeAddress      string
	studentContactNo string
	parentName       string
	parentContactNo  string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	runtime runtimeFlags
	addr    string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common     commonFlags
	runtime    runtimeFlags
	submission submissionFlags
	json       bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common  commonFlags
	runtime runtimeFlags
	json    bool
}

// initFlags holds flags for the init command.
type initFlags struct {
	template string
	force    bool
}

// configFlags holds flags for the config command.
type configFlags struct {
	common  commonFlags
	runtime runtimeFlags
	addr    string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addRuntimeFlags adds pipeline configuration flags to a FlagSet.
func addRuntimeFlags(fs *flag.FlagSet, f *runtimeFlags) {
	fs.StringVar(&f.baseURL, "base-url", "", "public URL encoded in QR codes")
	fs.StringVar(&f.staticDir, "static-dir", "", "directory where passes are stored")
	fs.StringVarP(&f.template, "template", "t", "", "DOCX template path")
	fs.StringVar(&f.binary, "soffice", "", "LibreOffice executable (name or path)")
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, odt, rtf, html, txt")
	fs.StringVar(&f.timeout, "timeout", "", "conversion timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent conversions (0 = auto)")
	fs.StringVar(&f.logPath, "log-file", "", "append-only log file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// addSubmissionFlags adds the form fields to a FlagSet.
func addSubmissionFlags(fs *flag.FlagSet, f *submissionFlags) {
	fs.StringVar(&f.name, "name", "", "student name (required)")
	fs.StringVar(&f.rollNo, "roll-no", "", "roll number (required)")
	fs.StringVar(&f.dateFrom, "from", "", "leave start date (required)")
	fs.StringVar(&f.dateTo, "to", "", "leave end date (required)")
	fs.StringVar(&f.arrivalDate, "arrival-date", "", "arrival date (required)")
	fs.StringVar(&f.arrivalTime, "arrival-time", "", "arrival time (required)")
	fs.StringVar(&f.homeAddress, "home-address", "", "home address")
	fs.StringVar(&f.studentContactNo, "student-contact", "", "student contact number")
	fs.StringVar(&f.parentName, "parent-name", "", "parent name")
	fs.StringVar(&f.parentContactNo, "parent-contact", "", "parent contact number")
}

// submission converts the flag values into a pipeline submission.
func (f *submissionFlags) submission() gatepass.Submission {
	return gatepass.Submission{
		Name:             f.name,
		RollNo:           f.rollNo,
		DateFrom:         f.dateFrom,
		DateTo:           f.dateTo,
		ArrivalDate:      f.arrivalDate,
		ArrivalTime:      f.arrivalTime,
		HomeAddress:      f.homeAddress,
		StudentContactNo: f.studentContactNo,
		ParentName:       f.parentName,
		ParentContactNo:  f.parentContactNo,
	}
}

func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parse parses args and rejects positional arguments.
// flag.ErrHelp is returned unwrapped so that -h exits successfully.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

// buildServeFlagSet registers the serve flags into f.
func buildServeFlagSet(f *serveFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("serve", stderr, printServeUsage)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (e.g., :5000)")
	addCommonFlags(fs, &f.common)
	addRuntimeFlags(fs, &f.runtime)
	return fs
}

// buildGenerateFlagSet registers the generate flags into f.
func buildGenerateFlagSet(f *generateFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("generate", stderr, printGenerateUsage)
	addSubmissionFlags(fs, &f.submission)
	addCommonFlags(fs, &f.common)
	addRuntimeFlags(fs, &f.runtime)
	fs.BoolVar(&f.json, "json", false, "print the artifact as JSON")
	return fs
}

// buildDoctorFlagSet registers the doctor flags into f.
func buildDoctorFlagSet(f *doctorFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("doctor", stderr, printDoctorUsage)
	addCommonFlags(fs, &f.common)
	addRuntimeFlags(fs, &f.runtime)
	fs.BoolVar(&f.json, "json", false, "output as JSON")
	return fs
}

// buildInitFlagSet registers the init flags into f.
func buildInitFlagSet(f *initFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("init", stderr, printInitUsage)
	fs.StringVarP(&f.template, "template", "t", "", "where to write the starter template")
	fs.BoolVar(&f.force, "force", false, "overwrite an existing file")
	return fs
}

// buildConfigFlagSet registers the config flags into f.
func buildConfigFlagSet(f *configFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("config", stderr, printConfigUsage)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (e.g., :5000)")
	addCommonFlags(fs, &f.common)
	addRuntimeFlags(fs, &f.runtime)
	return fs
}

func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	if err := parse(buildServeFlagSet(f, stderr), args); err != nil {
		return nil, err
	}
	return f, nil
}

func parseGenerateFlags(args []string, stderr io.Writer) (*generateFlags, error) {
	f := &generateFlags{}
	if err := parse(buildGenerateFlagSet(f, stderr), args); err != nil {
		return nil, err
	}
	return f, nil
}

func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	if err := parse(buildDoctorFlagSet(f, stderr), args); err != nil {
		return nil, err
	}
	return f, nil
}

func parseInitFlags(args []string, stderr io.Writer) (*initFlags, error) {
	f := &initFlags{}
	if err := parse(buildInitFlagSet(f, stderr), args); err != nil {
		return nil, err
	}
	return f, nil
}

func parseConfigFlags(args []string, stderr io.Writer) (*configFlags, error) {
	f := &configFlags{}
	if err := parse(buildConfigFlagSet(f, stderr), args); err != nil {
		return nil, err
	}
	return f, nil
}
