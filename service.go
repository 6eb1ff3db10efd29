package gatepass

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Compile-time interface implementation checks.
var (
	_ qrGenerator       = (*goQRGenerator)(nil)
	_ templateFiller    = (*docxFiller)(nil)
	_ documentConverter = (*sofficeConverter)(nil)
	_ CommandRunner     = (*execRunner)(nil)
)

const (
	qrFileName    = "qr.png"
	stagingPrefix = ".staging-"
)

// Service runs the gate pass pipeline: validate, generate the QR code,
// fill the template, convert. It is safe for concurrent use.
type Service struct {
	cfg          serviceConfig
	templatePath string
	layout       Layout
	log          logrus.FieldLogger
	qr           qrGenerator
	filler       templateFiller
	converter    documentConverter
	pool         *Pool
	locks        *keyLock
}

// NewService creates a Service filling the DOCX template at templatePath.
// The template is opened on every run and never modified.
func NewService(templatePath string, opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:   defaultTimeout,
			staticDir: defaultStaticDir,
			format:    defaultFormat,
			now:       time.Now,
		},
		templatePath: templatePath,
		log:          discardLogger(),
		qr:           newQRGenerator(),
		filler:       &docxFiller{},
		locks:        newKeyLock(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create converter if not injected (e.g., by tests)
	if s.converter == nil {
		s.converter = newSofficeConverter(s.cfg.binary, s.cfg.format, s.cfg.timeout)
	}
	s.layout = Layout{StaticDir: s.cfg.staticDir, BaseURL: s.cfg.baseURL, Format: s.cfg.format}
	s.pool = NewPool(ResolvePoolSize(s.cfg.workers))

	return s
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Layout returns the storage layout used by the service.
func (s *Service) Layout() Layout {
	return s.layout
}

// Workers returns the number of runs allowed in flight.
func (s *Service) Workers() int {
	return s.pool.Size()
}

// TemplatePath returns the template filled on every run.
func (s *Service) TemplatePath() string {
	return s.templatePath
}

// Resolve returns the on-disk path of a published pass, or ErrNotFound.
func (s *Service) Resolve(date, filename string) (string, error) {
	return s.layout.Resolve(date, filename)
}

// Generate runs the pipeline for sub and returns the published artifact.
//
// The run's correlation id is taken from ctx (see WithRequestID) or
// generated. Runs for the same applicant on the same day are serialized.
// Files are built in a staging directory and published only once
// conversion succeeded; on failure nothing new is visible under the
// static directory. Errors are *StageError values.
func (s *Service) Generate(ctx context.Context, sub Submission) (*Artifact, error) {
	reqID := RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
		ctx = WithRequestID(ctx, reqID)
	}
	log := s.log.WithField("request_id", reqID)
	start := time.Now()

	fail := func(stage Stage, err error) error {
		entry := log.WithFields(logrus.Fields{"stage": stage.String(), "status": StageFailed.String()}).WithError(err)
		if stage == StageValidating {
			entry.Warn("gate pass submission rejected")
		} else {
			entry.Error("gate pass generation failed")
		}
		return &StageError{Stage: stage, Err: err}
	}

	// Validating
	log.WithField("stage", StageValidating.String()).Debug("validating submission")
	if err := sub.Validate(); err != nil {
		return nil, fail(StageValidating, err)
	}

	art := s.layout.Paths(s.cfg.now(), sub.Name)
	log = log.WithField("file", art.RelPath)

	// Preparing
	log.WithField("stage", StagePreparing.String()).Debug("waiting for a worker and the destination")
	if err := s.pool.Acquire(ctx); err != nil {
		return nil, fail(StagePreparing, err)
	}
	defer s.pool.Release()

	unlock, err := s.locks.Lock(ctx, art.RelPath)
	if err != nil {
		return nil, fail(StagePreparing, err)
	}
	defer unlock()

	staging, err := s.makeStaging(art)
	if err != nil {
		return nil, fail(StagePreparing, err)
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			log.WithError(err).Warn("removing staging directory")
		}
	}()

	// GeneratingQR
	log.WithField("stage", StageGeneratingQR.String()).Debug("generating QR code")
	qrPath := filepath.Join(staging, qrFileName)
	if err := s.qr.Generate(ctx, art.URL, qrPath); err != nil {
		return nil, fail(StageGeneratingQR, err)
	}

	// Filling
	log.WithField("stage", StageFilling.String()).Debug("filling template")
	stagedDoc := filepath.Join(staging, filepath.Base(art.DocumentPath))
	if err := s.filler.Fill(ctx, s.templatePath, stagedDoc, sub.Fields(), qrPath); err != nil {
		return nil, fail(StageFilling, err)
	}
	_ = os.Remove(qrPath)

	// Converting
	if err := ctx.Err(); err != nil {
		return nil, fail(StageConverting, err)
	}
	log.WithField("stage", StageConverting.String()).Debug("converting document")
	converted, err := s.converter.Convert(ctx, stagedDoc)
	if err != nil {
		return nil, fail(StageConverting, err)
	}

	if err := publish(stagedDoc, art.DocumentPath, converted, art.Path); err != nil {
		return nil, fail(StageConverting, err)
	}

	log.WithFields(logrus.Fields{
		"stage":    StageDone.String(),
		"url":      art.URL,
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Info("gate pass generated")
	return &art, nil
}

// makeStaging creates the run's private directory next to the final
// location, so that publishing is a same-filesystem rename.
func (s *Service) makeStaging(art Artifact) (string, error) {
	dayDir := filepath.Dir(art.Path)
	if err := os.MkdirAll(dayDir, 0o750); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	staging := filepath.Join(dayDir, stagingPrefix+uuid.NewString())
	if err := os.Mkdir(staging, 0o700); err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	return staging, nil
}

// publish moves the filled document, then the converted file, into place.
// The converted file is moved last: its presence marks a complete pass.
func publish(doc, docDest, converted, convertedDest string) error {
	if err := os.Rename(doc, docDest); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	if err := os.Rename(converted, convertedDest); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return nil
}

// Close stops accepting new runs. Runs in flight complete.
func (s *Service) Close() error {
	return s.pool.Close()
}
