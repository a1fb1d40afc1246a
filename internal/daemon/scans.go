package daemon

import (
	"context"
	"errors"
	"time"

	"videodupes/internal/app"
	"videodupes/internal/deletion"
	"videodupes/internal/keyframe"

	"go.uber.org/zap"
)

// startScan registers a scan of path and runs it in the background.
func (s *Server) startScan(path string, policy deletion.Policy, strict *bool) *Scan {
	s.mu.Lock()
	cfg := s.config
	useStrict := cfg.StrictGroups
	if strict != nil {
		useStrict = *strict
	}

	now := time.Now().UTC()
	scan := &Scan{
		ID:        newID("scan_"),
		Path:      path,
		Policy:    string(policy),
		Strict:    useStrict,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.scans[scan.ID] = scan
	s.scanCancel[scan.ID] = cancel
	s.running.Add(1)
	snapshot := *scan
	s.mu.Unlock()

	detector := s.detector
	detector.DurationTolerance = cfg.DurationTolerance
	detector.StrictGroups = useStrict
	opts := app.Options{
		InputDir:  path,
		OutputDir: cfg.OutputDir,
		TempRoot:  s.tempRoot,
		Policy:    policy,
		// Requests for "all" are only accepted with explicit confirmation.
		AssumeYes: policy == deletion.PolicyAll,
		Detector:  detector,
		Keyframe: keyframe.Options{
			MaxWidth:           cfg.MaxFrameWidth,
			MaxHeight:          cfg.MaxFrameHeight,
			AntiAliasThreshold: cfg.AntiAliasThreshold,
			PixelDiffThreshold: cfg.PixelDiffThreshold,
		},
	}

	go s.runScan(ctx, cancel, scan.ID, opts)
	return &snapshot
}

// cancelScan stops a queued or running scan.
func (s *Server) cancelScan(scanID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[scanID]
	if !ok {
		return errNotFound
	}
	cancel, active := s.scanCancel[scanID]
	if !active || (scan.Status != StatusQueued && scan.Status != StatusRunning) {
		return errNotActive
	}
	cancel()
	scan.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Server) runScan(ctx context.Context, cancel context.CancelFunc, scanID string, opts app.Options) {
	defer s.running.Done()
	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.scanCancel, scanID)
		s.mu.Unlock()
	}()

	s.mu.Lock()
	if scan, ok := s.scans[scanID]; ok {
		scan.Status = StatusRunning
		scan.UpdatedAt = time.Now().UTC()
	}
	s.mu.Unlock()

	logger := s.logger.With(zap.String("scan_id", scanID))
	res, err := app.Run(ctx, opts, app.Deps{
		Tool:     s.tool,
		Uploader: s.uploader,
		Logger:   logger,
		Progress: func(done, total int) { s.refreshScanProgress(scanID, done, total) },
	})

	switch {
	case err == nil:
		s.completeScan(scanID, res)
	case errors.Is(err, context.Canceled):
		s.markScanCancelled(scanID)
	default:
		logger.Error("scan failed", zap.Error(err))
		s.failScan(scanID, err)
	}
}

func (s *Server) refreshScanProgress(scanID string, done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[scanID]
	if !ok {
		return
	}
	scan.FilesTotal = total
	if total > 0 {
		scan.Progress = float64(done) / float64(total)
	}
	scan.UpdatedAt = time.Now().UTC()
}

func (s *Server) completeScan(scanID string, res app.Result) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[scanID]
	if !ok {
		return
	}
	rep := res.Report
	scan.Status = StatusDone
	scan.Progress = 1
	scan.FilesTotal = len(res.Files)
	scan.GroupsFound = len(rep.DuplicateGroups)
	scan.FilesDeleted = len(rep.DeletedFiles)
	scan.ReportPath = res.ReportPath
	scan.UploadedKey = res.UploadedKey
	scan.LastError = nil
	scan.UpdatedAt = now
	scan.report = &rep
}

func (s *Server) failScan(scanID string, err error) {
	msg := err.Error()
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[scanID]
	if !ok {
		return
	}
	scan.Status = StatusFailed
	scan.LastError = &msg
	scan.UpdatedAt = time.Now().UTC()
}

func (s *Server) markScanCancelled(scanID string) {
	msg := "cancelled"
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[scanID]
	if !ok {
		return
	}
	scan.Status = StatusCancelled
	scan.LastError = &msg
	scan.UpdatedAt = time.Now().UTC()
}
