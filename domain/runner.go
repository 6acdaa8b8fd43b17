package domain

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/validator.v2"

	"github.com/Jaskaranbir/mem-bank-ledger/domain/audit"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/session"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
)

type routinesRunner struct{}

// RoutinesCfg is config for all routines.
type RoutinesCfg struct {
	Log logger.Logger `validate:"nonnil"`

	AuditCfg   *audit.ListenerCfg `validate:"nonnil"`
	SessionCfg *session.Cfg       `validate:"nonnil"`

	// How long to wait for background routines
	// to return once the session has ended.
	ShutdownTimeoutSec int `validate:"min=1"`
}

// RunRoutines runs the audit-listener in background and the
// interactive session in foreground. Returns once the session
// ends (or any routine fails) and all routines have returned.
func RunRoutines(ctx context.Context, cfg *RoutinesCfg) error {
	err := validator.Validate(cfg)
	if err != nil {
		return errors.Wrap(err, "error validating config")
	}
	if ctx == nil {
		return errors.New("context is nil")
	}

	runner := routinesRunner{}

	// Context to monitor all routines collectively
	mainCtx, mainCancel := context.WithCancel(ctx)
	defer mainCancel()

	// Audit
	auditRun, auditCancel := runner.runAudit(cfg.Log, mainCancel, cfg.AuditCfg)
	// Session
	sessionRun, sessionCancel, err := runner.runSession(cfg.Log, mainCancel, cfg.SessionCfg)
	if err != nil {
		auditCancel()
		_ = auditRun.Wait()
		return errors.Wrap(err, "error running session")
	}

	// ================== Manage routines ==================
	<-mainCtx.Done()
	// To collect errors from all routines as they close
	routineErrors := make(map[string]error)

	// Session can stay blocked on input after
	// cancellation, hence the bounded waits.
	sessionCancel()
	err = runner.wait(cfg.Log, "session", sessionRun, cfg.ShutdownTimeoutSec)
	if err != nil {
		routineErrors["session"] = err
	}

	auditCancel()
	err = runner.wait(cfg.Log, "audit", auditRun, cfg.ShutdownTimeoutSec)
	if err != nil {
		routineErrors["audit"] = err
	}

	// Collect and print all errors
	routines := make([]string, 0, len(routineErrors))
	for routine := range routineErrors {
		routines = append(routines, routine)
	}
	sort.Strings(routines)
	errStr := ""
	for _, routine := range routines {
		errStr += fmt.Sprintf("[%s]: %s\n", routine, routineErrors[routine])
	}
	if errStr != "" {
		errStr = "Some routines returned with errors:\n" + errStr
		// Remove last newline char
		errStr = errStr[:len(errStr)-1]
		return errors.New(errStr)
	}
	return nil
}

// wait waits for routine to return for at most timeoutSec.
func (r *routinesRunner) wait(
	stdLog logger.Logger,
	name string,
	run *errgroup.Group,
	timeoutSec int,
) error {
	stdLog.Tracef("Waiting for %s to return", name)

	result := make(chan error, 1)
	go func() {
		result <- run.Wait()
	}()

	select {
	case err := <-result:
		return errors.Wrapf(err, "%s returned with error", name)
	case <-time.After(time.Duration(timeoutSec) * time.Second):
		stdLog.Warnf("Timed out waiting for %s to return", name)
		return errors.Errorf("timed out waiting for %s to return", name)
	}
}

func (r *routinesRunner) runAudit(
	stdLog logger.Logger,
	mainCancel context.CancelFunc,
	cfg *audit.ListenerCfg,
) (*errgroup.Group, context.CancelFunc) {
	startupWg := &sync.WaitGroup{}
	ctx, cancel := context.WithCancel(context.Background())
	run, _ := errgroup.WithContext(ctx)

	startupWg.Add(1)
	run.Go(func() error {
		startupWg.Done()
		err := audit.InitListener(ctx, cfg)
		if err != nil {
			err = errors.Wrap(err, "error in audit routine")
		}
		stdLog.Infof("Audit routine returned")
		cancel()
		mainCancel()
		return err
	})
	startupWg.Wait()

	return run, cancel
}

func (r *routinesRunner) runSession(
	stdLog logger.Logger,
	mainCancel context.CancelFunc,
	cfg *session.Cfg,
) (*errgroup.Group, context.CancelFunc, error) {
	s, err := session.NewSession(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error creating session")
	}

	startupWg := &sync.WaitGroup{}
	ctx, cancel := context.WithCancel(context.Background())
	run, _ := errgroup.WithContext(ctx)

	startupWg.Add(1)
	run.Go(func() error {
		startupWg.Done()
		err := s.Start(ctx)
		if err != nil {
			err = errors.Wrap(err, "error in session routine")
		}
		stdLog.Infof("Session routine returned")
		cancel()
		mainCancel()
		return err
	})
	startupWg.Wait()

	return run, cancel, nil
}
