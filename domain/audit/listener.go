package audit

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"

	"github.com/Jaskaranbir/mem-bank-ledger/journal"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

type listener struct {
	log logger.Logger

	bus       journal.Bus
	eventSubs map[model.EventAction]<-chan interface{}

	trail *Trail
}

// ListenerCfg is config for audit-listener.
type ListenerCfg struct {
	Log logger.Logger `validate:"nonnil"`

	Bus     journal.Bus         `validate:"nonnil"`
	Actions []model.EventAction `validate:"min=1"`

	Trail *Trail `validate:"nonnil"`
}

// InitListener validates listener-config and runs the listener
// until context is done. Trail is hydrated whenever one of
// the configured actions is published.
func InitListener(ctx context.Context, cfg *ListenerCfg) error {
	err := validator.Validate(cfg)
	if err != nil {
		return errors.Wrap(err, "error validating config")
	}
	if ctx == nil {
		return errors.New("context is nil")
	}

	l := &listener{
		log: cfg.Log,

		bus:       cfg.Bus,
		eventSubs: make(map[model.EventAction]<-chan interface{}),

		trail: cfg.Trail,
	}
	for _, action := range cfg.Actions {
		l.eventSubs[action], err = cfg.Bus.Subscribe(action.String())
		if err != nil {
			unsubErr := l.unsubscribe()
			if unsubErr != nil {
				l.log.Errorf("Error unsubscribing: %s", unsubErr)
			}
			return errors.Wrapf(err, "error subscribing to event-bus for action: %s", action)
		}
	}

	cfg.Log.Infof("Starting audit-listener")
	err = l.start(ctx)
	return errors.Wrap(err, "listener-routine exited with error")
}

func (l *listener) start(ctx context.Context) error {
	// Subscriptions are merged into a single signal, since
	// every hydration reads all new events regardless of action.
	notify := make(chan struct{}, 1)
	fanCtx, fanCancel := context.WithCancel(ctx)
	fanWg := &sync.WaitGroup{}
	for _, sub := range l.eventSubs {
		fanWg.Add(1)
		go func(sub <-chan interface{}) {
			defer fanWg.Done()
			for {
				select {
				case <-fanCtx.Done():
					return
				case _, ok := <-sub:
					if !ok {
						return
					}
					select {
					case notify <- struct{}{}:
					default:
					}
				}
			}
		}(sub)
	}
	defer func() {
		fanCancel()
		fanWg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			l.log.Debug("Received context-done signal")
			// Events recorded right before shutdown
			err := l.trail.Hydrate()
			if err != nil {
				return errors.Wrap(err, "error hydrating audit-trail")
			}
			err = l.unsubscribe()
			return errors.Wrap(err, "error disposing instance")

		case <-notify:
			err := l.trail.Hydrate()
			if err != nil {
				unsubErr := l.unsubscribe()
				if unsubErr != nil {
					l.log.Errorf("Error unsubscribing: %s", unsubErr)
				}
				return errors.Wrap(err, "error hydrating audit-trail")
			}
		}
	}
}

func (l *listener) unsubscribe() error {
	for action, channel := range l.eventSubs {
		// Already unsubscribed
		if channel == nil {
			continue
		}

		l.log.Debugf("Unsubscribing from action: %s", action)
		err := l.bus.Unsubscribe(channel, action.String())
		if err != nil {
			return errors.Wrapf(err, "error unsubscribing from event-bus for action: %s", action)
		}
		l.eventSubs[action] = nil
		l.log.Tracef("Unsubscribed from action: %s", action)
	}
	return nil
}
