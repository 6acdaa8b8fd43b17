package journal

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// subscriptionBufferSize is capacity of each subscription-channel.
// Publishers block once a subscriber falls this far behind.
const subscriptionBufferSize = 16

// Bus provides interface for publishing and
// subscribing messages to/from specific actions.
type Bus interface {
	Publish(msg interface{}) error
	Subscribe(action string) (<-chan interface{}, error)
	Unsubscribe(c <-chan interface{}, action string) error
	Terminate()
}

// MemoryBus is an in-memory Bus without persistence.
// Use #NewMemoryBus to create new instance.
type MemoryBus struct {
	log logger.Logger

	lock          *sync.RWMutex
	isTerminated  bool
	subscriptions map[string][]*subscription
}

type subscription struct {
	channel chan interface{}
	isOpen  bool
	lock    *sync.RWMutex
}

// NewMemoryBus creates new instance of MemoryBus.
func NewMemoryBus(log logger.Logger) (*MemoryBus, error) {
	if log == nil {
		return nil, errors.New("log cannot be nil")
	}

	return &MemoryBus{
		log: log,

		lock:          &sync.RWMutex{},
		subscriptions: make(map[string][]*subscription),
	}, nil
}

// Publish publishes provided message to subscribers of its action.
// Message must be of model.Cmd or model.Event type.
func (b *MemoryBus) Publish(msg interface{}) error {
	var action, msgID string
	switch v := msg.(type) {
	case model.Cmd:
		action = v.Action().String()
		msgID = v.ID()
	case model.Event:
		action = v.Action().String()
		msgID = v.ID()
	case nil:
		return errors.New("got nil message")
	default:
		return errors.New("received message of unknown type")
	}
	logPrefix := fmt.Sprintf("[Publish]: [Action: %s]: [%s]:", action, msgID)

	b.lock.RLock()
	if b.isTerminated {
		b.lock.RUnlock()
		return errors.New("bus is terminated")
	}
	subs := make([]*subscription, len(b.subscriptions[action]))
	copy(subs, b.subscriptions[action])
	b.lock.RUnlock()

	b.log.Tracef("%s Subscribers count: %d", logPrefix, len(subs))
	if len(subs) == 0 {
		b.log.Debugf("%s No subscribers found for action", logPrefix)
	}

	for _, sub := range subs {
		sub.lock.RLock()
		if sub.isOpen {
			sub.channel <- msg
		}
		sub.lock.RUnlock()
	}
	return nil
}

// Subscribe returns a receive-channel which'll get
// messages published for specified action.
func (b *MemoryBus) Subscribe(action string) (<-chan interface{}, error) {
	if action == "" {
		return nil, errors.New("action is blank")
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	if b.isTerminated {
		return nil, errors.New("bus is terminated")
	}

	sub := &subscription{
		channel: make(chan interface{}, subscriptionBufferSize),
		isOpen:  true,
		lock:    &sync.RWMutex{},
	}
	b.subscriptions[action] = append(b.subscriptions[action], sub)
	b.log.Debugf("[Subscribe]: [Action: %s]: Subscription added", action)

	return sub.channel, nil
}

// Unsubscribe closes and removes provided subscription.
func (b *MemoryBus) Unsubscribe(c <-chan interface{}, action string) error {
	if action == "" {
		return errors.New("action is blank")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	subs := b.subscriptions[action]
	for i, sub := range subs {
		if c != sub.channel {
			continue
		}
		b.closeSub(sub)
		b.subscriptions[action] = append(subs[:i], subs[i+1:]...)
		b.log.Debugf("[Unsubscribe]: [Action: %s]: Subscription removed", action)
		return nil
	}
	return errors.New("no matching subscription found")
}

// Terminate closes all subscriptions. Bus
// rejects any further publish or subscribe.
func (b *MemoryBus) Terminate() {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.isTerminated {
		return
	}
	b.isTerminated = true

	for action, subs := range b.subscriptions {
		for _, sub := range subs {
			b.closeSub(sub)
		}
		delete(b.subscriptions, action)
	}
	b.log.Debug("[Terminate]: Bus terminated")
}

// closeSub closes subscription-channel while draining it,
// so publishers blocked on a full channel can finish.
func (b *MemoryBus) closeSub(sub *subscription) {
	stopDrain := make(chan struct{})
	go func() {
		for {
			select {
			case <-stopDrain:
				return
			case _, ok := <-sub.channel:
				if !ok {
					return
				}
			}
		}
	}()

	sub.lock.Lock()
	if sub.isOpen {
		close(sub.channel)
		sub.isOpen = false
	}
	sub.lock.Unlock()
	close(stopDrain)
}
