package buffer

import (
	"sync"

	"github.com/docseek-io/filing-lookup/adapter/queue"
)

// buffer is an in memory queue handing messages out in the order they were
// sent, so filing records reach the consumer in manifest order.
type buffer struct {
	msgs  [][]byte
	mutex sync.Mutex
	cond  *sync.Cond
	drain bool
}

func New() *buffer {
	b := &buffer{drain: false}
	b.cond = sync.NewCond(&b.mutex)
	return b
}

func (q *buffer) SendMessage(msg []byte) error {
	q.mutex.Lock()
	if q.drain {
		q.mutex.Unlock()
		return queue.DrainedErr
	}
	q.msgs = append(q.msgs, msg)
	q.mutex.Unlock()

	// wake up one waiting consumer
	q.cond.Signal()
	return nil
}

func (q *buffer) RecvMessage() ([]byte, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	// wait for a message if buffer is empty
	for len(q.msgs) < 1 {
		if q.drain {
			// no new messages will enter the buffer
			return nil, queue.DrainedErr
		}
		q.cond.Wait()
	}

	// consume the oldest message and drop it from the buffer
	msg := q.msgs[0]
	q.msgs = q.msgs[1:]
	return msg, nil
}

func (q *buffer) Close() error {
	q.mutex.Lock()
	q.drain = true
	q.mutex.Unlock()

	// wake up all waiting routines to let them recheck the drain flag
	q.cond.Broadcast()
	return nil
}
