package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/petd/internal/model"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

// reminderHeap orders reminders by trigger time; a due reminder sorts before a late one
// for the same instant.
type reminderHeap []model.Reminder

func (h reminderHeap) Len() int { return len(h) }

func (h reminderHeap) Less(i, j int) bool {
	if h[i].TriggerAt.Equal(h[j].TriggerAt) {
		return h[i].Kind == model.ReminderKindDue && h[j].Kind != model.ReminderKindDue
	}
	return h[i].TriggerAt.Before(h[j].TriggerAt)
}

func (h reminderHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *reminderHeap) Push(x any) { *h = append(*h, x.(model.Reminder)) }

func (h *reminderHeap) Pop() any {
	old := *h
	r := old[len(old)-1]
	old[len(old)-1] = model.Reminder{}
	*h = old[:len(old)-1]
	return r
}

// Engine fires the pet's routine reminders on C() once their trigger time passes.
// Emission never blocks: a reminder the TUI is not reading is dropped and counted in
// Dropped, and the session plans a fresh set on the next day rollover.
type Engine struct {
	mu      sync.Mutex
	queue   reminderHeap
	out     chan model.Reminder
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(reminderHeap, 0),
		out:    make(chan model.Reminder, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan model.Reminder {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(ev model.Reminder) error {
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	heap.Push(&e.queue, ev)
	e.signalWakeup()
	return nil
}

// Cancel removes every queued reminder for taskID and returns how many were removed.
func (e *Engine) Cancel(taskID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.queue[:0]
	removed := 0
	for _, r := range e.queue {
		if r.TaskID == taskID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0
	}
	for i := len(kept); i < len(e.queue); i++ {
		e.queue[i] = model.Reminder{}
	}
	e.queue = kept
	heap.Init(&e.queue)
	e.signalWakeup()
	return removed
}

// Clear drops every queued reminder.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = e.queue[:0]
	e.signalWakeup()
}

func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, ev := range due {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (model.Reminder, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return model.Reminder{}, false
	}
	return e.queue[0], true
}

func (e *Engine) popDue(now time.Time) []model.Reminder {
	e.mu.Lock()
	defer e.mu.Unlock()

	var due []model.Reminder
	for len(e.queue) > 0 && !e.queue[0].TriggerAt.After(now) {
		due = append(due, heap.Pop(&e.queue).(model.Reminder))
	}
	return due
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
