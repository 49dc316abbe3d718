package host

import (
	"time"

	"github.com/bedrock-gophers/magic/undo"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/sirupsen/logrus"
)

// Scheduler runs delayed tasks on a world's goroutine.
type Scheduler struct {
	w   *world.World
	log logrus.FieldLogger
}

// NewScheduler returns a Scheduler that executes its tasks in w.
func NewScheduler(w *world.World, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{w: w, log: log}
}

// Schedule runs task in a transaction of the world after delay. A panicking
// task is logged and does not take the world down.
func (s *Scheduler) Schedule(delay time.Duration, task func(tx undo.Tx)) func() {
	t := time.AfterFunc(delay, func() {
		s.w.Exec(func(tx *world.Tx) {
			s.run(NewTx(tx), delay, task)
		})
	})
	return func() {
		if t.Stop() {
			s.log.WithField("delay", delay).Debug("Cancelled scheduled task.")
		}
	}
}

func (s *Scheduler) run(tx undo.Tx, delay time.Duration, task func(tx undo.Tx)) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{"delay": delay, "panic": r}).Error("Scheduled task panicked.")
		}
	}()
	task(tx)
}
