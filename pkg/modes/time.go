package modes

import "time"

const defaultTimeInterval = 60 * time.Second

// Time announces the current time once a minute.
type Time struct {
	runner
	speaker  Speaker
	interval time.Duration
}

// NewTime creates the time announcement worker.
func NewTime(speaker Speaker, opts Options) *Time {
	opts.fill()
	if opts.Interval <= 0 {
		opts.Interval = defaultTimeInterval
	}
	return &Time{
		runner:   newRunner("time", opts),
		speaker:  speaker,
		interval: opts.Interval,
	}
}

// Start begins the announcement loop.
func (w *Time) Start() {
	w.start(w.run)
}

func (w *Time) run(stop <-chan struct{}) {
	w.speaker.Enqueue("Time mode activated")

	for {
		now := w.clk.Now()
		w.speaker.Enqueue("The current time is " + now.Format("03:04 PM"))
		if !w.sleep(stop, w.interval) {
			return
		}
	}
}
