package autovest

// Subscriber handles event subscriptions.
type Subscriber struct {
	done             chan struct{}
	startedHandler   func(Started)
	completedHandler func(VestCompleted)
	skippedHandler   func(VestSkipped)
	failedHandler    func(VestFailed)
	shutdownHandler  func(Shutdown)
}

// OnStarted sets the handler for Started events
func OnStarted(fn func(Started)) func(*Subscriber) {
	return func(s *Subscriber) { s.startedHandler = fn }
}

// OnVestCompleted sets the handler for VestCompleted events
func OnVestCompleted(fn func(VestCompleted)) func(*Subscriber) {
	return func(s *Subscriber) { s.completedHandler = fn }
}

// OnVestSkipped sets the handler for VestSkipped events
func OnVestSkipped(fn func(VestSkipped)) func(*Subscriber) {
	return func(s *Subscriber) { s.skippedHandler = fn }
}

// OnVestFailed sets the handler for VestFailed events
func OnVestFailed(fn func(VestFailed)) func(*Subscriber) {
	return func(s *Subscriber) { s.failedHandler = fn }
}

// OnShutdown sets the handler for Shutdown events
func OnShutdown(fn func(Shutdown)) func(*Subscriber) {
	return func(s *Subscriber) { s.shutdownHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and starts the
// dispatch loop. The returned closer waits until the events channel closes
// and every event was handled.
//
//	closer := autovest.NewSubscriber(events,
//	  autovest.OnVestFailed(func(e autovest.VestFailed) { ... }),
//	)
//	defer closer()
func NewSubscriber(events <-chan Event, opts ...func(*Subscriber)) func() {
	s := &Subscriber{
		done:             make(chan struct{}),
		startedHandler:   func(Started) {},       // nop by default
		completedHandler: func(VestCompleted) {}, // nop by default
		skippedHandler:   func(VestSkipped) {},   // nop by default
		failedHandler:    func(VestFailed) {},    // nop by default
		shutdownHandler:  func(Shutdown) {},      // nop by default
	}

	for _, opt := range opts {
		opt(s)
	}

	go func() {
		defer close(s.done)
		for ev := range events {
			switch e := ev.(type) {
			case Started:
				s.startedHandler(e)
			case VestCompleted:
				s.completedHandler(e)
			case VestSkipped:
				s.skippedHandler(e)
			case VestFailed:
				s.failedHandler(e)
			case Shutdown:
				s.shutdownHandler(e)
			}
		}
	}()

	return func() {
		<-s.done
	}
}
