package rx

import "slices"

type subscriberRecord[T any] struct {
	sink    Sink[T]
	removed bool
	pending bool
}

// Subject is a multicast hub: a Sink for the publisher and a Source for any
// number of subscribers. Events emitted while a distribution is running are
// queued and delivered in order once the current pass has finished.
// Subscribers added during a pass start with the next event.
type Subject[T any] struct {
	*disposable

	distributing bool
	closed       bool
	index        int
	records      []*subscriberRecord[T]
	toAdd        []*subscriberRecord[T]
	queue        []Event[T]
}

func NewSubject[T any]() *Subject[T] {
	s := &Subject[T]{}
	s.disposable = newDisposable(func() {
		if !s.distributing {
			s.release()
		}
	})
	return s
}

func (s *Subject[T]) release() {
	s.closed = true
	s.records = nil
	s.toAdd = nil
	s.queue = nil
}

// Subscribe adds sink as a subscriber. Disposing sink unsubscribes it.
// Subscribing to a disposed subject does nothing.
func (s *Subject[T]) Subscribe(sink Sink[T]) {
	if s.closed || !s.active || !sink.Active() {
		return
	}

	rec := &subscriberRecord[T]{sink: sink, pending: s.distributing}
	if rec.pending {
		s.toAdd = append(s.toAdd, rec)
	} else {
		s.records = append(s.records, rec)
	}

	sink.Add(NewDisposable(func() {
		s.detach(rec)
	}))
}

func (s *Subject[T]) detach(rec *subscriberRecord[T]) {
	if s.closed || !s.active || rec.removed {
		return
	}
	rec.removed = true

	if rec.pending {
		s.toAdd = removeOnce(s.toAdd, rec)
		return
	}

	if s.distributing {
		// The pass drops the record it is visiting itself.
		if s.index < len(s.records) && s.records[s.index] == rec {
			return
		}
		i := slices.Index(s.records, rec)
		if i < 0 {
			return
		}
		if i < s.index {
			s.index--
		}
		s.records = slices.Delete(s.records, i, i+1)
		return
	}

	s.records = removeOnce(s.records, rec)
}

// Source exposes the subscribing side of s.
func (s *Subject[T]) Source() Source[T] {
	return NewSource(s.Subscribe)
}

// Emit distributes event and reports any distribution error
// asynchronously.
func (s *Subject[T]) Emit(event Event[T]) {
	if err := s.Distribute(event); err != nil {
		ReportError(err)
	}
}

// Distribute delivers event to every subscriber. A Throw or End disposes
// the subject. Panics raised by subscribers are collected and returned as
// one *DistributionError after the pass; the subscriber that raised is
// dropped and the others still receive the event.
func (s *Subject[T]) Distribute(event Event[T]) error {
	if s.closed || !s.active {
		return nil
	}

	var errs []error

	if s.distributing {
		if event.IsTerminal() {
			if err := s.disposable.Dispose(); err != nil {
				errs = appendFlat(errs, err)
			}
		}
		s.queue = append(s.queue, event)
		return distributionError(errs)
	}

	if len(s.records) == 0 {
		if event.IsTerminal() {
			if err := s.disposable.Dispose(); err != nil {
				return distributionError(appendFlat(errs, err))
			}
		}
		return nil
	}

	s.distributing = true

	if event.IsTerminal() {
		if err := s.disposable.Dispose(); err != nil {
			errs = appendFlat(errs, err)
		}
	}

	for {
		errs = s.pass(event, errs)

		if !event.IsPush() {
			break
		}

		for _, rec := range s.toAdd {
			rec.pending = false
			s.records = append(s.records, rec)
		}
		s.toAdd = nil

		if len(s.queue) == 0 {
			break
		}
		event = s.queue[0]
		s.queue = s.queue[1:]
	}

	s.distributing = false

	if !s.active {
		s.release()
	}

	return distributionError(errs)
}

func (s *Subject[T]) pass(event Event[T], errs []error) []error {
	for s.index = 0; s.index < len(s.records); s.index++ {
		rec := s.records[s.index]

		var active bool
		if err := try(func() { active = rec.sink.Active() }); err != nil {
			errs = append(errs, err)
		}

		if !active {
			// After a terminal event every record goes away at once.
			if event.IsPush() {
				s.records = slices.Delete(s.records, s.index, s.index+1)
				s.index--
			}
			continue
		}

		if err := try(func() { rec.sink.Emit(event) }); err != nil {
			errs = append(errs, err)
			rec.removed = true
		}

		if rec.removed && event.IsPush() {
			s.records = slices.Delete(s.records, s.index, s.index+1)
			s.index--
		}
	}
	return errs
}

func distributionError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &DistributionError{Errors: errs}
}

func mergeDistributionErrors(errs ...error) error {
	var all []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if de, ok := err.(*DistributionError); ok {
			all = append(all, de.Errors...)
			continue
		}
		all = append(all, err)
	}
	return distributionError(all)
}

// KeepFinalEventSubject is a Subject that replays its final Throw or End to
// sinks subscribing after it has terminated.
type KeepFinalEventSubject[T any] struct {
	*Subject[T]
	final *Event[T]
}

func NewKeepFinalEventSubject[T any]() *KeepFinalEventSubject[T] {
	return &KeepFinalEventSubject[T]{Subject: NewSubject[T]()}
}

func (s *KeepFinalEventSubject[T]) Subscribe(sink Sink[T]) {
	if s.final != nil {
		sink.Emit(*s.final)
		return
	}
	s.Subject.Subscribe(sink)
}

func (s *KeepFinalEventSubject[T]) Source() Source[T] {
	return NewSource(s.Subscribe)
}

func (s *KeepFinalEventSubject[T]) Distribute(event Event[T]) error {
	if !s.Subject.Active() {
		return nil
	}
	if event.IsTerminal() {
		s.final = &event
	}
	return s.Subject.Distribute(event)
}

func (s *KeepFinalEventSubject[T]) Emit(event Event[T]) {
	if err := s.Distribute(event); err != nil {
		ReportError(err)
	}
}

// LastValueSubject only delivers on termination: on End it emits the last
// pushed value (if any) followed by End, on Throw just the Throw. Late
// subscribers get the same replay.
type LastValueSubject[T any] struct {
	*Subject[T]
	last    T
	hasLast bool
	final   *Event[T]
}

func NewLastValueSubject[T any]() *LastValueSubject[T] {
	return &LastValueSubject[T]{Subject: NewSubject[T]()}
}

func (s *LastValueSubject[T]) Subscribe(sink Sink[T]) {
	if s.final == nil {
		s.Subject.Subscribe(sink)
		return
	}
	if s.hasLast {
		sink.Emit(Push(s.last))
	}
	sink.Emit(*s.final)
}

func (s *LastValueSubject[T]) Source() Source[T] {
	return NewSource(s.Subscribe)
}

func (s *LastValueSubject[T]) Distribute(event Event[T]) error {
	if !s.Subject.Active() {
		return nil
	}

	if event.IsPush() {
		s.last, s.hasLast = event.Value(), true
		return nil
	}

	s.final = &event
	var pushErr error
	if event.IsEnd() && s.hasLast {
		pushErr = s.Subject.Distribute(Push(s.last))
	} else {
		var zero T
		s.last, s.hasLast = zero, false
	}
	return mergeDistributionErrors(pushErr, s.Subject.Distribute(event))
}

func (s *LastValueSubject[T]) Emit(event Event[T]) {
	if err := s.Distribute(event); err != nil {
		ReportError(err)
	}
}
