// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import (
	"net/http"
	"net/url"
	"time"
)

type Phase string

const (
	PhaseDNSLookup       Phase = "dnsLookup"
	PhaseTCPConnection   Phase = "tcpConnection"
	PhaseTLSHandshake    Phase = "tlsHandshake"
	PhaseFirstByte       Phase = "firstByte"
	PhaseContentTransfer Phase = "contentTransfer"
)

// Phases lists all phases in emission order.
var Phases = []Phase{PhaseDNSLookup, PhaseTCPConnection, PhaseTLSHandshake, PhaseFirstByte, PhaseContentTransfer}

// RequestDescriptor describes one issued leg. It is never modified after it
// has been appended to a State.
type RequestDescriptor struct {
	Method            string
	URL               url.URL
	Header            http.Header
	VerifyCertificate bool
}

// State accumulates everything observed across the legs of one probe chain.
// It is owned by a single chain and needs no locking.
type State struct {
	Requests  []RequestDescriptor
	Redirects int

	started           time.Time
	durations         map[Phase]time.Duration
	firstByteRecorded bool
}

func newState(started time.Time) *State {
	return &State{
		started:   started,
		durations: make(map[Phase]time.Duration, len(Phases)),
	}
}

// Duration returns the accumulated duration of the phase and whether the
// phase occurred at all.
func (s *State) Duration(phase Phase) (time.Duration, bool) {
	d, ok := s.durations[phase]
	return d, ok
}

// Secure reports whether a TLS handshake happened on any leg of the chain.
func (s *State) Secure() bool {
	_, ok := s.durations[PhaseTLSHandshake]
	return ok
}

// LastRequest returns the most recently issued leg.
func (s *State) LastRequest() (RequestDescriptor, bool) {
	if len(s.Requests) == 0 {
		return RequestDescriptor{}, false
	}
	return s.Requests[len(s.Requests)-1], true
}

func (s *State) add(phase Phase, d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.durations[phase] += d
}

// record folds the milestones of a finished leg into the accumulators.
func (s *State) record(m legMilestones) {
	if !m.dnsStart.IsZero() && !m.dnsDone.IsZero() {
		s.add(PhaseDNSLookup, m.dnsDone.Sub(m.dnsStart))
	}
	if !m.connectStart.IsZero() && !m.connectDone.IsZero() {
		s.add(PhaseTCPConnection, m.connectDone.Sub(m.connectStart))
	}
	if !m.tlsStart.IsZero() && !m.tlsDone.IsZero() {
		s.add(PhaseTLSHandshake, m.tlsDone.Sub(m.tlsStart))
	}
	if m.firstByte.IsZero() {
		return
	}
	if !s.firstByteRecorded {
		from := latest(s.started, m.connectDone, m.tlsDone)
		s.add(PhaseFirstByte, m.firstByte.Sub(from))
		s.firstByteRecorded = true
	}
	if !m.responseEnd.IsZero() {
		s.add(PhaseContentTransfer, m.responseEnd.Sub(m.firstByte))
	}
}

func latest(times ...time.Time) time.Time {
	var result time.Time
	for _, t := range times {
		if t.After(result) {
			result = t
		}
	}
	return result
}
