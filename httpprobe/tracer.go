// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package httpprobe

import (
	"crypto/tls"
	"net/http/httptrace"
	"sync"
	"time"
)

type legMilestones struct {
	dnsStart, dnsDone         time.Time
	connectStart, connectDone time.Time
	tlsStart, tlsDone         time.Time
	firstByte, responseEnd    time.Time
}

// legTracer captures the socket lifecycle milestones of a single leg. The
// transport may dial several addresses in parallel, hence the mutex.
type legTracer struct {
	httptrace.ClientTrace
	mu  sync.Mutex
	now func() time.Time
	m   legMilestones
}

func newLegTracer(now func() time.Time) *legTracer {
	t := &legTracer{now: now}

	t.ClientTrace = httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			t.mark(&t.m.dnsStart)
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			t.mark(&t.m.dnsDone)
		},
		ConnectStart: func(_, _ string) {
			t.mark(&t.m.connectStart)
		},
		ConnectDone: func(_, _ string, err error) {
			if err == nil {
				t.mark(&t.m.connectDone)
			}
		},
		TLSHandshakeStart: func() {
			t.mark(&t.m.tlsStart)
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			if err == nil {
				t.mark(&t.m.tlsDone)
			}
		},
		GotFirstResponseByte: func() {
			t.mark(&t.m.firstByte)
		},
	}

	return t
}

// mark stores the current time into the milestone, only the first
// occurrence counts.
func (t *legTracer) mark(milestone *time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if milestone.IsZero() {
		*milestone = t.now()
	}
}

func (t *legTracer) responseEnded() {
	t.mark(&t.m.responseEnd)
}

func (t *legTracer) milestones() legMilestones {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.m
}
