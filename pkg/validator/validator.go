package validator

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/fancl20/ndnv/pkg/ndn"
)

// Subject is a packet undergoing validation: either an interest or a data
// packet. The orchestration below is symmetric over both; only the policy
// engine and the verifier interpret the difference.
type Subject interface {
	Name() ndn.Name
}

// OnValidated is invoked once a subject has been accepted.
type OnValidated func(subject Subject)

// OnFailed is invoked once a subject has been rejected, with the reason.
type OnFailed func(subject Subject, reason error)

// ValidationRequest describes one outstanding certificate fetch needed to
// continue validating a subject. Requests are created by the policy engine
// and owned by the validator until they reach a terminal outcome.
type ValidationRequest struct {
	// Interest fetches the certificate.
	Interest *ndn.Interest
	// Retries is the number of reissues left on timeout. A content mismatch
	// or policy rejection is terminal and never retried.
	Retries int
	// Depth is the chain depth applied to the fetched certificate.
	Depth int
	// OnValidated continues with the fetched certificate once it has been
	// recursively validated.
	OnValidated OnValidated
	// OnFailed reports that the fetched certificate could not be validated.
	OnFailed OnFailed
}

// PolicyEngine is the trust rule authority consulted for every subject.
//
// Exactly one of the following happens per CheckPolicy call: onValidated is
// invoked directly, onFailed is invoked directly with a reason, or one or
// more validation requests are returned with neither callback invoked. The
// validator treats the emptiness of the returned list as the sole signal
// distinguishing the cases.
type PolicyEngine interface {
	CheckPolicy(subject Subject, depth int, onValidated OnValidated, onFailed OnFailed) []*ValidationRequest
}

// Transport issues a fetch asynchronously and later invokes exactly one of
// onData and onTimeout, exactly once. It must tolerate repeated calls for
// the same interest, as retries reissue identical fetches.
type Transport interface {
	Fetch(interest *ndn.Interest, onData func(*ndn.Data), onTimeout func())
}

// DefaultMaxDepth bounds certificate chains regardless of the policy
// engine's own budget handling. A policy that never terminates a chain
// would otherwise keep the validation alive forever.
const DefaultMaxDepth = 16

// Validator drives the policy engine, fetches missing certificates through
// the transport and recursively validates every fetched certificate before
// it may vouch for anything.
type Validator struct {
	policy    PolicyEngine
	transport Transport

	// MaxDepth is the hard bound on certificate chain depth. Zero means
	// DefaultMaxDepth.
	MaxDepth int
	// Log receives per-step diagnostics.
	Log zerolog.Logger
}

// New creates a validator. The transport may be nil for policies that
// always decide immediately; a validation that then needs a fetch fails
// with ErrNoTransport.
func New(policy PolicyEngine, transport Transport) *Validator {
	return &Validator{
		policy:    policy,
		transport: transport,
		Log:       zerolog.Nop(),
	}
}

// Validate checks the subject against the trust policy, fetching and
// recursively validating certificates as needed. At most one of onValidated
// and onFailed is invoked, exactly once, possibly before Validate returns.
// The returned error reports configuration faults only; validation failures
// are always delivered through onFailed. Depth is the number of certificate
// hops already taken, zero for a fresh subject.
func (v *Validator) Validate(subject Subject, onValidated OnValidated, onFailed OnFailed, depth int) error {
	// Sibling requests spawned by one policy decision share the failure
	// continuation; the guard keeps the pair of continuations at-most-once
	// for the whole call tree.
	g := &onceGuard{}
	return v.validate(subject, g.validated(onValidated), g.failed(onFailed), depth)
}

func (v *Validator) validate(subject Subject, onValidated OnValidated, onFailed OnFailed, depth int) error {
	maxDepth := v.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	if depth > maxDepth {
		v.Log.Debug().Stringer("subject", subject.Name()).Int("depth", depth).Msg("certificate chain too deep")
		onFailed(subject, ErrChainTooDeep)
		return nil
	}

	steps := v.policy.CheckPolicy(subject, depth, onValidated, onFailed)
	if len(steps) == 0 {
		// The policy has already reached, or will itself reach, a terminal
		// decision through the callbacks. No network activity.
		return nil
	}
	if v.transport == nil {
		return ErrNoTransport
	}

	fail := func(reason error) { onFailed(subject, reason) }
	for _, req := range steps {
		v.issue(req, fail)
	}
	return nil
}

// issue expresses the request's interest. On data the fetched certificate
// is itself validated before use; on timeout the same interest is reissued
// until the retry budget runs out, then the failure continuation fires for
// the subject that spawned the request.
func (v *Validator) issue(req *ValidationRequest, fail func(error)) {
	v.transport.Fetch(req.Interest,
		func(d *ndn.Data) {
			if err := v.validate(d, req.OnValidated, req.OnFailed, req.Depth); err != nil {
				// validate only errors on a nil transport, which cannot
				// happen once a fetch has answered.
				fail(err)
			}
		},
		func() {
			if req.Retries > 0 {
				req.Retries--
				v.Log.Debug().Stringer("interest", req.Interest.Name()).Int("left", req.Retries).Msg("fetch timed out, reissuing")
				v.issue(req, fail)
				return
			}
			v.Log.Debug().Stringer("interest", req.Interest.Name()).Msg("fetch retries exhausted")
			fail(ErrRetriesExhausted)
		})
}

// onceGuard makes a pair of continuations fire at most once between them.
type onceGuard struct {
	done atomic.Bool
}

func (g *onceGuard) validated(f OnValidated) OnValidated {
	return func(subject Subject) {
		if g.done.CompareAndSwap(false, true) {
			f(subject)
		}
	}
}

func (g *onceGuard) failed(f OnFailed) OnFailed {
	return func(subject Subject, reason error) {
		if g.done.CompareAndSwap(false, true) {
			f(subject, reason)
		}
	}
}

// Errors
var (
	// ErrNoTransport reports that a fetch was required but no transport has
	// been configured. It is returned from Validate, never delivered
	// through the failure continuation.
	ErrNoTransport = errors.New("transport must be set before validation can fetch certificates")
	// ErrRetriesExhausted reports that a certificate fetch timed out on
	// every attempt.
	ErrRetriesExhausted = errors.New("certificate fetch retries exhausted")
	// ErrChainTooDeep reports that the certificate chain exceeded the
	// validator's hard depth bound.
	ErrChainTooDeep = errors.New("certificate chain exceeds maximum depth")
)
