package policy

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/fancl20/ndnv/pkg/ndn"
	"github.com/fancl20/ndnv/pkg/validator"
)

// DefaultMaxSteps bounds how many certificate hops a chain may take before
// the subject is rejected outright.
const DefaultMaxSteps = 8

// DefaultKeyTTL is how long a validated signer key stays cached.
const DefaultKeyTTL = 1 * time.Hour

// Hierarchical is a policy engine that walks key locators up to a set of
// trust anchors. A subject is accepted when its signature verifies against
// an anchor key, an already validated key, or the key of a certificate that
// is fetched and recursively validated first.
type Hierarchical struct {
	mu      sync.RWMutex
	anchors map[string]ndn.PublicKey
	keys    *cache.Cache

	// MaxSteps bounds the chain depth. Zero means DefaultMaxSteps.
	MaxSteps int
	// Retries is the retry budget attached to every emitted fetch.
	Retries int
	// Log receives per-decision diagnostics.
	Log zerolog.Logger
}

// NewHierarchical creates a policy engine with no trust anchors. Anchors
// are registered with AddAnchor before validation starts.
func NewHierarchical() *Hierarchical {
	return &Hierarchical{
		anchors: make(map[string]ndn.PublicKey),
		keys:    cache.New(DefaultKeyTTL, 10*time.Minute),
		Retries: 1,
		Log:     zerolog.Nop(),
	}
}

// AddAnchor registers a trust anchor key under the given certificate name.
func (p *Hierarchical) AddAnchor(name ndn.Name, key ndn.PublicKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchors[name.String()] = key
}

func (p *Hierarchical) anchorKey(locator string) (ndn.PublicKey, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	key, ok := p.anchors[locator]
	return key, ok
}

// CheckPolicy resolves the subject's signer. It either decides immediately
// through the callbacks or emits a single validation request for the
// signer's certificate.
func (p *Hierarchical) CheckPolicy(subject validator.Subject, depth int, onValidated validator.OnValidated, onFailed validator.OnFailed) []*validator.ValidationRequest {
	maxSteps := p.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	if depth >= maxSteps {
		onFailed(subject, ErrTooManySteps)
		return nil
	}

	sig, verify := signatureOf(subject)
	if sig == nil {
		onFailed(subject, ErrMalformed)
		return nil
	}
	if sig.Type != ndn.SigTypeSha256WithRsa {
		onFailed(subject, fmt.Errorf("%w: %s", ErrUnsupportedSigType, sig.Type))
		return nil
	}
	if len(sig.KeyLocator) == 0 {
		onFailed(subject, ErrNoKeyLocator)
		return nil
	}

	locator := sig.KeyLocator.String()
	if key, ok := p.anchorKey(locator); ok {
		p.decide(subject, verify(key), onValidated, onFailed)
		return nil
	}
	if cached, ok := p.keys.Get(locator); ok {
		p.decide(subject, verify(cached.(ndn.PublicKey)), onValidated, onFailed)
		return nil
	}

	// The signer is unknown. Fetch its certificate; the key it carries may
	// only be trusted once that certificate has itself been validated.
	p.Log.Debug().Stringer("subject", subject.Name()).Str("signer", locator).Msg("fetching signer certificate")
	return []*validator.ValidationRequest{{
		Interest: ndn.NewInterest(sig.KeyLocator),
		Retries:  p.Retries,
		Depth:    depth + 1,
		OnValidated: func(cert validator.Subject) {
			data, ok := cert.(*ndn.Data)
			if !ok {
				onFailed(subject, ErrMalformed)
				return
			}
			key := ndn.PublicKey(data.Content())
			if !verify(key) {
				p.Log.Debug().Stringer("subject", subject.Name()).Str("signer", locator).Msg("signature mismatch")
				onFailed(subject, ErrBadSignature)
				return
			}
			p.keys.Set(locator, key, cache.DefaultExpiration)
			onValidated(subject)
		},
		OnFailed: func(cert validator.Subject, reason error) {
			onFailed(subject, fmt.Errorf("untrusted signer %s: %w", locator, reason))
		},
	}}
}

func (p *Hierarchical) decide(subject validator.Subject, ok bool, onValidated validator.OnValidated, onFailed validator.OnFailed) {
	if ok {
		onValidated(subject)
		return
	}
	onFailed(subject, ErrBadSignature)
}

// signatureOf extracts the subject's signature together with a closure
// verifying the subject against a candidate key.
func signatureOf(subject validator.Subject) (*ndn.Signature, func(ndn.PublicKey) bool) {
	switch s := subject.(type) {
	case *ndn.Data:
		return s.Signature(), func(key ndn.PublicKey) bool { return validator.VerifyData(s, key) }
	case *ndn.Interest:
		signed, sig, err := ndn.SignedInterestParts(s.Name())
		if err != nil {
			return nil, nil
		}
		return sig, func(key ndn.PublicKey) bool { return validator.VerifyBytes(signed, sig, key) }
	default:
		return nil, nil
	}
}

// Errors
var (
	ErrTooManySteps       = errors.New("certificate chain budget exhausted")
	ErrMalformed          = errors.New("malformed signed packet")
	ErrUnsupportedSigType = errors.New("unsupported signature type")
	ErrNoKeyLocator       = errors.New("signature carries no key locator")
	ErrBadSignature       = errors.New("signature does not verify against signer key")
)
