package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fancl20/ndnv/pkg/ndn"
)

// DefaultFetchTimeout bounds a single fetch attempt.
const DefaultFetchTimeout = 4 * time.Second

// HTTP3 fetches certificates from a certificate server. It implements the
// validator's transport contract: every Fetch invokes exactly one of
// onData and onTimeout, exactly once, from its own goroutine. Transfer and
// decode failures count as timeouts, matching the lossy-network semantics
// the validator retries on.
type HTTP3 struct {
	client  *http.Client
	baseURL string

	// Timeout bounds a single fetch attempt. Zero means
	// DefaultFetchTimeout.
	Timeout time.Duration
	// Log receives per-fetch diagnostics.
	Log zerolog.Logger
}

// NewHTTP3 creates a transport talking to the certificate server at
// baseURL. The client must carry an http3 round tripper.
func NewHTTP3(client *http.Client, baseURL string) *HTTP3 {
	return &HTTP3{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		Log:     zerolog.Nop(),
	}
}

// Fetch expresses the interest asynchronously.
func (t *HTTP3) Fetch(interest *ndn.Interest, onData func(*ndn.Data), onTimeout func()) {
	go func() {
		cert, err := t.fetch(interest)
		if err != nil {
			t.Log.Debug().Err(err).Stringer("name", interest.Name()).Msg("fetch failed")
			onTimeout()
			return
		}
		onData(cert)
	}()
}

func (t *HTTP3) fetch(interest *ndn.Interest) (*ndn.Data, error) {
	timeout := t.Timeout
	if timeout == 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+FetchProcedure, bytes.NewReader(interest.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentTypeTLV)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ndn.DecodeData(body)
}
