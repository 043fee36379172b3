package transport

import (
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/quic-go/quic-go/http3"
	"github.com/rs/zerolog"

	"github.com/fancl20/ndnv/pkg/ndn"
	"github.com/fancl20/ndnv/pkg/trust"
)

const (
	// FetchProcedure is the HTTP path for the certificate Fetch RPC.
	FetchProcedure = "/ndnv.v1.CertificateService/Fetch"
	// HelloProcedure is the HTTP path of the health endpoint.
	HelloProcedure = "/api/v1/hello"

	contentTypeTLV = "application/vnd.ndn.tlv"
)

// Server serves certificates from a trust DB over HTTP/3. The fetch
// request body is an interest TLV block; the response body is the matching
// data TLV block.
type Server struct {
	server *http3.Server
	addr   string
	db     trust.DB

	// Log receives per-request diagnostics.
	Log zerolog.Logger
}

// NewServer creates a new certificate server.
func NewServer(addr string, tlsConfig *tls.Config, db trust.DB) *Server {
	s := &Server{
		addr: addr,
		db:   db,
		Log:  zerolog.Nop(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(HelloProcedure, handleHello)
	mux.HandleFunc(FetchProcedure, s.handleFetch)

	s.server = &http3.Server{
		Addr:      addr,
		Handler:   mux,
		TLSConfig: tlsConfig,
	}

	return s
}

// ListenAndServe starts the server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Close stops the server.
func (s *Server) Close() error {
	return s.server.Close()
}

type helloResponse struct {
	Message string `json:"message"`
	Time    int64  `json:"time"`
}

func handleHello(w http.ResponseWriter, r *http.Request) {
	resp := helloResponse{
		Message: "Hello from ndnv certificate service",
		Time:    time.Now().Unix(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleFetch implements the CertificateService Fetch RPC.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reqBytes, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}

	interest, err := ndn.DecodeInterest(reqBytes)
	if err != nil {
		http.Error(w, "Failed to decode interest", http.StatusBadRequest)
		return
	}

	cert, err := s.db.Certificate(r.Context(), interest.Name())
	if err != nil {
		s.Log.Debug().Err(err).Stringer("name", interest.Name()).Msg("certificate lookup failed")
		http.Error(w, "Certificate lookup failed", http.StatusInternalServerError)
		return
	}
	if cert == nil {
		http.Error(w, "Certificate not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentTypeTLV)
	w.WriteHeader(http.StatusOK)
	w.Write(cert.Encode())
}
