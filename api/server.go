// Package api provides the HTTP front end for the statement parser.
// It accepts PDF uploads and returns the parsed statement as JSON.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"cardstmt/parser"
	"cardstmt/parser/common"
)

// Config holds the API server configuration
type Config struct {
	Port      string
	LogPrefix string
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:      ":8080",
		LogPrefix: "API: ",
	}
}

// Server represents the HTTP API server
type Server struct {
	config  Config
	mux     *http.ServeMux
	resolve func(issuer string) (parser.Parser, error)
}

// New creates a new API server with the given configuration
func New(cfg Config) *Server {
	s := &Server{
		config:  cfg,
		mux:     http.NewServeMux(),
		resolve: parser.ForIssuer,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/parse", s.handleParse)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Handler returns the http.Handler for the server.
// This allows the server to be used with custom http.Server configurations.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	log.Printf("%sStarting server on %s", s.config.LogPrefix, s.config.Port)
	return http.ListenAndServe(s.config.Port, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleParse handles statement upload requests. The uploaded bytes
// are written to a scoped temporary file which is removed once the
// parse returns, whatever the outcome.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	log.Printf("%sReceived request from %s", s.config.LogPrefix, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse multipart form with 32MB max memory
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Printf("%sError parsing multipart form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		log.Printf("%sError getting file from form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not get uploaded file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	issuer := coalesce(r.FormValue("issuer"), r.URL.Query().Get("issuer"))
	p, err := s.resolve(issuer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpPath, err := spoolUpload(file)
	if err != nil {
		log.Printf("%sError spooling upload: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not store uploaded file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmpPath)

	result, err := p.Parse(tmpPath)
	if err != nil {
		var readErr *common.DocumentReadError
		if errors.As(err, &readErr) {
			log.Printf("%sUnreadable upload: %v", s.config.LogPrefix, err)
			http.Error(w, "Could not read file as PDF: "+readErr.Err.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Printf("%sParse failed: %v", s.config.LogPrefix, err)
		http.Error(w, "Parse failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// spoolUpload writes the upload to a temporary PDF file and returns
// its path. The caller removes the file.
func spoolUpload(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "cardstmt-*.pdf")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// coalesce returns the first non-empty string
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
