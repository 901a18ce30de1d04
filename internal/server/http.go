package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fastjson"

	"github.com/lorafactory/logserver/internal/model"
	"github.com/lorafactory/logserver/internal/storage"
)

// ErrMalformedPayload marks request bodies that could not be read, decoded
// or parsed. Append failures from the writer are wrapped I/O errors instead.
// Both collapse to the same bare 500 on the wire; the distinction only shows
// up in the operator console.
var ErrMalformedPayload = errors.New("malformed payload")

// IngestServer accepts log events on POST /log and appends them to the
// day's log file.
type IngestServer struct {
	writer        *storage.LineWriter
	parser        fastjson.ParserPool
	srv           *http.Server
	zstdDecoder   *zstd.Decoder
	ingestCounter int64 // Monotonic counter for total ingest requests
}

func NewIngestServer(w *storage.LineWriter) (*IngestServer, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &IngestServer{
		writer:      w,
		zstdDecoder: dec,
	}, nil
}

// Handler returns the server's route table.
func (s *IngestServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.route)
	return mux
}

// Start runs the HTTP server.
func (s *IngestServer) Start(addr string) error {
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *IngestServer) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// route dispatches the three request shapes the server answers: CORS
// preflight, POST to the ingestion path, and everything else.
func (s *IngestServer) route(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		s.handlePreflight(w, r)
		return
	}
	if r.Method == http.MethodPost && r.URL.Path == "/log" {
		s.handleLog(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

// handlePreflight answers CORS preflight requests so browsers from any
// origin may post events.
func (s *IngestServer) handlePreflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}

// handleLog processes one POST /log request. Any failure along the
// read-parse-append path drops the event and answers a bare 500.
func (s *IngestServer) handleLog(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.ingestCounter, 1)

	line, err := s.ingest(r)
	if err == nil {
		err = s.writer.Append(line)
	}
	if err != nil {
		log.Printf("Error processing log: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// ingest reads exactly Content-Length bytes, decodes and parses them, and
// formats the log-file line. It never touches the response.
func (s *IngestServer) ingest(r *http.Request) (string, error) {
	if r.ContentLength < 0 {
		return "", fmt.Errorf("%w: missing Content-Length", ErrMalformedPayload)
	}

	body := make([]byte, r.ContentLength)
	if _, err := io.ReadFull(r.Body, body); err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrMalformedPayload, err)
	}

	body, err := s.decode(body, r.Header.Get("Content-Encoding"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	p := s.parser.Get()
	defer s.parser.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return "", fmt.Errorf("%w: invalid JSON: %v", ErrMalformedPayload, err)
	}

	ev := model.Event{
		Timestamp: v.GetInt64("timestamp"),
		Type:      string(v.GetStringBytes("type")),
		Raw:       v.MarshalTo(nil),
	}
	if ev.Type == "" {
		ev.Type = model.UnknownType
	}
	return ev.Line(), nil
}

// decode unwraps an optional Content-Encoding on the request body. SDK
// clients batch events and compress; browsers post identity bodies.
func (s *IngestServer) decode(body []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "", "identity":
		return body, nil
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip body: %v", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %v", err)
		}
		return out, nil
	case "zstd":
		out, err := s.zstdDecoder.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd body: %v", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported Content-Encoding %q", encoding)
	}
}
