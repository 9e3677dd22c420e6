package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ajramos/giztriage/internal/models"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// DefaultMaxBodySize caps request bodies
const DefaultMaxBodySize = 64 << 10

// Options configures the HTTP server
type Options struct {
	Addr           string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server exposes a Mailbox over the triage API routes
type Server struct {
	mailbox *Mailbox
	logger  *slog.Logger
	origins []string
}

// New creates a server for mailbox
func New(mailbox *Mailbox, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{mailbox: mailbox, logger: logger, origins: origins}
}

// Router registers the API routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLog, limitBody(DefaultMaxBodySize))
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/fetch", s.handleFetch).Methods(http.MethodPost)
	r.HandleFunc("/classify", s.handleClassify).Methods(http.MethodPost)
	r.HandleFunc("/classified-emails", s.handleClassified).Methods(http.MethodGet)
	r.HandleFunc("/responded-emails", s.handleResponded).Methods(http.MethodGet)
	r.HandleFunc("/respond", s.handleRespond).Methods(http.MethodPost)
	return r
}

// Handler wraps the router with CORS
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
	})
	return c.Handler(s.Router())
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		Addr:         addr,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting dev backend", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type fetchRequest struct {
	MaxEmailsToFetch *int `json:"max_emails_to_fetch"`
}

type fetchResponse struct {
	Fetched int                  `json:"fetched"`
	Emails  []models.EmailRecord `json:"emails"`
}

// emptyFetchResponse is what /fetch returns for an empty mailbox: no emails key
type emptyFetchResponse struct {
	Fetched int    `json:"fetched"`
	Message string `json:"message"`
}

type classification struct {
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
	Reasoning  *string  `json:"reasoning"`
	Summary    *string  `json:"summary"`
}

// classifiedBatchItem nests the classification the way /classify reports it
type classifiedBatchItem struct {
	models.EmailRecord
	Category       string         `json:"category"`
	Classification classification `json:"classification"`
}

type classifyResponse struct {
	Status           string                `json:"status"`
	ClassifiedCount  int                   `json:"classified_count"`
	ClassifiedEmails []classifiedBatchItem `json:"classified_emails"`
}

type classifiedResponse struct {
	ClassifiedEmails []models.ClassifiedEmailRecord `json:"classified_emails"`
}

type respondedResponse struct {
	RespondedEmails []models.RespondedEmailRecord `json:"responded_emails"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, map[string]string{"message": "Smart Email Assistant API is running"}, http.StatusOK)
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeJSONResponse(w, errorResponse{Detail: "Field required: body"}, http.StatusUnprocessableEntity)
			return
		}
		s.logger.Error("Failed to decode fetch request", "error", err)
		writeJSONResponse(w, errorResponse{Detail: "Invalid request body"}, http.StatusBadRequest)
		return
	}
	limit := DefaultFetchLimit
	if req.MaxEmailsToFetch != nil {
		limit = *req.MaxEmailsToFetch
	}
	emails := s.mailbox.Fetch(limit)
	if len(emails) == 0 {
		writeJSONResponse(w, emptyFetchResponse{Message: "No emails fetched"}, http.StatusOK)
		return
	}
	writeJSONResponse(w, fetchResponse{Fetched: len(emails), Emails: emails}, http.StatusOK)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	limit := DefaultClassifyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONResponse(w, errorResponse{Detail: "limit must be a positive integer"}, http.StatusBadRequest)
			return
		}
		limit = n
	}

	batch := s.mailbox.ClassifyPending(limit)
	items := make([]classifiedBatchItem, 0, len(batch))
	for _, c := range batch {
		items = append(items, classifiedBatchItem{
			EmailRecord: c.EmailRecord,
			Category:    c.Category,
			Classification: classification{
				Category:   c.Category,
				Confidence: c.Confidence,
				Reasoning:  c.Reasoning,
				Summary:    c.Summary,
			},
		})
	}
	s.logger.Info("Classified batch", "count", len(items))
	writeJSONResponse(w, classifyResponse{
		Status:           "Classification completed",
		ClassifiedCount:  len(items),
		ClassifiedEmails: items,
	}, http.StatusOK)
}

func (s *Server) handleClassified(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, classifiedResponse{ClassifiedEmails: s.mailbox.Classified()}, http.StatusOK)
}

func (s *Server) handleResponded(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, respondedResponse{RespondedEmails: s.mailbox.Responded()}, http.StatusOK)
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req models.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Error("Failed to decode respond request", "error", err)
		writeJSONResponse(w, errorResponse{Detail: "Invalid request body"}, http.StatusBadRequest)
		return
	}
	result, err := s.mailbox.Respond(req)
	if err != nil {
		s.logger.Warn("Respond rejected", "email_id", req.EmailID, "error", err)
		writeJSONResponse(w, errorResponse{Detail: err.Error()}, http.StatusBadRequest)
		return
	}
	writeJSONResponse(w, result, http.StatusOK)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start))
	})
}

func limitBody(maxBytes int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONResponse(w http.ResponseWriter, body interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
