package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"LiveCatalog/pkg/kit"
)

const notFoundMsg = "Product not found"

type Server struct {
	Store  Store
	Hub    *Hub
	Gen    *Generator
	Prices *PriceSimulator
	Log    *zap.Logger

	UploadDir     string
	UploadLimiter *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)
	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/products", s.list)
	r.Post("/api/products", s.create)
	r.Get("/api/products/{id}", s.get)
	r.Put("/api/products/{id}", s.update)
	r.Delete("/api/products/{id}", s.delete)

	r.Post("/api/generate", s.toggleGenerate)
	r.Get("/ws", s.handleWS)

	upload := http.HandlerFunc(s.upload)
	if s.UploadLimiter != nil {
		r.Method(http.MethodPost, "/api/upload", s.UploadLimiter.Middleware(upload))
	} else {
		r.Method(http.MethodPost, "/api/upload", upload)
	}
	r.Get("/api/download/{filename}", s.download)
	r.Get("/api/files", s.listFiles)

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.storeError(w, r, "list products failed", err)
		return
	}

	// Jitter runs on the snapshot before filtering, so price bounds apply to
	// the prices the client actually sees.
	s.Prices.Apply(products)

	q := ParseQuery(r.URL.Query())
	kit.WriteJSON(w, http.StatusOK, ApplyQuery(products, q))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, notFoundMsg, nil)
		return
	}

	p, err := s.Store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, notFoundMsg, nil)
		return
	}
	if err != nil {
		s.storeError(w, r, "get product failed", err)
		return
	}

	p.Price = s.Prices.Jitter(p.Price)
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := in.Validate(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	p, err := s.Store.Create(r.Context(), in)
	if err != nil {
		s.storeError(w, r, "create product failed", err)
		return
	}

	s.Hub.Publish(p)
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, notFoundMsg, nil)
		return
	}

	// The payload may carry its own id; decoding into ProductInput discards
	// it, so the path id always wins.
	var in ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	p, err := s.Store.Update(r.Context(), id, in)
	if errors.Is(err, ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, notFoundMsg, nil)
		return
	}
	if err != nil {
		s.storeError(w, r, "update product failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, notFoundMsg, nil)
		return
	}

	err := s.Store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, notFoundMsg, nil)
		return
	}
	if err != nil {
		s.storeError(w, r, "delete product failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type generateRequest struct {
	IsGenerating bool `json:"is_generating"`
}

type generateResponse struct {
	Status       string `json:"status"`
	IsGenerating bool   `json:"is_generating"`
}

func (s *Server) toggleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if req.IsGenerating {
		s.Gen.Start()
	} else {
		s.Gen.Stop()
	}

	kit.WriteJSON(w, http.StatusOK, generateResponse{
		Status:       "success",
		IsGenerating: s.Gen.Running(),
	})
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
