package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"droscher.com/Portafilter/configs"
	"droscher.com/Portafilter/pkg/backup"
	"droscher.com/Portafilter/pkg/confirm"
	"droscher.com/Portafilter/pkg/model"
	"droscher.com/Portafilter/pkg/store"
	"droscher.com/Portafilter/pkg/thumbnail"
	"droscher.com/Portafilter/pkg/view"
)

const maxUploadSize = 20 << 20

// Server exposes the log as a JSON API. Destructive calls answer with a
// confirmation request that has to be resolved separately.
type Server struct {
	store         *store.Store
	confirmations *confirm.Registry
	thumbnails    *thumbnail.Encoder
	config        *configs.Config
	logger        *zap.Logger
	now           func() time.Time
}

func NewServer(store *store.Store, confirmations *confirm.Registry, thumbnails *thumbnail.Encoder, config *configs.Config, logger *zap.Logger) *Server {
	return &Server{
		store:         store,
		confirmations: confirmations,
		thumbnails:    thumbnails,
		config:        config,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/beans", s.listBeans)
	mux.HandleFunc("POST /api/beans", s.addBean)
	mux.HandleFunc("GET /api/beans/{id}", s.getBean)
	mux.HandleFunc("PUT /api/beans/{id}", s.updateBean)
	mux.HandleFunc("DELETE /api/beans/{id}", s.deleteBean)
	mux.HandleFunc("GET /api/beans/{id}/shots", s.beanShots)
	mux.HandleFunc("GET /api/beans/{id}/best", s.bestShot)
	mux.HandleFunc("GET /api/beans/{id}/stats", s.beanStats)

	mux.HandleFunc("POST /api/shots", s.addShot)
	mux.HandleFunc("PUT /api/shots/{id}", s.updateShot)
	mux.HandleFunc("DELETE /api/shots/{id}", s.deleteShot)
	mux.HandleFunc("POST /api/shots/{id}/optimal", s.toggleOptimal)

	mux.HandleFunc("GET /api/backup", s.exportBackup)
	mux.HandleFunc("POST /api/backup", s.importBackup)
	mux.HandleFunc("DELETE /api/data", s.clearData)

	mux.HandleFunc("GET /api/confirmations", s.pendingConfirmations)
	mux.HandleFunc("POST /api/confirmations/{id}", s.resolveConfirmation)

	mux.HandleFunc("GET /api/view", s.page)
	mux.HandleFunc("POST /api/images/thumbnail", s.createThumbnail)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.logger.Info("request rejected", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}

	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, backup.ErrInvalidBackup),
		errors.Is(err, view.ErrUnknownScreen),
		errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrBeanNotFound),
		errors.Is(err, store.ErrShotNotFound),
		errors.Is(err, confirm.ErrUnknownRequest):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnknownBeanID):
		return http.StatusUnprocessableEntity
	case errors.Is(err, thumbnail.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &maxBytesError):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var errMalformedBody = errors.New("malformed request body")

func decode(w http.ResponseWriter, r *http.Request, target any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadSize)).Decode(target); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return err
		}

		return errors.Join(errMalformedBody, err)
	}

	return nil
}
