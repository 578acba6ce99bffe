package server

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"droscher.com/Portafilter/pkg/backup"
)

func (s *Server) exportBackup(w http.ResponseWriter, r *http.Request) {
	document, err := backup.Export(s.store.Snapshot())
	if err != nil {
		s.fail(w, r, err)

		return
	}

	filename := backup.Filename(s.config.Backup.Product, s.now())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(document); err != nil {
		s.logger.Warn("failed to write backup", zap.Error(err))
	}
}

func (s *Server) importBackup(w http.ResponseWriter, r *http.Request) {
	document, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		s.fail(w, r, err)

		return
	}

	snapshot, err := backup.Decode(document, s.logger)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.writeJSON(w, http.StatusAccepted, s.store.RequestReplace(snapshot))
}

func (s *Server) clearData(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusAccepted, s.store.RequestClear())
}
