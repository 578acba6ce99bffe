package server

import (
	"net/http"
)

type thumbnailResponse struct {
	Image string `json:"image"`
}

func (s *Server) createThumbnail(w http.ResponseWriter, r *http.Request) {
	encoded, err := s.thumbnails.Encode(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.writeJSON(w, http.StatusOK, thumbnailResponse{Image: encoded})
}
