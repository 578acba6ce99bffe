package server

import (
	"net/http"

	"droscher.com/Portafilter/pkg/view"
)

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	state, err := view.ParseState(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.writeJSON(w, http.StatusOK, view.Build(s.store.Snapshot(), state))
}
