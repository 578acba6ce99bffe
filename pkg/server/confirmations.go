package server

import (
	"net/http"
)

type resolution struct {
	Approve bool `json:"approve"`
}

type resolved struct {
	ID       string `json:"id"`
	Approved bool   `json:"approved"`
}

func (s *Server) pendingConfirmations(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.confirmations.Pending())
}

func (s *Server) resolveConfirmation(w http.ResponseWriter, r *http.Request) {
	var body resolution

	if err := decode(w, r, &body); err != nil {
		s.fail(w, r, err)

		return
	}

	id := r.PathValue("id")

	if err := s.confirmations.Resolve(r.Context(), id, body.Approve); err != nil {
		s.fail(w, r, err)

		return
	}

	s.writeJSON(w, http.StatusOK, resolved{ID: id, Approved: body.Approve})
}
