package server

import (
	"net/http"

	"droscher.com/Portafilter/pkg/model"
	"droscher.com/Portafilter/pkg/store"
)

func (s *Server) addShot(w http.ResponseWriter, r *http.Request) {
	var input model.ShotInput

	if err := decode(w, r, &input); err != nil {
		s.fail(w, r, err)

		return
	}

	if input.BeanID != "" && !s.store.BeanExists(input.BeanID) {
		s.fail(w, r, store.ErrUnknownBeanID)

		return
	}

	shot, err := s.store.AddShot(r.Context(), input)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, shot)
}

func (s *Server) updateShot(w http.ResponseWriter, r *http.Request) {
	var input model.ShotInput

	if err := decode(w, r, &input); err != nil {
		s.fail(w, r, err)

		return
	}

	existing, found := s.store.Shot(r.PathValue("id"))
	if !found {
		s.fail(w, r, store.ErrShotNotFound)

		return
	}

	// The bean reference of a shot never changes.
	input.BeanID = existing.BeanID

	shot, err := s.store.UpdateShot(r.Context(), existing.ID, input)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	if shot == nil {
		s.fail(w, r, store.ErrShotNotFound)

		return
	}

	s.writeJSON(w, http.StatusOK, shot)
}

func (s *Server) deleteShot(w http.ResponseWriter, r *http.Request) {
	request, err := s.store.RequestDeleteShot(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.writeJSON(w, http.StatusAccepted, request)
}

func (s *Server) toggleOptimal(w http.ResponseWriter, r *http.Request) {
	shot, found := s.store.Shot(r.PathValue("id"))
	if !found {
		s.fail(w, r, store.ErrShotNotFound)

		return
	}

	if err := s.store.ToggleOptimal(r.Context(), shot.ID, shot.BeanID); err != nil {
		s.fail(w, r, err)

		return
	}

	toggled, _ := s.store.Shot(shot.ID)

	s.writeJSON(w, http.StatusOK, toggled)
}
