package server

import (
	"net/http"

	"droscher.com/Portafilter/pkg/model"
	"droscher.com/Portafilter/pkg/store"
	"droscher.com/Portafilter/pkg/view"
)

func (s *Server) listBeans(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, view.Summaries(s.store.Snapshot()))
}

func (s *Server) addBean(w http.ResponseWriter, r *http.Request) {
	var input model.BeanInput

	if err := decode(w, r, &input); err != nil {
		s.fail(w, r, err)

		return
	}

	bean, err := s.store.AddBean(r.Context(), input)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, bean)
}

func (s *Server) getBean(w http.ResponseWriter, r *http.Request) {
	bean, found := s.store.Bean(r.PathValue("id"))
	if !found {
		s.fail(w, r, store.ErrBeanNotFound)

		return
	}

	s.writeJSON(w, http.StatusOK, bean)
}

func (s *Server) updateBean(w http.ResponseWriter, r *http.Request) {
	existing, found := s.store.Bean(r.PathValue("id"))
	if !found {
		s.fail(w, r, store.ErrBeanNotFound)

		return
	}

	// Fields left out of the body keep their current values.
	input := model.BeanInputFrom(existing)

	if err := decode(w, r, &input); err != nil {
		s.fail(w, r, err)

		return
	}

	bean, err := s.store.UpdateBean(r.Context(), existing.ID, input)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	if bean == nil {
		s.fail(w, r, store.ErrBeanNotFound)

		return
	}

	s.writeJSON(w, http.StatusOK, bean)
}

func (s *Server) deleteBean(w http.ResponseWriter, r *http.Request) {
	request, err := s.store.RequestDeleteBean(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)

		return
	}

	s.writeJSON(w, http.StatusAccepted, request)
}

func (s *Server) beanShots(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !s.store.BeanExists(id) {
		s.fail(w, r, store.ErrBeanNotFound)

		return
	}

	s.writeJSON(w, http.StatusOK, s.store.SortedShots(id, view.ParseSortMode(r.URL.Query().Get("sort"))))
}

func (s *Server) bestShot(w http.ResponseWriter, r *http.Request) {
	shot, found := s.store.BestShot(r.PathValue("id"))
	if !found {
		s.fail(w, r, store.ErrShotNotFound)

		return
	}

	s.writeJSON(w, http.StatusOK, shot)
}

func (s *Server) beanStats(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !s.store.BeanExists(id) {
		s.fail(w, r, store.ErrBeanNotFound)

		return
	}

	s.writeJSON(w, http.StatusOK, s.store.Stats(id))
}
