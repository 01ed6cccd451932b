package http

import (
	"encoding/json"
	"net/http"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/goquery"
)

type filterRequest struct {
	HTML   string             `json:"html"`
	Filter distill.FilterSpec `json:"filter"`
}

type filterResponse struct {
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg, err := req.Filter.Config()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter, err := s.cfg.NewFilter(cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := filter.Filter(r.Context(), req.HTML)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if cfg.Kind() == distill.FilterLLM {
		writeJSON(w, http.StatusOK, filterResponse{Markdown: out})
		return
	}
	md, err := s.cfg.Converter.Convert(out)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filterResponse{HTML: out, Markdown: md})
}

type extractRequest struct {
	HTML    string          `json:"html"`
	Schema  json.RawMessage `json:"schema"`
	Backend string          `json:"backend"`
}

type extractResponse struct {
	Records []distill.Record `json:"records"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Schema) == 0 {
		s.writeError(w, r, distill.Errorf(distill.EINVALID, "schema required"))
		return
	}

	x, err := s.cfg.NewExtractor(req.Schema, req.Backend)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records := x.Extract(req.HTML)
	if records == nil {
		records = []distill.Record{}
	}
	writeJSON(w, http.StatusOK, extractResponse{Records: records})
}

type entitiesRequest struct {
	HTML   string   `json:"html"`
	Text   string   `json:"text"`
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
}

type entitiesResponse struct {
	Entities []distill.Entity `json:"entities"`
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	var req entitiesRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	x, err := distill.NewRegexExtractor(req.Labels...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text := req.Text
	if text == "" && req.HTML != "" {
		text = goquery.VisibleText(req.HTML)
	}
	entities := x.Extract(req.URL, text)
	if entities == nil {
		entities = []distill.Entity{}
	}
	writeJSON(w, http.StatusOK, entitiesResponse{Entities: entities})
}
