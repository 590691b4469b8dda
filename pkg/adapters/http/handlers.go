package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aretw0/stratum"
	"github.com/aretw0/stratum/api"
	"github.com/aretw0/stratum/pkg/cluster"
	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/naming"
	"github.com/aretw0/stratum/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "stratum-http",
		"version":     strings.TrimSpace(stratum.Version),
		"api_version": api.Version(),
	})
}

// ListTypes handles GET /types.
func (s *Server) ListTypes(w http.ResponseWriter, r *http.Request) {
	infos := make([]schema.Info, 0, len(schema.Tags()))
	for _, tag := range schema.Tags() {
		info, _ := schema.Lookup(tag)
		infos = append(infos, info)
	}
	s.writeJSON(w, http.StatusOK, infos)
}

type categoryGroup struct {
	Category schema.Category `json:"category"`
	Tags     []schema.Tag    `json:"tags"`
}

// ListCategories handles GET /types/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	groups := schema.Categorize()
	resp := make([]categoryGroup, 0, len(groups))
	for _, c := range schema.Categories() {
		resp = append(resp, categoryGroup{Category: c, Tags: groups[c]})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// DescribeType handles GET /types/{tag}.
func (s *Server) DescribeType(w http.ResponseWriter, r *http.Request) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "tag", chi.URLParam(r, "tag"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.badRequest(w, "Invalid format for parameter tag: "+err.Error())
		return
	}

	tag, err := schema.ParseTag(raw)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "Unknown data type: " + raw})
		return
	}
	info, _ := schema.Lookup(tag)
	s.writeJSON(w, http.StatusOK, info)
}

type valueCheck struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// ValidateValue handles POST /validate/value.
// The verdict is always 200; an unknown type is itself an invalid verdict.
func (s *Server) ValidateValue(w http.ResponseWriter, r *http.Request) {
	var body valueCheck
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "Invalid request body")
		return
	}

	s.writeJSON(w, http.StatusOK, s.Validator.ValidateValue(body.Value, lenientTag(body.Type)))
}

type nameCheck struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ValidateName handles POST /validate/name.
func (s *Server) ValidateName(w http.ResponseWriter, r *http.Request) {
	var body nameCheck
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "Invalid request body")
		return
	}

	kind, err := naming.ParseKind(body.Kind)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.Validator.ValidateName(kind, body.Name))
}

var errInvalidOrder = errors.New("order must be asc or desc")

// listOptions reads ?filter= and ?order=asc|desc.
func listOptions(r *http.Request) (cluster.ListOptions, error) {
	var opts cluster.ListOptions
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "filter", q, &opts.Filter); err != nil {
		return opts, err
	}
	var order string
	if err := runtime.BindQueryParameter("form", true, false, "order", q, &order); err != nil {
		return opts, err
	}
	switch strings.ToLower(order) {
	case "", "asc":
	case "desc":
		opts.Descending = true
	default:
		return opts, errInvalidOrder
	}
	return opts, nil
}

// ListProjects handles GET /projects.
func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	names, err := s.Clusters.Projects(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// ListCollections handles GET /projects/{project}/collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	names, err := s.Clusters.Collections(r.Context(), chi.URLParam(r, "project"), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// ListClusters handles GET .../collections/{collection}/clusters.
func (s *Server) ListClusters(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	names, err := s.Clusters.Clusters(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "collection"), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// CreateCluster handles POST .../collections/{collection}/clusters.
func (s *Server) CreateCluster(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "Invalid request body")
		return
	}

	ref := domain.ClusterRef{
		Project:    chi.URLParam(r, "project"),
		Collection: chi.URLParam(r, "collection"),
		Cluster:    body.Name,
	}
	c, err := s.Clusters.Create(r.Context(), ref)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

// GetCluster handles GET .../clusters/{cluster}.
func (s *Server) GetCluster(w http.ResponseWriter, r *http.Request) {
	c, err := s.Clusters.Get(r.Context(), clusterRef(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

// DropCluster handles DELETE .../clusters/{cluster}.
func (s *Server) DropCluster(w http.ResponseWriter, r *http.Request) {
	if err := s.Clusters.Drop(r.Context(), clusterRef(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckCluster handles GET .../clusters/{cluster}/check.
func (s *Server) CheckCluster(w http.ResponseWriter, r *http.Request) {
	report, err := s.Clusters.Check(r.Context(), clusterRef(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// recordBody mirrors cluster.RecordInput with a plain type string, so an unknown
// type reaches the service and comes back as a 422 rather than a decode error.
type recordBody struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value *string `json:"value"`
}

type patchBody struct {
	Name  *string `json:"name"`
	Type  *string `json:"type"`
	Value *string `json:"value"`
}

// lenientTag normalizes known names and passes anything else through verbatim.
func lenientTag(raw string) schema.Tag {
	if tag, err := schema.ParseTag(raw); err == nil {
		return tag
	}
	return schema.Tag(raw)
}

// AddRecord handles POST .../clusters/{cluster}/records.
func (s *Server) AddRecord(w http.ResponseWriter, r *http.Request) {
	var body recordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "Invalid request body")
		return
	}
	in := cluster.RecordInput{Name: body.Name, Type: lenientTag(body.Type), Value: body.Value}

	rec, err := s.Clusters.AddRecord(r.Context(), clusterRef(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

// UpdateRecord handles PATCH .../records/{id}.
func (s *Server) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var body patchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "Invalid request body")
		return
	}
	patch := cluster.RecordPatch{Name: body.Name, Value: body.Value}
	if body.Type != nil {
		tag := lenientTag(*body.Type)
		patch.Type = &tag
	}

	rec, err := s.Clusters.UpdateRecord(r.Context(), clusterRef(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord handles DELETE .../records/{id}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.Clusters.DeleteRecord(r.Context(), clusterRef(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func clusterRef(r *http.Request) domain.ClusterRef {
	return domain.ClusterRef{
		Project:    chi.URLParam(r, "project"),
		Collection: chi.URLParam(r, "collection"),
		Cluster:    chi.URLParam(r, "cluster"),
	}
}
