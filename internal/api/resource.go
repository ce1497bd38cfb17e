package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// resource serves the CRUD routes of one entity kind.
type resource[E any, P types.Patch[E]] struct {
	singular string
	plural   string
	table    types.Table[E, P]
	log      *zap.Logger
}

func newResource[E any, P types.Patch[E]](singular, plural string, table types.Table[E, P], log *zap.Logger) *resource[E, P] {
	return &resource[E, P]{singular: singular, plural: plural, table: table, log: log}
}

func (rs *resource[E, P]) routes(r chi.Router) {
	r.Get("/", rs.list)
	r.Post("/", rs.create)
	r.Get("/{id}", rs.get)
	r.Put("/{id}", rs.update)
	r.Patch("/{id}", rs.update)
	r.Delete("/{id}", rs.delete)
}

func (rs *resource[E, P]) notFound(w http.ResponseWriter) {
	name := strings.ToUpper(rs.singular[:1]) + rs.singular[1:]
	writeError(w, http.StatusNotFound, name+" not found")
}

func (rs *resource[E, P]) invalidID(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s id", rs.singular))
}

// decode reads a patch from the body and validates it.
func (rs *resource[E, P]) decode(w http.ResponseWriter, r *http.Request, create bool) (P, bool) {
	var patch P
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s data", rs.singular))
		return patch, false
	}
	if err := patch.Validate(create); err != nil {
		writeInvalid(w, fmt.Sprintf("Invalid %s data", rs.singular), err)
		return patch, false
	}
	return patch, true
}

func (rs *resource[E, P]) list(w http.ResponseWriter, r *http.Request) {
	records, err := rs.table.List(r.Context())
	if err != nil {
		writeFailure(w, r, rs.log, "Error fetching "+rs.plural, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (rs *resource[E, P]) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rs.invalidID(w)
		return
	}
	e, ok, err := rs.table.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, r, rs.log, "Error fetching "+rs.singular, err)
		return
	}
	if !ok {
		rs.notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (rs *resource[E, P]) create(w http.ResponseWriter, r *http.Request) {
	patch, ok := rs.decode(w, r, true)
	if !ok {
		return
	}
	e, err := rs.table.Create(r.Context(), patch.New())
	if err != nil {
		writeFailure(w, r, rs.log, "Error creating "+rs.singular, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (rs *resource[E, P]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rs.invalidID(w)
		return
	}
	patch, ok := rs.decode(w, r, false)
	if !ok {
		return
	}
	e, found, err := rs.table.Update(r.Context(), id, patch)
	if err != nil {
		writeFailure(w, r, rs.log, "Error updating "+rs.singular, err)
		return
	}
	if !found {
		rs.notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (rs *resource[E, P]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rs.invalidID(w)
		return
	}
	found, err := rs.table.Delete(r.Context(), id)
	if err != nil {
		writeFailure(w, r, rs.log, "Error deleting "+rs.singular, err)
		return
	}
	if !found {
		rs.notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
