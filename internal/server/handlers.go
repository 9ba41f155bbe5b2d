package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dashgrid/pkg/buildinfo"
	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/render"
	"github.com/matzehuels/dashgrid/pkg/widget"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// Response types
// =============================================================================

type layoutResponse struct {
	Dashboard  string               `json:"dashboard"`
	Breakpoint grid.Breakpoint      `json:"breakpoint"`
	Spec       grid.Spec            `json:"spec"`
	Instances  []dashboard.Instance `json:"instances"`
}

type mutationResponse struct {
	Changed  bool                `json:"changed"`
	Instance *dashboard.Instance `json:"instance,omitempty"`
	Layout   layoutResponse      `json:"layout"`
}

type previewResponse struct {
	Found    bool           `json:"found"`
	Position *grid.Position `json:"position,omitempty"`
}

type pixelWidget struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	grid.PixelRect
}

type pixelsResponse struct {
	Width       float64       `json:"width"`
	ColumnWidth float64       `json:"columnWidth"`
	Widgets     []pixelWidget `json:"widgets"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// =============================================================================
// Request types
// =============================================================================

type addRequest struct {
	Kind string `json:"kind"`
}

type positionRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type resizeRequest struct {
	W    *int   `json:"w"`
	H    *int   `json:"h"`
	Size string `json:"size"`
}

type breakpointRequest struct {
	Breakpoint string `json:"breakpoint"`
}

// =============================================================================
// Store resolution
// =============================================================================

type storeKey struct{}

type storeRef struct {
	id    string
	store *dashboard.Store
}

// withStore resolves {dashboard} to a loaded store.
func (s *Server) withStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "dashboard")
		store, err := s.manager.Store(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), storeKey{}, storeRef{id: id, store: store})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func storeFrom(r *http.Request) storeRef {
	ref, _ := r.Context().Value(storeKey{}).(storeRef)
	return ref
}

func layoutOf(ref storeRef) layoutResponse {
	snap := ref.store.Snapshot()
	return layoutResponse{
		Dashboard:  ref.id,
		Breakpoint: snap.Breakpoint,
		Spec:       ref.store.Spec(),
		Instances:  snap.Instances,
	}
}

func (s *Server) mutated(w http.ResponseWriter, r *http.Request, status int, inst dashboard.Instance, changed bool) {
	resp := mutationResponse{Changed: changed, Layout: layoutOf(storeFrom(r))}
	if changed {
		resp.Instance = &inst
	}
	s.writeJSON(w, status, resp)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    buildinfo.Version,
		"dashboards": s.manager.Dashboards(),
	})
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	kinds := s.cfg.Kinds
	if kinds == nil {
		if lister, ok := s.manager.base.Registry.(interface{ Kinds() []widget.Kind }); ok {
			kinds = lister.Kinds()
		}
	}
	if kinds == nil {
		kinds = widget.DefaultCatalog().Kinds()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"kinds": kinds})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, layoutOf(storeFrom(r)))
}

func (s *Server) handlePixels(w http.ResponseWriter, r *http.Request) {
	width, err := widthParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	store := storeFrom(r).store
	spec := store.Spec()
	colWidth := grid.ColumnWidth(width, spec)

	instances := store.Instances()
	resp := pixelsResponse{Width: width, ColumnWidth: colWidth, Widgets: make([]pixelWidget, 0, len(instances))}
	for _, inst := range instances {
		resp.Widgets = append(resp.Widgets, pixelWidget{
			ID:        inst.ID,
			Kind:      inst.Kind,
			PixelRect: grid.CellToPx(inst.Position(), inst.Dims(), spec, colWidth),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	width, err := widthParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	store := storeFrom(r).store
	dot := render.DOT(store.Instances(), store.Spec(), render.DOTOptions{Width: width})
	svg, err := render.SVG(r.Context(), dot)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render layout"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleCompact(w http.ResponseWriter, r *http.Request) {
	changed := storeFrom(r).store.Compact(r.Context())
	s.writeJSON(w, http.StatusOK, mutationResponse{Changed: changed, Layout: layoutOf(storeFrom(r))})
}

func (s *Server) handleBreakpoint(w http.ResponseWriter, r *http.Request) {
	var req breakpointRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	bp, err := grid.ParseBreakpoint(req.Breakpoint)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := storeFrom(r).store.SetBreakpoint(r.Context(), bp); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, layoutOf(storeFrom(r)))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	storeFrom(r).store.ResetToDefaults(r.Context())
	s.writeJSON(w, http.StatusOK, layoutOf(storeFrom(r)))
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	inst, err := storeFrom(r).store.Add(r.Context(), req.Kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mutated(w, r, http.StatusCreated, inst, true)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.widgetID(w, r)
	if !ok {
		return
	}
	var opts []dashboard.RemoveOption
	if v := r.URL.Query().Get("compact"); v != "" {
		compact, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "compact must be true or false"))
			return
		}
		if !compact {
			opts = append(opts, dashboard.WithoutCompaction())
		}
	}
	removed := storeFrom(r).store.Remove(r.Context(), id, opts...)
	s.writeJSON(w, http.StatusOK, mutationResponse{Changed: removed, Layout: layoutOf(storeFrom(r))})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id, pos, ok := s.positionBody(w, r)
	if !ok {
		return
	}
	inst, changed := storeFrom(r).store.Move(r.Context(), id, pos)
	s.mutated(w, r, http.StatusOK, inst, changed)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id, pos, ok := s.positionBody(w, r)
	if !ok {
		return
	}
	resolved, found := storeFrom(r).store.Preview(id, pos)
	resp := previewResponse{Found: found}
	if found {
		resp.Position = &resolved
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	id, ok := s.widgetID(w, r)
	if !ok {
		return
	}
	var req resizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	store := storeFrom(r).store
	var (
		inst    dashboard.Instance
		changed bool
	)
	switch {
	case req.Size != "":
		label, err := grid.ParseSizeLabel(req.Size)
		if err != nil {
			s.writeError(w, err)
			return
		}
		inst, changed = store.ResizeTo(r.Context(), id, label)
	case req.W != nil && req.H != nil:
		inst, changed = store.Resize(r.Context(), id, grid.Size{W: *req.W, H: *req.H})
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "resize needs either size or both w and h"))
		return
	}
	s.mutated(w, r, http.StatusOK, inst, changed)
}

func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.widgetID(w, r)
	if !ok {
		return
	}
	inst, changed := storeFrom(r).store.CycleSize(r.Context(), id)
	s.mutated(w, r, http.StatusOK, inst, changed)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) widgetID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateWidgetID(id); err != nil {
		s.writeError(w, err)
		return "", false
	}
	return id, true
}

func (s *Server) positionBody(w http.ResponseWriter, r *http.Request) (string, grid.Position, bool) {
	id, ok := s.widgetID(w, r)
	if !ok {
		return "", grid.Position{}, false
	}
	var req positionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return "", grid.Position{}, false
	}
	if req.X == nil || req.Y == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "x and y are required"))
		return "", grid.Position{}, false
	}
	return id, grid.Position{X: *req.X, Y: *req.Y}, true
}

func widthParam(r *http.Request) (float64, error) {
	v := r.URL.Query().Get("width")
	if v == "" {
		return render.DefaultWidth, nil
	}
	width, err := strconv.ParseFloat(v, 64)
	if err != nil || width <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "width must be a positive number")
	}
	return width, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	body.Error.Message = errors.UserMessage(err)
	s.writeJSON(w, status, body)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidBreakpoint, errors.ErrCodeInvalidSize,
		errors.ErrCodeInvalidLayout, errors.ErrCodeUnknownKind, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
