package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"creative-builder/internal/config"
	"creative-builder/internal/model"
	"creative-builder/internal/service"
	"creative-builder/internal/ws"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Handler struct {
	cfg         config.Config
	hub         *ws.Hub
	sessionHub  *ws.SessionHub
	styleSvc    *service.StyleService
	creativeSvc *service.CreativeService
	upgrader    websocket.Upgrader
}

type apiError struct {
	Error string `json:"error"`
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, errors.New("websocket requires GET"))
		return
	}
	if !websocket.IsWebSocketUpgrade(r) {
		writeErr(w, http.StatusBadRequest, errors.New("websocket upgrade required"))
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: remote=%s host=%s uri=%s err=%v", r.RemoteAddr, r.Host, r.RequestURI, err)
		return
	}
	client := ws.NewClient(h.hub, conn)
	h.hub.BroadcastEvent(model.Event{Type: "ws.client_connected", Payload: map[string]string{"id": uuid.NewString()}, CreatedAt: time.Now().UnixMilli()})
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

func (h *Handler) PreviewWebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, errors.New("websocket requires GET"))
		return
	}
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		writeErr(w, http.StatusBadRequest, errors.New("session_id required"))
		return
	}
	if _, err := h.creativeSvc.Session(sessionID); err != nil {
		writeServiceErr(w, err)
		return
	}
	if !websocket.IsWebSocketUpgrade(r) {
		writeErr(w, http.StatusBadRequest, errors.New("websocket upgrade required"))
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("preview ws upgrade failed: remote=%s session=%s err=%v", r.RemoteAddr, sessionID, err)
		return
	}
	client := h.sessionHub.Register(sessionID, conn)
	go client.WritePump()
	go client.ReadPump()
	h.creativeSvc.RequestPreview(sessionID)
}

func (h *Handler) Templates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, service.ListTemplates())
}

// CreateSession accepts a multipart "image" upload.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSizeBytes); err != nil {
		writeErr(w, uploadStatus(err), err)
		return
	}
	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	if err := validateImageUpload(fileHeader); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	info, err := h.creativeSvc.CreateSession(file)
	if err != nil {
		log.Printf("create session failed: file=%s size=%d err=%v", fileHeader.Filename, fileHeader.Size, err)
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// Session routes /v1/sessions/{id}[/brand|/generate|/layout/{slug}|/creatives/{slug}].
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(strings.TrimPrefix(r.URL.Path, "/v1/sessions/"))
	if len(parts) == 0 {
		writeErr(w, http.StatusNotFound, errors.New("session id required"))
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1:
		h.sessionRoot(w, r, id)
	case len(parts) == 2 && parts[1] == "brand":
		h.updateBrand(w, r, id)
	case len(parts) == 2 && parts[1] == "generate":
		h.generate(w, r, id)
	case len(parts) == 3 && parts[1] == "layout":
		h.layout(w, r, id, parts[2])
	case len(parts) == 3 && parts[1] == "creatives":
		h.download(w, r, id, parts[2])
	default:
		writeErr(w, http.StatusNotFound, fmt.Errorf("unknown path %s", r.URL.Path))
	}
}

func (h *Handler) sessionRoot(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		info, err := h.creativeSvc.Session(id)
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	case http.MethodDelete:
		if err := h.creativeSvc.DeleteSession(id); err != nil {
			writeServiceErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) updateBrand(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	var brand model.BrandContext
	if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	info, err := h.creativeSvc.UpdateBrand(id, brand)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	cards, err := h.creativeSvc.Generate(r.Context(), id)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session_id": id, "cards": cards})
}

func (h *Handler) layout(w http.ResponseWriter, r *http.Request, id, slug string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	plan, err := h.creativeSvc.Plan(id, slug)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request, id, slug string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	format, err := service.ParseExportFormat(q.Get("format"))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	quality := h.cfg.ExportQuality
	if v := strings.TrimSpace(q.Get("quality")); v != "" {
		quality, err = strconv.ParseFloat(v, 64)
		if err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid quality %q", v))
			return
		}
	}

	img, _, err := h.creativeSvc.RenderTemplate(id, slug)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	b, err := service.ExportBytes(img, format, quality)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", service.ExportFilename(time.Now(), format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *Handler) Styles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, h.styleSvc.List())
}

// Style routes /v1/styles/{slug} and /v1/styles/{slug}/reset.
func (h *Handler) Style(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(strings.TrimPrefix(r.URL.Path, "/v1/styles/"))
	if len(parts) == 0 || len(parts) > 2 || (len(parts) == 2 && parts[1] != "reset") {
		writeErr(w, http.StatusNotFound, fmt.Errorf("unknown path %s", r.URL.Path))
		return
	}
	t, ok := service.FindTemplate(parts[0])
	if !ok {
		writeServiceErr(w, service.ErrTemplateNotFound)
		return
	}

	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		writeJSON(w, http.StatusOK, styleResponse(t, h.styleSvc.ResetDefaults()))
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, styleResponse(t, h.styleSvc.Get(t.Label)))
	case http.MethodPut:
		// Fields missing from the body keep their current values. The merge
		// happens here; StyleService.Set always stores the whole config.
		cfg := h.styleSvc.Get(t.Label)
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		if err := h.styleSvc.Set(t.Label, cfg); err != nil {
			writeServiceErr(w, err)
			return
		}
		h.creativeSvc.RequestPreviewAll()
		writeJSON(w, http.StatusOK, styleResponse(t, cfg))
	case http.MethodDelete:
		if err := h.styleSvc.Clear(t.Label); err != nil {
			writeServiceErr(w, err)
			return
		}
		h.creativeSvc.RequestPreviewAll()
		writeJSON(w, http.StatusOK, styleResponse(t, h.styleSvc.Get(t.Label)))
	default:
		methodNotAllowed(w)
	}
}

func styleResponse(t model.Template, cfg model.StyleConfig) map[string]interface{} {
	return map[string]interface{}{"label": t.Label, "slug": t.Slug, "config": cfg}
}

func validateImageUpload(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return nil
	default:
		return errors.New("unsupported image format")
	}
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, apiError{Error: err.Error()})
}

// writeServiceErr maps the service error kinds onto status codes.
func writeServiceErr(w http.ResponseWriter, err error) {
	var (
		verr *model.ValidationError
		perr *model.PreconditionError
		derr *model.DecodeError
	)
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &verr):
		code = http.StatusBadRequest
	case errors.As(err, &perr):
		code = http.StatusConflict
	case errors.As(err, &derr):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrTemplateNotFound):
		code = http.StatusNotFound
	}
	writeErr(w, code, err)
}

func uploadStatus(err error) int {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
