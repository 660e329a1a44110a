package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"creative-builder/internal/config"
	"creative-builder/internal/model"
	"creative-builder/internal/ws"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrTemplateNotFound = errors.New("template not found")
)

const (
	CardReady  = "ready"
	CardFailed = "failed"
)

type session struct {
	id        string
	source    *model.SourceImage
	brand     model.BrandContext
	createdAt int64
	updatedAt int64
}

// SessionInfo is the public view of an editing session.
type SessionInfo struct {
	ID        string             `json:"id"`
	Source    model.SourceImage  `json:"source"`
	Brand     model.BrandContext `json:"brand"`
	CreatedAt int64              `json:"created_at_unix_ms"`
	UpdatedAt int64              `json:"updated_at_unix_ms"`
}

// CreativeCard is one template's outcome in a generate batch. A failed card
// never affects its siblings.
type CreativeCard struct {
	Label      string            `json:"label"`
	Slug       string            `json:"slug"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Compliance *ComplianceReport `json:"compliance,omitempty"`
}

type PreviewFrame struct {
	Label  string `json:"label"`
	Slug   string `json:"slug"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	JPEG   string `json:"jpeg_base64,omitempty"`
	Error  string `json:"error,omitempty"`
}

type CreativeService struct {
	cfg        config.Config
	styles     *StyleService
	renderer   *Renderer
	compliance ComplianceChecker
	hub        *ws.Hub
	sessionHub *ws.SessionHub
	previews   *PreviewScheduler

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewCreativeService(cfg config.Config, styles *StyleService, renderer *Renderer, compliance ComplianceChecker, hub *ws.Hub, sessionHub *ws.SessionHub) *CreativeService {
	s := &CreativeService{
		cfg:        cfg,
		styles:     styles,
		renderer:   renderer,
		compliance: compliance,
		hub:        hub,
		sessionHub: sessionHub,
		sessions:   map[string]*session{},
	}
	s.previews = NewPreviewScheduler(time.Duration(cfg.PreviewFrameMS)*time.Millisecond, s.pushPreview)
	return s
}

// CreateSession decodes an upload and seeds the brand context with the
// sampled accent color.
func (s *CreativeService) CreateSession(r io.Reader) (SessionInfo, error) {
	src, err := DecodeImage(r)
	if err != nil {
		return SessionInfo{}, err
	}
	accent, err := SampleAccent(src.Image)
	if err != nil {
		return SessionInfo{}, err
	}

	now := time.Now().UnixMilli()
	sess := &session{
		id:     uuid.NewString(),
		source: src,
		brand: model.BrandContext{
			RetailerTheme: model.ThemeAmazon,
			AccentColor:   accent,
		},
		createdAt: now,
		updatedAt: now,
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	log.Printf("session created: id=%s size=%dx%d accent=%s", sess.id, src.Width, src.Height, accent)
	s.broadcast("session.created", map[string]interface{}{"id": sess.id, "width": src.Width, "height": src.Height})
	s.broadcast("accent.detected", map[string]string{"session_id": sess.id, "accent_color": accent})
	return sess.info(), nil
}

func (s *CreativeService) Session(id string) (SessionInfo, error) {
	sess, err := s.get(id)
	if err != nil {
		return SessionInfo{}, err
	}
	return sess.info(), nil
}

func (s *CreativeService) DeleteSession(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.previews.Cancel(id)
	return nil
}

// UpdateBrand replaces the session's brand context. An empty accent keeps the
// current one so clients can edit copy without echoing the detected color.
func (s *CreativeService) UpdateBrand(id string, brand model.BrandContext) (SessionInfo, error) {
	if err := brand.Validate(); err != nil {
		return SessionInfo{}, err
	}
	if brand.AccentColor != "" {
		brand.AccentColor, _ = model.NormalizeHex(brand.AccentColor)
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return SessionInfo{}, ErrSessionNotFound
	}
	if brand.AccentColor == "" {
		brand.AccentColor = sess.brand.AccentColor
	}
	sess.brand = brand
	sess.updatedAt = time.Now().UnixMilli()
	info := sess.info()
	s.mu.Unlock()

	s.RequestPreview(id)
	return info, nil
}

// Plan computes the layout for one template using the stored style config.
func (s *CreativeService) Plan(id, templateKey string) (model.LayoutPlan, error) {
	sess, err := s.get(id)
	if err != nil {
		return model.LayoutPlan{}, err
	}
	t, ok := FindTemplate(templateKey)
	if !ok {
		return model.LayoutPlan{}, ErrTemplateNotFound
	}
	return s.plan(sess, t)
}

// RenderTemplate renders one template at full resolution.
func (s *CreativeService) RenderTemplate(id, templateKey string) (image.Image, model.LayoutPlan, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, model.LayoutPlan{}, err
	}
	t, ok := FindTemplate(templateKey)
	if !ok {
		return nil, model.LayoutPlan{}, ErrTemplateNotFound
	}
	plan, err := s.plan(sess, t)
	if err != nil {
		return nil, model.LayoutPlan{}, err
	}
	img, err := s.renderer.RenderCreative(plan, sess.source.Image)
	if err != nil {
		return nil, plan, err
	}
	return img, plan, nil
}

// Generate renders every template and runs the compliance review on each.
// It fails as a whole only when the session is missing.
func (s *CreativeService) Generate(ctx context.Context, id string) ([]CreativeCard, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	cards := make([]CreativeCard, 0, len(catalog))
	for _, t := range ListTemplates() {
		card := CreativeCard{Label: t.Label, Slug: t.Slug, Width: t.PixelWidth, Height: t.PixelHeight, Status: CardReady}
		plan, err := s.plan(sess, t)
		if err == nil {
			_, err = s.renderer.RenderCreative(plan, sess.source.Image)
		}
		if err == nil && s.compliance != nil {
			var report ComplianceReport
			report, err = s.compliance.Check(ctx, plan)
			if err == nil {
				card.Compliance = &report
			}
		}
		if err != nil {
			log.Printf("generate card failed: session=%s template=%s err=%v", id, t.Slug, err)
			card.Status = CardFailed
			card.Error = err.Error()
		}
		cards = append(cards, card)
	}

	s.broadcast("creatives.generated", map[string]interface{}{"session_id": id, "cards": cards})
	return cards, nil
}

// Preview renders every template scaled down to the preview width.
func (s *CreativeService) Preview(id string) ([]PreviewFrame, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	frames := make([]PreviewFrame, 0, len(catalog))
	for _, t := range ListTemplates() {
		frame := PreviewFrame{Label: t.Label, Slug: t.Slug}
		b64, w, h, err := s.previewFrame(sess, t)
		if err != nil {
			frame.Error = err.Error()
		} else {
			frame.JPEG, frame.Width, frame.Height = b64, w, h
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// RequestPreview schedules a preview push for one session.
func (s *CreativeService) RequestPreview(id string) {
	s.previews.Request(id)
}

// RequestPreviewAll schedules a preview push for every session, used when a
// global style config changes.
func (s *CreativeService) RequestPreviewAll() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	for _, id := range ids {
		s.previews.Request(id)
	}
}

func (s *CreativeService) Close() {
	s.previews.Stop()
}

func (s *CreativeService) pushPreview(id string) {
	if s.sessionHub == nil || !s.sessionHub.HasClients(id) {
		return
	}
	frames, err := s.Preview(id)
	if err != nil {
		log.Printf("preview skipped: session=%s err=%v", id, err)
		return
	}
	s.sessionHub.Push(id, model.Event{
		Type:      "preview.rendered",
		Payload:   map[string]interface{}{"session_id": id, "frames": frames},
		CreatedAt: time.Now().UnixMilli(),
	})
}

func (s *CreativeService) previewFrame(sess session, t model.Template) (string, int, int, error) {
	plan, err := s.plan(sess, t)
	if err != nil {
		return "", 0, 0, err
	}
	img, err := s.renderer.RenderCreative(plan, sess.source.Image)
	if err != nil {
		return "", 0, 0, err
	}
	thumb := imaging.Resize(img, s.previewWidth(), 0, imaging.Linear)
	b, err := ExportBytes(thumb, FormatJPEG, s.exportQuality())
	if err != nil {
		return "", 0, 0, err
	}
	tb := thumb.Bounds()
	return base64.StdEncoding.EncodeToString(b), tb.Dx(), tb.Dy(), nil
}

func (s *CreativeService) plan(sess session, t model.Template) (model.LayoutPlan, error) {
	brand := sess.brand
	if strings.TrimSpace(brand.BrandName) == "" {
		brand.BrandName = model.DefaultBrandName
	}
	style := model.DefaultStyleConfig()
	if s.styles != nil {
		style = s.styles.Get(t.Label)
	}
	plan, err := ComputeLayout(t, brand, style, sess.source.AspectRatio())
	if err != nil {
		return model.LayoutPlan{}, fmt.Errorf("layout %s: %w", t.Slug, err)
	}
	return plan, nil
}

// get returns a copy so callers can render without holding the lock.
func (s *CreativeService) get(id string) (session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return session{}, ErrSessionNotFound
	}
	return *sess, nil
}

func (s *CreativeService) previewWidth() int {
	if s.cfg.PreviewWidth > 0 {
		return s.cfg.PreviewWidth
	}
	return 360
}

func (s *CreativeService) exportQuality() float64 {
	if s.cfg.ExportQuality > 0 && s.cfg.ExportQuality <= 1 {
		return s.cfg.ExportQuality
	}
	return DefaultExportQuality
}

func (s *CreativeService) broadcast(eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(model.Event{Type: eventType, Payload: payload, CreatedAt: time.Now().UnixMilli()})
}

func (sess *session) info() SessionInfo {
	return SessionInfo{
		ID:        sess.id,
		Source:    *sess.source,
		Brand:     sess.brand,
		CreatedAt: sess.createdAt,
		UpdatedAt: sess.updatedAt,
	}
}
