package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	gotl "github.com/panyam/goutils/template"
	"github.com/panyam/templar"

	"github.com/ecoviz/flowcycle/pkg/flow"
	"github.com/ecoviz/flowcycle/pkg/flowviz"
)

// Config wires up a Server.
type Config struct {
	Addr         string // listen address, e.g. ":8080"
	DataPath     string // flow document JSON
	ContentPath  string // tooltip content TOML, optional
	TemplatesDir string // templar search root, default "./templates"
	StaticDir    string // extra static assets, optional
	Watch        bool   // reload browsers when the data files change
}

// Server hosts the marketing page and the diagram endpoints. Rendering is
// stateless, so the only shared state is the loaded document, the content
// store and the live-reload hub.
type Server struct {
	cfg       Config
	mux       *http.ServeMux
	templates *templar.TemplateGroup
	content   *ContentStore
	hub       *Hub
	logger    *slog.Logger

	mu  sync.RWMutex
	doc *flow.Document
}

// NewServer loads the document and content, prepares templates and routes.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "./templates"
	}

	doc, err := flow.ReadFile(cfg.DataPath)
	if err != nil {
		return nil, err
	}

	content := NewContentStore(nil)
	if cfg.ContentPath != "" {
		content, err = LoadContent(cfg.ContentPath)
		if err != nil {
			return nil, err
		}
	}

	templates := templar.NewTemplateGroup()
	templates.Loader = (&templar.LoaderList{}).AddLoader(
		templar.NewFileSystemLoader(cfg.TemplatesDir))
	templates.AddFuncs(gotl.DefaultFuncMap())

	s := &Server{
		cfg:       cfg,
		mux:       http.NewServeMux(),
		templates: templates,
		content:   content,
		hub:       NewHub(),
		logger:    slog.Default(),
		doc:       doc,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /diagram/{file}", s.handleDiagram)
	s.mux.HandleFunc("GET /api/content", s.handleContent)
	s.mux.Handle("/live", s.hub)

	if s.cfg.StaticDir != "" {
		s.mux.Handle("GET /static/",
			http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))
	}
}

// Handler returns the full handler chain: routes behind request logging.
func (s *Server) Handler() http.Handler {
	return withLogging(s.mux, s.logger)
}

// Hub exposes the live-reload hub, mainly for the watcher.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Content exposes the tooltip store.
func (s *Server) Content() *ContentStore {
	return s.content
}

func (s *Server) document() *flow.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// ReloadData re-reads the flow document and swaps it in.
func (s *Server) ReloadData() error {
	doc, err := flow.ReadFile(s.cfg.DataPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// KindOption is one entry of the host page's diagram toggle.
type KindOption struct {
	Value flow.Kind
	Label string
}

// PageData feeds the index template.
type PageData struct {
	Title       string
	Kinds       []KindOption
	DefaultKind flow.Kind
	Watch       bool
}

var kindLabels = map[flow.Kind]string{
	flow.KindCurrent:  "Today: linear disposal",
	flow.KindProposed: "Proposed: circular recovery",
}

func (s *Server) pageData() PageData {
	doc := s.document()

	data := PageData{
		Title: doc.Name,
		Watch: s.cfg.Watch,
	}
	if data.Title == "" {
		data.Title = "From waste stream to power loop"
	}

	// Current first so the page opens on the status quo.
	for _, kind := range []flow.Kind{flow.KindCurrent, flow.KindProposed} {
		if doc.ByKind(kind) == nil {
			continue
		}
		data.Kinds = append(data.Kinds, KindOption{Value: kind, Label: kindLabels[kind]})
	}
	if len(data.Kinds) > 0 {
		data.DefaultKind = data.Kinds[0].Value
	}
	return data
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.templates.Loader.Load("index.html", "")
	if err != nil {
		s.logger.Error("template load failed", "err", err)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.RenderHtmlTemplate(w, tmpl[0], "IndexPage", s.pageData(), nil); err != nil {
		s.logger.Error("template render failed", "err", err)
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// handleDiagram serves /diagram/{kind}.svg and /diagram/{kind}.png.
func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")

	var kind flow.Kind
	var ext string
	if name, ok := strings.CutSuffix(file, ".svg"); ok {
		kind, ext = flow.Kind(name), "svg"
	} else if name, ok := strings.CutSuffix(file, ".png"); ok {
		kind, ext = flow.Kind(name), "png"
	} else {
		http.NotFound(w, r)
		return
	}

	d := s.document().ByKind(kind)
	if d == nil {
		http.NotFound(w, r)
		return
	}

	width := queryInt(r, "width", 0)
	height := queryInt(r, "height", 0)

	// Previews change with every edit in watch mode; keep browsers honest.
	w.Header().Set("Cache-Control", "no-store")

	switch ext {
	case "svg":
		staged := kind == flow.KindProposed
		if v := r.URL.Query().Get("staged"); v != "" {
			if parsed, err := strconv.ParseBool(v); err == nil {
				staged = parsed
			}
		}
		opts := flowviz.SVGOptions{
			Width:       width,
			Height:      height,
			Staged:      staged,
			Interactive: true,
		}
		w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
		fmt.Fprint(w, flowviz.GenerateSVG(d, opts))

	case "png":
		var buf bytes.Buffer
		if err := flowviz.RenderPNG(d, &buf, flowviz.PNGOptions{Width: width, Height: height}); err != nil {
			s.logger.Error("png render failed", "kind", kind, "err", err)
			http.Error(w, "render error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}
}

// handleContent serves tooltip copy as JSON for the host page's floating
// panel.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	icon := r.URL.Query().Get("icon")
	kind := r.URL.Query().Get("kind")

	w.Header().Set("Content-Type", "application/json")

	if icon == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "missing icon parameter"})
		return
	}

	entry, ok := s.content.Lookup(icon, kind)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no content for " + icon})
		return
	}
	json.NewEncoder(w).Encode(entry)
}

// ListenAndServe runs the server until the context is cancelled. Watch mode
// starts the file watcher alongside.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler()}

	if s.cfg.Watch {
		go func() {
			if err := s.Watch(ctx); err != nil {
				s.logger.Error("watch failed", "err", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("serving", "addr", s.cfg.Addr, "data", s.cfg.DataPath, "watch", s.cfg.Watch)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// withLogging wraps a handler with request logging: method, path, status,
// bytes and wall time per request.
func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration.Round(time.Millisecond),
		)
	})
}
