package middleware

import (
	"strings"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Recorder keeps an ordered log of factory and renderer calls.
// Tests may interleave their own entries with Record.
type Recorder struct {
	mu         sync.Mutex
	entries    []string
	primitives bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithPrimitives also records every renderer primitive, not only factory calls.
func WithPrimitives() RecorderOption {
	return func(r *Recorder) {
		r.primitives = true
	}
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends an entry.
func (r *Recorder) Record(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Entries returns a copy of the log.
func (r *Recorder) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// Count returns how many entries start with prefix.
func (r *Recorder) Count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

// Middleware returns a Middleware that records into r.
// Factory calls are logged as "create", "begin" and "end"; an entry is written
// after the call returned.
func (r *Recorder) Middleware() Middleware {
	return func(next ports.RendererFactory) ports.RendererFactory {
		return &recordingFactory{bracket: bracket{next: next}, next: next, rec: r}
	}
}

type recordingFactory struct {
	bracket
	next ports.RendererFactory
	rec  *Recorder
}

func (f *recordingFactory) CreateRenderer(host ports.Node, typ *domain.RendererType) ports.Renderer {
	inner := f.next.CreateRenderer(host, typ)
	f.rec.Record("create")
	if !f.rec.primitives {
		return inner
	}
	return &recordingRenderer{next: inner, rec: f.rec}
}

func (f *recordingFactory) Begin() {
	f.rec.Record("begin")
	f.bracket.Begin()
}

func (f *recordingFactory) End() {
	f.bracket.End()
	f.rec.Record("end")
}

type recordingRenderer struct {
	next ports.Renderer
	rec  *Recorder
}

func (r *recordingRenderer) CreateElement(tag string) ports.Node {
	n := r.next.CreateElement(tag)
	r.rec.Record("createElement " + tag)
	return n
}

func (r *recordingRenderer) CreateText(value string) ports.Node {
	n := r.next.CreateText(value)
	r.rec.Record("createText " + value)
	return n
}

func (r *recordingRenderer) AppendChild(parent, child ports.Node) {
	r.next.AppendChild(parent, child)
	r.rec.Record("appendChild")
}

func (r *recordingRenderer) InsertBefore(parent, child, ref ports.Node) {
	r.next.InsertBefore(parent, child, ref)
	r.rec.Record("insertBefore")
}

func (r *recordingRenderer) RemoveChild(parent, child ports.Node) {
	r.next.RemoveChild(parent, child)
	r.rec.Record("removeChild")
}

func (r *recordingRenderer) SetAttribute(el ports.Node, name, value string) {
	r.next.SetAttribute(el, name, value)
	r.rec.Record("setAttribute " + name + "=" + value)
}

func (r *recordingRenderer) SetText(node ports.Node, value string) {
	r.next.SetText(node, value)
	r.rec.Record("setText " + value)
}

func (r *recordingRenderer) DestroyNode(node ports.Node) {
	r.next.DestroyNode(node)
	r.rec.Record("destroyNode")
}

func (r *recordingRenderer) Destroy() {
	r.next.Destroy()
	r.rec.Record("destroy")
}
