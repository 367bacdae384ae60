package middleware

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Logging logs factory calls at Info and renderer primitives at Debug.
func Logging(logger *slog.Logger) Middleware {
	return func(next ports.RendererFactory) ports.RendererFactory {
		return &loggingFactory{bracket: bracket{next: next}, next: next, logger: logger}
	}
}

type loggingFactory struct {
	bracket
	next   ports.RendererFactory
	logger *slog.Logger
}

func (f *loggingFactory) CreateRenderer(host ports.Node, typ *domain.RendererType) ports.Renderer {
	r := f.next.CreateRenderer(host, typ)
	typeID, encapsulation := "root", domain.EncapsulationNone
	if typ != nil {
		typeID, encapsulation = typ.ID, typ.Encapsulation
	}
	logger := f.logger.With("renderer", typeID)
	logger.Info("Renderer created", "encapsulation", encapsulation)
	return &loggingRenderer{next: r, logger: logger}
}

func (f *loggingFactory) Begin() {
	f.logger.Info("Render pass begin")
	f.bracket.Begin()
}

func (f *loggingFactory) End() {
	f.bracket.End()
	f.logger.Info("Render pass end")
}

type loggingRenderer struct {
	next   ports.Renderer
	logger *slog.Logger
}

func (r *loggingRenderer) debug(op string, args ...any) {
	if r.logger.Enabled(context.Background(), slog.LevelDebug) {
		r.logger.Debug(op, args...)
	}
}

func (r *loggingRenderer) CreateElement(tag string) ports.Node {
	n := r.next.CreateElement(tag)
	r.debug("createElement", "tag", tag)
	return n
}

func (r *loggingRenderer) CreateText(value string) ports.Node {
	n := r.next.CreateText(value)
	r.debug("createText", "value", value)
	return n
}

func (r *loggingRenderer) AppendChild(parent, child ports.Node) {
	r.next.AppendChild(parent, child)
	r.debug("appendChild")
}

func (r *loggingRenderer) InsertBefore(parent, child, ref ports.Node) {
	r.next.InsertBefore(parent, child, ref)
	r.debug("insertBefore")
}

func (r *loggingRenderer) RemoveChild(parent, child ports.Node) {
	r.next.RemoveChild(parent, child)
	r.debug("removeChild")
}

func (r *loggingRenderer) SetAttribute(el ports.Node, name, value string) {
	r.next.SetAttribute(el, name, value)
	r.debug("setAttribute", "name", name, "value", value)
}

func (r *loggingRenderer) SetText(node ports.Node, value string) {
	r.next.SetText(node, value)
	r.debug("setText", "value", value)
}

func (r *loggingRenderer) DestroyNode(node ports.Node) {
	r.next.DestroyNode(node)
	r.debug("destroyNode")
}

func (r *loggingRenderer) Destroy() {
	r.next.Destroy()
	r.logger.Info("Renderer destroyed")
}
