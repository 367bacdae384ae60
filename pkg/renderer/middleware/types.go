// Package middleware provides decorators for renderer factories.
package middleware

import "github.com/aretw0/arbor/pkg/ports"

// Middleware allows wrapping a RendererFactory to add behavior.
// Wrapped factories keep forwarding Begin/End when the inner factory implements
// ports.PassBracketer.
type Middleware func(ports.RendererFactory) ports.RendererFactory

// Chain applies mws so that the first one is the outermost.
func Chain(factory ports.RendererFactory, mws ...Middleware) ports.RendererFactory {
	for i := len(mws) - 1; i >= 0; i-- {
		factory = mws[i](factory)
	}
	return factory
}

// bracket forwards Begin/End to next when supported.
type bracket struct {
	next ports.RendererFactory
}

func (b bracket) Begin() {
	if pb, ok := b.next.(ports.PassBracketer); ok {
		pb.Begin()
	}
}

func (b bracket) End() {
	if pb, ok := b.next.(ports.PassBracketer); ok {
		pb.End()
	}
}
