package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/adapters/dom"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/renderer/middleware"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type fixture struct {
	engine *runtime.Engine
	doc    *dom.Factory
	logs   *middleware.Recorder
	host   *html.Node
}

func newFixture(t *testing.T, opts ...runtime.EngineOption) *fixture {
	t.Helper()
	doc := dom.NewFactory()
	logs := middleware.NewRecorder()
	factory := middleware.Chain(doc, logs.Middleware())
	return &fixture{
		engine: runtime.NewEngine(factory, opts...),
		doc:    doc,
		logs:   logs,
		host:   doc.NewHost("body"),
	}
}

func (f *fixture) html(t *testing.T) string {
	t.Helper()
	out, err := dom.Serialize(f.host)
	require.NoError(t, err)
	return out
}

func assertLog(t *testing.T, want []string, rec *middleware.Recorder) {
	t.Helper()
	if diff := cmp.Diff(want, rec.Entries()); diff != "" {
		t.Errorf("lifecycle log mismatch (-want +got):\n%s", diff)
	}
}

func TestLifecycle_Template(t *testing.T) {
	f := newFixture(t)
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			f.logs.Record("function create")
			in.Text(0, "bar")
		}
		if rf.Updating() {
			f.logs.Record("function update")
		}
		return nil
	}

	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl, Decls: 1})
	require.NoError(t, err)
	assertLog(t, []string{"create", "function create", "function update"}, f.logs)
	assert.Equal(t, "bar", f.html(t))

	f.logs.Reset()
	require.NoError(t, root.Refresh(context.Background()))
	assertLog(t, []string{"begin", "function update", "end"}, f.logs)
	assert.Equal(t, int64(1), f.engine.Stats().RendererCreate)
}

func TestLifecycle_TemplateWithComponent(t *testing.T) {
	f := newFixture(t)
	some := domain.DefineComponent(domain.ComponentDef{
		Selector:      "some-component",
		Encapsulation: domain.EncapsulationNone,
		Decls:         1,
		Template: func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
			if rf.Creating() {
				f.logs.Record("component create")
				in.Text(0, "foo")
			}
			if rf.Updating() {
				f.logs.Record("component update")
			}
			return nil
		},
		Factory: func() any { return struct{}{} },
	})
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			f.logs.Record("function_with_component create")
			in.Text(0, "bar")
			in.Element(1, "some-component")
		}
		if rf.Updating() {
			f.logs.Record("function_with_component update")
		}
		return nil
	}

	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{
		Template:   tmpl,
		Decls:      2,
		Components: []*domain.ComponentDef{some},
	})
	require.NoError(t, err)
	assertLog(t, []string{
		"create", "function_with_component create", "create", "component create",
		"function_with_component update", "component update",
	}, f.logs)
	assert.Equal(t, "bar<some-component>foo</some-component>", f.html(t))

	f.logs.Reset()
	require.NoError(t, root.Refresh(context.Background()))
	assertLog(t, []string{"begin", "function_with_component update", "component update", "end"}, f.logs)
}

func TestCreateRoot_ComponentWhichThrows(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("SomeComponentWhichThrows threw")
	throwing := domain.DefineComponent(domain.ComponentDef{
		Selector:      "some-component-with-error",
		Encapsulation: domain.EncapsulationNone,
		Template: func(domain.RenderFlags, domain.Instructions, any) error {
			return boom
		},
	})
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.Element(0, "some-component-with-error")
		}
		return nil
	}

	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{
		Template:   tmpl,
		Components: []*domain.ComponentDef{throwing},
	})
	require.Error(t, err)
	assert.Nil(t, root)
	assert.ErrorIs(t, err, boom)

	var te *domain.TemplateError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "some-component-with-error", te.View)

	assertLog(t, []string{"create", "create"}, f.logs)
	assert.Equal(t, int64(2), f.engine.Stats().RendererCreate)
}

func TestRefresh_EndCalledWhenTemplateFails(t *testing.T) {
	f := newFixture(t)
	failing := false
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.Text(0, "x")
		}
		if rf.Updating() {
			f.logs.Record("function update")
			if failing {
				return errors.New("binding exploded")
			}
		}
		return nil
	}
	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl})
	require.NoError(t, err)

	failing = true
	f.logs.Reset()
	err = root.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding exploded")
	assertLog(t, []string{"begin", "function update", "end"}, f.logs)
	assert.False(t, f.doc.InPass(), "End must balance Begin")

	failing = false
	f.logs.Reset()
	require.NoError(t, root.Refresh(context.Background()))
	assertLog(t, []string{"begin", "function update", "end"}, f.logs)
}

func TestRefresh_EndCalledWhenTemplatePanics(t *testing.T) {
	f := newFixture(t)
	panicking := false
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Updating() && panicking {
			panic("template code blew up")
		}
		return nil
	}
	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Name: "panicky", Template: tmpl})
	require.NoError(t, err)

	panicking = true
	f.logs.Reset()
	err = root.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template code blew up")
	var te *domain.TemplateError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "panicky", te.View)
	assertLog(t, []string{"begin", "end"}, f.logs)
}

// toggled builds the div > container > embedded view template used by the destroy tests.
func toggled(condition *bool, body func(in domain.Instructions)) domain.TemplateFunc {
	return func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.ElementStart(0, "div")
			in.Container(1)
			in.ElementEnd()
		}
		if rf.Updating() {
			in.ContainerRefreshStart(1)
			if *condition {
				rf1 := in.EmbeddedViewStart(0, 3)
				if rf1.Creating() {
					body(in)
				}
				in.EmbeddedViewEnd()
			}
			in.ContainerRefreshEnd()
		}
		return nil
	}
}

func TestDestroy_CallsDestroyNodeForEachNode(t *testing.T) {
	f := newFixture(t)
	condition := true
	tmpl := toggled(&condition, func(in domain.Instructions) {
		in.Element(0, "span")
		in.Element(1, "span")
		in.Element(2, "span")
	})

	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl, Decls: 2})
	require.NoError(t, err)
	assert.Equal(t, "<div><span></span><span></span><span></span></div>", f.html(t))

	condition = false
	before := f.engine.Stats()
	require.NoError(t, root.Refresh(context.Background()))
	delta := f.engine.Stats().Sub(before)

	assert.Equal(t, "<div></div>", f.html(t))
	assert.Equal(t, int64(0), delta.RendererDestroy)
	assert.Equal(t, int64(3), delta.RendererDestroyNode)
	assert.Equal(t, int64(3), delta.RemoveChild)
	assert.Equal(t, 2, f.doc.Live(), "only the div and the container anchor stay live")
}

func TestDestroy_CallsRendererDestroyForEachComponent(t *testing.T) {
	f := newFixture(t)
	simple := domain.DefineComponent(domain.ComponentDef{
		Selector:      "simple",
		Encapsulation: domain.EncapsulationNone,
		Decls:         1,
		Template: func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
			if rf.Creating() {
				in.Element(0, "span")
			}
			return nil
		},
	})
	condition := true
	tmpl := toggled(&condition, func(in domain.Instructions) {
		in.Element(0, "simple")
		in.Element(1, "span")
		in.Element(2, "simple")
	})

	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{
		Template:   tmpl,
		Decls:      2,
		Components: []*domain.ComponentDef{simple},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"<div><simple><span></span></simple><span></span><simple><span></span></simple></div>",
		f.html(t))
	assert.Equal(t, 3, f.logs.Count("create"))

	condition = false
	before := f.engine.Stats()
	require.NoError(t, root.Refresh(context.Background()))
	delta := f.engine.Stats().Sub(before)

	assert.Equal(t, "<div></div>", f.html(t))
	assert.Equal(t, int64(2), delta.RendererDestroy)
	assert.Equal(t, int64(3), delta.RendererDestroyNode)
	assert.Equal(t, int64(3), delta.ViewsDestroyed, "embedded view and two component views")
}

func TestContainer_UnchangedSetOnlyUpdates(t *testing.T) {
	f := newFixture(t)
	condition := true
	updates := 0
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.ElementStart(0, "div")
			in.Container(1)
			in.ElementEnd()
		}
		if rf.Updating() {
			in.ContainerRefreshStart(1)
			if condition {
				rf1 := in.EmbeddedViewStart(0, 1)
				if rf1.Creating() {
					in.Element(0, "span")
				}
				if rf1.Updating() {
					updates++
				}
				in.EmbeddedViewEnd()
			}
			in.ContainerRefreshEnd()
		}
		return nil
	}
	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl})
	require.NoError(t, err)

	before := f.engine.Stats()
	f.logs.Reset()
	for i := 0; i < 3; i++ {
		require.NoError(t, root.Refresh(context.Background()))
	}
	delta := f.engine.Stats().Sub(before)

	assert.Zero(t, delta.StructuralChanges(), "no create/destroy churn expected: %+v", delta)
	assert.Equal(t, 4, updates)
	assert.Equal(t, 0, f.logs.Count("create"), "embedded views inherit their parent's renderer")
}

func TestContainer_RoundTrip(t *testing.T) {
	f := newFixture(t)
	condition := true
	tmpl := toggled(&condition, func(in domain.Instructions) {
		in.ElementStart(0, "p")
		in.Text(1, "hello")
		in.ElementEnd()
		in.Element(2, "hr")
	})
	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl})
	require.NoError(t, err)
	original := f.html(t)
	live := f.doc.Live()

	condition = false
	require.NoError(t, root.Refresh(context.Background()))
	assert.Equal(t, "<div></div>", f.html(t))

	condition = true
	require.NoError(t, root.Refresh(context.Background()))
	assert.Equal(t, original, f.html(t))
	assert.Equal(t, live, f.doc.Live(), "toggling must not leak nodes")
}

func TestContainer_LoopKeepsPositionBeforeSiblings(t *testing.T) {
	f := newFixture(t)
	items := []string{"a", "b"}
	item := func(rf domain.RenderFlags, in domain.Instructions, ctx any) error {
		if rf.Creating() {
			in.ElementStart(0, "li")
			in.Text(1, "")
			in.ElementEnd()
		}
		if rf.Updating() {
			in.TextBinding(1, ctx.(string))
		}
		return nil
	}
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.ElementStart(0, "ul")
			in.Container(1)
			in.Element(2, "li", "class", "last")
			in.ElementEnd()
		}
		if rf.Updating() {
			in.ContainerRefreshStart(1)
			for _, it := range items {
				if err := in.EmbeddedView(0, 2, item, it); err != nil {
					return err
				}
			}
			in.ContainerRefreshEnd()
		}
		return nil
	}
	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl})
	require.NoError(t, err)
	assert.Equal(t, `<ul><li>a</li><li>b</li><li class="last"></li></ul>`, f.html(t))

	items = []string{"a", "b", "c"}
	before := f.engine.Stats()
	require.NoError(t, root.Refresh(context.Background()))
	delta := f.engine.Stats().Sub(before)
	assert.Equal(t, `<ul><li>a</li><li>b</li><li>c</li><li class="last"></li></ul>`, f.html(t))
	assert.Equal(t, int64(1), delta.ViewsCreated)
	assert.Equal(t, int64(1), delta.SetText, "only the new item binds its text")

	items = []string{"z"}
	require.NoError(t, root.Refresh(context.Background()))
	assert.Equal(t, `<ul><li>z</li><li class="last"></li></ul>`, f.html(t))

	items = nil
	require.NoError(t, root.Refresh(context.Background()))
	assert.Equal(t, `<ul><li class="last"></li></ul>`, f.html(t))
}

func TestContainer_MismatchedBlockInsertsAtCursor(t *testing.T) {
	f := newFixture(t)
	withHeader := false
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.ElementStart(0, "section")
			in.Container(1)
			in.ElementEnd()
		}
		if rf.Updating() {
			in.ContainerRefreshStart(1)
			if withHeader {
				if in.EmbeddedViewStart(1, 1).Creating() {
					in.Element(0, "h1")
				}
				in.EmbeddedViewEnd()
			}
			if in.EmbeddedViewStart(0, 1).Creating() {
				in.Element(0, "article")
			}
			in.EmbeddedViewEnd()
			in.ContainerRefreshEnd()
		}
		return nil
	}
	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl})
	require.NoError(t, err)
	assert.Equal(t, "<section><article></article></section>", f.html(t))

	withHeader = true
	require.NoError(t, root.Refresh(context.Background()))
	assert.Equal(t, "<section><h1></h1><article></article></section>", f.html(t))

	info := root.Inspect()
	require.Len(t, info.Slots, 2)
	assert.Len(t, info.Slots[1].Views, 2)
}

func TestBindings_WriteOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	title, label := "one", "first"
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.ElementStart(0, "a")
			in.Text(1, "")
			in.ElementEnd()
		}
		if rf.Updating() {
			in.AttributeBinding(0, "title", title)
			in.TextBinding(1, label)
		}
		return nil
	}
	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl})
	require.NoError(t, err)
	assert.Equal(t, `<a title="one">first</a>`, f.html(t))

	before := f.engine.Stats()
	require.NoError(t, root.Refresh(context.Background()))
	delta := f.engine.Stats().Sub(before)
	assert.Zero(t, delta.SetText)
	assert.Zero(t, delta.SetAttribute)

	label = "second"
	require.NoError(t, root.Refresh(context.Background()))
	assert.Equal(t, `<a title="one">second</a>`, f.html(t))
	assert.Equal(t, int64(1), f.engine.Stats().Sub(before).SetText)
}

func TestProtocol_Misuse(t *testing.T) {
	f := newFixture(t)
	mode := ""
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.Container(0)
		}
		if !rf.Updating() {
			return nil
		}
		switch mode {
		case "end-without-start":
			in.ContainerRefreshEnd()
		case "start-twice":
			in.ContainerRefreshStart(0)
			in.ContainerRefreshStart(0)
		case "missing-end":
			in.ContainerRefreshStart(0)
		case "view-outside-refresh":
			in.EmbeddedViewStart(0, 0)
		default:
			in.ContainerRefreshStart(0)
			in.ContainerRefreshEnd()
		}
		return nil
	}
	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl})
	require.NoError(t, err)

	for _, m := range []string{"end-without-start", "start-twice", "missing-end", "view-outside-refresh"} {
		t.Run(m, func(t *testing.T) {
			mode = m
			err := root.Refresh(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrProtocol)

			mode = ""
			assert.NoError(t, root.Refresh(context.Background()), "a failed pass must not poison the next one")
		})
	}
}

type faultyRenderer struct {
	*dom.Renderer
}

func (r faultyRenderer) CreateElement(tag string) ports.Node {
	if tag == "boom" {
		panic(errBackend)
	}
	return r.Renderer.CreateElement(tag)
}

var errBackend = errors.New("backend failure")

func TestRendererFailure_CountsOnlyCompletedCalls(t *testing.T) {
	doc := dom.NewFactory()
	factory := ports.RendererFactoryFunc(func(host ports.Node, typ *domain.RendererType) ports.Renderer {
		return faultyRenderer{doc.CreateRenderer(host, typ).(*dom.Renderer)}
	})
	engine := runtime.NewEngine(factory)
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.Element(0, "div")
			in.Element(1, "boom")
		}
		return nil
	}

	_, err := engine.CreateRoot(context.Background(), doc.NewHost("body"), domain.RootDef{Template: tmpl})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBackend)
	var te *domain.TemplateError
	assert.ErrorAs(t, err, &te, "a renderer failure is reported against the view that issued the call")

	stats := engine.Stats()
	assert.Equal(t, int64(1), stats.RendererCreate)
	assert.Equal(t, int64(1), stats.CreateElement)
	assert.Equal(t, int64(1), stats.AppendChild)
}

func TestRoot_Destroy(t *testing.T) {
	f := newFixture(t)
	simple := domain.DefineComponent(domain.ComponentDef{
		Selector:      "simple",
		Encapsulation: domain.EncapsulationNone,
		Template: func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
			if rf.Creating() {
				in.Text(0, "inner")
			}
			return nil
		},
	})
	condition := true
	tmpl := toggled(&condition, func(in domain.Instructions) {
		in.Element(0, "simple")
	})
	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{
		Template:   tmpl,
		Components: []*domain.ComponentDef{simple},
	})
	require.NoError(t, err)

	require.NoError(t, root.Destroy(context.Background()))
	stats := f.engine.Stats()
	assert.Equal(t, "", f.html(t))
	assert.Equal(t, 0, f.doc.Live())
	assert.Equal(t, stats.RendererCreate, stats.RendererDestroy, "every renderer released exactly once")
	assert.Equal(t, stats.ViewsCreated, stats.ViewsDestroyed)

	assert.ErrorIs(t, root.Destroy(context.Background()), domain.ErrRootDestroyed)
	assert.ErrorIs(t, root.Refresh(context.Background()), domain.ErrRootDestroyed)
}

func TestDestroy_NestedContainersWithComponents(t *testing.T) {
	f := newFixture(t)
	item := domain.DefineComponent(domain.ComponentDef{
		Selector:      "x-item",
		Encapsulation: domain.EncapsulationNone,
		Decls:         1,
		Template: func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
			if rf.Creating() {
				in.Element(0, "b")
			}
			return nil
		},
	})
	show := true
	items := []string{"a", "b"}
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.ElementStart(0, "section")
			in.Container(1)
			in.Element(2, "footer")
			in.ElementEnd()
		}
		if rf.Updating() {
			in.ContainerRefreshStart(1)
			if show {
				rf1 := in.EmbeddedViewStart(0, 1)
				if rf1.Creating() {
					// The list container is a top-level slot of the embedded view.
					in.Container(0)
				}
				in.ContainerRefreshStart(0)
				for _, it := range items {
					rf2 := in.EmbeddedViewStart(0, 2)
					if rf2.Creating() {
						in.Element(0, "x-item")
						in.Text(1, "")
					}
					in.TextBinding(1, it)
					in.EmbeddedViewEnd()
				}
				in.ContainerRefreshEnd()
				in.EmbeddedViewEnd()
			}
			in.ContainerRefreshEnd()
		}
		return nil
	}

	r, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{
		Template:   tmpl,
		Decls:      3,
		Components: []*domain.ComponentDef{item},
	})
	require.NoError(t, err)
	refresh := func(wantHTML string) {
		t.Helper()
		require.NoError(t, r.Refresh(context.Background()))
		assert.Equal(t, wantHTML, f.html(t))
	}
	assert.Equal(t, "<section><x-item><b></b></x-item>a<x-item><b></b></x-item>b<footer></footer></section>", f.html(t))

	items = []string{"a", "b", "c"}
	refresh("<section><x-item><b></b></x-item>a<x-item><b></b></x-item>b<x-item><b></b></x-item>c<footer></footer></section>")

	items = []string{"c", "a", "b"}
	refresh("<section><x-item><b></b></x-item>c<x-item><b></b></x-item>a<x-item><b></b></x-item>b<footer></footer></section>")

	show = false
	refresh("<section><footer></footer></section>")

	show = true
	items = []string{"z"}
	refresh("<section><x-item><b></b></x-item>z<footer></footer></section>")

	require.NoError(t, r.Destroy(context.Background()))
	stats := f.engine.Stats()
	assert.Equal(t, "", f.html(t))
	assert.Equal(t, 0, f.doc.Live())
	assert.Equal(t, stats.RendererCreate, stats.RendererDestroy)
	assert.Equal(t, stats.ViewsCreated, stats.ViewsDestroyed)
}

func TestCreateRoot_RecursiveComponentFails(t *testing.T) {
	f := newFixture(t)
	loop := domain.DefineComponent(domain.ComponentDef{
		Selector:      "x-loop",
		Encapsulation: domain.EncapsulationNone,
		Decls:         1,
		Template: func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
			if rf.Creating() {
				in.Element(0, "x-loop")
			}
			return nil
		},
	})
	tmpl := func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.Element(0, "x-loop")
		}
		return nil
	}

	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{
		Template:   tmpl,
		Decls:      1,
		Components: []*domain.ComponentDef{loop},
	})
	require.Error(t, err)
	assert.Nil(t, root)
	assert.ErrorIs(t, err, domain.ErrViewDepth)
	assert.Equal(t, int64(runtime.MaxViewDepth+1), f.engine.Stats().RendererCreate, "root plus one renderer per allowed level")
}

func TestRefresh_RecursiveEmbeddedViewsFail(t *testing.T) {
	f := newFixture(t)
	var nest domain.TemplateFunc
	nest = func(rf domain.RenderFlags, in domain.Instructions, _ any) error {
		if rf.Creating() {
			in.Container(0)
		}
		if rf.Updating() {
			in.ContainerRefreshStart(0)
			if err := in.EmbeddedView(0, 1, nest, nil); err != nil {
				return err
			}
			in.ContainerRefreshEnd()
		}
		return nil
	}

	_, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: nest, Decls: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrViewDepth)
}

func TestLifecycleHooks(t *testing.T) {
	var events []string
	hooks := domain.LifecycleHooks{
		OnPassBegin: func(context.Context, *domain.PassEvent) { events = append(events, "pass_begin") },
		OnPassEnd:   func(context.Context, *domain.PassEvent) { events = append(events, "pass_end") },
		OnViewCreate: func(_ context.Context, e *domain.ViewEvent) {
			events = append(events, "view_create:"+string(e.Kind))
		},
		OnViewDestroy: func(_ context.Context, e *domain.ViewEvent) {
			events = append(events, "view_destroy:"+string(e.Kind))
		},
	}
	f := newFixture(t, runtime.WithLifecycleHooks(hooks))
	condition := true
	tmpl := toggled(&condition, func(in domain.Instructions) { in.Element(0, "i") })

	root, err := f.engine.CreateRoot(context.Background(), f.host, domain.RootDef{Template: tmpl})
	require.NoError(t, err)
	condition = false
	require.NoError(t, root.Refresh(context.Background()))

	want := []string{
		"view_create:root", "view_create:embedded",
		"pass_begin", "view_destroy:embedded", "pass_end",
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("hook order mismatch (-want +got):\n%s", diff)
	}
}
