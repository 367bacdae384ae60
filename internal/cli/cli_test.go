package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardYAML = `
components:
  - selector: card-badge
    encapsulation: none
    template:
      - element: em
        children:
          - text: new
template:
  - element: section
    children:
      - element: h3
        children:
          - text: "{{title}}"
      - if: fresh
        children:
          - component: card-badge
      - each: tags
        as: tag
        children:
          - element: span
            children:
              - text: "#{{tag}}"
`

func viewsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.yaml"), []byte(cardYAML), 0o644))
	return dir
}

func TestParseContext(t *testing.T) {
	vars, err := cli.ParseContext([]string{"title=Hello world", "fresh=true", "tags=[a, b]", "n=3", "empty="})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", vars["title"])
	assert.Equal(t, true, vars["fresh"])
	assert.Equal(t, []any{"a", "b"}, vars["tags"])
	assert.Equal(t, 3, vars["n"])
	assert.Nil(t, vars["empty"])

	_, err = cli.ParseContext([]string{"novalue"})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	dir := viewsDir(t)
	ctxFile := filepath.Join(t.TempDir(), "ctx.yaml")
	require.NoError(t, os.WriteFile(ctxFile, []byte("title: From file\ntags: [x]\n"), 0o644))

	var out bytes.Buffer
	err := cli.Render(context.Background(), &out, cli.RenderOptions{
		Dir:         dir,
		View:        "card",
		ContextFile: ctxFile,
		Set:         []string{"fresh=true"},
		Refresh:     2,
		Stats:       true,
	})
	require.NoError(t, err)

	got := out.String()
	assert.True(t, strings.HasPrefix(got,
		"<section><h3>From file</h3><card-badge><em>new</em></card-badge><span>#x</span></section>\n"), got)
	assert.Regexp(t, `(?m)^  passes\s+2$`, got)
	assert.Regexp(t, `(?m)^  renderer create\s+2$`, got)
}

func TestRender_UnknownView(t *testing.T) {
	err := cli.Render(context.Background(), &bytes.Buffer{}, cli.RenderOptions{Dir: viewsDir(t), View: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnknownBlueprint)
}

func TestInspect_Formats(t *testing.T) {
	dir := viewsDir(t)
	opts := cli.RenderOptions{Dir: dir, View: "card", Set: []string{"fresh=yes", "tags=[a, b]"}}

	var out bytes.Buffer
	opts.Format = "json"
	require.NoError(t, cli.Inspect(context.Background(), &out, opts))
	var info domain.ViewInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, domain.ViewRoot, info.Kind)

	out.Reset()
	opts.Format = "mermaid"
	require.NoError(t, cli.Inspect(context.Background(), &out, opts))
	assert.Contains(t, out.String(), "graph TD")
	assert.Contains(t, out.String(), "card-badge <br/>")

	out.Reset()
	opts.Format = "markdown"
	require.NoError(t, cli.Inspect(context.Background(), &out, opts))
	assert.Contains(t, out.String(), "View tree")

	opts.Format = "svg"
	assert.Error(t, cli.Inspect(context.Background(), &out, opts))
}

func TestListViews(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cli.ListViews(context.Background(), &out, viewsDir(t)))
	assert.Equal(t, "card\n", out.String())
}

func TestProfile_NonTerminal(t *testing.T) {
	assert.False(t, cli.IsTerminal(&bytes.Buffer{}))
	assert.Equal(t, termenv.Ascii, cli.Profile(&bytes.Buffer{}))
}

func TestCreateLogger(t *testing.T) {
	logger, err := cli.CreateLogger("")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = cli.CreateLogger("chatty")
	assert.Error(t, err)
}
