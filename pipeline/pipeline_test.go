package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/barkeep/core"
)

type appendNode struct {
	id   string
	kind Kind
	err  error
}

func (n appendNode) Name() string { return "test.append" }
func (n appendNode) Kind() Kind   { return n.kind }
func (n appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(core.NewRecipe(n.id, n.id, "", nil), len(items))), nil
}

func testFactory() *NodeFactory {
	f := NewNodeFactory()
	f.Register("test.append", func(cfg map[string]any) (Node, error) {
		id, _ := cfg["id"].(string)
		return appendNode{id: id, kind: KindRecall}, nil
	})
	return f
}

func TestPipeline_RunsNodesInOrder(t *testing.T) {
	p := &Pipeline{Name: "cabinet", Nodes: []Node{
		appendNode{id: "1", kind: KindRecall},
		appendNode{id: "2", kind: KindRank},
	}}
	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
	assert.Equal(t, []Kind{KindRecall, KindRank}, p.Kinds())
}

func TestPipeline_NodeError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Name: "trending", Nodes: []Node{appendNode{kind: KindRank, err: boom}}}
	_, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pipeline trending: node test.append")
}

func TestPipeline_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Pipeline{Name: "similar", Nodes: []Node{appendNode{id: "1", kind: KindRecall}}}
	_, err := p.Run(ctx, &core.RecommendContext{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfig_ParseAndBuild(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
pipelines:
  trending:
    nodes:
      - type: test.append
        config: {id: b}
  cabinet:
    nodes:
      - type: test.append
        config: {id: a}
      - type: test.append
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"cabinet", "trending"}, cfg.Names())

	all, err := cfg.BuildAll(testFactory())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Len(t, all["cabinet"].Nodes, 2)
	assert.Equal(t, "cabinet", all["cabinet"].Name)

	_, err = cfg.BuildPipeline("weekly", testFactory())
	assert.Error(t, err)
}

func TestConfig_UnknownNodeType(t *testing.T) {
	cfg := &Config{Pipelines: map[string]Spec{
		"cabinet": {Nodes: []NodeConfig{{Type: "rank.unknown"}}},
	}}
	_, err := cfg.BuildAll(testFactory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node type: rank.unknown")
}

func TestLoadFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipelines.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"pipelines":{"similar":{"nodes":[{"type":"test.append","config":{"id":"x"}}]}}}`), 0o644))

	cfg, err := LoadFromJSON(path)
	require.NoError(t, err)
	p, err := cfg.BuildPipeline("similar", testFactory())
	require.NoError(t, err)
	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "x", items[0].ID)

	_, err = LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
