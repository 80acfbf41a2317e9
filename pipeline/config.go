package pipeline

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config 是按模式组织的 Pipeline 配置（支持 YAML/JSON）。
//
//	pipelines:
//	  cabinet:
//	    nodes:
//	      - type: recall.catalog
//	      - type: rank.mode
//	        config: {mode: cabinet}
//	      - type: rerank.ranker
//	        config: {n: 10}
type Config struct {
	Pipelines map[string]Spec `yaml:"pipelines" json:"pipelines"`
}

// Spec 是单条 Pipeline 的配置。
type Spec struct {
	Nodes []NodeConfig `yaml:"nodes" json:"nodes"`
}

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `yaml:"type" json:"type"`     // recall.catalog / rank.mode / rerank.ranker 等
	Config map[string]any `yaml:"config" json:"config"` // Node 特定配置
}

// LoadFromYAML 从 YAML 文件加载 Pipeline 配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML 解析 YAML 内容。
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载 Pipeline 配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &cfg, nil
}

// Names 返回已配置的 Pipeline 名（排序）。
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Pipelines))
	for n := range c.Pipelines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BuildPipeline 构建名为 name 的 Pipeline（需要 NodeFactory 注册 Node 构建器）。
// 注意：factory 应该在独立的 config 包中，避免循环依赖。
func (c *Config) BuildPipeline(name string, factory *NodeFactory) (*Pipeline, error) {
	spec, ok := c.Pipelines[name]
	if !ok {
		return nil, fmt.Errorf("pipeline %q not configured", name)
	}
	nodes := make([]Node, 0, len(spec.Nodes))
	for _, nc := range spec.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("build node %s: %w", nc.Type, err)
		}
		nodes = append(nodes, node)
	}
	return &Pipeline{Name: name, Nodes: nodes}, nil
}

// BuildAll 构建全部 Pipeline。
func (c *Config) BuildAll(factory *NodeFactory) (map[string]*Pipeline, error) {
	out := make(map[string]*Pipeline, len(c.Pipelines))
	for _, name := range c.Names() {
		p, err := c.BuildPipeline(name, factory)
		if err != nil {
			return nil, err
		}
		out[name] = p
	}
	return out, nil
}

// NodeFactory 用于根据配置构建 Node 实例。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		builders: make(map[string]NodeBuilder),
	}
}

// Register 注册 Node 构建器。
func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

// Build 根据类型和配置构建 Node。
func (f *NodeFactory) Build(nodeType string, config map[string]any) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", nodeType)
	}
	if config == nil {
		config = map[string]any{}
	}
	return builder(config)
}
