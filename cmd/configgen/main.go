// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// configgen regenerates the settings reference in docs/CONFIGURATION.md and
// settings.example.yaml from the option registry.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/ManuGH/snvconf/internal/config"
	"gopkg.in/yaml.v3"
)

const (
	configDocPath              = "docs/CONFIGURATION.md"
	configGeneratedExamplePath = "settings.example.yaml"
)

const (
	docBeginMarker = "<!-- BEGIN GENERATED CONFIG OPTIONS -->"
	docEndMarker   = "<!-- END GENERATED CONFIG OPTIONS -->"
)

func main() {
	rootFlag := flag.String("root", "", "repository root (defaults to the working directory)")
	flag.Parse()

	root := *rootFlag
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			fail(err)
		}
		root = wd
	}

	if err := run(root); err != nil {
		fail(err)
	}
}

func run(root string) error {
	registry, err := config.GetRegistry()
	if err != nil {
		return fmt.Errorf("get registry: %w", err)
	}
	entries := registryEntries(registry)

	if err := updateConfigDoc(root, entries); err != nil {
		return err
	}
	return writeGeneratedExample(root, entries)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "configgen: %v\n", err)
	os.Exit(1)
}

func registryEntries(reg *config.Registry) []config.ConfigEntry {
	entries := make([]config.ConfigEntry, 0, len(reg.ByPath))
	for _, entry := range reg.ByPath {
		if entry.Path == "" {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries
}

func updateConfigDoc(root string, entries []config.ConfigEntry) error {
	path := filepath.Join(root, configDocPath)
	// #nosec G304 -- CLI tool, path provided by user argument
	raw, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config doc: %w", err)
	}
	content := string(raw)
	if content == "" {
		content = "# Configuration\n"
	}

	out := replaceGeneratedSection(content, buildConfigDoc(entries))

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("mkdir docs: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0600); err != nil {
		return fmt.Errorf("write config doc: %w", err)
	}
	return nil
}

func buildConfigDoc(entries []config.ConfigEntry) string {
	grouped := make(map[string][]config.ConfigEntry)
	for _, entry := range entries {
		group := entry.Path
		if idx := strings.Index(group, "."); idx != -1 {
			group = group[:idx]
		} else {
			group = "root"
		}
		grouped[group] = append(grouped[group], entry)
	}

	groups := make([]string, 0, len(grouped))
	for group := range grouped {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	var b strings.Builder
	b.WriteString(docBeginMarker)
	b.WriteString("\n## Registry Options (Generated)\n\n")
	b.WriteString("This section is generated from `internal/config/registry.go`. Do not edit by hand.\n\n")

	for _, group := range groups {
		entries := grouped[group]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
		b.WriteString(fmt.Sprintf("### %s\n\n", group))
		b.WriteString("| Path | Env | Default | Status | Profile | Description |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		for _, entry := range entries {
			env := "-"
			if entry.Env != "" {
				env = fmt.Sprintf("`%s`", entry.Env)
			}
			def := "-"
			if entry.Default != nil {
				def = fmt.Sprintf("`%v`", entry.Default)
			}
			b.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s | %s | %s |\n",
				entry.Path, env, def, entry.Status, entry.Profile, entry.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("### Legacy environment aliases\n\n")
	b.WriteString("Read only when the canonical key is unset. Setting both to different values is an error.\n\n")
	b.WriteString("| Legacy | Canonical |\n")
	b.WriteString("| --- | --- |\n")
	for _, alias := range config.EnvAliases() {
		b.WriteString(fmt.Sprintf("| `%s` | `%s` |\n", alias.Legacy, alias.Canonical))
	}
	b.WriteString("\n")

	b.WriteString(docEndMarker)
	return b.String()
}

func replaceGeneratedSection(content string, generated string) string {
	start := strings.Index(content, docBeginMarker)
	end := strings.Index(content, docEndMarker)
	if start == -1 || end == -1 || end < start {
		return strings.TrimRight(content, "\n") + "\n\n" + generated + "\n"
	}
	end += len(docEndMarker)
	return content[:start] + generated + content[end:]
}

func writeGeneratedExample(root string, entries []config.ConfigEntry) error {
	var rootNode yaml.Node
	rootNode.Kind = yaml.MappingNode
	rootNode.HeadComment = "Generated from internal/config/registry.go. Do not edit by hand.\n" +
		"Every key is optional; SNV_* environment variables override this file."

	for _, entry := range entries {
		node, ok := exampleValueNode(entry)
		if !ok {
			continue
		}
		setYamlValue(&rootNode, strings.Split(entry.Path, "."), node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&rootNode); err != nil {
		return fmt.Errorf("encode generated example: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode generated example: %w", err)
	}
	path := filepath.Join(root, configGeneratedExamplePath)
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write generated example: %w", err)
	}
	return nil
}

func exampleValueNode(entry config.ConfigEntry) (*yaml.Node, bool) {
	var node *yaml.Node
	if entry.Default != nil {
		node = yamlNodeForValue(entry.Default)
	} else {
		kind, ok := settingsFieldKind(entry.FieldPath)
		if !ok {
			return nil, false
		}
		node = zeroValueNode(kind)
	}
	node.LineComment = entry.Description
	return node, true
}

// settingsFieldKind returns the kind of a dotted Settings field path.
func settingsFieldKind(fieldPath string) (reflect.Kind, bool) {
	t := reflect.TypeOf(config.Settings{})
	for _, part := range strings.Split(fieldPath, ".") {
		f, ok := t.FieldByName(part)
		if !ok {
			return reflect.Invalid, false
		}
		t = f.Type
	}
	return t.Kind(), true
}

func setYamlValue(node *yaml.Node, path []string, value *yaml.Node) {
	if node.Kind != yaml.MappingNode || len(path) == 0 {
		return
	}
	for i := 0; i < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		if keyNode.Value != path[0] {
			continue
		}
		if len(path) == 1 {
			node.Content[i+1] = value
			return
		}
		if valNode.Kind != yaml.MappingNode {
			valNode.Kind = yaml.MappingNode
			valNode.Content = nil
			valNode.Tag = ""
		}
		setYamlValue(valNode, path[1:], value)
		return
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: path[0]}
	var valNode *yaml.Node
	if len(path) == 1 {
		valNode = value
	} else {
		valNode = &yaml.Node{Kind: yaml.MappingNode}
		setYamlValue(valNode, path[1:], value)
	}
	node.Content = append(node.Content, keyNode, valNode)
}

func yamlScalar(def any) (string, string) {
	switch v := def.(type) {
	case string:
		return v, "!!str"
	case bool:
		return fmt.Sprintf("%t", v), "!!bool"
	case int:
		return fmt.Sprintf("%d", v), "!!int"
	default:
		return fmt.Sprintf("%v", v), "!!str"
	}
}

func yamlNodeForValue(def any) *yaml.Node {
	value, tag := yamlScalar(def)
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func zeroValueNode(kind reflect.Kind) *yaml.Node {
	switch kind {
	case reflect.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"}
	case reflect.Int, reflect.Int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "0"}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: ""}
	}
}
