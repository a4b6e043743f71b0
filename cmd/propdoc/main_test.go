package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonSource = `// Primary action button
import React from 'react';

type ButtonProps = {
  /** Button label */
  label: string;
  /** Disable interaction
   * @default false
   */
  disabled?: boolean;
};

export default function Button(props: ButtonProps) {
  return <button>{props.label}</button>;
}
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files[".propdoc/config.yaml"] = "vcs:\n  enabled: false\ndocument:\n  lock_dir: " + root + "\n"
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_DryRunPrintsDocument(t *testing.T) {
	root := writeProject(t, map[string]string{
		"package.json":   "{}",
		"src/Button.tsx": buttonSource,
	})

	out, err := execute(t, "generate", "--config-dir", root, "--dry-run", filepath.Join(root, "src/Button.tsx"))
	require.NoError(t, err)

	assert.Contains(t, out, "title: Button")
	assert.Contains(t, out, "subtitle: Primary action button")
	assert.Contains(t, out, "| label | Button label | `string` | - |")
	assert.Contains(t, out, "| disabled | Disable interaction | `boolean` | false |")

	_, statErr := os.Stat(filepath.Join(root, "src/Button.md"))
	assert.True(t, os.IsNotExist(statErr), "dry run must not write")
}

func TestGenerate_DirectoryWritesDocuments(t *testing.T) {
	root := writeProject(t, map[string]string{
		"package.json":              "{}",
		"src/Button.tsx":            buttonSource,
		"src/Button.stories.tsx":    buttonSource,
		"node_modules/x/Other.tsx":  buttonSource,
		"src/forms/TextField.jsx":   "export default function TextField() { return null; }\n",
		"src/forms/TextField.md":    "# keep\n\n## 属性\n\n| 属性 | 说明 | 类型 | 默认值 |\n| --- | --- | --- | --- |\n",
		"src/forms/helpers/util.ts": "export const x = 1;\n",
	})

	out, err := execute(t, "generate", "--config-dir", root, filepath.Join(root, "src"))
	require.NoError(t, err)

	assert.Contains(t, out, "created")
	assert.Contains(t, out, filepath.Join(root, "src/Button.md"))
	assert.NotContains(t, out, "stories")
	assert.FileExists(t, filepath.Join(root, "src/Button.md"))
	assert.NoFileExists(t, filepath.Join(root, "src/Button.stories.md"))
	assert.NoFileExists(t, filepath.Join(root, "node_modules/x/Other.md"))

	doc, err := os.ReadFile(filepath.Join(root, "src/forms/TextField.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "# keep\n"))
}

func TestGenerate_Errors(t *testing.T) {
	root := writeProject(t, map[string]string{"package.json": "{}"})

	_, err := execute(t, "generate", "--config-dir", root)
	assert.Error(t, err, "requires a path")

	_, err = execute(t, "generate", "--config-dir", root, filepath.Join(root, "missing.tsx"))
	assert.Error(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	_, err = execute(t, "generate", "--config-dir", root, filepath.Join(root, "empty"))
	assert.ErrorContains(t, err, "no component files")
}

func TestGenerate_MissingProjectRootFails(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	src := filepath.Join(root, "src/Card.tsx")
	require.NoError(t, os.WriteFile(src, []byte(`import { CardProps } from './types';
export default function Card(props: CardProps) { return null; }
`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".propdoc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".propdoc/config.yaml"),
		[]byte("vcs:\n  enabled: false\nproject:\n  root_marker: propdoc-no-such-marker.json\n"), 0o644))

	_, err := execute(t, "generate", "--config-dir", root, src)
	assert.ErrorContains(t, err, "1 of 1 components failed")
}

func TestInit(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".vscode"), 0o755))

	out, err := execute(t, "init", "--config-dir", root, "--mcp")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")
	assert.Contains(t, out, "registered propdoc")
	assert.FileExists(t, filepath.Join(root, ".propdoc/config.yaml"))
	assert.NoFileExists(t, filepath.Join(root, ".cursor/mcp.json"))

	data, err := os.ReadFile(filepath.Join(root, ".vscode/mcp.json"))
	require.NoError(t, err)
	var vscode map[string]any
	require.NoError(t, json.Unmarshal(data, &vscode))
	entry := vscode["servers"].(map[string]any)["propdoc"].(map[string]any)
	assert.Equal(t, "propdoc", entry["command"])
	assert.Equal(t, "stdio", entry["type"])

	out, err = execute(t, "init", "--config-dir", root)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestMergeServerEntry(t *testing.T) {
	merged, err := mergeServerEntry([]byte(`{"mcpServers":{"other":{"command":"x"}}}`), "mcpServers", nil)
	require.NoError(t, err)

	var cfg map[string]map[string]any
	require.NoError(t, json.Unmarshal(merged, &cfg))
	assert.Contains(t, cfg["mcpServers"], "other")
	assert.Contains(t, cfg["mcpServers"], "propdoc")

	again, err := mergeServerEntry(merged, "mcpServers", nil)
	require.NoError(t, err)
	assert.Nil(t, again)

	_, err = mergeServerEntry([]byte("{broken"), "mcpServers", nil)
	assert.Error(t, err)
}

func TestRegisterAgent_NoMarker(t *testing.T) {
	fs := afero.NewMemMapFs()
	ok, err := registerAgent(fs, "/proj", agentConfigs[1])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "propdoc "+version+"\n", out)
}
