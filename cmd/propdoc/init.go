package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gnana997/propdoc/pkg/config"
)

// agentConfig is a project-local MCP client config file.
type agentConfig struct {
	DisplayName string
	DirMarker   string            // directory whose presence means the agent is in use
	Path        string            // relative to the project root
	ServersKey  string            // "servers" (VS Code) or "mcpServers" (others)
	ExtraFields map[string]string // e.g. "type": "stdio" for VS Code
}

var agentConfigs = []agentConfig{
	{
		DisplayName: "VS Code",
		DirMarker:   ".vscode",
		Path:        filepath.Join(".vscode", "mcp.json"),
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		DisplayName: "Cursor",
		DirMarker:   ".cursor",
		Path:        filepath.Join(".cursor", "mcp.json"),
		ServersKey:  "mcpServers",
	},
}

func newInitCmd(root *rootOptions) *cobra.Command {
	var force, registerMCP bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write .propdoc/config.yaml with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			path, written, err := config.WriteDefault(a.fs, a.root, force)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(out, "wrote %s\n", path)
			} else {
				fmt.Fprintf(out, "%s already exists (use --force to overwrite)\n", path)
			}

			if !registerMCP {
				return nil
			}
			for _, agent := range agentConfigs {
				ok, err := registerAgent(a.fs, a.root, agent)
				if err != nil {
					return fmt.Errorf("%s: %w", agent.DisplayName, err)
				}
				if ok {
					fmt.Fprintf(out, "registered propdoc in %s\n", filepath.Join(a.root, agent.Path))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&registerMCP, "mcp", false, "register the MCP server with editors configured in this project")
	return cmd
}

// registerAgent adds the propdoc server to the agent's config when the
// agent's marker directory exists. It reports whether the file changed.
func registerAgent(fs afero.Fs, root string, agent agentConfig) (bool, error) {
	if ok, _ := afero.DirExists(fs, filepath.Join(root, agent.DirMarker)); !ok {
		return false, nil
	}

	path := filepath.Join(root, agent.Path)
	var existing []byte
	if data, err := afero.ReadFile(fs, path); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing, agent.ServersKey, agent.ExtraFields)
	if err != nil {
		return false, err
	}
	if merged == nil {
		return false, nil
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	return true, afero.WriteFile(fs, path, merged, 0o644)
}

func serverEntry(extra map[string]string) map[string]any {
	entry := map[string]any{
		"command": "propdoc",
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds a "propdoc" entry under serversKey. It returns nil,
// nil when the entry already exists.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	cfg := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &cfg); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := cfg[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers["propdoc"]; exists {
		return nil, nil
	}

	servers["propdoc"] = serverEntry(extra)
	cfg[serversKey] = servers

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
