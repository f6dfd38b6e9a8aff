package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tsbridge/internal/host"
	"tsbridge/internal/hostconfig"
	"tsbridge/internal/logging"
	"tsbridge/internal/transpiler"
)

var (
	serveConfigPath string
	serveJobs       int
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to tsbridge.toml (defaults to <root>/tsbridge.toml if present)")
	serveCmd.Flags().IntVar(&serveJobs, "jobs", 0, "warm-up concurrency (defaults to GOMAXPROCS)")
}

var serveCmd = &cobra.Command{
	Use:   "serve <root-dir>",
	Short: "Load a project into a virtual-file host, then drive it from stdin document events",
	Long: `serve loads every registered document under root-dir into a virtual-file
host and warms it, then reads newline-delimited JSON document events from
stdin until EOF, applying each to the running host and printing its
resulting diagnostics. This is a local stand-in for the requests a real
language-service client would send over its own transport.

Each input line is one JSON object:

  {"op": "update", "uri": "file:///proj/a.src", "content": "..."}
  {"op": "remove", "uri": "file:///proj/a.src"}

"op" defaults to "update" when omitted. Each line produces one JSON
result line on stdout: the canonical URI, the project version after the
edit, and any diagnostics the document now carries.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}

		h := host.New(root, cfg, transpiler.Passthrough{})
		count, err := loadDocuments(h, root, cfg)
		if err != nil {
			return err
		}
		logging.Default().Info("loaded project", logging.FieldPath, root, "documents", count)

		if err := h.WarmProject(context.Background(), serveJobs); err != nil {
			return fmt.Errorf("warm project: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "warmed %d documents\n", count)

		return serveDocumentEvents(h, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// docEvent is one line of stdin input: a document add/update or removal,
// addressed by the file:// URI a language-service client would use.
type docEvent struct {
	Op      string `json:"op"`
	URI     string `json:"uri"`
	Content string `json:"content"`
}

// docEventResult is the JSON line emitted for each processed docEvent.
type docEventResult struct {
	URI            string   `json:"uri"`
	ProjectVersion int64    `json:"projectVersion"`
	Diagnostics    []string `json:"diagnostics,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// serveDocumentEvents applies one document event per input line to h
// until EOF, reporting the host's reaction to each. Malformed lines and
// unsupported URIs are reported as errors rather than aborting the
// stream, so one bad line doesn't end a local testing session.
func serveDocumentEvents(h *host.Host, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev docEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			enc.Encode(docEventResult{Error: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}
		srcPath := host.URIToPath(ev.URI)
		if srcPath == "" {
			enc.Encode(docEventResult{URI: ev.URI, Error: "unsupported or unparsable uri"})
			continue
		}

		if ev.Op == "remove" {
			h.RemoveDocument(srcPath)
		} else {
			h.AddOrUpdateDocument(srcPath, ev.Content)
		}

		result := docEventResult{URI: host.PathToURI(srcPath), ProjectVersion: h.ProjectVersion()}
		if meta, ok := h.GetMeta(h.MirrorPath(srcPath)); ok {
			for _, d := range meta.Diagnostics {
				result.Diagnostics = append(result.Diagnostics, d.Message)
			}
		}
		enc.Encode(result)
	}
	return scanner.Err()
}

func loadConfig(root string) (hostconfig.Config, error) {
	path := serveConfigPath
	if path == "" {
		path = filepath.Join(root, "tsbridge.toml")
	}
	if _, err := os.Stat(path); err != nil {
		return hostconfig.Default(), nil
	}
	return hostconfig.Load(path)
}

func loadDocuments(h *host.Host, root string, cfg hostconfig.Config) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := cfg.TargetExtFor(path); !ok {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		h.AddOrUpdateDocument(path, string(content))
		count++
		return nil
	})
	return count, err
}
