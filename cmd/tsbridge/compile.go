package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tsbridge/internal/host"
	"tsbridge/internal/hostconfig"
	"tsbridge/internal/logging"
	"tsbridge/internal/transpiler"
)

var compileOutDir string

func init() {
	compileCmd.Flags().StringVar(&compileOutDir, "out", "", "directory to write generated files into (defaults to alongside the source)")
}

var compileCmd = &cobra.Command{
	Use:   "compile <file>...",
	Short: "Transpile SRC files to TGT text with an inline source map",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := hostconfig.Default()
		root := "."
		if len(args) > 0 {
			root = filepath.Dir(args[0])
		}
		h := host.New(root, cfg, transpiler.Passthrough{})

		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			h.AddOrUpdateDocument(path, string(content))
		}

		for _, path := range args {
			targetExt, ok := cfg.TargetExtFor(path)
			if !ok {
				targetExt = cfg.Primary().TargetExt
			}
			tgtPath := path[:len(path)-len(filepath.Ext(path))] + targetExt
			snap, ok := h.GetScriptSnapshot(tgtPath)
			if !ok {
				return fmt.Errorf("no snapshot for %s", tgtPath)
			}
			meta, _ := h.GetMeta(tgtPath)
			for _, d := range meta.Diagnostics {
				logging.Default().Warn(d.Message, logging.FieldPath, d.Primary.Path)
			}
			out := snap.GetText(0, snap.GetLength())
			outPath := tgtPath
			if compileOutDir != "" {
				outPath = filepath.Join(compileOutDir, filepath.Base(tgtPath))
			}
			if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", path, outPath)
		}
		return nil
	},
}
