package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tsbridge/internal/sourcemap"
	"tsbridge/internal/transpiler"
)

var (
	remapSrcPath string
	remapOutPath string
)

func init() {
	remapCmd.Flags().StringVar(&remapSrcPath, "src", "", "original SRC path recorded in the composed map")
	remapCmd.Flags().StringVar(&remapOutPath, "out-name", "", "generated file name recorded in the composed map")
	remapCmd.MarkFlagRequired("src")
}

var remapCmd = &cobra.Command{
	Use:   "remap <upstream-src> <downstream-generated>",
	Short: "Compose a downstream generated file's inline map through an upstream transpile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		upstreamSrc, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		downstreamCode, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[1], err)
		}

		tp := transpiler.Passthrough{}
		result := tp.Compile(args[0], string(upstreamSrc))
		upstream := result.SourceMap

		outName := remapOutPath
		if outName == "" {
			outName = args[1]
		}
		composed, err := sourcemap.Remap(string(downstreamCode), upstream, remapSrcPath, outName)
		if err != nil {
			return fmt.Errorf("remap: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), composed)
		return nil
	},
}
