package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tsbridge/internal/version"
)

type versionInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionShowHash bool
	versionShowDate bool
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tsbridge build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version:   strings.TrimSpace(version.Version),
			GitCommit: strings.TrimSpace(version.GitCommit),
			BuildDate: strings.TrimSpace(version.BuildDate),
		}
		return renderVersion(cmd.OutOrStdout(), info, strings.ToLower(versionFormat), versionShowHash || versionShowFull, versionShowDate || versionShowFull)
	},
}

func renderVersion(out io.Writer, info versionInfo, format string, showHash, showDate bool) error {
	if format == "json" {
		payload := versionPayload{Tool: "tsbridge", Version: info.Version}
		if showHash {
			payload.GitCommit = valueOrUnknown(info.GitCommit)
		}
		if showDate {
			payload.BuildDate = valueOrUnknown(info.BuildDate)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	fmt.Fprintf(out, "tsbridge %s\n", info.Version)
	if showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(info.GitCommit))
	}
	if showDate {
		fmt.Fprintf(out, "built: %s\n", valueOrUnknown(info.BuildDate))
	}
	return nil
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
