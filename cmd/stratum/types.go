package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/stratum/internal/presentation/tui"
	"github.com/aretw0/stratum/pkg/schema"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types [TAG]",
	Short: "Show the data type reference",
	Long:  `Prints every supported data type grouped by category, or the details of one type.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		out := cmd.OutOrStdout()
		var render func(string) (string, error)
		if !plain && tui.IsTerminal(os.Stdout) {
			render = tui.NewRenderer()
		}

		tag := ""
		if len(args) > 0 {
			tag = args[0]
		}
		return runTypes(out, tag, asJSON, render)
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.Flags().Bool("json", false, "Print registry entries as JSON")
	typesCmd.Flags().Bool("plain", false, "Print raw markdown instead of rendering it")
}

// runTypes writes the reference for tag, or for every tag when tag is empty.
// A nil render prints the markdown as is.
func runTypes(w io.Writer, tag string, asJSON bool, render func(string) (string, error)) error {
	var (
		md      string
		payload interface{}
	)

	if tag == "" {
		md = tui.TypeReference()
		infos := make([]schema.Info, 0, len(schema.Tags()))
		for _, t := range schema.Tags() {
			info, _ := schema.Lookup(t)
			infos = append(infos, info)
		}
		payload = infos
	} else {
		parsed, err := schema.ParseTag(tag)
		if err != nil {
			return fmt.Errorf("Unknown data type: %s", tag)
		}
		info, _ := schema.Lookup(parsed)
		md = tui.TypeDetail(info)
		payload = info
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if render != nil {
		rendered, err := render(md)
		if err == nil {
			md = rendered
		}
	}
	_, err := fmt.Fprint(w, md)
	return err
}
