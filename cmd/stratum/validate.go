package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/stratum"
	"github.com/aretw0/stratum/internal/presentation/tui"
	"github.com/aretw0/stratum/pkg/naming"
	"github.com/aretw0/stratum/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a value or a name",
	Long:  `Runs a single check and prints the verdict. The exit status is 1 when the input is invalid.`,
}

var validateValueCmd = &cobra.Command{
	Use:   "value RAW",
	Short: "Check a raw value against a data type",
	Example: `  stratum validate value --type INTEGER 42
  stratum validate value --type '[]DATE' '["2025-01-15"]'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		v := newValidator(cfg, logger, stratum.Hooks{})
		return runValidateValue(cmd.OutOrStdout(), v, args[0], typ, asJSON)
	},
}

var validateNameCmd = &cobra.Command{
	Use:   "name NAME",
	Short: "Check an identifier against the naming policy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		v := newValidator(cfg, logger, stratum.Hooks{})
		return runValidateName(cmd.OutOrStdout(), v, args[0], kind, asJSON)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.AddCommand(validateValueCmd, validateNameCmd)

	validateValueCmd.Flags().StringP("type", "t", "", "Data type tag, e.g. INTEGER or []UUID")
	_ = validateValueCmd.MarkFlagRequired("type")
	validateValueCmd.Flags().Bool("json", false, "Print the verdict as JSON")

	validateNameCmd.Flags().StringP("kind", "k", "record", "Name kind: record, cluster, collection or project")
	validateNameCmd.Flags().Bool("json", false, "Print the verdict as JSON")
}

func runValidateValue(w io.Writer, v *stratum.Validator, raw, typ string, asJSON bool) error {
	tag := schema.Tag(typ)
	if parsed, err := schema.ParseTag(typ); err == nil {
		tag = parsed
	}
	res := v.ValidateValue(raw, tag)
	return printVerdict(w, fmt.Sprintf("%q as %s", raw, tag), res, asJSON)
}

func runValidateName(w io.Writer, v *stratum.Validator, name, kindName string, asJSON bool) error {
	kind, err := naming.ParseKind(kindName)
	if err != nil {
		return err
	}
	res := v.ValidateName(kind, name)
	return printVerdict(w, fmt.Sprintf("%q as %s name", name, kind), res, asJSON)
}

func printVerdict(w io.Writer, subject string, res schema.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, tui.Verdict(subject, res))
	}
	if !res.OK() {
		return errInvalid
	}
	return nil
}
