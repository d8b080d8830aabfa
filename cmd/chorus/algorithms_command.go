package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"chorus/internal/algo"
)

func newAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "algorithms",
		Aliases:     []string{"algos"},
		Short:       "List registered segmentation algorithms",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			titler := cases.Title(language.English)

			rows := make([][]string, 0)
			for _, s := range algo.All() {
				rows = append(rows, []string{
					s.Name(),
					yesNo(s.DetectsBoundaries()),
					yesNo(s.LabelsSegments()),
					formatDefaults(s.Defaults(), titler),
				})
			}
			rows = append(rows, []string{algo.ReferenceID, "yes", "no", "Reference annotation boundaries"})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Identifier", "Boundaries", "Labels", "Options"}, rows))
			return nil
		},
	}
}

func formatDefaults(defaults map[string]any, titler cases.Caser) string {
	if len(defaults) == 0 {
		return ""
	}
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		label := titler.String(strings.ReplaceAll(key, "_", " "))
		parts = append(parts, fmt.Sprintf("%s=%v", label, defaults[key]))
	}
	return strings.Join(parts, ", ")
}
