package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <model>",
	Short: "Display model statistics",
	Long:  `Display general information about a type model: assemblies, type counts per kind and member counts.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	modelPath := args[0]

	m, err := loadModel(modelPath)
	if err != nil {
		return err
	}

	kinds := make(map[string]int)
	members := 0
	nested := 0
	generic := 0
	for def := range m.All() {
		kinds[def.Kind().String()]++
		members += def.MemberCount()
		if def.DeclaringType() != nil {
			nested++
		}
		if len(def.TypeParameters()) > 0 {
			generic++
		}
	}

	fmt.Fprintf(output, "Model: %s\n", modelPath)
	fmt.Fprintf(output, "Assemblies: %d\n", len(m.Assemblies()))
	fmt.Fprintf(output, "Types: %d\n", m.Count())
	for _, k := range []string{"class", "struct", "interface", "enum", "delegate"} {
		if kinds[k] > 0 {
			fmt.Fprintf(output, "  %-10s %d\n", k, kinds[k])
		}
	}
	fmt.Fprintf(output, "Nested Types: %d\n", nested)
	fmt.Fprintf(output, "Generic Types: %d\n", generic)
	fmt.Fprintf(output, "Members: %d\n", members)
	return nil
}
