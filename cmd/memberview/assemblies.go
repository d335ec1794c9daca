package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	assembliesVerbose bool
)

var assembliesCmd = &cobra.Command{
	Use:   "assemblies <model>",
	Short: "List assemblies in the model",
	Long:  `List all assemblies of a type model, including the builtin core assembly.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAssemblies,
}

func init() {
	assembliesCmd.Flags().BoolVarP(&assembliesVerbose, "verbose", "v", false, "list the types of each assembly")
}

func runAssemblies(cmd *cobra.Command, args []string) error {
	m, err := loadModel(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%-5s %-8s %-7s %s\n", "INDEX", "TYPES", "BUILTIN", "NAME")
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 60))

	for i, asm := range m.Assemblies() {
		builtin := ""
		if asm.IsBuiltin() {
			builtin = "yes"
		}
		fmt.Fprintf(output, "%-5d %-8d %-7s %s\n", i, asm.TypeCount(), builtin, paint(colorName, asm.Name()))

		if assembliesVerbose {
			for def := range asm.Types() {
				fmt.Fprintf(output, "      %-10s %s\n", paint(colorKind, def.Kind().String()), def.ReflectionName())
			}
		}
	}

	fmt.Fprintf(output, "\nTotal: %d assemblies\n", len(m.Assemblies()))
	return nil
}
