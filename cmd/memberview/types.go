package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/lookup-go/typesys"
)

var (
	typesKind     string
	typesLimit    int
	typesBuiltins bool
)

var typesCmd = &cobra.Command{
	Use:   "types <model>",
	Short: "List type definitions in the model",
	Long: `List type definitions from a type model.

Use --kind to filter by type kind (class, struct, interface, enum, delegate).`,
	Args: cobra.ExactArgs(1),
	RunE: runTypes,
}

func init() {
	typesCmd.Flags().StringVarP(&typesKind, "kind", "k", "", "filter by type kind (class, struct, interface, enum, delegate)")
	typesCmd.Flags().IntVarP(&typesLimit, "limit", "n", 0, "limit number of types shown (0 = unlimited)")
	typesCmd.Flags().BoolVarP(&typesBuiltins, "builtins", "b", false, "include builtin types")
}

func runTypes(cmd *cobra.Command, args []string) error {
	m, err := loadModel(args[0])
	if err != nil {
		return err
	}

	var kindFilter typesys.TypeKind
	hasKindFilter := false
	if typesKind != "" {
		hasKindFilter = true
		switch strings.ToLower(typesKind) {
		case "class":
			kindFilter = typesys.TypeKindClass
		case "struct":
			kindFilter = typesys.TypeKindStruct
		case "interface":
			kindFilter = typesys.TypeKindInterface
		case "enum":
			kindFilter = typesys.TypeKindEnum
		case "delegate":
			kindFilter = typesys.TypeKindDelegate
		default:
			return fmt.Errorf("unknown type kind: %s", typesKind)
		}
	}

	fmt.Fprintf(output, "%-10s %-18s %-8s %s\n", "KIND", "ACCESS", "MEMBERS", "NAME")
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 80))

	count := 0
	for def := range m.All() {
		if hasKindFilter && def.Kind() != kindFilter {
			continue
		}
		if !typesBuiltins && def.Assembly().IsBuiltin() {
			continue
		}

		printType(def)
		count++
		if typesLimit > 0 && count >= typesLimit {
			break
		}
	}

	fmt.Fprintf(output, "\nTotal: %d types\n", count)
	return nil
}

func printType(def *typesys.Definition) {
	fmt.Fprintf(output, "%-10s %-18s %-8d %s",
		def.Kind().String(),
		def.Accessibility().String(),
		def.MemberCount(),
		paint(colorName, def.String()))

	if bases := def.BaseTypes(); len(bases) > 0 {
		names := make([]string, len(bases))
		for i, b := range bases {
			names[i] = b.String()
		}
		fmt.Fprintf(output, " %s", paint(colorDim, ": "+strings.Join(names, ", ")))
	}
	fmt.Fprintln(output)
}
