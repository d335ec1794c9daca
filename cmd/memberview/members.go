package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/lookup-go/typesys"
)

var (
	membersInherited bool
	membersKind      string
)

var membersCmd = &cobra.Command{
	Use:   "members <model> <type>",
	Short: "List members declared by a type",
	Long: `List the members declared by a type.

The type is a C#-like reference such as "Derived", "A<int>.B" or
"System.String". With --inherited the whole base chain is listed, each
level with its type arguments applied.`,
	Args: cobra.ExactArgs(2),
	RunE: runMembers,
}

func init() {
	membersCmd.Flags().BoolVarP(&membersInherited, "inherited", "i", false, "include members of base classes")
	membersCmd.Flags().StringVarP(&membersKind, "kind", "k", "", "filter by member kind (field, property, event, method, indexer, constructor)")
}

func runMembers(cmd *cobra.Command, args []string) error {
	m, err := loadModel(args[0])
	if err != nil {
		return err
	}
	t, err := m.ResolveType(args[1])
	if err != nil {
		return err
	}

	count := 0
	for level := range typesys.BaseChain(t) {
		def := level.Definition()
		if def == nil {
			continue
		}

		fmt.Fprintf(output, "%s\n", paint(colorHeader, level.String()))
		fmt.Fprintf(output, "%s\n", strings.Repeat("-", 80))
		for member := range def.Members() {
			if membersKind != "" && !strings.EqualFold(member.Kind().String(), membersKind) {
				continue
			}
			sm := typesys.Specialize(member, level)
			fmt.Fprintf(output, "%-12s %s\n", paint(colorKind, member.Kind().String()), sm.String())
			if member.Overridden() != nil {
				fmt.Fprintf(output, "%-12s %s\n", "", paint(colorDim, "overrides "+member.Overridden().FullName()))
			}
			count++
		}
		fmt.Fprintln(output)

		if !membersInherited {
			break
		}
	}

	fmt.Fprintf(output, "Total: %d members\n", count)
	return nil
}
