package main

import (
	"fmt"
	"strings"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"github.com/skdltmxn/lookup-go/lookup"
	"github.com/skdltmxn/lookup-go/typesys"
)

var (
	lookupFrom     string
	lookupVia      string
	lookupTypeArgs []string
	lookupInvoke   bool
	lookupIndexer  int
	lookupRaw      bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <model> <type> <name>",
	Short: "Look up a member name through a type",
	Long: `Resolve a member access the way a compiler does.

The receiver is described by <type> and --via:
  - expr: an expression of static type <type> (default)
  - this: "this" inside <type>
  - base: "base" inside <type>
  - type: static access through the type name

--from names the type the access is written in; it defaults to <type>
for this and base. Use --indexer n to list indexers taking n arguments
instead of looking up <name> (use "-" as the name).`,
	Args: cobra.ExactArgs(3),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringVarP(&lookupFrom, "from", "f", "", "type the access is written in")
	lookupCmd.Flags().StringVar(&lookupVia, "via", "expr", "receiver kind (expr, this, base, type)")
	lookupCmd.Flags().StringArrayVarP(&lookupTypeArgs, "type-arg", "t", nil, "explicit type argument (repeatable)")
	lookupCmd.Flags().BoolVar(&lookupInvoke, "invoke", false, "the member is invoked")
	lookupCmd.Flags().IntVar(&lookupIndexer, "indexer", -2, "list indexers with this many parameters (-1 = any)")
	lookupCmd.Flags().BoolVar(&lookupRaw, "raw", false, "dump the result structure")
}

// query is one lookup request. The batch command reads these from YAML.
type query struct {
	Type     string   `yaml:"type"`
	Name     string   `yaml:"name"`
	From     string   `yaml:"from,omitempty"`
	Via      string   `yaml:"via,omitempty"`
	TypeArgs []string `yaml:"type_args,omitempty"`
	Invoke   bool     `yaml:"invoke,omitempty"`
}

func (q *query) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s.%s", q.via(), q.Type, q.Name)
	if len(q.TypeArgs) > 0 {
		fmt.Fprintf(&b, "<%s>", strings.Join(q.TypeArgs, ", "))
	}
	if q.Invoke {
		b.WriteString("()")
	}
	if q.From != "" {
		fmt.Fprintf(&b, " from %s", q.From)
	}
	return b.String()
}

func (q *query) via() string {
	if q.Via == "" {
		return "expr"
	}
	return q.Via
}

// prepare builds the lookup, target and type arguments for q.
func (q *query) prepare(m *typesys.Model) (*lookup.MemberLookup, lookup.Target, []typesys.Type, error) {
	kind, err := lookup.ParseTargetKind(q.Via)
	if err != nil {
		return nil, lookup.Target{}, nil, err
	}

	receiver, err := m.ResolveType(q.Type)
	if err != nil {
		return nil, lookup.Target{}, nil, err
	}

	var current *typesys.Definition
	switch {
	case q.From != "":
		if current, err = resolveDefinition(m, q.From); err != nil {
			return nil, lookup.Target{}, nil, err
		}
	case kind == lookup.TargetThis || kind == lookup.TargetBase:
		current = receiver.Definition()
	}

	typeArgs := make([]typesys.Type, 0, len(q.TypeArgs))
	for _, ref := range q.TypeArgs {
		t, err := m.ResolveTypeIn(current, ref)
		if err != nil {
			return nil, lookup.Target{}, nil, err
		}
		typeArgs = append(typeArgs, t)
	}

	l := lookup.New(current, nil, lookup.WithLogger(logger))
	return l, lookup.Target{Kind: kind, Type: receiver}, typeArgs, nil
}

func (q *query) run(m *typesys.Model) (lookup.Result, error) {
	l, target, typeArgs, err := q.prepare(m)
	if err != nil {
		return nil, err
	}
	return l.Lookup(target, q.Name, typeArgs, q.Invoke)
}

func runLookup(cmd *cobra.Command, args []string) error {
	m, err := loadModel(args[0])
	if err != nil {
		return err
	}

	q := &query{
		Type:     args[1],
		Name:     args[2],
		From:     lookupFrom,
		Via:      lookupVia,
		TypeArgs: lookupTypeArgs,
		Invoke:   lookupInvoke,
	}

	if lookupIndexer >= -1 {
		return runIndexerLookup(m, q)
	}

	res, err := q.run(m)
	if err != nil {
		return err
	}

	if lookupRaw {
		fmt.Fprintln(output, litter.Options{StripPackageNames: true}.Sdump(viewResult(res)))
		return nil
	}
	printResult(q, res)
	return nil
}

func runIndexerLookup(m *typesys.Model, q *query) error {
	l, target, _, err := q.prepare(m)
	if err != nil {
		return err
	}
	groups, err := l.LookupIndexers(target, lookupIndexer)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintf(output, "%s: no indexers\n", paint(colorError, "not found"))
		return nil
	}
	for _, g := range groups {
		printGroup(g)
	}
	return nil
}

func printResult(q *query, res lookup.Result) {
	fmt.Fprintf(output, "%s\n", paint(colorDim, q.String()))
	switch r := res.(type) {
	case *lookup.NotFound:
		fmt.Fprintf(output, "%s: %s\n", paint(colorError, "not found"), r.Name)
	case *lookup.SingleMember:
		fmt.Fprintf(output, "%s %s\n", paint(colorKind, r.Member.Kind().String()), paint(colorName, r.Member.String()))
		fmt.Fprintf(output, "  declared in %s\n", r.Member.Definition().DeclaringType().ReflectionName())
		if r.NotInvocable {
			fmt.Fprintf(output, "  %s\n", paint(colorError, "not invocable"))
		}
	case *lookup.MethodGroup:
		fmt.Fprintf(output, "%s %s (%d methods in %d groups)\n",
			paint(colorKind, "method group"), paint(colorName, r.Name), r.Count(), len(r.Groups))
		for _, g := range r.Groups {
			printGroup(g)
		}
	case *lookup.Ambiguous:
		fmt.Fprintf(output, "%s: %s\n", paint(colorError, "ambiguous"), r.Name)
		for _, member := range r.Members {
			fmt.Fprintf(output, "  %s\n", member.String())
		}
	}
}

func printGroup(g *lookup.MemberGroup) {
	fmt.Fprintf(output, "  %s\n", paint(colorHeader, g.DeclaringType.ReflectionName()))
	for _, member := range g.Members {
		fmt.Fprintf(output, "    %s\n", member.String())
	}
}

// resultView is a flat rendering of a result for --raw and JSON output.
type resultView struct {
	Kind         string      `json:"kind"`
	Name         string      `json:"name,omitempty"`
	Member       string      `json:"member,omitempty"`
	NotInvocable bool        `json:"not_invocable,omitempty"`
	Groups       []groupView `json:"groups,omitempty"`
	Candidates   []string    `json:"candidates,omitempty"`
	Error        string      `json:"error,omitempty"`
}

type groupView struct {
	DeclaringType string   `json:"declaring_type"`
	Members       []string `json:"members"`
}

func viewResult(res lookup.Result) resultView {
	v := resultView{Kind: res.Kind().String()}
	switch r := res.(type) {
	case *lookup.NotFound:
		v.Name = r.Name
	case *lookup.SingleMember:
		v.Name = r.Member.Name()
		v.Member = r.Member.String()
		v.NotInvocable = r.NotInvocable
	case *lookup.MethodGroup:
		v.Name = r.Name
		for _, g := range r.Groups {
			gv := groupView{DeclaringType: g.DeclaringType.ReflectionName()}
			for _, member := range g.Members {
				gv.Members = append(gv.Members, member.String())
			}
			v.Groups = append(v.Groups, gv)
		}
	case *lookup.Ambiguous:
		v.Name = r.Name
		for _, member := range r.Members {
			v.Candidates = append(v.Candidates, member.String())
		}
	}
	return v
}
