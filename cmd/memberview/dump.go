package main

import (
	"encoding/json"
	"fmt"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"github.com/skdltmxn/lookup-go/typesys"
)

var (
	dumpFormat   string
	dumpBuiltins bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump <model>",
	Short: "Dump the resolved model",
	Long: `Dump the resolved type model in structured format.

Supported formats:
  - text: Human-readable text (default)
  - json: JSON format
  - litter: Go literal syntax`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "output format (text, json, litter)")
	dumpCmd.Flags().BoolVarP(&dumpBuiltins, "builtins", "b", false, "include the builtin assembly")
}

func runDump(cmd *cobra.Command, args []string) error {
	modelPath := args[0]

	m, err := loadModel(modelPath)
	if err != nil {
		return err
	}

	switch dumpFormat {
	case "json":
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(buildDump(m, modelPath))
	case "litter":
		fmt.Fprintln(output, litter.Options{StripPackageNames: true}.Sdump(buildDump(m, modelPath)))
		return nil
	case "text":
		return dumpText(modelPath)
	default:
		return fmt.Errorf("unknown format: %s", dumpFormat)
	}
}

type ModelDump struct {
	File       string         `json:"file"`
	Assemblies []AssemblyDump `json:"assemblies"`
}

type AssemblyDump struct {
	Name  string     `json:"name"`
	Types []TypeDump `json:"types"`
}

type TypeDump struct {
	Name           string       `json:"name"`
	Kind           string       `json:"kind"`
	Access         string       `json:"access"`
	TypeParameters []string     `json:"type_parameters,omitempty"`
	Bases          []string     `json:"bases,omitempty"`
	Members        []MemberDump `json:"members,omitempty"`
}

type MemberDump struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Signature  string `json:"signature"`
	Overridden string `json:"overridden,omitempty"`
}

func buildDump(m *typesys.Model, modelPath string) *ModelDump {
	dump := &ModelDump{File: modelPath}

	for _, asm := range m.Assemblies() {
		if asm.IsBuiltin() && !dumpBuiltins {
			continue
		}
		ad := AssemblyDump{Name: asm.Name()}
		for def := range asm.Types() {
			td := TypeDump{
				Name:   def.ReflectionName(),
				Kind:   def.Kind().String(),
				Access: def.Accessibility().String(),
			}
			for _, tp := range def.TypeParameters() {
				td.TypeParameters = append(td.TypeParameters, tp.Name())
			}
			for _, b := range def.BaseTypes() {
				td.Bases = append(td.Bases, b.ReflectionName())
			}
			for member := range def.Members() {
				md := MemberDump{
					Name:      member.Name(),
					Kind:      member.Kind().String(),
					Signature: member.String(),
				}
				if o := member.Overridden(); o != nil {
					md.Overridden = o.FullName()
				}
				td.Members = append(td.Members, md)
			}
			ad.Types = append(ad.Types, td)
		}
		dump.Assemblies = append(dump.Assemblies, ad)
	}
	return dump
}

func dumpText(modelPath string) error {
	// Reuse the listing commands
	fmt.Fprintln(output, "=== Model Information ===")
	if err := runInfo(nil, []string{modelPath}); err != nil {
		return err
	}

	fmt.Fprintln(output)
	fmt.Fprintln(output, "=== Assemblies ===")
	assembliesVerbose = true
	if err := runAssemblies(nil, []string{modelPath}); err != nil {
		return err
	}

	fmt.Fprintln(output)
	fmt.Fprintln(output, "=== Types ===")
	typesKind = ""
	typesLimit = 0
	typesBuiltins = dumpBuiltins
	return runTypes(nil, []string{modelPath})
}
