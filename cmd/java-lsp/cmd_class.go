package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emilycares/java-lsp/java"
)

func newClassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "class <file.class>",
		Short: "Decode a .class file and print its declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := java.LoadClassFile(args[0])
			if err != nil {
				return fmt.Errorf("decode class file: %w", err)
			}
			fmt.Print(formatClass(class))
			return nil
		},
	}
}

func formatClass(class *java.Class) string {
	var b strings.Builder

	if class.Package != "" {
		fmt.Fprintf(&b, "package %s;\n\n", class.Package)
	}

	if mods := class.Access.String(); mods != "" {
		b.WriteString(mods)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "%s %s", class.Kind, class.Name)
	if class.SuperClass != "" && class.SuperClass != "java.lang.Object" {
		fmt.Fprintf(&b, " extends %s", class.SuperClass)
	}
	if len(class.Interfaces) > 0 {
		fmt.Fprintf(&b, " implements %s", strings.Join(class.Interfaces, ", "))
	}
	b.WriteString(" {\n")

	for _, field := range class.Fields {
		b.WriteString("    ")
		if mods := field.Access.String(); mods != "" {
			b.WriteString(mods)
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s %s;\n", field.Type, field.Name)
	}
	if len(class.Fields) > 0 && len(class.Methods) > 0 {
		b.WriteString("\n")
	}

	for _, method := range class.Methods {
		b.WriteString("    ")
		if mods := method.Access.String(); mods != "" {
			b.WriteString(mods)
			b.WriteString(" ")
		}
		params := make([]string, len(method.Parameters))
		for i, p := range method.Parameters {
			params[i] = p.String()
		}
		fmt.Fprintf(&b, "%s %s(%s);\n", method.ReturnType, method.Name, strings.Join(params, ", "))
	}

	b.WriteString("}\n")
	return b.String()
}
