package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pathreflect/access"
	"pathreflect/member"
	"pathreflect/primitive"
)

func (a *app) typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the types commands accept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			for _, e := range a.types.Entries() {
				paths, err := a.refl.AllPaths(cmd.Context(), e.Type)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%-24s %3d paths  %s\n", e.ID.Short(), len(paths), e.ID)
			}

			return nil
		},
	}
}

func (a *app) pathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths <type>",
		Short: "List every leaf path of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}

			paths, err := a.refl.AllPaths(cmd.Context(), t)
			if err != nil {
				return err
			}

			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}

			return nil
		},
	}
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <type> <path>",
		Short: "Show the member every segment of a path resolves to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}

			chain, err := member.Chain(t, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			names := make([]string, len(chain))

			for i, d := range chain {
				names[i] = d.Name
				fmt.Fprintf(out, "%-32s %-24s %-8s %s\n", d, d.Type, d.Kind, accessMode(d))
			}

			fmt.Fprintln(out, "path:", strings.Join(names, "."))

			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <type> <path>...",
		Short: "Validate paths against a type",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			diags := member.Validate(t, args[1:]...)

			for _, path := range args[1:] {
				if fixed, ok := a.refl.FixPathCase(t, path); ok {
					fmt.Fprintln(out, "ok", fixed)
				}
			}

			for _, d := range diags.Warnings {
				fmt.Fprintln(out, "warning", d)
			}

			for _, d := range diags.Errors {
				fmt.Fprintln(out, "error", d)
			}

			if !diags.IsValid() {
				return fmt.Errorf("%d invalid path(s)", len(diags.Errors))
			}

			return nil
		},
	}
}

func (a *app) exprCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expr <type> <path>",
		Short: "Build the accessor expression of a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(args[0])
			if err != nil {
				return err
			}

			fn, err := a.refl.Build(t, nil, args[1])
			if err != nil {
				return err
			}

			path, err := a.refl.Path(fn)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, fn)
			fmt.Fprintln(out, "path:", path)

			return nil
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "get <type> <path>",
		Short: "Read the value at a path of a YAML document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(args[0], file)
			if err != nil {
				return err
			}

			v, err := a.refl.Get(doc, args[1])
			if err != nil {
				return err
			}

			return a.print(cmd.OutOrStdout(), v)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML document of the type (empty value when omitted)")

	return cmd
}

func (a *app) setCmd() *cobra.Command {
	var (
		file    string
		skipNil bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "set <type> <path> <value>",
		Short: "Write a value at a path of a YAML document and print the result",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(args[0], file)
			if err != nil {
				return err
			}

			var opts []access.SetOption
			if skipNil {
				opts = append(opts, access.SkipNestedNil())
			}

			ok, err := a.refl.Set(doc, args[1], args[2], opts...)
			if err != nil {
				return err
			}

			if !ok {
				return fmt.Errorf("cannot set %s to %q", args[1], args[2])
			}

			if quiet {
				return nil
			}

			return a.print(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML document of the type (empty value when omitted)")
	cmd.Flags().BoolVar(&skipNil, "skip-nil", false, "fail instead of creating nil intermediates")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the document")

	return cmd
}

// load decodes file into a new value of the named type.
func (a *app) load(typeID, file string) (any, error) {
	t, err := a.lookup(typeID)
	if err != nil {
		return nil, err
	}

	doc := reflect.New(t).Interface()
	if file == "" {
		return doc, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return doc, nil
}

func (a *app) print(out io.Writer, v any) error {
	if a.dump {
		spew.Fdump(out, v)
		return nil
	}

	if v == nil {
		_, err := fmt.Fprintln(out, "<nil>")
		return err
	}

	if _, ok := v.(fmt.Stringer); ok || primitive.IsScalar(reflect.TypeOf(v)) {
		_, err := fmt.Fprintln(out, v)
		return err
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	_, err = out.Write(data)

	return err
}

func accessMode(d member.Descriptor) string {
	switch {
	case !d.Exported:
		return "unexported"
	case d.CanWrite:
		return "read-write"
	default:
		return "read-only"
	}
}
