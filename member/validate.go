package member

import (
	"errors"
	"fmt"
	"reflect"

	"pathreflect/internal/diagnostic"
)

// Diagnostic codes produced by Validate.
const (
	CodeInvalidPath    = "invalid-path"
	CodeMemberNotFound = "member-not-found"
	CodeUnexported     = "unexported-member"
	CodeReadOnly       = "read-only-member"
)

// Validate checks every path against t and collects all problems at once.
// Unexported and read-only terminal members are reported as warnings.
func Validate(t reflect.Type, paths ...string) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	typeName := ""
	if it := Indirect(t); it != nil {
		typeName = it.String()
	}

	for _, path := range paths {
		chain, err := Chain(t, path)

		var notFound *NotFoundError

		switch {
		case errors.As(err, &notFound):
			msg := fmt.Sprintf("member %q not found on %s", notFound.Member, notFound.Type)
			diags.AddError(CodeMemberNotFound, msg, typeName, path)
			diags.WithSuggestions(notFound.Suggestions...)

			continue
		case err != nil:
			diags.AddError(CodeInvalidPath, err.Error(), typeName, path)

			continue
		}

		last := chain[len(chain)-1]

		switch {
		case !last.Exported:
			diags.AddWarning(CodeUnexported, "member "+last.String()+" is unexported", typeName, path)
		case !last.CanWrite:
			diags.AddWarning(CodeReadOnly, "member "+last.String()+" has no setter", typeName, path)
		}
	}

	return diags
}
