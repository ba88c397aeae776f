package routetree

import (
	"fmt"
	"strings"
)

// ValidationError reports one route table defect.
type ValidationError struct {
	// Type is the error category.
	Type ValidationErrorType

	// Message is the human-readable error message.
	Message string

	// Path locates the offending node, as the joined pattern of its parent.
	Path string
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (under %q)", e.Type, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicateIndex indicates a parent with more than one index child.
	ErrorDuplicateIndex ValidationErrorType = "DUPLICATE_INDEX"

	// ErrorIndexWithPath indicates a node marked index that also carries a path.
	ErrorIndexWithPath ValidationErrorType = "INDEX_WITH_PATH"

	// ErrorEmptyNode indicates a node with neither path nor index flag.
	ErrorEmptyNode ValidationErrorType = "EMPTY_NODE"

	// ErrorDuplicatePath indicates sibling nodes sharing a path pattern.
	ErrorDuplicatePath ValidationErrorType = "DUPLICATE_PATH"

	// ErrorInertNode indicates a node with no component and no children.
	ErrorInertNode ValidationErrorType = "INERT_NODE"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route table errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Validate checks a route table for structural defects. It returns nil when
// the table is valid, or a *MultiValidationError listing every defect found.
func Validate(nodes []*Node) error {
	var errs []ValidationError
	validateLevel(nodes, "", &errs)
	if len(errs) > 0 {
		return &MultiValidationError{Errors: errs}
	}
	return nil
}

func validateLevel(nodes []*Node, parent string, errs *[]ValidationError) {
	indexSeen := false
	paths := make(map[string]bool, len(nodes))

	for _, n := range nodes {
		switch {
		case n.Index && n.Path != "":
			*errs = append(*errs, ValidationError{
				Type:    ErrorIndexWithPath,
				Message: fmt.Sprintf("index route must not declare path %q", n.Path),
				Path:    parent,
			})
		case n.Index:
			if indexSeen {
				*errs = append(*errs, ValidationError{
					Type:    ErrorDuplicateIndex,
					Message: "parent already has an index child",
					Path:    parent,
				})
			}
			indexSeen = true
		case n.Path == "":
			*errs = append(*errs, ValidationError{
				Type:    ErrorEmptyNode,
				Message: "node has neither path nor index flag",
				Path:    parent,
			})
		default:
			if paths[n.Path] {
				*errs = append(*errs, ValidationError{
					Type:    ErrorDuplicatePath,
					Message: fmt.Sprintf("sibling path %q declared twice", n.Path),
					Path:    parent,
				})
			}
			paths[n.Path] = true
		}

		if n.Lazy == nil && len(n.Children) == 0 {
			*errs = append(*errs, ValidationError{
				Type:    ErrorInertNode,
				Message: "node has no component and no children",
				Path:    JoinPattern(parent, n),
			})
		}

		validateLevel(n.Children, JoinPattern(parent, n), errs)
	}
}
