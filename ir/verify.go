package ir

import (
	"errors"
	"fmt"
)

// Verify checks module structural invariants.
// Returns a joined error if any invariant is violated.
func Verify(m *Module) error {
	if m == nil || m.root == nil {
		return errors.New("nil module")
	}
	return verifyOp(m.root, "root")
}

func verifyOp(op *Operation, at string) error {
	var errs []error

	if op.Kind == "" {
		errs = append(errs, fmt.Errorf("%s: operation with empty kind", at))
	} else if !IsValidKind(op.Kind) {
		errs = append(errs, fmt.Errorf("%s: malformed operation kind %q", at, op.Kind))
	}

	for _, a := range op.Attrs {
		if a.Key == "" {
			errs = append(errs, fmt.Errorf("%s: attribute with empty key", at))
		}
	}

	symbols := make(map[string]bool, len(op.Children))
	for i, child := range op.Children {
		childAt := fmt.Sprintf("%s/%s[%d]", at, op.Kind, i)
		if child == nil {
			errs = append(errs, fmt.Errorf("%s: nil child operation", childAt))
			continue
		}
		if child.Symbol != "" {
			if symbols[child.Symbol] {
				errs = append(errs, fmt.Errorf("%s: duplicate symbol @%s in scope", childAt, child.Symbol))
			}
			symbols[child.Symbol] = true
		}
		if err := verifyOp(child, childAt); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// IsValidKind reports whether s is a well-formed operation kind: a letter
// followed by letters, digits, '.', '_' or '-'.
func IsValidKind(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '.' || r == '_' || r == '-'):
		default:
			return false
		}
	}
	return s != ""
}
