// Package emit lowers a fully-transformed module into generated source
// artifacts: a C++ translation unit and a Python wrapper exposing its
// functions through ctypes.
//
// The backend demands a module in fully lowered form: a module root whose
// children are all functions, with bodies built only from the kinds the
// code generator understands. Anything else is rejected before any file
// is written.
package emit

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/irtools/passpipe/errors"
	"github.com/irtools/passpipe/ir"
)

// bodyKinds are the operation kinds the code generator can lower inside a
// function body.
var bodyKinds = map[string]bool{
	"arith.const": true,
	"arith.add":   true,
	"call":        true,
	"return":      true,
}

// Backend generates C++ and Python sources from a lowered module.
type Backend struct{}

// New creates the reference emission backend.
func New() *Backend {
	return &Backend{}
}

// Emit lowers mod into a C++ source file at primary and a Python wrapper
// at secondary. The module must satisfy the backend's structural
// preconditions; violations fail before either file is written. Write
// failures may leave the primary file behind.
func (b *Backend) Emit(mod *ir.Module, primary, secondary string) error {
	if err := b.check(mod); err != nil {
		return err
	}

	cxx, err := b.generateCXX(mod)
	if err != nil {
		return err
	}
	py := b.generatePython(mod, primary)

	if err := os.WriteFile(primary, []byte(cxx), 0o644); err != nil {
		return errors.EmissionFailed(err)
	}
	if err := os.WriteFile(secondary, []byte(py), 0o644); err != nil {
		return errors.EmissionFailed(err)
	}

	Logger().Info("emitted sources",
		zap.String("primary", primary),
		zap.String("secondary", secondary))
	return nil
}

// check enforces the fully-lowered form.
func (b *Backend) check(mod *ir.Module) error {
	root := mod.Root()
	if root.Kind != "module" {
		return errors.EmissionPrecondition(
			fmt.Sprintf("root operation is %q, want module", root.Kind))
	}
	for _, fn := range root.Children {
		if fn.Kind != "func" {
			return errors.EmissionPrecondition(
				fmt.Sprintf("top-level operation %q is not lowered to func", fn.Kind))
		}
		if fn.Symbol == "" {
			return errors.EmissionPrecondition("func without a symbol name")
		}
		for _, op := range fn.Children {
			if !bodyKinds[op.Kind] {
				return errors.EmissionPrecondition(
					fmt.Sprintf("operation %q in @%s is not lowered to an emittable kind", op.Kind, fn.Symbol))
			}
		}
	}
	return nil
}

// cxxIdent maps an IR symbol to a C identifier.
func cxxIdent(sym string) string {
	var b strings.Builder
	for _, r := range sym {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func (b *Backend) generateCXX(mod *ir.Module) (string, error) {
	var out strings.Builder
	out.WriteString("// Generated by passpipe. Do not edit.\n")
	out.WriteString("#include <cstdint>\n")

	for _, fn := range mod.Root().Children {
		out.WriteString("\nextern \"C\" int64_t pp_")
		out.WriteString(cxxIdent(fn.Symbol))
		out.WriteString("(void) {\n")

		defined := map[string]bool{}
		tmp := 0
		returned := false
		for _, op := range fn.Children {
			if returned {
				break
			}
			name := op.Symbol
			if name == "" {
				name = fmt.Sprintf("tmp%d", tmp)
				tmp++
			}
			switch op.Kind {
			case "arith.const":
				v, _ := op.Attr("value")
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return "", errors.EmissionPrecondition(
						fmt.Sprintf("arith.const in @%s has non-integer value %q", fn.Symbol, v))
				}
				fmt.Fprintf(&out, "  int64_t %s = %d;\n", cxxIdent(name), n)
				if op.Symbol != "" {
					defined[op.Symbol] = true
				}
			case "arith.add":
				lhs, _ := op.Attr("lhs")
				rhs, _ := op.Attr("rhs")
				if lhs == "" || rhs == "" {
					return "", errors.EmissionPrecondition(
						fmt.Sprintf("arith.add in @%s is missing an operand", fn.Symbol))
				}
				if !defined[lhs] || !defined[rhs] {
					return "", errors.EmissionPrecondition(
						fmt.Sprintf("arith.add in @%s references undefined operand", fn.Symbol))
				}
				fmt.Fprintf(&out, "  int64_t %s = %s + %s;\n", cxxIdent(name), cxxIdent(lhs), cxxIdent(rhs))
				if op.Symbol != "" {
					defined[op.Symbol] = true
				}
			case "call":
				callee, _ := op.Attr("callee")
				fmt.Fprintf(&out, "  (void)pp_%s();\n", cxxIdent(callee))
			case "return":
				if v, ok := op.Attr("value"); ok && defined[v] {
					fmt.Fprintf(&out, "  return %s;\n", cxxIdent(v))
				} else {
					out.WriteString("  return 0;\n")
				}
				returned = true
			}
		}
		if !returned {
			out.WriteString("  return 0;\n")
		}
		out.WriteString("}\n")
	}

	return out.String(), nil
}

func (b *Backend) generatePython(mod *ir.Module, primary string) string {
	lib := strings.TrimSuffix(primary, ".cc")
	if i := strings.LastIndexByte(lib, '/'); i >= 0 {
		lib = lib[i+1:]
	}

	var out strings.Builder
	out.WriteString("\"\"\"Generated by passpipe. Do not edit.\"\"\"\n\n")
	out.WriteString("import ctypes\n\n")
	fmt.Fprintf(&out, "_lib = ctypes.CDLL(\"./%s.so\")\n", lib)

	for _, fn := range mod.Root().Children {
		name := cxxIdent(fn.Symbol)
		out.WriteString("\n\n")
		fmt.Fprintf(&out, "def %s() -> int:\n", name)
		fmt.Fprintf(&out, "    _lib.pp_%s.restype = ctypes.c_int64\n", name)
		fmt.Fprintf(&out, "    return _lib.pp_%s()\n", name)
	}

	return out.String()
}
