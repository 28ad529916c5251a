package wat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/you-not-fish/teal/internal/rtabi"
)

// ErrMalformed is returned by Read for text it cannot turn into a Module.
var ErrMalformed = errors.New("malformed module text")

// sexp is one parsed element: an atom, a string literal, or a list.
type sexp struct {
	atom string
	str  []byte
	list []sexp
	kind sexpKind
	offs int
}

type sexpKind uint8

const (
	sexpAtom sexpKind = iota
	sexpString
	sexpList
)

// head returns the leading keyword of a list, or "".
func (s sexp) head() string {
	if s.kind == sexpList && len(s.list) > 0 && s.list[0].kind == sexpAtom {
		return s.list[0].atom
	}
	return ""
}

// Read parses module text in the form produced by Write.
func Read(src string) (*Module, error) {
	r := &reader{src: src}
	top, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if r.offs < len(r.src) {
		return nil, r.errorf(r.offs, "trailing text after module")
	}
	if top.head() != "module" {
		return nil, r.errorf(top.offs, "expected (module ...)")
	}

	m := &Module{}
	for _, field := range top.list[1:] {
		if err := r.field(m, field); err != nil {
			return nil, err
		}
	}
	return m, nil
}

type reader struct {
	src  string
	offs int
}

func (r *reader) errorf(offs int, format string, args ...interface{}) error {
	return fmt.Errorf("%w: offset %d: %s", ErrMalformed, offs, fmt.Sprintf(format, args...))
}

// ----------------------------------------------------------------------------
// S-expressions

func (r *reader) skipSpace() {
	for r.offs < len(r.src) {
		switch c := r.src[r.offs]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			r.offs++
		case strings.HasPrefix(r.src[r.offs:], ";;"):
			for r.offs < len(r.src) && r.src[r.offs] != '\n' {
				r.offs++
			}
		default:
			return
		}
	}
}

func (r *reader) parse() (sexp, error) {
	r.skipSpace()
	if r.offs >= len(r.src) {
		return sexp{}, r.errorf(r.offs, "unexpected end of text")
	}

	start := r.offs
	switch r.src[r.offs] {
	case '(':
		r.offs++
		s := sexp{kind: sexpList, offs: start}
		for {
			r.skipSpace()
			if r.offs >= len(r.src) {
				return sexp{}, r.errorf(start, "unclosed list")
			}
			if r.src[r.offs] == ')' {
				r.offs++
				return s, nil
			}
			elem, err := r.parse()
			if err != nil {
				return sexp{}, err
			}
			s.list = append(s.list, elem)
		}
	case ')':
		return sexp{}, r.errorf(start, "unexpected ')'")
	case '"':
		b, err := r.str()
		if err != nil {
			return sexp{}, err
		}
		return sexp{kind: sexpString, str: b, offs: start}, nil
	}

	for r.offs < len(r.src) && !strings.ContainsRune(" \t\n\r()\"", rune(r.src[r.offs])) {
		r.offs++
	}
	return sexp{kind: sexpAtom, atom: r.src[start:r.offs], offs: start}, nil
}

// str reads a string literal, decoding \hh and the named escapes.
func (r *reader) str() ([]byte, error) {
	start := r.offs
	r.offs++ // opening "
	var b []byte
	for {
		if r.offs >= len(r.src) {
			return nil, r.errorf(start, "unterminated string")
		}
		c := r.src[r.offs]
		r.offs++
		switch c {
		case '"':
			return b, nil
		case '\\':
		default:
			b = append(b, c)
			continue
		}

		if r.offs >= len(r.src) {
			return nil, r.errorf(start, "unterminated string")
		}
		switch esc := r.src[r.offs]; esc {
		case 'n':
			b = append(b, '\n')
			r.offs++
		case 't':
			b = append(b, '\t')
			r.offs++
		case '"', '\'', '\\':
			b = append(b, esc)
			r.offs++
		default:
			if r.offs+2 > len(r.src) {
				return nil, r.errorf(r.offs, "short escape")
			}
			v, err := strconv.ParseUint(r.src[r.offs:r.offs+2], 16, 8)
			if err != nil {
				return nil, r.errorf(r.offs, "bad escape \\%s", r.src[r.offs:r.offs+2])
			}
			b = append(b, byte(v))
			r.offs += 2
		}
	}
}

// ----------------------------------------------------------------------------
// Module fields

func (r *reader) field(m *Module, f sexp) error {
	switch f.head() {
	case "import":
		return r.importField(m, f)
	case "memory":
		m.Memory = true
		return nil
	case "global":
		return r.globalField(m, f)
	case "data":
		return r.dataField(m, f)
	case "func":
		return r.funcField(m, f)
	case "export":
		return r.exportField(m, f)
	}
	return r.errorf(f.offs, "unknown module field %q", f.head())
}

// importField checks that f imports a known host function and takes the
// module's value type from its first parameter.
func (r *reader) importField(m *Module, f sexp) error {
	if len(f.list) != 4 || f.list[1].kind != sexpString || f.list[2].kind != sexpString || f.list[3].head() != "func" {
		return r.errorf(f.offs, "malformed import")
	}
	mod, name := string(f.list[1].str), string(f.list[2].str)
	known := false
	for _, fn := range rtabi.HostFunctions() {
		if fn.Module == mod && fn.Name == name {
			known = true
		}
	}
	if !known {
		return r.errorf(f.offs, "unknown import %s.%s", mod, name)
	}
	for _, x := range f.list[3].list[1:] {
		if x.head() == "param" && len(x.list) == 2 {
			t, err := r.valueType(x.list[1])
			if err != nil {
				return err
			}
			m.Type = t
			break
		}
	}
	return nil
}

func (r *reader) globalField(m *Module, f sexp) error {
	if len(f.list) != 4 {
		return r.errorf(f.offs, "malformed global")
	}
	name, err := r.ident(f.list[1])
	if err != nil {
		return err
	}
	g := Global{Name: name}
	typ := f.list[2]
	if typ.head() == "mut" && len(typ.list) == 2 {
		g.Mutable = true
		typ = typ.list[1]
	}
	if g.Type, err = r.valueType(typ); err != nil {
		return err
	}
	m.Globals = append(m.Globals, g)
	return nil
}

func (r *reader) dataField(m *Module, f sexp) error {
	if len(f.list) != 3 || f.list[1].head() != "i32.const" || len(f.list[1].list) != 2 || f.list[2].kind != sexpString {
		return r.errorf(f.offs, "malformed data segment")
	}
	off, err := strconv.Atoi(f.list[1].list[1].atom)
	if err != nil {
		return r.errorf(f.list[1].offs, "bad data offset")
	}
	m.Data = append(m.Data, Data{Offset: off, Bytes: f.list[2].str})
	return nil
}

func (r *reader) funcField(m *Module, f sexp) error {
	if len(f.list) < 2 {
		return r.errorf(f.offs, "malformed function")
	}
	name, err := r.ident(f.list[1])
	if err != nil {
		return err
	}
	fn := &Function{Name: name}

	rest := f.list[2:]
	for len(rest) > 0 && rest[0].kind == sexpList {
		x := rest[0]
		switch x.head() {
		case "param", "local":
			if len(x.list) != 3 {
				return r.errorf(x.offs, "malformed %s", x.head())
			}
			id, err := r.ident(x.list[1])
			if err != nil {
				return err
			}
			if x.head() == "param" {
				fn.Params = append(fn.Params, id)
			} else {
				fn.Locals = append(fn.Locals, id)
			}
		case "result":
			if len(x.list) != 2 {
				return r.errorf(x.offs, "malformed result")
			}
			t, err := r.valueType(x.list[1])
			if err != nil {
				return err
			}
			fn.Result = &t
		default:
			return r.errorf(x.offs, "unexpected %q in function header", x.head())
		}
		rest = rest[1:]
	}

	for len(rest) > 0 {
		x := rest[0]
		rest = rest[1:]
		if x.kind != sexpAtom {
			return r.errorf(x.offs, "expected instruction")
		}
		op := LookupOpcode(x.atom)
		if op == OpInvalid {
			return r.errorf(x.offs, "unknown instruction %q", x.atom)
		}
		in := Instruction{Op: op}
		if op.HasImm() {
			if len(rest) == 0 || rest[0].kind != sexpAtom {
				return r.errorf(x.offs, "%s needs an operand", op)
			}
			imm := rest[0]
			rest = rest[1:]
			if op.IsNamed() {
				if in.Imm, err = r.ident(imm); err != nil {
					return err
				}
			} else {
				in.Imm = imm.atom
			}
		}
		fn.Body = append(fn.Body, in)
	}

	m.Functions = append(m.Functions, fn)
	return nil
}

func (r *reader) exportField(m *Module, f sexp) error {
	if len(f.list) != 3 || f.list[1].kind != sexpString {
		return r.errorf(f.offs, "malformed export")
	}
	switch f.list[2].head() {
	case "func":
		m.Entry = string(f.list[1].str)
	case "memory":
	default:
		return r.errorf(f.offs, "unknown export kind %q", f.list[2].head())
	}
	return nil
}

// ident returns the name of a $-prefixed identifier atom.
func (r *reader) ident(s sexp) (string, error) {
	if s.kind != sexpAtom || len(s.atom) < 2 || s.atom[0] != '$' {
		return "", r.errorf(s.offs, "expected $identifier")
	}
	return s.atom[1:], nil
}

func (r *reader) valueType(s sexp) (ValueType, error) {
	if s.kind == sexpAtom {
		if t, ok := ParseValueType(s.atom); ok {
			return t, nil
		}
	}
	return 0, r.errorf(s.offs, "expected value type")
}
