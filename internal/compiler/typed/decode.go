package typed

import (
	"encoding/json"
	"fmt"

	"github.com/exalt-lang/exalt/exerr"
)

// The front-end serializes one Unit per compilation unit as JSON. Decode
// validates shape as it goes and reports the path of the offending node;
// it never panics on malformed input.

type rawUnit struct {
	Name    string     `json:"name"`
	IsError bool       `json:"is_error,omitempty"`
	Funcs   []*rawFunc `json:"funcs"`
}

type rawFunc struct {
	Name   string           `json:"name"`
	Args   []Arg            `json:"args,omitempty"`
	Ret    string           `json:"ret,omitempty"`
	Body   *json.RawMessage `json:"body"`
	Static bool             `json:"static,omitempty"`
	Public bool             `json:"public,omitempty"`
}

type rawNode struct {
	Kind string `json:"kind"`
	Type string `json:"type,omitempty"`

	// const
	ConstKind string  `json:"const_kind,omitempty"`
	Int       int64   `json:"int,omitempty"`
	Float     float64 `json:"float,omitempty"`
	Str       string  `json:"str,omitempty"`
	Bool      bool    `json:"bool,omitempty"`

	// names and ids
	Name string `json:"name,omitempty"`
	ID   int    `json:"id,omitempty"`

	// operators
	Op      string `json:"op,omitempty"`
	Postfix bool   `json:"postfix,omitempty"`

	// children
	Init    *json.RawMessage   `json:"init,omitempty"`
	LHS     *json.RawMessage   `json:"lhs,omitempty"`
	Value   *json.RawMessage   `json:"value,omitempty"`
	List    []json.RawMessage  `json:"list,omitempty"`
	Cond    *json.RawMessage   `json:"cond,omitempty"`
	Then    *json.RawMessage   `json:"then,omitempty"`
	Else    *json.RawMessage   `json:"else,omitempty"`
	Ternary bool               `json:"ternary,omitempty"`
	L       *json.RawMessage   `json:"l,omitempty"`
	R       *json.RawMessage   `json:"r,omitempty"`
	Operand *json.RawMessage   `json:"operand,omitempty"`
	Target  *json.RawMessage   `json:"target,omitempty"`
	Args    []json.RawMessage  `json:"args,omitempty"`
	Object  *json.RawMessage   `json:"object,omitempty"`
	Index   *json.RawMessage   `json:"index,omitempty"`
	Body    *json.RawMessage   `json:"body,omitempty"`
	Elems   []json.RawMessage  `json:"elems,omitempty"`
	Fields  []rawObjectField   `json:"fields,omitempty"`
	Class   string             `json:"class,omitempty"`
	Subject *json.RawMessage   `json:"subject,omitempty"`
	Cases   []rawSwitchCase    `json:"cases,omitempty"`
	Default *json.RawMessage   `json:"default,omitempty"`
	Expr    *json.RawMessage   `json:"expr,omitempty"`
}

type rawObjectField struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type rawSwitchCase struct {
	Values []json.RawMessage `json:"values"`
	Body   json.RawMessage   `json:"body"`
}

var constKinds = map[string]ConstKind{
	"int":    ConstInt,
	"float":  ConstFloat,
	"string": ConstString,
	"bool":   ConstBool,
	"null":   ConstNull,
}

var binOps = map[string]BinOp{
	"+":  OpAdd,
	"-":  OpSub,
	"*":  OpMul,
	"/":  OpDiv,
	"%":  OpMod,
	"==": OpEq,
	"!=": OpNotEq,
	"<":  OpLt,
	"<=": OpLtEq,
	">":  OpGt,
	">=": OpGtEq,
	"&&": OpBoolAnd,
	"||": OpBoolOr,
	"&":  OpBitAnd,
	"|":  OpBitOr,
	"^":  OpBitXor,
	"<<": OpShl,
	">>": OpShr,
	"??": OpNullCoal,
}

var unOps = map[string]UnOp{
	"-":  OpNeg,
	"!":  OpNot,
	"~":  OpBitNot,
	"++": OpIncrement,
	"--": OpDecrement,
}

// Decode parses a serialized compilation unit.
func Decode(data []byte) (*Unit, error) {
	var ru rawUnit
	if err := json.Unmarshal(data, &ru); err != nil {
		return nil, exerr.NewInputError(fmt.Sprintf("invalid unit document: %v", err))
	}
	if ru.Name == "" {
		return nil, exerr.NewInputError("unit has no name")
	}
	unit := &Unit{Name: ru.Name, IsError: ru.IsError}
	for i, rf := range ru.Funcs {
		path := fmt.Sprintf("funcs[%d]", i)
		if rf.Name == "" {
			return nil, exerr.NewInputErrorAt(path, "function has no name")
		}
		if rf.Body == nil {
			return nil, exerr.NewInputErrorAt(path, "function has no body")
		}
		body, err := decodeNode(*rf.Body, path+".body")
		if err != nil {
			return nil, err
		}
		unit.Funcs = append(unit.Funcs, &Func{
			Name:   rf.Name,
			Args:   rf.Args,
			Ret:    rf.Ret,
			Body:   body,
			Static: rf.Static,
			Public: rf.Public,
		})
	}
	return unit, nil
}

func decodeNode(data json.RawMessage, path string) (Expr, error) {
	var rn rawNode
	if err := json.Unmarshal(data, &rn); err != nil {
		return nil, exerr.NewInputErrorAt(path, fmt.Sprintf("invalid node: %v", err))
	}
	b := base{Type: rn.Type}

	switch rn.Kind {
	case "const":
		kind, ok := constKinds[rn.ConstKind]
		if !ok {
			return nil, exerr.NewInputErrorAt(path, fmt.Sprintf("unknown const kind %q", rn.ConstKind))
		}
		return &Const{base: b, Kind: kind, Int: rn.Int, Float: rn.Float, Str: rn.Str, Bool: rn.Bool}, nil
	case "local":
		return &Local{base: b, Name: rn.Name, ID: rn.ID}, nil
	case "ident":
		return &Ident{base: b, Name: rn.Name}, nil
	case "var":
		init, err := decodeOpt(rn.Init, path+".init")
		if err != nil {
			return nil, err
		}
		return &VarDecl{base: b, Name: rn.Name, ID: rn.ID, Init: init}, nil
	case "bind":
		lhs, err := decodeReq(rn.LHS, path+".lhs")
		if err != nil {
			return nil, err
		}
		value, err := decodeReq(rn.Value, path+".value")
		if err != nil {
			return nil, err
		}
		return &Bind{base: b, LHS: lhs, Value: value}, nil
	case "block":
		list, err := decodeList(rn.List, path+".list")
		if err != nil {
			return nil, err
		}
		return &Block{base: b, List: list}, nil
	case "if":
		cond, err := decodeReq(rn.Cond, path+".cond")
		if err != nil {
			return nil, err
		}
		then, err := decodeReq(rn.Then, path+".then")
		if err != nil {
			return nil, err
		}
		els, err := decodeOpt(rn.Else, path+".else")
		if err != nil {
			return nil, err
		}
		return &If{base: b, Cond: cond, Then: then, Else: els, Ternary: rn.Ternary}, nil
	case "binop":
		op, ok := binOps[rn.Op]
		if !ok {
			return nil, exerr.NewInputErrorAt(path, fmt.Sprintf("unknown binary operator %q", rn.Op))
		}
		l, err := decodeReq(rn.L, path+".l")
		if err != nil {
			return nil, err
		}
		r, err := decodeReq(rn.R, path+".r")
		if err != nil {
			return nil, err
		}
		return &Binop{base: b, Op: op, L: l, R: r}, nil
	case "unop":
		op, ok := unOps[rn.Op]
		if !ok {
			return nil, exerr.NewInputErrorAt(path, fmt.Sprintf("unknown unary operator %q", rn.Op))
		}
		operand, err := decodeReq(rn.Operand, path+".operand")
		if err != nil {
			return nil, err
		}
		return &Unop{base: b, Op: op, Postfix: rn.Postfix, Operand: operand}, nil
	case "call":
		target, err := decodeReq(rn.Target, path+".target")
		if err != nil {
			return nil, err
		}
		args, err := decodeList(rn.Args, path+".args")
		if err != nil {
			return nil, err
		}
		return &Call{base: b, Target: target, Args: args}, nil
	case "field":
		obj, err := decodeReq(rn.Object, path+".object")
		if err != nil {
			return nil, err
		}
		return &Field{base: b, Object: obj, Name: rn.Name}, nil
	case "index":
		obj, err := decodeReq(rn.Object, path+".object")
		if err != nil {
			return nil, err
		}
		idx, err := decodeReq(rn.Index, path+".index")
		if err != nil {
			return nil, err
		}
		return &Index{base: b, Object: obj, Index: idx}, nil
	case "while":
		cond, err := decodeReq(rn.Cond, path+".cond")
		if err != nil {
			return nil, err
		}
		body, err := decodeReq(rn.Body, path+".body")
		if err != nil {
			return nil, err
		}
		return &While{base: b, Cond: cond, Body: body}, nil
	case "array":
		elems, err := decodeList(rn.Elems, path+".elems")
		if err != nil {
			return nil, err
		}
		return &ArrayDecl{base: b, Elems: elems}, nil
	case "object":
		fields := make([]ObjectField, len(rn.Fields))
		for i, f := range rn.Fields {
			v, err := decodeNode(f.Value, fmt.Sprintf("%s.fields[%d]", path, i))
			if err != nil {
				return nil, err
			}
			fields[i] = ObjectField{Name: f.Name, Value: v}
		}
		return &ObjectDecl{base: b, Fields: fields}, nil
	case "new":
		args, err := decodeList(rn.Args, path+".args")
		if err != nil {
			return nil, err
		}
		return &New{base: b, Class: rn.Class, Args: args}, nil
	case "return":
		value, err := decodeOpt(rn.Value, path+".value")
		if err != nil {
			return nil, err
		}
		return &Return{base: b, Value: value}, nil
	case "switch":
		subject, err := decodeReq(rn.Subject, path+".subject")
		if err != nil {
			return nil, err
		}
		cases := make([]*SwitchCase, len(rn.Cases))
		for i, c := range rn.Cases {
			cpath := fmt.Sprintf("%s.cases[%d]", path, i)
			values, err := decodeList(c.Values, cpath+".values")
			if err != nil {
				return nil, err
			}
			body, err := decodeNode(c.Body, cpath+".body")
			if err != nil {
				return nil, err
			}
			cases[i] = &SwitchCase{Values: values, Body: body}
		}
		dflt, err := decodeOpt(rn.Default, path+".default")
		if err != nil {
			return nil, err
		}
		return &Switch{base: b, Subject: subject, Cases: cases, Default: dflt}, nil
	case "meta":
		expr, err := decodeReq(rn.Expr, path+".expr")
		if err != nil {
			return nil, err
		}
		return &Meta{base: b, Name: rn.Name, Expr: expr}, nil
	case "":
		return nil, exerr.NewInputErrorAt(path, "node has no kind")
	default:
		return nil, exerr.NewInputErrorAt(path, fmt.Sprintf("unknown node kind %q", rn.Kind))
	}
}

func decodeReq(raw *json.RawMessage, path string) (Expr, error) {
	if raw == nil {
		return nil, exerr.NewInputErrorAt(path, "missing required child")
	}
	return decodeNode(*raw, path)
}

func decodeOpt(raw *json.RawMessage, path string) (Expr, error) {
	if raw == nil {
		return nil, nil
	}
	return decodeNode(*raw, path)
}

func decodeList(raws []json.RawMessage, path string) ([]Expr, error) {
	out := make([]Expr, len(raws))
	for i, raw := range raws {
		n, err := decodeNode(raw, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
