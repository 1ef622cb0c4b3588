// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storageattribute

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	OpAtLeast      = "="
	OpEqual        = "=="
	OpNotEqual     = "!="
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	OpStrEqual     = "s=="
	OpStrNotEqual  = "s!="
	OpStrLess      = "s<"
	OpStrLessEq    = "s<="
	OpStrGreater   = "s>"
	OpStrGreaterEq = "s>="
	OpIn           = "<in>"
	OpIs           = "<is>"
	OpOr           = "<or>"
)

var numericOps = map[string]bool{
	OpAtLeast: true, OpEqual: true, OpNotEqual: true, OpGreaterEqual: true, OpLessEqual: true,
}

var stringOps = map[string]bool{
	OpStrEqual: true, OpStrNotEqual: true, OpStrLess: true, OpStrLessEq: true, OpStrGreater: true,
	OpStrGreaterEq: true,
}

// ParseRequest turns an extra-spec value into a Request. A value whose first word is not
// an operator is an exact string match.
func ParseRequest(value string) (Request, error) {
	words := strings.Fields(value)
	if len(words) == 0 {
		return NewStringRequest(OpStrEqual, ""), nil
	}
	op := words[0]
	args := words[1:]

	switch {
	case op == OpOr:
		// "<or> a <or> b" lists alternatives separated by the operator.
		alternatives := make([]string, 0)
		for _, word := range words {
			if word != OpOr {
				alternatives = append(alternatives, word)
			}
		}
		if len(alternatives) == 0 {
			return nil, fmt.Errorf("operator %s requires at least one value", op)
		}
		return NewOrRequest(alternatives...), nil
	case op == OpIs:
		if len(args) != 1 {
			return nil, fmt.Errorf("operator %s requires one value", op)
		}
		b, err := strconv.ParseBool(args[0])
		if err != nil {
			return nil, fmt.Errorf("value %s of operator %s is not a boolean", args[0], op)
		}
		return NewBoolRequest(b), nil
	case op == OpIn:
		if len(args) != 1 {
			return nil, fmt.Errorf("operator %s requires one value", op)
		}
		return NewInRequest(args[0]), nil
	case numericOps[op]:
		if len(args) != 1 {
			return nil, fmt.Errorf("operator %s requires one value", op)
		}
		f, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("value %s of operator %s is not a number", args[0], op)
		}
		return NewNumericRequest(op, f), nil
	case stringOps[op]:
		if len(args) != 1 {
			return nil, fmt.Errorf("operator %s requires one value", op)
		}
		return NewStringRequest(op, args[0]), nil
	}

	return NewStringRequest(OpStrEqual, strings.TrimSpace(value)), nil
}

// ParseRequestMap parses every extra spec that applies to backend capabilities. Keys in
// a scope other than "capabilities" are skipped.
func ParseRequestMap(extraSpecs map[string]string) (map[string]Request, error) {
	requests := make(map[string]Request, len(extraSpecs))
	for key, value := range extraSpecs {
		name, ok := CapabilityKey(key)
		if !ok {
			continue
		}
		req, err := ParseRequest(value)
		if err != nil {
			return nil, fmt.Errorf("extra spec %s: %v", key, err)
		}
		requests[name] = req
	}
	return requests, nil
}

func NewNumericRequest(op string, request float64) Request {
	return &numericRequest{Op: op, Request: request}
}

func (r *numericRequest) GetType() Type      { return numericType }
func (r *numericRequest) Operator() string   { return r.Op }
func (r *numericRequest) Value() interface{} { return r.Request }

func (r *numericRequest) String() string {
	return r.Op + " " + strconv.FormatFloat(r.Request, 'f', -1, 64)
}

func NewOrRequest(requests ...string) Request {
	return &orRequest{Requests: requests}
}

func (r *orRequest) GetType() Type      { return orType }
func (r *orRequest) Operator() string   { return OpOr }
func (r *orRequest) Value() interface{} { return r.Requests }

func (r *orRequest) String() string {
	return OpOr + " " + strings.Join(r.Requests, " "+OpOr+" ")
}

func NewInRequest(request string) Request {
	return &inRequest{Request: request}
}

func (r *inRequest) GetType() Type      { return inType }
func (r *inRequest) Operator() string   { return OpIn }
func (r *inRequest) Value() interface{} { return r.Request }
func (r *inRequest) String() string     { return OpIn + " " + r.Request }
