// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storageattribute

// Offer is a capability value reported by a backend pool.
type Offer interface {
	Matches(requested Request) bool
	String() string
}

// Request is a parsed extra-spec requirement, such as "<is> True" or ">= 100".
type Request interface {
	GetType() Type
	Operator() string
	Value() interface{}
	String() string
}

type Type string

const (
	numericType Type = "numeric"
	boolType    Type = "bool"
	stringType  Type = "string"
	orType      Type = "or"
	inType      Type = "in"
)

type offer struct {
	Raw string `json:"offer"`
}

type numericRequest struct {
	Op      string  `json:"op"`
	Request float64 `json:"request"`
}

type boolRequest struct {
	Request bool `json:"request"`
}

type stringRequest struct {
	Op      string `json:"op"`
	Request string `json:"request"`
}

type orRequest struct {
	Requests []string `json:"requests"`
}

type inRequest struct {
	Request string `json:"request"`
}
