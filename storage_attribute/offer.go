// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storageattribute

import (
	"slices"
	"strconv"
	"strings"
)

// NewOffer wraps a raw capability value. How it is interpreted depends on the request
// it is matched against.
func NewOffer(value string) Offer {
	return &offer{Raw: strings.TrimSpace(value)}
}

func (o *offer) String() string {
	return o.Raw
}

func (o *offer) Matches(r Request) bool {
	switch req := r.(type) {
	case *boolRequest:
		b, err := strconv.ParseBool(o.Raw)
		if err != nil {
			return false
		}
		return b == req.Request
	case *numericRequest:
		f, err := strconv.ParseFloat(o.Raw, 64)
		if err != nil {
			return false
		}
		switch req.Op {
		case OpAtLeast, OpGreaterEqual:
			return f >= req.Request
		case OpEqual:
			return f == req.Request
		case OpNotEqual:
			return f != req.Request
		case OpLessEqual:
			return f <= req.Request
		}
	case *stringRequest:
		switch req.Op {
		case OpStrEqual:
			return o.Raw == req.Request
		case OpStrNotEqual:
			return o.Raw != req.Request
		case OpStrLess:
			return o.Raw < req.Request
		case OpStrLessEq:
			return o.Raw <= req.Request
		case OpStrGreater:
			return o.Raw > req.Request
		case OpStrGreaterEq:
			return o.Raw >= req.Request
		}
	case *orRequest:
		return slices.Contains(req.Requests, o.Raw)
	case *inRequest:
		return strings.Contains(o.Raw, req.Request)
	}
	return false
}
