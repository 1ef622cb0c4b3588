// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storageattribute

import (
	"fmt"
)

func NewBoolRequest(request bool) Request {
	return &boolRequest{
		Request: request,
	}
}

func (r *boolRequest) Value() interface{} {
	return r.Request
}

func (r *boolRequest) GetType() Type {
	return boolType
}

func (r *boolRequest) Operator() string {
	return OpIs
}

func (r *boolRequest) String() string {
	return fmt.Sprintf("%s %t", OpIs, r.Request)
}
