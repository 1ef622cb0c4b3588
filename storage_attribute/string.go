// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storageattribute

func NewStringRequest(op, request string) Request {
	return &stringRequest{
		Op:      op,
		Request: request,
	}
}

func (r *stringRequest) Value() interface{} {
	return r.Request
}

func (r *stringRequest) GetType() Type {
	return stringType
}

func (r *stringRequest) Operator() string {
	return r.Op
}

func (r *stringRequest) String() string {
	return r.Op + " " + r.Request
}
