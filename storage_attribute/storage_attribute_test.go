// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storageattribute

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/openblock/blockd/logging"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	InitLogOutput(io.Discard)
	os.Exit(m.Run())
}

func TestMatches(t *testing.T) {
	for _, test := range []struct {
		offer    string
		request  string
		expected bool
	}{
		{"True", "<is> True", true},
		{"false", "<is> True", false},
		{"yes", "<is> True", false},
		{"100", "= 50", true},
		{"10", "= 50", false},
		{"50", "== 50", true},
		{"50.5", "== 50", false},
		{"50", "!= 60", true},
		{"70", ">= 60", true},
		{"70", "<= 60", false},
		{"abc", "<= 60", false},
		{"abc", "s== abc", true},
		{"abc", "s!= abc", false},
		{"abc", "s< abd", true},
		{"abc", "s<= abc", true},
		{"abd", "s> abc", true},
		{"abc", "s>= abd", false},
		{"gold", "<or> silver <or> gold", true},
		{"bronze", "<or> silver <or> gold", false},
		{"thin,thick", "<in> thick", true},
		{"thin", "<in> thick", false},
		{"iSCSI", "iSCSI", true},
		{"FC", "iSCSI", false},
		{"  padded ", "padded", true},
	} {
		t.Run(test.offer+" "+test.request, func(t *testing.T) {
			req, err := ParseRequest(test.request)
			require.NoError(t, err)
			assert.Equal(t, test.expected, NewOffer(test.offer).Matches(req))
		})
	}
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		value    string
		typ      Type
		operator string
		wantErr  bool
	}{
		{"<is> true", boolType, OpIs, false},
		{"<is> maybe", "", "", true},
		{"<is>", "", "", true},
		{">= 10", numericType, OpGreaterEqual, false},
		{">= ten", "", "", true},
		{"== 1 2", "", "", true},
		{"s> b", stringType, OpStrGreater, false},
		{"s> b c", "", "", true},
		{"<in> x", inType, OpIn, false},
		{"<in>", "", "", true},
		{"<or> a", orType, OpOr, false},
		{"<or>", "", "", true},
		{"plain", stringType, OpStrEqual, false},
		{"", stringType, OpStrEqual, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			req, err := ParseRequest(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, req.GetType())
			assert.Equal(t, tt.operator, req.Operator())
			assert.NotEmpty(t, req.String())
			assert.NotNil(t, req.Value())
		})
	}
}

func TestCapabilityKey(t *testing.T) {
	name, ok := CapabilityKey("capabilities:compression")
	assert.True(t, ok)
	assert.Equal(t, "compression", name)

	name, ok = CapabilityKey(VolumeBackendName)
	assert.True(t, ok)
	assert.Equal(t, VolumeBackendName, name)

	_, ok = CapabilityKey("qos:maxIOPS")
	assert.False(t, ok)

	_, ok = CapabilityKey("capabilities:")
	assert.False(t, ok)
}

func TestMatchCapabilities(t *testing.T) {
	specs := map[string]string{
		ReplicationEnabled: "<is> True",
		"qos:maxIOPS":      "not a capability",
	}
	specs[CapabilitiesScope+":"+VendorName] = "<or> Acme <or> Example"
	specs[CapabilitiesScope+":"+ThinProvisioning] = "<is> true"

	requests, err := ParseRequestMap(specs)
	require.NoError(t, err)
	assert.Len(t, requests, 3)

	caps := map[string]string{
		ReplicationEnabled: "true",
		VendorName:         "Acme",
		ThinProvisioning:   "true",
	}
	ok, mismatch := MatchCapabilities(requests, caps)
	assert.True(t, ok)
	assert.Nil(t, mismatch)

	caps[VendorName] = "Other"
	ok, mismatch = MatchCapabilities(requests, caps)
	assert.False(t, ok)
	require.NotNil(t, mismatch)
	assert.Equal(t, VendorName, mismatch.Key)
	assert.Equal(t, "Other", mismatch.Offer.String())

	delete(caps, VendorName)
	ok, mismatch = MatchCapabilities(requests, caps)
	assert.False(t, ok)
	assert.Nil(t, mismatch.Offer)

	_, err = ParseRequestMap(map[string]string{StorageProtocol: "<is> sometimes"})
	assert.Error(t, err)
}
