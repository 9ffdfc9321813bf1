package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "volunteerhub_backend/internals/helpers"
)

func ptr(s string) *string { return &s }

func TestHolderInfoNormalizeAndKey(t *testing.T) {
	h := HolderInfo{FirstName: "  Ann ", LastName: " Lee", Email: ptr(" Ann.Lee@Example.ORG "), Phone: ptr("06 12-34.56 78")}
	h.Normalize()
	assert.Equal(t, "Ann", h.FirstName)
	assert.Equal(t, "Lee", h.LastName)
	assert.Equal(t, "ann.lee@example.org", *h.Email)
	assert.Equal(t, "0612345678", *h.Phone)
	assert.Equal(t, "ann.lee@example.org", h.HolderKey())

	phoneOnly := HolderInfo{FirstName: "B", LastName: "C", Email: ptr("   "), Phone: ptr("(061) 234-5678")}
	phoneOnly.Normalize()
	assert.Nil(t, phoneOnly.Email)
	assert.Equal(t, "0612345678", phoneOnly.HolderKey())

	assert.Empty(t, HolderInfo{}.HolderKey())
}

func TestRegisterRequestValidation(t *testing.T) {
	v := helper.NewValidator()

	ok := RegisterRequest{HolderInfo: HolderInfo{FirstName: "A", LastName: "B", Phone: ptr("06 12 34 56 78")}, Status: " Present "}
	ok.Normalize()
	require.NoError(t, v.Struct(&ok))
	assert.Equal(t, "present", ok.Status)

	cases := map[string]RegisterRequest{
		"no contact":  {HolderInfo: HolderInfo{FirstName: "A", LastName: "B"}, Status: "present"},
		"bad email":   {HolderInfo: HolderInfo{FirstName: "A", LastName: "B", Email: ptr("nope")}, Status: "present"},
		"short phone": {HolderInfo: HolderInfo{FirstName: "A", LastName: "B", Phone: ptr("12345")}, Status: "present"},
		"bad status":  {HolderInfo: HolderInfo{FirstName: "A", LastName: "B", Email: ptr("a@b.co")}, Status: "maybe"},
		"no name":     {HolderInfo: HolderInfo{Email: ptr("a@b.co")}, Status: "absent"},
	}
	for name, req := range cases {
		req.Normalize()
		assert.Error(t, v.Struct(&req), name)
	}
}
