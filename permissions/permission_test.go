package permissions_test

import (
	"net/http"
	"strings"
	"testing"
	"voyage/permissions"
	"voyage/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_EmbeddedTable(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	known := []string{constant.RoleAdmin, constant.RoleOps, constant.RoleCustomer, constant.RoleSystem}
	seen := map[string]bool{}

	for _, endpoint := range data.Endpoints {
		key := endpoint.Method + " " + endpoint.Path

		assert.False(t, seen[key], "duplicate entry %s", key)
		seen[key] = true

		assert.True(t, strings.HasPrefix(endpoint.Path, "/v1/"), key)

		if endpoint.Skip {
			continue
		}

		assert.NotEmpty(t, endpoint.Permissions, "%s must name its roles", key)

		for _, role := range endpoint.Permissions {
			assert.Contains(t, known, role, key)
		}
	}
}

func TestGet_AdminRoutesExcludeCustomers(t *testing.T) {
	data := permissions.Get()

	for _, endpoint := range data.Endpoints {
		if strings.HasPrefix(endpoint.Path, "/v1/admin/") {
			assert.False(t, endpoint.Allows(constant.RoleCustomer), endpoint.Path)
		}
	}
}

func TestFindPermissions(t *testing.T) {
	data, err := permissions.Parse([]byte(`{"endpoints":[
		{"path":"/v1/x","method":"GET","permissions":["admin"]},
		{"path":"/v1/x","method":"GET","permissions":["customer"]},
		{"path":"/v1/open","method":"GET","permissions":[]}
	]}`))
	require.NoError(t, err)

	first := data.FindPermissions("/v1/x", http.MethodGet)
	assert.True(t, first.Allows(constant.RoleAdmin))
	assert.False(t, first.Allows(constant.RoleCustomer))

	assert.True(t, data.FindPermissions("/v1/open", http.MethodGet).Allows(constant.RoleCustomer))
	assert.Equal(t, permissions.Permission{}, data.FindPermissions("/v1/x", http.MethodPost))
}

func TestParse_Invalid(t *testing.T) {
	_, err := permissions.Parse([]byte(`{"endpoints":`))

	assert.Error(t, err)
}
