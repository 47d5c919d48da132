package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one chi route pattern. Skip marks a
// public route that needs no token at all.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route. A route with no roles is
// open to any authenticated caller.
func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	once  sync.Once
	index map[string]Permission
}

func routeKey(method, path string) string {
	return method + " " + path
}

// FindPermissions returns the zero Permission for routes missing from the table.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	r.once.Do(r.buildIndex)

	return r.index[routeKey(method, path)]
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, duplicate := r.index[key]; duplicate {
			log.Warn().Str("route", key).Msg("duplicate permission entry, keeping the first")

			continue
		}

		r.index[key] = endpoint
	}
}

func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, err //nolint:wrapcheck
	}

	permissions.once.Do(permissions.buildIndex)

	return &permissions, nil
}

func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to decode embedded permissions")
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("loaded route permissions")

	return permissions
}
