package permissions

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

const pathSeparator = "/"

type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions returns the entry whose path template matches path. Literal segments win over
// {param} segments, so /v1/users/me resolves before /v1/users/{id}.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	segments := split(path)

	best := -1
	bestParams := 0

	for idx, endpoint := range r.Endpoints {
		if endpoint.Method != method {
			continue
		}

		params, ok := match(split(endpoint.Path), segments)
		if !ok {
			continue
		}

		if best == -1 || params < bestParams {
			best = idx
			bestParams = params
		}
	}

	if best == -1 {
		return Permission{}
	}

	return r.Endpoints[best]
}

func split(path string) []string {
	return strings.Split(strings.Trim(path, pathSeparator), pathSeparator)
}

func match(template, segments []string) (int, bool) {
	if len(template) != len(segments) {
		return 0, false
	}

	params := 0

	for idx, part := range template {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			if segments[idx] == "" {
				return 0, false
			}

			params++

			continue
		}

		if part != segments[idx] {
			return 0, false
		}
	}

	return params, true
}

func Get() *PermissionData {
	var permissions PermissionData

	err := json.Unmarshal(permissionsData, &permissions)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return &permissions
}
