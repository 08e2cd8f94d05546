package tenant

import "github.com/zonoapp/workforce/internal"

type CreateTenantDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (dto CreateTenantDTO) Validate() error {
	if dto.Name == "" || dto.Slug == "" {
		return internal.NewValidationError("name and slug are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// SetFeaturesDTO maps feature keys to their desired state. Keys absent
// from the map keep their current value.
type SetFeaturesDTO struct {
	Features map[string]bool `json:"features"`
}

func (dto SetFeaturesDTO) Validate() error {
	if len(dto.Features) == 0 {
		return internal.NewValidationError("features must not be empty", internal.ErrCodeValidationFailed)
	}
	for key := range dto.Features {
		if key == "" {
			return internal.NewValidationError("feature keys must not be empty", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}
