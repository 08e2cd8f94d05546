package employee

import "github.com/zonoapp/workforce/internal"

type CreateEmployeeDTO struct {
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	UserID *int64 `json:"user_id,omitempty"`
}

func (dto CreateEmployeeDTO) Validate() error {
	if dto.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateEmployeeDTO struct {
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	UserID *int64  `json:"user_id,omitempty"`
}
