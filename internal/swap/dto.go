package swap

import "github.com/zonoapp/workforce/internal"

// RequestSwapDTO asks to transfer a shift's assignment to another
// employee in the same tenant.
type RequestSwapDTO struct {
	ToEmployeeID int64   `json:"to_employee_id"`
	Reason       *string `json:"reason,omitempty"`
}

func (dto RequestSwapDTO) Validate() error {
	if dto.ToEmployeeID <= 0 {
		return internal.NewValidationError("to_employee_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
