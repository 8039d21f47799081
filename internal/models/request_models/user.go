package request_models

import "linkbio/pkg/utils"

type UpdateProfileRequest struct {
	Name  utils.Optional[string] `json:"name"`
	Image utils.Optional[string] `json:"image"`
}

type UpdateEmailRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewEmail        string `json:"newEmail" binding:"required,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}
