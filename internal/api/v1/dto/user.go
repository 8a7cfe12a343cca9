package dto

// UserCreateDTO is used for incoming create requests
type UserCreateDTO struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Name     string  `json:"name" validate:"required"`
	Image    *string `json:"image,omitempty" validate:"omitnil,url"`
	Role     string  `json:"role,omitempty" validate:"omitempty,oneof=ADMIN TEACHER STUDENT"`
	AgentID  *string `json:"agentId,omitempty"`
}

// UserUpdateDTO is used for incoming update requests
type UserUpdateDTO struct {
	Email    *string `json:"email,omitempty" validate:"omitnil,email"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6"`
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Image    *string `json:"image,omitempty" validate:"omitnil,url"`
	Role     *string `json:"role,omitempty" validate:"omitnil,oneof=ADMIN TEACHER STUDENT"`
	AgentID  *string `json:"agentId,omitempty"`
}
