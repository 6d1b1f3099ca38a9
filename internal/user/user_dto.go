package user

type CreateUserRequest struct {
	EmployeeID   string `json:"employeeId" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"omitempty,oneof=ADMIN USER"`
	DepartmentID string `json:"departmentId" binding:"required,uuid"`
}

// UpdateUserRequest is a partial update. Absent fields keep their current
// value; role and department changes are restricted to administrators.
type UpdateUserRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Password     *string `json:"password" binding:"omitempty,min=8"`
	Role         *string `json:"role" binding:"omitempty,oneof=ADMIN USER"`
	DepartmentID *string `json:"departmentId" binding:"omitempty,uuid"`
}

type ListUsersQuery struct {
	DepartmentID string
	Role         string
	Search       string
	Page         int
	Limit        int
}

type DepartmentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID           string         `json:"id"`
	EmployeeID   string         `json:"employeeId"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	DepartmentID string         `json:"departmentId"`
	Department   *DepartmentRef `json:"department,omitempty"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
}
