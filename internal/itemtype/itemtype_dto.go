package itemtype

type CreateItemTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateItemTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

type ListItemTypesQuery struct {
	Search string
	Page   int
	Limit  int
}

type ItemTypeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
