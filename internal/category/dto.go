// AngelaMos | 2026
// dto.go

package category

type CategoryRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description"`
}
