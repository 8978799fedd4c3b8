package dto

import "github.com/yukikurage/task-tracker-api/internal/models"

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:   category.ID,
		Name: category.Name,
	}
}

func ToCategoryDTOs(categories []models.Category) []CategoryDTO {
	result := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		result[i] = ToCategoryDTO(category)
	}
	return result
}
