package forms

import (
	"net/url"
	"strings"

	"github.com/mytheresa/catalog-web/models"
)

type CategoryForm struct {
	Name        string `form:"name" validate:"required,max=250"`
	Slug        string `form:"slug" validate:"required,max=250,slug"`
	Description string `form:"description" validate:"required,max=500"`
}

func DecodeCategory(values url.Values) CategoryForm {
	return CategoryForm{
		Name:        strings.TrimSpace(values.Get("name")),
		Slug:        strings.TrimSpace(values.Get("slug")),
		Description: strings.TrimSpace(values.Get("description")),
	}
}

// CategoryFormFrom pre-fills the form with an existing category.
func CategoryFormFrom(c *models.Category) CategoryForm {
	return CategoryForm{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

func (f CategoryForm) Validate() Errors {
	return check(f)
}

func (f CategoryForm) Apply(c *models.Category) {
	c.Name = f.Name
	c.Slug = f.Slug
	c.Description = f.Description
}
