package service

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplatePremium  = errors.New("template requires a premium subscription")
)

// Template describes a public page layout. The catalog is static;
// premium templates are gated on the subscriber's entitlement.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PreviewURL  string `json:"preview_url"`
	IsPremium   bool   `json:"is_premium"`
}

const DefaultTemplateID = "island-minimal"

var templates = []*Template{
	{
		ID:          "island-minimal",
		Name:        "Island Minimal",
		Description: "Clean and simple, lets your links do the talking",
		PreviewURL:  "/templates/island-minimal.png",
		IsPremium:   false,
	},
	{
		ID:          "tropical-breeze",
		Name:        "Tropical Breeze",
		Description: "Soft gradients with a palm-leaf accent",
		PreviewURL:  "/templates/tropical-breeze.png",
		IsPremium:   true,
	},
	{
		ID:          "sunset-vibes",
		Name:        "Sunset Vibes",
		Description: "Warm oranges fading into dusk purple",
		PreviewURL:  "/templates/sunset-vibes.png",
		IsPremium:   true,
	},
	{
		ID:          "ocean-depths",
		Name:        "Ocean Depths",
		Description: "Deep blues with a subtle wave animation",
		PreviewURL:  "/templates/ocean-depths.png",
		IsPremium:   true,
	},
}

type TemplateService struct{}

func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

func (s *TemplateService) List() []*Template {
	return templates
}

func (s *TemplateService) Get(id string) (*Template, error) {
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, ErrTemplateNotFound
}

// ValidateForUser checks that the template exists and the user is
// entitled to it.
func (s *TemplateService) ValidateForUser(id string, isPremium bool) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	if t.IsPremium && !isPremium {
		return ErrTemplatePremium
	}
	return nil
}
