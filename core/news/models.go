package news

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasa-app/darasa/core"
)

// News is a school-wide or group-targeted announcement.
type News struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID string `json:"author_id"`
	// TargetGroups limits visibility to the named study groups; empty means
	// everyone.
	TargetGroups []string `json:"target_groups,omitempty"`

	// AuthorName is populated by read paths (join against users); never stored.
	AuthorName string `json:"author_name,omitempty"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewNews contains information needed to publish an announcement.
type NewNews struct {
	Title        string   `json:"title" validate:"required"`
	Content      string   `json:"content" validate:"required"`
	TargetGroups []string `json:"target_groups" validate:"omitempty,dive,required"`
}

func (nn *NewNews) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Content = core.CleanString(nn.Content)
	for i, g := range nn.TargetGroups {
		nn.TargetGroups[i] = core.CleanString(g)
	}
	return validate.Struct(nn)
}
