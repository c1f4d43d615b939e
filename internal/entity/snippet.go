package entity

import "time"

// Snippet is a stored code entry. OwnerUsername is copied from the owner at
// creation time and is not updated when the owner renames.
type Snippet struct {
	ID            string  `gorm:"type:uuid;primaryKey" bson:"_id"`
	Code          string  `gorm:"type:text" bson:"code"`
	CodeLanguage  string  `gorm:"type:varchar(64)" bson:"codeLanguage"`
	Title         string  `gorm:"type:varchar(255)" bson:"title"`
	Description   string  `gorm:"type:text" bson:"description"`
	OwnerUserID   *string `gorm:"column:user_id;type:uuid;index" bson:"user,omitempty"`
	Owner         *User   `gorm:"foreignKey:OwnerUserID;constraint:OnDelete:SET NULL" bson:"-"`
	OwnerUsername string  `gorm:"column:username;type:varchar(100)" bson:"username"`

	IsDeleted bool `gorm:"default:false;not null;index" bson:"isDeleted"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type SnippetUpdate struct {
	Code        *string
	Title       *string
	Description *string
}

func (u SnippetUpdate) Columns() map[string]any {
	columns := map[string]any{}
	if u.Code != nil {
		columns["code"] = *u.Code
	}
	if u.Title != nil {
		columns["title"] = *u.Title
	}
	if u.Description != nil {
		columns["description"] = *u.Description
	}
	return columns
}

func (u SnippetUpdate) Apply(snippet *Snippet) {
	if u.Code != nil {
		snippet.Code = *u.Code
	}
	if u.Title != nil {
		snippet.Title = *u.Title
	}
	if u.Description != nil {
		snippet.Description = *u.Description
	}
}
