package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"codebox/internal/entity"
)

type CreateSnippetRequest struct {
	Code         string `json:"code"`
	CodeLanguage string `json:"codeLanguage" validate:"omitempty,max=64"`
	Title        string `json:"title" validate:"omitempty,max=255"`
	Description  string `json:"description"`
	Username     string `json:"username" validate:"omitempty,max=100"`
}

type UpdateSnippetRequest struct {
	Code        *string `json:"code"`
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

func (r UpdateSnippetRequest) ToEntity() entity.SnippetUpdate {
	return entity.SnippetUpdate{
		Code:        r.Code,
		Title:       r.Title,
		Description: r.Description,
	}
}

type SnippetResponse struct {
	ID           string    `json:"_id"`
	Code         string    `json:"code"`
	CodeLanguage string    `json:"codeLanguage"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	User         *string   `json:"user"`
	Username     string    `json:"username"`
	IsDeleted    bool      `json:"isDeleted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func SnippetResponseFromEntity(snippet *entity.Snippet) SnippetResponse {
	return SnippetResponse{
		ID:           snippet.ID,
		Code:         snippet.Code,
		CodeLanguage: snippet.CodeLanguage,
		Title:        snippet.Title,
		Description:  snippet.Description,
		User:         snippet.OwnerUserID,
		Username:     snippet.OwnerUsername,
		IsDeleted:    snippet.IsDeleted,
		CreatedAt:    snippet.CreatedAt,
		UpdatedAt:    snippet.UpdatedAt,
	}
}

func SnippetResponsePtr(snippet *entity.Snippet) *SnippetResponse {
	if snippet == nil {
		return nil
	}
	response := SnippetResponseFromEntity(snippet)
	return &response
}

func SnippetResponsesFromEntities(snippets []entity.Snippet) []SnippetResponse {
	responses := make([]SnippetResponse, 0, len(snippets))
	for i := range snippets {
		responses = append(responses, SnippetResponseFromEntity(&snippets[i]))
	}
	return responses
}

type SnippetGroup struct {
	Username string
	Snippets []SnippetResponse
}

// GroupedSnippets marshals as a JSON object whose keys keep slice order.
type GroupedSnippets []SnippetGroup

func (g GroupedSnippets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Username)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(group.Snippets)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
