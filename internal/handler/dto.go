package handler

import (
	"time"

	"taskboard/internal/kanban"
)

type TaskResponse struct {
	ID           int64     `json:"id"`
	BoardID      int64     `json:"board_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CreationTime time.Time `json:"creation_time"`
	DueDate      time.Time `json:"due_date"`
	Assignee     string    `json:"assignee"`
	ColumnNumber int       `json:"column_number"`
}

type ColumnResponse struct {
	Number int            `json:"number"`
	Name   string         `json:"name"`
	Limit  int            `json:"limit"`
	Tasks  []TaskResponse `json:"tasks"`
}

type BoardResponse struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Owner   string   `json:"owner"`
	Members []string `json:"members"`
}

func toTaskResponse(t kanban.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		BoardID:      t.BoardID,
		Title:        t.Title,
		Description:  t.Description,
		CreationTime: t.CreationTime,
		DueDate:      t.DueDate,
		Assignee:     t.Assignee,
		ColumnNumber: t.ColumnNumber,
	}
}

func toTaskResponses(tasks []kanban.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toColumnResponse(c *kanban.Column) ColumnResponse {
	return ColumnResponse{
		Number: c.Number,
		Name:   c.Name(),
		Limit:  c.Limit(),
		Tasks:  toTaskResponses(c.Tasks()),
	}
}

func toBoardResponse(b *kanban.Board) BoardResponse {
	return BoardResponse{
		ID:      b.ID(),
		Name:    b.Name(),
		Owner:   b.Owner(),
		Members: b.Members(),
	}
}
