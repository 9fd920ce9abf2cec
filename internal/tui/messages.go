package tui

import "github.com/sophistic/Quack/internal/models"

// submitResultMsg carries the outcome of a completion round-trip
type submitResultMsg struct {
	resp *models.SubmitResponse
	err  error
}
