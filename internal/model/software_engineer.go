// Package model holds the domain records persisted by the service.
package model

import "fmt"

// SoftwareEngineer is the only entity of the service.
//
// ID is generated by the store on insert and never changes afterwards; the
// zero value means the record has not been saved yet. TechStack is free-form
// text (usually comma separated skills) and is never parsed.
type SoftwareEngineer struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	TechStack string `json:"techStack" db:"tech_stack"`
}

// IsNew reports whether the record still lacks a store-assigned id.
func (e SoftwareEngineer) IsNew() bool {
	return e.ID == 0
}

// NotFoundError reports that no software engineer exists with ID.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("software engineer %d not found", e.ID)
}
