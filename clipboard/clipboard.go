// Package clipboard writes command text to the system clipboard.
package clipboard

import "github.com/atotto/clipboard"

// Copier copies text to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
