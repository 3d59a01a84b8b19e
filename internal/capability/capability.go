// Package capability describes optional subsystems resolved once at startup.
package capability

import (
	"fmt"

	"flowershop/internal/config"
)

// Set lists which optional subsystems this process may use.
type Set struct {
	PDF   bool
	Email bool
}

// Resolve derives the capability set from configuration.
func Resolve(cfg config.Config) Set {
	return Set{
		PDF:   cfg.ReceiptPDFEnabled,
		Email: cfg.SMTP.Configured(),
	}
}

func (s Set) String() string {
	return fmt.Sprintf("pdf=%t email=%t", s.PDF, s.Email)
}
