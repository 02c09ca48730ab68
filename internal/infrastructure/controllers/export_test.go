package controllers

import (
	"errors"

	"github.com/rios0rios0/rangebump/internal/domain/commands"
)

// NewCheckControllerWithoutConfig builds a controller that never auto-detects a config file.
func NewCheckControllerWithoutConfig(command commands.Check) *CheckController {
	c := NewCheckController(command)
	c.findConfig = func() (string, error) { return "", errors.New("no config") }
	return c
}
