package utils

import "github.com/go-playground/validator/v10"

// Validate is the shared validator instance; main also installs it as the
// iris app validator so ctx.ReadJSON enforces the input struct tags.
var Validate = validator.New()
