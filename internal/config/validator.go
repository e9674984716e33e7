package config

import "github.com/go-playground/validator/v10"

var v = validator.New()

func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	return c.QR.Validate()
}
