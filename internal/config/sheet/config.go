// Package sheet provides configuration for the product sheet a run reads.
package sheet

import "errors"

// Default configuration values
const (
	DefaultPath         = "products.csv"
	DefaultNameColumn   = "PRODUCTO"
	DefaultURLColumn    = "URL"
	DefaultStatusColumn = "ARCHIVOJSON"
)

// Config describes where the product sheet lives and how its columns are named.
type Config struct {
	// Path is the CSV file holding one product per row
	Path string `mapstructure:"path" yaml:"path"`
	// NameColumn is the header of the product name column
	NameColumn string `mapstructure:"name_column" yaml:"name_column"`
	// URLColumn is the header of the product URL column
	URLColumn string `mapstructure:"url_column" yaml:"url_column"`
	// StatusColumn is the header of the column receiving each product's outcome
	StatusColumn string `mapstructure:"status_column" yaml:"status_column"`
	// WriteStatus enables writing outcomes back into the sheet
	WriteStatus bool `mapstructure:"write_status" yaml:"write_status"`
}

// NewConfig returns the default sheet configuration.
func NewConfig() Config {
	return Config{
		Path:         DefaultPath,
		NameColumn:   DefaultNameColumn,
		URLColumn:    DefaultURLColumn,
		StatusColumn: DefaultStatusColumn,
		WriteStatus:  true,
	}
}

// WithDefaults fills unset column names and path.
func (c Config) WithDefaults() Config {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.NameColumn == "" {
		c.NameColumn = DefaultNameColumn
	}
	if c.URLColumn == "" {
		c.URLColumn = DefaultURLColumn
	}
	if c.StatusColumn == "" {
		c.StatusColumn = DefaultStatusColumn
	}
	return c
}

// Validate checks the sheet configuration.
func (c Config) Validate() error {
	if c.NameColumn != "" && c.NameColumn == c.URLColumn {
		return errors.New("name_column and url_column must differ")
	}
	if c.StatusColumn != "" && (c.StatusColumn == c.URLColumn || c.StatusColumn == c.NameColumn) {
		return errors.New("status_column must not overwrite an input column")
	}
	return nil
}
