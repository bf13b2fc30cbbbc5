package models

// Category maps a set of file extensions to a destination folder.
type Category struct {
	Extensions []string `toml:"extensions" json:"extensions" yaml:"extensions"`
	// FolderName defaults to the category key when empty.
	FolderName string `toml:"folder_name,omitempty" json:"folder_name,omitempty" yaml:"folder_name,omitempty"`
}
