package config

const (
	// MaxRequestBodyBytes bounds JSON request bodies. Folder requests only
	// carry a name and a parent id.
	MaxRequestBodyBytes = 1 << 20
)
